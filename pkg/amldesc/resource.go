// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package amldesc

import (
	"fmt"
	"strings"

	"github.com/linuxboot/amlgen/pkg/aml"
)

// Resource is one descriptor of a ResourceTemplate. Exactly one field must
// be set.
type Resource struct {
	IRQ           *IRQ           `yaml:"irq,omitempty"`
	IRQNoFlags    *IRQNoFlags    `yaml:"irqnoflags,omitempty"`
	DMA           *DMA           `yaml:"dma,omitempty"`
	IO            *IO            `yaml:"io,omitempty"`
	FixedIO       *FixedIO       `yaml:"fixedio,omitempty"`
	Memory32Fixed *Memory32Fixed `yaml:"memory32fixed,omitempty"`
	Memory32      *Memory32      `yaml:"memory32,omitempty"`
	Interrupt     *Interrupt     `yaml:"interrupt,omitempty"`
	Register      *Register      `yaml:"register,omitempty"`
	WordBusNumber *Address       `yaml:"wordbusnumber,omitempty"`
	WordIO        *Address       `yaml:"wordio,omitempty"`
	DWordIO       *Address       `yaml:"dwordio,omitempty"`
	QWordIO       *Address       `yaml:"qwordio,omitempty"`
	DWordMemory   *Address       `yaml:"dwordmemory,omitempty"`
	QWordMemory   *Address       `yaml:"qwordmemory,omitempty"`
}

func (r *Resource) descriptors() []string {
	var set []string
	add := func(key string, ok bool) {
		if ok {
			set = append(set, key)
		}
	}
	add("irq", r.IRQ != nil)
	add("irqnoflags", r.IRQNoFlags != nil)
	add("dma", r.DMA != nil)
	add("io", r.IO != nil)
	add("fixedio", r.FixedIO != nil)
	add("memory32fixed", r.Memory32Fixed != nil)
	add("memory32", r.Memory32 != nil)
	add("interrupt", r.Interrupt != nil)
	add("register", r.Register != nil)
	add("wordbusnumber", r.WordBusNumber != nil)
	add("wordio", r.WordIO != nil)
	add("dwordio", r.DWordIO != nil)
	add("qwordio", r.QWordIO != nil)
	add("dwordmemory", r.DWordMemory != nil)
	add("qwordmemory", r.QWordMemory != nil)
	return set
}

// InterruptFlags are written as mode: level|edge, polarity: high|low,
// sharing: exclusive|shared and wake: true.
type InterruptFlags struct {
	Mode     string `yaml:"mode"`
	Polarity string `yaml:"polarity"`
	Sharing  string `yaml:"sharing"`
	Wake     bool   `yaml:"wake"`
}

var (
	interruptModes = map[string]aml.InterruptMode{"": aml.LevelTriggered, "level": aml.LevelTriggered, "edge": aml.EdgeTriggered}
	polarities     = map[string]aml.Polarity{"": aml.ActiveHigh, "high": aml.ActiveHigh, "low": aml.ActiveLow}
	sharings       = map[string]aml.Sharing{"": aml.Exclusive, "exclusive": aml.Exclusive, "shared": aml.Shared}
	dmaSpeeds      = map[string]aml.DMASpeed{"": aml.Compatibility, "compatibility": aml.Compatibility, "typea": aml.TypeA, "typeb": aml.TypeB, "typef": aml.TypeF}
	dmaTransfers   = map[string]aml.DMATransfer{"": aml.Transfer8, "transfer8": aml.Transfer8, "transfer8_16": aml.Transfer8_16, "transfer16": aml.Transfer16}
	ioDecodes      = map[string]aml.IODecode{"": aml.Decode16, "decode16": aml.Decode16, "decode10": aml.Decode10}
	accessSizes    = map[string]aml.AccessSize{"": aml.UndefinedAccess, "undefined": aml.UndefinedAccess, "byte": aml.ByteAccess, "word": aml.WordAccess, "dword": aml.DWordAccess, "qword": aml.QWordAccess}
	cacheTypes     = map[string]aml.Cacheability{"": aml.NonCacheable, "noncacheable": aml.NonCacheable, "cacheable": aml.Cacheable, "writecombining": aml.WriteCombining, "prefetchable": aml.Prefetchable}
	memoryTypes    = map[string]aml.MemoryType{"": aml.AddressRangeMemory, "memory": aml.AddressRangeMemory, "reserved": aml.AddressRangeReserved, "acpi": aml.AddressRangeACPI, "nvs": aml.AddressRangeNVS}
	isaRanges      = map[string]aml.ISARanges{"": aml.EntireRange, "entire": aml.EntireRange, "nonisaonly": aml.NonISAOnly, "isaonly": aml.ISAOnly}
)

func (f InterruptFlags) resolve() (aml.InterruptFlags, error) {
	mode, err := lookup("interrupt mode", f.Mode, interruptModes)
	if err != nil {
		return aml.InterruptFlags{}, err
	}
	polarity, err := lookup("interrupt polarity", f.Polarity, polarities)
	if err != nil {
		return aml.InterruptFlags{}, err
	}
	sharing, err := lookup("interrupt sharing", f.Sharing, sharings)
	if err != nil {
		return aml.InterruptFlags{}, err
	}
	return aml.InterruptFlags{Mode: mode, Polarity: polarity, Sharing: sharing, Wake: f.Wake}, nil
}

// IRQ is an IRQ descriptor with flags.
type IRQ struct {
	InterruptFlags `yaml:",inline"`
	IRQs           []int `yaml:"irqs"`
}

// IRQNoFlags is an IRQ descriptor without flags.
type IRQNoFlags struct {
	IRQs []int `yaml:"irqs"`
}

// DMA is a DMA channel descriptor.
type DMA struct {
	Speed     string `yaml:"speed"`
	BusMaster bool   `yaml:"busmaster"`
	Transfer  string `yaml:"transfer"`
	Channels  []int  `yaml:"channels"`
}

// IO is an IO port range descriptor. Decode defaults to decode16.
type IO struct {
	Decode string `yaml:"decode"`
	Min    uint16 `yaml:"min"`
	Max    uint16 `yaml:"max"`
	Align  uint8  `yaml:"align"`
	Length uint8  `yaml:"length"`
}

// FixedIO is a fixed IO port range descriptor.
type FixedIO struct {
	Base   uint16 `yaml:"base"`
	Length uint8  `yaml:"length"`
}

// Memory32Fixed is a fixed 32-bit memory range descriptor.
type Memory32Fixed struct {
	ReadWrite bool   `yaml:"readwrite"`
	Base      uint32 `yaml:"base"`
	Length    uint32 `yaml:"length"`
}

// Memory32 is a relocatable 32-bit memory range descriptor.
type Memory32 struct {
	ReadWrite bool   `yaml:"readwrite"`
	Min       uint32 `yaml:"min"`
	Max       uint32 `yaml:"max"`
	Align     uint32 `yaml:"align"`
	Length    uint32 `yaml:"length"`
}

// Interrupt is an Extended Interrupt descriptor.
type Interrupt struct {
	Consumer       bool `yaml:"consumer"`
	InterruptFlags `yaml:",inline"`
	IRQs           []uint32 `yaml:"irqs"`
}

// Register is a Generic Register descriptor.
type Register struct {
	Space      string `yaml:"space"`
	BitWidth   uint8  `yaml:"bitwidth"`
	BitOffset  uint8  `yaml:"bitoffset"`
	Address    uint64 `yaml:"address"`
	AccessSize string `yaml:"accesssize"`
}

// Address is a Word, DWord or QWord address space descriptor. The memory
// flags apply to the memory descriptors, the IO flags to the IO ones.
type Address struct {
	Consumer    bool   `yaml:"consumer"`
	Subtractive bool   `yaml:"subtractive"`
	MinFixed    bool   `yaml:"minfixed"`
	MaxFixed    bool   `yaml:"maxfixed"`
	Granularity uint64 `yaml:"granularity"`
	Min         uint64 `yaml:"min"`
	Max         uint64 `yaml:"max"`
	Translation uint64 `yaml:"translation"`
	Length      uint64 `yaml:"length"`

	ReadWrite bool   `yaml:"readwrite"`
	Cache     string `yaml:"cache"`
	Type      string `yaml:"type"`

	Ranges            string `yaml:"ranges"`
	TypeTranslation   bool   `yaml:"typetranslation"`
	SparseTranslation bool   `yaml:"sparsetranslation"`
}

func (a *Address) space() aml.AddressSpace {
	return aml.AddressSpace{
		Consumer:    a.Consumer,
		Subtractive: a.Subtractive,
		MinFixed:    a.MinFixed,
		MaxFixed:    a.MaxFixed,
		Granularity: a.Granularity,
		Min:         a.Min,
		Max:         a.Max,
		Translation: a.Translation,
		Length:      a.Length,
	}
}

func (a *Address) memoryFlags() (aml.MemoryFlags, error) {
	cache, err := lookup("cacheability", a.Cache, cacheTypes)
	if err != nil {
		return aml.MemoryFlags{}, err
	}
	memType, err := lookup("memory type", a.Type, memoryTypes)
	if err != nil {
		return aml.MemoryFlags{}, err
	}
	return aml.MemoryFlags{ReadWrite: a.ReadWrite, Cache: cache, Type: memType, TypeTranslation: a.TypeTranslation}, nil
}

func (a *Address) ioFlags() (aml.IOFlags, error) {
	ranges, err := lookup("ISA ranges", a.Ranges, isaRanges)
	if err != nil {
		return aml.IOFlags{}, err
	}
	return aml.IOFlags{Ranges: ranges, TypeTranslation: a.TypeTranslation, SparseTranslation: a.SparseTranslation}, nil
}

func (b *builder) resourceTemplate(path string, rs []*Resource) error {
	bs, err := b.l.OpenResourceTemplate()
	if err != nil {
		return wrap(path, err)
	}
	for i, r := range rs {
		if err := b.resource(r); err != nil {
			return wrap(fmt.Sprintf("%s[%d]", path, i), err)
		}
	}
	return wrap(path, bs.Close(0))
}

func (b *builder) resource(r *Resource) error {
	if r == nil {
		return fmt.Errorf("%w: missing resource", aml.ErrInvalidInput)
	}
	kinds := r.descriptors()
	if len(kinds) != 1 {
		return fmt.Errorf("%w: a resource needs exactly one descriptor key, got [%s]",
			aml.ErrInvalidInput, strings.Join(kinds, " "))
	}
	l := b.l

	switch kinds[0] {
	case "irq":
		flags, err := r.IRQ.resolve()
		if err != nil {
			return err
		}
		irqs, err := byteList(r.IRQ.IRQs)
		if err != nil {
			return err
		}
		return l.IRQ(flags, irqs...)
	case "irqnoflags":
		irqs, err := byteList(r.IRQNoFlags.IRQs)
		if err != nil {
			return err
		}
		return l.IRQNoFlags(irqs...)
	case "dma":
		speed, err := lookup("DMA speed", r.DMA.Speed, dmaSpeeds)
		if err != nil {
			return err
		}
		xfer, err := lookup("DMA transfer", r.DMA.Transfer, dmaTransfers)
		if err != nil {
			return err
		}
		channels, err := byteList(r.DMA.Channels)
		if err != nil {
			return err
		}
		return l.DMA(speed, r.DMA.BusMaster, xfer, channels...)
	case "io":
		decode, err := lookup("IO decode", r.IO.Decode, ioDecodes)
		if err != nil {
			return err
		}
		return l.IO(decode, r.IO.Min, r.IO.Max, r.IO.Align, r.IO.Length)
	case "fixedio":
		return l.FixedIO(r.FixedIO.Base, r.FixedIO.Length)
	case "memory32fixed":
		m := r.Memory32Fixed
		return l.Memory32Fixed(m.ReadWrite, m.Base, m.Length)
	case "memory32":
		m := r.Memory32
		return l.Memory32(m.ReadWrite, m.Min, m.Max, m.Align, m.Length)
	case "interrupt":
		flags, err := r.Interrupt.resolve()
		if err != nil {
			return err
		}
		return l.Interrupt(r.Interrupt.Consumer, flags, r.Interrupt.IRQs...)
	case "register":
		g := r.Register
		space, err := regionSpace(g.Space)
		if err != nil {
			return err
		}
		size, err := lookup("access size", g.AccessSize, accessSizes)
		if err != nil {
			return err
		}
		return l.Register(space, g.BitWidth, g.BitOffset, g.Address, size)
	case "wordbusnumber":
		return l.WordBusNumber(r.WordBusNumber.space())
	case "wordio", "dwordio", "qwordio":
		a, emit := r.WordIO, l.WordIO
		switch kinds[0] {
		case "dwordio":
			a, emit = r.DWordIO, l.DWordIO
		case "qwordio":
			a, emit = r.QWordIO, l.QWordIO
		}
		flags, err := a.ioFlags()
		if err != nil {
			return err
		}
		return emit(a.space(), flags)
	case "dwordmemory", "qwordmemory":
		a, emit := r.DWordMemory, l.DWordMemory
		if kinds[0] == "qwordmemory" {
			a, emit = r.QWordMemory, l.QWordMemory
		}
		flags, err := a.memoryFlags()
		if err != nil {
			return err
		}
		return emit(a.space(), flags)
	}
	return fmt.Errorf("%w: descriptor %q not handled", aml.ErrInvariantViolation, kinds[0])
}
