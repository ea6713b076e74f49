// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aml

import (
	"encoding/binary"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Resource types of the address space descriptors.
const (
	memoryRange    = 0
	ioRange        = 1
	busNumberRange = 2
)

// AddressSpace holds the fields common to the Word, DWord and QWord address
// space descriptors.
type AddressSpace struct {
	// Consumer marks a range consumed by the device rather than produced
	// for its children.
	Consumer    bool
	Subtractive bool
	MinFixed    bool
	MaxFixed    bool

	Granularity uint64
	Min         uint64
	Max         uint64
	Translation uint64
	Length      uint64
}

func (a AddressSpace) generalFlags() byte {
	var b byte
	if a.Consumer {
		b |= 1 << 0
	}
	if a.Subtractive {
		b |= 1 << 1
	}
	if a.MinFixed {
		b |= 1 << 2
	}
	if a.MaxFixed {
		b |= 1 << 3
	}
	return b
}

func (a AddressSpace) validate(bytes int, result *multierror.Error) *multierror.Error {
	limit := ^uint64(0)
	if bytes < 8 {
		limit = 1<<(8*uint(bytes)) - 1
	}
	for _, f := range []struct {
		name  string
		value uint64
	}{
		{"granularity", a.Granularity},
		{"minimum", a.Min},
		{"maximum", a.Max},
		{"translation", a.Translation},
		{"length", a.Length},
	} {
		if f.value > limit {
			result = multierror.Append(result, &IntegerWidthError{Value: f.value, Width: bytes})
		}
	}
	if a.Min > a.Max {
		result = multierror.Append(result, fmt.Errorf("minimum %#x above maximum %#x", a.Min, a.Max))
		return result
	}
	span := a.Max - a.Min + 1
	switch {
	case a.Length == 0:
	case a.Max-a.Min == ^uint64(0):
	case a.Length > span:
		result = multierror.Append(result, fmt.Errorf("length %#x exceeds range %#x-%#x", a.Length, a.Min, a.Max))
	case a.MinFixed && a.MaxFixed && a.Length != span:
		result = multierror.Append(result, fmt.Errorf("fixed range %#x-%#x needs length %#x, not %#x", a.Min, a.Max, span, a.Length))
	}
	return result
}

// Cacheability is the cache type of a memory range.
type Cacheability uint8

// Cache types.
const (
	NonCacheable Cacheability = iota
	Cacheable
	WriteCombining
	Prefetchable
)

// MemoryType is the kind of memory a range maps.
type MemoryType uint8

// Memory types.
const (
	AddressRangeMemory MemoryType = iota
	AddressRangeReserved
	AddressRangeACPI
	AddressRangeNVS
)

// MemoryFlags are the type specific flags of a memory range.
type MemoryFlags struct {
	ReadWrite bool
	Cache     Cacheability
	Type      MemoryType
	// TypeTranslation marks a range that is IO on the primary side.
	TypeTranslation bool
}

func (f MemoryFlags) encode(result *multierror.Error) (byte, *multierror.Error) {
	if f.Cache > Prefetchable {
		result = multierror.Append(result, fmt.Errorf("cacheability %d out of range", f.Cache))
	}
	if f.Type > AddressRangeNVS {
		result = multierror.Append(result, fmt.Errorf("memory type %d out of range", f.Type))
	}
	b := byte(f.Cache)<<1 | byte(f.Type)<<3
	if f.ReadWrite {
		b |= 1
	}
	if f.TypeTranslation {
		b |= 1 << 5
	}
	return b, result
}

// ISARanges selects which ISA IO ranges an IO range covers.
type ISARanges uint8

// ISA range selections.
const (
	EntireRange ISARanges = 3
	NonISAOnly  ISARanges = 1
	ISAOnly     ISARanges = 2
)

// IOFlags are the type specific flags of an IO range.
type IOFlags struct {
	Ranges ISARanges
	// TypeTranslation marks a range that is memory on the primary side.
	TypeTranslation bool
	// SparseTranslation is only meaningful with TypeTranslation.
	SparseTranslation bool
}

func (f IOFlags) encode(result *multierror.Error) (byte, *multierror.Error) {
	if f.Ranges == 0 || f.Ranges > EntireRange {
		result = multierror.Append(result, fmt.Errorf("ISA range selection %d out of range", f.Ranges))
	}
	b := byte(f.Ranges) & 3
	if f.TypeTranslation {
		b |= 1 << 4
	}
	if f.SparseTranslation {
		b |= 1 << 5
	}
	return b, result
}

// addressDescriptor emits an address space descriptor whose numeric fields
// are bytes wide.
func (l *List) addressDescriptor(name string, bytes int, resType byte, typeFlags byte, a AddressSpace, result *multierror.Error) error {
	result = a.validate(bytes, result)
	if err := validationError(name, result); err != nil {
		return err
	}
	var tag byte
	switch bytes {
	case 2:
		tag = tagWordAddress
	case 4:
		tag = tagDWordAddress
	case 8:
		tag = tagQWordAddress
	default:
		return invariantf("%s: address width %d", name, bytes)
	}
	body := make([]byte, 3+5*bytes)
	body[0] = resType
	body[1] = a.generalFlags()
	body[2] = typeFlags
	for i, v := range []uint64{a.Granularity, a.Min, a.Max, a.Translation, a.Length} {
		out := body[3+i*bytes : 3+(i+1)*bytes]
		switch bytes {
		case 2:
			binary.LittleEndian.PutUint16(out, uint16(v))
		case 4:
			binary.LittleEndian.PutUint32(out, uint32(v))
		case 8:
			binary.LittleEndian.PutUint64(out, v)
		}
	}
	return l.emit(largeDescriptor(tag, body))
}

// WordBusNumber emits a Word Address Space descriptor for a bus number range.
func (l *List) WordBusNumber(a AddressSpace) error {
	if err := l.requireBuffer("WordBusNumber"); err != nil {
		return err
	}
	return l.addressDescriptor("WordBusNumber", 2, busNumberRange, 0, a, nil)
}

func (l *List) ioAddress(name string, bytes int, a AddressSpace, f IOFlags) error {
	if err := l.requireBuffer(name); err != nil {
		return err
	}
	flags, result := f.encode(nil)
	return l.addressDescriptor(name, bytes, ioRange, flags, a, result)
}

func (l *List) memoryAddress(name string, bytes int, a AddressSpace, f MemoryFlags) error {
	if err := l.requireBuffer(name); err != nil {
		return err
	}
	flags, result := f.encode(nil)
	return l.addressDescriptor(name, bytes, memoryRange, flags, a, result)
}

// WordIO emits a Word Address Space descriptor for an IO range.
func (l *List) WordIO(a AddressSpace, f IOFlags) error {
	return l.ioAddress("WordIO", 2, a, f)
}

// DWordIO emits a DWord Address Space descriptor for an IO range.
func (l *List) DWordIO(a AddressSpace, f IOFlags) error {
	return l.ioAddress("DWordIO", 4, a, f)
}

// QWordIO emits a QWord Address Space descriptor for an IO range.
func (l *List) QWordIO(a AddressSpace, f IOFlags) error {
	return l.ioAddress("QWordIO", 8, a, f)
}

// DWordMemory emits a DWord Address Space descriptor for a memory range.
func (l *List) DWordMemory(a AddressSpace, f MemoryFlags) error {
	return l.memoryAddress("DWordMemory", 4, a, f)
}

// QWordMemory emits a QWord Address Space descriptor for a memory range.
func (l *List) QWordMemory(a AddressSpace, f MemoryFlags) error {
	return l.memoryAddress("QWordMemory", 8, a, f)
}
