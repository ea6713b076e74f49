// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aml

import (
	"encoding/binary"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Resource descriptor tags, ACPI 6.5 section 6.4.
const (
	tagIRQ           = 0x22 // small, length 2 or 3
	tagDMA           = 0x2a
	tagIO            = 0x47
	tagFixedIO       = 0x4b
	tagEnd           = 0x79
	tagRegister      = 0x82
	tagMemory32      = 0x85
	tagMemory32Fixed = 0x86
	tagDWordAddress  = 0x87
	tagWordAddress   = 0x88
	tagExtendedIRQ   = 0x89
	tagQWordAddress  = 0x8a
)

func endTag() []byte {
	// A zero checksum means the template is treated as valid.
	return []byte{tagEnd, 0x00}
}

// requireBuffer fails unless the innermost open scope is a Buffer.
func (l *List) requireBuffer(descriptor string) error {
	if err := l.check(); err != nil {
		return err
	}
	in := l.innermost()
	if in == nil || (in.construct != constructBuffer && in.construct != constructResourceTemplate) {
		return invariantf("%s descriptor must be emitted inside a Buffer or ResourceTemplate", descriptor)
	}
	return nil
}

// validationError bundles several descriptor parameter errors.
func validationError(descriptor string, result *multierror.Error) error {
	if result.ErrorOrNil() == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrInvalidInput, descriptor, result)
}

// InterruptMode selects level or edge triggering.
type InterruptMode uint8

// Interrupt modes.
const (
	LevelTriggered InterruptMode = iota
	EdgeTriggered
)

// Polarity selects the active level of an interrupt.
type Polarity uint8

// Polarities.
const (
	ActiveHigh Polarity = iota
	ActiveLow
)

// Sharing tells whether an interrupt may be shared.
type Sharing uint8

// Sharing values.
const (
	Exclusive Sharing = iota
	Shared
)

// InterruptFlags are the flags of the IRQ and Interrupt descriptors.
type InterruptFlags struct {
	Mode     InterruptMode
	Polarity Polarity
	Sharing  Sharing
	Wake     bool
}

func (f InterruptFlags) validate(result *multierror.Error) *multierror.Error {
	if f.Mode > EdgeTriggered {
		result = multierror.Append(result, fmt.Errorf("interrupt mode %d out of range", f.Mode))
	}
	if f.Polarity > ActiveLow {
		result = multierror.Append(result, fmt.Errorf("interrupt polarity %d out of range", f.Polarity))
	}
	if f.Sharing > Shared {
		result = multierror.Append(result, fmt.Errorf("interrupt sharing %d out of range", f.Sharing))
	}
	return result
}

func irqMask(irqs []uint8, limit uint8, result *multierror.Error) (uint16, *multierror.Error) {
	var mask uint16
	for _, irq := range irqs {
		if irq >= limit {
			result = multierror.Append(result, fmt.Errorf("number %d out of range 0..%d", irq, limit-1))
			continue
		}
		mask |= 1 << irq
	}
	return mask, result
}

// IRQ emits an IRQ descriptor with flags for ISA interrupts 0-15.
func (l *List) IRQ(flags InterruptFlags, irqs ...uint8) error {
	if err := l.requireBuffer("IRQ"); err != nil {
		return err
	}
	result := flags.validate(nil)
	mask, result := irqMask(irqs, 16, result)
	if err := validationError("IRQ", result); err != nil {
		return err
	}
	info := byte(flags.Mode) | byte(flags.Polarity)<<3 | byte(flags.Sharing)<<4
	if flags.Wake {
		info |= 1 << 5
	}
	return l.emit([]byte{tagIRQ | 3, byte(mask), byte(mask >> 8), info})
}

// IRQNoFlags emits an IRQ descriptor without the information byte, meaning
// edge triggered, active high, exclusive.
func (l *List) IRQNoFlags(irqs ...uint8) error {
	if err := l.requireBuffer("IRQNoFlags"); err != nil {
		return err
	}
	mask, result := irqMask(irqs, 16, nil)
	if err := validationError("IRQNoFlags", result); err != nil {
		return err
	}
	return l.emit([]byte{tagIRQ | 2, byte(mask), byte(mask >> 8)})
}

// DMASpeed is the channel speed of a DMA descriptor.
type DMASpeed uint8

// DMA speeds.
const (
	Compatibility DMASpeed = iota
	TypeA
	TypeB
	TypeF
)

// DMATransfer is the transfer width of a DMA descriptor.
type DMATransfer uint8

// DMA transfer widths.
const (
	Transfer8 DMATransfer = iota
	Transfer8_16
	Transfer16
)

// DMA emits a DMA descriptor for channels 0-7.
func (l *List) DMA(speed DMASpeed, busMaster bool, xfer DMATransfer, channels ...uint8) error {
	if err := l.requireBuffer("DMA"); err != nil {
		return err
	}
	var result *multierror.Error
	if speed > TypeF {
		result = multierror.Append(result, fmt.Errorf("DMA speed %d out of range", speed))
	}
	if xfer > Transfer16 {
		result = multierror.Append(result, fmt.Errorf("DMA transfer width %d out of range", xfer))
	}
	mask, result := irqMask(channels, 8, result)
	if err := validationError("DMA", result); err != nil {
		return err
	}
	flags := byte(xfer) | byte(speed)<<5
	if busMaster {
		flags |= 1 << 2
	}
	return l.emit([]byte{tagDMA, byte(mask), flags})
}

// IODecode is the address decoding of an IO descriptor.
type IODecode uint8

// IO decodes.
const (
	Decode10 IODecode = iota
	Decode16
)

// IO emits an IO port descriptor.
func (l *List) IO(decode IODecode, min, max uint16, align, length uint8) error {
	if err := l.requireBuffer("IO"); err != nil {
		return err
	}
	var result *multierror.Error
	if decode > Decode16 {
		result = multierror.Append(result, fmt.Errorf("IO decode %d out of range", decode))
	}
	if min > max {
		result = multierror.Append(result, fmt.Errorf("minimum %#x above maximum %#x", min, max))
	}
	if decode == Decode10 && max > 0x3ff {
		result = multierror.Append(result, fmt.Errorf("maximum %#x does not fit 10-bit decode", max))
	}
	if err := validationError("IO", result); err != nil {
		return err
	}
	b := []byte{tagIO, byte(decode), 0, 0, 0, 0, align, length}
	binary.LittleEndian.PutUint16(b[2:], min)
	binary.LittleEndian.PutUint16(b[4:], max)
	return l.emit(b)
}

// FixedIO emits a fixed location IO port descriptor with a 10-bit base.
func (l *List) FixedIO(base uint16, length uint8) error {
	if err := l.requireBuffer("FixedIO"); err != nil {
		return err
	}
	if base > 0x3ff {
		return invalidInputf("FixedIO: base %#x does not fit 10 bits", base)
	}
	b := []byte{tagFixedIO, 0, 0, length}
	binary.LittleEndian.PutUint16(b[1:], base)
	return l.emit(b)
}

// EndTag emits the End Tag descriptor. ResourceTemplate scopes append it on
// Close; it is only needed inside a plain Buffer.
func (l *List) EndTag() error {
	if err := l.requireBuffer("EndTag"); err != nil {
		return err
	}
	return l.emit(endTag())
}

func largeDescriptor(tag byte, body []byte) []byte {
	b := make([]byte, 3+len(body))
	b[0] = tag
	binary.LittleEndian.PutUint16(b[1:], uint16(len(body)))
	copy(b[3:], body)
	return b
}

// Memory32Fixed emits a fixed 32-bit memory range descriptor.
func (l *List) Memory32Fixed(readWrite bool, base, length uint32) error {
	if err := l.requireBuffer("Memory32Fixed"); err != nil {
		return err
	}
	if length != 0 && uint64(base)+uint64(length) > 1<<32 {
		return invalidInputf("Memory32Fixed: range %#x+%#x crosses 4 GiB", base, length)
	}
	body := make([]byte, 9)
	if readWrite {
		body[0] = 1
	}
	binary.LittleEndian.PutUint32(body[1:], base)
	binary.LittleEndian.PutUint32(body[5:], length)
	return l.emit(largeDescriptor(tagMemory32Fixed, body))
}

// Memory32 emits a relocatable 32-bit memory range descriptor.
func (l *List) Memory32(readWrite bool, min, max, align, length uint32) error {
	if err := l.requireBuffer("Memory32"); err != nil {
		return err
	}
	var result *multierror.Error
	if min > max {
		result = multierror.Append(result, fmt.Errorf("minimum %#x above maximum %#x", min, max))
	}
	if align != 0 && min%align != 0 {
		result = multierror.Append(result, fmt.Errorf("minimum %#x not aligned to %#x", min, align))
	}
	if err := validationError("Memory32", result); err != nil {
		return err
	}
	body := make([]byte, 17)
	if readWrite {
		body[0] = 1
	}
	binary.LittleEndian.PutUint32(body[1:], min)
	binary.LittleEndian.PutUint32(body[5:], max)
	binary.LittleEndian.PutUint32(body[9:], align)
	binary.LittleEndian.PutUint32(body[13:], length)
	return l.emit(largeDescriptor(tagMemory32, body))
}

// Interrupt emits an Extended Interrupt descriptor.
func (l *List) Interrupt(consumer bool, flags InterruptFlags, irqs ...uint32) error {
	if err := l.requireBuffer("Interrupt"); err != nil {
		return err
	}
	result := flags.validate(nil)
	if len(irqs) == 0 || len(irqs) > 0xff {
		result = multierror.Append(result, fmt.Errorf("%d interrupts, want 1..255", len(irqs)))
	}
	if err := validationError("Interrupt", result); err != nil {
		return err
	}
	body := make([]byte, 2+4*len(irqs))
	body[0] = byte(flags.Mode)<<1 | byte(flags.Polarity)<<2 | byte(flags.Sharing)<<3
	if consumer {
		body[0] |= 1
	}
	if flags.Wake {
		body[0] |= 1 << 4
	}
	body[1] = byte(len(irqs))
	for i, irq := range irqs {
		binary.LittleEndian.PutUint32(body[2+4*i:], irq)
	}
	return l.emit(largeDescriptor(tagExtendedIRQ, body))
}

// AccessSize is the access size of a generic register.
type AccessSize uint8

// Access sizes.
const (
	UndefinedAccess AccessSize = iota
	ByteAccess
	WordAccess
	DWordAccess
	QWordAccess
)

// Register emits a Generic Register descriptor.
func (l *List) Register(space RegionSpace, bitWidth, bitOffset uint8, address uint64, accessSize AccessSize) error {
	if err := l.requireBuffer("Register"); err != nil {
		return err
	}
	var result *multierror.Error
	if !space.validForRegion() && space != FunctionalFixed {
		result = multierror.Append(result, fmt.Errorf("address space %#x is reserved", uint8(space)))
	}
	if accessSize > QWordAccess {
		result = multierror.Append(result, fmt.Errorf("access size %d out of range", accessSize))
	}
	if uint16(bitOffset)+uint16(bitWidth) > 64*8 {
		result = multierror.Append(result, fmt.Errorf("bit offset %d + width %d is too large", bitOffset, bitWidth))
	}
	if err := validationError("Register", result); err != nil {
		return err
	}
	body := make([]byte, 12)
	body[0] = byte(space)
	body[1] = bitWidth
	body[2] = bitOffset
	body[3] = byte(accessSize)
	binary.LittleEndian.PutUint64(body[4:], address)
	return l.emit(largeDescriptor(tagRegister, body))
}
