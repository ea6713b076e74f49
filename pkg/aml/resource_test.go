// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxboot/amlgen/pkg/log"
)

// descriptor runs emit inside a plain Buffer and returns the bytes emitted
// between the Buffer header and the end of the buffer.
func descriptor(t *testing.T, emit func(l *List) error) []byte {
	t.Helper()
	l := NewList(WithLogger(log.Nop{}))
	b, err := l.OpenBuffer()
	require.NoError(t, err)
	require.NoError(t, emit(l))
	children, err := b.s.children()
	require.NoError(t, err)
	require.Len(t, children, 1)
	return children[0]
}

func TestResourceTemplate(t *testing.T) {
	l := NewList(WithLogger(log.Nop{}))
	err := l.BuildResourceTemplate(func() error {
		if err := l.IO(Decode16, 0x3f8, 0x3f8, 1, 8); err != nil {
			return err
		}
		return l.IRQNoFlags(4)
	})
	require.NoError(t, err)
	b, err := l.Release()
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x11, 0x10, 0x0a, 0x0d,
		0x47, 0x01, 0xf8, 0x03, 0xf8, 0x03, 0x01, 0x08,
		0x22, 0x10, 0x00,
		0x79, 0x00,
	}, b)
}

func TestResourceTemplateEmpty(t *testing.T) {
	l := NewList(WithLogger(log.Nop{}))
	require.NoError(t, l.BuildResourceTemplate(func() error { return nil }))
	b, err := l.Release()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x11, 0x05, 0x0a, 0x02, 0x79, 0x00}, b)
}

func TestDescriptorOutsideBuffer(t *testing.T) {
	l := NewList(WithLogger(log.Nop{}))
	assert.ErrorIs(t, l.IO(Decode16, 0, 0, 1, 1), ErrInvariantViolation)

	_, err := l.OpenDevice("DEV0")
	require.NoError(t, err)
	assert.ErrorIs(t, l.Memory32Fixed(true, 0, 0x1000), ErrInvariantViolation)
	assert.ErrorIs(t, l.WordBusNumber(AddressSpace{Max: 0xff}), ErrInvariantViolation)
}

func TestIRQ(t *testing.T) {
	b := descriptor(t, func(l *List) error {
		return l.IRQ(InterruptFlags{Mode: EdgeTriggered, Polarity: ActiveLow, Sharing: Shared}, 3, 4)
	})
	assert.Equal(t, []byte{0x23, 0x18, 0x00, 0x19}, b)

	b = descriptor(t, func(l *List) error {
		return l.IRQ(InterruptFlags{Wake: true}, 15)
	})
	assert.Equal(t, []byte{0x23, 0x00, 0x80, 0x20}, b)
}

func TestIRQErrors(t *testing.T) {
	l := NewList(WithLogger(log.Nop{}))
	_, err := l.OpenResourceTemplate()
	require.NoError(t, err)

	err = l.IRQ(InterruptFlags{Mode: 2, Polarity: 2}, 16)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "mode")
	assert.Contains(t, err.Error(), "polarity")
	assert.Contains(t, err.Error(), "16")

	assert.ErrorIs(t, l.IRQNoFlags(20), ErrInvalidInput)
	assert.Equal(t, 1, l.Len())
}

func TestDMA(t *testing.T) {
	b := descriptor(t, func(l *List) error {
		return l.DMA(TypeF, true, Transfer16, 1, 5)
	})
	assert.Equal(t, []byte{0x2a, 0x22, 0x66}, b)

	l := NewList(WithLogger(log.Nop{}))
	_, err := l.OpenBuffer()
	require.NoError(t, err)
	assert.ErrorIs(t, l.DMA(TypeF+1, false, Transfer8, 8), ErrInvalidInput)
}

func TestIO(t *testing.T) {
	l := NewList(WithLogger(log.Nop{}))
	_, err := l.OpenBuffer()
	require.NoError(t, err)

	err = l.IO(Decode10, 0x500, 0x400, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "above maximum")
	assert.Contains(t, err.Error(), "10-bit")

	b := descriptor(t, func(l *List) error {
		return l.FixedIO(0x60, 1)
	})
	assert.Equal(t, []byte{0x4b, 0x60, 0x00, 0x01}, b)
	assert.ErrorIs(t, l.FixedIO(0x400, 1), ErrInvalidInput)
}

func TestMemory32(t *testing.T) {
	b := descriptor(t, func(l *List) error {
		return l.Memory32Fixed(true, 0xfed00000, 0x400)
	})
	assert.Equal(t, []byte{
		0x86, 0x09, 0x00, 0x01,
		0x00, 0x00, 0xd0, 0xfe,
		0x00, 0x04, 0x00, 0x00,
	}, b)

	b = descriptor(t, func(l *List) error {
		return l.Memory32(false, 0x1000, 0x2000, 0x1000, 0x1000)
	})
	assert.Equal(t, []byte{
		0x85, 0x11, 0x00, 0x00,
		0x00, 0x10, 0x00, 0x00,
		0x00, 0x20, 0x00, 0x00,
		0x00, 0x10, 0x00, 0x00,
		0x00, 0x10, 0x00, 0x00,
	}, b)

	l := NewList(WithLogger(log.Nop{}))
	_, err := l.OpenBuffer()
	require.NoError(t, err)
	assert.ErrorIs(t, l.Memory32Fixed(false, 0xffffff00, 0x200), ErrInvalidInput)
	assert.ErrorIs(t, l.Memory32(false, 0x1001, 0x2000, 0x1000, 0), ErrInvalidInput)
}

func TestInterrupt(t *testing.T) {
	b := descriptor(t, func(l *List) error {
		return l.Interrupt(true, InterruptFlags{}, 9)
	})
	assert.Equal(t, []byte{0x89, 0x06, 0x00, 0x01, 0x01, 0x09, 0x00, 0x00, 0x00}, b)

	b = descriptor(t, func(l *List) error {
		return l.Interrupt(false, InterruptFlags{Mode: EdgeTriggered, Polarity: ActiveLow, Sharing: Shared, Wake: true}, 0x20, 0x21)
	})
	assert.Equal(t, []byte{
		0x89, 0x0a, 0x00, 0x1e, 0x02,
		0x20, 0x00, 0x00, 0x00,
		0x21, 0x00, 0x00, 0x00,
	}, b)

	l := NewList(WithLogger(log.Nop{}))
	_, err := l.OpenBuffer()
	require.NoError(t, err)
	assert.ErrorIs(t, l.Interrupt(true, InterruptFlags{}), ErrInvalidInput)
}

func TestRegister(t *testing.T) {
	b := descriptor(t, func(l *List) error {
		return l.Register(SystemIO, 8, 0, 0xb2, ByteAccess)
	})
	assert.Equal(t, []byte{
		0x82, 0x0c, 0x00,
		0x01, 0x08, 0x00, 0x01,
		0xb2, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}, b)

	b = descriptor(t, func(l *List) error {
		return l.Register(FunctionalFixed, 0, 0, 0, UndefinedAccess)
	})
	assert.Equal(t, byte(0x7f), b[3])

	l := NewList(WithLogger(log.Nop{}))
	_, err := l.OpenBuffer()
	require.NoError(t, err)
	assert.ErrorIs(t, l.Register(RegionSpace(0x30), 8, 0, 0, QWordAccess+1), ErrInvalidInput)
}

func TestWordBusNumber(t *testing.T) {
	b := descriptor(t, func(l *List) error {
		return l.WordBusNumber(AddressSpace{MinFixed: true, MaxFixed: true, Max: 0xff, Length: 0x100})
	})
	assert.Equal(t, []byte{
		0x88, 0x0d, 0x00, 0x02, 0x0c, 0x00,
		0x00, 0x00,
		0x00, 0x00,
		0xff, 0x00,
		0x00, 0x00,
		0x00, 0x01,
	}, b)
}

func TestAddressSpaceSizes(t *testing.T) {
	a := AddressSpace{Min: 0x1000, Max: 0x1fff, Length: 0x1000}
	for name, tc := range map[string]struct {
		emit func(l *List) error
		size int
		tag  byte
	}{
		"WordIO":      {func(l *List) error { return l.WordIO(a, IOFlags{Ranges: EntireRange}) }, 16, 0x88},
		"DWordIO":     {func(l *List) error { return l.DWordIO(a, IOFlags{Ranges: EntireRange}) }, 26, 0x87},
		"QWordIO":     {func(l *List) error { return l.QWordIO(a, IOFlags{Ranges: EntireRange}) }, 46, 0x8a},
		"DWordMemory": {func(l *List) error { return l.DWordMemory(a, MemoryFlags{ReadWrite: true}) }, 26, 0x87},
		"QWordMemory": {func(l *List) error { return l.QWordMemory(a, MemoryFlags{ReadWrite: true}) }, 46, 0x8a},
	} {
		t.Run(name, func(t *testing.T) {
			b := descriptor(t, tc.emit)
			require.Len(t, b, tc.size)
			assert.Equal(t, tc.tag, b[0])
			assert.Equal(t, tc.size-3, int(b[1])|int(b[2])<<8)
		})
	}
}

func TestDWordMemoryFlags(t *testing.T) {
	b := descriptor(t, func(l *List) error {
		return l.DWordMemory(AddressSpace{
			Consumer: true,
			MinFixed: true,
			MaxFixed: true,
			Min:      0xfe000000,
			Max:      0xfeffffff,
			Length:   0x01000000,
		}, MemoryFlags{ReadWrite: true, Cache: NonCacheable, Type: AddressRangeReserved})
	})
	assert.Equal(t, []byte{0x87, 0x17, 0x00, 0x00, 0x0d, 0x09}, b[:6])
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0xfe}, b[10:14])
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xfe}, b[14:18])
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x01}, b[22:26])
}

func TestAddressSpaceErrors(t *testing.T) {
	l := NewList(WithLogger(log.Nop{}))
	_, err := l.OpenResourceTemplate()
	require.NoError(t, err)

	err = l.WordIO(AddressSpace{Max: 0x10000}, IOFlags{Ranges: EntireRange})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrInvariantViolation)
	assert.Contains(t, err.Error(), "does not fit in 2 byte(s)")

	err = l.DWordMemory(AddressSpace{MinFixed: true, MaxFixed: true, Min: 0, Max: 0xfff, Length: 0x800}, MemoryFlags{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = l.DWordIO(AddressSpace{Min: 0x10, Max: 0x1f, Length: 0x20}, IOFlags{Ranges: EntireRange})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = l.QWordMemory(AddressSpace{Min: 2, Max: 1}, MemoryFlags{Cache: Prefetchable + 1, Type: AddressRangeNVS + 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "cacheability")
	assert.Contains(t, err.Error(), "memory type")
	assert.Contains(t, err.Error(), "above maximum")

	err = l.QWordIO(AddressSpace{Max: 1}, IOFlags{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, 1, l.Len())
}
