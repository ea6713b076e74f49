// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aml

import (
	"encoding/binary"
)

// SizedInteger returns value as width little-endian bytes. Width must be
// 1, 2, 4 or 8 and value must fit in it.
func SizedInteger(value uint64, width int) ([]byte, error) {
	switch width {
	case 1, 2, 4:
		if value>>(8*uint(width)) != 0 {
			return nil, &IntegerWidthError{Value: value, Width: width}
		}
	case 8:
	default:
		return nil, invalidInputf("integer width %d is not one of 1, 2, 4, 8", width)
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], value)
	return append([]byte(nil), b[:width]...), nil
}

func prefixed(op Opcode, value uint64, width int) []byte {
	b := make([]byte, 1+width)
	b[0] = byte(op)
	for i := 0; i < width; i++ {
		b[1+i] = byte(value >> (8 * uint(i)))
	}
	return b
}

// OptimizedInteger returns the shortest AML encoding of value: ZeroOp, OneOp
// or OnesOp for 0, 1 and all bits set, otherwise a Byte, Word, DWord or QWord
// constant of the smallest width that holds it.
func OptimizedInteger(value uint64) []byte {
	switch {
	case value == 0:
		return []byte{byte(OpZero)}
	case value == 1:
		return []byte{byte(OpOne)}
	case value == ^uint64(0):
		return []byte{byte(OpOnes)}
	case value < 0x100:
		return prefixed(OpBytePrefix, value, 1)
	case value < 0x10000:
		return prefixed(OpWordPrefix, value, 2)
	case value < 0x1_0000_0000:
		return prefixed(OpDWordPrefix, value, 4)
	default:
		return prefixed(OpQWordPrefix, value, 8)
	}
}

// DecodeInteger decodes a ConstObj or a prefixed integer constant at the
// start of b and returns its value and encoded length.
func DecodeInteger(b []byte) (uint64, int, error) {
	if len(b) == 0 {
		return 0, 0, invalidInputf("no integer to decode")
	}
	var width int
	switch Opcode(b[0]) {
	case OpZero:
		return 0, 1, nil
	case OpOne:
		return 1, 1, nil
	case OpOnes:
		return ^uint64(0), 1, nil
	case OpBytePrefix:
		width = 1
	case OpWordPrefix:
		width = 2
	case OpDWordPrefix:
		width = 4
	case OpQWordPrefix:
		width = 8
	default:
		return 0, 0, invalidInputf("byte %#02x does not start an integer", b[0])
	}
	if len(b) < 1+width {
		return 0, 0, invalidInputf("%s truncated: have %d bytes, need %d", Opcode(b[0]), len(b), 1+width)
	}
	var value uint64
	for i := 0; i < width; i++ {
		value |= uint64(b[1+i]) << (8 * uint(i))
	}
	return value, 1 + width, nil
}

// Integer emits value in its shortest encoding.
func (l *List) Integer(value uint64) error {
	return l.emit(OptimizedInteger(value))
}

// Byte emits a ByteConst.
func (l *List) Byte(value uint8) error {
	return l.emit(prefixed(OpBytePrefix, uint64(value), 1))
}

// Word emits a WordConst.
func (l *List) Word(value uint16) error {
	return l.emit(prefixed(OpWordPrefix, uint64(value), 2))
}

// DWord emits a DWordConst.
func (l *List) DWord(value uint32) error {
	return l.emit(prefixed(OpDWordPrefix, uint64(value), 4))
}

// QWord emits a QWordConst.
func (l *List) QWord(value uint64) error {
	return l.emit(prefixed(OpQWordPrefix, value, 8))
}

// SizedConst emits value as a prefixed constant of exactly width bytes.
func (l *List) SizedConst(value uint64, width int) error {
	if _, err := SizedInteger(value, width); err != nil {
		return err
	}
	switch width {
	case 1:
		return l.Byte(uint8(value))
	case 2:
		return l.Word(uint16(value))
	case 4:
		return l.DWord(uint32(value))
	default:
		return l.QWord(value)
	}
}

// Zero emits ZeroOp.
func (l *List) Zero() error {
	return l.emit([]byte{byte(OpZero)})
}

// One emits OneOp.
func (l *List) One() error {
	return l.emit([]byte{byte(OpOne)})
}

// Ones emits OnesOp.
func (l *List) Ones() error {
	return l.emit([]byte{byte(OpOnes)})
}

// Revision emits RevisionOp.
func (l *List) Revision() error {
	return l.emit(OpRevision.Bytes())
}

// Debug emits the Debug object, a valid Store target.
func (l *List) Debug() error {
	return l.emit(OpDebug.Bytes())
}

// Local emits LocalN, n in 0..7.
func (l *List) Local(n int) error {
	if n < 0 || n > 7 {
		return invalidInputf("Local%d out of range 0..7", n)
	}
	return l.emit([]byte{byte(OpLocal0) + byte(n)})
}

// Arg emits ArgN, n in 0..6.
func (l *List) Arg(n int) error {
	if n < 0 || n > 6 {
		return invalidInputf("Arg%d out of range 0..6", n)
	}
	return l.emit([]byte{byte(OpArg0) + byte(n)})
}
