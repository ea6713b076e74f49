// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aml

import (
	"github.com/linuxboot/amlgen/pkg/guid"
)

// EncodeString returns the AML String encoding of text.
//
// Grammar:
// String := StringPrefix AsciiCharList NullChar
// AsciiChar := 0x01 - 0x7F
func EncodeString(text string) ([]byte, error) {
	b := make([]byte, 0, len(text)+2)
	b = append(b, byte(OpStringPrefix))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == 0 || c > 0x7f {
			return nil, invalidInputf("string %q: byte %#02x at %d is not an AML AsciiChar", text, c, i)
		}
		b = append(b, c)
	}
	return append(b, 0), nil
}

// String emits a String object.
func (l *List) String(text string) error {
	b, err := EncodeString(text)
	if err != nil {
		return err
	}
	return l.emit(b)
}

// RawBuffer emits a copy of b without any prefix. It is meant for the byte
// list of a Buffer. An empty b emits nothing.
func (l *List) RawBuffer(b []byte) error {
	if err := l.check(); err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	return l.emit(b)
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// EisaIDValue compresses a seven character EISA identifier such as "PNP0A08"
// into the 32-bit value stored in AML.
//
// The three letters take five bits each ('A' is 1) and fill bits 0-14 of the
// big-endian form, the four hex digits follow. AML stores that big-endian
// form, so the result is its byte swap: PNP0A08 becomes 0x080AD041.
func EisaIDValue(id string) (uint32, error) {
	if len(id) != 7 {
		return 0, invalidInputf("EISA ID %q must be 7 characters", id)
	}
	var compressed uint32
	for i := 0; i < 3; i++ {
		c := id[i]
		if c < 'A' || c > 'Z' {
			return 0, invalidInputf("EISA ID %q: character %d must be 'A'-'Z'", id, i)
		}
		compressed = compressed<<5 | uint32(c-'A'+1)
	}
	for i := 3; i < 7; i++ {
		d, ok := hexDigit(id[i])
		if !ok {
			return 0, invalidInputf("EISA ID %q: character %d must be an upper case hex digit", id, i)
		}
		compressed = compressed<<4 | uint32(d)
	}
	return compressed>>24 | (compressed>>8)&0xff00 | (compressed<<8)&0xff0000 | compressed<<24, nil
}

// EisaID emits the compressed EISA identifier as a DWordConst.
func (l *List) EisaID(id string) error {
	v, err := EisaIDValue(id)
	if err != nil {
		return err
	}
	return l.DWord(v)
}

// UUID emits the 16 byte Buffer produced by ASL's ToUUID.
func (l *List) UUID(text string) error {
	g, err := guid.Parse(text)
	if err != nil {
		return invalidInputf("%v", err)
	}
	return l.BuildBuffer(0, func() error {
		return l.RawBuffer(g[:])
	})
}
