// Copyright 2018 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package guid implements the mixed-endian GUID as implemented by Microsoft
// and laid out by the ASL ToUUID macro.
package guid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// Size represents number of bytes in a GUID
	Size = 16
	// UExample is a example of a string GUID
	UExample = "01234567-89AB-CDEF-0123-456789ABCDEF"
)

// The first three fields are stored little endian, the rest as is.
var fields = [...]int{4, 2, 2, 1, 1, 1, 1, 1, 1, 1, 1}

// GUID represents a unique identifier in its in-memory byte order.
type GUID [Size]byte

func reverse(b []byte) {
	for i := 0; i < len(b)/2; i++ {
		other := len(b) - i - 1
		b[other], b[i] = b[i], b[other]
	}
}

func swapFields(b []byte) {
	i := 0
	for _, fieldlen := range fields {
		reverse(b[i : i+fieldlen])
		i += fieldlen
	}
}

// FromUUID converts a RFC 4122 (big endian) UUID into a GUID.
func FromUUID(u uuid.UUID) GUID {
	var g GUID
	copy(g[:], u[:])
	swapFields(g[:])
	return g
}

// UUID converts the GUID back into its RFC 4122 byte order.
func (g GUID) UUID() uuid.UUID {
	var u uuid.UUID
	copy(u[:], g[:])
	swapFields(u[:])
	return u
}

// Parse parses a guid string. Hyphens and braces are optional.
func Parse(s string) (*GUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("guid string not correct, need string of the format %v, got %q: %w",
			UExample, s, err)
	}
	g := FromUUID(u)
	return &g, nil
}

// MustParse parses a guid string or panics.
func MustParse(s string) *GUID {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

func (g GUID) String() string {
	return strings.ToUpper(g.UUID().String())
}

// MarshalText implements encoding.TextMarshaler.
func (g GUID) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *GUID) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*g = *parsed
	return nil
}
