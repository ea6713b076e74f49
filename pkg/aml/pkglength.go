// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aml

// MaxPkgLength is the first value a PkgLength cannot express.
const MaxPkgLength = 1 << 28

// pkgLengthWidth returns the minimal number of bytes needed to encode
// length, or 0 if it does not fit at all.
func pkgLengthWidth(length uint32) int {
	switch {
	case length < 1<<6:
		return 1
	case length < 1<<12:
		return 2
	case length < 1<<20:
		return 3
	case length < MaxPkgLength:
		return 4
	default:
		return 0
	}
}

// EncodePkgLength encodes length with the minimal number of bytes.
//
// Grammar:
// PkgLength := PkgLeadByte | PkgLeadByte ByteData | PkgLeadByte ByteData ByteData | PkgLeadByte ByteData ByteData ByteData
//
// With no follow bytes, bits 0-5 of the lead byte hold the value. Otherwise
// bits 6-7 hold the follow byte count, bits 0-3 the low nybble and each
// follow byte the next eight bits.
func EncodePkgLength(length uint32) ([]byte, error) {
	width := pkgLengthWidth(length)
	if width == 0 {
		return nil, invalidInputf("PkgLength %#x exceeds %#x", length, MaxPkgLength-1)
	}
	if width == 1 {
		return []byte{byte(length)}, nil
	}
	b := make([]byte, width)
	b[0] = byte(width-1)<<6 | byte(length&0xf)
	for i := 1; i < width; i++ {
		b[i] = byte(length >> (4 + 8*uint(i-1)))
	}
	return b, nil
}

// DecodePkgLength decodes the PkgLength at the start of b and returns its
// value and encoded width.
func DecodePkgLength(b []byte) (uint32, int, error) {
	if len(b) == 0 {
		return 0, 0, invalidInputf("no PkgLength to decode")
	}
	lead := b[0]
	follow := int(lead >> 6)
	if follow == 0 {
		return uint32(lead & 0x3f), 1, nil
	}
	if lead&0x30 != 0 {
		return 0, 0, invalidInputf("PkgLength lead byte %#02x has reserved bits set", lead)
	}
	if len(b) < 1+follow {
		return 0, 0, invalidInputf("PkgLength truncated: have %d bytes, need %d", len(b), 1+follow)
	}
	length := uint32(lead & 0xf)
	for i := 1; i <= follow; i++ {
		length |= uint32(b[i]) << (4 + 8*uint(i-1))
	}
	return length, 1 + follow, nil
}

// pkgLengthFor returns the PkgLength prefix of an object whose content after
// the prefix is content bytes long. The encoded value counts the prefix
// itself, so its width feeds back into the value: grow the width until the
// value it produces fits in it. Widths only grow and there are four of them,
// so this settles in at most three steps.
func pkgLengthFor(content int) ([]byte, error) {
	if content < 0 || content >= MaxPkgLength {
		return nil, invariantf("payload of %d bytes does not fit a PkgLength", content)
	}
	width := 1
	for {
		need := pkgLengthWidth(uint32(content + width))
		if need == 0 {
			return nil, invariantf("payload of %d bytes does not fit a PkgLength", content)
		}
		if need <= width {
			break
		}
		width = need
	}
	b, err := EncodePkgLength(uint32(content + width))
	if err != nil {
		return nil, invariantf("encoding PkgLength of %d byte payload: %v", content, err)
	}
	if len(b) != width {
		return nil, invariantf("PkgLength of %d byte payload settled on %d bytes, encoded %d", content, width, len(b))
	}
	return b, nil
}
