// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aml

import (
	"fmt"
	"strings"
)

// NameSegLen is the length of an AML name segment.
const NameSegLen = 4

func isLeadNameChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || c == '_'
}

func isNameChar(c byte) bool {
	return isLeadNameChar(c) || (c >= '0' && c <= '9')
}

// NameSeg returns the four byte name segment for name, right padded with
// underscores.
//
// Grammar:
// NameSeg := LeadNameChar NameChar NameChar NameChar
// LeadNameChar := 'A'-'Z' | '_'
// NameChar := DigitChar | LeadNameChar
func NameSeg(name string) ([NameSegLen]byte, error) {
	var seg [NameSegLen]byte
	switch {
	case len(name) == 0:
		return seg, &NameError{Name: name, Reason: "empty name segment"}
	case len(name) > NameSegLen:
		return seg, &NameError{Name: name, Reason: "name segment longer than 4 characters"}
	case !isLeadNameChar(name[0]):
		return seg, &NameError{Name: name, Reason: "name segment must start with 'A'-'Z' or '_'"}
	}
	for i := 0; i < NameSegLen; i++ {
		if i >= len(name) {
			seg[i] = '_'
			continue
		}
		if !isNameChar(name[i]) {
			return seg, &NameError{Name: name, Reason: fmt.Sprintf("illegal character %q", name[i])}
		}
		seg[i] = name[i]
	}
	return seg, nil
}

// NameString encodes a dotted ASL path such as `\_SB.PCI0.LPCB` or `^^FOO`.
// The shortest form for the number of segments is used: NullName,
// a single NameSeg, a DualNamePath or a MultiNamePath.
//
// Grammar:
// NameString := RootChar NamePath | PrefixPath NamePath
// PrefixPath := Nothing | '^' PrefixPath
// NamePath := NameSeg | DualNamePath | MultiNamePath | NullName
func NameString(path string) ([]byte, error) {
	var out []byte
	rest := path
	if strings.HasPrefix(rest, string(rune(rootChar))) {
		out = append(out, rootChar)
		rest = rest[1:]
	} else {
		for strings.HasPrefix(rest, string(rune(parentPrefix))) {
			out = append(out, parentPrefix)
			rest = rest[1:]
		}
	}

	if rest == "" {
		return append(out, nullName), nil
	}

	segs := strings.Split(rest, ".")
	if len(segs) > 0xff {
		return nil, &NameError{Name: path, Reason: "more than 255 name segments"}
	}
	switch len(segs) {
	case 1:
	case 2:
		out = append(out, dualNamePrefix)
	default:
		out = append(out, multiNamePrefix, byte(len(segs)))
	}
	for _, s := range segs {
		seg, err := NameSeg(s)
		if err != nil {
			return nil, &NameError{Name: path, Reason: err.(*NameError).Reason}
		}
		out = append(out, seg[:]...)
	}
	return out, nil
}

// EmitNameSeg emits a bare four byte name segment.
func (l *List) EmitNameSeg(name string) error {
	seg, err := NameSeg(name)
	if err != nil {
		return err
	}
	return l.emit(seg[:])
}

// EmitNameString emits an encoded name string; used for object references
// and method invocations.
func (l *List) EmitNameString(path string) error {
	b, err := NameString(path)
	if err != nil {
		return err
	}
	return l.emit(b)
}
