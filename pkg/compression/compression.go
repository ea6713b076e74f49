// Copyright 2018 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compression wraps the compression schemes an encoded AML blob can
// be written with.
package compression

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
)

// MaxDecodedSize bounds the output of Decode. The length of an ACPI
// definition block is a 32-bit field.
const MaxDecodedSize = 1<<32 - 1

// Compressor defines a single compression scheme (such as LZ4).
type Compressor interface {
	// Name is the lower case name used on the command line.
	Name() string

	// Decode and Encode obey "x == Decode(Encode(x))".
	Decode(encodedData []byte) ([]byte, error)
	Encode(decodedData []byte) ([]byte, error)
}

var compressors = map[string]Compressor{}

func register(c Compressor) {
	compressors[c.Name()] = c
}

func init() {
	register(&LZ4{})
	register(&LZMA{})
	register(&XZ{})
	register(&ZSTD{})
	register(&ZLIB{})
}

// Names returns the names of all compressors in sorted order.
func Names() []string {
	names := make([]string, 0, len(compressors))
	for name := range compressors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromName returns the Compressor called name. The empty string and "none"
// return nil without error.
func FromName(name string) (Compressor, error) {
	name = strings.ToLower(name)
	if name == "" || name == "none" {
		return nil, nil
	}
	c, ok := compressors[name]
	if !ok {
		return nil, fmt.Errorf("unknown compression %q, want one of none, %s", name, strings.Join(Names(), ", "))
	}
	return c, nil
}

func checkDecodedSize(n int64) error {
	if n > MaxDecodedSize {
		return fmt.Errorf("decoded data exceeds %d bytes", int64(MaxDecodedSize))
	}
	return nil
}

// decodeWith reads the whole stream opened by newReader over encodedData.
func decodeWith(encodedData []byte, newReader func(io.Reader) (io.Reader, error)) ([]byte, error) {
	r, err := newReader(bytes.NewReader(encodedData))
	if err != nil {
		return nil, err
	}
	decodedData, err := io.ReadAll(io.LimitReader(r, MaxDecodedSize+1))
	if err != nil {
		return nil, err
	}
	if err := checkDecodedSize(int64(len(decodedData))); err != nil {
		return nil, err
	}
	return decodedData, nil
}

// encodeWith writes decodedData through the stream opened by newWriter.
func encodeWith(decodedData []byte, newWriter func(io.Writer) (io.WriteCloser, error)) ([]byte, error) {
	var encodedData bytes.Buffer
	w, err := newWriter(&encodedData)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(decodedData); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return encodedData.Bytes(), nil
}
