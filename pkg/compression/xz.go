// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compression

import (
	"io"

	"github.com/ulikunitz/xz"
)

// XZ implements Compressor with the pure Go xz implementation.
type XZ struct{}

// Name returns the type of compression employed.
func (c *XZ) Name() string {
	return "xz"
}

// Decode decodes a byte slice of xz data.
func (c *XZ) Decode(encodedData []byte) ([]byte, error) {
	return decodeWith(encodedData, func(r io.Reader) (io.Reader, error) {
		return xz.NewReader(r)
	})
}

// Encode encodes a byte slice with xz using CRC32 block checks.
func (c *XZ) Encode(decodedData []byte) ([]byte, error) {
	return encodeWith(decodedData, func(w io.Writer) (io.WriteCloser, error) {
		return xz.WriterConfig{CheckSum: xz.CRC32}.NewWriter(w)
	})
}
