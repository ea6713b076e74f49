// Copyright 2023 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compression

import (
	"io"

	"github.com/klauspost/compress/zlib"
)

// ZLIB implements Compressor with klauspost's zlib at the best level.
type ZLIB struct{}

// Name returns the type of compression employed.
func (c *ZLIB) Name() string {
	return "zlib"
}

// Decode decodes a byte slice of ZLIB data.
func (c *ZLIB) Decode(encodedData []byte) ([]byte, error) {
	return decodeWith(encodedData, func(r io.Reader) (io.Reader, error) {
		return zlib.NewReader(r)
	})
}

// Encode encodes a byte slice with ZLIB.
func (c *ZLIB) Encode(decodedData []byte) ([]byte, error) {
	return encodeWith(decodedData, func(w io.Writer) (io.WriteCloser, error) {
		return zlib.NewWriterLevel(w, zlib.BestCompression)
	})
}
