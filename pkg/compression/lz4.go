// Copyright 2018 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compression

import (
	"io"

	"github.com/pierrec/lz4"
)

// LZ4 implements Compressor with LZ4 frames.
type LZ4 struct{}

// Name returns the type of compression employed.
func (c *LZ4) Name() string {
	return "lz4"
}

// Decode decodes a byte slice of LZ4 frame data.
func (c *LZ4) Decode(encodedData []byte) ([]byte, error) {
	return decodeWith(encodedData, func(r io.Reader) (io.Reader, error) {
		return lz4.NewReader(r), nil
	})
}

// Encode encodes a byte slice into a single LZ4 frame with block checksums.
func (c *LZ4) Encode(decodedData []byte) ([]byte, error) {
	return encodeWith(decodedData, func(w io.Writer) (io.WriteCloser, error) {
		zw := lz4.NewWriter(w)
		zw.Header.BlockChecksum = true
		return zw, nil
	})
}
