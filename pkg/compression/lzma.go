// Copyright 2018 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compression

import (
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// LZMA implements Compressor for the legacy .lzma format used by firmware
// file systems such as CBFS.
type LZMA struct{}

// Name returns the type of compression employed.
func (c *LZMA) Name() string {
	return "lzma"
}

// Decode decodes a byte slice of LZMA data.
func (c *LZMA) Decode(encodedData []byte) ([]byte, error) {
	return decodeWith(encodedData, func(r io.Reader) (io.Reader, error) {
		return lzma.NewReader(r)
	})
}

// Encode encodes a byte slice with LZMA. The uncompressed size is written to
// the header and no end marker is emitted, which is what EDK2 and coreboot
// decoders expect.
func (c *LZMA) Encode(decodedData []byte) ([]byte, error) {
	cfg := lzma.WriterConfig{
		SizeInHeader: true,
		Size:         int64(len(decodedData)),
	}
	return encodeWith(decodedData, func(w io.Writer) (io.WriteCloser, error) {
		return cfg.NewWriter(w)
	})
}
