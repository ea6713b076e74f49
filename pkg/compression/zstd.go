// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compression

import (
	"github.com/klauspost/compress/zstd"
)

// ZSTD implements Compressor with klauspost's zstd.
type ZSTD struct{}

// Name returns the type of compression employed.
func (c *ZSTD) Name() string {
	return "zstd"
}

// Decode decodes a byte slice of zstd data.
func (c *ZSTD) Decode(encodedData []byte) ([]byte, error) {
	reader, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxDecodedSize))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	decodedData, err := reader.DecodeAll(encodedData, nil)
	if err != nil {
		return nil, err
	}
	if err := checkDecodedSize(int64(len(decodedData))); err != nil {
		return nil, err
	}
	return decodedData, nil
}

// Encode encodes a byte slice with zstd at the best compression level.
func (c *ZSTD) Encode(decodedData []byte) ([]byte, error) {
	writer, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, err
	}
	defer writer.Close()
	return writer.EncodeAll(decodedData, nil), nil
}
