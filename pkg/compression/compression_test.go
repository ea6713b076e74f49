// Copyright 2018 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compression

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData() []byte {
	// A DSDT-like mix: repetitive names with some noise.
	r := rand.New(rand.NewSource(1))
	var b bytes.Buffer
	for i := 0; i < 512; i++ {
		b.Write([]byte{0x5b, 0x82, 0x0b, 'P', 'C', 'I', '0', 0x08, '_', 'A', 'D', 'R'})
		b.WriteByte(byte(r.Intn(256)))
	}
	return b.Bytes()
}

func TestEncodeDecode(t *testing.T) {
	want := testData()
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			c, err := FromName(name)
			require.NoError(t, err)
			require.NotNil(t, c)
			assert.Equal(t, name, c.Name())

			encoded, err := c.Encode(want)
			require.NoError(t, err)
			assert.Less(t, len(encoded), len(want))

			got, err := c.Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDecodeGarbage(t *testing.T) {
	for _, name := range []string{"lzma", "xz", "zstd", "zlib"} {
		c, err := FromName(name)
		require.NoError(t, err)
		_, err = c.Decode([]byte("definitely not compressed"))
		assert.Error(t, err, name)
	}
}

func TestFromName(t *testing.T) {
	assert.Equal(t, []string{"lz4", "lzma", "xz", "zlib", "zstd"}, Names())

	for _, name := range []string{"", "none", "NONE"} {
		c, err := FromName(name)
		require.NoError(t, err)
		assert.Nil(t, c)
	}

	c, err := FromName("LZ4")
	require.NoError(t, err)
	assert.IsType(t, &LZ4{}, c)

	_, err = FromName("brotli")
	assert.ErrorContains(t, err, "lz4, lzma, xz, zlib, zstd")
}

func TestCheckDecodedSize(t *testing.T) {
	assert.NoError(t, checkDecodedSize(MaxDecodedSize))
	assert.Error(t, checkDecodedSize(MaxDecodedSize+1))
}

func TestEncodeWithError(t *testing.T) {
	_, err := encodeWith([]byte{1}, func(io.Writer) (io.WriteCloser, error) {
		return nil, errors.New("no writer")
	})
	assert.EqualError(t, err, "no writer")
}

func TestLZMAHeaderSize(t *testing.T) {
	want := testData()
	encoded, err := (&LZMA{}).Encode(want)
	require.NoError(t, err)
	require.Greater(t, len(encoded), 13)
	assert.Equal(t, uint64(len(want)), binary.LittleEndian.Uint64(encoded[5:13]))
}
