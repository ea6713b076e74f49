// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxboot/amlgen/pkg/compression"
)

const uidDescription = `
terms:
  - name: {path: _UID, value: {string: A}}
`

var uidBody = []byte{0x08, '_', 'U', 'I', 'D', 0x0d, 'A', 0x00}

func TestIsDescription(t *testing.T) {
	assert.True(t, IsDescription("dsdt.yaml"))
	assert.True(t, IsDescription("DSDT.YML"))
	assert.False(t, IsDescription("dsdt.aml"))
	assert.False(t, IsDescription("yaml"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	desc := filepath.Join(dir, "uid.yaml")
	require.NoError(t, os.WriteFile(desc, []byte(uidDescription), 0o644))
	b, err := Load(desc, "")
	require.NoError(t, err)
	assert.Equal(t, uidBody, b)

	raw := filepath.Join(dir, "uid.aml")
	require.NoError(t, os.WriteFile(raw, uidBody, 0o644))
	b, err = Load(raw, "none")
	require.NoError(t, err)
	assert.Equal(t, uidBody, b)

	c, err := compression.FromName("xz")
	require.NoError(t, err)
	packed, err := c.Encode(uidBody)
	require.NoError(t, err)
	compressed := filepath.Join(dir, "uid.aml.xz")
	require.NoError(t, os.WriteFile(compressed, packed, 0o644))
	b, err = Load(compressed, "xz")
	require.NoError(t, err)
	assert.Equal(t, uidBody, b)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "uid.aml")
	require.NoError(t, os.WriteFile(raw, uidBody, 0o644))

	_, err := Load(raw, "rar")
	var argsErr ErrArgs
	assert.ErrorAs(t, err, &argsErr)

	_, err = Load(raw, "zstd")
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.aml"), "")
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("terms:\n  - name: {path: 1UID, value: {zero: true}}\n"), 0o644))
	_, err = Load(bad, "")
	assert.ErrorContains(t, err, "unable to encode")
}
