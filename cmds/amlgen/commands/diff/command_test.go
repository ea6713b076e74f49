// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diff

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxboot/amlgen/cmds/amlgen/commands"
)

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	desc := filepath.Join(dir, "sta.yaml")
	require.NoError(t, os.WriteFile(desc, []byte("terms:\n  - name: {path: _STA, value: {integer: 15}}\n"), 0o644))
	same := filepath.Join(dir, "same.aml")
	require.NoError(t, os.WriteFile(same, []byte{0x08, '_', 'S', 'T', 'A', 0x0a, 0x0f}, 0o644))
	other := filepath.Join(dir, "other.aml")
	require.NoError(t, os.WriteFile(other, []byte{0x08, '_', 'S', 'T', 'A', 0x0a, 0x0b}, 0o644))

	var buf bytes.Buffer
	cmd := &Command{Width: 16, Color: "never", out: &buf}
	require.NoError(t, cmd.Execute([]string{desc, same}))

	buf.Reset()
	err := cmd.Execute([]string{desc, other})
	assert.ErrorIs(t, err, commands.ErrDiffers)
	assert.Contains(t, buf.String(), "-00000000  08 5f 53 54 41 0a 0f")
	assert.Contains(t, buf.String(), "+00000000  08 5f 53 54 41 0a 0b")
	assert.NotContains(t, buf.String(), "\x1b[")

	buf.Reset()
	cmd.Color = "always"
	assert.ErrorIs(t, cmd.Execute([]string{same, other}), commands.ErrDiffers)
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestExecuteArgs(t *testing.T) {
	var argsErr commands.ErrArgs
	cmd := &Command{Width: 16, out: &bytes.Buffer{}}
	assert.ErrorAs(t, cmd.Execute([]string{"a.aml"}), &argsErr)

	cmd.Color = "sometimes"
	assert.ErrorAs(t, cmd.Execute([]string{"a.aml", "b.aml"}), &argsErr)
}
