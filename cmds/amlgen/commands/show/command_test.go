// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package show

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
	desc := filepath.Join(dir, "uid.yaml")
	require.NoError(t, os.WriteFile(desc, []byte("terms:\n  - name: {path: _UID, value: {one: true}}\n"), 0o644))

	var buf bytes.Buffer
	cmd := &Command{Input: desc, Width: 16, out: &buf}
	require.NoError(t, cmd.Execute(nil))
	assert.Contains(t, buf.String(), "08 5f 55 49 44 01")
	assert.Contains(t, buf.String(), "._UID.")

	raw := filepath.Join(dir, "uid.aml")
	require.NoError(t, os.WriteFile(raw, []byte{0x08, '_', 'U', 'I', 'D', 0x01}, 0o644))
	buf.Reset()
	cmd = &Command{File: raw, Width: 4, out: &buf}
	require.NoError(t, cmd.Execute(nil))
	assert.Contains(t, buf.String(), "08 5f 55 49")
	assert.Contains(t, buf.String(), "0x0004")
}

func TestExecuteArgs(t *testing.T) {
	var argsErr commands.ErrArgs
	for name, cmd := range map[string]*Command{
		"none":      {Width: 16},
		"both":      {Input: "a.yaml", File: "b.aml", Width: 16},
		"not yaml":  {Input: "a.aml", Width: 16},
		"bad width": {File: "testdata/missing.aml", Width: 0},
	} {
		t.Run(name, func(t *testing.T) {
			err := cmd.Execute(nil)
			if name == "bad width" {
				assert.Error(t, err)
				return
			}
			assert.ErrorAs(t, err, &argsErr)
		})
	}
}
