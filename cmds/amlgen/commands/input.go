// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/linuxboot/amlgen/pkg/amldesc"
	"github.com/linuxboot/amlgen/pkg/compression"
)

// IsDescription reports whether path names a YAML description rather than
// an AML body.
func IsDescription(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load returns the AML body at path. Descriptions are encoded, AML files are
// read and decompressed with the compressor called decompress.
func Load(path, decompress string) ([]byte, error) {
	c, err := compression.FromName(decompress)
	if err != nil {
		return nil, ErrArgs{Err: err}
	}
	if IsDescription(path) {
		b, err := amldesc.BuildFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to encode '%s': %w", path, err)
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read AML file '%s': %w", path, err)
	}
	if c == nil {
		return b, nil
	}
	b, err = c.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("unable to decompress '%s' with %s: %w", path, c.Name(), err)
	}
	return b, nil
}
