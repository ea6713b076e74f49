// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package amldump

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Diff writes a line diff of the hex dumps of a and b to w. Removed lines
// start with "-", added lines with "+". The lines are coloured when colored
// is set. Diff reports whether the dumps differ.
func Diff(w io.Writer, a, b []byte, width int, colored bool) (bool, error) {
	textA, err := Text(a, width)
	if err != nil {
		return false, err
	}
	textB, err := Text(b, width)
	if err != nil {
		return false, err
	}

	dmp := diffpatch.New()
	charsA, charsB, lines := dmp.DiffLinesToChars(textA, textB)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(charsA, charsB, false), lines)

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)
	for _, c := range []*color.Color{removed, added} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	changed := false
	for _, d := range diffs {
		prefix, c := " ", (*color.Color)(nil)
		switch d.Type {
		case diffpatch.DiffDelete:
			prefix, c = "-", removed
			changed = true
		case diffpatch.DiffInsert:
			prefix, c = "+", added
			changed = true
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = prefix + strings.TrimSuffix(line, "\n")
			if c != nil {
				line = c.Sprint(line)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return changed, err
			}
		}
	}
	return changed, nil
}
