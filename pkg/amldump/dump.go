// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package amldump renders AML bodies as hex dumps and compares them.
package amldump

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// DefaultWidth is the number of bytes per dump line.
const DefaultWidth = 16

// Line is one line of a hex dump.
type Line struct {
	Offset int
	Hex    string
	ASCII  string
}

// format renders l as "offset  hex  |ascii|", padding the hex column for
// width bytes.
func (l Line) format(width int) string {
	return fmt.Sprintf("%08x  %-*s  |%s|", l.Offset, width*3-1, l.Hex, l.ASCII)
}

func checkWidth(width int) error {
	if width <= 0 || width > 64 {
		return fmt.Errorf("dump width %d out of range 1..64", width)
	}
	return nil
}

// Lines splits b into dump lines of width bytes.
func Lines(b []byte, width int) ([]Line, error) {
	if err := checkWidth(width); err != nil {
		return nil, err
	}
	lines := make([]Line, 0, (len(b)+width-1)/width)
	for off := 0; off < len(b); off += width {
		end := off + width
		if end > len(b) {
			end = len(b)
		}
		chunk := b[off:end]
		hex := make([]string, len(chunk))
		ascii := make([]byte, len(chunk))
		for i, c := range chunk {
			hex[i] = fmt.Sprintf("%02x", c)
			if c >= 0x20 && c < 0x7f {
				ascii[i] = c
			} else {
				ascii[i] = '.'
			}
		}
		lines = append(lines, Line{Offset: off, Hex: strings.Join(hex, " "), ASCII: string(ascii)})
	}
	return lines, nil
}

// Text returns the plain hex dump of b, one line per width bytes.
func Text(b []byte, width int) (string, error) {
	lines, err := Lines(b, width)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l.format(width))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// Table writes b to w as a table of offsets, hex bytes and printable
// characters, with the total size in the footer.
func Table(w io.Writer, title string, b []byte, width int) error {
	lines, err := Lines(b, width)
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if title != "" {
		t.SetTitle(title)
	}
	t.AppendHeader(table.Row{"Offset", "Bytes", "ASCII"})
	for _, l := range lines {
		t.AppendRow(table.Row{fmt.Sprintf("0x%04x", l.Offset), l.Hex, l.ASCII})
	}
	t.AppendFooter(table.Row{"Size", fmt.Sprintf("%d bytes (%s)", len(b), humanize.IBytes(uint64(len(b)))), ""})
	t.Render()
	return nil
}
