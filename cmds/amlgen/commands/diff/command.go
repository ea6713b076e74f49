// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diff

import (
	"io"
	"os"

	"github.com/linuxboot/amlgen/cmds/amlgen/commands"
	"github.com/linuxboot/amlgen/pkg/amldump"
)

var _ commands.Command = (*Command)(nil)

type Command struct {
	Width      int    `short:"w" long:"width" description:"bytes per line" default:"16"`
	Decompress string `long:"decompress" description:"decompress AML inputs first [none, lz4, lzma, xz, zstd, zlib]"`
	Color      string `long:"color" description:"colour the diff [auto, always, never]" default:"auto"`

	out io.Writer
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "prints a line diff of the hex dumps of two inputs"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return "Each input is a YAML description (.yaml, .yml) or an AML body. " +
		"The exit status is 1 when the inputs differ."
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd *Command) Execute(args []string) error {
	if len(args) != 2 {
		return commands.Argsf("expected two inputs, got %d", len(args))
	}

	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	var colored bool
	switch cmd.Color {
	case "", "auto":
		colored = amldump.IsTerminal(out)
	case "always":
		colored = true
	case "never":
	default:
		return commands.Argsf("unknown --color '%s'", cmd.Color)
	}

	var inputs [2][]byte
	for i, path := range args {
		b, err := commands.Load(path, cmd.Decompress)
		if err != nil {
			return err
		}
		inputs[i] = b
	}

	changed, err := amldump.Diff(out, inputs[0], inputs[1], cmd.Width, colored)
	if err != nil {
		return commands.ErrArgs{Err: err}
	}
	if changed {
		return commands.ErrDiffers
	}
	return nil
}
