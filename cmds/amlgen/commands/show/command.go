// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package show

import (
	"io"
	"os"

	"github.com/linuxboot/amlgen/cmds/amlgen/commands"
	"github.com/linuxboot/amlgen/pkg/amldump"
)

var _ commands.Command = (*Command)(nil)

type Command struct {
	Input      string `short:"i" long:"input" description:"path to a YAML description"`
	File       string `short:"f" long:"file" description:"path to an AML body"`
	Decompress string `long:"decompress" description:"decompress --file first [none, lz4, lzma, xz, zstd, zlib]"`
	Width      int    `short:"w" long:"width" description:"bytes per line" default:"16"`

	out io.Writer
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "prints the hex dump of a description or AML body"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return ""
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd *Command) Execute(args []string) error {
	if len(args) != 0 {
		return commands.Argsf("there are extra arguments")
	}
	path := cmd.Input
	switch {
	case cmd.Input != "" && cmd.File != "":
		return commands.Argsf("--input and --file are mutually exclusive")
	case cmd.Input == "" && cmd.File == "":
		return commands.Argsf("one of --input or --file is required")
	case cmd.File != "":
		path = cmd.File
	case !commands.IsDescription(cmd.Input):
		return commands.Argsf("--input '%s' is not a .yaml description", cmd.Input)
	}

	b, err := commands.Load(path, cmd.Decompress)
	if err != nil {
		return err
	}

	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	if err := amldump.Table(out, path, b, cmd.Width); err != nil {
		return commands.ErrArgs{Err: err}
	}
	return nil
}
