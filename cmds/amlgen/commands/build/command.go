// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/linuxboot/amlgen/cmds/amlgen/commands"
	"github.com/linuxboot/amlgen/pkg/aml"
	"github.com/linuxboot/amlgen/pkg/amldesc"
	"github.com/linuxboot/amlgen/pkg/compression"
	"github.com/linuxboot/amlgen/pkg/log"
)

var _ commands.Command = (*Command)(nil)

type Command struct {
	Input    string `short:"i" long:"input" description:"path to the YAML description" required:"true"`
	Output   string `short:"o" long:"output" description:"path to write the AML body to" required:"true"`
	Compress string `long:"compress" description:"compress the output [none, lz4, lzma, xz, zstd, zlib]" default:"none"`
	MaxDepth int    `long:"max-depth" description:"maximum scope nesting"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "encodes a description into an AML body"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return "Encodes the YAML description given by --input and writes the AML body " +
		"(no table header, no checksum) to --output, optionally compressed."
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd *Command) Execute(args []string) error {
	if len(args) != 0 {
		return commands.Argsf("there are extra arguments")
	}
	if cmd.MaxDepth < 0 {
		return commands.Argsf("negative --max-depth %d", cmd.MaxDepth)
	}
	c, err := compression.FromName(cmd.Compress)
	if err != nil {
		return commands.ErrArgs{Err: err}
	}

	var opts []aml.Option
	if cmd.MaxDepth != 0 {
		opts = append(opts, aml.WithMaxDepth(cmd.MaxDepth))
	}
	body, err := amldesc.BuildFile(cmd.Input, opts...)
	if err != nil {
		return fmt.Errorf("unable to encode '%s': %w", cmd.Input, err)
	}

	out := body
	if c != nil {
		out, err = c.Encode(body)
		if err != nil {
			return fmt.Errorf("unable to compress with %s: %w", c.Name(), err)
		}
	}
	if err := os.WriteFile(cmd.Output, out, 0o644); err != nil {
		return fmt.Errorf("unable to write '%s': %w", cmd.Output, err)
	}

	if c != nil {
		log.Debugf("%s: %s body, %s %s", cmd.Output,
			humanize.IBytes(uint64(len(body))), humanize.IBytes(uint64(len(out))), c.Name())
	} else {
		log.Debugf("%s: %s body", cmd.Output, humanize.IBytes(uint64(len(body))))
	}
	return nil
}
