// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// amlgen encodes YAML descriptions of ACPI namespaces into AML bodies.
//
// Synopsis:
//
//	amlgen build -i DESC_FILE -o AML_FILE [--compress lz4|lzma|xz|zstd|zlib]
//	amlgen show -i DESC_FILE [--width N]
//	amlgen show -f AML_FILE [--decompress NAME] [--width N]
//	amlgen diff [--width N] A B
//
// An example:
//
//	amlgen build -i ssdt.yaml -o ssdt.aml
//	amlgen show -f ssdt.aml
//	amlgen diff ssdt.yaml ssdt.aml
//
// Description:
//
//	build: Encodes a description and writes the AML body
//	show:  Prints the hex dump of a description or AML body
//	diff:  Prints a line diff of the hex dumps of two inputs
//
// The output is an AML body: no table header and no checksum.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/linuxboot/amlgen/cmds/amlgen/commands"
	"github.com/linuxboot/amlgen/cmds/amlgen/commands/build"
	"github.com/linuxboot/amlgen/cmds/amlgen/commands/diff"
	"github.com/linuxboot/amlgen/cmds/amlgen/commands/show"
	"github.com/linuxboot/amlgen/pkg/log"
)

var (
	knownCommands = map[string]commands.Command{
		"build": &build.Command{},
		"show":  &show.Command{},
		"diff":  &diff.Command{},
	}
)

type options struct {
	Verbose bool `short:"v" long:"verbose" description:"trace scope handling while building"`
}

func main() {
	var opts options
	flagsParser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	if err := commands.Register(flagsParser, knownCommands); err != nil {
		panic(err)
	}
	flagsParser.CommandHandler = func(command flags.Commander, args []string) error {
		log.SetVerbose(opts.Verbose)
		if command == nil {
			return nil
		}
		return command.Execute(args)
	}

	// parse arguments and execute the appropriate command
	_, err := flagsParser.Parse()
	var flagsErr *flags.Error
	switch {
	case err == nil:
	case errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp:
		fmt.Println(flagsErr.Message)
	case errors.Is(err, commands.ErrDiffers):
		os.Exit(1)
	default:
		var argsErr commands.ErrArgs
		if errors.As(err, &argsErr) {
			flagsParser.WriteHelp(os.Stderr)
		}
		log.Fatalf("%v", err)
	}
}
