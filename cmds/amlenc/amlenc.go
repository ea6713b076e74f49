// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// amlenc prints the AML encoding of single values.
//
// Synopsis:
//
//	amlenc [--eisaid ID]... [--name PATH]... [--integer N]... [--string S]...
//	       [--uuid UUID]... [--pkglen N]...
//
// An example:
//
//	$ amlenc --eisaid PNP0A08 --name '\_SB.PCI0' --pkglen 300
//	 eisaid  PNP0A08    0c 41 d0 0a 08
//	 name    \_SB.PCI0  5c 2e 5f 53 42 5f 50 43 49 30
//	 pkglen  300        4c 12
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	flag "github.com/spf13/pflag"

	"github.com/linuxboot/amlgen/pkg/aml"
	"github.com/linuxboot/amlgen/pkg/log"
)

type encoding struct {
	kind  string
	input string
	data  []byte
}

// term encodes the single term emitted by emit.
func term(emit func(l *aml.List) error) ([]byte, error) {
	l := aml.NewList()
	if err := emit(l); err != nil {
		l.Free()
		return nil, err
	}
	return l.Release()
}

func run(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("amlenc", flag.ContinueOnError)
	fs.SetOutput(w)
	eisaIDs := fs.StringArray("eisaid", nil, "EISA ID such as PNP0A08")
	names := fs.StringArray("name", nil, `name string such as \_SB.PCI0`)
	integers := fs.StringArray("integer", nil, "integer, decimal or 0x hex")
	strs := fs.StringArray("string", nil, "ASCII string")
	uuids := fs.StringArray("uuid", nil, "UUID encoded like ToUUID")
	pkgLens := fs.StringArray("pkglen", nil, "PkgLength value")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("unexpected arguments %q", fs.Args())
	}

	var out []encoding
	add := func(kind, input string, data []byte, err error) error {
		if err != nil {
			return fmt.Errorf("%s %q: %w", kind, input, err)
		}
		out = append(out, encoding{kind: kind, input: input, data: data})
		return nil
	}

	for _, id := range *eisaIDs {
		b, err := term(func(l *aml.List) error { return l.EisaID(id) })
		if err := add("eisaid", id, b, err); err != nil {
			return err
		}
	}
	for _, name := range *names {
		b, err := aml.NameString(name)
		if err := add("name", name, b, err); err != nil {
			return err
		}
	}
	for _, s := range *integers {
		v, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return fmt.Errorf("integer %q: %w", s, err)
		}
		if err := add("integer", s, aml.OptimizedInteger(v), nil); err != nil {
			return err
		}
	}
	for _, s := range *strs {
		b, err := aml.EncodeString(s)
		if err := add("string", s, b, err); err != nil {
			return err
		}
	}
	for _, u := range *uuids {
		b, err := term(func(l *aml.List) error { return l.UUID(u) })
		if err := add("uuid", u, b, err); err != nil {
			return err
		}
	}
	for _, s := range *pkgLens {
		v, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return fmt.Errorf("pkglen %q: %w", s, err)
		}
		b, err := aml.EncodePkgLength(uint32(v))
		if err := add("pkglen", s, b, err); err != nil {
			return err
		}
	}
	if len(out) == 0 {
		return fmt.Errorf("nothing to encode\n%s", fs.FlagUsages())
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	style := table.StyleDefault
	style.Options = table.Options{}
	t.SetStyle(style)
	for _, e := range out {
		t.AppendRow(table.Row{e.kind, e.input, fmt.Sprintf("% x", e.data)})
	}
	t.Render()
	return nil
}

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return
		}
		log.Fatalf("%v", err)
	}
}
