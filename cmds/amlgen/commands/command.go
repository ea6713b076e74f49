// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"
	"sort"

	"github.com/jessevdk/go-flags"
)

// Command is an interface of implementations of verbs
// (like "build", "show" etc of "amlgen build"/"amlgen show")
type Command interface {
	flags.Commander

	// ShortDescription explains what this command does in one line
	ShortDescription() string

	// LongDescription explains what this verb does (without limitation in amount of lines)
	LongDescription() string
}

// Register adds every command to parser in name order.
func Register(parser *flags.Parser, known map[string]Command) error {
	names := make([]string, 0, len(known))
	for name := range known {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		command := known[name]
		if _, err := parser.AddCommand(name, command.ShortDescription(), command.LongDescription(), command); err != nil {
			return fmt.Errorf("unable to register command '%s': %w", name, err)
		}
	}
	return nil
}
