// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"errors"
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoCommand struct {
	Width int `long:"width" default:"16"`
	got   []string
}

func (cmd *echoCommand) ShortDescription() string { return "echo" }
func (cmd *echoCommand) LongDescription() string  { return "" }
func (cmd *echoCommand) Execute(args []string) error {
	cmd.got = args
	if len(args) == 0 {
		return Argsf("no arguments for %s", "echo")
	}
	return nil
}

func TestRegister(t *testing.T) {
	a, b := &echoCommand{}, &echoCommand{}
	parser := flags.NewParser(nil, flags.HelpFlag)
	require.NoError(t, Register(parser, map[string]Command{"b": b, "a": a}))

	cmds := parser.Commands()
	require.Len(t, cmds, 2)
	assert.Equal(t, "a", cmds[0].Name)
	assert.Equal(t, "b", cmds[1].Name)

	_, err := parser.ParseArgs([]string{"b", "--width", "8", "x.aml"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x.aml"}, b.got)
	assert.Equal(t, 8, b.Width)

	_, err = parser.ParseArgs([]string{"a"})
	var argsErr ErrArgs
	assert.ErrorAs(t, err, &argsErr)
	assert.EqualError(t, err, "invalid arguments: no arguments for echo")
}

func TestErrArgsUnwrap(t *testing.T) {
	cause := errors.New("bad width")
	err := error(ErrArgs{Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.False(t, errors.Is(ErrDiffers, cause))
}
