// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"errors"
	"fmt"
)

// ErrArgs reports a command line amlgen cannot act on. main prints the help
// of the verb after it.
type ErrArgs struct {
	Err error
}

// Argsf returns an ErrArgs with a formatted reason.
func Argsf(format string, a ...interface{}) ErrArgs {
	return ErrArgs{Err: fmt.Errorf(format, a...)}
}

func (err ErrArgs) Error() string {
	return "invalid arguments: " + err.Err.Error()
}

func (err ErrArgs) Unwrap() error {
	return err.Err
}

// ErrDiffers is returned by the diff verb when the two AML bodies are not
// byte-identical. amlgen exits with status 1 on it, like diff(1).
var ErrDiffers = errors.New("AML bodies differ")
