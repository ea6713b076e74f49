// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aml

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package matches exactly one of
// them through errors.Is.
var (
	// ErrInvalidInput means the caller violated the contract of a call:
	// nil handles, out of range enumerations, malformed names or strings,
	// size limits or a backwards field offset.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOutOfResources means the allocator could not provide memory.
	ErrOutOfResources = errors.New("out of resources")

	// ErrInvariantViolation means the open/close protocol was broken:
	// unbalanced scopes, missing operands or an unfinished list.
	ErrInvariantViolation = errors.New("invariant violation")
)

func invalidInputf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func invariantf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}

// NameError means a name segment or name string is malformed.
type NameError struct {
	Name   string
	Reason string
}

func (err *NameError) Error() string {
	return fmt.Sprintf("invalid AML name %q: %s", err.Name, err.Reason)
}

// Unwrap returns ErrInvalidInput.
func (err *NameError) Unwrap() error { return ErrInvalidInput }

// IntegerWidthError means a value does not fit the requested width.
type IntegerWidthError struct {
	Value uint64
	Width int
}

func (err *IntegerWidthError) Error() string {
	return fmt.Sprintf("value %#x does not fit in %d byte(s)", err.Value, err.Width)
}

// Unwrap returns ErrInvalidInput.
func (err *IntegerWidthError) Unwrap() error { return ErrInvalidInput }

// ScopeError means a Close did not match the innermost open scope.
type ScopeError struct {
	Construct string
	Reason    string
}

func (err *ScopeError) Error() string {
	return fmt.Sprintf("unbalanced open/close of %s: %s", err.Construct, err.Reason)
}

// Unwrap returns ErrInvariantViolation.
func (err *ScopeError) Unwrap() error { return ErrInvariantViolation }

// ArityError means a construct was closed with the wrong number of operands.
type ArityError struct {
	Construct string
	Min, Max  int
	Got       int
}

func (err *ArityError) Error() string {
	if err.Min == err.Max {
		return fmt.Sprintf("%s takes %d operand(s), got %d", err.Construct, err.Min, err.Got)
	}
	if err.Max < 0 {
		return fmt.Sprintf("%s takes at least %d operand(s), got %d", err.Construct, err.Min, err.Got)
	}
	return fmt.Sprintf("%s takes %d to %d operands, got %d", err.Construct, err.Min, err.Max, err.Got)
}

// Unwrap returns ErrInvariantViolation.
func (err *ArityError) Unwrap() error { return ErrInvariantViolation }

// CursorError means a field unit was requested behind the field's current
// bit offset.
type CursorError struct {
	Cursor    uint64
	Requested uint64
}

func (err *CursorError) Error() string {
	return fmt.Sprintf("field bit offset %d is behind the current offset %d", err.Requested, err.Cursor)
}

// Unwrap returns ErrInvalidInput.
func (err *CursorError) Unwrap() error { return ErrInvalidInput }
