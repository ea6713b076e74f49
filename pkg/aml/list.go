// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package aml builds binary ACPI Machine Language byte streams.
//
// A List collects the objects of a tree under construction in depth-first
// order. One-shot calls (integers, strings, names, resource descriptors)
// append a completed node. Compound constructs (Buffer, Package, Device,
// Method, Field, If, Store, ...) are bracketed by an Open call, which returns
// a scope handle, and a Close call on that handle. Close collapses every node
// emitted since the Open into the final encoding of the construct, including
// its PkgLength prefix when it has one.
//
// When construction is done exactly one completed node is left and
// GetCompleted hands back its bytes: the body of an ACPI definition block,
// without table header or checksum.
//
// A List is not safe for concurrent use. Any error leaves the list in an
// unspecified state; the only recovery is Free.
package aml

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/linuxboot/amlgen/pkg/log"
)

// DefaultMaxDepth bounds the scope nesting of a List unless WithMaxDepth
// says otherwise.
const DefaultMaxDepth = 256

type node struct {
	completed bool
	data      []byte
	// op is the opcode of the construct a closed scope collapsed into;
	// zero for one-shot emits.
	op Opcode
}

// List is the arena holding an AML tree under construction.
type List struct {
	nodes    []node
	scopes   []*scope
	alloc    Allocator
	logger   log.Logger
	maxDepth int
}

// Option configures a List.
type Option func(*List)

// WithAllocator makes the list allocate node payloads from a.
func WithAllocator(a Allocator) Option {
	return func(l *List) {
		l.alloc = a
	}
}

// WithLogger sets the logger used to trace scope handling.
func WithLogger(logger log.Logger) Option {
	return func(l *List) {
		l.logger = logger
	}
}

// WithMaxDepth bounds scope nesting; opening a scope beyond it fails with
// ErrInvalidInput.
func WithMaxDepth(depth int) Option {
	return func(l *List) {
		l.maxDepth = depth
	}
}

// NewList returns an empty list.
func NewList(opts ...Option) *List {
	l := &List{
		alloc:    HeapAllocator{},
		logger:   log.DefaultLogger,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Len returns the number of nodes currently in the list.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.nodes)
}

// Depth returns the number of scopes currently open.
func (l *List) Depth() int {
	if l == nil {
		return 0
	}
	return len(l.scopes)
}

func (l *List) check() error {
	if l == nil {
		return invalidInputf("nil list")
	}
	return nil
}

func (l *List) allocate(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	b, err := l.alloc.Alloc(n)
	if err != nil {
		return nil, fmt.Errorf("%w: allocating %d bytes: %v", ErrOutOfResources, n, err)
	}
	if len(b) != n {
		l.alloc.Free(b)
		return nil, fmt.Errorf("%w: allocator returned %d bytes, want %d", ErrOutOfResources, len(b), n)
	}
	return b, nil
}

func (l *List) release(b []byte) {
	if b != nil {
		l.alloc.Free(b)
	}
}

// emit appends a completed node holding a copy of the given parts.
func (l *List) emit(parts ...[]byte) error {
	if err := l.check(); err != nil {
		return err
	}
	size := 0
	for _, p := range parts {
		size += len(p)
	}
	b, err := l.allocate(size)
	if err != nil {
		return err
	}
	off := 0
	for _, p := range parts {
		off += copy(b[off:], p)
	}
	l.nodes = append(l.nodes, node{completed: true, data: b})
	return nil
}

// removeAndFree drops the node at index i and frees its payload.
func (l *List) removeAndFree(i int) {
	l.release(l.nodes[i].data)
	copy(l.nodes[i:], l.nodes[i+1:])
	l.nodes[len(l.nodes)-1] = node{}
	l.nodes = l.nodes[:len(l.nodes)-1]
}

// GetCompleted returns a copy of the finished AML byte stream. It fails with
// ErrInvariantViolation unless every scope is closed and exactly one
// completed node is left.
func (l *List) GetCompleted() ([]byte, error) {
	if err := l.check(); err != nil {
		return nil, err
	}

	var result *multierror.Error
	if len(l.scopes) != 0 {
		result = multierror.Append(result, invariantf("construction left %d open scope(s), innermost %s",
			len(l.scopes), l.scopes[len(l.scopes)-1].construct))
	}
	switch {
	case len(l.nodes) == 0:
		result = multierror.Append(result, invariantf("list is empty"))
	case len(l.nodes) > 1:
		result = multierror.Append(result, invariantf("list holds %d nodes, want 1", len(l.nodes)))
	case !l.nodes[0].completed:
		result = multierror.Append(result, invariantf("final node incomplete"))
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	out := make([]byte, len(l.nodes[0].data))
	copy(out, l.nodes[0].data)
	return out, nil
}

// Free releases every node of the list. The list is empty and reusable
// afterwards; every open scope handle becomes invalid.
func (l *List) Free() {
	if l == nil {
		return
	}
	if len(l.scopes) != 0 {
		l.logger.Warnf("freeing AML list with %d open scope(s)", len(l.scopes))
	}
	for _, s := range l.scopes {
		s.closed = true
	}
	for i := range l.nodes {
		l.release(l.nodes[i].data)
		l.nodes[i] = node{}
	}
	l.nodes = l.nodes[:0]
	l.scopes = l.scopes[:0]
}

// Release returns the completed byte stream and frees the list. The list is
// freed even when completion fails.
func (l *List) Release() ([]byte, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	defer l.Free()
	return l.GetCompleted()
}
