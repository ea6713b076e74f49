// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aml

import (
	"fmt"
)

// scope is the bookkeeping behind every Open call: the marker node that
// will receive the final bytes and the construct it belongs to.
type scope struct {
	list      *List
	construct string
	marker    int
	closed    bool
}

// open pushes a marker node and a scope for construct.
func (l *List) open(construct string) (*scope, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	if len(l.scopes) >= l.maxDepth {
		return nil, invalidInputf("opening %s would exceed the maximum nesting depth %d", construct, l.maxDepth)
	}
	s := &scope{
		list:      l,
		construct: construct,
		marker:    len(l.nodes),
	}
	l.nodes = append(l.nodes, node{})
	l.scopes = append(l.scopes, s)
	l.logger.Debugf("open %s at node %d, depth %d", construct, s.marker, len(l.scopes))
	return s, nil
}

// innermost returns the innermost open scope or nil.
func (l *List) innermost() *scope {
	if l == nil || len(l.scopes) == 0 {
		return nil
	}
	return l.scopes[len(l.scopes)-1]
}

// validate checks that s may be closed now.
func (s *scope) validate(construct string) error {
	if s == nil || s.list == nil {
		return &ScopeError{Construct: construct, Reason: "no matching open"}
	}
	if s.closed {
		return &ScopeError{Construct: s.construct, Reason: "already closed"}
	}
	in := s.list.innermost()
	if in != s {
		reason := "not open in this list"
		if in != nil {
			reason = fmt.Sprintf("%s opened at node %d is still open", in.construct, in.marker)
		}
		return &ScopeError{Construct: s.construct, Reason: reason}
	}
	return nil
}

// children returns the payloads emitted since the scope was opened.
func (s *scope) children() ([][]byte, error) {
	nodes := s.list.nodes[s.marker+1:]
	out := make([][]byte, len(nodes))
	for i := range nodes {
		if !nodes[i].completed {
			return nil, invariantf("%s: child node %d is incomplete", s.construct, s.marker+1+i)
		}
		out[i] = nodes[i].data
	}
	return out, nil
}

func (s *scope) childCount() int {
	return len(s.list.nodes) - s.marker - 1
}

// checkArity fails unless the scope holds between min and max children;
// max < 0 means unbounded.
func (s *scope) checkArity(min, max int) error {
	n := s.childCount()
	if n < min || (max >= 0 && n > max) {
		return &ArityError{Construct: s.construct, Min: min, Max: max, Got: n}
	}
	return nil
}

// assembly describes how a scope's children are framed on Close:
//
//	op [PkgLength] head children... tail
//
// PkgLength, when present, covers everything after the opcode.
type assembly struct {
	op     Opcode
	pkgLen bool
	head   []byte
	tail   []byte
}

// collapse replaces the marker with the assembled construct and frees the
// children. On failure the list is left untouched.
func (s *scope) collapse(a assembly) error {
	l := s.list
	children, err := s.children()
	if err != nil {
		return err
	}
	content := len(a.head) + len(a.tail)
	for _, c := range children {
		content += len(c)
	}
	var pl []byte
	if a.pkgLen {
		if pl, err = pkgLengthFor(content); err != nil {
			return fmt.Errorf("%s: %w", s.construct, err)
		}
	}
	buf, err := l.allocate(a.op.Len() + len(pl) + content)
	if err != nil {
		return fmt.Errorf("%s: %w", s.construct, err)
	}

	off := copy(buf, a.op.Bytes())
	off += copy(buf[off:], pl)
	off += copy(buf[off:], a.head)
	for _, c := range children {
		off += copy(buf[off:], c)
	}
	copy(buf[off:], a.tail)

	for i := len(l.nodes) - 1; i > s.marker; i-- {
		l.removeAndFree(i)
	}
	l.nodes[s.marker] = node{completed: true, data: buf, op: a.op}
	l.scopes = l.scopes[:len(l.scopes)-1]
	s.closed = true
	l.logger.Debugf("close %s at node %d: %d bytes", s.construct, s.marker, len(buf))
	return nil
}

// Scope is the handle of an open construct that needs no argument to close:
// named objects with a term list, statements and operators.
type Scope struct {
	s   *scope
	asm assembly

	// min..max operands are accepted; max < 0 means any number. When
	// fewer than max are given, the missing trailing ones are taken from
	// the end of fill (a NullName Target, the Zero of a bare Return), so
	// max-min never exceeds len(fill).
	min, max int
	fill     [][]byte
}

// Close collapses the construct. It fails with ErrInvariantViolation if the
// scope is not the innermost open one or the operand count is wrong.
func (sc *Scope) Close() error {
	if sc == nil {
		return &ScopeError{Construct: "scope", Reason: "no matching open"}
	}
	if err := sc.s.validate(sc.asm.op.String()); err != nil {
		return err
	}
	if err := sc.s.checkArity(sc.min, sc.max); err != nil {
		return err
	}
	a := sc.asm
	if missing := sc.max - sc.s.childCount(); sc.max >= 0 && missing > 0 && len(sc.fill) > 0 {
		var tail []byte
		for _, f := range sc.fill[len(sc.fill)-missing:] {
			tail = append(tail, f...)
		}
		a.tail = append(tail, a.tail...)
	}
	return sc.s.collapse(a)
}

// Construct returns the name of the construct opened by this scope.
func (sc *Scope) Construct() string {
	return sc.s.construct
}

func (l *List) openScope(construct string, asm assembly, min, max int, fill ...[]byte) (*Scope, error) {
	s, err := l.open(construct)
	if err != nil {
		return nil, err
	}
	return &Scope{s: s, asm: asm, min: min, max: max, fill: fill}, nil
}

// abort frees every node emitted since s was opened, its marker included,
// and pops s together with any scope still open inside it.
func (s *scope) abort() {
	if s == nil || s.closed {
		return
	}
	l := s.list
	for i := len(l.scopes) - 1; i >= 0; i-- {
		in := l.scopes[i]
		in.closed = true
		l.scopes = l.scopes[:i]
		if in == s {
			break
		}
	}
	for i := len(l.nodes) - 1; i >= s.marker; i-- {
		l.removeAndFree(i)
	}
	l.logger.Debugf("abort %s at node %d, depth %d", s.construct, s.marker, len(l.scopes))
}

// guard runs body and then done on the open scope s. If either fails the
// scope is aborted, so the list is as it was before the open.
func guard(s *scope, body func() error, done func() error) error {
	if body != nil {
		if err := body(); err != nil {
			s.abort()
			return fmt.Errorf("%s: %w", s.construct, err)
		}
	}
	if err := done(); err != nil {
		s.abort()
		return err
	}
	return nil
}

// build runs body between an open and the matching close.
func build(open func() (*Scope, error), body func() error) error {
	sc, err := open()
	if err != nil {
		return err
	}
	return guard(sc.s, body, sc.Close)
}
