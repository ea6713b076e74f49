// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aml

// Allocator provides the payload memory of a List. Firmware hosts with a
// fixed pool can plug their own; every buffer obtained from Alloc is handed
// back to Free exactly once by the time List.Free returns.
type Allocator interface {
	// Alloc returns a zeroed buffer of exactly n bytes.
	Alloc(n int) ([]byte, error)
	// Free releases a buffer previously returned by Alloc.
	Free(b []byte)
}

// HeapAllocator allocates from the Go heap. Free is a no-op.
type HeapAllocator struct{}

// Alloc implements Allocator.
func (HeapAllocator) Alloc(n int) ([]byte, error) {
	return make([]byte, n), nil
}

// Free implements Allocator.
func (HeapAllocator) Free([]byte) {}
