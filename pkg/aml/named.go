// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aml

// Construct names reported in errors and logs.
const (
	constructBuffer           = "Buffer"
	constructResourceTemplate = "ResourceTemplate"
	constructPackage          = "Package"
	constructVarPackage       = "VarPackage"
)

// MaxBufferSize is the first Buffer size that is rejected. Buffer sizes are
// kept below 4 GiB because consumers still assume the 32-bit size limit of
// the reference ASL compiler.
const MaxBufferSize = 1 << 32

// BufferScope is the handle of an open Buffer or ResourceTemplate.
type BufferScope struct {
	s        *scope
	template bool
}

// OpenBuffer opens a Buffer. Its initializer bytes are emitted with RawBuffer
// or the resource descriptor emitters.
//
// Grammar:
// DefBuffer := BufferOp PkgLength BufferSize ByteList
func (l *List) OpenBuffer() (*BufferScope, error) {
	s, err := l.open(constructBuffer)
	if err != nil {
		return nil, err
	}
	return &BufferScope{s: s}, nil
}

// OpenResourceTemplate opens a Buffer whose content is a list of resource
// descriptors. Close appends the End Tag.
func (l *List) OpenResourceTemplate() (*BufferScope, error) {
	s, err := l.open(constructResourceTemplate)
	if err != nil {
		return nil, err
	}
	return &BufferScope{s: s, template: true}, nil
}

// Close collapses the buffer. The declared size is the larger of requested
// and the number of initializer bytes; either reaching MaxBufferSize is
// ErrInvalidInput.
func (b *BufferScope) Close(requested uint64) error {
	if b == nil {
		return &ScopeError{Construct: constructBuffer, Reason: "no matching open"}
	}
	if err := b.s.validate(constructBuffer); err != nil {
		return err
	}
	var tail []byte
	if b.template {
		tail = endTag()
	}
	initialized := uint64(len(tail))
	children, err := b.s.children()
	if err != nil {
		return err
	}
	for _, c := range children {
		initialized += uint64(len(c))
	}
	if requested >= MaxBufferSize || initialized >= MaxBufferSize {
		return invalidInputf("%s size %#x (initializer %#x bytes) reaches the 4 GiB limit",
			b.s.construct, requested, initialized)
	}
	size := requested
	if initialized > size {
		size = initialized
	}
	return b.s.collapse(assembly{
		op:     OpBuffer,
		pkgLen: true,
		head:   OptimizedInteger(size),
		tail:   tail,
	})
}

// BuildBuffer opens a Buffer, runs body and closes it with requested size.
func (l *List) BuildBuffer(requested uint64, body func() error) error {
	b, err := l.OpenBuffer()
	if err != nil {
		return err
	}
	return guard(b.s, body, func() error { return b.Close(requested) })
}

// BuildResourceTemplate opens a ResourceTemplate, runs body and closes it.
func (l *List) BuildResourceTemplate(body func() error) error {
	b, err := l.OpenResourceTemplate()
	if err != nil {
		return err
	}
	return guard(b.s, body, func() error { return b.Close(0) })
}

// PackageScope is the handle of an open Package or VarPackage.
type PackageScope struct {
	s        *scope
	variable bool
}

// OpenPackage opens a Package. Every element is one emitted term.
//
// Grammar:
// DefPackage := PackageOp PkgLength NumElements PackageElementList
// DefVarPackage := VarPackageOp PkgLength VarNumElements PackageElementList
func (l *List) OpenPackage() (*PackageScope, error) {
	s, err := l.open(constructPackage)
	if err != nil {
		return nil, err
	}
	return &PackageScope{s: s}, nil
}

// OpenVarPackage opens a package that is always encoded as a VarPackage.
func (l *List) OpenVarPackage() (*PackageScope, error) {
	s, err := l.open(constructVarPackage)
	if err != nil {
		return nil, err
	}
	return &PackageScope{s: s, variable: true}, nil
}

// Close collapses the package. A numElements of 0 declares as many elements
// as were emitted; a count smaller than that is ErrInvalidInput. Counts above
// 255 switch to the VarPackage encoding.
func (p *PackageScope) Close(numElements uint64) error {
	if p == nil {
		return &ScopeError{Construct: constructPackage, Reason: "no matching open"}
	}
	if err := p.s.validate(constructPackage); err != nil {
		return err
	}
	n := uint64(p.s.childCount())
	count := numElements
	if count == 0 {
		count = n
	}
	if count < n {
		return invalidInputf("%s declares %d elements but holds %d", p.s.construct, count, n)
	}
	if !p.variable && count <= 0xff {
		return p.s.collapse(assembly{op: OpPackage, pkgLen: true, head: []byte{byte(count)}})
	}
	return p.s.collapse(assembly{op: OpVarPackage, pkgLen: true, head: OptimizedInteger(count)})
}

// BuildPackage opens a Package, runs body and closes it with numElements.
func (l *List) BuildPackage(numElements uint64, body func() error) error {
	p, err := l.OpenPackage()
	if err != nil {
		return err
	}
	return guard(p.s, body, func() error { return p.Close(numElements) })
}

func (l *List) openNamedTermList(op Opcode, path string, extra ...byte) (*Scope, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	name, err := NameString(path)
	if err != nil {
		return nil, err
	}
	return l.openScope(op.String(), assembly{
		op:     op,
		pkgLen: true,
		head:   append(name, extra...),
	}, 0, -1)
}

// OpenScope opens an ASL Scope on path.
//
// Grammar:
// DefScope := ScopeOp PkgLength NameString TermList
func (l *List) OpenScope(path string) (*Scope, error) {
	return l.openNamedTermList(OpScope, path)
}

// BuildScope runs body inside Scope(path).
func (l *List) BuildScope(path string, body func() error) error {
	return build(func() (*Scope, error) { return l.OpenScope(path) }, body)
}

// OpenDevice opens a Device.
//
// Grammar:
// DefDevice := DeviceOp PkgLength NameString TermList
func (l *List) OpenDevice(path string) (*Scope, error) {
	return l.openNamedTermList(OpDevice, path)
}

// BuildDevice runs body inside Device(path).
func (l *List) BuildDevice(path string, body func() error) error {
	return build(func() (*Scope, error) { return l.OpenDevice(path) }, body)
}

// MethodFlags returns the MethodFlags byte:
// bits 0-2 ArgCount, bit 3 SerializeFlag, bits 4-7 SyncLevel.
func MethodFlags(argCount int, serialized bool, syncLevel int) (byte, error) {
	if argCount < 0 || argCount > 7 {
		return 0, invalidInputf("method argument count %d out of range 0..7", argCount)
	}
	if syncLevel < 0 || syncLevel > 15 {
		return 0, invalidInputf("method sync level %d out of range 0..15", syncLevel)
	}
	flags := byte(argCount) | byte(syncLevel)<<4
	if serialized {
		flags |= 1 << 3
	}
	return flags, nil
}

// OpenMethod opens a Method.
//
// Grammar:
// DefMethod := MethodOp PkgLength NameString MethodFlags TermList
func (l *List) OpenMethod(path string, argCount int, serialized bool, syncLevel int) (*Scope, error) {
	flags, err := MethodFlags(argCount, serialized, syncLevel)
	if err != nil {
		return nil, err
	}
	return l.openNamedTermList(OpMethod, path, flags)
}

// BuildMethod runs body inside Method(path, argCount, serialized, syncLevel).
func (l *List) BuildMethod(path string, argCount int, serialized bool, syncLevel int, body func() error) error {
	return build(func() (*Scope, error) { return l.OpenMethod(path, argCount, serialized, syncLevel) }, body)
}

// OpenName opens a Name object; exactly one data object must be emitted.
//
// Grammar:
// DefName := NameOp NameString DataRefObject
func (l *List) OpenName(path string) (*Scope, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	name, err := NameString(path)
	if err != nil {
		return nil, err
	}
	return l.openScope(OpName.String(), assembly{op: OpName, head: name}, 1, 1)
}

// BuildName runs body, which must emit the value, inside Name(path).
func (l *List) BuildName(path string, body func() error) error {
	return build(func() (*Scope, error) { return l.OpenName(path) }, body)
}

// NameInteger emits Name(path, value).
func (l *List) NameInteger(path string, value uint64) error {
	return l.BuildName(path, func() error { return l.Integer(value) })
}

// NameStr emits Name(path, "text").
func (l *List) NameStr(path, text string) error {
	return l.BuildName(path, func() error { return l.String(text) })
}

// ObjectType is the type of an External declaration.
type ObjectType uint8

// Object types.
const (
	UnknownObj ObjectType = iota
	IntObj
	StrObj
	BuffObj
	PkgObj
	FieldUnitObj
	DeviceObj
	EventObj
	MethodObj
	MutexObj
	OpRegionObj
	PowerResObj
	ProcessorObj
	ThermalZoneObj
	BuffFieldObj
	DDBHandleObj
)

// External emits an External declaration.
//
// Grammar:
// DefExternal := ExternalOp NameString ObjectType ArgumentCount
func (l *List) External(path string, objType ObjectType, argCount int) error {
	if err := l.check(); err != nil {
		return err
	}
	name, err := NameString(path)
	if err != nil {
		return err
	}
	if objType > DDBHandleObj {
		return invalidInputf("External object type %d out of range", objType)
	}
	if argCount < 0 || argCount > 7 {
		return invalidInputf("External argument count %d out of range 0..7", argCount)
	}
	return l.emit(OpExternal.Bytes(), name, []byte{byte(objType), byte(argCount)})
}
