// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aml

// NullName as a Target discards the result of an operator.
var nullTarget = []byte{nullName}

type operatorInfo struct {
	pkgLen   bool
	min, max int
	fill     [][]byte
}

// operators lists the constructs without a name whose operands are emitted
// between Open and Close. Operators with an optional Target accept one
// operand less and get a NullName Target appended.
var operators = map[Opcode]operatorInfo{
	OpIf:              {pkgLen: true, min: 1, max: -1},
	OpElse:            {pkgLen: true, min: 0, max: -1},
	OpWhile:           {pkgLen: true, min: 1, max: -1},
	OpReturn:          {min: 0, max: 1, fill: [][]byte{{byte(OpZero)}}},
	OpStore:           {min: 2, max: 2},
	OpNotify:          {min: 2, max: 2},
	OpShiftLeft:       {min: 2, max: 3, fill: [][]byte{nullTarget}},
	OpShiftRight:      {min: 2, max: 3, fill: [][]byte{nullTarget}},
	OpFindSetLeftBit:  {min: 1, max: 2, fill: [][]byte{nullTarget}},
	OpFindSetRightBit: {min: 1, max: 2, fill: [][]byte{nullTarget}},
	OpAdd:             {min: 2, max: 3, fill: [][]byte{nullTarget}},
	OpSubtract:        {min: 2, max: 3, fill: [][]byte{nullTarget}},
	OpAnd:             {min: 2, max: 3, fill: [][]byte{nullTarget}},
	OpOr:              {min: 2, max: 3, fill: [][]byte{nullTarget}},
	OpIndex:           {min: 2, max: 3, fill: [][]byte{nullTarget}},
	OpDecrement:       {min: 1, max: 1},
	OpIncrement:       {min: 1, max: 1},
	OpSizeOf:          {min: 1, max: 1},
	OpDerefOf:         {min: 1, max: 1},
	OpRefOf:           {min: 1, max: 1},
	OpLNot:            {min: 1, max: 1},
	OpLEqual:          {min: 2, max: 2},
	OpLGreater:        {min: 2, max: 2},
	OpLLess:           {min: 2, max: 2},
	OpLAnd:            {min: 2, max: 2},
	OpLOr:             {min: 2, max: 2},
}

// OpenOperator opens any construct of the operator table by opcode.
func (l *List) OpenOperator(op Opcode) (*Scope, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	info, ok := operators[op]
	if !ok {
		return nil, invalidInputf("opcode %#x (%s) is not an operator", uint16(op), op)
	}
	if op == OpElse {
		if err := l.checkElse(); err != nil {
			return nil, err
		}
	}
	return l.openScope(op.String(), assembly{op: op, pkgLen: info.pkgLen}, info.min, info.max, info.fill...)
}

// checkElse fails unless the last term of the current scope is an If.
func (l *List) checkElse() error {
	first := 0
	if in := l.innermost(); in != nil {
		first = in.marker + 1
	}
	last := len(l.nodes) - 1
	if last < first || l.nodes[last].op != OpIf {
		return invariantf("Else must directly follow an If")
	}
	return nil
}

// BuildOperator runs body, which emits the operands, inside op.
func (l *List) BuildOperator(op Opcode, body func() error) error {
	return build(func() (*Scope, error) { return l.OpenOperator(op) }, body)
}

// OpenIf opens an If; the predicate is the first term emitted.
//
// Grammar:
// DefIfElse := IfOp PkgLength Predicate TermList DefElse
func (l *List) OpenIf() (*Scope, error) { return l.OpenOperator(OpIf) }

// OpenElse opens the Else of the If just closed.
//
// Grammar:
// DefElse := Nothing | ElseOp PkgLength TermList
func (l *List) OpenElse() (*Scope, error) { return l.OpenOperator(OpElse) }

// OpenWhile opens a While loop; the predicate is the first term emitted.
func (l *List) OpenWhile() (*Scope, error) { return l.OpenOperator(OpWhile) }

// OpenReturn opens a Return. Closing it without an operand returns Zero.
func (l *List) OpenReturn() (*Scope, error) { return l.OpenOperator(OpReturn) }

// OpenStore opens Store(Source, Target).
func (l *List) OpenStore() (*Scope, error) { return l.OpenOperator(OpStore) }

// OpenNotify opens Notify(Object, Value).
func (l *List) OpenNotify() (*Scope, error) { return l.OpenOperator(OpNotify) }

// OpenShiftLeft opens ShiftLeft(Source, ShiftCount[, Target]).
func (l *List) OpenShiftLeft() (*Scope, error) { return l.OpenOperator(OpShiftLeft) }

// OpenShiftRight opens ShiftRight(Source, ShiftCount[, Target]).
func (l *List) OpenShiftRight() (*Scope, error) { return l.OpenOperator(OpShiftRight) }

// OpenFindSetLeftBit opens FindSetLeftBit(Source[, Target]).
func (l *List) OpenFindSetLeftBit() (*Scope, error) { return l.OpenOperator(OpFindSetLeftBit) }

// OpenFindSetRightBit opens FindSetRightBit(Source[, Target]).
func (l *List) OpenFindSetRightBit() (*Scope, error) { return l.OpenOperator(OpFindSetRightBit) }

// OpenDecrement opens Decrement(SuperName).
func (l *List) OpenDecrement() (*Scope, error) { return l.OpenOperator(OpDecrement) }

// OpenIncrement opens Increment(SuperName).
func (l *List) OpenIncrement() (*Scope, error) { return l.OpenOperator(OpIncrement) }

// OpenLEqual opens LEqual(Left, Right).
func (l *List) OpenLEqual() (*Scope, error) { return l.OpenOperator(OpLEqual) }

// BuildIf runs body inside If; body must emit the predicate first.
func (l *List) BuildIf(body func() error) error {
	return l.BuildOperator(OpIf, body)
}

// BuildElse runs body inside Else.
func (l *List) BuildElse(body func() error) error {
	return l.BuildOperator(OpElse, body)
}

// ReturnInteger emits Return(value).
func (l *List) ReturnInteger(value uint64) error {
	return l.BuildOperator(OpReturn, func() error { return l.Integer(value) })
}

// RegionSpace is the address space of an OperationRegion or a generic
// register.
type RegionSpace uint8

// Region spaces. Values from 0x80 are OEM defined.
const (
	SystemMemory     RegionSpace = 0x00
	SystemIO         RegionSpace = 0x01
	PCIConfig        RegionSpace = 0x02
	EmbeddedControl  RegionSpace = 0x03
	SMBus            RegionSpace = 0x04
	SystemCMOS       RegionSpace = 0x05
	PCIBarTarget     RegionSpace = 0x06
	IPMI             RegionSpace = 0x07
	GeneralPurposeIO RegionSpace = 0x08
	GenericSerialBus RegionSpace = 0x09
	PCC              RegionSpace = 0x0a
	FunctionalFixed  RegionSpace = 0x7f
	OEMSpaceFirst    RegionSpace = 0x80
)

func (s RegionSpace) validForRegion() bool {
	return s <= PCC || s >= OEMSpaceFirst
}

// OpenOperationRegion opens an OperationRegion; the offset and the length
// are the two terms emitted before Close.
//
// Grammar:
// DefOpRegion := OpRegionOp NameString RegionSpace RegionOffset RegionLen
func (l *List) OpenOperationRegion(path string, space RegionSpace) (*Scope, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	name, err := NameString(path)
	if err != nil {
		return nil, err
	}
	if !space.validForRegion() {
		return nil, invalidInputf("region space %#x is reserved", uint8(space))
	}
	return l.openScope(OpOpRegion.String(), assembly{
		op:   OpOpRegion,
		head: append(name, byte(space)),
	}, 2, 2)
}

// OperationRegion emits OperationRegion(path, space, offset, length).
func (l *List) OperationRegion(path string, space RegionSpace, offset, length uint64) error {
	return build(func() (*Scope, error) { return l.OpenOperationRegion(path, space) }, func() error {
		if err := l.Integer(offset); err != nil {
			return err
		}
		return l.Integer(length)
	})
}

// OpenCreateField opens one of CreateBitField, CreateByteField,
// CreateWordField, CreateDWordField, CreateQWordField (source buffer and
// index operands) or CreateField (source buffer, bit index and bit count).
// The new field is named path.
//
// Grammar:
// DefCreateDWordField := CreateDWordFieldOp SourceBuff ByteIndex NameString
// DefCreateField := CreateFieldOp SourceBuff BitIndex NumBits NameString
func (l *List) OpenCreateField(op Opcode, path string) (*Scope, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	operands := 2
	switch op {
	case OpCreateBitField, OpCreateByteField, OpCreateWordField, OpCreateDWordField, OpCreateQWordField:
	case OpCreateField:
		operands = 3
	default:
		return nil, invalidInputf("opcode %#x (%s) does not create a buffer field", uint16(op), op)
	}
	name, err := NameString(path)
	if err != nil {
		return nil, err
	}
	return l.openScope(op.String(), assembly{op: op, tail: name}, operands, operands)
}
