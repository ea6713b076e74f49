// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aml

import "strings"

// Opcode is an AML opcode. Extended opcodes carry the 0x5B prefix in their
// high byte so that every opcode maps to a single value.
type Opcode uint16

const extPrefix = 0x5b

// Regular opcodes.
const (
	OpZero             = Opcode(0x00)
	OpOne              = Opcode(0x01)
	OpName             = Opcode(0x08)
	OpBytePrefix       = Opcode(0x0a)
	OpWordPrefix       = Opcode(0x0b)
	OpDWordPrefix      = Opcode(0x0c)
	OpStringPrefix     = Opcode(0x0d)
	OpQWordPrefix      = Opcode(0x0e)
	OpScope            = Opcode(0x10)
	OpBuffer           = Opcode(0x11)
	OpPackage          = Opcode(0x12)
	OpVarPackage       = Opcode(0x13)
	OpMethod           = Opcode(0x14)
	OpExternal         = Opcode(0x15)
	OpLocal0           = Opcode(0x60)
	OpArg0             = Opcode(0x68)
	OpStore            = Opcode(0x70)
	OpRefOf            = Opcode(0x71)
	OpAdd              = Opcode(0x72)
	OpSubtract         = Opcode(0x74)
	OpIncrement        = Opcode(0x75)
	OpDecrement        = Opcode(0x76)
	OpShiftLeft        = Opcode(0x79)
	OpShiftRight       = Opcode(0x7a)
	OpAnd              = Opcode(0x7b)
	OpOr               = Opcode(0x7d)
	OpFindSetLeftBit   = Opcode(0x81)
	OpFindSetRightBit  = Opcode(0x82)
	OpDerefOf          = Opcode(0x83)
	OpNotify           = Opcode(0x86)
	OpSizeOf           = Opcode(0x87)
	OpIndex            = Opcode(0x88)
	OpCreateDWordField = Opcode(0x8a)
	OpCreateWordField  = Opcode(0x8b)
	OpCreateByteField  = Opcode(0x8c)
	OpCreateBitField   = Opcode(0x8d)
	OpCreateQWordField = Opcode(0x8f)
	OpLAnd             = Opcode(0x90)
	OpLOr              = Opcode(0x91)
	OpLNot             = Opcode(0x92)
	OpLEqual           = Opcode(0x93)
	OpLGreater         = Opcode(0x94)
	OpLLess            = Opcode(0x95)
	OpIf               = Opcode(0xa0)
	OpElse             = Opcode(0xa1)
	OpWhile            = Opcode(0xa2)
	OpReturn           = Opcode(0xa4)
	OpOnes             = Opcode(0xff)
)

// Extended opcodes.
const (
	OpRevision    = Opcode(extPrefix<<8 | 0x30)
	OpDebug       = Opcode(extPrefix<<8 | 0x31)
	OpCreateField = Opcode(extPrefix<<8 | 0x13)
	OpOpRegion    = Opcode(extPrefix<<8 | 0x80)
	OpField       = Opcode(extPrefix<<8 | 0x81)
	OpDevice      = Opcode(extPrefix<<8 | 0x82)
	OpIndexField  = Opcode(extPrefix<<8 | 0x86)
	OpBankField   = Opcode(extPrefix<<8 | 0x87)
)

// Name string prefixes.
const (
	rootChar        = '\\'
	parentPrefix    = '^'
	dualNamePrefix  = 0x2e
	multiNamePrefix = 0x2f
	nullName        = 0x00
)

// IsExtended reports whether the opcode is encoded with the 0x5B prefix.
func (op Opcode) IsExtended() bool {
	return op>>8 == extPrefix
}

// Bytes returns the encoded opcode.
func (op Opcode) Bytes() []byte {
	if op.IsExtended() {
		return []byte{extPrefix, byte(op)}
	}
	return []byte{byte(op)}
}

// Len returns the number of bytes the opcode occupies.
func (op Opcode) Len() int {
	if op.IsExtended() {
		return 2
	}
	return 1
}

var opcodeNames = map[Opcode]string{
	OpZero:             "Zero",
	OpOne:              "One",
	OpName:             "Name",
	OpBytePrefix:       "ByteConst",
	OpWordPrefix:       "WordConst",
	OpDWordPrefix:      "DWordConst",
	OpStringPrefix:     "String",
	OpQWordPrefix:      "QWordConst",
	OpScope:            "Scope",
	OpBuffer:           "Buffer",
	OpPackage:          "Package",
	OpVarPackage:       "VarPackage",
	OpMethod:           "Method",
	OpExternal:         "External",
	OpStore:            "Store",
	OpRefOf:            "RefOf",
	OpAdd:              "Add",
	OpSubtract:         "Subtract",
	OpIncrement:        "Increment",
	OpDecrement:        "Decrement",
	OpShiftLeft:        "ShiftLeft",
	OpShiftRight:       "ShiftRight",
	OpAnd:              "And",
	OpOr:               "Or",
	OpFindSetLeftBit:   "FindSetLeftBit",
	OpFindSetRightBit:  "FindSetRightBit",
	OpDerefOf:          "DerefOf",
	OpNotify:           "Notify",
	OpSizeOf:           "SizeOf",
	OpIndex:            "Index",
	OpCreateDWordField: "CreateDWordField",
	OpCreateWordField:  "CreateWordField",
	OpCreateByteField:  "CreateByteField",
	OpCreateBitField:   "CreateBitField",
	OpCreateQWordField: "CreateQWordField",
	OpLAnd:             "LAnd",
	OpLOr:              "LOr",
	OpLNot:             "LNot",
	OpLEqual:           "LEqual",
	OpLGreater:         "LGreater",
	OpLLess:            "LLess",
	OpIf:               "If",
	OpElse:             "Else",
	OpWhile:            "While",
	OpReturn:           "Return",
	OpOnes:             "Ones",
	OpRevision:         "Revision",
	OpDebug:            "Debug",
	OpCreateField:      "CreateField",
	OpOpRegion:         "OperationRegion",
	OpField:            "Field",
	OpDevice:           "Device",
	OpIndexField:       "IndexField",
	OpBankField:        "BankField",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "Unknown"
}

// OpcodeByName returns the opcode whose String is name, ignoring case.
func OpcodeByName(name string) (Opcode, bool) {
	for op, n := range opcodeNames {
		if strings.EqualFold(n, name) {
			return op, true
		}
	}
	return 0, false
}
