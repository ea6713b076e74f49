// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package amldesc reads YAML descriptions of AML trees and encodes them with
// package aml.
//
// A description is a list of terms. Every term is a mapping with exactly one
// construct key:
//
//	terms:
//	  - scope:
//	      path: \_SB
//	      terms:
//	        - device:
//	            path: PCI0
//	            terms:
//	              - name: {path: _HID, value: {eisaid: PNP0A08}}
//	              - method:
//	                  path: _STA
//	                  terms:
//	                    - return: {integer: 0x0f}
//
// Each top-level term is encoded on its own and the results are
// concatenated in order.
package amldesc

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Document is a parsed description.
type Document struct {
	Terms []*Term `yaml:"terms"`
}

// Parse decodes a description. Unknown keys are an error.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("unable to parse description: %w", err)
	}
	if len(doc.Terms) == 0 {
		return nil, errors.New("description has no terms")
	}
	return &doc, nil
}

// ParseFile reads and decodes the description at path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Term is one AML term. Exactly one field must be set.
type Term struct {
	Integer    *uint64 `yaml:"integer,omitempty"`
	Byte       *uint8  `yaml:"byte,omitempty"`
	Word       *uint16 `yaml:"word,omitempty"`
	DWord      *uint32 `yaml:"dword,omitempty"`
	QWord      *uint64 `yaml:"qword,omitempty"`
	String     *string `yaml:"string,omitempty"`
	EisaID     *string `yaml:"eisaid,omitempty"`
	UUID       *string `yaml:"uuid,omitempty"`
	NameString *string `yaml:"namestring,omitempty"`
	Local      *int    `yaml:"local,omitempty"`
	Arg        *int    `yaml:"arg,omitempty"`
	Zero       *bool   `yaml:"zero,omitempty"`
	One        *bool   `yaml:"one,omitempty"`
	Ones       *bool   `yaml:"ones,omitempty"`
	Debug      *bool   `yaml:"debug,omitempty"`
	Bytes      []int   `yaml:"bytes,omitempty"`

	Buffer     *Buffer     `yaml:"buffer,omitempty"`
	Resources  []*Resource `yaml:"resources,omitempty"`
	Package    *Package    `yaml:"package,omitempty"`
	VarPackage *Package    `yaml:"varpackage,omitempty"`

	Scope  *NamedList `yaml:"scope,omitempty"`
	Device *NamedList `yaml:"device,omitempty"`
	Method *Method    `yaml:"method,omitempty"`
	Name   *Name      `yaml:"name,omitempty"`

	If     *Conditional `yaml:"if,omitempty"`
	Else   *Else        `yaml:"else,omitempty"`
	While  *Conditional `yaml:"while,omitempty"`
	Store  *Store       `yaml:"store,omitempty"`
	Op     *Operator    `yaml:"op,omitempty"`
	Return *Term        `yaml:"return,omitempty"`
	Notify *Notify      `yaml:"notify,omitempty"`

	Region      *Region      `yaml:"region,omitempty"`
	Field       *Field       `yaml:"field,omitempty"`
	BankField   *BankField   `yaml:"bankfield,omitempty"`
	IndexField  *IndexField  `yaml:"indexfield,omitempty"`
	CreateField *CreateField `yaml:"createfield,omitempty"`
	External    *External    `yaml:"external,omitempty"`
}

// constructs returns the construct keys set in t.
func (t *Term) constructs() []string {
	var set []string
	add := func(key string, ok bool) {
		if ok {
			set = append(set, key)
		}
	}
	add("integer", t.Integer != nil)
	add("byte", t.Byte != nil)
	add("word", t.Word != nil)
	add("dword", t.DWord != nil)
	add("qword", t.QWord != nil)
	add("string", t.String != nil)
	add("eisaid", t.EisaID != nil)
	add("uuid", t.UUID != nil)
	add("namestring", t.NameString != nil)
	add("local", t.Local != nil)
	add("arg", t.Arg != nil)
	add("zero", t.Zero != nil)
	add("one", t.One != nil)
	add("ones", t.Ones != nil)
	add("debug", t.Debug != nil)
	add("bytes", len(t.Bytes) != 0)
	add("buffer", t.Buffer != nil)
	add("resources", t.Resources != nil)
	add("package", t.Package != nil)
	add("varpackage", t.VarPackage != nil)
	add("scope", t.Scope != nil)
	add("device", t.Device != nil)
	add("method", t.Method != nil)
	add("name", t.Name != nil)
	add("if", t.If != nil)
	add("else", t.Else != nil)
	add("while", t.While != nil)
	add("store", t.Store != nil)
	add("op", t.Op != nil)
	add("return", t.Return != nil)
	add("notify", t.Notify != nil)
	add("region", t.Region != nil)
	add("field", t.Field != nil)
	add("bankfield", t.BankField != nil)
	add("indexfield", t.IndexField != nil)
	add("createfield", t.CreateField != nil)
	add("external", t.External != nil)
	return set
}

// Buffer is a Buffer with raw initializer bytes. Size 0 means the number of
// bytes given.
type Buffer struct {
	Size  uint64 `yaml:"size"`
	Bytes []int  `yaml:"bytes"`
}

// Package is a Package or VarPackage. Count 0 means the number of elements.
type Package struct {
	Count    uint64  `yaml:"count"`
	Elements []*Term `yaml:"elements"`
}

// NamedList is a Scope or Device.
type NamedList struct {
	Path  string  `yaml:"path"`
	Terms []*Term `yaml:"terms"`
}

// Method is a control method.
type Method struct {
	Path       string  `yaml:"path"`
	Args       int     `yaml:"args"`
	Serialized bool    `yaml:"serialized"`
	Sync       int     `yaml:"sync"`
	Terms      []*Term `yaml:"terms"`
}

// Name binds Value to Path.
type Name struct {
	Path  string `yaml:"path"`
	Value *Term  `yaml:"value"`
}

// Conditional is an If or While.
type Conditional struct {
	Predicate *Term   `yaml:"predicate"`
	Terms     []*Term `yaml:"terms"`
}

// Else must directly follow an If in the same term list.
type Else struct {
	Terms []*Term `yaml:"terms"`
}

// Store copies Source into Target.
type Store struct {
	Source *Term `yaml:"source"`
	Target *Term `yaml:"target"`
}

// Operator applies the operator named Opcode, for example "Add" or
// "ShiftLeft", to Operands. A missing optional Target is filled in.
type Operator struct {
	Opcode   string  `yaml:"opcode"`
	Operands []*Term `yaml:"operands"`
}

// Notify sends Value to Object.
type Notify struct {
	Object *Term `yaml:"object"`
	Value  *Term `yaml:"value"`
}

// Region is an OperationRegion. Space is a region space name such as
// "SystemMemory" or a number.
type Region struct {
	Path   string `yaml:"path"`
	Space  string `yaml:"space"`
	Offset uint64 `yaml:"offset"`
	Length uint64 `yaml:"length"`
}

// FieldList holds the flags and units shared by the field constructs.
type FieldList struct {
	Access string       `yaml:"access"`
	Lock   bool         `yaml:"lock"`
	Update string       `yaml:"update"`
	Units  []*FieldUnit `yaml:"units"`
}

// FieldUnit is one element of a field list. A unit with Name is a named
// field of Bits bits, placed at bit At or byte Offset when given. A unit
// without Name is either an Offset, a Reserved gap or an AccessAs.
type FieldUnit struct {
	Name     string    `yaml:"name"`
	Bits     uint64    `yaml:"bits"`
	At       *uint64   `yaml:"at"`
	Offset   *uint64   `yaml:"offset"`
	Reserved uint64    `yaml:"reserved"`
	AccessAs *AccessAs `yaml:"accessas"`
}

// AccessAs changes the access type of the following units.
type AccessAs struct {
	Type   string `yaml:"type"`
	Attrib uint8  `yaml:"attrib"`
}

// Field is a Field over an operation region.
type Field struct {
	Region    string `yaml:"region"`
	FieldList `yaml:",inline"`
}

// BankField is a BankField selected by writing Value to Bank.
type BankField struct {
	Region    string `yaml:"region"`
	Bank      string `yaml:"bank"`
	Value     uint64 `yaml:"value"`
	FieldList `yaml:",inline"`
}

// IndexField is an IndexField accessed through Index and Data.
type IndexField struct {
	Index     string `yaml:"index"`
	Data      string `yaml:"data"`
	FieldList `yaml:",inline"`
}

// CreateField creates a buffer field named Path over Source. Kind is one of
// bit, byte, word, dword, qword or field; only field takes Bits.
type CreateField struct {
	Kind   string `yaml:"kind"`
	Path   string `yaml:"path"`
	Source *Term  `yaml:"source"`
	Index  *Term  `yaml:"index"`
	Bits   *Term  `yaml:"bits"`
}

// External declares an object defined in another table.
type External struct {
	Path string `yaml:"path"`
	Type string `yaml:"type"`
	Args int    `yaml:"args"`
}
