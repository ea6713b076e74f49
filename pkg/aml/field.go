// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aml

// AccessType is the default access width of a field.
type AccessType uint8

// Access types.
const (
	AnyAcc AccessType = iota
	ByteAcc
	WordAcc
	DWordAcc
	QWordAcc
	BufferAcc
)

// UpdateRule selects how the unaccessed bits of a field are written.
type UpdateRule uint8

// Update rules.
const (
	Preserve UpdateRule = iota
	WriteAsOnes
	WriteAsZeros
)

// FieldFlags are the flags shared by Field, BankField and IndexField.
type FieldFlags struct {
	Access AccessType
	Lock   bool
	Update UpdateRule
}

// Encode returns the FieldFlags byte:
// bits 0-3 AccessType, bit 4 LockRule, bits 5-6 UpdateRule.
func (f FieldFlags) Encode() (byte, error) {
	if f.Access > BufferAcc {
		return 0, invalidInputf("field access type %d out of range", f.Access)
	}
	if f.Update > WriteAsZeros {
		return 0, invalidInputf("field update rule %d out of range", f.Update)
	}
	b := byte(f.Access) | byte(f.Update)<<5
	if f.Lock {
		b |= 1 << 4
	}
	return b, nil
}

// Field list element prefixes.
const (
	reservedFieldPrefix = 0x00
	accessFieldPrefix   = 0x01
)

// FieldScope is the handle of an open Field, BankField or IndexField. It
// tracks the bit offset of the next field unit so that gaps can be filled
// with reserved fields.
type FieldScope struct {
	s         *scope
	asm       assembly
	bitOffset uint64
}

func (l *List) openField(op Opcode, flags FieldFlags, head ...[]byte) (*FieldScope, error) {
	fb, err := flags.Encode()
	if err != nil {
		return nil, err
	}
	var h []byte
	for _, part := range head {
		h = append(h, part...)
	}
	h = append(h, fb)
	s, err := l.open(op.String())
	if err != nil {
		return nil, err
	}
	return &FieldScope{s: s, asm: assembly{op: op, pkgLen: true, head: h}}, nil
}

// OpenField opens a Field over the operation region named region.
//
// Grammar:
// DefField := FieldOp PkgLength NameString FieldFlags FieldList
func (l *List) OpenField(region string, flags FieldFlags) (*FieldScope, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	name, err := NameString(region)
	if err != nil {
		return nil, err
	}
	return l.openField(OpField, flags, name)
}

// OpenBankField opens a BankField; bankValue is written to bank before the
// region is accessed.
//
// Grammar:
// DefBankField := BankFieldOp PkgLength NameString NameString BankValue FieldFlags FieldList
func (l *List) OpenBankField(region, bank string, bankValue uint64, flags FieldFlags) (*FieldScope, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	regionName, err := NameString(region)
	if err != nil {
		return nil, err
	}
	bankName, err := NameString(bank)
	if err != nil {
		return nil, err
	}
	return l.openField(OpBankField, flags, regionName, bankName, OptimizedInteger(bankValue))
}

// OpenIndexField opens an IndexField accessed through the index and data
// field units.
//
// Grammar:
// DefIndexField := IndexFieldOp PkgLength NameString NameString FieldFlags FieldList
func (l *List) OpenIndexField(index, data string, flags FieldFlags) (*FieldScope, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	indexName, err := NameString(index)
	if err != nil {
		return nil, err
	}
	dataName, err := NameString(data)
	if err != nil {
		return nil, err
	}
	return l.openField(OpIndexField, flags, indexName, dataName)
}

// BitOffset returns the bit offset the next field unit starts at.
func (f *FieldScope) BitOffset() uint64 {
	return f.bitOffset
}

// active fails unless field units may be emitted into f right now.
func (f *FieldScope) active() error {
	if f == nil || f.s == nil {
		return &ScopeError{Construct: "Field", Reason: "no matching open"}
	}
	if f.s.closed {
		return &ScopeError{Construct: f.s.construct, Reason: "already closed"}
	}
	if in := f.s.list.innermost(); in != f.s {
		return &ScopeError{Construct: f.s.construct, Reason: "field units must be emitted while the field is the innermost open scope"}
	}
	return nil
}

func fieldWidth(bits uint64) ([]byte, error) {
	if bits >= MaxPkgLength {
		return nil, invalidInputf("field width of %d bits exceeds %d", bits, MaxPkgLength-1)
	}
	return EncodePkgLength(uint32(bits))
}

// advanceTo emits a ReservedField covering the gap up to bitPos.
func (f *FieldScope) advanceTo(bitPos uint64) error {
	if bitPos < f.bitOffset {
		return &CursorError{Cursor: f.bitOffset, Requested: bitPos}
	}
	if bitPos == f.bitOffset {
		return nil
	}
	return f.Reserved(bitPos - f.bitOffset)
}

// Offset moves the cursor to byte offset bytePos, the ASL Offset() term.
// Moving backwards is ErrInvalidInput.
func (f *FieldScope) Offset(bytePos uint64) error {
	if err := f.active(); err != nil {
		return err
	}
	if bytePos > (^uint64(0))/8 {
		return invalidInputf("field offset %#x overflows", bytePos)
	}
	return f.advanceTo(bytePos * 8)
}

// Reserved emits an unnamed gap of bits.
//
// Grammar:
// ReservedField := 0x00 PkgLength
func (f *FieldScope) Reserved(bits uint64) error {
	if err := f.active(); err != nil {
		return err
	}
	if bits == 0 {
		return invalidInputf("reserved field of zero bits")
	}
	w, err := fieldWidth(bits)
	if err != nil {
		return err
	}
	if err := f.s.list.emit([]byte{reservedFieldPrefix}, w); err != nil {
		return err
	}
	f.bitOffset += bits
	return nil
}

// NamedField emits a field unit of bits at the cursor.
//
// Grammar:
// NamedField := NameSeg PkgLength
func (f *FieldScope) NamedField(name string, bits uint64) error {
	if err := f.active(); err != nil {
		return err
	}
	seg, err := NameSeg(name)
	if err != nil {
		return err
	}
	if bits == 0 {
		return invalidInputf("field unit %s of zero bits", name)
	}
	w, err := fieldWidth(bits)
	if err != nil {
		return err
	}
	if err := f.s.list.emit(seg[:], w); err != nil {
		return err
	}
	f.bitOffset += bits
	return nil
}

// NamedFieldAt emits a field unit at bitPos, filling any gap before it.
// A position behind the cursor is ErrInvalidInput.
func (f *FieldScope) NamedFieldAt(name string, bitPos, bits uint64) error {
	if err := f.active(); err != nil {
		return err
	}
	if _, err := NameSeg(name); err != nil {
		return err
	}
	if bits == 0 {
		return invalidInputf("field unit %s of zero bits", name)
	}
	if _, err := fieldWidth(bits); err != nil {
		return err
	}
	if bitPos < f.bitOffset {
		return &CursorError{Cursor: f.bitOffset, Requested: bitPos}
	}
	if gap := bitPos - f.bitOffset; gap > 0 {
		if _, err := fieldWidth(gap); err != nil {
			return err
		}
	}

	cursor, n := f.bitOffset, f.s.list.Len()
	if err := f.advanceTo(bitPos); err != nil {
		return err
	}
	if err := f.NamedField(name, bits); err != nil {
		l := f.s.list
		for l.Len() > n {
			l.removeAndFree(l.Len() - 1)
		}
		f.bitOffset = cursor
		return err
	}
	return nil
}

// AccessAs changes the access type of the following field units.
//
// Grammar:
// AccessField := 0x01 AccessType AccessAttrib
func (f *FieldScope) AccessAs(access AccessType, attrib byte) error {
	if err := f.active(); err != nil {
		return err
	}
	if access > BufferAcc {
		return invalidInputf("field access type %d out of range", access)
	}
	return f.s.list.emit([]byte{accessFieldPrefix, byte(access), attrib})
}

// Close collapses the field list. The cursor is gone afterwards.
func (f *FieldScope) Close() error {
	if f == nil {
		return &ScopeError{Construct: "Field", Reason: "no matching open"}
	}
	if err := f.s.validate(f.s.construct); err != nil {
		return err
	}
	return f.s.collapse(f.asm)
}
