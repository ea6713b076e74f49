// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package amldesc

import (
	"fmt"
	"strings"

	"github.com/linuxboot/amlgen/pkg/aml"
	"github.com/linuxboot/amlgen/pkg/log"
)

// Build encodes doc and returns the AML body. The options are passed to
// every aml.List used.
func Build(doc *Document, opts ...aml.Option) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", aml.ErrInvalidInput)
	}
	var out []byte
	for i, t := range doc.Terms {
		path := fmt.Sprintf("terms[%d]", i)
		l := aml.NewList(opts...)
		b := &builder{l: l}
		if err := b.term(path, t); err != nil {
			l.Free()
			return nil, err
		}
		body, err := l.Release()
		if err != nil {
			return nil, wrap(path, err)
		}
		log.Debugf("%s: %d bytes", path, len(body))
		out = append(out, body...)
	}
	return out, nil
}

// BuildFile parses and encodes the description at path.
func BuildFile(path string, opts ...aml.Option) ([]byte, error) {
	doc, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Build(doc, opts...)
}

type builder struct {
	l *aml.List
}

// scoped opens a construct, runs body and closes it.
func (b *builder) scoped(path string, open func() (*aml.Scope, error), body func() error) error {
	sc, err := open()
	if err != nil {
		return wrap(path, err)
	}
	if err := body(); err != nil {
		return err
	}
	return wrap(path, sc.Close())
}

func (b *builder) terms(path string, ts []*Term) error {
	for i, t := range ts {
		if err := b.term(fmt.Sprintf("%s[%d]", path, i), t); err != nil {
			return err
		}
	}
	return nil
}

// operands builds each named operand in order.
func (b *builder) operands(path string, names []string, ts ...*Term) error {
	for i, t := range ts {
		if err := b.term(path+"."+names[i], t); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) term(path string, t *Term) error {
	if t == nil {
		return wrap(path, fmt.Errorf("%w: missing term", aml.ErrInvalidInput))
	}
	kinds := t.constructs()
	if len(kinds) != 1 {
		return wrap(path, fmt.Errorf("%w: a term needs exactly one construct key, got [%s]",
			aml.ErrInvalidInput, strings.Join(kinds, " ")))
	}
	p := path + "." + kinds[0]
	l := b.l

	switch kinds[0] {
	case "integer":
		return wrap(p, l.Integer(*t.Integer))
	case "byte":
		return wrap(p, l.Byte(*t.Byte))
	case "word":
		return wrap(p, l.Word(*t.Word))
	case "dword":
		return wrap(p, l.DWord(*t.DWord))
	case "qword":
		return wrap(p, l.QWord(*t.QWord))
	case "string":
		return wrap(p, l.String(*t.String))
	case "eisaid":
		return wrap(p, l.EisaID(*t.EisaID))
	case "uuid":
		return wrap(p, l.UUID(*t.UUID))
	case "namestring":
		return wrap(p, l.EmitNameString(*t.NameString))
	case "local":
		return wrap(p, l.Local(*t.Local))
	case "arg":
		return wrap(p, l.Arg(*t.Arg))
	case "zero":
		return wrap(p, l.Zero())
	case "one":
		return wrap(p, l.One())
	case "ones":
		return wrap(p, l.Ones())
	case "debug":
		return wrap(p, l.Debug())
	case "bytes":
		raw, err := byteList(t.Bytes)
		if err != nil {
			return wrap(p, err)
		}
		return wrap(p, l.RawBuffer(raw))
	case "buffer":
		return b.buffer(p, t.Buffer)
	case "resources":
		return b.resourceTemplate(p, t.Resources)
	case "package":
		return b.pkg(p, t.Package, l.OpenPackage)
	case "varpackage":
		return b.pkg(p, t.VarPackage, l.OpenVarPackage)
	case "scope":
		return b.scoped(p, func() (*aml.Scope, error) { return l.OpenScope(t.Scope.Path) }, func() error {
			return b.terms(p+".terms", t.Scope.Terms)
		})
	case "device":
		return b.scoped(p, func() (*aml.Scope, error) { return l.OpenDevice(t.Device.Path) }, func() error {
			return b.terms(p+".terms", t.Device.Terms)
		})
	case "method":
		m := t.Method
		return b.scoped(p, func() (*aml.Scope, error) {
			return l.OpenMethod(m.Path, m.Args, m.Serialized, m.Sync)
		}, func() error {
			return b.terms(p+".terms", m.Terms)
		})
	case "name":
		return b.scoped(p, func() (*aml.Scope, error) { return l.OpenName(t.Name.Path) }, func() error {
			return b.term(p+".value", t.Name.Value)
		})
	case "if":
		return b.conditional(p, t.If, l.OpenIf)
	case "while":
		return b.conditional(p, t.While, l.OpenWhile)
	case "else":
		return b.scoped(p, l.OpenElse, func() error {
			return b.terms(p+".terms", t.Else.Terms)
		})
	case "store":
		return b.scoped(p, l.OpenStore, func() error {
			return b.operands(p, []string{"source", "target"}, t.Store.Source, t.Store.Target)
		})
	case "op":
		op, ok := aml.OpcodeByName(t.Op.Opcode)
		if !ok {
			return wrap(p, fmt.Errorf("%w: unknown opcode %q", aml.ErrInvalidInput, t.Op.Opcode))
		}
		return b.scoped(p, func() (*aml.Scope, error) { return l.OpenOperator(op) }, func() error {
			return b.terms(p+".operands", t.Op.Operands)
		})
	case "return":
		return b.scoped(p, l.OpenReturn, func() error {
			if len(t.Return.constructs()) == 0 {
				return nil
			}
			return b.term(p, t.Return)
		})
	case "notify":
		return b.scoped(p, l.OpenNotify, func() error {
			return b.operands(p, []string{"object", "value"}, t.Notify.Object, t.Notify.Value)
		})
	case "region":
		r := t.Region
		space, err := regionSpace(r.Space)
		if err != nil {
			return wrap(p, err)
		}
		return wrap(p, l.OperationRegion(r.Path, space, r.Offset, r.Length))
	case "field":
		f := t.Field
		return b.field(p, &f.FieldList, func(flags aml.FieldFlags) (*aml.FieldScope, error) {
			return l.OpenField(f.Region, flags)
		})
	case "bankfield":
		f := t.BankField
		return b.field(p, &f.FieldList, func(flags aml.FieldFlags) (*aml.FieldScope, error) {
			return l.OpenBankField(f.Region, f.Bank, f.Value, flags)
		})
	case "indexfield":
		f := t.IndexField
		return b.field(p, &f.FieldList, func(flags aml.FieldFlags) (*aml.FieldScope, error) {
			return l.OpenIndexField(f.Index, f.Data, flags)
		})
	case "createfield":
		return b.createField(p, t.CreateField)
	case "external":
		e := t.External
		objType, err := lookup("object type", e.Type, objectTypes)
		if err != nil {
			return wrap(p, err)
		}
		return wrap(p, l.External(e.Path, objType, e.Args))
	}
	return wrap(p, fmt.Errorf("%w: construct %q not handled", aml.ErrInvariantViolation, kinds[0]))
}

func (b *builder) buffer(path string, buf *Buffer) error {
	raw, err := byteList(buf.Bytes)
	if err != nil {
		return wrap(path, err)
	}
	bs, err := b.l.OpenBuffer()
	if err != nil {
		return wrap(path, err)
	}
	if len(raw) != 0 {
		if err := b.l.RawBuffer(raw); err != nil {
			return wrap(path, err)
		}
	}
	return wrap(path, bs.Close(buf.Size))
}

func (b *builder) pkg(path string, p *Package, open func() (*aml.PackageScope, error)) error {
	ps, err := open()
	if err != nil {
		return wrap(path, err)
	}
	if err := b.terms(path+".elements", p.Elements); err != nil {
		return err
	}
	return wrap(path, ps.Close(p.Count))
}

func (b *builder) conditional(path string, c *Conditional, open func() (*aml.Scope, error)) error {
	return b.scoped(path, open, func() error {
		if err := b.term(path+".predicate", c.Predicate); err != nil {
			return err
		}
		return b.terms(path+".terms", c.Terms)
	})
}

func (b *builder) createField(path string, c *CreateField) error {
	op, err := lookup("buffer field kind", c.Kind, createFieldKinds)
	if err != nil {
		return wrap(path, err)
	}
	names := []string{"source", "index"}
	operands := []*Term{c.Source, c.Index}
	if op == aml.OpCreateField {
		names = append(names, "bits")
		operands = append(operands, c.Bits)
	} else if c.Bits != nil {
		return wrap(path, fmt.Errorf("%w: bits is only valid for kind field", aml.ErrInvalidInput))
	}
	return b.scoped(path, func() (*aml.Scope, error) { return b.l.OpenCreateField(op, c.Path) }, func() error {
		return b.operands(path, names, operands...)
	})
}

func (b *builder) field(path string, fl *FieldList, open func(aml.FieldFlags) (*aml.FieldScope, error)) error {
	access, err := lookup("access type", fl.Access, accessTypes)
	if err != nil {
		return wrap(path, err)
	}
	update, err := lookup("update rule", fl.Update, updateRules)
	if err != nil {
		return wrap(path, err)
	}
	fs, err := open(aml.FieldFlags{Access: access, Lock: fl.Lock, Update: update})
	if err != nil {
		return wrap(path, err)
	}
	for i, u := range fl.Units {
		if err := fieldUnit(fs, u); err != nil {
			return wrap(fmt.Sprintf("%s.units[%d]", path, i), err)
		}
	}
	return wrap(path, fs.Close())
}

func fieldUnit(fs *aml.FieldScope, u *FieldUnit) error {
	if u == nil {
		return fmt.Errorf("%w: missing field unit", aml.ErrInvalidInput)
	}
	if u.Offset != nil {
		if err := fs.Offset(*u.Offset); err != nil {
			return err
		}
	}
	if u.AccessAs != nil {
		access, err := lookup("access type", u.AccessAs.Type, accessTypes)
		if err != nil {
			return err
		}
		if err := fs.AccessAs(access, u.AccessAs.Attrib); err != nil {
			return err
		}
	}
	if u.Reserved != 0 {
		if err := fs.Reserved(u.Reserved); err != nil {
			return err
		}
	}
	switch {
	case u.Name == "" && u.Bits != 0:
		return fmt.Errorf("%w: field unit with bits needs a name", aml.ErrInvalidInput)
	case u.Name == "":
		return nil
	case u.At != nil:
		return fs.NamedFieldAt(u.Name, *u.At, u.Bits)
	default:
		return fs.NamedField(u.Name, u.Bits)
	}
}
