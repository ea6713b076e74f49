// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package amldesc

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/linuxboot/amlgen/pkg/aml"
)

// Error is a failure to build the term at Path, for example
// "terms[0].scope.terms[2].method".
type Error struct {
	Path string
	Err  error
}

func (err *Error) Error() string {
	return err.Path + ": " + err.Err.Error()
}

// Unwrap returns the underlying error.
func (err *Error) Unwrap() error { return err.Err }

// wrap attaches path to err unless a deeper path is already attached.
func wrap(path string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Path: path, Err: err}
}

// lookup resolves a case insensitive enumeration value. The empty string
// selects the default where the table has one.
func lookup[T any](what, name string, table map[string]T) (T, error) {
	if v, ok := table[strings.ToLower(name)]; ok {
		return v, nil
	}
	keys := make([]string, 0, len(table))
	for k := range table {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	var zero T
	return zero, fmt.Errorf("%w: unknown %s %q, want one of %s", aml.ErrInvalidInput, what, name, strings.Join(keys, ", "))
}

var accessTypes = map[string]aml.AccessType{
	"":       aml.AnyAcc,
	"any":    aml.AnyAcc,
	"byte":   aml.ByteAcc,
	"word":   aml.WordAcc,
	"dword":  aml.DWordAcc,
	"qword":  aml.QWordAcc,
	"buffer": aml.BufferAcc,
}

var updateRules = map[string]aml.UpdateRule{
	"":             aml.Preserve,
	"preserve":     aml.Preserve,
	"writeasones":  aml.WriteAsOnes,
	"writeaszeros": aml.WriteAsZeros,
}

var regionSpaces = map[string]aml.RegionSpace{
	"systemmemory":     aml.SystemMemory,
	"systemio":         aml.SystemIO,
	"pciconfig":        aml.PCIConfig,
	"embeddedcontrol":  aml.EmbeddedControl,
	"smbus":            aml.SMBus,
	"systemcmos":       aml.SystemCMOS,
	"pcibartarget":     aml.PCIBarTarget,
	"ipmi":             aml.IPMI,
	"generalpurposeio": aml.GeneralPurposeIO,
	"genericserialbus": aml.GenericSerialBus,
	"pcc":              aml.PCC,
	"functionalfixed":  aml.FunctionalFixed,
}

// regionSpace accepts a region space name or number.
func regionSpace(s string) (aml.RegionSpace, error) {
	if n, err := strconv.ParseUint(s, 0, 8); err == nil {
		return aml.RegionSpace(n), nil
	}
	return lookup("region space", s, regionSpaces)
}

var objectTypes = map[string]aml.ObjectType{
	"":            aml.UnknownObj,
	"unknown":     aml.UnknownObj,
	"int":         aml.IntObj,
	"str":         aml.StrObj,
	"buff":        aml.BuffObj,
	"pkg":         aml.PkgObj,
	"fieldunit":   aml.FieldUnitObj,
	"device":      aml.DeviceObj,
	"event":       aml.EventObj,
	"method":      aml.MethodObj,
	"mutex":       aml.MutexObj,
	"opregion":    aml.OpRegionObj,
	"powerres":    aml.PowerResObj,
	"processor":   aml.ProcessorObj,
	"thermalzone": aml.ThermalZoneObj,
	"bufffield":   aml.BuffFieldObj,
	"ddbhandle":   aml.DDBHandleObj,
}

var createFieldKinds = map[string]aml.Opcode{
	"bit":   aml.OpCreateBitField,
	"byte":  aml.OpCreateByteField,
	"word":  aml.OpCreateWordField,
	"dword": aml.OpCreateDWordField,
	"qword": aml.OpCreateQWordField,
	"field": aml.OpCreateField,
}

func byteList(ints []int) ([]byte, error) {
	b := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 0xff {
			return nil, fmt.Errorf("%w: byte %d value %d out of range 0..255", aml.ErrInvalidInput, i, v)
		}
		b[i] = byte(v)
	}
	return b, nil
}
