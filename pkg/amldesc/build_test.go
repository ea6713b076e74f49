// Copyright 2024 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package amldesc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxboot/amlgen/pkg/aml"
	"github.com/linuxboot/amlgen/pkg/log"
)

func build(t *testing.T, desc string) ([]byte, error) {
	t.Helper()
	doc, err := Parse([]byte(desc))
	require.NoError(t, err)
	return Build(doc, aml.WithLogger(log.Nop{}))
}

func mustBuild(t *testing.T, desc string) []byte {
	t.Helper()
	b, err := build(t, desc)
	require.NoError(t, err)
	return b
}

const pciDevice = `
terms:
  - scope:
      path: \_SB
      terms:
        - device:
            path: PCI0
            terms:
              - name: {path: _HID, value: {eisaid: PNP0A08}}
              - method:
                  path: _STA
                  terms:
                    - return: {integer: 15}
`

func TestBuildDevice(t *testing.T) {
	assert.Equal(t, []byte{
		0x10, 0x21, '\\', '_', 'S', 'B', '_',
		0x5b, 0x82, 0x19, 'P', 'C', 'I', '0',
		0x08, '_', 'H', 'I', 'D', 0x0c, 0x41, 0xd0, 0x0a, 0x08,
		0x14, 0x09, '_', 'S', 'T', 'A', 0x00, 0xa4, 0x0a, 0x0f,
	}, mustBuild(t, pciDevice))
}

func TestBuildFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dsdt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(pciDevice), 0o644))
	b, err := BuildFile(path, aml.WithLogger(log.Nop{}))
	require.NoError(t, err)
	assert.Len(t, b, 34)

	_, err = BuildFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuildIfElse(t *testing.T) {
	b := mustBuild(t, `
terms:
  - method:
      path: TEST
      args: 1
      terms:
        - if:
            predicate: {op: {opcode: LEqual, operands: [{arg: 0}, {one: true}]}}
            terms:
              - return: {integer: 1}
        - else:
            terms:
              - return: {}
`)
	assert.Equal(t, []byte{
		0x14, 0x11, 'T', 'E', 'S', 'T', 0x01,
		0xa0, 0x06, 0x93, 0x68, 0x01, 0xa4, 0x01,
		0xa1, 0x03, 0xa4, 0x00,
	}, b)
}

func TestBuildOperators(t *testing.T) {
	b := mustBuild(t, `
terms:
  - method:
      path: CALC
      terms:
        - store: {source: {one: true}, target: {local: 0}}
        - op: {opcode: add, operands: [{local: 0}, {one: true}]}
        - notify: {object: {namestring: \_SB.PCI0}, value: {integer: 0}}
`)
	assert.Equal(t, []byte{
		0x14, 0x19, 'C', 'A', 'L', 'C', 0x00,
		0x70, 0x01, 0x60,
		0x72, 0x60, 0x01, 0x00,
		0x86, '\\', 0x2e, '_', 'S', 'B', '_', 'P', 'C', 'I', '0', 0x00,
	}, b)
}

func TestBuildRegionAndField(t *testing.T) {
	b := mustBuild(t, `
terms:
  - region: {path: GNVS, space: SystemMemory, offset: 4096, length: 256}
  - field:
      region: GNVS
      access: byte
      units:
        - {name: FOO, bits: 8}
        - {offset: 4}
        - {name: BAR, at: 40, bits: 8}
`)
	assert.Equal(t, []byte{
		0x5b, 0x80, 'G', 'N', 'V', 'S', 0x00,
		0x0b, 0x00, 0x10, 0x0b, 0x00, 0x01,
		0x5b, 0x81, 0x14, 'G', 'N', 'V', 'S', 0x01,
		'F', 'O', 'O', '_', 0x08,
		0x00, 0x18,
		0x00, 0x08,
		'B', 'A', 'R', '_', 0x08,
	}, b)
}

func TestBuildBankAndIndexField(t *testing.T) {
	b := mustBuild(t, `
terms:
  - bankfield:
      region: GNVS
      bank: BNK0
      value: 1
      units:
        - {accessas: {type: byte}}
        - {name: FOO, bits: 1}
  - indexfield:
      index: IDX
      data: DAT
      access: byte
      units:
        - {name: REG0, bits: 8}
`)
	assert.Equal(t, []byte{
		0x5b, 0x87, 0x13, 'G', 'N', 'V', 'S', 'B', 'N', 'K', '0', 0x01, 0x00,
		0x01, 0x01, 0x00,
		'F', 'O', 'O', '_', 0x01,
		0x5b, 0x86, 0x0f, 'I', 'D', 'X', '_', 'D', 'A', 'T', '_', 0x01,
		'R', 'E', 'G', '0', 0x08,
	}, b)
}

func TestBuildResources(t *testing.T) {
	b := mustBuild(t, `
terms:
  - name:
      path: _CRS
      value:
        resources:
          - io: {decode: decode16, min: 0x3f8, max: 0x3f8, align: 1, length: 8}
          - irqnoflags: {irqs: [4]}
`)
	assert.Equal(t, []byte{
		0x08, '_', 'C', 'R', 'S',
		0x11, 0x10, 0x0a, 0x0d,
		0x47, 0x01, 0xf8, 0x03, 0xf8, 0x03, 0x01, 0x08,
		0x22, 0x10, 0x00,
		0x79, 0x00,
	}, b)
}

func TestBuildResourceDescriptors(t *testing.T) {
	b := mustBuild(t, `
terms:
  - resources:
      - irq: {mode: edge, polarity: low, sharing: shared, irqs: [3, 4]}
      - dma: {speed: typef, busmaster: true, transfer: transfer16, channels: [1, 5]}
      - fixedio: {base: 0x60, length: 1}
      - memory32fixed: {readwrite: true, base: 0xfed00000, length: 0x400}
      - interrupt: {consumer: true, irqs: [9]}
      - wordbusnumber: {minfixed: true, maxfixed: true, max: 0xff, length: 0x100}
`)
	body := []byte{
		0x23, 0x18, 0x00, 0x19,
		0x2a, 0x22, 0x66,
		0x4b, 0x60, 0x00, 0x01,
		0x86, 0x09, 0x00, 0x01, 0x00, 0x00, 0xd0, 0xfe, 0x00, 0x04, 0x00, 0x00,
		0x89, 0x06, 0x00, 0x01, 0x01, 0x09, 0x00, 0x00, 0x00,
		0x88, 0x0d, 0x00, 0x02, 0x0c, 0x00,
		0x00, 0x00, 0x00, 0x00, 0xff, 0x00, 0x00, 0x00, 0x00, 0x01,
		0x79, 0x00,
	}
	require.Len(t, body, 50)
	assert.Equal(t, append([]byte{0x11, 0x35, 0x0a, 0x32}, body...), b)
}

func TestBuildAddressFlags(t *testing.T) {
	b := mustBuild(t, `
terms:
  - resources:
      - dwordmemory:
          consumer: true
          minfixed: true
          maxfixed: true
          min: 0xfe000000
          max: 0xfeffffff
          length: 0x01000000
          readwrite: true
          type: reserved
`)
	assert.Equal(t, []byte{0x87, 0x17, 0x00, 0x00, 0x0d, 0x09}, b[4:10])

	_, err := build(t, `
terms:
  - resources:
      - wordio: {max: 0xff, length: 0x100, ranges: both}
`)
	assert.ErrorIs(t, err, aml.ErrInvalidInput)
	assert.Contains(t, err.Error(), "unknown ISA ranges")
	assert.Contains(t, err.Error(), "entire, isaonly, nonisaonly")
}

func TestBuildCreateField(t *testing.T) {
	b := mustBuild(t, `
terms:
  - createfield: {kind: dword, path: BAR0, source: {namestring: CRS}, index: {integer: 4}}
`)
	assert.Equal(t, []byte{0x8a, 'C', 'R', 'S', '_', 0x0a, 0x04, 'B', 'A', 'R', '0'}, b)

	_, err := build(t, `
terms:
  - createfield: {kind: bit, path: BIT0, source: {namestring: CRS}, index: {integer: 4}, bits: {integer: 1}}
`)
	assert.ErrorIs(t, err, aml.ErrInvalidInput)
}

func TestBuildBufferAndPackage(t *testing.T) {
	b := mustBuild(t, `
terms:
  - buffer: {size: 8, bytes: [1, 2]}
  - package: {elements: [{zero: true}, {string: A}]}
`)
	assert.Equal(t, []byte{
		0x11, 0x05, 0x0a, 0x08, 1, 2,
		0x12, 0x06, 0x02, 0x00, 0x0d, 'A', 0x00,
	}, b)

	_, err := build(t, `
terms:
  - buffer: {bytes: [1, 256]}
`)
	assert.ErrorIs(t, err, aml.ErrInvalidInput)
	assert.Contains(t, err.Error(), "terms[0].buffer")
}

func TestBuildExternal(t *testing.T) {
	b := mustBuild(t, `
terms:
  - external: {path: \_SB.PCI0, type: device}
`)
	assert.Equal(t, append(append([]byte{0x15, '\\', 0x2e}, "_SB_PCI0"...), 0x06, 0x00), b)
}

func TestBuildErrorPath(t *testing.T) {
	_, err := build(t, `
terms:
  - scope:
      path: \_SB
      terms:
        - name: {path: _UID, value: {zero: true}}
        - method:
            path: _STA
            terms:
              - {integer: 1, string: x}
`)
	var descErr *Error
	require.ErrorAs(t, err, &descErr)
	assert.Equal(t, "terms[0].scope.terms[1].method.terms[0]", descErr.Path)
	assert.ErrorIs(t, err, aml.ErrInvalidInput)
	assert.Contains(t, err.Error(), "[integer string]")
}

func TestBuildUnknownOpcode(t *testing.T) {
	_, err := build(t, `
terms:
  - op: {opcode: Frobnicate}
`)
	var descErr *Error
	require.ErrorAs(t, err, &descErr)
	assert.Equal(t, "terms[0].op", descErr.Path)
	assert.Contains(t, err.Error(), `"Frobnicate"`)
}

func TestBuildScopeErrorsPassThrough(t *testing.T) {
	_, err := build(t, `
terms:
  - name: {path: 1BAD, value: {zero: true}}
`)
	var nameErr *aml.NameError
	assert.True(t, errors.As(err, &nameErr))

	_, err = build(t, `
terms:
  - else: {terms: []}
`)
	assert.ErrorIs(t, err, aml.ErrInvariantViolation)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("terms: []\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("terms:\n  - device: {path: DEV0, colour: red}\n"))
	assert.Error(t, err)

	_, err = Build(nil)
	assert.ErrorIs(t, err, aml.ErrInvalidInput)
}

func TestRegionSpaceNumber(t *testing.T) {
	space, err := regionSpace("0x80")
	require.NoError(t, err)
	assert.Equal(t, aml.RegionSpace(0x80), space)

	space, err = regionSpace("PCIConfig")
	require.NoError(t, err)
	assert.Equal(t, aml.PCIConfig, space)

	_, err = regionSpace("nowhere")
	assert.ErrorIs(t, err, aml.ErrInvalidInput)
}
