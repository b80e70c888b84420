// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFiles(t *testing.T) {
	assert := assert.New(t)

	set, err := LoadFiles(
		filepath.Join("testdata", "base.json"),
		filepath.Join("testdata", "overlay.yaml"),
		filepath.Join("testdata", "overlay.toml"),
	)
	require.NoError(t, err)

	assert.Equal([]string{"add", "addi", "j", "bnez"}, set.Names())

	addi, _ := set.Lookup("addi")
	assert.Equal(Opcode(0b0111), addi.Opcode)
	assert.True(addi.SignedImm)
	assert.Equal(Origin{Document: "overlay.yaml", Index: 0}, addi.Origin)

	j, _ := set.Lookup("j")
	assert.Equal([]Arg{ARG_BADDR}, j.Args)
	assert.Equal("Always branches.", j.Doc)

	add, _ := set.Lookup("add")
	assert.Equal("rd <- rd + rs (mod 2^16)", add.Meaning)
	assert.Equal("Adds `rs` to `rd`.", add.Doc)
	assert.Equal(Origin{Document: "overlay.toml", Index: 2}, add.Origin)

	bnez, _ := set.Lookup("bnez")
	assert.True(bnez.IsBranch())
	assert.Equal(Origin{Document: "overlay.toml", Index: 1}, bnez.Origin)
}

func TestReadDocument(t *testing.T) {
	assert := assert.New(t)

	doc, err := ReadDocument("empty.yaml", strings.NewReader(""))
	assert.NoError(err)
	assert.Empty(doc.Directives)

	doc, err = ReadDocument("one.yml", strings.NewReader("- {op: remove, name: nop}\n"))
	assert.NoError(err)
	assert.Equal([]Directive{Remove{Name: "nop"}}, doc.Directives)

	doc, err = ReadDocument("one.json", strings.NewReader(`[{"op":"patch","name":"nop","doc":"x"}]`))
	assert.NoError(err)
	if assert.Len(doc.Directives, 1) {
		patch := doc.Directives[0].(Patch)
		assert.Equal("nop", patch.Name)
		assert.Equal("x", *patch.Fields.Doc)
		assert.Nil(patch.Fields.Type)
	}

	doc, err = ReadDocument("one.json", strings.NewReader(`[{"name":"nop","type":"reg_arith","opcode":"0000"}]`))
	assert.NoError(err)
	if assert.Len(doc.Directives, 1) {
		add := doc.Directives[0].(Add)
		assert.Equal([]Arg{}, add.Definition.Args)
		assert.Equal(SHAPE_NONE, add.Definition.Shape())
	}
}

func TestReadDocumentErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		text string
		err  error
	}){
		{"a.json", `[{"name":"x","type":"reg_arith"}]`, ErrFieldMissing},
		{"a.json", `[{"type":"reg_arith","opcode":"0000"}]`, ErrFieldMissing},
		{"a.json", `[{"name":"x","type":"jump","opcode":"0000"}]`, ErrTypeUnknown},
		{"a.json", `[{"name":"x","type":"imm","opcode":"01"}]`, ErrOpcodeWidth},
		{"a.json", `[{"name":"x","type":"imm","opcode":"0100","args":["rt"]}]`, ErrArgUnknown},
		{"a.json", `[{"op":"rename","name":"x"}]`, ErrDirectiveUnknown},
		{"a.json", `[{"op":"remove","name":"x","doc":"gone"}]`, ErrFieldExtra},
		{"a.yaml", "- {op: remove, name: x, doc: gone}\n", ErrFieldExtra},
		{"a.toml", "[[directive]]\nname = \"x\"\ncolour = \"red\"\n", ErrFieldUnknown},
	}

	for _, entry := range table {
		_, err := ReadDocument(entry.name, strings.NewReader(entry.text))
		assert.ErrorIs(err, entry.err, entry.text)

		var ed *ErrDirective
		assert.True(errors.As(err, &ed), entry.text)
	}

	_, err := ReadDocument("a.txt", strings.NewReader(""))
	assert.ErrorIs(err, ErrFormatUnknown)

	_, err = ReadDocument("a.json", strings.NewReader(`[{"name":"x","colour":"red"}]`))
	assert.Error(err)

	_, err = ReadDocument("a.yaml", strings.NewReader("- name: x\n  colour: red\n"))
	assert.Error(err)
}

func TestWriteDocument(t *testing.T) {
	assert := assert.New(t)

	set := loadSample(t)

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, set))

	doc, err := ReadDocument("dump.json", &buf)
	require.NoError(t, err)

	again, err := Load(doc)
	require.NoError(t, err)

	assert.Equal(set.Names(), again.Names())
	for def := range set.All() {
		other, ok := again.Lookup(def.Name)
		if assert.True(ok, def.Name) {
			assert.Equal(def.Type, other.Type)
			assert.Equal(def.Opcode, other.Opcode)
			assert.Equal(def.Args, other.Args)
			assert.Equal(def.SignedImm, other.SignedImm)
			assert.Equal(def.WordAlign, other.WordAlign)
			assert.Equal(def.Action, other.Action)
		}
	}
}
