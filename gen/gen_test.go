// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package gen

import (
	"bytes"
	"errors"
	"go/parser"
	"go/token"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/isagen/defs"
	"github.com/ezrec/isagen/isa"
)

func sampleSet(t *testing.T) *isa.Set {
	set, err := isa.Load(isa.Document{
		Name: "sample",
		Directives: []isa.Directive{
			isa.Add{Definition: isa.Definition{Name: "or", Type: isa.TYPE_REG_ARITH, Opcode: 0b1011,
				Args: []isa.Arg{isa.ARG_RD, isa.ARG_RS}, Action: "setreg(rd, rd | rs)"}},
			isa.Add{Definition: isa.Definition{Name: "lw", Type: isa.TYPE_MEM, Opcode: 0b0001,
				Args: []isa.Arg{isa.ARG_RD, isa.ARG_ADDR}, Action: "setreg(rd, getmem(addr))"}},
			isa.Add{Definition: isa.Definition{Name: "bnez", Type: isa.TYPE_BRANCH, Opcode: 0b0001,
				Args: []isa.Arg{isa.ARG_RD, isa.ARG_BADDR}, Action: "rd != 0"}},
		},
	})
	require.NoError(t, err)
	return set
}

// squash collapses runs of white space, so checks ignore gofmt alignment.
func squash(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func generate(t *testing.T, set *isa.Set, opts Options) string {
	var buf bytes.Buffer
	require.NoError(t, Go(&buf, set, opts))

	_, err := parser.ParseFile(token.NewFileSet(), "inst.go", buf.Bytes(), parser.ParseComments)
	require.NoError(t, err)

	return buf.String()
}

func TestGo(t *testing.T) {
	assert := assert.New(t)

	src := generate(t, sampleSet(t), Options{})
	assert.True(strings.HasPrefix(src, "// Code generated by isagen. DO NOT EDIT.\n\npackage inst\n"))

	text := squash(src)
	for _, want := range []string{
		"TYPE_REG_ARITH = Type(0) // reg_arith",
		"TYPE_BRANCH = Type(3) // branch",
		"// origin: sample#0 INST_OR = Inst(0) // or",
		"// origin: sample#1 INST_LW = Inst(1) // lw",
		"// origin: sample#2 INST_BNEZ = Inst(2) // bnez",
		"const INST_COUNT = 3",
		`INST_LW: "lw",`,
		"INST_BNEZ: TYPE_BRANCH,",
		"INST_BNEZ: true,",
		"INST_OR: false,",
		"INST_OR: 0x000b,",
		"INST_LW: 0x0011,",
		"INST_BNEZ: 0x8800,",
		`"bnez": INST_BNEZ,`,
		"func Lookup(name string) (inst Inst, ok bool) {",
		"func TypeOf(inst Inst) Type {",
		"func IsBranch(inst Inst) bool {",
	} {
		assert.Contains(text, want)
	}

	// Encoding and decoding stay with isa.
	assert.NotContains(text, "func Encode")
	assert.NotContains(text, "func Decode")
}

func TestGoOptions(t *testing.T) {
	assert := assert.New(t)

	set := sampleSet(t)

	src := generate(t, set, Options{Package: "cpu16", Annotator: NoAnnotation})
	assert.Contains(src, "package cpu16\n")
	assert.NotContains(src, "origin:")

	var origins []string
	annotator := AnnotatorFunc(func(out io.Writer, origin isa.Origin) (err error) {
		origins = append(origins, origin.String())
		_, err = io.WriteString(out, "//line "+origin.Document+".json:1\n")
		return
	})
	src = generate(t, set, Options{Annotator: annotator})
	assert.Equal([]string{"sample#0", "sample#1", "sample#2"}, origins)
	assert.Contains(src, "//line sample.json:1\n")

	broken := errors.New("broken")
	err := Go(io.Discard, set, Options{Annotator: AnnotatorFunc(func(io.Writer, isa.Origin) error {
		return broken
	})})
	assert.ErrorIs(err, broken)

	for _, name := range []string{"Inst", "9lives", "a-b", "_x"} {
		err = Go(io.Discard, set, Options{Package: name})
		assert.ErrorIs(err, ErrPackageName, name)
	}
}

func TestGoDeterministic(t *testing.T) {
	assert := assert.New(t)

	first := generate(t, defs.MustDefault(), Options{})
	second := generate(t, defs.MustDefault(), Options{})
	assert.Equal(first, second)
	assert.Contains(first, "// origin: base.json#0\n")
}

func TestGoEmpty(t *testing.T) {
	assert := assert.New(t)

	set, err := isa.Load()
	require.NoError(t, err)

	src := generate(t, set, Options{})
	assert.Contains(squash(src), "const INST_COUNT = 0")
}
