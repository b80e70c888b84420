// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package gen writes Go source implementing instruction lookup tables for
// an instruction set.
//
// The generated package has an Inst enumeration in table order, the
// mnemonic of each instruction, its layout, whether it branches, and the
// encoding template of each instruction with every operand field zero.
// It carries tables only. Encoding and decoding stay with isa.Encode and
// isa.Decode, which take the *isa.Set the tables were generated from.
package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ezrec/isagen/isa"
	"github.com/ezrec/isagen/translate"
)

var f = translate.From

var ErrPackageName = errors.New(f("package name invalid"))

// Annotator writes source annotations ahead of each generated definition.
type Annotator interface {
	Annotate(out io.Writer, origin isa.Origin) error
}

// AnnotatorFunc adapts a function to the Annotator interface.
type AnnotatorFunc func(out io.Writer, origin isa.Origin) error

func (fn AnnotatorFunc) Annotate(out io.Writer, origin isa.Origin) error {
	return fn(out, origin)
}

// OriginComment annotates each definition with the directive that last
// wrote it.
var OriginComment = AnnotatorFunc(func(out io.Writer, origin isa.Origin) (err error) {
	_, err = fmt.Fprintf(out, "// origin: %v\n", origin)
	return
})

// NoAnnotation writes nothing.
var NoAnnotation = AnnotatorFunc(func(out io.Writer, origin isa.Origin) error {
	return nil
})

// Options of the generator.
type Options struct {
	Package   string    // Package name; defaults to "inst".
	Annotator Annotator // Defaults to OriginComment.
}

type genType struct {
	Ident string
	Name  string
}

type genInst struct {
	Ident      string
	Name       string
	Type       string
	Branch     bool
	Opcode     string
	Annotation string
}

type genData struct {
	Package string
	Types   []genType
	Insts   []genInst
}

var upper = cases.Upper(language.Und)

// ident returns the constant name for a mnemonic or layout.
func ident(prefix string, name string) string {
	return prefix + "_" + upper.String(name)
}

// validPackage accepts lower case Go identifiers.
func validPackage(name string) bool {
	if len(name) == 0 {
		return false
	}
	for n, c := range name {
		switch {
		case c >= 'a' && c <= 'z':
		case c == '_' && n > 0:
		case c >= '0' && c <= '9' && n > 0:
		default:
			return false
		}
	}
	return true
}

// Go writes the lookup tables of set as gofmt-formatted Go source.
// The output only depends on the set and the options.
func Go(out io.Writer, set *isa.Set, opts Options) (err error) {
	pkg := opts.Package
	if len(pkg) == 0 {
		pkg = "inst"
	}
	if !validPackage(pkg) {
		err = fmt.Errorf("%w: %q", ErrPackageName, pkg)
		return
	}

	annotator := opts.Annotator
	if annotator == nil {
		annotator = OriginComment
	}

	data := genData{Package: pkg}
	for _, ty := range isa.Types {
		data.Types = append(data.Types, genType{Ident: ident("TYPE", ty.String()), Name: ty.String()})
	}

	for def := range set.All() {
		var note bytes.Buffer
		err = annotator.Annotate(&note, def.Origin)
		if err != nil {
			return
		}
		data.Insts = append(data.Insts, genInst{
			Ident:      ident("INST", def.Name),
			Name:       def.Name,
			Type:       ident("TYPE", def.Type.String()),
			Branch:     def.IsBranch(),
			Opcode:     fmt.Sprintf("0x%04x", isa.Encode(def.Type, def.Opcode, 0, 0, 0)),
			Annotation: note.String(),
		})
	}

	var buf bytes.Buffer
	err = goTemplate.Execute(&buf, &data)
	if err != nil {
		return
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return
	}

	_, err = out.Write(src)
	return
}
