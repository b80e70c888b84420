// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"iter"
	"slices"
)

// Directive is one entry of a definition document: Add, Patch or Remove.
type Directive interface {
	// Target is the instruction name the directive applies to.
	Target() string
	isDirective()
}

// Add inserts a new definition.
type Add struct {
	Definition Definition
}

// Patch overwrites the given fields of a live definition.
type Patch struct {
	Name   string
	Fields Fields
}

// Remove deletes a definition, if present.
type Remove struct {
	Name string
}

func (d Add) Target() string    { return d.Definition.Name }
func (d Patch) Target() string  { return d.Name }
func (d Remove) Target() string { return d.Name }

func (Add) isDirective()    {}
func (Patch) isDirective()  {}
func (Remove) isDirective() {}

// Fields are the optional members of a Patch. Nil members are left as is.
type Fields struct {
	Type      *Type
	Opcode    *Opcode
	Args      *[]Arg
	SignedImm *bool
	WordAlign *bool
	Action    *string
	Meaning   *string
	Doc       *string
}

// Empty is true when no field is set.
func (fl Fields) Empty() bool {
	return fl == Fields{}
}

// apply writes the set fields into def.
func (fl Fields) apply(def *Definition) {
	if fl.Type != nil {
		def.Type = *fl.Type
	}
	if fl.Opcode != nil {
		def.Opcode = *fl.Opcode
	}
	if fl.Args != nil {
		def.Args = slices.Clone(*fl.Args)
	}
	if fl.SignedImm != nil {
		def.SignedImm = *fl.SignedImm
	}
	if fl.WordAlign != nil {
		def.WordAlign = *fl.WordAlign
	}
	if fl.Action != nil {
		def.Action = *fl.Action
	}
	if fl.Meaning != nil {
		def.Meaning = *fl.Meaning
	}
	if fl.Doc != nil {
		def.Doc = *fl.Doc
	}
}

// Document is an ordered list of directives.
type Document struct {
	Name       string
	Directives []Directive
}

// All iterates over the directives with their origin.
func (doc Document) All() iter.Seq2[Origin, Directive] {
	return func(yield func(Origin, Directive) bool) {
		for n, dir := range doc.Directives {
			if !yield(Origin{Document: doc.Name, Index: n}, dir) {
				return
			}
		}
	}
}
