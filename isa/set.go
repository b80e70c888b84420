// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"cmp"
	"fmt"
	"iter"
	"log"
	"slices"

	"github.com/ezrec/isagen/internal"
)

type bucketKey struct {
	Type   Type
	Opcode Opcode
}

// Set is a merged, validated instruction table. It is not modified after
// Load returns, and the definitions it hands out must not be modified
// either.
type Set struct {
	defs   []*Definition
	byName map[string]*Definition
	bucket map[bucketKey]*Definition

	warnings []error
}

// Load replays the directives of the documents, in order, and validates
// the resulting table. Any failure is fatal and no Set is returned.
func Load(docs ...Document) (set *Set, err error) {
	var defs []*Definition

	find := func(name string) int {
		return slices.IndexFunc(defs, func(def *Definition) bool { return def.Name == name })
	}

	seqs := make([]iter.Seq2[Origin, Directive], 0, len(docs))
	for _, doc := range docs {
		seqs = append(seqs, doc.All())
	}

	for origin, dir := range internal.Concat2(seqs...) {
		name := dir.Target()
		switch dir := dir.(type) {
		case Add:
			if find(name) >= 0 {
				err = &ErrDirective{Origin: origin, Name: name, Err: ErrDuplicateDefinition}
				return
			}
			def := dir.Definition.clone()
			def.Origin = origin
			def.Expr = nil
			defs = append(defs, def)
		case Patch:
			n := find(name)
			if n < 0 {
				err = &ErrDirective{Origin: origin, Name: name, Err: ErrUnknownInstruction}
				return
			}
			def := defs[n].clone()
			dir.Fields.apply(def)
			def.Origin = origin
			defs[n] = def
		case Remove:
			defs = slices.DeleteFunc(defs, func(def *Definition) bool { return def.Name == name })
		default:
			err = &ErrDirective{Origin: origin, Name: name, Err: ErrDirectiveUnknown}
			return
		}
	}

	return build(defs)
}

// build validates the merged definitions and indexes them.
func build(defs []*Definition) (set *Set, err error) {
	s := &Set{
		defs:   defs,
		byName: make(map[string]*Definition, len(defs)),
		bucket: make(map[bucketKey]*Definition, len(defs)),
	}

	for _, def := range defs {
		err = def.validate()
		if err != nil {
			err = &ErrDefinition{Origin: def.Origin, Name: def.Name, Err: err}
			return
		}

		if def.Unreachable() {
			warn := &ErrDefinition{Origin: def.Origin, Name: def.Name, Err: ErrOpcodeReserved}
			log.Printf("isagen: warning: %v", warn)
			s.warnings = append(s.warnings, warn)
		}

		key := bucketKey{Type: def.Type, Opcode: def.Opcode}
		if prior, ok := s.bucket[key]; ok {
			err = &ErrDefinition{Origin: def.Origin, Name: def.Name,
				Err: fmt.Errorf("%w: %v %v shared with %v", ErrOpcodeConflict, def.Type, def.Opcode, prior.Name)}
			return
		}
		s.bucket[key] = def
		s.byName[def.Name] = def
	}

	set = s
	return
}

// Warnings returns the problems Load reported without failing.
func (set *Set) Warnings() []error {
	return set.warnings
}

// Len returns the number of definitions.
func (set *Set) Len() int {
	return len(set.defs)
}

// All iterates over the definitions in table order.
func (set *Set) All() iter.Seq[*Definition] {
	return slices.Values(set.defs)
}

// Sorted returns the definitions ordered by name.
func (set *Set) Sorted() []*Definition {
	return slices.SortedFunc(set.All(), func(a, b *Definition) int {
		return cmp.Compare(a.Name, b.Name)
	})
}

// Names returns the mnemonics in table order.
func (set *Set) Names() (names []string) {
	for def := range set.All() {
		names = append(names, def.Name)
	}
	return
}

// Lookup finds a definition by mnemonic.
func (set *Set) Lookup(name string) (def *Definition, ok bool) {
	def, ok = set.byName[name]
	return
}

// TypeOf returns the layout of a mnemonic.
func (set *Set) TypeOf(name string) (ty Type, ok bool) {
	def, ok := set.byName[name]
	if ok {
		ty = def.Type
	}
	return
}

// IsBranch reports whether the mnemonic is a branch.
func (set *Set) IsBranch(name string) bool {
	def, ok := set.byName[name]
	return ok && def.IsBranch()
}

// Match finds the definition owning an opcode inside a layout.
func (set *Set) Match(ty Type, opcode Opcode) (def *Definition, ok bool) {
	def, ok = set.bucket[bucketKey{Type: ty, Opcode: opcode}]
	return
}
