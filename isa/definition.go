// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ezrec/isagen/action"
)

// Origin locates a directive inside the ordered document list.
type Origin struct {
	Document string // Document name.
	Index    int    // Zero-based directive index in the document.
}

func (o Origin) String() string {
	return fmt.Sprintf("%v#%d", o.Document, o.Index)
}

// Definition describes one instruction.
type Definition struct {
	Name      string // Unique mnemonic.
	Type      Type   // Encoding layout.
	Opcode    Opcode // Opcode inside the layout.
	Args      []Arg  // Operands, in assembly order.
	SignedImm bool   // Immediate operand is signed.
	WordAlign bool   // Address register must be even.
	Action    string // Action expression text.
	Meaning   string // Short meaning, as pseudo-code.
	Doc       string // Description, with `inline code` spans.

	Origin Origin       // Directive that last wrote this definition.
	Expr   *action.Expr // Compiled Action, set by Load.
}

// Shape classifies the operand sequence.
func (def *Definition) Shape() Shape {
	return ShapeOf(def.Args)
}

// Unreachable is true for an imm definition with opcode 0000. Its words
// classify as reg_arith or mem, so Decode never yields it.
func (def *Definition) Unreachable() bool {
	return def.Type == TYPE_IMM && def.Opcode == 0
}

// IsBranch is true for branch-typed definitions.
func (def *Definition) IsBranch() bool {
	return def.Type == TYPE_BRANCH
}

// clone makes an independent copy of the definition.
func (def *Definition) clone() *Definition {
	dup := *def
	dup.Args = slices.Clone(def.Args)
	if dup.Args == nil {
		dup.Args = []Arg{}
	}
	return &dup
}

// validate checks the constraints that apply to a single definition,
// and compiles the action.
func (def *Definition) validate() (err error) {
	if !validName(def.Name) {
		err = fmt.Errorf("%w: %q", ErrNameInvalid, def.Name)
		return
	}

	if def.Opcode > 0xf {
		err = fmt.Errorf("%w: %d", ErrOpcodeWidth, def.Opcode)
		return
	}

	shape := def.Shape()
	if shape == SHAPE_INVALID || !def.Type.Supports(shape) {
		err = fmt.Errorf("%w: %v %v", ErrUnsupportedOperandShape, def.Type, def.Args)
		return
	}

	expr, err := action.Parse(def.Action)
	if err != nil {
		err = errors.Join(ErrActionSyntax, err)
		return
	}

	if def.Type == TYPE_BRANCH && expr.HasEffects() {
		err = ErrBranchEffect
		return
	}

	def.Expr = expr

	return
}

// validName accepts the mnemonics the assembler can read back.
func validName(name string) bool {
	if len(name) == 0 {
		return false
	}
	for n, c := range name {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9' && n > 0:
		default:
			return false
		}
	}
	return true
}
