// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"fmt"
	"slices"
	"strconv"
)

// Type is the instruction layout.
type Type int

//go:generate go tool stringer -linecomment -type=Type
const (
	TYPE_REG_ARITH = Type(0) // reg_arith
	TYPE_MEM       = Type(1) // mem
	TYPE_IMM       = Type(2) // imm
	TYPE_BRANCH    = Type(3) // branch
)

// Types lists every instruction layout.
var Types = []Type{TYPE_REG_ARITH, TYPE_MEM, TYPE_IMM, TYPE_BRANCH}

// MarshalText implements encoding.TextMarshaler.
func (ty Type) MarshalText() ([]byte, error) {
	return []byte(ty.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (ty *Type) UnmarshalText(text []byte) error {
	for _, known := range Types {
		if known.String() == string(text) {
			*ty = known
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrTypeUnknown, string(text))
}

// Arg is an operand kind.
type Arg int

//go:generate go tool stringer -linecomment -type=Arg
const (
	ARG_RD    = Arg(0) // rd
	ARG_RS    = Arg(1) // rs
	ARG_IMM   = Arg(2) // imm
	ARG_ADDR  = Arg(3) // addr
	ARG_BADDR = Arg(4) // baddr
)

// MarshalText implements encoding.TextMarshaler.
func (arg Arg) MarshalText() ([]byte, error) {
	return []byte(arg.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (arg *Arg) UnmarshalText(text []byte) error {
	for known := ARG_RD; known <= ARG_BADDR; known++ {
		if known.String() == string(text) {
			*arg = known
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrArgUnknown, string(text))
}

// Opcode is the 4-bit pattern selecting an instruction inside its type.
// Its text form is a binary literal of exactly four digits.
type Opcode uint8

// OPCODE_BITS is the width of every opcode field.
const OPCODE_BITS = 4

func (op Opcode) String() string {
	return fmt.Sprintf("%0*b", OPCODE_BITS, uint8(op))
}

// MarshalText implements encoding.TextMarshaler.
func (op Opcode) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (op *Opcode) UnmarshalText(text []byte) error {
	if len(text) != OPCODE_BITS {
		return fmt.Errorf("%w: %q", ErrOpcodeWidth, string(text))
	}
	v, err := strconv.ParseUint(string(text), 2, OPCODE_BITS)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrOpcodeWidth, string(text))
	}
	*op = Opcode(v)
	return nil
}

// Shape is one of the supported operand sequences.
type Shape int

const (
	SHAPE_INVALID  = Shape(-1) // ?
	SHAPE_NONE     = Shape(0)  // []
	SHAPE_RD_RS    = Shape(1)  // [rd,rs]
	SHAPE_RD_ADDR  = Shape(2)  // [rd,addr]
	SHAPE_RD_IMM   = Shape(3)  // [rd,imm]
	SHAPE_RD_BADDR = Shape(4)  // [rd,baddr]
	SHAPE_BADDR    = Shape(5)  // [baddr]
)

var shapeArgs = [...][]Arg{
	SHAPE_NONE:     {},
	SHAPE_RD_RS:    {ARG_RD, ARG_RS},
	SHAPE_RD_ADDR:  {ARG_RD, ARG_ADDR},
	SHAPE_RD_IMM:   {ARG_RD, ARG_IMM},
	SHAPE_RD_BADDR: {ARG_RD, ARG_BADDR},
	SHAPE_BADDR:    {ARG_BADDR},
}

// ShapeOf classifies an operand sequence.
func ShapeOf(args []Arg) Shape {
	for n, want := range shapeArgs {
		if slices.Equal(want, args) {
			return Shape(n)
		}
	}
	return SHAPE_INVALID
}

// Args returns the operand sequence of the shape.
func (sh Shape) Args() []Arg {
	if sh < 0 || int(sh) >= len(shapeArgs) {
		return nil
	}
	return slices.Clone(shapeArgs[sh])
}

func (sh Shape) String() string {
	if sh < 0 || int(sh) >= len(shapeArgs) {
		return "?"
	}
	text := "["
	for n, arg := range shapeArgs[sh] {
		if n > 0 {
			text += ","
		}
		text += arg.String()
	}
	return text + "]"
}

// typeShapes are the shapes each layout can carry.
var typeShapes = map[Type][]Shape{
	TYPE_REG_ARITH: {SHAPE_NONE, SHAPE_RD_RS},
	TYPE_MEM:       {SHAPE_RD_ADDR},
	TYPE_IMM:       {SHAPE_RD_IMM},
	TYPE_BRANCH:    {SHAPE_RD_BADDR, SHAPE_BADDR},
}

// Supports reports whether the layout can encode the shape.
func (ty Type) Supports(sh Shape) bool {
	return slices.Contains(typeShapes[ty], sh)
}
