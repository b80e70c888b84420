// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"fmt"
)

// Field positions of the instruction word.
const (
	RD_SHIFT     = 8
	RS_SHIFT     = 5
	IMM_SHIFT    = 0
	OPCODE_SHIFT = 11 // imm and branch
	MEM_BIT      = 1 << 4
	BRANCH_BIT   = 1 << 15

	REG_MASK    = 0x7
	IMM_MASK    = 0xff
	OPCODE_MASK = 0xf
)

// Inst is a decoded instruction: an Op, or a raw Word that matched no
// definition.
type Inst interface {
	// Encode returns the instruction word.
	Encode() uint16
	isInst()
}

// Op is an instruction of a Set.
// Operand fields the definition does not use are zero.
type Op struct {
	Def   *Definition
	Rd    uint8
	Rs    uint8
	Imm   uint8  // Raw 8-bit immediate or branch displacement.
	Label string // Symbolic branch target, pending resolution.
}

// Word is raw data that does not decode to an instruction.
type Word uint16

func (Op) isInst()   {}
func (Word) isInst() {}

// Encode returns the instruction word.
func (op Op) Encode() uint16 {
	return Encode(op.Def.Type, op.Def.Opcode, op.Rd, op.Rs, op.Imm)
}

// Encode returns the raw data word.
func (w Word) Encode() uint16 {
	return uint16(w)
}

// SignedImm returns the immediate interpreted as a two's-complement byte.
func (op Op) SignedImm() int {
	return int(int8(op.Imm))
}

// Validate checks the operand fields against their encodable range.
// Encode does not validate: it masks each field to its width.
func (op Op) Validate() (err error) {
	if op.Rd > REG_MASK || op.Rs > REG_MASK {
		err = fmt.Errorf("%w: r%d, r%d", ErrRegisterRange, op.Rd, op.Rs)
		return
	}
	if len(op.Label) != 0 {
		switch op.Def.Shape() {
		case SHAPE_RD_BADDR, SHAPE_BADDR:
		default:
			err = ErrLabelOperand
			return
		}
	}
	return
}

func (op Op) String() string {
	return fmt.Sprintf("%v{rd:%d rs:%d imm:0x%02x label:%q}", op.Def.Name, op.Rd, op.Rs, op.Imm, op.Label)
}

func (w Word) String() string {
	return fmt.Sprintf("word{0x%04x}", uint16(w))
}

// Encode assembles an instruction word. Every field is masked to its
// width; the operands are not validated.
func Encode(ty Type, opcode Opcode, rd, rs, imm uint8) (word uint16) {
	rdf := uint16(rd&REG_MASK) << RD_SHIFT
	rsf := uint16(rs&REG_MASK) << RS_SHIFT
	opf := uint16(opcode & OPCODE_MASK)

	switch ty {
	case TYPE_REG_ARITH:
		word = rdf | rsf | opf
	case TYPE_MEM:
		word = rdf | rsf | MEM_BIT | opf
	case TYPE_IMM:
		word = opf<<OPCODE_SHIFT | rdf | uint16(imm)
	case TYPE_BRANCH:
		word = BRANCH_BIT | opf<<OPCODE_SHIFT | rdf | uint16(imm)
	}

	return
}

// Classify returns the layout and opcode selected by the word.
func Classify(word uint16) (ty Type, opcode Opcode) {
	switch {
	case word>>OPCODE_SHIFT == 0:
		ty = TYPE_REG_ARITH
		if word&MEM_BIT != 0 {
			ty = TYPE_MEM
		}
		opcode = Opcode(word & OPCODE_MASK)
	case word&BRANCH_BIT == 0:
		ty = TYPE_IMM
		opcode = Opcode((word >> OPCODE_SHIFT) & OPCODE_MASK)
	default:
		ty = TYPE_BRANCH
		opcode = Opcode((word >> OPCODE_SHIFT) & OPCODE_MASK)
	}
	return
}

// Decode disassembles an instruction word. It never fails: a word with an
// unknown opcode decodes to a Word. Decode(set, w).Encode() == w for every
// word; operand fields the shape does not use are kept in the Op, but
// Format does not show them.
func Decode(set *Set, word uint16) Inst {
	ty, opcode := Classify(word)

	def, ok := set.Match(ty, opcode)
	if !ok {
		return Word(word)
	}

	rd := uint8(word>>RD_SHIFT) & REG_MASK
	rs := uint8(word>>RS_SHIFT) & REG_MASK
	imm := uint8(word >> IMM_SHIFT)

	// Every field the layout carries is kept, used by the shape or not,
	// so the Op encodes back to the same word.
	op := Op{Def: def, Rd: rd}
	switch def.Type {
	case TYPE_REG_ARITH, TYPE_MEM:
		op.Rs = rs
	default:
		op.Imm = imm
	}

	return op
}
