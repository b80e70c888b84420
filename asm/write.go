// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"fmt"
	"strings"

	"github.com/ezrec/isagen/isa"
)

// hex renders an immediate as 0x and two upper case digits.
func hex(value int) string {
	if value < 0 {
		return fmt.Sprintf("-0x%02X", -value)
	}
	return fmt.Sprintf("0x%02X", value)
}

// Format writes an instruction as assembly text. A raw word is written
// as a .word directive.
func Format(inst isa.Inst) string {
	switch inst := inst.(type) {
	case isa.Op:
		return formatOp(inst)
	case isa.Word:
		return fmt.Sprintf(".word 0x%04X", uint16(inst))
	}
	return ""
}

func formatOp(op isa.Op) string {
	def := op.Def

	var sb strings.Builder
	sb.WriteString(def.Name)
	for n, arg := range def.Args {
		if n == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(", ")
		}
		switch arg {
		case isa.ARG_RD:
			fmt.Fprintf(&sb, "r%d", op.Rd)
		case isa.ARG_RS:
			fmt.Fprintf(&sb, "r%d", op.Rs)
		case isa.ARG_ADDR:
			fmt.Fprintf(&sb, "(r%d)", op.Rs)
		case isa.ARG_IMM:
			if def.SignedImm {
				sb.WriteString(hex(op.SignedImm()))
			} else {
				sb.WriteString(hex(int(op.Imm)))
			}
		case isa.ARG_BADDR:
			if len(op.Label) != 0 {
				sb.WriteString(op.Label)
			} else {
				sb.WriteString(hex(op.SignedImm()))
			}
		}
	}

	return sb.String()
}

// bits renders the low n bits of value, most significant first.
func bits(value uint16, n int) string {
	return fmt.Sprintf("%0*b", n, value&(1<<n-1))
}

// FormatBinary writes the instruction word as two groups of eight binary
// digits, assembled from the fields of its layout.
func FormatBinary(inst isa.Inst) string {
	var text string

	switch inst := inst.(type) {
	case isa.Op:
		def := inst.Def
		rd := bits(uint16(inst.Rd), 3)
		rs := bits(uint16(inst.Rs), 3)
		imm := bits(uint16(inst.Imm), 8)
		opcode := bits(uint16(def.Opcode), isa.OPCODE_BITS)
		switch def.Type {
		case isa.TYPE_REG_ARITH:
			text = "00000" + rd + rs + "0" + opcode
		case isa.TYPE_MEM:
			text = "00000" + rd + rs + "1" + opcode
		case isa.TYPE_IMM:
			text = "0" + opcode + rd + imm
		case isa.TYPE_BRANCH:
			text = "1" + opcode + rd + imm
		}
	case isa.Word:
		text = bits(uint16(inst), 16)
	}

	if len(text) != 16 {
		return text
	}

	return text[:8] + " " + text[8:]
}
