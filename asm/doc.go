// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package asm reads and writes assembly text for an instruction set
// loaded by package isa.
//
// Each line holds at most one instruction:
//
//	loop:   addi r1, -0x01   ; count down
//	        bnez r1, loop
//	        lw r2, (r3)
//	        .word 0x1234
//
// ParseLine and Format are inverses for every instruction value.
// The Assembler adds labels, comments, .equ constants, $(...) compile
// time expressions and .word data on top of ParseLine, and links
// symbolic branch targets into displacements.
package asm
