// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package isa implements the instruction set definition store and the
// instruction encoding.
//
// An instruction set is built by replaying the directives of one or more
// definition documents, in order. A directive adds a new definition,
// patches some fields of a live definition, or removes a definition. The
// merged Set is validated once at the end of the replay, and is immutable
// from then on.
//
// Every instruction is a single 16-bit word in one of four layouts:
//
//	reg_arith  00000 ddd sss 0 oooo
//	mem        00000 ddd sss 1 oooo
//	imm        0 oooo ddd iiiiiiii
//	branch     1 oooo ddd iiiiiiii
//
// Encode and Decode are total. A word whose (layout, opcode) pair matches no
// definition decodes to a raw Word.
package isa
