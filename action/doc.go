// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package action implements the instruction action language.
//
// An action is a single expression written in Starlark expression syntax.
// The only names it may reference are the operand references (rd, rs, imm,
// addr), the conversions (uword, sword, ubyte, sbyte), the memory read
// getmem, and the two mutators setreg and setmem. There is no control flow
// beyond the conditional expression; several effects are sequenced with a
// tuple:
//
//	(setreg(rd, getmem(addr)), setmem(addr, ubyte(rs)))
//
// Evaluation never mutates machine state. Mutators record Effect descriptors
// in call order, and every read observes the state as it was before the
// instruction started.
package action
