// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"errors"

	"github.com/ezrec/isagen/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrLabelRange      = errors.New(f("label out of branch range"))
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrAddressRange    = errors.New(f("program exceeds the address space"))
)

// ErrSyntax reports where a line stopped matching the operand grammar.
type ErrSyntax struct {
	Col      int    // One-based column of the offending text.
	Expected string // What the grammar expected.
	Found    string // What was found instead.
}

func (err *ErrSyntax) Error() string {
	return f("column %d: expected %v, found %v", err.Col, err.Expected, err.Found)
}

// ErrImmediateRange reports an immediate that does not fit in 8 bits.
type ErrImmediateRange struct {
	Value  int64
	Signed bool
}

func (err *ErrImmediateRange) Error() string {
	if err.Signed {
		return f("immediate %d outside [-128, 127]", err.Value)
	}
	return f("immediate %d outside [0, 255]", err.Value)
}

// ErrLine reports a failure on a line of assembly input.
type ErrLine struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrLine) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrLine) Unwrap() error {
	return err.Err
}

// ErrLabelMissing reports a branch to an undefined label.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrParseExpression reports a $(...) expression that is not an integer.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
