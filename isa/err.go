// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"errors"

	"github.com/ezrec/isagen/translate"
)

var f = translate.From

var (
	// Merge errors
	ErrDuplicateDefinition = errors.New(f("instruction already defined (remove it first to redefine it)"))
	ErrUnknownInstruction  = errors.New(f("instruction not defined"))

	// Validation errors
	ErrUnsupportedOperandShape = errors.New(f("unsupported operand shape"))
	ErrOpcodeWidth             = errors.New(f("opcode must be a 4 digit binary literal"))
	ErrOpcodeReserved          = errors.New(f("imm opcode 0000 words decode as reg_arith or mem"))
	ErrOpcodeConflict          = errors.New(f("opcode already used in this type"))
	ErrActionSyntax            = errors.New(f("action invalid"))
	ErrBranchEffect            = errors.New(f("branch action must be a condition without effects"))
	ErrNameInvalid             = errors.New(f("instruction name invalid"))

	// Document errors
	ErrTypeUnknown      = errors.New(f("instruction type unknown"))
	ErrArgUnknown       = errors.New(f("operand kind unknown"))
	ErrDirectiveUnknown = errors.New(f("directive op unknown"))
	ErrFieldMissing     = errors.New(f("required field missing"))
	ErrFieldExtra       = errors.New(f("remove accepts only a name"))
	ErrFormatUnknown    = errors.New(f("document format unknown"))
	ErrFieldUnknown     = errors.New(f("unknown field"))

	// Instruction errors
	ErrRegisterRange = errors.New(f("register out of range"))
	ErrLabelOperand  = errors.New(f("label on instruction without a branch address"))
)

// ErrDirective reports a failed directive, with its document position.
type ErrDirective struct {
	Origin Origin
	Name   string
	Err    error
}

func (err *ErrDirective) Error() string {
	if len(err.Name) == 0 {
		return f("%v: %v", err.Origin, err.Err)
	}
	return f("%v: %v: %v", err.Origin, err.Name, err.Err)
}

func (err *ErrDirective) Unwrap() error {
	return err.Err
}

// ErrDefinition reports a definition that failed validation of the
// merged table.
type ErrDefinition struct {
	Origin Origin
	Name   string
	Err    error
}

func (err *ErrDefinition) Error() string {
	return f("%v: %v: %v", err.Origin, err.Name, err.Err)
}

func (err *ErrDefinition) Unwrap() error {
	return err.Err
}
