// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package action

import (
	"errors"

	"github.com/ezrec/isagen/translate"
)

var f = translate.From

var (
	// Parse errors
	ErrUnknownName     = errors.New(f("unknown name"))
	ErrUnsupported     = errors.New(f("unsupported expression"))
	ErrArity           = errors.New(f("wrong number of arguments"))
	ErrRegisterTarget  = errors.New(f("setreg target must be rd or rs"))
	ErrEffectPosition  = errors.New(f("setreg and setmem may only be used as statements"))
	ErrMemorySize      = errors.New(f("getmem size must be 1 or 2"))
	ErrIntegerOverflow = errors.New(f("integer literal out of range"))

	// Evaluation errors
	ErrNotInteger = errors.New(f("value is not an integer"))
)

// ErrAction reports a problem with an action expression.
type ErrAction struct {
	Text string // Action text.
	Pos  string // Position inside the text, if known.
	Err  error
}

func (err *ErrAction) Error() string {
	if len(err.Pos) != 0 {
		return f("action '%v' at %v: %v", err.Text, err.Pos, err.Err)
	}
	return f("action '%v': %v", err.Text, err.Err)
}

func (err *ErrAction) Unwrap() error {
	return err.Err
}
