// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"

	"github.com/ezrec/isagen/translate"
)

var f = translate.From

var (
	// Execution errors
	ErrAddressMisaligned  = errors.New(f("word access to an odd address"))
	ErrIllegalInstruction = errors.New(f("illegal instruction"))

	// Machine errors
	ErrHistoryEmpty = errors.New(f("no history to reverse"))
	ErrMemfile      = errors.New(f("memfile syntax"))
)

// ErrBreakpoint is returned by Tick before executing at a breakpoint.
type ErrBreakpoint struct {
	Addr uint16
}

func (err *ErrBreakpoint) Error() string {
	return f("breakpoint at 0x%04x", err.Addr)
}

// ErrWatchpoint is returned by Tick when an instruction touches a watched
// address. The instruction is not committed.
type ErrWatchpoint struct {
	Addr  uint16 // Watched address.
	Pc    uint16 // Address of the instruction.
	Write bool   // Set for a write, clear for a read.
}

func (err *ErrWatchpoint) Error() string {
	if err.Write {
		return f("watchpoint at 0x%04x written by 0x%04x", err.Addr, err.Pc)
	}
	return f("watchpoint at 0x%04x read by 0x%04x", err.Addr, err.Pc)
}
