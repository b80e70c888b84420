// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/ezrec/isagen/asm"
	"github.com/ezrec/isagen/cpu"
	"github.com/ezrec/isagen/internal"
	"github.com/ezrec/isagen/isa"
)

const (
	ORIGIN = 0x0000 // Address programs are assembled and started at.
)

var _emulator_defines = map[string]string{
	"ORIGIN": fmt.Sprintf("0x%04x", ORIGIN),
}

// Emulator state. CPU + the program listing it runs.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *asm.Program // Reference to the currently running program listing.
}

// NewEmulator creates a new emulator for an instruction set.
func NewEmulator(set *isa.Set) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(set),
		Program: &asm.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Concat2(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Assemble assembles a program with the emulator's defines, and loads it.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	as := &asm.Assembler{Verbose: emu.Verbose, Set: emu.Cpu.Set}
	for key, value := range emu.Defines() {
		as.Predefine(key, value)
	}

	prog, err := as.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	emu.Reset()

	return
}

// LoadMemfile loads a memfile image, without a program listing.
func (emu *Emulator) LoadMemfile(input io.Reader) (err error) {
	emu.Program = &asm.Program{}
	clear(emu.Cpu.Mem[:])

	err = emu.Cpu.LoadMemfile(input)
	if err != nil {
		return
	}

	emu.Cpu.Reset()
	emu.Cpu.Pc = ORIGIN

	return
}

// Reset the machine and reload the program.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose

	clear(emu.Cpu.Mem[:])
	emu.Cpu.Load(emu.Program.Words())
	emu.Cpu.Reset()
	emu.Cpu.Pc = ORIGIN
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns current program counter.
func (emu *Emulator) Pc() int {
	return int(emu.Cpu.Pc)
}

// Inst returns the instruction at the program counter.
func (emu *Emulator) Inst() isa.Inst {
	return emu.Cpu.Fetch(emu.Cpu.Pc)
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	line, ok := emu.Program.Debug(emu.Cpu.Pc)
	if !ok {
		return 0
	}

	return line.LineNo
}

// Done is true when a program listing is loaded, and execution has left
// it.
func (emu *Emulator) Done() bool {
	if len(emu.Program.Lines) == 0 {
		return false
	}
	if _, slot := emu.Cpu.InDelaySlot(); slot {
		return false
	}

	_, ok := emu.Program.Debug(emu.Cpu.Pc)
	return !ok
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	pc := emu.Cpu.Pc
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Pc: pc, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = emu.Done()

	return
}

// Run ticks until the program is done, or for at most limit ticks when
// limit is positive.
func (emu *Emulator) Run(limit int) (ticks int, err error) {
	for limit <= 0 || ticks < limit {
		if emu.Done() {
			return
		}
		_, err = emu.Tick()
		if err != nil {
			return
		}
		ticks++
	}

	return
}
