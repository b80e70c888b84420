// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"

	"github.com/ezrec/isagen/action"
	"github.com/ezrec/isagen/isa"
)

const (
	REGISTERS   = 8       // Number of general purpose registers.
	MEMORY_SIZE = 0x10000 // Bytes of memory.
)

var _cpu_defines = map[string]string{
	"REGISTERS":     fmt.Sprintf("%d", REGISTERS),
	"MEMORY_SIZE":   fmt.Sprintf("0x%x", MEMORY_SIZE),
	"HISTORY_LIMIT": fmt.Sprintf("%d", HISTORY_LIMIT),
}

// history records how to reverse one instruction.
type history struct {
	pc     uint16
	delay  bool
	target uint16
	undo   []action.Effect // Prior values of the changed locations.
}

// Cpu is the simulation context of the machine.
type Cpu struct {
	Verbose bool     // Set to enable verbose logging.
	History bool     // Set to record history for Reverse.
	Set     *isa.Set // Instruction set.

	Pc  uint16             // Address of the next instruction.
	Reg [REGISTERS]uint16  // Register bank.
	Mem [MEMORY_SIZE]uint8 // Memory.

	Ticks int // Instructions executed.

	delay  bool   // Next instruction is a delay slot.
	target uint16 // Branch target after the delay slot.

	taken  bool   // Set by Branch during Commit.
	branch uint16 // Target recorded by Branch.

	breakpoint map[uint16]bool
	watchRead  map[uint16]bool
	watchWrite map[uint16]bool
	resume     bool // Skip traps at Pc, after reporting one.

	past Stack[history]
}

// NewCpu creates a machine for an instruction set.
func NewCpu(set *isa.Set) (cpu *Cpu) {
	cpu = &Cpu{
		Set:  set,
		past: Stack[history]{Limit: HISTORY_LIMIT},
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Register implements action.Env.
func (cpu *Cpu) Register(n uint8) uint16 {
	return cpu.Reg[n%REGISTERS]
}

// Memory implements action.Env.
func (cpu *Cpu) Memory(addr uint16) uint8 {
	return cpu.Mem[addr]
}

// SetRegister implements State.
func (cpu *Cpu) SetRegister(n uint8, value uint16) {
	cpu.Reg[n%REGISTERS] = value
}

// SetMemory implements State.
func (cpu *Cpu) SetMemory(addr uint16, value uint8) {
	cpu.Mem[addr] = value
}

// Branch implements State.
func (cpu *Cpu) Branch(target uint16) {
	cpu.taken = true
	cpu.branch = target
}

// Word reads a big-endian word.
func (cpu *Cpu) Word(addr uint16) uint16 {
	return uint16(cpu.Mem[addr])<<8 | uint16(cpu.Mem[addr+1])
}

// SetWord writes a big-endian word.
func (cpu *Cpu) SetWord(addr uint16, word uint16) {
	cpu.Mem[addr] = uint8(word >> 8)
	cpu.Mem[addr+1] = uint8(word)
}

// Load stores words into memory.
func (cpu *Cpu) Load(words iter.Seq2[uint16, uint16]) {
	for addr, word := range words {
		cpu.SetWord(addr, word)
	}
}

// Reset clears the registers, the program counter, the delay slot,
// the tick counter and the history. Memory, breakpoints and watchpoints
// are kept.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Reg[:])
	cpu.Pc = 0
	cpu.Ticks = 0
	cpu.delay = false
	cpu.target = 0
	cpu.resume = false
	cpu.past.Reset()
}

// InDelaySlot is true when the next instruction is a delay slot.
func (cpu *Cpu) InDelaySlot() (target uint16, ok bool) {
	return cpu.target, cpu.delay
}

// SetBreakpoint stops Tick before executing at addr.
func (cpu *Cpu) SetBreakpoint(addr uint16) {
	if cpu.breakpoint == nil {
		cpu.breakpoint = make(map[uint16]bool)
	}
	cpu.breakpoint[addr] = true
}

// ClearBreakpoint removes a breakpoint.
func (cpu *Cpu) ClearBreakpoint(addr uint16) {
	delete(cpu.breakpoint, addr)
}

// Watch stops Tick on reads and/or writes of the byte at addr.
func (cpu *Cpu) Watch(addr uint16, read bool, write bool) {
	if cpu.watchRead == nil {
		cpu.watchRead = make(map[uint16]bool)
		cpu.watchWrite = make(map[uint16]bool)
	}
	cpu.watchRead[addr] = read
	cpu.watchWrite[addr] = write
}

// watcher reports memory reads of an instruction.
type watcher struct {
	*Cpu
	reads []uint16
}

func (w *watcher) Memory(addr uint16) uint8 {
	w.reads = append(w.reads, addr)
	return w.Cpu.Memory(addr)
}

// watched checks the transaction against the watchpoints.
func (cpu *Cpu) watched(tx Transaction, reads []uint16) (err error) {
	for _, addr := range reads {
		if cpu.watchRead[addr] {
			err = &ErrWatchpoint{Addr: addr, Pc: tx.Addr}
			return
		}
	}
	for _, effect := range tx.Effects {
		if sm, ok := effect.(action.SetMemory); ok && cpu.watchWrite[sm.Addr] {
			err = &ErrWatchpoint{Addr: sm.Addr, Pc: tx.Addr, Write: true}
			return
		}
	}
	return
}

// Fetch decodes the instruction at addr.
func (cpu *Cpu) Fetch(addr uint16) isa.Inst {
	return isa.Decode(cpu.Set, cpu.Word(addr))
}

// Tick executes a single instruction. On error nothing is changed.
func (cpu *Cpu) Tick() (err error) {
	addr := cpu.Pc

	resume := cpu.resume
	cpu.resume = false

	if !resume && cpu.breakpoint[addr] {
		cpu.resume = true
		err = &ErrBreakpoint{Addr: addr}
		return
	}

	inst := cpu.Fetch(addr)
	op, ok := inst.(isa.Op)
	if !ok {
		err = fmt.Errorf("%w: 0x%04x at 0x%04x", ErrIllegalInstruction, inst.Encode(), addr)
		return
	}

	w := &watcher{Cpu: cpu}
	tx, err := Execute(op, w, addr)
	if err != nil {
		return
	}

	if !resume {
		err = cpu.watched(tx, w.reads)
		if err != nil {
			cpu.resume = true
			return
		}
	}

	if cpu.Verbose {
		log.Printf("cpu: %04x: %v %v", addr, op, tx.Effects)
	}

	if cpu.History {
		cpu.record(tx)
	}

	cpu.taken = false
	Commit(tx, cpu)

	switch {
	case cpu.taken:
		// A branch in a delay slot drops the pending target, and
		// arms a delay slot of its own.
		cpu.Pc = addr + 2
		cpu.target = cpu.branch
		cpu.delay = true
	case cpu.delay:
		cpu.Pc = cpu.target
		cpu.delay = false
	default:
		cpu.Pc = addr + 2
	}

	cpu.Ticks++

	return
}

// record saves what Reverse needs to undo the transaction.
func (cpu *Cpu) record(tx Transaction) {
	hist := history{pc: cpu.Pc, delay: cpu.delay, target: cpu.target}
	for _, effect := range tx.Effects {
		switch effect := effect.(type) {
		case action.SetRegister:
			n := effect.Reg % REGISTERS
			hist.undo = append(hist.undo, action.SetRegister{Reg: n, Value: cpu.Reg[n]})
		case action.SetMemory:
			hist.undo = append(hist.undo, action.SetMemory{Addr: effect.Addr, Value: cpu.Mem[effect.Addr]})
		}
	}
	cpu.past.Push(hist)
}

// Reverse undoes the last instruction executed while History was set.
func (cpu *Cpu) Reverse() (err error) {
	hist, ok := cpu.past.Pop()
	if !ok {
		err = ErrHistoryEmpty
		return
	}

	for _, effect := range slices.Backward(hist.undo) {
		switch effect := effect.(type) {
		case action.SetRegister:
			cpu.Reg[effect.Reg] = effect.Value
		case action.SetMemory:
			cpu.Mem[effect.Addr] = effect.Value
		}
	}

	cpu.Pc = hist.pc
	cpu.delay = hist.delay
	cpu.target = hist.target
	cpu.resume = false
	cpu.Ticks--

	if cpu.Verbose {
		log.Printf("cpu: reverse to %04x", cpu.Pc)
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("% 5s: %04X\n", "pc", cpu.Pc)
	if cpu.delay {
		text += fmt.Sprintf("% 5s: %04X\n", "slot", cpu.target)
	}
	for n, val := range cpu.Reg {
		text += fmt.Sprintf("% 5s: %04X\n", fmt.Sprintf("r%d", n), val)
	}
	text += fmt.Sprintf("% 5s: %d\n", "ticks", cpu.Ticks)

	return
}
