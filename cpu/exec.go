// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"

	"github.com/ezrec/isagen/action"
	"github.com/ezrec/isagen/isa"
)

// State is the machine state an instruction reads and writes.
type State interface {
	action.Env
	SetRegister(n uint8, value uint16)
	SetMemory(addr uint16, value uint8)
	Branch(target uint16)
}

// Transaction is the ordered list of effects of one instruction.
type Transaction struct {
	Addr    uint16 // Address of the instruction.
	Op      isa.Op
	Effects []action.Effect
}

// Branch returns the target of a taken branch.
func (tx *Transaction) Branch() (target uint16, taken bool) {
	for _, effect := range tx.Effects {
		if br, ok := effect.(action.Branch); ok {
			target = br.Target
			taken = true
		}
	}
	return
}

// BranchTarget returns the destination of a branch at addr with the given
// displacement.
func BranchTarget(addr uint16, disp uint8) uint16 {
	return addr + 2 + uint16(int16(int8(disp)))
}

// Execute evaluates op, located at addr, against the state. The state is
// only read.
func Execute(op isa.Op, state action.Env, addr uint16) (tx Transaction, err error) {
	def := op.Def

	if def.WordAlign {
		if value := state.Register(op.Rs); value&1 != 0 {
			err = fmt.Errorf("%w: %v r%d = 0x%04x", ErrAddressMisaligned, def.Name, op.Rs, value)
			return
		}
	}

	expr := def.Expr
	if expr == nil {
		expr, err = action.Parse(def.Action)
		if err != nil {
			return
		}
	}

	val, effects, err := expr.Eval(state, action.Operands{Rd: op.Rd, Rs: op.Rs, Imm: op.Imm})
	if err != nil {
		return
	}

	tx = Transaction{Addr: addr, Op: op}
	if def.IsBranch() {
		if val.Truth() {
			tx.Effects = []action.Effect{action.Branch{Target: BranchTarget(addr, op.Imm)}}
		}
	} else {
		tx.Effects = effects
	}

	return
}

// Commit applies the transaction's effects to the state, in order.
func Commit(tx Transaction, state State) {
	for _, effect := range tx.Effects {
		switch effect := effect.(type) {
		case action.SetRegister:
			state.SetRegister(effect.Reg, effect.Value)
		case action.SetMemory:
			state.SetMemory(effect.Addr, effect.Value)
		case action.Branch:
			state.Branch(effect.Target)
		}
	}
}
