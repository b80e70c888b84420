// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package action

import (
	"fmt"
	"math"
	"math/big"

	"go.starlark.net/starlark"
)

// Value is an evaluated integer with the bit width of its origin.
// Width 0 means an untyped constant.
type Value struct {
	N     int64
	Width int
}

// Truth is the truthiness of the value.
func (v Value) Truth() bool {
	return v.N != 0
}

// Env is the read side of the machine state.
type Env interface {
	Register(n uint8) uint16
	Memory(addr uint16) uint8
}

// Operands are the decoded operand fields of one instruction.
type Operands struct {
	Rd  uint8
	Rs  uint8
	Imm uint8
}

// Effect is a deferred state change.
type Effect interface {
	isEffect()
}

// SetRegister sets a register.
type SetRegister struct {
	Reg   uint8
	Value uint16
}

// SetMemory sets a memory byte.
type SetMemory struct {
	Addr  uint16
	Value uint8
}

// Branch schedules the program counter to become Target.
type Branch struct {
	Target uint16
}

func (SetRegister) isEffect() {}
func (SetMemory) isEffect()   {}
func (Branch) isEffect()      {}

func (e SetRegister) String() string {
	return fmt.Sprintf("r%d <- 0x%04x", e.Reg, e.Value)
}

func (e SetMemory) String() string {
	return fmt.Sprintf("[0x%04x] <- 0x%02x", e.Addr, e.Value)
}

func (e Branch) String() string {
	return fmt.Sprintf("pc <- 0x%04x", e.Target)
}

// evalState is the thread local state of one evaluation.
type evalState struct {
	env     Env
	ops     Operands
	effects []Effect
}

const localState = "action"

func stateOf(thread *starlark.Thread) *evalState {
	return thread.Local(localState).(*evalState)
}

func (st *evalState) word(addr uint16) uint16 {
	return uint16(st.env.Memory(addr))<<8 | uint16(st.env.Memory(addr+1))
}

var maxUint64 = new(big.Int).SetUint64(math.MaxUint64)

// lowBits returns the low 64 bits of an integer, in two's complement.
func lowBits(x starlark.Int) int64 {
	if n, ok := x.Int64(); ok {
		return n
	}
	return int64(new(big.Int).And(x.BigInt(), maxUint64).Uint64())
}

// intOf converts an action value to an integer.
func intOf(v starlark.Value) (n int64, err error) {
	switch v := v.(type) {
	case starlark.Int:
		n = lowBits(v)
	case starlark.Bool:
		if v {
			n = 1
		}
	case starlark.NoneType:
	default:
		err = fmt.Errorf("%w: %v", ErrNotInteger, v.Type())
	}
	return
}

type builtinFunc = func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

// conversion makes a width conversion builtin.
func conversion(conv func(n int64) int64) builtinFunc {
	return func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (v starlark.Value, err error) {
		var x starlark.Value
		err = starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &x)
		if err != nil {
			return
		}
		n, err := intOf(x)
		if err != nil {
			return
		}
		v = starlark.MakeInt64(conv(n))
		return
	}
}

func getmem(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (v starlark.Value, err error) {
	var a starlark.Value
	size := 2
	err = starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &a, &size)
	if err != nil {
		return
	}
	n, err := intOf(a)
	if err != nil {
		return
	}

	st := stateOf(thread)
	addr := uint16(n)
	if size == 1 {
		v = starlark.MakeInt(int(st.env.Memory(addr)))
	} else {
		v = starlark.MakeInt(int(st.word(addr)))
	}
	return
}

func setreg(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (v starlark.Value, err error) {
	var target string
	var value starlark.Value
	err = starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &target, &value)
	if err != nil {
		return
	}
	n, err := intOf(value)
	if err != nil {
		return
	}

	st := stateOf(thread)
	reg := st.ops.Rd
	if target == OPERAND_RS.String() {
		reg = st.ops.Rs
	}
	st.effects = append(st.effects, SetRegister{Reg: reg, Value: uint16(n)})
	v = starlark.None
	return
}

// setmem writes a big-endian word, or a single byte when the size is 1.
func setmem(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (v starlark.Value, err error) {
	var a, value starlark.Value
	size := 2
	err = starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &a, &value, &size)
	if err != nil {
		return
	}
	addr, err := intOf(a)
	if err != nil {
		return
	}
	n, err := intOf(value)
	if err != nil {
		return
	}

	st := stateOf(thread)
	if size == 1 {
		st.effects = append(st.effects, SetMemory{Addr: uint16(addr), Value: uint8(n)})
	} else {
		st.effects = append(st.effects,
			SetMemory{Addr: uint16(addr), Value: uint8(n >> 8)},
			SetMemory{Addr: uint16(addr) + 1, Value: uint8(n)},
		)
	}
	v = starlark.None
	return
}

var builtins = starlark.StringDict{
	"uword":  starlark.NewBuiltin("uword", conversion(func(n int64) int64 { return int64(uint16(n)) })),
	"sword":  starlark.NewBuiltin("sword", conversion(func(n int64) int64 { return int64(int16(n)) })),
	"ubyte":  starlark.NewBuiltin("ubyte", conversion(func(n int64) int64 { return int64(uint8(n)) })),
	"sbyte":  starlark.NewBuiltin("sbyte", conversion(func(n int64) int64 { return int64(int8(n)) })),
	"getmem": starlark.NewBuiltin("getmem", getmem),
	"setreg": starlark.NewBuiltin("setreg", setreg),
	"setmem": starlark.NewBuiltin("setmem", setmem),
}

// Eval evaluates the action against the pre-instruction state, and
// returns the value of the expression and the recorded effects.
func (expr *Expr) Eval(env Env, ops Operands) (val Value, effects []Effect, err error) {
	if expr.prog == nil {
		return
	}

	st := &evalState{env: env, ops: ops}
	thread := &starlark.Thread{Name: localState}
	thread.SetLocal(localState, st)

	predeclared := starlark.StringDict{
		OPERAND_RD.String():   starlark.MakeInt(int(env.Register(ops.Rd))),
		OPERAND_RS.String():   starlark.MakeInt(int(env.Register(ops.Rs))),
		OPERAND_IMM.String():  starlark.MakeInt(int(ops.Imm)),
		OPERAND_ADDR.String(): starlark.MakeInt(int(env.Register(ops.Rs))),
	}
	for name, fn := range builtins {
		predeclared[name] = fn
	}

	globals, err := expr.prog.Init(thread, predeclared)
	if err == nil {
		// A tuple sequences effects; its value is the last item.
		rc := globals[result]
		for {
			tuple, ok := rc.(starlark.Tuple)
			if !ok {
				break
			}
			rc = starlark.None
			if len(tuple) > 0 {
				rc = tuple[len(tuple)-1]
			}
		}
		val.N, err = intOf(rc)
	}
	if err != nil {
		err = &ErrAction{Text: expr.text, Err: err}
		return
	}

	val.Width = expr.width
	effects = st.effects
	return
}
