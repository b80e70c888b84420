// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package action

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeEnv struct {
	reg [8]uint16
	mem map[uint16]uint8
}

func (env *fakeEnv) Register(n uint8) uint16 {
	return env.reg[n&7]
}

func (env *fakeEnv) Memory(addr uint16) uint8 {
	return env.mem[addr]
}

func TestParseEmpty(t *testing.T) {
	assert := assert.New(t)

	for _, text := range []string{"", "   "} {
		expr, err := Parse(text)
		assert.NoError(err)
		assert.True(expr.Empty())
		assert.False(expr.HasEffects())

		val, effects, err := expr.Eval(&fakeEnv{}, Operands{})
		assert.NoError(err)
		assert.Equal(Value{}, val)
		assert.Empty(effects)
	}
}

func TestParseErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		text string
		err  error
	}){
		{"unknown_ident", "setreg(rd, foo)", ErrUnknownName},
		{"unknown_call", "print(rd)", ErrUnknownName},
		{"reg_target", "setreg(imm, rs)", ErrRegisterTarget},
		{"nested_effect", "uword(setreg(rd, rs))", ErrEffectPosition},
		{"effect_operand", "rd + setmem(addr, rs)", ErrEffectPosition},
		{"tuple_value", "uword((rd, rs))", ErrEffectPosition},
		{"arity", "uword(rd, rs)", ErrArity},
		{"setreg_arity", "setreg(rd)", ErrArity},
		{"getmem_size", "setreg(rd, getmem(addr, 4))", ErrMemorySize},
		{"float_div", "setreg(rd, rd / rs)", ErrUnsupported},
		{"string", "setreg(rd, 'x')", ErrUnsupported},
		{"keyword", "uword(x=rd)", ErrUnsupported},
		{"list", "[rd]", ErrUnsupported},
	}

	for _, entry := range table {
		_, err := Parse(entry.text)
		assert.ErrorIs(err, entry.err, entry.name)

		var ea *ErrAction
		assert.True(errors.As(err, &ea), entry.name)
	}

	_, err := Parse("setreg(rd,")
	assert.Error(err)
}

func TestEvalArith(t *testing.T) {
	assert := assert.New(t)

	env := &fakeEnv{}
	env.reg[1] = 0x1234
	env.reg[2] = 0x00ff
	env.reg[3] = 0xfffe

	ops := Operands{Rd: 1, Rs: 2, Imm: 0xf0}

	table := [](struct {
		text  string
		value uint16
	}){
		{"setreg(rd, rd + rs)", 0x1333},
		{"setreg(rd, rd - rs)", 0x1135},
		{"setreg(rd, rs - rd)", 0xeecb},
		{"setreg(rd, rd ^ rs)", 0x12cb},
		{"setreg(rd, rd & rs)", 0x0034},
		{"setreg(rd, rd | rs)", 0x12ff},
		{"setreg(rd, ~rs)", 0xff00},
		{"setreg(rd, rs << 8)", 0xff00},
		{"setreg(rd, rd >> 8)", 0x0012},
		{"setreg(rd, imm)", 0x00f0},
		{"setreg(rd, sword(imm))", 0xfff0},
		{"setreg(rd, rd + sword(imm))", 0x1224},
		{"setreg(rd, (imm << 8) | ubyte(rd))", 0xf034},
		{"setreg(rd, sbyte(rs))", 0xffff},
		{"setreg(rd, uword(-1))", 0xffff},
		{"setreg(rd, rd * 2)", 0x2468},
		{"setreg(rd, rd // 0x10)", 0x0123},
		{"setreg(rd, rd % 0x10)", 0x0004},
		{"setreg(rd, 1 if rd > rs else 2)", 0x0001},
		{"setreg(rd, rd == 0x1234)", 0x0001},
		{"setreg(rd, not rd)", 0x0000},
		{"setreg(rd, rs and rd)", 0x1234},
		{"setreg(rd, 0 or rs)", 0x00ff},
	}

	for _, entry := range table {
		expr, err := Parse(entry.text)
		if !assert.NoError(err, entry.text) {
			continue
		}
		assert.True(expr.HasEffects(), entry.text)

		_, effects, err := expr.Eval(env, ops)
		assert.NoError(err, entry.text)
		assert.Equal([]Effect{SetRegister{Reg: 1, Value: entry.value}}, effects, entry.text)
	}
}

func TestEvalSignedCompare(t *testing.T) {
	assert := assert.New(t)

	env := &fakeEnv{}
	env.reg[0] = 0x8000

	minus := MustParse("sword(rd) < 0")
	val, effects, err := minus.Eval(env, Operands{})
	assert.NoError(err)
	assert.Empty(effects)
	assert.True(val.Truth())

	unsigned := MustParse("rd < 0")
	val, _, err = unsigned.Eval(env, Operands{})
	assert.NoError(err)
	assert.False(val.Truth())
}

func TestEvalMemory(t *testing.T) {
	assert := assert.New(t)

	env := &fakeEnv{mem: map[uint16]uint8{0x10: 0xab, 0x11: 0xcd}}
	env.reg[2] = 0x10
	env.reg[1] = 0x5678

	ops := Operands{Rd: 1, Rs: 2}

	expr := MustParse("setreg(rd, getmem(addr))")
	_, effects, err := expr.Eval(env, ops)
	assert.NoError(err)
	assert.Equal([]Effect{SetRegister{Reg: 1, Value: 0xabcd}}, effects)

	expr = MustParse("setreg(rd, getmem(addr, 1))")
	_, effects, err = expr.Eval(env, ops)
	assert.NoError(err)
	assert.Equal([]Effect{SetRegister{Reg: 1, Value: 0x00ab}}, effects)

	expr = MustParse("setmem(addr, rd)")
	_, effects, err = expr.Eval(env, ops)
	assert.NoError(err)
	assert.Equal([]Effect{
		SetMemory{Addr: 0x10, Value: 0x56},
		SetMemory{Addr: 0x11, Value: 0x78},
	}, effects)

	expr = MustParse("setmem(addr, ubyte(rd))")
	_, effects, err = expr.Eval(env, ops)
	assert.NoError(err)
	assert.Equal([]Effect{SetMemory{Addr: 0x10, Value: 0x78}}, effects)
}

func TestEvalReadsPreState(t *testing.T) {
	assert := assert.New(t)

	env := &fakeEnv{}
	env.reg[1] = 1
	env.reg[2] = 2

	// A swap only works if the second read does not see the first write.
	expr := MustParse("(setreg(rd, rs), setreg(rs, rd))")
	_, effects, err := expr.Eval(env, Operands{Rd: 1, Rs: 2})
	assert.NoError(err)
	assert.Equal([]Effect{
		SetRegister{Reg: 1, Value: 2},
		SetRegister{Reg: 2, Value: 1},
	}, effects)
	assert.Equal(uint16(1), env.reg[1])
}

func TestEvalConditionalEffect(t *testing.T) {
	assert := assert.New(t)

	env := &fakeEnv{}
	expr := MustParse("setreg(rd, 7) if rs == 0 else None")

	_, effects, err := expr.Eval(env, Operands{Rd: 3, Rs: 4})
	assert.NoError(err)
	assert.Equal([]Effect{SetRegister{Reg: 3, Value: 7}}, effects)

	env.reg[4] = 1
	_, effects, err = expr.Eval(env, Operands{Rd: 3, Rs: 4})
	assert.NoError(err)
	assert.Empty(effects)
}

func TestEvalErrors(t *testing.T) {
	assert := assert.New(t)

	env := &fakeEnv{}

	table := [](struct {
		text string
		msg  string
	}){
		{"setreg(rd, rd // rs)", "division by zero"},
		{"setreg(rd, rd % rs)", "by zero"},
		{"setreg(rd, rd << -1)", "negative shift count"},
		{"setreg(rd, None + 1)", "None"},
	}

	for _, entry := range table {
		_, effects, err := MustParse(entry.text).Eval(env, Operands{})
		var ea *ErrAction
		if assert.True(errors.As(err, &ea), entry.text) {
			assert.Contains(err.Error(), entry.msg, entry.text)
		}
		assert.Empty(effects, entry.text)
	}
}

func TestEvalWidth(t *testing.T) {
	assert := assert.New(t)

	env := &fakeEnv{}
	env.reg[1] = 0x1234
	env.reg[2] = 0x0040

	ops := Operands{Rd: 1, Rs: 2, Imm: 0x7f}

	table := [](struct {
		text    string
		width   int
		effects []Effect
	}){
		{"imm", 8, nil},
		{"imm + 1", 8, nil},
		{"rd + imm", 16, nil},
		{"rd == imm", 0, nil},
		{"not imm", 0, nil},
		{"7", 0, nil},
		{"ubyte(rd) if imm else rd", 16, nil},
		{"getmem(addr, 1)", 8, nil},
		{"getmem(addr)", 16, nil},
		// An 8-bit sum is sign-extended from bit 7.
		{"setreg(rd, sword(imm + 1))", 0, []Effect{SetRegister{Reg: 1, Value: 0xff80}}},
		{"setreg(rd, sword(rd + imm))", 0, []Effect{SetRegister{Reg: 1, Value: 0x12b3}}},
		{"setmem(addr, imm + 1)", 0, []Effect{SetMemory{Addr: 0x40, Value: 0x80}}},
		{"setmem(addr, rd + 1)", 0, []Effect{
			SetMemory{Addr: 0x40, Value: 0x12},
			SetMemory{Addr: 0x41, Value: 0x35},
		}},
	}

	for _, entry := range table {
		expr, err := Parse(entry.text)
		if !assert.NoError(err, entry.text) {
			continue
		}
		assert.Equal(entry.width, expr.Width(), entry.text)
		assert.Equal(entry.text, expr.String())

		// Evaluating twice must give the same result.
		for range 2 {
			val, effects, err := expr.Eval(env, ops)
			assert.NoError(err, entry.text)
			assert.Equal(entry.width, val.Width, entry.text)
			assert.Equal(entry.effects, effects, entry.text)
		}
	}
}

func TestEvalTupleValue(t *testing.T) {
	assert := assert.New(t)

	env := &fakeEnv{}
	env.reg[1] = 5

	val, effects, err := MustParse("(setreg(rd, 1), rd + 1)").Eval(env, Operands{Rd: 1})
	assert.NoError(err)
	assert.Equal(int64(6), val.N)
	assert.Equal([]Effect{SetRegister{Reg: 1, Value: 1}}, effects)
}

func TestUses(t *testing.T) {
	assert := assert.New(t)

	expr := MustParse("setmem(addr, ubyte(rd))")
	assert.True(expr.Uses(OPERAND_ADDR))
	assert.True(expr.Uses(OPERAND_RD))
	assert.False(expr.Uses(OPERAND_IMM))
	assert.Equal("setmem(addr, ubyte(rd))", expr.String())
	assert.Equal("addr", OPERAND_ADDR.String())
	assert.Equal("sword", CONV_SWORD.String())
}
