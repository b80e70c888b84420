// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/isagen/asm"
	"github.com/ezrec/isagen/cpu"
	"github.com/ezrec/isagen/defs"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(defs.MustDefault())

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.False(emu.Done())

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal(map[string]string{
		"ORIGIN":      "0x0000",
		"REGISTERS":   "8",
		"MEMORY_SIZE": "0x10000",
	}, defines)
}

func doRunSingle(emu *Emulator, program []string, t *testing.T) {
	assert := assert.New(t)

	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	require.NoError(t, err)

	for _, line := range emu.Program.Lines {
		here := program[line.LineNo-1]
		assert.Equal(line.LineNo, emu.LineNo(), here)
		assert.Equal(line.Inst, emu.Inst(), here)
		done, err := emu.Tick()
		if !assert.NoError(err, here) {
			t.Log(emu.Cpu.String())
			t.FailNow()
		}
		assert.Equal(line.Addr == emu.Program.Lines[len(emu.Program.Lines)-1].Addr, done, here)
	}
}

func TestEmulatorRegisters(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(defs.MustDefault())
	program := []string{
		"lli r0, 0x10",
		"lli r1, 0x20",
		"lui r1, 0x01",
		"mov r2, r1",
		"add r2, r0",
		"sub r3, r0",
		"lli r4, $(MEMORY_SIZE >> 12)",
		"lli r5, $(REGISTERS)",
	}

	doRunSingle(emu, program, t)

	assert.Equal(uint16(0x0010), emu.Cpu.Reg[0])
	assert.Equal(uint16(0x0120), emu.Cpu.Reg[1])
	assert.Equal(uint16(0x0130), emu.Cpu.Reg[2])
	assert.Equal(uint16(0xfff0), emu.Cpu.Reg[3])
	assert.Equal(uint16(0x0010), emu.Cpu.Reg[4])
	assert.Equal(uint16(0x0008), emu.Cpu.Reg[5])
	assert.Equal(8, emu.Ticks())
	assert.Equal(16, emu.Pc())
}

func TestEmulatorMemory(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(defs.MustDefault())
	program := []string{
		"        j start",
		"        nop",
		"data:   .word 0",
		"start:  lli r1, 0x34",
		"        lui r1, 0x12",
		"        lli r2, $(data)",
		"        sw r1, (r2)",
		"        lbu r3, (r2)",
		"        addi r2, 1",
		"        lbu r4, (r2)",
	}

	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	require.NoError(t, err)

	ticks, err := emu.Run(0)
	assert.NoError(err)
	assert.Equal(9, ticks)
	assert.True(emu.Done())

	assert.Equal(uint16(0x1234), emu.Cpu.Word(4))
	assert.Equal(uint16(0x12), emu.Cpu.Reg[3])
	assert.Equal(uint16(0x34), emu.Cpu.Reg[4])

	emu.Reset()
	assert.Equal(uint16(0), emu.Cpu.Word(4))
	assert.Equal(0, emu.Ticks())

	ticks, err = emu.Run(3)
	assert.NoError(err)
	assert.Equal(3, ticks)
	assert.Equal(5, emu.LineNo())
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(defs.MustDefault())
	program := []string{
		"lli r2, 1",
		"lw r1, (r2)",
	}

	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	require.NoError(t, err)

	_, err = emu.Run(0)
	assert.ErrorIs(err, cpu.ErrAddressMisaligned)

	var er *ErrRuntime
	if assert.True(errors.As(err, &er)) {
		assert.Equal(2, er.LineNo)
		assert.Equal(uint16(2), er.Pc)
	}
}

func TestEmulatorMemfile(t *testing.T) {
	assert := assert.New(t)

	set := defs.MustDefault()
	as := &asm.Assembler{Set: set}
	prog, err := as.Parse(strings.NewReader("lli r1, 7\naddi r1, -2\nj -2\nnop\n"))
	require.NoError(t, err)

	var listing strings.Builder
	require.NoError(t, asm.WriteListing(&listing, prog))

	emu := NewEmulator(set)
	require.NoError(t, emu.LoadMemfile(strings.NewReader(listing.String())))

	ticks, err := emu.Run(10)
	assert.NoError(err)
	assert.Equal(10, ticks)
	assert.False(emu.Done())
	assert.Equal(0, emu.LineNo())
	assert.Equal(uint16(5), emu.Cpu.Reg[1])
	assert.True(emu.Pc() == 4 || emu.Pc() == 6)
}
