// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/isagen/defs"
)

// FuzzTick checks that a failed Tick changes nothing, and that Reverse
// undoes a successful one.
func FuzzTick(f *testing.F) {
	for _, word := range []uint16{0x0000, 0x0144, 0x0211, 0x0231, 0x2105, 0x27ff, 0x8004, 0xc0fe, 0xffff} {
		f.Add(word, uint16(0x0040), uint16(0x0041))
	}

	set := defs.MustDefault()

	f.Fuzz(func(t *testing.T, word uint16, r1 uint16, r2 uint16) {
		assert := assert.New(t)

		cpu := NewCpu(set)
		cpu.History = true
		cpu.SetWord(0, word)
		cpu.SetWord(0x40, 0x1234)
		for n := range cpu.Reg {
			cpu.Reg[n] = uint16(n) * 0x1111
		}
		cpu.Reg[1] = r1
		cpu.Reg[2] = r2

		reg := cpu.Reg
		mem := cpu.Mem

		err := cpu.Tick()
		if err != nil {
			assert.Equal(reg, cpu.Reg)
			assert.True(mem == cpu.Mem)
			assert.Equal(uint16(0), cpu.Pc)
			assert.Equal(0, cpu.Ticks)
			return
		}

		assert.Equal(1, cpu.Ticks)
		require.NoError(t, cpu.Reverse())
		assert.Equal(reg, cpu.Reg)
		assert.True(mem == cpu.Mem)
		assert.Equal(uint16(0), cpu.Pc)
		assert.Equal(0, cpu.Ticks)
		_, slot := cpu.InDelaySlot()
		assert.False(slot)
	})
}
