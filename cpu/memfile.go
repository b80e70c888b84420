// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// LoadMemfile reads memfile lines into memory:
//
//	@0004 10001001 11111100 // bnez r1, loop
//
// Each line holds a hexadecimal address and two bytes, in binary, stored
// at the address and the one after it. Lines not starting with '@' are
// ignored, as is any text after the second byte.
func (cpu *Cpu) LoadMemfile(input io.Reader) (err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		rest, ok := strings.CutPrefix(line, "@")
		if !ok {
			continue
		}

		fields := strings.Fields(rest)
		if len(fields) < 3 {
			err = fmt.Errorf("%w: line %d: %q", ErrMemfile, lineno, line)
			return
		}

		var addr, hi, lo uint64
		addr, err = strconv.ParseUint(fields[0], 16, 16)
		if err == nil {
			hi, err = parseByte(fields[1])
		}
		if err == nil {
			lo, err = parseByte(fields[2])
		}
		if err != nil {
			err = fmt.Errorf("%w: line %d: %q", ErrMemfile, lineno, line)
			return
		}

		cpu.Mem[uint16(addr)] = uint8(hi)
		cpu.Mem[uint16(addr)+1] = uint8(lo)
	}

	err = scanner.Err()
	return
}

func parseByte(text string) (value uint64, err error) {
	if len(text) != 8 {
		err = strconv.ErrSyntax
		return
	}
	return strconv.ParseUint(text, 2, 8)
}
