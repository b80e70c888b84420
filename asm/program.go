// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"fmt"
	"io"
	"iter"

	"github.com/ezrec/isagen/isa"
)

// Line is an assembled source line.
type Line struct {
	LineNo int      // Source line number.
	Text   string   // Source text, without label or comment.
	Addr   uint16   // Address of the instruction word.
	Inst   isa.Inst // Instruction, or raw data.
}

// Program is the output of the Assembler.
type Program struct {
	Lines  []Line            // Lines that emit a word, in address order.
	Labels map[string]uint16 // Label addresses.
}

// Debug finds the line that emitted the word at addr.
func (prog *Program) Debug(addr uint16) (line *Line, ok bool) {
	for n := range prog.Lines {
		ln := &prog.Lines[n]
		if addr == ln.Addr || addr == ln.Addr+1 {
			line = ln
			ok = true
			break
		}
	}

	return
}

// Words iterates over the program's words, by address.
func (prog *Program) Words() iter.Seq2[uint16, uint16] {
	return func(yield func(addr uint16, word uint16) bool) {
		for _, ln := range prog.Lines {
			if !yield(ln.Addr, ln.Inst.Encode()) {
				return
			}
		}
	}
}

// Binary returns the memory image of the program, from address zero,
// with words stored most significant byte first.
func (prog *Program) Binary() (image []byte) {
	for addr, word := range prog.Words() {
		end := int(addr) + 2
		if end > len(image) {
			image = append(image, make([]byte, end-len(image))...)
		}
		image[addr] = byte(word >> 8)
		image[addr+1] = byte(word)
	}

	return
}

// WriteListing writes the program as a memfile, one word per line,
// with the assembly text as a trailing comment.
func WriteListing(out io.Writer, prog *Program) (err error) {
	for _, ln := range prog.Lines {
		_, err = fmt.Fprintf(out, "@%04x %v // %v\n", ln.Addr, FormatBinary(ln.Inst), Format(ln.Inst))
		if err != nil {
			return
		}
	}
	return
}
