// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/isagen/isa"
)

// ADDRESS_LIMIT is the size of the address space.
const ADDRESS_LIMIT = 0x10000

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
	"PC":     "0",
}

var (
	reLabel = regexp.MustCompile(`^([A-Za-z_.][A-Za-z0-9_.]*):\s*`)
	reParen = regexp.MustCompile(`\$\([^\$]*\)`)
)

// anonPrefix starts the anonymous labels of literal displacements. No
// source label can start with it.
const anonPrefix = "$L"

// Assembler is a two pass assembler for an instruction set.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Set     *isa.Set // Instruction set to assemble for.

	predefine map[string]string
	Label     map[string]uint16 // Map of labels to addresses.
	Equate    map[string]string // Map of equates.

	lines []Line
	links map[int]string // Line index to the label it branches to.
	addr  int
	anon  int
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// parenEval does compile-time $(...) evaluations.
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for label, addr := range asm.Label {
		if _, ok := pred[label]; !ok {
			pred[label] = starlark.MakeInt(int(addr))
		}
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// expand replaces $(...) expressions with their decimal value.
func (asm *Assembler) expand(line string) (text string, err error) {
	text = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil && err == nil {
			err = _err
		}
		return strconv.FormatInt(value, 10)
	})
	return
}

// parseWord reads the argument of a .word directive.
func parseWord(text string) (word isa.Word, err error) {
	sc := &scanner{text: text}
	value, err := sc.number()
	if err != nil {
		return
	}
	if value < -0x8000 || value > 0xffff {
		err = &ErrSyntax{Col: 1, Expected: f("16 bit integer"), Found: strconv.Quote(text)}
		return
	}
	err = sc.eol()
	word = isa.Word(uint16(value))
	return
}

// emit appends an instruction at the current address.
func (asm *Assembler) emit(lineno int, text string, inst isa.Inst, label string) (err error) {
	if asm.addr+2 > ADDRESS_LIMIT {
		err = ErrAddressRange
		return
	}

	if len(label) != 0 {
		asm.links[len(asm.lines)] = label
	}

	asm.lines = append(asm.lines, Line{LineNo: lineno, Text: text, Addr: uint16(asm.addr), Inst: inst})
	asm.addr += 2

	return
}

// define records a label at addr.
func (asm *Assembler) define(label string, addr uint16) (err error) {
	if _, ok := asm.Label[label]; ok {
		err = fmt.Errorf("%w: %v", ErrLabelDuplicate, label)
		return
	}
	asm.Label[label] = addr
	return
}

// parseLine assembles one line of input.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	asm.Equate["LINENO"] = strconv.Itoa(lineno)
	asm.Equate["PC"] = strconv.Itoa(asm.addr)

	line, err = asm.expand(strings.TrimSpace(splitComment(line)))
	if err != nil {
		return
	}

	// .equ CONST VALUE
	words := strings.Fields(line)
	if len(words) > 0 && words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		return
	}

	for {
		match := reLabel.FindStringSubmatch(line)
		if match == nil {
			break
		}
		err = asm.define(match[1], uint16(asm.addr))
		if err != nil {
			return
		}
		line = line[len(match[0]):]
	}

	if len(line) == 0 {
		return
	}

	if rest, ok := strings.CutPrefix(line, ".word"); ok && (len(rest) == 0 || rest[0] == ' ' || rest[0] == '\t') {
		var word isa.Word
		word, err = parseWord(strings.TrimSpace(rest))
		if err != nil {
			return
		}
		err = asm.emit(lineno, line, word, "")
		return
	}

	op, label, err := ParseLine(asm.Set, line)
	if err != nil {
		return
	}

	if len(label) == 0 && (op.Def.Shape() == isa.SHAPE_RD_BADDR || op.Def.Shape() == isa.SHAPE_BADDR) {
		// Literal displacements are linked through an anonymous label.
		label = fmt.Sprintf("%s%d", anonPrefix, asm.anon)
		asm.anon++
		err = asm.define(label, uint16(asm.addr+2+op.SignedImm()))
		if err != nil {
			return
		}
	}

	if asm.Verbose {
		log.Printf("%04x: %v\n", asm.addr, Format(op))
	}

	err = asm.emit(lineno, line, op, label)
	return
}

// link resolves branch labels into displacements.
func (asm *Assembler) link() (err error) {
	for n := range asm.lines {
		label, ok := asm.links[n]
		if !ok {
			continue
		}
		ln := &asm.lines[n]
		err = asm.linkLine(ln, label)
		if err != nil {
			err = &ErrLine{LineNo: ln.LineNo, Line: ln.Text, Err: err}
			return
		}
	}

	return
}

func (asm *Assembler) linkLine(ln *Line, label string) (err error) {
	target, ok := asm.Label[label]
	if !ok {
		err = ErrLabelMissing(label)
		return
	}

	disp := int(int16(target - (ln.Addr + 2)))
	if disp < -128 || disp > 127 {
		err = fmt.Errorf("%w: %v is %d bytes away", ErrLabelRange, label, disp)
		return
	}

	op := ln.Inst.(isa.Op)
	op.Imm = uint8(int8(disp))
	if strings.HasPrefix(label, anonPrefix) {
		op.Label = ""
	}
	ln.Inst = op

	return
}

// Parse assembles an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	asm.Label = make(map[string]uint16)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.lines = nil
	asm.links = make(map[int]string)
	asm.addr = 0
	asm.anon = 0

	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, line)
		}

		err = asm.parseLine(line, lineno)
		if err != nil {
			err = &ErrLine{LineNo: lineno, Line: line, Err: err}
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of branch labels.
	err = asm.link()
	if err != nil {
		return
	}

	prog = &Program{
		Lines:  asm.lines,
		Labels: maps.Clone(asm.Label),
	}

	return
}
