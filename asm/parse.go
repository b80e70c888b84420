// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"strconv"
	"strings"

	"github.com/ezrec/isagen/isa"
)

// scanner walks a single line of assembly text.
type scanner struct {
	text string
	pos  int
}

func (sc *scanner) peek() byte {
	if sc.pos >= len(sc.text) {
		return 0
	}
	return sc.text[sc.pos]
}

func (sc *scanner) atEnd() bool {
	rest := sc.text[sc.pos:]
	return rest == "" || rest == "\n" || rest == "\r\n"
}

// space skips blanks, and reports whether any were skipped.
func (sc *scanner) space() bool {
	start := sc.pos
	for sc.peek() == ' ' || sc.peek() == '\t' {
		sc.pos++
	}
	return sc.pos > start
}

// found describes the text at the current position.
func (sc *scanner) found() string {
	if sc.atEnd() {
		return f("end of line")
	}
	end := sc.pos
	for end < len(sc.text) {
		c := sc.text[end]
		if c == ' ' || c == '\t' || c == ',' || c == '\r' || c == '\n' || c == '(' || c == ')' {
			break
		}
		end++
	}
	if end == sc.pos {
		end++
	}
	return strconv.Quote(sc.text[sc.pos:end])
}

func (sc *scanner) fail(expected string) error {
	return &ErrSyntax{Col: sc.pos + 1, Expected: expected, Found: sc.found()}
}

func (sc *scanner) expect(c byte) (err error) {
	if sc.peek() != c {
		err = sc.fail(strconv.QuoteRune(rune(c)))
		return
	}
	sc.pos++
	return
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '.'
}

func isIdent(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// word reads a run of identifier characters.
func (sc *scanner) word() string {
	start := sc.pos
	for isIdent(sc.peek()) {
		sc.pos++
	}
	return sc.text[start:sc.pos]
}

// register reads r0 through r7.
func (sc *scanner) register() (reg uint8, err error) {
	start := sc.pos
	text := sc.word()
	if len(text) != 2 || text[0] != 'r' || text[1] < '0' || text[1] > '7' {
		sc.pos = start
		err = sc.fail(f("register"))
		return
	}
	reg = text[1] - '0'
	return
}

// number reads an integer literal, with an optional leading '-'.
func (sc *scanner) number() (value int64, err error) {
	start := sc.pos
	if sc.peek() == '-' {
		sc.pos++
	}
	if !isDigit(sc.peek()) {
		sc.pos = start
		err = sc.fail(f("integer"))
		return
	}
	for isIdent(sc.peek()) {
		sc.pos++
	}
	value, err = strconv.ParseInt(sc.text[start:sc.pos], 0, 64)
	if err != nil {
		sc.pos = start
		err = sc.fail(f("integer"))
		return
	}
	return
}

// immediate reads an 8-bit literal.
func (sc *scanner) immediate(signed bool) (imm uint8, err error) {
	start := sc.pos
	value, err := sc.number()
	if err != nil {
		return
	}

	if signed && (value < -128 || value > 127) || !signed && (value < 0 || value > 255) {
		sc.pos = start
		err = &ErrImmediateRange{Value: value, Signed: signed}
		return
	}

	imm = uint8(value)
	return
}

// label reads a symbolic branch target.
func (sc *scanner) label() (name string, err error) {
	if !isIdentStart(sc.peek()) {
		err = sc.fail(f("label"))
		return
	}
	name = sc.word()
	return
}

// eol requires the end of the line.
func (sc *scanner) eol() (err error) {
	sc.space()
	if !sc.atEnd() {
		err = sc.fail(f("end of line"))
	}
	return
}

// ParseLine reads one instruction line. A symbolic branch target is
// returned as label, and recorded in op.Label with a zero displacement.
func ParseLine(set *isa.Set, text string) (op isa.Op, label string, err error) {
	sc := &scanner{text: text}

	mnemonic := sc.word()
	def, ok := set.Lookup(mnemonic)
	if !ok {
		sc.pos = 0
		err = sc.fail(f("instruction"))
		return
	}

	op.Def = def
	args := def.Args

	if len(args) > 0 && !sc.space() {
		err = sc.fail(f("whitespace"))
		return
	}

	for n, arg := range args {
		if n > 0 {
			sc.space()
			err = sc.expect(',')
			if err != nil {
				return
			}
			sc.space()
		}

		switch arg {
		case isa.ARG_RD:
			op.Rd, err = sc.register()
		case isa.ARG_RS:
			op.Rs, err = sc.register()
		case isa.ARG_IMM:
			op.Imm, err = sc.immediate(def.SignedImm)
		case isa.ARG_ADDR:
			err = sc.expect('(')
			if err != nil {
				return
			}
			sc.space()
			op.Rs, err = sc.register()
			if err != nil {
				return
			}
			sc.space()
			err = sc.expect(')')
		case isa.ARG_BADDR:
			if sc.peek() == '-' || isDigit(sc.peek()) {
				op.Imm, err = sc.immediate(true)
			} else {
				label, err = sc.label()
				op.Label = label
			}
		}
		if err != nil {
			return
		}
	}

	err = sc.eol()
	return
}

// splitComment removes a trailing ';' comment.
func splitComment(line string) string {
	text, _, _ := strings.Cut(line, ";")
	return text
}
