// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package doc renders reference documentation for an instruction set.
//
// Every renderer lists the instructions sorted by name, with the
// assembly syntax, the encoding layout, the meaning and the description.
// Back-quoted spans of a description are rendered as inline code.
package doc

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ezrec/isagen/isa"
	"github.com/ezrec/isagen/translate"
)

var f = translate.From

var ErrFormatUnknown = errors.New(f("documentation format unknown"))

// Documentation formats.
const (
	FORMAT_HTML     = "html"
	FORMAT_LATEX    = "latex"
	FORMAT_MARKDOWN = "markdown"
)

// Formats lists the documentation formats.
var Formats = []string{FORMAT_HTML, FORMAT_LATEX, FORMAT_MARKDOWN}

// Render writes the documentation in the named format.
func Render(out io.Writer, set *isa.Set, format string) (err error) {
	switch format {
	case FORMAT_HTML:
		err = HTML(out, set)
	case FORMAT_LATEX:
		err = LaTeX(out, set)
	case FORMAT_MARKDOWN, "md":
		err = Markdown(out, set)
	default:
		err = fmt.Errorf("%w: %q", ErrFormatUnknown, format)
	}
	return
}

var reCode = regexp.MustCompile("`([^`]*)`")

// span is a run of description text.
type span struct {
	Code bool
	Text string
}

// spans splits a description into text and inline code.
func spans(text string) (out []span) {
	last := 0
	for _, loc := range reCode.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > last {
			out = append(out, span{Text: text[last:loc[0]]})
		}
		out = append(out, span{Code: true, Text: text[loc[2]:loc[3]]})
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, span{Text: text[last:]})
	}
	return
}

// argText is the documentation name of an operand.
var argText = map[isa.Arg]string{
	isa.ARG_RD:    "rd",
	isa.ARG_RS:    "rs",
	isa.ARG_IMM:   "imm",
	isa.ARG_ADDR:  "(rs)",
	isa.ARG_BADDR: "imm",
}

// Syntax returns the assembly syntax of a definition.
func Syntax(def *isa.Definition) string {
	var sb strings.Builder
	sb.WriteString(def.Name)
	for n, arg := range def.Args {
		if n == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(argText[arg])
	}
	return sb.String()
}

// Layout returns the encoding of a definition, with d for rd, s for rs
// and x for immediate bits.
func Layout(def *isa.Definition) (text string) {
	opcode := def.Opcode.String()
	switch def.Type {
	case isa.TYPE_REG_ARITH:
		text = "00000ddd sss0" + opcode
	case isa.TYPE_MEM:
		text = "00000ddd sss1" + opcode
	case isa.TYPE_IMM:
		text = "0" + opcode + "ddd xxxxxxxx"
	case isa.TYPE_BRANCH:
		text = "1" + opcode + "ddd xxxxxxxx"
	}
	return
}
