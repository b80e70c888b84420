// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package doc

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ezrec/isagen/isa"
)

var markdownCell = strings.NewReplacer("|", `\|`, "\n", " ")

// code renders inline code, choosing a fence longer than any run of
// back-quotes in the text.
func code(text string) string {
	fence := "`"
	for strings.Contains(text, fence) {
		fence += "`"
	}
	if strings.HasPrefix(text, "`") || strings.HasSuffix(text, "`") {
		text = " " + text + " "
	}
	return fence + text + fence
}

// Markdown writes the documentation as a Markdown table.
func Markdown(out io.Writer, set *isa.Set) (err error) {
	w := bufio.NewWriter(out)

	fmt.Fprintln(w, "# Instruction Set Manual")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Name | Instruction | Encoding | Meaning | Description |")
	fmt.Fprintln(w, "|------|-------------|----------|---------|-------------|")

	for _, def := range set.Sorted() {
		meaning := ""
		if len(def.Meaning) != 0 {
			meaning = code(def.Meaning)
		}
		fmt.Fprintf(w, "| %v | %v | %v | %v | %v |\n",
			code(def.Name),
			code(Syntax(def)),
			code(Layout(def)),
			markdownCell.Replace(meaning),
			markdownCell.Replace(def.Doc))
	}

	return w.Flush()
}
