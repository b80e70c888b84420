// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package doc

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ezrec/isagen/isa"
)

var latexEscape = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// verb wraps text in \verb, with a delimiter the text does not use.
func verb(text string) string {
	for _, delim := range "|!+@=" {
		if !strings.ContainsRune(text, delim) {
			return fmt.Sprintf(`\verb%c%s%c`, delim, text, delim)
		}
	}
	return `\texttt{` + latexEscape.Replace(text) + `}`
}

func latexDoc(text string) string {
	var sb strings.Builder
	for _, sp := range spans(text) {
		if sp.Code {
			sb.WriteString(verb(sp.Text))
		} else {
			sb.WriteString(latexEscape.Replace(sp.Text))
		}
	}
	return sb.String()
}

// LaTeX writes the documentation as a longtable.
func LaTeX(out io.Writer, set *isa.Set) (err error) {
	w := bufio.NewWriter(out)

	fmt.Fprintln(w, `\begin{longtable}[h]{llllp{8cm}} \hline`)
	fmt.Fprintln(w, `  Name & Opcode & Mnemonic & Meaning & Description \\ \hline`)

	for _, def := range set.Sorted() {
		meaning := ""
		if len(def.Meaning) != 0 {
			meaning = verb(def.Meaning)
		}
		fmt.Fprintf(w, "  %v & %v & %v & %v & %v \\\\\n",
			verb(def.Name), verb(Layout(def)), verb(Syntax(def)), meaning, latexDoc(def.Doc))
	}

	fmt.Fprintln(w, `\hline`)
	fmt.Fprintln(w, `\end{longtable}`)

	return w.Flush()
}
