// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package doc

import (
	"html/template"
	"io"
	"strings"

	"github.com/ezrec/isagen/isa"
)

var htmlTemplate = template.Must(template.New("html").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Instruction Set Manual</title>
  <meta name="viewport" content="width=device-width" />
  <style>
    table {
      border-collapse: collapse;
    }

    td, th {
      border: 1px solid black;
      padding: 5px 3px;
    }

    code {
      padding-inline: 5px;
      background-color: #ddd;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <h1>Instruction Set Manual</h1>
  <table>
    <thead>
      <tr>
        <th>Name</th><th>Instruction</th><th>Encoding</th><th>Meaning</th><th>Description</th>
      </tr>
    </thead>
    <tbody>
{{- range .}}
      <tr>
        <td><code>{{.Name}}</code></td>
        <td><code>{{.Syntax}}</code></td>
        <td><code>{{.Layout}}</code></td>
        <td>{{.Meaning}}</td>
        <td>{{.Doc}}</td>
      </tr>
{{- end}}
    </tbody>
  </table>
</body>
</html>
`))

type htmlRow struct {
	Name    string
	Syntax  string
	Layout  string
	Meaning string
	Doc     template.HTML
}

// htmlDoc escapes a description, rendering inline code as <code>.
func htmlDoc(text string) template.HTML {
	var sb strings.Builder
	for _, sp := range spans(text) {
		if sp.Code {
			sb.WriteString("<code>")
			template.HTMLEscape(&sb, []byte(sp.Text))
			sb.WriteString("</code>")
		} else {
			template.HTMLEscape(&sb, []byte(sp.Text))
		}
	}
	return template.HTML(sb.String())
}

// HTML writes the documentation as a standalone HTML page.
func HTML(out io.Writer, set *isa.Set) (err error) {
	var rows []htmlRow
	for _, def := range set.Sorted() {
		rows = append(rows, htmlRow{
			Name:    def.Name,
			Syntax:  Syntax(def),
			Layout:  Layout(def),
			Meaning: def.Meaning,
			Doc:     htmlDoc(def.Doc),
		})
	}

	return htmlTemplate.Execute(out, rows)
}
