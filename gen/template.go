// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package gen

import (
	"text/template"
)

var goTemplate = template.Must(template.New("go").Parse(`// Code generated by isagen. DO NOT EDIT.

package {{.Package}}

// Type is the encoding layout of an instruction.
type Type int

const (
{{- range $n, $ty := .Types}}
	{{$ty.Ident}} = Type({{$n}}) // {{$ty.Name}}
{{- end}}
)

var typeNames = [...]string{
{{- range .Types}}
	{{.Ident}}: "{{.Name}}",
{{- end}}
}

func (ty Type) String() string {
	if ty < 0 || int(ty) >= len(typeNames) {
		return "?"
	}
	return typeNames[ty]
}

// Inst enumerates the instructions, in table order.
type Inst int

const (
{{- range $n, $inst := .Insts}}
	{{$inst.Annotation}}{{$inst.Ident}} = Inst({{$n}}) // {{$inst.Name}}
{{- end}}
)

// INST_COUNT is the number of instructions.
const INST_COUNT = {{len .Insts}}

// Names are the mnemonics of the instructions.
var Names = [INST_COUNT]string{
{{- range .Insts}}
	{{.Ident}}: "{{.Name}}",
{{- end}}
}

var types = [INST_COUNT]Type{
{{- range .Insts}}
	{{.Ident}}: {{.Type}},
{{- end}}
}

var branches = [INST_COUNT]bool{
{{- range .Insts}}
	{{.Ident}}: {{.Branch}},
{{- end}}
}

// Opcodes are the instruction words with every operand field zero.
var Opcodes = [INST_COUNT]uint16{
{{- range .Insts}}
	{{.Ident}}: {{.Opcode}},
{{- end}}
}

var byName = map[string]Inst{
{{- range .Insts}}
	"{{.Name}}": {{.Ident}},
{{- end}}
}

func (inst Inst) String() string {
	if inst < 0 || inst >= INST_COUNT {
		return "?"
	}
	return Names[inst]
}

// Lookup finds an instruction by mnemonic.
func Lookup(name string) (inst Inst, ok bool) {
	inst, ok = byName[name]
	return
}

// TypeOf returns the layout of an instruction.
func TypeOf(inst Inst) Type {
	return types[inst]
}

// IsBranch reports whether the instruction is a branch.
func IsBranch(inst Inst) bool {
	return branches[inst]
}
`))
