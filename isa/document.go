// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Document formats, by file extension.
const (
	FORMAT_JSON = "json"
	FORMAT_YAML = "yaml"
	FORMAT_TOML = "toml"
)

// Directive ops, as written in documents.
const (
	OP_ADD    = "add"
	OP_PATCH  = "patch"
	OP_REMOVE = "remove"
)

// entry is the document form of a directive.
type entry struct {
	Op        string  `json:"op,omitempty" yaml:"op,omitempty" toml:"op,omitempty"`
	Name      string  `json:"name" yaml:"name" toml:"name"`
	Type      *Type   `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Opcode    *Opcode `json:"opcode,omitempty" yaml:"opcode,omitempty" toml:"opcode,omitempty"`
	Args      *[]Arg  `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
	SignedImm *bool   `json:"signed_imm,omitempty" yaml:"signed_imm,omitempty" toml:"signed_imm,omitempty"`
	WordAlign *bool   `json:"word_align,omitempty" yaml:"word_align,omitempty" toml:"word_align,omitempty"`
	Action    *string `json:"action,omitempty" yaml:"action,omitempty" toml:"action,omitempty"`
	Meaning   *string `json:"meaning,omitempty" yaml:"meaning,omitempty" toml:"meaning,omitempty"`
	Doc       *string `json:"doc,omitempty" yaml:"doc,omitempty" toml:"doc,omitempty"`
}

// tomlDocument is the top level table of a TOML document.
type tomlDocument struct {
	Directive []entry `toml:"directive"`
}

func (ent *entry) fields() Fields {
	return Fields{
		Type:      ent.Type,
		Opcode:    ent.Opcode,
		Args:      ent.Args,
		SignedImm: ent.SignedImm,
		WordAlign: ent.WordAlign,
		Action:    ent.Action,
		Meaning:   ent.Meaning,
		Doc:       ent.Doc,
	}
}

// directive converts the entry.
func (ent *entry) directive() (dir Directive, err error) {
	if len(ent.Name) == 0 {
		err = fmt.Errorf("%w: name", ErrFieldMissing)
		return
	}

	switch ent.Op {
	case "", OP_ADD:
		if ent.Type == nil {
			err = fmt.Errorf("%w: type", ErrFieldMissing)
			return
		}
		if ent.Opcode == nil {
			err = fmt.Errorf("%w: opcode", ErrFieldMissing)
			return
		}
		def := Definition{Name: ent.Name, Args: []Arg{}}
		ent.fields().apply(&def)
		dir = Add{Definition: def}
	case OP_PATCH:
		dir = Patch{Name: ent.Name, Fields: ent.fields()}
	case OP_REMOVE:
		if !ent.fields().Empty() {
			err = ErrFieldExtra
			return
		}
		dir = Remove{Name: ent.Name}
	default:
		err = fmt.Errorf("%w: %q", ErrDirectiveUnknown, ent.Op)
	}

	return
}

// FormatOf returns the document format implied by a file name.
func FormatOf(name string) (format string, err error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		format = FORMAT_JSON
	case ".yaml", ".yml":
		format = FORMAT_YAML
	case ".toml":
		format = FORMAT_TOML
	default:
		err = fmt.Errorf("%w: %v", ErrFormatUnknown, name)
	}
	return
}

// ReadDocument decodes a document, choosing the format by the name's
// extension.
func ReadDocument(name string, input io.Reader) (doc Document, err error) {
	format, err := FormatOf(name)
	if err != nil {
		return
	}

	return ReadDocumentFormat(name, format, input)
}

// ReadDocumentFormat decodes a document in the given format.
//
// JSON and YAML documents are a sequence of directives; TOML documents are
// an array of [[directive]] tables.
func ReadDocumentFormat(name string, format string, input io.Reader) (doc Document, err error) {
	doc.Name = name

	defer func() {
		if err != nil {
			var ed *ErrDirective
			if !errors.As(err, &ed) {
				err = &ErrDirective{Origin: Origin{Document: name, Index: -1}, Err: err}
			}
		}
	}()

	var entries []entry

	switch format {
	case FORMAT_JSON:
		dec := json.NewDecoder(input)
		dec.DisallowUnknownFields()
		err = dec.Decode(&entries)
	case FORMAT_YAML:
		dec := yaml.NewDecoder(input)
		dec.KnownFields(true)
		err = dec.Decode(&entries)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case FORMAT_TOML:
		var td tomlDocument
		var md toml.MetaData
		md, err = toml.NewDecoder(input).Decode(&td)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) != 0 {
				err = fmt.Errorf("%w: %v", ErrFieldUnknown, undecoded[0])
			}
		}
		entries = td.Directive
	default:
		err = fmt.Errorf("%w: %v", ErrFormatUnknown, format)
	}
	if err != nil {
		return
	}

	for n := range entries {
		var dir Directive
		dir, err = entries[n].directive()
		if err != nil {
			err = &ErrDirective{Origin: Origin{Document: name, Index: n}, Name: entries[n].Name, Err: err}
			return
		}
		doc.Directives = append(doc.Directives, dir)
	}

	return
}

// WriteDocument encodes a set as a JSON document of add directives, in
// table order. Reading it back yields an equivalent set.
func WriteDocument(out io.Writer, set *Set) (err error) {
	entries := make([]entry, 0, set.Len())
	for def := range set.All() {
		ent := entry{
			Name:    def.Name,
			Type:    &def.Type,
			Opcode:  &def.Opcode,
			Args:    &def.Args,
			Action:  &def.Action,
			Meaning: &def.Meaning,
			Doc:     &def.Doc,
		}
		if def.SignedImm {
			ent.SignedImm = &def.SignedImm
		}
		if def.WordAlign {
			ent.WordAlign = &def.WordAlign
		}
		entries = append(entries, ent)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	err = enc.Encode(entries)
	if err != nil {
		return
	}

	_, err = out.Write(buf.Bytes())
	return
}

// LoadFiles reads the named documents and loads them, in order.
func LoadFiles(paths ...string) (set *Set, err error) {
	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		var doc Document
		doc, err = readFile(path)
		if err != nil {
			return
		}
		docs = append(docs, doc)
	}

	return Load(docs...)
}

func readFile(path string) (doc Document, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	return ReadDocument(filepath.Base(path), inf)
}
