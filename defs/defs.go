// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package defs holds the default instruction set definitions.
package defs

import (
	"embed"
	"io/fs"

	"github.com/ezrec/isagen/isa"
)

//go:embed base.json
var files embed.FS

// Names lists the embedded documents, in load order.
var Names = []string{"base.json"}

// Documents reads the embedded documents.
func Documents() (docs []isa.Document, err error) {
	for _, name := range Names {
		var inf fs.File
		inf, err = files.Open(name)
		if err != nil {
			return
		}
		var doc isa.Document
		doc, err = isa.ReadDocument(name, inf)
		inf.Close()
		if err != nil {
			return
		}
		docs = append(docs, doc)
	}
	return
}

// Default loads the default instruction set.
func Default() (set *isa.Set, err error) {
	docs, err := Documents()
	if err != nil {
		return
	}
	return isa.Load(docs...)
}

// MustDefault is Default, panicking on error.
func MustDefault() *isa.Set {
	set, err := Default()
	if err != nil {
		panic(err)
	}
	return set
}
