// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"

	"github.com/ezrec/isagen/asm"
	"github.com/ezrec/isagen/defs"
	"github.com/ezrec/isagen/doc"
	"github.com/ezrec/isagen/emulator"
	"github.com/ezrec/isagen/gen"
	"github.com/ezrec/isagen/isa"
)

// loadSet merges the definition documents, or the defaults when none are
// named.
func loadSet(paths []string) (set *isa.Set, err error) {
	if len(paths) == 0 {
		return defs.Default()
	}
	return isa.LoadFiles(paths...)
}

// assemble loads an assembly file into the emulator.
func assemble(emu *emulator.Emulator, path string) (err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	if filepath.Ext(path) == ".mem" {
		return emu.LoadMemfile(inf)
	}
	return emu.Assemble(inf)
}

// save writes the output only once it is complete.
func save(path string, data []byte) (err error) {
	if path == "-" {
		_, err = os.Stdout.Write(data)
		return
	}
	return os.WriteFile(path, data, 0o644)
}

func main() {
	var generate string
	var output string
	var pkg string
	var source string
	var run string
	var steps int
	var dump bool
	var verbose bool

	flag.StringVar(&generate, "g", "", "Generate output: html, latex, markdown or go")
	flag.StringVar(&output, "o", "-", "Output file")
	flag.StringVar(&pkg, "pkg", "inst", "Package name of generated Go source")
	flag.StringVar(&source, "a", "", ".s file to assemble to a memfile listing")
	flag.StringVar(&run, "r", "", ".s or .mem file to run")
	flag.IntVar(&steps, "n", 1000, "Maximum steps to run")
	flag.BoolVar(&dump, "dump", false, "Dump the merged definitions")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if len(generate) != 0 && len(source) != 0 {
		log.Fatalf("%v: -g and -a are exclusive", os.Args[0])
	}

	set, err := loadSet(flag.Args())
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	if verbose {
		log.Printf("%d definitions: %v", set.Len(), set.Names())
	}

	if dump {
		config := spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		}
		config.Fdump(os.Stdout, set.Sorted())
	}

	var buf bytes.Buffer

	switch generate {
	case "":
	case "go":
		err = gen.Go(&buf, set, gen.Options{Package: pkg})
	default:
		err = doc.Render(&buf, set, generate)
	}
	if err != nil {
		log.Fatalf("%v: %v", generate, err)
	}

	if len(source) != 0 {
		emu := emulator.NewEmulator(set)
		emu.Verbose = verbose
		err = assemble(emu, source)
		if err != nil {
			log.Fatalf("%v: %v", source, err)
		}
		err = asm.WriteListing(&buf, emu.Program)
		if err != nil {
			log.Fatalf("%v: %v", source, err)
		}
	}

	if len(run) != 0 {
		emu := emulator.NewEmulator(set)
		emu.Verbose = verbose
		err = assemble(emu, run)
		if err != nil {
			log.Fatalf("%v: %v", run, err)
		}

		_, err = emu.Run(steps)
		if err != nil {
			log.Fatalf("%v: %v", run, err)
		}

		fmt.Print(emu.Cpu)
	}

	if buf.Len() != 0 {
		err = save(output, buf.Bytes())
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
	}
}
