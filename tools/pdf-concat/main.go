// seehuhn.de/go/pdfcompose - structural editing of PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Pdf-concat concatenates PDF files.
//
// The pages of the output are the pages of all input files, in the order
// given on the command line.  Outlines, forms and other document-level
// structure of the inputs are not carried over.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"seehuhn.de/go/pdfcompose"
	"seehuhn.de/go/pdfcompose/tools/internal/buildinfo"
	"seehuhn.de/go/pdfcompose/tools/internal/outfile"
	"seehuhn.de/go/pdfcompose/tools/internal/profile"
)

// config holds all command-line flag values.
type config struct {
	output  string
	force   bool
	verbose bool
}

func main() {
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")

	var cfg config
	flag.StringVar(&cfg.output, "o", "out.pdf", "output file name, or - for stdout")
	flag.BoolVar(&cfg.force, "f", false, "overwrite output file if it exists")
	flag.BoolVar(&cfg.verbose, "v", false, "show progress messages")
	help := flag.Bool("help", false, "show help information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pdf-concat - concatenate PDF files\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short("pdf-concat"))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  pdf-concat [options] <file.pdf>...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *help {
		flag.Usage()
		return
	}
	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "error: no input files given")
		flag.Usage()
		os.Exit(1)
	}

	err := run(cfg, flag.Args(), *cpuprofile, *memprofile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config, in []string, cpuprofile, memprofile string) error {
	stop, err := profile.Start(cpuprofile, memprofile)
	if err != nil {
		return err
	}
	defer stop()

	inputs := make([][]byte, len(in))
	for i, fname := range in {
		inputs[i], err = outfile.ReadInput(fname)
		if err != nil {
			return err
		}
		if cfg.verbose {
			log.Printf("read %s (%d bytes)", fname, len(inputs[i]))
		}
	}

	out, err := pdfcompose.MergeAll(inputs)
	if err != nil {
		return inputError(err, in)
	}
	if cfg.verbose {
		log.Printf("merged %d files, %d bytes", len(in), len(out))
	}

	return outfile.Write(cfg.output, cfg.force, out)
}

// inputError replaces the input index in err by the file name.
func inputError(err error, names []string) error {
	switch err := err.(type) {
	case *pdfcompose.CodecError:
		if err.Input >= 0 && err.Input < len(names) {
			return fmt.Errorf("%s: %s: %w", names[err.Input], err.Op, err.Err)
		}
	case *pdfcompose.StructuralError:
		if err.Input >= 0 && err.Input < len(names) {
			return fmt.Errorf("%s: %w", names[err.Input], err.Err)
		}
	}
	return err
}
