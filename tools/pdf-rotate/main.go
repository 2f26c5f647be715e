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

// Pdf-rotate rotates the pages of a PDF file by a multiple of 90 degrees.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"seehuhn.de/go/pdfcompose"
	"seehuhn.de/go/pdfcompose/tools/internal/buildinfo"
	"seehuhn.de/go/pdfcompose/tools/internal/outfile"
	"seehuhn.de/go/pdfcompose/tools/internal/pagesel"
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
		fmt.Fprintf(os.Stderr, "pdf-rotate - rotate the pages of a PDF file\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short("pdf-rotate"))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  pdf-rotate [options] <file.pdf> <degrees> [region...]\n\n")
		fmt.Fprintf(os.Stderr, "The rotation is added to the current rotation of each page.\n")
		fmt.Fprintf(os.Stderr, "Degrees must be a multiple of 90; negative values rotate\n")
		fmt.Fprintf(os.Stderr, "counterclockwise.  Without regions, all pages are rotated.\n")
		fmt.Fprintf(os.Stderr, "Regions are given as for pdf-extract, e.g. \"pages 2-4\".\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *help {
		flag.Usage()
		return
	}
	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(1)
	}

	err := run(cfg, flag.Args(), *cpuprofile, *memprofile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config, args []string, cpuprofile, memprofile string) error {
	stop, err := profile.Start(cpuprofile, memprofile)
	if err != nil {
		return err
	}
	defer stop()

	filename := args[0]
	degrees, err := parseDegrees(args[1])
	if err != nil {
		return err
	}
	sel, err := pagesel.Parse(args[2:])
	if err != nil {
		return fmt.Errorf("failed to parse regions: %w", err)
	}

	data, err := outfile.ReadInput(filename)
	if err != nil {
		return err
	}

	var out []byte
	if len(sel) == 0 {
		out, err = pdfcompose.Rotate(data, degrees)
	} else {
		var summary *pdfcompose.Summary
		summary, err = pdfcompose.Inspect(data)
		if err == nil {
			indices := sel.Indices(len(summary.Pages))
			if cfg.verbose {
				log.Printf("rotating %d pages by %d degrees", len(indices), degrees)
			}
			out, err = pdfcompose.RotatePages(data, degrees, indices)
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	return outfile.Write(cfg.output, cfg.force, out)
}

// parseDegrees parses the rotation angle.  Only quarter turns are
// accepted, since PDF viewers ignore other values of /Rotate.
func parseDegrees(s string) (int, error) {
	degrees, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid rotation %q: %w", s, err)
	}
	if degrees%90 != 0 {
		return 0, fmt.Errorf("invalid rotation %d: not a multiple of 90", degrees)
	}
	return degrees, nil
}
