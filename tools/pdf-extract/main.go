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

// Pdf-extract copies selected pages of a PDF file into a new PDF file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"seehuhn.de/go/pdfcompose"
	"seehuhn.de/go/pdfcompose/tools/internal/buildinfo"
	"seehuhn.de/go/pdfcompose/tools/internal/outfile"
	"seehuhn.de/go/pdfcompose/tools/internal/pagesel"
	"seehuhn.de/go/pdfcompose/tools/internal/profile"
)

// config holds all command-line flag values.
type config struct {
	force   bool
	verbose bool
}

func main() {
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")

	var cfg config
	flag.BoolVar(&cfg.force, "f", false, "overwrite output file if it exists")
	flag.BoolVar(&cfg.verbose, "v", false, "show progress messages")
	help := flag.Bool("help", false, "show help information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pdf-extract - extract pages from a PDF file\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short("pdf-extract"))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  pdf-extract [options] <file.pdf> [region...] [to <output>]\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  file.pdf   PDF file to extract from, or - for stdin\n")
		fmt.Fprintf(os.Stderr, "  output     output PDF file, or - for stdout\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nRegion types:\n")
		fmt.Fprintf(os.Stderr, "  page N       extract page N (1-based)\n")
		fmt.Fprintf(os.Stderr, "  pages N-M    extract pages N through M\n")
		fmt.Fprintf(os.Stderr, "  pages odd    extract odd-numbered pages\n")
		fmt.Fprintf(os.Stderr, "  pages even   extract even-numbered pages\n")
		fmt.Fprintf(os.Stderr, "\nPages are written in the order the regions are given.\n")
		fmt.Fprintf(os.Stderr, "Without \"to\", the selected page numbers are listed.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pdf-extract doc.pdf page 1 to page1.pdf\n")
		fmt.Fprintf(os.Stderr, "  pdf-extract doc.pdf pages 3- page 1 to reordered.pdf\n")
		fmt.Fprintf(os.Stderr, "  pdf-extract doc.pdf pages odd to -\n")
		fmt.Fprintf(os.Stderr, "  pdf-extract doc.pdf pages\n")
	}

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(cfg, flag.Args(), os.Stdout, *cpuprofile, *memprofile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config, args []string, stdout io.Writer, cpuprofile, memprofile string) error {
	stop, err := profile.Start(cpuprofile, memprofile)
	if err != nil {
		return err
	}
	defer stop()

	filename := args[0]
	regionArgs, outputFile, err := splitArgs(args[1:])
	if err != nil {
		return err
	}

	data, err := outfile.ReadInput(filename)
	if err != nil {
		return err
	}
	summary, err := pdfcompose.Inspect(data)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	totalPages := len(summary.Pages)

	// a bare "pages" queries the page count
	if len(regionArgs) == 1 && (regionArgs[0] == "page" || regionArgs[0] == "pages") {
		fmt.Fprintf(stdout, "Total pages: %d\n", totalPages)
		return nil
	}

	sel, err := pagesel.Parse(regionArgs)
	if err != nil {
		return fmt.Errorf("failed to parse regions: %w", err)
	}
	indices := sel.Indices(totalPages)

	if outputFile == "" {
		printSelection(stdout, sel, indices)
		return nil
	}

	out, err := pdfcompose.ExtractPages(data, indices)
	if errors.Is(err, pdfcompose.ErrEmptySelection) {
		return fmt.Errorf("%s: no pages selected (document has %d pages)", filename, totalPages)
	} else if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	err = outfile.Write(outputFile, cfg.force, out)
	if err != nil {
		return err
	}

	if cfg.verbose {
		outputName := outputFile
		if outputName == "-" {
			outputName = "stdout"
		}
		log.Printf("extracted %d pages to %s", len(indices), outputName)
	}
	return nil
}

// splitArgs separates the region arguments from the output file name,
// which follows the keyword "to".
func splitArgs(args []string) ([]string, string, error) {
	for i, arg := range args {
		if arg != "to" {
			continue
		}
		if i+1 >= len(args) {
			return nil, "", fmt.Errorf("expected output filename after 'to'")
		}
		if i+2 < len(args) {
			return nil, "", fmt.Errorf("unexpected arguments after output filename")
		}
		return args[:i], args[i+1], nil
	}
	return args, "", nil
}

func printSelection(w io.Writer, sel pagesel.Selection, indices []int) {
	if len(indices) == 0 {
		fmt.Fprintln(w, "No pages selected")
		return
	}
	if len(sel) > 0 {
		fmt.Fprintf(w, "Applied regions: %s\n", sel)
	}
	fmt.Fprintf(w, "Selected pages (%d):", len(indices))
	for _, idx := range indices {
		fmt.Fprintf(w, " %d", idx+1)
	}
	fmt.Fprintln(w)
}
