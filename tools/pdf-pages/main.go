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

// Pdf-pages lists the pages of PDF files, together with their rotation
// and size.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"seehuhn.de/go/pdfcompose"
	"seehuhn.de/go/pdfcompose/tools/internal/buildinfo"
	"seehuhn.de/go/pdfcompose/tools/internal/outfile"
	"seehuhn.de/go/pdfcompose/tools/internal/profile"
)

func main() {
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")
	help := flag.Bool("help", false, "show help information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pdf-pages - list the pages of PDF files\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short("pdf-pages"))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  pdf-pages [options] <file.pdf>...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
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

	err := run(flag.Args(), os.Stdout, *cpuprofile, *memprofile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(files []string, w io.Writer, cpuprofile, memprofile string) error {
	stop, err := profile.Start(cpuprofile, memprofile)
	if err != nil {
		return err
	}
	defer stop()

	for i, fname := range files {
		data, err := outfile.ReadInput(fname)
		if err != nil {
			return err
		}
		summary, err := pdfcompose.Inspect(data)
		if err != nil {
			return fmt.Errorf("%s: %w", fname, err)
		}

		if i > 0 {
			fmt.Fprintln(w)
		}
		err = show(w, fname, summary)
		if err != nil {
			return err
		}
	}
	return nil
}

func show(w io.Writer, fname string, summary *pdfcompose.Summary) error {
	fmt.Fprintf(w, "%s: PDF %s, %d objects, %d pages\n",
		fname, summary.Version, summary.NumObjects, len(summary.Pages))
	if summary.Title != "" {
		fmt.Fprintf(w, "title: %q\n", summary.Title)
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "page\trotate\twidth\theight\tbox\t")
	for i, p := range summary.Pages {
		box := p.Box
		fmt.Fprintf(tw, "%d\t%d\t%.1f\t%.1f\t[%g %g %g %g]\t\n",
			i+1, p.Rotate, p.Width, p.Height,
			box.LLx, box.LLy, box.URx, box.URy)
	}
	return tw.Flush()
}
