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

package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"seehuhn.de/go/pdfcompose"
	"seehuhn.de/go/pdfcompose/internal/debug/makepdf"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	var in []string
	for i, n := range []int{2, 3} {
		name := filepath.Join(dir, string(rune('a'+i))+".pdf")
		err := os.WriteFile(name, makepdf.Bytes(&makepdf.Options{NumPages: n}), 0o644)
		if err != nil {
			t.Fatal(err)
		}
		in = append(in, name)
	}

	out := filepath.Join(dir, "out.pdf")
	err := run(config{output: out}, in, "", "")
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	summary, err := pdfcompose.Inspect(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(summary.Pages) != 5 {
		t.Errorf("expected 5 pages, got %d", len(summary.Pages))
	}

	// the output file exists now
	err = run(config{output: out}, in, "", "")
	if err == nil {
		t.Error("existing output file was overwritten")
	}
}

func TestInputError(t *testing.T) {
	inner := errors.New("broken")
	err := inputError(&pdfcompose.CodecError{Input: 1, Op: "parse", Err: inner},
		[]string{"a.pdf", "b.pdf"})
	if err.Error() != "b.pdf: parse: broken" {
		t.Errorf("wrong message %q", err)
	}
	if !errors.Is(err, inner) {
		t.Error("cause lost")
	}
}
