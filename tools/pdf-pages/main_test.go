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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"seehuhn.de/go/pdfcompose/internal/debug/makepdf"
)

func TestRun(t *testing.T) {
	in := filepath.Join(t.TempDir(), "in.pdf")
	data := makepdf.Bytes(&makepdf.Options{
		NumPages:   2,
		PageRotate: map[int]int{1: 90},
		Title:      "Test",
	})
	err := os.WriteFile(in, data, 0o644)
	if err != nil {
		t.Fatal(err)
	}

	buf := &bytes.Buffer{}
	err = run([]string{in}, buf, "", "")
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %q", lines)
	}
	if !strings.HasSuffix(lines[0], "2 pages") {
		t.Errorf("wrong header %q", lines[0])
	}
	if lines[1] != `title: "Test"` {
		t.Errorf("wrong title line %q", lines[1])
	}
	// the second page is rotated, so width and height are swapped
	fields := strings.Fields(lines[4])
	if fields[1] != "90" || fields[2] != "792.0" || fields[3] != "612.0" {
		t.Errorf("wrong page line %q", lines[4])
	}
}
