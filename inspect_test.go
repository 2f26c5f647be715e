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

package pdfcompose

import (
	"testing"

	"seehuhn.de/go/pdfcompose/internal/debug/makepdf"
)

func TestInspect(t *testing.T) {
	in := makepdf.Bytes(&makepdf.Options{
		NumPages:   3,
		Title:      "Prüfbericht 中文",
		PageRotate: map[int]int{1: -90, 2: 180},
	})

	summary, err := Inspect(in)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Title != "Prüfbericht 中文" {
		t.Errorf("wrong title %q", summary.Title)
	}
	if len(summary.Pages) != 3 {
		t.Fatalf("wrong number of pages %d", len(summary.Pages))
	}

	expected := []struct {
		rotate        int
		width, height float64
	}{
		{0, 612, 792},
		{270, 792, 612},
		{180, 612, 792},
	}
	for i, p := range summary.Pages {
		e := expected[i]
		if p.Rotate != e.rotate || p.Width != e.width || p.Height != e.height {
			t.Errorf("page %d: got %d %gx%g, expected %d %gx%g",
				i+1, p.Rotate, p.Width, p.Height, e.rotate, e.width, e.height)
		}
		if p.Box.Dx() != 612 {
			t.Errorf("page %d: wrong box %v", i+1, p.Box)
		}
	}
}

func TestInspectBadInput(t *testing.T) {
	_, err := Inspect([]byte("%PDF-1.7\ngarbage"))
	if err == nil {
		t.Error("expected an error")
	}
}
