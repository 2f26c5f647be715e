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

package pagesel

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRegion(t *testing.T) {
	cases := []struct {
		in  string
		out Region
	}{
		{"1", Region{Start: 0, End: 0}},
		{"3-5", Region{Start: 2, End: 4}},
		{"-4", Region{Start: -1, End: 3}},
		{"2-", Region{Start: 1, End: -1}},
		{"odd", Region{Start: -1, End: -1, Odd: true}},
		{"even", Region{Start: -1, End: -1, Even: true}},
		{" all ", Region{Start: -1, End: -1}},
	}
	for _, test := range cases {
		out, err := ParseRegion(test.in)
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
			continue
		}
		if d := cmp.Diff(test.out, out); d != "" {
			t.Errorf("%q: %s", test.in, d)
		}
	}
}

func TestParseRegionErrors(t *testing.T) {
	for _, in := range []string{"", "x", "0", "1-2-3", "5-2", "a-3", "-0"} {
		_, err := ParseRegion(in)
		if err == nil {
			t.Errorf("%q: expected an error", in)
		}
	}
}

func TestParse(t *testing.T) {
	sel, err := Parse([]string{"page", "2", "pages", "odd", "7-"})
	if err != nil {
		t.Fatal(err)
	}
	expected := Selection{
		{Start: 1, End: 1},
		{Start: -1, End: -1, Odd: true},
		{Start: 6, End: -1},
	}
	if d := cmp.Diff(expected, sel); d != "" {
		t.Error(d)
	}
	if s := sel.String(); s != "page 2, pages odd, pages 7-" {
		t.Errorf("wrong string %q", s)
	}

	_, err = Parse([]string{"pages"})
	if err == nil {
		t.Error("missing page specification accepted")
	}
}

func TestIndices(t *testing.T) {
	cases := []struct {
		sel      string
		numPages int
		out      []int
	}{
		{"all", 3, []int{0, 1, 2}},
		{"odd", 5, []int{0, 2, 4}},
		{"even", 5, []int{1, 3}},
		{"2-9", 4, []int{1, 2, 3}},
		{"-2", 4, []int{0, 1}},
		{"7", 4, nil},
		{"all", 0, nil},
	}
	for _, test := range cases {
		r, err := ParseRegion(test.sel)
		if err != nil {
			t.Fatal(err)
		}
		out := r.Indices(test.numPages)
		if d := cmp.Diff(test.out, out); d != "" {
			t.Errorf("%s/%d: %s", test.sel, test.numPages, d)
		}
	}

	sel := Selection{{Start: 2, End: 2}, {Start: 0, End: 2}}
	if d := cmp.Diff([]int{2, 0, 1, 2}, sel.Indices(3)); d != "" {
		t.Error(d)
	}
	if d := cmp.Diff([]int{0, 1}, Selection(nil).Indices(2)); d != "" {
		t.Error(d)
	}
}
