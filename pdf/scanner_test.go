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

package pdf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadObject(t *testing.T) {
	cases := []struct {
		in  string
		out Object
	}{
		{"null", nil},
		{"true", Bool(true)},
		{"false ", Bool(false)},
		{"123", Integer(123)},
		{"-7", Integer(-7)},
		{"+.5", Real(0.5)},
		{"3.25", Real(3.25)},
		{"(hello)", String("hello")},
		{"(a\\(b)", String("a(b")},
		{"(a(b)c)", String("a(b)c")},
		{"(\\101\\n)", String("A\n")},
		{"<48656C6C6F>", String("Hello")},
		{"<4 8 6>", String("H`")},
		{"/Name", Name("Name")},
		{"/A#20B", Name("A B")},
		{"[1 2 R 3]", Array{NewReference(1, 2), Integer(3)}},
		{"[1 2 3]", Array{Integer(1), Integer(2), Integer(3)}},
		{"<</A 1/B[/C]>>", Dict{"A": Integer(1), "B": Array{Name("C")}}},
		{"<</A null /B 2>>", Dict{"B": Integer(2)}},
		{"% comment\n12 0 R", NewReference(12, 0)},
	}
	for _, test := range cases {
		s := newScanner([]byte(test.in), 0, nil)
		obj, err := s.ReadObject()
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
			continue
		}
		if d := cmp.Diff(test.out, obj); d != "" {
			t.Errorf("%q: %s", test.in, d)
		}
	}
}

func TestReadObjectErrors(t *testing.T) {
	cases := []string{
		"",
		"(unterminated",
		"[1 2",
		"<</A 1",
		"<zz>",
		")",
	}
	for _, test := range cases {
		s := newScanner([]byte(test), 0, nil)
		_, err := s.ReadObject()
		if err == nil {
			t.Errorf("%q: expected an error", test)
		}
	}
}

func TestDeepNesting(t *testing.T) {
	in := make([]byte, 0, 2*maxNesting+10)
	for range maxNesting + 5 {
		in = append(in, '[')
	}
	s := newScanner(in, 0, nil)
	_, err := s.ReadObject()
	if err == nil {
		t.Error("expected an error for deeply nested arrays")
	}
}

func TestReadIndirectObject(t *testing.T) {
	in := "\n 4 1 obj\n<</Length 5>>\nstream\nhello\nendstream\nendobj\n"
	s := newScanner([]byte(in), 0, nil)
	obj, ref, err := s.ReadIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	if ref != NewReference(4, 1) {
		t.Errorf("wrong reference %s", ref)
	}
	stm, ok := obj.(*Stream)
	if !ok {
		t.Fatalf("expected stream, got %T", obj)
	}
	if string(stm.Data) != "hello" {
		t.Errorf("wrong stream data %q", stm.Data)
	}
}

func TestStreamWrongLength(t *testing.T) {
	in := "1 0 obj <</Length 100>> stream\r\nabc\r\nendstream endobj"
	s := newScanner([]byte(in), 0, nil)
	obj, _, err := s.ReadIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	if data := string(obj.(*Stream).Data); data != "abc" {
		t.Errorf("wrong stream data %q", data)
	}
}

func TestIndirectLength(t *testing.T) {
	in := "1 0 obj <</Length 2 0 R>> stream\nabcdef\nendstream endobj"
	getInt := func(obj Object) (Integer, error) {
		return 3, nil
	}
	s := newScanner([]byte(in), 0, getInt)
	obj, _, err := s.ReadIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	// the length does not point at "endstream", so the scanner searches
	if data := string(obj.(*Stream).Data); data != "abcdef" {
		t.Errorf("wrong stream data %q", data)
	}
}

func TestHeaderVersion(t *testing.T) {
	cases := []struct {
		in  string
		ver Version
		ok  bool
	}{
		{"%PDF-1.4\n", V1_4, true},
		{"junk%PDF-1.7\r", V1_7, true},
		{"%PDF-2.0\n", V2_0, true},
		{"%PDF-3.1\n", 0, false},
		{"hello", 0, false},
	}
	for _, test := range cases {
		s := newScanner([]byte(test.in), 0, nil)
		ver, err := s.readHeaderVersion()
		if (err == nil) != test.ok {
			t.Errorf("%q: unexpected error status %v", test.in, err)
			continue
		}
		if ver != test.ver {
			t.Errorf("%q: wrong version %s", test.in, ver)
		}
	}
}
