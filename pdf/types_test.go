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

func TestFormat(t *testing.T) {
	cases := []struct {
		in  Object
		out string
	}{
		{nil, "null"},
		{Bool(true), "true"},
		{Integer(-12), "-12"},
		{Real(1.5), "1.5"},
		{Real(2), "2."},
		{String("a"), "(a)"},
		{String("a (test version)"), "(a (test version))"},
		{String("a (test version"), "(a \\(test version)"},
		{String(""), "()"},
		{String("\000"), "<00>"},
		{String("abcdef\001"), "(abcdef\\001)"},
		{String("a\nb\\c"), "(a\\nb\\\\c)"},
		{Dict(nil), "null"},
		{Name("Type"), "/Type"},
		{Name("A B#"), "/A#20B#23"},
		{Array{Integer(1), nil, Integer(3)}, "[1 null 3]"},
		{Dict{"B": Integer(2), "A": Integer(1), "C": nil}, "<<\n/A 1\n/B 2\n>>"},
		{NewReference(12, 0), "12 0 R"},
		{NewReference(7, 3), "7 3 R"},
		{Reference(1 << 48), "<invalid reference 0x0001000000000000>"},
	}
	for _, test := range cases {
		out := Format(test.in)
		if out != test.out {
			t.Errorf("string wrongly formatted, expected %q but got %q",
				test.out, out)
		}
	}
}

func TestStreamLength(t *testing.T) {
	stm := &Stream{
		Dict: Dict{"Length": NewReference(5, 0)},
		Data: []byte("hello"),
	}
	out := Format(stm)
	expected := "<<\n/Length 5\n>>\nstream\nhello\nendstream"
	if out != expected {
		t.Errorf("wrong stream output %q", out)
	}
	if _, isRef := stm.Dict["Length"].(Reference); !isRef {
		t.Error("stream dictionary was modified")
	}
}

func TestReference(t *testing.T) {
	ref := NewReference(0xFFFFFFFF, 0xFFFF)
	if ref.Number() != 0xFFFFFFFF || ref.Generation() != 0xFFFF {
		t.Errorf("wrong reference fields %d %d", ref.Number(), ref.Generation())
	}
	if s := NewReference(3, 0).String(); s != "obj_3" {
		t.Errorf("wrong string %q", s)
	}
	if s := NewReference(3, 1).String(); s != "obj_3@1" {
		t.Errorf("wrong string %q", s)
	}
}

func TestTextString(t *testing.T) {
	cases := []string{
		"",
		"hello",
		"ein Bär",
		"o țesătură",
		"中文",
		"日本語",
	}
	for _, test := range cases {
		enc := TextString(test)
		out := enc.AsTextString()
		if out != test {
			t.Errorf("wrong text: %q != %q", out, test)
		}
	}

	utf8 := String("\xEF\xBB\xBFgrün")
	if out := utf8.AsTextString(); out != "grün" {
		t.Errorf("wrong text: %q", out)
	}
}

func TestClone(t *testing.T) {
	doc := NewDocument(V1_7)
	ref := doc.Alloc()
	doc.Put(ref, Dict{
		"Kids": Array{Integer(1), String("x")},
	})
	doc.Trailer["Root"] = ref

	c := doc.Clone()
	if d := cmp.Diff(doc, c); d != "" {
		t.Fatal(d)
	}

	c.Objects[ref].(Dict)["Kids"].(Array)[0] = Integer(2)
	if doc.Objects[ref].(Dict)["Kids"].(Array)[0] != Integer(1) {
		t.Error("clone shares memory with the original")
	}
}

func TestAlloc(t *testing.T) {
	doc := NewDocument(V1_4)
	doc.Put(NewReference(10, 0), Integer(1))
	ref := doc.Alloc()
	if ref.Number() != 11 {
		t.Errorf("expected object 11, got %s", ref)
	}
	if doc.MaxNumber != 11 {
		t.Errorf("wrong MaxNumber %d", doc.MaxNumber)
	}
}

func TestResolveLoop(t *testing.T) {
	doc := NewDocument(V1_7)
	a := NewReference(1, 0)
	b := NewReference(2, 0)
	doc.Put(a, b)
	doc.Put(b, a)

	_, err := Resolve(doc, a)
	if _, ok := err.(*MalformedFileError); !ok {
		t.Errorf("expected MalformedFileError, got %v", err)
	}
}

func TestGetHelpers(t *testing.T) {
	doc := NewDocument(V1_7)
	ref := NewReference(1, 0)
	doc.Put(ref, Integer(42))

	x, err := GetInt(doc, ref)
	if err != nil || x != 42 {
		t.Errorf("GetInt: %d %v", x, err)
	}
	f, err := GetNumber(doc, ref)
	if err != nil || f != 42 {
		t.Errorf("GetNumber: %g %v", f, err)
	}
	_, err = GetDict(doc, ref)
	if err == nil {
		t.Error("expected type error")
	}
	dict, err := GetDict(doc, NewReference(9, 0))
	if err != nil || dict != nil {
		t.Errorf("missing object: %v %v", dict, err)
	}
}
