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

package walker

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdfcompose/pdf"
)

// mockGetter simulates a simple PDF structure for testing
type mockGetter struct {
	objects map[pdf.Reference]pdf.Object
}

var (
	mockErrorRef = pdf.NewReference(99, 0)
	errMock      = errors.New("mock error")

	finalRef = pdf.NewReference(42, 0)
)

func (m *mockGetter) Get(ref pdf.Reference) (pdf.Object, error) {
	if ref == mockErrorRef {
		return nil, errMock
	}
	return m.objects[ref], nil
}

func ref(n uint32) pdf.Reference {
	return pdf.NewReference(n, 0)
}

func newMockPDF() (*mockGetter, pdf.Dict) {
	m := &mockGetter{
		objects: map[pdf.Reference]pdf.Object{
			ref(1): pdf.Name("unused object"),
			ref(2): pdf.Dict{
				"Type": pdf.Name("Pages"),
				"Kids": pdf.Array{ref(3), ref(4)},
			},
			ref(3): pdf.Dict{
				"Type":     pdf.Name("Page"),
				"Parent":   ref(2),
				"Contents": ref(5),
			},
			ref(4): pdf.Dict{
				"Type":     pdf.Name("Page"),
				"Parent":   ref(2),
				"Contents": ref(6),
			},
			ref(5):   pdf.String("Content of page 1"),
			ref(6):   pdf.String("Content of page 2"),
			ref(7):   pdf.Dict{"Type": pdf.Name("Catalog"), "Pages": ref(2)},
			ref(8):   pdf.Dict{"Title": pdf.String("Mock PDF")},
			finalRef: pdf.String("Final object"),
		},
	}
	trailer := pdf.Dict{
		"Root":  ref(7),
		"Info":  ref(8),
		"Final": finalRef,
	}
	return m, trailer
}

func TestPreOrder(t *testing.T) {
	w := New(newMockPDF())

	var objects []pdf.Reference
	for r := range w.PreOrder() {
		if r != 0 {
			objects = append(objects, r)
		}
	}

	if w.Err != nil {
		t.Errorf("Unexpected error: %v", w.Err)
	}

	expected := []pdf.Reference{ref(8), ref(7), ref(2), ref(3), ref(5), ref(4), ref(6), finalRef}
	if d := cmp.Diff(expected, objects); d != "" {
		t.Errorf("Incorrect pre-order traversal: %s", d)
	}
}

func TestPostOrder(t *testing.T) {
	w := New(newMockPDF())

	var objects []pdf.Reference
	for r := range w.PostOrder() {
		if r != 0 {
			objects = append(objects, r)
		}
	}

	if w.Err != nil {
		t.Errorf("Unexpected error: %v", w.Err)
	}

	expected := []pdf.Reference{ref(8), ref(5), ref(3), ref(6), ref(4), ref(2), ref(7), finalRef}
	if d := cmp.Diff(expected, objects); d != "" {
		t.Errorf("Incorrect post-order traversal: %s", d)
	}
}

func TestError(t *testing.T) {
	m, trailer := newMockPDF()

	// add a reference to a broken object to the catalog
	m.objects[ref(7)].(pdf.Dict)["Metadata"] = mockErrorRef

	w := New(m, trailer)
	for range w.PreOrder() {
	}
	if !errors.Is(w.Err, errMock) {
		t.Errorf("expected mock error, got %v", w.Err)
	}
}

func TestEarlyStop(t *testing.T) {
	w := New(newMockPDF())
	count := 0
	for range w.IndirectObjects() {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Errorf("wrong count %d", count)
	}
}

func TestPrune(t *testing.T) {
	doc := pdf.NewDocument(pdf.V1_7)
	m, trailer := newMockPDF()
	for r, obj := range m.objects {
		doc.Put(r, obj)
	}
	doc.Trailer = trailer

	// a stream with an indirect length, and a dangling reference
	doc.Put(ref(10), pdf.Integer(3))
	doc.Put(ref(11), &pdf.Stream{
		Dict: pdf.Dict{"Length": ref(10)},
		Data: []byte("abc"),
	})
	doc.Objects[ref(3)].(pdf.Dict)["Resources"] = ref(11)
	doc.Objects[ref(2)].(pdf.Dict)["Kids"] = pdf.Array{ref(3), ref(4), ref(50)}

	removed := Prune(doc)

	expected := []pdf.Reference{ref(1), ref(10)}
	if d := cmp.Diff(expected, removed); d != "" {
		t.Errorf("wrong objects removed: %s", d)
	}

	kids := doc.Objects[ref(2)].(pdf.Dict)["Kids"]
	if d := cmp.Diff(pdf.Array{ref(3), ref(4), nil}, kids); d != "" {
		t.Errorf("dangling reference not removed: %s", d)
	}
	stm := doc.Objects[ref(11)].(*pdf.Stream)
	if _, hasLength := stm.Dict["Length"]; hasLength {
		t.Error("reference to pruned Length object kept")
	}

	// pruning is idempotent
	if removed := Prune(doc); len(removed) != 0 {
		t.Errorf("second prune removed %v", removed)
	}
}

func TestPruneKeepsShared(t *testing.T) {
	doc := pdf.NewDocument(pdf.V1_7)
	shared := ref(5)
	doc.Put(ref(1), pdf.Dict{"A": shared, "B": pdf.Array{shared}})
	doc.Put(shared, pdf.Integer(7))
	doc.Put(ref(2), pdf.Dict{"A": shared})
	doc.Trailer["Root"] = ref(1)

	removed := Prune(doc)
	if d := cmp.Diff([]pdf.Reference{ref(2)}, removed); d != "" {
		t.Error(d)
	}
	if !doc.Has(shared) {
		t.Error("shared object removed")
	}
}
