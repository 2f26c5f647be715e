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

// Package walker iterates over the objects reachable in a PDF document,
// and removes the objects which cannot be reached.
package walker

import (
	"iter"

	"seehuhn.de/go/pdfcompose/pdf"
)

// A Walker can iterate over all objects reachable from a set of roots,
// normally the trailer dictionary of a PDF document.
//
// The traversal starts from the document information dictionary, then the
// document catalog, then the remaining trailer entries in sorted order.
// Each indirect object is visited exactly once.  References to objects
// which do not exist are skipped.
//
// This only visits objects in the PDF container.  It does not include the
// contents of PDF content streams.
type Walker struct {
	pdf.Getter

	// Roots is the dictionary the traversal starts from.
	Roots pdf.Dict

	// Err holds the first error encountered during traversal.
	// The traversal stops immediately when an error is encountered.
	// Users should check this field after traversal.
	Err error
}

// New creates a new Walker which starts from the given trailer dictionary.
func New(r pdf.Getter, trailer pdf.Dict) *Walker {
	return &Walker{Getter: r, Roots: trailer}
}

// PreOrder returns an iterator that traverses the document in pre-order.
// For each object, it yields the object's reference and the object itself.
// If the object is not an indirect object, the reference is 0.
//
// The iterator cannot be used concurrently.
func (w *Walker) PreOrder() iter.Seq2[pdf.Reference, pdf.Object] {
	return func(yield func(pdf.Reference, pdf.Object) bool) {
		w.walk(yield, true)
	}
}

// PostOrder returns an iterator that traverses the document in post-order,
// i.e. the contents of containers are yielded before the container itself.
// Otherwise it behaves like [Walker.PreOrder].
func (w *Walker) PostOrder() iter.Seq2[pdf.Reference, pdf.Object] {
	return func(yield func(pdf.Reference, pdf.Object) bool) {
		w.walk(yield, false)
	}
}

// IndirectObjects returns an iterator over the reachable indirect objects,
// in pre-order.
func (w *Walker) IndirectObjects() iter.Seq2[pdf.Reference, pdf.Object] {
	return func(yield func(pdf.Reference, pdf.Object) bool) {
		for ref, obj := range w.PreOrder() {
			if ref == 0 || obj == nil {
				continue
			}
			if !yield(ref, obj) {
				return
			}
		}
	}
}

func (w *Walker) walk(yield func(pdf.Reference, pdf.Object) bool, preOrder bool) {
	w.Err = nil
	visited := make(map[pdf.Reference]struct{})

	var keys []pdf.Name
	for _, key := range []pdf.Name{"Info", "Root"} {
		if w.Roots[key] != nil {
			keys = append(keys, key)
		}
	}
	for _, key := range w.Roots.SortedKeys() {
		if key != "Info" && key != "Root" {
			keys = append(keys, key)
		}
	}

	for _, key := range keys {
		if !w.walkObject(w.Roots[key], yield, preOrder, visited) {
			return
		}
	}
}

func (w *Walker) walkObject(obj pdf.Object, yield func(pdf.Reference, pdf.Object) bool, preOrder bool, visited map[pdf.Reference]struct{}) bool {
	if obj == nil {
		return true
	}

	// resolve references
	ref, isReference := obj.(pdf.Reference)
	if isReference {
		if _, alreadyVisited := visited[ref]; alreadyVisited {
			return true
		}
		visited[ref] = struct{}{}

		resolved, err := w.Get(ref)
		if err != nil {
			w.Err = err
			return false
		}
		if resolved == nil {
			// dangling reference
			return true
		}
		obj = resolved
	}

	if preOrder && !yield(ref, obj) {
		return false
	}

	switch v := obj.(type) {
	case pdf.Array:
		for _, item := range v {
			if !w.walkObject(item, yield, preOrder, visited) {
				return false
			}
		}
	case pdf.Dict:
		for _, key := range v.SortedKeys() {
			if !w.walkObject(v[key], yield, preOrder, visited) {
				return false
			}
		}
	case *pdf.Stream:
		// Length is recomputed when the stream is written.
		for _, key := range v.Dict.SortedKeys() {
			if key == "Length" {
				continue
			}
			if !w.walkObject(v.Dict[key], yield, preOrder, visited) {
				return false
			}
		}
	}

	if !preOrder && !yield(ref, obj) {
		return false
	}
	return true
}
