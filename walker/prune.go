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
	"cmp"
	"slices"

	"golang.org/x/exp/maps"

	"seehuhn.de/go/pdfcompose/pdf"
)

// Reachable returns the set of indirect objects which can be reached from
// the trailer of doc.
func Reachable(doc *pdf.Document) map[pdf.Reference]bool {
	marked := make(map[pdf.Reference]bool)
	w := New(doc, doc.Trailer)
	for ref := range w.IndirectObjects() {
		marked[ref] = true
	}
	// Document.Get never fails, so w.Err is always nil here.
	return marked
}

// Prune removes all objects from doc which cannot be reached from the
// trailer.  References to objects which do not exist are replaced by null,
// so that the document contains no dangling references afterwards.
//
// The references of the removed objects are returned in order of
// increasing object number.
func Prune(doc *pdf.Document) []pdf.Reference {
	marked := Reachable(doc)

	var removed []pdf.Reference
	for _, ref := range maps.Keys(doc.Objects) {
		if !marked[ref] {
			removed = append(removed, ref)
		}
	}
	for _, ref := range removed {
		doc.Delete(ref)
	}

	for _, obj := range doc.Objects {
		dropDangling(doc, obj)
	}
	dropDangling(doc, doc.Trailer)

	slices.SortFunc(removed, compareRefs)
	return removed
}

// dropDangling replaces references to missing objects inside obj by null.
// Indirect objects are not followed.
func dropDangling(doc *pdf.Document, obj pdf.Object) {
	switch x := obj.(type) {
	case pdf.Dict:
		for key, val := range x {
			if ref, ok := val.(pdf.Reference); ok && !doc.Has(ref) {
				delete(x, key)
				continue
			}
			dropDangling(doc, val)
		}
	case pdf.Array:
		for i, val := range x {
			if ref, ok := val.(pdf.Reference); ok && !doc.Has(ref) {
				x[i] = nil
				continue
			}
			dropDangling(doc, val)
		}
	case *pdf.Stream:
		dropDangling(doc, x.Dict)
	}
}

func compareRefs(a, b pdf.Reference) int {
	if c := cmp.Compare(a.Number(), b.Number()); c != 0 {
		return c
	}
	return cmp.Compare(a.Generation(), b.Generation())
}
