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

// Package rotate changes the orientation of the pages of a PDF document.
//
// Rotation values are stored in the /Rotate entry of each page dictionary.
// The arithmetic uses Go's remainder operator, so negative values stay
// negative: rotating a page with /Rotate 90 by -180 gives /Rotate -90.
// Use [Normalize] to map such values into the range [0, 360).
package rotate

import (
	"fmt"

	"seehuhn.de/go/pdfcompose/pagetree"
	"seehuhn.de/go/pdfcompose/pdf"
)

// Rotate adds delta degrees to the rotation of every page.
//
// Pages without a /Rotate entry, either on the page or on one of its
// ancestors in the page tree, start from 0.  The result is always stored
// on the page itself.
func Rotate(doc *pdf.Document, delta int) error {
	pages, err := pagetree.Pages(doc)
	if err != nil {
		return err
	}
	for _, p := range pages {
		err = rotatePage(doc, p.Ref, delta)
		if err != nil {
			return err
		}
	}
	return nil
}

// Pages adds delta degrees to the rotation of the pages with the given
// zero-based indices.  Indices which do not correspond to a page are
// ignored, and each page is rotated at most once.
func Pages(doc *pdf.Document, delta int, indices []int) error {
	pages, err := pagetree.Pages(doc)
	if err != nil {
		return err
	}
	done := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(pages) || done[idx] {
			continue
		}
		done[idx] = true
		err = rotatePage(doc, pages[idx].Ref, delta)
		if err != nil {
			return err
		}
	}
	return nil
}

func rotatePage(doc *pdf.Document, ref pdf.Reference, delta int) error {
	page, err := pdf.GetDict(doc, ref)
	if err != nil {
		return err
	}
	if page == nil {
		return fmt.Errorf("%w: page %s not found", pagetree.ErrInvalidPageTree, ref)
	}

	cur, err := Current(doc, ref)
	if err != nil {
		return err
	}
	page["Rotate"] = pdf.Integer(Add(cur, delta))
	return nil
}

// Current returns the rotation in effect for a page, taking inherited
// values into account.  The value is returned as stored in the file, i.e.
// it is not normalized.
func Current(doc *pdf.Document, page pdf.Reference) (int, error) {
	attr, err := pagetree.Inherited(doc, page)
	if err != nil {
		return 0, err
	}
	x, err := pdf.GetNumber(doc, attr["Rotate"])
	if err != nil {
		return 0, err
	}
	return int(x), nil
}

// Add combines a rotation with a rotation delta.
// Both the delta and the result are reduced modulo 360.
func Add(cur, delta int) int {
	delta %= 360
	return (cur + delta) % 360
}

// Normalize maps a rotation to the equivalent value in the range [0, 360).
func Normalize(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}
