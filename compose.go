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
	"bytes"
	"errors"
	"fmt"

	"seehuhn.de/go/pdfcompose/merge"
	"seehuhn.de/go/pdfcompose/pagetree"
	"seehuhn.de/go/pdfcompose/pdf"
	"seehuhn.de/go/pdfcompose/rotate"
	"seehuhn.de/go/pdfcompose/walker"
)

// MergeAll concatenates PDF files.  The pages of the result are the pages
// of all inputs, in order.
//
// If inputs is empty, the result is empty and no error is returned.  A
// single input is parsed and written back unchanged.  If any input
// cannot be parsed or merged, no output is produced.
func MergeAll(inputs [][]byte) ([]byte, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	doc, err := parse(0, inputs[0])
	if err != nil {
		return nil, err
	}
	if len(inputs) == 1 {
		return serialize(doc)
	}
	_, _, err = pagetree.Root(doc)
	if err != nil {
		return nil, &StructuralError{Input: 0, Err: err}
	}

	for i, data := range inputs[1:] {
		src, err := parse(i+1, data)
		if err != nil {
			return nil, err
		}
		err = mergeInput(doc, src, i+1)
		if err != nil {
			return nil, err
		}
	}

	walker.Prune(doc)
	return serialize(doc)
}

// mergeInput appends src, the input with index idx, to doc.
func mergeInput(doc, src *pdf.Document, idx int) error {
	err := merge.Merge(doc, src)
	if errors.Is(err, merge.ErrOverflow) {
		return &CodecError{Input: idx, Op: "merge", Err: err}
	} else if err != nil {
		return &StructuralError{Input: idx, Err: err}
	}
	return nil
}

// Rotate adds degrees to the rotation of every page of a PDF file.
func Rotate(data []byte, degrees int) ([]byte, error) {
	doc, err := parse(0, data)
	if err != nil {
		return nil, err
	}
	err = rotate.Rotate(doc, degrees)
	if err != nil {
		return nil, &StructuralError{Err: err}
	}
	return serialize(doc)
}

// RotatePages adds degrees to the rotation of the pages with the given
// zero-based indices.  Indices outside the valid range are ignored.
func RotatePages(data []byte, degrees int, indices []int) ([]byte, error) {
	doc, err := parse(0, data)
	if err != nil {
		return nil, err
	}
	err = rotate.Pages(doc, degrees, indices)
	if err != nil {
		return nil, &StructuralError{Err: err}
	}
	return serialize(doc)
}

// ExtractPages returns a PDF file which contains only the selected pages,
// in the order given.  Indices are zero-based; indices outside the valid
// range are skipped.  If no index is valid, [ErrEmptySelection] is returned.
//
// Objects used only by pages which are not selected are removed.
func ExtractPages(data []byte, indices []int) ([]byte, error) {
	doc, err := parse(0, data)
	if err != nil {
		return nil, err
	}
	return extract(doc, func(int) []int { return indices })
}

// Split returns a PDF file which contains the pages first to last of the
// input, inclusive.  Page numbers start at 1.  If last is larger than the
// number of pages, the range ends at the last page.  If the range contains
// no page, an error wrapping [ErrEmptySelection] is returned.
func Split(data []byte, first, last int) ([]byte, error) {
	doc, err := parse(0, data)
	if err != nil {
		return nil, err
	}
	return extract(doc, func(numPages int) []int {
		last = min(last, numPages)
		var indices []int
		for pageNo := max(first, 1); pageNo <= last; pageNo++ {
			indices = append(indices, pageNo-1)
		}
		return indices
	})
}

// extract keeps the pages selected by sel, which maps the number of pages
// to a list of page indices.
func extract(doc *pdf.Document, sel func(numPages int) []int) ([]byte, error) {
	pages, err := pagetree.Pages(doc)
	if err != nil {
		return nil, &StructuralError{Err: err}
	}

	indices := sel(len(pages))
	var refs []pdf.Reference
	for _, idx := range indices {
		if idx < 0 || idx >= len(pages) {
			continue
		}
		refs = append(refs, pages[idx].Ref)
	}
	if len(refs) == 0 {
		if len(indices) > 0 {
			return nil, fmt.Errorf("%w: %d indices, none in range [0, %d)",
				ErrEmptySelection, len(indices), len(pages))
		}
		return nil, ErrEmptySelection
	}

	err = pagetree.Replace(doc, refs)
	if err != nil {
		return nil, &StructuralError{Err: err}
	}
	walker.Prune(doc)
	return serialize(doc)
}

func parse(idx int, data []byte) (*pdf.Document, error) {
	doc, err := pdf.Read(data, nil)
	if err != nil {
		return nil, &CodecError{Input: idx, Op: "parse", Err: err}
	}
	return doc, nil
}

func serialize(doc *pdf.Document) ([]byte, error) {
	buf := &bytes.Buffer{}
	err := pdf.Write(buf, doc, nil)
	if err != nil {
		return nil, &CodecError{Input: -1, Op: "write", Err: err}
	}
	return buf.Bytes(), nil
}
