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

// Package pagetree reads and edits the page tree of a PDF document.
//
// Pages are enumerated by walking the whole tree, including intermediate
// nodes.  The editing functions [Append] and [Replace] attach pages directly
// to the root of the tree; inheritable attributes of the pages are copied
// onto the pages first, so that the appearance of the pages does not change.
package pagetree

import (
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfcompose/pdf"
)

var (
	// ErrNoPageTree indicates that the document catalog has no usable
	// Pages entry.
	ErrNoPageTree = errors.New("missing page tree")

	// ErrInvalidPageTree indicates a malformed page tree, for example a
	// cycle or a node of the wrong type.
	ErrInvalidPageTree = errors.New("invalid page tree")
)

// inheritable lists the page attributes which can be inherited from
// ancestor nodes in the page tree.
var inheritable = []pdf.Name{"Resources", "MediaBox", "CropBox", "Rotate"}

// PageInfo describes one page of a document.
type PageInfo struct {
	// Index is the zero-based page number.
	Index int

	// Ref is the reference of the page dictionary.
	Ref pdf.Reference
}

// Root returns the root node of the page tree.
func Root(doc *pdf.Document) (pdf.Reference, pdf.Dict, error) {
	catalog, err := doc.Catalog()
	if err != nil {
		return 0, nil, err
	}
	rootRef, ok := catalog["Pages"].(pdf.Reference)
	if !ok {
		return 0, nil, ErrNoPageTree
	}
	root, err := pdf.GetDict(doc, rootRef)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrNoPageTree, err)
	}
	if root == nil {
		return 0, nil, ErrNoPageTree
	}
	return rootRef, root, nil
}

// Pages returns all pages of the document, in document order.
//
// Kids entries which are not references, or which refer to missing
// objects, are skipped.  Nodes without a /Type entry are classified by the
// presence of a /Kids array.
func Pages(doc *pdf.Document) ([]PageInfo, error) {
	rootRef, _, err := Root(doc)
	if err != nil {
		return nil, err
	}

	var res []PageInfo
	todo := []pdf.Reference{rootRef}
	seen := map[pdf.Reference]bool{
		rootRef: true,
	}
	for len(todo) > 0 {
		k := len(todo) - 1
		ref := todo[k]
		todo = todo[:k]

		node, err := pdf.GetDict(doc, ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPageTree, err)
		}
		if node == nil {
			continue
		}

		switch nodeType(node) {
		case "Page":
			res = append(res, PageInfo{Index: len(res), Ref: ref})
		case "Pages":
			kids, err := pdf.GetArray(doc, node["Kids"])
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidPageTree, err)
			}
			for i := len(kids) - 1; i >= 0; i-- {
				kidRef, ok := kids[i].(pdf.Reference)
				if !ok {
					continue
				}
				if seen[kidRef] {
					return nil, fmt.Errorf("%w: %s appears twice", ErrInvalidPageTree, kidRef)
				}
				seen[kidRef] = true
				todo = append(todo, kidRef)
			}
		default:
			return nil, fmt.Errorf("%w: unexpected node type in %s", ErrInvalidPageTree, ref)
		}
	}

	return res, nil
}

func nodeType(node pdf.Dict) pdf.Name {
	if tp, ok := node["Type"].(pdf.Name); ok && (tp == "Page" || tp == "Pages") {
		return tp
	}
	if _, hasKids := node["Kids"]; hasKids {
		return "Pages"
	}
	if node["Type"] == nil {
		return "Page"
	}
	return ""
}

// NumPages returns the number of pages, as given by the /Count entry of
// the root of the page tree.
func NumPages(doc *pdf.Document) (int, error) {
	_, root, err := Root(doc)
	if err != nil {
		return 0, err
	}
	count, err := pdf.GetInt(doc, root["Count"])
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidPageTree, err)
	}
	if count < 0 {
		return 0, ErrInvalidPageTree
	}
	return int(count), nil
}

// Inherited returns the inheritable attributes in effect for a page.
// Values set on the page itself take precedence over values set on the
// nearest ancestor.
func Inherited(doc *pdf.Document, page pdf.Reference) (pdf.Dict, error) {
	res := pdf.Dict{}
	seen := map[pdf.Reference]bool{}
	var node pdf.Object = page
	for node != nil {
		if ref, ok := node.(pdf.Reference); ok {
			if seen[ref] {
				return nil, fmt.Errorf("%w: Parent loop at %s", ErrInvalidPageTree, ref)
			}
			seen[ref] = true
		}
		dict, err := pdf.GetDict(doc, node)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPageTree, err)
		}
		if dict == nil {
			break
		}
		for _, name := range inheritable {
			if _, done := res[name]; done {
				continue
			}
			if val := dict[name]; val != nil {
				res[name] = val
			}
		}
		node = dict["Parent"]
	}
	return res, nil
}

// PageBox returns the visible area of a page, i.e. the crop box if one is
// set, and the media box otherwise.  The rotation of the page is not taken
// into account.
func PageBox(doc *pdf.Document, page pdf.Reference) (rect.Rect, error) {
	attr, err := Inherited(doc, page)
	if err != nil {
		return rect.Rect{}, err
	}

	box := attr["CropBox"]
	if box == nil {
		box = attr["MediaBox"]
	}
	a, err := pdf.GetArray(doc, box)
	if err != nil {
		return rect.Rect{}, err
	}
	if len(a) != 4 {
		return rect.Rect{}, fmt.Errorf("%w: no valid page box for %s", ErrInvalidPageTree, page)
	}
	var values [4]float64
	for i, obj := range a {
		values[i], err = pdf.GetNumber(doc, obj)
		if err != nil {
			return rect.Rect{}, err
		}
	}
	return rect.Rect{
		LLx: math.Min(values[0], values[2]),
		LLy: math.Min(values[1], values[3]),
		URx: math.Max(values[0], values[2]),
		URy: math.Max(values[1], values[3]),
	}, nil
}
