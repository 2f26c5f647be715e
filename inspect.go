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
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfcompose/pagetree"
	"seehuhn.de/go/pdfcompose/pdf"
	"seehuhn.de/go/pdfcompose/rotate"
)

// Summary describes the page structure of a PDF file.
type Summary struct {
	Version pdf.Version

	// Title is the document title from the document information
	// dictionary, or the empty string if no title is set.
	Title string

	// NumObjects is the number of indirect objects in the file.
	NumObjects int

	Pages []*PageSummary
}

// PageSummary describes one page of a PDF file.
type PageSummary struct {
	// Rotate is the rotation of the page in degrees, in the range [0, 360).
	Rotate int

	// Box is the visible area of the page in default user space,
	// before rotation.
	Box rect.Rect

	// Width and Height give the size of the page as displayed, i.e.
	// after rotation.
	Width, Height float64
}

// Inspect reads a PDF file and summarizes its pages.
func Inspect(data []byte) (*Summary, error) {
	doc, err := parse(0, data)
	if err != nil {
		return nil, err
	}

	res := &Summary{
		Version:    doc.Version,
		NumObjects: len(doc.Objects),
	}

	// A broken information dictionary is not a reason to fail.
	if info, _ := pdf.GetDict(doc, doc.Trailer["Info"]); info != nil {
		if title, _ := pdf.GetString(doc, info["Title"]); title != nil {
			res.Title = title.AsTextString()
		}
	}

	pages, err := pagetree.Pages(doc)
	if err != nil {
		return nil, &StructuralError{Err: err}
	}
	for _, p := range pages {
		box, err := pagetree.PageBox(doc, p.Ref)
		if err != nil {
			return nil, &StructuralError{Err: err}
		}
		r, err := rotate.Current(doc, p.Ref)
		if err != nil {
			return nil, &StructuralError{Err: err}
		}
		r = rotate.Normalize(r)

		ps := &PageSummary{
			Rotate: r,
			Box:    box,
			Width:  box.Dx(),
			Height: box.Dy(),
		}
		if r%180 != 0 {
			ps.Width, ps.Height = ps.Height, ps.Width
		}
		res.Pages = append(res.Pages, ps)
	}
	return res, nil
}
