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

// Package merge combines the object graphs of two PDF documents.
//
// The objects of the source document are renumbered so that their object
// numbers do not collide with those of the target document, and are then
// added to the target.  The pages of the source are appended to the page
// tree of the target, in their original order.  Objects of the source
// which are no longer needed (its catalog, information dictionary and page
// tree nodes) remain in the target until they are removed with
// walker.Prune.
package merge

import (
	"seehuhn.de/go/pdfcompose/pagetree"
	"seehuhn.de/go/pdfcompose/pdf"
)

// Merge adds all objects and pages of src to dst.
//
// src is renumbered in place and must not be used afterwards.  If src
// contains no objects, dst is left unchanged.  If the object numbers
// would exceed the limit of the PDF format, an error wrapping
// [ErrOverflow] is returned.  The PDF version of dst
// is raised to the version of src, if needed.
func Merge(dst, src *pdf.Document) error {
	if len(src.Objects) == 0 {
		return nil
	}
	offset := Offset(dst, src)
	if offset == 0 {
		return ErrOverflow
	}

	err := Renumber(src, offset)
	if err != nil {
		return err
	}

	// The page order must be recorded before the objects are combined.
	pages, err := pagetree.Pages(src)
	if err != nil {
		return err
	}
	refs := make([]pdf.Reference, len(pages))
	for i, p := range pages {
		refs[i] = p.Ref
	}

	for ref, obj := range src.Objects {
		dst.Put(ref, obj)
	}
	if src.MaxNumber > dst.MaxNumber {
		dst.MaxNumber = src.MaxNumber
	}
	if src.Version > dst.Version {
		dst.Version = src.Version
	}

	return pagetree.Append(dst, refs)
}
