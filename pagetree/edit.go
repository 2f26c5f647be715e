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

package pagetree

import (
	"fmt"

	"seehuhn.de/go/pdfcompose/pdf"
)

// Append adds pages to the end of the document's page tree.
//
// The pages become direct children of the root node: their /Parent entries
// are updated and /Count of the root is increased by len(pages).  Attributes
// the pages inherited from their previous ancestors are stored in the pages
// themselves.  The page objects must already be present in doc.
func Append(doc *pdf.Document, pages []pdf.Reference) error {
	rootRef, root, err := Root(doc)
	if err != nil {
		return err
	}
	oldKids, err := pdf.GetArray(doc, root["Kids"])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPageTree, err)
	}
	// /Count of the root is not trusted, it may be missing or wrong.
	existing, err := Pages(doc)
	if err != nil {
		return err
	}

	newKids, err := adopt(doc, rootRef, pages)
	if err != nil {
		return err
	}
	err = isolate(doc, root, newKids)
	if err != nil {
		return err
	}

	kids := make(pdf.Array, 0, len(oldKids)+len(newKids))
	kids = append(kids, oldKids...)
	kids = append(kids, newKids...)
	root["Kids"] = kids
	root["Count"] = pdf.Integer(len(existing) + len(newKids))
	return nil
}

// isolate stores explicit values on the appended pages for inheritable
// attributes which the new root sets, but which the pages did not have
// before.  Otherwise the pages would pick up the root's values.
func isolate(doc *pdf.Document, root pdf.Dict, kids pdf.Array) error {
	for _, kid := range kids {
		page, err := pdf.GetDict(doc, kid)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPageTree, err)
		}
		for _, name := range inheritable {
			if root[name] == nil || page[name] != nil {
				continue
			}
			switch name {
			case "Rotate":
				page[name] = pdf.Integer(0)
			case "Resources":
				page[name] = pdf.Dict{}
			case "CropBox":
				// the crop box defaults to the media box
				if mediaBox := page["MediaBox"]; mediaBox != nil {
					page[name] = mediaBox
				}
			}
		}
	}
	return nil
}

// Replace makes the given pages the only pages of the document, in the
// given order.
//
// The Kids array of the root node is replaced and /Count is set to
// len(pages).  Pages and intermediate nodes not listed become unreachable.
// If a page is listed more than once, the later occurrences are replaced by
// copies of the page dictionary, so that every page object has exactly one
// parent.
func Replace(doc *pdf.Document, pages []pdf.Reference) error {
	rootRef, root, err := Root(doc)
	if err != nil {
		return err
	}

	kids, err := adopt(doc, rootRef, pages)
	if err != nil {
		return err
	}

	root["Kids"] = kids
	root["Count"] = pdf.Integer(len(kids))
	return nil
}

// adopt attaches pages to the root node rootRef.  Inherited attributes are
// materialized before the Parent links are changed.
func adopt(doc *pdf.Document, rootRef pdf.Reference, pages []pdf.Reference) (pdf.Array, error) {
	dicts := make([]pdf.Dict, len(pages))
	for i, ref := range pages {
		dict, err := pdf.GetDict(doc, ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPageTree, err)
		}
		if dict == nil {
			return nil, fmt.Errorf("%w: page %s not found", ErrInvalidPageTree, ref)
		}
		attr, err := Inherited(doc, ref)
		if err != nil {
			return nil, err
		}
		for key, val := range attr {
			dict[key] = val
		}
		dicts[i] = dict
	}

	kids := make(pdf.Array, len(pages))
	used := make(map[pdf.Reference]bool, len(pages))
	for i, ref := range pages {
		dict := dicts[i]
		if used[ref] {
			dup := make(pdf.Dict, len(dict))
			for key, val := range dict {
				dup[key] = val
			}
			dict = dup
			ref = doc.Alloc()
			doc.Put(ref, dict)
		}
		used[ref] = true

		dict["Type"] = pdf.Name("Page")
		dict["Parent"] = rootRef
		kids[i] = ref
	}
	return kids, nil
}
