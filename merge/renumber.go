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

package merge

import (
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/pdfcompose/pdf"
)

// ErrOverflow indicates that the object numbers of the merged document
// would exceed the largest object number allowed in PDF files.
var ErrOverflow = errors.New("object numbers exhausted")

// Offset returns the amount by which the object numbers of src must be
// shifted, so that they do not collide with the object numbers used in
// dst.  This takes into account both the objects present in dst and
// references in dst to objects which do not exist.  If src contains no
// objects, or if dst already uses the largest possible object number,
// 0 is returned.
func Offset(dst, src *pdf.Document) uint32 {
	if len(src.Objects) == 0 {
		return 0
	}
	top := Highest(dst)
	if top == math.MaxUint32 {
		return 0
	}
	return top + 1
}

// Highest returns the largest object number which occurs in doc, either
// as the number of an object, or inside a reference.
func Highest(doc *pdf.Document) uint32 {
	top := doc.MaxNumber
	var scan func(obj pdf.Object)
	scan = func(obj pdf.Object) {
		switch x := obj.(type) {
		case pdf.Reference:
			top = max(top, x.Number())
		case pdf.Dict:
			for _, val := range x {
				scan(val)
			}
		case pdf.Array:
			for _, val := range x {
				scan(val)
			}
		case *pdf.Stream:
			scan(x.Dict)
		}
	}
	for ref, obj := range doc.Objects {
		top = max(top, ref.Number())
		scan(obj)
	}
	scan(doc.Trailer)
	return top
}

// Renumber adds offset to the object number of every object in doc.
// All references inside objects and in the trailer are updated
// accordingly, at any nesting depth.  Generation numbers are kept.
//
// Afterwards, doc.MaxNumber is at least as large as every object number
// used in doc, including the numbers of dangling references.
func Renumber(doc *pdf.Document, offset uint32) error {
	if offset == 0 {
		return nil
	}
	top := Highest(doc)
	if uint64(top)+uint64(offset) > math.MaxUint32 {
		return fmt.Errorf("%w: cannot add offset %d to object number %d",
			ErrOverflow, offset, top)
	}

	r := renumberer{offset: offset}
	objects := make(map[pdf.Reference]pdf.Object, len(doc.Objects))
	for ref, obj := range doc.Objects {
		objects[r.Reference(ref)] = r.Copy(obj)
	}
	doc.Objects = objects
	doc.Trailer = r.Dict(doc.Trailer)
	doc.MaxNumber = top + offset
	return nil
}

// A renumberer copies objects, shifting the object numbers of all
// references it encounters.
type renumberer struct {
	offset uint32
}

// Copy returns a copy of obj with all references translated.
// Containers are copied, scalar objects are returned unchanged.
func (r renumberer) Copy(obj pdf.Object) pdf.Object {
	switch x := obj.(type) {
	case pdf.Dict:
		return r.Dict(x)
	case pdf.Array:
		return r.Array(x)
	case *pdf.Stream:
		return &pdf.Stream{
			Dict: r.Dict(x.Dict),
			Data: x.Data,
		}
	case pdf.Reference:
		return r.Reference(x)
	default:
		return obj
	}
}

// Dict copies a dictionary, translating all references.
func (r renumberer) Dict(obj pdf.Dict) pdf.Dict {
	if obj == nil {
		return nil
	}
	res := make(pdf.Dict, len(obj))
	for key, val := range obj {
		res[key] = r.Copy(val)
	}
	return res
}

// Array copies an array, translating all references.
func (r renumberer) Array(obj pdf.Array) pdf.Array {
	res := make(pdf.Array, len(obj))
	for i, val := range obj {
		res[i] = r.Copy(val)
	}
	return res
}

// Reference translates a single reference.
func (r renumberer) Reference(ref pdf.Reference) pdf.Reference {
	return pdf.NewReference(ref.Number()+r.offset, ref.Generation())
}
