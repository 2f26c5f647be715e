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

package pdf

import (
	"fmt"
)

// Document is an in-memory representation of a PDF document.
//
// All objects of the document are stored in Objects, indexed by their
// reference.  Objects refer to each other only through [Reference] values.
// A reference which has no entry in Objects refers to the null object.
type Document struct {
	// Version is the PDF version from the file header.
	Version Version

	// Trailer is the trailer dictionary.  The Root entry refers to the
	// document catalog.  Entries describing the cross-reference data
	// (Size, Prev, XRefStm, ...) are not kept.
	Trailer Dict

	// Objects maps references to indirect objects.
	Objects map[Reference]Object

	// MaxNumber is the largest object number allocated so far.
	// Fresh object numbers are allocated above this value.
	MaxNumber uint32
}

// NewDocument allocates a new, empty document.
func NewDocument(v Version) *Document {
	return &Document{
		Version: v,
		Trailer: Dict{},
		Objects: map[Reference]Object{},
	}
}

// Get returns the object stored under ref.  If no such object exists,
// the PDF null object (nil) is returned.
//
// This implements the [Getter] interface.
func (d *Document) Get(ref Reference) (Object, error) {
	return d.Objects[ref], nil
}

// Has reports whether an object is stored under ref.
func (d *Document) Has(ref Reference) bool {
	_, ok := d.Objects[ref]
	return ok
}

// Put stores obj under ref, replacing any previous object.  MaxNumber is
// raised if needed.
func (d *Document) Put(ref Reference, obj Object) {
	d.Objects[ref] = obj
	if n := ref.Number(); n > d.MaxNumber {
		d.MaxNumber = n
	}
}

// Delete removes the object stored under ref.
func (d *Document) Delete(ref Reference) {
	delete(d.Objects, ref)
}

// Alloc allocates a fresh reference which is not used by any object
// in the document.
func (d *Document) Alloc() Reference {
	d.MaxNumber++
	return NewReference(d.MaxNumber, 0)
}

// CatalogRef returns the reference to the document catalog.
func (d *Document) CatalogRef() (Reference, error) {
	ref, ok := d.Trailer["Root"].(Reference)
	if !ok {
		return 0, ErrNoCatalog
	}
	return ref, nil
}

// Catalog returns the document catalog.
func (d *Document) Catalog() (Dict, error) {
	ref, err := d.CatalogRef()
	if err != nil {
		return nil, err
	}
	catalog, err := GetDict(d, ref)
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, ErrNoCatalog
	}
	return catalog, nil
}

// Clone returns a deep copy of the document.  Stream data is shared
// between the original and the copy, since it is never modified in place.
func (d *Document) Clone() *Document {
	res := &Document{
		Version:   d.Version,
		Trailer:   deepCopy(d.Trailer).(Dict),
		Objects:   make(map[Reference]Object, len(d.Objects)),
		MaxNumber: d.MaxNumber,
	}
	for ref, obj := range d.Objects {
		res.Objects[ref] = deepCopy(obj)
	}
	return res
}

func deepCopy(obj Object) Object {
	switch x := obj.(type) {
	case Dict:
		if x == nil {
			return Dict(nil)
		}
		res := make(Dict, len(x))
		for key, val := range x {
			res[key] = deepCopy(val)
		}
		return res
	case Array:
		res := make(Array, len(x))
		for i, val := range x {
			res[i] = deepCopy(val)
		}
		return res
	case *Stream:
		return &Stream{
			Dict: deepCopy(x.Dict).(Dict),
			Data: x.Data,
		}
	case String:
		if x == nil {
			return x
		}
		res := make(String, len(x))
		copy(res, x)
		return res
	default:
		return obj
	}
}

// Getter gives access to the indirect objects of a PDF file.
type Getter interface {
	Get(Reference) (Object, error)
}

// Resolve resolves references to indirect objects.
//
// If obj is a [Reference], the corresponding object is looked up and
// returned.  If obj is not a [Reference], it is returned unchanged.  Chains
// of references are followed until a non-reference object is found.
//
// If a reference loop is encountered, the function returns an error of type
// [MalformedFileError].
func Resolve(r Getter, obj Object) (Object, error) {
	origObj := obj

	count := 0
	for {
		ref, isReference := obj.(Reference)
		if !isReference {
			break
		}
		count++
		if count > 16 {
			return nil, &MalformedFileError{
				Err: fmt.Errorf("too many levels of indirection at %s",
					origObj.(Reference)),
			}
		}

		var err error
		obj, err = r.Get(ref)
		if err != nil {
			return nil, err
		}
	}

	return obj, nil
}

func resolveAndCast[T Object](r Getter, obj Object) (x T, err error) {
	obj, err = Resolve(r, obj)
	if err != nil {
		return x, err
	}

	if obj == nil {
		return x, nil
	}

	var isCorrectType bool
	x, isCorrectType = obj.(T)
	if isCorrectType {
		return x, nil
	}

	return x, &MalformedFileError{
		Err: fmt.Errorf("expected %T but got %T", x, obj),
	}
}

// Helper functions for getting objects of a specific type.  Each of these
// functions calls Resolve on the object before attempting to convert it to the
// desired type.  If the object is `null`, a zero object is returned without
// error.  If the object is of the wrong type, an error is returned.
//
// The signature of these functions is
//
//	func GetT(r Getter, obj Object) (x T, err error)
//
// where T is the type of the object to be returned.
var (
	GetArray  = resolveAndCast[Array]
	GetBool   = resolveAndCast[Bool]
	GetDict   = resolveAndCast[Dict]
	GetInt    = resolveAndCast[Integer]
	GetName   = resolveAndCast[Name]
	GetReal   = resolveAndCast[Real]
	GetStream = resolveAndCast[*Stream]
	GetString = resolveAndCast[String]
)

// GetNumber resolves obj and returns its value as a float64.  Both
// [Integer] and [Real] objects are accepted.
func GetNumber(r Getter, obj Object) (float64, error) {
	obj, err := Resolve(r, obj)
	if err != nil {
		return 0, err
	}
	switch x := obj.(type) {
	case Integer:
		return float64(x), nil
	case Real:
		return float64(x), nil
	case nil:
		return 0, nil
	default:
		return 0, &MalformedFileError{
			Err: fmt.Errorf("expected number but got %T", obj),
		}
	}
}
