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
	"errors"
	"fmt"
	"slices"

	"golang.org/x/exp/maps"
)

// ReaderOptions control how a PDF file is read.
type ReaderOptions struct {
	// Strict disables the recovery from damaged cross-reference data.
	// By default, the cross-reference table is reconstructed by scanning
	// the file if the stored table cannot be used.
	Strict bool
}

var defaultReaderOptions = &ReaderOptions{}

type reader struct {
	data []byte
	xref map[uint32]*xRefEntry

	cache   map[Reference]Object
	objStms map[Reference]*objStm
	loading map[Reference]bool
}

// Read reads a complete PDF document into memory.
//
// Stream data in the returned document refers to the memory of data,
// so data must not be modified afterwards.  Object streams and
// cross-reference streams are dissolved: the objects they contain are
// stored as individual objects in the document.
func Read(data []byte, opt *ReaderOptions) (*Document, error) {
	if opt == nil {
		opt = defaultReaderOptions
	}

	s := newScanner(data, 0, nil)
	version, err := s.readHeaderVersion()
	if err != nil {
		return nil, err
	}

	r := &reader{data: data}

	xref, trailer, err := r.readXRef()
	if err == nil {
		var doc *Document
		doc, err = r.load(version, xref, trailer)
		if err == nil {
			return doc, nil
		}
	}
	if opt.Strict || errors.Is(err, ErrEncrypted) {
		return nil, err
	}

	r.reset(nil)
	xref, trailer = r.reconstructXRef()
	doc, err2 := r.load(version, xref, trailer)
	if err2 != nil {
		// report the original problem, which is usually more informative
		return nil, err
	}
	return doc, nil
}

func (r *reader) reset(xref map[uint32]*xRefEntry) {
	r.xref = xref
	r.cache = make(map[Reference]Object)
	r.objStms = make(map[Reference]*objStm)
	r.loading = make(map[Reference]bool)
}

// load reads all objects listed in xref.
func (r *reader) load(version Version, xref map[uint32]*xRefEntry, trailer Dict) (*Document, error) {
	if trailer["Encrypt"] != nil {
		return nil, ErrEncrypted
	}

	r.reset(xref)
	doc := NewDocument(version)

	numbers := maps.Keys(xref)
	slices.Sort(numbers)
	for _, number := range numbers {
		entry := xref[number]
		if entry.IsFree() || number == 0 {
			continue
		}
		ref := NewReference(number, entry.Generation)
		obj, err := r.Get(ref)
		if err != nil {
			return nil, err
		}
		if stm, isStream := obj.(*Stream); isStream {
			tp := stm.Dict["Type"]
			if tp == Name("ObjStm") || tp == Name("XRef") {
				continue
			}
		}
		if obj == nil {
			continue
		}
		doc.Put(ref, obj)
	}

	for _, key := range []Name{"Root", "Info", "ID"} {
		if val, ok := trailer[key]; ok {
			doc.Trailer[key] = val
		}
	}

	if _, ok := doc.Trailer["Root"].(Reference); !ok {
		root, found := findCatalog(doc)
		if !found {
			return nil, &MalformedFileError{Err: ErrNoCatalog}
		}
		doc.Trailer["Root"] = root
	}

	return doc, nil
}

// findCatalog searches the document for an object with /Type /Catalog.
// The object with the highest number wins.
func findCatalog(doc *Document) (Reference, bool) {
	var res Reference
	found := false
	for ref, obj := range doc.Objects {
		dict, ok := obj.(Dict)
		if !ok || dict["Type"] != Name("Catalog") {
			continue
		}
		if !found || ref.Number() > res.Number() {
			res = ref
			found = true
		}
	}
	return res, found
}

// Get reads the object with the given reference from the file.
// This implements the [Getter] interface.
func (r *reader) Get(ref Reference) (Object, error) {
	if obj, ok := r.cache[ref]; ok {
		return obj, nil
	}

	entry := r.xref[ref.Number()]
	if entry.IsFree() {
		return nil, nil
	}

	// guard against loops, e.g. via indirect stream lengths
	if r.loading[ref] {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("circular reference to %s", ref),
		}
	}
	r.loading[ref] = true
	defer delete(r.loading, ref)

	var obj Object
	var err error
	if entry.InStream != 0 {
		if ref.Generation() != 0 {
			return nil, nil
		}
		obj, err = r.getFromObjectStream(ref.Number(), entry)
	} else {
		if entry.Generation != ref.Generation() {
			return nil, nil
		}
		obj, err = r.getDirect(ref, entry)
	}
	if err != nil {
		return nil, err
	}

	r.cache[ref] = obj
	return obj, nil
}

func (r *reader) getDirect(ref Reference, entry *xRefEntry) (Object, error) {
	if entry.InStream != 0 || entry.Pos < 0 || entry.Pos >= int64(len(r.data)) {
		return nil, &MalformedFileError{
			Pos: entry.Pos,
			Err: fmt.Errorf("invalid file offset for %s", ref),
		}
	}

	s := newScanner(r.data, int(entry.Pos), r.getInt)
	obj, fileRef, err := s.ReadIndirectObject()
	if err != nil {
		return nil, err
	}
	if fileRef != ref {
		return nil, &MalformedFileError{
			Pos: entry.Pos,
			Err: fmt.Errorf("xref corrupted: found %s instead of %s", fileRef, ref),
		}
	}
	return obj, nil
}

func (r *reader) getInt(obj Object) (Integer, error) {
	obj, err := Resolve(r, obj)
	if err != nil {
		return 0, err
	}
	x, ok := obj.(Integer)
	if !ok {
		return 0, &MalformedFileError{
			Err: fmt.Errorf("expected Integer but got %T", obj),
		}
	}
	return x, nil
}

type objStm struct {
	data []byte
	idx  []stmObj
}

type stmObj struct {
	number uint32
	offs   int
}

func (r *reader) parseObjStm(stream *Stream) (*objStm, error) {
	N, ok := stream.Dict["N"].(Integer)
	if !ok || N < 0 || N > 1_000_000 {
		return nil, &MalformedFileError{
			Err: errors.New("no valid /N for ObjStm"),
		}
	}
	n := int(N)

	decoded, err := stream.Decode(r)
	if err != nil {
		return nil, &MalformedFileError{Err: err}
	}
	s := newScanner(decoded, 0, nil)

	idx := make([]stmObj, n)
	for i := range n {
		s.SkipWhiteSpace()
		no, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		s.SkipWhiteSpace()
		offs, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		if no < 0 || int64(no) > int64(^uint32(0)) || offs < 0 {
			return nil, &MalformedFileError{
				Err: errors.New("invalid ObjStm header"),
			}
		}
		idx[i].number = uint32(no)
		idx[i].offs = int(offs)
	}

	first, ok := stream.Dict["First"].(Integer)
	if !ok || first < Integer(s.pos) || int(first) > len(decoded) {
		return nil, &MalformedFileError{
			Err: errors.New("no valid /First for ObjStm"),
		}
	}
	for i := range idx {
		idx[i].offs += int(first)
		if idx[i].offs > len(decoded) {
			return nil, &MalformedFileError{
				Err: errors.New("invalid offset in ObjStm"),
			}
		}
	}

	return &objStm{data: decoded, idx: idx}, nil
}

func (r *reader) getFromObjectStream(number uint32, entry *xRefEntry) (Object, error) {
	sRef := entry.InStream
	contents, ok := r.objStms[sRef]
	if !ok {
		sEntry := r.xref[sRef.Number()]
		if sEntry.IsFree() || sEntry.InStream != 0 {
			return nil, &MalformedFileError{
				Err: fmt.Errorf("invalid object stream %s", sRef),
			}
		}
		container, err := r.Get(sRef)
		if err != nil {
			return nil, err
		}
		stream, isStream := container.(*Stream)
		if !isStream {
			return nil, &MalformedFileError{
				Err: fmt.Errorf("wrong type for object stream %s", sRef),
			}
		}
		contents, err = r.parseObjStm(stream)
		if err != nil {
			return nil, err
		}
		r.objStms[sRef] = contents
	}

	// The xref entry gives the index of the object inside the stream.
	// If this does not match, fall back to searching by number.
	k := -1
	if i := int(entry.Pos); i >= 0 && i < len(contents.idx) && contents.idx[i].number == number {
		k = i
	} else {
		for i, info := range contents.idx {
			if info.number == number {
				k = i
				break
			}
		}
	}
	if k < 0 {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("object %d missing from object stream %s", number, sRef),
		}
	}

	start := contents.idx[k].offs
	end := len(contents.data)
	if k+1 < len(contents.idx) && contents.idx[k+1].offs >= start {
		end = contents.idx[k+1].offs
	}
	s := newScanner(contents.data[:end], start, nil)
	return s.ReadObject()
}
