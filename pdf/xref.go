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
	"bytes"
	"errors"
	"fmt"
	"math"
	"regexp"
)

type xRefEntry struct {
	// InStream is the object stream containing the object, or 0 for
	// objects stored directly in the file.
	InStream Reference

	// Pos is the byte offset of the object in the file, or the index
	// within the object stream.  Free entries have Pos < 0.
	Pos        int64
	Generation uint16
}

func (entry *xRefEntry) IsFree() bool {
	return entry == nil || entry.Pos < 0
}

type xRefSubSection struct {
	Start, Size int
}

func (r *reader) findXRef() (int, error) {
	idx := bytes.LastIndex(r.data, []byte("startxref"))
	if idx < 0 {
		return 0, &MalformedFileError{
			Err: errors.New("startxref not found"),
		}
	}
	s := newScanner(r.data, idx+len("startxref"), nil)
	s.SkipWhiteSpace()
	xRefPos, err := s.ReadInteger()
	if err != nil {
		return 0, err
	}

	if xRefPos <= 0 || int64(xRefPos) >= int64(len(r.data)) {
		return 0, &MalformedFileError{
			Pos: s.filePos(),
			Err: errors.New("invalid xref position"),
		}
	}

	return int(xRefPos), nil
}

// readXRef reads the cross-reference data of the file, following the
// chain of Prev links.  Entries from newer sections take precedence.
func (r *reader) readXRef() (map[uint32]*xRefEntry, Dict, error) {
	start, err := r.findXRef()
	if err != nil {
		return nil, nil, err
	}

	xref := make(map[uint32]*xRefEntry)
	trailer := Dict{}
	seen := make(map[int]bool)
	for {
		// avoid xref loops
		if seen[start] {
			break
		}
		seen[start] = true

		s := newScanner(r.data, start, nil)
		s.SkipWhiteSpace()

		var dict Dict
		if s.HasPrefix("xref") {
			dict, err = readXRefTable(xref, s)
			if err != nil {
				return nil, nil, err
			}

			// hybrid-reference files
			if xRefStm, ok := dict["XRefStm"].(Integer); ok {
				if xRefStm <= 0 || int64(xRefStm) >= int64(len(r.data)) {
					return nil, nil, &MalformedFileError{
						Err: errors.New("invalid XRefStm position"),
					}
				}
				_, err = readXRefStream(xref, newScanner(r.data, int(xRefStm), nil))
				if err != nil {
					return nil, nil, err
				}
			}
		} else {
			dict, err = readXRefStream(xref, s)
			if err != nil {
				return nil, nil, err
			}
		}

		for _, key := range []Name{"Root", "Encrypt", "Info", "ID"} {
			if _, ok := trailer[key]; ok {
				continue
			}
			if val, ok := dict[key]; ok {
				trailer[key] = val
			}
		}

		prev := dict["Prev"]
		if prev == nil {
			break
		}
		prevStart, ok := prev.(Integer)
		if !ok || prevStart <= 0 || int64(prevStart) >= int64(len(r.data)) {
			return nil, nil, &MalformedFileError{
				Pos: int64(start),
				Err: fmt.Errorf("invalid /Prev value %s", Format(prev)),
			}
		}
		start = int(prevStart)
	}

	return xref, trailer, nil
}

func readXRefTable(xref map[uint32]*xRefEntry, s *scanner) (Dict, error) {
	err := s.SkipString("xref")
	if err != nil {
		return nil, err
	}

	for {
		s.SkipWhiteSpace()
		if s.pos >= len(s.data) || !isDigit(s.data[s.pos]) {
			break
		}

		start, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		s.SkipWhiteSpace()
		length, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		if start < 0 || length < 0 || start+length > math.MaxUint32 {
			return nil, s.malformed("invalid xref subsection %d %d", start, length)
		}

		err = decodeXRefSection(xref, s, uint32(start), uint32(start+length))
		if err != nil {
			return nil, err
		}
	}

	err = s.SkipString("trailer")
	if err != nil {
		return nil, err
	}
	s.SkipWhiteSpace()
	return s.ReadDict()
}

// decodeXRefSection reads the entries of one xref subsection.  Entries
// are read token by token, since many files do not use the prescribed
// 20-byte layout.
func decodeXRefSection(xref map[uint32]*xRefEntry, s *scanner, start, end uint32) error {
	for i := start; i < end; i++ {
		s.SkipWhiteSpace()
		a, err := s.ReadInteger()
		if err != nil {
			return err
		}
		s.SkipWhiteSpace()
		b, err := s.ReadInteger()
		if err != nil {
			return err
		}
		s.SkipWhiteSpace()
		if s.pos >= len(s.data) {
			return s.malformed("truncated xref table")
		}
		c := s.data[s.pos]
		s.pos++

		if xref[i] != nil {
			continue
		}

		// fix a common error in some PDF files
		if b > math.MaxUint16 {
			b = math.MaxUint16
			c = 'f'
		}

		switch c {
		case 'f':
			xref[i] = &xRefEntry{
				Pos:        -1,
				Generation: uint16(b),
			}
		case 'n':
			xref[i] = &xRefEntry{
				Pos:        int64(a),
				Generation: uint16(b),
			}
		default:
			return s.malformed("malformed xref table")
		}
	}
	return nil
}

func readXRefStream(xref map[uint32]*xRefEntry, s *scanner) (Dict, error) {
	obj, _, err := s.ReadIndirectObject()
	if err != nil {
		return nil, err
	}
	stream, ok := obj.(*Stream)
	if !ok {
		return nil, s.malformed("invalid xref stream")
	}
	dict := stream.Dict

	w, ss, err := checkXRefStreamDict(dict)
	if err != nil {
		return nil, err
	}
	data, err := stream.Decode(nullGetter{})
	if err != nil {
		return nil, &MalformedFileError{Pos: s.filePos(), Err: err}
	}
	err = decodeXRefStream(xref, data, w, ss)
	if err != nil {
		return nil, err
	}

	return dict, nil
}

func checkXRefStreamDict(dict Dict) ([]int, []*xRefSubSection, error) {
	size, ok := dict["Size"].(Integer)
	if !ok || size < 0 {
		return nil, nil, &MalformedFileError{Err: errors.New("invalid /Size in xref stream")}
	}
	W, ok := dict["W"].(Array)
	if !ok || len(W) < 3 {
		return nil, nil, &MalformedFileError{Err: errors.New("invalid /W in xref stream")}
	}
	var w []int
	for _, Wi := range W[:3] {
		wi, ok := Wi.(Integer)
		if !ok || wi < 0 || wi > 8 {
			return nil, nil, &MalformedFileError{Err: errors.New("invalid /W in xref stream")}
		}
		w = append(w, int(wi))
	}

	var ss []*xRefSubSection
	switch ind := dict["Index"].(type) {
	case nil:
		ss = append(ss, &xRefSubSection{0, int(size)})
	case Array:
		if len(ind)%2 != 0 {
			return nil, nil, &MalformedFileError{Err: errors.New("invalid /Index in xref stream")}
		}
		for i := 0; i < len(ind); i += 2 {
			start, ok1 := ind[i].(Integer)
			size, ok2 := ind[i+1].(Integer)
			if !ok1 || !ok2 || start < 0 || size < 0 || start+size > math.MaxUint32 {
				return nil, nil, &MalformedFileError{Err: errors.New("invalid /Index in xref stream")}
			}
			ss = append(ss, &xRefSubSection{int(start), int(size)})
		}
	default:
		return nil, nil, &MalformedFileError{Err: errors.New("invalid /Index in xref stream")}
	}
	return w, ss, nil
}

func decodeXRefStream(xref map[uint32]*xRefEntry, data []byte, w []int, ss []*xRefSubSection) error {
	w0, w1, w2 := w[0], w[1], w[2]
	rowLen := w0 + w1 + w2
	if rowLen == 0 {
		return &MalformedFileError{Err: errors.New("invalid /W in xref stream")}
	}

	for _, sec := range ss {
		for i := sec.Start; i < sec.Start+sec.Size; i++ {
			if len(data) < rowLen {
				// tolerate truncated xref streams
				return nil
			}
			buf := data[:rowLen]
			data = data[rowLen:]

			number := uint32(i)
			if xref[number] != nil {
				continue
			}

			tp := decodeInt(buf[:w0])
			if w0 == 0 {
				tp = 1
			}
			a := decodeInt(buf[w0 : w0+w1])
			b := decodeInt(buf[w0+w1 : rowLen])
			switch tp {
			case 0:
				// free/deleted object
				xref[number] = &xRefEntry{
					Pos:        -1,
					Generation: uint16(b),
				}
			case 1:
				// used object, not compressed
				xref[number] = &xRefEntry{
					Pos:        a,
					Generation: uint16(b),
				}
			case 2:
				// used object, compressed
				// a = object number of the object stream
				// b = index within the stream
				if a < 0 || a > math.MaxUint32 {
					continue
				}
				xref[number] = &xRefEntry{
					Pos:      b,
					InStream: NewReference(uint32(a), 0),
				}
			}
		}
	}
	return nil
}

func decodeInt(buf []byte) (res int64) {
	for _, x := range buf {
		res = res<<8 | int64(x)
	}
	return res
}

var objHeader = regexp.MustCompile(`(?m)(?:^|[\r\n\s])(\d{1,10})[ \t\r\n\f\x00]+(\d{1,5})[ \t\r\n\f\x00]+obj\b`)

// reconstructXRef rebuilds the cross-reference data by scanning the whole
// file for object headers.  This is used if the xref data of a file is
// missing or damaged.  Later definitions of an object override earlier
// ones, as they would in an incremental update.
func (r *reader) reconstructXRef() (map[uint32]*xRefEntry, Dict) {
	xref := make(map[uint32]*xRefEntry)
	for _, m := range objHeader.FindAllSubmatchIndex(r.data, -1) {
		number, ok1 := parseUint(r.data[m[2]:m[3]], math.MaxUint32)
		gen, ok2 := parseUint(r.data[m[4]:m[5]], math.MaxUint16)
		if !ok1 || !ok2 {
			continue
		}
		xref[uint32(number)] = &xRefEntry{
			Pos:        int64(m[2]),
			Generation: uint16(gen),
		}
	}

	// Collect the trailer entries from all trailer dictionaries, newest
	// first.
	trailer := Dict{}
	pos := len(r.data)
	for pos > 0 {
		idx := bytes.LastIndex(r.data[:pos], []byte("trailer"))
		if idx < 0 {
			break
		}
		pos = idx
		s := newScanner(r.data, idx+len("trailer"), nil)
		s.SkipWhiteSpace()
		dict, err := s.ReadDict()
		if err != nil {
			continue
		}
		for _, key := range []Name{"Root", "Encrypt", "Info", "ID"} {
			if _, ok := trailer[key]; ok {
				continue
			}
			if val, ok := dict[key]; ok {
				trailer[key] = val
			}
		}
	}

	// Objects stored inside object streams have no header of their own.
	r.reset(xref)
	for number, entry := range xref {
		obj, err := r.getDirect(NewReference(number, entry.Generation), entry)
		if err != nil {
			continue
		}
		stm, ok := obj.(*Stream)
		if !ok {
			continue
		}
		switch stm.Dict["Type"] {
		case Name("ObjStm"):
			contents, err := r.parseObjStm(stm)
			if err != nil {
				continue
			}
			for i, info := range contents.idx {
				if _, seen := xref[info.number]; seen {
					continue
				}
				xref[info.number] = &xRefEntry{
					Pos:      int64(i),
					InStream: NewReference(number, 0),
				}
			}
		case Name("XRef"):
			for _, key := range []Name{"Root", "Encrypt", "Info", "ID"} {
				if _, ok := trailer[key]; ok {
					continue
				}
				if val, ok := stm.Dict[key]; ok {
					trailer[key] = val
				}
			}
		}
	}

	return xref, trailer
}

func parseUint(buf []byte, limit uint64) (uint64, bool) {
	var x uint64
	for _, c := range buf {
		x = 10*x + uint64(c-'0')
		if x > limit {
			return 0, false
		}
	}
	return x, true
}

type nullGetter struct{}

func (nullGetter) Get(Reference) (Object, error) {
	return nil, nil
}
