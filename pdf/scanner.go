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
	"io"
	"math"
	"strconv"
)

// maxNesting limits the depth of nested arrays and dictionaries.
const maxNesting = 256

// A scanner reads PDF objects from an in-memory buffer.
type scanner struct {
	data []byte
	pos  int

	// base is added to positions in error messages.  This is non-zero
	// for scanners reading from the decoded contents of object streams.
	base int64

	// getInt is used to resolve indirect stream lengths.  If getInt is
	// nil, or fails, the end of the stream data is located by searching
	// for the "endstream" keyword.
	getInt func(Object) (Integer, error)

	depth int
}

func newScanner(data []byte, pos int, getInt func(Object) (Integer, error)) *scanner {
	return &scanner{
		data:   data,
		pos:    pos,
		getInt: getInt,
	}
}

func (s *scanner) filePos() int64 {
	return s.base + int64(s.pos)
}

func (s *scanner) malformed(format string, args ...any) error {
	return &MalformedFileError{
		Pos: s.filePos(),
		Err: fmt.Errorf(format, args...),
	}
}

// ReadIndirectObject reads an object of the form "n g obj ... endobj".
func (s *scanner) ReadIndirectObject() (Object, Reference, error) {
	// Some files point the xref entries at the end of the previous line.
	// Try to fix this up by skipping any leading white space.
	s.SkipWhiteSpace()

	number, err := s.ReadInteger()
	if err != nil {
		return nil, 0, err
	}
	s.SkipWhiteSpace()
	generation, err := s.ReadInteger()
	if err != nil {
		return nil, 0, err
	}
	if number < 0 || number > math.MaxUint32 || generation < 0 || generation > math.MaxUint16 {
		return nil, 0, s.malformed("invalid object number %d %d", number, generation)
	}
	ref := NewReference(uint32(number), uint16(generation))

	s.SkipWhiteSpace()
	err = s.SkipString("obj")
	if err != nil {
		return nil, 0, err
	}
	s.SkipWhiteSpace()

	obj, err := s.ReadObject()
	if err != nil {
		return nil, 0, err
	}
	s.SkipWhiteSpace()

	// A missing "endobj" is a common error in PDF files.  We accept the
	// object as long as the next token starts a new object or section.
	if !s.HasPrefix("endobj") {
		if s.pos < len(s.data) && !isDigit(s.data[s.pos]) &&
			!s.HasPrefix("xref") && !s.HasPrefix("trailer") {
			return nil, 0, s.malformed("expected \"endobj\"")
		}
	} else {
		s.pos += len("endobj")
	}

	return obj, ref, nil
}

// ReadObject reads the next PDF object.  Sequences of the form "n g R"
// are returned as [Reference] objects.
func (s *scanner) ReadObject() (Object, error) {
	s.SkipWhiteSpace()
	if s.pos >= len(s.data) {
		return nil, &MalformedFileError{Pos: s.filePos(), Err: io.ErrUnexpectedEOF}
	}

	c := s.data[s.pos]
	switch {
	case s.HasKeyword("null"):
		s.pos += 4
		return nil, nil
	case s.HasKeyword("true"):
		s.pos += 4
		return Bool(true), nil
	case s.HasKeyword("false"):
		s.pos += 5
		return Bool(false), nil
	case c == '/':
		return s.ReadName()
	case isDigit(c), c == '+', c == '-', c == '.':
		obj, err := s.ReadNumber()
		if err != nil {
			return nil, err
		}
		if a, isInt := obj.(Integer); isInt && a >= 0 {
			if ref, ok := s.tryReference(a); ok {
				return ref, nil
			}
		}
		return obj, nil
	case s.HasPrefix("<<"):
		dict, err := s.ReadDict()
		if err != nil {
			return nil, err
		}

		// check whether this is the start of a stream
		save := s.pos
		s.SkipWhiteSpace()
		if !s.HasKeyword("stream") {
			s.pos = save
			return dict, nil
		}
		return s.ReadStreamData(dict)
	case c == '(':
		s.pos++
		return s.ReadQuotedString()
	case c == '<':
		s.pos++
		return s.ReadHexString()
	case c == '[':
		s.pos++
		return s.ReadArray()
	}
	return nil, s.malformed("unexpected character %q", c)
}

// tryReference checks whether the integer a, which has just been read, is
// the start of a reference "a b R".  If not, the scanner position is left
// unchanged.
func (s *scanner) tryReference(a Integer) (Reference, bool) {
	save := s.pos
	s.SkipWhiteSpace()
	if s.pos == save || s.pos >= len(s.data) || !isDigit(s.data[s.pos]) {
		s.pos = save
		return 0, false
	}
	b, err := s.ReadInteger()
	if err != nil || b < 0 || b > math.MaxUint16 || a > math.MaxUint32 {
		s.pos = save
		return 0, false
	}
	s.SkipWhiteSpace()
	if !s.HasKeyword("R") {
		s.pos = save
		return 0, false
	}
	s.pos++
	return NewReference(uint32(a), uint16(b)), true
}

// ReadInteger reads an integer.
func (s *scanner) ReadInteger() (Integer, error) {
	start := s.pos
	if s.pos < len(s.data) && (s.data[s.pos] == '+' || s.data[s.pos] == '-') {
		s.pos++
	}
	for s.pos < len(s.data) && isDigit(s.data[s.pos]) {
		s.pos++
	}

	x, err := strconv.ParseInt(string(s.data[start:s.pos]), 10, 64)
	if err != nil {
		s.pos = start
		return 0, &MalformedFileError{
			Pos: s.base + int64(start),
			Err: err,
		}
	}
	return Integer(x), nil
}

// ReadNumber reads an integer or real number.
func (s *scanner) ReadNumber() (Object, error) {
	start := s.pos
	hasDot := false
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if !hasDot && c == '.' {
			hasDot = true
		} else if s.pos == start && (c == '+' || c == '-') {
			// sign
		} else if !isDigit(c) {
			break
		}
		s.pos++
	}
	res := string(s.data[start:s.pos])

	if hasDot {
		x, err := strconv.ParseFloat(res, 64)
		if err != nil {
			if res == "." || res == "-." || res == "+." {
				return Real(0), nil
			}
			return nil, &MalformedFileError{Pos: s.base + int64(start), Err: err}
		}
		return Real(x), nil
	}

	x, err := strconv.ParseInt(res, 10, 64)
	if err != nil {
		// Some writers emit integers which do not fit into 64 bits.
		f, err2 := strconv.ParseFloat(res, 64)
		if err2 != nil {
			return nil, &MalformedFileError{Pos: s.base + int64(start), Err: err}
		}
		return Real(f), nil
	}
	return Integer(x), nil
}

// ReadQuotedString reads a ()-delimited string, starting after the opening
// bracket.
func (s *scanner) ReadQuotedString() (String, error) {
	var res []byte
	parenCount := 0
	for {
		if s.pos >= len(s.data) {
			return nil, &MalformedFileError{Pos: s.filePos(), Err: io.ErrUnexpectedEOF}
		}
		c := s.data[s.pos]
		s.pos++

		switch c {
		case '\\':
			if s.pos >= len(s.data) {
				continue
			}
			c = s.data[s.pos]
			s.pos++
			switch c {
			case '\n':
				continue
			case '\r':
				if s.pos < len(s.data) && s.data[s.pos] == '\n' {
					s.pos++
				}
				continue
			case 'n':
				c = '\n'
			case 'r':
				c = '\r'
			case 't':
				c = '\t'
			case 'b':
				c = '\b'
			case 'f':
				c = '\f'
			case '0', '1', '2', '3', '4', '5', '6', '7':
				val := c - '0'
				for k := 0; k < 2 && s.pos < len(s.data); k++ {
					d := s.data[s.pos]
					if d < '0' || d > '7' {
						break
					}
					val = val*8 + (d - '0')
					s.pos++
				}
				c = val
			}
		case '(':
			parenCount++
		case ')':
			if parenCount == 0 {
				return String(res), nil
			}
			parenCount--
		case '\r':
			c = '\n'
			if s.pos < len(s.data) && s.data[s.pos] == '\n' {
				s.pos++
			}
		}
		res = append(res, c)
	}
}

// ReadHexString reads a <>-delimited string, starting after the opening
// angled bracket.
func (s *scanner) ReadHexString() (String, error) {
	var res []byte
	var hexVal byte
	first := true
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++

		var d byte
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c == '>':
			if !first {
				res = append(res, 16*hexVal)
			}
			return String(res), nil
		case isSpace[c]:
			continue
		default:
			return nil, s.malformed("invalid character %q in hex string", c)
		}
		if first {
			hexVal = d
		} else {
			res = append(res, 16*hexVal+d)
		}
		first = !first
	}
	return nil, &MalformedFileError{Pos: s.filePos(), Err: io.ErrUnexpectedEOF}
}

// ReadName reads a PDF name object.
func (s *scanner) ReadName() (Name, error) {
	err := s.SkipString("/")
	if err != nil {
		return "", err
	}

	var res []byte
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if isSpace[c] || isDelimiter[c] {
			break
		}
		s.pos++
		if c == '#' && s.pos+1 < len(s.data) {
			hi, ok1 := hexDigit(s.data[s.pos])
			lo, ok2 := hexDigit(s.data[s.pos+1])
			if ok1 && ok2 {
				c = hi<<4 | lo
				s.pos += 2
			}
		}
		res = append(res, c)
	}

	return Name(res), nil
}

// ReadArray reads an array, starting after the opening "[".
func (s *scanner) ReadArray() (Array, error) {
	s.depth++
	defer func() { s.depth-- }()
	if s.depth > maxNesting {
		return nil, s.malformed("arrays nested too deeply")
	}

	array := Array{}
	for {
		s.SkipWhiteSpace()
		if s.pos >= len(s.data) {
			return nil, &MalformedFileError{Pos: s.filePos(), Err: io.ErrUnexpectedEOF}
		}
		if s.data[s.pos] == ']' {
			s.pos++
			return array, nil
		}

		obj, err := s.ReadObject()
		if err != nil {
			return nil, err
		}
		array = append(array, obj)
	}
}

// ReadDict reads a PDF dictionary.
func (s *scanner) ReadDict() (Dict, error) {
	s.depth++
	defer func() { s.depth-- }()
	if s.depth > maxNesting {
		return nil, s.malformed("dictionaries nested too deeply")
	}

	err := s.SkipString("<<")
	if err != nil {
		return nil, err
	}

	dict := Dict{}
	for {
		s.SkipWhiteSpace()
		if s.HasPrefix(">>") {
			s.pos += 2
			return dict, nil
		}
		if s.pos >= len(s.data) {
			return nil, &MalformedFileError{Pos: s.filePos(), Err: io.ErrUnexpectedEOF}
		}

		key, err := s.ReadName()
		if err != nil {
			return nil, err
		}
		val, err := s.ReadObject()
		if err != nil {
			return nil, err
		}
		if val != nil {
			dict[key] = val
		}
	}
}

// ReadStreamData reads the data of a PDF Stream, starting after the Dict.
func (s *scanner) ReadStreamData(dict Dict) (*Stream, error) {
	err := s.SkipString("stream")
	if err != nil {
		return nil, err
	}

	// The keyword should be followed by CRLF or LF.  Some writers use
	// a single CR.
	if s.HasPrefix("\r\n") {
		s.pos += 2
	} else if s.HasPrefix("\n") || s.HasPrefix("\r") {
		s.pos++
	}
	start := s.pos

	end := -1
	if length, ok := s.streamLength(dict["Length"]); ok {
		candidate := start + length
		if candidate <= len(s.data) {
			save := s.pos
			s.pos = candidate
			s.SkipWhiteSpace()
			if s.HasPrefix("endstream") {
				end = candidate
			}
			s.pos = save
		}
	}
	if end < 0 {
		// fall back to searching for the end of the stream
		idx := bytes.Index(s.data[start:], []byte("endstream"))
		if idx < 0 {
			return nil, s.malformed("missing \"endstream\"")
		}
		end = start + idx
		if end > start && s.data[end-1] == '\n' {
			end--
		}
		if end > start && s.data[end-1] == '\r' {
			end--
		}
	}

	s.pos = end
	s.SkipWhiteSpace()
	err = s.SkipString("endstream")
	if err != nil {
		return nil, err
	}

	return &Stream{
		Dict: dict,
		Data: s.data[start:end:end],
	}, nil
}

func (s *scanner) streamLength(obj Object) (int, bool) {
	if obj == nil {
		return 0, false
	}
	length, isInt := obj.(Integer)
	if !isInt {
		if s.getInt == nil {
			return 0, false
		}
		var err error
		length, err = s.getInt(obj)
		if err != nil {
			return 0, false
		}
	}
	if length < 0 || int64(length) > int64(len(s.data)) {
		return 0, false
	}
	return int(length), true
}

func (s *scanner) readHeaderVersion() (Version, error) {
	idx := bytes.Index(s.data[:min(len(s.data), 1024)], []byte("%PDF-"))
	if idx < 0 {
		return 0, &MalformedFileError{
			Err: errors.New("PDF header not found"),
		}
	}
	s.pos = idx + 5
	verEnd := s.pos
	for verEnd < len(s.data) && (isDigit(s.data[verEnd]) || s.data[verEnd] == '.') {
		verEnd++
	}
	version, err := ParseVersion(string(s.data[s.pos:verEnd]))
	if err != nil {
		return 0, &MalformedFileError{Pos: int64(s.pos), Err: err}
	}
	s.pos = verEnd
	return version, nil
}

// HasPrefix reports whether the unread input starts with pat.
func (s *scanner) HasPrefix(pat string) bool {
	return bytes.HasPrefix(s.data[s.pos:], []byte(pat))
}

// HasKeyword reports whether the unread input starts with the keyword pat,
// followed by a delimiter, white space or the end of input.
func (s *scanner) HasKeyword(pat string) bool {
	if !s.HasPrefix(pat) {
		return false
	}
	next := s.pos + len(pat)
	return next >= len(s.data) || isSpace[s.data[next]] || isDelimiter[s.data[next]]
}

func (s *scanner) SkipWhiteSpace() {
	isComment := false
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if isComment {
			if c == '\r' || c == '\n' {
				isComment = false
			}
		} else if c == '%' {
			isComment = true
		} else if !isSpace[c] {
			return
		}
		s.pos++
	}
}

func (s *scanner) SkipString(pat string) error {
	if !s.HasPrefix(pat) {
		n := min(len(pat), len(s.data)-s.pos)
		return s.malformed("expected %q but found %q", pat, string(s.data[s.pos:s.pos+n]))
	}
	s.pos += len(pat)
	return nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

var (
	isSpace = [256]bool{
		0:  true,
		9:  true,
		10: true,
		12: true,
		13: true,
		32: true,
	}
	isDelimiter = [256]bool{
		'(': true,
		')': true,
		'<': true,
		'>': true,
		'[': true,
		']': true,
		'{': true,
		'}': true,
		'/': true,
		'%': true,
	}
)
