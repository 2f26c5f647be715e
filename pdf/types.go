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
	"io"
	"slices"
	"strconv"
)

// Object is one of the values which can appear in the body of a PDF file.
// The implementations are [Array], [Bool], [Dict], [Integer], [Name],
// [Real], [Reference], [*Stream] and [String].  A nil Object stands for the
// PDF null object.
type Object interface {
	// PDF writes the object in PDF file syntax to w.
	PDF(w io.Writer) error
}

// Bool is a PDF boolean.
type Bool bool

// Integer is a PDF integer.
type Integer int64

// Real is a PDF real number.
type Real float64

// String is a PDF string.  The bytes are kept as they are; how they map to
// characters depends on where the string is used.
type String []byte

// Name is a PDF name, without the leading slash.
type Name string

// Array is a PDF array.
type Array []Object

// Dict is a PDF dictionary.
//
// A nil value means the same as a missing key; such entries are not
// written.  Keys are written in sorted order.
type Dict map[Name]Object

// Stream is a PDF stream.  Data holds the encoded stream contents, i.e.
// all filters listed in the dictionary are still applied.
type Stream struct {
	Dict
	Data []byte
}

// Reference identifies an indirect object.  Bits 0-31 hold the object
// number and bits 32-47 the generation number.
type Reference uint64

// NewReference combines an object number and a generation number into a
// reference.
func NewReference(number uint32, generation uint16) Reference {
	return Reference(number) | Reference(generation)<<32
}

// Number returns the object number.
func (x Reference) Number() uint32 { return uint32(x) }

// Generation returns the generation number.
func (x Reference) Generation() uint16 { return uint16(x >> 32) }

func (x Reference) String() string {
	s := "obj_" + strconv.FormatUint(uint64(x.Number()), 10)
	if gen := x.Generation(); gen != 0 {
		s += "@" + strconv.FormatUint(uint64(gen), 10)
	}
	return s
}

func (x Array) String() string {
	return fmt.Sprintf("<Array, %d elements>", len(x))
}

func (x Dict) String() string {
	kind := "Dict"
	if tp, ok := x["Type"].(Name); ok {
		kind = string(tp) + " Dict"
	}
	if len(x) == 1 {
		return "<" + kind + ", 1 entry>"
	}
	return fmt.Sprintf("<%s, %d entries>", kind, len(x))
}

func (x *Stream) String() string {
	kind := "Stream"
	if tp, ok := x.Dict["Type"].(Name); ok {
		kind = string(tp) + " Stream"
	}
	s := fmt.Sprintf("<%s, %d bytes", kind, len(x.Data))
	var filters Array
	switch f := x.Dict["Filter"].(type) {
	case Name:
		filters = Array{f}
	case Array:
		filters = f
	}
	for _, f := range filters {
		if name, ok := f.(Name); ok {
			s += ", " + string(name)
		}
	}
	return s + ">"
}

// SortedKeys returns the keys of all entries of x with a non-nil value,
// sorted.
func (x Dict) SortedKeys() []Name {
	keys := make([]Name, 0, len(x))
	for key, val := range x {
		if val != nil {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}

// PDF implements the [Object] interface.
func (x Bool) PDF(w io.Writer) error { return emit(w, x) }

// PDF implements the [Object] interface.
func (x Integer) PDF(w io.Writer) error { return emit(w, x) }

// PDF implements the [Object] interface.
func (x Real) PDF(w io.Writer) error { return emit(w, x) }

// PDF implements the [Object] interface.
func (x String) PDF(w io.Writer) error { return emit(w, x) }

// PDF implements the [Object] interface.
func (x Name) PDF(w io.Writer) error { return emit(w, x) }

// PDF implements the [Object] interface.
func (x Array) PDF(w io.Writer) error { return emit(w, x) }

// PDF implements the [Object] interface.  A nil Dict is written as null.
func (x Dict) PDF(w io.Writer) error { return emit(w, x) }

// PDF implements the [Object] interface.
//
// The /Length entry is always written as len(x.Data); the value stored in
// x.Dict is ignored and left unchanged.
func (x *Stream) PDF(w io.Writer) error { return emit(w, x) }

// PDF implements the [Object] interface.
func (x Reference) PDF(w io.Writer) error { return emit(w, x) }

// Format returns the PDF file syntax for obj.  Encoding errors are shown
// in angle brackets.
func Format(obj Object) string {
	buf, err := appendObject(nil, obj)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return string(buf)
}

func emit(w io.Writer, obj Object) error {
	buf, err := appendObject(nil, obj)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

var errBadReference = errors.New("invalid reference")

// appendObject appends the PDF file syntax for obj to buf.
func appendObject(buf []byte, obj Object) ([]byte, error) {
	var err error
	switch x := obj.(type) {
	case nil:
		buf = append(buf, "null"...)
	case Bool:
		buf = strconv.AppendBool(buf, bool(x))
	case Integer:
		buf = strconv.AppendInt(buf, int64(x), 10)
	case Real:
		start := len(buf)
		buf = strconv.AppendFloat(buf, float64(x), 'f', -1, 64)
		if !slices.Contains(buf[start:], '.') {
			buf = append(buf, '.')
		}
	case String:
		buf = appendString(buf, x)
	case Name:
		buf = appendName(buf, x)
	case Array:
		buf = append(buf, '[')
		for i, elem := range x {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf, err = appendObject(buf, elem)
			if err != nil {
				return buf, err
			}
		}
		buf = append(buf, ']')
	case Dict:
		if x == nil {
			return append(buf, "null"...), nil
		}
		buf = append(buf, "<<"...)
		for _, key := range x.SortedKeys() {
			buf = append(buf, '\n')
			buf = appendName(buf, key)
			buf = append(buf, ' ')
			buf, err = appendObject(buf, x[key])
			if err != nil {
				return buf, err
			}
		}
		buf = append(buf, "\n>>"...)
	case *Stream:
		dict := make(Dict, len(x.Dict)+1)
		for key, val := range x.Dict {
			dict[key] = val
		}
		dict["Length"] = Integer(len(x.Data))
		buf, err = appendObject(buf, dict)
		if err != nil {
			return buf, err
		}
		buf = append(buf, "\nstream\n"...)
		buf = append(buf, x.Data...)
		buf = append(buf, "\nendstream"...)
	case Reference:
		if x>>48 != 0 {
			return buf, fmt.Errorf("%w 0x%016x", errBadReference, uint64(x))
		}
		buf = strconv.AppendUint(buf, uint64(x.Number()), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendUint(buf, uint64(x.Generation()), 10)
		buf = append(buf, " R"...)
	default:
		return buf, fmt.Errorf("unsupported object type %T", obj)
	}
	return buf, nil
}

// appendName writes x with a leading slash.  Bytes which would end the
// name, or which are not printable ASCII, are written as #xx.
func appendName(buf []byte, x Name) []byte {
	buf = append(buf, '/')
	for i := 0; i < len(x); i++ {
		c := x[i]
		if c < 0x21 || c > 0x7e || c == '#' || isSpace[c] || isDelimiter[c] {
			buf = append(buf, '#', hexDigits[c>>4], hexDigits[c&15])
		} else {
			buf = append(buf, c)
		}
	}
	return buf
}

const hexDigits = "0123456789abcdef"

// appendString uses the literal (...) form unless more than a third of the
// bytes would need an escape sequence, and hex <...> otherwise.
// Parentheses only need escaping if they are unbalanced.
func appendString(buf []byte, x String) []byte {
	escParen := !parensBalanced(x)
	needsEscape := func(c byte) bool {
		return c < 32 || c == '\\' || escParen && (c == '(' || c == ')')
	}

	escapes := 0
	for _, c := range x {
		if needsEscape(c) {
			escapes++
		}
	}
	if 3*escapes > len(x) {
		buf = append(buf, '<')
		for _, c := range x {
			buf = append(buf, hexDigits[c>>4], hexDigits[c&15])
		}
		return append(buf, '>')
	}

	buf = append(buf, '(')
	for _, c := range x {
		if !needsEscape(c) {
			buf = append(buf, c)
			continue
		}
		switch c {
		case '\n':
			buf = append(buf, `\n`...)
		case '\r':
			buf = append(buf, `\r`...)
		case '\t':
			buf = append(buf, `\t`...)
		case '\b':
			buf = append(buf, `\b`...)
		case '\f':
			buf = append(buf, `\f`...)
		case '(', ')', '\\':
			buf = append(buf, '\\', c)
		default:
			buf = append(buf, '\\', '0'+c>>6, '0'+(c>>3)&7, '0'+c&7)
		}
	}
	return append(buf, ')')
}

func parensBalanced(x String) bool {
	depth := 0
	for _, c := range x {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
