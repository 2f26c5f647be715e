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

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// AsTextString interprets x as a PDF "text string" and returns
// the corresponding utf-8 encoded string.
//
// Strings starting with a UTF-16 or UTF-8 byte order mark are decoded
// accordingly.  All other strings are treated as PDFDocEncoding, which
// is approximated by ISO 8859-1.
func (x String) AsTextString() string {
	switch {
	case bytes.HasPrefix(x, []byte{0xFE, 0xFF}):
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		res, err := dec.Bytes(x)
		if err == nil {
			return string(res)
		}
	case bytes.HasPrefix(x, []byte{0xEF, 0xBB, 0xBF}):
		return string(x[3:])
	}

	res, err := charmap.ISO8859_1.NewDecoder().Bytes(x)
	if err != nil {
		return string(x)
	}
	return string(res)
}

// TextString encodes s as a PDF "text string".  ISO 8859-1 is used
// where possible, and UTF-16 with a byte order mark otherwise.
func TextString(s string) String {
	if res, err := charmap.ISO8859_1.NewEncoder().String(s); err == nil {
		return String(res)
	}

	enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	res, err := enc.String(s)
	if err != nil {
		return String(s)
	}
	return String(res)
}
