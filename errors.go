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
	"errors"
	"strconv"
)

// ErrEmptySelection is returned when a page selection contains no valid
// page index.
var ErrEmptySelection = errors.New("no valid pages selected")

// CodecError indicates that an input file could not be parsed, or that the
// result could not be serialized.  The latter includes merges where the
// combined document would need more object numbers than a PDF file
// allows.
type CodecError struct {
	// Input is the zero-based index of the input file.  It is -1 for
	// errors which occurred while writing the output.
	Input int

	// Op is "parse", "merge" or "write".
	Op string

	Err error
}

func (err *CodecError) Error() string {
	msg := err.Op + ": " + err.Err.Error()
	if err.Input < 0 {
		return msg
	}
	return "input " + strconv.Itoa(err.Input) + ": " + msg
}

func (err *CodecError) Unwrap() error {
	return err.Err
}

// StructuralError indicates that a file was parsed successfully, but does
// not have the structure needed for the requested operation, for example
// because the page tree is missing.
type StructuralError struct {
	// Input is the zero-based index of the input file.
	Input int

	Err error
}

func (err *StructuralError) Error() string {
	return "input " + strconv.Itoa(err.Input) + ": invalid document structure: " + err.Err.Error()
}

func (err *StructuralError) Unwrap() error {
	return err.Err
}
