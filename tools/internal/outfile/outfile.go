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

// Package outfile opens the output files of the command line tools.
package outfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrTerminal is returned when binary output would be written to a
// terminal.
var ErrTerminal = errors.New("refusing to write PDF data to a terminal")

// Open opens the output file for writing.  If name is "-", os.Stdout is
// returned, unless standard output is a terminal.  Otherwise, the file is
// opened with overwrite protection unless force is set.
//
// The returned closer is nil for standard output.
func Open(name string, force bool) (io.Writer, io.Closer, error) {
	if name == "-" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, nil, ErrTerminal
		}
		return os.Stdout, nil, nil
	}

	flags := os.O_WRONLY | os.O_CREATE
	if force {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(name, flags, 0666)
	if err != nil {
		if os.IsExist(err) {
			return nil, nil, fmt.Errorf("file %s already exists (use -f to overwrite)", name)
		}
		return nil, nil, err
	}
	return file, file, nil
}

// Write stores data in the named output file.  If writing fails, a
// partially written file is removed.
func Write(name string, force bool, data []byte) error {
	w, closer, err := Open(name, force)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	if closer != nil {
		closeErr := closer.Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			os.Remove(name)
		}
	}
	return err
}

// ReadInput reads an input file.  The name "-" denotes standard input.
func ReadInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}
