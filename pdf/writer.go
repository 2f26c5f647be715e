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
	"cmp"
	"fmt"
	"io"
	"math/bits"
	"slices"

	"golang.org/x/exp/maps"
)

// WriterOptions control how a document is written.
type WriterOptions struct {
	// Version, if non-zero, overrides the version stored in the document.
	Version Version

	// XRefTable forces a classic cross-reference table, even for
	// PDF versions which support cross-reference streams.
	XRefTable bool
}

// Write writes doc as a complete PDF file to w.
//
// Objects are written in order of increasing object number.  For PDF
// version 1.5 and newer a compressed cross-reference stream is used,
// older versions get a cross-reference table.
func Write(w io.Writer, doc *Document, opt *WriterOptions) error {
	if opt == nil {
		opt = &WriterOptions{}
	}
	ver := doc.Version
	if opt.Version != 0 {
		ver = opt.Version
	}
	verString, err := ver.ToString()
	if err != nil {
		return err
	}

	root, err := doc.CatalogRef()
	if err != nil {
		return err
	}

	out := &posWriter{w: w}
	_, err = fmt.Fprintf(out, "%%PDF-%s\n%%\x80\x80\x80\x80\n", verString)
	if err != nil {
		return err
	}

	refs := maps.Keys(doc.Objects)
	slices.SortFunc(refs, func(a, b Reference) int {
		return cmp.Compare(a.Number(), b.Number())
	})

	xref := make(map[uint32]*xRefEntry, len(refs))
	var size uint32 = 1
	for _, ref := range refs {
		obj := doc.Objects[ref]
		if obj == nil {
			continue
		}
		number := ref.Number()
		if number == 0 {
			return fmt.Errorf("invalid object number 0 for %s", Format(obj))
		}
		if _, seen := xref[number]; seen {
			return fmt.Errorf("object number %d used more than once", number)
		}
		xref[number] = &xRefEntry{Pos: out.pos, Generation: ref.Generation()}
		if number >= size {
			size = number + 1
		}

		_, err = fmt.Fprintf(out, "%d %d obj\n", number, ref.Generation())
		if err != nil {
			return err
		}
		err = obj.PDF(out)
		if err != nil {
			return err
		}
		_, err = out.Write([]byte("\nendobj\n"))
		if err != nil {
			return err
		}
	}

	trailer := Dict{
		"Root": root,
	}
	for _, key := range []Name{"Info", "ID"} {
		if val, ok := doc.Trailer[key]; ok {
			trailer[key] = val
		}
	}

	var xRefPos int64
	if ver < V1_5 || opt.XRefTable {
		xRefPos = out.pos
		trailer["Size"] = Integer(size)
		err = writeXRefTable(out, xref, size, trailer)
	} else {
		xRefPos, err = writeXRefStream(out, xref, size, trailer)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "\nstartxref\n%d\n%%%%EOF\n", xRefPos)
	return err
}

func writeXRefTable(w io.Writer, xref map[uint32]*xRefEntry, size uint32, trailer Dict) error {
	_, err := fmt.Fprintf(w, "xref\n0 %d\n", size)
	if err != nil {
		return err
	}
	for i := range size {
		entry := xref[i]
		if entry != nil {
			_, err = fmt.Fprintf(w, "%010d %05d n\r\n", entry.Pos, entry.Generation)
		} else {
			_, err = w.Write([]byte("0000000000 65535 f\r\n"))
		}
		if err != nil {
			return err
		}
	}

	_, err = w.Write([]byte("trailer\n"))
	if err != nil {
		return err
	}
	return trailer.PDF(w)
}

// writeXRefStream writes the cross-reference stream as a new object with
// number size.  The stream lists itself.
func writeXRefStream(w *posWriter, xref map[uint32]*xRefEntry, size uint32, trailer Dict) (int64, error) {
	number := size
	size++
	pos := w.pos
	xref[number] = &xRefEntry{Pos: pos}

	maxPos := int64(0)
	maxGen := uint16(0)
	for _, entry := range xref {
		maxPos = max(maxPos, entry.Pos)
		maxGen = max(maxGen, entry.Generation)
	}
	w2 := max((bits.Len64(uint64(maxPos))+7)/8, 1)
	w3 := (bits.Len16(maxGen) + 7) / 8

	data := &bytes.Buffer{}
	for i := range size {
		entry := xref[i]
		if entry == nil {
			data.WriteByte(0)
			encodeInt(data, 0, w2)
			encodeInt(data, 0, w3)
			continue
		}
		data.WriteByte(1)
		encodeInt(data, uint64(entry.Pos), w2)
		encodeInt(data, uint64(entry.Generation), w3)
	}

	compressed, err := flateEncode(data.Bytes())
	if err != nil {
		return 0, err
	}

	dict := Dict{
		"Type":   Name("XRef"),
		"Size":   Integer(size),
		"W":      Array{Integer(1), Integer(w2), Integer(w3)},
		"Filter": Name("FlateDecode"),
	}
	for key, val := range trailer {
		dict[key] = val
	}

	_, err = fmt.Fprintf(w, "%d 0 obj\n", number)
	if err != nil {
		return 0, err
	}
	err = (&Stream{Dict: dict, Data: compressed}).PDF(w)
	if err != nil {
		return 0, err
	}
	_, err = w.Write([]byte("\nendobj"))
	if err != nil {
		return 0, err
	}
	return pos, nil
}

func encodeInt(buf *bytes.Buffer, x uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		buf.WriteByte(byte(x >> (8 * i)))
	}
}

type posWriter struct {
	w   io.Writer
	pos int64
}

func (w *posWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.pos += int64(n)
	return n, err
}
