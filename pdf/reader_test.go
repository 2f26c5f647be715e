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
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// testDocument returns a small document with one page.
func testDocument(v Version) *Document {
	doc := NewDocument(v)
	catalog := doc.Alloc()
	pages := doc.Alloc()
	page := doc.Alloc()
	content := doc.Alloc()
	info := doc.Alloc()

	data := []byte("0 0 m 100 100 l S\n")
	doc.Put(catalog, Dict{
		"Type":  Name("Catalog"),
		"Pages": pages,
	})
	doc.Put(pages, Dict{
		"Type":  Name("Pages"),
		"Kids":  Array{page},
		"Count": Integer(1),
	})
	doc.Put(page, Dict{
		"Type":     Name("Page"),
		"Parent":   pages,
		"MediaBox": Array{Integer(0), Integer(0), Real(595.5), Integer(842)},
		"Contents": content,
		"Rotate":   Integer(90),
	})
	doc.Put(content, &Stream{
		Dict: Dict{"Length": Integer(len(data))},
		Data: data,
	})
	doc.Put(info, Dict{
		"Title":    TextString("Ein schöner Test"),
		"Producer": String("a (b) c\\"),
	})
	doc.Trailer["Root"] = catalog
	doc.Trailer["Info"] = info
	return doc
}

func writeDoc(t testing.TB, doc *Document, opt *WriterOptions) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	err := Write(buf, doc, opt)
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	for _, v := range []Version{V1_3, V1_4, V1_5, V1_7, V2_0} {
		t.Run(v.String(), func(t *testing.T) {
			doc := testDocument(v)
			data := writeDoc(t, doc, nil)

			doc2, err := Read(data, &ReaderOptions{Strict: true})
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(doc, doc2); d != "" {
				t.Error(d)
			}

			hasXRefStream := bytes.Contains(data, []byte("/XRef"))
			if hasXRefStream != (v >= V1_5) {
				t.Errorf("wrong xref format for version %s", v)
			}
		})
	}
}

func TestForceXRefTable(t *testing.T) {
	doc := testDocument(V1_7)
	data := writeDoc(t, doc, &WriterOptions{XRefTable: true})
	if !bytes.Contains(data, []byte("\nxref\n")) {
		t.Error("xref table missing")
	}
	doc2, err := Read(data, &ReaderOptions{Strict: true})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(doc, doc2); d != "" {
		t.Error(d)
	}
}

func TestWriteVersionOverride(t *testing.T) {
	doc := testDocument(V1_4)
	data := writeDoc(t, doc, &WriterOptions{Version: V1_6})
	if !bytes.HasPrefix(data, []byte("%PDF-1.6\n")) {
		t.Errorf("wrong header %q", data[:9])
	}
}

func TestWriteObjectOrder(t *testing.T) {
	doc := testDocument(V1_4)
	for _, n := range []uint32{40, 7, 23, 100, 12, 61} {
		doc.Put(NewReference(n, 0), Integer(n))
	}
	data := writeDoc(t, doc, nil)

	last := -1
	for number := uint32(1); number <= doc.MaxNumber; number++ {
		if !doc.Has(NewReference(number, 0)) {
			continue
		}
		pos := bytes.Index(data, []byte("\n"+strconv.Itoa(int(number))+" 0 obj\n"))
		if pos < 0 {
			t.Fatalf("object %d not found", number)
		}
		if pos < last {
			t.Errorf("object %d written out of order", number)
		}
		last = pos
	}
}

func TestWriteNoCatalog(t *testing.T) {
	doc := NewDocument(V1_7)
	err := Write(&bytes.Buffer{}, doc, nil)
	if !errors.Is(err, ErrNoCatalog) {
		t.Errorf("expected ErrNoCatalog, got %v", err)
	}
}

func TestIncrementalUpdate(t *testing.T) {
	doc := testDocument(V1_4)
	data := writeDoc(t, doc, nil)

	idx := bytes.LastIndex(data, []byte("startxref"))
	s := newScanner(data, idx+len("startxref"), nil)
	s.SkipWhiteSpace()
	prev, err := s.ReadInteger()
	if err != nil {
		t.Fatal(err)
	}

	// replace the info dictionary (object 5)
	buf := bytes.NewBuffer(data)
	objPos := buf.Len()
	buf.WriteString("5 0 obj\n<</Title (updated)>>\nendobj\n")
	xrefPos := buf.Len()
	fmt.Fprintf(buf, "xref\n0 1\n0000000000 65535 f\r\n5 1\n%010d 00000 n\r\n", objPos)
	fmt.Fprintf(buf, "trailer\n<</Size 6/Root 1 0 R/Info 5 0 R/Prev %d>>\n", prev)
	fmt.Fprintf(buf, "startxref\n%d\n%%%%EOF\n", xrefPos)

	doc2, err := Read(buf.Bytes(), &ReaderOptions{Strict: true})
	if err != nil {
		t.Fatal(err)
	}
	info, err := GetDict(doc2, doc2.Trailer["Info"])
	if err != nil {
		t.Fatal(err)
	}
	if title := string(info["Title"].(String)); title != "updated" {
		t.Errorf("wrong title %q", title)
	}
	if len(doc2.Objects) != len(doc.Objects) {
		t.Errorf("wrong number of objects: %d != %d", len(doc2.Objects), len(doc.Objects))
	}
}

func TestBrokenXRef(t *testing.T) {
	doc := testDocument(V1_4)
	data := writeDoc(t, doc, nil)

	// point startxref somewhere outside the file
	idx := bytes.LastIndex(data, []byte("startxref"))
	broken := append([]byte{}, data[:idx]...)
	broken = append(broken, "startxref\n999999\n%%EOF\n"...)

	_, err := Read(broken, &ReaderOptions{Strict: true})
	if err == nil {
		t.Fatal("strict reader accepted a broken xref")
	}

	doc2, err := Read(broken, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(doc, doc2); d != "" {
		t.Error(d)
	}
}

func TestWrongOffsets(t *testing.T) {
	doc := testDocument(V1_4)
	data := writeDoc(t, doc, nil)

	// shift all objects by inserting a comment after the header
	idx := bytes.Index(data, []byte("1 0 obj"))
	shifted := append([]byte{}, data[:idx]...)
	shifted = append(shifted, "% padding padding padding\n"...)
	shifted = append(shifted, data[idx:]...)

	doc2, err := Read(shifted, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(doc, doc2); d != "" {
		t.Error(d)
	}
}

func TestEncrypted(t *testing.T) {
	doc := testDocument(V1_4)
	data := writeDoc(t, doc, nil)
	data = bytes.Replace(data, []byte("trailer\n<<"), []byte("trailer\n<</Encrypt 9 0 R"), 1)

	_, err := Read(data, nil)
	if !errors.Is(err, ErrEncrypted) {
		t.Errorf("expected ErrEncrypted, got %v", err)
	}
}

func TestNotPDF(t *testing.T) {
	for _, in := range []string{"", "hello world", "%PDF-1.7\n"} {
		_, err := Read([]byte(in), nil)
		if err == nil {
			t.Errorf("%q: expected an error", in)
		}
	}
}

func TestObjectStream(t *testing.T) {
	obj2 := "<</Type/Catalog/Pages 3 0 R>>"
	obj3 := "<</Type/Pages/Kids[]/Count 0>>"
	header := "2 0 3 " + strconv.Itoa(len(obj2)) + " "
	body := header + obj2 + obj3

	buf := &bytes.Buffer{}
	buf.WriteString("%PDF-1.5\n")
	fmt.Fprintf(buf, "1 0 obj\n<</Type/ObjStm/N 2/First %d/Length %d>>\nstream\n%s\nendstream\nendobj\n",
		len(header), len(body), body)
	buf.WriteString("trailer\n<</Size 4/Root 2 0 R>>\n%%EOF\n")

	doc, err := Read(buf.Bytes(), nil)
	if err != nil {
		t.Fatal(err)
	}

	expected := map[Reference]Object{
		NewReference(2, 0): Dict{"Type": Name("Catalog"), "Pages": NewReference(3, 0)},
		NewReference(3, 0): Dict{"Type": Name("Pages"), "Kids": Array{}, "Count": Integer(0)},
	}
	if d := cmp.Diff(expected, doc.Objects); d != "" {
		t.Error(d)
	}
	if doc.MaxNumber != 3 {
		t.Errorf("wrong MaxNumber %d", doc.MaxNumber)
	}
}

func TestMissingRoot(t *testing.T) {
	doc := testDocument(V1_4)
	data := writeDoc(t, doc, nil)
	data = bytes.Replace(data, []byte("/Root 1 0 R"), []byte("/Foot 1 0 R"), 1)

	doc2, err := Read(data, nil)
	if err != nil {
		t.Fatal(err)
	}
	if doc2.Trailer["Root"] != NewReference(1, 0) {
		t.Errorf("catalog not found: %v", doc2.Trailer["Root"])
	}
}

func FuzzReadWrite(f *testing.F) {
	for _, v := range []Version{V1_4, V1_7} {
		buf := &bytes.Buffer{}
		err := Write(buf, testDocument(v), nil)
		if err != nil {
			f.Fatal(err)
		}
		f.Add(buf.Bytes())
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		doc1, err := Read(data, nil)
		if err != nil {
			return
		}

		buf := &bytes.Buffer{}
		err = Write(buf, doc1, nil)
		if err != nil {
			return
		}

		doc2, err := Read(buf.Bytes(), &ReaderOptions{Strict: true})
		if err != nil {
			t.Fatal(err)
		}
		if len(doc1.Objects) != len(doc2.Objects) {
			t.Errorf("object count changed: %d != %d",
				len(doc1.Objects), len(doc2.Objects))
		}
		if doc1.Trailer["Root"] != doc2.Trailer["Root"] {
			t.Error("catalog reference changed")
		}
	})
}
