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

// Package makepdf builds small PDF documents for use in unit tests.
//
// Every page of a generated document has its own content stream, which
// contains a label identifying the document and the page.  All pages share
// one font dictionary, so that tests can check the handling of objects used
// by more than one page.
package makepdf

import (
	"bytes"
	"fmt"

	"seehuhn.de/go/pdfcompose/pdf"
)

// Options describe the document to generate.
type Options struct {
	// Version is the PDF version of the document.
	// The default is PDF 1.7.
	Version pdf.Version

	// NumPages is the number of pages.
	NumPages int

	// Label is included in the content stream of every page.
	Label string

	// PageRotate gives /Rotate entries for individual pages,
	// indexed by zero-based page number.
	PageRotate map[int]int

	// RootRotate, if non-zero, is stored in the root of the page tree
	// and inherited by all pages without their own /Rotate entry.
	RootRotate int

	// Nested places the pages below intermediate page tree nodes, two
	// pages per node.
	Nested bool

	// Title is stored in the document information dictionary.
	Title string
}

// MediaBox is the page size of the generated pages, stored in the root of
// the page tree.
var MediaBox = pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(612), pdf.Integer(792)}

// Build generates a document.
func Build(opt *Options) *pdf.Document {
	v := opt.Version
	if v == 0 {
		v = pdf.V1_7
	}
	doc := pdf.NewDocument(v)

	catalogRef := doc.Alloc()
	rootRef := doc.Alloc()
	fontRef := doc.Alloc()
	doc.Put(fontRef, pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": pdf.Name("Helvetica"),
	})

	root := pdf.Dict{
		"Type":     pdf.Name("Pages"),
		"MediaBox": MediaBox,
		"Count":    pdf.Integer(opt.NumPages),
	}
	if opt.RootRotate != 0 {
		root["Rotate"] = pdf.Integer(opt.RootRotate)
	}

	var rootKids pdf.Array
	var node pdf.Dict
	var nodeRef pdf.Reference
	for i := range opt.NumPages {
		parent := rootRef
		if opt.Nested {
			if i%2 == 0 {
				nodeRef = doc.Alloc()
				node = pdf.Dict{
					"Type":   pdf.Name("Pages"),
					"Parent": rootRef,
					"Kids":   pdf.Array{},
				}
				doc.Put(nodeRef, node)
				rootKids = append(rootKids, nodeRef)
			}
			parent = nodeRef
		}

		contentRef := doc.Alloc()
		content := fmt.Sprintf("%% %s page %d\nBT /F1 12 Tf 72 720 Td (%d) Tj ET\n",
			opt.Label, i+1, i+1)
		doc.Put(contentRef, &pdf.Stream{
			Dict: pdf.Dict{"Length": pdf.Integer(len(content))},
			Data: []byte(content),
		})

		pageRef := doc.Alloc()
		page := pdf.Dict{
			"Type":     pdf.Name("Page"),
			"Parent":   parent,
			"Contents": contentRef,
			"Resources": pdf.Dict{
				"Font": pdf.Dict{"F1": fontRef},
			},
		}
		if r, ok := opt.PageRotate[i]; ok {
			page["Rotate"] = pdf.Integer(r)
		}
		doc.Put(pageRef, page)

		if opt.Nested {
			node["Kids"] = append(node["Kids"].(pdf.Array), pageRef)
			node["Count"] = pdf.Integer(len(node["Kids"].(pdf.Array)))
		} else {
			rootKids = append(rootKids, pageRef)
		}
	}
	if rootKids == nil {
		rootKids = pdf.Array{}
	}
	root["Kids"] = rootKids
	doc.Put(rootRef, root)

	doc.Put(catalogRef, pdf.Dict{
		"Type":  pdf.Name("Catalog"),
		"Pages": rootRef,
	})
	doc.Trailer["Root"] = catalogRef

	if opt.Title != "" {
		infoRef := doc.Alloc()
		doc.Put(infoRef, pdf.Dict{
			"Title": pdf.TextString(opt.Title),
		})
		doc.Trailer["Info"] = infoRef
	}

	return doc
}

// Bytes generates a document and returns it as a PDF file.
func Bytes(opt *Options) []byte {
	buf := &bytes.Buffer{}
	err := pdf.Write(buf, Build(opt), nil)
	if err != nil {
		// Build always creates a valid document
		panic(err)
	}
	return buf.Bytes()
}

// Label returns the label stored in the content stream of a page
// generated by [Build], for example "A page 3".
func Label(doc *pdf.Document, page pdf.Reference) (string, error) {
	dict, err := pdf.GetDict(doc, page)
	if err != nil {
		return "", err
	}
	stm, err := pdf.GetStream(doc, dict["Contents"])
	if err != nil {
		return "", err
	}
	if stm == nil {
		return "", fmt.Errorf("%s has no content stream", page)
	}
	line, _, _ := bytes.Cut(stm.Data, []byte("\n"))
	return string(bytes.TrimPrefix(line, []byte("% "))), nil
}
