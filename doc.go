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

/*
Package pdfcompose merges, rotates and splits PDF files.

All functions take complete PDF files as byte slices and return a new PDF
file.  Page content streams are copied unchanged; only the object structure
of the files is edited.  After every edit, objects which are no longer
reachable from the document trailer are removed.

Document outlines, form fields, annotations which refer to other pages, and
named destinations are not adjusted by the operations in this package.
Encrypted files are not supported.

Errors are reported using three types:

  - [*CodecError] for input which cannot be parsed, or output which cannot
    be written,
  - [*StructuralError] for files which parse, but lack a usable page tree,
  - [ErrEmptySelection] when a page selection matches no page.
*/
package pdfcompose
