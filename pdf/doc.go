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
Package pdf holds the in-memory object graph of a PDF file.

A [Document] is an arena of PDF objects, keyed by [Reference].  Objects
refer to each other only through references, so that cycles (for example
the Parent links in the page tree) need no special treatment.

[Read] loads a complete PDF file into a Document, [Write] serializes a
Document again, with a freshly computed cross-reference table.  Stream data
is kept in encoded form and is never re-compressed; the only streams the
package decodes are cross-reference streams and object streams, which are
dissolved on reading.

The following PDF features are not supported:

  - Encrypted files.  [Read] returns [ErrEncrypted].
  - Linearization hints.  Files are read, but the output is not linearized.
*/
package pdf
