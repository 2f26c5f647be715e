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

// Package pagesel parses the page selections given on the command line of
// the PDF tools.
//
// A selection is a sequence of page regions:
//
//	page N       page N (1-based)
//	pages N-M    pages N through M; either bound may be omitted
//	pages odd    odd-numbered pages
//	pages even   even-numbered pages
//	pages all    all pages
//
// The keyword may be left out, so that "3 5-7" is a valid selection.
package pagesel

import (
	"fmt"
	"strconv"
	"strings"
)

// Region represents page-based selection (page 1, pages 1-3, etc.)
type Region struct {
	Start int  // -1 means from beginning
	End   int  // -1 means to end
	Odd   bool // select only odd pages
	Even  bool // select only even pages
}

func (pr Region) String() string {
	if pr.Odd {
		return "pages odd"
	}
	if pr.Even {
		return "pages even"
	}
	if pr.Start == -1 && pr.End == -1 {
		return "pages all"
	}
	if pr.Start == pr.End {
		return fmt.Sprintf("page %d", pr.Start+1) // convert to 1-based for display
	}
	if pr.Start == -1 {
		return fmt.Sprintf("pages -%d", pr.End+1)
	}
	if pr.End == -1 {
		return fmt.Sprintf("pages %d-", pr.Start+1)
	}
	return fmt.Sprintf("pages %d-%d", pr.Start+1, pr.End+1)
}

// Indices returns the zero-based indices of the pages selected by pr,
// for a document with numPages pages.
func (pr Region) Indices(numPages int) []int {
	start, end := pr.Start, pr.End
	if start == -1 {
		start = 0
	}
	if end == -1 || end >= numPages {
		end = numPages - 1
	}

	var res []int
	for pageNo := start; pageNo <= end; pageNo++ {
		if pr.Odd && (pageNo+1)%2 == 0 { // pageNo is 0-based, so add 1 for 1-based odd check
			continue
		}
		if pr.Even && (pageNo+1)%2 == 1 {
			continue
		}
		res = append(res, pageNo)
	}
	return res
}

// Selection is a list of page regions.  Pages are selected in the order
// the regions are given.
type Selection []Region

// Indices returns the zero-based indices of the selected pages.  A page
// selected by more than one region is listed more than once.  An empty
// selection selects all pages.
func (s Selection) Indices(numPages int) []int {
	if len(s) == 0 {
		return Region{Start: -1, End: -1}.Indices(numPages)
	}
	var res []int
	for _, r := range s {
		res = append(res, r.Indices(numPages)...)
	}
	return res
}

func (s Selection) String() string {
	parts := make([]string, len(s))
	for i, r := range s {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

// Parse converts command line arguments into a page selection.
func Parse(args []string) (Selection, error) {
	var res Selection

	for i := 0; i < len(args); i++ {
		spec := args[i]
		switch spec {
		case "page", "pages":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("expected page specification after %q", args[i])
			}
			i++
			spec = args[i]
		}
		region, err := ParseRegion(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid page specification %q: %w", spec, err)
		}
		res = append(res, region)
	}

	return res, nil
}

// ParseRegion parses a single page specification, for example "4",
// "2-7", "odd" or "all".
func ParseRegion(spec string) (Region, error) {
	spec = strings.TrimSpace(spec)

	// handle special cases
	switch spec {
	case "odd":
		return Region{Start: -1, End: -1, Odd: true}, nil
	case "even":
		return Region{Start: -1, End: -1, Even: true}, nil
	case "all":
		return Region{Start: -1, End: -1}, nil
	}

	// handle ranges
	if strings.Contains(spec, "-") {
		parts := strings.Split(spec, "-")
		if len(parts) != 2 {
			return Region{}, fmt.Errorf("invalid range format")
		}

		var start, end int = -1, -1
		var err error

		if parts[0] != "" {
			start, err = parsePageNumber(parts[0])
			if err != nil {
				return Region{}, fmt.Errorf("invalid start page: %w", err)
			}
		}
		if parts[1] != "" {
			end, err = parsePageNumber(parts[1])
			if err != nil {
				return Region{}, fmt.Errorf("invalid end page: %w", err)
			}
		}
		if start != -1 && end != -1 && start > end {
			return Region{}, fmt.Errorf("start page after end page")
		}

		return Region{Start: start, End: end}, nil
	}

	// handle single page
	pageNo, err := parsePageNumber(spec)
	if err != nil {
		return Region{}, fmt.Errorf("invalid page number: %w", err)
	}
	return Region{Start: pageNo, End: pageNo}, nil
}

// parsePageNumber converts a 1-based page number into a 0-based index.
func parsePageNumber(s string) (int, error) {
	pageNo, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if pageNo < 1 {
		return 0, fmt.Errorf("page numbers start at 1")
	}
	return pageNo - 1, nil
}
