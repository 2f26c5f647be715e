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
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// Decode returns the decoded contents of the stream.
//
// Only the filters needed to read the structure of a PDF file are
// supported, i.e. FlateDecode with or without PNG predictors.  Streams
// using other filters cause an error.
func (x *Stream) Decode(r Getter) ([]byte, error) {
	filters, err := GetFilters(r, x.Dict)
	if err != nil {
		return nil, err
	}

	data := x.Data
	for _, f := range filters {
		switch f.Name {
		case "FlateDecode":
			data, err = flateDecode(data, f.Parms)
		default:
			err = fmt.Errorf("unsupported filter %q", f.Name)
		}
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

// FilterInfo describes one PDF stream filter.
type FilterInfo struct {
	Name  Name
	Parms Dict
}

// GetFilters returns the filters listed in a stream dictionary,
// in the order in which they need to be applied for decoding.
func GetFilters(r Getter, dict Dict) ([]*FilterInfo, error) {
	filter, err := Resolve(r, dict["Filter"])
	if err != nil {
		return nil, err
	}
	parms, err := Resolve(r, dict["DecodeParms"])
	if err != nil {
		return nil, err
	}

	var res []*FilterInfo
	switch f := filter.(type) {
	case nil:
		// no filters
	case Name:
		pDict, _ := parms.(Dict)
		res = append(res, &FilterInfo{Name: f, Parms: pDict})
	case Array:
		pa, _ := parms.(Array)
		for i, fi := range f {
			name, err := GetName(r, fi)
			if err != nil {
				return nil, err
			}
			var pDict Dict
			if i < len(pa) {
				pDict, err = GetDict(r, pa[i])
				if err != nil {
					return nil, err
				}
			}
			res = append(res, &FilterInfo{Name: name, Parms: pDict})
		}
	default:
		return nil, &MalformedFileError{
			Err: fmt.Errorf("invalid filter description %s", Format(filter)),
		}
	}
	return res, nil
}

func flateDecode(data []byte, parms Dict) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	decoded, err := io.ReadAll(zr)
	// Truncated streams are common; we keep what we could decode.
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}

	predictor := 1
	colors := 1
	bpc := 8
	columns := 1
	if val, ok := parms["Predictor"].(Integer); ok {
		predictor = int(val)
	}
	if val, ok := parms["Colors"].(Integer); ok && val > 0 {
		colors = int(val)
	}
	if val, ok := parms["BitsPerComponent"].(Integer); ok && val > 0 {
		bpc = int(val)
	}
	if val, ok := parms["Columns"].(Integer); ok && val > 0 {
		columns = int(val)
	}

	switch {
	case predictor <= 1:
		return decoded, nil
	case predictor >= 10:
		bpp := (colors*bpc + 7) / 8
		rowLen := (colors*bpc*columns + 7) / 8
		return undoPNGPredictor(decoded, rowLen, bpp)
	default:
		return nil, fmt.Errorf("unsupported predictor %d", predictor)
	}
}

// undoPNGPredictor reverses the PNG filters applied row by row.
// Each row of the input starts with one byte giving the filter type.
func undoPNGPredictor(data []byte, rowLen, bpp int) ([]byte, error) {
	res := make([]byte, 0, len(data))
	prev := make([]byte, rowLen)
	cur := make([]byte, rowLen)
	for len(data) > 0 {
		if len(data) < rowLen+1 {
			break
		}
		tp := data[0]
		copy(cur, data[1:rowLen+1])
		data = data[rowLen+1:]

		for i := range cur {
			var left, up, upLeft byte
			if i >= bpp {
				left = cur[i-bpp]
				upLeft = prev[i-bpp]
			}
			up = prev[i]
			switch tp {
			case 0: // None
			case 1: // Sub
				cur[i] += left
			case 2: // Up
				cur[i] += up
			case 3: // Average
				cur[i] += byte((int(left) + int(up)) / 2)
			case 4: // Paeth
				cur[i] += paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("malformed PNG predictor row type %d", tp)
			}
		}
		res = append(res, cur...)
		prev, cur = cur, prev
	}
	return res, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// flateEncode compresses data using the zlib format.
func flateEncode(data []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw, err := zlib.NewWriterLevel(buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	_, err = zw.Write(data)
	if err != nil {
		return nil, err
	}
	err = zw.Close()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
