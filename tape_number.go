/*
 * MinIO Cloud Storage, (C) 2020 MinIO, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package vectorjson

import (
	"errors"
	"math"
	"strconv"
)

// parseNumber scans a JSON number starting at the current offset directly
// from c.buf (not via the offsets list: only the first byte of a number is
// ever a recorded pseudo-structural offset, since every digit after it
// follows a non-whitespace, non-structural byte and so never re-triggers
// pseudo-structural detection — see scanner.go's finalizeStructurals). The
// grammar is validated by hand (leading zero, mandatory digit after '.' and
// after 'e'/'E') before handing the matched slice to strconv, the same
// split the teacher's own GOLANG_NUMBER_PARSING fallback
// (parse_number_amd64.go) uses.
func (c *builder) parseNumber() error {
	_, start, _ := c.peek()
	buf := c.buf
	i := start
	neg := false
	if buf[i] == '-' {
		neg = true
		i++
	}
	if i >= len(buf) || buf[i] < '0' || buf[i] > '9' {
		return &ParseError{Kind: ErrInvalidNumber, Offset: start}
	}
	if buf[i] == '0' {
		i++
		if i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
			return &ParseError{Kind: ErrInvalidNumber, Offset: start}
		}
	} else {
		for i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
			i++
		}
	}

	isDouble := false
	if i < len(buf) && buf[i] == '.' {
		isDouble = true
		i++
		if i >= len(buf) || buf[i] < '0' || buf[i] > '9' {
			return &ParseError{Kind: ErrInvalidNumber, Offset: start}
		}
		for i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
			i++
		}
	}
	if i < len(buf) && (buf[i] == 'e' || buf[i] == 'E') {
		isDouble = true
		i++
		if i < len(buf) && (buf[i] == '+' || buf[i] == '-') {
			i++
		}
		if i >= len(buf) || buf[i] < '0' || buf[i] > '9' {
			return &ParseError{Kind: ErrInvalidNumber, Offset: start}
		}
		for i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
			i++
		}
	}

	lit := buf[start:i]
	c.pos++ // the number owns exactly one recorded offset, its first byte

	tok := Token{Synthetic: c.synthetic(start)}
	if isDouble {
		f, err := strconv.ParseFloat(string(lit), 64)
		if err != nil {
			return &ParseError{Kind: ErrInvalidNumber, Offset: start}
		}
		tok.Tag = TagDouble
		tok.F = f
	} else if !neg {
		if n, err := strconv.ParseInt(string(lit), 10, 64); err == nil {
			tok.Tag = TagInt
			tok.I = n
		} else if u, uerr := strconv.ParseUint(string(lit), 10, 64); uerr == nil {
			tok.Tag = TagUint
			tok.U = u
		} else {
			f, ferr := strconv.ParseFloat(string(lit), 64)
			if ferr != nil {
				return &ParseError{Kind: ErrInvalidNumber, Offset: start}
			}
			tok.Tag = TagDouble
			tok.F = f
		}
	} else {
		if n, err := strconv.ParseInt(string(lit), 10, 64); err == nil {
			tok.Tag = TagInt
			tok.I = n
		} else {
			f, ferr := strconv.ParseFloat(string(lit), 64)
			if ferr != nil {
				return &ParseError{Kind: ErrInvalidNumber, Offset: start}
			}
			tok.Tag = TagDouble
			tok.F = f
		}
	}
	c.tokens = append(c.tokens, tok)
	return nil
}

// appendFloat converts a float to string using ES6-style number-to-string
// conversion, matching most JSON generators. Carried over from the
// teacher's parsed_json.go (same exponent-cutoff rule, same "e-09" -> "e-9"
// cleanup) since Go's strconv already produces a correctly-rounded shortest
// decimal and no pack library improves on it.
func appendFloat(dst []byte, f float64) ([]byte, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, errors.New("vectorjson: INF or NaN number found")
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	dst = strconv.AppendFloat(dst, f, format, -1, 64)
	if format == 'e' {
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst, nil
}
