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
	"unicode/utf16"
	"unicode/utf8"
)

// parseString consumes a quoted string starting at the current offset and
// appends either a TagString or (if asKey) TagKey token. The closing quote
// must be the very next recorded offset: scanner.go's finalizeStructurals
// masks every structural and pseudo-structural character out of a string's
// interior and adds the quote bytes themselves back in, so nothing else can
// appear as an offset between an opening quote and its partner.
func (c *builder) parseString(asKey bool) error {
	_, open, _ := c.peek()
	c.pos++ // consume opening quote

	b, closeIdx, ok := c.peek()
	if !ok || b != '"' {
		if !ok {
			closeIdx = len(c.buf)
		}
		return &ParseError{Kind: ErrInvalidEscape, Offset: closeIdx}
	}
	c.pos++ // consume closing quote

	content := c.buf[open+1 : closeIdx]
	decoded, inArena, err := c.decodeString(content)
	if err != nil {
		return err
	}

	tok := Token{Synthetic: c.synthetic(open)}
	if asKey {
		tok.Tag = TagKey
	} else {
		tok.Tag = TagString
	}
	tok.SrcLen = uint32(len(content))
	if inArena {
		off := len(c.arena)
		c.arena = append(c.arena, decoded...)
		tok.StrOff, tok.StrLen, tok.InArena = uint32(off), uint32(len(decoded)), true
	} else {
		tok.StrOff, tok.StrLen, tok.InArena = uint32(open+1), uint32(len(content)), false
	}
	c.tokens = append(c.tokens, tok)
	return nil
}

// decodeString returns the decoded bytes of a string's content. If content
// has no backslash escapes it is returned as-is with inArena=false, so the
// caller can keep a zero-copy reference into the source buffer rather than
// duplicating it into the arena — the fast path the teacher's
// WithCopyStrings option (options.go) exists to let callers opt out of.
func (c *builder) decodeString(content []byte) (decoded []byte, inArena bool, err error) {
	hasEscape := false
	for _, b := range content {
		if b == '\\' || b < 0x20 {
			hasEscape = true
			break
		}
	}
	if !hasEscape {
		return content, false, nil
	}

	out := make([]byte, 0, len(content))
	i := 0
	for i < len(content) {
		b := content[i]
		if b < 0x20 {
			return nil, false, &ParseError{Kind: ErrInvalidEscape, Offset: i}
		}
		if b != '\\' {
			out = append(out, b)
			i++
			continue
		}
		if i+1 >= len(content) {
			return nil, false, &ParseError{Kind: ErrInvalidEscape, Offset: i}
		}
		esc := content[i+1]
		switch esc {
		case '"', '\\', '/':
			out = append(out, esc)
			i += 2
		case 'b':
			out = append(out, '\b')
			i += 2
		case 'f':
			out = append(out, '\f')
			i += 2
		case 'n':
			out = append(out, '\n')
			i += 2
		case 'r':
			out = append(out, '\r')
			i += 2
		case 't':
			out = append(out, '\t')
			i += 2
		case 'u':
			r, consumed, uerr := decodeUnicodeEscape(content, i)
			if uerr != nil {
				return nil, false, uerr
			}
			out = utf16AppendRune(out, r)
			i += consumed
		default:
			return nil, false, &ParseError{Kind: ErrInvalidEscape, Offset: i}
		}
	}
	return out, true, nil
}

// decodeUnicodeEscape decodes a \uXXXX escape (and its low-surrogate partner
// if high_surrogate), starting at content[at] (the backslash of \u....).
// Returns the decoded rune and the number of source bytes consumed.
func decodeUnicodeEscape(content []byte, at int) (rune, int, error) {
	r1, err := hex4(content, at+2)
	if err != nil {
		return 0, 0, &ParseError{Kind: ErrInvalidEscape, Offset: at}
	}
	if utf16.IsSurrogate(rune(r1)) {
		if at+6 < len(content) && content[at+6] == '\\' && at+7 < len(content) && content[at+7] == 'u' {
			r2, err2 := hex4(content, at+8)
			if err2 == nil {
				combined := utf16.DecodeRune(rune(r1), rune(r2))
				if combined != 0xFFFD {
					return combined, 12, nil
				}
			}
		}
		return 0xFFFD, 6, nil
	}
	return rune(r1), 6, nil
}

func hex4(content []byte, at int) (uint16, error) {
	if at+4 > len(content) {
		return 0, &ParseError{Kind: ErrInvalidEscape, Offset: at}
	}
	var v uint16
	for k := 0; k < 4; k++ {
		c := content[at+k]
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= uint16(c - '0')
		case c >= 'a' && c <= 'f':
			v |= uint16(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= uint16(c-'A') + 10
		default:
			return 0, &ParseError{Kind: ErrInvalidEscape, Offset: at}
		}
	}
	return v, nil
}

func utf16AppendRune(dst []byte, r rune) []byte {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return append(dst, buf[:n]...)
}
