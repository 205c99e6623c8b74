/*
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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildDoc(t *testing.T, doc string) *Tape {
	t.Helper()
	buf := []byte(doc)
	st := newScannerState()
	offs := scan(buf, 0, &st)
	tape, err := Build(buf, offs, len(buf), 0)
	require.NoError(t, err)
	return tape
}

func TestBuildFlatObject(t *testing.T) {
	tape := buildDoc(t, `{"a":1,"b":"two","c":true,"d":null,"e":-3.5}`)
	tags := make([]Tag, len(tape.Tokens))
	for i, tok := range tape.Tokens {
		tags[i] = tok.Tag
	}
	require.Equal(t, []Tag{
		TagObjectStart,
		TagKey, TagInt,
		TagKey, TagString,
		TagKey, TagTrue,
		TagKey, TagNull,
		TagKey, TagDouble,
		TagObjectEnd,
	}, tags)

	require.Equal(t, len(tape.Tokens)-1, tape.Tokens[0].Match)
	require.Equal(t, 5, tape.Tokens[0].Count)
}

func TestBuildNumberTokens(t *testing.T) {
	tape := buildDoc(t, `[1, -2, 3.5, -4.5e2, 18446744073709551615]`)
	require.Equal(t, TagArrayStart, tape.Tokens[0].Tag)
	require.Equal(t, 5, tape.Tokens[0].Count)

	want := []Token{
		{Tag: TagInt, I: 1},
		{Tag: TagInt, I: -2},
		{Tag: TagDouble, F: 3.5},
		{Tag: TagDouble, F: -450},
		// Exceeds math.MaxInt64, so it only fits TagUint.
		{Tag: TagUint, U: 18446744073709551615},
	}
	for i, w := range want {
		got := tape.Tokens[i+1]
		require.Equal(t, w.Tag, got.Tag, "token %d", i)
		switch w.Tag {
		case TagUint:
			require.Equal(t, w.U, got.U)
		case TagInt:
			require.Equal(t, w.I, got.I)
		case TagDouble:
			require.Equal(t, w.F, got.F)
		}
	}
}

func TestBuildStringWithEscapes(t *testing.T) {
	tape := buildDoc(t, `["line1\nline2", "plain", "`+`\`+`u00e9"]`)
	require.Equal(t, TagString, tape.Tokens[1].Tag)
	require.True(t, tape.Tokens[1].InArena)
	s := string(tape.Arena[tape.Tokens[1].StrOff : tape.Tokens[1].StrOff+tape.Tokens[1].StrLen])
	require.Equal(t, "line1\nline2", s)
	// Raw source span ("line1\nline2", the backslash-n still two bytes) is
	// longer than the decoded one (the newline collapses to one byte).
	require.Equal(t, uint32(12), tape.Tokens[1].SrcLen)

	plain := tape.Tokens[2]
	require.False(t, plain.InArena)
	require.Equal(t, "plain", string(tape.Buf[plain.StrOff:plain.StrOff+plain.StrLen]))
	require.Equal(t, uint32(5), plain.SrcLen)

	unicodeEscaped := tape.Tokens[3]
	require.True(t, unicodeEscaped.InArena)
	require.Equal(t, "é", string(tape.Arena[unicodeEscaped.StrOff:unicodeEscaped.StrOff+unicodeEscaped.StrLen]))
	require.Equal(t, uint32(6), unicodeEscaped.SrcLen)
}

func TestBuildNestedContainers(t *testing.T) {
	tape := buildDoc(t, `{"a":[1,[2,3],{"b":4}]}`)
	// token 0: object-start, token1: key "a", token2: array-start ...
	require.Equal(t, TagObjectStart, tape.Tokens[0].Tag)
	require.Equal(t, TagArrayStart, tape.Tokens[2].Tag)
	require.Equal(t, 3, tape.Tokens[2].Count)

	outerArrEnd := tape.Tokens[2].Match
	require.Equal(t, TagArrayEnd, tape.Tokens[outerArrEnd].Tag)
	require.Greater(t, outerArrEnd, 2)

	objEnd := tape.Tokens[0].Match
	require.Equal(t, TagObjectEnd, tape.Tokens[objEnd].Tag)
	require.Equal(t, len(tape.Tokens)-1, objEnd)
}

func TestBuildEmptyContainers(t *testing.T) {
	tape := buildDoc(t, `{"a":[],"b":{}}`)
	require.Equal(t, 2, tape.Tokens[0].Count)

	arrStart := tape.Tokens[2]
	require.Equal(t, TagArrayStart, arrStart.Tag)
	require.Equal(t, 0, arrStart.Count)
	require.Equal(t, 3, arrStart.Match)

	objStart := tape.Tokens[5]
	require.Equal(t, TagObjectStart, objStart.Tag)
	require.Equal(t, 0, objStart.Count)
}

func TestBuildRejectsMissingColon(t *testing.T) {
	buf := []byte(`{"a" 1}`)
	st := newScannerState()
	offs := scan(buf, 0, &st)
	_, err := Build(buf, offs, len(buf), 0)
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	require.Equal(t, ErrExpectedColon, pe.Kind)
}

func TestBuildRejectsBadAtom(t *testing.T) {
	buf := []byte(`[tru]`)
	st := newScannerState()
	offs := scan(buf, 0, &st)
	_, err := Build(buf, offs, len(buf), 0)
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	require.Equal(t, ErrInvalidAtom, pe.Kind)
}

func TestBuildRejectsTrailingComma(t *testing.T) {
	buf := []byte(`[1,2,]`)
	st := newScannerState()
	offs := scan(buf, 0, &st)
	_, err := Build(buf, offs, len(buf), 0)
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	require.Equal(t, ErrExpectedValue, pe.Kind)
}

func TestBuildDepthExceeded(t *testing.T) {
	depth := 300
	doc := strings.Repeat("[", depth) + strings.Repeat("]", depth)
	buf := []byte(doc)
	st := newScannerState()
	offs := scan(buf, 0, &st)
	_, err := Build(buf, offs, len(buf), 0)
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	require.Equal(t, ErrDepthExceeded, pe.Kind)
}

func TestBuildSyntheticTokensMarkedPastRealLen(t *testing.T) {
	real := []byte(`{"a":1`)
	suffix := []byte(`}`)
	buf := append(append([]byte{}, real...), suffix...)
	st := newScannerState()
	offs := scan(buf, 0, &st)
	tape, err := Build(buf, offs, len(real), 0)
	require.NoError(t, err)

	require.False(t, tape.Tokens[0].Synthetic)
	last := tape.Tokens[len(tape.Tokens)-1]
	require.Equal(t, TagObjectEnd, last.Tag)
	require.True(t, last.Synthetic)
}
