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
	"testing"

	"github.com/stretchr/testify/require"
)

func autocompleteOf(prefix string) (classifierState, []byte) {
	st := newClassifierState()
	classify([]byte(prefix), 0, &st)
	return st, autocomplete(&st)
}

// TestAutocompleteProducesBuildableDocument mirrors exactly what Parser.Feed
// does with an incomplete prefix: append autocomplete's suffix and hand the
// result to Build. Build (unlike classify) never demands a delimiter after a
// bare top-level number before accepting it, so this is the right level to
// check "is this synthetic document usable", rather than re-running classify
// on the patched-together bytes.
func TestAutocompleteProducesBuildableDocument(t *testing.T) {
	cases := []string{
		`{`,
		`{"a"`,
		`{"a":`,
		`{"a":1`,
		`{"a":1,`,
		`{"a":1,"b`,
		`[`,
		`[1`,
		`[1,`,
		`"abc`,
		`"abc\`,
		`"abc\u00`,
		`tru`,
		`fals`,
		`nul`,
		`1.`,
		`1e`,
		`1e+`,
		`{"a":[1,{"b":"c`,
		`{"a":[1,2,3],"b":{"c":[tru`,
	}
	for _, prefix := range cases {
		require.Equal(t, StatusIncomplete, classifyAll(prefix), "prefix=%q", prefix)

		cst, suffix := autocompleteOf(prefix)
		real := prefix
		if cst.inString && cst.escape {
			real = prefix[:len(prefix)-1] // Feed drops a pending backslash
		}
		full := []byte(real + string(suffix))

		st := newScannerState()
		offs := scan(full, 0, &st)
		_, err := Build(full, offs, len(real), 0)
		require.NoError(t, err, "prefix=%q suffix=%q full=%q", prefix, suffix, full)
	}
}

func TestAutocompleteClosesContainersInnermostFirst(t *testing.T) {
	_, suffix := autocompleteOf(`{"a":[1,2`)
	require.Equal(t, "]}", string(suffix))
}

func TestAutocompleteFillsPartialAtom(t *testing.T) {
	_, suffix := autocompleteOf(`[tru`)
	require.Equal(t, "e]", string(suffix))
}

func TestAutocompleteFillsPartialNumber(t *testing.T) {
	_, suffix := autocompleteOf(`[1,1.`)
	require.Equal(t, "0]", string(suffix))
}

func TestAutocompleteClosesOpenString(t *testing.T) {
	_, suffix := autocompleteOf(`["abc`)
	require.Equal(t, `"]`, string(suffix))
}

func TestAutocompleteDropsTrailingBackslash(t *testing.T) {
	_, suffix := autocompleteOf(`["abc\`)
	require.Equal(t, `"]`, string(suffix))
}

func TestAutocompleteSuppliesNullForEmptyRoot(t *testing.T) {
	_, suffix := autocompleteOf(``)
	require.Equal(t, "null", string(suffix))
}

func TestAutocompleteMidObjectNoKeyJustCloses(t *testing.T) {
	_, suffix := autocompleteOf(`{"a":1,`)
	require.Equal(t, "}", string(suffix))
}

func TestAutocompleteAfterColonSuppliesNull(t *testing.T) {
	_, suffix := autocompleteOf(`{"a":`)
	require.Equal(t, "null}", string(suffix))
}
