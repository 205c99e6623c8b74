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

package liberal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransformStripsLineAndBlockComments(t *testing.T) {
	src := "{\n  // a comment\n  \"a\": 1, /* inline */ \"b\": 2\n}"
	out, err := Transform([]byte(src))
	require.NoError(t, err)
	require.Equal(t, "{\n  \n  \"a\": 1,  \"b\": 2\n}", string(out))
}

func TestTransformDropsTrailingCommas(t *testing.T) {
	out, err := Transform([]byte(`{"a":1,"b":[1,2,],}`))
	require.NoError(t, err)
	require.Equal(t, `{"a":1,"b":[1,2]}`, string(out))
}

func TestTransformRewritesSingleQuotedStrings(t *testing.T) {
	out, err := Transform([]byte(`{'a':'it\'s "ok"'}`))
	require.NoError(t, err)
	require.Equal(t, `{"a":"it's \"ok\""}`, string(out))
}

func TestTransformRewritesUnquotedKeys(t *testing.T) {
	out, err := Transform([]byte(`{a:1, b_2:true, $c:null}`))
	require.NoError(t, err)
	require.Equal(t, `{"a":1, "b_2":true, "$c":null}`, string(out))
}

func TestTransformRewritesHexLiterals(t *testing.T) {
	out, err := Transform([]byte(`{"a":0xFF,"b":0x10}`))
	require.NoError(t, err)
	require.Equal(t, `{"a":255,"b":16}`, string(out))
}

func TestTransformRewritesSpecialNumericAtoms(t *testing.T) {
	out, err := Transform([]byte(`[Infinity,-Infinity,NaN]`))
	require.NoError(t, err)
	require.Equal(t, `[1e400,-1e400,null]`, string(out))
}

func TestTransformLeavesCanonicalStringsUntouched(t *testing.T) {
	out, err := Transform([]byte(`{"a":"line1\nline2"}`))
	require.NoError(t, err)
	require.Equal(t, `{"a":"line1\nline2"}`, string(out))
}

func TestTransformUnterminatedBlockComment(t *testing.T) {
	_, err := Transform([]byte(`{"a":1 /* oops`))
	require.Error(t, err)
	var ute *ErrUnterminated
	require.ErrorAs(t, err, &ute)
	require.Equal(t, "block comment", ute.Kind)
}

func TestTransformUnterminatedString(t *testing.T) {
	_, err := Transform([]byte(`{"a":"oops`))
	require.Error(t, err)
	var ute *ErrUnterminated
	require.ErrorAs(t, err, &ute)
	require.Equal(t, "string", ute.Kind)
}

func TestTransformBarewordThatIsNotAKeyOrAtomPassesThrough(t *testing.T) {
	out, err := Transform([]byte(`[foo]`))
	require.NoError(t, err)
	require.Equal(t, `[foo]`, string(out))
}
