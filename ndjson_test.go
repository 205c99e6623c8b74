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

func TestNDJSONParserFiresOnRootPerValue(t *testing.T) {
	n := NewNDJSONParser()
	defer n.Close()

	var roots []int64
	n.OnRoot(func(v Value) {
		i, err := v.Int()
		require.NoError(t, err)
		roots = append(roots, i)
	})

	err := n.Feed([]byte("1\n2\n3\n"))
	require.NoError(t, err)
	// The first two values each have a following non-whitespace byte to
	// confirm no more digits follow, so they fire as soon as they're seen.
	// The trailing "3\n" has nothing after it yet, so it stays
	// StatusComplete (not StatusCompleteEarly) until Flush forces it.
	require.Equal(t, []int64{1, 2}, roots)

	n.Flush()
	require.Equal(t, []int64{1, 2, 3}, roots)
}

func TestNDJSONParserHandlesBackToBackValuesWithoutNewlines(t *testing.T) {
	n := NewNDJSONParser()
	defer n.Close()

	var roots []string
	n.OnRoot(func(v Value) {
		s, err := v.String()
		require.NoError(t, err)
		roots = append(roots, s)
	})

	err := n.Feed([]byte(`"a""b""c"`))
	require.NoError(t, err)
	// "a" and "b" each have a following byte that proves they're closed;
	// "c" is the last thing in the buffer, so it needs Flush to confirm.
	require.Equal(t, []string{"a", "b"}, roots)

	n.Flush()
	require.Equal(t, []string{"a", "b", "c"}, roots)
}

func TestNDJSONParserSplitAcrossFeedCalls(t *testing.T) {
	n := NewNDJSONParser()
	defer n.Close()

	var xs []int64
	n.OnRoot(func(v Value) {
		obj, err := v.Object()
		require.NoError(t, err)
		x, ok := obj.FindKey("x")
		require.True(t, ok)
		i, err := x.Int()
		require.NoError(t, err)
		xs = append(xs, i)
	})

	require.NoError(t, n.Feed([]byte(`{"x":1}` + "\n" + `{"x":`)))
	require.NoError(t, n.Feed([]byte(`2}`)))
	n.Flush()

	require.Equal(t, []int64{1, 2}, xs)
}

func TestNDJSONParserFlushEmitsTrailingCompleteValue(t *testing.T) {
	n := NewNDJSONParser()
	defer n.Close()

	var count int
	n.OnRoot(func(v Value) { count++ })

	require.NoError(t, n.Feed([]byte(`{"x":1}`)))
	require.Equal(t, 0, count)

	n.Flush()
	require.Equal(t, 1, count)
}
