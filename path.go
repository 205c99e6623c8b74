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
	"errors"
	"strconv"
	"strings"
)

// segKind identifies one compiled step of a Path.
type segKind int

const (
	segKey segKind = iota
	segIndex
	segWildcardKey
	segWildcardIndex
)

type segment struct {
	kind segKind
	key  string
	idx  int
}

// Path is a compiled dotted/bracketed accessor, e.g. "tool_calls[0].function.arguments"
// or "items[*].id". It is grounded on the Object.FindPath idiom in
// parsed_object.go, generalized to accept index and wildcard segments the
// teacher's slash-separated object-only path does not support.
type Path struct {
	segs []segment
}

// ErrInvalidPath reports a syntactically malformed path string.
var ErrInvalidPath = errors.New("vectorjson: invalid path")

// CompilePath parses a path expression into a reusable Path.
func CompilePath(expr string) (*Path, error) {
	if expr == "" {
		return &Path{}, nil
	}
	var segs []segment
	i := 0
	n := len(expr)
	expectDot := false
	for i < n {
		if expr[i] == '.' {
			if !expectDot {
				return nil, ErrInvalidPath
			}
			i++
			expectDot = false
			continue
		}
		if expr[i] == '[' {
			end := strings.IndexByte(expr[i:], ']')
			if end < 0 {
				return nil, ErrInvalidPath
			}
			inner := expr[i+1 : i+end]
			i += end + 1
			if inner == "*" {
				segs = append(segs, segment{kind: segWildcardIndex})
			} else {
				idx, err := strconv.Atoi(inner)
				if err != nil || idx < 0 {
					return nil, ErrInvalidPath
				}
				segs = append(segs, segment{kind: segIndex, idx: idx})
			}
			expectDot = true
			continue
		}
		if expectDot {
			return nil, ErrInvalidPath
		}
		start := i
		for i < n && expr[i] != '.' && expr[i] != '[' {
			i++
		}
		key := expr[start:i]
		if key == "*" {
			segs = append(segs, segment{kind: segWildcardKey})
		} else if key == "" {
			return nil, ErrInvalidPath
		} else {
			segs = append(segs, segment{kind: segKey, key: key})
		}
		expectDot = true
	}
	return &Path{segs: segs}, nil
}

// String reconstructs the path expression.
func (p *Path) String() string {
	var b strings.Builder
	for i, s := range p.segs {
		switch s.kind {
		case segKey:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(s.key)
		case segWildcardKey:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteByte('*')
		case segIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.idx))
			b.WriteByte(']')
		case segWildcardIndex:
			b.WriteString("[*]")
		}
	}
	return b.String()
}

// Resolve walks root according to p, returning every matching Value. A
// non-wildcard path resolves to at most one match; a path containing
// wildcard segments may resolve to many, visited in document order.
func (p *Path) Resolve(root Value) []Value {
	matches := []Value{root}
	for _, s := range p.segs {
		var next []Value
		for _, v := range matches {
			next = append(next, resolveSegment(s, v)...)
		}
		matches = next
		if len(matches) == 0 {
			return nil
		}
	}
	return matches
}

func resolveSegment(s segment, v Value) []Value {
	switch s.kind {
	case segKey:
		o, err := v.Object()
		if err != nil {
			return nil
		}
		val, ok := o.FindKey(s.key)
		if !ok {
			return nil
		}
		return []Value{val}
	case segWildcardKey:
		o, err := v.Object()
		if err != nil {
			return nil
		}
		var out []Value
		o.Each(func(key string, child Value) bool {
			out = append(out, child)
			return true
		})
		return out
	case segIndex:
		a, err := v.Array()
		if err != nil {
			return nil
		}
		val, ok := a.Index(s.idx)
		if !ok {
			return nil
		}
		return []Value{val}
	case segWildcardIndex:
		a, err := v.Array()
		if err != nil {
			return nil
		}
		var out []Value
		a.Each(func(i int, child Value) bool {
			out = append(out, child)
			return true
		})
		return out
	default:
		return nil
	}
}
