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

// Array represents a JSON array position in a Tape, grounded on the
// teacher's parsed_array.go Array type.
type Array struct {
	tape  *Tape
	start int
}

// Len returns the number of elements.
func (a Array) Len() int { return a.tape.Tokens[a.start].Count }

// Synthetic reports whether the array's closing bracket came from
// autocompletion.
func (a Array) Synthetic() bool { return a.tape.Tokens[a.tape.Tokens[a.start].Match].Synthetic }

// Each calls fn for every element in order, stopping early if fn returns
// false.
func (a Array) Each(fn func(i int, v Value) bool) {
	idx := a.start + 1
	i := 0
	for a.tape.Tokens[idx].Tag != TagArrayEnd {
		v := Value{tape: a.tape, idx: idx}
		if !fn(i, v) {
			return
		}
		idx = v.end()
		i++
	}
}

// Index returns the i'th element, or ok==false if i is out of range.
// Index performs a linear walk from the start of the array; VectorJSON's
// tape has no random-access element index the way the teacher's tagged
// tape encodes child count inline per element, so repeated random Index
// calls on a large array are O(n) each — Each should be preferred for a
// full traversal.
func (a Array) Index(i int) (Value, bool) {
	if i < 0 {
		return Value{}, false
	}
	idx := a.start + 1
	cur := 0
	for a.tape.Tokens[idx].Tag != TagArrayEnd {
		v := Value{tape: a.tape, idx: idx}
		if cur == i {
			return v, true
		}
		idx = v.end()
		cur++
	}
	return Value{}, false
}

// Interface materializes the array into a plain []interface{}, recursively.
func (a Array) Interface() ([]interface{}, error) {
	n := a.Len()
	out := make([]interface{}, 0, n)
	var outerErr error
	a.Each(func(i int, v Value) bool {
		val, err := v.Interface()
		if err != nil {
			outerErr = err
			return false
		}
		out = append(out, val)
		return true
	})
	if outerErr != nil {
		return nil, outerErr
	}
	return out, nil
}
