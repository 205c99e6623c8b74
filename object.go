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

// smallObjectThreshold is the key count up to which FindKey does a linear
// byte-compare scan rather than building a map. Grounded on the teacher's
// own Object.FindKey (parsed_object.go), which does a linear scan
// unconditionally; VectorJSON adds the map-assisted path above this
// threshold using Go's builtin map (an idiomatic choice over hand-rolling
// open addressing — see DESIGN.md).
const smallObjectThreshold = 8

// Object represents a JSON object position in a Tape.
type Object struct {
	tape  *Tape
	start int
}

// Len returns the number of key/value pairs.
func (o Object) Len() int { return o.tape.Tokens[o.start].Count }

// Synthetic reports whether the object's closing brace came from
// autocompletion.
func (o Object) Synthetic() bool { return o.tape.Tokens[o.tape.Tokens[o.start].Match].Synthetic }

// Element is one key/value pair of an Object.
type Element struct {
	Key   string
	Value Value
}

// Elements is the parsed-out contents of an Object, grounded on the
// teacher's parsed_object.go Elements type.
type Elements struct {
	Elements []Element
	Index    map[string]int
}

// FindKey looks up key, returning the matching Element and true, or the
// zero Element and false.
func (e *Elements) FindKey(key string) (Element, bool) {
	if e.Index != nil {
		i, ok := e.Index[key]
		if !ok {
			return Element{}, false
		}
		return e.Elements[i], true
	}
	for _, el := range e.Elements {
		if el.Key == key {
			return el, true
		}
	}
	return Element{}, false
}

// Parse materializes the object's direct key/value pairs.
func (o Object) Parse() (*Elements, error) {
	n := o.Len()
	out := &Elements{Elements: make([]Element, 0, n)}
	idx := o.start + 1
	for i := 0; i < n; i++ {
		keyTok := o.tape.Tokens[idx]
		var key string
		if keyTok.InArena {
			key = string(o.tape.Arena[keyTok.StrOff : keyTok.StrOff+keyTok.StrLen])
		} else {
			key = string(o.tape.Buf[keyTok.StrOff : keyTok.StrOff+keyTok.StrLen])
		}
		idx++
		val := Value{tape: o.tape, idx: idx}
		out.Elements = append(out.Elements, Element{Key: key, Value: val})
		idx = val.end()
	}
	if n > smallObjectThreshold {
		out.Index = make(map[string]int, n)
		for i, el := range out.Elements {
			out.Index[el.Key] = i
		}
	}
	return out, nil
}

// FindKey is a convenience one-shot lookup equivalent to Parse().FindKey(key).
func (o Object) FindKey(key string) (Value, bool) {
	elems, err := o.Parse()
	if err != nil {
		return Value{}, false
	}
	el, ok := elems.FindKey(key)
	if !ok {
		return Value{}, false
	}
	return el.Value, true
}

// Each calls fn for every key/value pair in order, stopping early if fn
// returns false.
func (o Object) Each(fn func(key string, v Value) bool) {
	elems, err := o.Parse()
	if err != nil {
		return
	}
	for _, el := range elems.Elements {
		if !fn(el.Key, el.Value) {
			return
		}
	}
}

// Interface materializes the object into a plain Go map, recursively.
func (o Object) Interface() (map[string]interface{}, error) {
	elems, err := o.Parse()
	if err != nil {
		return nil, err
	}
	out := make(map[string]interface{}, len(elems.Elements))
	for _, el := range elems.Elements {
		v, err := el.Value.Interface()
		if err != nil {
			return nil, err
		}
		out[el.Key] = v
	}
	return out, nil
}
