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

import "errors"

// Value is a lazy, read-only cursor into one position of a Tape. It mirrors
// the teacher's Iter (parsed_json.go): no conversion happens until a
// Value/Object/Array/typed accessor is actually called.
type Value struct {
	tape *Tape
	idx  int
}

// ValueAt returns a Value positioned at the root of t.
func ValueAt(t *Tape) Value {
	return Value{tape: t, idx: 0}
}

func (v Value) token() Token { return v.tape.Tokens[v.idx] }

// Tag reports the kind of value at this position.
func (v Value) Tag() Tag { return v.token().Tag }

// Synthetic reports whether this value was produced entirely from
// autocompleted bytes rather than real input.
func (v Value) Synthetic() bool { return v.token().Synthetic }

// end returns the index one past this entire value (skipping any children).
func (v Value) end() int {
	t := v.token()
	switch t.Tag {
	case TagObjectStart, TagArrayStart:
		return t.Match + 1
	default:
		return v.idx + 1
	}
}

var (
	errWrongType = errors.New("vectorjson: value is not of the requested type")
)

// String returns the decoded string value, or errWrongType if this is not a
// string.
func (v Value) String() (string, error) {
	t := v.token()
	if t.Tag != TagString && t.Tag != TagKey {
		return "", errWrongType
	}
	if t.InArena {
		return string(v.tape.Arena[t.StrOff : t.StrOff+t.StrLen]), nil
	}
	return string(v.tape.Buf[t.StrOff : t.StrOff+t.StrLen]), nil
}

// Int returns the integer value, converting from Uint/Double where it fits
// exactly.
func (v Value) Int() (int64, error) {
	t := v.token()
	switch t.Tag {
	case TagInt:
		return t.I, nil
	case TagUint:
		if t.U > 1<<63-1 {
			return 0, errors.New("vectorjson: uint value overflows int64")
		}
		return int64(t.U), nil
	case TagDouble:
		if float64(int64(t.F)) != t.F {
			return 0, errors.New("vectorjson: double value is not an exact int64")
		}
		return int64(t.F), nil
	default:
		return 0, errWrongType
	}
}

// Uint returns the unsigned integer value.
func (v Value) Uint() (uint64, error) {
	t := v.token()
	switch t.Tag {
	case TagUint:
		return t.U, nil
	case TagInt:
		if t.I < 0 {
			return 0, errors.New("vectorjson: int value is negative")
		}
		return uint64(t.I), nil
	case TagDouble:
		return uint64(t.F), nil
	default:
		return 0, errWrongType
	}
}

// Float returns the value as a float64, converting from Int/Uint as needed.
func (v Value) Float() (float64, error) {
	t := v.token()
	switch t.Tag {
	case TagDouble:
		return t.F, nil
	case TagInt:
		return float64(t.I), nil
	case TagUint:
		return float64(t.U), nil
	default:
		return 0, errWrongType
	}
}

// Bool returns the boolean value.
func (v Value) Bool() (bool, error) {
	switch v.Tag() {
	case TagTrue:
		return true, nil
	case TagFalse:
		return false, nil
	default:
		return false, errWrongType
	}
}

// IsNull reports whether this value is JSON null.
func (v Value) IsNull() bool { return v.Tag() == TagNull }

// Object returns this value as an Object, or errWrongType if it is not one.
func (v Value) Object() (Object, error) {
	if v.Tag() != TagObjectStart {
		return Object{}, errWrongType
	}
	return Object{tape: v.tape, start: v.idx}, nil
}

// Array returns this value as an Array, or errWrongType if it is not one.
func (v Value) Array() (Array, error) {
	if v.Tag() != TagArrayStart {
		return Array{}, errWrongType
	}
	return Array{tape: v.tape, start: v.idx}, nil
}

// Interface materializes this value (and, recursively, its children) into
// plain Go values: map[string]interface{}, []interface{}, string, float64,
// int64, uint64, bool, or nil. This is the round-trip helper spec.md's
// materialize operation needs, grounded directly on the teacher's own
// Iter.Interface (parsed_json.go).
func (v Value) Interface() (interface{}, error) {
	switch v.Tag() {
	case TagNull:
		return nil, nil
	case TagTrue:
		return true, nil
	case TagFalse:
		return false, nil
	case TagInt:
		return v.token().I, nil
	case TagUint:
		return v.token().U, nil
	case TagDouble:
		return v.token().F, nil
	case TagString:
		return v.String()
	case TagObjectStart:
		o, _ := v.Object()
		return o.Interface()
	case TagArrayStart:
		a, _ := v.Array()
		return a.Interface()
	default:
		return nil, errWrongType
	}
}
