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

// CompareOptions controls Equal's notion of structural equality.
type CompareOptions struct {
	// StrictKeyOrder requires object keys to appear in the same order in
	// both values. The default (false) ignores object key order, since
	// the same logical JSON document can arrive with keys permuted by an
	// upstream re-encoding and spec.md's default comparison should treat
	// that as equal.
	StrictKeyOrder bool
}

// Equal reports whether a and b are structurally equal. Numbers compare by
// numeric value (an Int 3 equals a Double 3.0); strings compare by decoded
// content; container order matters for arrays but, by default, not for
// object keys.
func Equal(a, b Value, opts CompareOptions) bool {
	at, bt := a.Tag(), b.Tag()
	switch at {
	case TagNull, TagTrue, TagFalse:
		return at == bt
	case TagInt, TagUint, TagDouble:
		if bt != TagInt && bt != TagUint && bt != TagDouble {
			return false
		}
		// Same-sign 64-bit integers compare exactly: routing both through
		// Float() would round-trip through float64 and silently collide
		// distinct values once they pass 2^53.
		if at == TagInt && bt == TagInt {
			return a.token().I == b.token().I
		}
		if at == TagUint && bt == TagUint {
			return a.token().U == b.token().U
		}
		af, aerr := a.Float()
		bf, berr := b.Float()
		return aerr == nil && berr == nil && af == bf
	case TagString:
		if bt != TagString {
			return false
		}
		as, aerr := a.String()
		bs, berr := b.String()
		return aerr == nil && berr == nil && as == bs
	case TagObjectStart:
		if bt != TagObjectStart {
			return false
		}
		ao, _ := a.Object()
		bo, _ := b.Object()
		return equalObjects(ao, bo, opts)
	case TagArrayStart:
		if bt != TagArrayStart {
			return false
		}
		aa, _ := a.Array()
		ba, _ := b.Array()
		return equalArrays(aa, ba, opts)
	default:
		return false
	}
}

func equalObjects(a, b Object, opts CompareOptions) bool {
	if a.Len() != b.Len() {
		return false
	}
	ae, err := a.Parse()
	if err != nil {
		return false
	}
	be, err := b.Parse()
	if err != nil {
		return false
	}
	if opts.StrictKeyOrder {
		for i := range ae.Elements {
			if ae.Elements[i].Key != be.Elements[i].Key {
				return false
			}
			if !Equal(ae.Elements[i].Value, be.Elements[i].Value, opts) {
				return false
			}
		}
		return true
	}
	for _, el := range ae.Elements {
		other, ok := be.FindKey(el.Key)
		if !ok {
			return false
		}
		if !Equal(el.Value, other.Value, opts) {
			return false
		}
	}
	return true
}

func equalArrays(a, b Array, opts CompareOptions) bool {
	if a.Len() != b.Len() {
		return false
	}
	equal := true
	a.Each(func(i int, av Value) bool {
		bv, ok := b.Index(i)
		if !ok || !Equal(av, bv, opts) {
			equal = false
			return false
		}
		return true
	})
	return equal
}
