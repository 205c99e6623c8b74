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

// autocomplete computes the minimal byte suffix that turns the prefix
// described by st into a complete, parseable document, applied in the fixed
// order spec.md lays out: close any open string, finish any open number or
// atom (or supply a value if one hasn't started), then close every open
// container innermost-first. The caller must only call this when the
// classifier's status is StatusIncomplete; it does not try to do anything
// useful for StatusComplete/StatusCompleteEarly/StatusInvalid.
func autocomplete(st *classifierState) []byte {
	var out []byte

	if st.inString {
		if st.escape {
			// a bare trailing backslash with no following escape letter:
			// nothing is appended for it; Parser.Feed drops that byte from
			// the buffer it builds from, so this quote closes the string.
		} else if st.unicodeLeft > 0 {
			for k := 0; k < st.unicodeLeft; k++ {
				out = append(out, '0')
			}
		}
		out = append(out, '"')
		if st.stringIsKey {
			// a key cut off mid-string still needs a colon and a value.
			out = append(out, ":null"...)
		}
		return finishAfterValue(out, st)
	}

	if st.atomRemaining != "" {
		out = append(out, st.atomRemaining...)
		return finishAfterValue(out, st)
	}

	if st.inNumber {
		switch st.numPhase {
		case numAfterMinus, numAfterDot, numAfterE, numAfterExpSign:
			out = append(out, '0')
		}
		return finishAfterValue(out, st)
	}

	// No value has started at the current position: supply one.
	switch st.expect {
	case expectRootValue, expectArrayValueOrEnd, expectObjectValue:
		out = append(out, "null"...)
		return finishAfterValue(out, st)
	case expectObjectKeyOrEnd:
		// mid-object with no key started yet: just close it.
	case expectObjectColon:
		out = append(out, ':')
		out = append(out, "null"...)
		return finishAfterValue(out, st)
	}

	return closeContainers(out, st)
}

// finishAfterValue appends the closing delimiters needed once the in-flight
// value (string/number/atom) above has just been completed by out.
func finishAfterValue(out []byte, st *classifierState) []byte {
	return closeContainers(out, st)
}

// closeContainers appends a closing delimiter for every frame still open on
// st.stack, innermost first. It operates on a throwaway logical copy of the
// stack depth (len(st.stack)), since autocomplete must never mutate the
// persisted classifier state — the suffix it returns is speculative and
// discarded after each use.
func closeContainers(out []byte, st *classifierState) []byte {
	for i := len(st.stack) - 1; i >= 0; i-- {
		if st.stack[i] == frameObject {
			out = append(out, '}')
		} else {
			out = append(out, ']')
		}
	}
	return out
}
