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

// Result is the outcome of a one-shot Parse: a status-tagged result rather
// than an error return, matching spec.md's "one-shot parse returns a
// status-tagged result; it does not raise" contract.
type Result struct {
	Status Status
	Value  Value
	Error  *ParseError
}

// Parse parses b as a complete, self-contained document in one call,
// equivalent to feeding the whole slice to a fresh Parser and reading back
// its status and value. It is the single-shot convenience entry point the
// teacher's own Parse (simdjson.go) offers; unlike that one, this keeps
// running through StatusIncomplete and StatusCompleteEarly as real
// (non-error) outcomes rather than treating anything short of a single
// clean document as a failure.
func Parse(b []byte, opts ...ParserOption) Result {
	p := NewParser(opts...)
	status, err := p.Feed(b)
	res := Result{Status: status, Value: p.Value()}
	if perr, ok := err.(*ParseError); ok {
		res.Error = perr
	}
	return res
}
