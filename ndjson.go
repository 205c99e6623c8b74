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

// RootCallback receives one complete root value of a newline-delimited
// stream.
type RootCallback func(v Value)

// NDJSONParser feeds a stream of newline-delimited (or simply
// back-to-back) JSON values through a single reusable Parser, firing
// on-root each time a value closes and resetting for the next one.
// Grounded on the teacher's ParseND/ParseNDStream (simdjson.go), which
// parse a whole NDJSON blob or io.Reader in one pass; this adapts that to
// the incremental, chunk-at-a-time model the rest of the package uses,
// relying on the classifier's own StatusCompleteEarly transition to find
// each root boundary rather than splitting on '\n' bytes (a value may
// legitimately contain escaped newlines inside a string, and NDJSON does
// not require one value per physical line).
type NDJSONParser struct {
	opts   []ParserOption
	p      *Parser
	onRoot []RootCallback
}

// NewNDJSONParser constructs an NDJSONParser; opts are applied to every
// internal Parser generation (one per root value).
func NewNDJSONParser(opts ...ParserOption) *NDJSONParser {
	return &NDJSONParser{opts: opts, p: NewParser(opts...)}
}

// OnRoot registers a callback fired once per complete root value.
func (n *NDJSONParser) OnRoot(cb RootCallback) {
	n.onRoot = append(n.onRoot, cb)
}

// Feed pumps chunk through the current root's Parser, firing on-root and
// rolling over to a fresh Parser each time a root value closes.
func (n *NDJSONParser) Feed(chunk []byte) error {
	pending := chunk
	for {
		status, err := n.p.Feed(pending)
		if err != nil {
			return err
		}
		switch status {
		case StatusCompleteEarly:
			n.fireRoot()
			rem := n.p.Remaining()
			n.roll()
			if len(rem) == 0 {
				return nil
			}
			pending = rem
			continue
		default:
			return nil
		}
	}
}

// Flush signals end of input: if the current root is in StatusComplete
// (closed, with only whitespace or nothing observed after it), fires
// on-root for it. Call this once after the final Feed of a stream.
func (n *NDJSONParser) Flush() {
	if n.p.Status() == StatusComplete {
		n.fireRoot()
		n.roll()
	}
}

func (n *NDJSONParser) fireRoot() {
	v := n.p.Value()
	for _, cb := range n.onRoot {
		cb(v)
	}
}

func (n *NDJSONParser) roll() {
	n.p.Destroy()
	n.p = NewParser(n.opts...)
}

// Close releases the current root's Parser resources.
func (n *NDJSONParser) Close() error {
	n.p.Destroy()
	return nil
}
