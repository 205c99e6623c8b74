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

// TextCallback receives non-JSON prose observed ahead of the JSON document,
// e.g. a model's "<think>...</think>" scaffolding or chatty prose before a
// fenced code block. The core parser never produces this on its own: a
// Seeker pre-filter, set via WithSeeker, is what recognizes and strips it.
type TextCallback func(prose string)

// Seeker splits a raw chunk into leading non-JSON prose and the remaining
// bytes to feed the JSON core, implemented by the seeker subpackage
// (kept external to the core per spec.md's scope boundary: the core only
// needs this narrow contract, not the prose-recognition rules themselves).
type Seeker interface {
	Feed(chunk []byte) (prose []byte, jsonBytes []byte)
}

// EventParser wraps a Parser with the path/event dispatcher and an optional
// Seeker, giving callers the on/on-delta/on-text/skip/off surface spec.md's
// event-parser API describes instead of the bare tape/value accessors of
// Parser.
type EventParser struct {
	parser *Parser
	seeker Seeker
	onText []TextCallback
}

// EventParserOption configures an EventParser at construction.
type EventParserOption func(*EventParser)

// WithSeeker installs a Seeker used to strip non-JSON prose from each chunk
// before it reaches the core parser.
func WithSeeker(s Seeker) EventParserOption {
	return func(e *EventParser) { e.seeker = s }
}

// WithParserOptions forwards options to the underlying Parser.
func WithParserOptions(opts ...ParserOption) EventParserOption {
	return func(e *EventParser) { e.parser = NewParser(opts...) }
}

// NewEventParser constructs an EventParser ready to Feed.
func NewEventParser(opts ...EventParserOption) *EventParser {
	e := &EventParser{parser: NewParser()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// On registers a value callback: fired once per matching path when its
// value becomes complete.
func (e *EventParser) On(path string, cb ValueCallback) (int, error) {
	return e.parser.Dispatcher().On(path, cb)
}

// OnSchema registers a schema-gated value callback: fired only when
// schema.SafeParse succeeds, receiving its transformed data.
func (e *EventParser) OnSchema(path string, schema Schema, cb SchemaCallback) (int, error) {
	return e.parser.Dispatcher().OnSchema(path, schema, cb)
}

// OnDelta registers a callback fired per batch of newly-committed string
// bytes at path.
func (e *EventParser) OnDelta(path string, cb DeltaCallback) (int, error) {
	return e.parser.Dispatcher().OnDelta(path, cb)
}

// OnText registers a callback fired with any non-JSON prose a Seeker
// strips ahead of the JSON document. Without a Seeker installed, it never
// fires.
func (e *EventParser) OnText(cb TextCallback) {
	e.onText = append(e.onText, cb)
}

// Skip marks paths whose subtrees fire no events; the parser still builds
// them into its tape and tree.
func (e *EventParser) Skip(paths ...string) error {
	return e.parser.Dispatcher().Skip(paths...)
}

// Off removes subscriptions on path. id==0 removes all of them.
func (e *EventParser) Off(path string, id int) {
	e.parser.Dispatcher().Off(path, id)
}

// Feed pumps chunk through the optional Seeker and then the core Parser,
// firing on-text and the dispatcher's subscriptions as appropriate.
func (e *EventParser) Feed(chunk []byte) (Status, error) {
	jsonBytes := chunk
	if e.seeker != nil {
		var prose []byte
		prose, jsonBytes = e.seeker.Feed(chunk)
		if len(prose) > 0 {
			for _, cb := range e.onText {
				cb(string(prose))
			}
		}
	}
	if len(jsonBytes) == 0 {
		return e.parser.Status(), nil
	}
	return e.parser.Feed(jsonBytes)
}

// Value returns the current best-effort root value.
func (e *EventParser) Value() Value { return e.parser.Value() }

// Remaining returns unconsumed trailing bytes when Status is
// StatusCompleteEarly.
func (e *EventParser) Remaining() []byte { return e.parser.Remaining() }

// Status returns the parser's status as of the last Feed call.
func (e *EventParser) Status() Status { return e.parser.Status() }

// Close is the idiomatic-Go spelling of the core's destroy operation.
func (e *EventParser) Close() error {
	e.parser.Destroy()
	return nil
}
