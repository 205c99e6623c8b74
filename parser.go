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

import "errors"

// DefaultMaxBufferSize is the per-parser cap on accumulated input bytes.
// Grounded on the teacher's geometric-growth Buffer with no cap of its own
// (it parses a single in-memory file); VectorJSON adds an explicit ceiling
// since a long-lived streaming parser has no natural end to hand it a size
// hint up front.
const DefaultMaxBufferSize = 128 << 20

// ParserOption configures a Parser at construction, following the teacher's
// own functional-option style (options.go's ParserOption).
type ParserOption func(*Parser)

// WithMaxDepth overrides the container-nesting ceiling (default
// DefaultMaxDepth).
func WithMaxDepth(n int) ParserOption {
	return func(p *Parser) { p.maxDepth = n }
}

// WithMaxBufferSize overrides the accumulated-input byte ceiling (default
// DefaultMaxBufferSize).
func WithMaxBufferSize(n int) ParserOption {
	return func(p *Parser) { p.maxBufferSize = n }
}

// ErrDestroyed is returned by any operation on a Parser after Destroy.
var ErrDestroyed = errors.New("vectorjson: parser destroyed")

// Parser is the incremental tape-building core: it accepts chunks of bytes
// via Feed, maintains a flat Tape re-scanned only over new bytes, and keeps
// a LiveDoc tree patched in place so partial containers grow without
// reallocation. A Parser is not safe for concurrent use; distinct Parsers
// share no state and may run on separate goroutines freely.
type Parser struct {
	buf Buffer

	scanState  scannerState
	classState classifierState
	offsets    []int

	maxDepth      int
	maxBufferSize int

	status  Status
	lastErr *ParseError

	tape    *Tape
	doc     LiveDoc
	prevStr map[*Node]strSnapshot

	dispatcher *Dispatcher

	destroyed bool
}

// NewParser constructs a ready-to-feed Parser.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		scanState:     newScannerState(),
		classState:    newClassifierState(),
		maxDepth:      DefaultMaxDepth,
		maxBufferSize: DefaultMaxBufferSize,
		status:        StatusIncomplete,
		prevStr:       make(map[*Node]strSnapshot),
		dispatcher:    NewDispatcher(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Dispatcher returns the parser's event dispatcher, for registering
// subscriptions via On/OnSchema/OnDelta/Skip/Off.
func (p *Parser) Dispatcher() *Dispatcher { return p.dispatcher }

// Feed appends chunk to the accumulated buffer, re-scans and re-classifies
// only the new bytes, rebuilds the tape (real bytes plus a synthetic
// autocomplete suffix when incomplete), patches the live document tree in
// place, and fires any matching event subscriptions. It never panics on
// malformed input: a structural problem moves the parser into
// StatusInvalid and is reported via the returned error and LastError.
func (p *Parser) Feed(chunk []byte) (Status, error) {
	if p.destroyed {
		return StatusInvalid, ErrDestroyed
	}
	if p.status == StatusInvalid {
		return p.status, p.lastErr
	}
	if p.buf.Len()+len(chunk) > p.maxBufferSize {
		perr := &ParseError{Kind: ErrCapacityExceeded, Offset: p.buf.Len()}
		p.lastErr = perr
		p.status = StatusInvalid
		return p.status, perr
	}

	from := p.buf.Len()
	p.buf.Append(chunk)
	real := p.buf.Bytes()

	newOffsets := scan(real, from, &p.scanState)
	p.offsets = append(p.offsets, newOffsets...)

	p.status = classify(real, from, &p.classState)
	if p.status == StatusInvalid {
		perr := &ParseError{Kind: ErrExpectedValue, Offset: len(real)}
		p.lastErr = perr
		return p.status, perr
	}

	buildBuf := real
	buildOffsets := p.offsets
	realLen := len(real)
	if p.status == StatusIncomplete {
		suffix := autocomplete(&p.classState)
		if len(suffix) > 0 {
			suffixState := p.scanState
			if p.classState.inString && p.classState.escape {
				// Drop the pending backslash: it is the odd tail of its run,
				// so the run left behind is even and escapes nothing.
				realLen--
				suffixState.oddBackslash = 0
			}
			buildBuf = append(append([]byte{}, real[:realLen]...), suffix...)
			suffixOffsets := scan(buildBuf, realLen, &suffixState)
			buildOffsets = append(append([]int{}, p.offsets...), suffixOffsets...)
		}
	}

	tape, err := Build(buildBuf, buildOffsets, realLen, p.maxDepth)
	if err != nil {
		p.status = StatusInvalid
		if perr, ok := err.(*ParseError); ok {
			p.lastErr = perr
		}
		return p.status, err
	}
	p.tape = tape

	p.snapshotStrLens()
	p.doc.Patch(p.tape)
	p.dispatcher.Dispatch(p.doc.Root, p.prevStr)

	return p.status, nil
}

// snapshotStrLens records every string node's current decoded length and
// source-byte length so Dispatch can tell which suffix of a grown string is
// new, both as decoded characters (for slicing the text) and as raw source
// bytes (for the offset/length a delta subscriber receives).
func (p *Parser) snapshotStrLens() {
	for k := range p.prevStr {
		delete(p.prevStr, k)
	}
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		switch n.Kind {
		case NodeScalar:
			if n.Tag == TagString {
				p.prevStr[n] = strSnapshot{decodedLen: len(n.Str), srcLen: n.SrcLen}
			}
		case NodeObject, NodeArray:
			for _, c := range n.Children {
				walk(c)
			}
		}
	}
	walk(p.doc.Root)
}

// Value returns a cursor onto the parser's current best-effort root value.
// When Status is StatusIncomplete, the value includes autocompleted
// (synthetic) content; callers can inspect Value.Synthetic()/Node.Synthetic
// to tell real content from filled-in placeholders.
func (p *Parser) Value() Value {
	return ValueAt(p.tape)
}

// Root returns the live document tree's current root node.
func (p *Parser) Root() *Node { return p.doc.Root }

// Status returns the parser's status as of the last Feed call.
func (p *Parser) Status() Status { return p.status }

// LastError returns the error that moved the parser to StatusInvalid, or
// nil if the parser never entered that state.
func (p *Parser) LastError() *ParseError { return p.lastErr }

// Remaining returns the unconsumed trailing bytes when Status is
// StatusCompleteEarly (bytes after the first complete value), or nil
// otherwise.
func (p *Parser) Remaining() []byte {
	if p.status != StatusCompleteEarly {
		return nil
	}
	return p.buf.Bytes()[p.classState.rootEndOffset:]
}

// Destroy releases the parser's buffers and marks it inert; subsequent
// operations return ErrDestroyed. Destroy is idempotent.
func (p *Parser) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.buf = Buffer{}
	p.tape = nil
	p.doc = LiveDoc{}
	p.offsets = nil
	p.prevStr = nil
}
