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

// Package seeker implements a pre-filter that strips LLM scaffolding —
// "<think>...</think>" reasoning blocks and a fenced code block's opening
// marker — ahead of the first JSON byte in a model's response stream. It
// satisfies the narrow Feed(chunk) (prose, jsonBytes) contract the core
// parser's event-parser boundary expects, without the core needing to know
// anything about how scaffolding is recognized.
package seeker

import "bytes"

// Seeker buffers bytes until it can confidently locate the start of the
// JSON document, after which it stops buffering entirely and passes every
// subsequent byte straight through. It is not safe for concurrent use.
type Seeker struct {
	found   bool
	pending []byte
}

// New returns a Seeker ready to Feed.
func New() *Seeker { return &Seeker{} }

// Feed consumes chunk, returning any newly-recognized prose and the bytes
// that should be handed to the JSON core. Once the JSON start has been
// located, every later call returns (nil, chunk) unchanged.
func (s *Seeker) Feed(chunk []byte) (prose []byte, jsonBytes []byte) {
	if s.found {
		return nil, chunk
	}
	s.pending = append(s.pending, chunk...)

	stripped, proseSoFar := stripThinkBlocks(s.pending)
	idx := firstJSONStart(stripped)
	if idx < 0 {
		// No JSON start visible yet; keep buffering. A <think> block that
		// has not closed, or a fence marker not yet complete, both look
		// like "no start found" from here, which is the safe default:
		// nothing is released as prose until we're sure it isn't part of
		// a JSON value.
		return nil, nil
	}

	s.found = true
	prose = append(proseSoFar, stripped[:idx]...)
	jsonBytes = stripped[idx:]
	s.pending = nil
	return prose, jsonBytes
}

// stripThinkBlocks removes every complete "<think>...</think>" span from
// buf, returning the remainder plus the text of the stripped spans
// (without the tags) as prose. An unclosed trailing "<think>" is left in
// the remainder untouched, since it is not yet known to be a complete
// scaffolding block.
func stripThinkBlocks(buf []byte) (remainder []byte, prose []byte) {
	const open, close = "<think>", "</think>"
	remainder = buf
	for {
		oi := bytes.Index(remainder, []byte(open))
		if oi < 0 {
			return remainder, prose
		}
		ci := bytes.Index(remainder[oi:], []byte(close))
		if ci < 0 {
			return remainder, prose
		}
		ci += oi
		prose = append(prose, remainder[:oi]...)
		prose = append(prose, remainder[oi+len(open):ci]...)
		remainder = append(append([]byte{}, remainder[:oi]...), remainder[ci+len(close):]...)
		// remainder's prefix [:oi] was already copied into prose above;
		// drop it here so the next scan starts clean.
		remainder = remainder[oi:]
	}
}

// firstJSONStart finds the first byte that looks like the unambiguous
// start of a JSON value: '{' or '['. If buf opens with a fenced code
// block marker ("```" optionally followed by a language tag and a
// newline), that marker line is skipped first so the fence itself is
// treated as prose rather than rejected by the core parser.
func firstJSONStart(buf []byte) int {
	start := 0
	trimmed := bytes.TrimLeft(buf, " \t\r\n")
	leadWS := len(buf) - len(trimmed)
	if bytes.HasPrefix(trimmed, []byte("```")) {
		nl := bytes.IndexByte(trimmed, '\n')
		if nl < 0 {
			// Fence marker not yet fully received.
			return -1
		}
		start = leadWS + nl + 1
	}
	for i := start; i < len(buf); i++ {
		if buf[i] == '{' || buf[i] == '[' {
			return i
		}
	}
	return -1
}
