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

import (
	"fmt"
	"strconv"
	"strings"
)

// Schema is the minimal capability interface a schema-gated subscription
// needs: a single safe-parse hook. Concrete schema libraries (a JSON-Schema
// validator, a struct-tag binder) implement this without VectorJSON needing
// to know about them.
type Schema interface {
	SafeParse(v Value) (data interface{}, ok bool)
}

// ValueCallback receives a fully-resolved value at a subscribed path.
type ValueCallback func(path string, v Value)

// SchemaCallback receives a schema's transformed value.
type SchemaCallback func(path string, data interface{})

// DeltaCallback receives newly-committed characters of a growing string.
// offset and length describe the span of raw source bytes (as fed to the
// Parser, before escape-decoding) that produced newText, not an offset into
// the string's own decoded content: the two diverge for any string
// containing a backslash escape, and spec.md's delta events are defined
// over the source span.
type DeltaCallback func(path string, newText string, offset, length int)

// strSnapshot is a string node's committed lengths as of the previous
// Dispatch call: decodedLen slices the newly-decoded text out of n.Str,
// srcLen anchors the source-byte offset/length reported to subscribers.
type strSnapshot struct {
	decodedLen int
	srcLen     int
}

type subKind int

const (
	subValue subKind = iota
	subSchema
	subDelta
	subSkip
)

type subscription struct {
	id     int
	path   *Path
	expr   string
	kind   subKind
	value  ValueCallback
	schema Schema
	onSch  SchemaCallback
	delta  DeltaCallback
}

// concreteStep is one step of the path actually walked to reach a live node,
// as opposed to a compiled Path's segments, which may contain wildcards.
type concreteStep struct {
	isIndex bool
	key     string
	idx     int
}

func concretePathString(steps []concreteStep) string {
	var b strings.Builder
	for i, s := range steps {
		if s.isIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.idx))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.key)
	}
	return b.String()
}

func (p *Path) matchesSteps(steps []concreteStep) bool {
	if len(p.segs) != len(steps) {
		return false
	}
	for i, seg := range p.segs {
		st := steps[i]
		switch seg.kind {
		case segKey:
			if st.isIndex || st.key != seg.key {
				return false
			}
		case segIndex:
			if !st.isIndex || st.idx != seg.idx {
				return false
			}
		case segWildcardKey:
			if st.isIndex {
				return false
			}
		case segWildcardIndex:
			if !st.isIndex {
				return false
			}
		}
	}
	return true
}

// Dispatcher holds a subscription table and fires events by walking a
// LiveDoc tree. It is grounded on the teacher's Object.FindPath
// (parsed_object.go) for path matching, generalized from a slash-separated
// object-only path to the compiled, wildcard-capable Path of path.go, plus
// VectorJSON's own string-delta and skip-subtree concerns (no teacher
// counterpart) added in the same direct, table-driven style.
type Dispatcher struct {
	subs   []subscription
	nextID int

	// valueFired records which nodes have already fired their (one-shot)
	// value event, so a later Dispatch call on an unrelated subtree
	// doesn't re-deliver it.
	valueFired map[*Node]bool
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{valueFired: make(map[*Node]bool)}
}

// On registers a value callback for path, fired once when the value at that
// path becomes complete (non-synthetic).
func (d *Dispatcher) On(expr string, cb ValueCallback) (int, error) {
	p, err := CompilePath(expr)
	if err != nil {
		return 0, err
	}
	d.nextID++
	d.subs = append(d.subs, subscription{id: d.nextID, path: p, expr: expr, kind: subValue, value: cb})
	return d.nextID, nil
}

// OnSchema registers a value callback gated by schema.SafeParse: the
// callback only fires if SafeParse succeeds, and receives its transformed
// data rather than the raw Value.
func (d *Dispatcher) OnSchema(expr string, schema Schema, cb SchemaCallback) (int, error) {
	p, err := CompilePath(expr)
	if err != nil {
		return 0, err
	}
	d.nextID++
	d.subs = append(d.subs, subscription{id: d.nextID, path: p, expr: expr, kind: subSchema, schema: schema, onSch: cb})
	return d.nextID, nil
}

// OnDelta registers a callback fired once per batch of newly-committed
// string bytes at path.
func (d *Dispatcher) OnDelta(expr string, cb DeltaCallback) (int, error) {
	p, err := CompilePath(expr)
	if err != nil {
		return 0, err
	}
	d.nextID++
	d.subs = append(d.subs, subscription{id: d.nextID, path: p, expr: expr, kind: subDelta, delta: cb})
	return d.nextID, nil
}

// Skip marks every path as skipped: the dispatcher does not walk their
// subtrees or fire any event inside them. The tape and the live tree are
// built without regard to skip paths and still contain those subtrees.
func (d *Dispatcher) Skip(exprs ...string) error {
	for _, expr := range exprs {
		p, err := CompilePath(expr)
		if err != nil {
			return fmt.Errorf("vectorjson: skip %q: %w", expr, err)
		}
		d.nextID++
		d.subs = append(d.subs, subscription{id: d.nextID, path: p, expr: expr, kind: subSkip})
	}
	return nil
}

// Off removes subscriptions on expr. If id is 0, every subscription on expr
// is removed; otherwise only the one matching id.
func (d *Dispatcher) Off(expr string, id int) {
	out := d.subs[:0]
	for _, s := range d.subs {
		if s.expr == expr && (id == 0 || s.id == id) {
			continue
		}
		out = append(out, s)
	}
	d.subs = out
}

// IsSkipped reports whether steps falls under a skip subscription, either
// exactly or as a descendant of one.
func (d *Dispatcher) IsSkipped(steps []concreteStep) bool {
	for _, s := range d.subs {
		if s.kind != subSkip {
			continue
		}
		n := len(s.path.segs)
		if n > len(steps) {
			continue
		}
		if s.path.matchesSteps(steps[:n]) {
			return true
		}
	}
	return false
}

// Dispatch walks root in document order and fires every matching value,
// schema, and delta subscription. prevStr supplies each string node's
// committed lengths as of the previous Dispatch call (the zero value for a
// node seen for the first time); callers typically snapshot this just
// before patching a LiveDoc and pass it in right after. Events fire in
// tape-token order: textual document order for value/schema events, append
// order for delta events, matching the ordering guarantee the rest of the
// pipeline relies on.
func (d *Dispatcher) Dispatch(root *Node, prevStr map[*Node]strSnapshot) {
	if root == nil || len(d.subs) == 0 {
		return
	}
	d.walk(root, nil, prevStr)
}

func (d *Dispatcher) walk(n *Node, steps []concreteStep, prevStr map[*Node]strSnapshot) {
	if d.IsSkipped(steps) {
		return
	}

	switch n.Kind {
	case NodeObject:
		d.fireValue(n, steps)
		for i, key := range n.Keys {
			child := n.Children[i]
			childSteps := append(append([]concreteStep{}, steps...), concreteStep{key: key})
			d.walk(child, childSteps, prevStr)
		}
	case NodeArray:
		d.fireValue(n, steps)
		for i, child := range n.Children {
			childSteps := append(append([]concreteStep{}, steps...), concreteStep{isIndex: true, idx: i})
			d.walk(child, childSteps, prevStr)
		}
	default:
		d.fireValue(n, steps)
		if n.Tag == TagString {
			d.fireDelta(n, steps, prevStr)
		}
	}
}

func (d *Dispatcher) fireValue(n *Node, steps []concreteStep) {
	if n.Synthetic || d.valueFired[n] {
		return
	}
	pathStr := concretePathString(steps)
	v := Value{tape: n.tape, idx: n.idx}
	fired := false
	for _, s := range d.subs {
		switch s.kind {
		case subValue:
			if s.path.matchesSteps(steps) {
				s.value(pathStr, v)
				fired = true
			}
		case subSchema:
			if s.path.matchesSteps(steps) {
				if data, ok := s.schema.SafeParse(v); ok {
					s.onSch(pathStr, data)
				}
				fired = true
			}
		}
	}
	if fired {
		d.valueFired[n] = true
	}
}

func (d *Dispatcher) fireDelta(n *Node, steps []concreteStep, prevStr map[*Node]strSnapshot) {
	curDecoded := len(n.Str)
	prev := prevStr[n]
	if curDecoded <= prev.decodedLen {
		return
	}
	pathStr := concretePathString(steps)
	newText := n.Str[prev.decodedLen:curDecoded]
	srcOffset, srcLength := prev.srcLen, n.SrcLen-prev.srcLen
	for _, s := range d.subs {
		if s.kind == subDelta && s.path.matchesSteps(steps) {
			s.delta(pathStr, newText, srcOffset, srcLength)
		}
	}
}
