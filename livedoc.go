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

// NodeKind is the shape of a Node in a LiveDoc tree.
type NodeKind int

const (
	NodeScalar NodeKind = iota
	NodeObject
	NodeArray
)

// Node is one element of a LiveDoc tree. Object/array nodes keep stable
// identity across feeds: the same *Node pointer is reused and patched in
// place rather than reallocated, so a caller holding a reference to a
// container keeps seeing it grow. Grounded on the "walk a path, patch a node
// in place, preserve identity" idiom in
// other_examples/0caaf04c_agentflare-ai-go-jsonpatch__patch.go.go, combined
// with the teacher's own container open/close bookkeeping
// (stage2_build_tape.go's containing_scope_offset stack).
type Node struct {
	Kind      NodeKind
	Synthetic bool

	Tag   Tag
	I     int64
	U     uint64
	F     float64
	Str   string

	// SrcLen is a TagString node's current content length in raw source
	// bytes (before escape-decoding). A Dispatcher delta subscription
	// diffs this against its previous snapshot to report a growing
	// string's newly-committed bytes by source span rather than by
	// decoded character count, since the two diverge for escaped content.
	SrcLen int

	Keys     []string
	Children []*Node

	// tape and idx locate this node's token in the most recent Tape a
	// Patch built from. They are refreshed every Patch call (a node's
	// identity survives across feeds, but the Tape generation it points
	// into does not), letting a Dispatcher hand subscribers a live Value
	// cursor instead of a copy frozen in time.
	tape *Tape
	idx  int
}

// LiveDoc is the persistent tree view of a Parser's current best-effort
// value, rebuilt incrementally from successive Tapes.
type LiveDoc struct {
	Root *Node
}

// Patch rebuilds d from a freshly-built Tape. Rather than diffing token by
// token, it walks the new tape once and reuses/updates existing *Node
// pointers positionally wherever the kind at a position is unchanged,
// preserving identity for containers and scalars a caller may be holding
// onto; only truly new or kind-changed positions allocate a new Node.
func (d *LiveDoc) Patch(t *Tape) {
	if len(t.Tokens) == 0 {
		d.Root = nil
		return
	}
	idx := 0
	d.Root = patchValue(d.Root, t, &idx)
}

func patchValue(existing *Node, t *Tape, idx *int) *Node {
	startIdx := *idx
	tok := t.Tokens[*idx]
	switch tok.Tag {
	case TagObjectStart:
		n := patchObject(existing, t, idx)
		n.tape, n.idx = t, startIdx
		return n
	case TagArrayStart:
		n := patchArray(existing, t, idx)
		n.tape, n.idx = t, startIdx
		return n
	default:
		n := existing
		if n == nil || n.Kind != NodeScalar {
			n = &Node{Kind: NodeScalar}
		}
		n.Tag = tok.Tag
		n.Synthetic = tok.Synthetic
		n.I, n.U, n.F = tok.I, tok.U, tok.F
		if tok.Tag == TagString {
			n.Str = stringFromToken(t, tok)
			n.SrcLen = int(tok.SrcLen)
		} else {
			n.Str = ""
			n.SrcLen = 0
		}
		n.tape, n.idx = t, startIdx
		*idx++
		return n
	}
}

func patchObject(existing *Node, t *Tape, idx *int) *Node {
	n := existing
	if n == nil || n.Kind != NodeObject {
		n = &Node{Kind: NodeObject}
	}
	startTok := t.Tokens[*idx]
	n.Synthetic = startTok.Synthetic
	n.Keys = n.Keys[:0]
	*idx++ // consume ObjectStart

	childIdx := 0
	for t.Tokens[*idx].Tag != TagObjectEnd {
		keyTok := t.Tokens[*idx]
		key := stringFromToken(t, keyTok)
		*idx++
		n.Keys = append(n.Keys, key)
		var existingChild *Node
		if childIdx < len(n.Children) {
			existingChild = n.Children[childIdx]
		}
		child := patchValue(existingChild, t, idx)
		if childIdx < len(n.Children) {
			n.Children[childIdx] = child
		} else {
			n.Children = append(n.Children, child)
		}
		childIdx++
	}
	n.Children = n.Children[:childIdx]
	endTok := t.Tokens[*idx]
	n.Synthetic = n.Synthetic || endTok.Synthetic
	*idx++ // consume ObjectEnd
	return n
}

func patchArray(existing *Node, t *Tape, idx *int) *Node {
	n := existing
	if n == nil || n.Kind != NodeArray {
		n = &Node{Kind: NodeArray}
	}
	startTok := t.Tokens[*idx]
	n.Synthetic = startTok.Synthetic
	*idx++ // consume ArrayStart

	childIdx := 0
	for t.Tokens[*idx].Tag != TagArrayEnd {
		var existingChild *Node
		if childIdx < len(n.Children) {
			existingChild = n.Children[childIdx]
		}
		child := patchValue(existingChild, t, idx)
		if childIdx < len(n.Children) {
			n.Children[childIdx] = child
		} else {
			n.Children = append(n.Children, child)
		}
		childIdx++
	}
	n.Children = n.Children[:childIdx]
	endTok := t.Tokens[*idx]
	n.Synthetic = n.Synthetic || endTok.Synthetic
	*idx++ // consume ArrayEnd
	return n
}

func stringFromToken(t *Tape, tok Token) string {
	if tok.InArena {
		return string(t.Arena[tok.StrOff : tok.StrOff+tok.StrLen])
	}
	return string(t.Buf[tok.StrOff : tok.StrOff+tok.StrLen])
}
