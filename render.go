// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package cssg

import "unicode/utf8"

// escaping selects how an emitter call transforms its text.
type escaping int8

const (
	escapeLiteral escaping = iota
	escapeNormal
	escapeTitle
	escapeURL
)

// A renderer is the common engine behind the man and CommonMark writers:
// an escape-aware emitter with prefix re-emission
// and optional line wrapping.
type renderer struct {
	buffer []byte
	prefix []byte

	column        int
	width         int
	needCR        int
	lastBreakable int

	beginLine       bool
	beginContent    bool
	noLinebreaks    bool
	inTightListItem bool

	options Options

	// outc emits a single code point under the given escaping mode,
	// with one byte of lookahead.
	outc func(r *renderer, escape escaping, c rune, nextc byte)
}

// nodeRenderFunc renders a single iterator event.
// Returning false skips the node's children.
type nodeRenderFunc func(r *renderer, node *Node, entering bool) bool

// render drives a per-format node function over the subtree
// and returns the rendered bytes, always ending with a newline.
func render(root *Node, options Options, width int,
	outc func(r *renderer, escape escaping, c rune, nextc byte),
	renderNode nodeRenderFunc) []byte {
	r := &renderer{
		width:        width,
		beginLine:    true,
		beginContent: true,
		options:      options,
		outc:         outc,
	}
	iter := NewIterator(root)
	for iter.Next() != DoneEvent {
		node := iter.Node()
		entering := iter.Event() == EnterEvent
		if !renderNode(r, node, entering) {
			// Don't render the node's children.
			iter.Reset(node, ExitEvent)
		}
	}
	if len(r.buffer) == 0 || r.buffer[len(r.buffer)-1] != '\n' {
		r.buffer = append(r.buffer, '\n')
	}
	return r.buffer
}

// cr requests at most one pending newline.
func (r *renderer) cr() {
	if r.needCR < 1 {
		r.needCR = 1
	}
}

// blankline requests a blank line (at most two pending newlines).
func (r *renderer) blankline() {
	if r.needCR < 2 {
		r.needCR = 2
	}
}

// lit emits a string without wrapping or escaping.
func (r *renderer) lit(s string) {
	r.out([]byte(s), false, escapeLiteral)
}

// renderASCII appends a raw ASCII string, tracking the column.
func (r *renderer) renderASCII(s string) {
	r.buffer = append(r.buffer, s...)
	r.column += len(s)
}

// renderCodePoint appends a single code point, tracking the column.
func (r *renderer) renderCodePoint(c rune) {
	r.buffer = utf8.AppendRune(r.buffer, c)
	r.column++
}

// out emits source under the given escaping mode.
// When wrap is true and a width is set,
// the emitter remembers the last breakable space
// and re-breaks the line once the column passes the width,
// re-emitting the prefix on the new line.
// Breaks that would put a digit at the start of a line are suppressed
// (a wrapped "1." would turn into a list item).
func (r *renderer) out(source []byte, wrap bool, escape escaping) {
	wrap = wrap && !r.noLinebreaks && r.width > 0

	if r.inTightListItem && r.needCR > 1 {
		r.needCR = 1
	}
	k := len(r.buffer) - 1
	for r.needCR > 0 {
		if k < 0 || (k < len(r.buffer) && r.buffer[k] == '\n') {
			k--
		} else {
			r.buffer = append(r.buffer, '\n')
			if r.needCR > 1 {
				r.buffer = append(r.buffer, r.prefix...)
			}
		}
		r.column = 0
		r.beginLine = true
		r.beginContent = true
		r.needCR--
	}

	for i := 0; i < len(source); {
		if r.beginLine {
			r.buffer = append(r.buffer, r.prefix...)
			// Assumes the prefix is ASCII.
			r.column = len(r.prefix)
		}
		c, size := utf8.DecodeRune(source[i:])
		if c == utf8.RuneError && size <= 1 {
			// Skip the invalid byte.
			i++
			continue
		}
		nextc := peek(source, i+size)
		switch {
		case c == ' ' && wrap:
			if !r.beginLine {
				lastNonspace := len(r.buffer)
				r.buffer = append(r.buffer, ' ')
				r.column++
				r.beginLine = false
				r.beginContent = false
				// Skip following spaces.
				for peek(source, i+1) == ' ' {
					i++
				}
				if !isDigit(peek(source, i+1)) {
					r.lastBreakable = lastNonspace
				}
			}
		case c == '\n' && escape == escapeLiteral:
			r.buffer = append(r.buffer, '\n')
			r.column = 0
			r.beginLine = true
			r.beginContent = true
			r.lastBreakable = 0
		default:
			r.outc(r, escape, c, nextc)
			r.beginLine = false
			r.beginContent = r.beginContent && isDigit(byte(c&0x7f)) && c < 0x80
		}

		// If the character pushed us past the width,
		// break at the last breakable point.
		if r.width > 0 && r.column > r.width && !r.beginLine && r.lastBreakable > 0 {
			remainder := append([]byte(nil), r.buffer[r.lastBreakable+1:]...)
			r.buffer = r.buffer[:r.lastBreakable]
			r.buffer = append(r.buffer, '\n')
			r.buffer = append(r.buffer, r.prefix...)
			r.buffer = append(r.buffer, remainder...)
			r.column = len(r.prefix) + len(remainder)
			r.lastBreakable = 0
			r.beginLine = false
			r.beginContent = false
		}
		i += size
	}
}

// pushPrefix appends to the line prefix re-emitted after breaks.
func (r *renderer) pushPrefix(s string) {
	r.prefix = append(r.prefix, s...)
}

// popPrefix removes n bytes from the line prefix.
func (r *renderer) popPrefix(n int) {
	r.prefix = r.prefix[:len(r.prefix)-n]
}

// getContainingBlock returns node itself if it is a block,
// or its nearest block ancestor.
func getContainingBlock(node *Node) *Node {
	for node != nil {
		if node.kind.IsBlock() {
			return node
		}
		node = node.parent
	}
	return nil
}

// updateTightListItem recomputes whether the node renders
// inside a tight list item.
func (r *renderer) updateTightListItem(node *Node) {
	tmp := getContainingBlock(node)
	r.inTightListItem = tmp != nil &&
		((tmp.kind == ItemKind && tmp.parent.ListTight()) ||
			(tmp.parent != nil && tmp.parent.kind == ItemKind && tmp.parent.parent.ListTight()))
}
