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

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/atom"
)

const rawHTMLPlaceholder = "<!-- raw HTML omitted -->"

// RenderHTML renders the subtree rooted at root as an HTML fragment.
//
// Unless [OptUnsafe] is set, raw HTML is replaced by a placeholder comment
// and link destinations with dangerous schemes render as empty strings.
func RenderHTML(root *Node, options Options) []byte {
	r := &htmlRenderState{options: options}
	iter := NewIterator(root)
	for iter.Next() != DoneEvent {
		r.node(iter.Node(), iter.Event() == EnterEvent)
	}
	return r.dst
}

type htmlRenderState struct {
	dst     []byte
	options Options
	// plain is the image node whose children are being rendered
	// as alt text, or nil.
	plain *Node
}

// cr appends a newline unless the output is empty
// or already ends with one.
func (r *htmlRenderState) cr() {
	if len(r.dst) > 0 && r.dst[len(r.dst)-1] != '\n' {
		r.dst = append(r.dst, '\n')
	}
}

func (r *htmlRenderState) openTag(name atom.Atom, node *Node, close bool) {
	r.dst = append(r.dst, '<')
	r.dst = append(r.dst, name.String()...)
	r.sourcepos(node)
	if close {
		r.dst = append(r.dst, '>')
	}
}

func (r *htmlRenderState) closeTag(name atom.Atom) {
	r.dst = append(r.dst, "</"...)
	r.dst = append(r.dst, name.String()...)
	r.dst = append(r.dst, '>')
}

func (r *htmlRenderState) sourcepos(node *Node) {
	if r.options&OptSourcePos == 0 || node.startLine == 0 || !node.kind.IsBlock() {
		return
	}
	r.dst = append(r.dst, ` data-sourcepos="`...)
	r.dst = strconv.AppendInt(r.dst, int64(node.startLine), 10)
	r.dst = append(r.dst, ':')
	r.dst = strconv.AppendInt(r.dst, int64(node.startColumn), 10)
	r.dst = append(r.dst, '-')
	r.dst = strconv.AppendInt(r.dst, int64(node.endLine), 10)
	r.dst = append(r.dst, ':')
	r.dst = strconv.AppendInt(r.dst, int64(node.endColumn), 10)
	r.dst = append(r.dst, '"')
}

func headingAtom(level int) atom.Atom {
	switch level {
	case 1:
		return atom.H1
	case 2:
		return atom.H2
	case 3:
		return atom.H3
	case 4:
		return atom.H4
	case 5:
		return atom.H5
	default:
		return atom.H6
	}
}

func (r *htmlRenderState) node(node *Node, entering bool) {
	if r.plain == node {
		// Back at the node that started plain-text rendering.
		r.plain = nil
	}
	if r.plain != nil {
		// Inside an image: render children as alt text.
		switch node.kind {
		case TextKind, CodeKind, HTMLInlineKind:
			r.dst = escapeHTML(r.dst, node.literal)
		case LineBreakKind, SoftBreakKind:
			r.dst = append(r.dst, ' ')
		}
		return
	}
	unsafe := r.options&OptUnsafe != 0
	switch node.kind {
	case DocumentKind:
		// No wrapper; HTML output is a fragment.
	case BlockQuoteKind:
		if entering {
			r.cr()
			r.openTag(atom.Blockquote, node, true)
			r.cr()
		} else {
			r.cr()
			r.closeTag(atom.Blockquote)
			r.cr()
		}
	case ListKind:
		if entering {
			r.cr()
			if node.ListType() == OrderedList {
				r.openTag(atom.Ol, node, false)
				if start := node.ListStart(); start != 1 {
					r.dst = append(r.dst, ` start="`...)
					r.dst = strconv.AppendInt(r.dst, int64(start), 10)
					r.dst = append(r.dst, '"')
				}
				r.dst = append(r.dst, '>')
			} else {
				r.openTag(atom.Ul, node, true)
			}
			r.cr()
		} else {
			r.cr()
			if node.ListType() == OrderedList {
				r.closeTag(atom.Ol)
			} else {
				r.closeTag(atom.Ul)
			}
			r.cr()
		}
	case ItemKind:
		if entering {
			r.cr()
			r.openTag(atom.Li, node, true)
		} else {
			r.closeTag(atom.Li)
			r.cr()
		}
	case HeadingKind:
		name := headingAtom(node.HeadingLevel())
		if entering {
			r.cr()
			r.openTag(name, node, true)
		} else {
			r.closeTag(name)
			r.cr()
		}
	case CodeBlockKind:
		r.cr()
		r.openTag(atom.Pre, node, true)
		r.dst = append(r.dst, "<code"...)
		if info := node.code.info; len(info) > 0 {
			firstWord := info
			if i := bytes.IndexAny(info, " \t"); i >= 0 {
				firstWord = info[:i]
			}
			r.dst = append(r.dst, ` class="language-`...)
			r.dst = escapeHTML(r.dst, firstWord)
			r.dst = append(r.dst, '"')
		}
		r.dst = append(r.dst, '>')
		r.dst = escapeHTML(r.dst, node.literal)
		r.closeTag(atom.Code)
		r.closeTag(atom.Pre)
		r.cr()
	case HTMLBlockKind:
		r.cr()
		if !unsafe {
			r.dst = append(r.dst, rawHTMLPlaceholder...)
		} else {
			r.dst = append(r.dst, node.literal...)
		}
		r.cr()
	case CustomBlockKind:
		r.cr()
		if entering {
			r.dst = append(r.dst, node.custom.onEnter...)
		} else {
			r.dst = append(r.dst, node.custom.onExit...)
		}
		r.cr()
	case ThematicBreakKind:
		r.cr()
		r.openTag(atom.Hr, node, false)
		r.dst = append(r.dst, " />"...)
		r.cr()
	case ParagraphKind:
		tight := node.parent.Parent().ListTight()
		if tight {
			break
		}
		if entering {
			r.cr()
			r.openTag(atom.P, node, true)
		} else {
			r.closeTag(atom.P)
			r.cr()
		}
	case TextKind:
		r.dst = escapeHTML(r.dst, node.literal)
	case LineBreakKind:
		r.dst = append(r.dst, "<br />\n"...)
	case SoftBreakKind:
		switch {
		case r.options&OptHardBreaks != 0:
			r.dst = append(r.dst, "<br />\n"...)
		case r.options&OptNoBreaks != 0:
			r.dst = append(r.dst, ' ')
		default:
			r.dst = append(r.dst, '\n')
		}
	case CodeKind:
		r.dst = append(r.dst, "<code>"...)
		r.dst = escapeHTML(r.dst, node.literal)
		r.closeTag(atom.Code)
	case HTMLInlineKind:
		if !unsafe {
			r.dst = append(r.dst, rawHTMLPlaceholder...)
		} else {
			r.dst = append(r.dst, node.literal...)
		}
	case CustomInlineKind:
		if entering {
			r.dst = append(r.dst, node.custom.onEnter...)
		} else {
			r.dst = append(r.dst, node.custom.onExit...)
		}
	case StrongKind:
		if entering {
			r.openTag(atom.Strong, node, true)
		} else {
			r.closeTag(atom.Strong)
		}
	case EmphKind:
		if entering {
			r.openTag(atom.Em, node, true)
		} else {
			r.closeTag(atom.Em)
		}
	case LinkKind:
		if entering {
			r.dst = append(r.dst, `<a href="`...)
			if unsafe || !isDangerousURL(node.link.url) {
				r.dst = escapeHref(r.dst, node.link.url)
			}
			if title := node.link.title; len(title) > 0 {
				r.dst = append(r.dst, `" title="`...)
				r.dst = escapeHTML(r.dst, title)
			}
			r.dst = append(r.dst, `">`...)
		} else {
			r.closeTag(atom.A)
		}
	case ImageKind:
		if entering {
			r.dst = append(r.dst, `<img src="`...)
			if unsafe || !isDangerousURL(node.link.url) {
				r.dst = escapeHref(r.dst, node.link.url)
			}
			r.dst = append(r.dst, `" alt="`...)
			r.plain = node
		} else {
			if title := node.link.title; len(title) > 0 {
				r.dst = append(r.dst, `" title="`...)
				r.dst = escapeHTML(r.dst, title)
			}
			r.dst = append(r.dst, `" />`...)
		}
	}
}

// escapeHTML appends the HTML-escaped version of a byte slice to another byte slice.
func escapeHTML(dst []byte, src []byte) []byte {
	verbatimStart := 0
	for i, b := range src {
		switch b {
		case '&':
			dst = append(dst, src[verbatimStart:i]...)
			dst = append(dst, "&amp;"...)
			verbatimStart = i + 1
		case '<':
			dst = append(dst, src[verbatimStart:i]...)
			dst = append(dst, "&lt;"...)
			verbatimStart = i + 1
		case '>':
			dst = append(dst, src[verbatimStart:i]...)
			dst = append(dst, "&gt;"...)
			verbatimStart = i + 1
		case '"':
			dst = append(dst, src[verbatimStart:i]...)
			dst = append(dst, "&quot;"...)
			verbatimStart = i + 1
		}
	}
	if verbatimStart < len(src) {
		dst = append(dst, src[verbatimStart:]...)
	}
	return dst
}

// escapeHref percent-encodes URL characters outside the reserved and
// unreserved sets (preserving existing percent escapes)
// and HTML-escapes the result for attribute context.
func escapeHref(dst []byte, src []byte) []byte {
	// RFC 3986 reserved and unreserved characters, except '[' and ']'.
	const safeSet = `;/?:@&=+$,-_.!~*'()#`

	skip := 0
	for i, c := range string(src) {
		if skip > 0 {
			skip--
			dst = utf8.AppendRune(dst, c)
			continue
		}
		switch {
		case c == '&':
			dst = append(dst, "&amp;"...)
		case c == '\'':
			dst = append(dst, "&#x27;"...)
		case c == '"':
			dst = append(dst, "&quot;"...)
		case c == '<':
			dst = append(dst, "&lt;"...)
		case c == '>':
			dst = append(dst, "&gt;"...)
		case c == '%':
			if i+2 < len(src) && isHexDigit(src[i+1]) && isHexDigit(src[i+2]) {
				skip = 2
				dst = append(dst, '%')
			} else {
				dst = append(dst, "%25"...)
			}
		case c < 0x80 && (isAlnum(byte(c)) || strings.ContainsRune(safeSet, c)):
			dst = append(dst, byte(c))
		default:
			var buf [utf8.UTFMax]byte
			n := utf8.EncodeRune(buf[:], c)
			for _, b := range buf[:n] {
				dst = append(dst, '%', urlHexDigit(b>>4), urlHexDigit(b&0x0f))
			}
		}
	}
	return dst
}

func isHexDigit(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func urlHexDigit(x byte) byte {
	if x < 0xa {
		return '0' + x
	}
	return 'A' + x - 0xa
}
