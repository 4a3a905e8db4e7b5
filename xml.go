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
	"strconv"
	"unicode/utf8"
)

// xmlMaxIndent caps element indentation depth.
const xmlMaxIndent = 40

const xmlHeader = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
	"<!DOCTYPE document SYSTEM \"CommonMark.dtd\">\n"

// xmlNodeName returns the element name used for the kind
// in CommonMark XML.
func xmlNodeName(k NodeKind) string {
	switch k {
	case DocumentKind:
		return "document"
	case BlockQuoteKind:
		return "block_quote"
	case ListKind:
		return "list"
	case ItemKind:
		return "item"
	case CodeBlockKind:
		return "code_block"
	case HTMLBlockKind:
		return "html_block"
	case CustomBlockKind:
		return "custom_block"
	case ParagraphKind:
		return "paragraph"
	case HeadingKind:
		return "heading"
	case ThematicBreakKind:
		return "thematic_break"
	case TextKind:
		return "text"
	case SoftBreakKind:
		return "softbreak"
	case LineBreakKind:
		return "linebreak"
	case CodeKind:
		return "code"
	case HTMLInlineKind:
		return "html_inline"
	case CustomInlineKind:
		return "custom_inline"
	case EmphKind:
		return "emph"
	case StrongKind:
		return "strong"
	case LinkKind:
		return "link"
	case ImageKind:
		return "image"
	default:
		return "none"
	}
}

// RenderXML renders the subtree rooted at root as CommonMark XML:
// UTF-8, with a fixed DOCTYPE declaration and the CommonMark namespace
// on the root element, child elements indented two spaces per level.
func RenderXML(root *Node, options Options) []byte {
	r := &xmlRenderState{options: options}
	r.dst = append(r.dst, xmlHeader...)
	iter := NewIterator(root)
	for iter.Next() != DoneEvent {
		r.node(iter.Node(), iter.Event() == EnterEvent, iter.Node() == root)
	}
	return r.dst
}

type xmlRenderState struct {
	dst     []byte
	options Options
	indent  int
}

func (r *xmlRenderState) writeIndent() {
	for i := 0; i < r.indent && i < xmlMaxIndent; i++ {
		r.dst = append(r.dst, ' ')
	}
}

func (r *xmlRenderState) attr(name, value string) {
	r.dst = append(r.dst, ' ')
	r.dst = append(r.dst, name...)
	r.dst = append(r.dst, `="`...)
	r.dst = escapeXML(r.dst, []byte(value))
	r.dst = append(r.dst, '"')
}

func (r *xmlRenderState) node(node *Node, entering, isRoot bool) {
	if !entering {
		if node.firstChild != nil {
			r.indent -= 2
			r.writeIndent()
			r.dst = append(r.dst, "</"...)
			r.dst = append(r.dst, xmlNodeName(node.kind)...)
			r.dst = append(r.dst, ">\n"...)
		}
		return
	}

	r.writeIndent()
	r.dst = append(r.dst, '<')
	r.dst = append(r.dst, xmlNodeName(node.kind)...)
	if r.options&OptSourcePos != 0 && node.startLine != 0 {
		r.attr("sourcepos",
			strconv.Itoa(node.startLine)+":"+strconv.Itoa(node.startColumn)+
				"-"+strconv.Itoa(node.endLine)+":"+strconv.Itoa(node.endColumn))
	}
	if isRoot {
		r.attr("xmlns", "http://commonmark.org/xml/1.0")
	}

	switch node.kind {
	case TextKind, CodeKind, HTMLBlockKind, HTMLInlineKind:
		r.dst = append(r.dst, '>')
		r.dst = escapeXML(r.dst, node.literal)
		r.dst = append(r.dst, "</"...)
		r.dst = append(r.dst, xmlNodeName(node.kind)...)
		r.dst = append(r.dst, ">\n"...)
		return
	case ListKind:
		switch node.ListType() {
		case OrderedList:
			r.attr("type", "ordered")
			r.attr("start", strconv.Itoa(node.ListStart()))
			if node.ListDelim() == ParenDelim {
				r.attr("delim", "paren")
			} else {
				r.attr("delim", "period")
			}
		default:
			r.attr("type", "bullet")
		}
		r.attr("tight", strconv.FormatBool(node.ListTight()))
	case HeadingKind:
		r.attr("level", strconv.Itoa(node.HeadingLevel()))
	case CodeBlockKind:
		if len(node.code.info) > 0 {
			r.attr("info", string(node.code.info))
		}
	case CustomBlockKind, CustomInlineKind:
		r.attr("on_enter", node.OnEnter())
		r.attr("on_exit", node.OnExit())
	case LinkKind, ImageKind:
		r.attr("destination", string(node.link.url))
		r.attr("title", string(node.link.title))
	}

	if node.kind == CodeBlockKind {
		r.dst = append(r.dst, '>')
		r.dst = escapeXML(r.dst, node.literal)
		r.dst = append(r.dst, "</"...)
		r.dst = append(r.dst, xmlNodeName(node.kind)...)
		r.dst = append(r.dst, ">\n"...)
		return
	}
	if node.firstChild != nil {
		r.indent += 2
		r.dst = append(r.dst, ">\n"...)
	} else {
		r.dst = append(r.dst, " />\n"...)
	}
}

// escapeXML escapes the XML special characters
// and replaces C0 controls (except tab and line feed),
// U+FFFE, and U+FFFF with U+FFFD.
func escapeXML(dst, src []byte) []byte {
	for i := 0; i < len(src); {
		c, size := utf8.DecodeRune(src[i:])
		switch {
		case c == '<':
			dst = append(dst, "&lt;"...)
		case c == '>':
			dst = append(dst, "&gt;"...)
		case c == '&':
			dst = append(dst, "&amp;"...)
		case c == '"':
			dst = append(dst, "&quot;"...)
		case (c < 0x20 && c != '\t' && c != '\n') || c == 0xfffe || c == 0xffff:
			dst = append(dst, replacementCharString...)
		default:
			dst = append(dst, src[i:i+size]...)
		}
		i += size
	}
	return dst
}
