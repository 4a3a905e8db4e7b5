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

// Package normhtml normalizes rendered HTML for comparison in tests,
// following the [CommonMark spec test normalization] rules:
// whitespace around block elements is insignificant,
// runs of whitespace collapse outside pre,
// attributes are sorted, and text is re-escaped consistently.
//
// [CommonMark spec test normalization]: https://github.com/commonmark/commonmark-spec/blob/0.30.0/test/normalize.py
package normhtml

import (
	"bytes"
	"sort"
	"unicode"

	"go4.org/bytereplacer"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var textEscaper = bytereplacer.New(
	"&", "&amp;",
	`'`, "&apos;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

// NormalizeHTML strips insignificant output differences from HTML.
func NormalizeHTML(b []byte) []byte {
	n := &normalizer{
		tok:  html.NewTokenizerFragment(bytes.NewReader(b), "div"),
		last: html.StartTagToken,
	}
	for {
		switch n.tok.Next() {
		case html.ErrorToken:
			return n.out
		case html.TextToken:
			n.text()
		case html.StartTagToken:
			n.tag(false)
		case html.SelfClosingTagToken:
			n.tag(true)
		case html.EndTagToken:
			n.endTag()
		case html.CommentToken:
			n.out = append(n.out, n.tok.Raw()...)
			n.last = html.CommentToken
		default:
			n.last = html.DoctypeToken
		}
	}
}

type normalizer struct {
	tok *html.Tokenizer
	out []byte

	inPre   bool
	last    html.TokenType
	lastTag string
}

func (n *normalizer) text() {
	data := n.tok.Text()
	afterTag := n.last == html.StartTagToken || n.last == html.EndTagToken
	if afterTag && n.lastTag == "br" {
		data = bytes.TrimLeft(data, "\n")
	}
	if !n.inPre {
		data = collapseWhitespace(data)
		if afterTag && isBlockTag(n.lastTag) {
			if n.last == html.StartTagToken {
				data = bytes.TrimLeftFunc(data, unicode.IsSpace)
			} else {
				data = bytes.TrimSpace(data)
			}
		}
	}
	n.out = append(n.out, textEscaper.Replace(bytes.Clone(data))...)
	n.last = html.TextToken
}

func (n *normalizer) tag(selfClosing bool) {
	name, hasAttr := n.tok.TagName()
	tag := string(name)
	if tag == "pre" {
		n.inPre = true
	}
	if isBlockTag(tag) {
		n.out = bytes.TrimRightFunc(n.out, unicode.IsSpace)
	}
	n.out = append(n.out, '<')
	n.out = append(n.out, tag...)
	if hasAttr {
		n.attributes()
	}
	n.out = append(n.out, '>')
	n.lastTag = tag
	if selfClosing {
		n.last = html.EndTagToken
	} else {
		n.last = html.StartTagToken
	}
}

// attributes writes the current tag's attributes in sorted order.
func (n *normalizer) attributes() {
	type htmlAttribute struct {
		key   string
		value string
	}
	var attrs []htmlAttribute
	for {
		k, v, more := n.tok.TagAttr()
		attrs = append(attrs, htmlAttribute{string(k), string(v)})
		if !more {
			break
		}
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].key < attrs[j].key
	})
	for _, attr := range attrs {
		n.out = append(n.out, ' ')
		n.out = append(n.out, attr.key...)
		if attr.value != "" {
			n.out = append(n.out, `="`...)
			n.out = append(n.out, html.EscapeString(attr.value)...)
			n.out = append(n.out, '"')
		}
	}
}

func (n *normalizer) endTag() {
	name, _ := n.tok.TagName()
	tag := string(name)
	if tag == "pre" {
		n.inPre = false
	} else if isBlockTag(tag) {
		n.out = bytes.TrimRightFunc(n.out, unicode.IsSpace)
	}
	n.out = append(n.out, "</"...)
	n.out = append(n.out, tag...)
	n.out = append(n.out, '>')
	n.lastTag = tag
	n.last = html.EndTagToken
}

// collapseWhitespace folds every run of ASCII whitespace
// into a single space, including leading and trailing runs.
func collapseWhitespace(b []byte) []byte {
	out := make([]byte, 0, len(b))
	inRun := false
	for _, c := range b {
		switch c {
		case ' ', '\t', '\n', '\f', '\r':
			inRun = true
		default:
			if inRun {
				out = append(out, ' ')
				inRun = false
			}
			out = append(out, c)
		}
	}
	if inRun {
		out = append(out, ' ')
	}
	return out
}

// isBlockTag reports whether the tag renders as a block element,
// meaning surrounding whitespace is insignificant.
func isBlockTag(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.Article, atom.Header, atom.Aside, atom.Hgroup, atom.Blockquote,
		atom.Hr, atom.Iframe, atom.Body, atom.Li, atom.Map, atom.Button,
		atom.Object, atom.Canvas, atom.Ol, atom.Caption, atom.Output,
		atom.Col, atom.P, atom.Colgroup, atom.Pre, atom.Dd, atom.Progress,
		atom.Div, atom.Section, atom.Dl, atom.Table, atom.Td, atom.Dt,
		atom.Tbody, atom.Embed, atom.Textarea, atom.Fieldset, atom.Tfoot,
		atom.Figcaption, atom.Th, atom.Figure, atom.Thead, atom.Footer,
		atom.Tr, atom.Form, atom.Ul, atom.H1, atom.H2, atom.H3, atom.H4,
		atom.H5, atom.H6, atom.Video, atom.Script, atom.Style:
		return true
	}
	return false
}
