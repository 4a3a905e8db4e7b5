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

// Package cssg implements a [CommonMark] Markdown processor.
//
// Parsing runs in two phases:
// a line-oriented block pass that builds the document's structure,
// followed by an inline pass that expands each leaf block's collected text
// into inline nodes, resolving link references against the document's
// reference map.
// The result is a mutable tree of [Node] values
// that can be inspected, edited, and rendered
// as HTML, XML, groff man, or CommonMark.
//
// [CommonMark]: https://commonmark.org/
package cssg

import (
	"fmt"
	"io"
)

// Version is the library version,
// with the major version in bits 16-23,
// the minor version in bits 8-15,
// and the patch level in bits 0-7.
const Version = 0x000100

// VersionString is [Version] in human-readable form.
const VersionString = "0.1.0"

// Options is a bit set of parsing and rendering options.
type Options uint32

const (
	// OptSourcePos makes renderers include source position attributes on blocks.
	OptSourcePos Options = 1 << 1
	// OptHardBreaks renders soft line breaks as hard line breaks.
	OptHardBreaks Options = 1 << 2
	// OptSafe is a legacy option with no effect: safe output is the default.
	OptSafe Options = 1 << 3
	// OptNoBreaks renders soft line breaks as single spaces.
	OptNoBreaks Options = 1 << 4
	// OptNormalize is a legacy option with no effect.
	OptNormalize Options = 1 << 8
	// OptValidateUTF8 replaces invalid UTF-8 sequences and NUL bytes
	// in the input with U+FFFD before parsing.
	OptValidateUTF8 Options = 1 << 9
	// OptSmart converts straight quotes to curly quotes,
	// "---" to em dashes, "--" to en dashes, and "..." to ellipses.
	OptSmart Options = 1 << 10
	// OptUnsafe renders raw HTML and dangerous URLs.
	// By default raw HTML is replaced by a placeholder comment
	// and potentially dangerous URLs by empty strings
	// (data: image URLs for a few known media types excepted).
	OptUnsafe Options = 1 << 17
)

// ToHTML parses text as CommonMark and renders it as an HTML fragment.
func ToHTML(text []byte, opts Options) []byte {
	doc := Parse(text, opts)
	return RenderHTML(doc, opts)
}

// Parse parses text as CommonMark and returns the document root.
// Malformed input never fails: every byte sequence parses to a tree.
func Parse(text []byte, opts Options) *Node {
	p := NewParser(opts)
	p.Feed(text)
	return p.Finish()
}

// ParseReader parses the contents of r as CommonMark
// and returns the document root.
func ParseReader(r io.Reader, opts Options) (*Node, error) {
	p := NewParser(opts)
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		p.Feed(buf[:n])
		if err == io.EOF {
			return p.Finish(), nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse markdown: %w", err)
		}
	}
}
