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

import "strings"

// matchHTMLBlockStart returns the 1-based [HTML block] type
// started by the line, or 0.
// The seven start conditions are tried in order;
// only type 7 is barred from interrupting a paragraph.
//
// [HTML block]: https://spec.commonmark.org/0.30/#html-blocks
func matchHTMLBlockStart(line []byte, inParagraph bool) int {
	if len(line) == 0 || line[0] != '<' {
		return 0
	}
	rest := line[1:]
	switch {
	case startsHTMLBlockType1(rest):
		return 1
	case hasBytePrefix(rest, "!--"):
		return 2
	case hasBytePrefix(rest, "?"):
		return 3
	case hasBytePrefix(rest, "![CDATA["):
		return 5
	case len(rest) >= 2 && rest[0] == '!' && isAlpha(rest[1]):
		return 4
	case startsHTMLBlockType6(rest):
		return 6
	case !inParagraph && startsHTMLBlockType7(line):
		return 7
	}
	return 0
}

// matchHTMLBlockEnd reports whether the line satisfies the
// end condition for the given block type.
// The line holding the end condition belongs to the block for types 1-5;
// types 6 and 7 end before a blank line.
func matchHTMLBlockEnd(blockType int, line []byte) bool {
	switch blockType {
	case 1:
		for _, closer := range []string{"</pre>", "</script>", "</style>", "</textarea>"} {
			if caseInsensitiveContains(line, closer) {
				return true
			}
		}
		return false
	case 2:
		return contains(line, "-->")
	case 3:
		return contains(line, "?>")
	case 4:
		return contains(line, ">")
	case 5:
		return contains(line, "]]>")
	case 6, 7:
		return isBlankLine(line)
	}
	return false
}

// startsHTMLBlockType1 matches a pre, script, style, or textarea tag
// just past its '<'.
// These blocks swallow blank lines until their closing tag.
func startsHTMLBlockType1(rest []byte) bool {
	for _, name := range []string{"pre", "script", "style", "textarea"} {
		if !hasCaseInsensitiveBytePrefix(rest, name) {
			continue
		}
		after := rest[len(name):]
		if len(after) == 0 || after[0] == '>' || isSpaceTabOrLineEnding(after[0]) {
			return true
		}
	}
	return false
}

// startsHTMLBlockType6 matches an opening or closing tag
// whose name is one of the known block-level elements,
// just past its '<'.
// The tag itself need not be complete.
func startsHTMLBlockType6(rest []byte) bool {
	if hasBytePrefix(rest, "/") {
		rest = rest[1:]
	}
	n := scanHTMLTagName(rest)
	if n == 0 || !htmlBlockTags[lowerTagName(rest[:n])] {
		return false
	}
	after := rest[n:]
	return len(after) == 0 || after[0] == '>' ||
		isSpaceTabOrLineEnding(after[0]) || hasBytePrefix(after, "/>")
}

// startsHTMLBlockType7 matches a line that is nothing but
// a single complete open or closing tag, of any name.
// line includes the leading '<'.
func startsHTMLBlockType7(line []byte) bool {
	var n int
	if hasBytePrefix(line, "</") {
		n = scanHTMLClosingTag(line[2:])
		if n >= 0 {
			n += 2
		}
	} else {
		n = scanHTMLOpenTag(line[1:])
		if n >= 0 {
			n++
		}
	}
	return n >= 0 && isBlankLine(line[n:])
}

// lowerTagName lowercases an ASCII tag name for table lookup,
// avoiding an allocation for names that are already lowercase.
func lowerTagName(name []byte) string {
	for _, c := range name {
		if 'A' <= c && c <= 'Z' {
			return strings.ToLower(string(name))
		}
	}
	return string(name)
}

// htmlBlockTags is the [type 6] tag name list.
//
// [type 6]: https://spec.commonmark.org/0.30/#html-blocks
var htmlBlockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "base": true,
	"basefont": true, "blockquote": true, "body": true, "caption": true,
	"center": true, "col": true, "colgroup": true, "dd": true,
	"details": true, "dialog": true, "dir": true, "div": true, "dl": true,
	"dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "frame": true, "frameset": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"head": true, "header": true, "hr": true, "html": true, "iframe": true,
	"legend": true, "li": true, "link": true, "main": true, "menu": true,
	"menuitem": true, "nav": true, "noframes": true, "ol": true,
	"optgroup": true, "option": true, "p": true, "param": true,
	"section": true, "source": true, "summary": true, "table": true,
	"tbody": true, "td": true, "template": true, "tfoot": true, "th": true,
	"thead": true, "title": true, "tr": true, "track": true, "ul": true,
}

// scanHTMLTag returns the number of bytes in a [raw HTML] tag
// at the beginning of s, or -1.
// s starts just past the opening '<'.
//
// [raw HTML]: https://spec.commonmark.org/0.30/#raw-html
func scanHTMLTag(s []byte) int {
	if len(s) == 0 {
		return -1
	}
	switch s[0] {
	case '/':
		if n := scanHTMLClosingTag(s[1:]); n >= 0 {
			return n + 1
		}
		return -1
	case '?':
		// Processing instruction.
		for i := 1; i+1 < len(s); i++ {
			if s[i] == '?' && s[i+1] == '>' {
				return i + 2
			}
		}
		return -1
	case '!':
		switch {
		case hasBytePrefix(s[1:], "--"):
			return scanHTMLComment(s)
		case hasBytePrefix(s[1:], "[CDATA["):
			for i := len("![CDATA["); i+3 <= len(s); i++ {
				if s[i] == ']' && s[i+1] == ']' && s[i+2] == '>' {
					return i + 3
				}
			}
			return -1
		case len(s) >= 2 && isAlpha(s[1]):
			// Declaration.
			for i := 2; i < len(s); i++ {
				if s[i] == '>' {
					return i + 1
				}
			}
			return -1
		}
		return -1
	default:
		return scanHTMLOpenTag(s)
	}
}

// scanHTMLComment matches "!--" text "-->"
// where text does not start with '>' or "->" and does not contain "--".
func scanHTMLComment(s []byte) int {
	i := len("!--")
	if hasBytePrefix(s[i:], ">") || hasBytePrefix(s[i:], "->") {
		return -1
	}
	for ; i+1 < len(s); i++ {
		if s[i] == '-' && s[i+1] == '-' {
			if i+2 < len(s) && s[i+2] == '>' {
				return i + 3
			}
			return -1
		}
	}
	return -1
}

// scanHTMLOpenTag matches tagname attribute* whitespace* '/'? '>'
// and returns the number of bytes consumed (including '>'), or -1.
func scanHTMLOpenTag(s []byte) int {
	i := scanHTMLTagName(s)
	if i <= 0 {
		return -1
	}
	for {
		n := scanHTMLAttribute(s[i:])
		if n <= 0 {
			break
		}
		i += n
	}
	i += scanHTMLWhitespace(s[i:])
	if i < len(s) && s[i] == '/' {
		i++
	}
	if i < len(s) && s[i] == '>' {
		return i + 1
	}
	return -1
}

// scanHTMLClosingTag matches tagname whitespace* '>'
// just past the "</" and returns the number of bytes consumed, or -1.
func scanHTMLClosingTag(s []byte) int {
	i := scanHTMLTagName(s)
	if i <= 0 {
		return -1
	}
	i += scanHTMLWhitespace(s[i:])
	if i < len(s) && s[i] == '>' {
		return i + 1
	}
	return -1
}

func scanHTMLTagName(s []byte) int {
	if len(s) == 0 || !isAlpha(s[0]) {
		return 0
	}
	i := 1
	for i < len(s) && (isAlnum(s[i]) || s[i] == '-') {
		i++
	}
	return i
}

// scanHTMLAttribute matches whitespace+ attrname (ws* '=' ws* attrvalue)?.
// It returns 0 if no attribute is present.
func scanHTMLAttribute(s []byte) int {
	i := scanHTMLWhitespace(s)
	if i == 0 || i >= len(s) {
		return 0
	}
	if !(isAlpha(s[i]) || s[i] == '_' || s[i] == ':') {
		return 0
	}
	i++
	for i < len(s) && (isAlnum(s[i]) || strings.IndexByte("_.:-", s[i]) >= 0) {
		i++
	}
	// Optional value.
	j := i + scanHTMLWhitespace(s[i:])
	if j >= len(s) || s[j] != '=' {
		return i
	}
	j++
	j += scanHTMLWhitespace(s[j:])
	if j >= len(s) {
		return i
	}
	switch quote := s[j]; quote {
	case '"', '\'':
		for k := j + 1; k < len(s); k++ {
			if s[k] == quote {
				return k + 1
			}
		}
		return i
	default:
		k := j
		for k < len(s) && isUnquotedAttributeValueChar(s[k]) {
			k++
		}
		if k == j {
			return i
		}
		return k
	}
}

func scanHTMLWhitespace(s []byte) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

func isUnquotedAttributeValueChar(c byte) bool {
	return !isSpaceTabOrLineEnding(c) && strings.IndexByte("\"'=<>`", c) < 0
}
