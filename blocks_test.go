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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// dumpTree summarizes a tree as nested s-expressions
// of kinds and literals, ignoring source positions.
func dumpTree(n *Node) string {
	sb := new(strings.Builder)
	var walk func(n *Node)
	walk = func(n *Node) {
		sb.WriteString(xmlNodeName(n.Kind()))
		switch n.Kind() {
		case TextKind, CodeKind, HTMLBlockKind, HTMLInlineKind, CodeBlockKind:
			sb.WriteString(strconv.Quote(n.Literal()))
		case HeadingKind:
			sb.WriteString(strconv.Itoa(n.HeadingLevel()))
		case LinkKind, ImageKind:
			sb.WriteString("[" + n.URL() + "]")
		}
		if n.FirstChild() == nil {
			return
		}
		sb.WriteString("(")
		for c := n.FirstChild(); c != nil; c = c.Next() {
			if c != n.FirstChild() {
				sb.WriteString(" ")
			}
			walk(c)
		}
		sb.WriteString(")")
	}
	walk(n)
	return sb.String()
}

func TestParseBlocks(t *testing.T) {
	tests := []struct {
		markdown string
		want     string
	}{
		{
			"paragraph\n",
			`document(paragraph(text"paragraph"))`,
		},
		{
			"No newline",
			`document(paragraph(text"No newline"))`,
		},
		{
			"aaa\nbbb\n\nccc\n",
			`document(paragraph(text"aaa" softbreak text"bbb") paragraph(text"ccc"))`,
		},
		{
			"# Heading\n",
			`document(heading1(text"Heading"))`,
		},
		{
			"## Closed ##\n",
			`document(heading2(text"Closed"))`,
		},
		{
			"Setext\n======\n",
			`document(heading1(text"Setext"))`,
		},
		{
			"Setext\n---\n",
			`document(heading2(text"Setext"))`,
		},
		{
			"---\n",
			`document(thematic_break)`,
		},
		{
			"> quoted\n",
			`document(block_quote(paragraph(text"quoted")))`,
		},
		{
			"> lazy\ncontinuation\n",
			`document(block_quote(paragraph(text"lazy" softbreak text"continuation")))`,
		},
		{
			"    indented code\n",
			`document(code_block"indented code\n")`,
		},
		{
			"```\nfenced\n```\n",
			`document(code_block"fenced\n")`,
		},
		{
			"~~~~\ntildes\n~~~~\n",
			`document(code_block"tildes\n")`,
		},
		{
			"- a\n- b\n",
			`document(list(item(paragraph(text"a")) item(paragraph(text"b"))))`,
		},
		{
			"1. one\n2. two\n",
			`document(list(item(paragraph(text"one")) item(paragraph(text"two"))))`,
		},
		{
			"- a\n* b\n",
			`document(list(item(paragraph(text"a"))) list(item(paragraph(text"b"))))`,
		},
		{
			"- outer\n  - inner\n",
			`document(list(item(paragraph(text"outer") list(item(paragraph(text"inner"))))))`,
		},
		{
			"<div>\nhi\n</div>\n",
			`document(html_block"<div>\nhi\n</div>\n")`,
		},
		{
			"<!-- comment -->\n",
			`document(html_block"<!-- comment -->\n")`,
		},
		{
			"para\n<div>\n",
			`document(paragraph(text"para") html_block"<div>\n")`,
		},
	}
	for _, test := range tests {
		doc := Parse([]byte(test.markdown), 0)
		if got := dumpTree(doc); got != test.want {
			t.Errorf("Parse(%q) =\n\t%s\nwant\n\t%s", test.markdown, got, test.want)
		}
	}
}

func TestFenceInfo(t *testing.T) {
	doc := Parse([]byte("```go linenums\nx := 1\n```\n"), 0)
	code := doc.FirstChild()
	if code.Kind() != CodeBlockKind {
		t.Fatalf("first child is %v; want CodeBlockKind", code.Kind())
	}
	if got, want := code.FenceInfo(), "go linenums"; got != want {
		t.Errorf("FenceInfo() = %q; want %q", got, want)
	}
	if got, want := code.Literal(), "x := 1\n"; got != want {
		t.Errorf("Literal() = %q; want %q", got, want)
	}
}

func TestListTightness(t *testing.T) {
	tests := []struct {
		markdown string
		tight    bool
	}{
		{"- a\n- b\n", true},
		{"- a\n\n- b\n", false},
		{"- a\n\n  second paragraph\n- b\n", false},
		{"1. x\n2. y\n3. z\n", true},
	}
	for _, test := range tests {
		doc := Parse([]byte(test.markdown), 0)
		list := doc.FirstChild()
		if list.Kind() != ListKind {
			t.Fatalf("Parse(%q): first child is %v; want ListKind", test.markdown, list.Kind())
		}
		if got := list.ListTight(); got != test.tight {
			t.Errorf("Parse(%q): ListTight() = %t; want %t", test.markdown, got, test.tight)
		}
	}
}

func TestMixedLineEndings(t *testing.T) {
	doc := Parse([]byte("- a\n- b\r\n- c\r- d"), 0)
	want := `document(list(item(paragraph(text"a")) item(paragraph(text"b")) item(paragraph(text"c")) item(paragraph(text"d"))))`
	if got := dumpTree(doc); got != want {
		t.Errorf("tree = %s; want %s", got, want)
	}
}

func TestFeedAcrossLineEnding(t *testing.T) {
	// A CR at the end of one feed followed by an LF at the start of
	// the next must count as a single line ending.
	p := NewParser(0)
	p.Feed([]byte("line1\r"))
	p.Feed([]byte("\nline2\r\n"))
	doc := p.Finish()

	want := `document(paragraph(text"line1" softbreak text"line2"))`
	if diff := cmp.Diff(want, dumpTree(doc)); diff != "" {
		t.Errorf("tree (-want +got):\n%s", diff)
	}
}

func TestFeedSplitMidLine(t *testing.T) {
	p := NewParser(0)
	for _, b := range []byte("# Split heading\n\ntext\n") {
		p.Feed([]byte{b})
	}
	doc := p.Finish()
	want := `document(heading1(text"Split heading") paragraph(text"text"))`
	if got := dumpTree(doc); got != want {
		t.Errorf("tree = %s; want %s", got, want)
	}
}

func TestParserInTree(t *testing.T) {
	root := NewNode(DocumentKind)
	first := NewNode(ParagraphKind)
	text := NewNode(TextKind)
	text.SetLiteral("existing")
	first.AppendChild(text)
	root.AppendChild(first)

	p := NewParserInTree(0, root)
	p.Feed([]byte("appended\n"))
	doc := p.Finish()

	if doc != root {
		t.Fatal("Finish did not return the provided root")
	}
	want := `document(paragraph(text"existing") paragraph(text"appended"))`
	if got := dumpTree(doc); got != want {
		t.Errorf("tree = %s; want %s", got, want)
	}
}

func TestSourcePositions(t *testing.T) {
	doc := Parse([]byte("# Hi *there*.\n"), 0)

	heading := doc.FirstChild()
	if heading.Kind() != HeadingKind {
		t.Fatalf("first child is %v; want HeadingKind", heading.Kind())
	}
	checkSpan(t, "heading", heading, 1, 1, 1, 13)

	emph := heading.FirstChild().Next()
	if emph.Kind() != EmphKind {
		t.Fatalf("second inline is %v; want EmphKind", emph.Kind())
	}
	checkSpan(t, "emph", emph, 1, 6, 1, 12)
	checkSpan(t, "emph text", emph.FirstChild(), 1, 7, 1, 11)
}

func checkSpan(t *testing.T, name string, n *Node, sl, sc, el, ec int) {
	t.Helper()
	got := [4]int{n.StartLine(), n.StartColumn(), n.EndLine(), n.EndColumn()}
	if want := [4]int{sl, sc, el, ec}; got != want {
		t.Errorf("%s span = %d:%d-%d:%d; want %d:%d-%d:%d",
			name, got[0], got[1], got[2], got[3], sl, sc, el, ec)
	}
}
