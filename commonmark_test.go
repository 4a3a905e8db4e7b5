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
	"testing"

	"github.com/google/go-cmp/cmp"
	"zombiezen.com/go/cssg/internal/normhtml"
)

func TestRenderCommonMark(t *testing.T) {
	tests := []struct {
		markdown string
		want     string
	}{
		{"paragraph\n", "paragraph\n"},
		{"# Heading\n", "# Heading\n"},
		{"Setext\n======\n", "# Setext\n"},
		{"*emph* and **strong**\n", "*emph* and **strong**\n"},
		{"`code`\n", "`code`\n"},
		{"> quote\n", "> quote\n"},
		{"- a\n- b\n", "  - a\n  - b\n"},
		{"***\n", "-----\n"},
		{"[x](/url)\n", "[x](/url)\n"},
		{"<https://example.com>\n", "<https://example.com>\n"},
		{"\\*escaped\\*\n", "\\*escaped\\*\n"},
	}
	for _, test := range tests {
		doc := Parse([]byte(test.markdown), 0)
		got := string(RenderCommonMark(doc, 0, 0))
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("RenderCommonMark(Parse(%q)) (-want +got):\n%s", test.markdown, diff)
		}
	}
}

// TestCommonMarkRoundTrip checks that rendering a document as CommonMark
// and re-parsing the result yields a semantically equal tree.
func TestCommonMarkRoundTrip(t *testing.T) {
	inputs := []string{
		"paragraph\n",
		"two\nlines\n",
		"# Heading\n\nbody\n",
		"## Another *heading*\n",
		"*emph* **strong** ***both***\n",
		"intra_word_underscores stay\n",
		"`code span` and `` a`b ``\n",
		"- a\n- b\n- c\n",
		"1. one\n2. two\n",
		"- outer\n  - inner\n",
		"- loose\n\n- list\n",
		"> quoted text\n> more\n",
		"> nested\n> > quotes\n",
		"```\nfenced code\n```\n",
		"```go\npackage main\n```\n",
		"    indented code\n",
		"---\n",
		"[link](/url \"title\") and ![img](/pic.png)\n",
		"<https://example.com/auto>\n",
		"hard  \nbreak\n",
		"a \\* literal asterisk\n",
		"1996. year or list?\n",
	}
	for _, input := range inputs {
		doc := Parse([]byte(input), 0)
		rendered := RenderCommonMark(doc, 0, 0)
		reparsed := Parse(rendered, 0)

		origHTML := normhtml.NormalizeHTML(RenderHTML(doc, 0))
		rtHTML := normhtml.NormalizeHTML(RenderHTML(reparsed, 0))
		if diff := cmp.Diff(string(origHTML), string(rtHTML)); diff != "" {
			t.Errorf("round trip of %q changed semantics (-orig +roundtrip):\n%s\nintermediate:\n%s",
				input, diff, rendered)
		}
	}
}

func TestRenderCommonMarkWrap(t *testing.T) {
	doc := Parse([]byte("aaa bbb ccc ddd eee fff ggg hhh iii jjj kkk lll mmm nnn\n"), 0)
	got := RenderCommonMark(doc, 0, 20)

	lines := 0
	for _, line := range splitLines(got) {
		lines++
		if len(line) > 25 {
			t.Errorf("wrapped line too long (%d bytes): %q", len(line), line)
		}
	}
	if lines < 2 {
		t.Errorf("expected wrapping to produce multiple lines, got %d", lines)
	}

	// Wrapped output must parse back to the same single paragraph.
	reparsed := Parse(got, 0)
	origHTML := RenderHTML(Parse([]byte("aaa bbb ccc ddd eee fff ggg hhh iii jjj kkk lll mmm nnn\n"), 0), 0)
	rtHTML := RenderHTML(reparsed, 0)
	wantText := string(normhtml.NormalizeHTML(origHTML))
	gotText := string(normhtml.NormalizeHTML(rtHTML))
	if wantText != gotText {
		t.Errorf("wrapped round trip = %q; want %q", gotText, wantText)
	}
}

// TestRenderManBasic exercises the man writer's block shapes.
func TestRenderManBasic(t *testing.T) {
	tests := []struct {
		markdown string
		contains []string
	}{
		{"# Title\n\nbody\n", []string{".SH\nTitle\n", ".PP\nbody\n"}},
		{"## Section\n", []string{".SS\nSection\n"}},
		{"> quote\n", []string{".RS\n", ".RE\n"}},
		{"- a\n- b\n", []string{".IP \\[bu] 2\n"}},
		{"1. one\n", []string{".IP \"1.\" 4\n"}},
		{"`co-de`\n", []string{"\\f[C]co\\-de\\f[]\n"}},
		{"*emph*\n", []string{"\\f[I]emph\\f[]\n"}},
		{"```\nblock\n```\n", []string{".nf\n\\f[C]\nblock\n\\f[]\n.fi\n"}},
	}
	for _, test := range tests {
		got := string(RenderMan(Parse([]byte(test.markdown), 0), 0, 0))
		for _, want := range test.contains {
			if !containsString(got, want) {
				t.Errorf("RenderMan(%q) = %q; missing %q", test.markdown, got, want)
			}
		}
	}
}

func splitLines(b []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, c := range b {
		if c == '\n' {
			lines = append(lines, b[start:i])
			start = i + 1
		}
	}
	if start < len(b) {
		lines = append(lines, b[start:])
	}
	return lines
}

func containsString(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
