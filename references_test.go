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
	"strings"
	"testing"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"foo", "foo"},
		{"FOO", "foo"},
		{"  foo\t bar\n baz  ", "foo bar baz"},
		{"ΑΓΑΠΗ", "αγαπη"},
		{"Straße", "strasse"},
		{"   ", ""},
		{"", ""},
	}
	for _, test := range tests {
		if got := normalizeLabel([]byte(test.label)); got != test.want {
			t.Errorf("normalizeLabel(%q) = %q; want %q", test.label, got, test.want)
		}
	}
}

func TestReferenceFirstWins(t *testing.T) {
	m := new(referenceMap)
	m.create([]byte("foo"), []byte("/first"), nil)
	m.create([]byte("FOO"), []byte("/second"), nil)
	m.create([]byte("bar"), []byte("/bar"), []byte("\"title\""))

	ref := m.lookup([]byte("Foo"))
	if ref == nil || string(ref.url) != "/first" {
		t.Errorf("lookup(Foo) = %+v; want url /first", ref)
	}
	ref = m.lookup([]byte("bar"))
	if ref == nil || string(ref.url) != "/bar" || string(ref.title) != "title" {
		t.Errorf("lookup(bar) = %+v; want url /bar title \"title\"", ref)
	}
	if ref := m.lookup([]byte("missing")); ref != nil {
		t.Errorf("lookup(missing) = %+v; want nil", ref)
	}
}

func TestReferenceLabelLengthCap(t *testing.T) {
	m := new(referenceMap)
	m.create([]byte("x"), []byte("/x"), nil)
	long := []byte(strings.Repeat("a", maxLinkLabelLength+1))
	if ref := m.lookup(long); ref != nil {
		t.Errorf("lookup(overlong label) = %+v; want nil", ref)
	}
	if ref := m.lookup(nil); ref != nil {
		t.Errorf("lookup(empty label) = %+v; want nil", ref)
	}
}

func TestReferenceExpansionCap(t *testing.T) {
	m := new(referenceMap)
	m.create([]byte("big"), []byte(strings.Repeat("u", 40)), []byte("\""+strings.Repeat("t", 40)+"\""))
	m.maxRefSize = 100

	if ref := m.lookup([]byte("big")); ref == nil {
		t.Fatal("first lookup should fit under the cap")
	}
	if ref := m.lookup([]byte("big")); ref != nil {
		t.Error("second lookup should exceed the cap and miss")
	}
}

func TestReferenceDefinitionsInDocument(t *testing.T) {
	tests := []struct {
		markdown string
		want     string
	}{
		{
			"[foo]: /url \"title\"\n\n[foo]\n",
			"<p><a href=\"/url\" title=\"title\">foo</a></p>\n",
		},
		{
			// First definition wins regardless of duplicate order.
			"[dup]: /first\n[dup]: /second\n\n[dup]\n",
			"<p><a href=\"/first\">dup</a></p>\n",
		},
		{
			// Collapsed and full reference forms.
			"[label]: /dest\n\n[label][] and [text][label]\n",
			"<p><a href=\"/dest\">label</a> and <a href=\"/dest\">text</a></p>\n",
		},
		{
			// Definitions are case-folded.
			"[GRÜSSE]: /de\n\n[grüsse]\n",
			"<p><a href=\"/de\">grüsse</a></p>\n",
		},
		{
			// A definition with trailing garbage is just a paragraph.
			"[foo]: /url extra\n",
			"<p>[foo]: /url extra</p>\n",
		},
		{
			// An unresolvable reference stays literal.
			"[nope][missing]\n",
			"<p>[nope][missing]</p>\n",
		},
	}
	for _, test := range tests {
		got := string(ToHTML([]byte(test.markdown), 0))
		if got != test.want {
			t.Errorf("ToHTML(%q) = %q; want %q", test.markdown, got, test.want)
		}
	}
}

func TestMaxReferenceSizeOnParser(t *testing.T) {
	p := NewParser(0)
	p.SetMaxReferenceSize(4)
	p.Feed([]byte("[a]: /long-destination\n\n[a]\n"))
	doc := p.Finish()
	got := string(RenderHTML(doc, 0))
	if want := "<p>[a]</p>\n"; got != want {
		t.Errorf("capped reference rendered %q; want %q", got, want)
	}
}
