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
)

func TestParseThematicBreak(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"", -1},
		{"---\n", 3},
		{"***\n", 3},
		{"___\n", 3},
		{"+++\n", -1},
		{"===\n", -1},
		{"--\n", -1},
		{"**\n", -1},
		{"__\n", -1},
		{"_____________________________________\n", 37},
		{"- - -\n", 5},
		{"**  * ** * ** * **\n", 18},
		{"-     -      -      -\n", 21},
		{"- - - -    \n", 7},
		{"_ _ _ _ a\n", -1},
		{"a------\n", -1},
		{"---a---\n", -1},
		{"*-*\n", -1},
	}
	for _, test := range tests {
		if got := parseThematicBreak([]byte(test.line)); got != test.want {
			t.Errorf("parseThematicBreak(%q) = %d; want %d", test.line, got, test.want)
		}
	}
}

func TestParseATXHeading(t *testing.T) {
	tests := []struct {
		line string
		want atxHeading
	}{
		{"# foo\n", atxHeading{level: 1, content: span{start: 2, end: 5}}},
		{"## foo\n", atxHeading{level: 2, content: span{start: 3, end: 6}}},
		{"### foo\n", atxHeading{level: 3, content: span{start: 4, end: 7}}},
		{"#### foo\n", atxHeading{level: 4, content: span{start: 5, end: 8}}},
		{"##### foo\n", atxHeading{level: 5, content: span{start: 6, end: 9}}},
		{"###### foo\n", atxHeading{level: 6, content: span{start: 7, end: 10}}},
		{"####### foo\n", atxHeading{}},
		{"#5 bolt\n", atxHeading{}},
		{"#hashtag\n", atxHeading{}},
		{"# foo *bar* \\*baz\\*\n", atxHeading{level: 1, content: span{start: 2, end: 19}}},
		{"## foo ##\n", atxHeading{level: 2, content: span{start: 3, end: 6}}},
		{"# foo ##################################\n", atxHeading{level: 1, content: span{start: 2, end: 5}}},
		{"### foo ###     \n", atxHeading{level: 3, content: span{start: 4, end: 7}}},
		{"### foo ### b\n", atxHeading{level: 3, content: span{start: 4, end: 13}}},
		{"# foo#\n", atxHeading{level: 1, content: span{start: 2, end: 6}}},
		{"## \n", atxHeading{level: 2, content: span{start: 3, end: 3}}},
		{"#\n", atxHeading{level: 1, content: span{start: 1, end: 1}}},
		{"### ###\n", atxHeading{level: 3, content: span{start: 4, end: 4}}},
		{"\\## foo\n", atxHeading{}},
		{"# foo \\#\n", atxHeading{level: 1, content: span{start: 2, end: 8}}},
		{"## foo #\\##\n", atxHeading{level: 2, content: span{start: 3, end: 11}}},
		{"### foo \\###\n", atxHeading{level: 3, content: span{start: 4, end: 12}}},
		{"# foo \\  #\n", atxHeading{level: 1, content: span{start: 2, end: 8}}},
	}
	for _, test := range tests {
		got := parseATXHeading([]byte(test.line))
		if diff := cmp.Diff(test.want, got, cmp.AllowUnexported(atxHeading{}, span{})); diff != "" {
			t.Errorf("parseATXHeading(%q) (-want +got):\n%s", test.line, diff)
		}
	}
}

func TestParseListMarker(t *testing.T) {
	tests := []struct {
		line string
		want listMarker
	}{
		{"- foo\n", listMarker{delim: '-', end: 1}},
		{"+ foo\n", listMarker{delim: '+', end: 1}},
		{"* foo\n", listMarker{delim: '*', end: 1}},
		{"-foo\n", listMarker{end: -1}},
		{"1. foo\n", listMarker{delim: '.', n: 1, end: 2}},
		{"42) foo\n", listMarker{delim: ')', n: 42, end: 3}},
		{"123456789. ok\n", listMarker{delim: '.', n: 123456789, end: 10}},
		{"1234567890. too long\n", listMarker{end: -1}},
		{"1.foo\n", listMarker{end: -1}},
		{"1\n", listMarker{end: -1}},
		{"-\n", listMarker{delim: '-', end: 1}},
	}
	for _, test := range tests {
		got := parseListMarker([]byte(test.line))
		if diff := cmp.Diff(test.want, got, cmp.AllowUnexported(listMarker{})); diff != "" {
			t.Errorf("parseListMarker(%q) (-want +got):\n%s", test.line, diff)
		}
	}
}

func TestScanAutolinkURI(t *testing.T) {
	tests := []struct {
		s    string
		want int
	}{
		{"http://example.com>", 19},
		{"https://example.com?find=\\*>", 28},
		{"irc://foo.bar:2233/baz>", 23},
		{"MAILTO:FOO@BAR.BAZ>", 19},
		{"a+b+c:d>", 8},
		{"m:abc>", 0},
		{"http://example.com", 0},
		{"http://foo bar>", 0},
		{"http://<>", 0},
		{"3ttp://x>", 0},
		{"http>", 0},
	}
	for _, test := range tests {
		if got := scanAutolinkURI([]byte(test.s)); got != test.want {
			t.Errorf("scanAutolinkURI(%q) = %d; want %d", test.s, got, test.want)
		}
	}
}

func TestScanAutolinkEmail(t *testing.T) {
	tests := []struct {
		s    string
		want int
	}{
		{"foo@bar.example.com>", 20},
		{"foo+special@Bar.baz-bar0.com>", 29},
		{"a.b-c_d@a.b>", 12},
		{"foo@bar>", 8},
		{"a.b-c_d@a.b.>", 0},
		{"a.b-c_d@a.b-.>", 0},
		{"foo@>", 0},
		{"@bar.example.com>", 0},
		{"foo@bar.example.com", 0},
	}
	for _, test := range tests {
		if got := scanAutolinkEmail([]byte(test.s)); got != test.want {
			t.Errorf("scanAutolinkEmail(%q) = %d; want %d", test.s, got, test.want)
		}
	}
}

func TestIsDangerousURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"javascript:alert('hi')", true},
		{"JAVAscript:alert('hi')", true},
		{"vbscript:foo", true},
		{"file:my.js", true},
		{"data:text/html,x", true},
		{"data:image/png;base64,x", false},
		{"data:image/gif;base64,x", false},
		{"data:image/jpeg;base64,x", false},
		{"data:image/webp;base64,x", false},
		{"data:image/svg+xml,x", true},
		{"http://example.com", false},
		{"/relative", false},
		{"", false},
	}
	for _, test := range tests {
		if got := isDangerousURL([]byte(test.url)); got != test.want {
			t.Errorf("isDangerousURL(%q) = %t; want %t", test.url, got, test.want)
		}
	}
}
