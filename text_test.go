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

	"github.com/stretchr/testify/assert"
)

func TestByteClasses(t *testing.T) {
	assert.True(t, isSpace(' '))
	assert.True(t, isSpace('\t'))
	assert.True(t, isSpace('\v'))
	assert.True(t, isSpace('\f'))
	assert.False(t, isSpace('x'))
	assert.True(t, isPunct('!'))
	assert.True(t, isPunct('~'))
	assert.False(t, isPunct('a'))
	assert.False(t, isPunct(' '))
	assert.True(t, isDigit('0'))
	assert.True(t, isAlpha('Z'))
	assert.False(t, isAlnum('-'))
	// Classification is byte-based and locale-independent:
	// nothing above 0x7F is in any class.
	assert.False(t, isPunct(0xA1))
	assert.False(t, isAlpha(0xC0))
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a b", "a b"},
		{"a  b", "a b"},
		{"a\t\n\r\v\fb", "a b"},
		{" a ", " a "},
		{"", ""},
	}
	for _, test := range tests {
		if got := string(normalizeWhitespace(nil, []byte(test.src))); got != test.want {
			t.Errorf("normalizeWhitespace(%q) = %q; want %q", test.src, got, test.want)
		}
	}
}

func TestUnescapeBackslashes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`\*`, `*`},
		{`\\`, `\`},
		{`\a`, `\a`},
		{`a\`, `a\`},
		{`\*\[\]`, `*[]`},
	}
	for _, test := range tests {
		if got := string(unescapeBackslashes(nil, []byte(test.src))); got != test.want {
			t.Errorf("unescapeBackslashes(%q) = %q; want %q", test.src, got, test.want)
		}
	}
}

func TestValidateUTF8Bytes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"plain", "plain"},
		{"héllo", "héllo"},
		{"a\x00b", "a�b"},
		{"a\x80b", "a�b"},
		{"tr\xe2\x82", "tr��"},
		{"ok\xf0\x9f\x99\x82", "ok\U0001F642"},
	}
	for _, test := range tests {
		if got := string(validateUTF8([]byte(test.src))); got != test.want {
			t.Errorf("validateUTF8(%q) = %q; want %q", test.src, got, test.want)
		}
	}
}
