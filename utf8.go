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
	"unicode"
	"unicode/utf8"

	"go4.org/bytereplacer"
	"golang.org/x/text/cases"
)

const replacementCharString = "�"

var nulReplacer = bytereplacer.New("\x00", replacementCharString)

// validateUTF8 returns src with every invalid UTF-8 sequence
// and every NUL byte replaced by U+FFFD.
// A decode error consumes a single byte.
// If src needs no replacement, it is returned unchanged.
func validateUTF8(src []byte) []byte {
	if utf8.Valid(src) {
		if bytes.IndexByte(src, 0) < 0 {
			return src
		}
		return nulReplacer.Replace(bytes.Clone(src))
	}
	dst := make([]byte, 0, len(src)+utf8.UTFMax)
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		if r == utf8.RuneError && size <= 1 {
			dst = append(dst, replacementCharString...)
			i++
			continue
		}
		if r == 0 {
			dst = append(dst, replacementCharString...)
		} else {
			dst = append(dst, src[i:i+size]...)
		}
		i += size
	}
	return dst
}

// caseFold applies Unicode simple case folding to b.
func caseFold(b []byte) []byte {
	return cases.Fold().Bytes(b)
}

// isUnicodeSpace reports whether the rune is in the Zs class
// or is a tab, line feed, form feed, or carriage return.
func isUnicodeSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// isUnicodePunct reports whether the rune is Unicode punctuation or a symbol.
func isUnicodePunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// decodeRuneBefore decodes the rune ending immediately before pos in b.
// It reports a line feed when pos is at the start of b
// and U+FFFD when the preceding bytes are not valid UTF-8.
func decodeRuneBefore(b []byte, pos int) rune {
	if pos <= 0 {
		return '\n'
	}
	r, _ := utf8.DecodeLastRune(b[:pos])
	return r
}

// decodeRuneAt decodes the rune starting at pos in b,
// reporting a line feed at end of input.
func decodeRuneAt(b []byte, pos int) rune {
	if pos >= len(b) {
		return '\n'
	}
	r, _ := utf8.DecodeRune(b[pos:])
	return r
}
