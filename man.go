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

import "strconv"

// RenderMan renders the subtree rooted at root as a groff man page body.
// If width is greater than zero, output lines are wrapped at that column.
func RenderMan(root *Node, options Options, width int) []byte {
	return render(root, options, width, manOutc, manRenderNode)
}

// manOutc quotes the bytes that are special to groff:
// a leading period or apostrophe starts a request,
// and hyphen and backslash need escapes everywhere.
func manOutc(r *renderer, escape escaping, c rune, nextc byte) {
	if escape == escapeLiteral {
		r.renderCodePoint(c)
		return
	}
	switch c {
	case '.':
		if r.beginLine {
			r.renderASCII("\\&.")
		} else {
			r.renderCodePoint(c)
		}
	case '\'':
		if r.beginLine {
			r.renderASCII("\\&'")
		} else {
			r.renderCodePoint(c)
		}
	case '-':
		r.renderASCII("\\-")
	case '\\':
		r.renderASCII("\\e")
	case '\u2018':
		r.renderASCII("`")
	case '\u2019':
		r.renderASCII("'")
	case '\u201c':
		r.renderASCII("\\[lq]")
	case '\u201d':
		r.renderASCII("\\[rq]")
	case '\u2014':
		r.renderASCII("\\[em]")
	case '\u2013':
		r.renderASCII("\\[en]")
	default:
		r.renderCodePoint(c)
	}
}

func manRenderNode(r *renderer, node *Node, entering bool) bool {
	allowWrap := r.width > 0 && r.options&(OptNoBreaks|OptHardBreaks) == 0

	switch node.kind {
	case DocumentKind:
	case BlockQuoteKind:
		if entering {
			r.cr()
			r.lit(".RS")
			r.cr()
		} else {
			r.cr()
			r.lit(".RE")
			r.cr()
		}
	case ListKind:
	case ItemKind:
		if entering {
			r.cr()
			if node.parent.ListType() == OrderedList {
				n := node.parent.ListStart()
				for tmp := node.prev; tmp != nil; tmp = tmp.prev {
					n++
				}
				r.lit(".IP \"" + strconv.Itoa(n) + ".\" 4")
			} else {
				r.lit(".IP \\[bu] 2")
			}
			r.cr()
		} else {
			r.cr()
		}
	case HeadingKind:
		if entering {
			r.cr()
			if node.HeadingLevel() == 1 {
				r.lit(".SH")
			} else {
				r.lit(".SS")
			}
			r.cr()
		} else {
			r.cr()
		}
	case CodeBlockKind:
		r.cr()
		r.lit(".IP\n.nf\n\\f[C]\n")
		r.out(node.literal, false, escapeNormal)
		r.cr()
		r.lit("\\f[]\n.fi")
		r.cr()
	case HTMLBlockKind, HTMLInlineKind:
		// Raw HTML has no representation in man output.
	case CustomBlockKind:
		r.cr()
		if entering {
			r.out(node.custom.onEnter, false, escapeLiteral)
		} else {
			r.out(node.custom.onExit, false, escapeLiteral)
		}
		r.cr()
	case ThematicBreakKind:
		r.cr()
		r.lit(".PP\n  *  *  *  *  *")
		r.cr()
	case ParagraphKind:
		if entering {
			// No .PP on the first paragraph of a list item.
			if !(node.parent != nil && node.parent.kind == ItemKind && node.prev == nil) {
				r.cr()
				r.lit(".PP")
				r.cr()
			}
		} else {
			r.blankline()
		}
	case TextKind:
		r.out(node.literal, allowWrap, escapeNormal)
	case LineBreakKind:
		r.lit(".PD 0\n.P\n.PD")
		r.cr()
	case SoftBreakKind:
		if r.options&OptHardBreaks != 0 {
			r.lit(".PD 0\n.P\n.PD")
			r.cr()
		} else {
			r.out([]byte(" "), allowWrap, escapeLiteral)
		}
	case CodeKind:
		r.lit("\\f[C]")
		r.out(node.literal, allowWrap, escapeNormal)
		r.lit("\\f[]")
	case CustomInlineKind:
		if entering {
			r.out(node.custom.onEnter, false, escapeLiteral)
		} else {
			r.out(node.custom.onExit, false, escapeLiteral)
		}
	case StrongKind:
		if entering {
			r.lit("\\f[B]")
		} else {
			r.lit("\\f[]")
		}
	case EmphKind:
		if entering {
			r.lit("\\f[I]")
		} else {
			r.lit("\\f[]")
		}
	case LinkKind:
		if !entering {
			r.lit(" (")
			r.out(node.link.url, allowWrap, escapeURL)
			r.lit(")")
		}
	case ImageKind:
		if entering {
			r.lit("[IMAGE: ")
		} else {
			r.lit("]")
		}
	}
	return true
}
