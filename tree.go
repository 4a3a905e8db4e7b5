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

import "fmt"

// canContain reports whether child may be spliced under parent.
// It enforces the tree's containment rules
// and rejects any splice that would make a node its own ancestor.
func canContain(parent, child *Node) bool {
	if parent == nil || child == nil {
		return false
	}
	for cur := parent; cur != nil; cur = cur.parent {
		if cur == child {
			return false
		}
	}
	if child.kind == DocumentKind {
		return false
	}
	switch parent.kind {
	case DocumentKind, BlockQuoteKind, ItemKind:
		return child.kind.IsBlock() && child.kind != ItemKind
	case ListKind:
		return child.kind == ItemKind
	case CustomBlockKind:
		return true
	case ParagraphKind, HeadingKind, EmphKind, StrongKind, LinkKind, ImageKind, CustomInlineKind:
		return child.kind.IsInline()
	}
	return false
}

// Unlink detaches the node and its descendants from the tree.
// The caller assumes ownership of the detached subtree.
// Unlinking a detached node or nil no-ops.
func (n *Node) Unlink() {
	if n == nil {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if n.parent != nil {
		if n.parent.firstChild == n {
			n.parent.firstChild = n.next
		}
		if n.parent.lastChild == n {
			n.parent.lastChild = n.prev
		}
	}
	n.parent = nil
	n.prev = nil
	n.next = nil
}

// InsertBefore splices sibling into the tree
// immediately before n, under n's parent.
// It reports whether the splice was performed;
// it fails if n is detached or the containment rules forbid the pair,
// leaving both trees unchanged.
func (n *Node) InsertBefore(sibling *Node) bool {
	if n == nil || sibling == nil || !canContain(n.parent, sibling) {
		return false
	}
	sibling.Unlink()
	oldPrev := n.prev
	sibling.prev = oldPrev
	if oldPrev != nil {
		oldPrev.next = sibling
	}
	sibling.next = n
	n.prev = sibling
	sibling.parent = n.parent
	if oldPrev == nil {
		sibling.parent.firstChild = sibling
	}
	return true
}

// InsertAfter splices sibling into the tree
// immediately after n, under n's parent.
func (n *Node) InsertAfter(sibling *Node) bool {
	if n == nil || sibling == nil || !canContain(n.parent, sibling) {
		return false
	}
	sibling.Unlink()
	oldNext := n.next
	sibling.next = oldNext
	if oldNext != nil {
		oldNext.prev = sibling
	}
	sibling.prev = n
	n.next = sibling
	sibling.parent = n.parent
	if oldNext == nil {
		sibling.parent.lastChild = sibling
	}
	return true
}

// Replace substitutes newNode for n in the tree and unlinks n.
// The caller retains ownership of n; it is not released.
func (n *Node) Replace(newNode *Node) bool {
	if !n.InsertBefore(newNode) {
		return false
	}
	n.Unlink()
	return true
}

// PrependChild splices child as n's first child.
func (n *Node) PrependChild(child *Node) bool {
	if !canContain(n, child) {
		return false
	}
	child.Unlink()
	old := n.firstChild
	n.firstChild = child
	if old != nil {
		old.prev = child
		child.next = old
	} else {
		n.lastChild = child
	}
	child.parent = n
	return true
}

// AppendChild splices child as n's last child.
func (n *Node) AppendChild(child *Node) bool {
	if !canContain(n, child) {
		return false
	}
	child.Unlink()
	old := n.lastChild
	n.lastChild = child
	if old != nil {
		old.next = child
		child.prev = old
	} else {
		n.firstChild = child
	}
	child.parent = n
	return true
}

// CheckConsistency verifies the subtree's prev, parent, and lastChild links,
// repairing any broken link in place.
// Every repair is reported through report (which may be nil)
// and counted in the return value; zero means the subtree was sound.
func CheckConsistency(node *Node, report func(msg string)) int {
	if node == nil {
		return 0
	}
	errors := 0
	fix := func(n *Node, field string) {
		if report != nil {
			report(fmt.Sprintf("%v at %d:%d: invalid %q link", n.kind, n.startLine, n.startColumn, field))
		}
		errors++
	}
	cur := node
	for {
		if cur.firstChild != nil {
			if cur.firstChild.prev != nil {
				fix(cur.firstChild, "prev")
				cur.firstChild.prev = nil
			}
			if cur.firstChild.parent != cur {
				fix(cur.firstChild, "parent")
				cur.firstChild.parent = cur
			}
			cur = cur.firstChild
			continue
		}
		for {
			if cur == node {
				return errors
			}
			if cur.next != nil {
				if cur.next.prev != cur {
					fix(cur.next, "prev")
					cur.next.prev = cur
				}
				if cur.next.parent != cur.parent {
					fix(cur.next, "parent")
					cur.next.parent = cur.parent
				}
				cur = cur.next
				break
			}
			if cur.parent.lastChild != cur {
				fix(cur, "last_child")
				cur.parent.lastChild = cur
			}
			cur = cur.parent
		}
	}
}

// ConsolidateTextNodes merges every maximal run of adjacent [TextKind]
// siblings in the subtree into its first member,
// which takes on the concatenated literal
// and the final member's end position.
func ConsolidateTextNodes(root *Node) {
	if root == nil {
		return
	}
	iter := NewIterator(root)
	var buf []byte
	for iter.Next() != DoneEvent {
		cur := iter.Node()
		if iter.Event() != EnterEvent || cur.kind != TextKind || cur.next.Kind() != TextKind {
			continue
		}
		buf = append(buf[:0], cur.literal...)
		for tmp := cur.next; tmp.Kind() == TextKind; {
			iter.Next()
			buf = append(buf, tmp.literal...)
			cur.endColumn = tmp.endColumn
			cur.endLine = tmp.endLine
			next := tmp.next
			tmp.Unlink()
			tmp = next
		}
		cur.literal = append([]byte(nil), buf...)
	}
}
