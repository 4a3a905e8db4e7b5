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

// EventType describes an [Iterator] step.
type EventType uint8

const (
	NoEvent EventType = iota
	EnterEvent
	ExitEvent
	DoneEvent
)

// isLeafKind reports whether the kind never emits [ExitEvent].
func isLeafKind(k NodeKind) bool {
	switch k {
	case HTMLBlockKind, ThematicBreakKind, CodeBlockKind, TextKind,
		SoftBreakKind, LineBreakKind, CodeKind, HTMLInlineKind:
		return true
	}
	return false
}

// An Iterator walks a subtree depth-first,
// visiting every node with an [EnterEvent]
// and every non-leaf node with a matching [ExitEvent].
//
// An Iterator references the tree; it does not own it.
// During iteration a node may be freely modified, unlinked, or discarded
// once its [ExitEvent] has been returned
// (or its [EnterEvent], for leaf kinds):
// by then the iterator has read all the links it still needs.
type Iterator struct {
	root *Node
	cur  iterState
	next iterState
}

type iterState struct {
	ev   EventType
	node *Node
}

// NewIterator returns an iterator over the subtree rooted at root,
// or nil if root is nil.
// The first call to [*Iterator.Next] returns [EnterEvent] for root.
func NewIterator(root *Node) *Iterator {
	if root == nil {
		return nil
	}
	return &Iterator{
		root: root,
		cur:  iterState{ev: NoEvent},
		next: iterState{ev: EnterEvent, node: root},
	}
}

// Next returns the pending event and advances the iterator.
// After the walk is exhausted it returns [DoneEvent] forever.
func (iter *Iterator) Next() EventType {
	ev, node := iter.next.ev, iter.next.node
	iter.cur = iterState{ev: ev, node: node}
	if ev == DoneEvent {
		return ev
	}

	// Roll forward to the next event, setting both fields.
	switch {
	case ev == EnterEvent && !isLeafKind(node.kind):
		if node.firstChild == nil {
			// Stay on this node but exit.
			iter.next = iterState{ev: ExitEvent, node: node}
		} else {
			iter.next = iterState{ev: EnterEvent, node: node.firstChild}
		}
	case node == iter.root:
		// Don't move past root.
		iter.next = iterState{ev: DoneEvent}
	case node.next != nil:
		iter.next = iterState{ev: EnterEvent, node: node.next}
	default:
		iter.next = iterState{ev: ExitEvent, node: node.parent}
	}
	return ev
}

// Node returns the node of the event most recently returned by Next.
func (iter *Iterator) Node() *Node {
	return iter.cur.node
}

// Event returns the event type most recently returned by Next.
func (iter *Iterator) Event() EventType {
	return iter.cur.ev
}

// Root returns the node the iterator was created with.
func (iter *Iterator) Root() *Node {
	return iter.root
}

// Reset schedules (event, node) as the iterator's next step
// and advances once, making it the current event.
func (iter *Iterator) Reset(node *Node, event EventType) {
	iter.next = iterState{ev: event, node: node}
	iter.Next()
}
