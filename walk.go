// Copyright 2024 Ross Light
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

// WalkOptions is the set of parameters to [Walk].
type WalkOptions struct {
	// If Pre is not nil, it is called for each node before the node's children are traversed (pre-order).
	// If Pre returns false, no children are traversed, and Post is not called for that node.
	Pre func(n *Node) bool
	// If Post is not nil, it is called for each non-leaf node after its children are traversed (post-order).
	// If Post returns false, traversal is terminated and Walk returns immediately.
	Post func(n *Node) bool
}

// Walk traverses a subtree recursively, starting with root,
// and calling [WalkOptions.Pre] and [WalkOptions.Post].
// It is a callback-style convenience over [Iterator];
// the iterator's mutation contract applies.
func Walk(root *Node, opts *WalkOptions) {
	iter := NewIterator(root)
	if iter == nil {
		return
	}
	for iter.Next() != DoneEvent {
		node := iter.Node()
		switch iter.Event() {
		case EnterEvent:
			if opts.Pre != nil && !opts.Pre(node) && !isLeafKind(node.kind) {
				// Skip the subtree, consuming the node's exit
				// so that Post is not called for it either.
				iter.Reset(node, ExitEvent)
			}
		case ExitEvent:
			if opts.Post != nil && !opts.Post(node) {
				return
			}
		}
	}
}
