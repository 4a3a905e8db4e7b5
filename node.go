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

//go:generate stringer -type=NodeKind,EventType -output=kind_string.go

package cssg

// A Node is a single element in a CommonMark document tree.
// Nodes are linked to their parent and siblings
// and exclusively own their children:
// unlinking a subtree transfers it to the caller.
type Node struct {
	kind NodeKind

	parent     *Node
	prev       *Node
	next       *Node
	firstChild *Node
	lastChild  *Node

	startLine   int
	startColumn int
	endLine     int
	endColumn   int

	userData any

	open            bool
	lastLineBlank   bool
	lastLineChecked bool

	literal []byte

	list    listData
	code    codeData
	heading headingData
	link    linkData
	custom  customData

	htmlBlockType int

	// content accumulates the raw inline text of a leaf block during the
	// block pass; the inline pass consumes it.
	content []byte
	// internalOffset is the number of bytes between the block's first
	// column and the start of its collected content on the first line.
	internalOffset int
}

// ListType distinguishes bullet lists from ordered lists.
type ListType uint8

const (
	NoList ListType = iota
	BulletList
	OrderedList
)

// ListDelim is the delimiter style of an ordered list.
type ListDelim uint8

const (
	NoDelim ListDelim = iota
	PeriodDelim
	ParenDelim
)

type listData struct {
	listType     ListType
	delim        ListDelim
	start        int
	tight        bool
	markerOffset int
	padding      int
	bulletChar   byte
}

type codeData struct {
	info        []byte
	fenced      bool
	fenceChar   byte
	fenceLength int
	fenceOffset int
}

type headingData struct {
	level  int
	setext bool
}

type linkData struct {
	url   []byte
	title []byte
}

type customData struct {
	onEnter []byte
	onExit  []byte
}

// NodeKind is an enumeration of the node types in a document tree.
// The zero value ([NoneKind]) is returned by queries on nil nodes.
type NodeKind uint16

const (
	NoneKind NodeKind = iota

	DocumentKind
	BlockQuoteKind
	ListKind
	ItemKind
	CodeBlockKind
	HTMLBlockKind
	CustomBlockKind
	ParagraphKind
	HeadingKind
	ThematicBreakKind

	TextKind
	SoftBreakKind
	LineBreakKind
	CodeKind
	HTMLInlineKind
	CustomInlineKind
	EmphKind
	StrongKind
	LinkKind
	ImageKind
)

// IsBlock reports whether the kind is in the block range.
func (k NodeKind) IsBlock() bool {
	return DocumentKind <= k && k <= ThematicBreakKind
}

// IsInline reports whether the kind is in the inline range.
func (k NodeKind) IsInline() bool {
	return TextKind <= k && k <= ImageKind
}

// NewNode returns a new detached node of the given kind,
// or nil if kind is not a valid block or inline kind.
func NewNode(kind NodeKind) *Node {
	if !kind.IsBlock() && !kind.IsInline() {
		return nil
	}
	n := &Node{kind: kind}
	switch kind {
	case HeadingKind:
		n.heading.level = 1
	case ListKind:
		n.list.listType = BulletList
		n.list.start = 1
		n.list.tight = true
	}
	return n
}

// Kind returns the type of node or [NoneKind] if the node is nil.
func (n *Node) Kind() NodeKind {
	if n == nil {
		return NoneKind
	}
	return n.kind
}

// Parent returns the node's parent or nil.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// FirstChild returns the node's first child or nil.
func (n *Node) FirstChild() *Node {
	if n == nil {
		return nil
	}
	return n.firstChild
}

// LastChild returns the node's last child or nil.
func (n *Node) LastChild() *Node {
	if n == nil {
		return nil
	}
	return n.lastChild
}

// Next returns the node's next sibling or nil.
func (n *Node) Next() *Node {
	if n == nil {
		return nil
	}
	return n.next
}

// Previous returns the node's previous sibling or nil.
func (n *Node) Previous() *Node {
	if n == nil {
		return nil
	}
	return n.prev
}

// StartLine returns the 1-based line on which the node starts in the source.
func (n *Node) StartLine() int {
	if n == nil {
		return 0
	}
	return n.startLine
}

// StartColumn returns the 1-based column at which the node starts.
func (n *Node) StartColumn() int {
	if n == nil {
		return 0
	}
	return n.startColumn
}

// EndLine returns the 1-based line on which the node ends.
func (n *Node) EndLine() int {
	if n == nil {
		return 0
	}
	return n.endLine
}

// EndColumn returns the 1-based column at which the node ends (inclusive).
func (n *Node) EndColumn() int {
	if n == nil {
		return 0
	}
	return n.endColumn
}

// UserData returns the node's opaque user data slot.
func (n *Node) UserData() any {
	if n == nil {
		return nil
	}
	return n.userData
}

// SetUserData stores an arbitrary value on the node.
func (n *Node) SetUserData(v any) {
	if n != nil {
		n.userData = v
	}
}

// Literal returns the node's literal text.
// It is empty for kinds that do not carry literal text.
func (n *Node) Literal() string {
	if n == nil {
		return ""
	}
	switch n.kind {
	case TextKind, CodeKind, HTMLInlineKind, HTMLBlockKind, CodeBlockKind:
		return string(n.literal)
	}
	return ""
}

// SetLiteral replaces the node's literal text,
// reporting whether the node's kind carries literal text.
// An empty string clears the field.
func (n *Node) SetLiteral(s string) bool {
	if n == nil {
		return false
	}
	switch n.kind {
	case TextKind, CodeKind, HTMLInlineKind, HTMLBlockKind, CodeBlockKind:
		n.literal = emptyToNil(s)
		return true
	}
	return false
}

// HeadingLevel returns the 1-based level of a [HeadingKind] node,
// or zero otherwise.
func (n *Node) HeadingLevel() int {
	if n.Kind() != HeadingKind {
		return 0
	}
	return n.heading.level
}

// SetHeadingLevel sets the level of a [HeadingKind] node.
// Levels outside 1..6 are rejected.
func (n *Node) SetHeadingLevel(level int) bool {
	if n.Kind() != HeadingKind || level < 1 || level > 6 {
		return false
	}
	n.heading.level = level
	return true
}

// ListType returns the list type of a [ListKind] node,
// or [NoList] otherwise.
func (n *Node) ListType() ListType {
	if n.Kind() != ListKind {
		return NoList
	}
	return n.list.listType
}

// SetListType sets the type of a [ListKind] node.
// [NoList] is rejected.
func (n *Node) SetListType(t ListType) bool {
	if n.Kind() != ListKind || (t != BulletList && t != OrderedList) {
		return false
	}
	n.list.listType = t
	return true
}

// ListDelim returns the delimiter of an ordered [ListKind] node,
// or [NoDelim] otherwise.
func (n *Node) ListDelim() ListDelim {
	if n.Kind() != ListKind {
		return NoDelim
	}
	return n.list.delim
}

// SetListDelim sets the delimiter style of a [ListKind] node.
func (n *Node) SetListDelim(d ListDelim) bool {
	if n.Kind() != ListKind || (d != PeriodDelim && d != ParenDelim) {
		return false
	}
	n.list.delim = d
	return true
}

// ListStart returns the starting number of an ordered [ListKind] node.
func (n *Node) ListStart() int {
	if n.Kind() != ListKind {
		return 0
	}
	return n.list.start
}

// SetListStart sets the starting number of a [ListKind] node.
// Negative starts are rejected.
func (n *Node) SetListStart(start int) bool {
	if n.Kind() != ListKind || start < 0 {
		return false
	}
	n.list.start = start
	return true
}

// ListTight reports whether a [ListKind] node is tight.
func (n *Node) ListTight() bool {
	return n.Kind() == ListKind && n.list.tight
}

// SetListTight sets the tightness of a [ListKind] node.
func (n *Node) SetListTight(tight bool) bool {
	if n.Kind() != ListKind {
		return false
	}
	n.list.tight = tight
	return true
}

// FenceInfo returns the info string of a [CodeBlockKind] node.
func (n *Node) FenceInfo() string {
	if n.Kind() != CodeBlockKind {
		return ""
	}
	return string(n.code.info)
}

// SetFenceInfo sets the info string of a [CodeBlockKind] node.
func (n *Node) SetFenceInfo(info string) bool {
	if n.Kind() != CodeBlockKind {
		return false
	}
	n.code.info = emptyToNil(info)
	return true
}

// URL returns the destination of a [LinkKind] or [ImageKind] node.
func (n *Node) URL() string {
	k := n.Kind()
	if k != LinkKind && k != ImageKind {
		return ""
	}
	return string(n.link.url)
}

// SetURL sets the destination of a [LinkKind] or [ImageKind] node.
func (n *Node) SetURL(url string) bool {
	k := n.Kind()
	if k != LinkKind && k != ImageKind {
		return false
	}
	n.link.url = emptyToNil(url)
	return true
}

// Title returns the title of a [LinkKind] or [ImageKind] node.
func (n *Node) Title() string {
	k := n.Kind()
	if k != LinkKind && k != ImageKind {
		return ""
	}
	return string(n.link.title)
}

// SetTitle sets the title of a [LinkKind] or [ImageKind] node.
func (n *Node) SetTitle(title string) bool {
	k := n.Kind()
	if k != LinkKind && k != ImageKind {
		return false
	}
	n.link.title = emptyToNil(title)
	return true
}

// OnEnter returns the opening literal of a custom node.
func (n *Node) OnEnter() string {
	k := n.Kind()
	if k != CustomBlockKind && k != CustomInlineKind {
		return ""
	}
	return string(n.custom.onEnter)
}

// SetOnEnter sets the opening literal of a custom node.
func (n *Node) SetOnEnter(s string) bool {
	k := n.Kind()
	if k != CustomBlockKind && k != CustomInlineKind {
		return false
	}
	n.custom.onEnter = emptyToNil(s)
	return true
}

// OnExit returns the closing literal of a custom node.
func (n *Node) OnExit() string {
	k := n.Kind()
	if k != CustomBlockKind && k != CustomInlineKind {
		return ""
	}
	return string(n.custom.onExit)
}

// SetOnExit sets the closing literal of a custom node.
func (n *Node) SetOnExit(s string) bool {
	k := n.Kind()
	if k != CustomBlockKind && k != CustomInlineKind {
		return false
	}
	n.custom.onExit = emptyToNil(s)
	return true
}

func emptyToNil(s string) []byte {
	if s == "" {
		return nil
	}
	return []byte(s)
}

func (n *Node) setSpan(startLine, startColumn, endLine, endColumn int) {
	n.startLine = startLine
	n.startColumn = startColumn
	n.endLine = endLine
	n.endColumn = endColumn
}
