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

import "bytes"

// tabStop is the multiple of columns that a [tab] advances to.
//
// [tab]: https://spec.commonmark.org/0.30/#tabs
const tabStop = 4

// codeIndent is the column width of an indent
// required to start or continue an indented code block.
const codeIndent = 4

// A Parser incrementally assembles a document tree from CommonMark text.
//
// A Parser is a stateful object with exclusive access to its reference map
// and open block chain; it must not be shared between goroutines
// during [Parser.Feed] or [Parser.Finish].
// The finished tree is independent of the parser
// and may be handed off freely.
type Parser struct {
	options Options
	refmap  referenceMap

	root    *Node
	current *Node // deepest block that last received text

	lineNumber           int
	offset               int
	column               int
	firstNonspace        int
	firstNonspaceColumn  int
	indent               int
	blank                bool
	partiallyConsumedTab bool
	lastLineLength       int
	atxEnd               int

	curline             []byte
	linebuf             []byte
	lastFeedEndedWithCR bool
	finished            bool
}

// NewParser returns a parser that will build a fresh document.
func NewParser(opts Options) *Parser {
	root := &Node{
		kind:        DocumentKind,
		open:        true,
		startLine:   1,
		startColumn: 1,
		endLine:     1,
	}
	return NewParserInTree(opts, root)
}

// NewParserInTree returns a parser that appends the blocks it parses
// to the children of root.
// This is useful for assembling a document from fragments.
func NewParserInTree(opts Options, root *Node) *Parser {
	if root.Kind() != DocumentKind {
		panic("parser root must be a document node")
	}
	root.open = true
	return &Parser{
		options: opts,
		root:    root,
		current: root,
	}
}

// SetMaxReferenceSize bounds the total expansion of reference links:
// a reference lookup fails, and the reference renders as literal text,
// when its url+title size would push the summed size of resolved references past n bytes.
// Zero (the default) means no bound.
func (p *Parser) SetMaxReferenceSize(n int) {
	p.refmap.maxRefSize = n
}

// Feed hands the parser the next portion of the document text.
// Data may be split at arbitrary byte boundaries:
// lines are cut at LF, CR, or CR LF,
// and a CR ending one call followed by an LF starting the next
// counts as a single line ending.
// Feed panics if called after [Parser.Finish].
func (p *Parser) Feed(data []byte) {
	if p.finished {
		panic("Feed called after Finish")
	}
	if p.lastFeedEndedWithCR && len(data) > 0 && data[0] == '\n' {
		data = data[1:]
	}
	p.lastFeedEndedWithCR = false
	for i := 0; i < len(data); {
		eol := i
		for eol < len(data) && !isLineEndChar(data[eol]) && data[eol] != 0 {
			eol++
		}
		chunk := data[i:eol]
		switch {
		case eol < len(data) && isLineEndChar(data[eol]):
			line := chunk
			if len(p.linebuf) > 0 {
				p.linebuf = append(p.linebuf, chunk...)
				line = p.linebuf
			}
			p.processLine(line)
			p.linebuf = p.linebuf[:0]
			if data[eol] == '\r' {
				eol++
				if eol == len(data) {
					p.lastFeedEndedWithCR = true
				} else if data[eol] == '\n' {
					eol++
				}
			} else {
				eol++
			}
		case eol < len(data):
			// NUL byte: omit it and insert U+FFFD.
			p.linebuf = append(p.linebuf, chunk...)
			p.linebuf = append(p.linebuf, replacementCharString...)
			eol++
		default:
			p.linebuf = append(p.linebuf, chunk...)
		}
		i = eol
	}
}

// Finish closes all open blocks, runs the inline pass,
// and returns the document root.
// The parser must not be used afterward;
// the caller owns the returned tree.
func (p *Parser) Finish() *Node {
	if p.finished {
		panic("Finish called twice")
	}
	if len(p.linebuf) > 0 {
		p.processLine(p.linebuf)
		p.linebuf = nil
	}
	for p.current != nil && p.current != p.root {
		p.current = p.finalize(p.current)
	}
	p.finalize(p.root)
	p.processInlines()
	ConsolidateTextNodes(p.root)
	root := p.root
	p.root = nil
	p.current = nil
	p.finished = true
	return root
}

func peek(input []byte, i int) byte {
	if i < 0 || i >= len(input) {
		return 0
	}
	return input[i]
}

func acceptsLines(kind NodeKind) bool {
	return kind == ParagraphKind || kind == HeadingKind || kind == CodeBlockKind
}

// parseCanContain is the containment relation used while building blocks.
// Unlike the tree mutators' relation, it never sees inlines or custom blocks.
func parseCanContain(parent, child NodeKind) bool {
	switch parent {
	case DocumentKind, BlockQuoteKind, ItemKind:
		return child.IsBlock() && child != ItemKind
	case ListKind:
		return child == ItemKind
	}
	return false
}

func (p *Parser) processLine(line []byte) {
	if p.options&OptValidateUTF8 != 0 {
		line = validateUTF8(line)
	}
	p.curline = append(p.curline[:0], line...)
	if len(p.curline) == 0 || !isLineEndChar(p.curline[len(p.curline)-1]) {
		p.curline = append(p.curline, '\n')
	}
	input := p.curline

	p.offset = 0
	p.column = 0
	p.blank = false
	p.partiallyConsumedTab = false
	p.atxEnd = -1
	p.lineNumber++

	lastMatched, allMatched := p.checkOpenBlocks(input)
	if lastMatched != nil {
		container := lastMatched
		current := p.current
		container = p.openNewBlocks(container, input, allMatched)
		if current == p.current {
			p.addTextToContainer(container, lastMatched, input)
		}
	}

	p.lastLineLength = len(input)
	if p.lastLineLength > 0 && input[p.lastLineLength-1] == '\n' {
		p.lastLineLength--
	}
	if p.lastLineLength > 0 && input[p.lastLineLength-1] == '\r' {
		p.lastLineLength--
	}
	p.curline = p.curline[:0]
}

// advanceOffset moves the parse position forward by count bytes,
// or by count columns when columns is true,
// expanding tabs to 4-column stops and carrying partial tab consumption.
func (p *Parser) advanceOffset(input []byte, count int, columns bool) {
	for count > 0 && p.offset < len(input) {
		if input[p.offset] == '\t' {
			charsToTab := tabStop - (p.column % tabStop)
			if columns {
				p.partiallyConsumedTab = charsToTab > count
				advance := charsToTab
				if count < advance {
					advance = count
				}
				p.column += advance
				if !p.partiallyConsumedTab {
					p.offset++
				}
				count -= advance
			} else {
				p.partiallyConsumedTab = false
				p.column += charsToTab
				p.offset++
				count--
			}
		} else {
			p.partiallyConsumedTab = false
			p.offset++
			p.column++
			count--
		}
	}
}

func (p *Parser) findFirstNonspace(input []byte) {
	charsToTab := tabStop - (p.column % tabStop)
	i, col := p.offset, p.column
	for i < len(input) {
		switch input[i] {
		case ' ':
			i++
			col++
			charsToTab--
			if charsToTab == 0 {
				charsToTab = tabStop
			}
		case '\t':
			i++
			col += charsToTab
			charsToTab = tabStop
		default:
			goto done
		}
	}
done:
	p.firstNonspace = i
	p.firstNonspaceColumn = col
	p.indent = p.firstNonspaceColumn - p.column
	p.blank = i >= len(input) || isLineEndChar(input[i])
}

type matchResult int8

const (
	matchNo matchResult = iota
	matchYes
	// matchConsumed means the line has been fully handled
	// (a closing code fence) and processing should stop.
	matchConsumed
)

// checkOpenBlocks descends through the chain of open blocks,
// matching each one's continuation rule against the line prefix.
// It returns the deepest matched block
// (nil if the line was consumed outright)
// and whether every open block matched.
//
// This is [phase 1] of the CommonMark parsing strategy.
//
// [phase 1]: https://spec.commonmark.org/0.30/#phase-1-block-structure
func (p *Parser) checkOpenBlocks(input []byte) (lastMatched *Node, allMatched bool) {
	container := p.root
	for container.lastChild != nil && container.lastChild.open {
		container = container.lastChild
		p.findFirstNonspace(input)
		m := matchYes
		switch container.kind {
		case BlockQuoteKind:
			m = p.matchBlockQuote(input)
		case ItemKind:
			m = p.matchItem(input, container)
		case CodeBlockKind:
			m = p.matchCodeBlock(input, container)
		case HeadingKind, ThematicBreakKind:
			// These can never contain more than one line.
			m = matchNo
		case HTMLBlockKind:
			m = p.matchHTMLBlock(container)
		case ParagraphKind:
			if p.blank {
				m = matchNo
			}
		}
		switch m {
		case matchNo:
			return container.parent, false
		case matchConsumed:
			return nil, false
		}
	}
	return container, true
}

func (p *Parser) matchBlockQuote(input []byte) matchResult {
	if p.indent <= 3 && peek(input, p.firstNonspace) == '>' {
		p.advanceOffset(input, p.indent+1, true)
		if isSpaceOrTab(peek(input, p.offset)) {
			p.advanceOffset(input, 1, true)
		}
		return matchYes
	}
	return matchNo
}

func (p *Parser) matchItem(input []byte, container *Node) matchResult {
	switch {
	case p.indent >= container.list.markerOffset+container.list.padding:
		p.advanceOffset(input, container.list.markerOffset+container.list.padding, true)
		return matchYes
	case p.blank && container.firstChild != nil:
		// If the item has no children, its opening line was blank
		// after the marker, and a second blank line ends the item.
		p.advanceOffset(input, p.firstNonspace-p.offset, false)
		return matchYes
	}
	return matchNo
}

func (p *Parser) matchCodeBlock(input []byte, container *Node) matchResult {
	if !container.code.fenced {
		switch {
		case p.indent >= codeIndent:
			p.advanceOffset(input, codeIndent, true)
			return matchYes
		case p.blank:
			p.advanceOffset(input, p.firstNonspace-p.offset, false)
			return matchYes
		}
		return matchNo
	}
	if p.indent <= 3 && peek(input, p.firstNonspace) == container.code.fenceChar {
		if n := parseClosingCodeFence(input[p.firstNonspace:], container.code.fenceChar, container.code.fenceLength); n > 0 {
			// Closing fence; nothing else can happen on this line.
			p.advanceOffset(input, p.firstNonspace+n-p.offset, false)
			p.current = p.finalize(container)
			return matchConsumed
		}
	}
	// Skip any spaces remaining from the opening fence's offset.
	for i := container.code.fenceOffset; i > 0 && isSpaceOrTab(peek(input, p.offset)); i-- {
		p.advanceOffset(input, 1, true)
	}
	return matchYes
}

func (p *Parser) matchHTMLBlock(container *Node) matchResult {
	if t := container.htmlBlockType; t >= 1 && t <= 5 {
		// These types may contain blank lines.
		return matchYes
	}
	if p.blank {
		return matchNo
	}
	return matchYes
}

// openNewBlocks repeatedly matches block starts against the remaining
// line prefix, opening new containers until a leaf is reached.
// This is [phase 1, step 2] of the CommonMark parsing strategy.
//
// [phase 1, step 2]: https://spec.commonmark.org/0.30/#phase-1-block-structure
func (p *Parser) openNewBlocks(container *Node, input []byte, allMatched bool) *Node {
	maybeLazy := p.current.Kind() == ParagraphKind
	for container.kind != CodeBlockKind && container.kind != HTMLBlockKind {
		p.findFirstNonspace(input)
		indented := p.indent >= codeIndent
		rest := input[p.firstNonspace:]

		if !indented && peek(input, p.firstNonspace) == '>' {
			blockquoteStart := p.firstNonspace
			p.advanceOffset(input, p.firstNonspace+1-p.offset, false)
			if isSpaceOrTab(peek(input, p.offset)) {
				p.advanceOffset(input, 1, true)
			}
			container = p.addChild(container, BlockQuoteKind, blockquoteStart+1)
		} else if h := parseATXHeading(rest); !indented && h.level > 0 {
			headingStart := p.firstNonspace
			p.advanceOffset(input, p.firstNonspace+h.content.start-p.offset, false)
			container = p.addChild(container, HeadingKind, headingStart+1)
			container.heading.level = h.level
			container.internalOffset = h.content.start
			p.atxEnd = headingStart + h.content.end
		} else if f := parseCodeFence(rest); !indented && f.n > 0 {
			container = p.addChild(container, CodeBlockKind, p.firstNonspace+1)
			container.code.fenced = true
			container.code.fenceChar = f.char
			container.code.fenceLength = f.n
			container.code.fenceOffset = p.firstNonspace - p.offset
			p.advanceOffset(input, p.firstNonspace+f.n-p.offset, false)
		} else if t := matchHTMLBlockStart(rest, container.kind == ParagraphKind); !indented && t > 0 {
			container = p.addChild(container, HTMLBlockKind, p.firstNonspace+1)
			container.htmlBlockType = t
			// Don't adjust the offset; spaces are part of the HTML block.
		} else if lev := parseSetextHeadingUnderline(rest); !indented && container.kind == ParagraphKind && lev > 0 {
			container.kind = HeadingKind
			container.heading.level = lev
			container.heading.setext = true
			p.advanceOffset(input, len(input)-1-p.offset, false)
		} else if end := parseThematicBreak(rest); !indented && end >= 0 &&
			!(container.kind == ParagraphKind && !allMatched) {
			// Only now do we know the line is not a setext underline.
			container = p.addChild(container, ThematicBreakKind, p.firstNonspace+1)
			p.advanceOffset(input, len(input)-1-p.offset, false)
		} else if m := parseListMarker(rest); (!indented || container.kind == ListKind) &&
			p.indent < 4 && m.end >= 0 &&
			!(container.kind == ParagraphKind && (isBlankLine(rest[m.end:]) || (m.isOrdered() && m.n != 1))) {
			container = p.openListItem(container, input, m)
		} else if indented && !maybeLazy && !p.blank {
			p.advanceOffset(input, codeIndent, true)
			container = p.addChild(container, CodeBlockKind, p.offset+1)
			container.code.fenced = false
		} else {
			break
		}
		if acceptsLines(container.kind) {
			// A line container can't contain other containers.
			break
		}
		maybeLazy = false
	}
	return container
}

func (p *Parser) openListItem(container *Node, input []byte, m listMarker) *Node {
	p.advanceOffset(input, p.firstNonspace+m.end-p.offset, false)

	// Compute padding from the whitespace following the marker.
	savePartialTab := p.partiallyConsumedTab
	saveOffset, saveColumn := p.offset, p.column
	for p.column-saveColumn <= 5 && isSpaceOrTab(peek(input, p.offset)) {
		p.advanceOffset(input, 1, true)
	}
	var data listData
	i := p.column - saveColumn
	if i >= 5 || i < 1 || isLineEndChar(peek(input, p.offset)) {
		data.padding = m.end + 1
		p.offset, p.column = saveOffset, saveColumn
		p.partiallyConsumedTab = savePartialTab
		if i > 0 {
			p.advanceOffset(input, 1, true)
		}
	} else {
		data.padding = m.end + i
	}
	data.markerOffset = p.indent
	if m.isOrdered() {
		data.listType = OrderedList
		data.start = m.n
		if m.delim == '.' {
			data.delim = PeriodDelim
		} else {
			data.delim = ParenDelim
		}
	} else {
		data.listType = BulletList
		data.bulletChar = m.delim
	}

	// Two adjacent lists of differing type or delimiter do not merge.
	if container.kind != ListKind || !listsMatch(container.list, data) {
		container = p.addChild(container, ListKind, p.firstNonspace+1)
		container.list = data
	}
	container = p.addChild(container, ItemKind, p.firstNonspace+1)
	container.list = data
	return container
}

func listsMatch(a, b listData) bool {
	return a.listType == b.listType &&
		a.delim == b.delim &&
		a.bulletChar == b.bulletChar
}

// addChild opens a new block as the last child of parent,
// first closing any open blocks that cannot contain the new kind.
func (p *Parser) addChild(parent *Node, kind NodeKind, startColumn int) *Node {
	for !parseCanContain(parent.kind, kind) {
		parent = p.finalize(parent)
	}
	child := &Node{
		kind:        kind,
		open:        true,
		startLine:   p.lineNumber,
		startColumn: startColumn,
		endLine:     p.lineNumber,
	}
	child.parent = parent
	if parent.lastChild != nil {
		parent.lastChild.next = child
		child.prev = parent.lastChild
	} else {
		parent.firstChild = child
	}
	parent.lastChild = child
	return child
}

// addLine appends the unconsumed remainder of the line
// to the container's collected content.
func (p *Parser) addLine(container *Node, input []byte) {
	if p.partiallyConsumedTab {
		p.offset++ // skip over tab
		for i := tabStop - (p.column % tabStop); i > 0; i-- {
			container.content = append(container.content, ' ')
		}
	}
	if p.offset < len(input) {
		container.content = append(container.content, input[p.offset:]...)
	}
}

// addTextToContainer routes the remaining line text
// into the right block, closing unmatched blocks first.
// A non-blank line that continues nothing becomes a new paragraph;
// a non-blank line that leaves some open blocks unmatched and opens no
// new block, while an open paragraph is current, is lazy continuation text.
func (p *Parser) addTextToContainer(container, lastMatched *Node, input []byte) {
	p.findFirstNonspace(input)
	if p.blank && container.lastChild != nil {
		container.lastChild.lastLineBlank = true
	}

	// Block quote lines are never blank as they start with >,
	// and we don't count blanks in fenced code
	// for purposes of tight/loose lists or breaking out of lists.
	// We also don't set lastLineBlank on an empty list item.
	lastLineBlank := p.blank &&
		container.kind != BlockQuoteKind &&
		container.kind != HeadingKind &&
		container.kind != ThematicBreakKind &&
		!(container.kind == CodeBlockKind && container.code.fenced) &&
		!(container.kind == ItemKind && container.firstChild == nil && container.startLine == p.lineNumber)
	container.lastLineBlank = lastLineBlank
	for tmp := container.parent; tmp != nil; tmp = tmp.parent {
		tmp.lastLineBlank = false
	}

	if p.current != lastMatched && container == lastMatched && !p.blank &&
		p.current.Kind() == ParagraphKind {
		p.addLine(p.current, input)
		return
	}

	// Not a lazy continuation; finalize any blocks that were not matched.
	for p.current != lastMatched {
		p.current = p.finalize(p.current)
	}

	switch {
	case container.kind == CodeBlockKind:
		p.addLine(container, input)
	case container.kind == HTMLBlockKind:
		p.addLine(container, input)
		if matchHTMLBlockEnd(container.htmlBlockType, input[p.firstNonspace:]) {
			container = p.finalize(container)
		}
	case p.blank:
		// Nothing to add.
	case acceptsLines(container.kind):
		line := input
		if container.kind == HeadingKind && !container.heading.setext &&
			p.atxEnd >= p.offset && p.atxEnd <= len(input) {
			// ATX heading content stops before any closing hash sequence.
			line = input[:p.atxEnd]
		}
		p.advanceOffset(input, p.firstNonspace-p.offset, false)
		p.addLine(container, line)
	default:
		container = p.addChild(container, ParagraphKind, p.firstNonspace+1)
		p.advanceOffset(input, p.firstNonspace-p.offset, false)
		p.addLine(container, input)
	}
	p.current = container
}

// finalize closes the block, fixing its end position,
// extracting reference definitions from paragraphs,
// splitting fenced code content into info string and literal,
// and settling list tightness.
// It returns the block's parent.
func (p *Parser) finalize(b *Node) *Node {
	parent := b.parent
	b.open = false
	switch {
	case len(p.curline) == 0:
		// End of input: the line number has not been incremented.
		b.endLine = p.lineNumber
		b.endColumn = p.lastLineLength
	case b.kind == DocumentKind ||
		(b.kind == CodeBlockKind && b.code.fenced) ||
		(b.kind == HeadingKind && b.heading.setext):
		b.endLine = p.lineNumber
		b.endColumn = len(p.curline)
		if b.endColumn > 0 && p.curline[b.endColumn-1] == '\n' {
			b.endColumn--
		}
		if b.endColumn > 0 && p.curline[b.endColumn-1] == '\r' {
			b.endColumn--
		}
	default:
		b.endLine = p.lineNumber - 1
		b.endColumn = p.lastLineLength
	}

	switch b.kind {
	case ParagraphKind:
		content := b.content
		for len(content) > 0 && content[0] == '[' {
			pos := parseReferenceInline(content, &p.refmap)
			if pos == 0 {
				break
			}
			content = content[pos:]
		}
		b.content = content
		if isBlankLine(content) {
			// The paragraph was entirely reference definitions.
			b.Unlink()
		}
	case CodeBlockKind:
		if !b.code.fenced {
			// Blank lines preceding or following
			// an indented code block are not included in it.
			b.content = removeTrailingBlankLines(b.content)
			b.content = append(b.content, '\n')
		} else {
			// The first line of contents becomes the info string.
			nl := bytes.IndexByte(b.content, '\n')
			if nl < 0 {
				nl = len(b.content)
			} else {
				nl++
			}
			firstLine := b.content[:nl]
			b.code.info = cleanFenceInfo(firstLine)
			b.content = b.content[nl:]
		}
		b.literal = b.content
		b.content = nil
	case HTMLBlockKind:
		b.literal = b.content
		b.content = nil
	case ListKind:
		b.list.tight = true
		for item := b.firstChild; item != nil; item = item.next {
			// A blank line after a non-final item makes the list loose.
			if endsWithBlankLine(item) && item.next != nil {
				b.list.tight = false
				break
			}
			// So do blank lines between an item's own blocks.
			loose := false
			for sub := item.firstChild; sub != nil; sub = sub.next {
				if (item.next != nil || sub.next != nil) && endsWithBlankLine(sub) {
					loose = true
					break
				}
			}
			if loose {
				b.list.tight = false
				break
			}
		}
		for item := b.firstChild; item != nil; item = item.next {
			item.list.tight = b.list.tight
		}
	}
	return parent
}

func endsWithBlankLine(n *Node) bool {
	if n.lastLineChecked {
		return n.lastLineBlank
	}
	n.lastLineChecked = true
	if (n.kind == ListKind || n.kind == ItemKind) && n.lastChild != nil {
		return endsWithBlankLine(n.lastChild)
	}
	return n.lastLineBlank
}

// removeTrailingBlankLines truncates content
// after the line holding its last non-blank character.
func removeTrailingBlankLines(content []byte) []byte {
	i := len(content) - 1
	for i >= 0 {
		if c := content[i]; c != ' ' && c != '\t' && !isLineEndChar(c) {
			break
		}
		i--
	}
	if i < 0 {
		return content[:0]
	}
	if nl := bytes.IndexByte(content[i:], '\n'); nl >= 0 {
		return content[:i+nl]
	}
	return content
}

// processInlines expands the collected text of every leaf block
// that holds inline content.
func (p *Parser) processInlines() {
	iter := NewIterator(p.root)
	for iter.Next() != DoneEvent {
		n := iter.Node()
		if iter.Event() != EnterEvent {
			continue
		}
		switch n.kind {
		case ParagraphKind, HeadingKind:
			parseInlines(n, &p.refmap, p.options)
		case CustomBlockKind:
			if len(n.content) > 0 {
				parseInlines(n, &p.refmap, p.options)
			}
		}
	}
}
