package mmd

import "bytes"

// blockParser reduces the flat line-kind stream into the block-node tree
// (§4.3). It is a hand-written recursive-descent reducer rather than a
// generated LALR(1) table; the grammar productions in spec.md §4.3 describe
// its intent precisely, the implementation technique does not need to match
// the original bit-for-bit (non-goal, spec.md §1).
type blockParser struct {
	arena       *Arena
	src         []byte
	maxDepth    int
	depth       int
	fenceLang   map[int]string       // token index -> fence language specifier
	tableAligns map[int][]tableAlign // BlockTable token index -> per-column alignment
}

const defaultMaxRecursionDepth = 1000

func newBlockParser(arena *Arena, src []byte) *blockParser {
	return &blockParser{
		arena:       arena,
		src:         src,
		maxDepth:    defaultMaxRecursionDepth,
		fenceLang:   map[int]string{},
		tableAligns: map[int][]tableAlign{},
	}
}

// parseDocument reduces lines into children of the document root (token 0).
func (p *blockParser) parseDocument(lines []lineInfo) {
	p.parseBlocks(0, lines, true)
}

func (p *blockParser) parseBlocks(parent int, lines []lineInfo, docStart bool) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		return
	}

	i := 0
	atHead := docStart
	for i < len(lines) {
		ln := lines[i]
		switch ln.Type {
		case LineEmpty:
			i++
			continue
		case LineMeta:
			if atHead && metaBlockValid(lines, i) {
				i = p.parseMetaBlock(parent, lines, i)
				atHead = false
				continue
			}
			i = p.parsePara(parent, lines, i)
		case LineATX1, LineATX2, LineATX3, LineATX4, LineATX5, LineATX6:
			i = p.parseATX(parent, lines, i)
		case LineHR:
			i = p.parseHR(parent, lines, i)
		case LineBlockquote:
			i = p.parseBlockquote(parent, lines, i)
		case LineListBulleted:
			i = p.parseList(parent, lines, i, false)
		case LineListEnumerated:
			i = p.parseList(parent, lines, i, true)
		case LineFenceBacktick3Start, LineFenceBacktick4Start, LineFenceBacktick5Start:
			i = p.parseFence(parent, lines, i)
		case LineIndentedTab, LineIndentedSpace:
			i = p.parseIndentedCode(parent, lines, i)
		case LineTable:
			if i+1 < len(lines) && lines[i+1].Type == LineTableSeparator {
				i = p.parseTable(parent, lines, i)
			} else {
				i = p.parsePara(parent, lines, i)
			}
		case LineDefinition:
			i = p.parseDefinitionList(parent, lines, i)
		case LineDefLink:
			i = p.parseDefBlock(parent, lines, i, BlockDefLink)
		case LineDefFootnote:
			i = p.parseDefBlock(parent, lines, i, BlockDefFootnote)
		case LineDefCitation:
			i = p.parseDefBlock(parent, lines, i, BlockDefCitation)
		case LineDefGlossary:
			i = p.parseDefBlock(parent, lines, i, BlockDefGlossary)
		case LineDefAbbreviation:
			i = p.parseDefBlock(parent, lines, i, BlockDefAbbreviation)
		case LineHTML:
			i = p.parseHTMLBlock(parent, lines, i)
		case LineTOC:
			p.appendLeaf(parent, BlockTOC, ln.Start, ln.Len)
			i++
		default:
			i = p.parsePara(parent, lines, i)
		}
		atHead = false
	}
}

func (p *blockParser) appendLeaf(parent int, t TokenType, start, length int) int {
	tok := p.arena.New(t, start, length)
	p.arena.AppendChild(parent, tok)
	return tok
}

// span computes the (start,len) covering lines[a:b].
func (p *blockParser) span(lines []lineInfo, a, b int) (int, int) {
	start := lines[a].Start
	last := lines[b-1]
	return start, (last.Start + last.Len) - start
}

// isParaContinuation reports whether a line kind can continue a paragraph
// under lazy-continuation rules: plain text, or any kind whose fallback is
// LineContinuation.
func isParaContinuation(t TokenType) bool {
	if t == LinePlain {
		return true
	}
	return continuationFallback(t) == LineContinuation
}

func (p *blockParser) parsePara(parent int, lines []lineInfo, i int) int {
	start := i
	i++
	for i < len(lines) {
		t := lines[i].Type
		if t == LineEmpty || t == LineATX1 || t == LineATX2 || t == LineATX3 ||
			t == LineATX4 || t == LineATX5 || t == LineATX6 || t == LineHR ||
			t == LineBlockquote || t == LineListBulleted || t == LineListEnumerated ||
			t == LineFenceBacktick3Start || t == LineFenceBacktick4Start || t == LineFenceBacktick5Start ||
			t == LineDefinition ||
			t == LineDefLink || t == LineDefFootnote || t == LineDefCitation ||
			t == LineDefGlossary || t == LineDefAbbreviation || t == LineHTML || t == LineTOC {
			break
		}
		if t == LineSetext1 || t == LineSetext2 {
			// Setext underline reclassifies the paragraph collected so far
			// as a heading (spec.md §4.3 tie-break).
			startOff, length := p.span(lines, start, i)
			level := 1
			if t == LineSetext2 {
				level = 2
			}
			tok := p.appendLeaf(parent, BlockSetextHeader, startOff, length)
			p.arena.Get(tok).Num = level
			return i + 1
		}
		if t == LineTable && i+1 < len(lines) && lines[i+1].Type == LineTableSeparator {
			break
		}
		i++
	}
	startOff, length := p.span(lines, start, i)
	p.appendLeaf(parent, BlockPara, startOff, length)
	return i
}

func (p *blockParser) parseATX(parent int, lines []lineInfo, i int) int {
	level := int(lines[i].Type-LineATX1) + 1
	start, length := p.stripATXMarkers(lines[i])
	tok := p.appendLeaf(parent, BlockATXHeader, start, length)
	p.arena.Get(tok).Num = level
	return i + 1
}

// stripATXMarkers trims the leading run of '#' (plus one following space)
// and any cosmetic trailing "#...#" closing sequence from an ATX header
// line, so the inline lexer only ever sees the header's actual text (§4.3).
func (p *blockParser) stripATXMarkers(l lineInfo) (int, int) {
	line := p.src[l.Start : l.Start+l.Len]
	s, e := 0, len(line)
	for s < e && line[s] == '#' {
		s++
	}
	if s < e && line[s] == ' ' {
		s++
	}
	for e > s && (isWhitespace(line[e-1]) || isLineEnding(line[e-1])) {
		e--
	}
	trail := e
	for trail > s && line[trail-1] == '#' {
		trail--
	}
	if trail < e && (trail == s || isWhitespace(line[trail-1])) {
		e = trail
		for e > s && isWhitespace(line[e-1]) {
			e--
		}
	}
	return l.Start + s, e - s
}

func (p *blockParser) parseHR(parent int, lines []lineInfo, i int) int {
	p.appendLeaf(parent, BlockHR, lines[i].Start, lines[i].Len)
	return i + 1
}

// parseBlockquote collects contiguous blockquote/continuation lines, then
// recursively parses the content after stripping each line's leading '>'
// marker (and at most one following space). A blank line ends the
// blockquote unless the line after it is itself a blockquote line (§4.3).
func (p *blockParser) parseBlockquote(parent int, lines []lineInfo, i int) int {
	start := i
	var inner []lineInfo
	for i < len(lines) {
		t := lines[i].Type
		if t == LineBlockquote {
			inner = append(inner, p.stripBlockquoteMarker(lines[i]))
			i++
			continue
		}
		if t == LineEmpty {
			if i+1 < len(lines) && lines[i+1].Type == LineBlockquote {
				inner = append(inner, lines[i])
				i++
				continue
			}
			break
		}
		if isParaContinuation(t) {
			inner = append(inner, lines[i])
			i++
			continue
		}
		break
	}
	startOff, length := p.span(lines, start, i)
	tok := p.arena.New(BlockBlockquote, startOff, length)
	p.arena.AppendChild(parent, tok)
	p.parseBlocks(tok, inner, false)
	return i
}

func (p *blockParser) stripBlockquoteMarker(l lineInfo) lineInfo {
	line := p.src[l.Start : l.Start+l.Len]
	i := 0
	for i < len(line) && i < 3 && line[i] == ' ' {
		i++
	}
	if i < len(line) && line[i] == '>' {
		i++
		if i < len(line) && line[i] == ' ' {
			i++
		}
	}
	return lineInfo{Type: LinePlain, Start: l.Start + i, Len: l.Len - i}
}

// parseList collects one or more items of the same family (bulleted or
// enumerated) starting at i, recursively parsing each item's content, and
// decides tight vs. loose by scanning for blank lines between items.
func (p *blockParser) parseList(parent int, lines []lineInfo, i int, enumerated bool) int {
	start := i
	wantType := LineListBulleted
	if enumerated {
		wantType = LineListEnumerated
	}
	listType := BlockListBulleted
	if enumerated {
		listType = BlockListEnumerated
	}

	var itemBounds [][2]int // [start,end) into lines, per item
	loose := false
	for i < len(lines) {
		if lines[i].Type != wantType {
			break
		}
		itemStart := i
		i++
		blankRun := 0
		for i < len(lines) {
			t := lines[i].Type
			if t == wantType {
				if blankRun > 0 {
					loose = true
				}
				break
			}
			if t == LineEmpty {
				blankRun++
				i++
				continue
			}
			if blankRun > 0 {
				// Blank line(s) followed by non-indented, non-marker content
				// end this item unless the content is indented (nested chunk).
				if t != LineIndentedTab && t != LineIndentedSpace && !startsWithIndent(p.src, lines[i]) {
					break
				}
				loose = true
			}
			blankRun = 0
			i++
		}
		itemBounds = append(itemBounds, [2]int{itemStart, i})
	}

	listStartOff, listLen := p.span(lines, start, i)
	listTok := p.arena.New(listType, listStartOff, listLen)
	p.arena.Get(listTok).Num = boolToInt(loose)
	p.arena.AppendChild(parent, listTok)

	for _, b := range itemBounds {
		p.parseListItem(listTok, lines[b[0]:b[1]], wantType)
	}
	return i
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// startsWithIndent reports whether the line, ignoring its own classified
// kind, begins with at least 4 spaces or a tab of raw indentation -- used
// to decide whether blank-line-separated content still belongs to the
// current list item.
func startsWithIndent(src []byte, l lineInfo) bool {
	line := src[l.Start : l.Start+l.Len]
	if len(line) == 0 {
		return false
	}
	if line[0] == '\t' {
		return true
	}
	n := 0
	for n < len(line) && n < 4 && line[n] == ' ' {
		n++
	}
	return n >= 4
}

// parseListItem strips the marker from the first line and the equivalent
// indentation from continuation lines, then recursively parses the item's
// content as its own block sequence.
func (p *blockParser) parseListItem(parent int, lines []lineInfo, markerKind TokenType) {
	if len(lines) == 0 {
		return
	}
	first := lines[0]
	line := p.src[first.Start : first.Start+first.Len]
	markerWidth := listMarkerWidth(line)

	itemStartOff, itemLen := first.Start, first.Len
	if len(lines) > 1 {
		last := lines[len(lines)-1]
		itemLen = (last.Start + last.Len) - itemStartOff
	}
	itemTok := p.arena.New(BlockListItem, itemStartOff, itemLen)
	p.arena.AppendChild(parent, itemTok)

	inner := make([]lineInfo, 0, len(lines))
	inner = append(inner, lineInfo{
		Type:  LinePlain,
		Start: first.Start + markerWidth,
		Len:   first.Len - markerWidth,
	})
	for _, l := range lines[1:] {
		stripped := stripIndent(p.src, l, markerWidth)
		inner = append(inner, stripped)
	}
	p.parseBlocks(itemTok, inner, false)
}

func listMarkerWidth(line []byte) int {
	i := 0
	for i < len(line) && i < 3 && line[i] == ' ' {
		i++
	}
	if i < len(line) && (line[i] == '*' || line[i] == '+' || line[i] == '-') {
		i++
	} else {
		for i < len(line) && isDigit(line[i]) {
			i++
		}
		if i < len(line) && (line[i] == '.' || line[i] == ')') {
			i++
		}
	}
	for i < len(line) && isSpaceOrTab(line[i]) {
		i++
	}
	return i
}

func stripIndent(src []byte, l lineInfo, width int) lineInfo {
	line := src[l.Start : l.Start+l.Len]
	n := 0
	for n < len(line) && n < width && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return lineInfo{Type: LinePlain, Start: l.Start + n, Len: l.Len - n}
}

func (p *blockParser) parseFence(parent int, lines []lineInfo, i int) int {
	startLine := lines[i]
	line := p.src[startLine.Start : startLine.Start+startLine.Len]
	ticks, _ := fenceRun(bytes.TrimLeft(line, " "), '`')
	lang := string(bytes.TrimSpace(line[bytes.IndexByte(line, '`')+ticks:]))

	start := i
	i++
	closeType := fenceCloseType(ticks)
	for i < len(lines) {
		if lines[i].Type == closeType {
			i++
			break
		}
		i++
	}
	startOff, length := p.span(lines, start, i)
	tok := p.appendLeaf(parent, BlockCodeFenced, startOff, length)
	p.arena.Get(tok).Num = ticks
	p.fenceLang[tok] = lang
	return i
}

func (p *blockParser) parseIndentedCode(parent int, lines []lineInfo, i int) int {
	start := i
	for i < len(lines) && (lines[i].Type == LineIndentedTab || lines[i].Type == LineIndentedSpace || lines[i].Type == LineEmpty) {
		i++
	}
	// Trim trailing blank lines from the block (they belong to whatever
	// follows).
	end := i
	for end > start && lines[end-1].Type == LineEmpty {
		end--
	}
	if end == start {
		return start + 1
	}
	startOff, length := p.span(lines, start, end)
	p.appendLeaf(parent, BlockCodeIndented, startOff, length)
	return end
}

func (p *blockParser) parseHTMLBlock(parent int, lines []lineInfo, i int) int {
	start := i
	i++
	for i < len(lines) && lines[i].Type != LineEmpty {
		i++
	}
	startOff, length := p.span(lines, start, i)
	p.appendLeaf(parent, BlockHTML, startOff, length)
	return i
}

// parseTable consumes a header row, the alignment separator, and every
// following table row as one block, building the full
// Table/Header/Body/Row/Cell tree so that cell content reaches the inline
// pass the same way paragraph content does (§4.3's table grammar).
func (p *blockParser) parseTable(parent int, lines []lineInfo, i int) int {
	start := i
	headerLine := lines[i]
	sepLine := lines[i+1]
	i += 2
	bodyStart := i
	for i < len(lines) && lines[i].Type == LineTable {
		i++
	}
	bodyEnd := i

	startOff, length := p.span(lines, start, i)
	tableTok := p.arena.New(BlockTable, startOff, length)
	p.arena.AppendChild(parent, tableTok)

	aligns := parseTableAlignment(p.src, sepLine)
	p.tableAligns[tableTok] = aligns

	headOff, headLen := p.span(lines, start, start+1)
	headerTok := p.arena.New(BlockTableHeader, headOff, headLen)
	p.arena.AppendChild(tableTok, headerTok)
	p.appendTableRow(headerTok, headerLine, len(aligns))

	if bodyEnd > bodyStart {
		bodyOff, bodyLen := p.span(lines, bodyStart, bodyEnd)
		bodyTok := p.arena.New(BlockTableBody, bodyOff, bodyLen)
		p.arena.AppendChild(tableTok, bodyTok)
		for r := bodyStart; r < bodyEnd; r++ {
			p.appendTableRow(bodyTok, lines[r], len(aligns))
		}
	}

	p.arena.Get(tableTok).Num = len(aligns)
	return i
}

func (p *blockParser) appendTableRow(parent int, l lineInfo, numCols int) {
	rowTok := p.arena.New(BlockTableRow, l.Start, l.Len)
	p.arena.AppendChild(parent, rowTok)
	cells := splitTableCells(p.src, l)
	for _, cell := range cells {
		cellTok := p.arena.New(BlockTableCell, cell.Start, cell.Len)
		p.arena.AppendChild(rowTok, cellTok)
	}
	_ = numCols
}

// splitTableCells splits one pipe-delimited row into trimmed cell spans,
// dropping a purely cosmetic leading/trailing '|' and honoring '\|' as a
// literal pipe rather than a column separator.
func splitTableCells(src []byte, l lineInfo) []lineInfo {
	line := src[l.Start : l.Start+l.Len]
	s, e := 0, len(line)
	for s < e && isWhitespace(line[s]) {
		s++
	}
	for e > s && (isWhitespace(line[e-1]) || isLineEnding(line[e-1])) {
		e--
	}
	if s < e && line[s] == '|' {
		s++
	}
	if e > s && line[e-1] == '|' {
		e--
	}

	var cells []lineInfo
	cellStart := s
	for i := s; i < e; i++ {
		if line[i] == '\\' && i+1 < e {
			i++
			continue
		}
		if line[i] == '|' {
			cells = append(cells, trimCellSpan(l.Start, line, cellStart, i))
			cellStart = i + 1
		}
	}
	cells = append(cells, trimCellSpan(l.Start, line, cellStart, e))
	return cells
}

func trimCellSpan(base int, line []byte, a, b int) lineInfo {
	for a < b && isWhitespace(line[a]) {
		a++
	}
	for b > a && isWhitespace(line[b-1]) {
		b--
	}
	return lineInfo{Type: LinePlain, Start: base + a, Len: b - a}
}

// parseTableAlignment reads the "---|:---:|---:" separator row into one
// tableAlign per column (§4.3 "table alignment row").
func parseTableAlignment(src []byte, sep lineInfo) []tableAlign {
	cells := splitTableCells(src, sep)
	aligns := make([]tableAlign, len(cells))
	for i, c := range cells {
		cell := src[c.Start : c.Start+c.Len]
		left := len(cell) > 0 && cell[0] == ':'
		right := len(cell) > 0 && cell[len(cell)-1] == ':'
		switch {
		case left && right:
			aligns[i] = alignCenter
		case right:
			aligns[i] = alignRight
		case left:
			aligns[i] = alignLeft
		default:
			aligns[i] = alignDefault
		}
	}
	return aligns
}

func (p *blockParser) parseDefBlock(parent int, lines []lineInfo, i int, kind TokenType) int {
	start := i
	i++
	for i < len(lines) && isParaContinuation(lines[i].Type) {
		i++
	}
	startOff, length := p.span(lines, start, i)
	p.appendLeaf(parent, kind, startOff, length)
	return i
}

// parseDefinitionList reduces a run of ':'-led LINE_DEFINITION lines into a
// BlockDefinitionBlock (§4.3's definition_block): the paragraph immediately
// preceding the first item, if any, is repurposed in place as its term, and
// each item (plus any lazily-continuing lines) becomes a BlockDefinitionItem
// with the leading ':' marker and its following space stripped.
func (p *blockParser) parseDefinitionList(parent int, lines []lineInfo, i int) int {
	start := i

	termTok := nilTok
	if tail := p.arena.Get(parent).Tail; tail != nilTok && p.arena.Get(tail).Type == BlockPara {
		termTok = tail
		p.arena.Unlink(termTok)
		p.arena.Get(termTok).Type = BlockDefinitionTerm
	}

	blockStartOff := lines[start].Start
	if termTok != nilTok {
		blockStartOff = p.arena.Get(termTok).Start
	}
	blockTok := p.arena.New(BlockDefinitionBlock, blockStartOff, 0)
	p.arena.AppendChild(parent, blockTok)
	if termTok != nilTok {
		p.arena.AppendChild(blockTok, termTok)
	}

	for i < len(lines) && lines[i].Type == LineDefinition {
		itemStart := i
		i++
		for i < len(lines) && isParaContinuation(lines[i].Type) {
			i++
		}
		itemEndOff, itemSpanLen := p.span(lines, itemStart, i)

		first := lines[itemStart]
		line := p.src[first.Start : first.Start+first.Len]
		marker := 1 // ':'
		for marker < len(line) && isWhitespace(line[marker]) {
			marker++
		}
		itemStartOff := first.Start + marker
		itemTok := p.arena.New(BlockDefinitionItem, itemStartOff, (itemEndOff+itemSpanLen)-itemStartOff)
		p.arena.AppendChild(blockTok, itemTok)
	}

	blockEnd := lines[i-1].Start + lines[i-1].Len
	bt := p.arena.Get(blockTok)
	bt.Len = blockEnd - bt.Start
	return i
}

// metaBlockValid reports whether the document truly opens with a metadata
// block: the run of LineMeta/LineContinuation-compatible lines starting at
// i must reach a blank line (or EOF) without an intervening non-metadata
// line (§4.3's acceptance gate).
func metaBlockValid(lines []lineInfo, i int) bool {
	if i != 0 {
		return false
	}
	for j := i; j < len(lines); j++ {
		switch lines[j].Type {
		case LineMeta:
			continue
		case LineEmpty:
			return true
		default:
			if isParaContinuation(lines[j].Type) {
				continue
			}
			return false
		}
	}
	return true
}

func (p *blockParser) parseMetaBlock(parent int, lines []lineInfo, i int) int {
	start := i
	for i < len(lines) && lines[i].Type != LineEmpty {
		i++
	}
	startOff, length := p.span(lines, start, i)
	p.appendLeaf(parent, BlockMeta, startOff, length)
	return i
}
