package mmd

import "bytes"

// lineInfo is a physical line: its classified kind and its (start, len)
// byte range, including the trailing newline if any. The line lexer never
// looks backward — each line's kind is a pure function of its own bytes.
type lineInfo struct {
	Type  TokenType
	Start int
	Len   int // includes trailing '\n' if present
}

// fenceInfo describes a fence-start line's language specifier and tick
// count. Nothing builds one yet: parseFence re-scans the fence line itself.
type fenceInfo struct {
	lang  string
	ticks int
}

// lexLines classifies src, already normalized to LF-only line endings, into
// one lineInfo per physical line. O(N), single pass, no backtracking.
func lexLines(src []byte) []lineInfo {
	var lines []lineInfo
	start := 0
	atDocStart := true
	for start <= len(src) {
		end := bytes.IndexByte(src[start:], '\n')
		var lineEnd int // exclusive of the newline
		var full int    // inclusive of the newline
		if end == -1 {
			if start == len(src) {
				break
			}
			lineEnd = len(src)
			full = len(src)
		} else {
			lineEnd = start + end
			full = start + end + 1
		}
		kind := classifyLine(src[start:lineEnd], atDocStart)
		lines = append(lines, lineInfo{Type: kind, Start: start, Len: full - start})
		atDocStart = false
		start = full
		if end == -1 {
			break
		}
	}
	return lines
}

// leadingSpaces counts up to 3 leading space bytes (not tabs), returning
// the count and the index of the first non-space byte.
func leadingSpaces(line []byte) (int, int) {
	i := 0
	for i < len(line) && i < 3 && line[i] == ' ' {
		i++
	}
	return i, i
}

func classifyLine(line []byte, atDocStart bool) TokenType {
	trimmed := bytes.TrimRight(line, " \t")
	if len(trimmed) == 0 {
		return LineEmpty
	}

	if bytes.Equal(bytes.TrimSpace(line), []byte("{{TOC}}")) {
		return LineTOC
	}

	if len(line) >= 4 && (line[0] == '\t' || (line[0] == ' ' && line[1] == ' ' && line[2] == ' ' && line[3] == ' ')) {
		if line[0] == '\t' {
			return LineIndentedTab
		}
		return LineIndentedSpace
	}

	nSpaces, i := leadingSpaces(line)
	_ = nSpaces
	rest := line[i:]
	if len(rest) == 0 {
		return LineEmpty
	}

	switch rest[0] {
	case '#':
		n := 0
		for n < len(rest) && n < 6 && rest[n] == '#' {
			n++
		}
		if n > 0 && n <= 6 && (n == len(rest) || isWhitespace(rest[n])) {
			return TokenType(int(LineATX1) + n - 1)
		}
	case '>':
		return LineBlockquote
	case ':':
		if len(rest) > 1 {
			return LineDefinition
		}
	case '`':
		if n, ok := fenceRun(rest, '`'); ok {
			switch {
			case n >= 3 && n <= 5:
				if hasFenceLang(rest, n) {
					return fenceStartType(n)
				}
				return fenceCloseType(n)
			}
		}
	}

	if isHR(rest) {
		return LineHR
	}
	if isSetext(rest, '=') {
		return LineSetext1
	}
	if isSetext(rest, '-') {
		return LineSetext2
	}
	if bullet, ok := listBulletMarker(rest); ok && bullet {
		return LineListBulleted
	}
	if _, ok := listEnumMarker(rest); ok {
		return LineListEnumerated
	}
	if kind, ok := defLabelKind(rest); ok {
		return kind
	}
	if hasUnescapedPipe(rest) {
		if isTableSeparatorRow(rest) {
			return LineTableSeparator
		}
		return LineTable
	}
	if atDocStart {
		if isMetaLine(rest) {
			return LineMeta
		}
	}
	if isHTMLBlockOpen(rest) {
		return LineHTML
	}
	return LinePlain
}

func fenceRun(b []byte, ch byte) (int, bool) {
	n := 0
	for n < len(b) && b[n] == ch {
		n++
	}
	if n == 0 {
		return 0, false
	}
	return n, true
}

func hasFenceLang(rest []byte, n int) bool {
	after := bytes.TrimSpace(rest[n:])
	return len(after) > 0
}

func fenceStartType(n int) TokenType {
	switch n {
	case 3:
		return LineFenceBacktick3Start
	case 4:
		return LineFenceBacktick4Start
	default:
		return LineFenceBacktick5Start
	}
}

func fenceCloseType(n int) TokenType {
	switch n {
	case 3:
		return LineFenceBacktick3
	case 4:
		return LineFenceBacktick4
	default:
		return LineFenceBacktick5
	}
}

func isHR(rest []byte) bool {
	rest = bytes.TrimSpace(rest)
	if len(rest) < 3 {
		return false
	}
	var marker byte
	count := 0
	for _, c := range rest {
		if c == ' ' {
			continue
		}
		if marker == 0 {
			if c != '*' && c != '-' && c != '_' {
				return false
			}
			marker = c
			count++
			continue
		}
		if c != marker {
			return false
		}
		count++
	}
	return count >= 3
}

func isSetext(rest []byte, marker byte) bool {
	rest = bytes.TrimRight(rest, " \t")
	if len(rest) == 0 {
		return false
	}
	for _, c := range rest {
		if c != marker {
			return false
		}
	}
	return true
}

// listBulletMarker reports whether rest begins with a bullet list marker
// (*, +, -) followed by whitespace. The second return distinguishes a
// genuine bullet from a line that merely starts with the same byte (e.g. an
// HR already handled above).
func listBulletMarker(rest []byte) (bool, bool) {
	if len(rest) < 2 {
		return false, false
	}
	if rest[0] != '*' && rest[0] != '+' && rest[0] != '-' {
		return false, false
	}
	if !isWhitespace(rest[1]) {
		return false, false
	}
	return true, true
}

func listEnumMarker(rest []byte) (int, bool) {
	i := 0
	for i < len(rest) && isDigit(rest[i]) {
		i++
	}
	if i == 0 || i >= len(rest) {
		return 0, false
	}
	if rest[i] != '.' && rest[i] != ')' {
		return 0, false
	}
	if i+1 >= len(rest) || !isWhitespace(rest[i+1]) {
		return 0, false
	}
	return i, true
}

// defLabelKind recognizes [label]: / [^label]: / [#label]: / [?label]: /
// [>label]: at the start of a line.
func defLabelKind(rest []byte) (TokenType, bool) {
	if len(rest) == 0 || rest[0] != '[' {
		return 0, false
	}
	body := rest[1:]
	marker := byte(0)
	if len(body) > 0 && (body[0] == '^' || body[0] == '#' || body[0] == '?' || body[0] == '>') {
		marker = body[0]
		body = body[1:]
	}
	end := bytes.IndexByte(body, ']')
	if end < 0 {
		return 0, false
	}
	after := body[end+1:]
	if len(after) == 0 || after[0] != ':' {
		return 0, false
	}
	switch marker {
	case '^':
		return LineDefFootnote, true
	case '#':
		return LineDefCitation, true
	case '?':
		return LineDefGlossary, true
	case '>':
		return LineDefAbbreviation, true
	default:
		return LineDefLink, true
	}
}

func hasUnescapedPipe(rest []byte) bool {
	for i := 0; i < len(rest); i++ {
		if rest[i] == '\\' {
			i++
			continue
		}
		if rest[i] == '|' {
			return true
		}
	}
	return false
}

func isTableSeparatorRow(rest []byte) bool {
	trimmed := bytes.TrimSpace(rest)
	trimmed = bytes.Trim(trimmed, "|")
	if len(trimmed) == 0 {
		return false
	}
	for _, cell := range bytes.Split(trimmed, []byte("|")) {
		cell = bytes.TrimSpace(cell)
		if len(cell) == 0 {
			return false
		}
		for i, c := range cell {
			switch {
			case c == ':' && (i == 0 || i == len(cell)-1):
			case c == '-':
			default:
				return false
			}
		}
	}
	return true
}

func isMetaLine(rest []byte) bool {
	colon := bytes.IndexByte(rest, ':')
	if colon <= 0 {
		return false
	}
	key := rest[:colon]
	for _, c := range key {
		if !isAlnum(c) && c != ' ' && c != '-' && c != '_' {
			return false
		}
	}
	return true
}

// isHTMLBlockOpen recognizes a line beginning with a recognized HTML block
// tag's opening or closing angle bracket.
func isHTMLBlockOpen(rest []byte) bool {
	if len(rest) < 3 || rest[0] != '<' {
		return false
	}
	body := rest[1:]
	if len(body) > 0 && body[0] == '/' {
		body = body[1:]
	}
	i := 0
	for i < len(body) && isAlnum(body[i]) {
		i++
	}
	if i == 0 {
		return false
	}
	name := string(bytes.ToLower(body[:i]))
	return blockTags[name]
}

// blockTags are recognized as HTML block-level tags; any of these can be
// included in markdown text without special escaping.
var blockTags = map[string]bool{
	"p": true, "dl": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "ol": true, "ul": true, "del": true, "div": true,
	"ins": true, "pre": true, "form": true, "math": true, "table": true,
	"iframe": true, "script": true, "fieldset": true, "noscript": true,
	"blockquote": true, "figure": true, "figcaption": true, "section": true,
	"article": true, "header": true, "footer": true, "nav": true, "aside": true,
}

// continuationFallback maps a line kind to the nonterminal the block
// parser's grammar treats it as for paragraph-joining purposes (§4.2).
func continuationFallback(t TokenType) TokenType {
	switch t {
	case LineIndentedTab, LineIndentedSpace,
		LineFenceBacktick3, LineFenceBacktick4, LineFenceBacktick5,
		LineFenceBacktick3Start, LineFenceBacktick4Start, LineFenceBacktick5Start:
		return LineContinuation
	default:
		return t
	}
}
