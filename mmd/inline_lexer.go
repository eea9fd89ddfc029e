package mmd

import "bytes"

// lexInline re-tokenizes one block's raw content into fine-grained span
// tokens (§4.5), appending them as children of blockTok. It is the second,
// finer-grained lexer the spec describes: where the line lexer classified
// whole lines, this one classifies runs of bytes within a single block.
func lexInline(arena *Arena, src []byte, blockTok int) {
	t := arena.Get(blockTok)
	data := src[t.Start : t.Start+t.Len]
	base := t.Start

	i := 0
	for i < len(data) {
		c := data[i]
		switch {
		case c == '\\' && i+1 < len(data):
			appendSpan(arena, blockTok, TextBackslashEscape, base+i, 2)
			i += 2
		case c == '&':
			n := lexEntity(data[i:])
			appendSpan(arena, blockTok, TextHTMLEntity, base+i, n)
			i += n
		case c == '<' && !bytes.HasPrefix(data[i:], []byte("<<}")):
			n := lexAngle(data[i:])
			appendSpan(arena, blockTok, angleTokenType(data[i:i+n]), base+i, n)
			i += n
		case c == '`':
			n, _ := fenceRun(data[i:], '`')
			appendSpan(arena, blockTok, TextCodeRun, base+i, n)
			i += n
		case c == '*' || c == '_' || (c == '~' && i+1 < len(data) && data[i+1] == '~' && !bytes.HasPrefix(data[i:], []byte("~~}"))):
			n, tokType := lexEmphMarker(data, i)
			tok := appendSpan(arena, blockTok, tokType, base+i, n)
			arena.Get(tok).Num = int(c)
			setFlanking(arena, tok, data, i, n)
			i += n
		case c == '~' && !bytes.HasPrefix(data[i:], []byte("~>")) && !bytes.HasPrefix(data[i:], []byte("~~}")):
			appendSpan(arena, blockTok, SubStart, base+i, 1)
			i++
		case c == '^':
			appendSpan(arena, blockTok, SuperStart, base+i, 1)
			i++
		case c == '[':
			n, tokType := lexBracketOpen(data, i)
			appendSpan(arena, blockTok, tokType, base+i, n)
			i += n
		case c == '!' && i+1 < len(data) && data[i+1] == '[':
			appendSpan(arena, blockTok, BracketImageStart, base+i, 2)
			i += 2
		case c == ']':
			appendSpan(arena, blockTok, BracketStop, base+i, 1)
			i++
		case c == '(':
			appendSpan(arena, blockTok, ParenStart, base+i, 1)
			i++
		case c == ')':
			appendSpan(arena, blockTok, ParenStop, base+i, 1)
			i++
		case c == '{' && i+1 < len(data) && data[i+1] == '+' && i+2 < len(data) && data[i+2] == '+':
			appendSpan(arena, blockTok, CriticAddStart, base+i, 3)
			i += 3
		case c == '+' && i+1 < len(data) && data[i+1] == '+' && i+2 < len(data) && data[i+2] == '}':
			appendSpan(arena, blockTok, CriticAddStop, base+i, 3)
			i += 3
		case c == '{' && i+1 < len(data) && data[i+1] == '-' && i+2 < len(data) && data[i+2] == '-':
			appendSpan(arena, blockTok, CriticDelStart, base+i, 3)
			i += 3
		case c == '-' && i+1 < len(data) && data[i+1] == '-' && i+2 < len(data) && data[i+2] == '}':
			appendSpan(arena, blockTok, CriticDelStop, base+i, 3)
			i += 3
		case c == '{' && i+1 < len(data) && data[i+1] == '~' && i+2 < len(data) && data[i+2] == '~':
			appendSpan(arena, blockTok, CriticSubStart, base+i, 3)
			i += 3
		case c == '~' && i+1 < len(data) && data[i+1] == '>':
			appendSpan(arena, blockTok, CriticSubDivider, base+i, 2)
			i += 2
		case c == '~' && i+1 < len(data) && data[i+1] == '~' && i+2 < len(data) && data[i+2] == '}':
			appendSpan(arena, blockTok, CriticSubStop, base+i, 3)
			i += 3
		case c == '{' && i+1 < len(data) && data[i+1] == '>' && i+2 < len(data) && data[i+2] == '>':
			appendSpan(arena, blockTok, CriticCommentStart, base+i, 3)
			i += 3
		case c == '<' && i+1 < len(data) && data[i+1] == '<' && i+2 < len(data) && data[i+2] == '}':
			appendSpan(arena, blockTok, CriticCommentStop, base+i, 3)
			i += 3
		case c == '{' && i+1 < len(data) && data[i+1] == '=' && i+2 < len(data) && data[i+2] == '=':
			appendSpan(arena, blockTok, CriticHighlightStart, base+i, 3)
			i += 3
		case c == '=' && i+1 < len(data) && data[i+1] == '=' && i+2 < len(data) && data[i+2] == '}':
			appendSpan(arena, blockTok, CriticHighlightStop, base+i, 3)
			i += 3
		case c == '{':
			appendSpan(arena, blockTok, BraceStart, base+i, 1)
			i++
		case c == '}':
			appendSpan(arena, blockTok, BraceStop, base+i, 1)
			i++
		case c == '$' && i+1 < len(data) && data[i+1] == '$':
			appendSpan(arena, blockTok, MathDollarDoubleStart, base+i, 2)
			i += 2
		case c == '$':
			appendSpan(arena, blockTok, MathDollarStart, base+i, 1)
			i++
		case c == ':':
			appendSpan(arena, blockTok, TextColon, base+i, 1)
			i++
		case c == '-' && i+1 < len(data) && data[i+1] == '-' && (i+2 >= len(data) || data[i+2] != '-'):
			appendSpan(arena, blockTok, TextDashN, base+i, 2)
			i += 2
		case c == '-' && i+1 < len(data) && data[i+1] == '-' && i+2 < len(data) && data[i+2] == '-':
			appendSpan(arena, blockTok, TextDashM, base+i, 3)
			i += 3
		case c == '.' && i+2 < len(data) && data[i+1] == '.' && data[i+2] == '.':
			appendSpan(arena, blockTok, TextEllipsis, base+i, 3)
			i += 3
		case c == '.':
			appendSpan(arena, blockTok, TextPeriod, base+i, 1)
			i++
		case c == '=':
			appendSpan(arena, blockTok, TextEquals, base+i, 1)
			i++
		case c == '|':
			appendSpan(arena, blockTok, TextPipe, base+i, 1)
			i++
		case c == '\'':
			appendSpan(arena, blockTok, TextApostrophe, base+i, 1)
			i++
		case c == '"':
			appendSpan(arena, blockTok, TextQuoteDouble, base+i, 1)
			i++
		case c == '\n':
			n := TokenType(TextNewline)
			if i >= 2 && data[i-1] == ' ' && data[i-2] == ' ' {
				n = TextLinebreak
			}
			appendSpan(arena, blockTok, n, base+i, 1)
			i++
		case isDigit(c):
			n := lexRun(data[i:], isDigit)
			appendSpan(arena, blockTok, TextNumber, base+i, n)
			i += n
		default:
			n := lexPlainRun(data[i:])
			appendSpan(arena, blockTok, TextPlain, base+i, n)
			i += n
		}
	}
}

func appendSpan(arena *Arena, parent int, t TokenType, start, length int) int {
	tok := arena.New(t, start, length)
	arena.AppendChild(parent, tok)
	return tok
}

func lexRun(data []byte, pred func(byte) bool) int {
	n := 0
	for n < len(data) && pred(data[n]) {
		n++
	}
	return n
}

// lexPlainRun consumes bytes that none of the specialized cases claimed,
// stopping before the next byte that lexInline's switch would handle
// specially.
func lexPlainRun(data []byte) int {
	n := 1
	for n < len(data) && !isSpecialInlineByte(data[n]) {
		n++
	}
	return n
}

func isSpecialInlineByte(c byte) bool {
	switch c {
	case '\\', '&', '<', '`', '*', '_', '~', '^', '[', ']', '(', ')', '{', '}',
		'$', ':', '-', '.', '=', '|', '\'', '"', '\n', '!', '+':
		return true
	}
	return isDigit(c)
}

func lexEntity(data []byte) int {
	end := bytes.IndexByte(data, ';')
	if end < 0 || end > 10 {
		return 1
	}
	return end + 1
}

func lexAngle(data []byte) int {
	if bytes.HasPrefix(data, []byte("<!--")) {
		end := bytes.Index(data, []byte("-->"))
		if end < 0 {
			return len(data)
		}
		return end + 3
	}
	end := bytes.IndexByte(data, '>')
	if end < 0 {
		return 1
	}
	return end + 1
}

func angleTokenType(span []byte) TokenType {
	if bytes.HasPrefix(span, []byte("<!--")) {
		return TextHTMLComment
	}
	return TextHTMLTag
}

func lexEmphMarker(data []byte, i int) (int, TokenType) {
	c := data[i]
	n := 1
	for i+n < len(data) && data[i+n] == c {
		n++
	}
	switch {
	case n >= 2:
		if c == '~' {
			return 2, StrikeStart // resolved to start/stop by the pair matcher
		}
		return 2, StrongStart
	default:
		return 1, EmphStart
	}
}

// setFlanking computes can_open/can_close with CommonMark's left-/right-
// flanking rule: a run can open if the byte after it is not whitespace and
// is either not punctuation or is itself preceded by whitespace/punctuation;
// it can close by the mirror rule on the byte before. An intraword run can
// therefore both open and close (§4.5, §9 "compatibility-mode ... flanking"
// resolved to follow CommonMark-compatible flanking uniformly).
func setFlanking(arena *Arena, tok int, data []byte, i, n int) {
	var before, after byte = ' ', ' '
	if i > 0 {
		before = data[i-1]
	}
	if i+n < len(data) {
		after = data[i+n]
	}
	beforeOK := isWhitespace(before) || isPunct(before)
	afterOK := isWhitespace(after) || isPunct(after)
	leftFlank := !isWhitespace(after) && (!isPunct(after) || beforeOK)
	rightFlank := !isWhitespace(before) && (!isPunct(before) || afterOK)

	t := arena.Get(tok)
	t.CanOpen = leftFlank
	t.CanClose = rightFlank
}

// lexBracketOpen recognizes the bracket-open family: [#, [^, [?, [>, [%,
// plain [ (§4.5).
func lexBracketOpen(data []byte, i int) (int, TokenType) {
	if i+1 < len(data) {
		switch data[i+1] {
		case '^':
			return 2, BracketFootnoteStart
		case '#':
			return 2, BracketCitationStart
		case '?':
			return 2, BracketGlossaryStart
		case '>':
			return 2, BracketAbbreviationStart
		case '%':
			return 2, BracketVariableStart
		}
	}
	return 1, BracketStart
}
