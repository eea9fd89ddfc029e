package mmd

// TokenType is the closed enumeration of token tags: line kinds, block
// kinds, pair kinds, open/close markers, primitive inline spans, and the
// handful of internal "empty" placeholders the renderer may substitute in.
type TokenType int

const (
	// Internal / sentinel
	TokEmpty TokenType = iota
	TokTextEmpty // renderer-time placeholder for "suppressed, render nothing"

	// Line kinds (§4.2)
	LineEmpty
	LineIndentedTab
	LineIndentedSpace
	LineATX1
	LineATX2
	LineATX3
	LineATX4
	LineATX5
	LineATX6
	LineSetext1
	LineSetext2
	LineHR
	LineBlockquote
	LineListBulleted
	LineListEnumerated
	LineFenceBacktick3
	LineFenceBacktick4
	LineFenceBacktick5
	LineFenceBacktick3Start
	LineFenceBacktick4Start
	LineFenceBacktick5Start
	LineTable
	LineTableSeparator
	LineDefinition
	LineDefLink
	LineDefFootnote
	LineDefCitation
	LineDefGlossary
	LineDefAbbreviation
	LineMeta
	LineHTML
	LinePlain
	LineContinuation
	LineTOC

	// Block kinds (§4.3)
	BlockDoc
	BlockPara
	BlockATXHeader
	BlockSetextHeader
	BlockHR
	BlockBlockquote
	BlockCodeIndented
	BlockCodeFenced
	BlockHTML
	BlockListBulleted
	BlockListEnumerated
	BlockListItem
	BlockTable
	BlockTableHeader
	BlockTableBody
	BlockTableRow
	BlockTableCell
	BlockDefinitionBlock
	BlockDefinitionTerm
	BlockDefinitionItem
	BlockMeta
	BlockTOC
	BlockDefLink
	BlockDefFootnote
	BlockDefCitation
	BlockDefGlossary
	BlockDefAbbreviation

	// Inline primitive spans (§4.5)
	TextPlain
	TextNumber
	TextPeriod
	TextAmpersand
	TextBackslashEscape
	TextHTMLEntity
	TextHTMLComment
	TextHTMLTag
	TextColon
	TextDashN
	TextDashM
	TextEllipsis
	TextEquals
	TextPipe
	TextPlus
	TextSlash
	TextApostrophe
	TextQuoteSingle
	TextQuoteDouble
	TextIndentSpace
	TextNewline
	TextLinebreak
	TextCodeRun // backtick run, pre-pairing

	// Open/close markers, paired during the pair-matching pass (§4.5)
	EmphStart
	EmphStop
	StrongStart
	StrongStop
	StrikeStart
	StrikeStop
	SuperStart
	SuperStop
	SubStart
	SubStop
	BracketStart
	BracketStop
	BracketImageStart
	BracketFootnoteStart
	BracketCitationStart
	BracketGlossaryStart
	BracketAbbreviationStart
	BracketVariableStart
	ParenStart
	ParenStop
	AngleStart
	AngleStop
	BraceStart
	BraceStop
	MathDollarStart
	MathDollarStop
	MathDollarDoubleStart
	MathDollarDoubleStop
	MathParenStart
	MathParenStop
	MathBracketStart
	MathBracketStop
	CriticAddStart
	CriticAddStop
	CriticDelStart
	CriticDelStop
	CriticSubStart
	CriticSubDivider
	CriticSubStop
	CriticCommentStart
	CriticCommentStop
	CriticHighlightStart
	CriticHighlightStop

	// Pair kinds: materialized once a matching pass succeeds
	PairEmph
	PairStrong
	PairStrike
	PairSuper
	PairSub
	PairBracket
	PairBracketImage
	PairBracketFootnote
	PairBracketCitation
	PairBracketGlossary
	PairBracketAbbreviation
	PairBracketVariable
	PairParen
	PairAngle
	PairBrace
	PairMathDollar
	PairMathDollarDouble
	PairMathParen
	PairMathBracket
	PairCriticAdd
	PairCriticDel
	PairCriticSub
	PairCriticComment
	PairCriticHighlight
	PairCodeSpan

	// Resolved inline constructs, produced by the inline resolver (§4.6)
	LinkExplicit
	LinkReference
	LinkAutomatic
	ImageExplicit
	ImageReference
	FootnoteRef
	CitationRef
	GlossaryRef
	AbbreviationRef
	VariableRef
)

// nilTok is the null token index: no token, no sibling, no child.
const nilTok = -1

// Token is a tree node addressed by arena index. It carries a byte range
// into the immutable source buffer and the tree links (sibling chain,
// child-chain head/tail, optional pair back-reference) as indices rather
// than pointers, per the "arena-per-parse allocator with stable indices"
// design (spec §9): freeing the arena frees the whole tree in one shot, and
// no token ever outlives the parse that created it.
type Token struct {
	Type TokenType
	Start int
	Len   int

	Prev, Next int // sibling chain; nilTok at the ends
	Child, Tail int // head/tail of this token's child chain; nilTok if leaf
	Parent int       // convenience back-link, maintained by Arena.AppendChild

	Mate int // paired token's index, or nilTok

	CanOpen, CanClose bool
	Unmatched         bool

	// numeric payload used by a handful of token kinds: ATX/setext header
	// level, fence length, list looseness (1 = loose), table column count.
	Num int
}

// Arena owns every token created during one parse. Token 0 is always the
// document root.
type Arena struct {
	toks []Token

	// delimOpen/delimClose record, for a PAIR_* token, the indices of its
	// opening and closing delimiter tokens. The delimiters are not part of
	// the pair's public child chain (only the enclosed content is); the
	// renderer reaches them through these side tables when it needs to
	// measure or emit delimiter text itself.
	delimOpen  map[int]int
	delimClose map[int]int

	// Resolved-reference side tables. A resolved link/image/note/variable
	// token keeps its arena index as Type but needs more payload than the
	// fixed Token struct carries; these maps hold that payload, scoped to
	// this arena (and therefore to one parse) so that multiple Engines
	// running in separate goroutines never share mutable state (§5).
	linkPayloads map[int]linkPayload
	notePayloads map[int]*NoteEntry
	varPayloads  map[int]string
}

// NewArena allocates an arena with its document root already in place.
func NewArena() *Arena {
	a := &Arena{
		toks:         make([]Token, 0, 256),
		delimOpen:    map[int]int{},
		delimClose:   map[int]int{},
		linkPayloads: map[int]linkPayload{},
		notePayloads: map[int]*NoteEntry{},
		varPayloads:  map[int]string{},
	}
	a.New(BlockDoc, 0, 0)
	return a
}

// DelimOpen returns the opening delimiter token index for a PAIR_* token.
func (a *Arena) DelimOpen(pair int) int { return a.delimOpen[pair] }

// DelimClose returns the closing delimiter token index for a PAIR_* token.
func (a *Arena) DelimClose(pair int) int { return a.delimClose[pair] }

// LinkPayload returns the resolved URL/title for a Link*/Image* token.
func (a *Arena) LinkPayload(tok int) linkPayload { return a.linkPayloads[tok] }

// NotePayload returns the resolved definition for a *Ref note token, if any.
func (a *Arena) NotePayload(tok int) (*NoteEntry, bool) {
	n, ok := a.notePayloads[tok]
	return n, ok
}

// VarPayload returns the resolved metadata value for a VariableRef token.
func (a *Arena) VarPayload(tok int) (string, bool) {
	v, ok := a.varPayloads[tok]
	return v, ok
}

// New creates a detached token (no tree links set) and returns its index.
func (a *Arena) New(t TokenType, start, length int) int {
	a.toks = append(a.toks, Token{
		Type: t, Start: start, Len: length,
		Prev: nilTok, Next: nilTok, Child: nilTok, Tail: nilTok,
		Parent: nilTok, Mate: nilTok,
	})
	return len(a.toks) - 1
}

// Get returns a pointer to the token at idx. idx == nilTok is invalid.
func (a *Arena) Get(idx int) *Token {
	return &a.toks[idx]
}

// Len is the number of tokens ever created in this arena.
func (a *Arena) Len() int { return len(a.toks) }

// AppendChild appends child as the new last child of parent, maintaining
// both the sibling chain and parent's Child/Tail pointers.
func (a *Arena) AppendChild(parent, child int) {
	p := a.Get(parent)
	c := a.Get(child)
	c.Parent = parent
	if p.Child == nilTok {
		p.Child = child
		p.Tail = child
		c.Prev = nilTok
		c.Next = nilTok
		return
	}
	tail := a.Get(p.Tail)
	tail.Next = child
	c.Prev = p.Tail
	c.Next = nilTok
	p.Tail = child
}

// InsertBefore inserts newTok immediately before existing in existing's
// sibling chain, under the same parent.
func (a *Arena) InsertBefore(existing, newTok int) {
	e := a.Get(existing)
	n := a.Get(newTok)
	n.Parent = e.Parent
	n.Prev = e.Prev
	n.Next = existing
	if e.Prev != nilTok {
		a.Get(e.Prev).Next = newTok
	} else if e.Parent != nilTok {
		a.Get(e.Parent).Child = newTok
	}
	e.Prev = newTok
}

// Unlink removes tok from its sibling chain (and from its parent's
// Child/Tail if it was the head or tail) without destroying it. The
// children of tok, if any, are left untouched.
func (a *Arena) Unlink(tok int) {
	t := a.Get(tok)
	if t.Prev != nilTok {
		a.Get(t.Prev).Next = t.Next
	}
	if t.Next != nilTok {
		a.Get(t.Next).Prev = t.Prev
	}
	if t.Parent != nilTok {
		p := a.Get(t.Parent)
		if p.Child == tok {
			p.Child = t.Next
		}
		if p.Tail == tok {
			p.Tail = t.Prev
		}
	}
	t.Prev, t.Next = nilTok, nilTok
}

// Pair marks a and b as mates of each other. Both must already be siblings
// in the same chain.
func (a *Arena) Pair(x, y int) {
	a.Get(x).Mate = y
	a.Get(y).Mate = x
}

// Text returns the token's byte range from src.
func (a *Arena) Text(tok int, src []byte) []byte {
	t := a.Get(tok)
	return src[t.Start : t.Start+t.Len]
}

// Children returns the indices of tok's children in order. Used by tests
// and by renderer code paths that need random access rather than a walk.
func (a *Arena) Children(tok int) []int {
	var out []int
	for c := a.Get(tok).Child; c != nilTok; c = a.Get(c).Next {
		out = append(out, c)
	}
	return out
}
