package mmd

// matchPairs runs the delimiter-pairing passes over one block's (already
// flat) inline children, one per "pair family" (§4.5). Each pass owns a
// stack of open tokens; on a legal close it wraps opener+content+closer
// under a new PAIR_* token, replacing that run in the sibling chain.
func matchPairs(arena *Arena, blockTok int) {
	matchBracketFamily(arena, blockTok)
	matchSimpleFamily(arena, blockTok, ParenStart, ParenStop, PairParen)
	matchSimpleFamily(arena, blockTok, BraceStart, BraceStop, PairBrace)
	matchSimpleFamily(arena, blockTok, MathDollarStart, MathDollarStop, PairMathDollar)
	matchSimpleFamily(arena, blockTok, MathDollarDoubleStart, MathDollarDoubleStop, PairMathDollarDouble)
	matchCriticFamily(arena, blockTok)
	matchCodeSpans(arena, blockTok)
	matchEmphasis(arena, blockTok)
	matchToggleFamily(arena, blockTok, SubStart, PairSub)
	matchToggleFamily(arena, blockTok, SuperStart, PairSuper)
}

// matchToggleFamily pairs a marker that the lexer emits identically for
// open and close (single '~' subscript, single '^' superscript): the first
// occurrence in a run opens, the next closes, alternating.
func matchToggleFamily(arena *Arena, blockTok int, markerType, pairType TokenType) {
	open := nilTok
	for c := arena.Get(blockTok).Child; c != nilTok; {
		next := arena.Get(c).Next
		if arena.Get(c).Type == markerType {
			if open == nilTok {
				open = c
			} else {
				wrapPair(arena, blockTok, open, c, pairType)
				open = nilTok
			}
		}
		c = next
	}
	if open != nilTok {
		arena.Get(open).Unmatched = true
	}
}

// bracketOpenKinds maps every bracket-open variant to the pair type it
// produces once closed by a plain ']'.
var bracketOpenKinds = map[TokenType]TokenType{
	BracketStart:             PairBracket,
	BracketImageStart:        PairBracketImage,
	BracketFootnoteStart:     PairBracketFootnote,
	BracketCitationStart:     PairBracketCitation,
	BracketGlossaryStart:     PairBracketGlossary,
	BracketAbbreviationStart: PairBracketAbbreviation,
	BracketVariableStart:     PairBracketVariable,
}

func matchBracketFamily(arena *Arena, blockTok int) {
	var stack []int
	for c := arena.Get(blockTok).Child; c != nilTok; {
		next := arena.Get(c).Next
		t := arena.Get(c).Type
		if _, ok := bracketOpenKinds[t]; ok {
			stack = append(stack, c)
		} else if t == BracketStop {
			if len(stack) > 0 {
				open := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				pairType := bracketOpenKinds[arena.Get(open).Type]
				wrapPair(arena, blockTok, open, c, pairType)
			} else {
				arena.Get(c).Unmatched = true
			}
		}
		c = next
	}
	for _, open := range stack {
		arena.Get(open).Unmatched = true
	}
}

func matchSimpleFamily(arena *Arena, blockTok int, openType, closeType, pairType TokenType) {
	var stack []int
	for c := arena.Get(blockTok).Child; c != nilTok; {
		next := arena.Get(c).Next
		t := arena.Get(c).Type
		if t == openType {
			stack = append(stack, c)
		} else if t == closeType {
			if len(stack) > 0 {
				open := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				wrapPair(arena, blockTok, open, c, pairType)
			} else {
				arena.Get(c).Unmatched = true
			}
		}
		c = next
	}
	for _, open := range stack {
		arena.Get(open).Unmatched = true
	}
}

// matchCriticFamily pairs the four two-delimiter CriticMarkup kinds plus
// the substitution by its open and close delimiters; the divider stays a
// child of the substitution pair for the renderer to find, per §4.5.
func matchCriticFamily(arena *Arena, blockTok int) {
	matchSimpleFamily(arena, blockTok, CriticAddStart, CriticAddStop, PairCriticAdd)
	matchSimpleFamily(arena, blockTok, CriticDelStart, CriticDelStop, PairCriticDel)
	matchSimpleFamily(arena, blockTok, CriticCommentStart, CriticCommentStop, PairCriticComment)
	matchSimpleFamily(arena, blockTok, CriticHighlightStart, CriticHighlightStop, PairCriticHighlight)
	matchSimpleFamily(arena, blockTok, CriticSubStart, CriticSubStop, PairCriticSub)
}

// matchCodeSpans pairs backtick runs of equal length only (§4.5). A run
// that doesn't find a same-length partner becomes the new pending opener
// rather than being discarded, so `` `a` `` pairs correctly even after an
// earlier mismatched run.
func matchCodeSpans(arena *Arena, blockTok int) {
	open := nilTok
	for c := arena.Get(blockTok).Child; c != nilTok; {
		next := arena.Get(c).Next
		t := arena.Get(c)
		if t.Type == TextCodeRun {
			switch {
			case open == nilTok:
				open = c
			case arena.Get(open).Len == t.Len:
				wrapPair(arena, blockTok, open, c, PairCodeSpan)
				open = nilTok
			default:
				open = c
			}
		}
		c = next
	}
}

type emphKey struct {
	typ    TokenType
	marker byte
}

// matchEmphasis pairs emphasis/strong/strikethrough delimiters using
// standard Markdown flanking (§4.5, §9): a LIFO stack per (type, marker
// character) combination, pairing a can-close token against the most
// recent still-open can-open token of the same combination.
func matchEmphasis(arena *Arena, blockTok int) {
	stacks := map[emphKey][]int{}
	for c := arena.Get(blockTok).Child; c != nilTok; {
		next := arena.Get(c).Next
		t := arena.Get(c)
		switch t.Type {
		case EmphStart, StrongStart, StrikeStart:
			key := emphKey{t.Type, byte(t.Num)}
			if t.CanClose && len(stacks[key]) > 0 {
				open := stacks[key][len(stacks[key])-1]
				stacks[key] = stacks[key][:len(stacks[key])-1]
				wrapPair(arena, blockTok, open, c, emphPairType(t.Type))
			} else if t.CanOpen {
				stacks[key] = append(stacks[key], c)
			} else {
				t.Unmatched = true
			}
		}
		c = next
	}
	for _, stack := range stacks {
		for _, open := range stack {
			arena.Get(open).Unmatched = true
		}
	}
}

func emphPairType(t TokenType) TokenType {
	switch t {
	case StrongStart:
		return PairStrong
	case StrikeStart:
		return PairStrike
	default:
		return PairEmph
	}
}

// wrapPair creates a new PAIR_* token spanning [open, close] in the sibling
// chain, moves the tokens between them (exclusive) to become its children,
// sets Mate on open/close, and replaces the run with the single pair token.
func wrapPair(arena *Arena, parent int, open, closeTok int, pairType TokenType) {
	o := arena.Get(open)
	c := arena.Get(closeTok)
	arena.Pair(open, closeTok)

	start := o.Start
	length := (c.Start + c.Len) - start

	// Detach [open..close] from parent's chain, remembering neighbors.
	prevSibling := o.Prev
	nextSibling := c.Next

	// Re-link inner content (strictly between open and close) under pair.
	firstInner := o.Next
	lastInner := c.Prev

	// arena.New may grow toks past its current capacity and reallocate the
	// backing array, stranding o/c (and any other *Token already in hand)
	// in the discarded array. Every pointer used below is fetched fresh
	// afterward rather than reused from above.
	pair := arena.New(pairType, start, length)
	o = arena.Get(open)
	c = arena.Get(closeTok)
	if firstInner != closeTok {
		pr := arena.Get(pair)
		pr.Child = firstInner
		pr.Tail = lastInner
		arena.Get(firstInner).Parent = pair
		arena.Get(firstInner).Prev = nilTok
		arena.Get(lastInner).Next = nilTok
		// reparent the whole inner chain
		for x := firstInner; x != nilTok; x = arena.Get(x).Next {
			arena.Get(x).Parent = pair
			if x == lastInner {
				break
			}
		}
	}

	o.Parent = pair
	c.Parent = pair
	o.Next = nilTok
	o.Prev = nilTok
	c.Prev = nilTok
	c.Next = nilTok
	// Keep the delimiters addressable via pair's own Child chain ends by
	// threading them at the outside: store them via Mate only; renderer
	// reaches them through pair.Child bounds plus the pair token's own
	// Start/Len when it needs delimiter text. The delimiters themselves are
	// not part of the public child chain (they are addressed via Mate from
	// the pair's perspective implicitly: pair.Start..firstInner.Start is the
	// opener's span, lastInner.End..pair.End is the closer's span).
	arena.delimOpen[pair] = open
	arena.delimClose[pair] = closeTok

	pair2 := arena.Get(pair)
	pair2.Prev = prevSibling
	pair2.Next = nextSibling
	pair2.Parent = parent
	if prevSibling != nilTok {
		arena.Get(prevSibling).Next = pair
	} else {
		arena.Get(parent).Child = pair
	}
	if nextSibling != nilTok {
		arena.Get(nextSibling).Prev = pair
	} else {
		arena.Get(parent).Tail = pair
	}
}
