package mmd

import "strings"

// noteUse tracks the order notes are first referenced during inline
// resolution, so UsedIndex can be assigned in encounter order (§4.6).
type noteUse struct {
	nextIndex map[TokenType]int
}

func newNoteUse() *noteUse {
	return &noteUse{nextIndex: map[TokenType]int{
		PairBracketFootnote:     1,
		PairBracketCitation:     1,
		PairBracketGlossary:     1,
		PairBracketAbbreviation: 1,
	}}
}

func (u *noteUse) assign(n *NoteEntry, kind TokenType) {
	if n.UsedIndex == -1 {
		n.UsedIndex = u.nextIndex[kind]
		u.nextIndex[kind]++
	}
}

// resolveDocument runs the inline resolver (§4.6) over the already-paired
// inline content of every paragraph, table cell, footnote/citation/glossary
// definition, and definition-list term and item.
func resolveDocument(arena *Arena, src []byte, rt *ReferenceTables, doc int) {
	used := newNoteUse()
	walkBlocks(arena, doc, func(tok int) {
		t := arena.Get(tok)
		if t.Type == BlockPara || t.Type == BlockTableCell || t.Type == BlockDefGlossary ||
			t.Type == BlockDefFootnote || t.Type == BlockDefCitation ||
			t.Type == BlockDefinitionTerm || t.Type == BlockDefinitionItem {
			resolveChain(arena, src, rt, used, tok)
		}
	})
}

// resolveChain walks parent's children left to right, reclassifying
// bracket pairs per §4.6, and recurses into whatever each pair's remaining
// content turns out to be.
func resolveChain(arena *Arena, src []byte, rt *ReferenceTables, used *noteUse, parent int) {
	for c := arena.Get(parent).Child; c != nilTok; {
		next := arena.Get(c).Next
		t := arena.Get(c).Type

		switch t {
		case PairBracketImage, PairBracket:
			next = resolveLinkLike(arena, src, rt, used, parent, c, next, t == PairBracketImage)
		case PairBracketFootnote:
			resolveNote(arena, src, rt, used, c, PairBracketFootnote, FootnoteRef)
		case PairBracketCitation:
			resolveNote(arena, src, rt, used, c, PairBracketCitation, CitationRef)
		case PairBracketGlossary:
			resolveNote(arena, src, rt, used, c, PairBracketGlossary, GlossaryRef)
		case PairBracketAbbreviation:
			resolveAbbreviation(arena, src, rt, c)
		case PairBracketVariable:
			resolveVariable(arena, src, rt, c)
		}

		if arena.Get(c).Child != nilTok {
			resolveChain(arena, src, rt, used, c)
		}
		c = next
	}
}

// resolveLinkLike handles both the plain link/image bracket families:
// explicit ("[text](url)"), reference ("[text][label]", falling back to
// the bracket's own interior when the second bracket is empty), and the
// citation "locator" form "[p.23][#ref]" (§4.6).
func resolveLinkLike(arena *Arena, src []byte, rt *ReferenceTables, used *noteUse, parent, pair, next int, isImage bool) int {
	if next == nilTok {
		return next
	}
	nt := arena.Get(next).Type

	if nt == PairParen {
		url, title := splitURLTitle(arena, src, next)
		resolvedType := LinkExplicit
		if isImage {
			resolvedType = ImageExplicit
		}
		makeResolved(arena, parent, pair, next, resolvedType, url, title)
		return arena.Get(pair).Next
	}

	if nt == PairBracketCitation {
		resolveNote(arena, src, rt, used, next, PairBracketCitation, CitationRef)
		return arena.Get(next).Next
	}

	if nt == PairBracket {
		label := textOfPair(arena, src, next)
		if strings.TrimSpace(label) == "" {
			label = textOfPair(arena, src, pair)
		}
		if link, ok := rt.LookupLink(label); ok {
			resolvedType := LinkReference
			if isImage {
				resolvedType = ImageReference
			}
			makeResolved(arena, parent, pair, next, resolvedType, link.URL, link.Title)
			return arena.Get(pair).Next
		}
	}

	// Unresolvable: leave the bracket pair as-is; the renderer emits its
	// literal delimiters (§7 "Unresolvable reference").
	return next
}

func splitURLTitle(arena *Arena, src []byte, parenPair int) (string, string) {
	text := textOfPair(arena, src, parenPair)
	text = strings.TrimSpace(text)
	url := text
	title := ""
	if i := strings.IndexAny(text, "\"'"); i >= 0 {
		url = strings.TrimSpace(text[:i])
		rest := text[i:]
		if len(rest) >= 2 {
			title = strings.Trim(rest, "\"'")
		}
	}
	url = strings.Trim(url, "<>")
	return url, title
}

// makeResolved converts pair (and, if non-nil, the following secondary
// pair) into a single resolved token of resolvedType, keeping pair's
// display-text children and recording url/title via the side table so the
// renderer can retrieve them without re-scanning source.
func makeResolved(arena *Arena, parent, pair, secondary int, resolvedType TokenType, url, title string) {
	p := arena.Get(pair)
	p.Type = resolvedType
	arena.linkPayloads[pair] = linkPayload{URL: url, Title: title}

	if secondary != nilTok {
		s := arena.Get(secondary)
		end := s.Start + s.Len
		p.Len = end - p.Start
		// Splice secondary out of the sibling chain.
		if s.Next != nilTok {
			arena.Get(s.Next).Prev = p.Next
		}
		nn := s.Next
		p.Next = nn
		if nn != nilTok {
			arena.Get(nn).Prev = pair
		} else {
			arena.Get(parent).Tail = pair
		}
	}
}

// linkPayload stores a resolved link/image's URL+title, keyed by the pair
// token's arena index, since Token itself has no string fields (§3's Link
// struct is reserved for definitions, not every resolved reference site).
type linkPayload struct {
	URL, Title string
}

func textOfPair(arena *Arena, src []byte, pair int) string {
	var b strings.Builder
	for c := arena.Get(pair).Child; c != nilTok; c = arena.Get(c).Next {
		b.Write(arena.Text(c, src))
	}
	return b.String()
}

// resolveNote looks the bracket's label up in the matching note table; if
// absent and the bracket has substantive content, an inline definition is
// materialized from the bracket's own content and added to the reference
// tables (§4.6). UsedIndex is assigned in first-reference order.
func resolveNote(arena *Arena, src []byte, rt *ReferenceTables, used *noteUse, pair int, kind TokenType, resolvedType TokenType) {
	label := textOfPair(arena, src, pair)
	n, ok := rt.LookupNote(kind, label)
	if !ok {
		if strings.TrimSpace(label) == "" {
			return
		}
		n = &NoteEntry{
			CleanText:    cleanText(label),
			LabelText:    labelText(label),
			ContentBlock: pair,
			UsedIndex:    -1,
			FreePara:     true,
		}
		rt.AddNote(kind, n)
	}
	used.assign(n, kind)
	p := arena.Get(pair)
	p.Type = resolvedType
	p.Num = n.UsedIndex
	arena.notePayloads[pair] = n
}

func resolveAbbreviation(arena *Arena, src []byte, rt *ReferenceTables, pair int) {
	label := textOfPair(arena, src, pair)
	n, ok := rt.LookupNote(PairBracketAbbreviation, label)
	p := arena.Get(pair)
	p.Type = AbbreviationRef
	if ok {
		arena.notePayloads[pair] = n
	}
}

func resolveVariable(arena *Arena, src []byte, rt *ReferenceTables, pair int) {
	key := textOfPair(arena, src, pair)
	p := arena.Get(pair)
	p.Type = VariableRef
	if v, ok := rt.Meta(key); ok {
		arena.varPayloads[pair] = v
	}
}
