package mmd

import (
	"bytes"
	"net/url"
	"strings"
	"unicode"
)

// Link is a resolved link/image definition (§3 "Link").
type Link struct {
	LabelToken int // arena index of the defining label token, or nilTok
	CleanText  string
	LabelText  string
	URL        string
	Title      string
	Attributes []KV
}

// KV is an ordered key/value pair, used for link attributes.
type KV struct{ Key, Value string }

// NoteEntry is a footnote/citation/glossary/abbreviation definition (§3).
type NoteEntry struct {
	LabelToken   int
	CleanText    string
	LabelText    string
	ContentBlock int // arena index of the definition's content
	UsedIndex    int // -1 until first referenced, then 1-based encounter order
	FreePara     bool

	// Expansion holds an abbreviation's full expansion text; footnotes,
	// citations and glossary entries render their body from ContentBlock's
	// inline-lexed children instead and leave this empty.
	Expansion string
}

// cleanText canonicalizes whitespace and lowercases ASCII; used as one hash
// key for definitions (§3).
func cleanText(s string) string {
	fields := strings.Fields(s)
	return strings.ToLower(strings.Join(fields, " "))
}

// labelText reduces s to an identifier: alnum plus "._-:", lowercased,
// multibyte sequences preserved unchanged (§3, §9 "UTF-8 in labels" --
// never locale-sensitive case folding).
func labelText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r < 128 && unicode.IsUpper(r):
			b.WriteRune(unicode.ToLower(r))
		case r < 128 && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-' || r == ':'):
			b.WriteRune(r)
		case r < 128:
			// drop other ASCII punctuation/space
		default:
			b.WriteRune(r) // preserve multibyte unchanged
		}
	}
	return b.String()
}

// ReferenceTables hold the engine's cross-document definition stacks (§3
// "Engine"). Insertion order is preserved; lookups try the key as given,
// then its clean form, then its label form (§9 "two parallel
// normalizations").
type ReferenceTables struct {
	Links         []*Link
	Footnotes     []*NoteEntry
	Citations     []*NoteEntry
	Glossary      []*NoteEntry
	Abbreviations []*NoteEntry
	Metadata      []KV
	headerLabels  []headerLabel

	linksByClean map[string]*Link
	linksByLabel map[string]*Link
	notesByClean map[TokenType]map[string]*NoteEntry
	notesByLabel map[TokenType]map[string]*NoteEntry
	metaByKey    map[string]string
}

func newReferenceTables() *ReferenceTables {
	return &ReferenceTables{
		linksByClean: map[string]*Link{},
		linksByLabel: map[string]*Link{},
		notesByClean: map[TokenType]map[string]*NoteEntry{
			PairBracketFootnote:     {},
			PairBracketCitation:     {},
			PairBracketGlossary:     {},
			PairBracketAbbreviation: {},
		},
		notesByLabel: map[TokenType]map[string]*NoteEntry{
			PairBracketFootnote:     {},
			PairBracketCitation:     {},
			PairBracketGlossary:     {},
			PairBracketAbbreviation: {},
		},
		metaByKey: map[string]string{},
	}
}

// AddLink inserts l unless a definition for the same key already exists;
// the first-inserted definition for any given normalized key always wins
// (§4.4, §8 invariant).
func (rt *ReferenceTables) AddLink(l *Link) {
	if _, ok := rt.linksByClean[l.CleanText]; ok {
		return
	}
	rt.Links = append(rt.Links, l)
	rt.linksByClean[l.CleanText] = l
	rt.linksByLabel[l.LabelText] = l
}

// LookupLink tries exact key, then clean, then label form.
func (rt *ReferenceTables) LookupLink(key string) (*Link, bool) {
	if l, ok := rt.linksByLabel[key]; ok {
		return l, true
	}
	if l, ok := rt.linksByClean[cleanText(key)]; ok {
		return l, true
	}
	if l, ok := rt.linksByLabel[labelText(key)]; ok {
		return l, true
	}
	return nil, false
}

func (rt *ReferenceTables) noteStackPtr(kind TokenType) *[]*NoteEntry {
	switch kind {
	case PairBracketFootnote:
		return &rt.Footnotes
	case PairBracketCitation:
		return &rt.Citations
	case PairBracketGlossary:
		return &rt.Glossary
	case PairBracketAbbreviation:
		return &rt.Abbreviations
	}
	return nil
}

// AddNote inserts n into the stack for kind unless already defined.
func (rt *ReferenceTables) AddNote(kind TokenType, n *NoteEntry) {
	if _, ok := rt.notesByClean[kind][n.CleanText]; ok {
		return
	}
	stack := rt.noteStackPtr(kind)
	*stack = append(*stack, n)
	rt.notesByClean[kind][n.CleanText] = n
	rt.notesByLabel[kind][n.LabelText] = n
}

// LookupNote tries exact, clean, then label form within kind's table.
func (rt *ReferenceTables) LookupNote(kind TokenType, key string) (*NoteEntry, bool) {
	if n, ok := rt.notesByLabel[kind][key]; ok {
		return n, true
	}
	if n, ok := rt.notesByClean[kind][cleanText(key)]; ok {
		return n, true
	}
	if n, ok := rt.notesByLabel[kind][labelText(key)]; ok {
		return n, true
	}
	return nil, false
}

// AddMetadata records key/value, first definition wins (§4.4).
func (rt *ReferenceTables) AddMetadata(key, value string) {
	norm := normalizeMetaKey(key)
	if _, ok := rt.metaByKey[norm]; ok {
		return
	}
	rt.Metadata = append(rt.Metadata, KV{Key: norm, Value: value})
	rt.metaByKey[norm] = value
}

func (rt *ReferenceTables) Meta(key string) (string, bool) {
	v, ok := rt.metaByKey[normalizeMetaKey(key)]
	return v, ok
}

// normalizeMetaKey case-folds and strips non-alphanumerics, per spec.md §6
// "Metadata block wire format".
func normalizeMetaKey(key string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(key) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// extractReferences dissects every completed definition block in the tree
// (§4.4) and populates the engine's reference tables. It must run after
// block reduction and before the inline pass, since inline resolution
// consults these tables.
func extractReferences(arena *Arena, src []byte, rt *ReferenceTables, diags *[]Diagnostic) {
	walkBlocks(arena, 0, func(tok int) {
		t := arena.Get(tok)
		switch t.Type {
		case BlockDefLink:
			extractLinkDef(arena, src, rt, tok, diags)
		case BlockDefFootnote:
			extractNoteDef(arena, src, rt, tok, PairBracketFootnote, '^')
		case BlockDefCitation:
			extractNoteDef(arena, src, rt, tok, PairBracketCitation, '#')
		case BlockDefGlossary:
			extractNoteDef(arena, src, rt, tok, PairBracketGlossary, '?')
		case BlockDefAbbreviation:
			extractAbbrevDef(arena, src, rt, tok)
		case BlockMeta:
			extractMetaBlock(src, rt, t.Start, t.Len)
		}
	})
}

func walkBlocks(arena *Arena, tok int, fn func(int)) {
	for c := arena.Get(tok).Child; c != nilTok; c = arena.Get(c).Next {
		fn(c)
		walkBlocks(arena, c, fn)
	}
}

// extractLinkDef parses "[label]: url \"title\" {attr=val}" from a
// BlockDefLink's raw text (§4.4). A URL that fails the URL grammar check
// (§4.4 "URL acceptance") is still recorded as-is -- the definition is kept
// so the link still resolves -- but is reported as a diagnostic wrapping the
// parse failure, so a driver can surface it without the core ever failing
// the whole parse over one bad definition.
func extractLinkDef(arena *Arena, src []byte, rt *ReferenceTables, tok int, diags *[]Diagnostic) {
	t := arena.Get(tok)
	line := src[t.Start : t.Start+t.Len]
	close := bytes.IndexByte(line, ']')
	if close < 0 {
		return
	}
	label := string(line[1:close])
	rest := line[close+1:]
	colon := bytes.IndexByte(rest, ':')
	if colon < 0 {
		return
	}
	rest = bytes.TrimSpace(rest[colon+1:])

	rawURL, rest := scanURL(rest)
	title, attrs := scanTitleAndAttrs(rest)

	if _, err := url.Parse(rawURL); err != nil {
		*diags = append(*diags, wrapDiagnostic(DiagInvalidURL, t.Start, "invalid link URL "+rawURL, err))
	}

	rt.AddLink(&Link{
		LabelToken: tok,
		CleanText:  cleanText(label),
		LabelText:  labelText(label),
		URL:        rawURL,
		Title:      title,
		Attributes: attrs,
	})
}

func scanURL(rest []byte) (string, []byte) {
	rest = bytes.TrimSpace(rest)
	if len(rest) == 0 {
		return "", rest
	}
	if rest[0] == '<' {
		end := bytes.IndexByte(rest, '>')
		if end > 0 {
			return string(rest[1:end]), bytes.TrimSpace(rest[end+1:])
		}
	}
	i := 0
	for i < len(rest) && !isWhitespace(rest[i]) {
		i++
	}
	return string(rest[:i]), bytes.TrimSpace(rest[i:])
}

func scanTitleAndAttrs(rest []byte) (string, []KV) {
	rest = bytes.TrimSpace(rest)
	title := ""
	if len(rest) > 0 && (rest[0] == '"' || rest[0] == '\'' || rest[0] == '(') {
		closeCh := rest[0]
		if closeCh == '(' {
			closeCh = ')'
		}
		end := bytes.IndexByte(rest[1:], closeCh)
		if end >= 0 {
			title = string(rest[1 : 1+end])
			rest = bytes.TrimSpace(rest[1+end+1:])
		}
	}
	var attrs []KV
	for len(rest) > 0 {
		eq := bytes.IndexByte(rest, '=')
		if eq < 0 {
			break
		}
		key := strings.TrimSpace(string(rest[:eq]))
		rest = bytes.TrimSpace(rest[eq+1:])
		if len(rest) == 0 || rest[0] != '"' {
			break
		}
		end := bytes.IndexByte(rest[1:], '"')
		if end < 0 {
			break
		}
		val := string(rest[1 : 1+end])
		val = strings.TrimSuffix(val, "px")
		attrs = append(attrs, KV{Key: key, Value: val})
		rest = bytes.TrimSpace(rest[1+end+1:])
	}
	return title, attrs
}

func extractNoteDef(arena *Arena, src []byte, rt *ReferenceTables, tok int, kind TokenType, marker byte) {
	t := arena.Get(tok)
	line := src[t.Start : t.Start+t.Len]
	_ = marker
	openBracket := bytes.IndexByte(line, '[')
	close := bytes.IndexByte(line, ']')
	if openBracket < 0 || close < 0 {
		return
	}
	label := line[openBracket+1 : close]
	if len(label) > 0 && isNoteMarker(label[0]) {
		label = label[1:]
	}
	rt.AddNote(kind, &NoteEntry{
		LabelToken:   tok,
		CleanText:    cleanText(string(label)),
		LabelText:    labelText(string(label)),
		ContentBlock: tok,
		UsedIndex:    -1,
	})
}

func isNoteMarker(c byte) bool {
	return c == '^' || c == '#' || c == '?' || c == '>'
}

func extractAbbrevDef(arena *Arena, src []byte, rt *ReferenceTables, tok int) {
	t := arena.Get(tok)
	line := src[t.Start : t.Start+t.Len]
	openBracket := bytes.IndexByte(line, '[')
	close := bytes.IndexByte(line, ']')
	if openBracket < 0 || close < 0 {
		return
	}
	label := line[openBracket+1 : close]
	if len(label) > 0 && label[0] == '>' {
		label = label[1:]
	}
	expansion := ""
	if colon := indexByteLimited(line, ':', close); colon >= 0 {
		expansion = strings.TrimSpace(string(line[colon+1:]))
	}
	rt.AddNote(PairBracketAbbreviation, &NoteEntry{
		LabelToken:   tok,
		CleanText:    cleanText(string(label)),
		LabelText:    labelText(string(label)),
		ContentBlock: tok,
		UsedIndex:    -1,
		Expansion:    expansion,
	})
}

// extractMetaBlock parses "key: value" lines (continuation lines begin
// with whitespace and extend the previous value) and, supplementally, a
// YAML-delimited "---"/"..." block (SPEC_FULL.md §4.4a).
func extractMetaBlock(src []byte, rt *ReferenceTables, start, length int) {
	block := src[start : start+length]
	if looksLikeYAMLFrontMatter(block) {
		if kvs, ok := parseYAMLMetadata(block); ok {
			for _, kv := range kvs {
				rt.AddMetadata(kv.Key, kv.Value)
			}
			return
		}
	}

	lines := bytes.Split(block, []byte("\n"))
	var key, value string
	flush := func() {
		if key != "" {
			rt.AddMetadata(key, strings.TrimSpace(value))
		}
	}
	for _, l := range lines {
		if len(l) == 0 {
			continue
		}
		if isWhitespace(l[0]) && key != "" {
			value += " " + strings.TrimSpace(string(l))
			continue
		}
		flush()
		colon := bytes.IndexByte(l, ':')
		if colon < 0 {
			key = ""
			continue
		}
		key = strings.TrimSpace(string(l[:colon]))
		value = strings.TrimSpace(string(l[colon+1:]))
	}
	flush()
}
