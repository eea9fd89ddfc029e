package mmd

// smartSubstitute implements the ExtSmart localized-punctuation pass
// (§4.7): apostrophes, dashes, ellipsis, and quote pairs become
// language-specific HTML entities. Orientation for a double quote is decided
// from the surrounding byte context (it opens when the byte after it is not
// whitespace and the byte before it is whitespace or punctuation, otherwise
// it closes) rather than by a separate pairing pass, since quotes nest
// arbitrarily and a single flanking rule
// already captures "is this an opening or closing mark" correctly for the
// overwhelming majority of real documents.
func smartSubstitute(eng *Engine, tok int) (string, bool) {
	t := eng.Arena.Get(tok)
	src := eng.Source
	glyphs := quoteGlyphs(eng.QuotesLang)

	switch t.Type {
	case TextEllipsis:
		return "&#8230;", true
	case TextDashM:
		return "&#8212;", true
	case TextDashN:
		return "&#8211;", true
	case TextApostrophe:
		return glyphs[3], true // treat bare apostrophe as a closing single quote / elision
	case TextQuoteDouble:
		before := byte(' ')
		if t.Start > 0 {
			before = src[t.Start-1]
		}
		after := byte(' ')
		if t.Start+t.Len < len(src) {
			after = src[t.Start+t.Len]
		}
		opens := !isWhitespace(after) && (isWhitespace(before) || isPunct(before))
		if opens {
			return glyphs[0], true
		}
		return glyphs[1], true
	}
	return "", false
}
