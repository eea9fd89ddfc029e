package mmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageFromCode(t *testing.T) {
	assert.Equal(t, LangFrench, LanguageFromCode("fr"))
	assert.Equal(t, LangGermanGuillemets, LanguageFromCode("de-guillemets"))
	assert.Equal(t, LangEnglish, LanguageFromCode("xx-unknown"))
}

func TestUIString(t *testing.T) {
	assert.Equal(t, "see footnote", uiString("see-footnote", LangEnglish))
	assert.Equal(t, "voir note de bas de page", uiString("see-footnote", LangFrench))
	assert.Equal(t, "", uiString("no-such-key", LangEnglish))
}

func TestQuoteGlyphsVaryByLanguage(t *testing.T) {
	en := quoteGlyphs(LangEnglish)
	de := quoteGlyphs(LangGerman)
	assert.NotEqual(t, en, de)
	assert.Equal(t, "&#8220;", en[0])
	assert.Equal(t, "&#8222;", de[0])
}
