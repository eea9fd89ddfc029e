package mmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngineIsIdempotentAcrossRenders(t *testing.T) {
	eng := NewEngine([]byte("# Title\n\nSome *text* here.\n"))
	out1, _ := Render(eng, NewHTMLRenderer())
	out2, _ := Render(eng, NewHTMLRenderer())
	assert.Equal(t, string(out1), string(out2))
}

func TestWithRandomSeedDeterministic(t *testing.T) {
	src := []byte("# Header One\n\n# Header One\n")
	a := NewEngine(src, WithExtensions(CommonExtensions|ExtRandomLabels), WithRandomSeed(99))
	b := NewEngine(src, WithExtensions(CommonExtensions|ExtRandomLabels), WithRandomSeed(99))

	outA, _ := Render(a, NewHTMLRenderer())
	outB, _ := Render(b, NewHTMLRenderer())
	assert.Equal(t, string(outA), string(outB))
}

func TestWithQuotesLanguageOverridesGlyphsIndependently(t *testing.T) {
	eng := NewEngine([]byte("say \"hi\"\n"), WithLanguage(LangEnglish), WithQuotesLanguage(LangGerman))
	assert.Equal(t, LangEnglish, eng.Language)
	assert.Equal(t, LangGerman, eng.QuotesLang)
}

func TestExtNoLabelsSuppressesHeaderAnchors(t *testing.T) {
	eng := NewEngine([]byte("# Title\n"), WithExtensions(CommonExtensions|ExtNoLabels))
	assert.Empty(t, eng.Refs.headerLabels)
}

func TestCollectInlineBlocksIncludesTableCells(t *testing.T) {
	eng := NewEngine([]byte("A | B\n---|---\n1 | 2\n"))
	var sawCell bool
	walkBlocks(eng.Arena, eng.Root, func(tok int) {
		if eng.Arena.Get(tok).Type == BlockTableCell {
			sawCell = true
		}
	})
	require.True(t, sawCell)
}
