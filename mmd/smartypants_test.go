package mmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstTokenOfType(eng *Engine, want TokenType) (int, bool) {
	found := -1
	eng.Arena.Walk(eng.Root, defaultMaxRecursionDepth, func(tok int, entering bool) WalkStatus {
		if entering && found == -1 && eng.Arena.Get(tok).Type == want {
			found = tok
		}
		return WalkGoToNext
	})
	return found, found != -1
}

func TestSmartSubstituteEllipsisAndDashes(t *testing.T) {
	eng := NewEngine([]byte("wait... then---this--that\n"))

	tok, ok := firstTokenOfType(eng, TextEllipsis)
	require.True(t, ok)
	out, matched := smartSubstitute(eng, tok)
	assert.True(t, matched)
	assert.Equal(t, "&#8230;", out)

	tok, ok = firstTokenOfType(eng, TextDashM)
	require.True(t, ok)
	out, _ = smartSubstitute(eng, tok)
	assert.Equal(t, "&#8212;", out)

	tok, ok = firstTokenOfType(eng, TextDashN)
	require.True(t, ok)
	out, _ = smartSubstitute(eng, tok)
	assert.Equal(t, "&#8211;", out)
}

func TestSmartSubstituteQuoteOrientation(t *testing.T) {
	eng := NewEngine([]byte("say \"hello\" now\n"))

	var quotes []int
	eng.Arena.Walk(eng.Root, defaultMaxRecursionDepth, func(tok int, entering bool) WalkStatus {
		if entering && eng.Arena.Get(tok).Type == TextQuoteDouble {
			quotes = append(quotes, tok)
		}
		return WalkGoToNext
	})
	require.Len(t, quotes, 2)

	open, _ := smartSubstitute(eng, quotes[0])
	assert.Equal(t, "&#8220;", open)
	shut, _ := smartSubstitute(eng, quotes[1])
	assert.Equal(t, "&#8221;", shut)
}

func TestSmartSubstituteApostrophe(t *testing.T) {
	eng := NewEngine([]byte("it's here\n"))
	tok, ok := firstTokenOfType(eng, TextApostrophe)
	require.True(t, ok)
	out, _ := smartSubstitute(eng, tok)
	assert.Equal(t, "&#8217;", out)
}

func TestSmartSubstituteNoMatchForUnrelatedToken(t *testing.T) {
	eng := NewEngine([]byte("plain text\n"))
	tok, ok := firstTokenOfType(eng, TextPlain)
	require.True(t, ok)
	_, matched := smartSubstitute(eng, tok)
	assert.False(t, matched)
}
