package mmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTableBuildsFullTree(t *testing.T) {
	src := []byte("A | B\n---: | :---:\n1 | 2\n")
	lines := lexLines(src)
	bp := newBlockParser(NewArena(), src)
	bp.parseDocument(lines)

	var header, body, row, cell int
	walkBlocks(bp.arena, 0, func(tok int) {
		switch bp.arena.Get(tok).Type {
		case BlockTableHeader:
			header++
		case BlockTableBody:
			body++
		case BlockTableRow:
			row++
		case BlockTableCell:
			cell++
		}
	})
	assert.Equal(t, 1, header)
	assert.Equal(t, 1, body)
	assert.Equal(t, 2, row)
	assert.Equal(t, 4, cell)

	var tableTok int = -1
	walkBlocks(bp.arena, 0, func(tok int) {
		if bp.arena.Get(tok).Type == BlockTable {
			tableTok = tok
		}
	})
	require.NotEqual(t, -1, tableTok)
	aligns := bp.tableAligns[tableTok]
	require.Len(t, aligns, 2)
	assert.Equal(t, alignRight, aligns[0])
	assert.Equal(t, alignCenter, aligns[1])
}

func TestParseATXStripsMarkers(t *testing.T) {
	src := []byte("## Heading Text ##\n")
	lines := lexLines(src)
	bp := newBlockParser(NewArena(), src)
	bp.parseDocument(lines)

	var tok int = -1
	walkBlocks(bp.arena, 0, func(tk int) {
		if bp.arena.Get(tk).Type == BlockATXHeader {
			tok = tk
		}
	})
	require.NotEqual(t, -1, tok)
	tt := bp.arena.Get(tok)
	assert.Equal(t, 2, tt.Num)
	text := string(src[tt.Start : tt.Start+tt.Len])
	assert.NotContains(t, text, "#")
	assert.Contains(t, text, "Heading Text")
}

func TestParseDefinitionListBuildsTermAndItems(t *testing.T) {
	src := []byte("Apple\n: Pomaceous fruit.\n: Also a computer.\n")
	lines := lexLines(src)
	bp := newBlockParser(NewArena(), src)
	bp.parseDocument(lines)

	var blockTok, termTok int = -1, -1
	var items []int
	walkBlocks(bp.arena, 0, func(tok int) {
		switch bp.arena.Get(tok).Type {
		case BlockDefinitionBlock:
			blockTok = tok
		case BlockDefinitionTerm:
			termTok = tok
		case BlockDefinitionItem:
			items = append(items, tok)
		}
	})
	require.NotEqual(t, -1, blockTok)
	require.NotEqual(t, -1, termTok)
	require.Len(t, items, 2)

	termText := string(src[bp.arena.Get(termTok).Start : bp.arena.Get(termTok).Start+bp.arena.Get(termTok).Len])
	assert.Contains(t, termText, "Apple")

	first := bp.arena.Get(items[0])
	firstText := strings.TrimRight(string(src[first.Start:first.Start+first.Len]), "\n")
	assert.Equal(t, "Pomaceous fruit.", firstText)

	second := bp.arena.Get(items[1])
	secondText := strings.TrimRight(string(src[second.Start:second.Start+second.Len]), "\n")
	assert.Equal(t, "Also a computer.", secondText)

	// No BlockPara should remain for the term line; it was repurposed.
	var paras int
	walkBlocks(bp.arena, 0, func(tok int) {
		if bp.arena.Get(tok).Type == BlockPara {
			paras++
		}
	})
	assert.Equal(t, 0, paras)
}

func TestFenceLanguageCaptured(t *testing.T) {
	src := []byte("```python\nprint(1)\n```\n")
	lines := lexLines(src)
	bp := newBlockParser(NewArena(), src)
	bp.parseDocument(lines)

	var tok int = -1
	walkBlocks(bp.arena, 0, func(tk int) {
		if bp.arena.Get(tk).Type == BlockCodeFenced {
			tok = tk
		}
	})
	require.NotEqual(t, -1, tok)
	assert.Equal(t, "python", bp.fenceLang[tok])
}
