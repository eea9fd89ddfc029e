package mmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTextAndLabelText(t *testing.T) {
	assert.Equal(t, "hello world", cleanText("  Hello   World  "))
	assert.Equal(t, "helloworld_1", labelText("Hello World_1"))
}

func TestNormalizeMetaKey(t *testing.T) {
	assert.Equal(t, "baseheaderlevel", normalizeMetaKey("Base Header Level"))
	assert.Equal(t, "css", normalizeMetaKey("CSS"))
}

func TestReferenceTablesFirstDefinitionWins(t *testing.T) {
	rt := newReferenceTables()
	rt.AddLink(&Link{CleanText: "example", LabelText: "example", URL: "http://first"})
	rt.AddLink(&Link{CleanText: "example", LabelText: "example", URL: "http://second"})

	l, ok := rt.LookupLink("example")
	assert.True(t, ok)
	assert.Equal(t, "http://first", l.URL)
}

func TestReferenceTablesMetadataFirstWins(t *testing.T) {
	rt := newReferenceTables()
	rt.AddMetadata("Title", "First")
	rt.AddMetadata("title", "Second")

	v, ok := rt.Meta("title")
	assert.True(t, ok)
	assert.Equal(t, "First", v)
}

func TestExtractLinkDefinition(t *testing.T) {
	eng := NewEngine([]byte("[text][ref]\n\n[ref]: http://example.com \"a title\"\n"))
	l, ok := eng.Refs.LookupLink("ref")
	assert.True(t, ok)
	assert.Equal(t, "http://example.com", l.URL)
	assert.Equal(t, "a title", l.Title)
}

func TestExtractFootnoteDefinition(t *testing.T) {
	eng := NewEngine([]byte("See note.[^note]\n\n[^note]: The explanation.\n"))
	n, ok := eng.Refs.LookupNote(PairBracketFootnote, "note")
	assert.True(t, ok)
	assert.NotEqual(t, -1, n.UsedIndex)
}

func TestExtractLinkDefinitionWithInvalidURLReportsDiagnostic(t *testing.T) {
	eng := NewEngine([]byte("[text][ref]\n\n[ref]: http://example.com/\x01bad\n"))
	l, ok := eng.Refs.LookupLink("ref")
	assert.True(t, ok)
	assert.Contains(t, l.URL, "\x01bad")

	assert.Len(t, eng.Diagnostics, 1)
	d := eng.Diagnostics[0]
	assert.Equal(t, DiagInvalidURL, d.Kind)
	assert.NotNil(t, d.Cause())
}
