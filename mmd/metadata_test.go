package mmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderLevelShiftFallsBackToBase(t *testing.T) {
	rt := newReferenceTables()
	rt.AddMetadata(metaBaseHeaderLevel, "3")
	assert.Equal(t, 2, headerLevelShift(rt, metaHTMLHeaderLevel))
}

func TestHeaderLevelShiftPrefersFormatSpecific(t *testing.T) {
	rt := newReferenceTables()
	rt.AddMetadata(metaBaseHeaderLevel, "3")
	rt.AddMetadata(metaHTMLHeaderLevel, "5")
	assert.Equal(t, 4, headerLevelShift(rt, metaHTMLHeaderLevel))
}

func TestHeaderLevelShiftDefaultsToZero(t *testing.T) {
	rt := newReferenceTables()
	assert.Equal(t, 0, headerLevelShift(rt, metaHTMLHeaderLevel))
}

func TestForcesCompleteDocument(t *testing.T) {
	rt := newReferenceTables()
	assert.False(t, forcesCompleteDocument(rt))

	rt.AddMetadata(metaTitle, "Doc")
	assert.True(t, forcesCompleteDocument(rt))
}

func TestParsePositiveInt(t *testing.T) {
	n, ok := parsePositiveInt("42")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = parsePositiveInt("0")
	assert.False(t, ok)

	_, ok = parsePositiveInt("abc")
	assert.False(t, ok)
}
