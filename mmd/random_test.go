package mmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLCGDeterministic(t *testing.T) {
	a := newLCG(42)
	b := newLCG(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestLCGDiffersBySeed(t *testing.T) {
	a := newLCG(1)
	b := newLCG(2)
	assert.NotEqual(t, a.Next(), b.Next())
}

func TestIntnBounds(t *testing.T) {
	g := newLCG(7)
	for i := 0; i < 100; i++ {
		n := g.Intn(5)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 5)
	}
	assert.Equal(t, 0, g.Intn(0))
}

func TestRandomLabelIDDeterministic(t *testing.T) {
	a := randomLabelID(10, 0)
	b := randomLabelID(10, 0)
	assert.Equal(t, a, b)
	assert.Len(t, a, 6)

	c := randomLabelID(10, 1)
	assert.NotEqual(t, a, c)
}

func TestItoaItohex(t *testing.T) {
	assert.Equal(t, "0", itoa(0))
	assert.Equal(t, "123", itoa(123))
	assert.Equal(t, "0", itohex(0))
	assert.Equal(t, "ff", itohex(255))
}
