package mmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPredicates(t *testing.T) {
	assert.True(t, isWhitespace(' '))
	assert.True(t, isWhitespace('\t'))
	assert.False(t, isWhitespace('a'))

	assert.True(t, isLineEnding('\n'))
	assert.True(t, isLineEnding('\r'))
	assert.False(t, isLineEnding('a'))

	assert.True(t, isPunct('!'))
	assert.True(t, isPunct('_'))
	assert.False(t, isPunct('a'))

	assert.True(t, isDigit('0'))
	assert.True(t, isDigit('9'))
	assert.False(t, isDigit('a'))

	assert.True(t, isUpper('A'))
	assert.False(t, isUpper('a'))
	assert.True(t, isLower('a'))
	assert.True(t, isAlpha('Z'))
	assert.True(t, isAlnum('7'))
	assert.True(t, isAlnum('q'))
	assert.False(t, isAlnum('-'))

	assert.True(t, isIntraword('\''))
	assert.True(t, isIntraword('-'))
	assert.False(t, isIntraword('_'))
}

func TestValidateUTF8(t *testing.T) {
	errs := validateUTF8([]byte("hello world"))
	assert.Empty(t, errs)

	bad := []byte{'a', 0xff, 'b'}
	errs = validateUTF8(bad)
	assert.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Offset)
}
