package mmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticKindString(t *testing.T) {
	assert.Equal(t, "unresolved-reference", DiagUnresolvedReference.String())
	assert.Equal(t, "recursion-exceeded", DiagRecursionExceeded.String())
	assert.Equal(t, "unknown", DiagnosticKind(999).String())
}

func TestNewDiagnostic(t *testing.T) {
	d := newDiagnostic(DiagInvalidURL, 12, "bad scheme")
	assert.Equal(t, "invalid-url: bad scheme", d.Error())
	assert.Nil(t, d.Cause())
}

func TestWrapDiagnosticPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	d := wrapDiagnostic(DiagUnmatchedDelimiter, 3, "unmatched", cause)
	assert.NotNil(t, d.Cause())
	assert.Contains(t, d.Cause().Error(), "boom")
}
