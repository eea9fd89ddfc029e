package mmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtensionsHas(t *testing.T) {
	e := ExtSmart | ExtNotes
	assert.True(t, e.Has(ExtSmart))
	assert.True(t, e.Has(ExtNotes))
	assert.True(t, e.Has(ExtSmart|ExtNotes))
	assert.False(t, e.Has(ExtCritic))
}

func TestCommonExtensionsDefaults(t *testing.T) {
	assert.True(t, CommonExtensions.Has(ExtNotes))
	assert.True(t, CommonExtensions.Has(ExtSmart))
	assert.True(t, CommonExtensions.Has(ExtProcessHTML))
	assert.False(t, CommonExtensions.Has(ExtCompatibility))
}
