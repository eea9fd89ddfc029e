package mmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCriticModeFrom(t *testing.T) {
	assert.Equal(t, CriticShow, criticModeFrom(0))
	assert.Equal(t, CriticAccept, criticModeFrom(ExtCriticAccept))
	assert.Equal(t, CriticReject, criticModeFrom(ExtCriticReject))
	assert.Equal(t, CriticAccept, criticModeFrom(ExtCriticAccept|ExtCriticReject))
}

func TestCriticVisibility(t *testing.T) {
	assert.True(t, criticAddVisible(CriticShow))
	assert.True(t, criticAddVisible(CriticAccept))
	assert.False(t, criticAddVisible(CriticReject))

	assert.True(t, criticDelVisible(CriticShow))
	assert.False(t, criticDelVisible(CriticAccept))
	assert.True(t, criticDelVisible(CriticReject))

	assert.True(t, criticSubUsesNew(CriticShow))
	assert.True(t, criticSubUsesNew(CriticAccept))
	assert.False(t, criticSubUsesNew(CriticReject))
}
