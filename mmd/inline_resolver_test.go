package mmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbbreviationExpandsWithTitle(t *testing.T) {
	src := "The [>HTML] standard.\n\n[>HTML]: Hyper Text Markup Language\n"
	out := renderHTML(t, src)
	assert.Contains(t, out, `<abbr title="Hyper Text Markup Language">HTML</abbr>`)
}

func TestVariableSubstitutesMetadataValue(t *testing.T) {
	src := "Version: 2.0\n\nRunning version [%version].\n"
	out := renderHTML(t, src)
	assert.Contains(t, out, "Running version 2.0.")
}

func TestUnresolvedVariableRendersLiteralPercent(t *testing.T) {
	out := renderHTML(t, "Missing [%nosuchkey] here.\n")
	assert.Contains(t, out, "%nosuchkey%")
}
