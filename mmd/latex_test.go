package mmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func renderLatex(t *testing.T, src string, opts ...Option) string {
	t.Helper()
	eng := NewEngine([]byte(src), opts...)
	out, _ := Render(eng, NewLaTeXRenderer())
	return string(out)
}

func TestLaTeXCompleteDocument(t *testing.T) {
	out := renderLatex(t, "Title: My Paper\n\nSome *emphasis* text.\n")
	assert.Contains(t, out, "\\documentclass{article}")
	assert.Contains(t, out, "\\title{My Paper}")
	assert.Contains(t, out, "\\begin{document}")
	assert.Contains(t, out, "\\emph{emphasis}")
	assert.Contains(t, out, "\\end{document}")
}

func TestLaTeXSnippetSkipsPreamble(t *testing.T) {
	out := renderLatex(t, "plain text\n", WithExtensions(CommonExtensions|ExtSnippet))
	assert.NotContains(t, out, "\\documentclass")
}

func TestLaTeXHeaderSectioning(t *testing.T) {
	out := renderLatex(t, "# Top\n\n## Sub\n")
	assert.Contains(t, out, "\\section{Top}")
	assert.Contains(t, out, "\\subsection{Sub}")
}

func TestEscapeLatex(t *testing.T) {
	got := string(escapeLatex([]byte("100% & $5_file #1 ~x ^y \\z")))
	assert.Equal(t, `100\% \& \$5\_file \#1 \textasciitilde{}x \textasciicircum{}y \textbackslash{}z`, got)
}
