package mmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderHTML(t *testing.T, src string, opts ...Option) string {
	t.Helper()
	eng := NewEngine([]byte(src), opts...)
	out, diags := Render(eng, NewHTMLRenderer())
	for _, d := range diags {
		t.Logf("diagnostic: %s", d.Error())
	}
	return string(out)
}

func TestHTMLHeadersAndParagraph(t *testing.T) {
	out := renderHTML(t, "# Title\n\nSome *em* and **strong** text.\n")
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "Title</h1>")
	assert.Contains(t, out, "<em>em</em>")
	assert.Contains(t, out, "<strong>strong</strong>")
	assert.Contains(t, out, "<p>")
}

func TestHTMLSnippetVsComplete(t *testing.T) {
	snippet := renderHTML(t, "hello\n", WithExtensions(CommonExtensions|ExtSnippet))
	assert.NotContains(t, snippet, "<html")

	complete := renderHTML(t, "Title: Doc\nAuthor: A\n\nhello\n")
	assert.Contains(t, complete, "<html")
	assert.Contains(t, complete, "<title>Doc</title>")
}

func TestHTMLList(t *testing.T) {
	out := renderHTML(t, "- one\n- two\n- three\n")
	assert.Contains(t, out, "<ul>")
	assert.Contains(t, out, "<li>")
	assert.Equal(t, 3, strings.Count(out, "<li>"))
}

func TestHTMLTableWithAlignment(t *testing.T) {
	src := "Col A | Col B\n---: | :---:\n1 | 2\n"
	out := renderHTML(t, src)
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<colgroup>")
	assert.Contains(t, out, `<col style="text-align:right;"/>`)
	assert.Contains(t, out, `<col style="text-align:center;"/>`)
	assert.Contains(t, out, "<th")
	assert.Contains(t, out, "<td")
}

func TestHTMLDefinitionList(t *testing.T) {
	src := "Apple\n: Pomaceous fruit.\n: Also a computer.\n"
	out := renderHTML(t, src)
	assert.Contains(t, out, "<dl>")
	assert.Contains(t, out, "<dt>")
	assert.Contains(t, out, "Apple")
	assert.Contains(t, out, "</dt>")
	assert.Contains(t, out, "<dd>")
	assert.Contains(t, out, "Pomaceous fruit.")
	assert.Contains(t, out, "Also a computer.")
	assert.Contains(t, out, "</dl>")
	assert.Equal(t, 2, strings.Count(out, "<dd>"))
}

func TestHTMLCodeSpanLiteral(t *testing.T) {
	out := renderHTML(t, "Use `*not emphasis*` here.\n")
	assert.Contains(t, out, "<code>*not emphasis*</code>")
}

func TestHTMLFencedCodeBlock(t *testing.T) {
	out := renderHTML(t, "```go\nfmt.Println(1)\n```\n")
	assert.Contains(t, out, "<pre")
	assert.Contains(t, out, "fmt.Println(1)")
}

func TestHTMLLinkAndImage(t *testing.T) {
	out := renderHTML(t, "[text](http://example.com \"title\")\n\n![alt](http://example.com/img.png)\n")
	require.Contains(t, out, `href="http://example.com"`)
	assert.Contains(t, out, "title=\"title\"")
	assert.Contains(t, out, `<img src="http://example.com/img.png"`)
}

func TestHTMLFootnote(t *testing.T) {
	src := "Here is a note.[^1]\n\n[^1]: The footnote body.\n"
	out := renderHTML(t, src)
	assert.Contains(t, out, "footnote")
	assert.Contains(t, out, "The footnote body.")
	assert.Contains(t, out, `#fn:1`)
	assert.Contains(t, out, `<li id="fn:1">`)
}

func TestHTMLSmartTypography(t *testing.T) {
	out := renderHTML(t, "It's a \"test\" -- really... yes---no.\n")
	assert.Contains(t, out, "&#8217;")
	assert.Contains(t, out, "&#8220;")
	assert.Contains(t, out, "&#8221;")
	assert.Contains(t, out, "&#8230;")
	assert.Contains(t, out, "&#8212;")
}

func TestHTMLNoSmartDisablesSubstitution(t *testing.T) {
	out := renderHTML(t, "It's fine...\n", WithExtensions(ExtNotes|ExtProcessHTML))
	assert.NotContains(t, out, "&#8230;")
}

func TestHTMLCriticMarkupAcceptReject(t *testing.T) {
	src := "This is {~~old~>new~~} text.\n"
	accepted := renderHTML(t, src, WithExtensions(CommonExtensions|ExtCritic|ExtCriticAccept))
	assert.Contains(t, accepted, "new")
	assert.NotContains(t, accepted, "old")

	rejected := renderHTML(t, src, WithExtensions(CommonExtensions|ExtCritic|ExtCriticReject))
	assert.Contains(t, rejected, "old")
	assert.NotContains(t, rejected, "new")
}

func TestHTMLUniqueHeaderLabels(t *testing.T) {
	out := renderHTML(t, "# Repeat\n\nbody\n\n# Repeat\n", WithExtensions(CommonExtensions|ExtUniqueLabels))
	assert.Contains(t, out, `id="repeat"`)
	assert.Contains(t, out, `id="repeat-1"`)
}
