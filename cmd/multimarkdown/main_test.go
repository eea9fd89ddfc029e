package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertOneHTML(t *testing.T) {
	var out bytes.Buffer
	err := convertOne(options{to: "html"}, "doc.md", strings.NewReader("# Hi\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "<h1")
}

func TestConvertOneUnsupportedFormat(t *testing.T) {
	var out bytes.Buffer
	err := convertOne(options{to: "docx"}, "doc.md", strings.NewReader("hi\n"), &out)
	assert.Error(t, err)
}

func TestReportMetadataList(t *testing.T) {
	var out bytes.Buffer
	err := convertOne(options{to: "html", listMeta: true}, "doc.md",
		strings.NewReader("Title: Report\nAuthor: Someone\n\nbody\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "title: Report")
	assert.Contains(t, out.String(), "author: Someone")
}

func TestReportMetadataExtractSingleKey(t *testing.T) {
	var out bytes.Buffer
	err := convertOne(options{to: "html", extractMeta: "title"}, "doc.md",
		strings.NewReader("Title: Extracted\n\nbody\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "Extracted\n", out.String())
}

func TestReportMetadataExtractMissingKey(t *testing.T) {
	var out bytes.Buffer
	err := convertOne(options{to: "html", extractMeta: "nope"}, "doc.md",
		strings.NewReader("body\n"), &out)
	assert.Error(t, err)
}

func TestOutputPathFor(t *testing.T) {
	assert.Equal(t, "doc.html", outputPathFor("doc.md", "html"))
	assert.Equal(t, "doc.tex", outputPathFor("doc.md", "latex"))
	assert.Equal(t, "doc.opml", outputPathFor("doc.md", "opml"))
	assert.Equal(t, "doc.yaml", outputPathFor("doc.md", "yaml"))
	assert.Equal(t, "noext.out", outputPathFor("noext", "bogus"))
}

func TestConvertFileUsesAferoFilesystem(t *testing.T) {
	oldFs := fs
	defer func() { fs = oldFs }()
	fs = afero.NewMemMapFs()

	require.NoError(t, afero.WriteFile(fs, "in.md", []byte("# Hi\n"), 0o644))
	err := convertFile(options{to: "html", output: "out.html"}, "in.md")
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "out.html")
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h1")
}

func TestRunBatchAggregatesErrors(t *testing.T) {
	oldFs := fs
	defer func() { fs = oldFs }()
	fs = afero.NewMemMapFs()

	require.NoError(t, afero.WriteFile(fs, "good.md", []byte("ok\n"), 0o644))
	err := run(options{to: "html", batch: true, output: "-"}, []string{"good.md", "missing.md"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing.md")
}
