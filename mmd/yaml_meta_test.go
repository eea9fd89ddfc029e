package mmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooksLikeYAMLFrontMatter(t *testing.T) {
	assert.True(t, looksLikeYAMLFrontMatter([]byte("---\ntitle: Doc\n---\n")))
	assert.False(t, looksLikeYAMLFrontMatter([]byte("title: Doc\n")))
}

func TestParseYAMLMetadataScalarMapping(t *testing.T) {
	block := []byte("---\ntitle: My Doc\nauthor: A Writer\n---\n")
	kvs, ok := parseYAMLMetadata(block)
	require.True(t, ok)
	got := map[string]string{}
	for _, kv := range kvs {
		got[kv.Key] = kv.Value
	}
	assert.Equal(t, "My Doc", got["title"])
	assert.Equal(t, "A Writer", got["author"])
}

func TestParseYAMLMetadataRejectsNonScalar(t *testing.T) {
	block := []byte("---\ntitle: Doc\ntags:\n  - a\n  - b\n---\n")
	_, ok := parseYAMLMetadata(block)
	assert.False(t, ok)
}

func TestClassicMetadataBlockStillWorks(t *testing.T) {
	eng := NewEngine([]byte("Title: Classic Doc\nAuthor: Someone\n\nbody text\n"))
	v, ok := eng.Refs.Meta("title")
	require.True(t, ok)
	assert.Equal(t, "Classic Doc", v)
}
