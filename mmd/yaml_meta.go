package mmd

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// looksLikeYAMLFrontMatter reports whether block is delimited by a leading
// "---" line, per SPEC_FULL.md §4.4a. The metadata block extractor only
// reaches here once the block parser has already accepted the region as a
// metadata block; this is strictly an alternate inner grammar.
func looksLikeYAMLFrontMatter(block []byte) bool {
	firstLine := block
	if i := bytes.IndexByte(block, '\n'); i >= 0 {
		firstLine = block[:i]
	}
	return bytes.Equal(bytes.TrimSpace(firstLine), []byte("---"))
}

// parseYAMLMetadata decodes a "---"-delimited scalar-valued mapping into
// key/value pairs using yaml.v3. Non-scalar values (sequences, nested
// maps) make the block malformed metadata in this dialect; the caller
// (extractMetaBlock) then parses the block with the classic "key: value"
// grammar instead.
func parseYAMLMetadata(block []byte) ([]KV, bool) {
	trimmed := bytes.TrimSpace(block)
	lines := bytes.SplitN(trimmed, []byte("\n"), 2)
	if len(lines) < 2 {
		return nil, false
	}
	body := lines[1]
	if end := bytes.Index(body, []byte("\n---")); end >= 0 {
		body = body[:end]
	} else if end := bytes.Index(body, []byte("\n...")); end >= 0 {
		body = body[:end]
	}

	var raw yaml.Node
	if err := yaml.Unmarshal(body, &raw); err != nil {
		return nil, false
	}
	if raw.Kind != yaml.DocumentNode || len(raw.Content) == 0 {
		return nil, false
	}
	mapping := raw.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, false
	}

	var out []KV
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		k := mapping.Content[i]
		v := mapping.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return nil, false
		}
		out = append(out, KV{Key: k.Value, Value: v.Value})
	}
	return out, true
}
