// Package mmd implements the MultiMarkdown core: a byte classifier, a line
// lexer, a block parser, an inline lexer/pair-matcher/resolver, the shared
// reference and metadata tables, and a set of renderers (HTML canonical,
// LaTeX and OPML minimal) that walk the resulting token tree.
//
// The pipeline is strictly staged. Each stage consumes the product of the
// previous one and hands its own product to the next; the only state shared
// across stages is the immutable source buffer and the token tree, whose
// every node references the source by (start, len) byte offsets, plus the
// Engine's reference tables built during block parsing.
package mmd
