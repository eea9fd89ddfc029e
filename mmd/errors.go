package mmd

import "github.com/pkg/errors"

// DiagnosticKind classifies a recoverable condition encountered during
// parsing or rendering (spec.md §7). None of these are fatal; the core
// never returns a Go error from Parse/Render, only a Diagnostic slice.
type DiagnosticKind int

const (
	DiagMalformedUTF8 DiagnosticKind = iota
	DiagUnresolvedReference
	DiagUnmatchedDelimiter
	DiagInvalidURL
	DiagMalformedTableAlignment
	DiagRecursionExceeded
	DiagUnknownTokenType
	DiagUnsupportedFormat
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagMalformedUTF8:
		return "malformed-utf8"
	case DiagUnresolvedReference:
		return "unresolved-reference"
	case DiagUnmatchedDelimiter:
		return "unmatched-delimiter"
	case DiagInvalidURL:
		return "invalid-url"
	case DiagMalformedTableAlignment:
		return "malformed-table-alignment"
	case DiagRecursionExceeded:
		return "recursion-exceeded"
	case DiagUnknownTokenType:
		return "unknown-token-type"
	case DiagUnsupportedFormat:
		return "unsupported-format"
	default:
		return "unknown"
	}
}

// Diagnostic is one recoverable finding, carrying enough context for a
// driver to report it without the core ever panicking or aborting.
type Diagnostic struct {
	Kind   DiagnosticKind
	Offset int
	Detail string
	cause  error
}

func (d Diagnostic) Error() string {
	return d.Kind.String() + ": " + d.Detail
}

// Cause returns the wrapped underlying error, if any, for callers using
// github.com/pkg/errors-style error inspection.
func (d Diagnostic) Cause() error { return d.cause }

func newDiagnostic(kind DiagnosticKind, offset int, detail string) Diagnostic {
	return Diagnostic{Kind: kind, Offset: offset, Detail: detail}
}

func wrapDiagnostic(kind DiagnosticKind, offset int, detail string, cause error) Diagnostic {
	return Diagnostic{Kind: kind, Offset: offset, Detail: detail, cause: errors.Wrap(cause, detail)}
}
