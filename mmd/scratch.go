package mmd

import "bytes"

// RenderContext is the per-emit mutable state the spec calls the "scratch
// pad" (§3, §9): constructed fresh for every Render call and discarded at
// its end, holding references into the Engine's owned tables without
// taking ownership of them. Re-running Render against the same Engine
// twice must produce byte-identical output (§8 "Rendering is
// deterministic"); nothing here mutates the token tree to get that
// property (§9's "Open question" is resolved by keeping suppression state
// here, not on tokens).
type RenderContext struct {
	eng *Engine

	padCounter int
	listTight  []bool // stack; top is innermost list's tightness

	skipTokens int // handler-set "consume the next N siblings"

	inTableHeader bool
	tableAligns   []tableAlign

	recurseDepth int
	maxRecurse   int

	usedFootnotes     []*NoteEntry
	usedCitations     []*NoteEntry
	usedGlossary      []*NoteEntry
	inlineDefsToFree  []*NoteEntry

	// suppressChildren marks a pair token whose delimiter children should
	// be elided at render time without mutating the token itself (§9).
	suppressChildren map[int]bool

	emailLCG *lcg

	headerLabelByTok map[int]string
	criticMode       CriticMode

	Diagnostics []Diagnostic
}

type tableAlign int

const (
	alignDefault tableAlign = iota
	alignLeft
	alignRight
	alignCenter
)

func newRenderContext(eng *Engine) *RenderContext {
	labels := make(map[int]string, len(eng.Refs.headerLabels))
	for _, hl := range eng.Refs.headerLabels {
		labels[hl.Tok] = hl.Label
	}
	return &RenderContext{
		eng:              eng,
		maxRecurse:       defaultMaxRecursionDepth,
		suppressChildren: map[int]bool{},
		emailLCG:         newLCG(eng.randomSeedBaseEmail),
		headerLabelByTok: labels,
		criticMode:       criticModeFrom(eng.Extensions),
	}
}

// pad guarantees at least n newlines precede the next write to out. The
// padding counter resets to 0 after any non-newline write (§4.7).
func (rc *RenderContext) pad(out *bytes.Buffer, n int) {
	for rc.padCounter < n {
		out.WriteByte('\n')
		rc.padCounter++
	}
}

func (rc *RenderContext) wrote(out *bytes.Buffer, b []byte) {
	if len(b) == 0 {
		return
	}
	out.Write(b)
	rc.padCounter = 0
}

func (rc *RenderContext) writeByte(out *bytes.Buffer, b byte) {
	out.WriteByte(b)
	rc.padCounter = 0
}

func (rc *RenderContext) writeString(out *bytes.Buffer, s string) {
	if s == "" {
		return
	}
	out.WriteString(s)
	rc.padCounter = 0
}

// enterRecursion reports whether descent may continue; beyond maxRecurse
// the caller must stop silently (§4.7, §5 "Bounded stack").
func (rc *RenderContext) enterRecursion() bool {
	rc.recurseDepth++
	if rc.recurseDepth > rc.maxRecurse {
		rc.diag(DiagRecursionExceeded, 0, "recursion depth exceeded")
		return false
	}
	return true
}

func (rc *RenderContext) exitRecursion() { rc.recurseDepth-- }

func (rc *RenderContext) diag(kind DiagnosticKind, offset int, detail string) {
	rc.Diagnostics = append(rc.Diagnostics, newDiagnostic(kind, offset, detail))
}

func (rc *RenderContext) suppress(tok int) { rc.suppressChildren[tok] = true }

func (rc *RenderContext) isSuppressed(tok int) bool { return rc.suppressChildren[tok] }
