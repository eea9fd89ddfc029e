package mmd

import (
	"bytes"
	"io"
)

// WalkStatus is the dispositon a NodeVisitor returns to the tree walker,
// mirroring the pack's fuller blackfriday snapshot's Node.Walk contract.
type WalkStatus int

const (
	WalkGoToNext WalkStatus = iota
	WalkSkipChildren
	WalkTerminate
)

// NodeVisitor is called for every token with entering=true and, unless
// that call returned WalkSkipChildren, again with entering=false after its
// children (if any) have been walked, per §4.7/§9.
type NodeVisitor func(tok int, entering bool) WalkStatus

// Walk performs a depth-first walk of tok's subtree, bounded by maxDepth
// (§5 "Bounded stack"): beyond it, the walk stops descending into further
// children silently, per spec.md §4.7/§7 "Recursion depth exceeded".
func (a *Arena) Walk(tok int, maxDepth int, visit NodeVisitor) WalkStatus {
	return a.walk(tok, 0, maxDepth, visit)
}

func (a *Arena) walk(tok, depth, maxDepth int, visit NodeVisitor) WalkStatus {
	if depth > maxDepth {
		return WalkSkipChildren
	}
	hasChildren := a.Get(tok).Child != nilTok
	status := visit(tok, true)
	switch status {
	case WalkTerminate:
		return status
	case WalkSkipChildren:
		hasChildren = false
	}
	if hasChildren {
		for c := a.Get(tok).Child; c != nilTok; c = a.Get(c).Next {
			if a.walk(c, depth+1, maxDepth, visit) == WalkTerminate {
				return WalkTerminate
			}
		}
	}
	if status != WalkSkipChildren {
		if visit(tok, false) == WalkTerminate {
			return WalkTerminate
		}
	}
	return WalkGoToNext
}

// Renderer is the shared multi-target contract every emitter implements
// (SPEC_FULL.md "Renderer Contract"): one entry point consulting the
// Engine's reference tables through a fresh RenderContext per call.
type Renderer interface {
	// Name identifies the renderer for CLI -t/--to dispatch and for
	// fenced raw-filter format matching ({=format}, §4.7).
	Name() string

	RenderHeader(out *bytes.Buffer, eng *Engine, rc *RenderContext)
	RenderNode(out *bytes.Buffer, eng *Engine, rc *RenderContext, tok int, entering bool) WalkStatus
	RenderFooter(out *bytes.Buffer, eng *Engine, rc *RenderContext)
}

// Render walks eng's token tree with r, returning the rendered bytes and
// any diagnostics accumulated along the way. It never panics: unknown
// token types and malformed structures degrade to warnings/literal text
// per §7.
func Render(eng *Engine, r Renderer) ([]byte, []Diagnostic) {
	rc := newRenderContext(eng)
	var out bytes.Buffer

	r.RenderHeader(&out, eng, rc)
	eng.Arena.Walk(eng.Root, defaultMaxRecursionDepth, func(tok int, entering bool) WalkStatus {
		return r.RenderNode(&out, eng, rc, tok, entering)
	})
	r.RenderFooter(&out, eng, rc)

	return out.Bytes(), rc.Diagnostics
}

// WriteTo is a convenience wrapper over Render for callers that already
// hold an io.Writer (e.g. the CLI driver writing directly to a file).
func WriteTo(w io.Writer, eng *Engine, r Renderer) ([]Diagnostic, error) {
	b, diags := Render(eng, r)
	_, err := w.Write(b)
	return diags, err
}
