package mmd

import "bytes"

// opmlRenderer emits the document's header outline as OPML, the other leg
// proving the Renderer contract generalizes beyond prose formats
// (SPEC_FULL.md "Renderer Contract"): body text is not represented in OPML,
// only the header hierarchy with each header's plain text as its title.
type opmlRenderer struct {
	depth    int
	inHeader bool
}

// NewOPMLRenderer constructs the header-outline OPML renderer.
func NewOPMLRenderer() Renderer { return &opmlRenderer{} }

func (r *opmlRenderer) Name() string { return "opml" }

func (r *opmlRenderer) RenderHeader(out *bytes.Buffer, eng *Engine, rc *RenderContext) {
	out.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<opml version=\"2.0\">\n<head>\n")
	if title, ok := eng.Refs.Meta(metaTitle); ok {
		out.WriteString("<title>" + escapeAttrText(title) + "</title>\n")
	}
	out.WriteString("</head>\n<body>\n")
}

func (r *opmlRenderer) RenderFooter(out *bytes.Buffer, eng *Engine, rc *RenderContext) {
	for r.depth > 0 {
		out.WriteString("</outline>\n")
		r.depth--
	}
	out.WriteString("</body>\n</opml>\n")
}

// RenderNode only reacts to header blocks; every other construct is walked
// without output, and plain text is written only while a header's title is
// being collected.
func (r *opmlRenderer) RenderNode(out *bytes.Buffer, eng *Engine, rc *RenderContext, tok int, entering bool) WalkStatus {
	t := eng.Arena.Get(tok)
	if t.Type != BlockATXHeader && t.Type != BlockSetextHeader {
		if t.Type == TextPlain || t.Type == TextNumber {
			if entering && r.inHeader {
				rc.wrote(out, eng.Arena.Text(tok, eng.Source))
			}
		}
		return WalkGoToNext
	}
	if !entering {
		return WalkGoToNext
	}

	level := headerLevel(t)
	for r.depth >= level {
		out.WriteString("</outline>\n")
		r.depth--
	}
	var text bytes.Buffer
	r.inHeader = true
	for c := t.Child; c != nilTok; c = eng.Arena.Get(c).Next {
		eng.Arena.Walk(c, rc.maxRecurse, func(tt int, ent bool) WalkStatus {
			return r.RenderNode(&text, eng, rc, tt, ent)
		})
	}
	r.inHeader = false
	out.WriteString(`<outline text="` + escapeAttrText(text.String()) + `">` + "\n")
	r.depth = level
	return WalkSkipChildren
}

func escapeAttrText(s string) string { return string(escapeAttr([]byte(s))) }
