package mmd

import (
	"bytes"
	"sort"
	"strconv"
)

// htmlRenderer is the canonical renderer (§4.7): it implements every
// construct the spec names, where the LaTeX and OPML renderers cover only
// enough of the Renderer contract to prove it is shared.
type htmlRenderer struct{}

// NewHTMLRenderer constructs the canonical HTML renderer.
func NewHTMLRenderer() Renderer { return &htmlRenderer{} }

func (r *htmlRenderer) Name() string { return "html" }

func wantsCompleteDocument(eng *Engine) bool {
	if eng.Extensions.Has(ExtSnippet) {
		return false
	}
	if eng.Extensions.Has(ExtComplete) {
		return true
	}
	return forcesCompleteDocument(eng.Refs)
}

func (r *htmlRenderer) RenderHeader(out *bytes.Buffer, eng *Engine, rc *RenderContext) {
	if !wantsCompleteDocument(eng) {
		return
	}
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	out.WriteString(`<meta charset="utf-8" />` + "\n")
	if title, ok := eng.Refs.Meta(metaTitle); ok {
		out.WriteString("<title>" + escapeHTML([]byte(title)) + "</title>\n")
	}
	if css, ok := eng.Refs.Meta(metaCSS); ok {
		out.WriteString(`<link rel="stylesheet" type="text/css" href="` + escapeAttr([]byte(css)) + `" />` + "\n")
	}
	if header, ok := eng.Refs.Meta(metaHTMLHeader); ok {
		out.WriteString(header + "\n")
	}
	out.WriteString("</head>\n<body>\n")
}

func (r *htmlRenderer) RenderFooter(out *bytes.Buffer, eng *Engine, rc *RenderContext) {
	renderNoteSection(out, eng, rc, r, eng.Refs.Footnotes, "footnotes", "fn")
	renderNoteSection(out, eng, rc, r, eng.Refs.Citations, "citations", "cn")
	renderNoteSection(out, eng, rc, r, eng.Refs.Glossary, "glossary", "gn")

	if !wantsCompleteDocument(eng) {
		return
	}
	if footer, ok := eng.Refs.Meta(metaHTMLFooter); ok {
		out.WriteString(footer + "\n")
	}
	out.WriteString("</body>\n</html>\n")
}

// renderNoteSection emits the back-matter list for one note kind, in
// first-use order, each item rendering its definition content through the
// same renderer with a back-reference link appended (§4.6).
func renderNoteSection(out *bytes.Buffer, eng *Engine, rc *RenderContext, r *htmlRenderer, entries []*NoteEntry, class, prefix string) {
	used := make([]*NoteEntry, 0, len(entries))
	for _, n := range entries {
		if n.UsedIndex != -1 {
			used = append(used, n)
		}
	}
	if len(used) == 0 {
		return
	}
	sort.Slice(used, func(i, j int) bool { return used[i].UsedIndex < used[j].UsedIndex })

	out.WriteString(`<div class="` + class + `">` + "\n<hr />\n<ol>\n")
	for _, n := range used {
		id := prefix + ":" + strconv.Itoa(n.UsedIndex)
		out.WriteString(`<li id="` + id + `">`)
		if n.ContentBlock != nilTok && eng.Arena.Get(n.ContentBlock).Child != nilTok {
			renderChildren(out, eng, rc, r, n.ContentBlock)
		}
		out.WriteString(` <a href="#` + id + `ref" class="reversefootnote">&#8617;</a></li>` + "\n")
	}
	out.WriteString("</ol>\n</div>\n")
}

// renderChildren re-enters RenderNode for every child of tok, writing into
// out directly; used to render note bodies and TOC entry text out of band
// from the main document walk (§9).
func renderChildren(out *bytes.Buffer, eng *Engine, rc *RenderContext, r *htmlRenderer, tok int) {
	for c := eng.Arena.Get(tok).Child; c != nilTok; c = eng.Arena.Get(c).Next {
		eng.Arena.Walk(c, rc.maxRecurse, func(t int, entering bool) WalkStatus {
			return r.RenderNode(out, eng, rc, t, entering)
		})
	}
}

func (r *htmlRenderer) RenderNode(out *bytes.Buffer, eng *Engine, rc *RenderContext, tok int, entering bool) WalkStatus {
	t := eng.Arena.Get(tok)
	switch t.Type {

	// --- structural / no output ---
	case BlockDoc, BlockMeta, BlockDefLink, BlockTOC:
		if t.Type == BlockTOC && entering {
			renderTOC(out, eng, rc, r)
		}
		return WalkSkipChildren

	case BlockDefFootnote, BlockDefCitation, BlockDefGlossary, BlockDefAbbreviation:
		return WalkSkipChildren

	// --- block containers ---
	case BlockPara:
		if entering {
			if !rc.tightListPara(eng, tok) {
				rc.pad(out, 2)
				rc.wrote(out, []byte("<p>"))
			}
		} else if !rc.tightListPara(eng, tok) {
			rc.wrote(out, []byte("</p>"))
			rc.pad(out, 1)
		}

	case BlockATXHeader, BlockSetextHeader:
		level := headerLevel(t) + headerLevelShift(eng.Refs, metaHTMLHeaderLevel)
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		tag := "h" + strconv.Itoa(level)
		if entering {
			rc.pad(out, 2)
			rc.wrote(out, []byte("<"+tag))
			if label, ok := rc.headerLabelByTok[tok]; ok && label != "" {
				rc.wrote(out, []byte(` id="`+label+`"`))
			}
			rc.wrote(out, []byte(">"))
		} else {
			rc.wrote(out, []byte("</"+tag+">"))
			rc.pad(out, 1)
		}

	case BlockHR:
		if entering {
			rc.pad(out, 2)
			rc.wrote(out, []byte("<hr />"))
			rc.pad(out, 1)
		}
		return WalkSkipChildren

	case BlockBlockquote:
		if entering {
			rc.pad(out, 2)
			rc.wrote(out, []byte("<blockquote>"))
		} else {
			rc.pad(out, 1)
			rc.wrote(out, []byte("</blockquote>"))
			rc.pad(out, 1)
		}

	case BlockCodeFenced, BlockCodeIndented:
		if entering {
			rc.pad(out, 2)
			lang := eng.FenceLang[tok]
			if t.Type == BlockCodeFenced && lang != "" {
				rc.wrote(out, []byte(`<pre><code class="language-`+escapeAttr([]byte(lang))+`">`))
			} else {
				rc.wrote(out, []byte("<pre><code>"))
			}
			content := codeBlockContent(eng, t)
			rc.wrote(out, escapeHTML(content))
			rc.wrote(out, []byte("</code></pre>"))
			rc.pad(out, 1)
		}
		return WalkSkipChildren

	case BlockHTML:
		if entering {
			rc.pad(out, 2)
			raw := eng.Arena.Text(tok, eng.Source)
			if eng.Extensions.Has(ExtProcessHTML) {
				rc.wrote(out, raw)
			} else {
				rc.wrote(out, escapeHTML(raw))
			}
			rc.pad(out, 1)
		}
		return WalkSkipChildren

	case BlockListBulleted, BlockListEnumerated:
		tag := "ul"
		if t.Type == BlockListEnumerated {
			tag = "ol"
		}
		if entering {
			rc.listTight = append(rc.listTight, t.Num == 0)
			rc.pad(out, 2)
			rc.wrote(out, []byte("<"+tag+">"))
		} else {
			rc.listTight = rc.listTight[:len(rc.listTight)-1]
			rc.pad(out, 1)
			rc.wrote(out, []byte("</"+tag+">"))
			rc.pad(out, 1)
		}

	case BlockListItem:
		if entering {
			rc.pad(out, 1)
			rc.wrote(out, []byte("<li>"))
		} else {
			rc.wrote(out, []byte("</li>"))
			rc.pad(out, 1)
		}

	case BlockDefinitionBlock:
		if entering {
			rc.pad(out, 2)
			rc.wrote(out, []byte("<dl>"))
		} else {
			rc.pad(out, 1)
			rc.wrote(out, []byte("</dl>"))
			rc.pad(out, 1)
		}

	case BlockDefinitionTerm:
		if entering {
			rc.pad(out, 1)
			rc.wrote(out, []byte("<dt>"))
		} else {
			rc.wrote(out, []byte("</dt>"))
			rc.pad(out, 1)
		}

	case BlockDefinitionItem:
		if entering {
			rc.pad(out, 1)
			rc.wrote(out, []byte("<dd>"))
		} else {
			rc.wrote(out, []byte("</dd>"))
			rc.pad(out, 1)
		}

	case BlockTable:
		if entering {
			rc.tableAligns = eng.TableAligns[tok]
			rc.pad(out, 2)
			rc.wrote(out, []byte("<table>"))
			rc.wrote(out, renderColgroup(rc.tableAligns))
		} else {
			rc.tableAligns = nil
			rc.wrote(out, []byte("</table>"))
			rc.pad(out, 1)
		}

	case BlockTableHeader:
		if entering {
			rc.inTableHeader = true
			rc.wrote(out, []byte("<thead>"))
		} else {
			rc.inTableHeader = false
			rc.wrote(out, []byte("</thead>"))
		}

	case BlockTableBody:
		if entering {
			rc.wrote(out, []byte("<tbody>"))
		} else {
			rc.wrote(out, []byte("</tbody>"))
		}

	case BlockTableRow:
		if entering {
			rc.wrote(out, []byte("<tr>"))
		} else {
			rc.wrote(out, []byte("</tr>"))
		}

	case BlockTableCell:
		cellTag := "td"
		if rc.inTableHeader {
			cellTag = "th"
		}
		if entering {
			rc.wrote(out, []byte("<"+cellTag+">"))
		} else {
			rc.wrote(out, []byte("</"+cellTag+">"))
		}

	// --- inline containers ---
	case PairEmph:
		wrapInline(out, rc, entering, "em")
	case PairStrong:
		wrapInline(out, rc, entering, "strong")
	case PairStrike:
		wrapInline(out, rc, entering, "del")
	case PairSuper:
		wrapInline(out, rc, entering, "sup")
	case PairSub:
		wrapInline(out, rc, entering, "sub")

	case PairCodeSpan:
		if entering {
			content := codeSpanContent(eng, tok)
			rc.wrote(out, []byte("<code>"))
			rc.wrote(out, escapeHTML(content))
			rc.wrote(out, []byte("</code>"))
		}
		return WalkSkipChildren

	case PairCriticAdd:
		if entering {
			if !criticAddVisible(rc.criticMode) {
				return WalkSkipChildren
			}
			if rc.criticMode == CriticShow {
				rc.wrote(out, []byte("<ins>"))
			}
		} else if criticAddVisible(rc.criticMode) && rc.criticMode == CriticShow {
			rc.wrote(out, []byte("</ins>"))
		}

	case PairCriticDel:
		if entering {
			if !criticDelVisible(rc.criticMode) {
				return WalkSkipChildren
			}
			if rc.criticMode == CriticShow {
				rc.wrote(out, []byte("<del>"))
			}
		} else if criticDelVisible(rc.criticMode) && rc.criticMode == CriticShow {
			rc.wrote(out, []byte("</del>"))
		}

	case PairCriticHighlight:
		wrapInline(out, rc, entering, "mark")

	case PairCriticComment:
		return WalkSkipChildren

	case PairCriticSub:
		if entering {
			renderCriticSub(out, eng, rc, r, tok)
		}
		return WalkSkipChildren

	case LinkExplicit, LinkReference:
		if entering {
			payload := eng.Arena.LinkPayload(tok)
			rc.wrote(out, []byte(`<a href="`+escapeAttr([]byte(payload.URL))+`"`))
			if payload.Title != "" {
				rc.wrote(out, []byte(` title="`+escapeAttr([]byte(payload.Title))+`"`))
			}
			rc.wrote(out, []byte(">"))
		} else {
			rc.wrote(out, []byte("</a>"))
		}

	case ImageExplicit, ImageReference:
		if entering {
			payload := eng.Arena.LinkPayload(tok)
			alt := textOfPair(eng.Arena, eng.Source, tok)
			rc.wrote(out, []byte(`<img src="`+escapeAttr([]byte(payload.URL))+`" alt="`+escapeAttr([]byte(alt))+`"`))
			if payload.Title != "" {
				rc.wrote(out, []byte(` title="`+escapeAttr([]byte(payload.Title))+`"`))
			}
			rc.wrote(out, []byte(" />"))
		}
		return WalkSkipChildren

	case FootnoteRef:
		if entering {
			renderNoteRef(out, rc, t.Num, "fn")
		}
		return WalkSkipChildren

	case CitationRef:
		if entering {
			renderNoteRef(out, rc, t.Num, "cn")
		}
		return WalkSkipChildren

	case GlossaryRef:
		if entering {
			renderNoteRef(out, rc, t.Num, "gn")
		}
		return WalkSkipChildren

	case AbbreviationRef:
		if entering {
			short := textOfPair(eng.Arena, eng.Source, tok)
			title := ""
			if n, ok := eng.Arena.NotePayload(tok); ok {
				title = n.Expansion
			}
			rc.wrote(out, []byte(`<abbr title="`+escapeAttr([]byte(title))+`">`+escapeHTML([]byte(short))+"</abbr>"))
		}
		return WalkSkipChildren

	case VariableRef:
		if entering {
			if v, ok := eng.Arena.VarPayload(tok); ok {
				rc.wrote(out, escapeHTML([]byte(v)))
			} else {
				rc.wrote(out, []byte("%"+textOfPair(eng.Arena, eng.Source, tok)+"%"))
			}
		}
		return WalkSkipChildren

	// --- leaf text ---
	case TextPlain, TextNumber:
		if entering {
			rc.wrote(out, escapeHTML(eng.Arena.Text(tok, eng.Source)))
		}
		return WalkSkipChildren

	case TextBackslashEscape:
		if entering {
			raw := eng.Arena.Text(tok, eng.Source)
			if len(raw) == 2 {
				rc.wrote(out, escapeHTML(raw[1:2]))
			}
		}
		return WalkSkipChildren

	case TextHTMLEntity:
		if entering {
			raw := eng.Arena.Text(tok, eng.Source)
			if len(raw) > 1 {
				rc.wrote(out, raw)
			} else {
				rc.wrote(out, []byte("&amp;"))
			}
		}
		return WalkSkipChildren

	case TextHTMLTag, TextHTMLComment:
		if entering {
			raw := eng.Arena.Text(tok, eng.Source)
			if eng.Extensions.Has(ExtProcessHTML) {
				rc.wrote(out, raw)
			} else {
				rc.wrote(out, escapeHTML(raw))
			}
		}
		return WalkSkipChildren

	case TextDashN:
		if entering {
			emitSmartOrLiteral(out, eng, rc, tok, "--")
		}
		return WalkSkipChildren
	case TextDashM:
		if entering {
			emitSmartOrLiteral(out, eng, rc, tok, "---")
		}
		return WalkSkipChildren
	case TextEllipsis:
		if entering {
			emitSmartOrLiteral(out, eng, rc, tok, "...")
		}
		return WalkSkipChildren
	case TextApostrophe:
		if entering {
			emitSmartOrLiteral(out, eng, rc, tok, "'")
		}
		return WalkSkipChildren
	case TextQuoteDouble:
		if entering {
			emitSmartOrLiteral(out, eng, rc, tok, "&quot;")
		}
		return WalkSkipChildren

	case TextNewline:
		if entering {
			rc.wrote(out, []byte("\n"))
		}
		return WalkSkipChildren
	case TextLinebreak:
		if entering {
			rc.wrote(out, []byte("<br />\n"))
		}
		return WalkSkipChildren

	default:
		// Anything not explicitly handled -- unmatched delimiters left in
		// the tree as plain tokens, and any token kind this renderer hasn't
		// been taught about -- degrades to its literal escaped source text
		// rather than panicking (§7).
		if entering {
			if t.Len > 0 {
				rc.wrote(out, escapeHTML(eng.Arena.Text(tok, eng.Source)))
			} else {
				rc.diag(DiagUnknownTokenType, t.Start, "no renderer case for token type")
			}
		}
		return WalkSkipChildren
	}
	return WalkGoToNext
}

func wrapInline(out *bytes.Buffer, rc *RenderContext, entering bool, tag string) {
	if entering {
		rc.wrote(out, []byte("<"+tag+">"))
	} else {
		rc.wrote(out, []byte("</"+tag+">"))
	}
}

// tightListPara reports whether tok, a BlockPara, sits directly inside a
// tight list item and should therefore render without a <p> wrapper (§4.3).
func (rc *RenderContext) tightListPara(eng *Engine, tok int) bool {
	if len(rc.listTight) == 0 {
		return false
	}
	parent := eng.Arena.Get(tok).Parent
	if parent == nilTok || eng.Arena.Get(parent).Type != BlockListItem {
		return false
	}
	return rc.listTight[len(rc.listTight)-1]
}

func renderNoteRef(out *bytes.Buffer, rc *RenderContext, index int, prefix string) {
	id := prefix + ":" + strconv.Itoa(index)
	rc.wrote(out, []byte(`<a href="#`+id+`" id="`+id+`ref" class="`+prefix+`ref"><sup>`+strconv.Itoa(index)+`</sup></a>`))
}

// renderColgroup builds the <colgroup> listing one <col> per table column,
// carrying that column's alignment as an inline style (§8 scenario 5);
// columns with no declared alignment get a bare <col/>. Returns nil when no
// column in aligns has an alignment, so tables without a separator-row
// alignment marker don't grow an empty <colgroup></colgroup>.
func renderColgroup(aligns []tableAlign) []byte {
	if len(aligns) == 0 {
		return nil
	}
	any := false
	for _, a := range aligns {
		if a != alignDefault {
			any = true
			break
		}
	}
	if !any {
		return nil
	}
	var b bytes.Buffer
	b.WriteString("<colgroup>\n")
	for _, a := range aligns {
		if attr := colAttr(a); attr != "" {
			b.WriteString(`<col style="` + attr + `"/>` + "\n")
		} else {
			b.WriteString("<col/>\n")
		}
	}
	b.WriteString("</colgroup>\n")
	return b.Bytes()
}

func colAttr(a tableAlign) string {
	switch a {
	case alignLeft:
		return "text-align:left;"
	case alignRight:
		return "text-align:right;"
	case alignCenter:
		return "text-align:center;"
	default:
		return ""
	}
}

func emitSmartOrLiteral(out *bytes.Buffer, eng *Engine, rc *RenderContext, tok int, literal string) {
	if eng.Extensions.Has(ExtSmart) {
		if sub, ok := smartSubstitute(eng, tok); ok {
			rc.wrote(out, []byte(sub))
			return
		}
	}
	rc.wrote(out, []byte(literal))
}

// codeBlockContent extracts a fenced or indented code block's literal body,
// stripping the surrounding fence lines or per-line indentation (§4.3).
func codeBlockContent(eng *Engine, t *Token) []byte {
	raw := eng.Source[t.Start : t.Start+t.Len]
	if t.Type == BlockCodeFenced {
		nl := bytes.IndexByte(raw, '\n')
		if nl < 0 {
			return nil
		}
		body := raw[nl+1:]
		if lastNL := bytes.LastIndexByte(bytes.TrimRight(body, "\n"), '\n'); lastNL >= 0 {
			return body[:lastNL+1]
		}
		// single-line fence body with a closing fence line following
		if end := bytes.LastIndexByte(body, '\n'); end >= 0 {
			return body[:end]
		}
		return nil
	}
	var b bytes.Buffer
	for _, line := range bytes.Split(raw, []byte("\n")) {
		b.Write(stripCodeIndent(line))
		b.WriteByte('\n')
	}
	return bytes.TrimSuffix(b.Bytes(), []byte("\n"))
}

func stripCodeIndent(line []byte) []byte {
	if len(line) > 0 && line[0] == '\t' {
		return line[1:]
	}
	n := 0
	for n < len(line) && n < 4 && line[n] == ' ' {
		n++
	}
	return line[n:]
}

// codeSpanContent returns the literal text strictly between a code span's
// backtick delimiters, trimming one leading/trailing space the way
// `` `x` `` lets a backtick itself appear inside the span (§4.5).
func codeSpanContent(eng *Engine, pair int) []byte {
	open := eng.Arena.DelimOpen(pair)
	closeTok := eng.Arena.DelimClose(pair)
	o := eng.Arena.Get(open)
	c := eng.Arena.Get(closeTok)
	content := eng.Source[o.Start+o.Len : c.Start]
	if len(content) >= 2 && content[0] == ' ' && content[len(content)-1] == ' ' {
		content = content[1 : len(content)-1]
	}
	return content
}

// renderCriticSub splits a {~~old~>new~~} substitution's children at the
// divider token and renders the half (or both, in Show mode) that the
// active CriticMode selects (§4.7 "CriticMarkup").
func renderCriticSub(out *bytes.Buffer, eng *Engine, rc *RenderContext, r *htmlRenderer, pair int) {
	var divider int = nilTok
	for c := eng.Arena.Get(pair).Child; c != nilTok; c = eng.Arena.Get(c).Next {
		if eng.Arena.Get(c).Type == CriticSubDivider {
			divider = c
			break
		}
	}
	renderHalf := func(from, to int) {
		for c := from; c != nilTok && c != to; c = eng.Arena.Get(c).Next {
			eng.Arena.Walk(c, rc.maxRecurse, func(t int, entering bool) WalkStatus {
				return r.RenderNode(out, eng, rc, t, entering)
			})
		}
	}
	first := eng.Arena.Get(pair).Child
	switch rc.criticMode {
	case CriticReject:
		renderHalf(first, divider)
	case CriticAccept:
		if divider != nilTok {
			renderHalf(eng.Arena.Get(divider).Next, nilTok)
		}
	default:
		rc.wrote(out, []byte("<del>"))
		renderHalf(first, divider)
		rc.wrote(out, []byte("</del><ins>"))
		if divider != nilTok {
			renderHalf(eng.Arena.Get(divider).Next, nilTok)
		}
		rc.wrote(out, []byte("</ins>"))
	}
}

// renderTOC emits a nested list of every labeled header, grouped by level
// (§4.4 "Table of contents").
func renderTOC(out *bytes.Buffer, eng *Engine, rc *RenderContext, r *htmlRenderer) {
	labels := eng.Refs.headerLabels
	if len(labels) == 0 {
		return
	}
	rc.wrote(out, []byte(`<div class="toc">` + "\n<ul>\n"))
	depth := 0
	base := labels[0].Level
	for _, hl := range labels {
		level := hl.Level - base
		for depth < level {
			rc.wrote(out, []byte("<ul>\n"))
			depth++
		}
		for depth > level {
			rc.wrote(out, []byte("</ul>\n"))
			depth--
		}
		var text bytes.Buffer
		renderChildren(&text, eng, rc, r, hl.Tok)
		rc.wrote(out, []byte(`<li><a href="#`+hl.Label+`">`+text.String()+"</a></li>\n"))
	}
	for depth > 0 {
		rc.wrote(out, []byte("</ul>\n"))
		depth--
	}
	rc.wrote(out, []byte("</ul>\n</div>\n"))
}

func escapeHTML(b []byte) []byte {
	var out bytes.Buffer
	for _, c := range b {
		switch c {
		case '&':
			out.WriteString("&amp;")
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		default:
			out.WriteByte(c)
		}
	}
	return out.Bytes()
}

func escapeAttr(b []byte) []byte {
	var out bytes.Buffer
	for _, c := range b {
		switch c {
		case '&':
			out.WriteString("&amp;")
		case '"':
			out.WriteString("&quot;")
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		default:
			out.WriteByte(c)
		}
	}
	return out.Bytes()
}
