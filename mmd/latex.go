package mmd

import "bytes"

// latexRenderer proves the Renderer contract is genuinely multi-target: it
// covers paragraphs, headers, emphasis, links and code, the constructs
// common enough to exercise in every format, without chasing feature parity
// with the HTML renderer (SPEC_FULL.md "Renderer Contract").
type latexRenderer struct{}

// NewLaTeXRenderer constructs the minimal LaTeX renderer.
func NewLaTeXRenderer() Renderer { return &latexRenderer{} }

func (r *latexRenderer) Name() string { return "latex" }

func (r *latexRenderer) RenderHeader(out *bytes.Buffer, eng *Engine, rc *RenderContext) {
	if eng.Extensions.Has(ExtSnippet) {
		return
	}
	out.WriteString("\\documentclass{article}\n")
	if title, ok := eng.Refs.Meta(metaTitle); ok {
		out.WriteString("\\title{" + escapeLatex([]byte(title)) + "}\n")
	}
	if author, ok := eng.Refs.Meta(metaAuthor); ok {
		out.WriteString("\\author{" + escapeLatex([]byte(author)) + "}\n")
	}
	out.WriteString("\\begin{document}\n")
	if _, ok := eng.Refs.Meta(metaTitle); ok {
		out.WriteString("\\maketitle\n")
	}
}

func (r *latexRenderer) RenderFooter(out *bytes.Buffer, eng *Engine, rc *RenderContext) {
	if eng.Extensions.Has(ExtSnippet) {
		return
	}
	out.WriteString("\\end{document}\n")
}

var latexSectionByLevel = [...]string{"section", "subsection", "subsubsection", "paragraph", "subparagraph", "subparagraph"}

func (r *latexRenderer) RenderNode(out *bytes.Buffer, eng *Engine, rc *RenderContext, tok int, entering bool) WalkStatus {
	t := eng.Arena.Get(tok)
	switch t.Type {
	case BlockDoc, BlockMeta, BlockDefLink, BlockTOC,
		BlockDefFootnote, BlockDefCitation, BlockDefGlossary, BlockDefAbbreviation:
		return WalkSkipChildren

	case BlockPara:
		if !entering {
			rc.wrote(out, []byte("\n\n"))
		}

	case BlockATXHeader, BlockSetextHeader:
		level := headerLevel(t) + headerLevelShift(eng.Refs, metaLatexHeaderLevel)
		if level < 1 {
			level = 1
		}
		if level > len(latexSectionByLevel) {
			level = len(latexSectionByLevel)
		}
		if entering {
			rc.wrote(out, []byte("\\"+latexSectionByLevel[level-1]+"{"))
		} else {
			rc.wrote(out, []byte("}\n"))
		}

	case BlockHR:
		if entering {
			rc.wrote(out, []byte("\\par\\noindent\\hrulefill\\par\n"))
		}
		return WalkSkipChildren

	case BlockBlockquote:
		if entering {
			rc.wrote(out, []byte("\\begin{quote}\n"))
		} else {
			rc.wrote(out, []byte("\\end{quote}\n"))
		}

	case BlockCodeFenced, BlockCodeIndented:
		if entering {
			rc.wrote(out, []byte("\\begin{verbatim}\n"))
			rc.wrote(out, codeBlockContent(eng, t))
			rc.wrote(out, []byte("\n\\end{verbatim}\n"))
		}
		return WalkSkipChildren

	case BlockListBulleted, BlockListEnumerated:
		env := "itemize"
		if t.Type == BlockListEnumerated {
			env = "enumerate"
		}
		if entering {
			rc.wrote(out, []byte("\\begin{"+env+"}\n"))
		} else {
			rc.wrote(out, []byte("\\end{"+env+"}\n"))
		}

	case BlockListItem:
		if entering {
			rc.wrote(out, []byte("\\item "))
		} else {
			rc.wrote(out, []byte("\n"))
		}

	case BlockDefinitionBlock:
		if entering {
			rc.wrote(out, []byte("\\begin{description}\n"))
		} else {
			rc.wrote(out, []byte("\\end{description}\n"))
		}

	case BlockDefinitionTerm:
		if entering {
			rc.wrote(out, []byte("\\item["))
		} else {
			rc.wrote(out, []byte("] "))
		}

	case BlockDefinitionItem:
		if !entering {
			rc.wrote(out, []byte("\n"))
		}

	case BlockTable, BlockTableHeader, BlockTableBody, BlockHTML:
		return WalkSkipChildren

	case BlockTableRow:
		if !entering {
			rc.wrote(out, []byte("\\\\\n"))
		}
	case BlockTableCell:
		if !entering {
			rc.wrote(out, []byte(" & "))
		}

	case PairEmph:
		latexWrap(out, rc, entering, "\\emph{", "}")
	case PairStrong:
		latexWrap(out, rc, entering, "\\textbf{", "}")
	case PairStrike:
		latexWrap(out, rc, entering, "\\sout{", "}")
	case PairSuper:
		latexWrap(out, rc, entering, "\\textsuperscript{", "}")
	case PairSub:
		latexWrap(out, rc, entering, "\\textsubscript{", "}")

	case PairCodeSpan:
		if entering {
			rc.wrote(out, []byte("\\texttt{"))
			rc.wrote(out, escapeLatex(codeSpanContent(eng, tok)))
			rc.wrote(out, []byte("}"))
		}
		return WalkSkipChildren

	case LinkExplicit, LinkReference:
		if entering {
			payload := eng.Arena.LinkPayload(tok)
			text := textOfPair(eng.Arena, eng.Source, tok)
			rc.wrote(out, []byte("\\href{"+payload.URL+"}{"+escapeLatex([]byte(text))+"}"))
		}
		return WalkSkipChildren

	case ImageExplicit, ImageReference:
		if entering {
			payload := eng.Arena.LinkPayload(tok)
			rc.wrote(out, []byte("\\includegraphics{"+payload.URL+"}"))
		}
		return WalkSkipChildren

	case FootnoteRef:
		if entering {
			if n, ok := eng.Arena.NotePayload(tok); ok {
				rc.wrote(out, []byte("\\footnote{"))
				if n.ContentBlock != nilTok {
					for c := eng.Arena.Get(n.ContentBlock).Child; c != nilTok; c = eng.Arena.Get(c).Next {
						eng.Arena.Walk(c, rc.maxRecurse, func(tt int, ent bool) WalkStatus {
							return r.RenderNode(out, eng, rc, tt, ent)
						})
					}
				} else {
					rc.wrote(out, escapeLatex([]byte(n.CleanText)))
				}
				rc.wrote(out, []byte("}"))
			}
		}
		return WalkSkipChildren

	case TextPlain, TextNumber:
		if entering {
			rc.wrote(out, escapeLatex(eng.Arena.Text(tok, eng.Source)))
		}
		return WalkSkipChildren

	case TextNewline:
		if entering {
			rc.wrote(out, []byte(" "))
		}
		return WalkSkipChildren
	case TextLinebreak:
		if entering {
			rc.wrote(out, []byte("\\\\\n"))
		}
		return WalkSkipChildren

	default:
		if entering && t.Len > 0 {
			rc.wrote(out, escapeLatex(eng.Arena.Text(tok, eng.Source)))
		}
		return WalkSkipChildren
	}
	return WalkGoToNext
}

func latexWrap(out *bytes.Buffer, rc *RenderContext, entering bool, open, close string) {
	if entering {
		rc.wrote(out, []byte(open))
	} else {
		rc.wrote(out, []byte(close))
	}
}

func escapeLatex(b []byte) []byte {
	var out bytes.Buffer
	for _, c := range b {
		switch c {
		case '&', '%', '$', '#', '_', '{', '}':
			out.WriteByte('\\')
			out.WriteByte(c)
		case '~':
			out.WriteString("\\textasciitilde{}")
		case '^':
			out.WriteString("\\textasciicircum{}")
		case '\\':
			out.WriteString("\\textbackslash{}")
		default:
			out.WriteByte(c)
		}
	}
	return out.Bytes()
}
