package mmd

// Recognized metadata keys with semantic effect during emission (§4.4).
// Unknown keys are still recorded in ReferenceTables.Metadata and passed
// through as document-level meta.
const (
	metaBaseHeaderLevel  = "baseheaderlevel"
	metaHTMLHeaderLevel  = "htmlheaderlevel"
	metaLatexHeaderLevel = "latexheaderlevel"
	metaODFHeaderLevel   = "odfheaderlevel"
	metaEPUBHeaderLevel  = "epubheaderlevel"
	metaLanguage         = "language"
	metaQuotesLanguage   = "quoteslanguage"
	metaLatexMode        = "latexmode"
	metaBibtex           = "bibtex"
	metaCSS              = "css"
	metaHTMLHeader       = "htmlheader"
	metaXHTMLHeader      = "xhtmlheader"
	metaHTMLFooter       = "htmlfooter"
	metaTitle            = "title"
	metaAuthor           = "author"
	metaDate             = "date"
	metaCopyright        = "copyright"
)

// completeDocumentKeys forces complete-document output (unless EXT_SNIPPET
// is set) whenever any of them is present in the document's metadata.
var completeDocumentKeys = map[string]bool{
	metaCSS: true, metaHTMLHeader: true, metaXHTMLHeader: true,
	metaHTMLFooter: true, metaTitle: true, metaAuthor: true,
	metaDate: true, metaCopyright: true,
}

// headerLevelShift returns the base header level to add to every ATX/setext
// level, per format, honoring the most specific key for format and falling
// back to the generic "baseheaderlevel".
func headerLevelShift(rt *ReferenceTables, formatKey string) int {
	if v, ok := rt.Meta(formatKey); ok {
		if n, ok := parsePositiveInt(v); ok {
			return n - 1
		}
	}
	if v, ok := rt.Meta(metaBaseHeaderLevel); ok {
		if n, ok := parsePositiveInt(v); ok {
			return n - 1
		}
	}
	return 0
}

func parsePositiveInt(s string) (int, bool) {
	n := 0
	if len(s) == 0 {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, n > 0
}

func forcesCompleteDocument(rt *ReferenceTables) bool {
	for _, kv := range rt.Metadata {
		if completeDocumentKeys[kv.Key] {
			return true
		}
	}
	return false
}
