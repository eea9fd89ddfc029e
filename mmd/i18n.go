package mmd

// Language selects both localized UI strings and, independently, the smart
// typography quote style (quotesLanguage may differ from language; see
// metaQuotesLanguage).
type Language int

const (
	LangEnglish Language = iota
	LangDutch
	LangFrench
	LangGerman
	LangGermanGuillemets
	LangSpanish
	LangSwedish
)

var languageByCode = map[string]Language{
	"en": LangEnglish, "nl": LangDutch, "fr": LangFrench,
	"de": LangGerman, "de-guillemets": LangGermanGuillemets,
	"es": LangSpanish, "sv": LangSwedish,
}

// LanguageFromCode maps an ISO-639-1 code to a Language, defaulting to
// English for anything unrecognized.
func LanguageFromCode(code string) Language {
	if l, ok := languageByCode[code]; ok {
		return l
	}
	return LangEnglish
}

// uiString is the small, fixed-phrase localization table (§9 "I18N
// hashing": a compile-time string hash in the original; here a plain map
// built at program start is equivalent, since Go has no benefit from
// replicating a compile-time hash for a handful of short phrases).
var uiStrings = map[string][7]string{
	// index: English, Dutch, French, German, GermanGuillemets, Spanish, Swedish
	"see-footnote": {
		"see footnote", "zie voetnoot", "voir note de bas de page",
		"siehe Fußnote", "siehe Fußnote", "véase nota al pie", "se fotnot",
	},
	"jump-to-footnote": {
		"jump to footnote", "spring naar voetnoot", "aller à la note de bas de page",
		"zur Fußnote springen", "zur Fußnote springen", "ir a la nota al pie", "hoppa till fotnot",
	},
	"table-of-contents": {
		"Table of Contents", "Inhoudsopgave", "Table des matières",
		"Inhaltsverzeichnis", "Inhaltsverzeichnis", "Índice", "Innehållsförteckning",
	},
}

func uiString(key string, lang Language) string {
	row, ok := uiStrings[key]
	if !ok {
		return ""
	}
	return row[lang]
}

// quoteGlyphs returns the four glyphs used for smart-quote substitution
// (open-double, close-double, open-single, close-single) as HTML entities,
// per language (§4.7 "Smart typography").
func quoteGlyphs(lang Language) [4]string {
	switch lang {
	case LangGerman:
		return [4]string{"&#8222;", "&#8220;", "&#8218;", "&#8216;"}
	case LangGermanGuillemets:
		return [4]string{"&#171;", "&#187;", "&#8249;", "&#8250;"}
	case LangFrench:
		return [4]string{"&#171;&#160;", "&#160;&#187;", "&#8249;", "&#8250;"}
	default:
		return [4]string{"&#8220;", "&#8221;", "&#8216;", "&#8217;"}
	}
}
