package catalog

import "maps"

// Language codes used as keys of every localized name mapping.
const (
	LangEN = "en"
	LangJP = "jp"
	LangES = "es"
	LangFR = "fr"
	LangDE = "de"
	LangIT = "it"
	LangKO = "ko"
	LangZH = "zh"
	LangNL = "nl"
	LangRU = "ru"
)

// Languages is the fixed, ordered set of supported language codes.
var Languages = []string{LangEN, LangJP, LangES, LangFR, LangDE, LangIT, LangKO, LangZH, LangNL, LangRU}

// TranslatedLanguages are the codes enrichment may fill in; English comes from
// the primary source and is never overwritten.
var TranslatedLanguages = Languages[1:]

// Names maps a language code to a display string.
type Names map[string]string

// EmptySkeleton returns a name mapping with every language present and the
// non-English slots set to "".
func EmptySkeleton(en string) Names {
	names := make(Names, len(Languages))
	for _, lang := range Languages {
		names[lang] = ""
	}
	names[LangEN] = en
	return names
}

// EnglishOnly returns a name mapping holding only the English slot; the other
// languages are absent until enrichment fills them.
func EnglishOnly(en string) Names {
	return Names{LangEN: en}
}

// English returns the English display name.
func (n Names) English() string { return n[LangEN] }

// Clone returns an independent copy of n.
func (n Names) Clone() Names {
	if n == nil {
		return Names{}
	}
	return maps.Clone(n)
}

// Equal reports whether both mappings hold exactly the same keys and values.
func (n Names) Equal(other Names) bool {
	return maps.Equal(n, other)
}

// HasTranslation reports whether at least one non-English slot is non-empty.
func (n Names) HasTranslation() bool {
	for _, lang := range TranslatedLanguages {
		if n[lang] != "" {
			return true
		}
	}
	return false
}
