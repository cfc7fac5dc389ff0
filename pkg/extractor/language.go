package extractor

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

var defaultLanguages = []lingua.Language{
	lingua.English,
	lingua.German,
	lingua.French,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
}

// WithLanguageDetection fills StandardInfo.Language from the title and
// description. With fewer than two languages the default set is used.
func WithLanguageDetection(languages ...lingua.Language) Option {
	return func(e *Extractor) {
		if len(languages) < 2 {
			languages = defaultLanguages
		}
		e.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build()
	}
}

func (e *Extractor) detectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	lang, ok := e.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
