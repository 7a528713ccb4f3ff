// Package language tags entries with the language they are written in
package language

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
	log "github.com/sirupsen/logrus"
)

const minRelativeDistance = 0.25

// Detector wraps a lingua detector and reports ISO 639-1 codes
type Detector struct {
	detector  lingua.LanguageDetector
	isoCodes  map[lingua.Language]string
	minLength int
}

// NewDetector builds a detector restricted to the given ISO 639-1 codes.
// With no (known) codes every language lingua supports is a candidate.
func NewDetector(codes []string) *Detector {
	supported := getSupportedLanguages()

	candidates := isoCodesToLingua(codes, supported)
	if len(candidates) < 2 {
		if len(codes) > 0 {
			log.WithFields(log.Fields{"languages": codes}).Warn("Need at least two known languages to choose from, using all languages")
		}
		candidates = lingua.AllLanguages()
	}

	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidates...).
			WithMinimumRelativeDistance(minRelativeDistance).
			Build(),
		isoCodes:  supported,
		minLength: 10,
	}
}

// Detect returns the language code of text. Short or ambiguous texts
// yield false.
func (d *Detector) Detect(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < d.minLength {
		return "", false
	}

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}

	code := linguaToISO(lang, d.isoCodes)
	return code, code != ""
}

func linguaToISO(lang lingua.Language, languages map[lingua.Language]string) string {
	if code, ok := languages[lang]; ok {
		return code
	}
	return ""
}

func isoToLingua(code string, languages map[lingua.Language]string) (lingua.Language, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for lang, isoCode := range languages {
		if isoCode == code {
			return lang, true
		}
	}
	return lingua.Unknown, false
}

// getSupportedLanguages maps every lingua language to its ISO 639-1 code
func getSupportedLanguages() map[lingua.Language]string {
	languages := make(map[lingua.Language]string)
	for _, lang := range lingua.AllLanguages() {
		languages[lang] = strings.ToLower(lang.IsoCode639_1().String())
	}
	return languages
}

func isoCodesToLingua(codes []string, supported map[lingua.Language]string) []lingua.Language {
	linguaLanguages := []lingua.Language{}
	for _, code := range codes {
		if lang, ok := isoToLingua(code, supported); ok {
			linguaLanguages = append(linguaLanguages, lang)
		}
	}
	return linguaLanguages
}
