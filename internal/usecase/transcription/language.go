package transcription

import "strings"

var languageMarkers = map[string][]string{
	"es": {"el", "la", "los", "las", "una", "está", "pero", "porque", "gracias"},
	"fr": {"le", "les", "une", "est", "mais", "avec", "pour", "merci", "nous"},
	"de": {"der", "die", "das", "und", "nicht", "aber", "ist", "wir", "danke"},
}

// Checked in a fixed order so score ties always resolve the same way
var languageOrder = []string{"de", "es", "fr"}

// DetectLanguage guesses the language of a text from common-word markers.
// English is the default when nothing scores at least two hits.
func DetectLanguage(text string) string {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return "en"
	}

	bestLang := "en"
	bestScore := 1
	for _, lang := range languageOrder {
		score := 0
		for _, w := range words {
			for _, m := range languageMarkers[lang] {
				if w == m {
					score++
					break
				}
			}
		}
		if score > bestScore {
			bestLang, bestScore = lang, score
		}
	}
	return bestLang
}
