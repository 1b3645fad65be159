package normalize

import (
	"strings"
	"unicode"

	"github.com/ppiankov/tripparse/internal/model"
)

// maxLatinShareHindi is the Latin letter share up to which Devanagari text stays "hindi"
const maxLatinShareHindi = 0.10

// minHinglishMarkers is the number of distinct marker tokens that flags Latin text as Hinglish
const minHinglishMarkers = 2

// DetectLang classifies text by script composition and Hinglish marker tokens
func DetectLang(text string, markers map[string]struct{}) model.LangMix {
	devanagari, latin := 0, 0
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Devanagari, r) && !unicode.IsDigit(r) && !unicode.IsPunct(r):
			devanagari++
		case unicode.Is(unicode.Latin, r) && unicode.IsLetter(r):
			latin++
		}
	}

	if devanagari > 0 {
		share := float64(latin) / float64(devanagari+latin)
		if share <= maxLatinShareHindi {
			return model.LangHindi
		}
		return model.LangMixed
	}

	if countMarkers(text, markers) >= minHinglishMarkers {
		return model.LangHinglish
	}
	return model.LangEnglish
}

func countMarkers(text string, markers map[string]struct{}) int {
	if len(markers) == 0 {
		return 0
	}
	seen := make(map[string]struct{})
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, tok := range tokens {
		if _, ok := markers[tok]; ok {
			seen[tok] = struct{}{}
		}
	}
	return len(seen)
}
