// Package enrich derives metadata from cleaned text: detected language,
// resolved publication-relevant dates and reading statistics.
package enrich

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Language is a detected language code with the detector's confidence.
type Language struct {
	Code       string
	Confidence float64
}

// DetectLanguage identifies the dominant language of text as an ISO 639-3
// code. Empty text or a detection below the confidence floor yields the
// fallback code, keeping the reported confidence so callers can see how
// close the call was.
func DetectLanguage(text, fallback string, floor float64) Language {
	if strings.TrimSpace(text) == "" {
		return Language{Code: fallback}
	}
	info := whatlanggo.Detect(text)
	code := whatlanggo.LangToString(info.Lang)
	if code == "" || info.Confidence < floor {
		return Language{Code: fallback, Confidence: info.Confidence}
	}
	return Language{Code: code, Confidence: info.Confidence}
}
