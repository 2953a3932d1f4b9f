package clean

import (
	"strings"
	"unicode"

	"github.com/dgallion1/textprep/internal/protect"
)

// NormalizeWhitespace collapses every whitespace run to a single space and
// trims the ends. Single interior spaces are left alone, so the stage is a
// fixed point on already-normalized text.
func NormalizeWhitespace(text string, _ protect.Set, _ Params) (string, bool) {
	var sb strings.Builder
	sb.Grow(len(text))
	inRun := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inRun = true
			continue
		}
		if inRun && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		inRun = false
		sb.WriteRune(r)
	}
	out := sb.String()
	return out, len(out) != len(text)
}
