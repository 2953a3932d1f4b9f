package clean

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/textprep/internal/protect"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// mojibakeMarkers are byte sequences typical of UTF-8 text that was decoded
// as Windows-1252 somewhere upstream.
var mojibakeMarkers = []string{"Ã", "â€", "Â", "ï»¿", "ðŸ"}

// FixEncoding repairs mis-decoded byte sequences, replaces control
// characters with spaces and normalizes the result to NFC. When no repair is
// confidently identifiable the text passes through with only the control and
// NFC passes applied.
func FixEncoding(text string, _ protect.Set, _ Params) (string, bool) {
	out := text
	if countMarkers(out) > 0 {
		if repaired, ok := repairMojibake(out); ok {
			out = repaired
		}
	}
	out = stripControl(out)
	out = norm.NFC.String(out)
	return out, len(out) != len(text)
}

func countMarkers(s string) int {
	n := 0
	for _, m := range mojibakeMarkers {
		n += strings.Count(s, m)
	}
	return n
}

// repairMojibake re-encodes the text as Windows-1252 bytes and re-reads them
// as UTF-8. The repair is accepted only when every rune maps back to a
// single byte, the resulting bytes are valid UTF-8 and the marker count
// drops; otherwise the caller keeps the original.
func repairMojibake(s string) (string, bool) {
	encoded, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil {
		return "", false
	}
	if !utf8.ValidString(encoded) {
		return "", false
	}
	if countMarkers(encoded) >= countMarkers(s) {
		return "", false
	}
	return encoded, true
}

func stripControl(s string) string {
	var sb strings.Builder
	changed := false
	for _, r := range s {
		if r == utf8.RuneError || (unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r') {
			sb.WriteByte(' ')
			changed = true
			continue
		}
		sb.WriteRune(r)
	}
	if !changed {
		return s
	}
	return sb.String()
}
