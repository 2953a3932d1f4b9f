package clean

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/textprep/internal/protect"
)

// punctMap sends typographic variants to ASCII-safe forms.
var punctMap = map[rune]string{
	'‘': "'", // left single quote
	'’': "'", // right single quote
	'‚': "'", // single low quote
	'‛': "'",
	'“': `"`, // left double quote
	'”': `"`, // right double quote
	'„': `"`, // double low quote
	'–': "-", // en dash
	'—': "-", // em dash
	'―': "-", // horizontal bar
	'…': "...",
}

// NormalizePunctuation maps typographic punctuation to canonical ASCII,
// collapses excessive terminal punctuation runs and inserts a missing space
// after sentence punctuation. Characters inside protected ranges are copied
// verbatim, so a protected span survives byte-for-byte.
func NormalizePunctuation(text string, prot protect.Set, _ Params) (string, bool) {
	var sb strings.Builder
	sb.Grow(len(text))

	i := 0
	for i < len(text) {
		if prot.Contains(i) {
			r, size := utf8.DecodeRuneInString(text[i:])
			sb.WriteRune(r)
			i += size
			continue
		}

		r, size := utf8.DecodeRuneInString(text[i:])

		if mapped, ok := punctMap[r]; ok {
			sb.WriteString(mapped)
			i += size
			if r == '…' {
				// The ellipsis now ends in a period; give it the same
				// spacing treatment.
				maybeSpaceAfter(&sb, text, i)
			}
			continue
		}

		switch r {
		case '!', '?', '.':
			// Collapse a run of the same mark beyond three. The run stops
			// at a protected boundary.
			runLen := 1
			j := i + size
			for j < len(text) && !prot.Contains(j) {
				nr, nsize := utf8.DecodeRuneInString(text[j:])
				if nr != r {
					break
				}
				runLen++
				j += nsize
			}
			keep := runLen
			if keep > 3 {
				keep = 3
			}
			for k := 0; k < keep; k++ {
				sb.WriteRune(r)
			}
			i = j
			maybeSpaceAfter(&sb, text, i)
		case ',', ';', ':':
			sb.WriteRune(r)
			i += size
			maybeSpaceAfter(&sb, text, i)
		default:
			sb.WriteRune(r)
			i += size
		}
	}

	out := sb.String()
	return out, len(out) != len(text)
}

// maybeSpaceAfter appends a space when sentence punctuation is immediately
// followed by a letter, e.g. "word.Next" becomes "word. Next". Digits are
// deliberately excluded so decimals and times stay intact.
func maybeSpaceAfter(sb *strings.Builder, text string, next int) {
	if next >= len(text) {
		return
	}
	nr, _ := utf8.DecodeRuneInString(text[next:])
	if unicode.IsLetter(nr) {
		sb.WriteByte(' ')
	}
}
