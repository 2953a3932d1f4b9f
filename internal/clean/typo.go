package clean

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/textprep/internal/protect"
)

// properNounMinLen is the length above which a capitalized token is assumed
// to be a name rather than a sentence-initial word.
const properNounMinLen = 5

// CorrectTypos replaces known misspellings with their canonical form.
// Tokens inside protected ranges, tokens containing digits, mixed-case
// tokens, and long capitalized tokens are left alone.
func CorrectTypos(text string, prot protect.Set, p Params) (string, bool) {
	dict := p.Dict
	if dict == nil || dict.Len() == 0 {
		return text, false
	}
	tc := p.Cfg.TypoCorrection
	maxLengthDelta := int((1 - tc.ConfidenceThreshold) * 10)

	var edits []edit
	for _, tok := range tokenize(text) {
		if tc.UseNEREntities && prot.Overlaps(tok.start, tok.end) {
			continue
		}
		word := text[tok.start:tok.end]
		runes := []rune(word)
		n := len(runes)
		if n < tc.MinWordLength || n > tc.MaxWordLength {
			continue
		}
		if !eligibleCase(runes, tc.SkipCapitalized) {
			continue
		}

		corr, conf, ok := dict.Lookup(strings.ToLower(word))
		if !ok || conf < tc.ConfidenceThreshold {
			continue
		}
		if delta := n - len([]rune(corr)); delta > maxLengthDelta || -delta > maxLengthDelta {
			continue
		}
		edits = append(edits, edit{start: tok.start, end: tok.end, repl: matchCase(corr, runes[0])})
	}
	if len(edits) == 0 {
		return text, false
	}
	return applyEdits(text, edits)
}

type token struct {
	start, end int
}

// tokenize returns byte ranges of word tokens. A token is a run of letters
// and digits that may contain internal apostrophes or hyphens; surrounding
// punctuation is trimmed off.
func tokenize(text string) []token {
	var toks []token
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isTokenRune(r) {
			i += size
			continue
		}
		start := i
		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if !isTokenRune(r) {
				break
			}
			i += size
		}
		if t, ok := trimToken(text, start, i); ok {
			toks = append(toks, t)
		}
	}
	return toks
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-'
}

// trimToken strips leading and trailing apostrophes and hyphens so quoted
// words ('word') and dash artifacts (-word) resolve to the bare word.
func trimToken(text string, start, end int) (token, bool) {
	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:])
		if r != '\'' && r != '-' {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[start:end])
		if r != '\'' && r != '-' {
			break
		}
		end -= size
	}
	if start >= end {
		return token{}, false
	}
	return token{start: start, end: end}, true
}

// eligibleCase reports whether a token's casing allows correction. Tokens
// with digits, uppercase beyond the first rune, or a long capitalized shape
// (a likely proper noun, when skipCapitalized is set) are excluded.
func eligibleCase(runes []rune, skipCapitalized bool) bool {
	for i, r := range runes {
		if unicode.IsDigit(r) {
			return false
		}
		if i > 0 && unicode.IsUpper(r) {
			return false
		}
	}
	if skipCapitalized && unicode.IsUpper(runes[0]) && len(runes) > properNounMinLen {
		return false
	}
	return true
}

// matchCase restores leading capitalization on the correction when the
// original token carried it.
func matchCase(corr string, first rune) string {
	if !unicode.IsUpper(first) {
		return corr
	}
	r, size := utf8.DecodeRuneInString(corr)
	if r == utf8.RuneError {
		return corr
	}
	return string(unicode.ToUpper(r)) + corr[size:]
}
