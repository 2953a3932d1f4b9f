package clean

import (
	"regexp"

	"github.com/dgallion1/textprep/internal/protect"
)

// unitWords expands the fixed abbreviation table. Abbreviations not listed
// here pass through unchanged.
var unitWords = map[string]string{
	"km":  "kilometers",
	"kg":  "kilograms",
	"cm":  "centimeters",
	"lbs": "pounds",
	"ft":  "feet",
	"mi":  "miles",
	"m":   "meters",
	"g":   "grams",
}

var (
	// Longest alternatives first so "km" wins over "m".
	unitRe    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s?(lbs|km|kg|cm|ft|mi|m|g)\b`)
	percentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s?%`)
)

// StandardizeUnits rewrites abbreviated units attached to a number into
// their expanded canonical form, e.g. "5km" becomes "5 kilometers". Matches
// overlapping a protected range are skipped.
func StandardizeUnits(text string, prot protect.Set, _ Params) (string, bool) {
	var edits []edit

	for _, m := range unitRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		if prot.Overlaps(start, end) {
			continue
		}
		num := text[m[2]:m[3]]
		word := unitWords[text[m[4]:m[5]]]
		edits = append(edits, edit{start: start, end: end, repl: num + " " + word})
	}

	for _, m := range percentRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		if prot.Overlaps(start, end) {
			continue
		}
		num := text[m[2]:m[3]]
		edits = append(edits, edit{start: start, end: end, repl: num + " percent"})
	}

	return applyEdits(text, edits)
}
