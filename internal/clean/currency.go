package clean

import (
	"regexp"

	"github.com/dgallion1/textprep/internal/protect"
)

// amount matches a number with optional thousands separators and decimals.
const amount = `(\d+(?:,\d{3})*(?:\.\d+)?)`

// currencyRule rewrites one symbol. An empty code means "use the configured
// primary currency" for symbols shared by several currencies.
type currencyRule struct {
	code   string
	suffix bool
	re     *regexp.Regexp
}

var currencyRules = []currencyRule{
	{code: "", re: regexp.MustCompile(`\$\s?` + amount)},          // $, code from config
	{code: "EUR", suffix: true, re: regexp.MustCompile(`€\s?` + amount)},
	{code: "GBP", re: regexp.MustCompile(`£\s?` + amount)},
	{code: "JPY", re: regexp.MustCompile(`¥\s?` + amount)},
	{code: "INR", re: regexp.MustCompile(`₹\s?` + amount)},
}

// StandardizeCurrency rewrites symbol-and-number patterns to "CODE amount"
// (or "amount CODE" where the convention is a trailing code). All matches
// are located against the input snapshot first, then applied in one pass;
// matches overlapping a protected range are left untouched.
func StandardizeCurrency(text string, prot protect.Set, p Params) (string, bool) {
	var edits []edit
	for _, rule := range currencyRules {
		code := rule.code
		if code == "" {
			code = p.Cfg.PrimaryCurrency
		}
		for _, m := range rule.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[0], m[1]
			if prot.Overlaps(start, end) {
				continue
			}
			amt := text[m[2]:m[3]]
			repl := code + " " + amt
			if rule.suffix {
				repl = amt + " " + code
			}
			edits = append(edits, edit{start: start, end: end, repl: repl})
		}
	}
	return applyEdits(text, edits)
}
