// Package clean implements the ordered library of text-transform stages.
// Each stage is a pure function over one text snapshot: it receives the
// protected ranges computed against that exact snapshot and reports whether
// it changed the text length. Stages never fail; malformed input passes
// through best-effort.
package clean

import (
	"sort"

	"github.com/dgallion1/textprep/internal/protect"
)

// Params carries per-invocation stage inputs beyond the text itself.
type Params struct {
	Cfg  Config
	Dict *Dictionary
}

// StageFunc transforms text. The returned bool reports whether the output
// length differs from the input length.
type StageFunc func(text string, prot protect.Set, p Params) (string, bool)

// Stage is one named entry in the fixed cleaning order.
type Stage struct {
	Name       string
	Structural bool
	Enabled    func(Config) bool
	Apply      StageFunc
}

// Registry returns the full stage list in its fixed execution order.
// Structural stages run before the mid-pipeline entity extraction; the rest
// consult the protected ranges derived from it.
func Registry() []Stage {
	return []Stage{
		{Name: "remove_html_tags", Structural: true, Enabled: func(c Config) bool { return c.RemoveHTMLTags }, Apply: RemoveHTML},
		{Name: "fix_encoding", Structural: true, Enabled: func(c Config) bool { return c.FixEncoding }, Apply: FixEncoding},
		{Name: "normalize_whitespace", Structural: true, Enabled: func(c Config) bool { return c.NormalizeWhitespace }, Apply: NormalizeWhitespace},
		{Name: "normalize_punctuation", Enabled: func(c Config) bool { return c.NormalizePunctuation }, Apply: NormalizePunctuation},
		{Name: "standardize_currency", Enabled: func(c Config) bool { return c.StandardizeCurrency }, Apply: StandardizeCurrency},
		{Name: "standardize_units", Enabled: func(c Config) bool { return c.StandardizeUnits }, Apply: StandardizeUnits},
		{Name: "correct_typos", Enabled: func(c Config) bool { return c.EnableTypoCorrection }, Apply: CorrectTypos},
	}
}

// StageNames returns the set of valid stage names.
func StageNames() map[string]bool {
	names := make(map[string]bool)
	for _, st := range Registry() {
		names[st.Name] = true
	}
	return names
}

// edit is one replacement computed against the stage's input snapshot.
type edit struct {
	start, end int
	repl       string
}

// applyEdits rewrites text with a set of non-overlapping edits, all indexed
// against the same input snapshot. Edits touching a protected range must be
// filtered out by the caller before this point.
func applyEdits(text string, edits []edit) (string, bool) {
	if len(edits) == 0 {
		return text, false
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var out []byte
	last := 0
	for _, e := range edits {
		if e.start < last {
			// Overlapping edit, skip it.
			continue
		}
		out = append(out, text[last:e.start]...)
		out = append(out, e.repl...)
		last = e.end
	}
	out = append(out, text[last:]...)

	result := string(out)
	return result, len(result) != len(text)
}
