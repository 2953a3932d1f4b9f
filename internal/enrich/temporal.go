package enrich

import (
	"regexp"
	"sort"
	"time"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/dgallion1/textprep/internal/article"
)

// dateISO is the output layout for resolved temporal metadata.
const dateISO = "2006-01-02"

var monthName = `(?:January|February|March|April|May|June|July|August|September|October|November|December|` +
	`Jan\.?|Feb\.?|Mar\.?|Apr\.?|Jun\.?|Jul\.?|Aug\.?|Sept?\.?|Oct\.?|Nov\.?|Dec\.?)`

// absolutePatterns locate date-like substrings; each candidate still has to
// survive a real parse before it counts.
var absolutePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	regexp.MustCompile(`\b` + monthName + `\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b`),
	regexp.MustCompile(`\b\d{1,2}(?:st|nd|rd|th)?\s+` + monthName + `\s+\d{4}\b`),
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`),
}

// DateResolver finds the date a text is about. Resolution order: the first
// parseable absolute date expression in the text, then DATE entities, then
// relative expressions ("yesterday") anchored to a reference time.
type DateResolver struct {
	w *when.Parser
}

// NewDateResolver builds a resolver with English and common relative-date
// rules. The resolver is safe for concurrent use.
func NewDateResolver() *DateResolver {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &DateResolver{w: w}
}

// Resolve returns the resolved date in ISO form, or nil when the text
// carries no usable temporal information. ref anchors relative expressions;
// it is typically the document's publication date.
func (r *DateResolver) Resolve(text string, entities []article.Entity, ref time.Time) *string {
	if t, ok := firstAbsoluteDate(text); ok {
		return isoPtr(t)
	}
	for _, e := range entities {
		if e.Type != "DATE" {
			continue
		}
		if t, err := dateparse.ParseAny(e.Text); err == nil {
			return isoPtr(t)
		}
	}
	if res, err := r.w.Parse(text, ref); err == nil && res != nil {
		return isoPtr(res.Time)
	}
	return nil
}

type dateCandidate struct {
	start int
	text  string
}

// firstAbsoluteDate scans for explicit date expressions in text order and
// parses the earliest one that is a real date.
func firstAbsoluteDate(text string) (time.Time, bool) {
	var candidates []dateCandidate
	for _, re := range absolutePatterns {
		for _, m := range re.FindAllStringIndex(text, -1) {
			candidates = append(candidates, dateCandidate{start: m[0], text: text[m[0]:m[1]]})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].start < candidates[j].start })

	for _, c := range candidates {
		if t, err := dateparse.ParseAny(c.text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isoPtr(t time.Time) *string {
	s := t.Format(dateISO)
	return &s
}
