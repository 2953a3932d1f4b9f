package ner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/textprep/internal/article"
)

// Lexicon is a gazetteer extractor: a fixed table of known entity names per
// type, matched case-sensitively on word boundaries. It is the default
// backend when no model server is configured and it never fails.
type Lexicon struct {
	names []lexiconName
}

type lexiconName struct {
	text string
	typ  string
}

type lexiconFile struct {
	Entities map[string][]string `yaml:"entities"`
}

// NewLexicon builds a gazetteer from a type-to-names table.
func NewLexicon(entities map[string][]string) *Lexicon {
	var names []lexiconName
	for typ, list := range entities {
		typ = strings.ToUpper(strings.TrimSpace(typ))
		if typ == "" {
			continue
		}
		for _, n := range list {
			n = strings.TrimSpace(n)
			if n == "" {
				continue
			}
			names = append(names, lexiconName{text: n, typ: typ})
		}
	}
	// Longest first so "New York City" wins over "New York"; ties break on
	// text then type to keep matching deterministic across map iteration.
	sort.Slice(names, func(i, j int) bool {
		if len(names[i].text) != len(names[j].text) {
			return len(names[i].text) > len(names[j].text)
		}
		if names[i].text != names[j].text {
			return names[i].text < names[j].text
		}
		return names[i].typ < names[j].typ
	})
	return &Lexicon{names: names}
}

// LoadLexicon reads a YAML gazetteer file. Unknown keys are rejected.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var file lexiconFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	if len(file.Entities) == 0 {
		return nil, fmt.Errorf("lexicon %s: no entities defined", path)
	}
	return NewLexicon(file.Entities), nil
}

// DefaultLexicon returns the built-in gazetteer of common organizations,
// places, products and events seen in news text.
func DefaultLexicon() *Lexicon {
	return NewLexicon(map[string][]string{
		"ORG": {
			"Apple Inc.", "Apple", "Microsoft", "Google", "Amazon", "Meta",
			"Reuters", "Associated Press", "BBC", "United Nations",
			"European Union", "World Health Organization", "NATO",
			"Federal Reserve", "World Bank", "Tesla", "OpenAI",
		},
		"GPE": {
			"United States", "United Kingdom", "New York City", "New York",
			"Washington", "London", "Paris", "Berlin", "Tokyo", "Beijing",
			"Moscow", "Brussels", "California", "Texas", "China", "Russia",
			"Germany", "France", "Japan", "India", "Brazil", "Canada",
		},
		"PRODUCT": {
			"iPhone", "iPad", "Android", "Windows", "ChatGPT",
		},
		"EVENT": {
			"Olympic Games", "World Cup", "Super Bowl",
		},
	})
}

// Name implements Extractor.
func (l *Lexicon) Name() string { return "lexicon" }

// Ready implements Extractor. The gazetteer is in memory and always ready.
func (l *Lexicon) Ready(_ context.Context) error { return nil }

// Extract implements Extractor. Matches are case-sensitive, bounded by
// non-word characters on both sides, and overlapping candidates resolve to
// the longest match.
func (l *Lexicon) Extract(_ context.Context, text string) ([]article.Entity, error) {
	var ents []article.Entity
	taken := make([]span, 0, 8)

	for _, name := range l.names {
		from := 0
		for {
			idx := strings.Index(text[from:], name.text)
			if idx < 0 {
				break
			}
			start := from + idx
			end := start + len(name.text)
			from = start + 1
			if !onWordBoundary(text, start, end) {
				continue
			}
			if overlapsAny(taken, start, end) {
				continue
			}
			taken = append(taken, span{start, end})
			ents = append(ents, article.Entity{
				Text:  name.text,
				Type:  name.typ,
				Start: start,
				End:   end,
			})
		}
	}

	sortEntities(ents)
	return ents, nil
}

type span struct{ start, end int }

func overlapsAny(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}

// onWordBoundary reports whether text[start:end] is not embedded in a
// larger word. A trailing period inside the match (as in "Apple Inc.") is
// its own boundary.
func onWordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
