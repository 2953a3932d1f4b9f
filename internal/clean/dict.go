package clean

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Dictionary maps misspellings to their canonical form. Lookups are cached
// because the same tokens recur heavily across a news corpus; the cache is
// safe for concurrent use.
type Dictionary struct {
	entries map[string]string
	cache   *lru.Cache[string, lookupResult]
}

type lookupResult struct {
	correction string
	confidence float64
	ok         bool
}

const lookupCacheSize = 4096

// LoadDictionary reads a pipe-format correction file. Each line is
// "canonical|variant|variant..."; blank lines and lines starting with '#'
// are skipped.
func LoadDictionary(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	entries := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 2 {
			return nil, fmt.Errorf("dictionary %s line %d: expected canonical|variant, got %q", path, lineNo, line)
		}
		canonical := strings.ToLower(strings.TrimSpace(parts[0]))
		if canonical == "" {
			return nil, fmt.Errorf("dictionary %s line %d: empty canonical form", path, lineNo)
		}
		for _, variant := range parts[1:] {
			v := strings.ToLower(strings.TrimSpace(variant))
			if v == "" {
				continue
			}
			entries[v] = canonical
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return newDictionary(entries)
}

// defaultCorrections covers frequent English slips so the stage works
// without an external dictionary file.
const defaultCorrections = `
# canonical|variants
the|teh|hte|tehm
this|ths|thsi
that|taht|thta
test|tst|tset
and|adn|nad
with|wiht|wtih
from|form|fromm
have|ahve|haev
just|jsut
know|konw|knwo
about|abuot|aobut
because|becuase|becasue
their|thier
there|theer
would|woudl|wuold
could|cuold
should|shoudl
which|whcih
government|goverment|govenment
receive|recieve
believe|beleive|belive
separate|seperate
definitely|definately
occurred|occured
until|untill
beginning|begining
necessary|neccessary|necesary
committee|commitee|comittee
embarrass|embarass
environment|enviroment
restaurant|restaraunt|resturant
tomorrow|tommorow|tomorow
argument|arguement
calendar|calender
official|offical
business|buisness
`

// DefaultDictionary builds the built-in correction dictionary.
func DefaultDictionary() *Dictionary {
	entries := make(map[string]string)
	for _, line := range strings.Split(defaultCorrections, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "|")
		for _, variant := range parts[1:] {
			entries[variant] = parts[0]
		}
	}
	d, err := newDictionary(entries)
	if err != nil {
		// The cache size is a positive constant, so this cannot happen.
		panic(err)
	}
	return d
}

func newDictionary(entries map[string]string) (*Dictionary, error) {
	cache, err := lru.New[string, lookupResult](lookupCacheSize)
	if err != nil {
		return nil, err
	}
	return &Dictionary{entries: entries, cache: cache}, nil
}

// Len returns the number of known misspellings.
func (d *Dictionary) Len() int { return len(d.entries) }

// Lookup finds the canonical form for a lowercase token and the confidence
// of the correction. Confidence is 1 minus the normalized edit distance, so
// near-identical words score close to 1.
func (d *Dictionary) Lookup(word string) (string, float64, bool) {
	if res, ok := d.cache.Get(word); ok {
		return res.correction, res.confidence, res.ok
	}

	res := lookupResult{}
	if corr, ok := d.entries[word]; ok {
		res = lookupResult{
			correction: corr,
			confidence: correctionConfidence(word, corr),
			ok:         true,
		}
	}
	d.cache.Add(word, res)
	return res.correction, res.confidence, res.ok
}

// correctionConfidence scores how close a misspelling is to its correction.
func correctionConfidence(word, correction string) float64 {
	if word == correction {
		return 1
	}
	dist := levenshtein.ComputeDistance(word, correction)
	maxLen := len([]rune(word))
	if l := len([]rune(correction)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(dist)/float64(maxLen)
}
