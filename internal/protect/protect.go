// Package protect tracks the character ranges that cleaning stages must not
// alter. Ranges are byte offsets into one specific text buffer; a Set is only
// meaningful against the buffer it was built from.
package protect

import (
	"sort"

	"github.com/dgallion1/textprep/internal/article"
)

// Range is a half-open [Start, End) byte interval.
type Range struct {
	Start int
	End   int
}

// Set is an ordered, merged collection of protected ranges. It is an
// immutable value: stages receive it by value and query membership, they
// never mutate it.
type Set struct {
	ranges []Range
}

// NewSet builds a Set from entity spans. Overlapping and abutting spans are
// merged; empty or inverted spans are dropped.
func NewSet(entities []article.Entity) Set {
	ranges := make([]Range, 0, len(entities))
	for _, e := range entities {
		if e.End <= e.Start || e.Start < 0 {
			continue
		}
		ranges = append(ranges, Range{Start: e.Start, End: e.End})
	}
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].Start != ranges[j].Start {
			return ranges[i].Start < ranges[j].Start
		}
		return ranges[i].End < ranges[j].End
	})

	merged := ranges[:0]
	for _, r := range ranges {
		if n := len(merged); n > 0 && r.Start <= merged[n-1].End {
			if r.End > merged[n-1].End {
				merged[n-1].End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return Set{ranges: merged}
}

// Contains reports whether pos falls inside any protected range.
func (s Set) Contains(pos int) bool {
	i := sort.Search(len(s.ranges), func(i int) bool {
		return s.ranges[i].End > pos
	})
	return i < len(s.ranges) && s.ranges[i].Start <= pos
}

// Overlaps reports whether the half-open interval [start, end) intersects
// any protected range.
func (s Set) Overlaps(start, end int) bool {
	if end <= start {
		return false
	}
	i := sort.Search(len(s.ranges), func(i int) bool {
		return s.ranges[i].End > start
	})
	return i < len(s.ranges) && s.ranges[i].Start < end
}

// InvalidateAfterEdit returns a Set with every range whose start lies at or
// after editStart discarded. Ranges entirely before the edit are retained;
// a range straddling editStart is discarded too, since the edit may have
// touched it.
func (s Set) InvalidateAfterEdit(editStart int) Set {
	i := sort.Search(len(s.ranges), func(i int) bool {
		return s.ranges[i].End > editStart
	})
	return Set{ranges: s.ranges[:i]}
}

// Len returns the number of protected ranges.
func (s Set) Len() int { return len(s.ranges) }

// Empty reports whether the set protects nothing.
func (s Set) Empty() bool { return len(s.ranges) == 0 }

// Ranges returns a copy of the protected intervals in order.
func (s Set) Ranges() []Range {
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}
