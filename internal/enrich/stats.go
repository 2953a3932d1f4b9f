package enrich

import "strings"

// wordsPerMinute is the assumed reading speed for news prose.
const wordsPerMinute = 225

// WordCount returns the number of whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ReadingTime estimates reading time in whole minutes, rounding up. Any
// non-empty text takes at least a minute.
func ReadingTime(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
