// Package ner finds named entities in cleaned text. Two extractors are
// provided: a built-in gazetteer that needs no external process, and a
// client for an HTTP model server. Both report entity spans as byte
// offsets into the exact text they were given.
package ner

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dgallion1/textprep/internal/article"
)

// ErrModelUnavailable reports that the extraction backend exists but cannot
// serve, e.g. the model server is up with no model loaded.
var ErrModelUnavailable = errors.New("ner model unavailable")

// Extractor finds entity spans in text. Implementations must return spans
// such that text[Start:End] equals the entity's Text field.
type Extractor interface {
	// Extract returns the entities found in text, sorted by start offset.
	Extract(ctx context.Context, text string) ([]article.Entity, error)
	// Ready reports whether the extractor can serve. Probed at startup and
	// by the health endpoint.
	Ready(ctx context.Context) error
	// Name identifies the extractor in logs and stats.
	Name() string
}

// RetryableError indicates a transient extraction failure that can be
// retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func sortEntities(ents []article.Entity) {
	sort.Slice(ents, func(i, j int) bool {
		if ents[i].Start != ents[j].Start {
			return ents[i].Start < ents[j].Start
		}
		return ents[i].End < ents[j].End
	})
}
