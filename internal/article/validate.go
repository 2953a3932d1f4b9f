package article

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"
)

// ValidationError describes a document that failed schema checks. It is
// fatal for the document, never for the batch.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid document: %s %s", e.Field, e.Reason)
}

// dateLayouts are the accepted ISO forms for date fields, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseDate parses an ISO date string in any accepted layout.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Validate checks the required fields and date formats of a document.
// It returns a *ValidationError on the first failing check.
func Validate(doc *Document) error {
	if doc == nil {
		return &ValidationError{Field: "document", Reason: "is missing"}
	}
	if strings.TrimSpace(doc.DocumentID) == "" {
		return &ValidationError{Field: "document_id", Reason: "is required"}
	}
	if strings.TrimSpace(doc.Text) == "" {
		return &ValidationError{Field: "text", Reason: "is required"}
	}

	dates := []struct {
		field string
		value string
	}{
		{"publication_date", doc.PublicationDate},
		{"revision_date", doc.RevisionDate},
		{"embargo_date", doc.EmbargoDate},
	}
	for _, d := range dates {
		if d.value == "" {
			continue
		}
		if _, err := ParseDate(d.value); err != nil {
			return &ValidationError{Field: d.field, Reason: fmt.Sprintf("is malformed: %q", d.value)}
		}
	}
	return nil
}

// ContentHash computes SHA-256 of content and returns a hex string. Used to
// derive stable document IDs for file-based ingestion.
func ContentHash(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
