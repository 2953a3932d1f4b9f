package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgallion1/textprep/internal/article"
)

// JSONL appends records as JSON lines to a daily-rotated file
// (enriched-YYYY-MM-DD.jsonl) in a fixed directory. Writes are serialized
// by a mutex so concurrent workers never interleave lines.
type JSONL struct {
	dir string

	mu   sync.Mutex
	file *os.File
	day  string
}

// NewJSONL builds a JSONL backend writing under dir.
func NewJSONL(dir string) *JSONL {
	return &JSONL{dir: dir}
}

// Name implements Backend.
func (s *JSONL) Name() string { return "jsonl" }

// Init creates the output directory.
func (s *JSONL) Init(_ context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create jsonl dir: %w", err)
	}
	return nil
}

// Save appends one record.
func (s *JSONL) Save(_ context.Context, rec *article.EnrichedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(rec)
}

// SaveBatch appends a batch under a single lock so the batch lands
// contiguously.
func (s *JSONL) SaveBatch(_ context.Context, recs []*article.EnrichedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range recs {
		if err := s.writeLocked(rec); err != nil {
			return err
		}
	}
	return nil
}

func (s *JSONL) writeLocked(rec *article.EnrichedRecord) error {
	day := time.Now().UTC().Format("2006-01-02")
	if s.file == nil || day != s.day {
		if s.file != nil {
			s.file.Close()
			s.file = nil
		}
		path := filepath.Join(s.dir, "enriched-"+day+".jsonl")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open jsonl file: %w", err)
		}
		s.file = f
		s.day = day
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", rec.DocumentID, err)
	}
	line = append(line, '\n')
	if _, err := s.file.Write(line); err != nil {
		return fmt.Errorf("write jsonl: %w", err)
	}
	return nil
}

// Close syncs and closes the open segment.
func (s *JSONL) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	syncErr := s.file.Sync()
	closeErr := s.file.Close()
	s.file = nil
	if syncErr != nil {
		return syncErr
	}
	return closeErr
}
