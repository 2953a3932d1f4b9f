package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/dgallion1/textprep/internal/article"
)

// SQLite stores records in a single-file database using the pure-Go driver.
// The full record is kept as a JSON payload next to the queryable columns;
// entity spans land in a child table for per-type queries.
type SQLite struct {
	path string
	db   *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	document_id  TEXT PRIMARY KEY,
	version      TEXT NOT NULL,
	cleaned_text TEXT NOT NULL,
	payload      TEXT NOT NULL,
	processed_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS record_entities (
	document_id TEXT NOT NULL,
	text        TEXT NOT NULL,
	type        TEXT NOT NULL,
	start_char  INTEGER NOT NULL,
	end_char    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_record_entities_doc ON record_entities(document_id);
CREATE INDEX IF NOT EXISTS idx_record_entities_type ON record_entities(type);
`

// NewSQLite builds a SQLite backend at path.
func NewSQLite(path string) *SQLite {
	return &SQLite{path: path}
}

// Name implements Backend.
func (s *SQLite) Name() string { return "sqlite" }

// Init opens the database, switches to WAL and creates the schema.
func (s *SQLite) Init(ctx context.Context) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return fmt.Errorf("create schema: %w", err)
	}
	s.db = db
	return nil
}

// Save upserts one record and its entities.
func (s *SQLite) Save(ctx context.Context, rec *article.EnrichedRecord) error {
	return s.SaveBatch(ctx, []*article.EnrichedRecord{rec})
}

// SaveBatch upserts a batch inside one transaction. Re-saving a document ID
// replaces the previous record and entity rows.
func (s *SQLite) SaveBatch(ctx context.Context, recs []*article.EnrichedRecord) error {
	if s.db == nil {
		return fmt.Errorf("sqlite backend not initialized")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range recs {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record %s: %w", rec.DocumentID, err)
		}
		_, err = tx.ExecContext(ctx, `
INSERT INTO records (document_id, version, cleaned_text, payload, processed_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(document_id) DO UPDATE SET
	version      = excluded.version,
	cleaned_text = excluded.cleaned_text,
	payload      = excluded.payload,
	processed_at = excluded.processed_at`,
			rec.DocumentID, rec.Version, rec.CleanedText, string(payload), rec.ProcessedAt)
		if err != nil {
			return fmt.Errorf("upsert record %s: %w", rec.DocumentID, err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM record_entities WHERE document_id = ?", rec.DocumentID); err != nil {
			return fmt.Errorf("clear entities %s: %w", rec.DocumentID, err)
		}
		for _, e := range rec.Entities {
			_, err := tx.ExecContext(ctx, `
INSERT INTO record_entities (document_id, text, type, start_char, end_char)
VALUES (?, ?, ?, ?, ?)`,
				rec.DocumentID, e.Text, e.Type, e.Start, e.End)
			if err != nil {
				return fmt.Errorf("insert entity for %s: %w", rec.DocumentID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
