// Package storage persists enriched records. Backends are independent
// sinks; the service fans every record out to all enabled backends and a
// failure in one does not stop the others.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgallion1/textprep/internal/article"
	"github.com/dgallion1/textprep/internal/config"
)

// Backend is one persistence target for enriched records.
type Backend interface {
	// Init prepares the backend (directories, schema). Called once before
	// any writes.
	Init(ctx context.Context) error
	Save(ctx context.Context, rec *article.EnrichedRecord) error
	SaveBatch(ctx context.Context, recs []*article.EnrichedRecord) error
	// Name identifies the backend in logs and config.
	Name() string
	Close() error
}

// Multi fans writes out to every enabled backend.
type Multi struct {
	backends []Backend
}

// NewMulti wraps a set of backends. An empty set is valid and makes every
// write a no-op.
func NewMulti(backends ...Backend) *Multi {
	return &Multi{backends: backends}
}

// Backends returns the wrapped backends.
func (m *Multi) Backends() []Backend { return m.backends }

// Init initializes all backends, stopping at the first failure.
func (m *Multi) Init(ctx context.Context) error {
	for _, b := range m.backends {
		if err := b.Init(ctx); err != nil {
			return fmt.Errorf("init %s backend: %w", b.Name(), err)
		}
	}
	return nil
}

// Save writes one record to every backend. All backends are attempted; the
// returned error joins every failure.
func (m *Multi) Save(ctx context.Context, rec *article.EnrichedRecord) error {
	var errs []error
	for _, b := range m.backends {
		if err := b.Save(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// SaveBatch writes a batch to every backend.
func (m *Multi) SaveBatch(ctx context.Context, recs []*article.EnrichedRecord) error {
	var errs []error
	for _, b := range m.backends {
		if err := b.SaveBatch(ctx, recs); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Name identifies the combined backend in logs.
func (m *Multi) Name() string { return "multi" }

// Close closes all backends.
func (m *Multi) Close() error {
	var errs []error
	for _, b := range m.backends {
		if err := b.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// FromConfig builds the enabled backends. The result may wrap zero backends
// when none are configured.
func FromConfig(cfg config.Config) (*Multi, error) {
	var backends []Backend
	for _, name := range cfg.StorageBackends {
		switch name {
		case "jsonl":
			backends = append(backends, NewJSONL(cfg.JSONLDir))
		case "sqlite":
			backends = append(backends, NewSQLite(cfg.SQLitePath))
		default:
			return nil, fmt.Errorf("unknown storage backend %q", name)
		}
	}
	return NewMulti(backends...), nil
}
