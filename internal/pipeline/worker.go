package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/textprep/internal/article"
	"github.com/dgallion1/textprep/internal/clean"
	"github.com/dgallion1/textprep/internal/storage"
)

// Worker drains jobs from the orchestrator queue and runs each batch
// through the engine with bounded per-document concurrency.
type Worker struct {
	engine      *Engine
	store       storage.Backend
	log         *slog.Logger
	concurrency int
}

func NewWorker(engine *Engine, store storage.Backend, log *slog.Logger, concurrency int) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		engine:      engine,
		store:       store,
		log:         log,
		concurrency: concurrency,
	}
}

// Process runs the full batch for a job: per-document pipeline runs with
// retry on transient extraction failures, then one storage write for the
// successful records.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("task_id", job.ID)
	docs, over := job.Batch()
	job.SetStatus(StatusRunning, "processing")

	type docResult struct {
		idx int
		res Result
	}
	results := make(chan docResult, len(docs))
	sem := make(chan struct{}, w.concurrency)

	for i, doc := range docs {
		sem <- struct{}{}
		go func(i int, doc *article.Document) {
			defer func() { <-sem }()
			rec, err := w.processOne(ctx, doc, over)
			var id string
			if doc != nil {
				id = doc.DocumentID
			}
			results <- docResult{idx: i, res: Result{DocumentID: id, Record: rec, Err: err}}
		}(i, doc)
	}

	ordered := make([]Result, len(docs))
	succeeded := 0
	for range docs {
		r := <-results
		ordered[r.idx] = r.res
		if r.res.Err != nil {
			log.Error("document failed", "document_id", r.res.DocumentID, "error", r.res.Err)
			job.AddError(fmt.Sprintf("%s: %s", r.res.DocumentID, r.res.Err))
			job.IncrProcessed(false)
			continue
		}
		succeeded++
		job.IncrProcessed(true)
	}
	job.SetResults(ordered)

	records := make([]*article.EnrichedRecord, 0, succeeded)
	for _, r := range ordered {
		if r.Err == nil && r.Record != nil {
			records = append(records, r.Record)
		}
	}

	stored := true
	if len(records) > 0 && w.store != nil {
		job.SetStatus(StatusRunning, "storing")
		if err := w.saveWithRetry(ctx, records); err != nil {
			stored = false
			log.Error("storage failed", "records", len(records), "error", err)
			job.AddError(fmt.Sprintf("storage: %s", err))
		}
	}

	failed := len(docs) - succeeded
	switch {
	case succeeded == 0 && len(docs) > 0:
		job.SetStatus(StatusFailed, "done")
	case failed > 0 || !stored:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
	log.Info("batch complete", "total", len(docs), "succeeded", succeeded, "failed", failed, "stored", stored)
}

// processOne runs a single document, retrying transient failures.
func (w *Worker) processOne(ctx context.Context, doc *article.Document, over *clean.Overrides) (*article.EnrichedRecord, error) {
	var rec *article.EnrichedRecord
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		rec, lastErr = w.engine.Process(ctx, doc, over)
		if lastErr == nil || !IsRetryable(lastErr) || attempt == MaxRetries-1 {
			return rec, lastErr
		}
		w.log.Warn("retryable processing error", "document_id", doc.DocumentID, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return rec, lastErr
}

// saveWithRetry persists records, backing off between attempts. The SQLite
// backend writes transactionally, so a retried batch never half-applies.
func (w *Worker) saveWithRetry(ctx context.Context, records []*article.EnrichedRecord) error {
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		lastErr = w.store.SaveBatch(ctx, records)
		if lastErr == nil {
			return nil
		}
		if attempt == MaxRetries-1 {
			break
		}
		w.log.Warn("storage write failed", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
