// Package pipeline runs documents through validation, cleaning, entity
// extraction and enrichment, and coordinates the async jobs around it.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/textprep/internal/article"
	"github.com/dgallion1/textprep/internal/clean"
	"github.com/dgallion1/textprep/internal/config"
	"github.com/dgallion1/textprep/internal/enrich"
	"github.com/dgallion1/textprep/internal/ner"
	"github.com/dgallion1/textprep/internal/protect"
)

// Engine runs the per-document pipeline. One Engine is shared by every
// worker and request handler; it holds no per-document state.
type Engine struct {
	extractor ner.Extractor
	resolver  *enrich.DateResolver
	dict      *clean.Dictionary
	defaults  clean.Config

	langFallback string
	langFloor    float64

	log   *slog.Logger
	stats *Stats
}

// NewEngine wires the pipeline collaborators together. defaults is the
// process-wide cleaning configuration; per-request overrides merge onto it.
func NewEngine(cfg config.Config, extractor ner.Extractor, dict *clean.Dictionary, defaults clean.Config, log *slog.Logger) *Engine {
	return &Engine{
		extractor:    extractor,
		resolver:     enrich.NewDateResolver(),
		dict:         dict,
		defaults:     defaults,
		langFallback: cfg.LangFallback,
		langFloor:    cfg.LangConfidenceFloor,
		log:          log,
		stats:        NewStats(time.Hour),
	}
}

// Result pairs one document with its outcome. Batches report per-document
// results so one bad document never aborts the rest.
type Result struct {
	DocumentID string
	Record     *article.EnrichedRecord
	Err        error
}

// ExtractorName identifies the configured entity extractor.
func (e *Engine) ExtractorName() string { return e.extractor.Name() }

// ExtractorReady probes the entity extractor.
func (e *Engine) ExtractorReady(ctx context.Context) error { return e.extractor.Ready(ctx) }

// Stats returns a snapshot of processing counters and latencies.
func (e *Engine) Stats() StatsSnapshot { return e.stats.Snapshot() }

// Defaults returns the process-wide cleaning configuration.
func (e *Engine) Defaults() clean.Config { return e.defaults }

// Process runs one document through the full sequence: validation,
// structural cleanup, mid-pipeline extraction, protected cleanup, final
// extraction, enrichment. The run is synchronous and side-effect-free; ctx
// bounds only the extractor's calls. Entity offsets in the returned record
// are byte offsets into its CleanedText.
func (e *Engine) Process(ctx context.Context, doc *article.Document, over *clean.Overrides) (*article.EnrichedRecord, error) {
	started := time.Now()

	if err := article.Validate(doc); err != nil {
		e.stats.RecordFailure()
		return nil, err
	}
	cfg := clean.Merge(e.defaults, over)
	if err := cfg.Validate(); err != nil {
		e.stats.RecordFailure()
		return nil, fmt.Errorf("cleaning config: %w", err)
	}
	params := clean.Params{Cfg: cfg, Dict: e.dict}

	text := doc.Text
	for _, st := range clean.Registry() {
		if !st.Structural || !st.Enabled(cfg) {
			continue
		}
		text, _ = e.runStage(st, text, protect.Set{}, params)
	}

	// Extraction on the structurally cleaned buffer is the protection basis
	// for every remaining stage.
	entities, err := e.extractor.Extract(ctx, text)
	if err != nil {
		e.stats.RecordFailure()
		return nil, fmt.Errorf("entity extraction: %w", err)
	}
	prot := protect.NewSet(entities)

	for _, st := range clean.Registry() {
		if st.Structural || !st.Enabled(cfg) {
			continue
		}
		before := text
		var changed bool
		text, changed = e.runStage(st, text, prot, params)
		if changed {
			// Spans at or after the first edited byte no longer line up
			// with the buffer.
			prot = prot.InvalidateAfterEdit(commonPrefixLen(before, text))
		}
	}

	// The cleaned text differs from the protection snapshot, so the output
	// spans come from a final pass.
	final, err := e.extractor.Extract(ctx, text)
	if err != nil {
		e.stats.RecordFailure()
		return nil, fmt.Errorf("entity extraction: %w", err)
	}

	rec := e.buildRecord(doc, text, final, params)
	e.stats.RecordSuccess(time.Since(started).Milliseconds())
	return rec, nil
}

// ProcessBatch runs documents concurrently, bounded by concurrency, and
// returns results in input order. It never retries; the async worker layers
// retry on top for transient failures.
func (e *Engine) ProcessBatch(ctx context.Context, docs []*article.Document, over *clean.Overrides, concurrency int) []Result {
	if concurrency < 1 {
		concurrency = 1
	}

	type docResult struct {
		idx int
		res Result
	}
	results := make(chan docResult, len(docs))
	sem := make(chan struct{}, concurrency)

	for i, doc := range docs {
		sem <- struct{}{}
		go func(i int, doc *article.Document) {
			defer func() { <-sem }()
			rec, err := e.Process(ctx, doc, over)
			var id string
			if doc != nil {
				id = doc.DocumentID
			}
			results <- docResult{idx: i, res: Result{DocumentID: id, Record: rec, Err: err}}
		}(i, doc)
	}

	ordered := make([]Result, len(docs))
	for range docs {
		r := <-results
		ordered[r.idx] = r.res
	}
	return ordered
}

// runStage applies one stage, converting a panic into a logged pass-through
// of the stage's input.
func (e *Engine) runStage(st clean.Stage, text string, prot protect.Set, params clean.Params) (out string, changed bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("cleaning stage panicked", "stage", st.Name, "panic", r)
			out, changed = text, false
		}
	}()
	return st.Apply(text, prot, params)
}

// buildRecord assembles the output for one document from its cleaned text
// and final entity spans.
func (e *Engine) buildRecord(doc *article.Document, cleanedText string, entities []article.Entity, params clean.Params) *article.EnrichedRecord {
	now := time.Now().UTC()

	// Relative dates resolve against the stated publication date when it
	// parses, else processing time.
	ref := now
	if doc.PublicationDate != "" {
		if t, err := article.ParseDate(doc.PublicationDate); err == nil {
			ref = t
		}
	}

	lang := enrich.DetectLanguage(cleanedText, e.langFallback, e.langFloor)
	words := enrich.WordCount(cleanedText)

	meta := make(map[string]any, len(doc.AdditionalMetadata)+4)
	for k, v := range doc.AdditionalMetadata {
		meta[k] = v
	}
	meta["cleaned_language"] = lang.Code
	meta["language_confidence"] = lang.Confidence
	meta["word_count"] = words
	meta["cleaned_reading_time"] = enrich.ReadingTime(words)

	if entities == nil {
		entities = []article.Entity{}
	}

	return &article.EnrichedRecord{
		DocumentID: doc.DocumentID,
		Version:    article.SchemaVersion,

		OriginalText: doc.Text,
		CleanedText:  cleanedText,

		CleanedTitle:   e.cleanField(doc.Title, params),
		CleanedExcerpt: e.cleanField(doc.Excerpt, params),
		CleanedAuthor:  e.cleanField(doc.Author, params),

		CleanedPublicationDate: doc.PublicationDate,
		CleanedRevisionDate:    doc.RevisionDate,
		CleanedEmbargoDate:     doc.EmbargoDate,

		CleanedCategories:     e.cleanList(doc.Categories, params),
		CleanedTags:           e.cleanList(doc.Tags, params),
		CleanedMediaAssetURLs: trimList(doc.MediaAssetURLs),

		CleanedGeographicalData: e.cleanMap(doc.GeographicalData, params),

		TemporalMetadata: e.resolver.Resolve(cleanedText, entities, ref),
		Entities:         entities,

		CleanedAdditionalMetadata: meta,

		ProcessedAt: now.Format(time.RFC3339),
	}
}

// cleanField runs the structural stages over a short metadata string.
// Protection and correction stages do not apply to metadata.
func (e *Engine) cleanField(s string, params clean.Params) string {
	if s == "" {
		return ""
	}
	for _, st := range clean.Registry() {
		if !st.Structural || !st.Enabled(params.Cfg) {
			continue
		}
		s, _ = e.runStage(st, s, protect.Set{}, params)
	}
	return s
}

func (e *Engine) cleanList(items []string, params clean.Params) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if cleaned := e.cleanField(item, params); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

func (e *Engine) cleanMap(m map[string]string, params clean.Params) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = e.cleanField(v, params)
	}
	return out
}

// trimList copies a list with surrounding whitespace removed. URLs keep
// their characters; text cleaning does not apply to them.
func trimList(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if t := strings.TrimSpace(item); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// commonPrefixLen returns the length of the longest common byte prefix of a
// and b, which is the first offset a length-changing stage can have edited.
func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
