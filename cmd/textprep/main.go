// Command textprep cleans and enriches news articles from the command
// line, and can run the same HTTP service as cmd/server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/dgallion1/textprep/internal/article"
	"github.com/dgallion1/textprep/internal/clean"
	"github.com/dgallion1/textprep/internal/config"
	"github.com/dgallion1/textprep/internal/reader"
	"github.com/dgallion1/textprep/internal/service"
	"github.com/dgallion1/textprep/internal/version"
)

var CLI struct {
	Process ProcessCmd `cmd:"" help:"Clean and enrich documents from files"`
	Serve   ServeCmd   `cmd:"" help:"Run the HTTP preprocessing service"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// ProcessCmd runs the pipeline over local files. JSON and JSONL files are
// decoded as document batches; any other supported format becomes a single
// document.
type ProcessCmd struct {
	Paths       []string `arg:"" help:"Files to process (.txt, .md, .html, .csv, .pdf, .docx, .json, .jsonl)" type:"existingfile"`
	Config      string   `help:"YAML file with cleaning overrides" type:"existingfile"`
	Concurrency int      `help:"Documents processed in parallel (defaults to BATCH_CONCURRENCY)"`
	Output      string   `short:"o" default:"-" help:"Write enriched records as JSON lines to this file (- for stdout)"`
	Store       bool     `help:"Persist records to the configured storage backends instead of printing them"`
}

func (c *ProcessCmd) Run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log := service.NewLogger(os.Stderr, cfg)

	engine, err := service.NewEngine(cfg, log)
	if err != nil {
		return err
	}

	var over *clean.Overrides
	if c.Config != "" {
		data, err := os.ReadFile(c.Config)
		if err != nil {
			return fmt.Errorf("read cleaning config: %w", err)
		}
		over, err = clean.DecodeOverridesYAML(data)
		if err != nil {
			return fmt.Errorf("parse cleaning config: %w", err)
		}
		if err := clean.Merge(engine.Defaults(), over).Validate(); err != nil {
			return fmt.Errorf("cleaning config: %w", err)
		}
	}

	var docs []*article.Document
	for _, path := range c.Paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		fileDocs, skipped, err := reader.Documents(data, filepath.Base(path))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if skipped > 0 {
			log.Warn("skipped undecodable lines", "file", path, "lines", skipped)
		}
		docs = append(docs, fileDocs...)
	}
	if len(docs) == 0 {
		return errors.New("no documents found")
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = cfg.BatchConcurrency
	}

	ctx := context.Background()
	results := engine.ProcessBatch(ctx, docs, over, concurrency)

	records := make([]*article.EnrichedRecord, 0, len(results))
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			log.Error("document failed", "document_id", res.DocumentID, "error", res.Err)
			continue
		}
		records = append(records, res.Record)
	}

	if c.Store {
		if err := c.store(ctx, cfg, records); err != nil {
			return err
		}
	} else if err := c.write(records); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

func (c *ProcessCmd) store(ctx context.Context, cfg config.Config, records []*article.EnrichedRecord) error {
	store, err := service.NewStore(ctx, cfg)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("no storage backends configured, set STORAGE_BACKENDS")
	}
	defer store.Close()

	if err := store.SaveBatch(ctx, records); err != nil {
		return fmt.Errorf("store records: %w", err)
	}
	return nil
}

func (c *ProcessCmd) write(records []*article.EnrichedRecord) error {
	out := os.Stdout
	if c.Output != "" && c.Output != "-" {
		f, err := os.Create(c.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// ServeCmd runs the HTTP service with the same wiring as cmd/server.
type ServeCmd struct{}

func (c *ServeCmd) Run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log := service.NewLogger(os.Stdout, cfg)
	return service.Run(context.Background(), cfg, log)
}

// VersionCmd prints the build version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("textprep version %s\n", version.Version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("textprep"),
		kong.Description("Text normalization and entity-aware enrichment for news articles"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
