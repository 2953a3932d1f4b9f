// Package service wires configuration into running components: the
// enrichment engine, storage backends, and the HTTP server lifecycle.
// The server binary and the CLI serve command share this wiring.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/textprep/internal/api"
	"github.com/dgallion1/textprep/internal/clean"
	"github.com/dgallion1/textprep/internal/config"
	"github.com/dgallion1/textprep/internal/ner"
	"github.com/dgallion1/textprep/internal/pipeline"
	"github.com/dgallion1/textprep/internal/storage"
)

// NewLogger builds a JSON logger at the configured level. Unknown levels
// fall back to info.
func NewLogger(w io.Writer, cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewEngine assembles the enrichment engine from configuration: the
// entity extractor, the typo dictionary, and the cleaning defaults.
func NewEngine(cfg config.Config, log *slog.Logger) (*pipeline.Engine, error) {
	extractor, err := buildExtractor(cfg)
	if err != nil {
		return nil, err
	}

	dict := clean.DefaultDictionary()
	if cfg.DictionaryPath != "" {
		dict, err = clean.LoadDictionary(cfg.DictionaryPath)
		if err != nil {
			return nil, fmt.Errorf("load dictionary: %w", err)
		}
	}

	defaults := clean.DefaultConfig()
	if cfg.CleaningConfigPath != "" {
		defaults, err = clean.LoadConfig(cfg.CleaningConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load cleaning config: %w", err)
		}
	}

	return pipeline.NewEngine(cfg, extractor, dict, defaults, log), nil
}

// buildExtractor picks the extractor: a remote NER server when one is
// configured, otherwise a lexicon (custom file or built-in).
func buildExtractor(cfg config.Config) (ner.Extractor, error) {
	if cfg.NERServerURL != "" {
		return ner.NewRemote(cfg.NERServerURL), nil
	}
	if cfg.LexiconPath != "" {
		lex, err := ner.LoadLexicon(cfg.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		return lex, nil
	}
	return ner.DefaultLexicon(), nil
}

// NewStore builds and initializes the configured storage backends. It
// returns nil when none are configured.
func NewStore(ctx context.Context, cfg config.Config) (storage.Backend, error) {
	multi, err := storage.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if len(multi.Backends()) == 0 {
		return nil, nil
	}
	if err := multi.Init(ctx); err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	return multi, nil
}

// Run starts the full service and blocks until the context is cancelled
// or the process receives SIGINT/SIGTERM, then shuts down gracefully. A
// remote extractor that is not ready is fatal here rather than surfacing
// as per-document failures later.
func Run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	engine, err := NewEngine(cfg, log)
	if err != nil {
		return err
	}

	readyCtx, readyCancel := context.WithTimeout(ctx, 10*time.Second)
	err = engine.ExtractorReady(readyCtx)
	readyCancel()
	if err != nil {
		return fmt.Errorf("entity extractor not ready: %w", err)
	}

	store, err := NewStore(ctx, cfg)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	orch := pipeline.NewOrchestrator(cfg, engine, store, log)
	orch.Start(runCtx)

	srv := api.NewServer(orch, store, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
		case <-runCtx.Done():
		}
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if store != nil {
			if err := store.Close(); err != nil {
				log.Error("closing storage", "error", err)
			}
		}
	}()

	log.Info("starting textprep",
		"port", cfg.Port,
		"extractor", engine.ExtractorName(),
		"workers", cfg.Workers)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
