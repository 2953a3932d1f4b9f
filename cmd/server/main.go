package main

import (
	"context"
	"os"

	"github.com/dgallion1/textprep/internal/config"
	"github.com/dgallion1/textprep/internal/service"
)

func main() {
	cfg := config.Load()
	log := service.NewLogger(os.Stdout, cfg)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := service.Run(context.Background(), cfg, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
