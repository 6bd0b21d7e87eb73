package main

import (
	"fmt"
	"log/slog"

	"salon-admin/internal/config"
	"salon-admin/internal/generation"
	"salon-admin/internal/logger"
	"salon-admin/internal/store"

	"github.com/fatih/color"
)

var (
	configFile string
	verbose    bool
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("!")
)

// env is what every subcommand needs, opened on demand.
type env struct {
	cfg *config.Config
	log *slog.Logger
}

func loadEnv() *env {
	cfg := config.Load(configFile)
	if !verbose {
		cfg.Log.Level = "warn"
	}
	log := logger.Init(cfg.Log, nil).With(logger.KeyCategory, "cli")
	return &env{cfg: cfg, log: log}
}

func (e *env) store() (*store.Store, error) {
	reader, err := e.cfg.OpenReader()
	if err != nil {
		return nil, fmt.Errorf("connect reader: %w", err)
	}
	writer, err := e.cfg.OpenWriter()
	if err != nil {
		return nil, fmt.Errorf("connect writer: %w", err)
	}
	return store.New(reader, writer, e.cfg.Database.QueryTimeout), nil
}

func (e *env) generator() (*generation.Client, error) {
	return generation.New(e.cfg.Generation)
}

func statusLabel(s string) string {
	if s == "published" {
		return color.New(color.FgGreen).Sprint(s)
	}
	return color.New(color.FgYellow).Sprint(s)
}
