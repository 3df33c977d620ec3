package main

import (
	"log"
	"os"

	"github.com/abelbrown/hogwash/internal/config"
	"github.com/abelbrown/hogwash/internal/store"
)

// loadConfig reads the config file and environment, or fatals.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.AutoPopulateFromEnv()
	return cfg
}

// dataDir returns the configured data directory, creating it if needed.
func dataDir(cfg *config.Config) string {
	dir := cfg.DataPath()
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}
	return dir
}

// openDB opens the store or fatals.
func openDB(cfg *config.Config) *store.Store {
	st, err := store.Open(store.DefaultPath(dataDir(cfg)))
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	return st
}

// truncate shortens a string to max runes, appending "..." if truncated.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
