package main

import (
	"context"
	"fmt"
	"os"

	"storepulse/internal/platform/config"
	"storepulse/internal/platform/database"
	"storepulse/internal/registry"
	"storepulse/internal/taxonomy"
)

// loadTaxonomy reads the Section Weight and Scorecard exports from disk.
func loadTaxonomy(weightsPath, scorecardPath string) (*taxonomy.Taxonomy, error) {
	weights, err := os.Open(weightsPath)
	if err != nil {
		return nil, fmt.Errorf("open section weight table: %w", err)
	}
	defer weights.Close() //nolint:errcheck // read-only

	scorecard, err := os.Open(scorecardPath)
	if err != nil {
		return nil, fmt.Errorf("open scorecard table: %w", err)
	}
	defer scorecard.Close() //nolint:errcheck // read-only

	return taxonomy.Load(weights, scorecard)
}

// loadRegistry populates the directory from the store registry export.
func loadRegistry(ctx context.Context, dir registry.Directory, path string) (registry.LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return registry.LoadStats{}, fmt.Errorf("open store registry table: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only

	return registry.LoadFromCSV(ctx, dir, f)
}

// openPool connects to the configured database with pool sizing taken from
// the environment. Returns nil when no URL is set so callers can fall back
// to in-memory stores.
func openPool(ctx context.Context, cfg config.Server) (*database.Pool, error) {
	return database.Connect(ctx, cfg.DatabaseURL,
		database.WithMaxConns(cfg.DBMaxOpenConns, cfg.DBMaxIdleConns),
		database.WithConnLifetime(cfg.DBConnLifetime),
	)
}
