package main

import (
	"fmt"

	"github.com/spf13/cobra"

	plangen "storepulse/internal/actionplan/generator"
	planstore "storepulse/internal/actionplan/store"
	"storepulse/internal/audit"
	evalstore "storepulse/internal/evaluation/store"
	"storepulse/internal/platform/config"
	"storepulse/internal/platform/logger"
	"storepulse/internal/registry"
	"storepulse/internal/seeder"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo data into the configured database",
	Long: "Populate the database with a small retail hierarchy, two waves of " +
		"evaluations, and action plans in every lifecycle state. Requires " +
		"STOREPULSE_DATABASE_URL; demo mode seeds its in-memory stores on its own.",
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	log := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("STOREPULSE_DATABASE_URL must be set")
	}
	pool, err := openPool(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer pool.Close() //nolint:errcheck // process is exiting

	directory := registry.NewPostgresDirectory(pool.DB())
	evals := evalstore.NewPostgresStore(pool.DB())
	plans := planstore.NewPostgresStore(pool.DB())

	auditor := audit.NewPublisher(audit.NewInMemoryStore(), audit.WithPublisherLogger(log))
	gen := plangen.New(plans, evals, config.DefaultPolicy(), log, nil, auditor)

	return seeder.New(directory, evals, plans, gen, log).SeedAll(cmd.Context())
}
