package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	plangen "storepulse/internal/actionplan/generator"
	planstore "storepulse/internal/actionplan/store"
	"storepulse/internal/audit"
	evalstore "storepulse/internal/evaluation/store"
	"storepulse/internal/ingest"
	"storepulse/internal/platform/config"
	"storepulse/internal/platform/logger"
	"storepulse/internal/registry"
)

var (
	ingestPolicyPath    string
	ingestWeightsPath   string
	ingestScorecardPath string
	ingestRegistryPath  string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <wave> <export.csv>",
	Short: "Score a raw wave export and open action plans",
	Long: "Score a semicolon-delimited wave export against the reference tables. " +
		"With STOREPULSE_DATABASE_URL set, evaluations and plans persist to the database; " +
		"otherwise the run is a dry pass over in-memory stores and --registry is required.",
	Args: cobra.ExactArgs(2),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestPolicyPath, "policy", "",
		"Path to the YAML scoring policy (defaults apply when empty)")
	ingestCmd.Flags().StringVar(&ingestWeightsPath, "weights", "",
		"Path to the Section Weight export")
	ingestCmd.Flags().StringVar(&ingestScorecardPath, "scorecard", "",
		"Path to the Scorecard export")
	ingestCmd.Flags().StringVar(&ingestRegistryPath, "registry", "",
		"Path to the store registry export (required without a database)")
	_ = ingestCmd.MarkFlagRequired("weights")
	_ = ingestCmd.MarkFlagRequired("scorecard")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	wave, exportPath := args[0], args[1]
	ctx := cmd.Context()

	cfg := config.FromEnv()
	log := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))

	policy, err := config.LoadPolicy(ingestPolicyPath)
	if err != nil {
		return err
	}
	tax, err := loadTaxonomy(ingestWeightsPath, ingestScorecardPath)
	if err != nil {
		return err
	}

	var (
		directory registry.Directory
		evals     evalstore.Store
		plans     planstore.Store
	)
	if cfg.DatabaseURL != "" {
		pool, err := openPool(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close() //nolint:errcheck // process is exiting
		directory = registry.NewPostgresDirectory(pool.DB())
		evals = evalstore.NewPostgresStore(pool.DB())
		plans = planstore.NewPostgresStore(pool.DB())
	} else {
		if ingestRegistryPath == "" {
			return fmt.Errorf("--registry is required without a database")
		}
		directory = registry.NewInMemoryDirectory()
		evals = evalstore.NewInMemoryStore()
		plans = planstore.NewInMemoryStore()
	}

	if ingestRegistryPath != "" {
		if _, err := loadRegistry(ctx, directory, ingestRegistryPath); err != nil {
			return err
		}
	}

	auditor := audit.NewPublisher(audit.NewInMemoryStore(), audit.WithPublisherLogger(log))
	gen := plangen.New(plans, evals, policy, log, nil, auditor)
	svc := ingest.NewService(directory, evals, gen, tax, policy, log)

	export, err := os.Open(exportPath)
	if err != nil {
		return fmt.Errorf("open wave export: %w", err)
	}
	defer export.Close() //nolint:errcheck // read-only

	report, err := svc.IngestWave(ctx, wave, export)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
