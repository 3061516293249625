package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	plangen "storepulse/internal/actionplan/generator"
	planhandler "storepulse/internal/actionplan/handler"
	planservice "storepulse/internal/actionplan/service"
	planstore "storepulse/internal/actionplan/store"
	"storepulse/internal/audit"
	evalhandler "storepulse/internal/evaluation/handler"
	evalstore "storepulse/internal/evaluation/store"
	"storepulse/internal/ingest"
	"storepulse/internal/platform/config"
	"storepulse/internal/platform/logger"
	"storepulse/internal/platform/metrics"
	"storepulse/internal/platform/tracer"
	"storepulse/internal/reconcile"
	"storepulse/internal/registry"
	"storepulse/internal/seeder"
	"storepulse/internal/taxonomy"
	httptransport "storepulse/internal/transport/http"
)

var (
	servePolicyPath    string
	serveWeightsPath   string
	serveScorecardPath string
	serveRegistryPath  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePolicyPath, "policy", "",
		"Path to the YAML scoring policy (defaults apply when empty)")
	serveCmd.Flags().StringVar(&serveWeightsPath, "weights", "",
		"Path to the Section Weight export")
	serveCmd.Flags().StringVar(&serveScorecardPath, "scorecard", "",
		"Path to the Scorecard export")
	serveCmd.Flags().StringVar(&serveRegistryPath, "registry", "",
		"Path to the store registry export, loaded into the directory at startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	log := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))

	log.Info("initializing storepulse",
		"addr", cfg.Addr,
		"demo_mode", cfg.DemoMode,
	)

	policy, err := config.LoadPolicy(servePolicyPath)
	if err != nil {
		return err
	}

	var tax *taxonomy.Taxonomy
	switch {
	case serveWeightsPath != "" && serveScorecardPath != "":
		tax, err = loadTaxonomy(serveWeightsPath, serveScorecardPath)
	case cfg.DemoMode:
		tax, err = seeder.DemoTaxonomy()
	default:
		return fmt.Errorf("--weights and --scorecard are required outside demo mode")
	}
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	m := metrics.New()

	var (
		directory registry.Directory
		evals     evalstore.Store
		plans     planstore.Store
	)
	if cfg.DemoMode || cfg.DatabaseURL == "" {
		directory = registry.NewInMemoryDirectory()
		evals = evalstore.NewInMemoryStore()
		plans = planstore.NewInMemoryStore()
		log.Info("using in-memory stores")
	} else {
		pool, err := openPool(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close() //nolint:errcheck // process is exiting
		directory = registry.NewPostgresDirectory(pool.DB())
		evals = evalstore.NewPostgresStore(pool.DB())
		plans = planstore.NewPostgresStore(pool.DB())
		log.Info("connected to database")
	}

	if serveRegistryPath != "" {
		stats, err := loadRegistry(ctx, directory, serveRegistryPath)
		if err != nil {
			return err
		}
		log.Info("store registry loaded",
			"regions", stats.Regions,
			"branches", stats.Branches,
			"stores", stats.Stores,
			"skipped", stats.Skipped,
		)
	}

	auditor := audit.NewPublisher(audit.NewInMemoryStore(),
		audit.WithAsyncBuffer(256),
		audit.WithPublisherLogger(log),
	)
	defer auditor.Close()

	gen := plangen.New(plans, evals, policy, log, m, auditor)
	ingestSvc := ingest.NewService(directory, evals, gen, tax, policy, log,
		ingest.WithMetrics(m),
		ingest.WithTracer(tracer.NewOTel()),
	)
	auditSvc := reconcile.New(tax, policy, log,
		reconcile.WithMetrics(m),
		reconcile.WithTracer(tracer.NewOTel()),
	)
	planSvc := planservice.NewService(plans, directory, auditor, log,
		planservice.WithMetrics(m),
	)

	if cfg.DemoMode {
		if err := seeder.New(directory, evals, plans, gen, log).SeedAll(ctx); err != nil {
			return err
		}
	}

	handler := httptransport.NewHandler(
		planhandler.New(planSvc, log),
		evalhandler.New(evals, log),
		ingestSvc,
		auditSvc,
		log,
	)
	router := httptransport.NewRouter(handler, []byte(cfg.JWTSigningKey), log, m)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("server stopped")
	return nil
}
