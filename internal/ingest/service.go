// Package ingest orchestrates scoring a raw wave export end to end:
// registry lookup, row scoring, evaluation upsert, plan generation.
package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"storepulse/internal/actionplan/generator"
	evalmodels "storepulse/internal/evaluation/models"
	evalstore "storepulse/internal/evaluation/store"
	"storepulse/internal/platform/config"
	"storepulse/internal/platform/metrics"
	"storepulse/internal/platform/tracer"
	"storepulse/internal/registry"
	"storepulse/internal/scoring"
	"storepulse/internal/taxonomy"
	dErrors "storepulse/pkg/domain-errors"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Directory

// Directory resolves a row's site code against the store registry.
// FindStoreByCode returns registry.ErrNotFound when the code is unknown.
type Directory interface {
	FindStoreByCode(ctx context.Context, code string) (*registry.Store, error)
}

// SkippedRow records one row excluded from the batch with the defect that
// excluded it. Skips are per-record and never abort the batch.
type SkippedRow struct {
	RowNumber int          `json:"row_number"` // 1-based data row index
	StoreCode string       `json:"store_code,omitempty"`
	Reason    dErrors.Code `json:"reason"`
	Detail    string       `json:"detail"`
}

// RowMismatch is a reconciliation warning attributed to its source row.
type RowMismatch struct {
	StoreCode string `json:"store_code"`
	scoring.Mismatch
}

// Report aggregates the outcome of one wave ingestion.
type Report struct {
	Wave         string        `json:"wave"`
	RowsScored   int           `json:"rows_scored"`
	Skipped      []SkippedRow  `json:"skipped,omitempty"`
	Mismatches   []RowMismatch `json:"mismatches,omitempty"`
	PlansCreated int           `json:"plans_created"`
	PlansSkipped int           `json:"plans_skipped"`
	Duration     time.Duration `json:"duration"`
}

type Option func(*Service)

// Service scores a wave export row by row and persists the evaluations.
type Service struct {
	directory Directory
	evals     evalstore.Store
	gen       *generator.Generator
	tax       *taxonomy.Taxonomy
	policy    config.Policy
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    tracer.Tracer
	now       func() time.Time
}

// NewService constructs the ingestion service. The generator may be nil,
// in which case ingestion only persists evaluations.
func NewService(directory Directory, evals evalstore.Store, gen *generator.Generator, tax *taxonomy.Taxonomy, policy config.Policy, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		directory: directory,
		evals:     evals,
		gen:       gen,
		tax:       tax,
		policy:    policy,
		logger:    logger,
		tracer:    tracer.NewNoop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer for ingestion spans.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// IngestWave scores every row of a wave export and upserts one evaluation
// per resolvable row. Re-ingesting the same export is idempotent. Rows with
// defects are skipped and reported; only infrastructure failures abort the
// batch. When the wave is the latest known one and a generator is wired,
// action plans are opened for the ingested evaluations.
func (s *Service) IngestWave(ctx context.Context, wave string, r io.Reader) (report *Report, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanIngestWave, tracer.String(tracer.AttrWave, wave))
	defer func() { span.End(err) }()

	started := s.now()
	if strings.TrimSpace(wave) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "wave name is required")
	}

	raw, err := ReadWave(r)
	if err != nil {
		return nil, err
	}

	report = &Report{Wave: wave}
	ingestedAt := s.now().UTC()

	var (
		mu       sync.Mutex
		ingested []*evalmodels.WaveEvaluation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.policy.Workers)
	for i, row := range raw.Rows {
		rowNumber, row := i+1, row
		g.Go(func() error {
			eval, skip := s.scoreRow(gctx, wave, raw, row, rowNumber, ingestedAt, report, &mu)
			if skip != nil || eval == nil {
				return nil
			}
			if err := s.evals.Upsert(gctx, eval); err != nil {
				return err
			}
			mu.Lock()
			report.RowsScored++
			ingested = append(ingested, eval)
			mu.Unlock()
			if s.metrics != nil {
				s.metrics.RowsScored.Inc()
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(report.Skipped, func(i, j int) bool { return report.Skipped[i].RowNumber < report.Skipped[j].RowNumber })
	sort.Slice(report.Mismatches, func(i, j int) bool { return report.Mismatches[i].StoreCode < report.Mismatches[j].StoreCode })

	if err = s.generatePlans(ctx, wave, ingested, report); err != nil {
		return nil, err
	}

	report.Duration = s.now().Sub(started)
	if s.metrics != nil {
		s.metrics.WavesIngested.Inc()
		s.metrics.IngestDuration.Observe(report.Duration.Seconds())
	}
	span.SetAttributes(
		tracer.Int(tracer.AttrRows, report.RowsScored),
		tracer.Int(tracer.AttrSkipped, len(report.Skipped)),
		tracer.Int(tracer.AttrMismatches, len(report.Mismatches)),
	)
	s.logger.Info("wave ingested",
		"wave", wave,
		"rows_scored", report.RowsScored,
		"rows_skipped", len(report.Skipped),
		"mismatches", len(report.Mismatches),
		"plans_created", report.PlansCreated,
		"duration", report.Duration.String(),
	)
	return report, nil
}

// scoreRow resolves and scores one row. A nil evaluation with a non-nil
// skip means the row was excluded; both nil means the row errored into the
// skip list already.
func (s *Service) scoreRow(ctx context.Context, wave string, raw *RawWave, row scoring.Row, rowNumber int, ingestedAt time.Time, report *Report, mu *sync.Mutex) (*evalmodels.WaveEvaluation, *SkippedRow) {
	skipRow := func(code, detail string, reason dErrors.Code) *SkippedRow {
		skipped := SkippedRow{RowNumber: rowNumber, StoreCode: code, Reason: reason, Detail: detail}
		mu.Lock()
		report.Skipped = append(report.Skipped, skipped)
		mu.Unlock()
		if s.metrics != nil {
			s.metrics.RecordRowSkipped(string(reason))
		}
		s.logger.Warn("row skipped", "wave", wave, "row", rowNumber, "store_code", code, "reason", string(reason), "detail", detail)
		return &skipped
	}

	code := strings.TrimSpace(row[raw.SiteCol])
	if code == "" {
		return nil, skipRow("", "row has no site code", dErrors.CodeLookupFailure)
	}

	store, err := s.directory.FindStoreByCode(ctx, code)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, skipRow(code, "site code not in store registry", dErrors.CodeLookupFailure)
		}
		return nil, skipRow(code, "registry lookup failed: "+err.Error(), dErrors.CodeLookupFailure)
	}

	result := scoring.ScoreRow(s.tax, raw.Header, row, s.policy.Tolerance)
	if result.Overall == nil {
		return nil, skipRow(code, "row has no scoreable content", dErrors.CodeParseDefect)
	}

	if len(result.Mismatches) > 0 {
		mu.Lock()
		for _, m := range result.Mismatches {
			report.Mismatches = append(report.Mismatches, RowMismatch{StoreCode: code, Mismatch: m})
		}
		mu.Unlock()
		if s.metrics != nil {
			for _, m := range result.Mismatches {
				s.metrics.ReconciliationMismatches.WithLabelValues(m.Scope).Inc()
			}
		}
	}

	sections := make([]evalmodels.SectionScore, 0, len(s.tax.Sections()))
	for _, sec := range s.tax.Sections() {
		score := result.Sections[sec.Letter].Score()
		if score != nil {
			rounded := scoring.Round2(*score)
			score = &rounded
		}
		sections = append(sections, evalmodels.SectionScore{Letter: sec.Letter, Name: sec.Name, Score: score})
	}

	return &evalmodels.WaveEvaluation{
		StoreID:      store.ID,
		Wave:         wave,
		OverallScore: scoring.Round2(*result.Overall),
		Sections:     sections,
		FailedItems:  result.FailedItems(s.tax),
		IngestedAt:   ingestedAt,
	}, nil
}

// generatePlans opens action plans when the ingested wave is the latest one
// known to the engine. Historical back-fills never open plans.
func (s *Service) generatePlans(ctx context.Context, wave string, ingested []*evalmodels.WaveEvaluation, report *Report) error {
	if s.gen == nil || len(ingested) == 0 {
		return nil
	}
	waves, err := s.evals.ListWaves(ctx)
	if err != nil {
		return err
	}
	if len(waves) == 0 || waves[len(waves)-1] != wave {
		s.logger.Info("skipping plan generation for historical wave", "wave", wave)
		return nil
	}

	waveEnd := s.now().UTC()
	for _, eval := range ingested {
		genReport, err := s.gen.Generate(ctx, eval, waveEnd)
		if err != nil {
			return err
		}
		report.PlansCreated += genReport.Created
		report.PlansSkipped += genReport.Skipped
	}
	return nil
}
