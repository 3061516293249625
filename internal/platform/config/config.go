package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Server captures process-level configuration sourced from the environment.
type Server struct {
	Addr          string
	DatabaseURL   string
	JWTSigningKey string
	LogLevel      string
	DemoMode      bool // run against in-memory stores with seeded data

	// Connection pool sizing, applied when DatabaseURL is set.
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnLifetime time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("STOREPULSE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	logLevel := os.Getenv("STOREPULSE_LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return Server{
		Addr:           addr,
		DatabaseURL:    os.Getenv("STOREPULSE_DATABASE_URL"),
		JWTSigningKey:  jwtSigningKey,
		LogLevel:       logLevel,
		DemoMode:       os.Getenv("STOREPULSE_DEMO_MODE") == "true",
		DBMaxOpenConns: envInt("STOREPULSE_DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: envInt("STOREPULSE_DB_MAX_IDLE_CONNS", 5),
		DBConnLifetime: envDuration("STOREPULSE_DB_CONN_LIFETIME", 5*time.Minute),
	}
}

// envInt reads a positive integer from the environment, falling back on
// absent or unparseable values.
func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Policy holds the scoring and remediation policy. Loaded once by the caller
// and treated as read-only for the duration of a run; the engine never
// mutates it.
type Policy struct {
	// TargetScore is the section score below which an action plan is opened.
	TargetScore float64 `yaml:"target_score"`
	// RemediationWindow is added to the wave end date to produce the due date.
	RemediationWindow Duration `yaml:"remediation_window"`
	// Tolerance is the maximum computed-vs-authoritative divergence accepted
	// without a reconciliation warning, in score points.
	Tolerance float64 `yaml:"tolerance"`
	// Workers bounds the per-store scoring fan-out during ingestion.
	Workers int `yaml:"workers"`
	// Recurrence configures failed-item recurrence tagging.
	Recurrence RecurrencePolicy `yaml:"recurrence"`
}

// RecurrencePolicy controls how a failed item is classified against the
// store's failure history. The exact thresholds were never pinned down by
// the business, so they live in configuration rather than code.
type RecurrencePolicy struct {
	// RecurringAfter is the number of consecutive prior waves an item must
	// have failed in to be tagged Recurring.
	RecurringAfter int `yaml:"recurring_after"`
	// LookbackWaves is how many prior waves are considered for the
	// Inconsistent tag (failed in some but not all of them).
	LookbackWaves int `yaml:"lookback_waves"`
}

// DefaultPolicy mirrors the national program defaults.
func DefaultPolicy() Policy {
	return Policy{
		TargetScore:       90,
		RemediationWindow: Duration(14 * 24 * time.Hour),
		Tolerance:         0.1,
		Workers:           4,
		Recurrence: RecurrencePolicy{
			RecurringAfter: 2,
			LookbackWaves:  3,
		},
	}
}

// LoadPolicy reads a YAML policy file, filling any zero field with the
// default. A missing path returns the defaults untouched.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return policy, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("read policy file: %w", err)
	}
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("parse policy file: %w", err)
	}
	if policy.TargetScore <= 0 {
		policy.TargetScore = DefaultPolicy().TargetScore
	}
	if policy.RemediationWindow <= 0 {
		policy.RemediationWindow = DefaultPolicy().RemediationWindow
	}
	if policy.Tolerance <= 0 {
		policy.Tolerance = DefaultPolicy().Tolerance
	}
	if policy.Workers <= 0 {
		policy.Workers = DefaultPolicy().Workers
	}
	if policy.Recurrence.RecurringAfter <= 0 {
		policy.Recurrence.RecurringAfter = DefaultPolicy().Recurrence.RecurringAfter
	}
	if policy.Recurrence.LookbackWaves <= 0 {
		policy.Recurrence.LookbackWaves = DefaultPolicy().Recurrence.LookbackWaves
	}
	return policy, nil
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts to a standard time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }
