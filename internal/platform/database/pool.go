// Package database manages the shared Postgres connection pool.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
	defaultPingTimeout     = 5 * time.Second
)

type settings struct {
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
	pingTimeout     time.Duration
}

// Option adjusts pool sizing before the first connection is made.
type Option func(*settings)

// WithMaxConns bounds the open and idle connection counts. Zero or negative
// values keep the defaults.
func WithMaxConns(open, idle int) Option {
	return func(s *settings) {
		if open > 0 {
			s.maxOpenConns = open
		}
		if idle > 0 {
			s.maxIdleConns = idle
		}
	}
}

// WithConnLifetime caps how long a pooled connection is reused.
func WithConnLifetime(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.connMaxLifetime = d
		}
	}
}

// Pool wraps a *sql.DB sized for the application's workload.
type Pool struct {
	db *sql.DB
}

// Connect opens a pool against url and verifies connectivity with one ping.
// An empty url returns a nil pool so callers can fall back to in-memory
// stores.
func Connect(ctx context.Context, url string, opts ...Option) (*Pool, error) {
	if url == "" {
		return nil, nil
	}

	s := settings{
		maxOpenConns:    defaultMaxOpenConns,
		maxIdleConns:    defaultMaxIdleConns,
		connMaxLifetime: defaultConnMaxLifetime,
		pingTimeout:     defaultPingTimeout,
	}
	for _, opt := range opts {
		opt(&s)
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(s.maxOpenConns)
	db.SetMaxIdleConns(s.maxIdleConns)
	db.SetConnMaxLifetime(s.connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, s.pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{db: db}, nil
}

// DB returns the underlying *sql.DB for query operations.
func (p *Pool) DB() *sql.DB {
	return p.db
}

// Health reports whether the database is reachable.
func (p *Pool) Health(ctx context.Context) error {
	if p == nil || p.db == nil {
		return fmt.Errorf("database not configured")
	}
	return p.db.PingContext(ctx)
}

// Close releases all pooled connections. Safe on a nil pool.
func (p *Pool) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}

// Stats exposes the pool counters for diagnostics.
func (p *Pool) Stats() sql.DBStats {
	if p == nil || p.db == nil {
		return sql.DBStats{}
	}
	return p.db.Stats()
}
