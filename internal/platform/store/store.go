// Package store opens and owns the durable storage handles used by the
// services: an embedded sqlite database by default, optionally a Postgres
// pool for multi-instance deployments and a ClickHouse connection for the
// verdict audit stream
package store

import (
	"context"
	"database/sql"
	"errors"

	"codewarden/internal/platform/logger"
	"codewarden/internal/platform/store/ch"
	"codewarden/internal/platform/store/pg"

	_ "modernc.org/sqlite"
)

// SQLiteConfig configures the embedded sqlite database
type SQLiteConfig struct {
	Enabled bool
	Path    string
}

// PGConfig configures the optional Postgres pool
type PGConfig struct {
	Enabled  bool
	URL      string
	MaxConns int32
}

// CHConfig configures the optional ClickHouse audit connection
type CHConfig struct {
	Enabled bool
	URL     string
}

// Config selects which stores to open
type Config struct {
	SQLite SQLiteConfig
	PG     PGConfig
	CH     CHConfig
}

// Store holds the open storage handles; unopened handles are nil
type Store struct {
	SQL *sql.DB
	PG  *pg.PG
	CH  *ch.CH

	log logger.Logger
}

// Option mutates the Store during Open
type Option func(*Store)

// WithLogger attaches a logger used for store lifecycle messages
func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open opens the configured stores; any single failure closes the rest
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{log: *logger.Named("store")}
	for _, o := range opts {
		o(s)
	}

	if cfg.SQLite.Enabled {
		db, err := openSQLite(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		s.SQL = db
		s.log.Debug().Str("path", cfg.SQLite.Path).Msg("sqlite open")
	}

	if cfg.PG.Enabled {
		p, err := pg.Open(ctx, pg.Config{URL: cfg.PG.URL, MaxConns: cfg.PG.MaxConns})
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.PG = p
		s.log.Debug().Msg("postgres pool open")
	}

	if cfg.CH.Enabled {
		c, err := ch.Open(ctx, ch.Config{URL: cfg.CH.URL})
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.CH = c
		s.log.Debug().Msg("clickhouse open")
	}

	return s, nil
}

// openSQLite opens the file with the pragmas every handle needs
func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("store: sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

// Close closes every open handle, joining errors
func (s *Store) Close(ctx context.Context) error {
	var errs []error
	if s.SQL != nil {
		if err := s.SQL.Close(); err != nil {
			errs = append(errs, err)
		}
		s.SQL = nil
	}
	if s.PG != nil {
		s.PG.Close()
		s.PG = nil
	}
	if s.CH != nil {
		if err := s.CH.Close(); err != nil {
			errs = append(errs, err)
		}
		s.CH = nil
	}
	return errors.Join(errs...)
}
