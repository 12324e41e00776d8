// Package backend picks the single persistence adapter a process runs on.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/saldo/internal/categorize"
	rulestore "github.com/MrJamesThe3rd/saldo/internal/categorize/store"
	"github.com/MrJamesThe3rd/saldo/internal/database"
	"github.com/MrJamesThe3rd/saldo/internal/ledger"
	"github.com/MrJamesThe3rd/saldo/internal/storage/memory"
	"github.com/MrJamesThe3rd/saldo/internal/storage/sqlite"
	txstore "github.com/MrJamesThe3rd/saldo/internal/transaction/store"
)

type Type string

const (
	Postgres Type = "postgres"
	SQLite   Type = "sqlite"
	Memory   Type = "memory"
	File     Type = "file"
)

func Types() []Type {
	return []Type{Postgres, SQLite, Memory, File}
}

func (t Type) IsValid() bool {
	switch t {
	case Postgres, SQLite, Memory, File:
		return true
	}

	return false
}

func (t Type) String() string {
	return string(t)
}

type Config struct {
	Type        Type
	PostgresURL string
	SQLitePath  string
	DataFile    string
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %q", c.Type)
	}

	switch c.Type {
	case Postgres:
		if c.PostgresURL == "" {
			return errors.New("postgres connection string is required for postgres backend")
		}
	case SQLite:
		if c.SQLitePath == "" {
			return errors.New("sqlite path is required for sqlite backend")
		}
	case File:
		if c.DataFile == "" {
			return errors.New("data file is required for file backend")
		}
	}

	return nil
}

// Result bundles the adapters of one backend. Cleanup is never nil.
type Result struct {
	Ledger  ledger.Persistence
	Rules   categorize.Repository
	Cleanup func() error
}

func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Type {
	case Postgres:
		return openPostgres(ctx, cfg, logger)
	case SQLite:
		return openSQLite(cfg, logger)
	case File:
		return openFile(cfg, logger)
	default:
		logger.Info("initialized memory backend")

		return &Result{
			Ledger:  memory.New(),
			Rules:   categorize.NewMemoryRepository(),
			Cleanup: noop,
		}, nil
	}
}

func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*Result, error) {
	if err := database.Migrate(cfg.PostgresURL); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	db, err := database.New(cfg.PostgresURL)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.Info("initialized postgres backend")

	return &Result{
		Ledger:  txstore.New(db),
		Rules:   rulestore.New(db),
		Cleanup: db.Close,
	}, nil
}

func openSQLite(cfg Config, logger *slog.Logger) (*Result, error) {
	s, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite backend: %w", err)
	}

	logger.Info("initialized sqlite backend", "path", cfg.SQLitePath)

	return &Result{Ledger: s, Rules: s, Cleanup: s.Close}, nil
}

func openFile(cfg Config, logger *slog.Logger) (*Result, error) {
	s, err := memory.Open(cfg.DataFile)
	if err != nil {
		return nil, fmt.Errorf("opening file backend: %w", err)
	}

	logger.Info("initialized file backend", "path", cfg.DataFile)

	return &Result{
		Ledger:  s,
		Rules:   categorize.NewMemoryRepository(),
		Cleanup: noop,
	}, nil
}

func noop() error { return nil }
