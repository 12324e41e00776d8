package backend_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/saldo/internal/backend"
	"github.com/MrJamesThe3rd/saldo/internal/ledger"
	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

func TestConfig_Validate(t *testing.T) {
	type testCase struct {
		name    string
		cfg     backend.Config
		wantErr string
	}

	tests := []testCase{
		{name: "Memory", cfg: backend.Config{Type: backend.Memory}},
		{name: "SQLite", cfg: backend.Config{Type: backend.SQLite, SQLitePath: "saldo.db"}},
		{name: "SQLiteWithoutPath", cfg: backend.Config{Type: backend.SQLite}, wantErr: "sqlite path"},
		{name: "PostgresWithoutURL", cfg: backend.Config{Type: backend.Postgres}, wantErr: "postgres connection string"},
		{name: "FileWithoutPath", cfg: backend.Config{Type: backend.File}, wantErr: "data file"},
		{name: "Unknown", cfg: backend.Config{Type: "sheets"}, wantErr: "invalid backend type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestOpen_LocalBackends(t *testing.T) {
	dir := t.TempDir()

	configs := map[string]backend.Config{
		"memory": {Type: backend.Memory},
		"sqlite": {Type: backend.SQLite, SQLitePath: filepath.Join(dir, "saldo.db")},
		"file":   {Type: backend.File, DataFile: filepath.Join(dir, "ledger.json")},
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			res, err := backend.Open(ctx, cfg, nil)
			require.NoError(t, err)
			t.Cleanup(func() { assert.NoError(t, res.Cleanup()) })

			l, err := ledger.Load(ctx, "user-1", res.Ledger)
			require.NoError(t, err)

			_, err = l.Create(ctx, transaction.Candidate{
				Kind:        transaction.KindExpense,
				Description: "Groceries",
				Category:    transaction.CategoryFood,
				Amount:      decimal.RequireFromString("42.10"),
				OccurredOn:  transaction.Date(2024, 1, 10),
			})
			require.NoError(t, err)

			got, err := res.Ledger.LoadAll(ctx, "user-1")
			require.NoError(t, err)
			assert.Len(t, got, 1)
			assert.NotNil(t, res.Rules)
		})
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	_, err := backend.Open(context.Background(), backend.Config{Type: "nope"}, nil)
	assert.Error(t, err)
}
