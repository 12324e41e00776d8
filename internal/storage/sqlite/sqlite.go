// Package sqlite persists ledger transactions in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// timeLayout sorts lexically in the same order as the instants it encodes.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates the database file if needed, migrates it and returns a Store.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	if err := runMigrations(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)

	return &Store{db: db, now: time.Now}, nil
}

func runMigrations(path string) error {
	mdb, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening migration database: %w", err)
	}

	driver, err := sqlitemigrate.WithInstance(mdb, &sqlitemigrate.Config{})
	if err != nil {
		mdb.Close()
		return fmt.Errorf("creating sqlite migration driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		mdb.Close()
		return fmt.Errorf("opening migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		mdb.Close()
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) PersistCreate(ctx context.Context, tx transaction.Transaction) error {
	query := `
		INSERT INTO transactions (id, owner_id, kind, description, category, amount_cents, occurred_on, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		tx.ID.String(),
		tx.OwnerID,
		string(tx.Kind),
		tx.Description,
		string(tx.Category),
		transaction.Cents(tx.Amount),
		transaction.FormatDate(tx.OccurredOn),
		formatTime(tx.CreatedAt),
		formatTime(tx.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) PersistUpdate(ctx context.Context, id uuid.UUID, patch transaction.Patch) error {
	var (
		sets []string
		args []any
	)

	if patch.Kind != nil {
		sets, args = append(sets, "kind = ?"), append(args, string(*patch.Kind))
	}

	if patch.Description != nil {
		sets, args = append(sets, "description = ?"), append(args, *patch.Description)
	}

	if patch.Category != nil {
		sets, args = append(sets, "category = ?"), append(args, string(*patch.Category))
	}

	if patch.Amount != nil {
		sets, args = append(sets, "amount_cents = ?"), append(args, transaction.Cents(*patch.Amount))
	}

	if patch.OccurredOn != nil {
		sets, args = append(sets, "occurred_on = ?"), append(args, transaction.FormatDate(*patch.OccurredOn))
	}

	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = MAX(?, created_at)")
	args = append(args, formatTime(s.now()), id.String())

	query := `UPDATE transactions SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	return expectRow(res, id)
}

func (s *Store) PersistDelete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return expectRow(res, id)
}

// LoadAll returns every transaction of the owner in insertion order.
func (s *Store) LoadAll(ctx context.Context, ownerID string) ([]transaction.Transaction, error) {
	query := `
		SELECT id, owner_id, kind, description, category, amount_cents, occurred_on, created_at, updated_at
		FROM transactions
		WHERE owner_id = ?
		ORDER BY rowid ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func scanTransaction(rows *sql.Rows) (transaction.Transaction, error) {
	var (
		tx                            transaction.Transaction
		id, kind, cat                 string
		amountCents                   int64
		occurredOn, created, modified string
	)

	if err := rows.Scan(&id, &tx.OwnerID, &kind, &tx.Description, &cat, &amountCents, &occurredOn, &created, &modified); err != nil {
		return transaction.Transaction{}, err
	}

	var err error

	if tx.ID, err = uuid.Parse(id); err != nil {
		return transaction.Transaction{}, fmt.Errorf("parsing id %q: %w", id, err)
	}

	if tx.OccurredOn, err = transaction.ParseDate(occurredOn); err != nil {
		return transaction.Transaction{}, fmt.Errorf("parsing occurred_on %q: %w", occurredOn, err)
	}

	if tx.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return transaction.Transaction{}, fmt.Errorf("parsing created_at %q: %w", created, err)
	}

	if tx.UpdatedAt, err = time.Parse(timeLayout, modified); err != nil {
		return transaction.Transaction{}, fmt.Errorf("parsing updated_at %q: %w", modified, err)
	}

	tx.Kind = transaction.Kind(kind)
	tx.Category = transaction.Category(cat)
	tx.Amount = transaction.FromCents(amountCents)

	return tx, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func expectRow(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return transaction.NotFound(id)
	}

	return nil
}
