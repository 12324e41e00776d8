// Package store persists ledger transactions in PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row from the scanner.
// Expected column order: id, owner_id, kind, description, category, amount_cents, occurred_on, created_at, updated_at
func scanTransaction(s scanner) (transaction.Transaction, error) {
	var (
		tx          transaction.Transaction
		kind, cat   string
		amountCents int64
		occurredOn  time.Time
	)

	if err := s.Scan(
		&tx.ID, &tx.OwnerID, &kind, &tx.Description, &cat, &amountCents, &occurredOn,
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return transaction.Transaction{}, err
	}

	tx.Kind = transaction.Kind(kind)
	tx.Category = transaction.Category(cat)
	tx.Amount = transaction.FromCents(amountCents)
	tx.OccurredOn = transaction.DateOf(occurredOn)
	tx.CreatedAt = tx.CreatedAt.UTC()
	tx.UpdatedAt = tx.UpdatedAt.UTC()

	return tx, nil
}

const selectTransactionColumns = `
	id, owner_id, kind, description, category, amount_cents, occurred_on, created_at, updated_at
`

func (s *Store) PersistCreate(ctx context.Context, tx transaction.Transaction) error {
	query := `
		INSERT INTO transactions (id, owner_id, kind, description, category, amount_cents, occurred_on, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query,
		tx.ID,
		tx.OwnerID,
		tx.Kind,
		tx.Description,
		tx.Category,
		transaction.Cents(tx.Amount),
		transaction.FormatDate(tx.OccurredOn),
		tx.CreatedAt,
		tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) PersistUpdate(ctx context.Context, id uuid.UUID, patch transaction.Patch) error {
	sets, args := patchColumns(patch)
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE transactions
		SET %s, updated_at = GREATEST(NOW(), created_at)
		WHERE id = $%d
	`, strings.Join(sets, ", "), len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	return expectRow(res, id)
}

// patchColumns returns the SET assignments and their positional arguments.
func patchColumns(p transaction.Patch) ([]string, []any) {
	var (
		sets []string
		args []any
	)

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Kind != nil {
		add("kind", *p.Kind)
	}

	if p.Description != nil {
		add("description", *p.Description)
	}

	if p.Category != nil {
		add("category", *p.Category)
	}

	if p.Amount != nil {
		add("amount_cents", transaction.Cents(*p.Amount))
	}

	if p.OccurredOn != nil {
		args = append(args, transaction.FormatDate(*p.OccurredOn))
		sets = append(sets, fmt.Sprintf("occurred_on = $%d::date", len(args)))
	}

	return sets, args
}

func (s *Store) PersistDelete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return expectRow(res, id)
}

// LoadAll returns every transaction of the owner in insertion order.
func (s *Store) LoadAll(ctx context.Context, ownerID string) ([]transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE owner_id = $1
		ORDER BY seq ASC`

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
