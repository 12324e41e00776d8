// Package memory keeps ledger transactions in process memory, optionally mirrored
// to a JSON file so they survive a restart.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

type Store struct {
	mu    sync.Mutex
	path  string
	items []transaction.Transaction
	now   func() time.Time
}

// New returns an empty store that lives only as long as the process.
func New() *Store {
	return &Store{now: time.Now}
}

// Open returns a store mirrored to the JSON file at path, loading it if it exists.
func Open(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	for _, r := range records {
		tx, err := r.transaction()
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}

		s.items = append(s.items, tx)
	}

	return s, nil
}

func (s *Store) PersistCreate(_ context.Context, tx transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(tx.ID) >= 0 {
		return fmt.Errorf("transaction %s already exists", tx.ID)
	}

	return s.commit(append(slices.Clone(s.items), tx))
}

func (s *Store) PersistUpdate(_ context.Context, id uuid.UUID, patch transaction.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return transaction.NotFound(id)
	}

	next := slices.Clone(s.items)
	next[i] = transaction.Revise(next[i], patch.Apply(next[i]), s.now())

	return s.commit(next)
}

func (s *Store) PersistDelete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return transaction.NotFound(id)
	}

	return s.commit(slices.Delete(slices.Clone(s.items), i, i+1))
}

func (s *Store) LoadAll(_ context.Context, ownerID string) ([]transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []transaction.Transaction

	for _, tx := range s.items {
		if tx.OwnerID == ownerID {
			out = append(out, tx)
		}
	}

	return out, nil
}

// commit must be called with mu held. The in-memory state only changes once the
// file, if any, has been written.
func (s *Store) commit(next []transaction.Transaction) error {
	if s.path != "" {
		if err := s.flush(next); err != nil {
			return err
		}
	}

	s.items = next

	return nil
}

func (s *Store) flush(items []transaction.Transaction) error {
	records := make([]record, len(items))
	for i, tx := range items {
		records[i] = recordOf(tx)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding transactions: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}

	return nil
}

func (s *Store) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.items, func(tx transaction.Transaction) bool { return tx.ID == id })
}

// record is the on-disk shape of a transaction. Amounts are decimal strings and
// dates are YYYY-MM-DD so neither drifts on a round trip.
type record struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredOn  string          `json:"occurred_on"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func recordOf(tx transaction.Transaction) record {
	return record{
		ID:          tx.ID,
		OwnerID:     tx.OwnerID,
		Kind:        string(tx.Kind),
		Description: tx.Description,
		Category:    string(tx.Category),
		Amount:      tx.Amount,
		OccurredOn:  transaction.FormatDate(tx.OccurredOn),
		CreatedAt:   tx.CreatedAt.UTC(),
		UpdatedAt:   tx.UpdatedAt.UTC(),
	}
}

func (r record) transaction() (transaction.Transaction, error) {
	date, err := transaction.ParseDate(r.OccurredOn)
	if err != nil {
		return transaction.Transaction{}, fmt.Errorf("transaction %s: occurred_on: %w", r.ID, err)
	}

	return transaction.Transaction{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Kind:        transaction.Kind(r.Kind),
		Description: r.Description,
		Category:    transaction.Category(r.Category),
		Amount:      r.Amount,
		OccurredOn:  date,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}
