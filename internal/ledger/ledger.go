// Package ledger owns the in-memory working set of one user's transactions and
// mediates every mutation against a durable store.
//
// Each mutation validates its input, applies the change to memory so readers see it
// immediately, then persists it. If persisting fails the ledger is restored to the
// exact snapshot it had before the mutation started.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

//go:generate mockgen -source=ledger.go -destination=persistence_mock.go -package=ledger
type Persistence interface {
	PersistCreate(ctx context.Context, tx transaction.Transaction) error
	PersistUpdate(ctx context.Context, id uuid.UUID, patch transaction.Patch) error
	PersistDelete(ctx context.Context, id uuid.UUID) error
	LoadAll(ctx context.Context, ownerID string) ([]transaction.Transaction, error)
}

// Observer is told about every mutation once it reaches a terminal phase.
type Observer interface {
	Observe(ctx context.Context, e Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, e Event)

func (f ObserverFunc) Observe(ctx context.Context, e Event) { f(ctx, e) }

type Store struct {
	owner   string
	persist Persistence

	now            func() time.Time
	newID          func() uuid.UUID
	logger         *slog.Logger
	observers      []Observer
	persistTimeout time.Duration

	// mutating serializes mutations for their whole lifetime, persistence included.
	mutating sync.Mutex

	mu    sync.RWMutex
	items []transaction.Transaction
	ids   map[uuid.UUID]struct{} // every id ever held, so none is reused
}

// Option configures a Store.
type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(s *Store) { s.newID = gen }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithObserver(o Observer) Option {
	return func(s *Store) { s.observers = append(s.observers, o) }
}

// WithPersistTimeout bounds each persistence call. Expiry is reported as a
// persistence failure and rolls the mutation back.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) { s.persistTimeout = d }
}

// New creates a ledger for ownerID seeded with initial. The initial snapshot must
// satisfy every transaction rule and belong to ownerID.
func New(ownerID string, initial []transaction.Transaction, p Persistence, opts ...Option) (*Store, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner id is required")
	}

	if p == nil {
		return nil, fmt.Errorf("persistence is required")
	}

	s := &Store{
		owner:   ownerID,
		persist: p,
		now:     time.Now,
		newID:   uuid.New,
		logger:  slog.Default(),
		items:   make([]transaction.Transaction, 0, len(initial)),
		ids:     make(map[uuid.UUID]struct{}, len(initial)),
	}

	for _, opt := range opts {
		opt(s)
	}

	for _, tx := range initial {
		if err := transaction.ValidateTransaction(tx); err != nil {
			return nil, fmt.Errorf("initial snapshot: transaction %s: %w", tx.ID, err)
		}

		if tx.OwnerID != ownerID {
			return nil, fmt.Errorf("initial snapshot: transaction %s belongs to another owner", tx.ID)
		}

		if _, dup := s.ids[tx.ID]; dup {
			return nil, fmt.Errorf("initial snapshot: duplicate transaction id %s", tx.ID)
		}

		s.ids[tx.ID] = struct{}{}
		s.items = append(s.items, tx)
	}

	return s, nil
}

// Load hydrates a ledger for ownerID from the persistence adapter.
func Load(ctx context.Context, ownerID string, p Persistence, opts ...Option) (*Store, error) {
	if p == nil {
		return nil, fmt.Errorf("persistence is required")
	}

	txs, err := p.LoadAll(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	return New(ownerID, txs, p, opts...)
}

// Owner returns the id of the user this ledger belongs to.
func (s *Store) Owner() string { return s.owner }

// List returns a copy of the ledger in insertion order.
func (s *Store) List() []transaction.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.items)
}

// Len returns the number of transactions in the ledger.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// Get returns a copy of the transaction with the given id.
func (s *Store) Get(id uuid.UUID) (transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return transaction.Transaction{}, transaction.NotFound(id)
	}

	return s.items[i], nil
}

// Create validates c, appends it to the ledger and persists it.
// An empty owner on c means the ledger's owner.
func (s *Store) Create(ctx context.Context, c transaction.Candidate) (transaction.Transaction, error) {
	s.mutating.Lock()
	defer s.mutating.Unlock()

	m := s.begin(ctx, OpCreate)

	if c.OwnerID == "" {
		c.OwnerID = s.owner
	}

	valid, err := transaction.Validate(c)
	if err == nil && valid.OwnerID != s.owner {
		err = &transaction.ValidationError{Violations: []transaction.Violation{ownerViolation}}
	}

	if err != nil {
		return transaction.Transaction{}, m.reject(err)
	}

	tx := transaction.Assign(valid, s.nextID(), s.now())

	s.mu.RLock()
	next := append(slices.Clone(s.items), tx)
	s.mu.RUnlock()

	m.tx = tx

	err = s.apply(ctx, m, next, func(ctx context.Context) error {
		return s.persist.PersistCreate(ctx, tx)
	})
	if err != nil {
		return transaction.Transaction{}, err
	}

	s.mu.Lock()
	s.ids[tx.ID] = struct{}{}
	s.mu.Unlock()

	return tx, nil
}

// Update merges patch over the transaction with the given id and persists the change.
func (s *Store) Update(ctx context.Context, id uuid.UUID, patch transaction.Patch) (transaction.Transaction, error) {
	s.mutating.Lock()
	defer s.mutating.Unlock()

	m := s.begin(ctx, OpUpdate)

	s.mu.RLock()
	i := s.indexOf(id)

	var current transaction.Transaction
	if i >= 0 {
		current = s.items[i]
	}
	s.mu.RUnlock()

	if i < 0 {
		return transaction.Transaction{}, m.reject(transaction.NotFound(id))
	}

	m.tx = current

	if patch.IsEmpty() {
		return transaction.Transaction{}, m.reject(&transaction.ValidationError{Violations: []transaction.Violation{emptyPatchViolation}})
	}

	if patch.OccurredOn != nil {
		d := transaction.DateOf(*patch.OccurredOn)
		patch.OccurredOn = &d
	}

	merged, err := transaction.Validate(patch.Apply(current))
	if err != nil {
		return transaction.Transaction{}, m.reject(err)
	}

	updated := transaction.Revise(current, merged, s.now())
	m.tx = updated

	s.mu.RLock()
	next := slices.Clone(s.items)
	s.mu.RUnlock()

	next[i] = updated

	err = s.apply(ctx, m, next, func(ctx context.Context) error {
		return s.persist.PersistUpdate(ctx, id, patch)
	})
	if err != nil {
		return transaction.Transaction{}, err
	}

	return updated, nil
}

// Delete removes the transaction with the given id. A missing id is an error.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	s.mutating.Lock()
	defer s.mutating.Unlock()

	m := s.begin(ctx, OpDelete)

	s.mu.RLock()
	i := s.indexOf(id)

	var next []transaction.Transaction
	if i >= 0 {
		m.tx = s.items[i]
		next = slices.Delete(slices.Clone(s.items), i, i+1)
	}
	s.mu.RUnlock()

	if i < 0 {
		return m.reject(transaction.NotFound(id))
	}

	return s.apply(ctx, m, next, func(ctx context.Context) error {
		return s.persist.PersistDelete(ctx, id)
	})
}

// apply swaps in next, persists, and restores the previous snapshot on failure.
func (s *Store) apply(ctx context.Context, m *mutation, next []transaction.Transaction, persist func(context.Context) error) error {
	s.mu.Lock()
	prev := s.items
	s.items = next
	s.mu.Unlock()

	m.advance(PhaseApplied)
	m.advance(PhasePersisting)

	pctx := context.WithoutCancel(ctx)
	if s.persistTimeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(pctx, s.persistTimeout)
		defer cancel()
	}

	if err := persist(pctx); err != nil {
		s.mu.Lock()
		s.items = prev
		s.mu.Unlock()

		return m.rollback(&transaction.PersistenceError{Op: string(m.op), Err: err})
	}

	m.commit()

	return nil
}

func (s *Store) nextID() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := s.newID()
		if _, used := s.ids[id]; !used && id != uuid.Nil {
			return id
		}
	}
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.items, func(tx transaction.Transaction) bool {
		return tx.ID == id
	})
}

var (
	ownerViolation = transaction.Violation{
		Field:   "owner_id",
		Rule:    transaction.RuleOwner,
		Message: "transaction belongs to another owner",
	}
	emptyPatchViolation = transaction.Violation{
		Field:   "patch",
		Rule:    transaction.RuleRequired,
		Message: "nothing to update",
	}
)
