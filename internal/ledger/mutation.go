package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	applog "github.com/MrJamesThe3rd/saldo/internal/log"
	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

// Phase is the lifecycle position of a single mutation.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseApplied    Phase = "optimistically_applied"
	PhasePersisting Phase = "persisting"
	PhaseCommitted  Phase = "committed"
	PhaseRolledBack Phase = "rolled_back"
	PhaseRejected   Phase = "rejected"
)

// Terminal reports whether no further transition follows p.
func (p Phase) Terminal() bool {
	return p == PhaseCommitted || p == PhaseRolledBack || p == PhaseRejected
}

// Op names a mutating ledger operation.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event describes a mutation that reached a terminal phase.
// Transaction is the value the mutation committed, or tried to.
type Event struct {
	Op          Op
	Phase       Phase
	OwnerID     string
	Transaction transaction.Transaction
	Err         error
	At          time.Time
}

type mutation struct {
	ctx   context.Context
	store *Store
	op    Op
	phase Phase
	tx    transaction.Transaction
}

func (s *Store) begin(ctx context.Context, op Op) *mutation {
	m := &mutation{ctx: ctx, store: s, op: op, phase: PhaseIdle}
	m.advance(PhaseValidating)

	return m
}

func (m *mutation) advance(p Phase) {
	m.phase = p
	m.store.logger.DebugContext(m.ctx, "ledger mutation", applog.FieldOperation, m.op, applog.FieldPhase, p, applog.FieldOwner, m.store.owner)
}

func (m *mutation) reject(err error) error {
	m.advance(PhaseRejected)

	level := slog.LevelInfo
	if !errors.Is(err, transaction.ErrValidation) && !errors.Is(err, transaction.ErrNotFound) {
		level = slog.LevelWarn
	}

	m.store.logger.Log(m.ctx, level, "ledger mutation rejected", applog.FieldOperation, m.op, applog.FieldOwner, m.store.owner, applog.FieldError, err)
	m.finish(err)

	return err
}

func (m *mutation) rollback(err error) error {
	m.advance(PhaseRolledBack)
	m.store.logger.WarnContext(m.ctx, "ledger mutation rolled back",
		applog.FieldOperation, m.op, applog.FieldOwner, m.store.owner, applog.FieldTransaction, m.tx.ID, applog.FieldError, err)
	m.finish(err)

	return err
}

func (m *mutation) commit() {
	m.advance(PhaseCommitted)
	m.finish(nil)
}

func (m *mutation) finish(err error) {
	e := Event{Op: m.op, Phase: m.phase, OwnerID: m.store.owner, Transaction: m.tx, Err: err, At: m.store.now()}

	for _, o := range m.store.observers {
		o.Observe(m.ctx, e)
	}
}
