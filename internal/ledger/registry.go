package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"weak"

	"golang.org/x/sync/singleflight"

	"github.com/MrJamesThe3rd/saldo/internal/cache"
	applog "github.com/MrJamesThe3rd/saldo/internal/log"
)

// Registry hands out one ledger per owner, loading it on first use and dropping
// it after it has been idle for a while.
//
// An evicted ledger that is still referenced, for instance by a mutation that is
// persisting, is handed back instead of being loaded a second time.
type Registry struct {
	persist Persistence
	opts    []Option
	logger  *slog.Logger
	ledgers *cache.LRU[*Store]
	group   singleflight.Group

	mu      sync.Mutex
	retired map[string]weak.Pointer[Store]
}

// RegistryConfig bounds how many ledgers stay in memory and for how long.
type RegistryConfig struct {
	MaxLedgers int
	IdleTTL    time.Duration
}

func NewRegistry(p Persistence, cfg RegistryConfig, logger *slog.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		persist: p,
		opts:    append([]Option{WithLogger(logger)}, opts...),
		logger:  logger,
		retired: make(map[string]weak.Pointer[Store]),
	}

	r.ledgers = cache.NewLRU(cfg.MaxLedgers, cfg.IdleTTL, cache.WithEvictHook(func(owner string, s *Store) {
		r.retire(owner, s)
		r.logger.Debug("ledger unloaded", applog.FieldOwner, owner)
	}))

	return r
}

// Get returns the ledger for ownerID, loading it from persistence when needed.
// Concurrent first calls for the same owner share one load.
func (r *Registry) Get(ctx context.Context, ownerID string) (*Store, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner id is required")
	}

	if s, ok := r.ledgers.Get(ownerID); ok {
		return s, nil
	}

	v, err, _ := r.group.Do(ownerID, func() (any, error) {
		if s, ok := r.ledgers.Get(ownerID); ok {
			return s, nil
		}

		if s := r.revive(ownerID); s != nil {
			r.ledgers.Set(ownerID, s)
			r.logger.Debug("ledger revived", applog.FieldOwner, ownerID)

			return s, nil
		}

		s, err := Load(context.WithoutCancel(ctx), ownerID, r.persist, r.opts...)
		if err != nil {
			return nil, err
		}

		r.ledgers.Set(ownerID, s)
		r.logger.Debug("ledger loaded", applog.FieldOwner, ownerID, "transactions", s.Len())

		return s, nil
	})
	if err != nil {
		return nil, fmt.Errorf("getting ledger for %s: %w", ownerID, err)
	}

	return v.(*Store), nil
}

// Forget drops the cached ledger for ownerID. The next Get reloads it.
func (r *Registry) Forget(ownerID string) {
	r.ledgers.Delete(ownerID)

	r.mu.Lock()
	delete(r.retired, ownerID)
	r.mu.Unlock()
}

// Len returns the number of ledgers currently held in memory.
func (r *Registry) Len() int {
	return r.ledgers.Len()
}

// Run unloads idle ledgers every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	cache.SweepEvery(ctx, interval, r.ledgers, func(removed int) {
		if removed > 0 {
			r.logger.Debug("idle ledgers unloaded", "count", removed)
		}

		r.pruneRetired()
	})
}

func (r *Registry) retire(ownerID string, s *Store) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.retired[ownerID] = weak.Make(s)
}

// revive returns the evicted ledger for ownerID if something still holds it.
// Once nothing references a store, none of its mutations can be in flight and
// persistence is up to date.
func (r *Registry) revive(ownerID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	wp, ok := r.retired[ownerID]
	if !ok {
		return nil
	}

	delete(r.retired, ownerID)

	return wp.Value()
}

func (r *Registry) pruneRetired() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for owner, wp := range r.retired {
		if wp.Value() == nil {
			delete(r.retired, owner)
		}
	}
}
