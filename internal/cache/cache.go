// Package cache holds small in-process caches keyed by string.
package cache

import (
	"context"
	"time"
)

// Cache is a keyed store of values that may forget entries at any time.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Len() int
}

// Sweeper is implemented by caches that can drop expired entries on demand.
type Sweeper interface {
	Sweep() int
}

// SweepEvery calls Sweep on every interval until ctx is done.
// onSweep, when non-nil, receives the number of entries removed by each pass.
func SweepEvery(ctx context.Context, interval time.Duration, s Sweeper, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := s.Sweep()
			if onSweep != nil {
				onSweep(n)
			}
		}
	}
}
