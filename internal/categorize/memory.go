package categorize

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// MemoryRepository keeps rules in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	rules map[string][]Rule
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rules: make(map[string][]Rule)}
}

// FindMatch prefers the longest pattern, then the newest rule.
func (m *MemoryRepository) FindMatch(_ context.Context, ownerID, description string) (Rule, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fold := cases.Fold()
	haystack := fold.String(description)

	var (
		best  Rule
		found bool
	)

	for _, r := range m.rules[ownerID] {
		if !strings.Contains(haystack, fold.String(r.Pattern)) {
			continue
		}

		if !found || utf8.RuneCountInString(r.Pattern) >= utf8.RuneCountInString(best.Pattern) {
			best, found = r, true
		}
	}

	return best, found, nil
}

func (m *MemoryRepository) CreateRule(_ context.Context, ownerID string, r Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rules[ownerID] = append(m.rules[ownerID], r)

	return nil
}
