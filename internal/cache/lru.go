package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU is a size-bounded cache whose entries also expire ttl after their last use.
// A zero ttl disables expiry.
type LRU[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	items   map[string]*list.Element
	order   *list.List
	onEvict func(key string, value T)
}

type entry[T any] struct {
	key       string
	value     T
	expiresAt time.Time
}

// LRUOption configures an LRU.
type LRUOption[T any] func(*LRU[T])

// WithClock overrides the time source, for tests.
func WithClock[T any](now func() time.Time) LRUOption[T] {
	return func(c *LRU[T]) { c.now = now }
}

// WithEvictHook is called, outside the lock, for every entry pushed out by size or age.
func WithEvictHook[T any](fn func(key string, value T)) LRUOption[T] {
	return func(c *LRU[T]) { c.onEvict = fn }
}

// NewLRU creates an LRU holding at most maxSize entries.
func NewLRU[T any](maxSize int, ttl time.Duration, opts ...LRUOption[T]) *LRU[T] {
	if maxSize < 1 {
		maxSize = 1
	}

	c := &LRU[T]{
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *LRU[T]) Get(key string) (T, bool) {
	c.mu.Lock()

	var zero T

	elem, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		return zero, false
	}

	e := elem.Value.(*entry[T])
	now := c.now()

	if c.expired(e, now) {
		c.remove(elem)
		c.mu.Unlock()
		c.evicted(e)

		return zero, false
	}

	e.expiresAt = c.deadline(now)
	c.order.MoveToFront(elem)
	c.mu.Unlock()

	return e.value, true
}

func (c *LRU[T]) Set(key string, value T) {
	c.mu.Lock()

	now := c.now()

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry[T])
		e.value = value
		e.expiresAt = c.deadline(now)
		c.order.MoveToFront(elem)
		c.mu.Unlock()

		return
	}

	c.items[key] = c.order.PushFront(&entry[T]{key: key, value: value, expiresAt: c.deadline(now)})

	var dropped *entry[T]

	if c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		dropped = oldest.Value.(*entry[T])
		c.remove(oldest)
	}

	c.mu.Unlock()

	if dropped != nil {
		c.evicted(dropped)
	}
}

func (c *LRU[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.remove(elem)
	}
}

func (c *LRU[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// Sweep removes every expired entry and returns how many were removed.
func (c *LRU[T]) Sweep() int {
	c.mu.Lock()

	now := c.now()

	var dropped []*entry[T]

	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()

		e := elem.Value.(*entry[T])
		if c.expired(e, now) {
			dropped = append(dropped, e)
			c.remove(elem)
		}

		elem = prev
	}

	c.mu.Unlock()

	for _, e := range dropped {
		c.evicted(e)
	}

	return len(dropped)
}

func (c *LRU[T]) deadline(now time.Time) time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}

	return now.Add(c.ttl)
}

func (c *LRU[T]) expired(e *entry[T], now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func (c *LRU[T]) remove(elem *list.Element) {
	e := elem.Value.(*entry[T])
	delete(c.items, e.key)
	c.order.Remove(elem)
}

func (c *LRU[T]) evicted(e *entry[T]) {
	if c.onEvict != nil {
		c.onEvict(e.key, e.value)
	}
}
