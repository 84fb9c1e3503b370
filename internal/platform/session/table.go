package session

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

const (
	DefaultMaxSessions = 50000
	DefaultIdleTimeout = 24 * time.Hour
)

// Limits bounds a Table. Zero values fall back to the defaults.
type Limits struct {
	MaxSessions int
	IdleTimeout time.Duration
}

func (l Limits) normalise() Limits {
	if l.MaxSessions <= 0 {
		l.MaxSessions = DefaultMaxSessions
	}
	if l.IdleTimeout <= 0 {
		l.IdleTimeout = DefaultIdleTimeout
	}
	return l
}

type entry[T any] struct {
	value T
	seen  time.Time
}

// Table keeps one value per session key. The least recently used session
// is evicted once MaxSessions is reached, and Sweep drops sessions idle for
// longer than IdleTimeout.
type Table[T any] struct {
	mu     sync.Mutex
	cache  *lru.Cache
	limits Limits
	now    func() time.Time
}

func New[T any](limits Limits) *Table[T] {
	limits = limits.normalise()
	cache, err := lru.New(limits.MaxSessions)
	if err != nil {
		panic(err) // only for a non-positive size, which normalise rules out
	}
	return &Table[T]{cache: cache, limits: limits, now: time.Now}
}

// Get returns the value for key and marks the session as active. On a miss
// create builds a value; it is kept only when create reports keep.
func (t *Table[T]) Get(key string, create func() (value T, keep bool)) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	if v, ok := t.cache.Get(key); ok {
		e := v.(*entry[T])
		e.seen = t.now()
		return e.value
	}
	value, keep := create()
	if keep {
		t.cache.Add(key, &entry[T]{value: value, seen: t.now()})
	}
	return value
}

// Take removes key and returns its value, if present.
func (t *Table[T]) Take(key string) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var zero T
	v, ok := t.cache.Peek(key)
	if !ok {
		return zero, false
	}
	t.cache.Remove(key)
	return v.(*entry[T]).value, true
}

// Drop forgets key.
func (t *Table[T]) Drop(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cache.Remove(key)
}

// Len is the number of live sessions.
func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cache.Len()
}

// Sweep drops every session idle for longer than IdleTimeout and returns
// how many went.
func (t *Table[T]) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.now().Add(-t.limits.IdleTimeout)
	n := 0
	// Keys are ordered oldest first and every Get refreshes seen, so the
	// first recent entry ends the scan.
	for _, k := range t.cache.Keys() {
		v, ok := t.cache.Peek(k)
		if !ok {
			continue
		}
		if v.(*entry[T]).seen.After(cutoff) {
			break
		}
		t.cache.Remove(k)
		n++
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (t *Table[T]) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Sweep()
		}
	}
}
