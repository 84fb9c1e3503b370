package mode

import (
	"context"
	"sync"
)

// Storage is a string key/value store with browser local-storage semantics.
type Storage interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
}

type memoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStorage returns a process-local Storage.
func NewMemoryStorage() Storage {
	return &memoryStorage{items: make(map[string]string)}
}

func (m *memoryStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *memoryStorage) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

type namespaced struct {
	prefix string
	next   Storage
}

// Namespace scopes every key of s under prefix.
func Namespace(s Storage, prefix string) Storage {
	return &namespaced{prefix: prefix + ":", next: s}
}

func (n *namespaced) GetItem(ctx context.Context, key string) (string, bool, error) {
	return n.next.GetItem(ctx, n.prefix+key)
}

func (n *namespaced) SetItem(ctx context.Context, key, value string) error {
	return n.next.SetItem(ctx, n.prefix+key, value)
}
