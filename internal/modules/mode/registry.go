package mode

import (
	"context"
	"time"

	"github.com/georgemunganga/danasys-storefront/internal/platform/session"
	"go.uber.org/zap"
)

// Registry hands out one Store per session, each over its own namespace
// of a shared Storage.
type Registry struct {
	storage Storage
	stores  *session.Table[*Store]
	logger  *zap.Logger
}

func NewRegistry(storage Storage, logger *zap.Logger) *Registry {
	return NewBoundedRegistry(storage, session.Limits{}, logger)
}

// NewBoundedRegistry is NewRegistry with explicit session limits. An
// evicted session is rehydrated from storage on its next request.
func NewBoundedRegistry(storage Storage, limits session.Limits, logger *zap.Logger) *Registry {
	return &Registry{storage: storage, stores: session.New[*Store](limits), logger: logger}
}

// Get returns the store for key, rehydrating it from storage on first use.
// When the persisted value cannot be read the session is served in User
// for this call only, and the next call reads storage again.
func (r *Registry) Get(ctx context.Context, key string) *Store {
	return r.stores.Get(key, func() (*Store, bool) {
		s, err := NewStore(ctx, Namespace(r.storage, key))
		if err != nil {
			r.logger.Warn("mode rehydration failed, defaulting to user", zap.String("session", key), zap.Error(err))
			return s, false
		}
		return s, true
	})
}

// Len is the number of live sessions.
func (r *Registry) Len() int { return r.stores.Len() }

// Janitor evicts idle sessions every interval until ctx is done.
func (r *Registry) Janitor(ctx context.Context, interval time.Duration) {
	r.stores.Run(ctx, interval)
}
