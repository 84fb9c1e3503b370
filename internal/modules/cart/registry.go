package cart

import (
	"context"
	"net/http"
	"time"

	"github.com/georgemunganga/danasys-storefront/internal/modules/auth"
	"github.com/georgemunganga/danasys-storefront/internal/platform/session"
)

// Registry hands out one Store per session key. Cart contents live only in
// memory; idle sessions are evicted.
type Registry struct {
	stores *session.Table[*Store]
	opts   []Option
}

func NewRegistry(opts ...Option) *Registry {
	return NewBoundedRegistry(session.Limits{}, opts...)
}

// NewBoundedRegistry is NewRegistry with explicit session limits.
func NewBoundedRegistry(limits session.Limits, opts ...Option) *Registry {
	return &Registry{stores: session.New[*Store](limits), opts: opts}
}

// Get returns the store for key, creating an empty one on first use.
func (r *Registry) Get(key string) *Store {
	return r.stores.Get(key, func() (*Store, bool) { return NewStore(r.opts...), true })
}

// ForRequest returns the cart of the request's session. An authenticated
// request that still carries X-Session-ID first takes over the anonymous
// cart built under that header.
func (r *Registry) ForRequest(req *http.Request) (*Store, bool) {
	key, ok := auth.SessionKey(req)
	if !ok {
		return nil, false
	}
	s := r.Get(key)
	if anon, ok := auth.AnonymousKey(req); ok && anon != key {
		if guest, ok := r.stores.Take(anon); ok {
			s.Merge(guest.Take())
		}
	}
	return s, true
}

// Drop forgets the store for key.
func (r *Registry) Drop(key string) { r.stores.Drop(key) }

// Len is the number of live sessions.
func (r *Registry) Len() int { return r.stores.Len() }

// Janitor evicts idle carts every interval until ctx is done.
func (r *Registry) Janitor(ctx context.Context, interval time.Duration) {
	r.stores.Run(ctx, interval)
}
