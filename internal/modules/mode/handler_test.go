package mode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/georgemunganga/danasys-storefront/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func nopLogger() *zap.Logger { return zap.NewNop() }

type stubGate struct{ allowBusiness bool }

func (g stubGate) CanSwitch(_ context.Context, _ auth.Principal, target Mode) error {
	if target == Business && !g.allowBusiness {
		return fmt.Errorf("%w: activation required", ErrSwitchForbidden)
	}
	return nil
}

func call(t *testing.T, h http.Handler, method, path, body string) (int, Mode) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(auth.SessionHeader, "tab-9")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out modeResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	}
	return rec.Code, out.Mode
}

func newRouter(gate Gate) *chi.Mux {
	return routerFor(NewRegistry(NewMemoryStorage(), nopLogger()), gate)
}

func routerFor(modes *Registry, gate Gate) *chi.Mux {
	r := chi.NewRouter()
	NewHandler(modes, gate, nopLogger()).RegisterRoutes(r)
	return r
}

func TestHandler_SetAndToggle(t *testing.T) {
	r := newRouter(stubGate{allowBusiness: true})

	code, m := call(t, r, http.MethodGet, "/api/v1/mode/", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, User, m)

	code, m = call(t, r, http.MethodPut, "/api/v1/mode/", `{"mode":"business"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, Business, m)

	_, m = call(t, r, http.MethodPost, "/api/v1/mode/toggle", "")
	assert.Equal(t, User, m)

	code, _ = call(t, r, http.MethodPut, "/api/v1/mode/", `{"mode":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHandler_GateRefusesBusiness(t *testing.T) {
	r := newRouter(stubGate{})

	code, _ := call(t, r, http.MethodPost, "/api/v1/mode/toggle", "")
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = call(t, r, http.MethodPut, "/api/v1/mode/", `{"mode":"business"}`)
	assert.Equal(t, http.StatusForbidden, code)

	code, m := call(t, r, http.MethodPut, "/api/v1/mode/", `{"mode":"user"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, User, m)
}

func TestHandler_RequiresSession(t *testing.T) {
	r := newRouter(stubGate{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/mode/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ConcurrentTogglesRespectGate(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, Namespace(storage, "anon:tab-9").SetItem(ctx, StorageKey, "business"))
	modes := NewRegistry(storage, nopLogger())
	r := routerFor(modes, stubGate{})

	const n = 8
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/mode/toggle", nil)
			req.Header.Set(auth.SessionHeader, "tab-9")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	ok, forbidden := 0, 0
	for _, c := range codes {
		switch c {
		case http.StatusOK:
			ok++
		case http.StatusForbidden:
			forbidden++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, forbidden)
	assert.Equal(t, User, modes.Get(ctx, "anon:tab-9").Current())
}
