package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/georgemunganga/danasys-storefront/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLookup map[string]Product

func (s stubLookup) LookupProduct(_ context.Context, id string) (Product, error) {
	if id == "boom" {
		return Product{}, errors.New("db down")
	}
	p, ok := s[id]
	if !ok {
		return Product{}, ErrUnknownProduct
	}
	return p, nil
}

func newTestRouter() (*chi.Mux, *Registry) {
	carts := NewRegistry()
	products := stubLookup{
		"p1": p1(),
		"p2": {ID: "p2", Price: 30, MRP: 40, SellerID: "8"},
	}
	r := chi.NewRouter()
	NewHandler(carts, products, zap.NewNop()).RegisterRoutes(r)
	return r, carts
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, State) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(auth.SessionHeader, "tab-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var st State
	if rec.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
	}
	return rec, st
}

func TestHandler_CartLifecycle(t *testing.T) {
	r, carts := newTestRouter()

	rec, st := do(t, r, http.MethodPost, "/api/v1/cart/items", `{"product_id":"p1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, st.TotalQuantity)
	assert.Equal(t, 90.0, st.BillAmount)

	_, st = do(t, r, http.MethodPost, "/api/v1/cart/items", `{"product_id":"p1"}`)
	assert.Equal(t, 2, st.TotalQuantity)

	_, st = do(t, r, http.MethodGet, "/api/v1/cart/", "")
	assert.Equal(t, "7", st.SellerID)

	_, st = do(t, r, http.MethodPost, "/api/v1/cart/items", `{"product_id":"p2"}`)
	assert.Equal(t, "8", st.SellerID)
	assert.Equal(t, 1, st.TotalQuantity)

	_, st = do(t, r, http.MethodDelete, "/api/v1/cart/items/p2", "")
	assert.True(t, st.Empty())

	do(t, r, http.MethodPost, "/api/v1/cart/items", `{"product_id":"p1"}`)
	_, st = do(t, r, http.MethodDelete, "/api/v1/cart/", "")
	assert.True(t, st.Empty())
	assert.Equal(t, 1, carts.Len())
}

func TestHandler_Errors(t *testing.T) {
	r, _ := newTestRouter()

	rec, _ := do(t, r, http.MethodPost, "/api/v1/cart/items", `{"product_id":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, r, http.MethodPost, "/api/v1/cart/items", `{"product_id":"boom"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec, _ = do(t, r, http.MethodPost, "/api/v1/cart/items", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_CartSurvivesLogin(t *testing.T) {
	r, carts := newTestRouter()

	rec, _ := do(t, r, http.MethodPost, "/api/v1/cart/items", `{"product_id":"p1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	req.Header.Set(auth.SessionHeader, "tab-1")
	req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{UserID: "42"}))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var st State
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
	assert.Equal(t, 1, st.TotalQuantity)
	assert.Equal(t, "7", st.SellerID)
	assert.Equal(t, 1, carts.Len())
	assert.Equal(t, 1, carts.Get("user:42").Snapshot().TotalQuantity)
}
