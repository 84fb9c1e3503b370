package wallet

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/georgemunganga/danasys-storefront/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newWalletRouter() *chi.Mux {
	r := chi.NewRouter()
	svc := newTestService(newMemRepo(), NewSandboxGateway(false))
	NewHandler(svc, zap.NewNop()).RegisterRoutes(r)
	return r
}

func do(r http.Handler, userID, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{UserID: userID}))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_RequiresLogin(t *testing.T) {
	rec := do(newWalletRouter(), "", http.MethodGet, "/api/v1/wallet/", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_TopUpTransferAndBalance(t *testing.T) {
	r := newWalletRouter()
	alice, bob := uuid.NewString(), uuid.NewString()

	rec := do(r, alice, http.MethodPost, "/api/v1/wallet/add-money", `{"amount":90}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(r, alice, http.MethodPost, "/api/v1/wallet/transfer", `{"to_user_id":"`+bob+`","amount":100}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(r, alice, http.MethodPost, "/api/v1/wallet/transfer", `{"to_user_id":"`+bob+`","amount":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, alice, http.MethodPost, "/api/v1/wallet/transfer", `{"to_user_id":"`+bob+`","amount":25}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(r, bob, http.MethodGet, "/api/v1/wallet/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var b Balance
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&b))
	assert.Equal(t, 25.0, b.Amount)

	rec = do(r, alice, http.MethodGet, "/api/v1/wallet/transactions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var txs []Transaction
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&txs))
	assert.Len(t, txs, 2)
}

func TestHandler_VerifyUnknownTransaction(t *testing.T) {
	rec := do(newWalletRouter(), uuid.NewString(), http.MethodPost, "/api/v1/wallet/transactions/nope/verify", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
