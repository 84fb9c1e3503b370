package wallet

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/georgemunganga/danasys-storefront/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler exposes the caller's wallet over HTTP.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/wallet", func(r chi.Router) {
		r.Use(auth.Require)
		r.Get("/", h.balance)
		r.Get("/transactions", h.transactions)
		r.Post("/transactions/{id}/verify", h.verify)
		r.Post("/add-money", h.addMoney)
		r.Post("/withdraw", h.withdraw)
		r.Post("/transfer", h.transfer)
	})
}

func userID(r *http.Request) string {
	p, _ := auth.PrincipalFrom(r.Context())
	return p.UserID
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Balance(r.Context(), userID(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, b)
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.service.Transactions(r.Context(), userID(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, txs)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.Verify(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, t)
}

func (h *Handler) addMoney(w http.ResponseWriter, r *http.Request) {
	var req AddMoneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	t, err := h.service.AddMoney(r.Context(), userID(r), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	status := http.StatusCreated
	if t.Status == StatusPending {
		status = http.StatusAccepted
	}
	respond(w, status, t)
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	var req WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	t, err := h.service.Withdraw(r.Context(), userID(r), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, t)
}

func (h *Handler) transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	t, err := h.service.Transfer(r.Context(), userID(r), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, t)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrInsufficientFunds), errors.Is(err, ErrNotPending):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrSelfTransfer), errors.Is(err, ErrInvalidRequest):
		code = http.StatusBadRequest
	default:
		h.logger.Error("wallet request failed", zap.Error(err))
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
