package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/georgemunganga/danasys-storefront/internal/modules/auth"
	"github.com/georgemunganga/danasys-storefront/internal/modules/cart"
	"github.com/georgemunganga/danasys-storefront/internal/modules/wallet"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler exposes checkout and order endpoints.
type Handler struct {
	service Service
	carts   *cart.Registry
	logger  *zap.Logger
}

func NewHandler(service Service, carts *cart.Registry, logger *zap.Logger) *Handler {
	return &Handler{service: service, carts: carts, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.Require)
		r.Post("/api/v1/checkout", h.checkout)
		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Get("/", h.history)
			r.Get("/{id}", h.getOrder)
			r.Get("/{id}/tracking", h.track)
			r.Post("/{id}/cancel", h.cancel)
			r.Put("/{id}/status", h.updateStatus)
			r.Get("/business/{business_id}", h.listBusiness)
		})
	})
}

func actor(r *http.Request) string {
	p, _ := auth.PrincipalFrom(r.Context())
	return p.UserID
}

// checkout places an order from the caller's session cart. The cart is
// emptied as the order is taken and put back if the order fails.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	store, _ := h.carts.ForRequest(r)
	snapshot := store.Take()

	o, err := h.service.Checkout(r.Context(), actor(r), snapshot, req)
	if err != nil {
		if !snapshot.Empty() {
			store.Restore(snapshot)
		}
		h.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, o)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.History(r.Context(), actor(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrder(r.Context(), actor(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) track(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.Track(r.Context(), actor(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, t)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Cancel(r.Context(), actor(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), actor(r), chi.URLParam(r, "id"), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) listBusiness(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListBusinessOrders(r.Context(), actor(r),
		chi.URLParam(r, "business_id"), r.URL.Query().Get("status"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrInvalidRequest):
		code = http.StatusBadRequest
	case errors.Is(err, ErrInvalidTransition):
		code = http.StatusConflict
	case errors.Is(err, wallet.ErrInsufficientFunds):
		code = http.StatusPaymentRequired
	default:
		h.logger.Error("order request failed", zap.Error(err))
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
