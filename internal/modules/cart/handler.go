package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ErrUnknownProduct is returned by a ProductLookup for a missing or inactive product.
var ErrUnknownProduct = errors.New("unknown product")

// ProductLookup resolves product IDs into cart descriptors.
type ProductLookup interface {
	LookupProduct(ctx context.Context, id string) (Product, error)
}

// Handler exposes the session cart over HTTP.
type Handler struct {
	carts    *Registry
	products ProductLookup
	logger   *zap.Logger
}

func NewHandler(carts *Registry, products ProductLookup, logger *zap.Logger) *Handler {
	return &Handler{carts: carts, products: products, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", h.getCart)                         // GET    /api/v1/cart
		r.Delete("/", h.clearCart)                    // DELETE /api/v1/cart
		r.Post("/items", h.addItem)                   // POST   /api/v1/cart/items
		r.Delete("/items/{product_id}", h.removeItem) // DELETE /api/v1/cart/items/{product_id}
	})
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) (*Store, bool) {
	s, ok := h.carts.ForRequest(r)
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": "session id required"})
		return nil, false
	}
	return s, true
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "product_id is required"})
		return
	}

	p, err := h.products.LookupProduct(r.Context(), req.ProductID)
	if errors.Is(err, ErrUnknownProduct) {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("product lookup failed", zap.String("product_id", req.ProductID), zap.Error(err))
		respond(w, http.StatusInternalServerError, map[string]string{"error": "product lookup failed"})
		return
	}

	before := s.Snapshot()
	after := s.AddItem(p)
	if before.SellerID != "" && before.SellerID != after.SellerID {
		h.logger.Info("cart replaced by another seller",
			zap.String("previous_seller", before.SellerID),
			zap.String("seller", after.SellerID))
	}
	respond(w, http.StatusOK, after)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, s.RemoveItem(chi.URLParam(r, "product_id")))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, s.Clear())
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
