package access

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/georgemunganga/danasys-storefront/internal/modules/auth"
	"github.com/georgemunganga/danasys-storefront/internal/modules/wallet"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler exposes the business menu and activation over HTTP.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/access", func(r chi.Router) {
		r.Use(auth.Require)
		r.Get("/menu", h.menu)
		r.Get("/activation", h.status)
		r.Post("/activation", h.activate)
	})
}

type activationResponse struct {
	Activated  bool        `json:"activated"`
	Activation *Activation `json:"activation,omitempty"`
}

// menu accepts the enabled entries as ?available=Orders,Payments or as
// repeated available parameters.
func (h *Handler) menu(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	var available []string
	for _, v := range r.URL.Query()["available"] {
		for _, key := range strings.Split(v, ",") {
			if key = strings.TrimSpace(key); key != "" {
				available = append(available, key)
			}
		}
	}
	respond(w, http.StatusOK, h.service.Menu(p, available))
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	if h.service.IsSuperadmin(p) {
		respond(w, http.StatusOK, activationResponse{Activated: true})
		return
	}
	a, err := h.service.Status(r.Context(), p)
	switch {
	case errors.Is(err, ErrNotActivated):
		respond(w, http.StatusOK, activationResponse{})
	case err != nil:
		h.fail(w, err)
	default:
		respond(w, http.StatusOK, activationResponse{Activated: true, Activation: a})
	}
}

func (h *Handler) activate(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	a, err := h.service.Activate(r.Context(), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, activationResponse{Activated: true, Activation: a})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrLoginRequired):
		code = http.StatusUnauthorized
	case errors.Is(err, wallet.ErrInsufficientFunds):
		code = http.StatusPaymentRequired
	default:
		h.logger.Error("access request failed", zap.Error(err))
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
