package mode

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/georgemunganga/danasys-storefront/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Gate decides whether a principal may enter a mode.
type Gate interface {
	CanSwitch(ctx context.Context, p auth.Principal, target Mode) error
}

// Handler exposes the session mode over HTTP.
type Handler struct {
	modes  *Registry
	gate   Gate
	logger *zap.Logger
}

func NewHandler(modes *Registry, gate Gate, logger *zap.Logger) *Handler {
	return &Handler{modes: modes, gate: gate, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/mode", func(r chi.Router) {
		r.Get("/", h.getMode)       // GET  /api/v1/mode
		r.Put("/", h.setMode)       // PUT  /api/v1/mode
		r.Post("/toggle", h.toggle) // POST /api/v1/mode/toggle
	})
}

type modeResponse struct {
	Mode Mode `json:"mode"`
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) (*Store, bool) {
	key, ok := auth.SessionKey(r)
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": "session id required"})
		return nil, false
	}
	return h.modes.Get(r.Context(), key), true
}

func (h *Handler) getMode(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, modeResponse{Mode: s.Current()})
}

func (h *Handler) setMode(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	m, valid := Parse(req.Mode)
	if !valid {
		respond(w, http.StatusBadRequest, map[string]string{"error": ErrInvalidMode.Error()})
		return
	}
	if !h.allowed(w, r, m) {
		return
	}
	if err := s.SetMode(r.Context(), m); err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, modeResponse{Mode: m})
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store(w, r)
	if !ok {
		return
	}
	m, err := s.ToggleIf(r.Context(), func(target Mode) error { return h.check(r, target) })
	if err != nil {
		h.reject(w, err)
		return
	}
	respond(w, http.StatusOK, modeResponse{Mode: m})
}

func (h *Handler) check(r *http.Request, target Mode) error {
	p, _ := auth.PrincipalFrom(r.Context())
	return h.gate.CanSwitch(r.Context(), p, target)
}

func (h *Handler) allowed(w http.ResponseWriter, r *http.Request, target Mode) bool {
	if err := h.check(r, target); err != nil {
		h.reject(w, err)
		return false
	}
	return true
}

func (h *Handler) reject(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrSwitchForbidden) {
		respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
		return
	}
	h.fail(w, err)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("mode update failed", zap.Error(err))
	respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
