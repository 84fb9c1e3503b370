package business

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/georgemunganga/danasys-storefront/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/business", func(r chi.Router) {
		r.Get("/{id}", h.getProfile)
		r.Group(func(r chi.Router) {
			r.Use(auth.Require)
			r.Get("/", h.listMine)
			r.Post("/", h.createProfile)
			r.Put("/{id}", h.updateProfile)
		})
	})
}

func owner(r *http.Request) string {
	p, _ := auth.PrincipalFrom(r.Context())
	return p.UserID
}

func (h *Handler) createProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.CreateProfile(r.Context(), owner(r), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.ListByOwner(r.Context(), owner(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, profiles)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.UpdateProfile(r.Context(), owner(r), chi.URLParam(r, "id"), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		code = http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		code = http.StatusForbidden
	default:
		h.logger.Error("business request failed", zap.Error(err))
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
