package store

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/georgemunganga/storepulse/internal/modules/auth"
)

// Handler exposes store HTTP endpoints. Routes expect auth.Middleware in front.
type Handler struct {
	service  Service
	validate *validator.Validate
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/save-token", h.saveToken)                                         // POST /api/save-token
	r.With(auth.RequireStoreParam("storeId")).Get("/api/stores/{storeId}", h.getStore) // GET  /api/stores/{storeId}
}

func (h *Handler) saveToken(w http.ResponseWriter, r *http.Request) {
	var req SaveTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{
			"error": `Please provide a store id and an Admin API token starting with "shpat_".`,
		})
		return
	}
	if !auth.CanAccessStore(r.Context(), req.StoreID) {
		respond(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return
	}

	if err := h.service.SaveCredential(r.Context(), req.StoreID, req.APIToken); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			code = http.StatusNotFound
		} else if errors.Is(err, ErrInvalidCredential) {
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "Token saved"})
}

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "storeId"), 10, 64)
	s, err := h.service.Get(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"store":         s,
		"hasCredential": s.HasCredential(),
	})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
