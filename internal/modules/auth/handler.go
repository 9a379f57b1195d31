package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/georgemunganga/storepulse/internal/modules/user"
)

// Handler exposes login and session endpoints.
type Handler struct {
	service  Service
	validate *validator.Validate
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

// RegisterRoutes mounts the public login route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/login", h.login) // POST /api/login
}

// RegisterProtectedRoutes mounts routes that need Middleware in front of them.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/api/me", h.me) // GET /api/me
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "Email and password required"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "Email and password required"})
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
			return
		}
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"storeId": session.StoreID,
		"token":   session.Token,
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.CurrentUser(r.Context())
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrUnauthorized) {
			code = http.StatusUnauthorized
		} else if errors.Is(err, user.ErrNotFound) {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, u)
}
