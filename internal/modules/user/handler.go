package user

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CallerStoreFunc returns the store of the authenticated caller.
type CallerStoreFunc func(ctx context.Context) (int64, bool)

type Handler struct {
	service     Service
	callerStore CallerStoreFunc
	validate    *validator.Validate
}

func NewHandler(service Service, callerStore CallerStoreFunc) *Handler {
	return &Handler{service: service, callerStore: callerStore, validate: validator.New()}
}

// RegisterRoutes mounts user management. Routes expect auth.Middleware in front.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/api/users", h.registerUser) // POST /api/users
	router.Get("/api/users/{id}", h.getUser)  // GET  /api/users/{id}
}

// RegisterSetupRoutes mounts the development fixture endpoint.
func (h *Handler) RegisterSetupRoutes(router chi.Router) {
	router.Get("/api/setup-test-user", h.setupTestUser)
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	storeID, ok := h.callerStore(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{
			"error": "A valid email and a password of at least 8 characters are required",
		})
		return
	}

	u, err := h.service.RegisterUser(r.Context(), req.Email, req.Password, storeID)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrEmailTaken) {
			code = http.StatusConflict
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, u)
}

// getUser only reveals users of the caller's own store.
func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	storeID, ok := h.callerStore(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "Invalid user ID"})
		return
	}

	u, err := h.service.GetUser(r.Context(), id)
	if errors.Is(err, ErrNotFound) || (err == nil && u.StoreID != storeID) {
		respond(w, http.StatusNotFound, map[string]string{"error": ErrNotFound.Error()})
		return
	}
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, u)
}

func (h *Handler) setupTestUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.SetupTestUser(r.Context())
	if err != nil {
		log.Printf("user: setup test user: %v", err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]any{"message": "Test user ready!", "user": u})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
