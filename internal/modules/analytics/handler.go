package analytics

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/storepulse/internal/modules/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the dashboard queries. auth.Middleware must run first.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireStoreParam("storeId"))
		r.Get("/api/stats/{storeId}", h.stats)                 // GET /api/stats/{storeId}
		r.Get("/api/top-customers/{storeId}", h.topCustomers)  // GET /api/top-customers/{storeId}
		r.Get("/api/orders-by-date/{storeId}", h.ordersByDate) // GET /api/orders-by-date/{storeId}?startDate=&endDate=
	})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Stats(r.Context(), storeID(r))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, st)
}

func (h *Handler) topCustomers(w http.ResponseWriter, r *http.Request) {
	top, err := h.service.TopCustomers(r.Context(), storeID(r))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, top)
}

func (h *Handler) ordersByDate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	buckets, err := h.service.OrdersByDate(r.Context(), storeID(r), q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, buckets)
}

func storeID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "storeId"), 10, 64)
	return id
}

func respondErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, ErrInvalidStore) || errors.Is(err, ErrInvalidDateRange) {
		code = http.StatusBadRequest
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
