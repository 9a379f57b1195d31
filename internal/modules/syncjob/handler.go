package syncjob

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/storepulse/internal/modules/auth"
	"github.com/georgemunganga/storepulse/internal/modules/ingest"
	"github.com/georgemunganga/storepulse/internal/modules/store"
)

// StoreSyncer runs the sync for one store.
type StoreSyncer interface {
	SyncStoreByID(ctx context.Context, id int64) (StoreResult, error)
}

type Handler struct {
	syncer StoreSyncer
}

func NewHandler(syncer StoreSyncer) *Handler {
	return &Handler{syncer: syncer}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(auth.RequireStoreParam("storeId")).Post("/api/sync/{storeId}", h.syncStore) // POST /api/sync/{storeId}
}

func (h *Handler) syncStore(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "storeId"), 10, 64)

	res, err := h.syncer.SyncStoreByID(r.Context(), id)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, res)
}

// statusFor keeps Shopify-side failures (502) apart from local ones (500).
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrNoCredential):
		return http.StatusConflict
	case errors.Is(err, ErrFetchOrders),
		errors.Is(err, ingest.ErrInvalidPrice),
		errors.Is(err, ingest.ErrInvalidTimestamp),
		errors.Is(err, ingest.ErrMissingID):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
