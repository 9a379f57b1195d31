package webhook

import (
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/storepulse/internal/modules/shopify"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/webhooks/shopify", h.receive) // POST /webhooks/shopify
}

// receive always answers 200 with an empty body so Shopify never retries.
func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	defer w.WriteHeader(http.StatusOK)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Printf("webhook: read body: %v", err)
		return
	}
	ev := Event{
		Topic:      r.Header.Get(shopify.HeaderTopic),
		ShopDomain: r.Header.Get(shopify.HeaderShopDomain),
		WebhookID:  r.Header.Get(shopify.HeaderWebhookID),
		HMAC:       r.Header.Get(shopify.HeaderHMAC),
		Body:       body,
	}

	outcome, err := h.service.Process(r.Context(), ev)
	if err != nil {
		log.Printf("webhook: %s %s from %s: %v", outcome, ev.Topic, ev.ShopDomain, err)
		return
	}
	log.Printf("webhook: %s %s from %s", outcome, ev.Topic, ev.ShopDomain)
}
