package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/georgemunganga/storepulse/internal/modules/ingest"
	"github.com/georgemunganga/storepulse/internal/modules/shopify"
	"github.com/georgemunganga/storepulse/internal/modules/store"
)

// StoreResolver finds a store by domain, onboarding it when unseen.
type StoreResolver interface {
	Resolve(ctx context.Context, domain string) (*store.Store, error)
}

// Service applies inbound Shopify events.
type Service interface {
	// Process handles one event. The returned error is for logging only;
	// callers acknowledge the sender either way.
	Process(ctx context.Context, ev Event) (Outcome, error)
}

type service struct {
	repo   Repository
	stores StoreResolver
	ingest ingest.Service
	secret string
	now    func() time.Time
}

// NewService creates the webhook service. An empty secret disables HMAC
// checks and the myshopify.com domain requirement.
func NewService(repo Repository, stores StoreResolver, ingest ingest.Service, secret string) Service {
	return &service{repo: repo, stores: stores, ingest: ingest, secret: secret, now: time.Now}
}

func (s *service) Process(ctx context.Context, ev Event) (Outcome, error) {
	if s.secret != "" && !shopify.VerifyWebhook(s.secret, ev.Body, ev.HMAC) {
		return OutcomeRejected, ErrBadSignature
	}
	shop := shopify.NormalizeDomain(ev.ShopDomain)
	if shop == "" {
		return OutcomeRejected, ErrMissingShop
	}
	// With signatures enforced the shop must be a myshopify.com host.
	if s.secret != "" && !shopify.IsValidShopDomain(shop) {
		return OutcomeRejected, ErrForeignShop
	}

	if id := strings.TrimSpace(ev.WebhookID); id != "" {
		fresh, err := s.repo.Claim(ctx, &Delivery{
			WebhookID:  id,
			ShopDomain: shop,
			Topic:      ev.Topic,
			ReceivedAt: s.now(),
		})
		if err != nil {
			return OutcomeFailed, err
		}
		if !fresh {
			return OutcomeDuplicate, nil
		}
	}

	st, err := s.stores.Resolve(ctx, shop)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("resolve store %s: %w", shop, err)
	}

	switch ev.Topic {
	case TopicCustomersCreate, TopicCustomersUpdate:
		var c shopify.Customer
		if err := json.Unmarshal(ev.Body, &c); err != nil {
			return OutcomeFailed, fmt.Errorf("%s: %w: %v", ev.Topic, ErrMalformedPayload, err)
		}
		if _, err := s.ingest.ApplyCustomer(ctx, st.ID, c); err != nil {
			return OutcomeFailed, fmt.Errorf("%s: %w", ev.Topic, err)
		}
	case TopicOrdersCreate:
		var o shopify.Order
		if err := json.Unmarshal(ev.Body, &o); err != nil {
			return OutcomeFailed, fmt.Errorf("%s: %w: %v", ev.Topic, ErrMalformedPayload, err)
		}
		if _, err := s.ingest.ApplyOrder(ctx, st.ID, o); err != nil {
			return OutcomeFailed, fmt.Errorf("%s: %w", ev.Topic, err)
		}
	default:
		log.Printf("webhook: ignoring topic %q from %s", ev.Topic, shop)
		return OutcomeIgnored, nil
	}
	return OutcomeProcessed, nil
}
