package webhook

import (
	"errors"
	"time"
)

// Topics handled by the receiver. Anything else is acknowledged and ignored.
const (
	TopicCustomersCreate = "customers/create"
	TopicCustomersUpdate = "customers/update"
	TopicOrdersCreate    = "orders/create"
)

var (
	ErrBadSignature     = errors.New("webhook signature mismatch")
	ErrMissingShop      = errors.New("missing shop domain")
	ErrForeignShop      = errors.New("shop domain is not a myshopify.com host")
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

// Event is one inbound Shopify delivery.
type Event struct {
	Topic      string
	ShopDomain string
	WebhookID  string
	HMAC       string
	Body       []byte
}

// Outcome describes what Process did with an event.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// Delivery is a claimed webhook id.
type Delivery struct {
	WebhookID  string
	ShopDomain string
	Topic      string
	ReceivedAt time.Time
}
