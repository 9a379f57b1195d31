package ingest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/georgemunganga/storepulse/internal/modules/customer"
	"github.com/georgemunganga/storepulse/internal/modules/order"
	"github.com/georgemunganga/storepulse/internal/modules/shopify"
)

var (
	ErrInvalidPrice     = errors.New("invalid total price")
	ErrInvalidTimestamp = errors.New("invalid created_at timestamp")
	ErrMissingID        = errors.New("missing external id")
	ErrNoCustomer       = errors.New("order has no customer")
)

// Shopify money fields are plain decimals such as "199.65".
var decimalPrice = regexp.MustCompile(`^\d+(\.\d+)?$`)

// Result reports what an upsert did to storage.
type Result struct {
	CustomerChanged bool
	OrderChanged    bool
}

// Service is the single write path for customers and orders. Webhooks and
// the sync job both go through it.
type Service interface {
	UpsertCustomer(ctx context.Context, storeID int64, externalID, email, firstName, lastName string) (bool, error)
	UpsertOrder(ctx context.Context, storeID int64, externalID string, totalPrice float64, createdAt time.Time, customerExternalID string) (bool, error)

	// ApplyCustomer upserts a Shopify customer payload.
	ApplyCustomer(ctx context.Context, storeID int64, c shopify.Customer) (Result, error)

	// ApplyOrder validates a Shopify order, then upserts its customer and
	// the order in that order. Orders without a customer return ErrNoCustomer
	// and write nothing.
	ApplyOrder(ctx context.Context, storeID int64, o shopify.Order) (Result, error)
}

type service struct {
	customers customer.Repository
	orders    order.Repository
}

// NewService creates the entity upsert service.
func NewService(customers customer.Repository, orders order.Repository) Service {
	return &service{customers: customers, orders: orders}
}

func (s *service) UpsertCustomer(ctx context.Context, storeID int64, externalID, email, firstName, lastName string) (bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return false, fmt.Errorf("customer: %w", ErrMissingID)
	}
	return s.customers.Upsert(ctx, &customer.Customer{
		ExternalID: externalID,
		StoreID:    storeID,
		Email:      email,
		FirstName:  firstName,
		LastName:   lastName,
	})
}

func (s *service) UpsertOrder(ctx context.Context, storeID int64, externalID string, totalPrice float64, createdAt time.Time, customerExternalID string) (bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return false, fmt.Errorf("order: %w", ErrMissingID)
	}
	if strings.TrimSpace(customerExternalID) == "" {
		return false, fmt.Errorf("order %s: %w", externalID, ErrNoCustomer)
	}
	if !validPrice(totalPrice) {
		return false, fmt.Errorf("order %s: %w: %v", externalID, ErrInvalidPrice, totalPrice)
	}
	return s.orders.Upsert(ctx, &order.Order{
		ExternalID:         externalID,
		StoreID:            storeID,
		CustomerExternalID: strings.TrimSpace(customerExternalID),
		TotalPrice:         totalPrice,
		CreatedAt:          createdAt.UTC(),
	})
}

func (s *service) ApplyCustomer(ctx context.Context, storeID int64, c shopify.Customer) (Result, error) {
	changed, err := s.UpsertCustomer(ctx, storeID, c.ID.String(), c.Email, c.FirstName, c.LastName)
	return Result{CustomerChanged: changed}, err
}

func (s *service) ApplyOrder(ctx context.Context, storeID int64, o shopify.Order) (Result, error) {
	var res Result
	if o.ID == "" {
		return res, fmt.Errorf("order: %w", ErrMissingID)
	}
	if o.Customer == nil || o.Customer.ID == "" {
		return res, fmt.Errorf("order %s: %w", o.ID, ErrNoCustomer)
	}
	price, err := ParsePrice(o.TotalPrice)
	if err != nil {
		return res, fmt.Errorf("order %s: %w", o.ID, err)
	}
	createdAt, err := ParseTimestamp(o.CreatedAt)
	if err != nil {
		return res, fmt.Errorf("order %s: %w", o.ID, err)
	}

	// The customer row must exist before the order references it.
	if res.CustomerChanged, err = s.UpsertCustomer(ctx, storeID, o.Customer.ID.String(),
		o.Customer.Email, o.Customer.FirstName, o.Customer.LastName); err != nil {
		return res, err
	}
	res.OrderChanged, err = s.UpsertOrder(ctx, storeID, o.ID.String(), price, createdAt, o.Customer.ID.String())
	return res, err
}

// ParsePrice converts Shopify's decimal string into a non-negative finite amount.
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidPrice)
	}
	if !decimalPrice.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !validPrice(v) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	return v, nil
}

// ParseTimestamp parses an ISO 8601 / RFC 3339 timestamp and returns it in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}
	return t.UTC(), nil
}

func validPrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
