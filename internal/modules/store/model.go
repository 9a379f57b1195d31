package store

import (
	"errors"
	"time"
)

// PlaceholderCredential is saved for stores onboarded by a webhook before
// their owner has configured an Admin API token.
const PlaceholderCredential = "pending-setup"

var (
	ErrNotFound          = errors.New("store not found")
	ErrInvalidDomain     = errors.New("invalid shop domain")
	ErrInvalidCredential = errors.New("invalid access token")
	ErrNoCredential      = errors.New("store has no access token configured")
	ErrUnreadableToken   = errors.New("stored access token cannot be opened")
)

// Store is one tenant: a single Shopify shop.
type Store struct {
	ID            int64      `json:"id"`
	ShopDomain    string     `json:"shopDomain"`
	AccessToken   *string    `json:"-"`
	LastSyncedAt  *time.Time `json:"lastSyncedAt,omitempty"`
	LastSyncError string     `json:"lastSyncError,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// HasCredential reports whether the store has a usable, saved token.
func (s *Store) HasCredential() bool {
	return s.AccessToken != nil && *s.AccessToken != "" && *s.AccessToken != PlaceholderCredential
}

// Credentialed pairs a store with its opened access token.
type Credentialed struct {
	Store       *Store
	AccessToken string
}

// SaveTokenRequest is the payload for configuring a store's Admin API token.
type SaveTokenRequest struct {
	StoreID  int64  `json:"storeId" validate:"required,gt=0"`
	APIToken string `json:"apiToken" validate:"required,startswith=shpat_"`
}
