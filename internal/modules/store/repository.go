package store

import (
	"context"
	"time"
)

// Repository defines data access for stores.
type Repository interface {
	// GetByID returns ErrNotFound when no store has the id.
	GetByID(ctx context.Context, id int64) (*Store, error)

	// GetByDomain returns ErrNotFound when no store has the domain.
	GetByDomain(ctx context.Context, domain string) (*Store, error)

	// GetOrCreate returns the store for domain, inserting it with credential
	// when absent. created is true only for the call that inserted the row.
	GetOrCreate(ctx context.Context, domain, credential string) (s *Store, created bool, err error)

	// SetCredential replaces the stored access token.
	SetCredential(ctx context.Context, id int64, credential string) error

	// ListWithCredential returns stores whose token is set and is not the placeholder.
	ListWithCredential(ctx context.Context) ([]*Store, error)

	// RecordSync stores the outcome of the latest sync for a store.
	RecordSync(ctx context.Context, id int64, at time.Time, syncErr string) error
}
