package analytics

import (
	"context"
	"time"
)

// Repository reads aggregates over a store's customers and orders.
type Repository interface {
	Stats(ctx context.Context, storeID int64) (*Stats, error)

	// OrdersWithCustomers returns every order of the store, oldest first.
	OrdersWithCustomers(ctx context.Context, storeID int64) ([]OrderRow, error)

	// OrdersBetween returns orders created in [from, to), oldest first.
	OrdersBetween(ctx context.Context, storeID int64, from, to time.Time) ([]OrderRow, error)
}
