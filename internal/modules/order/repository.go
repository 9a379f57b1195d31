package order

import "context"

// Repository defines data access for orders.
type Repository interface {
	// Upsert inserts the order, or refreshes only the total price of the
	// existing (external id, store) row. changed is false when nothing differed.
	Upsert(ctx context.Context, o *Order) (changed bool, err error)
}
