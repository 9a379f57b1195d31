package customer

import "context"

// Repository defines data access for customers.
type Repository interface {
	// Upsert inserts the customer or overwrites email and names of the
	// existing (external id, store) row. changed is false when the stored
	// row already held identical values.
	Upsert(ctx context.Context, c *Customer) (changed bool, err error)
}
