package webhook

import "context"

// Repository records which deliveries have already been seen.
type Repository interface {
	// Claim stores the delivery and reports false if its id was already claimed.
	Claim(ctx context.Context, d *Delivery) (bool, error)
}
