package order

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// Upsert leaves created_at and customer_external_id untouched on conflict.
func (r *postgresRepo) Upsert(ctx context.Context, o *Order) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (external_id, store_id, customer_external_id, total_price, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (external_id, store_id) DO UPDATE
		SET total_price = EXCLUDED.total_price,
		    updated_at = NOW()
		WHERE orders.total_price IS DISTINCT FROM EXCLUDED.total_price`,
		o.ExternalID, o.StoreID, o.CustomerExternalID, o.TotalPrice, o.CreatedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("upsert order %s: %w", o.ExternalID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
