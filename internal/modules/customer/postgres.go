package customer

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Upsert(ctx context.Context, c *Customer) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (external_id, store_id, email, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (external_id, store_id) DO UPDATE
		SET email = EXCLUDED.email,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    updated_at = NOW()
		WHERE (customers.email, customers.first_name, customers.last_name)
		      IS DISTINCT FROM (EXCLUDED.email, EXCLUDED.first_name, EXCLUDED.last_name)`,
		c.ExternalID, c.StoreID, c.Email, c.FirstName, c.LastName)
	if err != nil {
		return false, fmt.Errorf("upsert customer %s: %w", c.ExternalID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
