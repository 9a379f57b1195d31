package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type postgresRepo struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) Stats(ctx context.Context, storeID int64) (*Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM customers WHERE store_id = $1),
			(SELECT COUNT(*) FROM orders WHERE store_id = $1),
			(SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE store_id = $1)
	`
	s := &Stats{}
	if err := r.db.QueryRowContext(ctx, query, storeID).Scan(&s.TotalCustomers, &s.TotalOrders, &s.TotalRevenue); err != nil {
		return nil, fmt.Errorf("stats for store %d: %w", storeID, err)
	}
	return s, nil
}

func (r *postgresRepo) OrdersWithCustomers(ctx context.Context, storeID int64) ([]OrderRow, error) {
	query := `
		SELECT o.external_id, o.customer_external_id, o.total_price, o.created_at,
		       c.external_id, c.email, c.first_name, c.last_name
		FROM orders o
		LEFT JOIN customers c
		       ON c.external_id = o.customer_external_id AND c.store_id = o.store_id
		WHERE o.store_id = $1
		ORDER BY o.created_at, o.external_id
	`
	return r.queryOrders(ctx, query, storeID)
}

func (r *postgresRepo) OrdersBetween(ctx context.Context, storeID int64, from, to time.Time) ([]OrderRow, error) {
	query := `
		SELECT o.external_id, o.customer_external_id, o.total_price, o.created_at,
		       c.external_id, c.email, c.first_name, c.last_name
		FROM orders o
		LEFT JOIN customers c
		       ON c.external_id = o.customer_external_id AND c.store_id = o.store_id
		WHERE o.store_id = $1 AND o.created_at >= $2 AND o.created_at < $3
		ORDER BY o.created_at, o.external_id
	`
	return r.queryOrders(ctx, query, storeID, from.UTC(), to.UTC())
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (r *postgresRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]OrderRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []OrderRow
	for rows.Next() {
		var (
			o                             OrderRow
			customerID, email, first, last sql.NullString
		)
		if err := rows.Scan(&o.ExternalID, &o.CustomerExternalID, &o.TotalPrice, &o.CreatedAt,
			&customerID, &email, &first, &last); err != nil {
			return nil, err
		}
		o.CreatedAt = o.CreatedAt.UTC()
		if customerID.Valid {
			o.Customer = &CustomerRef{Email: email.String, FirstName: first.String, LastName: last.String}
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
