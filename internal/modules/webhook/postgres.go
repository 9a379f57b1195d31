package webhook

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresRepo struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) Claim(ctx context.Context, d *Delivery) (bool, error) {
	query := `
		INSERT INTO webhook_deliveries (webhook_id, shop_domain, topic, received_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (webhook_id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, d.WebhookID, d.ShopDomain, d.Topic, d.ReceivedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("claim delivery %s: %w", d.WebhookID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
