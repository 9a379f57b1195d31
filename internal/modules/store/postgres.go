package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const storeColumns = `id, shop_domain, access_token, last_synced_at, last_sync_error, created_at, updated_at`

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*Store, error) {
	return r.scanStore(r.db.QueryRowContext(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE id=$1`, id))
}

func (r *postgresRepo) GetByDomain(ctx context.Context, domain string) (*Store, error) {
	return r.scanStore(r.db.QueryRowContext(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE shop_domain=$1`, domain))
}

// GetOrCreate relies on the unique shop_domain constraint so that concurrent
// first-seen webhooks for one shop end up with a single row.
func (r *postgresRepo) GetOrCreate(ctx context.Context, domain, credential string) (*Store, bool, error) {
	s, err := r.scanStore(r.db.QueryRowContext(ctx, `
		INSERT INTO stores (shop_domain, access_token) VALUES ($1, $2)
		ON CONFLICT (shop_domain) DO NOTHING
		RETURNING `+storeColumns, domain, credential))
	if err == nil {
		return s, true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, fmt.Errorf("insert store: %w", err)
	}
	s, err = r.GetByDomain(ctx, domain)
	if err != nil {
		return nil, false, err
	}
	return s, false, nil
}

func (r *postgresRepo) SetCredential(ctx context.Context, id int64, credential string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE stores SET access_token=$1, updated_at=NOW() WHERE id=$2`, credential, id)
	if err != nil {
		return fmt.Errorf("update store credential: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ListWithCredential(ctx context.Context) ([]*Store, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+storeColumns+` FROM stores
		WHERE access_token IS NOT NULL AND access_token <> '' AND access_token <> $1
		ORDER BY id ASC`, PlaceholderCredential)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []*Store
	for rows.Next() {
		s := &Store{}
		if err := scanInto(rows, s); err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *postgresRepo) RecordSync(ctx context.Context, id int64, at time.Time, syncErr string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE stores SET last_synced_at=$1, last_sync_error=NULLIF($2, '') WHERE id=$3`,
		at, syncErr, id)
	return err
}

// ── helpers ──────────────────────────────────────────────────────────────────

type scanner interface {
	Scan(dest ...any) error
}

func (r *postgresRepo) scanStore(row *sql.Row) (*Store, error) {
	s := &Store{}
	if err := scanInto(row, s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func scanInto(row scanner, s *Store) error {
	var token, syncErr sql.NullString
	var syncedAt sql.NullTime
	if err := row.Scan(&s.ID, &s.ShopDomain, &token, &syncedAt, &syncErr, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return err
	}
	if token.Valid {
		t := token.String
		s.AccessToken = &t
	}
	if syncedAt.Valid {
		at := syncedAt.Time
		s.LastSyncedAt = &at
	}
	s.LastSyncError = syncErr.String
	return nil
}
