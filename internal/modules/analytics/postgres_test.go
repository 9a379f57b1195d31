package analytics

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderCols = []string{"external_id", "customer_external_id", "total_price", "created_at", "external_id", "email", "first_name", "last_name"}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestStats(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(SUM(total_price), 0)")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"c", "o", "r"}).AddRow(int64(2), int64(5), 120.5))

	st, err := repo.Stats(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, &Stats{TotalCustomers: 2, TotalOrders: 5, TotalRevenue: 120.5}, st)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrdersWithCustomers_OrphanHasNoCustomer(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN customers")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow("o1", "c1", 10.0, at, "c1", "a@b.c", "Ann", "").
			AddRow("o2", "c9", 5.0, at, nil, nil, nil, nil))

	rows, err := repo.OrdersWithCustomers(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, &CustomerRef{Email: "a@b.c", FirstName: "Ann"}, rows[0].Customer)
	assert.Nil(t, rows[1].Customer)
}

func TestOrdersBetween(t *testing.T) {
	repo, mock := newMockRepo(t)
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	mock.ExpectQuery(regexp.QuoteMeta("o.created_at >= $2 AND o.created_at < $3")).
		WithArgs(int64(1), from, to).
		WillReturnRows(sqlmock.NewRows(orderCols))

	rows, err := repo.OrdersBetween(context.Background(), 1, from, to)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
