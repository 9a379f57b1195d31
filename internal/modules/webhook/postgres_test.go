package webhook

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaim(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	q := regexp.QuoteMeta("ON CONFLICT (webhook_id) DO NOTHING")
	mock.ExpectExec(q).WithArgs("w-1", "a.myshopify.com", TopicOrdersCreate, at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("w-1", "a.myshopify.com", TopicOrdersCreate, at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	d := &Delivery{WebhookID: "w-1", ShopDomain: "a.myshopify.com", Topic: TopicOrdersCreate, ReceivedAt: at}
	fresh, err := repo.Claim(context.Background(), d)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = repo.Claim(context.Background(), d)
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.NoError(t, mock.ExpectationsWereMet())
}
