package customer

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepo_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRepository(db)
	c := &Customer{ExternalID: "9001", StoreID: 7, Email: "ann@example.com", FirstName: "Ann", LastName: "Lee"}
	upsert := regexp.QuoteMeta("ON CONFLICT (external_id, store_id) DO UPDATE")

	mock.ExpectExec(upsert).
		WithArgs("9001", int64(7), "ann@example.com", "Ann", "Lee").
		WillReturnResult(sqlmock.NewResult(0, 1))
	changed, err := repo.Upsert(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, changed)

	// Re-applying identical values matches the IS DISTINCT FROM guard and touches nothing.
	mock.ExpectExec(upsert).
		WithArgs("9001", int64(7), "ann@example.com", "Ann", "Lee").
		WillReturnResult(sqlmock.NewResult(0, 0))
	changed, err = repo.Upsert(context.Background(), c)
	require.NoError(t, err)
	assert.False(t, changed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_UpsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO customers").WillReturnError(errors.New("fk violation"))
	_, err = NewPostgresRepository(db).Upsert(context.Background(), &Customer{ExternalID: "1", StoreID: 1})
	assert.ErrorContains(t, err, "upsert customer 1")
}
