package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/storepulse/internal/modules/customer"
	"github.com/georgemunganga/storepulse/internal/modules/order"
	"github.com/georgemunganga/storepulse/internal/modules/shopify"
)

type customerRepoMock struct{ mock.Mock }

func (m *customerRepoMock) Upsert(ctx context.Context, c *customer.Customer) (bool, error) {
	args := m.Called(ctx, c)
	return args.Bool(0), args.Error(1)
}

type orderRepoMock struct{ mock.Mock }

func (m *orderRepoMock) Upsert(ctx context.Context, o *order.Order) (bool, error) {
	args := m.Called(ctx, o)
	return args.Bool(0), args.Error(1)
}

func newTestService() (*service, *customerRepoMock, *orderRepoMock) {
	c := new(customerRepoMock)
	o := new(orderRepoMock)
	return &service{customers: c, orders: o}, c, o
}

func sampleOrder() shopify.Order {
	return shopify.Order{
		ID:         "5001",
		TotalPrice: "30.50",
		CreatedAt:  "2025-03-01T22:30:00-05:00",
		Customer:   &shopify.Customer{ID: "9001", Email: "ann@example.com", FirstName: "Ann", LastName: "Lee"},
	}
}

func TestApplyOrder_CustomerBeforeOrder(t *testing.T) {
	svc, customers, orders := newTestService()
	ctx := context.Background()

	var calls []string
	customers.On("Upsert", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
		return c.ExternalID == "9001" && c.StoreID == 7 && c.Email == "ann@example.com" &&
			c.FirstName == "Ann" && c.LastName == "Lee"
	})).Run(func(mock.Arguments) { calls = append(calls, "customer") }).Return(true, nil).Once()

	orders.On("Upsert", ctx, mock.MatchedBy(func(o *order.Order) bool {
		return o.ExternalID == "5001" && o.StoreID == 7 && o.CustomerExternalID == "9001" &&
			o.TotalPrice == 30.50 &&
			o.CreatedAt.Equal(time.Date(2025, 3, 2, 3, 30, 0, 0, time.UTC)) &&
			o.CreatedAt.Location() == time.UTC
	})).Run(func(mock.Arguments) { calls = append(calls, "order") }).Return(true, nil).Once()

	res, err := svc.ApplyOrder(ctx, 7, sampleOrder())
	require.NoError(t, err)
	assert.Equal(t, Result{CustomerChanged: true, OrderChanged: true}, res)
	assert.Equal(t, []string{"customer", "order"}, calls)
	customers.AssertExpectations(t)
	orders.AssertExpectations(t)
}

func TestApplyOrder_NoCustomerWritesNothing(t *testing.T) {
	svc, customers, orders := newTestService()
	o := sampleOrder()
	o.Customer = nil

	_, err := svc.ApplyOrder(context.Background(), 7, o)
	assert.ErrorIs(t, err, ErrNoCustomer)
	customers.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	orders.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestApplyOrder_InvalidPriceWritesNothing(t *testing.T) {
	for _, price := range []string{"abc", "", "NaN", "-1.00", "Inf"} {
		t.Run(price, func(t *testing.T) {
			svc, customers, orders := newTestService()
			o := sampleOrder()
			o.TotalPrice = price

			_, err := svc.ApplyOrder(context.Background(), 7, o)
			assert.ErrorIs(t, err, ErrInvalidPrice)
			customers.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
			orders.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		})
	}
}

func TestApplyOrder_InvalidTimestamp(t *testing.T) {
	svc, customers, _ := newTestService()
	o := sampleOrder()
	o.CreatedAt = "yesterday"

	_, err := svc.ApplyOrder(context.Background(), 7, o)
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
	customers.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestApplyOrder_CustomerFailureStopsOrder(t *testing.T) {
	svc, customers, orders := newTestService()
	customers.On("Upsert", mock.Anything, mock.Anything).Return(false, errors.New("db down"))

	_, err := svc.ApplyOrder(context.Background(), 7, sampleOrder())
	assert.EqualError(t, err, "db down")
	orders.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestApplyCustomer(t *testing.T) {
	svc, customers, _ := newTestService()
	customers.On("Upsert", mock.Anything, mock.MatchedBy(func(c *customer.Customer) bool {
		return c.ExternalID == "42" && c.Email == "bo@example.com"
	})).Return(false, nil)

	res, err := svc.ApplyCustomer(context.Background(), 3, shopify.Customer{ID: "42", Email: "bo@example.com"})
	require.NoError(t, err)
	assert.False(t, res.CustomerChanged)

	_, err = svc.ApplyCustomer(context.Background(), 3, shopify.Customer{})
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestUpsertOrder_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	now := time.Now()

	_, err := svc.UpsertOrder(ctx, 1, "", 1, now, "c")
	assert.ErrorIs(t, err, ErrMissingID)
	_, err = svc.UpsertOrder(ctx, 1, "o", 1, now, " ")
	assert.ErrorIs(t, err, ErrNoCustomer)
	_, err = svc.UpsertOrder(ctx, 1, "o", -5, now, "c")
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestParsePrice(t *testing.T) {
	v, err := ParsePrice(" 10.005 ")
	require.NoError(t, err)
	assert.Equal(t, 10.005, v)

	v, err = ParsePrice("0.00")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	v, err = ParsePrice("42")
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)
}

func TestParsePrice_RejectsNonDecimalForms(t *testing.T) {
	for _, in := range []string{"0x1p4", "1e3", "1E-2", "+5.00", "-0.00", ".5", "5.", "1_000.00", "1,000.00", "Infinity", "nan"} {
		_, err := ParsePrice(in)
		assert.ErrorIs(t, err, ErrInvalidPrice, in)
	}
}
