package syncjob

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/storepulse/internal/modules/ingest"
	"github.com/georgemunganga/storepulse/internal/modules/ingest/ingesttest"
	"github.com/georgemunganga/storepulse/internal/modules/shopify"
	"github.com/georgemunganga/storepulse/internal/modules/store"
)

type fakeStores struct {
	mu         sync.Mutex
	candidates []*store.Credentialed
	listErr    error
	recorded   map[int64]error
}

func (f *fakeStores) SyncCandidates(context.Context) ([]*store.Credentialed, error) {
	return f.candidates, f.listErr
}

func (f *fakeStores) Credentialed(_ context.Context, id int64) (*store.Credentialed, error) {
	for _, c := range f.candidates {
		if c.Store.ID == id {
			return c, nil
		}
	}
	return nil, store.ErrNoCredential
}

func (f *fakeStores) RecordSync(_ context.Context, id int64, _ time.Time, syncErr error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded[id] = syncErr
	return nil
}

type fakeShopify struct {
	mu     sync.Mutex
	pages  map[string][]shopify.Order
	fail   map[string]error
	limits []int
}

func (f *fakeShopify) ListOrders(_ context.Context, shop, token string, limit int) ([]shopify.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits = append(f.limits, limit)
	if token == "" {
		return nil, errors.New("no token")
	}
	if err := f.fail[shop]; err != nil {
		return nil, err
	}
	return f.pages[shop], nil
}

func candidate(id int64, shop string) *store.Credentialed {
	return &store.Credentialed{Store: &store.Store{ID: id, ShopDomain: shop}, AccessToken: "shpat_" + shop}
}

func order(id, price, customerID string) shopify.Order {
	o := shopify.Order{ID: shopify.ID(id), TotalPrice: price, CreatedAt: "2025-02-01T12:00:00Z"}
	if customerID != "" {
		o.Customer = &shopify.Customer{ID: shopify.ID(customerID), Email: customerID + "@example.com"}
	}
	return o
}

type fixture struct {
	syncer    *Syncer
	stores    *fakeStores
	api       *fakeShopify
	customers *ingesttest.Customers
	orders    *ingesttest.Orders
}

func newFixture(concurrency int, candidates ...*store.Credentialed) *fixture {
	customers := ingesttest.NewCustomers()
	orders := ingesttest.NewOrders(customers)
	stores := &fakeStores{candidates: candidates, recorded: map[int64]error{}}
	api := &fakeShopify{pages: map[string][]shopify.Order{}, fail: map[string]error{}}
	return &fixture{
		syncer:    NewSyncer(stores, api, ingest.NewService(customers, orders), 50, concurrency),
		stores:    stores,
		api:       api,
		customers: customers,
		orders:    orders,
	}
}

func TestRun_FailingStoreDoesNotStopOthers(t *testing.T) {
	f := newFixture(1, candidate(1, "broken.myshopify.com"), candidate(2, "ok.myshopify.com"))
	f.api.fail["broken.myshopify.com"] = errors.New("status 401")
	f.api.pages["ok.myshopify.com"] = []shopify.Order{order("10", "5.00", "c1")}

	report := f.syncer.Run(context.Background())

	require.Len(t, report.Stores, 2)
	assert.ErrorIs(t, report.Stores[0].Err, ErrFetchOrders)
	assert.NoError(t, report.Stores[1].Err)
	assert.Equal(t, 1, report.Stores[1].OrdersSynced)
	assert.Equal(t, 1, report.Failed())
	require.Error(t, report.Err)
	assert.Contains(t, report.Err.Error(), "broken.myshopify.com")
	assert.NotEmpty(t, report.RunID)

	_, ok := f.orders.Get(2, "10")
	assert.True(t, ok)
	assert.Error(t, f.stores.recorded[1])
	assert.NoError(t, f.stores.recorded[2])
	assert.Contains(t, f.stores.recorded, int64(2))
}

func TestRun_SkipsOrdersWithoutCustomer(t *testing.T) {
	f := newFixture(1, candidate(1, "a.myshopify.com"))
	f.api.pages["a.myshopify.com"] = []shopify.Order{
		order("1", "10.00", ""),
		order("2", "12.00", "c1"),
	}

	report := f.syncer.Run(context.Background())

	require.NoError(t, report.Err)
	assert.Equal(t, StoreResult{StoreID: 1, ShopDomain: "a.myshopify.com", OrdersSeen: 2, OrdersSynced: 1, Skipped: 1}, report.Stores[0])
	assert.Equal(t, 1, f.orders.Count())
	assert.Equal(t, 1, f.customers.Count())
}

func TestRun_RerunLeavesRowsUnchanged(t *testing.T) {
	f := newFixture(1, candidate(1, "a.myshopify.com"))
	f.api.pages["a.myshopify.com"] = []shopify.Order{
		order("1", "10.00", "c1"),
		order("2", "20.00", "c1"),
		order("3", "30.00", "c2"),
	}

	f.syncer.Run(context.Background())
	customers, orders := f.customers.Count(), f.orders.Count()
	writes := f.orders.Writes + f.customers.Writes

	report := f.syncer.Run(context.Background())
	require.NoError(t, report.Err)
	assert.Equal(t, customers, f.customers.Count())
	assert.Equal(t, orders, f.orders.Count())
	assert.Equal(t, writes, f.orders.Writes+f.customers.Writes)
}

func TestRun_ErrorAbortsRestOfPage(t *testing.T) {
	f := newFixture(1, candidate(1, "a.myshopify.com"), candidate(2, "b.myshopify.com"))
	f.api.pages["a.myshopify.com"] = []shopify.Order{
		order("1", "10.00", "c1"),
		order("2", "not-a-price", "c1"),
		order("3", "30.00", "c1"),
	}
	f.api.pages["b.myshopify.com"] = []shopify.Order{order("9", "1.00", "c9")}

	report := f.syncer.Run(context.Background())

	assert.ErrorIs(t, report.Stores[0].Err, ingest.ErrInvalidPrice)
	assert.Equal(t, 1, report.Stores[0].OrdersSynced)
	_, ok := f.orders.Get(1, "3")
	assert.False(t, ok)
	_, ok = f.orders.Get(2, "9")
	assert.True(t, ok)
}

func TestRun_ListCandidatesError(t *testing.T) {
	f := newFixture(1)
	f.stores.listErr = errors.New("db down")

	report := f.syncer.Run(context.Background())
	assert.ErrorContains(t, report.Err, "db down")
	assert.Empty(t, report.Stores)
}

func TestRun_BoundedConcurrency(t *testing.T) {
	var candidates []*store.Credentialed
	for i := 1; i <= 8; i++ {
		candidates = append(candidates, candidate(int64(i), fmt.Sprintf("s%d.myshopify.com", i)))
	}
	f := newFixture(3, candidates...)
	for _, c := range candidates {
		f.api.pages[c.Store.ShopDomain] = []shopify.Order{order("1", "1.00", "c1")}
	}

	report := f.syncer.Run(context.Background())

	require.NoError(t, report.Err)
	require.Len(t, report.Stores, 8)
	for i, r := range report.Stores {
		assert.Equal(t, int64(i+1), r.StoreID)
	}
	assert.Equal(t, 8, f.orders.Count())
}

func TestNewSyncer_ClampsPageSize(t *testing.T) {
	for _, size := range []int{0, -1, 51, 500} {
		s := NewSyncer(nil, nil, nil, size, 0)
		assert.Equal(t, 50, s.pageSize)
		assert.Equal(t, 1, s.concurrency)
	}
	assert.Equal(t, 10, NewSyncer(nil, nil, nil, 10, 2).pageSize)
}

func TestRun_UsesPageSize(t *testing.T) {
	f := newFixture(1, candidate(1, "a.myshopify.com"))
	f.syncer.Run(context.Background())
	assert.Equal(t, []int{50}, f.api.limits)
}

func TestSyncStoreByID(t *testing.T) {
	f := newFixture(1, candidate(1, "a.myshopify.com"))
	f.api.pages["a.myshopify.com"] = []shopify.Order{order("1", "1.00", "c1")}

	res, err := f.syncer.SyncStoreByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.OrdersSynced)

	_, err = f.syncer.SyncStoreByID(context.Background(), 99)
	assert.ErrorIs(t, err, store.ErrNoCredential)
}
