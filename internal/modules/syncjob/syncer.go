package syncjob

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/georgemunganga/storepulse/internal/modules/ingest"
	"github.com/georgemunganga/storepulse/internal/modules/shopify"
	"github.com/georgemunganga/storepulse/internal/modules/store"
)

const maxPageSize = 50

// ErrFetchOrders marks failures of the outbound order listing.
var ErrFetchOrders = errors.New("fetch orders")

// StoreSource lists stores to poll and records how each run went.
type StoreSource interface {
	SyncCandidates(ctx context.Context) ([]*store.Credentialed, error)
	Credentialed(ctx context.Context, id int64) (*store.Credentialed, error)
	RecordSync(ctx context.Context, id int64, at time.Time, syncErr error) error
}

// OrderSource fetches the most recent page of a store's orders.
type OrderSource interface {
	ListOrders(ctx context.Context, shopDomain, accessToken string, limit int) ([]shopify.Order, error)
}

// Applier writes one order and its customer.
type Applier interface {
	ApplyOrder(ctx context.Context, storeID int64, o shopify.Order) (ingest.Result, error)
}

// Syncer pulls recent orders for every configured store.
type Syncer struct {
	stores      StoreSource
	orders      OrderSource
	applier     Applier
	pageSize    int
	concurrency int
	now         func() time.Time
}

// NewSyncer clamps pageSize to 1..50. A concurrency of 1 processes stores
// one after another.
func NewSyncer(stores StoreSource, orders OrderSource, applier Applier, pageSize, concurrency int) *Syncer {
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Syncer{
		stores:      stores,
		orders:      orders,
		applier:     applier,
		pageSize:    pageSize,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Run syncs every candidate store. A failing store never stops the others;
// its error ends up in the report.
func (s *Syncer) Run(ctx context.Context) RunReport {
	report := RunReport{RunID: uuid.NewString(), StartedAt: s.now()}

	candidates, err := s.stores.SyncCandidates(ctx)
	if err != nil {
		report.Err = fmt.Errorf("list sync candidates: %w", err)
		log.Printf("sync[%s]: %v", report.RunID, report.Err)
		report.FinishedAt = s.now()
		return report
	}

	results := make([]StoreResult, len(candidates))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			results[i] = s.syncStore(ctx, report.RunID, c)
			return nil
		})
	}
	_ = g.Wait()

	var errs *multierror.Error
	for _, r := range results {
		if r.Err != nil {
			errs = multierror.Append(errs, fmt.Errorf("store %d (%s): %w", r.StoreID, r.ShopDomain, r.Err))
		}
	}
	report.Stores = results
	report.Err = errs.ErrorOrNil()
	report.FinishedAt = s.now()
	return report
}

// SyncStoreByID runs the per-store sync once for a single store.
func (s *Syncer) SyncStoreByID(ctx context.Context, id int64) (StoreResult, error) {
	c, err := s.stores.Credentialed(ctx, id)
	if err != nil {
		return StoreResult{StoreID: id}, err
	}
	res := s.syncStore(ctx, "manual", c)
	return res, res.Err
}

func (s *Syncer) syncStore(ctx context.Context, runID string, c *store.Credentialed) StoreResult {
	res := StoreResult{StoreID: c.Store.ID, ShopDomain: c.Store.ShopDomain}

	orders, err := s.orders.ListOrders(ctx, c.Store.ShopDomain, c.AccessToken, s.pageSize)
	if err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrFetchOrders, err)
	} else {
		res.OrdersSeen = len(orders)
		for _, o := range orders {
			if o.Customer == nil || o.Customer.ID == "" {
				res.Skipped++
				continue
			}
			// The first failure abandons the rest of this store's page.
			if _, err := s.applier.ApplyOrder(ctx, c.Store.ID, o); err != nil {
				res.Err = err
				break
			}
			res.OrdersSynced++
		}
	}

	if err := s.stores.RecordSync(ctx, c.Store.ID, s.now(), res.Err); err != nil {
		log.Printf("sync[%s]: record result for store %d: %v", runID, c.Store.ID, err)
	}
	if res.Err != nil {
		log.Printf("sync[%s]: store %d (%s) failed after %d/%d orders: %v",
			runID, res.StoreID, res.ShopDomain, res.OrdersSynced, res.OrdersSeen, res.Err)
	} else {
		log.Printf("sync[%s]: store %d (%s) synced %d orders, skipped %d",
			runID, res.StoreID, res.ShopDomain, res.OrdersSynced, res.Skipped)
	}
	return res
}
