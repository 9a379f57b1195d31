package syncjob

import (
	"time"
)

// StoreResult is the outcome of syncing one store.
type StoreResult struct {
	StoreID      int64  `json:"storeId"`
	ShopDomain   string `json:"-"`
	OrdersSeen   int    `json:"ordersSeen"`
	OrdersSynced int    `json:"ordersSynced"`
	Skipped      int    `json:"skipped"`
	Err          error  `json:"-"`
}

// RunReport summarizes one pass over all candidate stores.
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Stores     []StoreResult
	// Err aggregates every failed store, nil when all succeeded.
	Err error
}

// Failed counts stores whose sync returned an error.
func (r RunReport) Failed() int {
	n := 0
	for _, s := range r.Stores {
		if s.Err != nil {
			n++
		}
	}
	return n
}
