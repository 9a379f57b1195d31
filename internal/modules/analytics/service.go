package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Service answers the dashboard's read-only questions about one store.
type Service interface {
	Stats(ctx context.Context, storeID int64) (*Stats, error)
	TopCustomers(ctx context.Context, storeID int64) ([]TopCustomer, error)
	OrdersByDate(ctx context.Context, storeID int64, startDate, endDate string) ([]DateBucket, error)
}

type service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) Service {
	return &service{repo: repo, validate: validator.New()}
}

func (s *service) Stats(ctx context.Context, storeID int64) (*Stats, error) {
	if storeID <= 0 {
		return nil, ErrInvalidStore
	}
	st, err := s.repo.Stats(ctx, storeID)
	if err != nil {
		return nil, err
	}
	st.TotalRevenue = roundCents(st.TotalRevenue)
	return st, nil
}

func (s *service) TopCustomers(ctx context.Context, storeID int64) ([]TopCustomer, error) {
	if storeID <= 0 {
		return nil, ErrInvalidStore
	}
	rows, err := s.repo.OrdersWithCustomers(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return RankCustomers(rows, TopCustomerLimit), nil
}

func (s *service) OrdersByDate(ctx context.Context, storeID int64, startDate, endDate string) ([]DateBucket, error) {
	if storeID <= 0 {
		return nil, ErrInvalidStore
	}
	if err := s.validate.Struct(DateRangeQuery{StartDate: startDate, EndDate: endDate}); err != nil {
		return nil, fmt.Errorf("%w: startDate and endDate must be YYYY-MM-DD", ErrInvalidDateRange)
	}
	from, to, err := ParseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.OrdersBetween(ctx, storeID, from, to)
	if err != nil {
		return nil, err
	}
	return BucketByDate(rows), nil
}

// ParseDateRange turns inclusive calendar dates into the half-open UTC
// interval [start 00:00, end+1 00:00).
func ParseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	from, err := time.ParseInLocation(DateLayout, strings.TrimSpace(startDate), time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start date %q", ErrInvalidDateRange, startDate)
	}
	end, err := time.ParseInLocation(DateLayout, strings.TrimSpace(endDate), time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end date %q", ErrInvalidDateRange, endDate)
	}
	if end.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end date before start date", ErrInvalidDateRange)
	}
	return from, end.AddDate(0, 0, 1), nil
}

// RankCustomers sums spend per customer and returns the top n, highest
// first. Equal totals keep the order in which the customer was first seen.
// Orders whose customer is missing are ignored.
func RankCustomers(rows []OrderRow, n int) []TopCustomer {
	index := map[string]int{}
	ranked := make([]TopCustomer, 0)
	for _, o := range rows {
		if o.Customer == nil {
			continue
		}
		i, ok := index[o.CustomerExternalID]
		if !ok {
			i = len(ranked)
			index[o.CustomerExternalID] = i
			ranked = append(ranked, TopCustomer{Name: displayName(o.Customer)})
		}
		ranked[i].Total += o.TotalPrice
	}

	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].Total > ranked[b].Total })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	for i := range ranked {
		ranked[i].Total = roundCents(ranked[i].Total)
	}
	return ranked
}

// BucketByDate groups orders by the UTC date they were created. Only days
// with orders appear, in ascending order. Revenue is rounded per day.
func BucketByDate(rows []OrderRow) []DateBucket {
	type acc struct {
		orders  int
		revenue float64
	}
	days := map[string]*acc{}
	for _, o := range rows {
		day := o.CreatedAt.UTC().Format(DateLayout)
		a, ok := days[day]
		if !ok {
			a = &acc{}
			days[day] = a
		}
		a.orders++
		a.revenue += o.TotalPrice
	}

	out := make([]DateBucket, 0, len(days))
	for day, a := range days {
		out = append(out, DateBucket{Date: day, Orders: a.orders, Revenue: roundCents(a.revenue)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func displayName(c *CustomerRef) string {
	if name := strings.TrimSpace(c.FirstName + " " + c.LastName); name != "" {
		return name
	}
	return c.Email
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
