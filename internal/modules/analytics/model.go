package analytics

import (
	"errors"
	"time"
)

var (
	ErrInvalidStore     = errors.New("invalid store id")
	ErrInvalidDateRange = errors.New("invalid date range")
)

// TopCustomerLimit is how many customers the ranking returns.
const TopCustomerLimit = 5

// DateLayout is the calendar date format used by the dashboard.
const DateLayout = "2006-01-02"

type Stats struct {
	TotalCustomers int64   `json:"totalCustomers"`
	TotalOrders    int64   `json:"totalOrders"`
	TotalRevenue   float64 `json:"totalRevenue"`
}

type TopCustomer struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// DateBucket is one UTC calendar day of orders.
type DateBucket struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// OrderRow is an order joined with its customer. Customer is nil when the
// customer row cannot be found.
type OrderRow struct {
	ExternalID         string
	CustomerExternalID string
	TotalPrice         float64
	CreatedAt          time.Time
	Customer           *CustomerRef
}

type CustomerRef struct {
	Email     string
	FirstName string
	LastName  string
}

// DateRangeQuery holds the orders-by-date query string.
type DateRangeQuery struct {
	StartDate string `validate:"required,datetime=2006-01-02"`
	EndDate   string `validate:"required,datetime=2006-01-02"`
}
