// Package ingesttest provides in-memory customer and order repositories with
// the same conflict semantics as the Postgres ones.
package ingesttest

import (
	"context"
	"fmt"
	"sync"

	"github.com/georgemunganga/storepulse/internal/modules/customer"
	"github.com/georgemunganga/storepulse/internal/modules/order"
)

type key struct {
	externalID string
	storeID    int64
}

// Customers is a customer.Repository backed by a map.
type Customers struct {
	mu   sync.Mutex
	rows map[key]customer.Customer
	// Writes counts upserts that changed a row.
	Writes int
}

func NewCustomers() *Customers {
	return &Customers{rows: map[key]customer.Customer{}}
}

func (m *Customers) Upsert(_ context.Context, c *customer.Customer) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key{c.ExternalID, c.StoreID}
	if cur, ok := m.rows[k]; ok &&
		cur.Email == c.Email && cur.FirstName == c.FirstName && cur.LastName == c.LastName {
		return false, nil
	}
	m.rows[k] = *c
	m.Writes++
	return true, nil
}

func (m *Customers) Get(storeID int64, externalID string) (customer.Customer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[key{externalID, storeID}]
	return c, ok
}

func (m *Customers) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// Orders is an order.Repository backed by a map. It enforces the customer
// foreign key when Customers is set.
type Orders struct {
	mu        sync.Mutex
	rows      map[key]order.Order
	Customers *Customers
	Writes    int
}

func NewOrders(customers *Customers) *Orders {
	return &Orders{rows: map[key]order.Order{}, Customers: customers}
}

func (m *Orders) Upsert(_ context.Context, o *order.Order) (bool, error) {
	if m.Customers != nil {
		if _, ok := m.Customers.Get(o.StoreID, o.CustomerExternalID); !ok {
			return false, fmt.Errorf("upsert order %s: customer %s does not exist", o.ExternalID, o.CustomerExternalID)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key{o.ExternalID, o.StoreID}
	cur, ok := m.rows[k]
	if ok {
		if cur.TotalPrice == o.TotalPrice {
			return false, nil
		}
		cur.TotalPrice = o.TotalPrice
		m.rows[k] = cur
		m.Writes++
		return true, nil
	}
	m.rows[k] = *o
	m.Writes++
	return true, nil
}

func (m *Orders) Get(storeID int64, externalID string) (order.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[key{externalID, storeID}]
	return o, ok
}

func (m *Orders) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}
