package customer

import "time"

// Customer is a shopper of one store, addressed by (ExternalID, StoreID).
type Customer struct {
	ExternalID string    `json:"externalId"`
	StoreID    int64     `json:"storeId"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
