package order

import "time"

// Order is a Shopify order of one store, addressed by (ExternalID, StoreID).
// CreatedAt and CustomerExternalID are fixed by the first write.
type Order struct {
	ExternalID         string    `json:"externalId"`
	StoreID            int64     `json:"storeId"`
	CustomerExternalID string    `json:"customerExternalId"`
	TotalPrice         float64   `json:"totalPrice"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
