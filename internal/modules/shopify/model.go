package shopify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is an identifier assigned by Shopify. The Admin API sends numeric ids,
// some payloads send strings; both decode to the same decimal text.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("shopify id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Customer is the subset of a Shopify customer resource this service stores.
type Customer struct {
	ID        ID     `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Order is the subset of a Shopify order resource this service stores.
// TotalPrice is the decimal string Shopify sends; CreatedAt is ISO 8601.
type Order struct {
	ID         ID        `json:"id"`
	TotalPrice string    `json:"total_price"`
	CreatedAt  string    `json:"created_at"`
	Customer   *Customer `json:"customer"`
}

type ordersResponse struct {
	Orders []Order `json:"orders"`
}

type errorResponse struct {
	Errors json.RawMessage `json:"errors"`
}
