package shopify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const accessTokenHeader = "X-Shopify-Access-Token"

// Client calls the Shopify Admin REST API on behalf of one store at a time.
type Client struct {
	http       *resty.Client
	apiVersion string
	baseURL    string
}

// NewClient builds an Admin API client. An empty baseURL means
// https://{shop-domain}; tests and proxies may point it elsewhere.
func NewClient(apiVersion, baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "storepulse-sync/1.0")
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &Client{http: c, apiVersion: apiVersion, baseURL: strings.TrimRight(baseURL, "/")}
}

// ListOrders fetches the most recent page of orders (any status) for a shop.
func (c *Client) ListOrders(ctx context.Context, shopDomain, accessToken string, limit int) ([]Order, error) {
	if shopDomain == "" {
		return nil, errors.New("shop domain is required")
	}
	if accessToken == "" {
		return nil, errors.New("access token is required")
	}

	var out ordersResponse
	var apiErr errorResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader(accessTokenHeader, accessToken).
		SetQueryParams(map[string]string{
			"limit":  strconv.Itoa(limit),
			"status": "any",
		}).
		SetResult(&out).
		SetError(&apiErr).
		Get(c.endpoint(shopDomain, "orders.json"))
	if err != nil {
		return nil, fmt.Errorf("list orders for %s: %w", shopDomain, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("list orders for %s: status %d: %s", shopDomain, res.StatusCode(), strings.TrimSpace(string(apiErr.Errors)))
	}
	return out.Orders, nil
}

func (c *Client) endpoint(shopDomain, resource string) string {
	base := c.baseURL
	if base == "" {
		base = "https://" + shopDomain
	}
	return fmt.Sprintf("%s/admin/api/%s/%s", base, c.apiVersion, resource)
}
