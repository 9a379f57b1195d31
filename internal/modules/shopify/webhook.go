package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Webhook request headers set by Shopify.
const (
	HeaderTopic      = "X-Shopify-Topic"
	HeaderShopDomain = "X-Shopify-Shop-Domain"
	HeaderHMAC       = "X-Shopify-Hmac-Sha256"
	HeaderWebhookID  = "X-Shopify-Webhook-Id"
)

// VerifyWebhook checks the base64 HMAC-SHA256 Shopify computes over the raw body.
func VerifyWebhook(secret string, body []byte, providedB64 string) bool {
	provided, err := base64.StdEncoding.DecodeString(strings.TrimSpace(providedB64))
	if err != nil || len(provided) == 0 {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	return hmac.Equal(mac.Sum(nil), provided)
}

// SignWebhook returns the header value Shopify would send for body.
func SignWebhook(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// NormalizeDomain lowercases and trims a shop domain.
func NormalizeDomain(shop string) string {
	return strings.ToLower(strings.TrimSpace(shop))
}

// IsWellFormedDomain accepts any bare host name: no path, port, userinfo
// or whitespace.
func IsWellFormedDomain(shop string) bool {
	return shop != "" && !strings.ContainsAny(shop, "/:@ \t\r\n")
}

// IsValidShopDomain accepts "<name>.myshopify.com" hosts only.
func IsValidShopDomain(shop string) bool {
	if !strings.HasSuffix(shop, ".myshopify.com") {
		return false
	}
	if strings.ContainsAny(shop, "/ :@") {
		return false
	}
	return len(shop) >= len("a.myshopify.com")
}
