// Package feed fetches the static JSON product/brand documents the
// storefronts render from. Each document is either a bare array or an object
// wrapping the array under "items", "products" or "brands"; every fetch is
// cache-disabled so stock figures are never stale.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/domain"
)

// Client fetches feed documents over HTTP
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a feed client
func NewClient(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// FetchProducts fetches and normalizes a product feed
func (c *Client) FetchProducts(ctx context.Context, url string) ([]domain.Product, error) {
	raw, err := c.fetchEntries(ctx, url)
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(raw))
	for _, m := range raw {
		products = append(products, domain.NormalizeProduct(m))
	}
	return products, nil
}

// FetchBrands fetches a brand feed as plain names
func (c *Client) FetchBrands(ctx context.Context, url string) ([]string, error) {
	raw, err := c.fetchEntries(ctx, url)
	if err != nil {
		return nil, err
	}
	brands := make([]string, 0, len(raw))
	for _, m := range raw {
		if name, ok := m["name"].(string); ok && name != "" {
			brands = append(brands, name)
		}
	}
	return brands, nil
}

// fetchEntries gets the document and unwraps the array regardless of shape
func (c *Client) fetchEntries(ctx context.Context, url string) ([]map[string]interface{}, error) {
	if url == "" {
		return nil, fmt.Errorf("feed url not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Feed request failed", zap.Error(err), zap.String("url", url))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("feed returned %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return unwrapEntries(body)
}

func unwrapEntries(body []byte) ([]map[string]interface{}, error) {
	// Bare array first
	var arr []map[string]interface{}
	if err := json.Unmarshal(body, &arr); err == nil {
		return arr, nil
	}

	// Otherwise an object with a named array field
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("feed document is neither array nor object: %w", err)
	}
	for _, field := range []string{"items", "products", "brands"} {
		raw, ok := obj[field]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &arr); err != nil {
			return nil, fmt.Errorf("feed field %q is not an array: %w", field, err)
		}
		return arr, nil
	}
	return nil, fmt.Errorf("feed document has no items/products/brands array")
}
