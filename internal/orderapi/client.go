// Package orderapi is the client for the remote spreadsheet-backed order/auth
// API: a single POST endpoint taking {action, email, ...} JSON bodies and
// always answering {success, error?, ...}. A non-success answer is surfaced
// verbatim as *errors.ErrRemote; nothing local mutates until the caller
// refetches confirmed server state.
package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/domain"
	"github.com/david-git-2/Wholesale-UK/pkg/errors"
)

// Client calls the remote order API
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an order API client for one endpoint URL
func NewClient(url string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type baseResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Post sends one action. payload keys are merged beside action and email;
// when out is non-nil the full response body is unmarshaled into it after the
// success check.
func (c *Client) Post(ctx context.Context, action, email string, payload map[string]interface{}, out interface{}) error {
	if c.url == "" {
		return fmt.Errorf("order api client not configured: endpoint URL required")
	}

	body := make(map[string]interface{}, len(payload)+2)
	for k, v := range payload {
		body[k] = v
	}
	body["action"] = action
	body["email"] = email

	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	// Apps Script rejects preflighted content types; the API expects plain text
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Order API request failed", zap.Error(err), zap.String("action", action))
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var base baseResponse
	if err := json.Unmarshal(respBody, &base); err != nil {
		return fmt.Errorf("order api returned non-JSON (%d): %w", resp.StatusCode, err)
	}
	if !base.Success {
		msg := base.Error
		if msg == "" {
			msg = base.Message
		}
		c.logger.Warn("Order API rejected action", zap.String("action", action), zap.String("error", msg))
		return &errors.ErrRemote{Action: action, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("order api response for %s: %w", action, err)
		}
	}
	return nil
}

// LoginResponse is the login/access-check answer
type LoginResponse struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
	Token   string `json:"token,omitempty"`
}

// Login performs the access check for an email
func (c *Client) Login(ctx context.Context, email string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.Post(ctx, "login", email, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Email == "" {
		resp.Email = email
	}
	return &resp, nil
}

// CreateOrderRequest is the primary-storefront checkout payload
type CreateOrderRequest struct {
	CreatedAt            time.Time              `json:"created_at"`
	Total                float64                `json:"total"`
	FinalCommissionTotal float64                `json:"final_commission_total"`
	Shipping             domain.ShippingAddress `json:"shipping"`
	Items                []domain.OrderItem     `json:"items"`
}

// CreateOrder submits a primary-storefront order snapshotted from the cart
func (c *Client) CreateOrder(ctx context.Context, email string, req CreateOrderRequest) (orderID string, err error) {
	var resp struct {
		OrderID string `json:"order_id"`
	}
	payload := map[string]interface{}{
		"created_at":             req.CreatedAt.Format(time.RFC3339),
		"total":                  req.Total,
		"final_commission_total": req.FinalCommissionTotal,
		"shipping":               req.Shipping,
		"items":                  req.Items,
	}
	if err := c.Post(ctx, "kbeauty_create_order", email, payload, &resp); err != nil {
		return "", err
	}
	return resp.OrderID, nil
}

// ListOrders lists primary-storefront orders (without items)
func (c *Client) ListOrders(ctx context.Context, email string) ([]domain.Order, error) {
	var resp struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := c.Post(ctx, "list_orders", email, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// GetOrderDetails fetches one primary-storefront order including items
func (c *Client) GetOrderDetails(ctx context.Context, email, orderID string) (*domain.Order, error) {
	var resp struct {
		Order *domain.Order `json:"order"`
	}
	payload := map[string]interface{}{"order_id": orderID}
	if err := c.Post(ctx, "get_order_details", email, payload, &resp); err != nil {
		return nil, err
	}
	if resp.Order == nil {
		return nil, &errors.ErrNotFound{Resource: "order", ID: orderID}
	}
	return resp.Order, nil
}

// UpdateOrder saves item edits and optionally a status change on a
// primary-storefront order
func (c *Client) UpdateOrder(ctx context.Context, email, orderID string, items []domain.OrderItem, status *domain.OrderStatus) error {
	payload := map[string]interface{}{
		"order_id": orderID,
		"items":    items,
	}
	if status != nil {
		payload["status"] = *status
	}
	return c.Post(ctx, "update_order", email, payload, nil)
}

// DeleteOrder soft-deletes a primary-storefront order (status Deleted)
func (c *Client) DeleteOrder(ctx context.Context, email, orderID string) error {
	return c.Post(ctx, "delete_order", email, map[string]interface{}{"order_id": orderID}, nil)
}

// PermanentDeleteOrder removes a primary-storefront order row entirely.
// Irreversible; callers gate it on Shipped/Cancelled status.
func (c *Client) PermanentDeleteOrder(ctx context.Context, email, orderID string) error {
	return c.Post(ctx, "permanent_delete_order", email, map[string]interface{}{"order_id": orderID}, nil)
}

// UKOrdersResponse is the uk_fetch_orders answer
type UKOrdersResponse struct {
	Orders []domain.UKOrder `json:"orders"`
}

// UKFetchOrders lists UK orders, optionally filtered by status
func (c *Client) UKFetchOrders(ctx context.Context, email string, status domain.UKOrderStatus, limit int) ([]domain.UKOrder, error) {
	payload := map[string]interface{}{}
	if status != "" {
		payload["status"] = status
	}
	if limit > 0 {
		payload["limit"] = limit
	}
	var resp UKOrdersResponse
	if err := c.Post(ctx, "uk_fetch_orders", email, payload, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// UKOrderResponse is the uk_get_order answer
type UKOrderResponse struct {
	Order *domain.UKOrder      `json:"order"`
	Items []domain.UKOrderItem `json:"items"`
}

// UKGetOrder fetches one UK order with its items
func (c *Client) UKGetOrder(ctx context.Context, email, orderID string) (*UKOrderResponse, error) {
	var resp UKOrderResponse
	if err := c.Post(ctx, "uk_get_order", email, map[string]interface{}{"orderId": orderID}, &resp); err != nil {
		return nil, err
	}
	if resp.Order == nil {
		return nil, &errors.ErrNotFound{Resource: "order", ID: orderID}
	}
	return &resp, nil
}

// UKCreateOrder creates a UK order (normally at draft status)
func (c *Client) UKCreateOrder(ctx context.Context, email, orderName string, status domain.UKOrderStatus, items []domain.UKOrderItem) (orderID string, err error) {
	var resp struct {
		OrderID string `json:"orderId"`
	}
	payload := map[string]interface{}{
		"orderName": orderName,
		"status":    status,
		"items":     items,
	}
	if err := c.Post(ctx, "uk_create_order", email, payload, &resp); err != nil {
		return "", err
	}
	return resp.OrderID, nil
}

// UKUpdateOrder patches a UK order header
func (c *Client) UKUpdateOrder(ctx context.Context, email, orderID string, patch domain.UKOrderPatch) error {
	payload := map[string]interface{}{"orderId": orderID}
	if patch.OrderName != nil {
		payload["orderName"] = *patch.OrderName
	}
	if patch.Status != nil {
		payload["status"] = *patch.Status
	}
	if patch.ConversionRate != nil {
		payload["conversionRate"] = *patch.ConversionRate
	}
	if patch.CuriaCost != nil {
		payload["curiaCost"] = *patch.CuriaCost
	}
	if patch.StockListID != nil {
		payload["stockListId"] = *patch.StockListID
	}
	return c.Post(ctx, "uk_update_order", email, payload, nil)
}

// UKDeleteOrder deletes a UK order and all its items
func (c *Client) UKDeleteOrder(ctx context.Context, email, orderID string) error {
	return c.Post(ctx, "uk_delete_order", email, map[string]interface{}{"orderId": orderID}, nil)
}

// UKUpdateItems applies per-item patches on one UK order
func (c *Client) UKUpdateItems(ctx context.Context, email, orderID string, items []domain.UKItemPatch) error {
	payload := map[string]interface{}{
		"orderId": orderID,
		"items":   items,
	}
	return c.Post(ctx, "uk_update_items", email, payload, nil)
}

// UKDeleteItems removes items by barcode from one UK order
func (c *Client) UKDeleteItems(ctx context.Context, email, orderID string, barcodes []string) error {
	payload := map[string]interface{}{
		"orderId":  orderID,
		"barcodes": barcodes,
	}
	return c.Post(ctx, "uk_delete_items", email, payload, nil)
}

// UKAggregateResponse is the stocklist aggregate answer. Items arrive as raw
// maps because the sheet mixes key casings; callers normalize each row.
type UKAggregateResponse struct {
	StockListID string                   `json:"stockListId"`
	OrderCount  int                      `json:"orderCount"`
	Orders      []domain.UKOrder         `json:"orders"`
	Items       []map[string]interface{} `json:"items"`
}

// UKAggregateStockList fetches the per-product roll-up for one stocklist
func (c *Client) UKAggregateStockList(ctx context.Context, email, stockListID string, useShipped bool) (*UKAggregateResponse, error) {
	payload := map[string]interface{}{
		"stockListId": stockListID,
		"useShipped":  useShipped,
	}
	var resp UKAggregateResponse
	if err := c.Post(ctx, "uk_admin_aggregate_stocklist", email, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
