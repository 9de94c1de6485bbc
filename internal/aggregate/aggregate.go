// Package aggregate builds the admin roll-up view for one stocklist: every
// product ordered across all orders on that list, merged by barcode, with a
// per-order breakdown of shipped quantity and final price. Edits are grouped
// into one item-update call per order, then the whole view is reloaded from
// the server.
package aggregate

import (
	"context"

	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/domain"
	"github.com/david-git-2/Wholesale-UK/internal/orderapi"
	"github.com/david-git-2/Wholesale-UK/pkg/errors"
)

// API is the slice of the remote client the aggregate view needs
type API interface {
	UKAggregateStockList(ctx context.Context, email, stockListID string, useShipped bool) (*orderapi.UKAggregateResponse, error)
	UKUpdateItems(ctx context.Context, email, orderID string, items []domain.UKItemPatch) error
}

// View is one loaded stocklist roll-up
type View struct {
	StockListID string                `json:"stockListId"`
	OrderCount  int                   `json:"orderCount"`
	Orders      []domain.UKOrder      `json:"orders"`
	Rows        []domain.AggregateRow `json:"rows"`
}

// CellEdit is one edited per-order cell of the roll-up grid
type CellEdit struct {
	OrderID         string   `json:"orderId"`
	Barcode         string   `json:"barcode"`
	ShippedQuantity *int     `json:"shippedQuantity,omitempty"`
	FinalPriceBDT   *float64 `json:"finalPriceBDT,omitempty"`
}

// Service loads and edits the stocklist roll-up. Admin only.
type Service struct {
	api    API
	logger *zap.Logger
}

// NewService creates an aggregate service
func NewService(api API, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, logger: logger}
}

// Load fetches and normalizes the roll-up for one stocklist. useShipped
// switches the totals column between ordered and shipped quantities.
func (s *Service) Load(ctx context.Context, user *domain.User, stockListID string, useShipped bool) (*View, error) {
	if user == nil || !user.Admin() {
		return nil, &errors.ErrUnauthorized{Message: "admin only"}
	}
	if stockListID == "" {
		return nil, &errors.ErrValidation{Message: "stock list id is required"}
	}

	resp, err := s.api.UKAggregateStockList(ctx, user.Email, stockListID, useShipped)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.AggregateRow, 0, len(resp.Items))
	for _, raw := range resp.Items {
		row := domain.NormalizeAggregateRow(raw)
		if row.Barcode == "" {
			continue
		}
		rows = append(rows, row)
	}

	s.logger.Info("Stocklist aggregate loaded",
		zap.String("stock_list_id", stockListID),
		zap.Int("orders", resp.OrderCount),
		zap.Int("rows", len(rows)),
	)
	return &View{
		StockListID: resp.StockListID,
		OrderCount:  resp.OrderCount,
		Orders:      resp.Orders,
		Rows:        rows,
	}, nil
}

// Save applies edited cells. Edits are grouped by order so each touched order
// gets exactly one item-update call; after all writes succeed the view is
// reloaded in full rather than patched locally. A failed order write aborts
// the batch, leaving later orders untouched.
func (s *Service) Save(ctx context.Context, user *domain.User, stockListID string, edits []CellEdit, useShipped bool) (*View, error) {
	if user == nil || !user.Admin() {
		return nil, &errors.ErrUnauthorized{Message: "admin only"}
	}

	byOrder := make(map[string][]domain.UKItemPatch)
	orderIDs := make([]string, 0)
	for _, e := range edits {
		if e.OrderID == "" || e.Barcode == "" {
			continue
		}
		if e.ShippedQuantity == nil && e.FinalPriceBDT == nil {
			continue
		}
		if _, seen := byOrder[e.OrderID]; !seen {
			orderIDs = append(orderIDs, e.OrderID)
		}
		byOrder[e.OrderID] = append(byOrder[e.OrderID], domain.UKItemPatch{
			Barcode:         e.Barcode,
			ShippedQuantity: e.ShippedQuantity,
			FinalPriceBDT:   e.FinalPriceBDT,
		})
	}
	if len(byOrder) == 0 {
		return s.Load(ctx, user, stockListID, useShipped)
	}

	for _, orderID := range orderIDs {
		patches := byOrder[orderID]
		if err := s.api.UKUpdateItems(ctx, user.Email, orderID, patches); err != nil {
			return nil, err
		}
		s.logger.Info("Aggregate edits saved",
			zap.String("order_id", orderID),
			zap.Int("items", len(patches)),
		)
	}
	return s.Load(ctx, user, stockListID, useShipped)
}
