package workflow

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/domain"
	"github.com/david-git-2/Wholesale-UK/pkg/errors"
)

// OrderAPI is the slice of the remote client the primary-storefront workflow
// needs
type OrderAPI interface {
	ListOrders(ctx context.Context, email string) ([]domain.Order, error)
	GetOrderDetails(ctx context.Context, email, orderID string) (*domain.Order, error)
	UpdateOrder(ctx context.Context, email, orderID string, items []domain.OrderItem, status *domain.OrderStatus) error
	DeleteOrder(ctx context.Context, email, orderID string) error
	PermanentDeleteOrder(ctx context.Context, email, orderID string) error
}

// Service drives the primary-storefront order workflow. Every write
// re-validates role and status first, and the local view is refreshed only by
// refetching the order after the server confirms, never optimistically.
type Service struct {
	api    OrderAPI
	logger *zap.Logger
}

// NewService creates a workflow service
func NewService(api OrderAPI, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, logger: logger}
}

// ListOptions filters, searches and sorts an order listing
type ListOptions struct {
	Status string // exact status, case-insensitive; empty/"all" keeps everything
	Query  string // free text over id, sl, email, status, shipping fields
	Sort   string // newest (default), oldest, total_desc, total_asc
}

// List fetches the user's orders and applies filter/search/sort locally.
// The listing endpoint omits items; fetch details per order when needed.
func (s *Service) List(ctx context.Context, user *domain.User, opts ListOptions) ([]domain.Order, error) {
	if user == nil || user.Email == "" {
		return nil, &errors.ErrUnauthorized{Message: "please login first"}
	}
	orders, err := s.api.ListOrders(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	orders = filterOrders(orders, opts.Status)
	orders = searchOrders(orders, opts.Query)
	sortOrders(orders, opts.Sort)
	return orders, nil
}

// Get fetches one order including items
func (s *Service) Get(ctx context.Context, user *domain.User, orderID string) (*domain.Order, error) {
	if user == nil || user.Email == "" {
		return nil, &errors.ErrUnauthorized{Message: "please login first"}
	}
	return s.api.GetOrderDetails(ctx, user.Email, orderID)
}

// SaveItems saves edited line items on an order. Customers may do this only
// while the order is Pending and may not change prices; admins at any
// non-terminal status. Returns the refetched order.
func (s *Service) SaveItems(ctx context.Context, user *domain.User, orderID string, items []domain.OrderItem) (*domain.Order, error) {
	order, err := s.Get(ctx, user, orderID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeOrderEdit(user, order); err != nil {
		return nil, err
	}

	if !user.Admin() {
		if err := checkCustomerItemEdits(order.Items, items); err != nil {
			return nil, err
		}
	}
	if len(items) == 0 {
		return nil, &errors.ErrValidation{Message: "an order needs at least one item"}
	}

	if err := s.api.UpdateOrder(ctx, user.Email, orderID, items, nil); err != nil {
		return nil, err
	}
	s.logger.Info("Order items saved", zap.String("order_id", orderID), zap.Int("items", len(items)))
	return s.api.GetOrderDetails(ctx, user.Email, orderID)
}

// checkCustomerItemEdits enforces the customer rule: quantity and packaging
// may change, unit price must not.
func checkCustomerItemEdits(current, edited []domain.OrderItem) error {
	prices := make(map[string]float64, len(current))
	for _, it := range current {
		prices[it.ID] = it.Price
	}
	for _, it := range edited {
		if prev, ok := prices[it.ID]; ok && prev != it.Price {
			return &errors.ErrForbiddenEdit{Role: "customer", Status: string(domain.OrderStatusPending), Field: "price"}
		}
	}
	return nil
}

// Confirm is the one customer-sanctioned transition: Pending -> Confirmed
func (s *Service) Confirm(ctx context.Context, user *domain.User, orderID string) (*domain.Order, error) {
	return s.SetStatus(ctx, user, orderID, domain.OrderStatusConfirmed)
}

// SetStatus validates and applies a status transition, then refetches
func (s *Service) SetStatus(ctx context.Context, user *domain.User, orderID string, to domain.OrderStatus) (*domain.Order, error) {
	order, err := s.Get(ctx, user, orderID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeStatusChange(user, order, to); err != nil {
		return nil, err
	}
	if len(order.Items) == 0 {
		return nil, &errors.ErrValidation{Message: "order has no items left"}
	}

	if err := s.api.UpdateOrder(ctx, user.Email, orderID, order.Items, &to); err != nil {
		return nil, err
	}
	s.logger.Info("Order status changed",
		zap.String("order_id", orderID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(to)),
	)
	return s.api.GetOrderDetails(ctx, user.Email, orderID)
}

// Delete soft-deletes an order (admin only, non-terminal)
func (s *Service) Delete(ctx context.Context, user *domain.User, orderID string) error {
	if user == nil || !user.Admin() {
		return &errors.ErrUnauthorized{Message: "admin only"}
	}
	order, err := s.Get(ctx, user, orderID)
	if err != nil {
		return err
	}
	if order.Status.IsTerminal() {
		return &errors.ErrInvalidStateTransition{From: string(order.Status), To: string(domain.OrderStatusDeleted)}
	}
	if err := s.api.DeleteOrder(ctx, user.Email, orderID); err != nil {
		return err
	}
	s.logger.Info("Order deleted", zap.String("order_id", orderID))
	return nil
}

// PermanentDelete removes the order row entirely. Only Shipped or Cancelled
// orders qualify, and the caller must pass explicit confirmation; there is no
// undo.
func (s *Service) PermanentDelete(ctx context.Context, user *domain.User, orderID string, confirmed bool) error {
	if user == nil || !user.Admin() {
		return &errors.ErrUnauthorized{Message: "admin only"}
	}
	if !confirmed {
		return &errors.ErrValidation{Message: "permanent delete requires confirmation"}
	}
	order, err := s.Get(ctx, user, orderID)
	if err != nil {
		return err
	}
	if !order.Status.CanPermanentDelete() {
		return &errors.ErrValidation{Message: "only Shipped or Cancelled orders can be permanently deleted"}
	}
	if err := s.api.PermanentDeleteOrder(ctx, user.Email, orderID); err != nil {
		return err
	}
	s.logger.Info("Order permanently deleted", zap.String("order_id", orderID))
	return nil
}

func filterOrders(orders []domain.Order, status string) []domain.Order {
	f := strings.ToLower(strings.TrimSpace(status))
	if f == "" || f == "all" {
		return orders
	}
	out := orders[:0:0]
	for _, o := range orders {
		if strings.ToLower(string(o.Status)) == f {
			out = append(out, o)
		}
	}
	return out
}

func searchOrders(orders []domain.Order, query string) []domain.Order {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return orders
	}
	out := orders[:0:0]
	for _, o := range orders {
		haystack := strings.ToLower(strings.Join([]string{
			o.OrderID, o.SL, o.Email, string(o.Status),
			o.Shipping.Phone, o.Shipping.District, o.Shipping.Thana, o.Shipping.Address,
		}, " "))
		if strings.Contains(haystack, q) {
			out = append(out, o)
		}
	}
	return out
}

func sortOrders(orders []domain.Order, mode string) {
	switch mode {
	case "oldest":
		sort.SliceStable(orders, func(i, j int) bool {
			return orders[i].CreatedAt.Before(orders[j].CreatedAt)
		})
	case "total_desc":
		sort.SliceStable(orders, func(i, j int) bool {
			return orders[i].Total > orders[j].Total
		})
	case "total_asc":
		sort.SliceStable(orders, func(i, j int) bool {
			return orders[i].Total < orders[j].Total
		})
	default: // newest
		sort.SliceStable(orders, func(i, j int) bool {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		})
	}
}
