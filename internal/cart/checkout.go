package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/domain"
	"github.com/david-git-2/Wholesale-UK/internal/orderapi"
	"github.com/david-git-2/Wholesale-UK/pkg/errors"
)

// OrderAPI is the slice of the remote client checkout needs
type OrderAPI interface {
	CreateOrder(ctx context.Context, email string, req orderapi.CreateOrderRequest) (string, error)
	UKCreateOrder(ctx context.Context, email, orderName string, status domain.UKOrderStatus, items []domain.UKOrderItem) (string, error)
}

// Checkout submits the cart as a primary-storefront order and clears it on
// success. Preconditions, checked in order after a silent stock re-resolve:
// identity present, cart non-empty, no stock violations, all shipping fields
// filled. Every failure is recoverable; the cart is left untouched.
func (s *Store) Checkout(ctx context.Context, api OrderAPI, user *domain.User, shipping domain.ShippingAddress) (string, error) {
	if user == nil || user.Email == "" {
		return "", &errors.ErrUnauthorized{Message: "please login first"}
	}

	if err := s.RefreshStock(); err != nil {
		return "", err
	}

	lines := s.Lines()
	if len(lines) == 0 {
		return "", &errors.ErrValidation{Message: "cart is empty"}
	}
	if s.HasStockViolations() {
		return "", &errors.ErrValidation{Message: "some items exceed stock (or stock is 0), fix the cart first"}
	}
	if missing := shipping.MissingFields(); len(missing) > 0 {
		fields := make(map[string]string, len(missing))
		for _, f := range missing {
			fields[f] = "required"
		}
		return "", &errors.ErrValidation{
			Message: fmt.Sprintf("missing shipping fields: %s", strings.Join(missing, ", ")),
			Fields:  fields,
		}
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		line := s.engine.Line(l)
		items = append(items, domain.OrderItem{
			ID:             l.ID,
			SKU:            l.SKU,
			Name:           l.Name,
			ImageURL:       l.ImageURL,
			Price:          line.Price,
			Qty:            line.Qty,
			Packaging:      line.Packaging,
			StockQuantity:  l.StockQuantity,
			PackingCost:    line.PackingCost,
			Commission:     line.Commission,
			CODAmount:      line.COD,
			AWRCAmount:     line.AWRC,
			FinalPerUnit:   line.FinalPerUnit,
			LineTotal:      line.LineTotal,
			FinalLineTotal: line.FinalLineTotal,
		})
	}

	orderID, err := api.CreateOrder(ctx, user.Email, orderapi.CreateOrderRequest{
		CreatedAt:            time.Now(),
		Total:                s.TotalPrice(),
		FinalCommissionTotal: s.TotalFinalCommission(),
		Shipping:             shipping,
		Items:                items,
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("Order placed", zap.String("order_id", orderID), zap.Int("items", len(items)))
	if err := s.Clear(); err != nil {
		s.logger.Warn("Order placed but cart clear failed", zap.Error(err))
	}
	return orderID, nil
}

// UKCheckout submits the cart as a draft UK order and clears it on success.
// An empty order name defaults to "UK Order YYYY-MM-DD" plus a unique suffix.
func (s *Store) UKCheckout(ctx context.Context, api OrderAPI, user *domain.User, orderName string) (string, error) {
	if user == nil || user.Email == "" {
		return "", &errors.ErrUnauthorized{Message: "please login first"}
	}

	if err := s.RefreshStock(); err != nil {
		return "", err
	}

	lines := s.Lines()
	if len(lines) == 0 {
		return "", &errors.ErrValidation{Message: "cart is empty"}
	}
	if s.HasStockViolations() {
		return "", &errors.ErrValidation{Message: "some items exceed stock (or stock is 0), fix the cart first"}
	}

	items := make([]domain.UKOrderItem, 0, len(lines))
	for _, l := range lines {
		barcode := l.SKU
		if barcode == "" {
			barcode = l.ID
		}
		if barcode == "" || l.Qty <= 0 {
			continue
		}
		items = append(items, domain.UKOrderItem{
			Barcode:         barcode,
			Brand:           l.Brand,
			Description:     l.Name,
			ImageURL:        l.ImageURL,
			PiecePriceGBP:   s.engine.PerUnit(l).Price,
			InnerCase:       l.Step(),
			OrderedQuantity: l.Qty,
		})
	}
	if len(items) == 0 {
		return "", &errors.ErrValidation{Message: "cart items missing barcode or quantity"}
	}

	if strings.TrimSpace(orderName) == "" {
		// Date plus a short unique suffix so same-day orders stay apart
		orderName = fmt.Sprintf("UK Order %s %s", time.Now().Format("2006-01-02"), uuid.NewString()[:8])
	}

	orderID, err := api.UKCreateOrder(ctx, user.Email, orderName, domain.UKStatusDraft, items)
	if err != nil {
		return "", err
	}

	s.logger.Info("UK order created", zap.String("order_id", orderID), zap.Int("items", len(items)))
	if err := s.Clear(); err != nil {
		s.logger.Warn("Order created but cart clear failed", zap.Error(err))
	}
	return orderID, nil
}
