package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/domain"
	"github.com/david-git-2/Wholesale-UK/internal/orderapi"
	"github.com/david-git-2/Wholesale-UK/pkg/errors"
)

// UKOrderAPI is the slice of the remote client the UK workflow needs
type UKOrderAPI interface {
	UKFetchOrders(ctx context.Context, email string, status domain.UKOrderStatus, limit int) ([]domain.UKOrder, error)
	UKGetOrder(ctx context.Context, email, orderID string) (*orderapi.UKOrderResponse, error)
	UKUpdateOrder(ctx context.Context, email, orderID string, patch domain.UKOrderPatch) error
	UKUpdateItems(ctx context.Context, email, orderID string, items []domain.UKItemPatch) error
	UKDeleteItems(ctx context.Context, email, orderID string, barcodes []string) error
	UKDeleteOrder(ctx context.Context, email, orderID string) error
}

// UKService drives the UK order workflow. Field-level edits are pre-checked
// against the role/status policy before dispatch, and every successful write
// is followed by a refetch of the order.
type UKService struct {
	api    UKOrderAPI
	logger *zap.Logger
}

// NewUKService creates a UK workflow service
func NewUKService(api UKOrderAPI, logger *zap.Logger) *UKService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UKService{api: api, logger: logger}
}

// List fetches UK orders, optionally filtered by status. Customers see only
// orders they created even if the remote returns more.
func (s *UKService) List(ctx context.Context, user *domain.User, status domain.UKOrderStatus, limit int) ([]domain.UKOrder, error) {
	if user == nil || user.Email == "" {
		return nil, &errors.ErrUnauthorized{Message: "please login first"}
	}
	orders, err := s.api.UKFetchOrders(ctx, user.Email, status, limit)
	if err != nil {
		return nil, err
	}
	if user.Admin() {
		return orders, nil
	}
	owned := orders[:0:0]
	for _, o := range orders {
		if o.OwnedBy(user.Email) {
			owned = append(owned, o)
		}
	}
	return owned, nil
}

// Get fetches one UK order with its items. Customers may only open orders
// they own.
func (s *UKService) Get(ctx context.Context, user *domain.User, orderID string) (*orderapi.UKOrderResponse, error) {
	if user == nil || user.Email == "" {
		return nil, &errors.ErrUnauthorized{Message: "please login first"}
	}
	resp, err := s.api.UKGetOrder(ctx, user.Email, orderID)
	if err != nil {
		return nil, err
	}
	if !user.Admin() && !resp.Order.OwnedBy(user.Email) {
		return nil, &errors.ErrNotFound{Resource: "order", ID: orderID}
	}
	return resp, nil
}

// SaveOrder patches the order header. The set of touched fields is derived
// from the non-nil patch fields and checked against the policy; a status
// change additionally goes through transition validation.
func (s *UKService) SaveOrder(ctx context.Context, user *domain.User, orderID string, patch domain.UKOrderPatch) (*orderapi.UKOrderResponse, error) {
	resp, err := s.Get(ctx, user, orderID)
	if err != nil {
		return nil, err
	}
	order := resp.Order

	if err := Authorize(user, order, touchedOrderFields(patch)); err != nil {
		return nil, err
	}
	if patch.Status != nil {
		if err := AuthorizeTransition(user, order, *patch.Status); err != nil {
			return nil, err
		}
	}

	if err := s.api.UKUpdateOrder(ctx, user.Email, orderID, patch); err != nil {
		return nil, err
	}
	s.logger.Info("UK order saved", zap.String("order_id", orderID))
	return s.Get(ctx, user, orderID)
}

// SaveItems applies per-item patches. Every field touched by any patch must
// pass the policy for this actor at the order's current status; the first
// denied field aborts the whole batch before dispatch.
func (s *UKService) SaveItems(ctx context.Context, user *domain.User, orderID string, patches []domain.UKItemPatch) (*orderapi.UKOrderResponse, error) {
	resp, err := s.Get(ctx, user, orderID)
	if err != nil {
		return nil, err
	}
	if len(patches) == 0 {
		return resp, nil
	}

	if err := Authorize(user, resp.Order, touchedItemFields(patches)); err != nil {
		return nil, err
	}

	if err := s.api.UKUpdateItems(ctx, user.Email, orderID, patches); err != nil {
		return nil, err
	}
	s.logger.Info("UK order items saved", zap.String("order_id", orderID), zap.Int("items", len(patches)))
	return s.Get(ctx, user, orderID)
}

// DeleteItems removes items by barcode. Item deletion is itself a policy
// field, open to customers only at draft.
func (s *UKService) DeleteItems(ctx context.Context, user *domain.User, orderID string, barcodes []string) (*orderapi.UKOrderResponse, error) {
	resp, err := s.Get(ctx, user, orderID)
	if err != nil {
		return nil, err
	}
	if len(barcodes) == 0 {
		return resp, nil
	}

	if err := Authorize(user, resp.Order, []Field{FieldDeleteItems}); err != nil {
		return nil, err
	}

	if err := s.api.UKDeleteItems(ctx, user.Email, orderID, barcodes); err != nil {
		return nil, err
	}
	s.logger.Info("UK order items removed", zap.String("order_id", orderID), zap.Int("barcodes", len(barcodes)))
	return s.Get(ctx, user, orderID)
}

// Delete removes a UK order and all its items. An admin may delete any
// order; a customer only their own drafts.
func (s *UKService) Delete(ctx context.Context, user *domain.User, orderID string) error {
	resp, err := s.Get(ctx, user, orderID)
	if err != nil {
		return err
	}
	if !user.Admin() && resp.Order.Status != domain.UKStatusDraft {
		return &errors.ErrForbiddenEdit{
			Role:   "customer",
			Status: string(resp.Order.Status),
			Field:  "order",
		}
	}
	if err := s.api.UKDeleteOrder(ctx, user.Email, orderID); err != nil {
		return err
	}
	s.logger.Info("UK order deleted", zap.String("order_id", orderID))
	return nil
}

// SetStatus validates and applies a status transition, then refetches
func (s *UKService) SetStatus(ctx context.Context, user *domain.User, orderID string, to domain.UKOrderStatus) (*orderapi.UKOrderResponse, error) {
	resp, err := s.Get(ctx, user, orderID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeTransition(user, resp.Order, to); err != nil {
		return nil, err
	}

	if err := s.api.UKUpdateOrder(ctx, user.Email, orderID, domain.UKOrderPatch{Status: &to}); err != nil {
		return nil, err
	}
	s.logger.Info("UK order status changed",
		zap.String("order_id", orderID),
		zap.String("from", string(resp.Order.Status)),
		zap.String("to", string(to)),
	)
	return s.Get(ctx, user, orderID)
}

// Submit hands a draft over for pricing (draft -> submitted)
func (s *UKService) Submit(ctx context.Context, user *domain.User, orderID string) (*orderapi.UKOrderResponse, error) {
	return s.SetStatus(ctx, user, orderID, domain.UKStatusSubmitted)
}

// AcceptOffer locks in the priced offer (priced -> finalized)
func (s *UKService) AcceptOffer(ctx context.Context, user *domain.User, orderID string) (*orderapi.UKOrderResponse, error) {
	return s.SetStatus(ctx, user, orderID, domain.UKStatusFinalized)
}

func touchedOrderFields(patch domain.UKOrderPatch) []Field {
	var touched []Field
	if patch.OrderName != nil {
		touched = append(touched, FieldOrderName)
	}
	if patch.Status != nil {
		touched = append(touched, FieldStatus)
	}
	if patch.ConversionRate != nil {
		touched = append(touched, FieldConversionRate)
	}
	if patch.CuriaCost != nil {
		touched = append(touched, FieldCuriaCost)
	}
	if patch.StockListID != nil {
		touched = append(touched, FieldStockListID)
	}
	return touched
}

func touchedItemFields(patches []domain.UKItemPatch) []Field {
	set := make(FieldSet)
	for _, p := range patches {
		if p.OrderedQuantity != nil {
			set[FieldOrderedQuantity] = true
		}
		if p.ProductWeight != nil {
			set[FieldProductWeight] = true
		}
		if p.PackageWeight != nil {
			set[FieldPackageWeight] = true
		}
		if p.CustomerPriceBDT != nil {
			set[FieldCustomerPriceBDT] = true
		}
		if p.FinalPriceBDT != nil {
			set[FieldFinalPriceBDT] = true
		}
		if p.ShippedQuantity != nil {
			set[FieldShippedQuantity] = true
		}
	}
	touched := make([]Field, 0, len(set))
	for f := range set {
		touched = append(touched, f)
	}
	return touched
}
