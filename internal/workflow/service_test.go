package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david-git-2/Wholesale-UK/internal/domain"
	"github.com/david-git-2/Wholesale-UK/pkg/errors"
)

type fakeAPI struct {
	orders map[string]*domain.Order

	updateFailWith error
	updateCalls    int
	lastItems      []domain.OrderItem
	lastStatus     *domain.OrderStatus
	deleted        []string
	permDeleted    []string
}

func newFakeAPI(orders ...*domain.Order) *fakeAPI {
	f := &fakeAPI{orders: map[string]*domain.Order{}}
	for _, o := range orders {
		f.orders[o.OrderID] = o
	}
	return f
}

func (f *fakeAPI) ListOrders(ctx context.Context, email string) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeAPI) GetOrderDetails(ctx context.Context, email, orderID string) (*domain.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "order", ID: orderID}
	}
	cp := *o
	return &cp, nil
}

func (f *fakeAPI) UpdateOrder(ctx context.Context, email, orderID string, items []domain.OrderItem, status *domain.OrderStatus) error {
	f.updateCalls++
	if f.updateFailWith != nil {
		return f.updateFailWith
	}
	f.lastItems = items
	f.lastStatus = status
	if o, ok := f.orders[orderID]; ok {
		o.Items = items
		if status != nil {
			o.Status = *status
		}
	}
	return nil
}

func (f *fakeAPI) DeleteOrder(ctx context.Context, email, orderID string) error {
	f.deleted = append(f.deleted, orderID)
	if o, ok := f.orders[orderID]; ok {
		o.Status = domain.OrderStatusDeleted
	}
	return nil
}

func (f *fakeAPI) PermanentDeleteOrder(ctx context.Context, email, orderID string) error {
	f.permDeleted = append(f.permDeleted, orderID)
	delete(f.orders, orderID)
	return nil
}

func pendingOrder(id string) *domain.Order {
	return &domain.Order{
		OrderID: id,
		Email:   "buyer@example.com",
		Status:  domain.OrderStatusPending,
		Items: []domain.OrderItem{
			{ID: "p1", Name: "Cleanser", Price: 100, Qty: 2},
		},
	}
}

func TestListFilterSearchSort(t *testing.T) {
	now := time.Now()
	api := newFakeAPI(
		&domain.Order{OrderID: "A", Status: domain.OrderStatusPending, Total: 300, CreatedAt: now.Add(-2 * time.Hour), Shipping: domain.ShippingAddress{District: "Dhaka"}},
		&domain.Order{OrderID: "B", Status: domain.OrderStatusShipped, Total: 100, CreatedAt: now.Add(-1 * time.Hour)},
		&domain.Order{OrderID: "C", Status: domain.OrderStatusPending, Total: 200, CreatedAt: now},
	)
	svc := NewService(api, nil)
	user := customer("buyer@example.com")
	ctx := context.Background()

	orders, err := svc.List(ctx, user, ListOptions{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, orders, 2)

	orders, err = svc.List(ctx, user, ListOptions{Query: "dhaka"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "A", orders[0].OrderID)

	orders, err = svc.List(ctx, user, ListOptions{Sort: "total_desc"})
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, 300.0, orders[0].Total)
	assert.Equal(t, 100.0, orders[2].Total)

	orders, err = svc.List(ctx, user, ListOptions{Sort: "oldest"})
	require.NoError(t, err)
	assert.Equal(t, "A", orders[0].OrderID)

	// Default sort is newest first
	orders, err = svc.List(ctx, user, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, "C", orders[0].OrderID)
}

func TestListRequiresLogin(t *testing.T) {
	svc := NewService(newFakeAPI(), nil)
	_, err := svc.List(context.Background(), nil, ListOptions{})
	var unauth *errors.ErrUnauthorized
	require.ErrorAs(t, err, &unauth)
}

func TestSaveItemsCustomerAtPending(t *testing.T) {
	api := newFakeAPI(pendingOrder("ORD-1"))
	svc := NewService(api, nil)

	edited := []domain.OrderItem{{ID: "p1", Name: "Cleanser", Price: 100, Qty: 5}}
	order, err := svc.SaveItems(context.Background(), customer("buyer@example.com"), "ORD-1", edited)
	require.NoError(t, err)
	assert.Equal(t, 1, api.updateCalls)
	assert.Equal(t, 5, order.Items[0].Qty, "returned order is the refetched one")
}

func TestSaveItemsCustomerCannotChangePrice(t *testing.T) {
	api := newFakeAPI(pendingOrder("ORD-1"))
	svc := NewService(api, nil)

	edited := []domain.OrderItem{{ID: "p1", Name: "Cleanser", Price: 999, Qty: 2}}
	_, err := svc.SaveItems(context.Background(), customer("buyer@example.com"), "ORD-1", edited)

	var forbidden *errors.ErrForbiddenEdit
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, "price", forbidden.Field)
	assert.Zero(t, api.updateCalls, "policy rejects before dispatch")
}

func TestSaveItemsCustomerLockedAfterPending(t *testing.T) {
	o := pendingOrder("ORD-1")
	o.Status = domain.OrderStatusConfirmed
	api := newFakeAPI(o)
	svc := NewService(api, nil)

	_, err := svc.SaveItems(context.Background(), customer("buyer@example.com"), "ORD-1", o.Items)
	var forbidden *errors.ErrForbiddenEdit
	require.ErrorAs(t, err, &forbidden)
	assert.Zero(t, api.updateCalls)
}

func TestSaveItemsAdminChangesPrice(t *testing.T) {
	o := pendingOrder("ORD-1")
	o.Status = domain.OrderStatusConfirmed
	api := newFakeAPI(o)
	svc := NewService(api, nil)

	edited := []domain.OrderItem{{ID: "p1", Name: "Cleanser", Price: 120, Qty: 2}}
	order, err := svc.SaveItems(context.Background(), admin(), "ORD-1", edited)
	require.NoError(t, err)
	assert.Equal(t, 120.0, order.Items[0].Price)
}

func TestSaveItemsRemoteFailureLeavesOrderUntouched(t *testing.T) {
	api := newFakeAPI(pendingOrder("ORD-1"))
	api.updateFailWith = &errors.ErrRemote{Action: "update_order", Message: "quota exceeded"}
	svc := NewService(api, nil)
	ctx := context.Background()

	edited := []domain.OrderItem{{ID: "p1", Name: "Cleanser", Price: 100, Qty: 5}}
	_, err := svc.SaveItems(ctx, customer("buyer@example.com"), "ORD-1", edited)
	var remote *errors.ErrRemote
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, 1, api.updateCalls)

	// Nothing changes until the server confirms the write
	order, err := svc.Get(ctx, customer("buyer@example.com"), "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, 2, order.Items[0].Qty)
}

func TestConfirmRemoteFailureKeepsStatus(t *testing.T) {
	api := newFakeAPI(pendingOrder("ORD-1"))
	api.updateFailWith = &errors.ErrRemote{Action: "update_order", Message: "offline"}
	svc := NewService(api, nil)
	ctx := context.Background()

	_, err := svc.Confirm(ctx, customer("buyer@example.com"), "ORD-1")
	var remote *errors.ErrRemote
	require.ErrorAs(t, err, &remote)

	order, err := svc.Get(ctx, customer("buyer@example.com"), "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
}

func TestConfirmOrder(t *testing.T) {
	api := newFakeAPI(pendingOrder("ORD-1"))
	svc := NewService(api, nil)

	order, err := svc.Confirm(context.Background(), customer("buyer@example.com"), "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
	require.NotNil(t, api.lastStatus)
	assert.Equal(t, domain.OrderStatusConfirmed, *api.lastStatus)
}

func TestConfirmRejectedOffPending(t *testing.T) {
	o := pendingOrder("ORD-1")
	o.Status = domain.OrderStatusShipped
	svc := NewService(newFakeAPI(o), nil)

	_, err := svc.Confirm(context.Background(), customer("buyer@example.com"), "ORD-1")
	var invalid *errors.ErrInvalidStateTransition
	require.ErrorAs(t, err, &invalid)
}

func TestSetStatusAdminLadder(t *testing.T) {
	o := pendingOrder("ORD-1")
	o.Status = domain.OrderStatusConfirmed
	api := newFakeAPI(o)
	svc := NewService(api, nil)

	order, err := svc.SetStatus(context.Background(), admin(), "ORD-1", domain.OrderStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusApproved, order.Status)

	order, err = svc.SetStatus(context.Background(), admin(), "ORD-1", domain.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, order.Status)

	// Shipped is not terminal; cancel still works, then everything locks
	_, err = svc.SetStatus(context.Background(), admin(), "ORD-1", domain.OrderStatusCancelled)
	require.NoError(t, err)
	_, err = svc.SetStatus(context.Background(), admin(), "ORD-1", domain.OrderStatusPending)
	var invalid *errors.ErrInvalidStateTransition
	require.ErrorAs(t, err, &invalid)
}

func TestDeleteAdminOnly(t *testing.T) {
	api := newFakeAPI(pendingOrder("ORD-1"))
	svc := NewService(api, nil)

	var unauth *errors.ErrUnauthorized
	require.ErrorAs(t, svc.Delete(context.Background(), customer("buyer@example.com"), "ORD-1"), &unauth)

	require.NoError(t, svc.Delete(context.Background(), admin(), "ORD-1"))
	assert.Equal(t, []string{"ORD-1"}, api.deleted)
}

func TestPermanentDeleteGuards(t *testing.T) {
	o := pendingOrder("ORD-1")
	o.Status = domain.OrderStatusShipped
	api := newFakeAPI(o)
	svc := NewService(api, nil)
	ctx := context.Background()

	// Explicit confirmation is mandatory
	var v *errors.ErrValidation
	require.ErrorAs(t, svc.PermanentDelete(ctx, admin(), "ORD-1", false), &v)
	assert.Empty(t, api.permDeleted)

	require.NoError(t, svc.PermanentDelete(ctx, admin(), "ORD-1", true))
	assert.Equal(t, []string{"ORD-1"}, api.permDeleted)
}

func TestPermanentDeleteOnlyShippedOrCancelled(t *testing.T) {
	api := newFakeAPI(pendingOrder("ORD-1"))
	svc := NewService(api, nil)

	var v *errors.ErrValidation
	require.ErrorAs(t, svc.PermanentDelete(context.Background(), admin(), "ORD-1", true), &v)
	assert.Empty(t, api.permDeleted)
}
