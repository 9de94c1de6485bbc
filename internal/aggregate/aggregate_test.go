package aggregate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david-git-2/Wholesale-UK/internal/domain"
	"github.com/david-git-2/Wholesale-UK/internal/orderapi"
	"github.com/david-git-2/Wholesale-UK/pkg/errors"
)

type fakeAggregateAPI struct {
	resp       *orderapi.UKAggregateResponse
	loads      int
	itemCalls  []itemCall
	failOrder  string
	failReason error
}

type itemCall struct {
	orderID string
	patches []domain.UKItemPatch
}

func (f *fakeAggregateAPI) UKAggregateStockList(ctx context.Context, email, stockListID string, useShipped bool) (*orderapi.UKAggregateResponse, error) {
	f.loads++
	return f.resp, nil
}

func (f *fakeAggregateAPI) UKUpdateItems(ctx context.Context, email, orderID string, items []domain.UKItemPatch) error {
	if orderID == f.failOrder {
		return f.failReason
	}
	f.itemCalls = append(f.itemCalls, itemCall{orderID: orderID, patches: items})
	return nil
}

func adminUser() *domain.User {
	return &domain.User{Email: "admin@example.com", Role: "admin", IsAdmin: true}
}

func stocklistResponse() *orderapi.UKAggregateResponse {
	return &orderapi.UKAggregateResponse{
		StockListID: "SL-1",
		OrderCount:  2,
		Orders: []domain.UKOrder{
			{OrderID: "UK-1", Status: domain.UKStatusProcessing},
			{OrderID: "UK-2", Status: domain.UKStatusProcessing},
		},
		Items: []map[string]interface{}{
			{
				"barcode":              "B1",
				"brand":                "Acme",
				"totalOrderedQuantity": float64(12),
				"totalShippedQuantity": float64(3),
				"perOrder": []interface{}{
					map[string]interface{}{"orderId": "UK-1", "shippedQuantity": float64(3)},
					map[string]interface{}{"orderId": "UK-2"},
				},
			},
			{
				// PascalCase variant still normalizes
				"Barcode":              "B2",
				"totalOrderedQuantity": "5",
			},
			{
				// No barcode: dropped
				"brand": "Nameless",
			},
		},
	}
}

func TestLoadNormalizesRows(t *testing.T) {
	api := &fakeAggregateAPI{resp: stocklistResponse()}
	svc := NewService(api, nil)

	view, err := svc.Load(context.Background(), adminUser(), "SL-1", false)
	require.NoError(t, err)

	assert.Equal(t, "SL-1", view.StockListID)
	assert.Equal(t, 2, view.OrderCount)
	require.Len(t, view.Rows, 2, "rows without a barcode are dropped")

	b1 := view.Rows[0]
	assert.Equal(t, "B1", b1.Barcode)
	assert.Equal(t, 12, b1.TotalOrderedQuantity)
	assert.Equal(t, 3, b1.TotalShippedQuantity)
	require.Len(t, b1.PerOrder, 2)
	require.NotNil(t, b1.PerOrder[0].ShippedQuantity)
	assert.Equal(t, 3, *b1.PerOrder[0].ShippedQuantity)
	assert.Nil(t, b1.PerOrder[1].ShippedQuantity, "absent cell stays nil, not zero")

	assert.Equal(t, 5, view.Rows[1].TotalOrderedQuantity, "string numbers normalize")
}

func TestLoadAdminOnly(t *testing.T) {
	svc := NewService(&fakeAggregateAPI{resp: stocklistResponse()}, nil)

	var unauth *errors.ErrUnauthorized
	_, err := svc.Load(context.Background(), &domain.User{Email: "buyer@example.com", Role: "customer"}, "SL-1", false)
	require.ErrorAs(t, err, &unauth)

	_, err = svc.Load(context.Background(), nil, "SL-1", false)
	require.ErrorAs(t, err, &unauth)
}

func TestLoadRequiresStockListID(t *testing.T) {
	svc := NewService(&fakeAggregateAPI{resp: stocklistResponse()}, nil)
	var v *errors.ErrValidation
	_, err := svc.Load(context.Background(), adminUser(), "", false)
	require.ErrorAs(t, err, &v)
}

func TestSaveGroupsOneCallPerOrder(t *testing.T) {
	api := &fakeAggregateAPI{resp: stocklistResponse()}
	svc := NewService(api, nil)

	q3, q7 := 3, 7
	price := 990.0
	edits := []CellEdit{
		{OrderID: "UK-1", Barcode: "B1", ShippedQuantity: &q3},
		{OrderID: "UK-2", Barcode: "B1", ShippedQuantity: &q7},
		{OrderID: "UK-1", Barcode: "B2", FinalPriceBDT: &price},
		{OrderID: "UK-1", Barcode: "B3"}, // nothing touched: skipped
	}

	_, err := svc.Save(context.Background(), adminUser(), "SL-1", edits, false)
	require.NoError(t, err)

	require.Len(t, api.itemCalls, 2, "one call per distinct order")
	assert.Equal(t, "UK-1", api.itemCalls[0].orderID)
	assert.Len(t, api.itemCalls[0].patches, 2)
	assert.Equal(t, "UK-2", api.itemCalls[1].orderID)
	assert.Len(t, api.itemCalls[1].patches, 1)

	assert.Equal(t, 1, api.loads, "saving ends with a full reload")
}

func TestSaveWithNoEffectiveEditsJustReloads(t *testing.T) {
	api := &fakeAggregateAPI{resp: stocklistResponse()}
	svc := NewService(api, nil)

	_, err := svc.Save(context.Background(), adminUser(), "SL-1", []CellEdit{{OrderID: "UK-1", Barcode: "B1"}}, false)
	require.NoError(t, err)
	assert.Empty(t, api.itemCalls)
	assert.Equal(t, 1, api.loads)
}

func TestSaveAbortsOnFirstFailure(t *testing.T) {
	api := &fakeAggregateAPI{
		resp:       stocklistResponse(),
		failOrder:  "UK-1",
		failReason: &errors.ErrRemote{Action: "uk_update_items", Message: "row locked"},
	}
	svc := NewService(api, nil)

	q := 1
	edits := []CellEdit{
		{OrderID: "UK-1", Barcode: "B1", ShippedQuantity: &q},
		{OrderID: "UK-2", Barcode: "B1", ShippedQuantity: &q},
	}

	var remote *errors.ErrRemote
	_, err := svc.Save(context.Background(), adminUser(), "SL-1", edits, false)
	require.ErrorAs(t, err, &remote)
	assert.Empty(t, api.itemCalls, "later orders stay untouched")
	assert.Zero(t, api.loads, "no reload after a failed batch")
}
