package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david-git-2/Wholesale-UK/internal/domain"
	"github.com/david-git-2/Wholesale-UK/pkg/errors"
)

func customer(email string) *domain.User {
	return &domain.User{Email: email, Role: "customer"}
}

func admin() *domain.User {
	return &domain.User{Email: "admin@example.com", Role: "admin", IsAdmin: true}
}

func ukOrder(status domain.UKOrderStatus, owner string) *domain.UKOrder {
	return &domain.UKOrder{OrderID: "UK-1", Status: status, CreatorEmail: owner}
}

func TestUKCustomerEditableFieldsByStatus(t *testing.T) {
	owner := "buyer@example.com"
	user := customer(owner)

	tests := []struct {
		status  domain.UKOrderStatus
		allowed []Field
		denied  []Field
	}{
		{
			status:  domain.UKStatusDraft,
			allowed: []Field{FieldOrderName, FieldOrderedQuantity, FieldDeleteItems},
			denied:  []Field{FieldCustomerPriceBDT, FieldConversionRate, FieldShippedQuantity, FieldStatus},
		},
		{
			status:  domain.UKStatusSubmitted,
			allowed: nil,
			denied:  []Field{FieldOrderName, FieldOrderedQuantity, FieldCustomerPriceBDT},
		},
		{
			status:  domain.UKStatusPriced,
			allowed: []Field{FieldCustomerPriceBDT},
			denied:  []Field{FieldOrderedQuantity, FieldFinalPriceBDT, FieldDeleteItems},
		},
		{
			status:  domain.UKStatusUnderReview,
			allowed: []Field{FieldCustomerPriceBDT},
			denied:  []Field{FieldOrderedQuantity},
		},
		{
			status: domain.UKStatusFinalized,
			denied: []Field{FieldCustomerPriceBDT, FieldOrderedQuantity},
		},
		{
			status: domain.UKStatusDelivered,
			denied: []Field{FieldCustomerPriceBDT, FieldOrderName},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			set := UKEditableFields(user, ukOrder(tt.status, owner))
			for _, f := range tt.allowed {
				assert.True(t, set[f], "expected %s editable at %s", f, tt.status)
			}
			for _, f := range tt.denied {
				assert.False(t, set[f], "expected %s locked at %s", f, tt.status)
			}
		})
	}
}

func TestUKCustomerNeedsOwnership(t *testing.T) {
	order := ukOrder(domain.UKStatusDraft, "owner@example.com")

	assert.Empty(t, UKEditableFields(customer("stranger@example.com"), order))

	// Ownership match is case-insensitive
	set := UKEditableFields(customer("OWNER@Example.com"), order)
	assert.True(t, set[FieldOrderName])
}

func TestUKAdminEditableFields(t *testing.T) {
	user := admin()

	// Shipped quantity opens only during processing
	for _, status := range domain.UKStatuses {
		set := UKEditableFields(user, ukOrder(status, "anyone@example.com"))
		switch status {
		case domain.UKStatusDelivered:
			assert.Empty(t, set, "delivered locks the admin out too")
		case domain.UKStatusProcessing:
			assert.True(t, set[FieldShippedQuantity])
			assert.True(t, set[FieldFinalPriceBDT])
		default:
			assert.False(t, set[FieldShippedQuantity], "shipped qty locked at %s", status)
			assert.True(t, set[FieldConversionRate], "admin edits at %s", status)
		}
	}
}

func TestAuthorizeRejectsBeforeDispatch(t *testing.T) {
	owner := "buyer@example.com"
	order := ukOrder(domain.UKStatusPriced, owner)

	// customerPriceBDT alone passes at priced
	require.NoError(t, Authorize(customer(owner), order, []Field{FieldCustomerPriceBDT}))

	// orderedQuantity mixed in fails the whole mutation
	err := Authorize(customer(owner), order, []Field{FieldCustomerPriceBDT, FieldOrderedQuantity})
	var forbidden *errors.ErrForbiddenEdit
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, "customer", forbidden.Role)
	assert.Equal(t, string(domain.UKStatusPriced), forbidden.Status)
	assert.Equal(t, string(FieldOrderedQuantity), forbidden.Field)
}

func TestAuthorizeRequiresLogin(t *testing.T) {
	order := ukOrder(domain.UKStatusDraft, "buyer@example.com")
	var unauth *errors.ErrUnauthorized
	require.ErrorAs(t, Authorize(nil, order, []Field{FieldOrderName}), &unauth)
}

func TestAuthorizeMissingOrder(t *testing.T) {
	var nf *errors.ErrNotFound
	require.ErrorAs(t, Authorize(customer("buyer@example.com"), nil, []Field{FieldOrderName}), &nf)
	require.ErrorAs(t, Authorize(admin(), nil, []Field{FieldOrderName}), &nf)
}

func TestAuthorizeTransitionCustomer(t *testing.T) {
	owner := "buyer@example.com"
	user := customer(owner)

	require.NoError(t, AuthorizeTransition(user, ukOrder(domain.UKStatusDraft, owner), domain.UKStatusSubmitted))
	require.NoError(t, AuthorizeTransition(user, ukOrder(domain.UKStatusPriced, owner), domain.UKStatusFinalized))

	var invalid *errors.ErrInvalidStateTransition
	require.ErrorAs(t, AuthorizeTransition(user, ukOrder(domain.UKStatusDraft, owner), domain.UKStatusPriced), &invalid)
	require.ErrorAs(t, AuthorizeTransition(user, ukOrder(domain.UKStatusSubmitted, owner), domain.UKStatusDraft), &invalid)

	var unauth *errors.ErrUnauthorized
	require.ErrorAs(t, AuthorizeTransition(customer("other@example.com"), ukOrder(domain.UKStatusDraft, owner), domain.UKStatusSubmitted), &unauth)
}

func TestAuthorizeTransitionAdmin(t *testing.T) {
	user := admin()

	require.NoError(t, AuthorizeTransition(user, ukOrder(domain.UKStatusSubmitted, "x@example.com"), domain.UKStatusPriced))
	require.NoError(t, AuthorizeTransition(user, ukOrder(domain.UKStatusProcessing, "x@example.com"), domain.UKStatusPartiallyDelivered))

	// Neither delivered nor cancelled can be moved off, even by the admin
	var invalid *errors.ErrInvalidStateTransition
	require.ErrorAs(t, AuthorizeTransition(user, ukOrder(domain.UKStatusDelivered, "x@example.com"), domain.UKStatusProcessing), &invalid)
	require.ErrorAs(t, AuthorizeTransition(user, ukOrder(domain.UKStatusCancelled, "x@example.com"), domain.UKStatusDraft), &invalid)
}

func TestAuthorizeTransitionRejectsUnknownStatus(t *testing.T) {
	var v *errors.ErrValidation
	require.ErrorAs(t, AuthorizeTransition(admin(), ukOrder(domain.UKStatusDraft, "x@example.com"), "bogus"), &v)
}

func simpleOrder(status domain.OrderStatus) *domain.Order {
	return &domain.Order{OrderID: "ORD-1", Status: status, Email: "buyer@example.com"}
}

func TestAuthorizeOrderEdit(t *testing.T) {
	user := customer("buyer@example.com")

	require.NoError(t, AuthorizeOrderEdit(user, simpleOrder(domain.OrderStatusPending)))

	var forbidden *errors.ErrForbiddenEdit
	require.ErrorAs(t, AuthorizeOrderEdit(user, simpleOrder(domain.OrderStatusConfirmed)), &forbidden)

	// Admin edits any non-terminal order, never a terminal one
	require.NoError(t, AuthorizeOrderEdit(admin(), simpleOrder(domain.OrderStatusApproved)))
	require.ErrorAs(t, AuthorizeOrderEdit(admin(), simpleOrder(domain.OrderStatusCancelled)), &forbidden)
	require.ErrorAs(t, AuthorizeOrderEdit(admin(), simpleOrder(domain.OrderStatusDeleted)), &forbidden)
}

func TestAuthorizeOrderEditTerminalCaseInsensitive(t *testing.T) {
	var forbidden *errors.ErrForbiddenEdit
	require.ErrorAs(t, AuthorizeOrderEdit(admin(), simpleOrder("canceled")), &forbidden)
	require.ErrorAs(t, AuthorizeOrderEdit(admin(), simpleOrder("CANCELLED")), &forbidden)
}

func TestAuthorizeStatusChange(t *testing.T) {
	user := customer("buyer@example.com")

	require.NoError(t, AuthorizeStatusChange(user, simpleOrder(domain.OrderStatusPending), domain.OrderStatusConfirmed))

	var invalid *errors.ErrInvalidStateTransition
	require.ErrorAs(t, AuthorizeStatusChange(user, simpleOrder(domain.OrderStatusConfirmed), domain.OrderStatusApproved), &invalid)
	require.ErrorAs(t, AuthorizeStatusChange(user, simpleOrder(domain.OrderStatusPending), domain.OrderStatusShipped), &invalid)

	require.NoError(t, AuthorizeStatusChange(admin(), simpleOrder(domain.OrderStatusConfirmed), domain.OrderStatusApproved))
	require.NoError(t, AuthorizeStatusChange(admin(), simpleOrder(domain.OrderStatusApproved), domain.OrderStatusShipped))
	require.ErrorAs(t, AuthorizeStatusChange(admin(), simpleOrder(domain.OrderStatusCancelled), domain.OrderStatusPending), &invalid)
}
