// Package workflow owns the order status state machines for both storefronts
// and the role/status authorization policy. The policy is one table checked by
// one Authorize function; UI enablement and the pre-dispatch guard both go
// through it, so a mutation the console happens to render enabled is still
// re-validated before any network call.
package workflow

import (
	"github.com/david-git-2/Wholesale-UK/internal/domain"
	"github.com/david-git-2/Wholesale-UK/pkg/errors"
)

// Field names an editable order or line-item attribute
type Field string

const (
	FieldOrderName        Field = "orderName"
	FieldStatus           Field = "status"
	FieldConversionRate   Field = "conversionRate"
	FieldCuriaCost        Field = "curiaCost"
	FieldStockListID      Field = "stockListId"
	FieldOrderedQuantity  Field = "orderedQuantity"
	FieldProductWeight    Field = "productWeight"
	FieldPackageWeight    Field = "packageWeight"
	FieldCustomerPriceBDT Field = "customerPriceBDT"
	FieldFinalPriceBDT    Field = "finalPriceBDT"
	FieldShippedQuantity  Field = "shippedQuantity"
	FieldDeleteItems      Field = "deleteItems"
)

// FieldSet is the set of fields an actor may touch at some status
type FieldSet map[Field]bool

func fields(fs ...Field) FieldSet {
	set := make(FieldSet, len(fs))
	for _, f := range fs {
		set[f] = true
	}
	return set
}

// ukCustomerPolicy: what the owning customer may edit per status. Absent
// statuses mean nothing is editable.
var ukCustomerPolicy = map[domain.UKOrderStatus]FieldSet{
	domain.UKStatusDraft:       fields(FieldOrderName, FieldOrderedQuantity, FieldDeleteItems),
	domain.UKStatusPriced:      fields(FieldCustomerPriceBDT),
	domain.UKStatusUnderReview: fields(FieldCustomerPriceBDT),
}

// ukAdminPolicy: the admin may edit every order field and every item field
// except shipped quantity at any non-delivered status; shipped quantity opens
// only during processing; delivered locks everything, admin included.
// delivered is deliberately NOT a terminal enum value; the lock lives here
// in the policy, mirroring the backing system.
var ukAdminPolicy = buildUKAdminPolicy()

func buildUKAdminPolicy() map[domain.UKOrderStatus]FieldSet {
	everything := fields(
		FieldOrderName, FieldStatus, FieldConversionRate, FieldCuriaCost,
		FieldStockListID, FieldOrderedQuantity, FieldProductWeight,
		FieldPackageWeight, FieldCustomerPriceBDT, FieldFinalPriceBDT,
		FieldDeleteItems,
	)
	policy := make(map[domain.UKOrderStatus]FieldSet, len(domain.UKStatuses))
	for _, status := range domain.UKStatuses {
		if status == domain.UKStatusDelivered {
			policy[status] = fields()
			continue
		}
		set := make(FieldSet, len(everything)+1)
		for f := range everything {
			set[f] = true
		}
		if status == domain.UKStatusProcessing {
			set[FieldShippedQuantity] = true
		}
		policy[status] = set
	}
	return policy
}

// UKEditableFields returns what the actor may edit on the order right now
func UKEditableFields(user *domain.User, order *domain.UKOrder) FieldSet {
	if user == nil || order == nil {
		return fields()
	}
	if user.Admin() {
		return ukAdminPolicy[order.Status]
	}
	if !order.OwnedBy(user.Email) {
		return fields()
	}
	return ukCustomerPolicy[order.Status]
}

// Authorize is the single pre-dispatch guard for UK field edits: every field
// in the mutation must be editable by this actor at the order's current
// status. The first denied field aborts before any network call.
func Authorize(user *domain.User, order *domain.UKOrder, touched []Field) error {
	if user == nil || user.Email == "" {
		return &errors.ErrUnauthorized{Message: "please login first"}
	}
	if order == nil {
		return &errors.ErrNotFound{Resource: "order"}
	}
	allowed := UKEditableFields(user, order)
	for _, f := range touched {
		if !allowed[f] {
			return &errors.ErrForbiddenEdit{
				Role:   roleName(user),
				Status: string(order.Status),
				Field:  string(f),
			}
		}
	}
	return nil
}

// AuthorizeTransition validates a UK status change. A customer gets exactly
// two forward moves on orders they own: draft->submitted (submit) and
// priced->finalized (accept offer). An admin moves freely between statuses as
// long as the order is not delivered or cancelled.
func AuthorizeTransition(user *domain.User, order *domain.UKOrder, to domain.UKOrderStatus) error {
	if user == nil || user.Email == "" {
		return &errors.ErrUnauthorized{Message: "please login first"}
	}
	if !to.IsValid() {
		return &errors.ErrValidation{Message: "unknown status: " + string(to)}
	}

	from := order.Status
	if from.IsTerminal() || from == domain.UKStatusDelivered {
		return &errors.ErrInvalidStateTransition{From: string(from), To: string(to)}
	}

	if user.Admin() {
		return nil
	}
	if !order.OwnedBy(user.Email) {
		return &errors.ErrUnauthorized{Message: "not your order"}
	}
	if from == domain.UKStatusDraft && to == domain.UKStatusSubmitted {
		return nil
	}
	if from == domain.UKStatusPriced && to == domain.UKStatusFinalized {
		return nil
	}
	return &errors.ErrInvalidStateTransition{From: string(from), To: string(to)}
}

// AuthorizeOrderEdit validates a primary-storefront mutation: a customer may
// edit items (quantity/packaging) only while the order is Pending; an admin
// may edit any non-terminal order. Terminal orders are permanently locked for
// everyone.
func AuthorizeOrderEdit(user *domain.User, order *domain.Order) error {
	if user == nil || user.Email == "" {
		return &errors.ErrUnauthorized{Message: "please login first"}
	}
	if order.Status.IsTerminal() {
		return &errors.ErrForbiddenEdit{
			Role:   roleName(user),
			Status: string(order.Status),
			Field:  "items",
		}
	}
	if user.Admin() {
		return nil
	}
	if order.Status != domain.OrderStatusPending {
		return &errors.ErrForbiddenEdit{
			Role:   "customer",
			Status: string(order.Status),
			Field:  "items",
		}
	}
	return nil
}

// AuthorizeStatusChange validates a primary-storefront status transition
func AuthorizeStatusChange(user *domain.User, order *domain.Order, to domain.OrderStatus) error {
	if user == nil || user.Email == "" {
		return &errors.ErrUnauthorized{Message: "please login first"}
	}
	if !order.Status.CanTransitionTo(to, user.Admin()) {
		return &errors.ErrInvalidStateTransition{From: string(order.Status), To: string(to)}
	}
	return nil
}

func roleName(user *domain.User) string {
	if user.Admin() {
		return "admin"
	}
	return "customer"
}
