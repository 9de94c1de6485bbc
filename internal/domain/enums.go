package domain

import (
	"strings"
)

// Packaging is the per-line packaging choice
type Packaging string

const (
	PackagingBox  Packaging = "box"
	PackagingPoly Packaging = "poly"
)

// ParsePackaging returns poly only when explicitly requested, else box
func ParsePackaging(s string) Packaging {
	if strings.ToLower(strings.TrimSpace(s)) == string(PackagingPoly) {
		return PackagingPoly
	}
	return PackagingBox
}

// OrderStatus is the primary-storefront order status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusApproved  OrderStatus = "Approved"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusCancelled OrderStatus = "Cancelled"
	OrderStatusDeleted   OrderStatus = "Deleted"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusApproved,
		OrderStatusShipped, OrderStatusCancelled, OrderStatusDeleted:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status permanently locks the order.
// Cancelled/Deleted are matched case-insensitively ("canceled" included)
// because the backing sheet stores them inconsistently.
func (s OrderStatus) IsTerminal() bool {
	switch strings.ToLower(strings.TrimSpace(string(s))) {
	case "cancelled", "canceled", "deleted":
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if an actor with the given admin flag may move the
// order to newStatus. A non-admin may only confirm a pending order; an admin
// may set any non-terminal status to any other, but a terminal status is
// immutable once reached.
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus, admin bool) bool {
	if s.IsTerminal() {
		return false
	}
	if !newStatus.IsValid() {
		return false
	}
	if !admin {
		return s == OrderStatusPending && newStatus == OrderStatusConfirmed
	}
	return newStatus != s
}

// AllowedAdminNextStatuses is the forward ladder offered in the admin console:
// Confirmed -> Approved -> Shipped. Cancel/Delete are separate actions.
func (s OrderStatus) AllowedAdminNextStatuses() []OrderStatus {
	switch s {
	case OrderStatusConfirmed:
		return []OrderStatus{OrderStatusApproved}
	case OrderStatusApproved:
		return []OrderStatus{OrderStatusShipped}
	default:
		return nil
	}
}

// CanPermanentDelete reports whether the irreversible hard delete is offered.
// Distinct from the soft "Deleted" status; only Shipped or Cancelled orders
// qualify.
func (s OrderStatus) CanPermanentDelete() bool {
	switch strings.ToLower(strings.TrimSpace(string(s))) {
	case "shipped", "cancelled", "canceled":
		return true
	default:
		return false
	}
}

// UKOrderStatus is the secondary-storefront order status
type UKOrderStatus string

const (
	UKStatusDraft              UKOrderStatus = "draft"
	UKStatusSubmitted          UKOrderStatus = "submitted"
	UKStatusPriced             UKOrderStatus = "priced"
	UKStatusUnderReview        UKOrderStatus = "under_review"
	UKStatusFinalized          UKOrderStatus = "finalized"
	UKStatusProcessing         UKOrderStatus = "processing"
	UKStatusPartiallyDelivered UKOrderStatus = "partially_delivered"
	UKStatusDelivered          UKOrderStatus = "delivered"
	UKStatusCancelled          UKOrderStatus = "cancelled"
)

// UKStatuses lists every UK status in workflow order
var UKStatuses = []UKOrderStatus{
	UKStatusDraft, UKStatusSubmitted, UKStatusPriced, UKStatusUnderReview,
	UKStatusFinalized, UKStatusProcessing, UKStatusPartiallyDelivered,
	UKStatusDelivered, UKStatusCancelled,
}

// IsValid checks if the UK order status is valid
func (s UKOrderStatus) IsValid() bool {
	for _, v := range UKStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports enum-level terminality. delivered is NOT terminal here
// even though the edit policy locks it for everyone; that asymmetry is in the
// backing system and is kept as-is.
func (s UKOrderStatus) IsTerminal() bool {
	return s == UKStatusCancelled
}
