package errors

import (
	"fmt"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when no identity is present or the actor lacks
// the required role
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrValidation is returned when a user-recoverable validation fails
// (empty cart, missing shipping fields, bad input)
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrOutOfStock is returned when an item has no resolvable stock
type ErrOutOfStock struct {
	Name string
}

func (e *ErrOutOfStock) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s is out of stock", e.Name)
	}
	return "this item is out of stock"
}

// ErrStockLimit is returned when a quantity change would exceed the stock ceiling
type ErrStockLimit struct {
	Max int
}

func (e *ErrStockLimit) Error() string {
	return fmt.Sprintf("stock limit reached (max %d)", e.Max)
}

// ErrForbiddenEdit is returned when the role/status policy denies a mutation
type ErrForbiddenEdit struct {
	Role   string
	Status string
	Field  string
}

func (e *ErrForbiddenEdit) Error() string {
	return fmt.Sprintf("%s may not edit %s while order is %s", e.Role, e.Field, e.Status)
}

// ErrInvalidStateTransition is returned when an invalid status transition is attempted
type ErrInvalidStateTransition struct {
	From string
	To   string
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// ErrRemote carries a remote API rejection verbatim so the caller can surface
// the server's own message
type ErrRemote struct {
	Action  string
	Message string
}

func (e *ErrRemote) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s failed", e.Action)
}
