package order

import (
	"context"
	"errors"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidRequest    = errors.New("invalid order request")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("not allowed to act on this order")
)

// Repository defines data access for orders.
type Repository interface {
	// CreateOrder persists an order, its items and its first timeline
	// event atomically.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrderByID retrieves an order with its items.
	GetOrderByID(ctx context.Context, id string) (*Order, error)

	// ListByCustomer returns a customer's orders, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]*Order, error)

	// ListByBusiness returns a business's orders, newest first, limited to
	// statuses when any are given.
	ListByBusiness(ctx context.Context, businessID string, statuses []Status) ([]*Order, error)

	// UpdateStatus moves an order to status and appends a timeline event,
	// provided its current status is one of from. Otherwise nothing changes
	// and ErrInvalidTransition is returned.
	UpdateStatus(ctx context.Context, id string, status Status, from []Status, note string) error

	// UpdatePayment records a change of payment state.
	UpdatePayment(ctx context.Context, id string, status PaymentStatus, ref string) error

	// Events returns the timeline of an order, oldest first.
	Events(ctx context.Context, id string) ([]StatusEvent, error)
}
