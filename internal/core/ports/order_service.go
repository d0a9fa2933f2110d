package ports

import (
	"context"

	"github.com/quickbites/ordering-api/internal/core/domain"
)

// OrderItemInput is a single line item in a create request.
type OrderItemInput struct {
	Name      string
	Quantity  int
	UnitPrice float64
}

// CreateOrderInput carries all data needed to create a new order.
// OwnerID comes from the verified token, never from the request body.
type CreateOrderInput struct {
	OwnerID        string
	Address        string
	Items          []OrderItemInput
	Total          float64
	IdempotencyKey string
}

// OrderWithOwner is the admin list view: an order joined with its owner's
// public contact fields.
type OrderWithOwner struct {
	domain.Order
	OwnerName  string
	OwnerEmail string
}

// OrderService defines use-case operations for orders.
type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	ListAll(ctx context.Context) ([]OrderWithOwner, error)
	ListOwn(ctx context.Context, ownerID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) (*domain.Order, error)
}
