package ports

import (
	"context"
	"time"

	"github.com/quickbites/ordering-api/internal/core/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// ListAll returns every order, most recent first.
	ListAll(ctx context.Context) ([]*domain.Order, error)
	// ListByOwner returns the given user's orders, most recent first.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error)
	// UpdateStatus atomically overwrites the order's status and updated_at in
	// a single conditional write and returns the updated document.
	// Returns domain.ErrOrderNotFound when id does not resolve.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, at time.Time) (*domain.Order, error)
}
