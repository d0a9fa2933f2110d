package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/quickbites/ordering-api/internal/core/domain"
	"github.com/quickbites/ordering-api/internal/core/ports"
)

// IdempotencyStore abstracts the idempotency-key map (Redis).
type IdempotencyStore interface {
	// Lookup returns the order id previously remembered for the key, or
	// ok=false when the key has not been seen.
	Lookup(ctx context.Context, ownerID, key string) (string, bool, error)
	Remember(ctx context.Context, ownerID, key, orderID string) error
}

type OrderService struct {
	repo   ports.OrderRepository
	users  ports.AuthRepository
	idem   IdempotencyStore
	logger zerolog.Logger
}

func NewOrderService(repo ports.OrderRepository, users ports.AuthRepository, idem IdempotencyStore, logger zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, users: users, idem: idem, logger: logger}
}

// CreateOrder validates the payload and persists a new pending order. If an
// idempotency key is provided and already seen, the previously created order
// is returned without side effects.
func (s *OrderService) CreateOrder(ctx context.Context, in ports.CreateOrderInput) (*domain.Order, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	if in.IdempotencyKey != "" && s.idem != nil {
		orderID, ok, err := s.idem.Lookup(ctx, in.OwnerID, in.IdempotencyKey)
		if err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("idempotency lookup failed, creating anyway")
		} else if ok {
			existing, err := s.repo.FindByID(ctx, orderID)
			if err == nil {
				s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("order_id", existing.ID).Msg("idempotent replay")
				return existing, nil
			}
		}
	}

	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, domain.OrderItem{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	now := time.Now().UTC()
	order := &domain.Order{
		OwnerID:   in.OwnerID,
		Items:     items,
		Address:   in.Address,
		Total:     in.Total,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, err
	}

	if in.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, in.OwnerID, in.IdempotencyKey, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to remember idempotency key")
		}
	}

	s.logger.Info().Str("order_id", created.ID).Str("owner_id", in.OwnerID).Msg("order created")
	return created, nil
}

// validateCreate checks the creation payload. The total is caller-supplied
// and is not reconciled against the line items.
func validateCreate(in ports.CreateOrderInput) error {
	if in.OwnerID == "" {
		return fmt.Errorf("%w: owner is required", domain.ErrValidation)
	}
	if in.Address == "" {
		return fmt.Errorf("%w: address is required", domain.ErrValidation)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: items are required", domain.ErrValidation)
	}
	for i, it := range in.Items {
		if it.Name == "" {
			return fmt.Errorf("%w: items[%d].name is required", domain.ErrValidation, i)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("%w: items[%d].quantity must be at least 1", domain.ErrValidation, i)
		}
		if it.UnitPrice < 0 {
			return fmt.Errorf("%w: items[%d].price must not be negative", domain.ErrValidation, i)
		}
	}
	if in.Total < 0 {
		return fmt.Errorf("%w: total must not be negative", domain.ErrValidation)
	}
	return nil
}

// ListAll returns every order joined with its owner's name and email,
// most recent first.
func (s *OrderService) ListAll(ctx context.Context) ([]ports.OrderWithOwner, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(orders))
	seen := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		if _, ok := seen[o.OwnerID]; ok {
			continue
		}
		seen[o.OwnerID] = struct{}{}
		ids = append(ids, o.OwnerID)
	}

	owners, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list orders: resolve owners: %w", err)
	}

	out := make([]ports.OrderWithOwner, 0, len(orders))
	for _, o := range orders {
		row := ports.OrderWithOwner{Order: *o}
		if u, ok := owners[o.OwnerID]; ok {
			row.OwnerName = u.Name
			row.OwnerEmail = u.Email
		}
		out = append(out, row)
	}
	return out, nil
}

// ListOwn returns the caller's orders, most recent first. The owner filter is
// applied at the repository, so other users' orders never leave the store.
func (s *OrderService) ListOwn(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// UpdateStatus applies a new lifecycle status to an order. Any of the six
// enumerated values is accepted regardless of the current status.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*domain.Order, error) {
	parsed, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, parsed, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("order_id", orderID).Str("status", status).Msg("order status updated")
	return updated, nil
}
