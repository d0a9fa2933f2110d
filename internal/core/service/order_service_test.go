package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/quickbites/ordering-api/internal/core/domain"
	"github.com/quickbites/ordering-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubOrderRepo struct {
	orders    map[string]*domain.Order
	nextID    int
	createErr error // if set, Create returns this error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*domain.Order)}
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	clone.Items = append([]domain.OrderItem(nil), o.Items...)
	return &clone
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	clone := cloneOrder(o)
	clone.ID = "o" + strconv.Itoa(r.nextID)
	r.orders[clone.ID] = cloneOrder(clone)
	return clone, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

// sortedDesc mirrors the created_at descending sort of the real Mongo repo.
func sortedDesc(orders []*domain.Order) []*domain.Order {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

func (r *stubOrderRepo) ListAll(_ context.Context) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, cloneOrder(o))
	}
	return sortedDesc(out), nil
}

func (r *stubOrderRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if o.OwnerID == ownerID {
			out = append(out, cloneOrder(o))
		}
	}
	return sortedDesc(out), nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus, at time.Time) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = at
	return cloneOrder(o), nil
}

type stubIdemStore struct {
	seen map[string]string
}

func newStubIdemStore() *stubIdemStore {
	return &stubIdemStore{seen: make(map[string]string)}
}

func (s *stubIdemStore) Lookup(_ context.Context, ownerID, key string) (string, bool, error) {
	id, ok := s.seen[ownerID+":"+key]
	return id, ok, nil
}

func (s *stubIdemStore) Remember(_ context.Context, ownerID, key, orderID string) error {
	s.seen[ownerID+":"+key] = orderID
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestOrderService(repo *stubOrderRepo, users *stubAuthRepo, idem *stubIdemStore) *OrderService {
	return NewOrderService(repo, users, idem, zerolog.Nop())
}

func validCreateInput(ownerID string) ports.CreateOrderInput {
	return ports.CreateOrderInput{
		OwnerID: ownerID,
		Address: "12 Main St",
		Items:   []ports.OrderItemInput{{Name: "Tea", Quantity: 2, UnitPrice: 10}},
		Total:   20,
	}
}

func registerTestUser(t *testing.T, users *stubAuthRepo, name, email string) *domain.User {
	t.Helper()
	u, err := users.Create(context.Background(), &domain.User{Name: name, Email: email, Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// ---------------------------------------------------------------------------
// CreateOrder
// ---------------------------------------------------------------------------

func TestOrderService_CreateOrder_Success(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newTestOrderService(repo, newStubAuthRepo(), newStubIdemStore())

	order, err := svc.CreateOrder(context.Background(), validCreateInput("u1"))
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if order.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if order.Status != domain.StatusPending {
		t.Fatalf("expected pending status, got %s", order.Status)
	}
	if order.OwnerID != "u1" {
		t.Fatalf("unexpected owner: %s", order.OwnerID)
	}
	if order.CreatedAt.IsZero() || !order.UpdatedAt.Equal(order.CreatedAt) {
		t.Fatalf("unexpected timestamps: created=%v updated=%v", order.CreatedAt, order.UpdatedAt)
	}
	if order.Total != 20 {
		t.Fatalf("expected caller-supplied total preserved, got %v", order.Total)
	}
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ports.CreateOrderInput)
	}{
		{"empty address", func(in *ports.CreateOrderInput) { in.Address = "" }},
		{"empty items", func(in *ports.CreateOrderInput) { in.Items = nil }},
		{"zero quantity", func(in *ports.CreateOrderInput) { in.Items[0].Quantity = 0 }},
		{"negative price", func(in *ports.CreateOrderInput) { in.Items[0].UnitPrice = -1 }},
		{"unnamed item", func(in *ports.CreateOrderInput) { in.Items[0].Name = "" }},
		{"negative total", func(in *ports.CreateOrderInput) { in.Total = -5 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newStubOrderRepo()
			svc := newTestOrderService(repo, newStubAuthRepo(), newStubIdemStore())

			in := validCreateInput("u1")
			tc.mutate(&in)

			if _, err := svc.CreateOrder(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if len(repo.orders) != 0 {
				t.Fatalf("expected nothing persisted, found %d orders", len(repo.orders))
			}
		})
	}
}

func TestOrderService_CreateOrder_IdempotentReplay(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newTestOrderService(repo, newStubAuthRepo(), newStubIdemStore())

	in := validCreateInput("u1")
	in.IdempotencyKey = "key-1"

	first, err := svc.CreateOrder(context.Background(), in)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := svc.CreateOrder(context.Background(), in)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected replay to return order %s, got %s", first.ID, second.ID)
	}
	if len(repo.orders) != 1 {
		t.Fatalf("expected exactly one persisted order, found %d", len(repo.orders))
	}
}

// ---------------------------------------------------------------------------
// ListAll / ListOwn
// ---------------------------------------------------------------------------

func TestOrderService_ListAll_JoinsOwner(t *testing.T) {
	repo := newStubOrderRepo()
	users := newStubAuthRepo()
	svc := newTestOrderService(repo, users, newStubIdemStore())

	alice := registerTestUser(t, users, "Alice", "a@x.com")
	bob := registerTestUser(t, users, "Bob", "b@x.com")

	for _, owner := range []string{alice.ID, bob.ID, alice.ID} {
		in := validCreateInput(owner)
		if _, err := svc.CreateOrder(context.Background(), in); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	rows, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for _, row := range rows {
		switch row.OwnerID {
		case alice.ID:
			if row.OwnerName != "Alice" || row.OwnerEmail != "a@x.com" {
				t.Fatalf("owner not joined: %+v", row)
			}
		case bob.ID:
			if row.OwnerName != "Bob" || row.OwnerEmail != "b@x.com" {
				t.Fatalf("owner not joined: %+v", row)
			}
		default:
			t.Fatalf("unexpected owner %s", row.OwnerID)
		}
	}
}

func TestOrderService_ListAll_RecentFirst(t *testing.T) {
	repo := newStubOrderRepo()
	users := newStubAuthRepo()
	svc := newTestOrderService(repo, users, newStubIdemStore())

	u := registerTestUser(t, users, "Alice", "a@x.com")
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		o := &domain.Order{
			OwnerID:   u.ID,
			Address:   "12 Main St",
			Items:     []domain.OrderItem{{Name: "Tea", Quantity: 1, UnitPrice: 10}},
			Status:    domain.StatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if _, err := repo.Create(context.Background(), o); err != nil {
			t.Fatalf("seed order: %v", err)
		}
	}

	rows, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].CreatedAt.After(rows[i-1].CreatedAt) {
			t.Fatalf("rows not sorted most recent first")
		}
	}
}

func TestOrderService_ListOwn_ScopedToOwner(t *testing.T) {
	repo := newStubOrderRepo()
	users := newStubAuthRepo()
	svc := newTestOrderService(repo, users, newStubIdemStore())

	alice := registerTestUser(t, users, "Alice", "a@x.com")
	bob := registerTestUser(t, users, "Bob", "b@x.com")

	for _, owner := range []string{alice.ID, bob.ID, alice.ID} {
		if _, err := svc.CreateOrder(context.Background(), validCreateInput(owner)); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	orders, err := svc.ListOwn(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListOwn returned error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	for _, o := range orders {
		if o.OwnerID != alice.ID {
			t.Fatalf("foreign order leaked: %+v", o)
		}
	}
}

func TestOrderService_ListOwn_EmptyForUnknownOwner(t *testing.T) {
	repo := newStubOrderRepo()
	users := newStubAuthRepo()
	svc := newTestOrderService(repo, users, newStubIdemStore())

	alice := registerTestUser(t, users, "Alice", "a@x.com")
	if _, err := svc.CreateOrder(context.Background(), validCreateInput(alice.ID)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	orders, err := svc.ListOwn(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListOwn returned error: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected empty result, got %d orders", len(orders))
	}
}

// ---------------------------------------------------------------------------
// UpdateStatus
// ---------------------------------------------------------------------------

func TestOrderService_UpdateStatus_Success(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newTestOrderService(repo, newStubAuthRepo(), newStubIdemStore())

	created, err := svc.CreateOrder(context.Background(), validCreateInput("u1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), created.ID, "delivered")
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != domain.StatusDelivered {
		t.Fatalf("expected delivered, got %s", updated.Status)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatalf("expected updated_at > created_at (updated=%v created=%v)", updated.UpdatedAt, updated.CreatedAt)
	}
}

func TestOrderService_UpdateStatus_InvalidStatus(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newTestOrderService(repo, newStubAuthRepo(), newStubIdemStore())

	created, err := svc.CreateOrder(context.Background(), validCreateInput("u1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), created.ID, "shipped"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	// The order must be left unchanged.
	unchanged, err := repo.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if unchanged.Status != domain.StatusPending {
		t.Fatalf("order mutated on invalid status: %s", unchanged.Status)
	}
}

func TestOrderService_UpdateStatus_NotFound(t *testing.T) {
	repo := newStubOrderRepo()
	svc := newTestOrderService(repo, newStubAuthRepo(), newStubIdemStore())

	if _, err := svc.UpdateStatus(context.Background(), "missing", "accepted"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_UpdateStatus_PermissiveTransitions(t *testing.T) {
	// Transitions are deliberately unrestricted: delivered → pending is legal.
	repo := newStubOrderRepo()
	svc := newTestOrderService(repo, newStubAuthRepo(), newStubIdemStore())

	created, err := svc.CreateOrder(context.Background(), validCreateInput("u1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for _, status := range []string{"delivered", "pending", "cancelled", "accepted"} {
		updated, err := svc.UpdateStatus(context.Background(), created.ID, status)
		if err != nil {
			t.Fatalf("UpdateStatus(%s) returned error: %v", status, err)
		}
		if string(updated.Status) != status {
			t.Fatalf("expected %s, got %s", status, updated.Status)
		}
	}
}
