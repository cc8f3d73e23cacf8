package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"shop-api/internal/domain"
	"shop-api/internal/repository"
)

type mockProductRepo struct {
	products map[string]domain.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[string]domain.Product)}
}

func (m *mockProductRepo) Create(_ context.Context, p domain.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) List(_ context.Context, categoryID string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range m.products {
		if categoryID == "" || p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) Update(_ context.Context, p domain.Product) error {
	if _, ok := m.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

type mockOrderRepo struct {
	orders map[string]domain.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]domain.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order domain.Order) error {
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id string) (domain.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return domain.Order{}, repository.ErrNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	o, ok := m.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	m.orders[id] = o
	return nil
}

func TestOrderServicePlaceOrder(t *testing.T) {
	products := newMockProductRepo()
	orders := newMockOrderRepo()
	svc := NewOrderService(zap.NewNop(), orders, products)
	ctx := context.Background()

	products.products["p1"] = domain.Product{ID: "p1", PriceCents: 1000, Stock: 5}
	products.products["p2"] = domain.Product{ID: "p2", PriceCents: 250, Stock: 10}

	order, err := svc.PlaceOrder(ctx, "u1", []OrderItemInput{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 4},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if order.Status != domain.OrderPending {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
	if order.TotalCents != 2*1000+4*250 {
		t.Fatalf("unexpected total: %d", order.TotalCents)
	}
	if len(order.Items) != 2 || order.Items[0].UnitPriceCents != 1000 {
		t.Fatalf("unit prices must freeze catalog prices: %+v", order.Items)
	}
}

func TestOrderServicePlaceOrder_Validation(t *testing.T) {
	products := newMockProductRepo()
	orders := newMockOrderRepo()
	svc := NewOrderService(zap.NewNop(), orders, products)
	ctx := context.Background()

	products.products["p1"] = domain.Product{ID: "p1", PriceCents: 1000, Stock: 1}

	if _, err := svc.PlaceOrder(ctx, "u1", nil); !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("expected ErrEmptyOrder, got %v", err)
	}
	if _, err := svc.PlaceOrder(ctx, "u1", []OrderItemInput{{ProductID: "p1", Quantity: 0}}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.PlaceOrder(ctx, "u1", []OrderItemInput{{ProductID: "ghost", Quantity: 1}}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := svc.PlaceOrder(ctx, "u1", []OrderItemInput{{ProductID: "p1", Quantity: 2}}); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestOrderServiceGet_Ownership(t *testing.T) {
	products := newMockProductRepo()
	orders := newMockOrderRepo()
	svc := NewOrderService(zap.NewNop(), orders, products)
	ctx := context.Background()

	orders.orders["o1"] = domain.Order{ID: "o1", UserID: "u1", Status: domain.OrderPending}

	owner := domain.User{ID: "u1", Roles: []domain.Role{domain.RoleCustomer}}
	stranger := domain.User{ID: "u2", Roles: []domain.Role{domain.RoleCustomer}}
	admin := domain.User{ID: "u3", Roles: []domain.Role{domain.RoleAdmin}}

	if _, err := svc.Get(ctx, "o1", owner); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if _, err := svc.Get(ctx, "o1", admin); err != nil {
		t.Fatalf("admin get: %v", err)
	}
	if _, err := svc.Get(ctx, "o1", stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, "ghost", owner); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderServiceUpdateStatus(t *testing.T) {
	products := newMockProductRepo()
	orders := newMockOrderRepo()
	svc := NewOrderService(zap.NewNop(), orders, products)
	ctx := context.Background()

	orders.orders["o1"] = domain.Order{ID: "o1", UserID: "u1", Status: domain.OrderPending}

	order, err := svc.UpdateStatus(ctx, "o1", domain.OrderPaid)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if order.Status != domain.OrderPaid {
		t.Fatalf("expected paid, got %s", order.Status)
	}

	if _, err := svc.UpdateStatus(ctx, "o1", domain.OrderStatus("teleported")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "ghost", domain.OrderPaid); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
