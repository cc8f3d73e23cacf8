package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shop-api/internal/domain"
	"shop-api/internal/repository"
)

// OrderService coordina la creación y consulta de órdenes.
type OrderService struct {
	logger   *zap.Logger
	orders   repository.OrderRepository
	products repository.ProductRepository
}

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidStatus     = errors.New("invalid order status")
)

func NewOrderService(logger *zap.Logger, orders repository.OrderRepository, products repository.ProductRepository) *OrderService {
	return &OrderService{
		logger:   logger,
		orders:   orders,
		products: products,
	}
}

// OrderItemInput es una línea pedida por el cliente; el precio lo fija
// el catálogo al momento de la compra, nunca el request.
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// PlaceOrder valida stock, congela precios unitarios y persiste la
// orden con el descuento de stock en una transacción.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, items []OrderItemInput) (domain.Order, error) {
	if len(items) == 0 {
		return domain.Order{}, ErrEmptyOrder
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    domain.OrderPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			return domain.Order{}, ErrInvalidQuantity
		}
		product, err := s.products.GetByID(ctx, item.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Order{}, ErrProductNotFound
		}
		if err != nil {
			return domain.Order{}, err
		}
		if product.Stock < item.Quantity {
			return domain.Order{}, ErrInsufficientStock
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:      product.ID,
			Quantity:       item.Quantity,
			UnitPriceCents: product.PriceCents,
		})
		order.TotalCents += product.PriceCents * int64(item.Quantity)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return domain.Order{}, ErrInsufficientStock
		}
		return domain.Order{}, err
	}

	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int64("total_cents", order.TotalCents),
	)
	return order, nil
}

// Get devuelve una orden si el solicitante es el dueño o admin.
func (s *OrderService) Get(ctx context.Context, id string, requester domain.User) (domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	if order.UserID != requester.ID && !requester.IsAdmin() {
		return domain.Order{}, ErrForbidden
	}
	return order, nil
}

// List devuelve las órdenes del solicitante; un admin ve todas.
func (s *OrderService) List(ctx context.Context, requester domain.User) ([]domain.Order, error) {
	if requester.IsAdmin() {
		return s.orders.ListAll(ctx)
	}
	return s.orders.ListByUser(ctx, requester.ID)
}

// UpdateStatus cambia el estado de una orden (solo admin en el router).
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return domain.Order{}, ErrInvalidStatus
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Order{}, ErrOrderNotFound
		}
		return domain.Order{}, err
	}
	order, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Order{}, ErrOrderNotFound
	}
	return order, err
}
