package services

import (
	"context"
	"errors"
	"fmt"

	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/validation"
)

type orderStore interface {
	Create(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id int) (*models.Order, error)
	List(ctx context.Context, customerID *int) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id int, status models.OrderStatus) error
}

type OrderService struct {
	orders orderStore
	access *access
}

func NewOrderService(orders orderStore, customers customerGetter, users userStore) *OrderService {
	return &OrderService{
		orders: orders,
		access: &access{customers: customers, users: users},
	}
}

func (s *OrderService) Create(ctx context.Context, actor models.Actor, req *models.CreateOrderRequest) (*models.Order, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if !req.CapacityKw.IsPositive() || req.CapacityKw.GreaterThan(maxCapacityKw) {
		return nil, invalid("capacityKw must be greater than 0 and at most 10 kW")
	}
	if !req.Amount.IsPositive() {
		return nil, invalid("amount must be positive")
	}
	if _, err := s.access.customerFor(ctx, actor, req.CustomerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, invalid("customer %d does not exist", req.CustomerID)
		}
		return nil, err
	}

	o := &models.Order{
		CustomerID: req.CustomerID,
		CapacityKw: req.CapacityKw,
		PanelType:  req.PanelType,
		Amount:     req.Amount.Round(2),
		Status:     models.OrderPending,
		CreatedBy:  actor.ID,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return o, nil
}

func (s *OrderService) Get(ctx context.Context, actor models.Actor, id int) (*models.Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.customerFor(ctx, actor, o.CustomerID); err != nil {
		return nil, err
	}
	return o, nil
}

// List is admin-wide, or one customer's orders for anyone who can see
// that customer.
func (s *OrderService) List(ctx context.Context, actor models.Actor, customerID *int) ([]*models.Order, error) {
	if customerID == nil {
		if err := requireAdmin(actor); err != nil {
			return nil, err
		}
		return s.orders.List(ctx, nil)
	}
	if _, err := s.access.customerFor(ctx, actor, *customerID); err != nil {
		return nil, err
	}
	return s.orders.List(ctx, customerID)
}

func (s *OrderService) UpdateStatus(ctx context.Context, actor models.Actor, id int, to models.OrderStatus) (*models.Order, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !to.Valid() {
		return nil, invalid("unknown status %q", to)
	}
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanMoveTo(to) {
		return nil, fmt.Errorf("%w: order is %s and cannot move to %s", ErrInvalidTransition, o.Status, to)
	}
	if err := s.orders.UpdateStatus(ctx, o.ID, to); err != nil {
		return nil, err
	}
	o.Status = to
	return o, nil
}
