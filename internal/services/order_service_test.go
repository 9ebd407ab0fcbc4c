package services

import (
	"context"
	"testing"

	"suryaghar-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_CanMoveTo(t *testing.T) {
	assert.True(t, models.OrderPending.CanMoveTo(models.OrderConfirmed))
	assert.True(t, models.OrderDispatched.CanMoveTo(models.OrderDelivered))
	assert.True(t, models.OrderConfirmed.CanMoveTo(models.OrderCancelled))
	assert.False(t, models.OrderPending.CanMoveTo(models.OrderDispatched))
	assert.False(t, models.OrderConfirmed.CanMoveTo(models.OrderPending))
	assert.False(t, models.OrderDelivered.CanMoveTo(models.OrderCancelled))
	assert.False(t, models.OrderCancelled.CanMoveTo(models.OrderConfirmed))
}

func newOrderFixture() *OrderService {
	customers := newFakeCustomers()
	customers.put(&models.Customer{DDPID: 3})
	return NewOrderService(newFakeOrders(), customers, newFakeUsers())
}

func TestOrderCreate(t *testing.T) {
	svc := newOrderFixture()
	ctx := context.Background()
	req := &models.CreateOrderRequest{
		CustomerID: 1, CapacityKw: decimal.NewFromInt(3), PanelType: models.PanelTypeDCR,
		Amount: decimal.RequireFromString("195000.456"),
	}

	_, err := svc.Create(ctx, ddpActor, req)
	assert.ErrorIs(t, err, ErrForbidden)

	o, err := svc.Create(ctx, adminActor, req)
	require.NoError(t, err)
	assert.Equal(t, "195000.46", o.Amount.String())
	assert.Equal(t, models.OrderPending, o.Status)

	req.CustomerID = 77
	_, err = svc.Create(ctx, adminActor, req)
	assert.ErrorIs(t, err, ErrValidation)

	req.CustomerID = 1
	req.Amount = decimal.Zero
	_, err = svc.Create(ctx, adminActor, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOrderAccess(t *testing.T) {
	svc := newOrderFixture()
	ctx := context.Background()
	o, err := svc.Create(ctx, adminActor, &models.CreateOrderRequest{
		CustomerID: 1, CapacityKw: decimal.NewFromInt(2), PanelType: models.PanelTypeDCR, Amount: decimal.NewFromInt(130000),
	})
	require.NoError(t, err)

	_, err = svc.Get(ctx, ddpActor, o.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, otherDDP, o.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.List(ctx, ddpActor, nil)
	assert.ErrorIs(t, err, ErrForbidden)
	list, err := svc.List(ctx, ddpActor, intPtr(1))
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.UpdateStatus(ctx, adminActor, o.ID, models.OrderDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	o, err = svc.UpdateStatus(ctx, adminActor, o.ID, models.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, o.Status)
	_, err = svc.UpdateStatus(ctx, adminActor, o.ID, models.OrderConfirmed)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
