package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderDispatched OrderStatus = "dispatched"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

var orderFlow = []string{
	string(OrderPending),
	string(OrderConfirmed),
	string(OrderDispatched),
	string(OrderDelivered),
}

func (s OrderStatus) Valid() bool {
	return s == OrderCancelled || indexOf(orderFlow, string(s)) >= 0
}

// Terminal orders cannot change status again.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanMoveTo allows the next fulfilment step, or cancelling an order that
// is not yet terminal.
func (s OrderStatus) CanMoveTo(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == OrderCancelled {
		return true
	}
	return isNextStep(orderFlow, string(s), string(next))
}

// Order is the equipment order placed for a customer installation.
type Order struct {
	ID         int             `json:"id"`
	CustomerID int             `json:"customerId"`
	CapacityKw decimal.Decimal `json:"capacityKw"`
	PanelType  PanelType       `json:"panelType"`
	Amount     decimal.Decimal `json:"amount"`
	Status     OrderStatus     `json:"status"`
	CreatedBy  int             `json:"createdBy"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type CreateOrderRequest struct {
	CustomerID int             `json:"customerId" validate:"required,gt=0"`
	CapacityKw decimal.Decimal `json:"capacityKw"`
	PanelType  PanelType       `json:"panelType" validate:"required,oneof=dcr non_dcr"`
	Amount     decimal.Decimal `json:"amount"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending confirmed dispatched delivered cancelled"`
}

type PaymentStatus string

const (
	PaymentCreated  PaymentStatus = "created"
	PaymentCaptured PaymentStatus = "captured"
	PaymentFailed   PaymentStatus = "failed"
)

// Payment is one Razorpay collection attempt against an order.
type Payment struct {
	ID                int             `json:"id"`
	OrderID           int             `json:"orderId"`
	RazorpayOrderID   string          `json:"razorpayOrderId"`
	RazorpayPaymentID *string         `json:"razorpayPaymentId,omitempty"`
	RazorpaySignature *string         `json:"-"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Status            PaymentStatus   `json:"status"`
	Method            *string         `json:"method,omitempty"`
	FailureReason     *string         `json:"failureReason,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// RazorpayCheckout is what the client needs to open the checkout widget.
type RazorpayCheckout struct {
	PaymentID       int    `json:"paymentId"`
	RazorpayOrderID string `json:"razorpayOrderId"`
	AmountPaise     int64  `json:"amount"`
	Currency        string `json:"currency"`
	KeyID           string `json:"keyId"`
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}
