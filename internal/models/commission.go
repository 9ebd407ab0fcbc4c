package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Commission struct {
	ID               int              `json:"id"`
	PartnerID        int              `json:"partnerId"`
	PartnerName      string           `json:"partnerName,omitempty"`
	PartnerRole      Role             `json:"partnerRole"`
	CustomerID       int              `json:"customerId"`
	CustomerName     string           `json:"customerName,omitempty"`
	CapacityKw       decimal.Decimal  `json:"capacityKw"`
	PanelType        PanelType        `json:"panelType"`
	CommissionAmount decimal.Decimal  `json:"commissionAmount"`
	Status           CommissionStatus `json:"status"`
	PaymentReference *string          `json:"paymentReference,omitempty"`
	PaidAt           *time.Time       `json:"paidAt,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

type UpdateCommissionStatusRequest struct {
	Status           CommissionStatus `json:"status" validate:"required,oneof=pending approved paid"`
	PaymentReference *string          `json:"paymentReference" validate:"omitempty,max=100"`
}

type CommissionFilter struct {
	PartnerID *int
	Status    CommissionStatus
}

// CommissionSummary totals amounts per status.
type CommissionSummary struct {
	Pending  decimal.Decimal `json:"pending"`
	Approved decimal.Decimal `json:"approved"`
	Paid     decimal.Decimal `json:"paid"`
	Count    int             `json:"count"`
}
