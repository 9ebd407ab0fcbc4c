package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID               int              `json:"id"`
	Name             string           `json:"name"`
	Phone            string           `json:"phone"`
	Email            string           `json:"email,omitempty"`
	Address          string           `json:"address"`
	District         string           `json:"district"`
	State            string           `json:"state"`
	Pincode          string           `json:"pincode,omitempty"`
	ConsumerNumber   string           `json:"consumerNumber,omitempty"` // DISCOM electricity account
	MonthlyBill      decimal.Decimal  `json:"monthlyBill"`
	ProposedCapacity decimal.Decimal  `json:"proposedCapacity"` // kW
	PanelType        PanelType        `json:"panelType"`
	InstallationType InstallationType `json:"installationType"`
	OwnsRoof         bool             `json:"ownsRoof"`
	Status           CustomerStatus   `json:"status"`
	LeadScore        *int             `json:"leadScore"`
	LeadTier         *string          `json:"leadTier,omitempty"`
	Source           CustomerSource   `json:"source"`
	DDPID            int              `json:"ddpId"`
	ReferrerID       *int             `json:"referrerId,omitempty"` // customer-partner who referred
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

type CreateCustomerRequest struct {
	Name             string           `json:"name" validate:"required,max=200"`
	Phone            string           `json:"phone" validate:"required"`
	Email            string           `json:"email" validate:"omitempty,email"`
	Address          string           `json:"address" validate:"required"`
	District         string           `json:"district" validate:"required"`
	State            string           `json:"state" validate:"required"`
	Pincode          string           `json:"pincode" validate:"omitempty,len=6,numeric"`
	ConsumerNumber   string           `json:"consumerNumber"`
	MonthlyBill      decimal.Decimal  `json:"monthlyBill"`
	ProposedCapacity decimal.Decimal  `json:"proposedCapacity"`
	PanelType        PanelType        `json:"panelType" validate:"required,oneof=dcr non_dcr"`
	InstallationType InstallationType `json:"installationType" validate:"omitempty,oneof=ongrid hybrid"`
	OwnsRoof         bool             `json:"ownsRoof"`
	Source           CustomerSource   `json:"source" validate:"omitempty,oneof=direct referral"`
	DDPID            int              `json:"ddpId"`
	ReferrerID       *int             `json:"referrerId"`
}

type UpdateCustomerStatusRequest struct {
	Status CustomerStatus `json:"status" validate:"required"`
}

// CustomerFilter scopes list queries by owner and status.
type CustomerFilter struct {
	DDPIDs     []int
	ReferrerID *int
	Status     CustomerStatus
}
