package models

import "time"

type ReferralStatus string

const (
	ReferralPending   ReferralStatus = "pending"
	ReferralContacted ReferralStatus = "contacted"
	ReferralConverted ReferralStatus = "converted"
	ReferralRejected  ReferralStatus = "rejected"
)

// Referral is a lead handed in by a customer-partner.
type Referral struct {
	ID         int            `json:"id"`
	ReferrerID int            `json:"referrerId"`
	Name       string         `json:"name"`
	Phone      string         `json:"phone"`
	State      string         `json:"state"`
	District   string         `json:"district"`
	Notes      *string        `json:"notes,omitempty"`
	Status     ReferralStatus `json:"status"`
	CustomerID *int           `json:"customerId,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

type CreateReferralRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Phone    string  `json:"phone" validate:"required"`
	State    string  `json:"state" validate:"required"`
	District string  `json:"district" validate:"required"`
	Notes    *string `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateReferralStatusRequest struct {
	Status     ReferralStatus `json:"status" validate:"required,oneof=pending contacted converted rejected"`
	CustomerID *int           `json:"customerId" validate:"omitempty,gt=0"`
}
