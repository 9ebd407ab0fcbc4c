package models

import "time"

// User is any signed-in partner: admin, BDP, DDP or customer-partner.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	State        string    `json:"state"`
	District     string    `json:"district"`
	PartnerCode  string    `json:"partnerCode"`
	ParentID     *int      `json:"parentId,omitempty"` // DDP -> BDP, customer-partner -> DDP
	IsActive     bool      `json:"isActive"`
	TOTPEnabled  bool      `json:"totpEnabled"`
	TOTPSecret   string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// CreatePartnerRequest is used by admins to onboard any partner tier.
type CreatePartnerRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     Role   `json:"role" validate:"required,oneof=admin bdp ddp customer_partner"`
	State    string `json:"state" validate:"required"`
	District string `json:"district"`
	ParentID *int   `json:"parentId" validate:"omitempty,gt=0"`
}

type SetActiveRequest struct {
	IsActive bool `json:"isActive"`
}
