package models

import "time"

type Vendor struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	VendorType VendorType `json:"vendorType"`
	VendorCode *string    `json:"vendorCode,omitempty"`
	Phone      string     `json:"phone"`
	Email      string     `json:"email,omitempty"`
	State      string     `json:"state"`
	District   string     `json:"district"`
	IsActive   bool       `json:"isActive"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type CreateVendorRequest struct {
	Name       string     `json:"name" validate:"required,max=200"`
	VendorType VendorType `json:"vendorType" validate:"required"`
	VendorCode *string    `json:"vendorCode" validate:"omitempty,max=50"`
	Phone      string     `json:"phone" validate:"required"`
	Email      string     `json:"email" validate:"omitempty,email"`
	State      string     `json:"state" validate:"required"`
	District   string     `json:"district"`
}

type UpdateVendorRequest struct {
	CreateVendorRequest
	IsActive bool `json:"isActive"`
}

// VendorAssignment links a customer to a vendor for one journey stage.
type VendorAssignment struct {
	ID           int              `json:"id"`
	CustomerID   int              `json:"customerId"`
	VendorID     int              `json:"vendorId"`
	VendorName   string           `json:"vendorName,omitempty"`
	VendorType   VendorType       `json:"vendorType,omitempty"`
	JourneyStage JourneyStage     `json:"journeyStage"`
	JobRole      string           `json:"jobRole"`
	Status       AssignmentStatus `json:"status"`
	Notes        *string          `json:"notes,omitempty"`
	AssignedAt   time.Time        `json:"assignedAt"`
	CompletedAt  *time.Time       `json:"completedAt,omitempty"`
}

type CreateAssignmentRequest struct {
	VendorID     int          `json:"vendorId" validate:"required,gt=0"`
	JourneyStage JourneyStage `json:"journeyStage" validate:"required,oneof=pre_installation installation post_installation"`
	JobRole      string       `json:"jobRole" validate:"required,max=100"`
	Notes        *string      `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateAssignmentStatusRequest struct {
	Status AssignmentStatus `json:"status" validate:"required,oneof=assigned in_progress completed"`
}

// AssignmentsByStage is the read-time grouping of a customer's assignments.
type AssignmentsByStage map[JourneyStage][]*VendorAssignment

// GroupAssignments buckets assignments by stage. Every stage is present,
// possibly empty, and input order is kept inside each bucket.
func GroupAssignments(assignments []*VendorAssignment) AssignmentsByStage {
	out := make(AssignmentsByStage, len(JourneyStages))
	for _, stage := range JourneyStages {
		out[stage] = []*VendorAssignment{}
	}
	for _, a := range assignments {
		out[a.JourneyStage] = append(out[a.JourneyStage], a)
	}
	return out
}
