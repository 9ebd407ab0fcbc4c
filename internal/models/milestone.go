package models

import "time"

// MilestoneFileSubmission is the DISCOM liaison step; completing it may
// assign a net-metering vendor.
const MilestoneFileSubmission = "file_submission"

// MilestoneTemplate is one entry of the fixed installation checklist.
type MilestoneTemplate struct {
	Key   string
	Title string
}

var MilestoneTemplates = []MilestoneTemplate{
	{Key: "application_submitted", Title: "Application Submitted"},
	{Key: "documents_uploaded", Title: "Documents Uploaded"},
	{Key: "documents_verified", Title: "Documents Verified"},
	{Key: "site_survey", Title: "Site Survey"},
	{Key: "feasibility_approval", Title: "Feasibility Approval"},
	{Key: MilestoneFileSubmission, Title: "DISCOM File Submission"},
	{Key: "material_dispatch", Title: "Material Dispatch"},
	{Key: "installation_started", Title: "Installation Started"},
	{Key: "installation_completed", Title: "Installation Completed"},
	{Key: "net_metering_application", Title: "Net Metering Application"},
	{Key: "meter_installation", Title: "Net Meter Installation"},
	{Key: "discom_inspection", Title: "DISCOM Inspection"},
	{Key: "commissioning", Title: "System Commissioning"},
	{Key: "subsidy_disbursed", Title: "Subsidy Disbursed"},
}

type Milestone struct {
	ID          int             `json:"id"`
	CustomerID  int             `json:"customerId"`
	Key         string          `json:"key"`
	Title       string          `json:"title"`
	StepOrder   int             `json:"order"`
	Status      MilestoneStatus `json:"status"`
	Notes       *string         `json:"notes,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// NewMilestonesFromTemplate seeds the checklist for a new customer.
func NewMilestonesFromTemplate(customerID int) []*Milestone {
	out := make([]*Milestone, 0, len(MilestoneTemplates))
	for i, t := range MilestoneTemplates {
		out = append(out, &Milestone{
			CustomerID: customerID,
			Key:        t.Key,
			Title:      t.Title,
			StepOrder:  i + 1,
			Status:     MilestoneStatusPending,
		})
	}
	return out
}

type CompleteMilestoneRequest struct {
	Notes    *string `json:"notes" validate:"omitempty,max=2000"`
	VendorID *int    `json:"vendorId" validate:"omitempty,gt=0"`
	JobRole  string  `json:"jobRole" validate:"omitempty,max=100"`
}

type UpdateMilestoneStatusRequest struct {
	Status MilestoneStatus `json:"status" validate:"required,oneof=pending in_progress"`
}

// Journey is the read model behind the tracker view.
type Journey struct {
	Customer                   *Customer          `json:"customer"`
	StatusProgressPercent      int                `json:"statusProgressPercent"`
	Milestones                 []*Milestone       `json:"milestones"`
	CompletedMilestones        int                `json:"completedMilestones"`
	MilestoneCompletionPercent int                `json:"milestoneCompletionPercent"`
	DiscomSuggestions          []*Vendor          `json:"discomSuggestions,omitempty"`
	Assignments                AssignmentsByStage `json:"assignments"`
}

// CompletionPercent counts completed milestones, rounded down.
func CompletionPercent(milestones []*Milestone) (completed int, percent int) {
	for _, m := range milestones {
		if m.Status == MilestoneStatusCompleted {
			completed++
		}
	}
	if len(milestones) == 0 {
		return 0, 0
	}
	return completed, completed * 100 / len(milestones)
}
