package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"suryaghar-backend/internal/cache"
	applog "suryaghar-backend/internal/logger"
	"suryaghar-backend/internal/metrics"
	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/validation"

	"go.uber.org/zap"
)

// DefaultLiaisonJobRole is used when a DISCOM vendor is attached to the
// file submission step without a job role.
const DefaultLiaisonJobRole = "net_metering_liaison"

type milestoneStore interface {
	ListByCustomer(ctx context.Context, customerID int) ([]*models.Milestone, error)
	Get(ctx context.Context, id int) (*models.Milestone, error)
	Complete(ctx context.Context, milestoneID int, notes *string, assignment *models.VendorAssignment) (*models.Milestone, bool, error)
	SetStatus(ctx context.Context, milestoneID int, status models.MilestoneStatus) (*models.Milestone, error)
}

type JourneyService struct {
	milestones  milestoneStore
	vendors     vendorStore
	assignments assignmentStore
	notifier    Notifier
	access      *access
	logger      *zap.Logger
}

func NewJourneyService(milestones milestoneStore, vendors vendorStore, assignments assignmentStore, customers customerGetter, users userStore, notifier Notifier, logger *zap.Logger) *JourneyService {
	return &JourneyService{
		milestones:  milestones,
		vendors:     vendors,
		assignments: assignments,
		notifier:    notifier,
		access:      &access{customers: customers, users: users},
		logger:      applog.OrNop(logger),
	}
}

// GetJourney builds the tracker view for one customer. DISCOM suggestions
// are only included while file submission is still open.
func (s *JourneyService) GetJourney(ctx context.Context, actor models.Actor, customerID int) (*models.Journey, error) {
	c, err := s.access.customerFor(ctx, actor, customerID)
	if err != nil {
		return nil, err
	}
	milestones, err := s.milestones.ListByCustomer(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	assignments, err := s.assignments.ListByCustomer(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	completed, percent := models.CompletionPercent(milestones)
	j := &models.Journey{
		Customer:                   c,
		StatusProgressPercent:      c.Status.ProgressPercent(),
		Milestones:                 milestones,
		CompletedMilestones:        completed,
		MilestoneCompletionPercent: percent,
		Assignments:                models.GroupAssignments(assignments),
	}

	if fileSubmissionOpen(milestones) && actor.Role != models.RoleCustomerPartner {
		j.DiscomSuggestions, err = discomSuggestions(ctx, s.vendors, c.State)
		if err != nil {
			return nil, err
		}
	}
	return j, nil
}

func fileSubmissionOpen(milestones []*models.Milestone) bool {
	for _, m := range milestones {
		if m.Key == models.MilestoneFileSubmission {
			return m.Status != models.MilestoneStatusCompleted
		}
	}
	return false
}

// CompleteMilestone marks a milestone done. On the file submission step a
// DISCOM vendor may be attached; its assignment and the milestone update
// commit together or not at all. Completing a completed milestone returns
// it unchanged.
func (s *JourneyService) CompleteMilestone(ctx context.Context, actor models.Actor, customerID, milestoneID int, req *models.CompleteMilestoneRequest) (*models.Milestone, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	c, err := s.access.mutableCustomerFor(ctx, actor, customerID)
	if err != nil {
		return nil, err
	}

	var result *models.Milestone
	var changed bool
	err = cache.WithCustomerLock(ctx, c.ID, func(ctx context.Context) error {
		m, err := s.milestoneFor(ctx, c.ID, milestoneID)
		if err != nil {
			return err
		}
		if m.Status == models.MilestoneStatusCompleted {
			result = m
			return nil
		}

		var assignment *models.VendorAssignment
		if req.VendorID != nil {
			assignment, err = s.liaisonAssignment(ctx, c.ID, m, *req.VendorID, req.JobRole)
			if err != nil {
				return err
			}
		}

		result, changed, err = s.milestones.Complete(ctx, m.ID, req.Notes, assignment)
		if err != nil {
			return fmt.Errorf("complete milestone %s: %w", m.Key, err)
		}
		return nil
	})
	if errors.Is(err, cache.ErrLocked) {
		return nil, fmt.Errorf("%w: customer %d is being updated, retry shortly", ErrConflict, c.ID)
	}
	if err != nil {
		return nil, err
	}

	if changed {
		metrics.MilestonesCompleted.WithLabelValues(result.Key).Inc()
		s.logger.Info("milestone completed",
			zap.Int("customer_id", c.ID),
			zap.String("milestone", result.Key),
			zap.Bool("vendor_assigned", req.VendorID != nil),
			zap.Int("actor_id", actor.ID))

		link := fmt.Sprintf("/customers/%d/journey", c.ID)
		notifySafe(ctx, s.notifier, c.DDPID, models.NotifyMilestoneCompleted,
			"Milestone completed",
			fmt.Sprintf("%s: %s is done.", c.Name, result.Title), &link)
	}
	return result, nil
}

func (s *JourneyService) milestoneFor(ctx context.Context, customerID, milestoneID int) (*models.Milestone, error) {
	m, err := s.milestones.Get(ctx, milestoneID)
	if err != nil {
		return nil, err
	}
	if m.CustomerID != customerID {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *JourneyService) liaisonAssignment(ctx context.Context, customerID int, m *models.Milestone, vendorID int, jobRole string) (*models.VendorAssignment, error) {
	if m.Key != models.MilestoneFileSubmission {
		return nil, invalid("a vendor can only be attached to %s", models.MilestoneFileSubmission)
	}
	v, err := s.vendors.Get(ctx, vendorID)
	if isNotFound(err) {
		return nil, invalid("vendor %d does not exist", vendorID)
	}
	if err != nil {
		return nil, err
	}
	if v.VendorType != models.VendorDiscomNetMetering {
		return nil, invalid("vendor %d is %s, expected %s", v.ID, v.VendorType, models.VendorDiscomNetMetering)
	}
	if !v.IsActive {
		return nil, invalid("vendor %d is inactive", v.ID)
	}

	jobRole = strings.TrimSpace(jobRole)
	if jobRole == "" {
		jobRole = DefaultLiaisonJobRole
	}
	return &models.VendorAssignment{
		CustomerID:   customerID,
		VendorID:     v.ID,
		VendorName:   v.Name,
		VendorType:   v.VendorType,
		JourneyStage: models.StagePreInstallation,
		JobRole:      jobRole,
		Status:       models.AssignmentStatusAssigned,
	}, nil
}

// SetMilestoneStatus marks a milestone started or resets it to pending.
// Completed milestones stay completed.
func (s *JourneyService) SetMilestoneStatus(ctx context.Context, actor models.Actor, customerID, milestoneID int, status models.MilestoneStatus) (*models.Milestone, error) {
	if status != models.MilestoneStatusPending && status != models.MilestoneStatusInProgress {
		return nil, invalid("status must be pending or in_progress")
	}
	c, err := s.access.mutableCustomerFor(ctx, actor, customerID)
	if err != nil {
		return nil, err
	}
	m, err := s.milestoneFor(ctx, c.ID, milestoneID)
	if err != nil {
		return nil, err
	}
	if m.Status == models.MilestoneStatusCompleted {
		return nil, fmt.Errorf("%w: milestone %s is already completed", ErrInvalidTransition, m.Key)
	}
	updated, err := s.milestones.SetStatus(ctx, m.ID, status)
	if isNotFound(err) {
		return nil, fmt.Errorf("%w: milestone %s was completed concurrently", ErrInvalidTransition, m.Key)
	}
	return updated, err
}
