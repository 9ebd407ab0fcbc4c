package services

import (
	"context"
	"fmt"

	"suryaghar-backend/internal/cache"
	"suryaghar-backend/internal/models"
)

type dashboardCustomers interface {
	customerGetter
	CountByStatus(ctx context.Context, f models.CustomerFilter) (map[models.CustomerStatus]int, error)
}

type dashboardCommissions interface {
	Summary(ctx context.Context, partnerID *int) (models.CommissionSummary, error)
}

type dashboardReferrals interface {
	CountByStatus(ctx context.Context, referrerIDs []int) (map[models.ReferralStatus]int, error)
}

type dashboardCounters interface {
	CountOpen(ctx context.Context) (int, error)
}

type dashboardDocuments interface {
	CountUnverified(ctx context.Context) (int, error)
}

type unreadCounter interface {
	CountUnread(ctx context.Context, userID int) (int, error)
}

// DashboardService aggregates the landing page for each role. Results are
// cached per user; the unread count is always read fresh.
type DashboardService struct {
	customers     dashboardCustomers
	commissions   dashboardCommissions
	users         userStore
	referrals     dashboardReferrals
	feedback      dashboardCounters
	documents     dashboardDocuments
	notifications unreadCounter
	access        *access
}

func NewDashboardService(
	customers dashboardCustomers,
	commissions dashboardCommissions,
	users userStore,
	referrals dashboardReferrals,
	feedback dashboardCounters,
	documents dashboardDocuments,
	notifications unreadCounter,
) *DashboardService {
	return &DashboardService{
		customers:     customers,
		commissions:   commissions,
		users:         users,
		referrals:     referrals,
		feedback:      feedback,
		documents:     documents,
		notifications: notifications,
		access:        &access{customers: customers, users: users},
	}
}

func (s *DashboardService) Get(ctx context.Context, actor models.Actor) (*models.Dashboard, error) {
	var d models.Dashboard
	if !cache.GetJSON(ctx, cache.DashboardKey(actor.ID), &d) || d.Role != actor.Role {
		built, err := s.build(ctx, actor)
		if err != nil {
			return nil, err
		}
		cache.SetJSON(ctx, cache.DashboardKey(actor.ID), built, cache.DashboardTTL)
		d = *built
	}

	unread, err := s.notifications.CountUnread(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}
	d.UnreadAlerts = unread
	return &d, nil
}

func (s *DashboardService) build(ctx context.Context, actor models.Actor) (*models.Dashboard, error) {
	d := &models.Dashboard{Role: actor.Role}

	f, err := s.access.customerFilter(ctx, actor)
	if err != nil {
		return nil, err
	}
	d.CustomersByStatus, err = s.customers.CountByStatus(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}
	for _, n := range d.CustomersByStatus {
		d.TotalCustomers += n
	}

	var partnerID *int
	if !actor.IsAdmin() {
		id := actor.ID
		partnerID = &id
	}
	d.Commissions, err = s.commissions.Summary(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("summarize commissions: %w", err)
	}

	switch actor.Role {
	case models.RoleAdmin:
		if d.PartnerCounts, err = s.users.CountByRole(ctx, nil); err != nil {
			return nil, fmt.Errorf("count partners: %w", err)
		}
		if d.OpenFeedback, err = s.feedback.CountOpen(ctx); err != nil {
			return nil, fmt.Errorf("count feedback: %w", err)
		}
		if d.PendingDocuments, err = s.documents.CountUnverified(ctx); err != nil {
			return nil, fmt.Errorf("count documents: %w", err)
		}
	case models.RoleBDP, models.RoleDDP:
		if d.PartnerCounts, err = s.users.CountByRole(ctx, []int{actor.ID}); err != nil {
			return nil, fmt.Errorf("count partners: %w", err)
		}
	}

	scope, err := s.access.referrerScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	if d.ReferralsByStatus, err = s.referrals.CountByStatus(ctx, scope); err != nil {
		return nil, fmt.Errorf("count referrals: %w", err)
	}
	return d, nil
}
