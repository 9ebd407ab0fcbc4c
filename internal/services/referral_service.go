package services

import (
	"context"
	"fmt"
	"strings"

	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/validation"
)

type referralStore interface {
	Create(ctx context.Context, rf *models.Referral) error
	Get(ctx context.Context, id int) (*models.Referral, error)
	List(ctx context.Context, referrerIDs []int) ([]*models.Referral, error)
	UpdateStatus(ctx context.Context, id int, status models.ReferralStatus, customerID *int) (*models.Referral, error)
	CountByStatus(ctx context.Context, referrerIDs []int) (map[models.ReferralStatus]int, error)
}

type ReferralService struct {
	referrals referralStore
	users     userStore
	notifier  Notifier
	access    *access
}

func NewReferralService(referrals referralStore, users userStore, customers customerGetter, notifier Notifier) *ReferralService {
	return &ReferralService{
		referrals: referrals,
		users:     users,
		notifier:  notifier,
		access:    &access{customers: customers, users: users},
	}
}

func (s *ReferralService) Create(ctx context.Context, actor models.Actor, req *models.CreateReferralRequest) (*models.Referral, error) {
	if actor.Role != models.RoleCustomerPartner {
		return nil, forbidden("only customer-partners submit referrals")
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	phone, err := validation.NormalizePhone(req.Phone)
	if err != nil {
		return nil, invalid("phone: %v", err)
	}
	rf := &models.Referral{
		ReferrerID: actor.ID,
		Name:       strings.TrimSpace(req.Name),
		Phone:      phone,
		State:      strings.TrimSpace(req.State),
		District:   strings.TrimSpace(req.District),
		Notes:      req.Notes,
		Status:     models.ReferralPending,
	}
	if err := s.referrals.Create(ctx, rf); err != nil {
		return nil, err
	}
	return rf, nil
}

func (s *ReferralService) List(ctx context.Context, actor models.Actor) ([]*models.Referral, error) {
	scope, err := s.access.referrerScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.referrals.List(ctx, scope)
}

// UpdateStatus is open to admins and to the DDP the referrer belongs to.
// Marking a referral converted needs the customer it became.
func (s *ReferralService) UpdateStatus(ctx context.Context, actor models.Actor, id int, req *models.UpdateReferralStatusRequest) (*models.Referral, error) {
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleDDP {
		return nil, forbidden("only admins and district partners update referrals")
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	rf, err := s.referrals.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleDDP {
		referrer, err := s.users.Get(ctx, rf.ReferrerID)
		if err != nil {
			return nil, err
		}
		if referrer.ParentID == nil || *referrer.ParentID != actor.ID {
			return nil, forbidden("referral %d is outside your network", id)
		}
	}

	var customerID *int
	if req.Status == models.ReferralConverted {
		if req.CustomerID == nil {
			return nil, invalid("customerId is required when converting a referral")
		}
		if _, err := s.access.customerFor(ctx, actor, *req.CustomerID); err != nil {
			if isNotFound(err) {
				return nil, invalid("customer %d does not exist", *req.CustomerID)
			}
			return nil, err
		}
		customerID = req.CustomerID
	}

	updated, err := s.referrals.UpdateStatus(ctx, rf.ID, req.Status, customerID)
	if err != nil {
		return nil, err
	}
	notifySafe(ctx, s.notifier, rf.ReferrerID, models.NotifyReferralUpdated,
		"Referral updated",
		fmt.Sprintf("Your referral %s is now %s.", rf.Name, req.Status), strPtr("/referrals"))
	return updated, nil
}
