package services

import (
	"context"
	"errors"
	"fmt"

	"suryaghar-backend/internal/cache"
	"suryaghar-backend/internal/commission"
	"suryaghar-backend/internal/leadscore"
	applog "suryaghar-backend/internal/logger"
	"suryaghar-backend/internal/metrics"
	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/validation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type customerStore interface {
	Create(ctx context.Context, c *models.Customer, milestones []*models.Milestone) error
	Get(ctx context.Context, id int) (*models.Customer, error)
	List(ctx context.Context, f models.CustomerFilter) ([]*models.Customer, error)
	UpdateLeadScore(ctx context.Context, id, score int, tier string) error
	TransitionStatus(ctx context.Context, id int, from, to models.CustomerStatus, commissions []*models.Commission) (*models.Customer, []*models.Commission, error)
	CountByStatus(ctx context.Context, f models.CustomerFilter) (map[models.CustomerStatus]int, error)
}

// LeadScorer never fails; it degrades to a heuristic on its own.
type LeadScorer interface {
	Score(ctx context.Context, in leadscore.Input) *leadscore.Result
}

var maxCapacityKw = decimal.NewFromInt(10)

type CustomerService struct {
	customers customerStore
	users     userStore
	scorer    LeadScorer
	notifier  Notifier
	access    *access
	logger    *zap.Logger
}

func NewCustomerService(customers customerStore, users userStore, scorer LeadScorer, notifier Notifier, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customers: customers,
		users:     users,
		scorer:    scorer,
		notifier:  notifier,
		access:    &access{customers: customers, users: users},
		logger:    applog.OrNop(logger),
	}
}

// Create registers a customer and seeds its milestone checklist. A DDP
// always owns what it creates; admins and BDPs must name the DDP.
func (s *CustomerService) Create(ctx context.Context, actor models.Actor, req *models.CreateCustomerRequest) (*models.Customer, error) {
	if actor.Role == models.RoleCustomerPartner {
		return nil, forbidden("customer-partners submit referrals, not customers")
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	phone, err := validation.NormalizePhone(req.Phone)
	if err != nil {
		return nil, invalid("phone: %v", err)
	}
	if !req.ProposedCapacity.IsPositive() || req.ProposedCapacity.GreaterThan(maxCapacityKw) {
		return nil, invalid("proposedCapacity must be greater than 0 and at most 10 kW")
	}
	if req.MonthlyBill.IsNegative() {
		return nil, invalid("monthlyBill cannot be negative")
	}

	ddpID, err := s.resolveDDP(ctx, actor, req.DDPID)
	if err != nil {
		return nil, err
	}

	c := &models.Customer{
		Name:             req.Name,
		Phone:            phone,
		Email:            req.Email,
		Address:          req.Address,
		District:         req.District,
		State:            req.State,
		Pincode:          req.Pincode,
		ConsumerNumber:   req.ConsumerNumber,
		MonthlyBill:      req.MonthlyBill,
		ProposedCapacity: req.ProposedCapacity,
		PanelType:        req.PanelType,
		InstallationType: req.InstallationType,
		OwnsRoof:         req.OwnsRoof,
		Status:           models.CustomerStatusPending,
		Source:           req.Source,
		DDPID:            ddpID,
	}
	if c.InstallationType == "" {
		c.InstallationType = models.InstallationOnGrid
	}
	if c.Source == "" {
		c.Source = models.SourceDirect
	}
	if c.Source == models.SourceReferral {
		if req.ReferrerID == nil {
			return nil, invalid("referrerId is required for referral customers")
		}
		referrer, err := s.users.Get(ctx, *req.ReferrerID)
		if isNotFound(err) || (err == nil && referrer.Role != models.RoleCustomerPartner) {
			return nil, invalid("referrerId must be a customer-partner")
		}
		if err != nil {
			return nil, err
		}
		c.ReferrerID = req.ReferrerID
	}

	if err := s.customers.Create(ctx, c, models.NewMilestonesFromTemplate(0)); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	cache.InvalidateDashboards(ctx)

	s.logger.Info("customer created",
		zap.Int("customer_id", c.ID),
		zap.Int("ddp_id", c.DDPID),
		zap.Int("created_by", actor.ID))
	return c, nil
}

func (s *CustomerService) resolveDDP(ctx context.Context, actor models.Actor, requested int) (int, error) {
	if actor.Role == models.RoleDDP {
		return actor.ID, nil
	}
	if requested <= 0 {
		return 0, invalid("ddpId is required")
	}
	ddp, err := s.users.Get(ctx, requested)
	if isNotFound(err) {
		return 0, invalid("ddpId %d does not exist", requested)
	}
	if err != nil {
		return 0, err
	}
	if ddp.Role != models.RoleDDP {
		return 0, invalid("ddpId %d is not a district partner", requested)
	}
	if actor.Role == models.RoleBDP && (ddp.ParentID == nil || *ddp.ParentID != actor.ID) {
		return 0, forbidden("district partner %d is not in your network", requested)
	}
	return ddp.ID, nil
}

func (s *CustomerService) Get(ctx context.Context, actor models.Actor, id int) (*models.Customer, error) {
	return s.access.customerFor(ctx, actor, id)
}

func (s *CustomerService) List(ctx context.Context, actor models.Actor, status models.CustomerStatus) ([]*models.Customer, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}
	f, err := s.access.customerFilter(ctx, actor)
	if err != nil {
		return nil, err
	}
	f.Status = status
	return s.customers.List(ctx, f)
}

// TransitionStatus advances a customer exactly one step. Reaching
// completed writes the commission rows in the same transaction.
func (s *CustomerService) TransitionStatus(ctx context.Context, actor models.Actor, id int, to models.CustomerStatus) (*models.Customer, error) {
	if !to.Valid() {
		return nil, invalid("unknown status %q", to)
	}
	c, err := s.access.mutableCustomerFor(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	next, ok := c.Status.Next()
	if !ok || next != to {
		return nil, fmt.Errorf("%w: customer is %s and cannot move to %s", ErrInvalidTransition, c.Status, to)
	}

	var owed []*models.Commission
	if to == models.CustomerStatusCompleted {
		owed, err = s.commissionsFor(ctx, c)
		if err != nil {
			return nil, err
		}
	}

	updated, created, err := s.customers.TransitionStatus(ctx, c.ID, c.Status, to, owed)
	if errors.Is(err, errStaleStatus) {
		return nil, fmt.Errorf("%w: customer %d changed status concurrently", ErrInvalidTransition, c.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("transition customer %d: %w", c.ID, err)
	}

	metrics.StatusTransitions.WithLabelValues(string(to)).Inc()
	cache.InvalidateDashboards(ctx)

	s.logger.Info("customer status changed",
		zap.Int("customer_id", c.ID),
		zap.String("from", string(c.Status)),
		zap.String("to", string(to)),
		zap.Int("actor_id", actor.ID),
		zap.Int("commissions", len(created)))

	link := fmt.Sprintf("/customers/%d", c.ID)
	notifySafe(ctx, s.notifier, updated.DDPID, models.NotifyStatusChanged,
		"Customer status updated",
		fmt.Sprintf("%s moved to %s.", updated.Name, to), &link)

	for _, cm := range created {
		metrics.CommissionsCreated.WithLabelValues(string(cm.PartnerRole)).Inc()
		notifySafe(ctx, s.notifier, cm.PartnerID, models.NotifyCommissionCreated,
			"Commission earned",
			fmt.Sprintf("Rs. %s for %s (%s kW).", cm.CommissionAmount.StringFixed(2), updated.Name, cm.CapacityKw.String()),
			strPtr("/commissions"))
	}
	return updated, nil
}

func (s *CustomerService) commissionsFor(ctx context.Context, c *models.Customer) ([]*models.Commission, error) {
	ddp, err := s.users.Get(ctx, c.DDPID)
	if err != nil {
		return nil, fmt.Errorf("load district partner %d: %w", c.DDPID, err)
	}
	return commission.ForCustomer(c, ddp.ParentID), nil
}

// ScoreLead rates the customer and stores the score.
func (s *CustomerService) ScoreLead(ctx context.Context, actor models.Actor, id int) (*leadscore.Result, error) {
	c, err := s.access.mutableCustomerFor(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	res := s.scorer.Score(ctx, leadscore.Input{
		CapacityKw:  c.ProposedCapacity.InexactFloat64(),
		MonthlyBill: c.MonthlyBill.InexactFloat64(),
		State:       c.State,
		District:    c.District,
		PanelType:   string(c.PanelType),
		Source:      string(c.Source),
		OwnsRoof:    c.OwnsRoof,
	})

	if err := s.customers.UpdateLeadScore(ctx, c.ID, res.Score, string(res.Tier)); err != nil {
		return nil, fmt.Errorf("store lead score: %w", err)
	}
	return res, nil
}
