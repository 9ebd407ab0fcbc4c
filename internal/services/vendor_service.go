package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/repositories"
	"suryaghar-backend/internal/validation"
)

type vendorStore interface {
	Create(ctx context.Context, v *models.Vendor) error
	Get(ctx context.Context, id int) (*models.Vendor, error)
	List(ctx context.Context, f repositories.VendorFilter) ([]*models.Vendor, error)
	Update(ctx context.Context, v *models.Vendor) error
	Delete(ctx context.Context, id int) error
}

type assignmentStore interface {
	Create(ctx context.Context, a *models.VendorAssignment) error
	Get(ctx context.Context, id int) (*models.VendorAssignment, error)
	ListByCustomer(ctx context.Context, customerID int) ([]*models.VendorAssignment, error)
	Delete(ctx context.Context, id int) error
	UpdateStatus(ctx context.Context, id int, from, to models.AssignmentStatus) error
}

type VendorService struct {
	vendors     vendorStore
	assignments assignmentStore
	access      *access
}

func NewVendorService(vendors vendorStore, assignments assignmentStore, customers customerGetter, users userStore) *VendorService {
	return &VendorService{
		vendors:     vendors,
		assignments: assignments,
		access:      &access{customers: customers, users: users},
	}
}

func requireAdmin(actor models.Actor) error {
	if !actor.IsAdmin() {
		return forbidden("admin access required")
	}
	return nil
}

func vendorFromRequest(req *models.CreateVendorRequest) (*models.Vendor, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if !req.VendorType.Valid() {
		return nil, invalid("unknown vendorType %q", req.VendorType)
	}
	phone, err := validation.NormalizePhone(req.Phone)
	if err != nil {
		return nil, invalid("phone: %v", err)
	}
	return &models.Vendor{
		Name:       strings.TrimSpace(req.Name),
		VendorType: req.VendorType,
		VendorCode: req.VendorCode,
		Phone:      phone,
		Email:      req.Email,
		State:      strings.TrimSpace(req.State),
		District:   strings.TrimSpace(req.District),
		IsActive:   true,
	}, nil
}

func (s *VendorService) Create(ctx context.Context, actor models.Actor, req *models.CreateVendorRequest) (*models.Vendor, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	v, err := vendorFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.vendors.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("create vendor: %w", err)
	}
	return v, nil
}

func (s *VendorService) Get(ctx context.Context, id int) (*models.Vendor, error) {
	return s.vendors.Get(ctx, id)
}

func (s *VendorService) List(ctx context.Context, f repositories.VendorFilter) ([]*models.Vendor, error) {
	if f.VendorType != "" && !f.VendorType.Valid() {
		return nil, invalid("unknown vendorType %q", f.VendorType)
	}
	return s.vendors.List(ctx, f)
}

func (s *VendorService) Update(ctx context.Context, actor models.Actor, id int, req *models.UpdateVendorRequest) (*models.Vendor, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	v, err := vendorFromRequest(&req.CreateVendorRequest)
	if err != nil {
		return nil, err
	}
	v.ID = id
	v.IsActive = req.IsActive
	if err := s.vendors.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VendorService) Delete(ctx context.Context, actor models.Actor, id int) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	err := s.vendors.Delete(ctx, id)
	if errors.Is(err, ErrConflict) {
		return fmt.Errorf("%w: vendor %d has assignments, deactivate it instead", ErrConflict, id)
	}
	return err
}

// DiscomSuggestions lists active net-metering vendors with those in state
// first.
func (s *VendorService) DiscomSuggestions(ctx context.Context, state string) ([]*models.Vendor, error) {
	return discomSuggestions(ctx, s.vendors, state)
}

func discomSuggestions(ctx context.Context, vendors vendorStore, state string) ([]*models.Vendor, error) {
	list, err := vendors.List(ctx, repositories.VendorFilter{
		VendorType: models.VendorDiscomNetMetering,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list discom vendors: %w", err)
	}
	SortByState(list, state)
	return list, nil
}

// SortByState moves vendors located in state to the front. The sort is
// stable, so the incoming order survives inside each group.
func SortByState(vendors []*models.Vendor, state string) {
	state = strings.ToLower(strings.TrimSpace(state))
	same := func(v *models.Vendor) bool {
		return state != "" && strings.ToLower(strings.TrimSpace(v.State)) == state
	}
	sort.SliceStable(vendors, func(i, j int) bool {
		return same(vendors[i]) && !same(vendors[j])
	})
}

func (s *VendorService) ListAssignments(ctx context.Context, actor models.Actor, customerID int) (models.AssignmentsByStage, error) {
	if _, err := s.access.customerFor(ctx, actor, customerID); err != nil {
		return nil, err
	}
	list, err := s.assignments.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return models.GroupAssignments(list), nil
}

func (s *VendorService) CreateAssignment(ctx context.Context, actor models.Actor, customerID int, req *models.CreateAssignmentRequest) (*models.VendorAssignment, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.access.mutableCustomerFor(ctx, actor, customerID); err != nil {
		return nil, err
	}
	v, err := s.vendors.Get(ctx, req.VendorID)
	if isNotFound(err) {
		return nil, invalid("vendor %d does not exist", req.VendorID)
	}
	if err != nil {
		return nil, err
	}
	if !v.IsActive {
		return nil, invalid("vendor %d is inactive", v.ID)
	}

	a := &models.VendorAssignment{
		CustomerID:   customerID,
		VendorID:     v.ID,
		VendorName:   v.Name,
		VendorType:   v.VendorType,
		JourneyStage: req.JourneyStage,
		JobRole:      strings.TrimSpace(req.JobRole),
		Status:       models.AssignmentStatusAssigned,
		Notes:        req.Notes,
	}
	if err := s.assignments.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}
	return a, nil
}

func (s *VendorService) assignmentFor(ctx context.Context, actor models.Actor, customerID, assignmentID int) (*models.VendorAssignment, error) {
	if _, err := s.access.mutableCustomerFor(ctx, actor, customerID); err != nil {
		return nil, err
	}
	a, err := s.assignments.Get(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if a.CustomerID != customerID {
		return nil, ErrNotFound
	}
	return a, nil
}

// DeleteAssignment removes the assignment outright; no history is kept.
func (s *VendorService) DeleteAssignment(ctx context.Context, actor models.Actor, customerID, assignmentID int) error {
	if _, err := s.assignmentFor(ctx, actor, customerID, assignmentID); err != nil {
		return err
	}
	return s.assignments.Delete(ctx, assignmentID)
}

// UpdateAssignmentStatus moves an assignment one step forward.
func (s *VendorService) UpdateAssignmentStatus(ctx context.Context, actor models.Actor, customerID, assignmentID int, to models.AssignmentStatus) (*models.VendorAssignment, error) {
	if !to.Valid() {
		return nil, invalid("unknown status %q", to)
	}
	a, err := s.assignmentFor(ctx, actor, customerID, assignmentID)
	if err != nil {
		return nil, err
	}
	if !a.Status.CanAdvanceTo(to) {
		return nil, fmt.Errorf("%w: assignment is %s and cannot move to %s", ErrInvalidTransition, a.Status, to)
	}
	err = s.assignments.UpdateStatus(ctx, a.ID, a.Status, to)
	if errors.Is(err, ErrConflict) {
		return nil, fmt.Errorf("%w: assignment %d changed concurrently", ErrInvalidTransition, a.ID)
	}
	if err != nil {
		return nil, err
	}
	return s.assignments.Get(ctx, a.ID)
}
