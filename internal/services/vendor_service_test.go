package services

import (
	"context"
	"testing"

	"suryaghar-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortByState(t *testing.T) {
	vendors := []*models.Vendor{
		{ID: 1, State: "Delhi"},
		{ID: 2, State: "odisha "},
		{ID: 3, State: "Bihar"},
		{ID: 4, State: "Odisha"},
	}
	SortByState(vendors, "ODISHA")

	ids := make([]int, len(vendors))
	for i, v := range vendors {
		ids[i] = v.ID
	}
	assert.Equal(t, []int{2, 4, 1, 3}, ids)
}

func TestSortByState_EmptyStateKeepsOrder(t *testing.T) {
	vendors := []*models.Vendor{{ID: 3}, {ID: 1, State: ""}, {ID: 2}}
	SortByState(vendors, "")
	assert.Equal(t, 3, vendors[0].ID)
	assert.Equal(t, 1, vendors[1].ID)
}

func newVendorFixture() (*VendorService, *fakeCustomers) {
	customers := newFakeCustomers()
	customers.put(&models.Customer{DDPID: 3, State: "Odisha"})
	vendors := newFakeVendors(
		&models.Vendor{ID: 1, Name: "Fast Freight", VendorType: models.VendorLogistic, IsActive: true},
		&models.Vendor{ID: 2, Name: "Old Freight", VendorType: models.VendorLogistic, IsActive: false},
	)
	return NewVendorService(vendors, newFakeAssignments(), customers, newFakeUsers()), customers
}

func TestVendorCreate_AdminOnly(t *testing.T) {
	svc, _ := newVendorFixture()
	req := &models.CreateVendorRequest{Name: "Sun Installers", VendorType: models.VendorInstaller, Phone: "9876543210", State: "Odisha"}

	_, err := svc.Create(context.Background(), ddpActor, req)
	assert.ErrorIs(t, err, ErrForbidden)

	v, err := svc.Create(context.Background(), adminActor, req)
	require.NoError(t, err)
	assert.True(t, v.IsActive)
	assert.NotZero(t, v.ID)

	req.VendorType = "plumber"
	_, err = svc.Create(context.Background(), adminActor, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAssignmentLifecycle(t *testing.T) {
	svc, _ := newVendorFixture()
	ctx := context.Background()

	a, err := svc.CreateAssignment(ctx, ddpActor, 1, &models.CreateAssignmentRequest{
		VendorID: 1, JourneyStage: models.StageInstallation, JobRole: " transport ",
	})
	require.NoError(t, err)
	assert.Equal(t, "transport", a.JobRole)
	assert.Equal(t, models.AssignmentStatusAssigned, a.Status)

	_, err = svc.UpdateAssignmentStatus(ctx, ddpActor, 1, a.ID, models.AssignmentStatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition, "cannot skip in_progress")

	a, err = svc.UpdateAssignmentStatus(ctx, ddpActor, 1, a.ID, models.AssignmentStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusInProgress, a.Status)

	_, err = svc.UpdateAssignmentStatus(ctx, ddpActor, 1, a.ID, models.AssignmentStatusAssigned)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	grouped, err := svc.ListAssignments(ctx, ddpActor, 1)
	require.NoError(t, err)
	assert.Len(t, grouped[models.StageInstallation], 1)
	assert.Empty(t, grouped[models.StagePreInstallation])

	require.NoError(t, svc.DeleteAssignment(ctx, ddpActor, 1, a.ID))
	_, err = svc.UpdateAssignmentStatus(ctx, ddpActor, 1, a.ID, models.AssignmentStatusCompleted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAssignment_Rejects(t *testing.T) {
	svc, _ := newVendorFixture()
	ctx := context.Background()
	req := func(vendorID int) *models.CreateAssignmentRequest {
		return &models.CreateAssignmentRequest{VendorID: vendorID, JourneyStage: models.StageInstallation, JobRole: "transport"}
	}

	_, err := svc.CreateAssignment(ctx, ddpActor, 1, req(2))
	assert.ErrorIs(t, err, ErrValidation, "inactive vendor")

	_, err = svc.CreateAssignment(ctx, ddpActor, 1, req(42))
	assert.ErrorIs(t, err, ErrValidation, "unknown vendor")

	_, err = svc.CreateAssignment(ctx, otherDDP, 1, req(1))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreateAssignment(ctx, cpActor, 1, req(1))
	assert.ErrorIs(t, err, ErrForbidden)
}
