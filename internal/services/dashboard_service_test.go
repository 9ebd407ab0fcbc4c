package services

import (
	"context"
	"testing"

	"suryaghar-backend/internal/cache"
	"suryaghar-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countStub int

func (c countStub) CountOpen(context.Context) (int, error)       { return int(c), nil }
func (c countStub) CountUnverified(context.Context) (int, error) { return int(c), nil }

type unreadStub struct{ n int }

func (u *unreadStub) CountUnread(context.Context, int) (int, error) { return u.n, nil }

func newDashboardFixture() (*DashboardService, *fakeCustomers, *unreadStub) {
	customers := newFakeCustomers()
	customers.put(&models.Customer{DDPID: 3, Status: models.CustomerStatusPending})
	customers.put(&models.Customer{DDPID: 3, Status: models.CustomerStatusCompleted})
	customers.put(&models.Customer{DDPID: 5, Status: models.CustomerStatusPending})

	referrals := newFakeReferrals()
	referrals.Create(context.Background(), &models.Referral{ReferrerID: 4})

	unread := &unreadStub{n: 2}
	svc := NewDashboardService(customers, &fakeCommissions{byID: map[int]*models.Commission{}},
		newFakeUsers(), referrals, countStub(1), countStub(4), unread)
	return svc, customers, unread
}

func TestDashboard_PerRole(t *testing.T) {
	svc, _, _ := newDashboardFixture()
	ctx := context.Background()

	admin, err := svc.Get(ctx, adminActor)
	require.NoError(t, err)
	assert.Equal(t, 3, admin.TotalCustomers)
	assert.Equal(t, 2, admin.CustomersByStatus[models.CustomerStatusPending])
	assert.Equal(t, 1, admin.OpenFeedback)
	assert.Equal(t, 4, admin.PendingDocuments)
	assert.Equal(t, 2, admin.PartnerCounts[models.RoleDDP])
	assert.Equal(t, 2, admin.UnreadAlerts)

	ddp, err := svc.Get(ctx, ddpActor)
	require.NoError(t, err)
	assert.Equal(t, 2, ddp.TotalCustomers)
	assert.Zero(t, ddp.OpenFeedback)
	assert.Equal(t, 1, ddp.PartnerCounts[models.RoleCustomerPartner])
	assert.Equal(t, 1, ddp.ReferralsByStatus[models.ReferralPending])

	bdp, err := svc.Get(ctx, bdpActor)
	require.NoError(t, err)
	assert.Equal(t, 2, bdp.TotalCustomers)
	assert.Equal(t, 1, bdp.PartnerCounts[models.RoleDDP])
}

func TestDashboard_CachedButUnreadFresh(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		cache.Close()
		cache.SetClient(nil)
		mr.Close()
	})

	svc, customers, unread := newDashboardFixture()
	ctx := context.Background()

	first, err := svc.Get(ctx, ddpActor)
	require.NoError(t, err)
	assert.Equal(t, 2, first.TotalCustomers)

	customers.put(&models.Customer{DDPID: 3, Status: models.CustomerStatusPending})
	unread.n = 7

	second, err := svc.Get(ctx, ddpActor)
	require.NoError(t, err)
	assert.Equal(t, 2, second.TotalCustomers, "served from cache")
	assert.Equal(t, 7, second.UnreadAlerts)

	cache.InvalidateDashboards(ctx)
	third, err := svc.Get(ctx, ddpActor)
	require.NoError(t, err)
	assert.Equal(t, 3, third.TotalCustomers)
}
