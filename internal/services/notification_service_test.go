package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"suryaghar-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memNotifications struct {
	rows []*models.Notification
}

func (m *memNotifications) Create(_ context.Context, n *models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	m.rows = append(m.rows, n)
	return nil
}

func (m *memNotifications) ListForUser(_ context.Context, userID int, unreadOnly bool, limit int) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range m.rows {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotifications) MarkRead(_ context.Context, userID int, id uuid.UUID) error {
	for _, n := range m.rows {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return ErrNotFound
}

func (m *memNotifications) MarkAllRead(_ context.Context, userID int) (int64, error) {
	var changed int64
	for _, n := range m.rows {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			changed++
		}
	}
	return changed, nil
}

func (m *memNotifications) CountUnread(_ context.Context, userID int) (int, error) {
	count := 0
	for _, n := range m.rows {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

type recordingPusher struct{ users []int }

func (p *recordingPusher) Push(userID int, _ any) { p.users = append(p.users, userID) }

type recordingMailer struct {
	mu  sync.Mutex
	to  []string
	err error
}

func (m *recordingMailer) SendEmail(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.to = append(m.to, to)
	return m.err
}

// blockingMailer holds every send until release is closed.
type blockingMailer struct {
	release chan struct{}
	sent    chan error
}

func (m *blockingMailer) SendEmail(ctx context.Context, _, _, _ string) error {
	<-m.release
	if _, ok := ctx.Deadline(); !ok {
		m.sent <- errors.New("send context has no deadline")
		return nil
	}
	m.sent <- ctx.Err()
	return nil
}

func TestNotify_StoresPushesAndMails(t *testing.T) {
	store := &memNotifications{}
	hub := &recordingPusher{}
	mailer := &recordingMailer{err: errors.New("ses throttled")}
	svc := NewNotificationService(store, newFakeUsers(), hub, mailer, nil, nil)
	ctx := context.Background()

	notifySafe(ctx, svc, 3, models.NotifyGeneral, "Hello", "World", nil)
	svc.Wait()

	require.Len(t, store.rows, 1)
	assert.Equal(t, []int{3}, hub.users)
	assert.Equal(t, []string{"user3@example.com"}, mailer.to, "mail failures do not stop delivery")

	n, err := svc.CountUnread(ctx, ddpActor)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.ErrorIs(t, svc.MarkRead(ctx, otherDDP, store.rows[0].ID), ErrNotFound)
	require.NoError(t, svc.MarkRead(ctx, ddpActor, store.rows[0].ID))

	notifySafe(ctx, svc, 3, models.NotifyGeneral, "Again", "", nil)
	unread, err := svc.List(ctx, ddpActor, true)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	changed, err := svc.MarkAllRead(ctx, ddpActor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)
}

func TestNotifySafe_NilNotifier(t *testing.T) {
	assert.NotPanics(t, func() {
		notifySafe(context.Background(), nil, 1, models.NotifyGeneral, "t", "m", nil)
	})
}

func TestNotify_SlowMailerDoesNotBlockCaller(t *testing.T) {
	store := &memNotifications{}
	hub := &recordingPusher{}
	mailer := &blockingMailer{release: make(chan struct{}), sent: make(chan error, 1)}
	svc := NewNotificationService(store, newFakeUsers(), hub, mailer, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	returned := make(chan struct{})
	go func() {
		notifySafe(ctx, svc, 3, models.NotifyStatusChanged, "Installed", "Panels are up", nil)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify waited on the mailer")
	}
	require.Len(t, store.rows, 1)
	assert.Equal(t, []int{3}, hub.users)

	// The request finishing must not abort the send.
	cancel()
	close(mailer.release)
	svc.Wait()

	select {
	case err := <-mailer.sent:
		assert.NoError(t, err)
	default:
		t.Fatal("mailer was never called")
	}
}
