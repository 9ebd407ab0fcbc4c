package services

import (
	"context"
	"sync"
	"time"

	applog "suryaghar-backend/internal/logger"
	"suryaghar-backend/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier is how the other services tell a partner something happened.
// Delivery problems are never returned to the caller.
type Notifier interface {
	Notify(ctx context.Context, n *models.Notification)
}

type notificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForUser(ctx context.Context, userID int, unreadOnly bool, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID int, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID int) (int64, error)
	CountUnread(ctx context.Context, userID int) (int, error)
}

type Pusher interface {
	Push(userID int, payload any)
}

type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type Texter interface {
	SendSMS(ctx context.Context, phone, message string) error
}

type userGetter interface {
	Get(ctx context.Context, id int) (*models.User, error)
}

const notificationListLimit = 100

// deliveryTimeout bounds one email plus SMS send for a notification.
const deliveryTimeout = 15 * time.Second

type NotificationService struct {
	store  notificationStore
	users  userGetter
	hub    Pusher
	mailer Mailer
	texter Texter
	logger *zap.Logger

	pending sync.WaitGroup
}

// NewNotificationService wires the outbound channels. hub, mailer and
// texter may each be nil to switch that channel off.
func NewNotificationService(store notificationStore, users userGetter, hub Pusher, mailer Mailer, texter Texter, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		store:  store,
		users:  users,
		hub:    hub,
		mailer: mailer,
		texter: texter,
		logger: applog.OrNop(logger),
	}
}

// Notify stores n and pushes it to open sockets before returning. Email
// and SMS go out on a background goroutine whose context outlives the
// request but is capped at deliveryTimeout.
func (s *NotificationService) Notify(ctx context.Context, n *models.Notification) {
	if err := s.store.Create(ctx, n); err != nil {
		s.logger.Error("failed to store notification", zap.Int("user_id", n.UserID), zap.Error(err))
		return
	}

	if s.hub != nil {
		s.hub.Push(n.UserID, n)
	}

	if s.mailer == nil && s.texter == nil {
		return
	}
	userID, title, message := n.UserID, n.Title, n.Message
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryTimeout)
		defer cancel()
		s.deliver(sendCtx, userID, title, message)
	}()
}

func (s *NotificationService) deliver(ctx context.Context, userID int, title, message string) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		s.logger.Warn("notification recipient lookup failed", zap.Int("user_id", userID), zap.Error(err))
		return
	}
	if s.mailer != nil && user.Email != "" {
		if err := s.mailer.SendEmail(ctx, user.Email, title, message); err != nil {
			s.logger.Warn("notification email failed", zap.Int("user_id", userID), zap.Error(err))
		}
	}
	if s.texter != nil && user.Phone != "" {
		if err := s.texter.SendSMS(ctx, user.Phone, title+": "+message); err != nil {
			s.logger.Warn("notification sms failed", zap.Int("user_id", userID), zap.Error(err))
		}
	}
}

// Wait blocks until in-flight email and SMS sends finish.
func (s *NotificationService) Wait() {
	s.pending.Wait()
}

func (s *NotificationService) List(ctx context.Context, actor models.Actor, unreadOnly bool) ([]*models.Notification, error) {
	return s.store.ListForUser(ctx, actor.ID, unreadOnly, notificationListLimit)
}

func (s *NotificationService) MarkRead(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	return s.store.MarkRead(ctx, actor.ID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor models.Actor) (int64, error) {
	return s.store.MarkAllRead(ctx, actor.ID)
}

func (s *NotificationService) CountUnread(ctx context.Context, actor models.Actor) (int, error) {
	return s.store.CountUnread(ctx, actor.ID)
}

// notifySafe tolerates a nil Notifier so services can be built without one.
func notifySafe(ctx context.Context, n Notifier, userID int, kind models.NotificationType, title, message string, link *string) {
	if n == nil {
		return
	}
	n.Notify(ctx, &models.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
		Link:    link,
	})
}

func strPtr(s string) *string { return &s }
