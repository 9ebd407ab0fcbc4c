package services

import (
	"context"
	"testing"

	"suryaghar-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFeedback struct {
	rows []*models.Feedback
}

func (m *memFeedback) Create(_ context.Context, f *models.Feedback) error {
	f.ID = len(m.rows) + 1
	m.rows = append(m.rows, f)
	return nil
}

func (m *memFeedback) Get(_ context.Context, id int) (*models.Feedback, error) {
	if id < 1 || id > len(m.rows) {
		return nil, ErrNotFound
	}
	return m.rows[id-1], nil
}

func (m *memFeedback) List(_ context.Context, userID *int) ([]*models.Feedback, error) {
	var out []*models.Feedback
	for _, f := range m.rows {
		if userID == nil || f.UserID == *userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memFeedback) UpdateStatus(_ context.Context, id int, status models.FeedbackStatus, notes *string) error {
	if id < 1 || id > len(m.rows) {
		return ErrNotFound
	}
	m.rows[id-1].Status = status
	m.rows[id-1].AdminNotes = notes
	return nil
}

func TestFeedback(t *testing.T) {
	store := &memFeedback{}
	svc := NewFeedbackService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, ddpActor, &models.CreateFeedbackRequest{Subject: "Slow uploads", Message: "Takes a minute", Rating: intPtr(6)})
	require.Error(t, err)

	f, err := svc.Create(ctx, ddpActor, &models.CreateFeedbackRequest{Subject: "Slow uploads", Message: "Takes a minute", Rating: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackOpen, f.Status)
	_, err = svc.Create(ctx, bdpActor, &models.CreateFeedbackRequest{Subject: "Hi", Message: "All good"})
	require.NoError(t, err)

	mine, err := svc.List(ctx, ddpActor)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	all, err := svc.List(ctx, adminActor)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.UpdateStatus(ctx, ddpActor, f.ID, &models.UpdateFeedbackStatusRequest{Status: models.FeedbackResolved})
	assert.ErrorIs(t, err, ErrForbidden)
	updated, err := svc.UpdateStatus(ctx, adminActor, f.ID, &models.UpdateFeedbackStatusRequest{Status: models.FeedbackResolved})
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackResolved, updated.Status)
}
