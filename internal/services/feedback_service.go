package services

import (
	"context"

	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/validation"
)

type feedbackStore interface {
	Create(ctx context.Context, f *models.Feedback) error
	Get(ctx context.Context, id int) (*models.Feedback, error)
	List(ctx context.Context, userID *int) ([]*models.Feedback, error)
	UpdateStatus(ctx context.Context, id int, status models.FeedbackStatus, notes *string) error
}

type FeedbackService struct {
	feedback feedbackStore
}

func NewFeedbackService(feedback feedbackStore) *FeedbackService {
	return &FeedbackService{feedback: feedback}
}

func (s *FeedbackService) Create(ctx context.Context, actor models.Actor, req *models.CreateFeedbackRequest) (*models.Feedback, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	f := &models.Feedback{
		UserID:  actor.ID,
		Subject: req.Subject,
		Message: req.Message,
		Rating:  req.Rating,
		Status:  models.FeedbackOpen,
	}
	if err := s.feedback.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// List returns all feedback to admins and a partner's own otherwise.
func (s *FeedbackService) List(ctx context.Context, actor models.Actor) ([]*models.Feedback, error) {
	if actor.IsAdmin() {
		return s.feedback.List(ctx, nil)
	}
	id := actor.ID
	return s.feedback.List(ctx, &id)
}

func (s *FeedbackService) UpdateStatus(ctx context.Context, actor models.Actor, id int, req *models.UpdateFeedbackStatusRequest) (*models.Feedback, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := s.feedback.UpdateStatus(ctx, id, req.Status, req.AdminNotes); err != nil {
		return nil, err
	}
	return s.feedback.Get(ctx, id)
}
