package models

import "time"

type FeedbackStatus string

const (
	FeedbackOpen     FeedbackStatus = "open"
	FeedbackInReview FeedbackStatus = "in_review"
	FeedbackResolved FeedbackStatus = "resolved"
)

type Feedback struct {
	ID         int            `json:"id"`
	UserID     int            `json:"userId"`
	UserName   string         `json:"userName,omitempty"`
	Subject    string         `json:"subject"`
	Message    string         `json:"message"`
	Rating     *int           `json:"rating,omitempty"`
	Status     FeedbackStatus `json:"status"`
	AdminNotes *string        `json:"adminNotes,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

type CreateFeedbackRequest struct {
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
	Rating  *int   `json:"rating" validate:"omitempty,min=1,max=5"`
}

type UpdateFeedbackStatusRequest struct {
	Status     FeedbackStatus `json:"status" validate:"required,oneof=open in_review resolved"`
	AdminNotes *string        `json:"adminNotes" validate:"omitempty,max=2000"`
}
