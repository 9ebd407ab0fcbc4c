package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotifyStatusChanged      NotificationType = "status_changed"
	NotifyMilestoneCompleted NotificationType = "milestone_completed"
	NotifyCommissionCreated  NotificationType = "commission_created"
	NotifyCommissionUpdated  NotificationType = "commission_updated"
	NotifyDocumentVerified   NotificationType = "document_verified"
	NotifyReferralUpdated    NotificationType = "referral_updated"
	NotifyGeneral            NotificationType = "general"
)

type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    int              `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Link      *string          `json:"link,omitempty"`
	IsRead    bool             `json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`
}
