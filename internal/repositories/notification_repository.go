package repositories

import (
	"context"

	"suryaghar-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	DB *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO notifications(id, user_id, type, title, message, link)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING created_at`,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.Link,
	).Scan(&n.CreatedAt)
	return translate(err)
}

// ListForUser returns the newest notifications first, at most limit rows.
func (r *NotificationRepository) ListForUser(ctx context.Context, userID int, unreadOnly bool, limit int) ([]*models.Notification, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, user_id, type, title, message, link, is_read, created_at
         FROM notifications
         WHERE user_id=$1 AND (NOT $2 OR NOT is_read)
         ORDER BY created_at DESC
         LIMIT $3`, userID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

// MarkRead only touches rows owned by userID.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID int, id uuid.UUID) error {
	return affected(r.DB.Exec(ctx, `UPDATE notifications SET is_read=TRUE WHERE id=$1 AND user_id=$2`, id, userID))
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int) (int64, error) {
	tag, err := r.DB.Exec(ctx, `UPDATE notifications SET is_read=TRUE WHERE user_id=$1 AND NOT is_read`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND NOT is_read`, userID).Scan(&n)
	return n, err
}
