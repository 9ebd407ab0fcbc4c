package repositories

import (
	"context"

	"suryaghar-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type FeedbackRepository struct {
	DB *pgxpool.Pool
}

func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{DB: db}
}

const feedbackSelect = `SELECT f.id, f.user_id, u.name, f.subject, f.message, f.rating, f.status, f.admin_notes,
	f.created_at, f.updated_at
	FROM feedback f JOIN users u ON u.id = f.user_id`

func scanFeedback(row rowScanner) (*models.Feedback, error) {
	var f models.Feedback
	err := row.Scan(&f.ID, &f.UserID, &f.UserName, &f.Subject, &f.Message, &f.Rating, &f.Status,
		&f.AdminNotes, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (r *FeedbackRepository) Create(ctx context.Context, f *models.Feedback) error {
	if f.Status == "" {
		f.Status = models.FeedbackOpen
	}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO feedback(user_id, subject, message, rating, status)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		f.UserID, f.Subject, f.Message, f.Rating, f.Status,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	return translate(err)
}

func (r *FeedbackRepository) Get(ctx context.Context, id int) (*models.Feedback, error) {
	return scanFeedback(r.DB.QueryRow(ctx, feedbackSelect+` WHERE f.id=$1`, id))
}

// List returns all feedback, or one user's when userID is non-nil.
func (r *FeedbackRepository) List(ctx context.Context, userID *int) ([]*models.Feedback, error) {
	rows, err := r.DB.Query(ctx,
		feedbackSelect+` WHERE ($1::int IS NULL OR f.user_id = $1) ORDER BY f.created_at DESC, f.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Feedback{}
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FeedbackRepository) UpdateStatus(ctx context.Context, id int, status models.FeedbackStatus, notes *string) error {
	return affected(r.DB.Exec(ctx,
		`UPDATE feedback SET status=$1, admin_notes=COALESCE($2, admin_notes), updated_at=NOW() WHERE id=$3`,
		status, notes, id))
}

func (r *FeedbackRepository) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM feedback WHERE status <> 'resolved'`).Scan(&n)
	return n, err
}
