package repositories

import (
	"context"

	"suryaghar-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReferralRepository struct {
	DB *pgxpool.Pool
}

func NewReferralRepository(db *pgxpool.Pool) *ReferralRepository {
	return &ReferralRepository{DB: db}
}

const referralColumns = `id, referrer_id, name, phone, state, district, notes, status, customer_id, created_at, updated_at`

func scanReferral(row rowScanner) (*models.Referral, error) {
	var rf models.Referral
	err := row.Scan(&rf.ID, &rf.ReferrerID, &rf.Name, &rf.Phone, &rf.State, &rf.District, &rf.Notes,
		&rf.Status, &rf.CustomerID, &rf.CreatedAt, &rf.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &rf, nil
}

func (r *ReferralRepository) Create(ctx context.Context, rf *models.Referral) error {
	if rf.Status == "" {
		rf.Status = models.ReferralPending
	}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO referrals(referrer_id, name, phone, state, district, notes, status)
         VALUES($1, $2, $3, $4, $5, $6, $7)
         RETURNING id, created_at, updated_at`,
		rf.ReferrerID, rf.Name, rf.Phone, rf.State, rf.District, rf.Notes, rf.Status,
	).Scan(&rf.ID, &rf.CreatedAt, &rf.UpdatedAt)
	return translate(err)
}

func (r *ReferralRepository) Get(ctx context.Context, id int) (*models.Referral, error) {
	return scanReferral(r.DB.QueryRow(ctx, `SELECT `+referralColumns+` FROM referrals WHERE id=$1`, id))
}

// List returns referrals made by any of referrerIDs. A nil slice means all
// referrals; an empty one matches nothing.
func (r *ReferralRepository) List(ctx context.Context, referrerIDs []int) ([]*models.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals`
	args := []any{}
	if referrerIDs != nil {
		query += ` WHERE referrer_id = ANY($1)`
		args = append(args, referrerIDs)
	}
	rows, err := r.DB.Query(ctx, query+` ORDER BY created_at DESC, id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Referral{}
	for rows.Next() {
		rf, err := scanReferral(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rf)
	}
	return out, rows.Err()
}

func (r *ReferralRepository) UpdateStatus(ctx context.Context, id int, status models.ReferralStatus, customerID *int) (*models.Referral, error) {
	return scanReferral(r.DB.QueryRow(ctx,
		`UPDATE referrals SET status=$1, customer_id=COALESCE($2, customer_id), updated_at=NOW()
         WHERE id=$3
         RETURNING `+referralColumns, status, customerID, id))
}

// CountByStatus groups the referrals of referrerIDs (nil for all).
func (r *ReferralRepository) CountByStatus(ctx context.Context, referrerIDs []int) (map[models.ReferralStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM referrals`
	args := []any{}
	if referrerIDs != nil {
		query += ` WHERE referrer_id = ANY($1)`
		args = append(args, referrerIDs)
	}
	rows, err := r.DB.Query(ctx, query+` GROUP BY status`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[models.ReferralStatus]int{}
	for rows.Next() {
		var s models.ReferralStatus
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[s] = n
	}
	return counts, rows.Err()
}
