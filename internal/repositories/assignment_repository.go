package repositories

import (
	"context"

	"suryaghar-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AssignmentRepository struct {
	DB *pgxpool.Pool
}

func NewAssignmentRepository(db *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

const assignmentSelect = `SELECT a.id, a.customer_id, a.vendor_id, v.name, v.vendor_type, a.journey_stage,
	a.job_role, a.status, a.notes, a.assigned_at, a.completed_at
	FROM vendor_assignments a JOIN vendors v ON v.id = a.vendor_id`

func scanAssignment(row rowScanner) (*models.VendorAssignment, error) {
	var a models.VendorAssignment
	err := row.Scan(&a.ID, &a.CustomerID, &a.VendorID, &a.VendorName, &a.VendorType, &a.JourneyStage,
		&a.JobRole, &a.Status, &a.Notes, &a.AssignedAt, &a.CompletedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func insertAssignment(ctx context.Context, q querier, a *models.VendorAssignment) error {
	if a.Status == "" {
		a.Status = models.AssignmentStatusAssigned
	}
	err := q.QueryRow(ctx,
		`INSERT INTO vendor_assignments(customer_id, vendor_id, journey_stage, job_role, status, notes)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, assigned_at`,
		a.CustomerID, a.VendorID, a.JourneyStage, a.JobRole, a.Status, a.Notes,
	).Scan(&a.ID, &a.AssignedAt)
	return translate(err)
}

func (r *AssignmentRepository) Create(ctx context.Context, a *models.VendorAssignment) error {
	return insertAssignment(ctx, r.DB, a)
}

func (r *AssignmentRepository) Get(ctx context.Context, id int) (*models.VendorAssignment, error) {
	return scanAssignment(r.DB.QueryRow(ctx, assignmentSelect+` WHERE a.id=$1`, id))
}

func (r *AssignmentRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.VendorAssignment, error) {
	rows, err := r.DB.Query(ctx, assignmentSelect+` WHERE a.customer_id=$1 ORDER BY a.assigned_at, a.id`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.VendorAssignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AssignmentRepository) Delete(ctx context.Context, id int) error {
	return affected(r.DB.Exec(ctx, `DELETE FROM vendor_assignments WHERE id=$1`, id))
}

// UpdateStatus applies from -> to only if the row is still at from.
// Reaching completed stamps completed_at.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id int, from, to models.AssignmentStatus) error {
	err := affected(r.DB.Exec(ctx,
		`UPDATE vendor_assignments
         SET status=$1, completed_at=CASE WHEN $1='completed' THEN NOW() ELSE completed_at END
         WHERE id=$2 AND status=$3`, to, id, from))
	if err == ErrNotFound {
		return ErrConflict
	}
	return err
}
