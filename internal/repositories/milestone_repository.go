package repositories

import (
	"context"
	"errors"

	"suryaghar-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MilestoneRepository struct {
	DB *pgxpool.Pool
}

func NewMilestoneRepository(db *pgxpool.Pool) *MilestoneRepository {
	return &MilestoneRepository{DB: db}
}

const milestoneColumns = `id, customer_id, key, title, step_order, status, notes, completed_at, updated_at`

func scanMilestone(row rowScanner) (*models.Milestone, error) {
	var m models.Milestone
	err := row.Scan(&m.ID, &m.CustomerID, &m.Key, &m.Title, &m.StepOrder, &m.Status,
		&m.Notes, &m.CompletedAt, &m.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *MilestoneRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.Milestone, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+milestoneColumns+` FROM milestones WHERE customer_id=$1 ORDER BY step_order`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	milestones := []*models.Milestone{}
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

func (r *MilestoneRepository) Get(ctx context.Context, id int) (*models.Milestone, error) {
	return scanMilestone(r.DB.QueryRow(ctx, `SELECT `+milestoneColumns+` FROM milestones WHERE id=$1`, id))
}

// Complete marks a milestone completed and, when assignment is non-nil,
// records the vendor assignment in the same transaction. The UPDATE only
// matches a milestone that is not yet completed, so of two concurrent calls
// one wins and the other gets the current row back with completed=false and
// inserts nothing. If the assignment insert fails the milestone is left
// untouched.
func (r *MilestoneRepository) Complete(ctx context.Context, milestoneID int, notes *string, assignment *models.VendorAssignment) (*models.Milestone, bool, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	m, err := scanMilestone(tx.QueryRow(ctx,
		`UPDATE milestones
         SET status='completed', notes=COALESCE($1, notes), completed_at=NOW(), updated_at=NOW()
         WHERE id=$2 AND status <> 'completed'
         RETURNING `+milestoneColumns, notes, milestoneID))
	if errors.Is(err, ErrNotFound) {
		tx.Rollback(ctx)
		current, err := r.Get(ctx, milestoneID)
		return current, false, err
	}
	if err != nil {
		return nil, false, err
	}

	if assignment != nil {
		if err := insertAssignment(ctx, tx, assignment); err != nil {
			return nil, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return m, true, nil
}

// SetStatus moves a milestone between pending and in_progress. Completed
// milestones are not matched, so the caller sees ErrNotFound for them.
func (r *MilestoneRepository) SetStatus(ctx context.Context, milestoneID int, status models.MilestoneStatus) (*models.Milestone, error) {
	return scanMilestone(r.DB.QueryRow(ctx,
		`UPDATE milestones SET status=$1, updated_at=NOW()
         WHERE id=$2 AND status <> 'completed'
         RETURNING `+milestoneColumns, status, milestoneID))
}
