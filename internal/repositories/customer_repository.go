package repositories

import (
	"context"
	"errors"
	"fmt"

	"suryaghar-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	DB *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

const customerColumns = `id, name, phone, email, address, district, state, pincode, consumer_number,
	monthly_bill, proposed_capacity, panel_type, installation_type, owns_roof, status, lead_score,
	lead_tier, source, ddp_id, referrer_id, created_at, updated_at`

func scanCustomer(row rowScanner) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.District, &c.State,
		&c.Pincode, &c.ConsumerNumber, &c.MonthlyBill, &c.ProposedCapacity, &c.PanelType,
		&c.InstallationType, &c.OwnsRoof, &c.Status, &c.LeadScore, &c.LeadTier, &c.Source,
		&c.DDPID, &c.ReferrerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// Create inserts the customer and its milestone checklist in one
// transaction.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer, milestones []*models.Milestone) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO customers(name, phone, email, address, district, state, pincode, consumer_number,
             monthly_bill, proposed_capacity, panel_type, installation_type, owns_roof, status, source,
             ddp_id, referrer_id)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
         RETURNING id, created_at, updated_at`,
		c.Name, c.Phone, c.Email, c.Address, c.District, c.State, c.Pincode, c.ConsumerNumber,
		c.MonthlyBill, c.ProposedCapacity, c.PanelType, c.InstallationType, c.OwnsRoof, c.Status, c.Source,
		c.DDPID, c.ReferrerID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return translate(err)
	}

	for _, m := range milestones {
		m.CustomerID = c.ID
		err := tx.QueryRow(ctx,
			`INSERT INTO milestones(customer_id, key, title, step_order, status)
             VALUES($1, $2, $3, $4, $5)
             RETURNING id, updated_at`,
			m.CustomerID, m.Key, m.Title, m.StepOrder, m.Status,
		).Scan(&m.ID, &m.UpdatedAt)
		if err != nil {
			return fmt.Errorf("seed milestone %s: %w", m.Key, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *CustomerRepository) Get(ctx context.Context, id int) (*models.Customer, error) {
	return scanCustomer(r.DB.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id=$1`, id))
}

func (r *CustomerRepository) List(ctx context.Context, f models.CustomerFilter) ([]*models.Customer, error) {
	where, args := customerWhere(f)
	rows, err := r.DB.Query(ctx,
		`SELECT `+customerColumns+` FROM customers`+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// customerWhere renders the filter. A non-nil but empty DDPIDs matches
// nothing, which is what a BDP with no DDPs should see.
func customerWhere(f models.CustomerFilter) (string, []any) {
	where := " WHERE TRUE"
	args := []any{}
	if f.DDPIDs != nil {
		args = append(args, f.DDPIDs)
		where += fmt.Sprintf(" AND ddp_id = ANY($%d)", len(args))
	}
	if f.ReferrerID != nil {
		args = append(args, *f.ReferrerID)
		where += fmt.Sprintf(" AND referrer_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	return where, args
}

func (r *CustomerRepository) UpdateLeadScore(ctx context.Context, id, score int, tier string) error {
	return affected(r.DB.Exec(ctx,
		`UPDATE customers SET lead_score=$1, lead_tier=$2, updated_at=NOW() WHERE id=$3`, score, tier, id))
}

// TransitionStatus moves a customer from one status to the next. The update
// only applies while the row still has status from; otherwise ErrStaleStatus.
// Commission rows are inserted in the same transaction, skipping any that
// already exist, and the inserted ones are returned.
func (r *CustomerRepository) TransitionStatus(ctx context.Context, id int, from, to models.CustomerStatus, commissions []*models.Commission) (*models.Customer, []*models.Commission, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	c, err := scanCustomer(tx.QueryRow(ctx,
		`UPDATE customers SET status=$1, updated_at=NOW()
         WHERE id=$2 AND status=$3
         RETURNING `+customerColumns, to, id, from))
	if errors.Is(err, ErrNotFound) {
		return nil, nil, ErrStaleStatus
	}
	if err != nil {
		return nil, nil, err
	}

	created := make([]*models.Commission, 0, len(commissions))
	for _, cm := range commissions {
		inserted, err := insertCommission(ctx, tx, cm)
		if err != nil {
			return nil, nil, err
		}
		if inserted {
			created = append(created, cm)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return c, created, nil
}

// CountByStatus groups the filtered customers by status.
func (r *CustomerRepository) CountByStatus(ctx context.Context, f models.CustomerFilter) (map[models.CustomerStatus]int, error) {
	where, args := customerWhere(f)
	rows, err := r.DB.Query(ctx, `SELECT status, COUNT(*) FROM customers`+where+` GROUP BY status`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.CustomerStatus]int, len(models.CustomerStatusFlow))
	for _, s := range models.CustomerStatusFlow {
		counts[s] = 0
	}
	for rows.Next() {
		var s models.CustomerStatus
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[s] = n
	}
	return counts, rows.Err()
}
