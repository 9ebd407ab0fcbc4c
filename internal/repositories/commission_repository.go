package repositories

import (
	"context"
	"errors"
	"fmt"

	"suryaghar-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type CommissionRepository struct {
	DB *pgxpool.Pool
}

func NewCommissionRepository(db *pgxpool.Pool) *CommissionRepository {
	return &CommissionRepository{DB: db}
}

const commissionSelect = `SELECT cm.id, cm.partner_id, u.name, u.role, cm.customer_id, c.name, cm.capacity_kw,
	cm.panel_type, cm.commission_amount, cm.status, cm.payment_reference, cm.paid_at, cm.created_at, cm.updated_at
	FROM commissions cm
	JOIN users u ON u.id = cm.partner_id
	JOIN customers c ON c.id = cm.customer_id`

func scanCommission(row rowScanner) (*models.Commission, error) {
	var cm models.Commission
	err := row.Scan(&cm.ID, &cm.PartnerID, &cm.PartnerName, &cm.PartnerRole, &cm.CustomerID, &cm.CustomerName,
		&cm.CapacityKw, &cm.PanelType, &cm.CommissionAmount, &cm.Status, &cm.PaymentReference, &cm.PaidAt,
		&cm.CreatedAt, &cm.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &cm, nil
}

// insertCommission adds one commission row. A row for the same customer
// and partner already existing is not an error; inserted reports false.
func insertCommission(ctx context.Context, q querier, cm *models.Commission) (bool, error) {
	if cm.Status == "" {
		cm.Status = models.CommissionStatusPending
	}
	err := q.QueryRow(ctx,
		`INSERT INTO commissions(partner_id, customer_id, capacity_kw, panel_type, commission_amount, status)
         VALUES($1, $2, $3, $4, $5, $6)
         ON CONFLICT (customer_id, partner_id) DO NOTHING
         RETURNING id, created_at, updated_at`,
		cm.PartnerID, cm.CustomerID, cm.CapacityKw, cm.PanelType, cm.CommissionAmount, cm.Status,
	).Scan(&cm.ID, &cm.CreatedAt, &cm.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, translate(err)
	}
	return true, nil
}

func commissionWhere(f models.CommissionFilter) (string, []any) {
	where := " WHERE TRUE"
	args := []any{}
	if f.PartnerID != nil {
		args = append(args, *f.PartnerID)
		where += fmt.Sprintf(" AND cm.partner_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND cm.status = $%d", len(args))
	}
	return where, args
}

func (r *CommissionRepository) List(ctx context.Context, f models.CommissionFilter) ([]*models.Commission, error) {
	where, args := commissionWhere(f)
	rows, err := r.DB.Query(ctx, commissionSelect+where+` ORDER BY cm.created_at DESC, cm.id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Commission{}
	for rows.Next() {
		cm, err := scanCommission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cm)
	}
	return out, rows.Err()
}

func (r *CommissionRepository) Get(ctx context.Context, id int) (*models.Commission, error) {
	return scanCommission(r.DB.QueryRow(ctx, commissionSelect+` WHERE cm.id=$1`, id))
}

// UpdateStatus moves a commission from one status to another if it still
// has status from. Moving to paid stamps paid_at.
func (r *CommissionRepository) UpdateStatus(ctx context.Context, id int, from, to models.CommissionStatus, paymentRef *string) error {
	err := affected(r.DB.Exec(ctx,
		`UPDATE commissions
         SET status=$1,
             payment_reference=COALESCE($2, payment_reference),
             paid_at=CASE WHEN $1='paid' THEN NOW() ELSE paid_at END,
             updated_at=NOW()
         WHERE id=$3 AND status=$4`, to, paymentRef, id, from))
	if errors.Is(err, ErrNotFound) {
		return ErrConflict
	}
	return err
}

// Summary totals amounts by status for one partner, or for everyone when
// partnerID is nil.
func (r *CommissionRepository) Summary(ctx context.Context, partnerID *int) (models.CommissionSummary, error) {
	where, args := commissionWhere(models.CommissionFilter{PartnerID: partnerID})
	rows, err := r.DB.Query(ctx,
		`SELECT cm.status, COALESCE(SUM(cm.commission_amount), 0), COUNT(*) FROM commissions cm`+where+
			` GROUP BY cm.status`, args...)
	if err != nil {
		return models.CommissionSummary{}, err
	}
	defer rows.Close()

	var s models.CommissionSummary
	for rows.Next() {
		var status models.CommissionStatus
		var total decimal.Decimal
		var n int
		if err := rows.Scan(&status, &total, &n); err != nil {
			return models.CommissionSummary{}, err
		}
		switch status {
		case models.CommissionStatusPending:
			s.Pending = total
		case models.CommissionStatusApproved:
			s.Approved = total
		case models.CommissionStatusPaid:
			s.Paid = total
		}
		s.Count += n
	}
	return s, rows.Err()
}
