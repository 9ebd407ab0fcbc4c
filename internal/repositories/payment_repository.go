package repositories

import (
	"context"

	"suryaghar-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

const paymentColumns = `id, order_id, razorpay_order_id, razorpay_payment_id, razorpay_signature, amount, currency,
	status, method, failure_reason, created_at, updated_at`

func scanPayment(row rowScanner) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.RazorpayOrderID, &p.RazorpayPaymentID, &p.RazorpaySignature,
		&p.Amount, &p.Currency, &p.Status, &p.Method, &p.FailureReason, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	if p.Status == "" {
		p.Status = models.PaymentCreated
	}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO payments(order_id, razorpay_order_id, amount, currency, status)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		p.OrderID, p.RazorpayOrderID, p.Amount, p.Currency, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return translate(err)
}

func (r *PaymentRepository) GetByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*models.Payment, error) {
	return scanPayment(r.DB.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE razorpay_order_id=$1`, razorpayOrderID))
}

func (r *PaymentRepository) ListByOrder(ctx context.Context, orderID int) ([]*models.Payment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE order_id=$1 ORDER BY created_at DESC, id DESC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkCaptured records a successful payment. Rows already captured are
// left alone so webhook redelivery is harmless.
func (r *PaymentRepository) MarkCaptured(ctx context.Context, razorpayOrderID, paymentID string, signature, method *string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE payments
         SET status='captured', razorpay_payment_id=$1, razorpay_signature=COALESCE($2, razorpay_signature),
             method=COALESCE($3, method), failure_reason=NULL, updated_at=NOW()
         WHERE razorpay_order_id=$4 AND status <> 'captured'`,
		paymentID, signature, method, razorpayOrderID)
	return translate(err)
}

// MarkFailed never downgrades a captured payment.
func (r *PaymentRepository) MarkFailed(ctx context.Context, razorpayOrderID string, paymentID *string, reason string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE payments
         SET status='failed', razorpay_payment_id=COALESCE($1, razorpay_payment_id), failure_reason=$2, updated_at=NOW()
         WHERE razorpay_order_id=$3 AND status <> 'captured'`,
		paymentID, reason, razorpayOrderID)
	return translate(err)
}
