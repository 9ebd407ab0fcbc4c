package repositories

import (
	"context"

	"suryaghar-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DocumentRepository struct {
	DB *pgxpool.Pool
}

func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

const documentColumns = `id, customer_id, partner_id, category, description, file_name, content_type, size_bytes,
	object_key, is_verified, verified_by, verified_at, expires_at, uploaded_by, created_at`

func scanDocument(row rowScanner) (*models.Document, error) {
	var d models.Document
	err := row.Scan(&d.ID, &d.CustomerID, &d.PartnerID, &d.Category, &d.Description, &d.FileName,
		&d.ContentType, &d.SizeBytes, &d.ObjectKey, &d.IsVerified, &d.VerifiedBy, &d.VerifiedAt,
		&d.ExpiresAt, &d.UploadedBy, &d.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *DocumentRepository) Create(ctx context.Context, d *models.Document) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO documents(customer_id, partner_id, category, description, file_name, content_type,
             size_bytes, object_key, expires_at, uploaded_by)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
         RETURNING id, created_at`,
		d.CustomerID, d.PartnerID, d.Category, d.Description, d.FileName, d.ContentType,
		d.SizeBytes, d.ObjectKey, d.ExpiresAt, d.UploadedBy,
	).Scan(&d.ID, &d.CreatedAt)
	return translate(err)
}

func (r *DocumentRepository) Get(ctx context.Context, id int) (*models.Document, error) {
	return scanDocument(r.DB.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id=$1`, id))
}

func (r *DocumentRepository) list(ctx context.Context, where string, arg any) ([]*models.Document, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE `+where+` ORDER BY created_at DESC, id DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []*models.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *DocumentRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.Document, error) {
	return r.list(ctx, "customer_id=$1", customerID)
}

func (r *DocumentRepository) ListByPartner(ctx context.Context, partnerID int) ([]*models.Document, error) {
	return r.list(ctx, "partner_id=$1", partnerID)
}

func (r *DocumentRepository) Verify(ctx context.Context, id, verifiedBy int) (*models.Document, error) {
	return scanDocument(r.DB.QueryRow(ctx,
		`UPDATE documents SET is_verified=TRUE, verified_by=$1, verified_at=NOW()
         WHERE id=$2
         RETURNING `+documentColumns, verifiedBy, id))
}

func (r *DocumentRepository) Delete(ctx context.Context, id int) error {
	return affected(r.DB.Exec(ctx, `DELETE FROM documents WHERE id=$1`, id))
}

// CountUnverified counts documents still waiting for an admin.
func (r *DocumentRepository) CountUnverified(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM documents WHERE NOT is_verified`).Scan(&n)
	return n, err
}
