package repositories

import (
	"context"
	"fmt"

	"suryaghar-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type VendorRepository struct {
	DB *pgxpool.Pool
}

func NewVendorRepository(db *pgxpool.Pool) *VendorRepository {
	return &VendorRepository{DB: db}
}

// VendorFilter narrows vendor lists. Zero values mean "any".
type VendorFilter struct {
	VendorType models.VendorType
	State      string
	ActiveOnly bool
}

const vendorColumns = `id, name, vendor_type, vendor_code, phone, email, state, district, is_active, created_at, updated_at`

func scanVendor(row rowScanner) (*models.Vendor, error) {
	var v models.Vendor
	err := row.Scan(&v.ID, &v.Name, &v.VendorType, &v.VendorCode, &v.Phone, &v.Email, &v.State,
		&v.District, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *VendorRepository) Create(ctx context.Context, v *models.Vendor) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO vendors(name, vendor_type, vendor_code, phone, email, state, district, is_active)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8)
         RETURNING id, created_at, updated_at`,
		v.Name, v.VendorType, v.VendorCode, v.Phone, v.Email, v.State, v.District, v.IsActive,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	return translate(err)
}

func (r *VendorRepository) Get(ctx context.Context, id int) (*models.Vendor, error) {
	return scanVendor(r.DB.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id=$1`, id))
}

func (r *VendorRepository) List(ctx context.Context, f VendorFilter) ([]*models.Vendor, error) {
	where := " WHERE TRUE"
	args := []any{}
	if f.VendorType != "" {
		args = append(args, f.VendorType)
		where += fmt.Sprintf(" AND vendor_type = $%d", len(args))
	}
	if f.State != "" {
		args = append(args, f.State)
		where += fmt.Sprintf(" AND lower(state) = lower($%d)", len(args))
	}
	if f.ActiveOnly {
		where += " AND is_active"
	}

	rows, err := r.DB.Query(ctx, `SELECT `+vendorColumns+` FROM vendors`+where+` ORDER BY name, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vendors := []*models.Vendor{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

func (r *VendorRepository) Update(ctx context.Context, v *models.Vendor) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE vendors SET name=$1, vendor_type=$2, vendor_code=$3, phone=$4, email=$5, state=$6,
             district=$7, is_active=$8, updated_at=NOW()
         WHERE id=$9
         RETURNING created_at, updated_at`,
		v.Name, v.VendorType, v.VendorCode, v.Phone, v.Email, v.State, v.District, v.IsActive, v.ID,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	return translate(err)
}

// Delete removes a vendor. Vendors with assignments are referenced by
// foreign key and yield ErrConflict; deactivate those instead.
func (r *VendorRepository) Delete(ctx context.Context, id int) error {
	return affected(r.DB.Exec(ctx, `DELETE FROM vendors WHERE id=$1`, id))
}
