package repositories

import (
	"context"

	"suryaghar-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, name, email, phone, password_hash, role, state, district, partner_code,
	parent_id, is_active, totp_enabled, totp_secret, created_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.State,
		&u.District, &u.PartnerCode, &u.ParentID, &u.IsActive, &u.TOTPEnabled, &u.TOTPSecret,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO users(name, email, phone, password_hash, role, state, district, partner_code, parent_id, is_active)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
         RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.State, u.District, u.PartnerCode, u.ParentID, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return translate(err)
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email)=lower($1)`, email))
}

// List returns partners, optionally narrowed to one role and/or parent.
func (r *UserRepository) List(ctx context.Context, role models.Role, parentID *int) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+userColumns+` FROM users
         WHERE ($1 = '' OR role = $1) AND ($2::int IS NULL OR parent_id = $2)
         ORDER BY name`, string(role), parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ChildIDs returns the ids of users whose parent is any of parentIDs.
func (r *UserRepository) ChildIDs(ctx context.Context, parentIDs ...int) ([]int, error) {
	if len(parentIDs) == 0 {
		return []int{}, nil
	}
	rows, err := r.DB.Query(ctx, `SELECT id FROM users WHERE parent_id = ANY($1) ORDER BY id`, parentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *UserRepository) SetActive(ctx context.Context, userID int, isActive bool) error {
	return affected(r.DB.Exec(ctx,
		`UPDATE users SET is_active=$1, updated_at=NOW() WHERE id=$2`, isActive, userID))
}

// SetTOTPSecret stores a pending secret; it is not enforced until EnableTOTP.
func (r *UserRepository) SetTOTPSecret(ctx context.Context, userID int, secret string) error {
	return affected(r.DB.Exec(ctx,
		`UPDATE users SET totp_secret=$1, totp_enabled=false, updated_at=NOW() WHERE id=$2`, secret, userID))
}

func (r *UserRepository) EnableTOTP(ctx context.Context, userID int) error {
	return affected(r.DB.Exec(ctx,
		`UPDATE users SET totp_enabled=true, updated_at=NOW() WHERE id=$1 AND totp_secret <> ''`, userID))
}

// CountByRole counts partners per role. When parentIDs is non-nil only
// their direct children are counted.
func (r *UserRepository) CountByRole(ctx context.Context, parentIDs []int) (map[models.Role]int, error) {
	query := `SELECT role, COUNT(*) FROM users`
	args := []any{}
	if parentIDs != nil {
		query += ` WHERE parent_id = ANY($1)`
		args = append(args, parentIDs)
	}
	rows, err := r.DB.Query(ctx, query+` GROUP BY role`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[models.Role]int{}
	for rows.Next() {
		var role models.Role
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		counts[role] = n
	}
	return counts, rows.Err()
}
