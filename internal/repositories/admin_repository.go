package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"feiraja/internal/models"
)

type AdminPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
}

type AdminRepository interface {
	GetByLogin(ctx context.Context, login string) (*models.Admin, error)
	GetByID(ctx context.Context, id int) (*models.Admin, error)
	List(ctx context.Context) ([]*models.Admin, error)
	Create(ctx context.Context, a *models.Admin) error
	Update(ctx context.Context, id int, patch AdminPatch) (*models.Admin, error)
	Delete(ctx context.Context, id int) (bool, error)
	Upsert(ctx context.Context, a *models.Admin) error
}

type adminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) AdminRepository {
	return &adminRepository{db: db}
}

const adminColumns = `id, username, email, password_hash, created_at`

func scanAdmin(row rowScanner) (*models.Admin, error) {
	var a models.Admin
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByLogin — логин это username или email.
func (r *adminRepository) GetByLogin(ctx context.Context, login string) (*models.Admin, error) {
	const q = `
		SELECT ` + adminColumns + `
		FROM admins
		WHERE username = $1 OR email = $1
		LIMIT 1
	`
	a, err := scanAdmin(r.db.QueryRowContext(ctx, q, login))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return a, nil
}

func (r *adminRepository) GetByID(ctx context.Context, id int) (*models.Admin, error) {
	a, err := scanAdmin(r.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin by id: %w", err)
	}
	return a, nil
}

func (r *adminRepository) List(ctx context.Context) ([]*models.Admin, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+adminColumns+` FROM admins ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	res := make([]*models.Admin, 0)
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r *adminRepository) Create(ctx context.Context, a *models.Admin) error {
	const q = `
		INSERT INTO admins (username, email, password_hash, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	if err := r.db.QueryRowContext(ctx, q, a.Username, a.Email, a.PasswordHash).Scan(&a.ID, &a.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

func (r *adminRepository) Update(ctx context.Context, id int, patch AdminPatch) (*models.Admin, error) {
	const q = `
		UPDATE admins
		SET username = COALESCE($1, username),
			email = COALESCE($2, email),
			password_hash = COALESCE($3, password_hash)
		WHERE id = $4
		RETURNING ` + adminColumns
	a, err := scanAdmin(r.db.QueryRowContext(ctx, q, patch.Username, patch.Email, patch.PasswordHash, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("update admin: %w", err)
	}
	return a, nil
}

func (r *adminRepository) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete admin: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Upsert используется cmd/seed-admin.
func (r *adminRepository) Upsert(ctx context.Context, a *models.Admin) error {
	const q = `
		INSERT INTO admins (username, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET email = EXCLUDED.email, password_hash = EXCLUDED.password_hash
		RETURNING id, created_at
	`
	if err := r.db.QueryRowContext(ctx, q, a.Username, a.Email, a.PasswordHash).Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("upsert admin: %w", err)
	}
	return nil
}
