package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"feiraja/internal/models"
)

type AddressRepository interface {
	ListByUser(ctx context.Context, userID int) ([]*models.Address, error)
	ListAll(ctx context.Context) ([]*models.Address, error)
	GetByID(ctx context.Context, id int) (*models.Address, error)
	Create(ctx context.Context, in models.AddressInput) (*models.Address, error)
}

type addressRepository struct {
	db *sql.DB
}

func NewAddressRepository(db *sql.DB) AddressRepository {
	return &addressRepository{db: db}
}

const addressColumns = `id, user_id, name, street, neighborhood, city, state, zip_code, complement, reference, is_default, created_at`

func scanAddress(row rowScanner) (*models.Address, error) {
	var a models.Address
	if err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Street, &a.Neighborhood, &a.City, &a.State,
		&a.ZipCode, &a.Complement, &a.Reference, &a.IsDefault, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *addressRepository) list(ctx context.Context, q string, args ...any) ([]*models.Address, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	res := make([]*models.Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r *addressRepository) ListByUser(ctx context.Context, userID int) ([]*models.Address, error) {
	return r.list(ctx, `SELECT `+addressColumns+` FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC`, userID)
}

func (r *addressRepository) ListAll(ctx context.Context) ([]*models.Address, error) {
	return r.list(ctx, `SELECT `+addressColumns+` FROM addresses ORDER BY is_default DESC, created_at DESC`)
}

func (r *addressRepository) GetByID(ctx context.Context, id int) (*models.Address, error) {
	a, err := scanAddress(r.db.QueryRowContext(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get address: %w", err)
	}
	return a, nil
}

// Create — если адрес по умолчанию, остальные адреса пользователя сбрасываются в той же транзакции.
func (r *addressRepository) Create(ctx context.Context, in models.AddressInput) (*models.Address, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if in.IsDefault {
		if _, err := tx.ExecContext(ctx, `UPDATE addresses SET is_default = FALSE WHERE user_id = $1`, in.UserID); err != nil {
			return nil, fmt.Errorf("reset default address: %w", err)
		}
	}

	const q = `
		INSERT INTO addresses (user_id, name, street, neighborhood, city, state, zip_code, complement, reference, is_default, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW())
		RETURNING ` + addressColumns
	a, err := scanAddress(tx.QueryRowContext(ctx, q,
		in.UserID, in.Name, in.Street, in.Neighborhood, in.City, in.State, in.ZipCode, in.Complement, in.Reference, in.IsDefault))
	if err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return a, nil
}
