package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"feiraja/internal/models"
)

// BoxPricePatch — частичное обновление, nil поля не трогаем.
type BoxPricePatch struct {
	Name      *string
	BasePrice *float64
	ItemCount *int
}

type BoxPriceRepository interface {
	List(ctx context.Context) ([]*models.BoxPrice, error)
	GetByID(ctx context.Context, id int) (*models.BoxPrice, error)
	Create(ctx context.Context, bp *models.BoxPrice) error
	Update(ctx context.Context, id int, patch BoxPricePatch) (*models.BoxPrice, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type boxPriceRepository struct {
	db *sql.DB
}

func NewBoxPriceRepository(db *sql.DB) BoxPriceRepository {
	return &boxPriceRepository{db: db}
}

const boxPriceColumns = `id, profile_type, name, base_price, item_count, created_at, updated_at`

func scanBoxPrice(row rowScanner) (*models.BoxPrice, error) {
	var bp models.BoxPrice
	if err := row.Scan(&bp.ID, &bp.ProfileType, &bp.Name, &bp.BasePrice, &bp.ItemCount, &bp.CreatedAt, &bp.UpdatedAt); err != nil {
		return nil, err
	}
	return &bp, nil
}

func (r *boxPriceRepository) List(ctx context.Context) ([]*models.BoxPrice, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+boxPriceColumns+` FROM box_prices ORDER BY profile_type ASC`)
	if err != nil {
		return nil, fmt.Errorf("list box prices: %w", err)
	}
	defer rows.Close()

	res := make([]*models.BoxPrice, 0)
	for rows.Next() {
		bp, err := scanBoxPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan box price: %w", err)
		}
		res = append(res, bp)
	}
	return res, rows.Err()
}

func (r *boxPriceRepository) GetByID(ctx context.Context, id int) (*models.BoxPrice, error) {
	bp, err := scanBoxPrice(r.db.QueryRowContext(ctx, `SELECT `+boxPriceColumns+` FROM box_prices WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get box price: %w", err)
	}
	return bp, nil
}

func (r *boxPriceRepository) Create(ctx context.Context, bp *models.BoxPrice) error {
	const q = `
		INSERT INTO box_prices (profile_type, name, base_price, item_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + boxPriceColumns
	created, err := scanBoxPrice(r.db.QueryRowContext(ctx, q, bp.ProfileType, bp.Name, bp.BasePrice, bp.ItemCount))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create box price: %w", err)
	}
	*bp = *created
	return nil
}

func (r *boxPriceRepository) Update(ctx context.Context, id int, patch BoxPricePatch) (*models.BoxPrice, error) {
	const q = `
		UPDATE box_prices
		SET name = COALESCE($1, name),
			base_price = COALESCE($2, base_price),
			item_count = COALESCE($3, item_count),
			updated_at = NOW()
		WHERE id = $4
		RETURNING ` + boxPriceColumns
	bp, err := scanBoxPrice(r.db.QueryRowContext(ctx, q, patch.Name, patch.BasePrice, patch.ItemCount, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("update box price: %w", err)
	}
	return bp, nil
}

func (r *boxPriceRepository) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM box_prices WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete box price: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
