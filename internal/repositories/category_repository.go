package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"feiraja/internal/models"
)

type CategoryPatch struct {
	Name        *string
	Description *string
}

type CategoryRepository interface {
	List(ctx context.Context, withProductsOnly bool) ([]*models.Category, error)
	GetByID(ctx context.Context, id int) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, id int, patch CategoryPatch) (*models.Category, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

const categoryColumns = `id, name, description, created_at, updated_at,
	(SELECT COUNT(*) FROM products p WHERE p.category_id = categories.id)`

func scanCategory(row rowScanner) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt, &c.Count.Products); err != nil {
		return nil, err
	}
	return &c, nil
}

// List: витрине нужны только категории, в которых есть товары.
func (r *categoryRepository) List(ctx context.Context, withProductsOnly bool) ([]*models.Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories`
	if withProductsOnly {
		q += ` WHERE EXISTS (SELECT 1 FROM products p WHERE p.category_id = categories.id)`
	}
	q += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	res := make([]*models.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *categoryRepository) GetByID(ctx context.Context, id int) (*models.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *categoryRepository) Create(ctx context.Context, c *models.Category) error {
	const q = `
		INSERT INTO categories (name, description, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING ` + categoryColumns
	created, err := scanCategory(r.db.QueryRowContext(ctx, q, c.Name, c.Description))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create category: %w", err)
	}
	*c = *created
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, id int, patch CategoryPatch) (*models.Category, error) {
	const q = `
		UPDATE categories
		SET name = COALESCE($1, name),
			description = COALESCE($2, description),
			updated_at = NOW()
		WHERE id = $3
		RETURNING ` + categoryColumns
	c, err := scanCategory(r.db.QueryRowContext(ctx, q, patch.Name, patch.Description, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// Delete вернёт ErrForeignKey, если на категорию ещё ссылаются товары.
func (r *categoryRepository) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, ErrForeignKey
		}
		return false, fmt.Errorf("delete category: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
