package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"feiraja/internal/models"
)

type ProductFilter struct {
	CategoryID   *int
	CategoryName string
	Search       string
	InStock      *bool
	Limit        int
	Offset       int
}

// ProductPatch — nil поля не трогаем; Origin/NutritionalInfo апсертятся, если не пустые.
type ProductPatch struct {
	Name            *string
	Description     *string
	Price           *float64
	CategoryID      *int
	InStock         *bool
	Image           *string
	Origin          *models.ProductOrigin
	NutritionalInfo *models.NutritionalInfo
}

type ProductRepository interface {
	List(ctx context.Context, f ProductFilter) ([]*models.Product, int, error)
	GetByID(ctx context.Context, id int) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, id int, patch ProductPatch) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productSelect = `
	SELECT p.id, p.name, p.description, p.price, p.category_id, c.name, p.image, p.in_stock, p.created_at, p.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id
`

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		p     models.Product
		image sql.NullString
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID, &p.Category, &image,
		&p.InStock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Image = nullString(image)
	return &p, nil
}

func productWhere(f ProductFilter) (string, []any) {
	where := []string{"1=1"}
	args := []any{}
	i := 1
	if f.CategoryID != nil {
		where = append(where, fmt.Sprintf("p.category_id = $%d", i))
		args = append(args, *f.CategoryID)
		i++
	} else if name := strings.TrimSpace(f.CategoryName); name != "" {
		where = append(where, fmt.Sprintf("LOWER(c.name) = LOWER($%d)", i))
		args = append(args, name)
		i++
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", i, i))
		args = append(args, "%"+s+"%")
		i++
	}
	if f.InStock != nil {
		where = append(where, fmt.Sprintf("p.in_stock = $%d", i))
		args = append(args, *f.InStock)
	}
	return strings.Join(where, " AND "), args
}

func (r *productRepository) List(ctx context.Context, f ProductFilter) ([]*models.Product, int, error) {
	where, args := productWhere(f)

	var total int
	countQ := `SELECT COUNT(*) FROM products p JOIN categories c ON c.id = p.category_id WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	n := len(args)
	q := fmt.Sprintf("%s WHERE %s ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", productSelect, where, n+1, n+2)
	rows, err := r.db.QueryContext(ctx, q, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	res := make([]*models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		res = append(res, p)
	}
	return res, total, rows.Err()
}

// GetByID — товар вместе с происхождением и пищевой ценностью.
func (r *productRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p.Origin, err = r.origin(ctx, id); err != nil {
		return nil, err
	}
	if p.NutritionalInfo, err = r.nutrition(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepository) origin(ctx context.Context, productID int) (*models.ProductOrigin, error) {
	const q = `
		SELECT producer_id, producer, location, distance, harvest_date, story, certifications
		FROM product_origins WHERE product_id = $1
	`
	var (
		o                                            models.ProductOrigin
		producerID                                   sql.NullInt64
		producer, location, distance, harvest, story sql.NullString
		certs                                        []byte
	)
	err := r.db.QueryRowContext(ctx, q, productID).
		Scan(&producerID, &producer, &location, &distance, &harvest, &story, &certs)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get product origin: %w", err)
	}
	if producerID.Valid {
		id := int(producerID.Int64)
		o.ProducerID = &id
	}
	o.Producer = nullString(producer)
	o.Location = nullString(location)
	o.Distance = nullString(distance)
	o.HarvestDate = nullString(harvest)
	o.Story = nullString(story)
	if len(certs) > 0 {
		o.Certifications = json.RawMessage(certs)
	}
	return &o, nil
}

func (r *productRepository) nutrition(ctx context.Context, productID int) (*models.NutritionalInfo, error) {
	const q = `
		SELECT portion, calories, carbs, fiber, protein, vitamins
		FROM product_nutritional_info WHERE product_id = $1
	`
	var (
		n                              models.NutritionalInfo
		portion, carbs, fiber, protein sql.NullString
		calories                       sql.NullInt64
		vitamins                       []byte
	)
	err := r.db.QueryRowContext(ctx, q, productID).Scan(&portion, &calories, &carbs, &fiber, &protein, &vitamins)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get product nutrition: %w", err)
	}
	n.Portion = nullString(portion)
	n.Carbs = nullString(carbs)
	n.Fiber = nullString(fiber)
	n.Protein = nullString(protein)
	if calories.Valid {
		c := int(calories.Int64)
		n.Calories = &c
	}
	if len(vitamins) > 0 {
		n.Vitamins = json.RawMessage(vitamins)
	}
	return &n, nil
}

// Create пишет товар и его происхождение/пищевую ценность в одной транзакции.
// Несуществующая категория или производитель дают ErrForeignKey.
func (r *productRepository) Create(ctx context.Context, p *models.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO products (name, description, price, category_id, image, in_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, q, p.Name, p.Description, p.Price, p.CategoryID, p.Image, p.InStock).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return wrapProductErr("create product", err)
	}
	if err := upsertOrigin(ctx, tx, p.ID, p.Origin); err != nil {
		return err
	}
	if err := upsertNutrition(ctx, tx, p.ID, p.NutritionalInfo); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *productRepository) Update(ctx context.Context, id int, patch ProductPatch) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const q = `
		UPDATE products
		SET name = COALESCE($1, name),
			description = COALESCE($2, description),
			price = COALESCE($3, price),
			category_id = COALESCE($4, category_id),
			in_stock = COALESCE($5, in_stock),
			image = COALESCE($6, image),
			updated_at = NOW()
		WHERE id = $7
	`
	res, err := tx.ExecContext(ctx, q,
		patch.Name, patch.Description, patch.Price, patch.CategoryID, patch.InStock, patch.Image, id)
	if err != nil {
		return false, wrapProductErr("update product", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}
	if err := upsertOrigin(ctx, tx, id, patch.Origin); err != nil {
		return false, err
	}
	if err := upsertNutrition(ctx, tx, id, patch.NutritionalInfo); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// Delete: происхождение и пищевая ценность уходят каскадом.
func (r *productRepository) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// upsertOrigin: незаданные поля не затирают сохранённые.
func upsertOrigin(ctx context.Context, tx *sql.Tx, productID int, o *models.ProductOrigin) error {
	if o.Empty() {
		return nil
	}
	const q = `
		INSERT INTO product_origins (product_id, producer_id, producer, location, distance, harvest_date, story, certifications)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb)
		ON CONFLICT (product_id) DO UPDATE SET
			producer_id = COALESCE(EXCLUDED.producer_id, product_origins.producer_id),
			producer = COALESCE(EXCLUDED.producer, product_origins.producer),
			location = COALESCE(EXCLUDED.location, product_origins.location),
			distance = COALESCE(EXCLUDED.distance, product_origins.distance),
			harvest_date = COALESCE(EXCLUDED.harvest_date, product_origins.harvest_date),
			story = COALESCE(EXCLUDED.story, product_origins.story),
			certifications = COALESCE(EXCLUDED.certifications, product_origins.certifications)
	`
	_, err := tx.ExecContext(ctx, q, productID, o.ProducerID, o.Producer, o.Location, o.Distance,
		o.HarvestDate, o.Story, jsonParam(o.Certifications))
	if err != nil {
		return wrapProductErr("upsert product origin", err)
	}
	return nil
}

func upsertNutrition(ctx context.Context, tx *sql.Tx, productID int, n *models.NutritionalInfo) error {
	if n.Empty() {
		return nil
	}
	const q = `
		INSERT INTO product_nutritional_info (product_id, portion, calories, carbs, fiber, protein, vitamins)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)
		ON CONFLICT (product_id) DO UPDATE SET
			portion = COALESCE(EXCLUDED.portion, product_nutritional_info.portion),
			calories = COALESCE(EXCLUDED.calories, product_nutritional_info.calories),
			carbs = COALESCE(EXCLUDED.carbs, product_nutritional_info.carbs),
			fiber = COALESCE(EXCLUDED.fiber, product_nutritional_info.fiber),
			protein = COALESCE(EXCLUDED.protein, product_nutritional_info.protein),
			vitamins = COALESCE(EXCLUDED.vitamins, product_nutritional_info.vitamins)
	`
	_, err := tx.ExecContext(ctx, q, productID, n.Portion, n.Calories, n.Carbs, n.Fiber, n.Protein, jsonParam(n.Vitamins))
	if err != nil {
		return fmt.Errorf("upsert product nutrition: %w", err)
	}
	return nil
}

func wrapProductErr(op string, err error) error {
	if isForeignKeyViolation(err) {
		return ErrForeignKey
	}
	return fmt.Errorf("%s: %w", op, err)
}
