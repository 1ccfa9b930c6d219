package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"feiraja/internal/models"
)

type ProducerFilter struct {
	Search   string
	IsActive *bool
	Limit    int
	Offset   int
}

// NullableString — поле, которое можно явно обнулить: Set=true, Value=nil пишет NULL.
type NullableString struct {
	Set   bool
	Value *string
}

type ProducerPatch struct {
	Name           *string
	Email          NullableString
	Phone          NullableString
	Location       NullableString
	Story          NullableString
	Certifications json.RawMessage
	IsActive       *bool
}

type ProducerRepository interface {
	List(ctx context.Context, f ProducerFilter) ([]*models.Producer, int, error)
	GetByID(ctx context.Context, id int) (*models.Producer, error)
	ListProducts(ctx context.Context, producerID int) ([]models.ProductSummary, error)
	Create(ctx context.Context, p *models.Producer) error
	Update(ctx context.Context, id int, patch ProducerPatch) (*models.Producer, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type producerRepository struct {
	db *sql.DB
}

func NewProducerRepository(db *sql.DB) ProducerRepository {
	return &producerRepository{db: db}
}

const producerColumns = `id, name, email, phone, location, story, certifications, is_active, created_at, updated_at,
	(SELECT COUNT(*) FROM product_origins o WHERE o.producer_id = producers.id)`

func scanProducer(row rowScanner) (*models.Producer, error) {
	var (
		p                             models.Producer
		email, phone, location, story sql.NullString
		certs                         []byte
	)
	err := row.Scan(&p.ID, &p.Name, &email, &phone, &location, &story, &certs, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt, &p.Count.Products)
	if err != nil {
		return nil, err
	}
	p.Email = nullString(email)
	p.Phone = nullString(phone)
	p.Location = nullString(location)
	p.Story = nullString(story)
	if len(certs) > 0 {
		p.Certifications = json.RawMessage(certs)
	}
	return &p, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// producerWhere собирает WHERE для списка и для подсчёта.
func producerWhere(f ProducerFilter) (string, []any) {
	where := []string{"1=1"}
	args := []any{}
	i := 1
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR location ILIKE $%d)", i, i))
		args = append(args, "%"+s+"%")
		i++
	}
	if f.IsActive != nil {
		where = append(where, fmt.Sprintf("is_active = $%d", i))
		args = append(args, *f.IsActive)
	}
	return strings.Join(where, " AND "), args
}

func (r *producerRepository) List(ctx context.Context, f ProducerFilter) ([]*models.Producer, int, error) {
	where, args := producerWhere(f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM producers WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count producers: %w", err)
	}

	n := len(args)
	q := fmt.Sprintf(`SELECT %s FROM producers WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		producerColumns, where, n+1, n+2)
	rows, err := r.db.QueryContext(ctx, q, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list producers: %w", err)
	}
	defer rows.Close()

	res := make([]*models.Producer, 0)
	for rows.Next() {
		p, err := scanProducer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan producer: %w", err)
		}
		res = append(res, p)
	}
	return res, total, rows.Err()
}

func (r *producerRepository) GetByID(ctx context.Context, id int) (*models.Producer, error) {
	p, err := scanProducer(r.db.QueryRowContext(ctx, `SELECT `+producerColumns+` FROM producers WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get producer: %w", err)
	}
	return p, nil
}

func (r *producerRepository) ListProducts(ctx context.Context, producerID int) ([]models.ProductSummary, error) {
	const q = `
		SELECT p.id, p.name, p.price, p.image
		FROM product_origins o
		JOIN products p ON p.id = o.product_id
		WHERE o.producer_id = $1
		ORDER BY p.name ASC
	`
	rows, err := r.db.QueryContext(ctx, q, producerID)
	if err != nil {
		return nil, fmt.Errorf("list producer products: %w", err)
	}
	defer rows.Close()

	res := make([]models.ProductSummary, 0)
	for rows.Next() {
		var (
			ps    models.ProductSummary
			image sql.NullString
		)
		if err := rows.Scan(&ps.ID, &ps.Name, &ps.Price, &image); err != nil {
			return nil, fmt.Errorf("scan producer product: %w", err)
		}
		ps.Image = nullString(image)
		res = append(res, ps)
	}
	return res, rows.Err()
}

// Create: уникальность email проверяет база (ErrDuplicate).
func (r *producerRepository) Create(ctx context.Context, p *models.Producer) error {
	const q = `
		INSERT INTO producers (name, email, phone, location, story, certifications, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6::jsonb, '[]'::jsonb), TRUE, NOW(), NOW())
		RETURNING ` + producerColumns
	created, err := scanProducer(r.db.QueryRowContext(ctx, q,
		p.Name, p.Email, p.Phone, p.Location, p.Story, jsonParam(p.Certifications)))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create producer: %w", err)
	}
	*p = *created
	return nil
}

func (r *producerRepository) Update(ctx context.Context, id int, patch ProducerPatch) (*models.Producer, error) {
	const q = `
		UPDATE producers
		SET name = COALESCE($1, name),
			email = CASE WHEN $2 THEN $3 ELSE email END,
			phone = CASE WHEN $4 THEN $5 ELSE phone END,
			location = CASE WHEN $6 THEN $7 ELSE location END,
			story = CASE WHEN $8 THEN $9 ELSE story END,
			certifications = COALESCE($10::jsonb, certifications),
			is_active = COALESCE($11, is_active),
			updated_at = NOW()
		WHERE id = $12
		RETURNING ` + producerColumns
	p, err := scanProducer(r.db.QueryRowContext(ctx, q,
		patch.Name,
		patch.Email.Set, patch.Email.Value,
		patch.Phone.Set, patch.Phone.Value,
		patch.Location.Set, patch.Location.Value,
		patch.Story.Set, patch.Story.Value,
		jsonParam(patch.Certifications),
		patch.IsActive,
		id,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("update producer: %w", err)
	}
	return p, nil
}

// Delete вернёт ErrForeignKey, если производитель указан в происхождении товаров.
func (r *producerRepository) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM producers WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, ErrForeignKey
		}
		return false, fmt.Errorf("delete producer: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
