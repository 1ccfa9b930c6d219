package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"feiraja/internal/models"
)

// BasketUpdate — поля, которые меняет PUT /users/:phone/basket.
type BasketUpdate struct {
	SelectedBoxSize *int
	DeliveryDay     *string
	HouseholdSize   *int
	Preferences     json.RawMessage
	IsFirstTime     bool
}

type CustomerRepository interface {
	GetByPhone(ctx context.Context, phone string) (*models.Customer, error)
	Create(ctx context.Context, c *models.Customer) error
	EnsureByPhone(ctx context.Context, phone string) (*models.Customer, bool, error)
	UpdateBasket(ctx context.Context, phone string, upd BasketUpdate) (*models.Customer, error)
}

type customerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

const customerSelect = `
	SELECT
		u.id, u.phone_number, u.name, u.email, u.is_first_time,
		u.selected_box_size, u.delivery_day, u.household_size, u.preferences,
		u.created_at, u.updated_at,
		bp.id, bp.profile_type, bp.name, bp.base_price, bp.item_count, bp.created_at, bp.updated_at
	FROM users u
	LEFT JOIN box_prices bp ON bp.profile_type = u.selected_box_size
`

func scanCustomer(row rowScanner) (*models.Customer, error) {
	c := &models.Customer{}
	var (
		name, email, deliveryDay sql.NullString
		boxSize, household       sql.NullInt64
		prefs                    []byte

		bpID, bpProfile, bpItems sql.NullInt64
		bpName                   sql.NullString
		bpPrice                  sql.NullFloat64
		bpCreated, bpUpdated     sql.NullTime
	)
	err := row.Scan(
		&c.ID, &c.PhoneNumber, &name, &email, &c.IsFirstTime,
		&boxSize, &deliveryDay, &household, &prefs,
		&c.CreatedAt, &c.UpdatedAt,
		&bpID, &bpProfile, &bpName, &bpPrice, &bpItems, &bpCreated, &bpUpdated,
	)
	if err != nil {
		return nil, err
	}
	if name.Valid {
		s := name.String
		c.Name = &s
	}
	if email.Valid {
		s := email.String
		c.Email = &s
	}
	if deliveryDay.Valid {
		s := deliveryDay.String
		c.DeliveryDay = &s
	}
	if boxSize.Valid {
		n := int(boxSize.Int64)
		c.SelectedBoxSize = &n
	}
	if household.Valid {
		n := int(household.Int64)
		c.HouseholdSize = &n
	}
	if len(prefs) > 0 {
		c.Preferences = json.RawMessage(prefs)
	}
	if bpID.Valid {
		c.BoxPrice = &models.BoxPrice{
			ID:          int(bpID.Int64),
			ProfileType: int(bpProfile.Int64),
			Name:        bpName.String,
			BasePrice:   bpPrice.Float64,
			ItemCount:   int(bpItems.Int64),
			CreatedAt:   bpCreated.Time,
			UpdatedAt:   bpUpdated.Time,
		}
	}
	return c, nil
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, customerSelect+` WHERE u.phone_number = $1`, phone))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by phone: %w", err)
	}
	return c, nil
}

func (r *customerRepository) Create(ctx context.Context, c *models.Customer) error {
	const q = `
		INSERT INTO users (
			phone_number, name, email, is_first_time,
			selected_box_size, delivery_day, household_size, preferences,
			created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
		RETURNING id
	`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, q,
		c.PhoneNumber, c.Name, c.Email, c.IsFirstTime,
		c.SelectedBoxSize, c.DeliveryDay, c.HouseholdSize, jsonParam(c.Preferences),
		now,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	c.CreatedAt, c.UpdatedAt = now, now
	return nil
}

// EnsureByPhone возвращает покупателя, создавая "пустого" (is_first_time=true) при первом обращении.
func (r *customerRepository) EnsureByPhone(ctx context.Context, phone string) (*models.Customer, bool, error) {
	const q = `
		INSERT INTO users (phone_number, is_first_time, created_at, updated_at)
		VALUES ($1, TRUE, NOW(), NOW())
		ON CONFLICT (phone_number) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, q, phone)
	if err != nil {
		return nil, false, fmt.Errorf("ensure user: %w", err)
	}
	n, _ := res.RowsAffected()
	c, err := r.GetByPhone(ctx, phone)
	if err != nil {
		return nil, false, err
	}
	return c, n > 0, nil
}

func (r *customerRepository) UpdateBasket(ctx context.Context, phone string, upd BasketUpdate) (*models.Customer, error) {
	const q = `
		UPDATE users
		SET selected_box_size = $1,
			delivery_day = $2,
			household_size = $3,
			preferences = $4,
			is_first_time = $5,
			updated_at = NOW()
		WHERE phone_number = $6
	`
	res, err := r.db.ExecContext(ctx, q,
		upd.SelectedBoxSize, upd.DeliveryDay, upd.HouseholdSize, jsonParam(upd.Preferences), upd.IsFirstTime, phone)
	if err != nil {
		return nil, fmt.Errorf("update basket: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return r.GetByPhone(ctx, phone)
}

// jsonParam: lib/pq шлёт []byte как bytea, для jsonb нужен текст.
func jsonParam(raw json.RawMessage) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}
