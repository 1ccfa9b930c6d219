package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feiraja/internal/models"
)

var customerCols = []string{
	"id", "phone_number", "name", "email", "is_first_time",
	"selected_box_size", "delivery_day", "household_size", "preferences",
	"created_at", "updated_at",
	"bp_id", "bp_profile_type", "bp_name", "bp_base_price", "bp_item_count", "bp_created_at", "bp_updated_at",
}

func TestCustomerRepo_GetByPhone_WithBoxPrice(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepository(db)
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`LEFT JOIN box_prices bp ON bp.profile_type = u.selected_box_size\s+WHERE u.phone_number = \$1`).
		WithArgs("+5511987654321").
		WillReturnRows(sqlmock.NewRows(customerCols).AddRow(
			1, "+5511987654321", "Ana", nil, false,
			2, "terça", 3, []byte(`{"organic":true}`),
			ts, ts,
			10, 2, "Média", 89.9, 12, ts, ts,
		))

	c, err := repo.GetByPhone(context.Background(), "+5511987654321")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Ana", *c.Name)
	assert.Nil(t, c.Email)
	assert.Equal(t, 2, *c.SelectedBoxSize)
	assert.JSONEq(t, `{"organic":true}`, string(c.Preferences))
	require.NotNil(t, c.BoxPrice)
	assert.Equal(t, "Média", c.BoxPrice.Name)
	assert.InDelta(t, 89.9, c.BoxPrice.BasePrice, 0.001)
	assert.True(t, c.HasBasketConfiguration())
}

func TestCustomerRepo_GetByPhone_NoBasket(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepository(db)
	ts := time.Now()

	mock.ExpectQuery(`FROM users u`).
		WillReturnRows(sqlmock.NewRows(customerCols).AddRow(
			1, "+5511987654321", nil, nil, true,
			nil, nil, nil, nil,
			ts, ts,
			nil, nil, nil, nil, nil, nil, nil,
		))

	c, err := repo.GetByPhone(context.Background(), "+5511987654321")
	require.NoError(t, err)
	assert.Nil(t, c.BoxPrice)
	assert.Nil(t, c.Preferences)
	assert.False(t, c.HasBasketConfiguration())
	assert.Equal(t, "Cliente", c.DisplayName())
}

func TestCustomerRepo_GetByPhone_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepository(db)

	mock.ExpectQuery(`FROM users u`).WillReturnRows(sqlmock.NewRows(customerCols))

	c, err := repo.GetByPhone(context.Background(), "+5511987654321")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestCustomerRepo_Create_Duplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(&pq.Error{Code: "23505"})

	name := "Ana"
	err := repo.Create(context.Background(), &models.Customer{PhoneNumber: "+5511987654321", Name: &name})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCustomerRepo_Create_SendsPreferencesAsText(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("+5511987654321", sqlmock.AnyArg(), nil, false, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			`{"organic":true}`, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	name := "Ana"
	c := &models.Customer{
		PhoneNumber: "+5511987654321",
		Name:        &name,
		Preferences: json.RawMessage(`{"organic":true}`),
	}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, 5, c.ID)
	assert.False(t, c.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepo_EnsureByPhone_Created(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepository(db)
	ts := time.Now()

	mock.ExpectExec(`ON CONFLICT \(phone_number\) DO NOTHING`).
		WithArgs("+5511987654321").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`FROM users u`).
		WillReturnRows(sqlmock.NewRows(customerCols).AddRow(
			9, "+5511987654321", nil, nil, true,
			nil, nil, nil, nil, ts, ts,
			nil, nil, nil, nil, nil, nil, nil,
		))

	c, created, err := repo.EnsureByPhone(context.Background(), "+5511987654321")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 9, c.ID)
	assert.True(t, c.IsFirstTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepo_UpdateBasket_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepository(db)

	mock.ExpectExec(`UPDATE users`).WillReturnResult(sqlmock.NewResult(0, 0))

	size := 2
	c, err := repo.UpdateBasket(context.Background(), "+5511987654321", BasketUpdate{SelectedBoxSize: &size})
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}
