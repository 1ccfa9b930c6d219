package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feiraja/internal/models"
)

var boxPriceCols = []string{"id", "profile_type", "name", "base_price", "item_count", "created_at", "updated_at"}

func TestBoxPriceRepo_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBoxPriceRepository(db)
	ts := time.Now()

	mock.ExpectQuery(`FROM box_prices ORDER BY profile_type ASC`).
		WillReturnRows(sqlmock.NewRows(boxPriceCols).
			AddRow(1, 1, "Pequena", 59.9, 8, ts, ts).
			AddRow(2, 2, "Média", 89.9, 12, ts, ts))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Pequena", list[0].Name)
	assert.Equal(t, 2, list[1].ProfileType)
}

func TestBoxPriceRepo_Create_Duplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBoxPriceRepository(db)

	mock.ExpectQuery(`INSERT INTO box_prices`).
		WithArgs(1, "Pequena", 59.9, 8).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.BoxPrice{ProfileType: 1, Name: "Pequena", BasePrice: 59.9, ItemCount: 8})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestBoxPriceRepo_Update_Patch(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBoxPriceRepository(db)
	ts := time.Now()
	price := 64.5

	mock.ExpectQuery(`UPDATE box_prices\s+SET name = COALESCE\(\$1, name\)`).
		WithArgs(nil, 64.5, nil, 1).
		WillReturnRows(sqlmock.NewRows(boxPriceCols).AddRow(1, 1, "Pequena", 64.5, 8, ts, ts))

	bp, err := repo.Update(context.Background(), 1, BoxPricePatch{BasePrice: &price})
	require.NoError(t, err)
	assert.InDelta(t, 64.5, bp.BasePrice, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoxPriceRepo_Update_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBoxPriceRepository(db)

	mock.ExpectQuery(`UPDATE box_prices`).WillReturnRows(sqlmock.NewRows(boxPriceCols))

	bp, err := repo.Update(context.Background(), 99, BoxPricePatch{})
	require.NoError(t, err)
	assert.Nil(t, bp)
}

func TestBoxPriceRepo_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBoxPriceRepository(db)

	mock.ExpectExec(`DELETE FROM box_prices WHERE id = \$1`).WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, ok)
}
