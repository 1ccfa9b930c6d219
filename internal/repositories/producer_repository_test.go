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

var producerCols = []string{"id", "name", "email", "phone", "location", "story", "certifications",
	"is_active", "created_at", "updated_at", "count"}

func TestProducerRepo_List_FiltersAndPages(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProducerRepository(db)
	ts := time.Now()
	active := true

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM producers WHERE 1=1 AND \(name ILIKE \$1 OR location ILIKE \$1\) AND is_active = \$2`).
		WithArgs("%sitio%", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery(`FROM producers WHERE .* ORDER BY created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs("%sitio%", true, 20, 20).
		WillReturnRows(sqlmock.NewRows(producerCols).
			AddRow(7, "Sítio Boa Vista", nil, "11999990000", "Ibiúna", nil, []byte(`["orgânico"]`), true, ts, ts, 2))

	list, total, err := repo.List(context.Background(), ProducerFilter{Search: "sitio", IsActive: &active, Limit: 20, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, 21, total)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Email)
	require.NotNil(t, list[0].Phone)
	assert.Equal(t, "11999990000", *list[0].Phone)
	assert.JSONEq(t, `["orgânico"]`, string(list[0].Certifications))
	assert.Equal(t, 2, list[0].Count.Products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProducerRepo_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProducerRepository(db)
	email := "sitio@example.com"

	mock.ExpectQuery(`INSERT INTO producers`).
		WithArgs("Sítio", "sitio@example.com", nil, nil, nil, nil).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Producer{Name: "Sítio", Email: &email})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestProducerRepo_Update_ClearsEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProducerRepository(db)
	ts := time.Now()
	inactive := false

	mock.ExpectQuery(`email = CASE WHEN \$2 THEN \$3 ELSE email END`).
		WithArgs(nil, true, nil, false, nil, false, nil, false, nil, nil, false, 7).
		WillReturnRows(sqlmock.NewRows(producerCols).
			AddRow(7, "Sítio", nil, nil, nil, nil, []byte(`[]`), false, ts, ts, 0))

	p, err := repo.Update(context.Background(), 7, ProducerPatch{
		Email:    NullableString{Set: true},
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Nil(t, p.Email)
	assert.False(t, p.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProducerRepo_ListProducts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProducerRepository(db)

	mock.ExpectQuery(`FROM product_origins o\s+JOIN products p ON p.id = o.product_id\s+WHERE o.producer_id = \$1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "image"}).
			AddRow(3, "Alface", 4.5, nil))

	list, err := repo.ListProducts(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Alface", list[0].Name)
	assert.Nil(t, list[0].Image)
}

func TestProducerRepo_Delete_InUse(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProducerRepository(db)

	mock.ExpectExec(`DELETE FROM producers WHERE id = \$1`).WithArgs(7).
		WillReturnError(&pq.Error{Code: "23503"})

	_, err := repo.Delete(context.Background(), 7)
	assert.ErrorIs(t, err, ErrForeignKey)
}
