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

var categoryCols = []string{"id", "name", "description", "created_at", "updated_at", "count"}

func TestCategoryRepo_List_WithProductsOnly(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCategoryRepository(db)
	ts := time.Now()

	mock.ExpectQuery(`FROM categories WHERE EXISTS \(SELECT 1 FROM products p WHERE p.category_id = categories.id\) ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows(categoryCols).AddRow(1, "Frutas", "", ts, ts, 4))

	list, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Frutas", list[0].Name)
	assert.Equal(t, 4, list[0].Count.Products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepo_List_All(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCategoryRepository(db)
	ts := time.Now()

	mock.ExpectQuery(`FROM categories ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows(categoryCols).
			AddRow(1, "Frutas", "", ts, ts, 4).
			AddRow(2, "Grãos", "", ts, ts, 0))

	list, err := repo.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCategoryRepo_Create_Duplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(`INSERT INTO categories`).
		WithArgs("Frutas", "").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Category{Name: "Frutas"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCategoryRepo_Update_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCategoryRepository(db)
	name := "Legumes"

	mock.ExpectQuery(`UPDATE categories\s+SET name = COALESCE\(\$1, name\)`).
		WithArgs("Legumes", nil, 9).
		WillReturnRows(sqlmock.NewRows(categoryCols))

	c, err := repo.Update(context.Background(), 9, CategoryPatch{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestCategoryRepo_Delete_InUse(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCategoryRepository(db)

	mock.ExpectExec(`DELETE FROM categories WHERE id = \$1`).WithArgs(1).
		WillReturnError(&pq.Error{Code: "23503"})

	ok, err := repo.Delete(context.Background(), 1)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrForeignKey)
}
