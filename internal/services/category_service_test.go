package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feiraja/internal/repositories/repotest"
)

func TestCategoryService_CRUD(t *testing.T) {
	svc := NewCategoryService(repotest.New().Categories())
	ctx := context.Background()

	_, err := svc.Create(ctx, CategoryInput{Name: "  "})
	assert.ErrorIs(t, err, ErrValidation)

	fruits, err := svc.Create(ctx, CategoryInput{Name: " Frutas "})
	require.NoError(t, err)
	assert.Equal(t, "Frutas", fruits.Name)
	_, err = svc.Create(ctx, CategoryInput{Name: "Frutas"})
	assert.ErrorIs(t, err, ErrConflict)

	desc := "Da estação"
	updated, err := svc.Update(ctx, fruits.ID, CategoryInput{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Frutas", updated.Name)
	assert.Equal(t, "Da estação", updated.Description)

	_, err = svc.Update(ctx, 999, CategoryInput{Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, fruits.ID))
	assert.ErrorIs(t, svc.Delete(ctx, fruits.ID), ErrNotFound)
}

func TestCategoryService_ListHidesEmptyOnStorefront(t *testing.T) {
	store := repotest.New()
	cats := NewCategoryService(store.Categories())
	products := NewProductService(store.Products(), store.Categories(), store.Producers(), nil, nil)
	ctx := context.Background()

	fruits, err := cats.Create(ctx, CategoryInput{Name: "Frutas"})
	require.NoError(t, err)
	_, err = cats.Create(ctx, CategoryInput{Name: "Grãos"})
	require.NoError(t, err)
	_, err = products.Create(ctx, ProductInput{Name: "Banana", Price: 6.9, CategoryID: fruits.ID})
	require.NoError(t, err)

	public, err := cats.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Frutas", public[0].Name)
	assert.Equal(t, 1, public[0].Count.Products)

	all, err := cats.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCategoryService_DeleteInUse(t *testing.T) {
	store := repotest.New()
	cats := NewCategoryService(store.Categories())
	products := NewProductService(store.Products(), store.Categories(), store.Producers(), nil, nil)
	ctx := context.Background()

	fruits, err := cats.Create(ctx, CategoryInput{Name: "Frutas"})
	require.NoError(t, err)
	_, err = products.Create(ctx, ProductInput{Name: "Banana", Price: 6.9, CategoryID: fruits.ID})
	require.NoError(t, err)

	err = cats.Delete(ctx, fruits.ID)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "existing products")
}
