package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feiraja/internal/repositories/repotest"
)

func TestBoxPriceService_CRUD(t *testing.T) {
	svc := NewBoxPriceService(repotest.New().BoxPrices())
	ctx := context.Background()

	_, err := svc.Create(ctx, BoxPriceInput{ProfileType: 1, Name: "Pequena"})
	assert.ErrorIs(t, err, ErrValidation)

	small, err := svc.Create(ctx, BoxPriceInput{ProfileType: 1, Name: "Pequena", BasePrice: 59.9, ItemCount: 8})
	require.NoError(t, err)
	_, err = svc.Create(ctx, BoxPriceInput{ProfileType: 1, Name: "Outra", BasePrice: 1, ItemCount: 1})
	assert.ErrorIs(t, err, ErrConflict)

	price := 64.5
	updated, err := svc.Update(ctx, small.ID, BoxPriceUpdate{BasePrice: &price})
	require.NoError(t, err)
	assert.InDelta(t, 64.5, updated.BasePrice, 0.001)
	assert.Equal(t, "Pequena", updated.Name)

	require.NoError(t, svc.Delete(ctx, small.ID))
	assert.ErrorIs(t, svc.Delete(ctx, small.ID), ErrNotFound)
	_, err = svc.Get(ctx, small.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoxPriceService_ListOrdered(t *testing.T) {
	svc := NewBoxPriceService(repotest.New().BoxPrices())
	ctx := context.Background()
	_, err := svc.Create(ctx, BoxPriceInput{ProfileType: 3, Name: "Grande", BasePrice: 120, ItemCount: 16})
	require.NoError(t, err)
	_, err = svc.Create(ctx, BoxPriceInput{ProfileType: 1, Name: "Pequena", BasePrice: 59.9, ItemCount: 8})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].ProfileType)
}
