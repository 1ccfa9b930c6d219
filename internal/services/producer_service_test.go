package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feiraja/internal/models"
	"feiraja/internal/repositories/repotest"
)

func strPtr(s string) *string { return &s }

func TestProducerService_CreateAndUpdate(t *testing.T) {
	svc := NewProducerService(repotest.New().Producers())
	ctx := context.Background()

	_, err := svc.Create(ctx, ProducerInput{})
	assert.ErrorIs(t, err, ErrValidation)

	p, err := svc.Create(ctx, ProducerInput{
		Name:           "Sítio Boa Vista",
		Email:          strPtr("sitio@example.com"),
		Phone:          strPtr(""),
		Certifications: json.RawMessage(`"[\"orgânico\"]"`),
	})
	require.NoError(t, err)
	assert.True(t, p.IsActive)
	assert.Nil(t, p.Phone)
	assert.JSONEq(t, `["orgânico"]`, string(p.Certifications))

	_, err = svc.Create(ctx, ProducerInput{Name: "Outro", Email: strPtr("sitio@example.com")})
	assert.ErrorIs(t, err, ErrConflict)

	inactive := models.FlexBool(false)
	updated, err := svc.Update(ctx, p.ID, ProducerUpdate{Email: strPtr(""), IsActive: &inactive})
	require.NoError(t, err)
	assert.Nil(t, updated.Email)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Sítio Boa Vista", updated.Name)

	_, err = svc.Update(ctx, 999, ProducerUpdate{Name: strPtr("X")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProducerService_ListPaginates(t *testing.T) {
	svc := NewProducerService(repotest.New().Producers())
	ctx := context.Background()
	for _, name := range []string{"Sítio A", "Sítio B", "Fazenda C"} {
		_, err := svc.Create(ctx, ProducerInput{Name: name})
		require.NoError(t, err)
	}

	res, err := svc.List(ctx, ProducerQuery{Search: "sítio", Page: Page{Page: 2, Limit: 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, 2, res.Page)
	require.Len(t, res.Producers, 1)
	assert.Equal(t, "Sítio A", res.Producers[0].Name)
}

func TestProducerService_GetAndDeleteWithProducts(t *testing.T) {
	store := repotest.New()
	producers := NewProducerService(store.Producers())
	cats := NewCategoryService(store.Categories())
	products := NewProductService(store.Products(), store.Categories(), store.Producers(), nil, nil)
	ctx := context.Background()

	p, err := producers.Create(ctx, ProducerInput{Name: "Sítio"})
	require.NoError(t, err)
	c, err := cats.Create(ctx, CategoryInput{Name: "Verduras"})
	require.NoError(t, err)
	_, err = products.Create(ctx, ProductInput{
		Name: "Alface", Price: 4.5, CategoryID: c.ID,
		Origin: &models.ProductOrigin{ProducerID: &p.ID},
	})
	require.NoError(t, err)

	detail, err := producers.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Count.Products)
	require.Len(t, detail.Products, 1)
	assert.Equal(t, "Alface", detail.Products[0].Name)

	err = producers.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = producers.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
