package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feiraja/internal/models"
	"feiraja/internal/repositories/repotest"
)

type catalogFixture struct {
	store      *repotest.Store
	categories CategoryService
	producers  ProducerService
	products   ProductService
}

func newCatalog(images ImageStore) catalogFixture {
	store := repotest.New()
	return catalogFixture{
		store:      store,
		categories: NewCategoryService(store.Categories()),
		producers:  NewProducerService(store.Producers()),
		products:   NewProductService(store.Products(), store.Categories(), store.Producers(), images, nil),
	}
}

func TestProductService_CreateValidates(t *testing.T) {
	f := newCatalog(nil)
	ctx := context.Background()
	cat, err := f.categories.Create(ctx, CategoryInput{Name: "Frutas"})
	require.NoError(t, err)

	_, err = f.products.Create(ctx, ProductInput{Name: "Banana", CategoryID: cat.ID})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.products.Create(ctx, ProductInput{Name: "Banana", Price: 6.9, CategoryID: 999})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Invalid category", err.Error())

	missing := 999
	_, err = f.products.Create(ctx, ProductInput{
		Name: "Banana", Price: 6.9, CategoryID: cat.ID,
		Origin: &models.ProductOrigin{ProducerID: &missing},
	})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Invalid producer", err.Error())
}

func TestProductService_CreateWithDetails(t *testing.T) {
	f := newCatalog(nil)
	ctx := context.Background()
	cat, err := f.categories.Create(ctx, CategoryInput{Name: "Frutas"})
	require.NoError(t, err)
	cal := 89

	p, err := f.products.Create(ctx, ProductInput{
		Name:       "Banana",
		Price:      6.9,
		CategoryID: cat.ID,
		Image:      &ImageUpload{Filename: "b.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
		Origin: &models.ProductOrigin{
			Location:       strPtr("Registro"),
			Story:          strPtr(""),
			Certifications: json.RawMessage(`"[\"orgânico\"]"`),
		},
		NutritionalInfo: &models.NutritionalInfo{Calories: &cal},
	})
	require.NoError(t, err)
	assert.Equal(t, "Frutas", p.Category)
	assert.True(t, p.InStock)
	require.NotNil(t, p.Image)
	assert.True(t, strings.HasPrefix(*p.Image, "data:image/png;base64,"))
	require.NotNil(t, p.Origin)
	assert.Nil(t, p.Origin.Story)
	assert.JSONEq(t, `["orgânico"]`, string(p.Origin.Certifications))
	require.NotNil(t, p.NutritionalInfo)
	assert.Equal(t, 89, *p.NutritionalInfo.Calories)
}

func TestProductService_ImageTooLarge(t *testing.T) {
	f := newCatalog(nil)
	ctx := context.Background()
	cat, err := f.categories.Create(ctx, CategoryInput{Name: "Frutas"})
	require.NoError(t, err)

	_, err = f.products.Create(ctx, ProductInput{
		Name: "Banana", Price: 6.9, CategoryID: cat.ID,
		Image: &ImageUpload{Data: make([]byte, MaxImageSize+1)},
	})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "5MB")
}

type failingImages struct{}

func (failingImages) Save(context.Context, ImageUpload) (string, error) {
	return "", errors.New("upload failed")
}

func TestProductService_ImageStoreErrorAbortsCreate(t *testing.T) {
	f := newCatalog(failingImages{})
	ctx := context.Background()
	cat, err := f.categories.Create(ctx, CategoryInput{Name: "Frutas"})
	require.NoError(t, err)

	_, err = f.products.Create(ctx, ProductInput{Name: "Banana", Price: 6.9, CategoryID: cat.ID, Image: &ImageUpload{Data: []byte("x")}})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)

	page, err := f.products.List(ctx, ProductQuery{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestProductService_UpdateKeepsUnsetFields(t *testing.T) {
	f := newCatalog(nil)
	ctx := context.Background()
	cat, err := f.categories.Create(ctx, CategoryInput{Name: "Frutas"})
	require.NoError(t, err)
	p, err := f.products.Create(ctx, ProductInput{
		Name: "Banana", Price: 6.9, CategoryID: cat.ID, ImageURL: strPtr("https://img/banana.jpg"),
		Origin: &models.ProductOrigin{Location: strPtr("Registro")},
	})
	require.NoError(t, err)

	out := false
	updated, err := f.products.Update(ctx, p.ID, ProductInput{
		Price:   7.5,
		InStock: &out,
		Origin:  &models.ProductOrigin{Distance: strPtr("200km")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Banana", updated.Name)
	assert.InDelta(t, 7.5, updated.Price, 0.001)
	assert.False(t, updated.InStock)
	assert.Equal(t, "https://img/banana.jpg", *updated.Image)
	assert.Equal(t, "Registro", *updated.Origin.Location)
	assert.Equal(t, "200km", *updated.Origin.Distance)

	_, err = f.products.Update(ctx, 999, ProductInput{Price: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductService_ListFilters(t *testing.T) {
	f := newCatalog(nil)
	ctx := context.Background()
	fruits, err := f.categories.Create(ctx, CategoryInput{Name: "Frutas"})
	require.NoError(t, err)
	greens, err := f.categories.Create(ctx, CategoryInput{Name: "Verduras"})
	require.NoError(t, err)
	out := false
	for _, in := range []ProductInput{
		{Name: "Banana", Price: 6.9, CategoryID: fruits.ID},
		{Name: "Maçã", Price: 9.9, CategoryID: fruits.ID, InStock: &out},
		{Name: "Alface", Price: 4.5, CategoryID: greens.ID},
	} {
		_, err := f.products.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := f.products.List(ctx, ProductQuery{Category: "Todas"})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
	assert.Equal(t, 20, all.Limit)
	assert.Equal(t, "Alface", all.Products[0].Name)

	byName, err := f.products.List(ctx, ProductQuery{Category: "frutas"})
	require.NoError(t, err)
	assert.Equal(t, 2, byName.Total)

	inStock := true
	byID, err := f.products.List(ctx, ProductQuery{Category: strconv.Itoa(fruits.ID), InStock: &inStock})
	require.NoError(t, err)
	require.Equal(t, 1, byID.Total)
	assert.Equal(t, "Banana", byID.Products[0].Name)

	search, err := f.products.List(ctx, ProductQuery{Search: "alf"})
	require.NoError(t, err)
	assert.Equal(t, 1, search.Total)
}

func TestProductService_Delete(t *testing.T) {
	f := newCatalog(nil)
	ctx := context.Background()
	cat, err := f.categories.Create(ctx, CategoryInput{Name: "Frutas"})
	require.NoError(t, err)
	p, err := f.products.Create(ctx, ProductInput{Name: "Banana", Price: 6.9, CategoryID: cat.ID})
	require.NoError(t, err)

	require.NoError(t, f.products.Delete(ctx, p.ID))
	assert.ErrorIs(t, f.products.Delete(ctx, p.ID), ErrNotFound)
	_, err = f.products.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
