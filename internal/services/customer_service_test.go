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

func TestCustomerService_StatusUnknown(t *testing.T) {
	store := repotest.New()
	svc := NewCustomerService(store.Customers(), store.Addresses(), nil)

	st, err := svc.Status(context.Background(), "whatsapp:+5511987654321")
	require.NoError(t, err)
	assert.False(t, st.Exists)
	assert.True(t, st.IsFirstTime)
	assert.Nil(t, st.UserID)
}

func TestCustomerService_EnsureInboundThenBasket(t *testing.T) {
	store := repotest.New()
	svc := NewCustomerService(store.Customers(), store.Addresses(), nil)
	ctx := context.Background()

	require.NoError(t, store.BoxPrices().Create(ctx, &models.BoxPrice{ProfileType: 2, Name: "Média", BasePrice: 89.9, ItemCount: 12}))

	c, err := svc.EnsureInbound(ctx, "5511987654321")
	require.NoError(t, err)
	assert.True(t, c.IsFirstTime)
	again, err := svc.EnsureInbound(ctx, "5511987654321")
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)

	size, household, day := 2, 4, "sexta"
	p, err := svc.UpdateBasket(ctx, "whatsapp:+5511987654321", models.BasketRequest{
		SelectedBoxSize: &size, DeliveryDay: &day, HouseholdSize: &household,
		Preferences: json.RawMessage(`{"vegan":true}`),
	})
	require.NoError(t, err)
	assert.False(t, p.IsFirstTime)
	require.NotNil(t, p.BoxPrice)
	assert.Equal(t, "Média", p.BoxPrice.Name)

	st, err := svc.Status(ctx, "+5511987654321")
	require.NoError(t, err)
	assert.True(t, st.Exists)
	assert.True(t, st.HasBasketConfiguration)
	assert.False(t, st.HasAddress)
}

func TestCustomerService_ProfileNotFound(t *testing.T) {
	store := repotest.New()
	svc := NewCustomerService(store.Customers(), store.Addresses(), nil)

	_, err := svc.Profile(context.Background(), "+5511987654321")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateBasket(context.Background(), "+5511987654321", models.BasketRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerService_Authenticate(t *testing.T) {
	store := repotest.New()
	svc := NewCustomerService(store.Customers(), store.Addresses(), nil)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, " ")
	require.ErrorIs(t, err, ErrValidation)

	first, err := svc.Authenticate(ctx, "whatsapp:+5511987654321")
	require.NoError(t, err)
	assert.Equal(t, "+5511987654321", first.PhoneNumber)
	assert.True(t, first.IsFirstTime)
	assert.False(t, first.HasAddresses)

	second, err := svc.Authenticate(ctx, "11987654321")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
