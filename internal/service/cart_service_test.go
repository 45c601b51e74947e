package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
)

func TestCartGet_MissingCartComesBackEmpty(t *testing.T) {
	sut := NewCartService(&mockCartRepo{}, &mockProductRepo{}, zap.NewNop())

	cart, err := sut.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", cart.SessionID)
	assert.True(t, cart.IsEmpty())
}

func TestCartAddItem_Success(t *testing.T) {
	products := catalogFixture(1)
	carts := &mockCartRepo{}
	sut := NewCartService(carts, products, zap.NewNop())

	cart, err := sut.AddItem(context.Background(), "sess-1", "TEA-00", 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "TEA-00", cart.Items[0].SKU)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, products.products[0].ID, cart.Items[0].ProductID)
}

func TestCartAddItem_SameSKUMergesIntoOneLine(t *testing.T) {
	products := catalogFixture(1)
	carts := &mockCartRepo{}
	sut := NewCartService(carts, products, zap.NewNop())

	_, err := sut.AddItem(context.Background(), "sess-1", "TEA-00", 2)
	require.NoError(t, err)
	cart, err := sut.AddItem(context.Background(), "sess-1", "TEA-00", 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1, "duplicate SKU must merge, not duplicate the line")
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCartAddItem_QuantityBounds(t *testing.T) {
	sut := NewCartService(&mockCartRepo{}, catalogFixture(1), zap.NewNop())

	_, err := sut.AddItem(context.Background(), "sess-1", "TEA-00", 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = sut.AddItem(context.Background(), "sess-1", "TEA-00", -1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = sut.AddItem(context.Background(), "sess-1", "TEA-00", 100)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCartAddItem_UnknownSKU(t *testing.T) {
	sut := NewCartService(&mockCartRepo{}, &mockProductRepo{}, zap.NewNop())

	_, err := sut.AddItem(context.Background(), "sess-1", "GHOST-1", 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCartAddItem_InactiveProduct(t *testing.T) {
	products := catalogFixture(1)
	products.products[0].InStock = false
	sut := NewCartService(&mockCartRepo{}, products, zap.NewNop())

	_, err := sut.AddItem(context.Background(), "sess-1", "TEA-00", 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCartUpdateQuantity(t *testing.T) {
	products := catalogFixture(1)
	carts := &mockCartRepo{}
	sut := NewCartService(carts, products, zap.NewNop())

	_, err := sut.AddItem(context.Background(), "sess-1", "TEA-00", 2)
	require.NoError(t, err)

	cart, err := sut.UpdateQuantity(context.Background(), "sess-1", "TEA-00", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, cart.Items[0].Quantity)

	_, err = sut.UpdateQuantity(context.Background(), "sess-1", "TEA-00", 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCartRemoveItem(t *testing.T) {
	products := catalogFixture(2)
	carts := &mockCartRepo{}
	sut := NewCartService(carts, products, zap.NewNop())

	_, err := sut.AddItem(context.Background(), "sess-1", "TEA-00", 1)
	require.NoError(t, err)
	_, err = sut.AddItem(context.Background(), "sess-1", "TEA-01", 1)
	require.NoError(t, err)

	cart, err := sut.RemoveItem(context.Background(), "sess-1", "TEA-00")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "TEA-01", cart.Items[0].SKU)
}

func TestCartClear_ToleratesMissingCart(t *testing.T) {
	sut := NewCartService(&mockCartRepo{}, &mockProductRepo{}, zap.NewNop())
	assert.NoError(t, sut.Clear(context.Background(), "sess-none"))
}

func TestCartClear_RepoError(t *testing.T) {
	sut := NewCartService(&mockCartRepo{err: errDatabase}, &mockProductRepo{}, zap.NewNop())
	assert.ErrorIs(t, sut.Clear(context.Background(), "sess-1"), errDatabase)
}
