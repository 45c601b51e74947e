package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
)

func setupCartRepo(t *testing.T) CartRepository {
	repo := NewCartRepository(setupTestDB(t))
	require.NoError(t, repo.CreateIndexes(context.Background()))
	return repo
}

func TestCartGet_NotFound(t *testing.T) {
	repo := setupCartRepo(t)

	_, err := repo.GetCart(context.Background(), "sess-none")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCartAddItem_CreatesCartOnFirstAdd(t *testing.T) {
	repo := setupCartRepo(t)
	ctx := context.Background()

	item := domain.CartItem{ProductID: primitive.NewObjectID(), SKU: "AZN-100", Quantity: 2}
	require.NoError(t, repo.AddItem(ctx, "sess-1", item))

	cart, err := repo.GetCart(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", cart.SessionID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "AZN-100", cart.Items[0].SKU)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.False(t, cart.Items[0].AddedAt.IsZero())
}

func TestCartAddItem_DuplicateSKUIncrementsQuantity(t *testing.T) {
	repo := setupCartRepo(t)
	ctx := context.Background()

	productID := primitive.NewObjectID()
	require.NoError(t, repo.AddItem(ctx, "sess-1", domain.CartItem{ProductID: productID, SKU: "AZN-100", Quantity: 2}))
	require.NoError(t, repo.AddItem(ctx, "sess-1", domain.CartItem{ProductID: productID, SKU: "AZN-100", Quantity: 3}))

	cart, err := repo.GetCart(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "same SKU merges into one line")
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCartAddItem_ConcurrentFirstAddsMergeToOneLine(t *testing.T) {
	repo := setupCartRepo(t)
	ctx := context.Background()

	productID := primitive.NewObjectID()
	const adders = 10

	var wg sync.WaitGroup
	errs := make(chan error, adders)
	for i := 0; i < adders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.AddItem(ctx, "sess-1", domain.CartItem{ProductID: productID, SKU: "AZN-100", Quantity: 1})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	cart, err := repo.GetCart(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "racing first adds must not duplicate the line")
	assert.Equal(t, adders, cart.Items[0].Quantity)
}

func TestCartAddItem_MergeRespectsLineCap(t *testing.T) {
	repo := setupCartRepo(t)
	ctx := context.Background()

	productID := primitive.NewObjectID()
	require.NoError(t, repo.AddItem(ctx, "sess-1", domain.CartItem{ProductID: productID, SKU: "AZN-100", Quantity: domain.MaxLineQuantity}))

	err := repo.AddItem(ctx, "sess-1", domain.CartItem{ProductID: productID, SKU: "AZN-100", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	cart, err := repo.GetCart(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, domain.MaxLineQuantity, cart.Items[0].Quantity, "rejected merge leaves the line unchanged")

	// A merge that lands exactly on the cap is still allowed.
	require.NoError(t, repo.AddItem(ctx, "sess-2", domain.CartItem{ProductID: productID, SKU: "AZN-100", Quantity: domain.MaxLineQuantity - 1}))
	require.NoError(t, repo.AddItem(ctx, "sess-2", domain.CartItem{ProductID: productID, SKU: "AZN-100", Quantity: 1}))
	capped, err := repo.GetCart(ctx, "sess-2")
	require.NoError(t, err)
	assert.Equal(t, domain.MaxLineQuantity, capped.Items[0].Quantity)
}

func TestCartAddItem_DistinctSKUsGetOwnLines(t *testing.T) {
	repo := setupCartRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddItem(ctx, "sess-1", domain.CartItem{ProductID: primitive.NewObjectID(), SKU: "AZN-100", Quantity: 1}))
	require.NoError(t, repo.AddItem(ctx, "sess-1", domain.CartItem{ProductID: primitive.NewObjectID(), SKU: "EGS-100", Quantity: 1}))

	cart, err := repo.GetCart(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestCartsAreIsolatedBySession(t *testing.T) {
	repo := setupCartRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddItem(ctx, "sess-1", domain.CartItem{ProductID: primitive.NewObjectID(), SKU: "AZN-100", Quantity: 1}))
	require.NoError(t, repo.AddItem(ctx, "sess-2", domain.CartItem{ProductID: primitive.NewObjectID(), SKU: "AZN-100", Quantity: 7}))

	cart1, err := repo.GetCart(ctx, "sess-1")
	require.NoError(t, err)
	cart2, err := repo.GetCart(ctx, "sess-2")
	require.NoError(t, err)

	assert.Equal(t, 1, cart1.Items[0].Quantity)
	assert.Equal(t, 7, cart2.Items[0].Quantity)
}

func TestCartUpdateItemQuantity(t *testing.T) {
	repo := setupCartRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddItem(ctx, "sess-1", domain.CartItem{ProductID: primitive.NewObjectID(), SKU: "AZN-100", Quantity: 2}))

	require.NoError(t, repo.UpdateItemQuantity(ctx, "sess-1", "AZN-100", 9))
	cart, err := repo.GetCart(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 9, cart.Items[0].Quantity)

	assert.ErrorIs(t, repo.UpdateItemQuantity(ctx, "sess-1", "GHOST-1", 1), domain.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateItemQuantity(ctx, "sess-none", "AZN-100", 1), domain.ErrNotFound)
}

func TestCartRemoveItem(t *testing.T) {
	repo := setupCartRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddItem(ctx, "sess-1", domain.CartItem{ProductID: primitive.NewObjectID(), SKU: "AZN-100", Quantity: 1}))
	require.NoError(t, repo.AddItem(ctx, "sess-1", domain.CartItem{ProductID: primitive.NewObjectID(), SKU: "EGS-100", Quantity: 1}))

	require.NoError(t, repo.RemoveItem(ctx, "sess-1", "AZN-100"))

	cart, err := repo.GetCart(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "EGS-100", cart.Items[0].SKU)
}

func TestCartDelete(t *testing.T) {
	repo := setupCartRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddItem(ctx, "sess-1", domain.CartItem{ProductID: primitive.NewObjectID(), SKU: "AZN-100", Quantity: 1}))

	require.NoError(t, repo.DeleteCart(ctx, "sess-1"))
	_, err := repo.GetCart(ctx, "sess-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteCart(ctx, "sess-1"), domain.ErrNotFound)
}
