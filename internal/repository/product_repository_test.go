package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
)

func setupTestDB(t *testing.T) *mongo.Database {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)
	return db
}

func setupProductRepo(t *testing.T) ProductRepository {
	repo := NewProductRepository(setupTestDB(t))
	require.NoError(t, repo.CreateIndexes(context.Background()))
	return repo
}

func newTeaProduct(slug, sku string, qty int) *domain.Product {
	return &domain.Product{
		Slug:     slug,
		Name:     "Tea " + slug,
		Price:    domain.MoneyFromInt(399),
		Category: "Black Tea",
		InStock:  true,
		Variants: []domain.Variant{
			{ID: 1, PackSizeG: 100, Price: domain.MoneyFromInt(399), MRP: domain.MoneyFromInt(449), SKU: sku, InventoryQty: qty},
		},
	}
}

func TestProductCreateAndGet(t *testing.T) {
	repo := setupProductRepo(t)
	ctx := context.Background()

	p := newTeaProduct("earl-grey-supreme", "EGS-100", 30)
	require.NoError(t, repo.Create(ctx, p))
	require.False(t, p.ID.IsZero())

	bySlug, err := repo.Get(ctx, "earl-grey-supreme")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySlug.ID)
	assert.True(t, bySlug.Price.Equal(p.Price.Decimal), "price survives the Decimal128 round trip")

	byID, err := repo.Get(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "earl-grey-supreme", byID.Slug)
}

func TestProductGet_NotFound(t *testing.T) {
	repo := setupProductRepo(t)

	_, err := repo.Get(context.Background(), "no-such-tea")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.Get(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductCreate_DuplicateSlug(t *testing.T) {
	repo := setupProductRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTeaProduct("earl-grey-supreme", "EGS-100", 30)))

	err := repo.Create(ctx, newTeaProduct("earl-grey-supreme", "EGS-200", 10))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProductGetByVariantSKU(t *testing.T) {
	repo := setupProductRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTeaProduct("earl-grey-supreme", "EGS-100", 30)))

	p, err := repo.GetByVariantSKU(ctx, "EGS-100")
	require.NoError(t, err)
	assert.Equal(t, "earl-grey-supreme", p.Slug)

	_, err = repo.GetByVariantSKU(ctx, "GHOST-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductList_PaginationAndFilter(t *testing.T) {
	repo := setupProductRepo(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		p := newTeaProduct(fmt.Sprintf("tea-%02d", i), fmt.Sprintf("TEA-%02d", i), 10)
		if i%5 == 0 {
			p.Category = "Green Tea"
		}
		if i >= 20 {
			p.InStock = false
		}
		require.NoError(t, repo.Create(ctx, p))
	}

	page1, total, err := repo.List(ctx, domain.ProductFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, page1, 10)

	page3, _, err := repo.List(ctx, domain.ProductFilter{}, 3, 10)
	require.NoError(t, err)
	assert.Len(t, page3, 5)

	green, total, err := repo.List(ctx, domain.ProductFilter{Category: "Green Tea"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, green, 5)

	inStock := true
	active, total, err := repo.List(ctx, domain.ProductFilter{InStock: &inStock}, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(20), total)
	assert.Len(t, active, 20)
}

func TestProductUpdateAndDelete(t *testing.T) {
	repo := setupProductRepo(t)
	ctx := context.Background()

	p := newTeaProduct("earl-grey-supreme", "EGS-100", 30)
	require.NoError(t, repo.Create(ctx, p))

	p.Name = "Earl Grey Imperial"
	p.Price = domain.MoneyFromInt(449)
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.Get(ctx, p.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Earl Grey Imperial", got.Name)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.Get(ctx, p.Slug)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, p.ID), domain.ErrNotFound)
}

func TestAdjustStock_DecrementAndIncrement(t *testing.T) {
	repo := setupProductRepo(t)
	ctx := context.Background()

	p := newTeaProduct("earl-grey-supreme", "EGS-100", 30)
	require.NoError(t, repo.Create(ctx, p))

	updated, err := repo.AdjustStock(ctx, p.ID, "EGS-100", -12)
	require.NoError(t, err)
	v, ok := updated.Variant("EGS-100")
	require.True(t, ok)
	assert.Equal(t, 18, v.InventoryQty)

	updated, err = repo.AdjustStock(ctx, p.ID, "EGS-100", 5)
	require.NoError(t, err)
	v, _ = updated.Variant("EGS-100")
	assert.Equal(t, 23, v.InventoryQty)
}

func TestAdjustStock_InsufficientStock(t *testing.T) {
	repo := setupProductRepo(t)
	ctx := context.Background()

	p := newTeaProduct("earl-grey-supreme", "EGS-100", 3)
	require.NoError(t, repo.Create(ctx, p))

	_, err := repo.AdjustStock(ctx, p.ID, "EGS-100", -4)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := repo.Get(ctx, p.Slug)
	require.NoError(t, err)
	v, _ := got.Variant("EGS-100")
	assert.Equal(t, 3, v.InventoryQty, "a rejected decrement leaves stock untouched")

	// Draining to exactly zero is allowed.
	_, err = repo.AdjustStock(ctx, p.ID, "EGS-100", -3)
	require.NoError(t, err)
}

func TestAdjustStock_UnknownTargets(t *testing.T) {
	repo := setupProductRepo(t)
	ctx := context.Background()

	p := newTeaProduct("earl-grey-supreme", "EGS-100", 3)
	require.NoError(t, repo.Create(ctx, p))

	_, err := repo.AdjustStock(ctx, primitive.NewObjectID(), "EGS-100", -1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.AdjustStock(ctx, p.ID, "GHOST-1", -1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustStock_ConcurrentDecrementsNeverOversell(t *testing.T) {
	repo := setupProductRepo(t)
	ctx := context.Background()

	p := newTeaProduct("earl-grey-supreme", "EGS-100", 10)
	require.NoError(t, repo.Create(ctx, p))

	const buyers = 30
	var wg sync.WaitGroup
	errs := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AdjustStock(ctx, p.ID, "EGS-100", -1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 10, succeeded)

	got, err := repo.Get(ctx, p.Slug)
	require.NoError(t, err)
	v, _ := got.Variant("EGS-100")
	assert.Equal(t, 0, v.InventoryQty)
}
