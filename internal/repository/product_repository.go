package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
)

// ProductRepository defines the catalog data operations.
// Consumers define this interface, not the MongoDB implementation.
type ProductRepository interface {
	List(ctx context.Context, filter domain.ProductFilter, page, pageSize int) ([]domain.Product, int64, error)
	Get(ctx context.Context, idOrSlug string) (*domain.Product, error)
	GetByVariantSKU(ctx context.Context, sku string) (*domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AdjustStock(ctx context.Context, id primitive.ObjectID, sku string, delta int) (*domain.Product, error)
	CreateIndexes(ctx context.Context) error
}

type mongoProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{
		collection: db.Collection("products"),
	}
}

func (m *mongoProductRepository) List(ctx context.Context, filter domain.ProductFilter, page, pageSize int) ([]domain.Product, int64, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.InStock != nil {
		query["in_stock"] = *filter.InStock
	}

	var products []domain.Product
	var total int64
	err := withRetry(ctx, func() error {
		count, err := m.collection.CountDocuments(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}

		opts := options.Find().
			SetSkip(int64(page-1) * int64(pageSize)).
			SetLimit(int64(pageSize)).
			SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
		cursor, err := m.collection.Find(ctx, query, opts)
		if err != nil {
			return fmt.Errorf("failed to query products: %w", err)
		}

		products = products[:0]
		if err := cursor.All(ctx, &products); err != nil {
			return fmt.Errorf("failed to decode products: %w", err)
		}
		total = count
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Get resolves a product by hex ObjectID, falling back to slug lookup
// for pretty storefront URLs.
func (m *mongoProductRepository) Get(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	filter := bson.M{"slug": idOrSlug}
	if oid, err := primitive.ObjectIDFromHex(idOrSlug); err == nil {
		filter = bson.M{"_id": oid}
	}
	return m.findOne(ctx, filter)
}

func (m *mongoProductRepository) GetByVariantSKU(ctx context.Context, sku string) (*domain.Product, error) {
	return m.findOne(ctx, bson.M{"variants.sku": sku})
}

func (m *mongoProductRepository) findOne(ctx context.Context, filter bson.M) (*domain.Product, error) {
	var product domain.Product
	err := withRetry(ctx, func() error {
		return m.collection.FindOne(ctx, filter).Decode(&product)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (m *mongoProductRepository) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var products []domain.Product
	err := withRetry(ctx, func() error {
		cursor, err := m.collection.Find(ctx, bson.M{"category": category})
		if err != nil {
			return fmt.Errorf("failed to query category %q: %w", category, err)
		}
		products = products[:0]
		return cursor.All(ctx, &products)
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (m *mongoProductRepository) Create(ctx context.Context, p *domain.Product) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	res, err := m.collection.InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Invalidf("product slug %q already exists", p.Slug)
		}
		return fmt.Errorf("failed to insert product: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (m *mongoProductRepository) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now()

	res, err := m.collection.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Invalidf("product slug %q already exists", p.Slug)
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *mongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustStock changes a variant's inventory by delta in a single
// conditional update. Decrements only match when the variant still
// holds enough stock, so concurrent purchases can never drive the
// quantity negative. Not retried: after an ambiguous network error the
// server may already have applied the increment.
func (m *mongoProductRepository) AdjustStock(ctx context.Context, id primitive.ObjectID, sku string, delta int) (*domain.Product, error) {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["variants"] = bson.M{"$elemMatch": bson.M{
			"sku":           sku,
			"inventory_qty": bson.M{"$gte": -delta},
		}}
	} else {
		filter["variants.sku"] = sku
	}

	update := bson.M{
		"$inc": bson.M{"variants.$[elem].inventory_qty": delta},
		"$set": bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().
		SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"elem.sku": sku}},
		}).
		SetReturnDocument(options.After)

	var updated domain.Product
	err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to adjust stock for %s: %w", sku, err)
	}

	// No match: tell a missing product/variant apart from a short balance.
	checkErr := m.collection.FindOne(ctx, bson.M{"_id": id, "variants.sku": sku}).Err()
	if checkErr != nil {
		if errors.Is(checkErr, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to check variant %s: %w", sku, checkErr)
	}
	return nil, domain.ErrInsufficientStock
}

func (m *mongoProductRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "in_stock", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "variants.sku", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}
