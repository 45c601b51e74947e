package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
)

// CartRepository defines the cart data operations.
type CartRepository interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddItem(ctx context.Context, sessionID string, item domain.CartItem) error
	UpdateItemQuantity(ctx context.Context, sessionID, sku string, quantity int) error
	RemoveItem(ctx context.Context, sessionID, sku string) error
	DeleteCart(ctx context.Context, sessionID string) error
	CreateIndexes(ctx context.Context) error
}

type mongoCartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{
		collection: db.Collection("carts"),
	}
}

func (m *mongoCartRepository) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := withRetry(ctx, func() error {
		return m.collection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&cart)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &cart, nil
}

// AddItem merges duplicate variant references by incrementing the
// existing line in place; a new line is pushed (upserting the cart
// itself) only when no line for the SKU exists yet. The push filter
// requires the SKU to be absent, so two concurrent first adds cannot
// create duplicate lines: the loser trips the unique session index and
// retries as a merge. The merge filter bounds the resulting quantity
// at MaxLineQuantity.
func (m *mongoCartRepository) AddItem(ctx context.Context, sessionID string, item domain.CartItem) error {
	now := time.Now()
	item.AddedAt = now

	merged, err := m.mergeLine(ctx, sessionID, item, now)
	if err != nil || merged {
		return err
	}

	push := bson.M{
		"$push":        bson.M{"items": item},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.Update().SetUpsert(true)
	_, err = m.collection.UpdateOne(ctx,
		bson.M{"session_id": sessionID, "items.sku": bson.M{"$ne": item.SKU}},
		push, opts,
	)
	if err == nil {
		return nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to add cart line: %w", err)
	}

	// The cart exists but the push filter excluded it, meaning the line
	// is already present: either a concurrent add won the race, or the
	// earlier merge was rejected by the quantity bound.
	merged, err = m.mergeLine(ctx, sessionID, item, now)
	if err != nil {
		return err
	}
	if !merged {
		return domain.Invalidf("line quantity for %q may not exceed %d", item.SKU, domain.MaxLineQuantity)
	}
	return nil
}

func (m *mongoCartRepository) mergeLine(ctx context.Context, sessionID string, item domain.CartItem, now time.Time) (bool, error) {
	filter := bson.M{
		"session_id": sessionID,
		"items": bson.M{"$elemMatch": bson.M{
			"sku":      item.SKU,
			"quantity": bson.M{"$lte": domain.MaxLineQuantity - item.Quantity},
		}},
	}
	update := bson.M{
		"$inc": bson.M{"items.$.quantity": item.Quantity},
		"$set": bson.M{"updated_at": now},
	}
	res, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to merge cart line: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (m *mongoCartRepository) UpdateItemQuantity(ctx context.Context, sessionID, sku string, quantity int) error {
	filter := bson.M{
		"session_id": sessionID,
		"items.sku":  sku,
	}
	update := bson.M{
		"$set": bson.M{
			"items.$[elem].quantity": quantity,
			"updated_at":             time.Now(),
		},
	}
	arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"elem.sku": sku}},
	})

	res, err := m.collection.UpdateOne(ctx, filter, update, arrayFilters)
	if err != nil {
		return fmt.Errorf("failed to update cart line: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *mongoCartRepository) RemoveItem(ctx context.Context, sessionID, sku string) error {
	update := bson.M{
		"$pull": bson.M{"items": bson.M{"sku": sku}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := m.collection.UpdateOne(ctx, bson.M{"session_id": sessionID}, update)
	if err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *mongoCartRepository) DeleteCart(ctx context.Context, sessionID string) error {
	res, err := m.collection.DeleteOne(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *mongoCartRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create cart indexes: %w", err)
	}
	return nil
}
