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

// OrderRepository is append-only: orders are inserted once and then
// only their status and payment fields move. There is no delete.
type OrderRepository interface {
	Insert(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
	GetByReceipt(ctx context.Context, receipt string) (*domain.Order, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to domain.OrderStatus, payment domain.PaymentStatus) error
	SetGatewayOrder(ctx context.Context, id primitive.ObjectID, gateway, gatewayOrderID string) error
	CreateIndexes(ctx context.Context) error
}

type mongoOrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{
		collection: db.Collection("orders"),
	}
}

func (m *mongoOrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	res, err := m.collection.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

func (m *mongoOrderRepository) Get(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *mongoOrderRepository) GetByReceipt(ctx context.Context, receipt string) (*domain.Order, error) {
	return m.findOne(ctx, bson.M{"receipt": receipt})
}

func (m *mongoOrderRepository) findOne(ctx context.Context, filter bson.M) (*domain.Order, error) {
	var order domain.Order
	err := withRetry(ctx, func() error {
		return m.collection.FindOne(ctx, filter).Decode(&order)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (m *mongoOrderRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.Order, error) {
	var orders []domain.Order
	err := withRetry(ctx, func() error {
		opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
		cursor, err := m.collection.Find(ctx, bson.M{"session_id": sessionID}, opts)
		if err != nil {
			return fmt.Errorf("failed to query orders: %w", err)
		}
		orders = orders[:0]
		return cursor.All(ctx, &orders)
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus advances an order only when its current status still
// matches `from`, so two racing events cannot both apply.
func (m *mongoOrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to domain.OrderStatus, payment domain.PaymentStatus) error {
	set := bson.M{
		"status":     to,
		"updated_at": time.Now(),
	}
	if payment != "" {
		set["payment_status"] = payment
	}

	res, err := m.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		// Either missing or already moved on. Let the caller decide which.
		checkErr := m.collection.FindOne(ctx, bson.M{"_id": id}).Err()
		if errors.Is(checkErr, mongo.ErrNoDocuments) {
			return domain.ErrNotFound
		}
		return domain.Invalidf("order %s is no longer %s", id.Hex(), from)
	}
	return nil
}

func (m *mongoOrderRepository) SetGatewayOrder(ctx context.Context, id primitive.ObjectID, gateway, gatewayOrderID string) error {
	res, err := m.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"payment_gateway":  gateway,
			"gateway_order_id": gatewayOrderID,
			"updated_at":       time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to set gateway order: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *mongoOrderRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "receipt", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}
	return nil
}
