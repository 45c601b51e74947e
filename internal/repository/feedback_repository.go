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

// FeedbackRepository stores customer contact-form entries.
type FeedbackRepository interface {
	Create(ctx context.Context, f *domain.Feedback) error
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Feedback, error)
	List(ctx context.Context, filter domain.FeedbackFilter, page, pageSize int) ([]domain.Feedback, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.FeedbackStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CreateIndexes(ctx context.Context) error
}

type mongoFeedbackRepository struct {
	collection *mongo.Collection
}

func NewFeedbackRepository(db *mongo.Database) FeedbackRepository {
	return &mongoFeedbackRepository{
		collection: db.Collection("feedback"),
	}
}

func (m *mongoFeedbackRepository) Create(ctx context.Context, f *domain.Feedback) error {
	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now
	if f.Status == "" {
		f.Status = domain.FeedbackPending
	}

	res, err := m.collection.InsertOne(ctx, f)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		f.ID = oid
	}
	return nil
}

func (m *mongoFeedbackRepository) Get(ctx context.Context, id primitive.ObjectID) (*domain.Feedback, error) {
	var feedback domain.Feedback
	err := withRetry(ctx, func() error {
		return m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&feedback)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return &feedback, nil
}

// List returns newest entries first.
func (m *mongoFeedbackRepository) List(ctx context.Context, filter domain.FeedbackFilter, page, pageSize int) ([]domain.Feedback, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.ProductID != "" {
		query["product_id"] = filter.ProductID
	}

	var entries []domain.Feedback
	var total int64
	err := withRetry(ctx, func() error {
		count, err := m.collection.CountDocuments(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to count feedback: %w", err)
		}

		opts := options.Find().
			SetSkip(int64(page-1) * int64(pageSize)).
			SetLimit(int64(pageSize)).
			SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
		cursor, err := m.collection.Find(ctx, query, opts)
		if err != nil {
			return fmt.Errorf("failed to query feedback: %w", err)
		}

		entries = entries[:0]
		if err := cursor.All(ctx, &entries); err != nil {
			return fmt.Errorf("failed to decode feedback: %w", err)
		}
		total = count
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (m *mongoFeedbackRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.FeedbackStatus) error {
	if !status.Valid() {
		return domain.Invalidf("invalid feedback status %q", status)
	}

	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}}
	res, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update feedback status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *mongoFeedbackRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *mongoFeedbackRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "product_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create feedback indexes: %w", err)
	}
	return nil
}
