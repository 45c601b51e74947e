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

// UserRepository keys users by verified phone number.
type UserRepository interface {
	UpsertByPhone(ctx context.Context, phone string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	AddAddress(ctx context.Context, phone string, addr domain.Address) error
	ListAddresses(ctx context.Context, phone string) ([]domain.Address, error)
	CreateIndexes(ctx context.Context) error
}

type mongoUserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{
		collection: db.Collection("users"),
	}
}

// UpsertByPhone returns the user for a verified phone, creating the
// customer record on first login.
func (m *mongoUserRepository) UpsertByPhone(ctx context.Context, phone string) (*domain.User, error) {
	now := time.Now()
	update := bson.M{
		"$setOnInsert": bson.M{
			"phone":      phone,
			"role":       domain.RoleCustomer,
			"addresses":  []domain.Address{},
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user domain.User
	err := m.collection.FindOneAndUpdate(ctx, bson.M{"phone": phone}, update, opts).Decode(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return &user, nil
}

func (m *mongoUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var user domain.User
	err := withRetry(ctx, func() error {
		return m.collection.FindOne(ctx, bson.M{"phone": phone}).Decode(&user)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (m *mongoUserRepository) AddAddress(ctx context.Context, phone string, addr domain.Address) error {
	if addr.IsDefault {
		// A new default unsets any previous one first.
		_, err := m.collection.UpdateOne(ctx,
			bson.M{"phone": phone},
			bson.M{"$set": bson.M{"addresses.$[].is_default": false}},
		)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("failed to clear default address: %w", err)
		}
	}

	res, err := m.collection.UpdateOne(ctx,
		bson.M{"phone": phone},
		bson.M{"$push": bson.M{"addresses": addr}},
	)
	if err != nil {
		return fmt.Errorf("failed to add address: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *mongoUserRepository) ListAddresses(ctx context.Context, phone string) ([]domain.Address, error) {
	user, err := m.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	return user.Addresses, nil
}

func (m *mongoUserRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}
