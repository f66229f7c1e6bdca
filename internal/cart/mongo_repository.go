package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

type mongoRepository struct {
	collection *mongo.Collection
}

// NewMongoRepository stores carts in the "carts" collection of db.
func NewMongoRepository(db *mongo.Database) Repository {
	return mongoRepository{collection: db.Collection("carts")}
}

func (m mongoRepository) Get(ctx context.Context, sessionKey string) (*models.Cart, error) {
	var cart models.Cart

	filter := bson.M{"sessionKey": sessionKey}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		var decodeErr *bsoncodec.DecodeError
		if errors.As(err, &decodeErr) {
			return nil, fmt.Errorf("%w: %v", ErrCartCorrupt, err)
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

func (m mongoRepository) Upsert(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	filter := bson.M{"sessionKey": cart.SessionKey}
	update := bson.M{"$set": cart}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}
	return nil
}

func (m mongoRepository) Delete(ctx context.Context, sessionKey string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"sessionKey": sessionKey}); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
