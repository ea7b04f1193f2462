// Package mongorepo stores accounts, catalog items and orders as MongoDB documents.
// Each record is one document, so every write is atomic on its own.
package mongorepo

import (
	"context"
	"fmt"

	"catering_store/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection    = "users"
	ProductsCollection = "products"
	OrdersCollection   = "orders"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

// newID returns the hex form of a fresh ObjectID
func newID() string {
	return primitive.NewObjectID().Hex()
}

// NewStore wires the three collections of db into a repository.Store
func NewStore(client *mongo.Client, db *mongo.Database) *repository.Store {
	return &repository.Store{
		Users:    NewUserRepository(db),
		Products: NewProductRepository(db),
		Orders:   NewOrderRepository(db),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		Close: func() {
			_ = client.Disconnect(context.Background())
		},
	}
}

// EnsureIndexes creates the unique email index and the createdAt sort indexes
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}

	for _, name := range []string{ProductsCollection, OrdersCollection} {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{Keys: newestFirst}); err != nil {
			return fmt.Errorf("failed to create %s createdAt index: %w", name, err)
		}
	}

	if _, err := db.Collection(OrdersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("failed to create orders user index: %w", err)
	}
	return nil
}
