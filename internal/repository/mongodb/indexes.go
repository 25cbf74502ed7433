package mongodb

import (
	"context"

	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Indexes — индексы коллекций каталога по коллекциям.
func Indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		ProductsCollection: {
			{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "active", Value: 1}}},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "active", Value: 1}}},
			{Keys: bson.D{{Key: "stockQuantity", Value: 1}}},
		},
		ReviewsCollection: {
			{Keys: bson.D{{Key: "productId", Value: 1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "productId", Value: 1}, {Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "rating", Value: 1}}},
		},
		TokensCollection: {
			{Keys: bson.D{{Key: "expirationDate", Value: 1}}},
		},
	}
}

// EnsureIndexes создаёт индексы. Повторный вызов с теми же ключами ничего не меняет.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, name := range []string{ProductsCollection, ReviewsCollection, TokensCollection} {
		_, err := db.Collection(name).Indexes().CreateMany(ctx, Indexes()[name], options.CreateIndexes())
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return nil
}
