package mongodb

import (
	"context"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// TokenRepo обслуживает коллекцию refresh_tokens, которую заполняет сервис авторизации.
type TokenRepo struct {
	coll *mongo.Collection
}

func NewTokenRepo(db *mongo.Database) *TokenRepo {
	return &TokenRepo{
		coll: db.Collection(TokensCollection),
	}
}

// DeleteExpired удаляет токены с expirationDate раньше before.
func (t *TokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := t.coll.DeleteMany(ctx, bson.M{"expirationDate": bson.M{"$lt": before}})
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return res.DeletedCount, nil
}
