package mongodb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/ecommerce-backend/internal/domain"
	"github.com/DRSN-tech/ecommerce-backend/internal/repository/mongodb/converter"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReviewRepo реализует репозиторий отзывов поверх коллекции reviews.
type ReviewRepo struct {
	coll *mongo.Collection
	conv converter.ReviewConverter
}

func NewReviewRepo(db *mongo.Database) *ReviewRepo {
	return &ReviewRepo{
		coll: db.Collection(ReviewsCollection),
	}
}

func (r *ReviewRepo) Insert(ctx context.Context, review *domain.Review) error {
	if _, err := r.coll.InsertOne(ctx, r.conv.ToDocument(review)); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *ReviewRepo) Save(ctx context.Context, review *domain.Review) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": review.ID}, r.conv.ToDocument(review), options.Replace().SetUpsert(true))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *ReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ReviewRepo) GetByProductAndID(ctx context.Context, productID, reviewID string) (*domain.Review, error) {
	return r.findOne(ctx, bson.M{"_id": reviewID, "productId": productID})
}

// ListByProduct возвращает отзывы товара в порядке создания.
func (r *ReviewRepo) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"productId": productID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer cursor.Close(ctx)

	var docs []converter.ReviewDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToArrEntity(docs), nil
}

func (r *ReviewRepo) findOne(ctx context.Context, filter bson.M) (*domain.Review, error) {
	var doc converter.ReviewDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, e.ErrNotFound
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(&doc), nil
}
