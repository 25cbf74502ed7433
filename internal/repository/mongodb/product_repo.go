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

const (
	ProductsCollection = "products"
	ReviewsCollection  = "reviews"
	TokensCollection   = "refresh_tokens"
)

// ProductRepo реализует репозиторий товаров поверх коллекции products.
type ProductRepo struct {
	coll *mongo.Collection
	conv converter.ProductConverter
}

func NewProductRepo(db *mongo.Database) *ProductRepo {
	return &ProductRepo{
		coll: db.Collection(ProductsCollection),
	}
}

func (p *ProductRepo) Insert(ctx context.Context, product *domain.Product) error {
	doc, err := p.conv.ToDocument(product)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if _, err := p.coll.InsertOne(ctx, doc); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Save перезаписывает документ товара целиком.
func (p *ProductRepo) Save(ctx context.Context, product *domain.Product) error {
	doc, err := p.conv.ToDocument(product)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	_, err = p.coll.ReplaceOne(ctx, bson.M{"_id": product.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (p *ProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var doc converter.ProductDocument
	if err := p.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, e.ErrNotFound
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	product, err := p.conv.ToEntity(&doc)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return product, nil
}

func (p *ProductRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	return p.find(ctx, bson.M{"active": true})
}

func (p *ProductRepo) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return p.find(ctx, bson.M{"category": category, "active": true})
}

// ListAll возвращает всю коллекцию, включая неактивные товары. Используется поиском.
func (p *ProductRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	return p.find(ctx, bson.M{})
}

func (p *ProductRepo) find(ctx context.Context, filter bson.M) ([]domain.Product, error) {
	cursor, err := p.coll.Find(ctx, filter)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer cursor.Close(ctx)

	var docs []converter.ProductDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	products, err := p.conv.ToArrEntity(docs)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return products, nil
}
