package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/domain"
	"github.com/DRSN-tech/ecommerce-backend/internal/repository/mongodb/converter"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func sampleProduct(id string, active bool) *domain.Product {
	ts := time.Date(2024, 3, 1, 9, 30, 0, 123000000, time.UTC)

	return &domain.Product{
		ID:            id,
		Name:          "Mouse",
		Description:   "Wireless mouse",
		Price:         decimal.RequireFromString("9.99"),
		StockQuantity: 5,
		Category:      "Electronics",
		Active:        active,
		CreatedAt:     ts,
		UpdatedAt:     ts,
		Reviews:       []domain.Review{},
	}
}

// toBSON превращает документ в bson.D для ответа mock-сервера.
func toBSON(t *testing.T, v any) bson.D {
	t.Helper()

	raw, err := bson.Marshal(v)
	require.NoError(t, err)

	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}

func productDoc(t *testing.T, p *domain.Product) bson.D {
	t.Helper()

	doc, err := converter.ProductConverter{}.ToDocument(p)
	require.NoError(t, err)
	return toBSON(t, doc)
}

func TestProductRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	ns := "catalog." + ProductsCollection

	mt.Run("insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := NewProductRepo(mt.DB).Insert(ctx, sampleProduct("P1", true))
		assert.NoError(mt, err)
	})

	mt.Run("insert duplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		err := NewProductRepo(mt.DB).Insert(ctx, sampleProduct("P1", true))
		assert.Error(mt, err)
	})

	mt.Run("get by id", func(mt *mtest.T) {
		want := sampleProduct("P1", true)
		want.Reviews = []domain.Review{{
			ID: "R1", ProductID: "P1", UserID: "u1", Rating: 4, Comment: "ok",
			CreatedAt: want.CreatedAt, UpdatedAt: want.UpdatedAt,
		}}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, productDoc(t, want)))

		got, err := NewProductRepo(mt.DB).GetByID(ctx, "P1")
		require.NoError(mt, err)

		assert.Equal(mt, want.ID, got.ID)
		assert.True(mt, want.Price.Equal(got.Price))
		assert.True(mt, want.CreatedAt.Equal(got.CreatedAt))
		assert.Equal(mt, time.UTC, got.CreatedAt.Location())
		require.Len(mt, got.Reviews, 1)
		assert.Equal(mt, "R1", got.Reviews[0].ID)
	})

	mt.Run("get by id not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := NewProductRepo(mt.DB).GetByID(ctx, "missing")
		assert.ErrorIs(mt, err, e.ErrNotFound)
	})

	mt.Run("list active", func(mt *mtest.T) {
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
			productDoc(t, sampleProduct("P1", true)),
			productDoc(t, sampleProduct("P2", true)),
		)
		last := mtest.CreateCursorResponse(0, ns, mtest.NextBatch)
		mt.AddMockResponses(first, last)

		products, err := NewProductRepo(mt.DB).ListActive(ctx)
		require.NoError(mt, err)
		require.Len(mt, products, 2)
		assert.Equal(mt, "P2", products[1].ID)
	})

	mt.Run("save", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		err := NewProductRepo(mt.DB).Save(ctx, sampleProduct("P1", false))
		assert.NoError(mt, err)
	})

	mt.Run("store failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 91, Name: "ShutdownInProgress", Message: "shutting down",
		}))

		_, err := NewProductRepo(mt.DB).ListByCategory(ctx, "Electronics")
		assert.Error(mt, err)
		assert.NotErrorIs(mt, err, e.ErrNotFound)
	})
}

func TestReviewRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	ns := "catalog." + ReviewsCollection
	ts := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	review := &domain.Review{ID: "R1", ProductID: "P1", UserID: "u1", Rating: 5, Comment: "great", CreatedAt: ts, UpdatedAt: ts}

	mt.Run("insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		assert.NoError(mt, NewReviewRepo(mt.DB).Insert(ctx, review))
	})

	mt.Run("get by product and id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			toBSON(t, converter.ReviewConverter{}.ToDocument(review)),
		))

		got, err := NewReviewRepo(mt.DB).GetByProductAndID(ctx, "P1", "R1")
		require.NoError(mt, err)
		assert.Equal(mt, *review, *got)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := NewReviewRepo(mt.DB).GetByID(ctx, "R404")
		assert.ErrorIs(mt, err, e.ErrNotFound)
	})

	mt.Run("list by product", func(mt *mtest.T) {
		second := *review
		second.ID = "R2"
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
				toBSON(t, converter.ReviewConverter{}.ToDocument(review)),
				toBSON(t, converter.ReviewConverter{}.ToDocument(&second)),
			),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch),
		)

		reviews, err := NewReviewRepo(mt.DB).ListByProduct(ctx, "P1")
		require.NoError(mt, err)
		require.Len(mt, reviews, 2)
		assert.Equal(mt, "R2", reviews[1].ID)
	})
}

func TestTokenRepo_DeleteExpired(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}))

		n, err := NewTokenRepo(mt.DB).DeleteExpired(context.Background(), time.Now())
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)
	})
}

func TestIndexes(t *testing.T) {
	idx := Indexes()

	assert.Len(t, idx[ProductsCollection], 5)
	assert.Len(t, idx[ReviewsCollection], 4)
	assert.Equal(t, bson.D{{Key: "category", Value: 1}, {Key: "active", Value: 1}}, idx[ProductsCollection][3].Keys)
}

func TestHealthProbe(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("up", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(
				bson.E{Key: "version", Value: "7.0.2"},
				bson.E{Key: "connections", Value: bson.D{{Key: "current", Value: int32(4)}, {Key: "available", Value: int32(800)}}},
			),
			mtest.CreateCursorResponse(0, "catalog.$cmd.listCollections", mtest.FirstBatch,
				bson.D{{Key: "name", Value: "reviews"}, {Key: "type", Value: "collection"}},
				bson.D{{Key: "name", Value: "products"}, {Key: "type", Value: "collection"}},
			),
		)

		report, err := NewHealthProbe(mt.DB).Probe(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, "7.0.2", report.Details["version"])
		assert.Equal(mt, "4", report.Details["connections_current"])
		assert.Equal(mt, "products,reviews", report.Details["collections"])
	})

	mt.Run("down", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Name: "Unauthorized", Message: "auth"}))

		_, err := NewHealthProbe(mt.DB).Probe(context.Background())
		assert.Error(mt, err)
	})
}
