package pgdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/domain"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productCols = []string{"id", "name", "description", "price", "stock_quantity", "category", "image_url", "active", "created_at", "updated_at", "reviews"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})

	return mock
}

func TestProductRepo_Insert(t *testing.T) {
	mock := newMock(t)
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	product := &domain.Product{
		ID: "P1", Name: "Mouse", Description: "Wireless", Price: decimal.RequireFromString("9.99"),
		StockQuantity: 5, Category: "Electronics", Active: true, CreatedAt: ts, UpdatedAt: ts,
		Reviews: []domain.Review{},
	}

	mock.ExpectExec("INSERT INTO products").
		WithArgs("P1", "Mouse", "Wireless", "9.99", 5, "Electronics", "", true, ts, ts, []byte("[]")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewProductRepo(mock).Insert(context.Background(), product))
}

func TestProductRepo_GetByID(t *testing.T) {
	mock := newMock(t)
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	reviews := []byte(`[{"id":"R1","productId":"P1","userId":"u1","rating":5,"comment":"great","createdAt":"2024-03-01T12:00:00Z","updatedAt":"2024-03-01T12:00:00Z"}]`)

	mock.ExpectQuery(`SELECT (.+) FROM products WHERE id = \$1`).
		WithArgs("P1").
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow("P1", "Mouse", "Wireless", "9.99", 5, "Electronics", "", true, ts, ts, reviews))

	got, err := NewProductRepo(mock).GetByID(context.Background(), "P1")
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("9.99").Equal(got.Price))
	assert.True(t, got.Active)
	require.Len(t, got.Reviews, 1)
	assert.Equal(t, "great", got.Reviews[0].Comment)
	assert.True(t, ts.Equal(got.Reviews[0].CreatedAt))
}

func TestProductRepo_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM products WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewProductRepo(mock).GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestProductRepo_ListByCategory(t *testing.T) {
	mock := newMock(t)
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM products WHERE category = \$1 AND active = true`).
		WithArgs("Electronics").
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow("P1", "Mouse", "Wireless", "9.99", 5, "Electronics", "", true, ts, ts, []byte("[]")).
			AddRow("P2", "Keyboard", "Mechanical", "49.00", 1, "Electronics", "", true, ts, ts, []byte("[]")))

	products, err := NewProductRepo(mock).ListByCategory(context.Background(), "Electronics")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Keyboard", products[1].Name)
	assert.NotNil(t, products[1].Reviews)
}

func TestProductRepo_SaveFailure(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec("ON CONFLICT \\(id\\)").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	err := NewProductRepo(mock).Save(context.Background(), &domain.Product{ID: "P1", Price: decimal.Zero})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, e.ErrNotFound)
}

func TestReviewRepo(t *testing.T) {
	mock := newMock(t)
	ctx := context.Background()
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cols := []string{"id", "product_id", "user_id", "rating", "comment", "created_at", "updated_at"}

	mock.ExpectQuery(`FROM reviews WHERE id = \$1 AND product_id = \$2`).
		WithArgs("R1", "P1").
		WillReturnRows(pgxmock.NewRows(cols).AddRow("R1", "P1", "u1", 5, "great", ts, ts))

	review, err := NewReviewRepo(mock).GetByProductAndID(ctx, "P1", "R1")
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)

	mock.ExpectExec("UPDATE reviews").
		WithArgs("R1", "u1", 4, "great", ts).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	review.Rating = 4
	err = NewReviewRepo(mock).Save(ctx, review)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestTokenRepo_DeleteExpired(t *testing.T) {
	mock := newMock(t)
	before := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("DELETE FROM refresh_tokens").
		WithArgs(before).
		WillReturnResult(pgxmock.NewResult("DELETE", 7))

	n, err := NewTokenRepo(mock).DeleteExpired(context.Background(), before)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestHealthProbe(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery("server_version").
		WillReturnRows(pgxmock.NewRows([]string{"version", "count"}).AddRow("16.2", int64(3)))

	report, err := NewHealthProbe(mock).Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "16.2", report.Details["version"])
	assert.Equal(t, "3", report.Details["connections_current"])
}
