package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/ecommerce-backend/internal/domain"
	"github.com/DRSN-tech/ecommerce-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

const reviewColumns = `id, product_id, user_id, rating, comment, created_at, updated_at`

// ReviewRepo реализует репозиторий отзывов поверх таблицы reviews.
type ReviewRepo struct {
	db   DBTX
	conv converter.ReviewConverter
}

func NewReviewRepo(db DBTX) *ReviewRepo {
	return &ReviewRepo{
		db: db,
	}
}

func (r *ReviewRepo) Insert(ctx context.Context, review *domain.Review) error {
	m := r.conv.ToModel(review)

	query := `
		INSERT INTO reviews (id, product_id, user_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := r.db.Exec(ctx, query, m.ID, m.ProductID, m.UserID, m.Rating, m.Comment, m.CreatedAt, m.UpdatedAt); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Save обновляет изменяемые поля отзыва. product_id не меняется никогда.
func (r *ReviewRepo) Save(ctx context.Context, review *domain.Review) error {
	m := r.conv.ToModel(review)

	query := `
		UPDATE reviews
		SET user_id = $2, rating = $3, comment = $4, updated_at = $5
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, m.ID, m.UserID, m.Rating, m.Comment, m.UpdatedAt)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
	}

	return nil
}

func (r *ReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	return r.queryOne(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id)
}

func (r *ReviewRepo) GetByProductAndID(ctx context.Context, productID, reviewID string) (*domain.Review, error) {
	return r.queryOne(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1 AND product_id = $2`, reviewID, productID)
}

func (r *ReviewRepo) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE product_id = $1 ORDER BY created_at`, productID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Review, 0)
	for rows.Next() {
		var m converter.ReviewModel
		if err := rows.Scan(&m.ID, &m.ProductID, &m.UserID, &m.Rating, &m.Comment, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *r.conv.ToEntity(&m))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (r *ReviewRepo) queryOne(ctx context.Context, query string, args ...any) (*domain.Review, error) {
	var m converter.ReviewModel
	err := r.db.QueryRow(ctx, query, args...).Scan(&m.ID, &m.ProductID, &m.UserID, &m.Rating, &m.Comment, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrNotFound
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(&m), nil
}
