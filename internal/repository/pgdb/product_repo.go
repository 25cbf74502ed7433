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

const productColumns = `id, name, description, price::text, stock_quantity, category, image_url, active, created_at, updated_at, reviews`

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	db   DBTX
	conv converter.ProductConverter
}

func NewProductRepo(db DBTX) *ProductRepo {
	return &ProductRepo{
		db: db,
	}
}

func (p *ProductRepo) Insert(ctx context.Context, product *domain.Product) error {
	model, err := p.conv.ToModel(product)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO products (id, name, description, price, stock_quantity, category, image_url, active, created_at, updated_at, reviews)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10, $11::jsonb)
	`

	_, err = p.db.Exec(ctx, query,
		model.ID, model.Name, model.Description, model.Price, model.StockQuantity,
		model.Category, model.ImageURL, model.Active, model.CreatedAt, model.UpdatedAt, model.Reviews,
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Save перезаписывает товар целиком, включая встроенные отзывы.
func (p *ProductRepo) Save(ctx context.Context, product *domain.Product) error {
	model, err := p.conv.ToModel(product)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO products (id, name, description, price, stock_quantity, category, image_url, active, created_at, updated_at, reviews)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10, $11::jsonb)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			stock_quantity = EXCLUDED.stock_quantity,
			category = EXCLUDED.category,
			image_url = EXCLUDED.image_url,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at,
			reviews = EXCLUDED.reviews
	`

	_, err = p.db.Exec(ctx, query,
		model.ID, model.Name, model.Description, model.Price, model.StockQuantity,
		model.Category, model.ImageURL, model.Active, model.CreatedAt, model.UpdatedAt, model.Reviews,
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (p *ProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var m converter.ProductModel
	err := p.db.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.Description, &m.Price, &m.StockQuantity,
		&m.Category, &m.ImageURL, &m.Active, &m.CreatedAt, &m.UpdatedAt, &m.Reviews,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrNotFound
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	product, err := p.conv.ToEntity(&m)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return product, nil
}

func (p *ProductRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	return p.query(ctx, `SELECT `+productColumns+` FROM products WHERE active = true ORDER BY created_at`)
}

func (p *ProductRepo) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return p.query(ctx, `SELECT `+productColumns+` FROM products WHERE category = $1 AND active = true ORDER BY created_at`, category)
}

func (p *ProductRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	return p.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at`)
}

func (p *ProductRepo) query(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		var m converter.ProductModel
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Description, &m.Price, &m.StockQuantity,
			&m.Category, &m.ImageURL, &m.Active, &m.CreatedAt, &m.UpdatedAt, &m.Reviews,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		product, err := p.conv.ToEntity(&m)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
