// Package converter переводит доменные сущности в документы MongoDB и обратно.
package converter

import (
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/domain"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductConverter struct{}

func (ProductConverter) ToDocument(p *domain.Product) (*ProductDocument, error) {
	price, err := primitive.ParseDecimal128(p.Price.String())
	if err != nil {
		return nil, err
	}

	reviews := make([]ReviewDocument, len(p.Reviews))
	for i := range p.Reviews {
		reviews[i] = *ReviewConverter{}.ToDocument(&p.Reviews[i])
	}

	return &ProductDocument{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         price,
		StockQuantity: p.StockQuantity,
		Category:      p.Category,
		ImageURL:      p.ImageURL,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Reviews:       reviews,
	}, nil
}

func (ProductConverter) ToEntity(d *ProductDocument) (*domain.Product, error) {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return nil, err
	}

	reviews := make([]domain.Review, len(d.Reviews))
	for i := range d.Reviews {
		reviews[i] = *ReviewConverter{}.ToEntity(&d.Reviews[i])
	}

	return &domain.Product{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		Price:         price,
		StockQuantity: d.StockQuantity,
		Category:      d.Category,
		ImageURL:      d.ImageURL,
		Active:        d.Active,
		CreatedAt:     utc(d.CreatedAt),
		UpdatedAt:     utc(d.UpdatedAt),
		Reviews:       reviews,
	}, nil
}

func (c ProductConverter) ToArrEntity(docs []ProductDocument) ([]domain.Product, error) {
	res := make([]domain.Product, 0, len(docs))
	for i := range docs {
		p, err := c.ToEntity(&docs[i])
		if err != nil {
			return nil, err
		}
		res = append(res, *p)
	}

	return res, nil
}

type ReviewConverter struct{}

func (ReviewConverter) ToDocument(r *domain.Review) *ReviewDocument {
	return &ReviewDocument{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (ReviewConverter) ToEntity(d *ReviewDocument) *domain.Review {
	return &domain.Review{
		ID:        d.ID,
		ProductID: d.ProductID,
		UserID:    d.UserID,
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: utc(d.CreatedAt),
		UpdatedAt: utc(d.UpdatedAt),
	}
}

func (c ReviewConverter) ToArrEntity(docs []ReviewDocument) []domain.Review {
	res := make([]domain.Review, 0, len(docs))
	for i := range docs {
		res = append(res, *c.ToEntity(&docs[i]))
	}

	return res
}

// utc приводит время из драйвера (он возвращает local) к UTC, как его проставляет usecase.
func utc(t time.Time) time.Time {
	return t.UTC()
}
