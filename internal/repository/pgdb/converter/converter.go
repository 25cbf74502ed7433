// Package converter переводит доменные сущности в записи PostgreSQL и обратно.
package converter

import (
	"encoding/json"

	"github.com/DRSN-tech/ecommerce-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter struct{}

func (ProductConverter) ToModel(p *domain.Product) (*ProductModel, error) {
	reviews := make([]ReviewModel, len(p.Reviews))
	for i := range p.Reviews {
		reviews[i] = *ReviewConverter{}.ToModel(&p.Reviews[i])
	}

	raw, err := json.Marshal(reviews)
	if err != nil {
		return nil, err
	}

	return &ProductModel{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price.String(),
		StockQuantity: p.StockQuantity,
		Category:      p.Category,
		ImageURL:      p.ImageURL,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Reviews:       raw,
	}, nil
}

func (ProductConverter) ToEntity(m *ProductModel) (*domain.Product, error) {
	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return nil, err
	}

	var models []ReviewModel
	if len(m.Reviews) > 0 {
		if err := json.Unmarshal(m.Reviews, &models); err != nil {
			return nil, err
		}
	}

	reviews := make([]domain.Review, len(models))
	for i := range models {
		reviews[i] = *ReviewConverter{}.ToEntity(&models[i])
	}

	return &domain.Product{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		Price:         price,
		StockQuantity: m.StockQuantity,
		Category:      m.Category,
		ImageURL:      m.ImageURL,
		Active:        m.Active,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
		Reviews:       reviews,
	}, nil
}

// ReviewConverter преобразует сущности Review между domain и моделью PostgreSQL.
type ReviewConverter struct{}

func (ReviewConverter) ToModel(r *domain.Review) *ReviewModel {
	return &ReviewModel{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (ReviewConverter) ToEntity(m *ReviewModel) *domain.Review {
	return &domain.Review{
		ID:        m.ID,
		ProductID: m.ProductID,
		UserID:    m.UserID,
		Rating:    m.Rating,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}
