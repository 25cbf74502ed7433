// Package converter переводит товар в снимок для кэша и обратно.
package converter

import (
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductRedisModel — JSON-снимок товара целиком, вместе со встроенными отзывами.
type ProductRedisModel struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Price         string             `json:"price"`
	StockQuantity int                `json:"stockQuantity"`
	Category      string             `json:"category"`
	ImageURL      string             `json:"imageUrl,omitempty"`
	Active        bool               `json:"active"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
	Reviews       []ReviewRedisModel `json:"reviews"`
}

type ReviewRedisModel struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProductConverter struct{}

func (ProductConverter) ToRedisModel(p *domain.Product) *ProductRedisModel {
	reviews := make([]ReviewRedisModel, len(p.Reviews))
	for i, r := range p.Reviews {
		reviews[i] = ReviewRedisModel{
			ID:        r.ID,
			ProductID: r.ProductID,
			UserID:    r.UserID,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		}
	}

	return &ProductRedisModel{
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
		Reviews:       reviews,
	}
}

// ToDomain восстанавливает товар. Ошибка означает испорченный снимок.
func (ProductConverter) ToDomain(m *ProductRedisModel) (*domain.Product, error) {
	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return nil, err
	}

	reviews := make([]domain.Review, len(m.Reviews))
	for i, r := range m.Reviews {
		reviews[i] = domain.Review{
			ID:        r.ID,
			ProductID: r.ProductID,
			UserID:    r.UserID,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		}
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
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		Reviews:       reviews,
	}, nil
}
