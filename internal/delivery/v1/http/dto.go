package http

import (
	"encoding/json"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/domain"
	"github.com/DRSN-tech/ecommerce-backend/internal/usecase"
	"github.com/DRSN-tech/ecommerce-backend/pkg/optional"
	"github.com/shopspring/decimal"
)

// CreateProductRequest — тело POST /products. Цена принимается числом или строкой.
type CreateProductRequest struct {
	Name          string                          `json:"name" example:"Mouse"`
	Description   string                          `json:"description" example:"Wireless mouse"`
	Price         optional.Value[decimal.Decimal] `json:"price" swaggertype:"number" example:"9.99"`
	StockQuantity int                             `json:"stockQuantity" example:"5"`
	Category      string                          `json:"category" example:"Electronics"`
	ImageURL      string                          `json:"imageUrl"`
}

func (r *CreateProductRequest) toUseCase() *usecase.CreateProductReq {
	return usecase.NewCreateProductReq(r.Name, r.Description, r.Price, r.StockQuantity, r.Category, r.ImageURL)
}

type CreateReviewRequest struct {
	UserID  string `json:"userId" example:"u-1"`
	Rating  int    `json:"rating" example:"5"`
	Comment string `json:"comment" example:"Great"`
}

func (r *CreateReviewRequest) toUseCase() *usecase.CreateReviewReq {
	return usecase.NewCreateReviewReq(r.UserID, r.Rating, r.Comment)
}

type ProductResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         json.Number      `json:"price" swaggertype:"number"`
	StockQuantity int              `json:"stockQuantity"`
	Category      string           `json:"category"`
	ImageURL      string           `json:"imageUrl"`
	Active        bool             `json:"active"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
	Reviews       []ReviewResponse `json:"reviews"`
}

type ReviewResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HealthResponse — сводка по всем зависимостям.
type HealthResponse struct {
	Status     usecase.ProbeStatus   `json:"status"`
	Components []usecase.ProbeReport `json:"components"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         json.Number(p.Price.String()),
		StockQuantity: p.StockQuantity,
		Category:      p.Category,
		ImageURL:      p.ImageURL,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Reviews:       toArrReviewResponse(p.Reviews),
	}
}

func toArrProductResponse(products []domain.Product) []ProductResponse {
	res := make([]ProductResponse, len(products))
	for i := range products {
		res[i] = toProductResponse(&products[i])
	}

	return res
}

func toReviewResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toArrReviewResponse(reviews []domain.Review) []ReviewResponse {
	res := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		res[i] = toReviewResponse(&reviews[i])
	}

	return res
}
