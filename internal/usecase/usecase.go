package usecase

import (
	"context"

	"github.com/DRSN-tech/ecommerce-backend/internal/domain"
)

// ProductUC — операции каталога: товары, остатки, отзывы и изображения.
type ProductUC interface {
	CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListActiveProducts(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
	UpdateStock(ctx context.Context, id string, delta int) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch *ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	AttachImage(ctx context.Context, id string, image *ProductImage) (*domain.Product, error)

	AddReview(ctx context.Context, productID string, req *CreateReviewReq) (*domain.Review, error)
	UpdateReview(ctx context.Context, productID, reviewID string, patch *ReviewPatch) (*domain.Review, error)
	GetReview(ctx context.Context, productID, reviewID string) (*domain.Review, error)
	ListReviews(ctx context.Context, productID string) ([]domain.Review, error)
}

// MaintenanceUC — фоновое обслуживание: сброс кэша, очистка просроченных записей, проверка зависимостей.
type MaintenanceUC interface {
	FlushProductCache(ctx context.Context) (int64, error)
	PurgeExpiredTokens(ctx context.Context) (int64, error)
	CheckHealth(ctx context.Context) []ProbeReport
	CheckComponent(ctx context.Context, component string) (*ProbeReport, error)
}
