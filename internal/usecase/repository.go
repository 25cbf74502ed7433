package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/domain"
)

// ProductRepository — коллекция товаров документного хранилища.
// Отсутствующая запись возвращается как e.ErrNotFound.
type ProductRepository interface {
	Insert(ctx context.Context, product *domain.Product) error
	Save(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	ListActive(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	ListAll(ctx context.Context) ([]domain.Product, error)
}

// ReviewRepository — отдельная коллекция отзывов.
type ReviewRepository interface {
	Insert(ctx context.Context, review *domain.Review) error
	Save(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	GetByProductAndID(ctx context.Context, productID, reviewID string) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
}

// TokenRepository хранит refresh-токены, выпущенные внешним сервисом авторизации.
type TokenRepository interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// CacheRepository — кэш снимков товаров.
// GetProduct возвращает (nil, nil) при промахе.
type CacheRepository interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, id string) error
	FlushProducts(ctx context.Context) (int64, error)
}

// ImageRepository — объектное хранилище изображений товаров.
type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, bucket, key string) error
}
