package http

import (
	"context"
	"sync"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/domain"
	"github.com/DRSN-tech/ecommerce-backend/internal/usecase"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/shopspring/decimal"
)

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func mouse() *domain.Product {
	return &domain.Product{
		ID:            "p-1",
		Name:          "Mouse",
		Description:   "Wireless mouse",
		Price:         decimal.RequireFromString("9.99"),
		StockQuantity: 5,
		Category:      "Electronics",
		Active:        true,
		CreatedAt:     testTime,
		UpdatedAt:     testTime,
		Reviews:       []domain.Review{},
	}
}

// fakeProductUC хранит один товар p-1 и запоминает аргументы вызовов.
type fakeProductUC struct {
	product  *domain.Product
	products []domain.Product
	reviews  []domain.Review
	err      error

	createReq   *usecase.CreateProductReq
	patch       *usecase.ProductPatch
	reviewPatch *usecase.ReviewPatch
	image       *usecase.ProductImage
	stockDelta  int
	query       string
	searched    bool
	deleted     string
}

func (f *fakeProductUC) find(id string) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.product == nil || f.product.ID != id {
		return nil, e.Wrap("fake.GetProduct", e.ErrProductNotFound)
	}
	return f.product, nil
}

func (f *fakeProductUC) CreateProduct(_ context.Context, req *usecase.CreateProductReq) (*domain.Product, error) {
	f.createReq = req
	if f.err != nil {
		return nil, f.err
	}
	if err := usecase.ValidateProduct(req); err != nil {
		return nil, err
	}
	return mouse(), nil
}

func (f *fakeProductUC) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	return f.find(id)
}

func (f *fakeProductUC) ListActiveProducts(context.Context) ([]domain.Product, error) {
	return f.products, f.err
}

func (f *fakeProductUC) ListByCategory(_ context.Context, category string) ([]domain.Product, error) {
	f.query = category
	return f.products, f.err
}

func (f *fakeProductUC) SearchProducts(_ context.Context, query string) ([]domain.Product, error) {
	f.query = query
	f.searched = true
	return f.products, f.err
}

func (f *fakeProductUC) UpdateStock(_ context.Context, id string, delta int) (*domain.Product, error) {
	f.stockDelta = delta
	return f.find(id)
}

func (f *fakeProductUC) UpdateProduct(_ context.Context, id string, patch *usecase.ProductPatch) (*domain.Product, error) {
	f.patch = patch
	return f.find(id)
}

func (f *fakeProductUC) DeleteProduct(_ context.Context, id string) error {
	if _, err := f.find(id); err != nil {
		return err
	}
	f.deleted = id
	return nil
}

func (f *fakeProductUC) AttachImage(_ context.Context, id string, image *usecase.ProductImage) (*domain.Product, error) {
	f.image = image
	return f.find(id)
}

func (f *fakeProductUC) AddReview(_ context.Context, productID string, req *usecase.CreateReviewReq) (*domain.Review, error) {
	if _, err := f.find(productID); err != nil {
		return nil, err
	}
	if err := usecase.ValidateReview(req); err != nil {
		return nil, err
	}
	return &domain.Review{ID: "r-1", ProductID: productID, UserID: req.UserID, Rating: req.Rating, Comment: req.Comment, CreatedAt: testTime, UpdatedAt: testTime}, nil
}

func (f *fakeProductUC) UpdateReview(_ context.Context, productID, reviewID string, patch *usecase.ReviewPatch) (*domain.Review, error) {
	f.reviewPatch = patch
	if _, err := f.find(productID); err != nil {
		return nil, err
	}
	return &domain.Review{ID: reviewID, ProductID: productID, UserID: "u-1", Rating: patch.Rating.OrElse(5), Comment: "Great"}, nil
}

func (f *fakeProductUC) GetReview(_ context.Context, productID, reviewID string) (*domain.Review, error) {
	if _, err := f.find(productID); err != nil {
		return nil, err
	}
	for i := range f.reviews {
		if f.reviews[i].ID == reviewID {
			return &f.reviews[i], nil
		}
	}
	return nil, e.ErrReviewNotFound
}

func (f *fakeProductUC) ListReviews(_ context.Context, productID string) ([]domain.Review, error) {
	if _, err := f.find(productID); err != nil {
		return nil, err
	}
	return f.reviews, nil
}

type fakeMaintenanceUC struct {
	reports []usecase.ProbeReport
}

func (f *fakeMaintenanceUC) FlushProductCache(context.Context) (int64, error)  { return 0, nil }
func (f *fakeMaintenanceUC) PurgeExpiredTokens(context.Context) (int64, error) { return 0, nil }

func (f *fakeMaintenanceUC) CheckHealth(context.Context) []usecase.ProbeReport {
	return f.reports
}

func (f *fakeMaintenanceUC) CheckComponent(_ context.Context, component string) (*usecase.ProbeReport, error) {
	for i := range f.reports {
		if f.reports[i].Component == component {
			return &f.reports[i], nil
		}
	}
	return nil, e.Wrap(component, e.ErrUnknownProbe)
}

type observed struct {
	method, route string
	status        int
}

type fakeObserver struct {
	mu    sync.Mutex
	calls []observed
}

func (f *fakeObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, observed{method: method, route: route, status: status})
}
