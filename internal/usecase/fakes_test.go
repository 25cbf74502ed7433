package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/domain"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
)

var errStoreDown = errors.New("store is down")

// fakeProductRepo хранит копии товаров в памяти и считает вызовы.
type fakeProductRepo struct {
	mu       sync.Mutex
	items    map[string]*domain.Product
	order    []string
	getCalls int
	saveErr  error
	getErr   error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{items: map[string]*domain.Product{}}
}

func (r *fakeProductRepo) Insert(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[product.ID] = product.Clone()
	r.order = append(r.order, product.ID)
	return nil
}

func (r *fakeProductRepo) Save(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveErr != nil {
		return r.saveErr
	}
	r.items[product.ID] = product.Clone()
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.getCalls++
	if r.getErr != nil {
		return nil, r.getErr
	}

	product, ok := r.items[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	return product.Clone(), nil
}

func (r *fakeProductRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	return r.filter(func(p *domain.Product) bool { return p.Active })
}

func (r *fakeProductRepo) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return r.filter(func(p *domain.Product) bool { return p.Active && p.Category == category })
}

func (r *fakeProductRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	return r.filter(func(p *domain.Product) bool { return true })
}

func (r *fakeProductRepo) filter(keep func(p *domain.Product) bool) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.getErr != nil {
		return nil, r.getErr
	}

	res := make([]domain.Product, 0)
	for _, id := range r.order {
		if p := r.items[id]; keep(p) {
			res = append(res, *p.Clone())
		}
	}
	return res, nil
}

func (r *fakeProductRepo) stored(id string) *domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.items[id].Clone()
}

type fakeReviewRepo struct {
	mu        sync.Mutex
	items     map[string]*domain.Review
	insertErr error
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{items: map[string]*domain.Review{}}
}

func (r *fakeReviewRepo) Insert(_ context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.insertErr != nil {
		return r.insertErr
	}
	cp := *review
	r.items[review.ID] = &cp
	return nil
}

func (r *fakeReviewRepo) Save(_ context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *review
	r.items[review.ID] = &cp
	return nil
}

func (r *fakeReviewRepo) GetByID(_ context.Context, id string) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	review, ok := r.items[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	cp := *review
	return &cp, nil
}

func (r *fakeReviewRepo) GetByProductAndID(ctx context.Context, productID, reviewID string) (*domain.Review, error) {
	review, err := r.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.ProductID != productID {
		return nil, e.ErrNotFound
	}
	return review, nil
}

func (r *fakeReviewRepo) ListByProduct(_ context.Context, productID string) ([]domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]domain.Review, 0)
	for _, review := range r.items {
		if review.ProductID == productID {
			res = append(res, *review)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

// fakeCache хранит снимки в JSON, как настоящий кэш, и умеет имитировать отказы.
type fakeCache struct {
	mu       sync.Mutex
	entries  map[string][]byte
	ttls     map[string]time.Duration
	getErr   error
	setErr   error
	delErr   error
	getCalls int
	delCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.getCalls++
	if c.getErr != nil {
		return nil, c.getErr
	}

	raw, ok := c.entries["product:"+id]
	if !ok {
		return nil, nil
	}

	var product domain.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *fakeCache) SetProduct(_ context.Context, product *domain.Product, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.setErr != nil {
		return c.setErr
	}

	raw, err := json.Marshal(product)
	if err != nil {
		return err
	}
	c.entries["product:"+product.ID] = raw
	c.ttls["product:"+product.ID] = ttl
	return nil
}

func (c *fakeCache) DeleteProduct(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.delCalls++
	if c.delErr != nil {
		return c.delErr
	}
	delete(c.entries, "product:"+id)
	return nil
}

func (c *fakeCache) FlushProducts(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := int64(len(c.entries))
	c.entries = map[string][]byte{}
	return n, nil
}

func (c *fakeCache) has(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries["product:"+id]
	return ok
}

func (c *fakeCache) put(product *domain.Product) {
	raw, _ := json.Marshal(product)

	c.mu.Lock()
	c.entries["product:"+product.ID] = raw
	c.mu.Unlock()
}

type fakeImages struct {
	uploads   []*UploadImageReq
	cleaned   []string
	uploadErr error
}

func (f *fakeImages) UploadImage(_ context.Context, req *UploadImageReq) (*UploadImageRes, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploads = append(f.uploads, req)
	key := fmt.Sprintf("products/%s/image-%d.png", req.ProductID, len(f.uploads))
	return NewUploadImageRes(key, "http://cdn.local/"+key), nil
}

func (f *fakeImages) CleanupImages(keys []string) {
	f.cleaned = append(f.cleaned, keys...)
}

// recordingLogger запоминает сообщения, чтобы проверять, что сбой был залогирован.
type recordingLogger struct {
	mu     sync.Mutex
	warns  []string
	errors []string
}

func (l *recordingLogger) Debugf(string, ...any) {}
func (l *recordingLogger) Infof(string, ...any)  {}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Errorf(err error, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

// sequentialIDs выдаёт предсказуемые идентификаторы P1, P2, ...
func sequentialIDs(prefix string) func() string {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}
