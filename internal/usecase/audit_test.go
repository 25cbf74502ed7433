package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []*AuditEvent
	err    error
}

func (p *fakePublisher) PublishAudit(_ context.Context, event *AuditEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)
	return p.err
}

func newAudited(t *testing.T, pub AuditPublisher) (*AuditedProductUC, *ucFixture) {
	t.Helper()

	f := newFixture(t)
	a := NewAuditedProductUC(f.uc, pub, f.log)

	tick := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	a.now = func() time.Time {
		tick = tick.Add(25 * time.Millisecond)
		return tick
	}
	a.newID = sequentialIDs("E")

	return a, f
}

func TestAudited_PublishesSuccessAndError(t *testing.T) {
	pub := &fakePublisher{}
	a, _ := newAudited(t, pub)
	ctx := context.Background()

	product, err := a.CreateProduct(ctx, validProductReq())
	require.NoError(t, err)

	_, err = a.GetProduct(ctx, "missing")
	require.ErrorIs(t, err, e.ErrNotFound)

	require.Len(t, pub.events, 2)

	ok := pub.events[0]
	assert.Equal(t, "E1", ok.EventID)
	assert.Equal(t, "ProductUC.CreateProduct", ok.Method)
	assert.Equal(t, AuditSuccess, ok.Status)
	assert.Empty(t, ok.Error)
	assert.Equal(t, int64(25), ok.ExecutionTime)
	assert.NotEmpty(t, product.ID)

	failed := pub.events[1]
	assert.Equal(t, "ProductUC.GetProduct", failed.Method)
	assert.Equal(t, AuditError, failed.Status)
	assert.Contains(t, failed.Error, "not found")
}

func TestAudited_PublishFailureDoesNotFailOperation(t *testing.T) {
	pub := &fakePublisher{err: errors.New("kafka: broker unavailable")}
	a, f := newAudited(t, pub)

	_, err := a.CreateProduct(context.Background(), validProductReq())

	require.NoError(t, err)
	assert.Len(t, pub.events, 1)
	require.Len(t, f.log.warns, 1)
	assert.Contains(t, f.log.warns[0], "ProductUC.CreateProduct")
}

func TestAudited_NilPublisherIsPassThrough(t *testing.T) {
	a, f := newAudited(t, nil)
	ctx := context.Background()

	product, err := a.CreateProduct(ctx, validProductReq())
	require.NoError(t, err)
	require.NoError(t, a.DeleteProduct(ctx, product.ID))

	assert.False(t, f.products.stored(product.ID).Active)
}

func TestAudited_CoversEveryOperation(t *testing.T) {
	pub := &fakePublisher{}
	a, _ := newAudited(t, pub)
	ctx := context.Background()

	product, err := a.CreateProduct(ctx, validProductReq())
	require.NoError(t, err)
	_, _ = a.GetProduct(ctx, product.ID)
	_, _ = a.ListActiveProducts(ctx)
	_, _ = a.ListByCategory(ctx, "Electronics")
	_, _ = a.SearchProducts(ctx, "mouse")
	_, _ = a.UpdateStock(ctx, product.ID, 1)
	_, _ = a.UpdateProduct(ctx, product.ID, &ProductPatch{})
	_, _ = a.AttachImage(ctx, product.ID, NewProductImage([]byte("img"), "image/png", "a.png"))
	review, err := a.AddReview(ctx, product.ID, NewCreateReviewReq("u1", 5, "ok"))
	require.NoError(t, err)
	_, _ = a.UpdateReview(ctx, product.ID, review.ID, &ReviewPatch{})
	_, _ = a.GetReview(ctx, product.ID, review.ID)
	_, _ = a.ListReviews(ctx, product.ID)
	_ = a.DeleteProduct(ctx, product.ID)

	methods := make([]string, 0, len(pub.events))
	for _, ev := range pub.events {
		methods = append(methods, ev.Method)
	}

	assert.Equal(t, []string{
		"ProductUC.CreateProduct",
		"ProductUC.GetProduct",
		"ProductUC.ListActiveProducts",
		"ProductUC.ListByCategory",
		"ProductUC.SearchProducts",
		"ProductUC.UpdateStock",
		"ProductUC.UpdateProduct",
		"ProductUC.AttachImage",
		"ProductUC.AddReview",
		"ProductUC.UpdateReview",
		"ProductUC.GetReview",
		"ProductUC.ListReviews",
		"ProductUC.DeleteProduct",
	}, methods)
}
