package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/domain"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
	"github.com/google/uuid"
)

// auditPublishTimeout ограничивает публикацию, чтобы медленная шина не задерживала ответ.
const auditPublishTimeout = 2 * time.Second

// AuditedProductUC оборачивает ProductUC и публикует событие аудита о каждом вызове.
// Ошибка публикации только логируется и не меняет результат операции.
type AuditedProductUC struct {
	next      ProductUC
	publisher AuditPublisher
	logger    logger.Logger
	now       func() time.Time
	newID     func() string
}

var _ ProductUC = (*AuditedProductUC)(nil)

func NewAuditedProductUC(next ProductUC, publisher AuditPublisher, logger logger.Logger) *AuditedProductUC {
	return &AuditedProductUC{
		next:      next,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (a *AuditedProductUC) CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	start := a.now()
	res, err := a.next.CreateProduct(ctx, req)
	a.publish(ctx, "CreateProduct", start, err)
	return res, err
}

func (a *AuditedProductUC) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	start := a.now()
	res, err := a.next.GetProduct(ctx, id)
	a.publish(ctx, "GetProduct", start, err)
	return res, err
}

func (a *AuditedProductUC) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	start := a.now()
	res, err := a.next.ListActiveProducts(ctx)
	a.publish(ctx, "ListActiveProducts", start, err)
	return res, err
}

func (a *AuditedProductUC) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	start := a.now()
	res, err := a.next.ListByCategory(ctx, category)
	a.publish(ctx, "ListByCategory", start, err)
	return res, err
}

func (a *AuditedProductUC) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	start := a.now()
	res, err := a.next.SearchProducts(ctx, query)
	a.publish(ctx, "SearchProducts", start, err)
	return res, err
}

func (a *AuditedProductUC) UpdateStock(ctx context.Context, id string, delta int) (*domain.Product, error) {
	start := a.now()
	res, err := a.next.UpdateStock(ctx, id, delta)
	a.publish(ctx, "UpdateStock", start, err)
	return res, err
}

func (a *AuditedProductUC) UpdateProduct(ctx context.Context, id string, patch *ProductPatch) (*domain.Product, error) {
	start := a.now()
	res, err := a.next.UpdateProduct(ctx, id, patch)
	a.publish(ctx, "UpdateProduct", start, err)
	return res, err
}

func (a *AuditedProductUC) DeleteProduct(ctx context.Context, id string) error {
	start := a.now()
	err := a.next.DeleteProduct(ctx, id)
	a.publish(ctx, "DeleteProduct", start, err)
	return err
}

func (a *AuditedProductUC) AttachImage(ctx context.Context, id string, image *ProductImage) (*domain.Product, error) {
	start := a.now()
	res, err := a.next.AttachImage(ctx, id, image)
	a.publish(ctx, "AttachImage", start, err)
	return res, err
}

func (a *AuditedProductUC) AddReview(ctx context.Context, productID string, req *CreateReviewReq) (*domain.Review, error) {
	start := a.now()
	res, err := a.next.AddReview(ctx, productID, req)
	a.publish(ctx, "AddReview", start, err)
	return res, err
}

func (a *AuditedProductUC) UpdateReview(ctx context.Context, productID, reviewID string, patch *ReviewPatch) (*domain.Review, error) {
	start := a.now()
	res, err := a.next.UpdateReview(ctx, productID, reviewID, patch)
	a.publish(ctx, "UpdateReview", start, err)
	return res, err
}

func (a *AuditedProductUC) GetReview(ctx context.Context, productID, reviewID string) (*domain.Review, error) {
	start := a.now()
	res, err := a.next.GetReview(ctx, productID, reviewID)
	a.publish(ctx, "GetReview", start, err)
	return res, err
}

func (a *AuditedProductUC) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	start := a.now()
	res, err := a.next.ListReviews(ctx, productID)
	a.publish(ctx, "ListReviews", start, err)
	return res, err
}

// publish отправляет событие, отвязав его от отмены запроса: ответ клиенту уже сформирован.
func (a *AuditedProductUC) publish(ctx context.Context, method string, start time.Time, opErr error) {
	if a.publisher == nil {
		return
	}

	end := a.now()
	event := NewAuditEvent(a.newID(), "ProductUC."+method, end.Sub(start), opErr, end.UTC())

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditPublishTimeout)
	defer cancel()

	if err := a.publisher.PublishAudit(pubCtx, event); err != nil {
		a.logger.Warnf("Failed to publish audit event. method: %s, event_id: %s, error: %v", event.Method, event.EventID, err)
	}
}
