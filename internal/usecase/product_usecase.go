package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/domain"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
	"github.com/DRSN-tech/ecommerce-backend/pkg/optional"
	"github.com/google/uuid"
)

// DefaultProductTTL — время жизни снимка товара в кэше, если в конфиге не задано иное.
const DefaultProductTTL = time.Hour

// ProductUseCase реализует каталог товаров поверх документного хранилища с кэшем по схеме cache-aside.
// Хранилище — источник истины, кэш только ускоряет чтение и никогда не обновляется частично:
// любая мутация удаляет снимок товара.
type ProductUseCase struct {
	productRepo ProductRepository
	reviewRepo  ReviewRepository
	cacheRepo   CacheRepository
	imagesInfra ImagesInfra
	logger      logger.Logger
	productTTL  time.Duration
	now         func() time.Time
	newID       func() string
}

func NewProductUC(
	productRepo ProductRepository,
	reviewRepo ReviewRepository,
	cacheRepo CacheRepository,
	imagesInfra ImagesInfra,
	logger logger.Logger,
	productTTL time.Duration,
) *ProductUseCase {
	if productTTL <= 0 {
		productTTL = DefaultProductTTL
	}

	return &ProductUseCase{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		cacheRepo:   cacheRepo,
		imagesInfra: imagesInfra,
		logger:      logger,
		productTTL:  productTTL,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// CreateProduct проверяет запрос и сохраняет новый активный товар. Кэш не трогается.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	if err := ValidateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	price, _ := req.Price.Get()
	product := domain.NewProduct(
		strings.TrimSpace(req.Name),
		req.Description,
		price,
		req.StockQuantity,
		strings.TrimSpace(req.Category),
		req.ImageURL,
	)
	product.ID = p.newID()
	product.Active = true
	product.CreatedAt = p.timestamp()
	product.UpdatedAt = product.CreatedAt

	if err := p.productRepo.Insert(ctx, product); err != nil {
		return nil, e.Wrap(op, e.Internal(err))
	}

	p.logger.Infof("Product created. product_id: %s, name: %s", product.ID, product.Name)
	return product, nil
}

// GetProduct возвращает активный товар: сначала из кэша, при промахе из хранилища с записью в кэш.
// Неактивный товар не отдаётся никогда, даже если его снимок остался в кэше.
func (p *ProductUseCase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	const op = "ProductUseCase.GetProduct"

	cached, err := p.cacheRepo.GetProduct(ctx, id)
	if err != nil {
		p.logger.Warnf("Cache read failed, falling back to store. product_id: %s, error: %v", id, e.Wrap(op, err))
		cached = nil
	}

	if cached != nil {
		if !cached.Active {
			return nil, e.Wrap(op, e.ErrProductNotFound)
		}

		return cached, nil
	}

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.Wrap(op, e.ErrProductNotFound)
		}

		return nil, e.Wrap(op, e.Internal(err))
	}

	if !product.Active {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	if err := p.cacheRepo.SetProduct(ctx, product, p.productTTL); err != nil {
		p.logger.Warnf("Failed to cache product. product_id: %s, error: %v", id, e.Wrap(op, err))
	}

	return product, nil
}

// ListActiveProducts возвращает все активные товары напрямую из хранилища.
func (p *ProductUseCase) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductUseCase.ListActiveProducts"

	products, err := p.productRepo.ListActive(ctx)
	if err != nil {
		return nil, e.Wrap(op, e.Internal(err))
	}

	return products, nil
}

func (p *ProductUseCase) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	const op = "ProductUseCase.ListByCategory"

	products, err := p.productRepo.ListByCategory(ctx, category)
	if err != nil {
		return nil, e.Wrap(op, e.Internal(err))
	}

	return products, nil
}

// SearchProducts ищет подстроку без учёта регистра в названии, описании или категории активных товаров.
// Запрос не обрезается: пустая строка совпадает с любым активным товаром.
func (p *ProductUseCase) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	const op = "ProductUseCase.SearchProducts"

	needle := strings.ToLower(query)

	all, err := p.productRepo.ListAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, e.Internal(err))
	}

	found := make([]domain.Product, 0)
	for _, product := range all {
		if product.Active && matches(&product, needle) {
			found = append(found, product)
		}
	}

	return found, nil
}

// UpdateStock списывает delta единиц со склада. Операция не идемпотентна:
// повторять её при сбое может только вызывающий, который сам отсекает дубли.
func (p *ProductUseCase) UpdateStock(ctx context.Context, id string, delta int) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateStock"

	if delta < 0 {
		return nil, e.Wrap(op, e.ErrQuantityMustBeNonNegative)
	}

	product, err := p.loadForUpdate(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if delta > product.StockQuantity {
		return nil, e.Wrap(op, e.ErrInsufficientStock)
	}

	product.StockQuantity -= delta
	if err := p.saveProduct(ctx, product); err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// UpdateProduct применяет к товару только переданные поля патча.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, id string, patch *ProductPatch) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateProduct"

	if err := ValidateProductPatch(patch); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := p.loadForUpdate(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	patch.Apply(product)
	if err := p.saveProduct(ctx, product); err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// DeleteProduct снимает флаг активности. Запись остаётся в хранилище.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, id string) error {
	const op = "ProductUseCase.DeleteProduct"

	product, err := p.loadForUpdate(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}

	product.Active = false
	if err := p.saveProduct(ctx, product); err != nil {
		return e.Wrap(op, err)
	}

	p.logger.Infof("Product deactivated. product_id: %s", id)
	return nil
}

// AttachImage загружает изображение в объектное хранилище и проставляет ссылку на него в товаре.
func (p *ProductUseCase) AttachImage(ctx context.Context, id string, image *ProductImage) (*domain.Product, error) {
	const op = "ProductUseCase.AttachImage"

	if image == nil || len(image.Data) == 0 {
		return nil, e.Wrap(op, e.ErrNoImages)
	}

	if p.imagesInfra == nil {
		return nil, e.Wrap(op, e.Internal(e.ErrImageStorageDisabled))
	}

	if _, err := p.GetProduct(ctx, id); err != nil {
		return nil, e.Wrap(op, err)
	}

	uploaded, err := p.imagesInfra.UploadImage(ctx, NewUploadImageReq(id, *image))
	if err != nil {
		return nil, e.Wrap(op, e.Internal(err))
	}

	product, err := p.UpdateProduct(ctx, id, &ProductPatch{ImageURL: optional.Of(uploaded.URL)})
	if err != nil {
		p.logger.Warnf(
			"Cleaning up orphaned image after product update failure. product_id: %s, key: %s, error: %v",
			id, uploaded.Key, e.Wrap(op, err),
		)
		p.imagesInfra.CleanupImages([]string{uploaded.Key})

		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// AddReview сохраняет отзыв отдельной записью и добавляет его копию в товар.
// Две записи идут без общей транзакции: если сохранить товар не удалось, отзыв остаётся «сиротой»
// и попадает в лог отдельным сообщением для последующей сверки.
func (p *ProductUseCase) AddReview(ctx context.Context, productID string, req *CreateReviewReq) (*domain.Review, error) {
	const op = "ProductUseCase.AddReview"

	product, err := p.loadForUpdate(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := ValidateReview(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	review := domain.NewReview(strings.TrimSpace(req.UserID), req.Rating, req.Comment)
	review.ID = p.newID()
	review.ProductID = product.ID
	review.CreatedAt = p.timestamp()
	review.UpdatedAt = review.CreatedAt

	if err := p.reviewRepo.Insert(ctx, review); err != nil {
		return nil, e.Wrap(op, e.Internal(err))
	}

	product.Reviews = append(product.Reviews, *review)
	product.UpdatedAt = p.timestamp()
	if err := p.productRepo.Save(ctx, product); err != nil {
		p.logger.Errorf(
			e.Wrap(op, err),
			"orphaned review: review saved but product update failed. review_id: %s, product_id: %s",
			review.ID, product.ID,
		)

		return nil, e.Wrap(op, e.Internal(err))
	}

	p.invalidate(ctx, product.ID)
	return review, nil
}

// UpdateReview меняет переданные поля отзыва. Копия отзыва в товаре не переписывается,
// но снимок товара в кэше всё равно сбрасывается.
func (p *ProductUseCase) UpdateReview(ctx context.Context, productID, reviewID string, patch *ReviewPatch) (*domain.Review, error) {
	const op = "ProductUseCase.UpdateReview"

	if err := ValidateReviewPatch(patch); err != nil {
		return nil, e.Wrap(op, err)
	}

	if _, err := p.GetProduct(ctx, productID); err != nil {
		return nil, e.Wrap(op, err)
	}

	review, err := p.findReview(ctx, reviewID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if review.ProductID != productID {
		return nil, e.Wrap(op, e.ErrReviewProductMismatch)
	}

	patch.Apply(review)
	review.UpdatedAt = p.timestamp()
	if err := p.reviewRepo.Save(ctx, review); err != nil {
		return nil, e.Wrap(op, e.Internal(err))
	}

	p.invalidate(ctx, productID)
	return review, nil
}

// GetReview возвращает отзыв активного товара.
func (p *ProductUseCase) GetReview(ctx context.Context, productID, reviewID string) (*domain.Review, error) {
	const op = "ProductUseCase.GetReview"

	if _, err := p.GetProduct(ctx, productID); err != nil {
		return nil, e.Wrap(op, err)
	}

	review, err := p.reviewRepo.GetByProductAndID(ctx, productID, reviewID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.Wrap(op, e.ErrReviewNotFound)
		}

		return nil, e.Wrap(op, e.Internal(err))
	}

	return review, nil
}

// ListReviews возвращает отзывы активного товара из коллекции отзывов.
func (p *ProductUseCase) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	const op = "ProductUseCase.ListReviews"

	if _, err := p.GetProduct(ctx, productID); err != nil {
		return nil, e.Wrap(op, err)
	}

	reviews, err := p.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, e.Internal(err))
	}

	return reviews, nil
}

// loadForUpdate читает товар через GetProduct и возвращает копию,
// чтобы мутация не задела снимок, который мог прийти из кэша.
func (p *ProductUseCase) loadForUpdate(ctx context.Context, id string) (*domain.Product, error) {
	product, err := p.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	return product.Clone(), nil
}

// saveProduct проставляет updatedAt, сохраняет товар и сбрасывает его кэш.
func (p *ProductUseCase) saveProduct(ctx context.Context, product *domain.Product) error {
	product.UpdatedAt = p.timestamp()
	if err := p.productRepo.Save(ctx, product); err != nil {
		return e.Internal(err)
	}

	p.invalidate(ctx, product.ID)
	return nil
}

func (p *ProductUseCase) findReview(ctx context.Context, reviewID string) (*domain.Review, error) {
	review, err := p.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.ErrReviewNotFound
		}

		return nil, e.Internal(err)
	}

	return review, nil
}

// invalidate удаляет снимок товара из кэша. Ошибка кэша не влияет на результат операции.
func (p *ProductUseCase) invalidate(ctx context.Context, id string) {
	if err := p.cacheRepo.DeleteProduct(ctx, id); err != nil {
		p.logger.Warnf("Failed to invalidate cached product. product_id: %s, error: %v", id, err)
	}
}

// timestamp округляет время до миллисекунд, чтобы снимок совпадал после хранилища и кэша.
func (p *ProductUseCase) timestamp() time.Time {
	return p.now().UTC().Truncate(time.Millisecond)
}

func matches(product *domain.Product, needle string) bool {
	return strings.Contains(strings.ToLower(product.Name), needle) ||
		strings.Contains(strings.ToLower(product.Description), needle) ||
		strings.Contains(strings.ToLower(product.Category), needle)
}
