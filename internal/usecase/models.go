package usecase

import (
	"strings"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/domain"
	"github.com/DRSN-tech/ecommerce-backend/pkg/optional"
	"github.com/shopspring/decimal"
)

// PRODUCT USECASE

// CreateProductReq — запрос на создание товара. Id, флаг активности и даты проставляет usecase.
type CreateProductReq struct {
	Name          string
	Description   string
	Price         optional.Value[decimal.Decimal]
	StockQuantity int
	Category      string
	ImageURL      string
}

// ProductPatch — частичное обновление товара. Меняются только заданные поля.
type ProductPatch struct {
	Name          optional.Value[string]          `json:"name"`
	Description   optional.Value[string]          `json:"description"`
	Price         optional.Value[decimal.Decimal] `json:"price"`
	StockQuantity optional.Value[int]             `json:"stockQuantity"`
	Category      optional.Value[string]          `json:"category"`
	ImageURL      optional.Value[string]          `json:"imageUrl"`
}

// Apply переносит заданные поля патча в товар. Название и категория обрезаются так же, как при создании.
func (p *ProductPatch) Apply(product *domain.Product) {
	if v, ok := p.Name.Get(); ok {
		product.Name = strings.TrimSpace(v)
	}
	if v, ok := p.Description.Get(); ok {
		product.Description = v
	}
	if v, ok := p.Price.Get(); ok {
		product.Price = v
	}
	if v, ok := p.StockQuantity.Get(); ok {
		product.StockQuantity = v
	}
	if v, ok := p.Category.Get(); ok {
		product.Category = strings.TrimSpace(v)
	}
	if v, ok := p.ImageURL.Get(); ok {
		product.ImageURL = v
	}
}

// CreateReviewReq — запрос на добавление отзыва.
type CreateReviewReq struct {
	UserID  string
	Rating  int
	Comment string
}

// ReviewPatch — частичное обновление отзыва.
type ReviewPatch struct {
	UserID  optional.Value[string] `json:"userId"`
	Rating  optional.Value[int]    `json:"rating"`
	Comment optional.Value[string] `json:"comment"`
}

// Apply переносит заданные поля в отзыв. Автор и комментарий меняются, только если отличаются.
func (p *ReviewPatch) Apply(review *domain.Review) {
	// TODO: смена автора отзыва должна проверяться слоем авторизации (автор или администратор)
	if v, ok := p.UserID.Get(); ok && v != review.UserID {
		review.UserID = v
	}
	if v, ok := p.Rating.Get(); ok {
		review.Rating = v
	}
	if v, ok := p.Comment.Get(); ok && v != review.Comment {
		review.Comment = v
	}
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type, определённый по содержимому
	Name     string // оригинальное имя файла (для логов и ключа объекта)
}

// INFRASTRUCTURE

// UploadImageReq — запрос на загрузку изображения товара.
type UploadImageReq struct {
	ProductID string
	Image     ProductImage
}

// UploadImageRes — ключ объекта в MinIO и публичная ссылка на него.
type UploadImageRes struct {
	Key string
	URL string
}

type AuditStatus string

const (
	AuditSuccess AuditStatus = "SUCCESS"
	AuditError   AuditStatus = "ERROR"
)

// AuditEvent — запись аудита о вызове операции каталога.
type AuditEvent struct {
	EventID       string      `json:"eventId"`
	Method        string      `json:"method"`
	ExecutionTime int64       `json:"executionTime"` // миллисекунды
	Status        AuditStatus `json:"status"`
	Error         string      `json:"error,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
}

type ProbeStatus string

const (
	ProbeUp   ProbeStatus = "UP"
	ProbeDown ProbeStatus = "DOWN"
)

// ProbeReport — результат проверки подключения к зависимости.
type ProbeReport struct {
	Component string            `json:"component"`
	Status    ProbeStatus       `json:"status"`
	Details   map[string]string `json:"details,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// MAPPERS

func NewCreateProductReq(name, description string, price optional.Value[decimal.Decimal], stock int, category, imageURL string) *CreateProductReq {
	return &CreateProductReq{
		Name:          name,
		Description:   description,
		Price:         price,
		StockQuantity: stock,
		Category:      category,
		ImageURL:      imageURL,
	}
}

func NewCreateReviewReq(userID string, rating int, comment string) *CreateReviewReq {
	return &CreateReviewReq{
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	}
}

func NewProductImage(data []byte, mimeType string, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Name:     name,
	}
}

func NewUploadImageReq(productID string, image ProductImage) *UploadImageReq {
	return &UploadImageReq{
		ProductID: productID,
		Image:     image,
	}
}

func NewUploadImageRes(key, url string) *UploadImageRes {
	return &UploadImageRes{
		Key: key,
		URL: url,
	}
}

func NewAuditEvent(eventID, method string, elapsed time.Duration, err error, at time.Time) *AuditEvent {
	event := &AuditEvent{
		EventID:       eventID,
		Method:        method,
		ExecutionTime: elapsed.Milliseconds(),
		Status:        AuditSuccess,
		Timestamp:     at,
	}

	if err != nil {
		event.Status = AuditError
		event.Error = err.Error()
	}

	return event
}

func NewProbeReport(component string, details map[string]string, err error) *ProbeReport {
	report := &ProbeReport{
		Component: component,
		Status:    ProbeUp,
		Details:   details,
	}

	if err != nil {
		report.Status = ProbeDown
		report.Error = err.Error()
	}

	return report
}
