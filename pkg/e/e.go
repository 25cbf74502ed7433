package e

import (
	"errors"
	"fmt"
)

var (
	// Базовые классы ошибок. Все остальные ошибки оборачивают одну из них.
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	ErrPayloadRequired = fmt.Errorf("%w: payload is required", ErrInvalidInput)

	// 400 Bad Request: валидация товара
	ErrProductNameRequired        = fmt.Errorf("%w: product name is required", ErrInvalidInput)
	ErrProductDescriptionRequired = fmt.Errorf("%w: product description is required", ErrInvalidInput)
	ErrProductCategoryRequired    = fmt.Errorf("%w: product category is required", ErrInvalidInput)
	ErrPriceRequired              = fmt.Errorf("%w: product price is required", ErrInvalidInput)
	ErrPriceMustBeNonNegative     = fmt.Errorf("%w: product price must be non-negative", ErrInvalidInput)
	ErrStockMustBeNonNegative     = fmt.Errorf("%w: product stock quantity must be non-negative", ErrInvalidInput)

	// 400 Bad Request: валидация отзыва
	ErrReviewUserIDRequired  = fmt.Errorf("%w: review user id is required", ErrInvalidInput)
	ErrReviewRatingRange     = fmt.Errorf("%w: review rating must be between 1 and 5", ErrInvalidInput)
	ErrReviewCommentRequired = fmt.Errorf("%w: review comment is required", ErrInvalidInput)
	ErrReviewProductMismatch = fmt.Errorf("%w: review does not belong to the specified product", ErrInvalidInput)

	// 400 Bad Request: остатки, поиск, запросы
	ErrQuantityMustBeNonNegative = fmt.Errorf("%w: quantity must be non-negative", ErrInvalidInput)
	ErrInsufficientStock         = fmt.Errorf("%w: insufficient stock", ErrInvalidInput)
	ErrSearchQueryRequired       = fmt.Errorf("%w: search query is required", ErrInvalidInput)
	ErrInvalidPrice              = fmt.Errorf("%w: invalid price", ErrInvalidInput)
	ErrPricePrecision            = fmt.Errorf("%w: price must have at most 2 decimal places", ErrInvalidInput)
	ErrInvalidQuantity           = fmt.Errorf("%w: invalid quantity", ErrInvalidInput)
	ErrMalformedBody             = fmt.Errorf("%w: malformed request body", ErrInvalidInput)
	ErrExpectedMultipart         = fmt.Errorf("%w: expected multipart/form-data", ErrInvalidInput)
	ErrNoImages                  = fmt.Errorf("%w: no image provided", ErrInvalidInput)
	ErrFileTooLarge              = fmt.Errorf("%w: file too large", ErrInvalidInput)
	ErrUnsupportedMediaType      = fmt.Errorf("%w: unsupported media type", ErrInvalidInput)

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("%w: product not found or inactive", ErrNotFound)
	ErrReviewNotFound  = fmt.Errorf("%w: review not found", ErrNotFound)
	ErrUnknownProbe    = fmt.Errorf("%w: unknown health component", ErrNotFound)

	// 401 Unauthorized
	ErrMissingToken = fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrUnauthorized)

	// Инфраструктура
	ErrIncorrectEnvVariable = errors.New("incorrect environment variable")
	ErrCacheUnavailable     = errors.New("cache unavailable")
	ErrImageStorageDisabled = errors.New("image storage is not configured")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// Internal помечает ошибку хранилища как внутреннюю, сохраняя исходную причину в цепочке.
func Internal(err error) error {
	if err == nil || errors.Is(err, ErrInternal) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrInternal, err)
}
