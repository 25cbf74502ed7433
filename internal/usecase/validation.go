package usecase

import (
	"strings"

	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/shopspring/decimal"
)

const pricePrecision = 2

// ValidateProduct проверяет запрос на создание товара. Не обращается к хранилищам.
func ValidateProduct(req *CreateProductReq) error {
	if req == nil {
		return e.ErrPayloadRequired
	}

	if isBlank(req.Name) {
		return e.ErrProductNameRequired
	}

	if isBlank(req.Description) {
		return e.ErrProductDescriptionRequired
	}

	price, ok := req.Price.Get()
	if !ok {
		return e.ErrPriceRequired
	}
	if err := validatePrice(price); err != nil {
		return err
	}

	if req.StockQuantity < 0 {
		return e.ErrStockMustBeNonNegative
	}

	if isBlank(req.Category) {
		return e.ErrProductCategoryRequired
	}

	return nil
}

// ValidateProductPatch применяет правила ValidateProduct к каждому переданному полю.
func ValidateProductPatch(patch *ProductPatch) error {
	if patch == nil {
		return e.ErrPayloadRequired
	}

	if v, ok := patch.Name.Get(); ok && isBlank(v) {
		return e.ErrProductNameRequired
	}

	if v, ok := patch.Description.Get(); ok && isBlank(v) {
		return e.ErrProductDescriptionRequired
	}

	if v, ok := patch.Price.Get(); ok {
		if err := validatePrice(v); err != nil {
			return err
		}
	}

	if v, ok := patch.StockQuantity.Get(); ok && v < 0 {
		return e.ErrStockMustBeNonNegative
	}

	if v, ok := patch.Category.Get(); ok && isBlank(v) {
		return e.ErrProductCategoryRequired
	}

	return nil
}

// ValidateReview проверяет запрос на добавление отзыва.
func ValidateReview(req *CreateReviewReq) error {
	if req == nil {
		return e.ErrPayloadRequired
	}

	if isBlank(req.UserID) {
		return e.ErrReviewUserIDRequired
	}

	if !validRating(req.Rating) {
		return e.ErrReviewRatingRange
	}

	if isBlank(req.Comment) {
		return e.ErrReviewCommentRequired
	}

	return nil
}

// ValidateReviewPatch применяет правила ValidateReview к каждому переданному полю.
func ValidateReviewPatch(patch *ReviewPatch) error {
	if patch == nil {
		return e.ErrPayloadRequired
	}

	if v, ok := patch.UserID.Get(); ok && isBlank(v) {
		return e.ErrReviewUserIDRequired
	}

	if v, ok := patch.Rating.Get(); ok && !validRating(v) {
		return e.ErrReviewRatingRange
	}

	if v, ok := patch.Comment.Get(); ok && isBlank(v) {
		return e.ErrReviewCommentRequired
	}

	return nil
}

// validatePrice: цена неотрицательна и имеет не больше двух знаков после запятой (NUMERIC(12,2) в postgres).
func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return e.ErrPriceMustBeNonNegative
	}

	if !price.Equal(price.Round(pricePrecision)) {
		return e.ErrPricePrecision
	}

	return nil
}

func validRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
