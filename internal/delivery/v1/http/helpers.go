package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/DRSN-tech/ecommerce-backend/internal/usecase"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
	"github.com/jimlawless/whereami"
)

const maxJSONBodySize = 1 << 20

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// clientErrors — ошибки, текст которых можно показать клиенту как есть.
var clientErrors = []error{
	e.ErrPayloadRequired,
	e.ErrProductNameRequired,
	e.ErrProductDescriptionRequired,
	e.ErrProductCategoryRequired,
	e.ErrPriceRequired,
	e.ErrPriceMustBeNonNegative,
	e.ErrStockMustBeNonNegative,
	e.ErrReviewUserIDRequired,
	e.ErrReviewRatingRange,
	e.ErrReviewCommentRequired,
	e.ErrReviewProductMismatch,
	e.ErrQuantityMustBeNonNegative,
	e.ErrInsufficientStock,
	e.ErrSearchQueryRequired,
	e.ErrInvalidPrice,
	e.ErrPricePrecision,
	e.ErrInvalidQuantity,
	e.ErrMalformedBody,
	e.ErrExpectedMultipart,
	e.ErrNoImages,
	e.ErrFileTooLarge,
	e.ErrUnsupportedMediaType,
	e.ErrProductNotFound,
	e.ErrReviewNotFound,
	e.ErrUnknownProbe,
	e.ErrMissingToken,
	e.ErrInvalidToken,
}

// ToHTTPResponse сопоставляет ошибку статусу и сообщению. Внутренние ошибки проверяются первыми,
// чтобы причина сбоя хранилища не попала в ответ.
func ToHTTPResponse(err error) (int, string) {
	var code int
	switch {
	case errors.Is(err, e.ErrInternal):
		return http.StatusInternalServerError, e.ErrInternal.Error()
	case errors.Is(err, e.ErrInvalidInput):
		code = http.StatusBadRequest
	case errors.Is(err, e.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, e.ErrUnauthorized):
		code = http.StatusUnauthorized
	default:
		return http.StatusInternalServerError, e.ErrInternal.Error()
	}

	for _, known := range clientErrors {
		if errors.Is(err, known) {
			return code, known.Error()
		}
	}

	return code, strings.ToLower(http.StatusText(code))
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

// writeErrorLogged пишет ошибку в ответ и в лог: 4xx как предупреждение, 5xx как ошибку.
func writeErrorLogged(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	code, _ := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		log.Errorf(err, "%d %s %s, trace_id: %s", code, r.Method, r.URL.Path, TraceIDFromContext(r.Context()))
	} else {
		log.Warnf("%d %s %s: %s, trace_id: %s", code, r.Method, r.URL.Path, err.Error(), TraceIDFromContext(r.Context()))
	}

	WriteError(w, err)
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeList отвечает 204, если список пуст.
func writeList[T any](w http.ResponseWriter, items []T) {
	if len(items) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	WriteSuccess(w, http.StatusOK, items)
}

// decodeJSON читает тело запроса в dst. Пустое тело и синтаксические ошибки дают e.ErrMalformedBody.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return e.Wrap(whereami.WhereAmI(), errors.Join(e.ErrMalformedBody, err))
	}

	return nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return e.Wrap(whereami.WhereAmI(), e.ErrFileTooLarge)
		}
		return e.Wrap(whereami.WhereAmI(), errors.Join(e.ErrMalformedBody, err))
	}

	return nil
}

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// readImage читает файл из формы и определяет его тип по содержимому.
func readImage(fh *multipart.FileHeader, maxSize int64) (*usecase.ProductImage, error) {
	if fh.Size > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Internal(err))
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Internal(err))
	}
	if int64(len(data)) > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}
	if len(data) == 0 {
		return nil, e.Wrap(fh.Filename, e.ErrNoImages)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	if _, ok := allowedImageTypes[mimeType]; !ok {
		return nil, e.Wrap(fh.Filename+" ("+mimeType+")", e.ErrUnsupportedMediaType)
	}

	return usecase.NewProductImage(data, mimeType, fh.Filename), nil
}
