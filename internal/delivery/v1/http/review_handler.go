package http

import (
	"net/http"

	"github.com/DRSN-tech/ecommerce-backend/internal/usecase"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type ReviewHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewReviewHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ReviewHandler {
	return &ReviewHandler{productUsecase: productUsecase, logger: logger}
}

// addReview
//
//	@Summary	Добавление отзыва
//	@Tags		reviews
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Id товара"
//	@Param		review	body		CreateReviewRequest	true	"Отзыв"
//	@Success	201		{object}	ReviewResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/products/{id}/reviews [post]
func (h *ReviewHandler) addReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorLogged(w, r, h.logger, err)
		return
	}

	review, err := h.productUsecase.AddReview(r.Context(), chi.URLParam(r, "id"), req.toUseCase())
	if err != nil {
		writeErrorLogged(w, r, h.logger, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toReviewResponse(review))
}

// updateReview
//
//	@Summary	Частичное обновление отзыва
//	@Tags		reviews
//	@Accept		json
//	@Produce	json
//	@Param		id			path		string				true	"Id товара"
//	@Param		reviewId	path		string				true	"Id отзыва"
//	@Param		patch		body		usecase.ReviewPatch	true	"Изменения"
//	@Success	200			{object}	ReviewResponse
//	@Failure	400			{object}	ErrorResponse
//	@Failure	404			{object}	ErrorResponse
//	@Router		/products/{id}/reviews/{reviewId} [put]
func (h *ReviewHandler) updateReview(w http.ResponseWriter, r *http.Request) {
	var patch usecase.ReviewPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeErrorLogged(w, r, h.logger, err)
		return
	}

	review, err := h.productUsecase.UpdateReview(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "reviewId"), &patch)
	if err != nil {
		writeErrorLogged(w, r, h.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toReviewResponse(review))
}

// getReview
//
//	@Summary	Отзыв по id
//	@Tags		reviews
//	@Produce	json
//	@Param		id			path		string	true	"Id товара"
//	@Param		reviewId	path		string	true	"Id отзыва"
//	@Success	200			{object}	ReviewResponse
//	@Failure	404			{object}	ErrorResponse
//	@Router		/products/{id}/reviews/{reviewId} [get]
func (h *ReviewHandler) getReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.productUsecase.GetReview(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "reviewId"))
	if err != nil {
		writeErrorLogged(w, r, h.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toReviewResponse(review))
}

// listReviews
//
//	@Summary	Отзывы товара
//	@Tags		reviews
//	@Produce	json
//	@Param		id	path	string	true	"Id товара"
//	@Success	200	{array}	ReviewResponse
//	@Success	204	"Отзывов нет"
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id}/reviews [get]
func (h *ReviewHandler) listReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.productUsecase.ListReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErrorLogged(w, r, h.logger, err)
		return
	}

	writeList(w, toArrReviewResponse(reviews))
}
