package http

import (
	"net/http"
	"strconv"

	"github.com/DRSN-tech/ecommerce-backend/internal/usecase"
	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
	maxImageSize   int64
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger, maxImageSize int64) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger, maxImageSize: maxImageSize}
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Создаёт активный товар. Требует bearer-токен.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			product	body		CreateProductRequest	true	"Товар"
//	@Success		201		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		401		{object}	ErrorResponse
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorLogged(w, r, p.logger, err)
		return
	}

	p.logger.Infof("User %s creating new product", SubjectFromContext(r.Context()))

	product, err := p.productUsecase.CreateProduct(r.Context(), req.toUseCase())
	if err != nil {
		writeErrorLogged(w, r, p.logger, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// getProduct
//
//	@Summary	Товар по id
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"Id товара"
//	@Success	200	{object}	ProductResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := p.productUsecase.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErrorLogged(w, r, p.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// listProducts
//
//	@Summary	Активные товары
//	@Tags		products
//	@Produce	json
//	@Success	200	{array}	ProductResponse
//	@Success	204	"Товаров нет"
//	@Router		/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.ListActiveProducts(r.Context())
	if err != nil {
		writeErrorLogged(w, r, p.logger, err)
		return
	}

	writeList(w, toArrProductResponse(products))
}

// listByCategory
//
//	@Summary	Активные товары категории
//	@Tags		products
//	@Produce	json
//	@Param		category	path	string	true	"Категория"
//	@Success	200			{array}	ProductResponse
//	@Success	204			"Товаров нет"
//	@Router		/products/category/{category} [get]
func (p *ProductHandler) listByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		writeErrorLogged(w, r, p.logger, err)
		return
	}

	writeList(w, toArrProductResponse(products))
}

// searchProducts
//
//	@Summary		Поиск товаров
//	@Description	Подстрока без учёта регистра в названии, описании или категории. Пустой query возвращает все активные товары.
//	@Tags			products
//	@Produce		json
//	@Param			query	query	string	true	"Строка поиска"
//	@Success		200		{array}	ProductResponse
//	@Success		204		"Ничего не найдено"
//	@Failure		400		{object}	ErrorResponse
//	@Router			/products/search [get]
func (p *ProductHandler) searchProducts(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	if !params.Has("query") {
		writeErrorLogged(w, r, p.logger, e.ErrSearchQueryRequired)
		return
	}

	products, err := p.productUsecase.SearchProducts(r.Context(), params.Get("query"))
	if err != nil {
		writeErrorLogged(w, r, p.logger, err)
		return
	}

	writeList(w, toArrProductResponse(products))
}

// updateProduct
//
//	@Summary		Частичное обновление товара
//	@Description	Меняет только переданные поля. Требует bearer-токен.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Id товара"
//	@Param			patch	body		usecase.ProductPatch	true	"Изменения"
//	@Success		200		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch usecase.ProductPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeErrorLogged(w, r, p.logger, err)
		return
	}

	p.logger.Infof("User %s updating product with id: %s", SubjectFromContext(r.Context()), id)

	product, err := p.productUsecase.UpdateProduct(r.Context(), id, &patch)
	if err != nil {
		writeErrorLogged(w, r, p.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// deleteProduct
//
//	@Summary	Удаление товара
//	@Tags		products
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Id товара"
//	@Success	200
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p.logger.Infof("User %s deleting product with id: %s", SubjectFromContext(r.Context()), id)

	if err := p.productUsecase.DeleteProduct(r.Context(), id); err != nil {
		writeErrorLogged(w, r, p.logger, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// updateStock
//
//	@Summary		Списание остатка
//	@Description	Уменьшает остаток на quantity. Повтор запроса спишет остаток ещё раз.
//	@Tags			products
//	@Produce		json
//	@Param			id			path		string	true	"Id товара"
//	@Param			quantity	query		int		true	"Сколько списать"
//	@Success		200			{object}	ProductResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/products/{id}/stock [put]
func (p *ProductHandler) updateStock(w http.ResponseWriter, r *http.Request) {
	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		writeErrorLogged(w, r, p.logger, e.Wrap(r.URL.Query().Get("quantity"), e.ErrInvalidQuantity))
		return
	}

	product, err := p.productUsecase.UpdateStock(r.Context(), chi.URLParam(r, "id"), quantity)
	if err != nil {
		writeErrorLogged(w, r, p.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// uploadImage
//
//	@Summary		Загрузка изображения товара
//	@Description	Кладёт изображение в объектное хранилище и проставляет imageUrl. Требует bearer-токен.
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Id товара"
//	@Param			image	formData	file	true	"Изображение (jpeg, png, webp, gif)"
//	@Success		200		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/products/{id}/image [post]
func (p *ProductHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 32 << 20

	r.Body = http.MaxBytesReader(w, r.Body, p.maxImageSize+(1<<20))

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		writeErrorLogged(w, r, p.logger, err)
		return
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		writeErrorLogged(w, r, p.logger, e.ErrNoImages)
		return
	}

	image, err := readImage(files[0], p.maxImageSize)
	if err != nil {
		writeErrorLogged(w, r, p.logger, err)
		return
	}

	id := chi.URLParam(r, "id")
	p.logger.Infof("User %s uploading image for product with id: %s, file: %s", SubjectFromContext(r.Context()), id, image.Name)

	product, err := p.productUsecase.AttachImage(r.Context(), id, image)
	if err != nil {
		writeErrorLogged(w, r, p.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}
