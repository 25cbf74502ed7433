package http

import (
	"net/http"

	_ "github.com/DRSN-tech/ecommerce-backend/docs" // Регистрация swagger-спецификации
	"github.com/DRSN-tech/ecommerce-backend/internal/usecase"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

// RouterDeps — всё, что нужно роутеру от остального приложения.
type RouterDeps struct {
	ProductUC      usecase.ProductUC
	MaintenanceUC  usecase.MaintenanceUC
	Observer       HTTPObserver
	MetricsHandler http.Handler
	JWTSecret      string
	SwaggerURL     string
	MaxImageSize   int64
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(deps RouterDeps) {
	r.router.Use(chimiddleware.RealIP)
	r.router.Use(Tracing(r.logger, deps.Observer))
	r.router.Use(chimiddleware.Recoverer)
	r.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{TraceIDHeader},
		MaxAge:         300,
	}))

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(deps.SwaggerURL),
	))

	if deps.MetricsHandler != nil {
		r.router.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	auth := Authenticate([]byte(deps.JWTSecret), r.logger)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		prHandler := NewProductHandler(deps.ProductUC, r.logger, deps.MaxImageSize)
		rvHandler := NewReviewHandler(deps.ProductUC, r.logger)
		registerProductRoutes(v1, prHandler, rvHandler, auth)

		healthHandler := NewHealthHandler(deps.MaintenanceUC, r.logger)
		registerHealthRoutes(v1, healthHandler)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler, rvHandler *ReviewHandler, auth func(http.Handler) http.Handler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", prHandler.listProducts)
		pr.Get("/search", prHandler.searchProducts)
		pr.Get("/category/{category}", prHandler.listByCategory)
		pr.Get("/{id}", prHandler.getProduct)
		pr.Put("/{id}/stock", prHandler.updateStock)

		pr.Group(func(protected chi.Router) {
			protected.Use(auth)
			protected.Post("/", prHandler.createProduct)
			protected.Put("/{id}", prHandler.updateProduct)
			protected.Delete("/{id}", prHandler.deleteProduct)
			protected.Post("/{id}/image", prHandler.uploadImage)
		})

		pr.Route("/{id}/reviews", func(rv chi.Router) {
			rv.Get("/", rvHandler.listReviews)
			rv.Post("/", rvHandler.addReview)
			rv.Get("/{reviewId}", rvHandler.getReview)
			rv.Put("/{reviewId}", rvHandler.updateReview)
		})
	})
}

func registerHealthRoutes(router chi.Router, h *HealthHandler) {
	router.Get("/health", h.health)
	router.Get("/health/{component}", h.component)
}
