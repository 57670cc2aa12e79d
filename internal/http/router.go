package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/storefront/docs"
	"github.com/rogerio-castellano/storefront/internal/http/handlers"
	mw "github.com/rogerio-castellano/storefront/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.HealthHandler)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimitMiddleware)

		r.Post("/session", handlers.CreateSessionHandler)

		r.Get("/products", handlers.GetProductsHandler)
		r.Get("/products/all", handlers.GetAllProductsHandler)
		r.Get("/products/categories", handlers.GetCategoriesHandler)
		r.Get("/categories/{category}/products", handlers.GetProductsByCategoryHandler)
		r.Get("/metrics/catalog", handlers.GetCatalogMetricsHandler)

		r.Route("/cart", func(r chi.Router) {
			r.Use(mw.SessionMiddleware)

			r.Get("/", handlers.GetCartHandler)
			r.Delete("/", handlers.ClearCartHandler)
			r.Get("/summary", handlers.GetCartSummaryHandler)
			r.Post("/items", handlers.AddCartItemHandler)
			r.Put("/items/{id}", handlers.UpdateCartItemHandler)
			r.Delete("/items/{id}", handlers.RemoveCartItemHandler)
			r.Post("/items/{id}/increment", handlers.IncrementCartItemHandler)
			r.Post("/items/{id}/decrement", handlers.DecrementCartItemHandler)
		})
	})

	return r
}
