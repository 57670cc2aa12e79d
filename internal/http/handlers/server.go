package handlers

import (
	"context"

	"github.com/rogerio-castellano/storefront/internal/cart"
	"github.com/rogerio-castellano/storefront/internal/catalog"
	"github.com/rogerio-castellano/storefront/internal/models"
)

// CatalogService is the read side of the product catalog.
type CatalogService interface {
	Query(ctx context.Context, qp catalog.QueryParams) models.PaginatedResult
	FetchAllProducts(ctx context.Context) []models.Product
	FetchCategories(ctx context.Context) []string
	ProductsByCategory(ctx context.Context, category string) []models.Product
	Stats(ctx context.Context) catalog.Stats
}

var (
	catalogService CatalogService
	cartRegistry   *cart.Registry
)

func SetCatalog(c CatalogService) {
	catalogService = c
}

func SetCartRegistry(r *cart.Registry) {
	cartRegistry = r
}
