package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/storefront/internal/catalog"
)

// GetProductsHandler godoc
// @Summary List products
// @Description Filters the catalog by category and search text and returns one page of 8 products
// @Tags products
// @Produce json
// @Param page query int false "Page number, starting at 1"
// @Param category query string false "Category, or all"
// @Param search query string false "Text searched in name, description and category"
// @Success 200 {object} models.PaginatedResult
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		page = 1
	}

	result := catalogService.Query(r.Context(), catalog.QueryParams{
		Page:     page,
		Category: q.Get("category"),
		Search:   q.Get("search"),
	})
	respond(w, http.StatusOK, result)
}

// GetAllProductsHandler godoc
// @Summary List the whole catalog
// @Tags products
// @Produce json
// @Success 200 {array} models.Product
// @Router /products/all [get]
func GetAllProductsHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, catalogService.FetchAllProducts(r.Context()))
}

// GetCategoriesHandler godoc
// @Summary List categories
// @Description The first entry is always "all"
// @Tags products
// @Produce json
// @Success 200 {array} string
// @Router /products/categories [get]
func GetCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, catalogService.FetchCategories(r.Context()))
}

// GetProductsByCategoryHandler godoc
// @Summary List products of one category
// @Tags products
// @Produce json
// @Param category path string true "Category"
// @Success 200 {array} models.Product
// @Router /categories/{category}/products [get]
func GetProductsByCategoryHandler(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	respond(w, http.StatusOK, catalogService.ProductsByCategory(r.Context(), category))
}
