package catalog

import (
	"strings"

	"github.com/rogerio-castellano/storefront/internal/models"
)

// QueryParams selects one page of the catalog. An empty Category or
// AllCategories disables the category filter; a blank Search disables the
// text filter.
type QueryParams struct {
	Page     int
	Category string
	Search   string
}

func matchesCategory(p models.Product, category string) bool {
	if category == "" || category == AllCategories {
		return true
	}
	return strings.EqualFold(p.Category, category)
}

// matchesSearch expects query to be trimmed and lowercased already.
func matchesSearch(p models.Product, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Description), query) ||
		strings.Contains(strings.ToLower(p.Category), query)
}

func filterProducts(products []models.Product, qp QueryParams) []models.Product {
	query := strings.ToLower(strings.TrimSpace(qp.Search))

	filtered := []models.Product{}
	for _, p := range products {
		if matchesCategory(p, qp.Category) && matchesSearch(p, query) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// paginate returns the 1-based page of size limit. Pages past the end are empty.
func paginate(products []models.Product, page, limit int) models.PaginatedResult {
	total := len(products)
	pages := (total + limit - 1) / limit

	// offsets exist only for real pages, so a huge page number cannot overflow
	start := total
	if page <= pages {
		start = max(page-1, 0) * limit
	}
	end := clamp(start+limit, start, total)

	window := make([]models.Product, end-start)
	copy(window, products[start:end])

	return models.PaginatedResult{
		Products:   window,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: pages,
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
