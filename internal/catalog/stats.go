package catalog

import (
	"context"
	"math"
)

// Stats describes the cached catalog.
type Stats struct {
	TotalProducts int            `json:"total_products"`
	Categories    map[string]int `json:"categories"`
	AveragePrice  float64        `json:"average_price"`
	Source        Origin         `json:"source"`
	LastError     string         `json:"last_error,omitempty"`
}

// Stats loads the catalog if needed and summarises the snapshot, including
// whether it came from the catalog API or from the fallback list.
func (e *Engine) Stats(ctx context.Context) Stats {
	products := e.FetchAllProducts(ctx)

	e.mu.RLock()
	origin, lastErr := e.origin, e.lastErr
	e.mu.RUnlock()

	s := Stats{
		TotalProducts: len(products),
		Categories:    map[string]int{},
		Source:        origin,
	}
	if lastErr != nil {
		s.LastError = lastErr.Error()
	}

	var sum float64
	for _, p := range products {
		s.Categories[p.Category]++
		sum += p.Price
	}
	if len(products) > 0 {
		s.AveragePrice = math.Round(sum/float64(len(products))*100) / 100
	}
	return s
}
