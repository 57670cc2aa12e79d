// Package catalog serves filtered, paginated views of the product catalog
// from a process-lifetime snapshot of the catalog API.
package catalog

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/rogerio-castellano/storefront/internal/upstream"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// PageSize is the fixed number of products per page.
	PageSize = 8
	// AllCategories is the category sentinel meaning "no filter".
	AllCategories = "all"

	loadTimeout = 30 * time.Second
)

// Source of the snapshot. *upstream.Client satisfies it.
type Source interface {
	Products(ctx context.Context) ([]upstream.APIProduct, error)
	Categories(ctx context.Context) ([]string, error)
}

// Origin tells where the cached snapshot came from.
type Origin string

const (
	OriginNone     Origin = "empty"
	OriginUpstream Origin = "upstream"
	OriginFallback Origin = "fallback"
)

var errEmptyUpstream = errors.New("upstream returned no products")

// Engine caches the whole catalog once and answers queries from memory.
// The cache never expires; call Reset to pick up upstream changes.
type Engine struct {
	source Source
	logger *zap.Logger
	group  singleflight.Group

	mu       sync.RWMutex
	loaded   bool
	products []models.Product
	origin   Origin
	lastErr  error
	gen      uint64
}

func NewEngine(source Source, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		source: source,
		logger: logger.Named("catalog.engine"),
		origin: OriginNone,
	}
}

// FetchAllProducts returns the cached catalog, fetching it on first use.
// When the catalog API fails the fallback catalog is cached and returned.
func (e *Engine) FetchAllProducts(ctx context.Context) []models.Product {
	products, err := e.allProducts(ctx)
	if err != nil {
		e.logger.Warn("serving uncached fallback catalog", zap.Error(err))
		return fallbackProducts()
	}
	return slices.Clone(products)
}

// FetchCategories returns AllCategories followed by the upstream category
// labels, or by a fixed list when the catalog API fails.
func (e *Engine) FetchCategories(ctx context.Context) []string {
	categories, err := e.source.Categories(ctx)
	if err != nil {
		e.logger.Warn("fetch categories failed, using fallback", zap.Error(err))
		categories = fallbackCategories()
	}
	return append([]string{AllCategories}, categories...)
}

// Query filters the catalog by category and search text and returns the
// requested page. Pages below 1 are treated as page 1.
func (e *Engine) Query(ctx context.Context, qp QueryParams) models.PaginatedResult {
	result, err := e.query(ctx, qp)
	if err != nil {
		e.logger.Error("query failed, serving fallback page",
			zap.Int("page", qp.Page),
			zap.String("category", qp.Category),
			zap.String("search", qp.Search),
			zap.Error(err),
		)
		return paginate(fallbackProducts(), 1, PageSize)
	}
	return result
}

// ProductsByCategory returns every product of category, ignoring case.
func (e *Engine) ProductsByCategory(ctx context.Context, category string) []models.Product {
	products, err := e.allProducts(ctx)
	if err != nil {
		e.logger.Warn("products by category failed", zap.String("category", category), zap.Error(err))
		return []models.Product{}
	}
	return filterProducts(products, QueryParams{Category: category})
}

// Reset drops the cached snapshot. A fetch still in flight will not
// repopulate it.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.loaded = false
	e.products = nil
	e.origin = OriginNone
	e.lastErr = nil
	e.gen++
	e.mu.Unlock()
}

func (e *Engine) query(ctx context.Context, qp QueryParams) (models.PaginatedResult, error) {
	products, err := e.allProducts(ctx)
	if err != nil {
		return models.PaginatedResult{}, err
	}
	page := max(qp.Page, 1)
	return paginate(filterProducts(products, qp), page, PageSize), nil
}

// allProducts returns the shared snapshot; callers must not modify it. The
// upstream load is shared by every waiting caller and is detached from their
// contexts, so one caller giving up neither aborts it nor fails the others.
// It only fails when ctx ends before any snapshot exists.
func (e *Engine) allProducts(ctx context.Context) ([]models.Product, error) {
	if products, ok := e.snapshot(); ok {
		return products, nil
	}

	ch := e.group.DoChan("products", func() (any, error) {
		if products, ok := e.snapshot(); ok {
			return products, nil
		}

		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		gen := e.generation()
		products, err := e.loadProducts(loadCtx)
		switch {
		case err == nil:
			e.store(gen, products, OriginUpstream, nil)
		case errors.Is(err, errEmptyUpstream):
			e.logger.Warn("catalog api returned an empty catalog")
			e.store(gen, products, OriginUpstream, err)
		default:
			e.logger.Warn("fetch products failed, caching fallback catalog", zap.Error(err))
			products = fallbackProducts()
			e.store(gen, products, OriginFallback, err)
		}
		return products, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.Product), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// loadProducts performs one upstream fetch and converts the records.
func (e *Engine) loadProducts(ctx context.Context) ([]models.Product, error) {
	raw, err := e.source.Products(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(raw))
	for _, p := range raw {
		products = append(products, toProduct(p))
	}
	if len(products) == 0 {
		return products, errEmptyUpstream
	}

	e.logger.Info("catalog loaded", zap.Int("products", len(products)))
	return products, nil
}

func toProduct(p upstream.APIProduct) models.Product {
	return models.Product{
		ID:          strconv.Itoa(p.ID),
		Name:        p.Title,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		Rating: models.Rating{
			Rate:  p.Rating.Rate,
			Count: p.Rating.Count,
		},
	}
}

func (e *Engine) snapshot() ([]models.Product, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.products, e.loaded
}

func (e *Engine) generation() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.gen
}

func (e *Engine) store(gen uint64, products []models.Product, origin Origin, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return
	}
	e.loaded = true
	e.products = products
	e.origin = origin
	e.lastErr = err
}
