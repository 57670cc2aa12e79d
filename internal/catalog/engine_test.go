package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/rogerio-castellano/storefront/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	products      []upstream.APIProduct
	categories    []string
	productsErr   error
	categoriesErr error
	delay         time.Duration
	productCalls  atomic.Int32
}

func (f *fakeSource) Products(ctx context.Context) ([]upstream.APIProduct, error) {
	f.productCalls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.products, f.productsErr
}

func (f *fakeSource) Categories(ctx context.Context) ([]string, error) {
	return f.categories, f.categoriesErr
}

func apiProduct(id int, title, category string, price float64) upstream.APIProduct {
	p := upstream.APIProduct{ID: id, Title: title, Category: category, Price: price, Description: title + " description"}
	p.Rating.Rate = 4
	p.Rating.Count = id * 10
	return p
}

// twentyProducts returns 12 electronics and 8 jewelery items.
func twentyProducts() []upstream.APIProduct {
	var out []upstream.APIProduct
	for i := 1; i <= 20; i++ {
		category := "electronics"
		if i%5 == 0 || i%5 == 1 {
			category = "jewelery"
		}
		out = append(out, apiProduct(i, "Item", category, float64(i)))
	}
	return out
}

func failingEngine() (*Engine, *fakeSource) {
	src := &fakeSource{productsErr: errors.New("dial tcp: connection refused")}
	return NewEngine(src, nil), src
}

func TestFetchAllProducts_TransformsRecords(t *testing.T) {
	src := &fakeSource{products: []upstream.APIProduct{apiProduct(7, "Solid Gold Petite Micropave", "jewelery", 168)}}
	e := NewEngine(src, nil)

	products := e.FetchAllProducts(context.Background())
	require.Len(t, products, 1)

	want := models.Product{
		ID:          "7",
		Name:        "Solid Gold Petite Micropave",
		Description: "Solid Gold Petite Micropave description",
		Price:       168,
		Category:    "jewelery",
		Rating:      models.Rating{Rate: 4, Count: 70},
	}
	assert.Equal(t, want, products[0])
}

func TestFetchAllProducts_CachesAfterFirstFetch(t *testing.T) {
	src := &fakeSource{products: twentyProducts()}
	e := NewEngine(src, nil)

	first := e.FetchAllProducts(context.Background())
	second := e.FetchAllProducts(context.Background())

	assert.Equal(t, int32(1), src.productCalls.Load())
	assert.Equal(t, first, second)
}

func TestFetchAllProducts_ConcurrentCallersShareOneFetch(t *testing.T) {
	src := &fakeSource{products: twentyProducts(), delay: 50 * time.Millisecond}
	e := NewEngine(src, nil)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, e.FetchAllProducts(context.Background()), 20)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.productCalls.Load())
}

func TestFetchAllProducts_FallbackIsCached(t *testing.T) {
	e, src := failingEngine()

	products := e.FetchAllProducts(context.Background())
	assert.Equal(t, fallbackProducts(), products)

	e.FetchAllProducts(context.Background())
	assert.Equal(t, int32(1), src.productCalls.Load())
	assert.Equal(t, OriginFallback, e.Stats(context.Background()).Source)
}

func TestFetchAllProducts_CancelledContextDoesNotPinFallback(t *testing.T) {
	src := &fakeSource{products: twentyProducts(), delay: 100 * time.Millisecond}
	e := NewEngine(src, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, fallbackProducts(), e.FetchAllProducts(ctx))

	assert.Len(t, e.FetchAllProducts(context.Background()), 20)
	assert.Equal(t, OriginUpstream, e.Stats(context.Background()).Source)
	assert.Equal(t, int32(1), src.productCalls.Load())
}

func TestFetchAllProducts_WaitersSurviveFirstCallerLeaving(t *testing.T) {
	src := &fakeSource{products: twentyProducts(), delay: 100 * time.Millisecond}
	e := NewEngine(src, nil)

	first, cancelFirst := context.WithCancel(context.Background())
	firstDone := make(chan []models.Product, 1)
	go func() { firstDone <- e.FetchAllProducts(first) }()

	require.Eventually(t, func() bool { return src.productCalls.Load() == 1 }, time.Second, time.Millisecond)

	secondDone := make(chan []models.Product, 1)
	go func() { secondDone <- e.FetchAllProducts(context.Background()) }()

	time.Sleep(10 * time.Millisecond)
	cancelFirst()

	assert.Equal(t, fallbackProducts(), <-firstDone)
	assert.Len(t, <-secondDone, 20)
	assert.Equal(t, int32(1), src.productCalls.Load())
	assert.Equal(t, OriginUpstream, e.Stats(context.Background()).Source)
}

func TestFetchAllProducts_EmptyUpstreamIsNotAFailure(t *testing.T) {
	src := &fakeSource{products: []upstream.APIProduct{}}
	e := NewEngine(src, nil)

	assert.Empty(t, e.FetchAllProducts(context.Background()))

	stats := e.Stats(context.Background())
	assert.Equal(t, OriginUpstream, stats.Source)
	assert.Equal(t, errEmptyUpstream.Error(), stats.LastError)
	assert.Equal(t, int32(1), src.productCalls.Load())
}

func TestReset_RefetchesFromUpstream(t *testing.T) {
	src := &fakeSource{products: twentyProducts()[:3]}
	e := NewEngine(src, nil)

	assert.Len(t, e.FetchAllProducts(context.Background()), 3)

	src.products = twentyProducts()
	assert.Len(t, e.FetchAllProducts(context.Background()), 3)

	e.Reset()
	assert.Len(t, e.FetchAllProducts(context.Background()), 20)
	assert.Equal(t, int32(2), src.productCalls.Load())
}

func TestFetchCategories(t *testing.T) {
	t.Run("upstream", func(t *testing.T) {
		e := NewEngine(&fakeSource{categories: []string{"electronics", "jewelery"}}, nil)
		assert.Equal(t, []string{"all", "electronics", "jewelery"}, e.FetchCategories(context.Background()))
	})

	t.Run("fallback", func(t *testing.T) {
		e := NewEngine(&fakeSource{categoriesErr: errors.New("timeout")}, nil)
		assert.Equal(t,
			[]string{"all", "electronics", "jewelery", "men's clothing", "women's clothing"},
			e.FetchCategories(context.Background()))
	})
}

func TestQuery_CategoryFilter(t *testing.T) {
	e := NewEngine(&fakeSource{products: twentyProducts()}, nil)

	res := e.Query(context.Background(), QueryParams{Page: 1, Category: "Electronics"})

	assert.Equal(t, 12, res.Total)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, PageSize, res.Limit)
	require.Len(t, res.Products, PageSize)
	for _, p := range res.Products {
		assert.Equal(t, "electronics", p.Category)
	}

	second := e.Query(context.Background(), QueryParams{Page: 2, Category: "electronics"})
	assert.Len(t, second.Products, 4)
	assert.Equal(t, 12, second.Total)
}

func TestQuery_AllCategoryMeansNoFilter(t *testing.T) {
	e := NewEngine(&fakeSource{products: twentyProducts()}, nil)

	res := e.Query(context.Background(), QueryParams{Page: 3, Category: AllCategories})
	assert.Equal(t, 20, res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.Len(t, res.Products, 4)
	assert.Equal(t, "17", res.Products[0].ID)
}

func TestQuery_OutOfRangePage(t *testing.T) {
	e, _ := failingEngine()

	res := e.Query(context.Background(), QueryParams{Page: 99})

	assert.Empty(t, res.Products)
	assert.NotNil(t, res.Products)
	assert.Equal(t, 6, res.Total)
	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, 99, res.Page)
}

func TestQuery_SearchOnFallbackCatalog(t *testing.T) {
	e, _ := failingEngine()

	res := e.Query(context.Background(), QueryParams{Page: 1, Search: "  CoTToN "})

	require.Len(t, res.Products, 1)
	assert.Equal(t, "Organic Cotton T-Shirt", res.Products[0].Name)
	assert.Equal(t, 1, res.Total)
}

func TestQuery_SearchMatchesDescriptionAndCategory(t *testing.T) {
	e, _ := failingEngine()

	byDescription := e.Query(context.Background(), QueryParams{Page: 1, Search: "monitoring"})
	require.Len(t, byDescription.Products, 1)
	assert.Equal(t, "4", byDescription.Products[0].ID)

	byCategory := e.Query(context.Background(), QueryParams{Page: 1, Search: "electro"})
	assert.Equal(t, 3, byCategory.Total)
}

func TestQuery_CategoryAndSearchCombined(t *testing.T) {
	e, _ := failingEngine()

	res := e.Query(context.Background(), QueryParams{Page: 1, Category: "electronics", Search: "speaker"})
	require.Len(t, res.Products, 1)
	assert.Equal(t, "Bluetooth Speaker", res.Products[0].Name)

	none := e.Query(context.Background(), QueryParams{Page: 1, Category: "clothing", Search: "speaker"})
	assert.Empty(t, none.Products)
	assert.Equal(t, 0, none.Total)
	assert.Equal(t, 0, none.TotalPages)
}

func TestQuery_PageBelowOneIsFirstPage(t *testing.T) {
	e := NewEngine(&fakeSource{products: twentyProducts()}, nil)

	res := e.Query(context.Background(), QueryParams{Page: 0})
	assert.Equal(t, 1, res.Page)
	assert.Len(t, res.Products, PageSize)
}

func TestQuery_FailureServesFallbackFirstPage(t *testing.T) {
	src := &fakeSource{products: twentyProducts(), delay: time.Second}
	e := NewEngine(src, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := e.Query(ctx, QueryParams{Page: 4, Category: "jewelery"})
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 6, res.Total)
	assert.Len(t, res.Products, 6)
}

func TestProductsByCategory(t *testing.T) {
	e := NewEngine(&fakeSource{products: twentyProducts()}, nil)

	assert.Len(t, e.ProductsByCategory(context.Background(), "JEWELERY"), 8)
	assert.Empty(t, e.ProductsByCategory(context.Background(), "toys"))
}

func TestStats(t *testing.T) {
	e, _ := failingEngine()

	s := e.Stats(context.Background())
	assert.Equal(t, 6, s.TotalProducts)
	assert.Equal(t, 3, s.Categories["electronics"])
	assert.Equal(t, 1, s.Categories["accessories"])
	assert.InDelta(t, 72.49, s.AveragePrice, 0.001)
	assert.Contains(t, s.LastError, "connection refused")
}
