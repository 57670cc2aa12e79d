package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rogerio-castellano/storefront/internal/cart"
	"github.com/rogerio-castellano/storefront/internal/catalog"
	api "github.com/rogerio-castellano/storefront/internal/http"
	handler "github.com/rogerio-castellano/storefront/internal/http/handlers"
	rl "github.com/rogerio-castellano/storefront/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront/internal/repo"
	"github.com/rogerio-castellano/storefront/internal/upstream"
)

var (
	token      string
	cartSlots  *repo.InMemoryCartSlotRepository
	catalogAPI *httptest.Server
	engine     *catalog.Engine
)

// upstreamProducts are served by the stub catalog API: 6 electronics, 3
// jewelery and one men's clothing item.
var upstreamProducts = func() []map[string]any {
	out := make([]map[string]any, 0, 10)
	for i := 1; i <= 10; i++ {
		category := "electronics"
		switch {
		case i >= 7 && i <= 9:
			category = "jewelery"
		case i == 10:
			category = "men's clothing"
		}
		title := fmt.Sprintf("Product %d", i)
		if i == 10 {
			title = "Cotton Jacket"
		}
		out = append(out, map[string]any{
			"id":          i,
			"title":       title,
			"price":       float64(i) + 0.99,
			"description": title + " description",
			"category":    category,
			"image":       fmt.Sprintf("https://example.test/%d.jpg", i),
			"rating":      map[string]any{"rate": 4.1, "count": i * 10},
		})
	}
	return out
}()

func init() {
	rl.Configure(1000, 1000)

	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(upstreamProducts)
	})
	mux.HandleFunc("/products/categories", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]string{"electronics", "jewelery", "men's clothing"})
	})
	catalogAPI = httptest.NewServer(mux)

	engine = catalog.NewEngine(upstream.NewClient(catalogAPI.URL, 2*time.Second), nil)
	handler.SetCatalog(engine)

	cartSlots = repo.NewInMemoryCartSlotRepository()
	handler.SetCartRegistry(cart.NewRegistry(cartSlots, nil))

	var err error
	token, err = createSession(api.NewRouter())
	if err != nil {
		panic(fmt.Sprintf("error creating session: %v", err))
	}
}

func clearCart() {
	r := api.NewRouter()
	req := httptest.NewRequest(http.MethodDelete, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(httptest.NewRecorder(), req)
}

func createSession(r http.Handler) (string, error) {
	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		return "", fmt.Errorf("expected 201 Created, got %d", w.Code)
	}

	var resp handler.SessionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func cartRequest(r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		if raw, ok := payload.(string); ok {
			body.WriteString(raw)
		} else {
			json.NewEncoder(&body).Encode(payload)
		}
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func addItem(r http.Handler, id string, qty int) *httptest.ResponseRecorder {
	return cartRequest(r, http.MethodPost, "/cart/items", handler.AddItemRequest{
		ID:       id,
		Name:     "Product " + id,
		Price:    10.5,
		Image:    "https://example.test/" + id + ".jpg",
		Quantity: &qty,
	})
}
