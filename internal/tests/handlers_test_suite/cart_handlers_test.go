package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rogerio-castellano/storefront/internal/auth"
	"github.com/rogerio-castellano/storefront/internal/cart"
	api "github.com/rogerio-castellano/storefront/internal/http"
	handler "github.com/rogerio-castellano/storefront/internal/http/handlers"
	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeCart(t *testing.T, body []byte) handler.CartResponse {
	t.Helper()
	var resp handler.CartResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func quantityOf(t *testing.T, items []models.CartItem, id string) int {
	t.Helper()
	for _, it := range items {
		if it.ID == id {
			return it.Quantity
		}
	}
	t.Fatalf("item %q not in cart", id)
	return 0
}

func TestCartRoutes_RequireSession(t *testing.T) {
	r := api.NewRouter()

	w := get(r, "/cart")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = cartRequest(r, http.MethodGet, "/cart", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetCartHandler_EmptyCart(t *testing.T) {
	t.Cleanup(clearCart)
	clearCart()

	w := cartRequest(api.NewRouter(), http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeCart(t, w.Body.Bytes())
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.Count)
	assert.Equal(t, "$0.00", resp.SubtotalFormatted)
}

func TestAddCartItemHandler(t *testing.T) {
	t.Cleanup(clearCart)
	clearCart()
	r := api.NewRouter()

	tests := []struct {
		name      string
		qty       int
		wantQty   int
		wantLimit bool
	}{
		{"new line", 8, 8, false},
		{"grows without limit", 1, 9, false},
		{"overflows to max", 5, 10, true},
	}

	for _, tt := range tests {
		w := addItem(r, "1", tt.qty)
		require.Equal(t, http.StatusOK, w.Code, tt.name)

		var resp handler.AddItemResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, tt.wantLimit, resp.QuantityLimitReached, tt.name)
		assert.Equal(t, tt.wantQty, quantityOf(t, resp.Items, "1"), tt.name)
	}
}

func TestAddCartItemHandler_HugeQuantityOnExistingLine(t *testing.T) {
	t.Cleanup(clearCart)
	clearCart()
	r := api.NewRouter()
	addItem(r, "1", 5)

	w := cartRequest(r, http.MethodPost, "/cart/items", `{"id":"1","name":"Product 1","price":10.5,"quantity":9223372036854775807}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp handler.AddItemResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.QuantityLimitReached)
	assert.Equal(t, 10, quantityOf(t, resp.Items, "1"))
}

func TestGetProductsHandler_HugePageIsEmpty(t *testing.T) {
	w := get(api.NewRouter(), "/products?page=2305843009213693953")
	require.Equal(t, http.StatusOK, w.Code)

	var res models.PaginatedResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Empty(t, res.Products)
	assert.Equal(t, 10, res.Total)
}

func TestAddCartItemHandler_NewLineAboveMax(t *testing.T) {
	t.Cleanup(clearCart)
	clearCart()

	w := addItem(api.NewRouter(), "2", 15)

	var resp handler.AddItemResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.QuantityLimitReached)
	assert.Equal(t, 10, quantityOf(t, resp.Items, "2"))
}

func TestAddCartItemHandler_DefaultQuantity(t *testing.T) {
	t.Cleanup(clearCart)
	clearCart()

	w := cartRequest(api.NewRouter(), http.MethodPost, "/cart/items", `{"id":"5","name":"Lamp","price":12.5}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeCart(t, w.Body.Bytes())
	assert.Equal(t, 1, quantityOf(t, resp.Items, "5"))
	assert.Equal(t, "$12.50", resp.SubtotalFormatted)
}

func TestAddCartItemHandler_Invalid(t *testing.T) {
	t.Cleanup(clearCart)
	r := api.NewRouter()

	tests := []struct {
		name           string
		payload        string
		expectedErrors []string
	}{
		{"missing id and name", `{"price":1}`, []string{"id", "name"}},
		{"negative price", `{"id":"1","name":"Lamp","price":-2}`, []string{"price"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := cartRequest(r, http.MethodPost, "/cart/items", tt.payload)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp []handler.ValidationError
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

			for _, field := range tt.expectedErrors {
				found := false
				for _, err := range resp {
					if strings.EqualFold(err.Field, field) {
						found = true
						break
					}
				}
				assert.True(t, found, "expected error for field %q", field)
			}
		})
	}
}

func TestAddCartItemHandler_MalformedJSON(t *testing.T) {
	w := cartRequest(api.NewRouter(), http.MethodPost, "/cart/items", `{id: "1" name: "x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateCartItemHandler(t *testing.T) {
	t.Cleanup(clearCart)
	clearCart()
	r := api.NewRouter()
	addItem(r, "3", 5)

	tests := []struct {
		payload string
		want    int
	}{
		{`{"quantity":7}`, 7},
		{`{"quantity":3.9}`, 3},
		{`{"quantity":0}`, 1},
		{`{"quantity":-4}`, 1},
		{`{"quantity":250}`, 10},
		{`{"quantity":"6"}`, 6},
		{`{"quantity":"abc"}`, 1},
		{`{"quantity":null}`, 1},
		{`{"quantity":false}`, 1},
		{`{}`, 1},
	}

	for _, tt := range tests {
		w := cartRequest(r, http.MethodPut, "/cart/items/3", tt.payload)
		require.Equal(t, http.StatusOK, w.Code, tt.payload)
		assert.Equal(t, tt.want, quantityOf(t, decodeCart(t, w.Body.Bytes()).Items, "3"), tt.payload)
	}
}

func TestUpdateCartItemHandler_UnknownID(t *testing.T) {
	t.Cleanup(clearCart)
	clearCart()
	r := api.NewRouter()
	addItem(r, "3", 2)

	w := cartRequest(r, http.MethodPut, "/cart/items/404", `{"quantity":7}`)

	resp := decodeCart(t, w.Body.Bytes())
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
}

func TestIncrementDecrementHandlers(t *testing.T) {
	t.Cleanup(clearCart)
	clearCart()
	r := api.NewRouter()
	addItem(r, "4", 9)

	w := cartRequest(r, http.MethodPost, "/cart/items/4/increment", nil)
	assert.Equal(t, 10, quantityOf(t, decodeCart(t, w.Body.Bytes()).Items, "4"))

	w = cartRequest(r, http.MethodPost, "/cart/items/4/increment", nil)
	assert.Equal(t, 10, quantityOf(t, decodeCart(t, w.Body.Bytes()).Items, "4"))

	cartRequest(r, http.MethodPut, "/cart/items/4", `{"quantity":1}`)
	w = cartRequest(r, http.MethodPost, "/cart/items/4/decrement", nil)
	assert.Equal(t, 1, quantityOf(t, decodeCart(t, w.Body.Bytes()).Items, "4"))
}

func TestRemoveAndClearHandlers(t *testing.T) {
	t.Cleanup(clearCart)
	clearCart()
	r := api.NewRouter()
	addItem(r, "1", 1)
	addItem(r, "2", 2)

	w := cartRequest(r, http.MethodDelete, "/cart/items/404", nil)
	assert.Len(t, decodeCart(t, w.Body.Bytes()).Items, 2)

	w = cartRequest(r, http.MethodDelete, "/cart/items/1", nil)
	resp := decodeCart(t, w.Body.Bytes())
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "2", resp.Items[0].ID)

	w = cartRequest(r, http.MethodDelete, "/cart", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = cartRequest(r, http.MethodGet, "/cart", nil)
	assert.Empty(t, decodeCart(t, w.Body.Bytes()).Items)
}

func TestCart_PersistedUnderSessionKey(t *testing.T) {
	t.Cleanup(clearCart)
	clearCart()
	r := api.NewRouter()
	addItem(r, "6", 3)

	session, err := auth.ParseSessionToken(token)
	require.NoError(t, err)

	data, err := cartSlots.Load(cart.SessionKey(session))
	require.NoError(t, err)

	var persisted []models.CartItem
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, 3, quantityOf(t, persisted, "6"))
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	t.Cleanup(clearCart)
	clearCart()
	r := api.NewRouter()
	addItem(r, "6", 3)

	other, err := createSession(r)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeCart(t, w.Body.Bytes()).Items)
}

func TestGetCartSummaryHandler(t *testing.T) {
	t.Cleanup(clearCart)
	clearCart()
	r := api.NewRouter()

	w := cartRequest(r, http.MethodGet, "/cart/summary", nil)
	var empty handler.OrderSummaryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&empty))
	assert.Equal(t, models.OrderSummary{}, empty.OrderSummary)

	addItem(r, "1", 2) // 2 x 10.50

	w = cartRequest(r, http.MethodGet, "/cart/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp handler.OrderSummaryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, cart.Summarize(21), resp.OrderSummary)
	assert.Equal(t, "$21.00", resp.SubtotalFormatted)
	assert.Equal(t, "$5.00", resp.ShippingFormatted)
	assert.Equal(t, "$1.72", resp.TaxesFormatted)
	assert.Equal(t, "$27.72", resp.TotalFormatted)
}
