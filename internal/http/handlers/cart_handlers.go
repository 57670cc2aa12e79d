package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/storefront/internal/cart"
)

func cartResponse(s *cart.Store) CartResponse {
	snap := s.Snapshot()
	return CartResponse{
		Items:             snap.Items,
		Count:             snap.Count,
		Subtotal:          snap.Subtotal,
		SubtotalFormatted: cart.FormatCurrency(snap.Subtotal),
	}
}

// GetCartHandler godoc
// @Summary Current cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CartResponse
// @Failure 401 {string} string "Unauthorized"
// @Router /cart [get]
func GetCartHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, cartResponse(sessionCart(r)))
}

// AddCartItemHandler godoc
// @Summary Add a product to the cart
// @Description Quantity defaults to 1. Lines never exceed 10 units; quantityLimitReached reports dropped units.
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body AddItemRequest true "Product snapshot and quantity"
// @Success 200 {object} AddItemResponse
// @Failure 400 {object} []ValidationError
// @Failure 401 {string} string "Unauthorized"
// @Router /cart/items [post]
func AddCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if errs := validateRequest(req); len(errs) > 0 {
		respond(w, http.StatusBadRequest, errs)
		return
	}

	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	s := sessionCart(r)
	res := s.AddItem(cart.ItemStub{ID: req.ID, Name: req.Name, Price: req.Price, Image: req.Image}, qty)
	respond(w, http.StatusOK, AddItemResponse{CartResponse: cartResponse(s), QuantityLimitReached: res.QuantityLimitReached})
}

// UpdateCartItemHandler godoc
// @Summary Set the quantity of a cart line
// @Description The value is floored and clamped to 1..10. Unknown ids leave the cart unchanged.
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param quantity body UpdateQuantityRequest true "New quantity"
// @Success 200 {object} CartResponse
// @Failure 400 {string} string "Invalid input"
// @Router /cart/items/{id} [put]
func UpdateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	s := sessionCart(r)
	s.UpdateQuantity(chi.URLParam(r, "id"), quantityValue(req.Quantity))
	respond(w, http.StatusOK, cartResponse(s))
}

// IncrementCartItemHandler godoc
// @Summary Add one unit to a cart line
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} CartResponse
// @Router /cart/items/{id}/increment [post]
func IncrementCartItemHandler(w http.ResponseWriter, r *http.Request) {
	s := sessionCart(r)
	s.Increment(chi.URLParam(r, "id"))
	respond(w, http.StatusOK, cartResponse(s))
}

// DecrementCartItemHandler godoc
// @Summary Remove one unit from a cart line
// @Description A line never drops below one unit; use DELETE to remove it.
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} CartResponse
// @Router /cart/items/{id}/decrement [post]
func DecrementCartItemHandler(w http.ResponseWriter, r *http.Request) {
	s := sessionCart(r)
	s.Decrement(chi.URLParam(r, "id"))
	respond(w, http.StatusOK, cartResponse(s))
}

// RemoveCartItemHandler godoc
// @Summary Remove a cart line
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} CartResponse
// @Router /cart/items/{id} [delete]
func RemoveCartItemHandler(w http.ResponseWriter, r *http.Request) {
	s := sessionCart(r)
	s.RemoveItem(chi.URLParam(r, "id"))
	respond(w, http.StatusOK, cartResponse(s))
}

// ClearCartHandler godoc
// @Summary Empty the cart
// @Tags cart
// @Security BearerAuth
// @Success 204
// @Router /cart [delete]
func ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	sessionCart(r).Clear()
	w.WriteHeader(http.StatusNoContent)
}

// GetCartSummaryHandler godoc
// @Summary Order summary
// @Description Subtotal, flat shipping, taxes and total of the current cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} OrderSummaryResponse
// @Router /cart/summary [get]
func GetCartSummaryHandler(w http.ResponseWriter, r *http.Request) {
	sum := cart.Summarize(sessionCart(r).Subtotal())
	respond(w, http.StatusOK, OrderSummaryResponse{
		OrderSummary:      sum,
		SubtotalFormatted: cart.FormatCurrency(sum.Subtotal),
		ShippingFormatted: cart.FormatCurrency(sum.Shipping),
		TaxesFormatted:    cart.FormatCurrency(sum.Taxes),
		TotalFormatted:    cart.FormatCurrency(sum.Total),
	})
}
