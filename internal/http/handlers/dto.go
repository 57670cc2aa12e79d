package handlers

import (
	"time"

	"github.com/rogerio-castellano/storefront/internal/models"
)

type HealthResponse struct {
	Status string `json:"status"`
}

type SessionResponse struct {
	Session   string    `json:"session"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AddItemRequest struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name" validate:"required,max=200"`
	Price    float64 `json:"price" validate:"gte=0"`
	Image    string  `json:"image" validate:"max=2048"`
	Quantity *int    `json:"quantity,omitempty"` // defaults to 1
}

// UpdateQuantityRequest keeps quantity raw: strings, booleans and nulls are
// accepted and anything that is not a number counts as zero.
type UpdateQuantityRequest struct {
	Quantity any `json:"quantity"`
}

type CartResponse struct {
	Items             []models.CartItem `json:"items"`
	Count             int               `json:"count"`
	Subtotal          float64           `json:"subtotal"`
	SubtotalFormatted string            `json:"subtotal_formatted"`
}

type AddItemResponse struct {
	CartResponse
	QuantityLimitReached bool `json:"quantityLimitReached"`
}

type OrderSummaryResponse struct {
	models.OrderSummary
	SubtotalFormatted string `json:"subtotal_formatted"`
	ShippingFormatted string `json:"shipping_formatted"`
	TaxesFormatted    string `json:"taxes_formatted"`
	TotalFormatted    string `json:"total_formatted"`
}
