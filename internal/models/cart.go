package models

// CartItem is one line of a shopping cart. Name, Price and Image are copied
// from the product when the line is created and never refreshed.
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// OrderSummary holds the totals shown before checkout.
type OrderSummary struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Taxes    float64 `json:"taxes"`
	Total    float64 `json:"total"`
}
