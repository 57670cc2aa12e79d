package models

// Rating is the upstream review aggregate of a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product represents a sellable item of the catalog.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Rating      Rating  `json:"rating"`
}

// PaginatedResult is one page of a filtered catalog query.
type PaginatedResult struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"totalPages"`
}
