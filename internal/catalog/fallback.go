package catalog

import "github.com/rogerio-castellano/storefront/internal/models"

// fallbackProducts is served whenever the catalog API cannot be reached.
func fallbackProducts() []models.Product {
	return []models.Product{
		{
			ID:          "1",
			Name:        "Eco-Friendly Water Bottle",
			Description: "Stay hydrated with our stylish and sustainable water bottle.",
			Price:       19.99,
			Image:       "/eco-friendly-water-bottle.jpg",
			Category:    "lifestyle",
			Rating:      models.Rating{Rate: 4.5, Count: 120},
		},
		{
			ID:          "2",
			Name:        "Wireless Headphones",
			Description: "Premium noise-canceling wireless headphones.",
			Price:       149.99,
			Image:       "/wireless-headphones.png",
			Category:    "electronics",
			Rating:      models.Rating{Rate: 4.8, Count: 89},
		},
		{
			ID:          "3",
			Name:        "Organic Cotton T-Shirt",
			Description: "Comfortable and breathable 100% organic cotton.",
			Price:       24.99,
			Image:       "/organic-cotton-t-shirt.jpg",
			Category:    "clothing",
			Rating:      models.Rating{Rate: 4.3, Count: 156},
		},
		{
			ID:          "4",
			Name:        "Smart Security Camera",
			Description: "Keep your home safe with advanced monitoring.",
			Price:       89.99,
			Image:       "/smart-security-camera.jpg",
			Category:    "electronics",
			Rating:      models.Rating{Rate: 4.6, Count: 203},
		},
		{
			ID:          "5",
			Name:        "Bluetooth Speaker",
			Description: "Compact speaker for tunes on the go.",
			Price:       49.99,
			Image:       "/bluetooth-speaker.jpg",
			Category:    "electronics",
			Rating:      models.Rating{Rate: 4.4, Count: 167},
		},
		{
			ID:          "6",
			Name:        "Leather Messenger Bag",
			Description: "Carry your essentials in durable style.",
			Price:       99.99,
			Image:       "/leather-messenger-bag.jpg",
			Category:    "accessories",
			Rating:      models.Rating{Rate: 4.7, Count: 98},
		},
	}
}

func fallbackCategories() []string {
	return []string{"electronics", "jewelery", "men's clothing", "women's clothing"}
}
