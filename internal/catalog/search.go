package catalog

import (
	"context"
	"strings"
)

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	Category    string  `json:"category"`
	InStock     bool    `json:"in_stock"`
}

// ProductResults is the CatalogSearch response: matched products plus an
// optional canned natural-language response. AIResponse may be empty, in
// which case the caller synthesizes one.
type ProductResults struct {
	Products   []Product `json:"products"`
	AIResponse string    `json:"ai_response,omitempty"`
}

// ProductSearch matches products by case-insensitive substring over name,
// category and description.
type ProductSearch struct {
	products   []Product
	maxResults int
}

func NewProductSearch() *ProductSearch {
	return &ProductSearch{products: storeProducts, maxResults: 20}
}

func (s *ProductSearch) Search(ctx context.Context, query string) (*ProductResults, error) {
	queryLower := strings.ToLower(strings.TrimSpace(query))

	var matched []Product
	for _, product := range s.products {
		if strings.Contains(strings.ToLower(product.Name), queryLower) ||
			strings.Contains(strings.ToLower(product.Category), queryLower) ||
			strings.Contains(strings.ToLower(product.Description), queryLower) {
			matched = append(matched, product)
		}
	}

	if len(matched) > s.maxResults {
		matched = matched[:s.maxResults]
	}

	return &ProductResults{Products: matched}, nil
}

var storeProducts = []Product{
	{
		ID:          "1",
		Name:        "Organic Bananas",
		Description: "Fresh organic bananas, perfect for smoothies or a healthy snack.",
		Price:       2.99,
		Category:    "Grocery",
		InStock:     true,
	},
	{
		ID:          "2",
		Name:        "Whole Wheat Bread",
		Description: "Freshly baked whole wheat bread, perfect for sandwiches.",
		Price:       3.49,
		Category:    "Grocery",
		InStock:     true,
	},
	{
		ID:          "3",
		Name:        "Organic Milk",
		Description: "Fresh organic milk from grass-fed cows.",
		Price:       4.99,
		Category:    "Grocery",
		InStock:     true,
	},
	{
		ID:          "4",
		Name:        "Free Range Eggs",
		Description: "Dozen free-range eggs from local farms.",
		Price:       5.49,
		Category:    "Grocery",
		InStock:     true,
	},
	{
		ID:          "5",
		Name:        "Avocados",
		Description: "Ripe avocados, perfect for guacamole or toast.",
		Price:       6.99,
		Category:    "Grocery",
		InStock:     true,
	},
	{
		ID:          "6",
		Name:        "Wireless Headphones",
		Description: "Premium wireless headphones with noise cancellation.",
		Price:       149.99,
		Category:    "Electronics",
		InStock:     true,
	},
	{
		ID:          "7",
		Name:        "Smart Watch",
		Description: "Track your fitness and stay connected with this smart watch.",
		Price:       199.99,
		Category:    "Electronics",
		InStock:     true,
	},
	{
		ID:          "8",
		Name:        "Cotton T-Shirt",
		Description: "Comfortable cotton t-shirt, available in multiple colors.",
		Price:       19.99,
		Category:    "Clothing",
		InStock:     true,
	},
	{
		ID:          "9",
		Name:        "Denim Jeans",
		Description: "Classic denim jeans, perfect for any occasion.",
		Price:       49.99,
		Category:    "Clothing",
		InStock:     true,
	},
	{
		ID:          "10",
		Name:        "Running Shoes",
		Description: "Lightweight running shoes with excellent support.",
		Price:       89.99,
		Category:    "Footwear",
		InStock:     true,
	},
	{
		ID:          "11",
		Name:        "Smartphone",
		Description: "Latest model with high-resolution camera and fast processor.",
		Price:       799.99,
		Category:    "Electronics",
		InStock:     false,
	},
	{
		ID:          "12",
		Name:        "Laptop",
		Description: "Powerful laptop for work and entertainment.",
		Price:       1299.99,
		Category:    "Electronics",
		InStock:     true,
	},
	{
		ID:          "13",
		Name:        "Coffee Maker",
		Description: "Programmable coffee maker for the perfect brew every morning.",
		Price:       79.99,
		Category:    "Home",
		InStock:     true,
	},
	{
		ID:          "14",
		Name:        "Blender",
		Description: "High-speed blender for smoothies and food preparation.",
		Price:       59.99,
		Category:    "Home",
		InStock:     true,
	},
	{
		ID:          "15",
		Name:        "Yoga Mat",
		Description: "Non-slip yoga mat for comfortable workouts.",
		Price:       29.99,
		Category:    "Fitness",
		InStock:     true,
	},
	{
		ID:          "16",
		Name:        "Dumbbells",
		Description: "Set of adjustable dumbbells for home workouts.",
		Price:       149.99,
		Category:    "Fitness",
		InStock:     true,
	},
	{
		ID:          "17",
		Name:        "Backpack",
		Description: "Durable backpack with multiple compartments.",
		Price:       39.99,
		Category:    "Accessories",
		InStock:     true,
	},
	{
		ID:          "18",
		Name:        "Sunglasses",
		Description: "Stylish sunglasses with UV protection.",
		Price:       89.99,
		Category:    "Accessories",
		InStock:     true,
	},
}
