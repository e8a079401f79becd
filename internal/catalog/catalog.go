// Package catalog holds the fixed storefront product list.
package catalog

import (
	"slices"

	"github.com/niksmo/storefront/internal/core/domain"
)

const imagesDir = "./images/"

func img(name string) string {
	return imagesDir + name
}

// Products returns a deep copy of the catalog in display order.
func Products() []domain.Product {
	ps := make([]domain.Product, len(products))
	for i, p := range products {
		p.Tags = slices.Clone(p.Tags)
		p.Images = slices.Clone(p.Images)
		ps[i] = p
	}
	return ps
}

var products = []domain.Product{
	{
		ID:          "p-001",
		Name:        "Aurora Headphones",
		Price:       99.0,
		Category:    "Electronics",
		Tags:        []string{"audio", "wireless"},
		Images:      []string{img("Aurora Headphones.jpeg"), img("Aurora Headphones.jpeg")},
		Description: "Lightweight wireless headphones with deep bass and 30-hour battery life.",
	},
	{
		ID:          "p-002",
		Name:        "Summit Backpack",
		Price:       59.0,
		Category:    "Accessories",
		Tags:        []string{"outdoor", "travel"},
		Images:      []string{img("Summit Backpack.jpeg"), img("Summit Backpack.jpeg")},
		Description: "Durable 25L backpack with water-resistant fabric and multiple compartments.",
	},
	{
		ID:          "p-003",
		Name:        "Breeze T-Shirt",
		Price:       19.0,
		Category:    "Apparel",
		Tags:        []string{"cotton", "unisex"},
		Images:      []string{img("Breeze T-Shirt.jpeg"), img("Breeze T-Shirt.jpeg")},
		Description: "Soft-touch cotton tee designed for everyday comfort and breathability.",
	},
	{
		ID:          "p-004",
		Name:        "Zen Mug",
		Price:       14.0,
		Category:    "Home",
		Tags:        []string{"ceramic", "kitchen"},
		Images:      []string{img("Zen Mug.jpeg"), img("Zen Mug.jpeg")},
		Description: "Matte ceramic mug with ergonomic handle and heat-retaining build.",
	},
	{
		ID:          "p-005",
		Name:        "Nimbus Sneakers",
		Price:       79.0,
		Category:    "Footwear",
		Tags:        []string{"running", "lightweight"},
		Images:      []string{img("Nimbus Sneakers.jpeg"), img("Nimbus Sneakers.jpeg")},
		Description: "Breathable running sneakers engineered for cushioning and support.",
	},
	{
		ID:          "p-006",
		Name:        "Orbit Watch",
		Price:       129.0,
		Category:    "Accessories",
		Tags:        []string{"smart", "bluetooth"},
		Images:      []string{img("Orbit Watch.jpeg"), img("Orbit Watch.jpeg")},
		Description: "Minimal smartwatch with notifications, fitness tracking, and 7-day battery.",
	},
	{
		ID:          "p-007",
		Name:        "Cascade Bottle",
		Price:       24.0,
		Category:    "Home",
		Tags:        []string{"steel", "insulated"},
		Images:      []string{img("Cascade Bottle.jpeg"), img("Cascade Bottle.jpeg")},
		Description: "Vacuum-insulated stainless bottle keeps drinks cold for 24 hours.",
	},
	{
		ID:          "p-008",
		Name:        "Pixel Camera",
		Price:       399.0,
		Category:    "Electronics",
		Tags:        []string{"dslr", "photography"},
		Images:      []string{img("Pixel Camera.jpeg"), img("Pixel Camera.jpeg")},
		Description: "Compact camera with 24MP sensor and fast autofocus for crisp shots.",
	},
	{
		ID:          "p-009",
		Name:        "Trail Cap",
		Price:       15.0,
		Category:    "Apparel",
		Tags:        []string{"hat", "outdoor"},
		Images:      []string{img("Trail Cap.jpeg"), img("Trail Cap.jpeg")},
		Description: "Breathable running cap with UV protection and quick-dry fabric.",
	},
	{
		ID:          "p-010",
		Name:        "Feather Jacket",
		Price:       149.0,
		Category:    "Apparel",
		Tags:        []string{"winter", "down"},
		Images:      []string{img("Feather Jacket.jpeg"), img("Feather Jacket.jpeg")},
		Description: "Ultralight insulated jacket designed for warmth without bulk.",
	},
}
