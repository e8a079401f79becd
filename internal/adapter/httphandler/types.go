package httphandler

import "github.com/niksmo/storefront/internal/core/domain"

type (
	Product struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Price       float64  `json:"price"`
		Category    string   `json:"category"`
		Tags        []string `json:"tags"`
		Images      []string `json:"images"`
		Description string   `json:"description"`
	}

	Filters struct {
		Filters []string `json:"filters"`
		Active  string   `json:"active"`
	}

	CartLineItem struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
		Qty   int     `json:"qty"`
		Image string  `json:"image"`
	}

	Cart struct {
		Items    []CartLineItem `json:"items"`
		Count    int            `json:"count"`
		Subtotal float64        `json:"subtotal"`
	}
)

type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Qty       *int   `json:"qty"`
}

type SetQtyRequest struct {
	Qty int `json:"qty"`
}

func fromDomainProduct(p domain.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Tags:        p.Tags,
		Images:      p.Images,
		Description: p.Description,
	}
}

func fromDomainProducts(ps []domain.Product) []Product {
	out := make([]Product, len(ps))
	for i := range ps {
		out[i] = fromDomainProduct(ps[i])
	}
	return out
}

func fromDomainItems(items []domain.CartLineItem) (c Cart) {
	c.Items = make([]CartLineItem, len(items))
	for i, it := range items {
		c.Items[i] = CartLineItem{
			ID:    it.ID,
			Name:  it.Name,
			Price: it.Price,
			Qty:   it.Qty,
			Image: it.Image,
		}
		c.Count += it.Qty
		c.Subtotal += it.Price * float64(it.Qty)
	}
	return c
}
