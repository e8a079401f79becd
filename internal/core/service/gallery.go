package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// A Gallery computes the visible part of a fixed catalog
// and hands it to the renderer.
//
// Gallery owns the filter state of a single session and is not safe
// for concurrent use.
type Gallery struct {
	products []domain.Product
	filters  []string
	state    domain.FilterState
	cart     port.CartWriter
	renderer port.Renderer
}

// NewGallery returns a gallery over the products. The cart and the renderer
// are optional.
func NewGallery(
	products []domain.Product, cart port.CartWriter, renderer port.Renderer,
) *Gallery {
	return &Gallery{
		products: products,
		filters:  categories(products),
		state:    domain.NewFilterState(),
		cart:     cart,
		renderer: renderer,
	}
}

func categories(ps []domain.Product) []string {
	seen := make(map[string]struct{})
	out := []string{domain.AllCategories}
	for _, p := range ps {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Filters returns "All" followed by the catalog categories
// in first-seen order.
func (g *Gallery) Filters() []string {
	out := make([]string, len(g.filters))
	copy(out, g.filters)
	return out
}

func (g *Gallery) State() domain.FilterState {
	return g.state
}

func (g *Gallery) SetActiveFilter(category string) {
	g.state.ActiveCategory = category
	g.Render()
}

// SetSearchQuery stores text as is, normalization happens on match.
func (g *Gallery) SetSearchQuery(text string) {
	g.state.SearchQuery = text
	g.Render()
}

// Apply replaces the whole filter state and re-renders once.
func (g *Gallery) Apply(state domain.FilterState) {
	if state.ActiveCategory == "" {
		state.ActiveCategory = domain.AllCategories
	}
	g.state = state
	g.Render()
}

// FilteredProducts returns the matching products in catalog order.
func (g *Gallery) FilteredProducts() []domain.Product {
	q := strings.ToLower(strings.TrimSpace(g.state.SearchQuery))

	out := make([]domain.Product, 0, len(g.products))
	for _, p := range g.products {
		if matchCategory(p, g.state.ActiveCategory) && matchQuery(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func matchCategory(p domain.Product, category string) bool {
	return category == domain.AllCategories || p.Category == category
}

// matchQuery expects q already trimmed and lower-cased.
func matchQuery(p domain.Product, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

func (g *Gallery) Product(id string) (domain.Product, bool) {
	for _, p := range g.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Render draws the current view list. No-op without a renderer.
func (g *Gallery) Render() {
	if g.renderer == nil {
		return
	}
	g.renderer.RenderCards(g.FilteredProducts())
}

// QuickView opens the detail view of the product with id.
func (g *Gallery) QuickView(id string) {
	if g.renderer == nil {
		return
	}
	p, ok := g.Product(id)
	if !ok {
		return
	}
	g.renderer.OpenDetail(p)
}

// AddToCart adds one unit of the catalog product with id.
// Unknown ids are ignored.
func (g *Gallery) AddToCart(ctx context.Context, id string) error {
	const op = "Gallery.AddToCart"

	if g.cart == nil {
		return nil
	}
	p, ok := g.Product(id)
	if !ok {
		return nil
	}
	if err := g.cart.Add(ctx, p, 1); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
