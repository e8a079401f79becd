// Package render draws the gallery as plain text.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.Renderer = TextRenderer{}

type TextRenderer struct {
	w io.Writer
}

func NewTextRenderer(w io.Writer) TextRenderer {
	return TextRenderer{w}
}

func (r TextRenderer) RenderCards(ps []domain.Product) {
	if len(ps) == 0 {
		r.printf("No products found.\n")
		return
	}
	for _, p := range ps {
		r.printf("[%s] %s  %s  %s\n", p.ID, p.Name, Price(p.Price), p.Category)
		if len(p.Tags) != 0 {
			r.printf("    #%s\n", strings.Join(p.Tags, " #"))
		}
	}
}

// OpenDetail prints the product with its image carousel slides.
func (r TextRenderer) OpenDetail(p domain.Product) {
	r.printf("%s\n%s\n%s\n", p.Name, Price(p.Price), p.Description)
	r.printf("Category: %s\n", p.Category)
	r.printf("Tags: %s\n", strings.Join(p.Tags, ", "))
	for i, src := range p.Images {
		r.printf("  slide %d/%d: %s\n", i+1, len(p.Images), src)
	}
}

func (r TextRenderer) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.w, format, a...)
}

// Price formats an amount in dollars with two decimals.
func Price(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
