package domain

// A CartLineItem is one product id with its aggregated quantity.
//
// Qty is always >= 1.
type CartLineItem struct {
	ID    string
	Name  string
	Price float64
	Image string
	Qty   int
}

// A Cart maps product id to its line item.
type Cart map[string]CartLineItem

func (c Cart) Count() (n int) {
	for _, it := range c {
		n += it.Qty
	}
	return n
}

func (c Cart) Subtotal() (s float64) {
	for _, it := range c {
		s += it.Price * float64(it.Qty)
	}
	return s
}
