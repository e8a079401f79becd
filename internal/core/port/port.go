package port

import (
	"context"
	"errors"

	"github.com/niksmo/storefront/internal/core/domain"
)

var ErrNotFound = errors.New("not found")

type closer interface {
	Close()
}

// CartStorage keeps raw cart payloads by key.
//
// Get returns an error wrapping [ErrNotFound] for an absent key.
// Delete of an absent key is not an error.
type CartStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}

type Badge interface {
	UpdateBadge(count int)
}

type Renderer interface {
	RenderCards([]domain.Product)
	OpenDetail(domain.Product)
}

type CartEventsProducer interface {
	ProduceCart(ctx context.Context, key string, cart domain.Cart) error
	closer
}

type CartReader interface {
	GetCart(context.Context) domain.Cart
	Items(context.Context) []domain.CartLineItem
	Count(context.Context) int
	Subtotal(context.Context) float64
}

type CartWriter interface {
	Add(ctx context.Context, p domain.Product, qty int) error
	AddID(ctx context.Context, id string, qty int) error
	Remove(ctx context.Context, id string) error
	SetQty(ctx context.Context, id string, qty int) error
	Clear(ctx context.Context) error
}

type Cart interface {
	CartReader
	CartWriter
}
