package service

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// DefaultCartKey is the storage key of the persisted cart.
const DefaultCartKey = "ecs_cart_v1"

var _ port.Cart = (*CartStore)(nil)

type lineItemJSON struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
	Image string  `json:"image"`
}

type CartOpt func(*CartStore)

func CartKeyOpt(key string) CartOpt {
	return func(s *CartStore) {
		if key != "" {
			s.key = key
		}
	}
}

func CartBadgeOpt(b port.Badge) CartOpt {
	return func(s *CartStore) {
		s.badge = b
	}
}

func CartEventsOpt(p port.CartEventsProducer) CartOpt {
	return func(s *CartStore) {
		s.events = p
	}
}

// A CartStore is the single writer of the persisted cart.
//
// Malformed arguments and corrupt payloads never produce errors,
// only failed writes to the underlying storage do.
type CartStore struct {
	mu      sync.Mutex
	key     string
	storage port.CartStorage
	badge   port.Badge
	events  port.CartEventsProducer
}

func NewCartStore(storage port.CartStorage, opts ...CartOpt) *CartStore {
	const op = "NewCartStore"

	if storage == nil {
		panic(fmt.Errorf("%s: storage is nil", op)) // develop mistake
	}

	s := &CartStore{key: DefaultCartKey, storage: storage}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CartStore) Key() string {
	return s.key
}

// GetCart returns the persisted cart or an empty one
// if the payload is absent or malformed.
func (s *CartStore) GetCart(ctx context.Context) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// SetCart replaces the persisted cart with a single write.
func (s *CartStore) SetCart(ctx context.Context, cart domain.Cart) error {
	const op = "CartStore.SetCart"

	s.mu.Lock()
	err := s.save(ctx, cart)
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.notify(ctx, cart)
	return nil
}

// Add increments the quantity of the product line item,
// seeding it from the product fields when absent.
func (s *CartStore) Add(ctx context.Context, p domain.Product, qty int) error {
	const op = "CartStore.Add"

	err := s.add(ctx, p.ID, qty, func() domain.CartLineItem {
		return domain.CartLineItem{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price,
			Image: p.FirstImage(),
		}
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AddID increments the quantity of the line item with id.
//
// A missing item is seeded as a placeholder with empty name,
// zero price and no image.
func (s *CartStore) AddID(ctx context.Context, id string, qty int) error {
	const op = "CartStore.AddID"

	err := s.add(ctx, id, qty, func() domain.CartLineItem {
		return domain.CartLineItem{ID: id}
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *CartStore) add(
	ctx context.Context, id string, qty int, seed func() domain.CartLineItem,
) error {
	const op = "CartStore.add"

	if id == "" || qty < 1 {
		slog.Debug("ignored", "op", op, "id", id, "qty", qty)
		return nil
	}

	return s.update(ctx, func(cart domain.Cart) bool {
		it, ok := cart[id]
		if !ok {
			it = seed()
		}
		it.Qty += qty
		cart[id] = it
		return true
	})
}

// Remove deletes the line item with id, if present.
func (s *CartStore) Remove(ctx context.Context, id string) error {
	const op = "CartStore.Remove"

	err := s.update(ctx, func(cart domain.Cart) bool {
		if _, ok := cart[id]; !ok {
			return false
		}
		delete(cart, id)
		return true
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetQty overwrites the quantity of an existing line item.
// Quantities below 1 are clamped to 1.
func (s *CartStore) SetQty(ctx context.Context, id string, qty int) error {
	const op = "CartStore.SetQty"

	err := s.update(ctx, func(cart domain.Cart) bool {
		it, ok := cart[id]
		if !ok {
			return false
		}
		it.Qty = max(1, qty)
		cart[id] = it
		return true
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Clear removes the persisted cart.
func (s *CartStore) Clear(ctx context.Context) error {
	const op = "CartStore.Clear"

	s.mu.Lock()
	err := s.storage.Delete(ctx, s.key)
	s.mu.Unlock()

	if err != nil && !errors.Is(err, port.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.notify(ctx, domain.Cart{})
	return nil
}

// Items returns a snapshot of the line items ordered by id.
func (s *CartStore) Items(ctx context.Context) []domain.CartLineItem {
	cart := s.GetCart(ctx)
	items := make([]domain.CartLineItem, 0, len(cart))
	for _, it := range cart {
		items = append(items, it)
	}
	slices.SortFunc(items, func(a, b domain.CartLineItem) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return items
}

func (s *CartStore) Count(ctx context.Context) int {
	return s.GetCart(ctx).Count()
}

func (s *CartStore) Subtotal(ctx context.Context) float64 {
	return s.GetCart(ctx).Subtotal()
}

// UpdateCartCount pushes the current count to the badge, if any.
func (s *CartStore) UpdateCartCount(ctx context.Context) {
	if s.badge == nil {
		return
	}
	s.badge.UpdateBadge(s.Count(ctx))
}

// update runs a read-modify-write cycle under the lock. fn reports
// whether it changed the cart. Observers are notified after unlocking.
func (s *CartStore) update(ctx context.Context, fn func(domain.Cart) bool) error {
	s.mu.Lock()

	cart, err := s.read(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !fn(cart) {
		s.mu.Unlock()
		return nil
	}
	err = s.save(ctx, cart)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(ctx, cart)
	return nil
}

func (s *CartStore) load(ctx context.Context) domain.Cart {
	const op = "CartStore.load"

	cart, err := s.read(ctx)
	if err != nil {
		slog.Warn("failed to read cart, using empty", "op", op, "err", err)
		return domain.Cart{}
	}
	return cart
}

// read returns an empty cart for a missing or malformed payload.
// Other storage failures are returned, a write must not overwrite
// a cart that could not be read.
func (s *CartStore) read(ctx context.Context) (domain.Cart, error) {
	const op = "CartStore.read"

	payload, err := s.storage.Get(ctx, s.key)
	if errors.Is(err, port.ErrNotFound) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cart, err := decodeCart(payload)
	if err != nil {
		slog.Warn("malformed cart payload, using empty", "op", op, "err", err)
		return domain.Cart{}, nil
	}
	return cart, nil
}

func (s *CartStore) save(ctx context.Context, cart domain.Cart) error {
	payload, err := encodeCart(cart)
	if err != nil {
		return err
	}
	return s.storage.Set(ctx, s.key, payload)
}

// notify must be called without holding mu.
func (s *CartStore) notify(ctx context.Context, cart domain.Cart) {
	const op = "CartStore.notify"
	log := slog.With("op", op)

	if s.badge != nil {
		s.badge.UpdateBadge(cart.Count())
	}

	if s.events == nil {
		return
	}
	if err := s.events.ProduceCart(ctx, s.key, cart); err != nil {
		log.Error("failed to produce cart event", "err", err)
	}
}

func encodeCart(cart domain.Cart) ([]byte, error) {
	const op = "encodeCart"

	m := make(map[string]lineItemJSON, len(cart))
	for k, it := range cart {
		m[k] = lineItemJSON{
			ID:    it.ID,
			Name:  it.Name,
			Price: it.Price,
			Qty:   it.Qty,
			Image: it.Image,
		}
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// decodeCart skips entries that would break the qty >= 1 invariant.
func decodeCart(payload []byte) (domain.Cart, error) {
	const op = "decodeCart"

	var m map[string]lineItemJSON
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cart := make(domain.Cart, len(m))
	for k, v := range m {
		if k == "" || v.Qty < 1 {
			continue
		}
		cart[k] = domain.CartLineItem{
			ID:    v.ID,
			Name:  v.Name,
			Price: v.Price,
			Image: v.Image,
			Qty:   v.Qty,
		}
	}
	return cart, nil
}
