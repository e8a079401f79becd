package service

import (
	"context"
	"errors"
	"testing"

	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBadge struct {
	mock.Mock
}

func (b *MockBadge) UpdateBadge(count int) {
	b.Called(count)
}

type MockCartEventsProducer struct {
	mock.Mock
}

func (p *MockCartEventsProducer) ProduceCart(
	ctx context.Context, key string, cart domain.Cart,
) error {
	args := p.Called(ctx, key, cart)
	return args.Error(0)
}

func (p *MockCartEventsProducer) Close() {
	p.Called()
}

type brokenStorage struct {
	*storage.MemoryStorage
}

func (brokenStorage) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

type flakyReadStorage struct {
	*storage.MemoryStorage
	fail bool
}

func (s *flakyReadStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if s.fail {
		return nil, errors.New("connection reset")
	}
	return s.MemoryStorage.Get(ctx, key)
}

var headphones = domain.Product{
	ID:       "p-001",
	Name:     "Aurora Headphones",
	Price:    99,
	Category: "Electronics",
	Tags:     []string{"audio", "wireless"},
	Images:   []string{"aurora-1.jpeg", "aurora-2.jpeg"},
}

func newTestCartStore(opts ...CartOpt) (*CartStore, *storage.MemoryStorage) {
	s := storage.NewMemoryStorage()
	return NewCartStore(s, opts...), s
}

func TestCartStoreGetCart(t *testing.T) {
	t.Run("Absent", func(t *testing.T) {
		cs, _ := newTestCartStore()
		assert.Empty(t, cs.GetCart(t.Context()))
	})

	t.Run("Malformed", func(t *testing.T) {
		cs, s := newTestCartStore()
		require.NoError(t, s.Set(t.Context(), DefaultCartKey, []byte("{not json")))
		assert.Empty(t, cs.GetCart(t.Context()))
	})

	t.Run("DropsNonPositiveQty", func(t *testing.T) {
		cs, s := newTestCartStore()
		payload := `{
			"a": {"id":"a","name":"A","price":1,"qty":0,"image":""},
			"b": {"id":"b","name":"B","price":2,"qty":2,"image":"b.jpeg"}
		}`
		require.NoError(t, s.Set(t.Context(), DefaultCartKey, []byte(payload)))

		assert.Equal(t, domain.Cart{
			"b": {ID: "b", Name: "B", Price: 2, Qty: 2, Image: "b.jpeg"},
		}, cs.GetCart(t.Context()))
	})

	t.Run("PersistedFormat", func(t *testing.T) {
		cs, s := newTestCartStore()
		require.NoError(t, cs.Add(t.Context(), headphones, 1))

		payload, err := s.Get(t.Context(), DefaultCartKey)
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"p-001":{"id":"p-001","name":"Aurora Headphones","price":99,"qty":1,"image":"aurora-1.jpeg"}}`,
			string(payload),
		)
	})

	t.Run("CustomKey", func(t *testing.T) {
		cs, s := newTestCartStore(CartKeyOpt("cart_v2"))
		require.NoError(t, cs.AddID(t.Context(), "x", 1))
		assert.Equal(t, "cart_v2", cs.Key())

		_, err := s.Get(t.Context(), "cart_v2")
		assert.NoError(t, err)
		_, err = s.Get(t.Context(), DefaultCartKey)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestCartStoreSetCart(t *testing.T) {
	cs, _ := newTestCartStore()

	x := domain.Cart{
		"p-001": {ID: "p-001", Name: "Aurora Headphones", Price: 99, Qty: 2, Image: "a.jpeg"},
		"zzz":   {ID: "zzz", Qty: 1},
	}
	require.NoError(t, cs.SetCart(t.Context(), x))
	assert.Equal(t, x, cs.GetCart(t.Context()))

	t.Run("StorageFailure", func(t *testing.T) {
		cs := NewCartStore(brokenStorage{storage.NewMemoryStorage()})
		assert.Error(t, cs.SetCart(t.Context(), x))
		assert.Error(t, cs.AddID(t.Context(), "p-001", 1))
	})
}

func TestCartStoreAdd(t *testing.T) {
	t.Run("SameIDAggregates", func(t *testing.T) {
		cs, _ := newTestCartStore()
		require.NoError(t, cs.AddID(t.Context(), "p-001", 2))
		require.NoError(t, cs.AddID(t.Context(), "p-001", 3))

		cart := cs.GetCart(t.Context())
		require.Len(t, cart, 1)
		assert.Equal(t, 5, cart["p-001"].Qty)
		assert.Equal(t, 5, cs.Count(t.Context()))
	})

	t.Run("CountIsSumOfQty", func(t *testing.T) {
		cs, _ := newTestCartStore()
		qtys := []int{1, 4, 1, 7, 2}
		want := 0
		for _, q := range qtys {
			require.NoError(t, cs.AddID(t.Context(), "p-002", q))
			want += q
		}
		assert.Equal(t, want, cs.Count(t.Context()))
	})

	t.Run("BareIDPlaceholder", func(t *testing.T) {
		cs, _ := newTestCartStore()
		require.NoError(t, cs.AddID(t.Context(), "unknown", 1))
		assert.Equal(t,
			domain.CartLineItem{ID: "unknown", Qty: 1},
			cs.GetCart(t.Context())["unknown"],
		)
	})

	t.Run("ProductSeedsLineItem", func(t *testing.T) {
		cs, _ := newTestCartStore()
		require.NoError(t, cs.Add(t.Context(), headphones, 1))
		assert.Equal(t,
			domain.CartLineItem{
				ID: "p-001", Name: "Aurora Headphones", Price: 99,
				Image: "aurora-1.jpeg", Qty: 1,
			},
			cs.GetCart(t.Context())["p-001"],
		)
	})

	t.Run("ProductWithoutImages", func(t *testing.T) {
		cs, _ := newTestCartStore()
		p := headphones
		p.Images = nil
		require.NoError(t, cs.Add(t.Context(), p, 1))
		assert.Equal(t, "", cs.GetCart(t.Context())["p-001"].Image)
	})

	t.Run("PlaceholderNotHydrated", func(t *testing.T) {
		cs, _ := newTestCartStore()
		require.NoError(t, cs.AddID(t.Context(), "p-001", 1))
		require.NoError(t, cs.Add(t.Context(), headphones, 1))

		it := cs.GetCart(t.Context())["p-001"]
		assert.Equal(t, 2, it.Qty)
		assert.Equal(t, "", it.Name)
		assert.Zero(t, it.Price)
	})

	t.Run("IgnoresMalformed", func(t *testing.T) {
		badge := new(MockBadge)
		cs, _ := newTestCartStore(CartBadgeOpt(badge))

		require.NoError(t, cs.AddID(t.Context(), "", 1))
		require.NoError(t, cs.Add(t.Context(), domain.Product{Name: "no id"}, 1))
		require.NoError(t, cs.AddID(t.Context(), "p-001", 0))
		require.NoError(t, cs.AddID(t.Context(), "p-001", -3))

		assert.Empty(t, cs.GetCart(t.Context()))
		badge.AssertNotCalled(t, "UpdateBadge", mock.Anything)
	})
}

func TestCartStoreRemove(t *testing.T) {
	cs, _ := newTestCartStore()
	require.NoError(t, cs.AddID(t.Context(), "p-001", 1))
	require.NoError(t, cs.AddID(t.Context(), "p-002", 1))

	require.NoError(t, cs.Remove(t.Context(), "p-001"))
	assert.NotContains(t, cs.GetCart(t.Context()), "p-001")
	assert.Contains(t, cs.GetCart(t.Context()), "p-002")

	require.NoError(t, cs.Remove(t.Context(), "absent"))
	assert.Len(t, cs.GetCart(t.Context()), 1)
}

func TestCartStoreSetQty(t *testing.T) {
	cs, _ := newTestCartStore()
	require.NoError(t, cs.AddID(t.Context(), "p-001", 3))

	for _, qty := range []int{0, -1, -100} {
		require.NoError(t, cs.SetQty(t.Context(), "p-001", qty))
		assert.Equal(t, 1, cs.GetCart(t.Context())["p-001"].Qty, "qty %d", qty)
	}

	require.NoError(t, cs.SetQty(t.Context(), "p-001", 7))
	assert.Equal(t, 7, cs.GetCart(t.Context())["p-001"].Qty)

	require.NoError(t, cs.SetQty(t.Context(), "absent", 2))
	assert.NotContains(t, cs.GetCart(t.Context()), "absent")
}

func TestCartStoreClear(t *testing.T) {
	badge := new(MockBadge)
	badge.On("UpdateBadge", mock.Anything).Return()

	cs, s := newTestCartStore(CartBadgeOpt(badge))
	require.NoError(t, cs.AddID(t.Context(), "p-001", 2))
	require.NoError(t, cs.AddID(t.Context(), "p-002", 1))

	require.NoError(t, cs.Clear(t.Context()))
	assert.Empty(t, cs.Items(t.Context()))
	assert.Zero(t, cs.Count(t.Context()))

	_, err := s.Get(t.Context(), DefaultCartKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	badge.AssertCalled(t, "UpdateBadge", 0)

	require.NoError(t, cs.Clear(t.Context()), "already empty")
}

func TestCartStoreAggregates(t *testing.T) {
	cs, _ := newTestCartStore()
	require.NoError(t, cs.SetCart(t.Context(), domain.Cart{
		"p-003": {ID: "p-003", Price: 19, Qty: 2},
		"p-001": {ID: "p-001", Price: 99, Qty: 1},
		"p-004": {ID: "p-004", Price: 14, Qty: 3},
	}))

	items := cs.Items(t.Context())
	require.Len(t, items, 3)
	assert.Equal(t, "p-001", items[0].ID)
	assert.Equal(t, "p-003", items[1].ID)
	assert.Equal(t, "p-004", items[2].ID)

	assert.Equal(t, 6, cs.Count(t.Context()))
	assert.InDelta(t, 179.0, cs.Subtotal(t.Context()), 1e-9)
}

func TestCartStoreBadge(t *testing.T) {
	t.Run("RefreshedOnMutation", func(t *testing.T) {
		badge := new(MockBadge)
		badge.On("UpdateBadge", 2).Return().Once()
		badge.On("UpdateBadge", 5).Return().Once()
		badge.On("UpdateBadge", 3).Return().Once()

		cs, _ := newTestCartStore(CartBadgeOpt(badge))
		require.NoError(t, cs.AddID(t.Context(), "p-001", 2))
		require.NoError(t, cs.AddID(t.Context(), "p-002", 3))
		require.NoError(t, cs.Remove(t.Context(), "p-001"))

		badge.AssertExpectations(t)
	})

	t.Run("UpdateCartCount", func(t *testing.T) {
		badge := new(MockBadge)
		badge.On("UpdateBadge", mock.Anything).Return()

		cs, s := newTestCartStore(CartBadgeOpt(badge))
		require.NoError(t, s.Set(t.Context(), DefaultCartKey,
			[]byte(`{"a":{"id":"a","qty":4}}`)))

		cs.UpdateCartCount(t.Context())
		badge.AssertCalled(t, "UpdateBadge", 4)
	})

	t.Run("NoBadge", func(t *testing.T) {
		cs, _ := newTestCartStore()
		assert.NotPanics(t, func() {
			cs.UpdateCartCount(t.Context())
		})
	})
}

func TestCartStoreEvents(t *testing.T) {
	t.Run("Produced", func(t *testing.T) {
		events := new(MockCartEventsProducer)
		events.On("ProduceCart", mock.Anything, DefaultCartKey, domain.Cart{
			"p-001": {ID: "p-001", Qty: 1},
		}).Return(nil).Once()
		events.On("ProduceCart", mock.Anything, DefaultCartKey, domain.Cart{}).
			Return(nil).Once()

		cs, _ := newTestCartStore(CartEventsOpt(events))
		require.NoError(t, cs.AddID(t.Context(), "p-001", 1))
		require.NoError(t, cs.Clear(t.Context()))

		events.AssertExpectations(t)
	})

	t.Run("FailureNotSurfaced", func(t *testing.T) {
		events := new(MockCartEventsProducer)
		events.On("ProduceCart", mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("broker down"))

		cs, _ := newTestCartStore(CartEventsOpt(events))
		require.NoError(t, cs.AddID(t.Context(), "p-001", 1))
		assert.Equal(t, 1, cs.Count(t.Context()))
	})
}

func TestCartStoreReadFailure(t *testing.T) {
	s := &flakyReadStorage{MemoryStorage: storage.NewMemoryStorage()}
	cs := NewCartStore(s)

	require.NoError(t, cs.AddID(t.Context(), "p-001", 5))
	require.NoError(t, cs.AddID(t.Context(), "p-002", 2))

	s.fail = true
	assert.Error(t, cs.AddID(t.Context(), "p-003", 1))
	assert.Error(t, cs.Add(t.Context(), headphones, 1))
	assert.Error(t, cs.Remove(t.Context(), "p-001"))
	assert.Error(t, cs.SetQty(t.Context(), "p-002", 9))
	assert.Empty(t, cs.GetCart(t.Context()), "reads stay fail-soft")

	s.fail = false
	cart := cs.GetCart(t.Context())
	require.Len(t, cart, 2)
	assert.Equal(t, 5, cart["p-001"].Qty)
	assert.Equal(t, 2, cart["p-002"].Qty)
	assert.NotContains(t, cart, "p-003")
}

type blockingBadge struct {
	cs      *CartStore
	counted chan int
}

// UpdateBadge reads the store back, which deadlocks if called under the lock.
func (b blockingBadge) UpdateBadge(int) {
	b.counted <- b.cs.Count(context.Background())
}

func TestCartStoreNotifiesWithoutLock(t *testing.T) {
	b := blockingBadge{counted: make(chan int, 4)}
	cs, _ := newTestCartStore(CartBadgeOpt(&b))
	b.cs = cs

	require.NoError(t, cs.AddID(t.Context(), "p-001", 2))
	assert.Equal(t, 2, <-b.counted)

	require.NoError(t, cs.SetQty(t.Context(), "p-001", 4))
	assert.Equal(t, 4, <-b.counted)

	require.NoError(t, cs.Clear(t.Context()))
	assert.Equal(t, 0, <-b.counted)
}

func TestNewCartStoreNilStorage(t *testing.T) {
	assert.Panics(t, func() {
		NewCartStore(nil)
	})
}
