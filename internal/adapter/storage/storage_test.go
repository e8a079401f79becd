package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCartStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := t.Context()
	key := "ecs_cart_v1"

	_, err := s.Get(ctx, key)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, key, []byte(`{"a":1}`)))
	v, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(v))

	require.NoError(t, s.Set(ctx, key, []byte(`{"a":2}`)))
	v, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(v))

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, s.Delete(ctx, key), "absent key")
}

func TestMemoryStorage(t *testing.T) {
	testCartStorage(t, NewMemoryStorage())

	t.Run("CopiesPayload", func(t *testing.T) {
		s := NewMemoryStorage()
		b := []byte("abc")
		require.NoError(t, s.Set(t.Context(), "k", b))
		b[0] = 'x'
		v, err := s.Get(t.Context(), "k")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(v))
	})
}

func TestSQLiteStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "cart.db")

	s, err := NewSQLiteStorage(t.Context(), path)
	require.NoError(t, err)
	defer s.Close()

	testCartStorage(t, s)

	t.Run("Reopen", func(t *testing.T) {
		require.NoError(t, s.Set(t.Context(), "k", []byte(`{}`)))

		s2, err := NewSQLiteStorage(t.Context(), path)
		require.NoError(t, err)
		defer s2.Close()

		v, err := s2.Get(t.Context(), "k")
		require.NoError(t, err)
		assert.Equal(t, `{}`, string(v))
	})
}

func TestNew(t *testing.T) {
	t.Run("Memory", func(t *testing.T) {
		s, err := New(t.Context(), DriverMemory, "")
		require.NoError(t, err)
		assert.IsType(t, &MemoryStorage{}, s)
	})

	t.Run("SQLite", func(t *testing.T) {
		s, err := New(t.Context(), DriverSQLite, filepath.Join(t.TempDir(), "c.db"))
		require.NoError(t, err)
		s.Close()
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := New(t.Context(), "mongo", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownDriver)
	})
}
