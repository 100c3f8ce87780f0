package storage_test

import (
	"testing"

	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepository(t *testing.T) {
	const visitor = "8a1f"

	t.Run("AbsentIsEmpty", func(t *testing.T) {
		r := storage.NewCartRepository(storage.NewMemoryKV())
		c, err := r.LoadCart(t.Context(), visitor)
		require.NoError(t, err)
		assert.Empty(t, c.ProductIDs)
	})

	t.Run("SaveLoad", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		r := storage.NewCartRepository(kv)

		err := r.SaveCart(t.Context(), visitor, domain.Cart{ProductIDs: []int{1, 2, 1}})
		require.NoError(t, err)

		raw, err := kv.Get(t.Context(), storage.CartKey(visitor))
		require.NoError(t, err)
		assert.Equal(t, "[1,2,1]", raw)

		c, err := r.LoadCart(t.Context(), visitor)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 1}, c.ProductIDs)
	})

	t.Run("EmptyCartIsArray", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		r := storage.NewCartRepository(kv)

		require.NoError(t, r.SaveCart(t.Context(), visitor, domain.Cart{}))
		raw, err := kv.Get(t.Context(), storage.CartKey(visitor))
		require.NoError(t, err)
		assert.Equal(t, "[]", raw)
	})

	t.Run("CorruptedIsEmpty", func(t *testing.T) {
		for _, raw := range []string{"not json", `{"a":1}`, `["x"]`, ""} {
			kv := storage.NewMemoryKV()
			require.NoError(t, kv.Set(t.Context(), storage.CartKey(visitor), raw))

			r := storage.NewCartRepository(kv)
			c, err := r.LoadCart(t.Context(), visitor)
			require.NoError(t, err, raw)
			assert.Empty(t, c.ProductIDs, raw)
		}
	})

	t.Run("NullIsEmpty", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		require.NoError(t, kv.Set(t.Context(), storage.CartKey(visitor), "null"))

		c, err := storage.NewCartRepository(kv).LoadCart(t.Context(), visitor)
		require.NoError(t, err)
		assert.Empty(t, c.ProductIDs)
	})

	t.Run("VisitorsIsolated", func(t *testing.T) {
		r := storage.NewCartRepository(storage.NewMemoryKV())
		require.NoError(t, r.SaveCart(t.Context(), "a", domain.Cart{ProductIDs: []int{1}}))

		c, err := r.LoadCart(t.Context(), "b")
		require.NoError(t, err)
		assert.Empty(t, c.ProductIDs)
	})
}

func TestMemoryKVNotFound(t *testing.T) {
	_, err := storage.NewMemoryKV().Get(t.Context(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
