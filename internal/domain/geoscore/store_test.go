package geoscore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocationCachePutAndGet(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache := NewLocationCache(store, discardLogger())

	stored, err := cache.Put(ctx, "123-main-st", LocationRecord{Location: "123 Main St", Score: 66})
	require.NoError(t, err)
	require.True(t, stored)

	got, ok, err := cache.Get(ctx, "123-main-st")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 66, got.Score)
}

func TestLocationCacheNeverPersistsSeeded(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache := NewLocationCache(store, discardLogger())

	stored, err := cache.Put(ctx, "demo", LocationRecord{Location: "Demo", Seeded: true})
	require.NoError(t, err)
	require.False(t, stored)
	require.Zero(t, store.saveCount())

	_, ok, err := cache.Get(ctx, "demo")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLocationCacheEmptyKey(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache := NewLocationCache(store, discardLogger())

	stored, err := cache.Put(ctx, "", LocationRecord{Score: 1})
	require.NoError(t, err)
	require.False(t, stored)

	_, ok, err := cache.Get(ctx, "")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLocationCacheOverwriteLeavesOtherKeys(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache := NewLocationCache(store, discardLogger())

	_, err := cache.Put(ctx, "a", LocationRecord{Score: 1})
	require.NoError(t, err)
	_, err = cache.Put(ctx, "b", LocationRecord{Score: 2})
	require.NoError(t, err)
	_, err = cache.Put(ctx, "a", LocationRecord{Score: 3})
	require.NoError(t, err)

	a, _, _ := cache.Get(ctx, "a")
	b, _, _ := cache.Get(ctx, "b")
	require.Equal(t, 3, a.Score)
	require.Equal(t, 2, b.Score)
}

func TestLocationCachePropagatesStoreErrors(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.saveErr = errors.New("disk full")
	cache := NewLocationCache(store, discardLogger())

	stored, err := cache.Put(ctx, "k", LocationRecord{})
	require.Error(t, err)
	require.False(t, stored)
}
