package kv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theLastOfCats/animewatcher-server/internal/kv"
	"github.com/theLastOfCats/animewatcher-server/internal/testutil"
)

func backends(t *testing.T) map[string]kv.Store {
	t.Helper()
	redisStore, _ := testutil.SetupRedisStore(t)
	return map[string]kv.Store{
		"memory":   kv.NewMemoryStore(),
		"sqlite":   testutil.SetupTestDB(t),
		"redis":    redisStore,
		"prefixed": kv.Prefixed(kv.NewMemoryStore(), kv.ProfilePrefix("p1")),
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set(ctx, "k", []byte(`{"a":1}`)))
			got, ok, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.JSONEq(t, `{"a":1}`, string(got))

			require.NoError(t, store.Set(ctx, "k", []byte(`[2]`)))
			got, _, err = store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `[2]`, string(got))

			require.NoError(t, store.Delete(ctx, "k"))
			_, ok, err = store.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, ok)

			// deleting an absent key is fine
			require.NoError(t, store.Delete(ctx, "k"))

			require.NoError(t, kv.WriteMany(ctx, store, map[string]any{"x": 1, "y": []string{"a"}}))
			x, err := kv.Read(ctx, store, "x", 0)
			require.NoError(t, err)
			assert.Equal(t, 1, x)
			y, err := kv.Read(ctx, store, "y", []string(nil))
			require.NoError(t, err)
			assert.Equal(t, []string{"a"}, y)
		})
	}
}

func TestReadFallback(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	got, err := kv.Read(ctx, store, kv.KeyUsers, []string{})
	require.NoError(t, err)
	assert.Equal(t, []string{}, got)

	require.NoError(t, store.Set(ctx, kv.KeyUsers, []byte("{not json")))
	got, err = kv.Read(ctx, store, kv.KeyUsers, []string{"fallback"})
	require.NoError(t, err)
	assert.Equal(t, []string{"fallback"}, got)

	// valid JSON of the wrong shape is malformed too
	require.NoError(t, store.Set(ctx, kv.KeyUsers, []byte(`{"a":"b"}`)))
	got, err = kv.Read(ctx, store, kv.KeyUsers, []string{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPrefixedIsolation(t *testing.T) {
	ctx := context.Background()
	shared := kv.NewMemoryStore()
	a := kv.Prefixed(shared, kv.ProfilePrefix("a"))
	b := kv.Prefixed(shared, kv.ProfilePrefix("b"))

	require.NoError(t, kv.Write(ctx, a, kv.KeySession, "alice"))

	_, ok, err := b.Get(ctx, kv.KeySession)
	require.NoError(t, err)
	assert.False(t, ok)

	raw, ok, err := shared.Get(ctx, "profile:a:"+kv.KeySession)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `"alice"`, string(raw))
}

func TestListMap(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	lists := kv.NewListMap[string](store, kv.KeyLikes)

	got, err := lists.Get(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	require.NoError(t, lists.Update(ctx, "u1", func(list []string) ([]string, bool) {
		return append(list, "1", "2"), true
	}))
	require.NoError(t, lists.Update(ctx, "u2", func(list []string) ([]string, bool) {
		return append(list, "9"), true
	}))

	got, err = lists.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, got)

	all, err := lists.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// unchanged updates never write
	require.NoError(t, store.Delete(ctx, kv.KeyLikes))
	require.NoError(t, lists.Update(ctx, "u1", func(list []string) ([]string, bool) {
		return list, false
	}))
	_, ok, err := store.Get(ctx, kv.KeyLikes)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListMapMalformed(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(ctx, kv.KeyWatchlist, []byte(`["not","a","map"]`)))

	lists := kv.NewListMap[string](store, kv.KeyWatchlist)
	got, err := lists.Get(ctx, kv.GuestID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFlakyStoreSurfacesErrors(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewFlakyStore(kv.NewMemoryStore())
	store.SetFailing(true)

	err := kv.Write(ctx, store, "k", 1)
	require.ErrorIs(t, err, testutil.ErrWriteFailed)

	err = kv.WriteMany(ctx, store, map[string]any{"a": 1})
	require.ErrorIs(t, err, testutil.ErrWriteFailed)
}

func TestOwner(t *testing.T) {
	assert.Equal(t, kv.GuestID, kv.Owner(""))
	assert.Equal(t, "u1", kv.Owner("u1"))
}
