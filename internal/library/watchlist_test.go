package library

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theLastOfCats/animewatcher-server/internal/kv"
	"github.com/theLastOfCats/animewatcher-server/internal/testutil"
)

func TestWatchlistAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	w := NewWatchlist(kv.NewMemoryStore())
	naruto := testutil.Anime("20", "Naruto", 220)

	require.NoError(t, w.Add(ctx, naruto, "u1"))
	require.NoError(t, w.Add(ctx, naruto, "u1"))

	list, err := w.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, naruto, list[0])
}

func TestWatchlistRemove(t *testing.T) {
	ctx := context.Background()
	w := NewWatchlist(kv.NewMemoryStore())

	require.NoError(t, w.Add(ctx, testutil.Anime("1", "A", 12), "u1"))
	require.NoError(t, w.Add(ctx, testutil.Anime("2", "B", 12), "u1"))
	require.NoError(t, w.Remove(ctx, "1", "u1"))
	// absent id is a no-op
	require.NoError(t, w.Remove(ctx, "404", "u1"))

	ids, err := w.IDs(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids)

	ok, err := w.Contains(ctx, "1", "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWatchlistGuestIsolation(t *testing.T) {
	ctx := context.Background()
	w := NewWatchlist(kv.NewMemoryStore())

	require.NoError(t, w.Add(ctx, testutil.Anime("5", "Guest pick", 12), ""))

	ids, err := w.IDs(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = w.IDs(ctx, kv.GuestID)
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, ids)
}

func TestWatchlistStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewFlakyStore(kv.NewMemoryStore())
	w := NewWatchlist(store)

	store.SetFailing(true)
	err := w.Add(ctx, testutil.Anime("1", "A", 12), "u1")
	require.ErrorIs(t, err, testutil.ErrWriteFailed)

	store.SetFailing(false)
	ids, err := w.IDs(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
