package library

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theLastOfCats/animewatcher-server/internal/kv"
	"github.com/theLastOfCats/animewatcher-server/internal/model"
	"github.com/theLastOfCats/animewatcher-server/internal/testutil"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		episode, total, want int
	}{
		{3, 12, 25},
		{5, 0, 42},
		{5, -1, 42},
		{30, 24, 100},
		{1, 3, 33},
		{2, 3, 67},
		{-5, 12, 0},
		{0, 12, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.episode, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, Progress(tt.episode, tt.total))
		})
	}
}

func TestHistoryRecordMovesToFront(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(kv.NewMemoryStore())

	require.NoError(t, h.Record(ctx, testutil.Anime("X", "X", 12), "u1", 1))
	require.NoError(t, h.Record(ctx, testutil.Anime("Y", "Y", 12), "u1", 1))
	require.NoError(t, h.Record(ctx, testutil.Anime("X", "X", 12), "u1", 4))

	list, err := h.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "X", list[0].Anime.ID)
	assert.Equal(t, 4, list[0].LastEpisode)
	assert.Equal(t, 33, list[0].Progress)
	assert.Equal(t, "Y", list[1].Anime.ID)
}

func TestHistoryRecordClampsEpisode(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(kv.NewMemoryStore())

	require.NoError(t, h.Record(ctx, testutil.Anime("neg", "neg", 12), "u1", -5))
	require.NoError(t, h.Record(ctx, testutil.Anime("zero", "zero", 12), "u1", 0))

	list, err := h.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, item := range list {
		assert.Equal(t, 1, item.LastEpisode, item.Anime.ID)
		assert.Equal(t, 8, item.Progress, item.Anime.ID)
	}
}

func TestHistoryCap(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(kv.NewMemoryStore())

	for i := range MaxHistory + 1 {
		require.NoError(t, h.Record(ctx, testutil.Anime(fmt.Sprint(i), "t", 12), "u1", 1))
	}

	list, err := h.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, MaxHistory)
	assert.Equal(t, fmt.Sprint(MaxHistory), list[0].Anime.ID)
	for _, item := range list {
		assert.NotEqual(t, "0", item.Anime.ID, "oldest entry should be evicted")
	}
}

func TestHistoryRequiresUser(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	h := NewHistory(store)

	require.NoError(t, h.Record(ctx, testutil.Anime("1", "A", 12), "", 1))

	_, ok, err := store.Get(ctx, kv.KeyHistory)
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := h.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHistoryClear(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(kv.NewMemoryStore())

	require.NoError(t, h.Record(ctx, testutil.Anime("1", "A", 12), "u1", 1))
	require.NoError(t, h.Record(ctx, testutil.Anime("1", "A", 12), "u2", 1))
	require.NoError(t, h.Clear(ctx, "u1"))

	list, err := h.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = h.List(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(kv.NewMemoryStore())
	h.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, h.Record(ctx, testutil.Anime("1", "A", 12, "Action", "Drama"), "u1", 3))
	require.NoError(t, h.Record(ctx, testutil.Anime("2", "B", 12, "Drama"), "u1", 0))
	require.NoError(t, h.Record(ctx, testutil.Anime("3", "C", 12, "Action"), "u1", 6))

	stats, err := h.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalWatched)
	// (6 + 1 + 3) episodes * 24 min = 4h
	assert.Equal(t, 4, stats.TotalHours)
	assert.Len(t, stats.History, 3)
}

func TestComputeStatsTieKeepsFirstSeen(t *testing.T) {
	list := []model.HistoryItem{
		{Anime: testutil.Anime("1", "A", 12, "Action", "Drama"), LastEpisode: 1},
		{Anime: testutil.Anime("2", "B", 12, "Drama", "Action"), LastEpisode: 1},
	}
	stats := ComputeStats(list)
	assert.Equal(t, "Action", stats.TopGenre)
	// 2 episodes * 24 min rounds to 1h
	assert.Equal(t, 1, stats.TotalHours)
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	assert.Equal(t, 0, stats.TotalWatched)
	assert.Equal(t, NoTopGenre, stats.TopGenre)
	assert.Equal(t, 0, stats.TotalHours)
	assert.NotNil(t, stats.History)
}
