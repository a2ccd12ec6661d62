package library

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/theLastOfCats/animewatcher-server/internal/kv"
	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

const (
	// MaxHistory is the number of entries kept per user.
	MaxHistory = 50
	// NoTopGenre is reported when a user has no history.
	NoTopGenre = "none"

	defaultEpisodeCount = 12
	minutesPerEpisode   = 24
)

// History keeps at most one entry per anime, most recent first.
// It requires a user: calls with an empty user id do nothing.
type History struct {
	mu    sync.Mutex
	lists *kv.ListMap[model.HistoryItem]
	now   func() time.Time
}

func NewHistory(store kv.Store) *History {
	return &History{
		lists: kv.NewListMap[model.HistoryItem](store, kv.KeyHistory),
		now:   time.Now,
	}
}

// Progress is the watched percentage for episode out of total, within 0..100.
// Unknown totals count as 12 episodes.
func Progress(episode, total int) int {
	if total <= 0 {
		total = defaultEpisodeCount
	}
	p := int(math.Round(float64(episode) / float64(total) * 100))
	return max(0, min(100, p))
}

// Record moves anime to the front of the user's history. Episodes below 1
// are recorded as episode 1.
func (h *History) Record(ctx context.Context, anime model.Anime, userID string, episode int) error {
	if userID == "" {
		return nil
	}
	episode = max(episode, 1)

	h.mu.Lock()
	defer h.mu.Unlock()

	item := model.HistoryItem{
		Anime:       anime,
		WatchedAt:   h.now(),
		Progress:    Progress(episode, anime.TotalEpisodes),
		LastEpisode: episode,
	}

	err := h.lists.Update(ctx, userID, func(list []model.HistoryItem) ([]model.HistoryItem, bool) {
		next := make([]model.HistoryItem, 0, len(list)+1)
		next = append(next, item)
		for _, existing := range list {
			if existing.Anime.ID != anime.ID {
				next = append(next, existing)
			}
		}
		if len(next) > MaxHistory {
			next = next[:MaxHistory]
		}
		return next, true
	})
	if err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	return nil
}

func (h *History) List(ctx context.Context, userID string) ([]model.HistoryItem, error) {
	if userID == "" {
		return []model.HistoryItem{}, nil
	}
	list, err := h.lists.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return list, nil
}

// Clear removes every history entry of the user.
func (h *History) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	err := h.lists.Update(ctx, userID, func(list []model.HistoryItem) ([]model.HistoryItem, bool) {
		return []model.HistoryItem{}, len(list) > 0
	})
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Stats aggregates the user's history.
func (h *History) Stats(ctx context.Context, userID string) (model.UserStats, error) {
	list, err := h.List(ctx, userID)
	if err != nil {
		return model.UserStats{}, err
	}
	return ComputeStats(list), nil
}

// ComputeStats derives the profile statistics. Genres are counted in the order
// they are first seen and only a strictly greater count takes the lead.
func ComputeStats(list []model.HistoryItem) model.UserStats {
	stats := model.UserStats{
		TotalWatched: len(list),
		TopGenre:     NoTopGenre,
		History:      list,
	}
	if len(list) == 0 {
		stats.History = []model.HistoryItem{}
		return stats
	}

	counts := make(map[string]int)
	var order []string
	episodes := 0
	for _, item := range list {
		for _, g := range item.Anime.Genres {
			if _, seen := counts[g]; !seen {
				order = append(order, g)
			}
			counts[g]++
		}
		episodes += max(item.LastEpisode, 1)
	}

	best := 0
	for _, g := range order {
		if counts[g] > best {
			best = counts[g]
			stats.TopGenre = g
		}
	}

	stats.TotalHours = int(math.Round(float64(episodes*minutesPerEpisode) / 60))
	return stats
}
