// Package library holds the per-user collections: watchlist, viewing history,
// likes and comments.
package library

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/theLastOfCats/animewatcher-server/internal/kv"
	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

var (
	ErrUserRequired = errors.New("user id is required")
	ErrEmptyComment = errors.New("comment content is empty")
)

// Watchlist stores full anime snapshots per user. An empty user id is the guest.
type Watchlist struct {
	mu    sync.Mutex
	lists *kv.ListMap[model.Anime]
}

func NewWatchlist(store kv.Store) *Watchlist {
	return &Watchlist{lists: kv.NewListMap[model.Anime](store, kv.KeyWatchlist)}
}

// Add appends anime unless the user already has it.
func (w *Watchlist) Add(ctx context.Context, anime model.Anime, userID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	err := w.lists.Update(ctx, kv.Owner(userID), func(list []model.Anime) ([]model.Anime, bool) {
		if indexOfAnime(list, anime.ID) >= 0 {
			return list, false
		}
		return append(list, anime), true
	})
	if err != nil {
		return fmt.Errorf("add to watchlist: %w", err)
	}
	return nil
}

// Remove drops every entry with animeID. Absent ids are a no-op.
func (w *Watchlist) Remove(ctx context.Context, animeID, userID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	err := w.lists.Update(ctx, kv.Owner(userID), func(list []model.Anime) ([]model.Anime, bool) {
		next := slices.DeleteFunc(slices.Clone(list), func(a model.Anime) bool { return a.ID == animeID })
		return next, len(next) != len(list)
	})
	if err != nil {
		return fmt.Errorf("remove from watchlist: %w", err)
	}
	return nil
}

func (w *Watchlist) List(ctx context.Context, userID string) ([]model.Anime, error) {
	list, err := w.lists.Get(ctx, kv.Owner(userID))
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	return list, nil
}

// IDs returns the anime ids in insertion order.
func (w *Watchlist) IDs(ctx context.Context, userID string) ([]string, error) {
	list, err := w.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

func (w *Watchlist) Contains(ctx context.Context, animeID, userID string) (bool, error) {
	list, err := w.List(ctx, userID)
	if err != nil {
		return false, err
	}
	return indexOfAnime(list, animeID) >= 0, nil
}

func indexOfAnime(list []model.Anime, id string) int {
	return slices.IndexFunc(list, func(a model.Anime) bool { return a.ID == id })
}
