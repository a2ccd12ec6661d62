package library

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/theLastOfCats/animewatcher-server/internal/kv"
	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

// Likes tracks which anime each user liked together with a per-anime counter.
// The set and the counter are always written in the same batch.
type Likes struct {
	mu    sync.Mutex
	store kv.Store
}

func NewLikes(store kv.Store) *Likes {
	return &Likes{store: store}
}

func (l *Likes) load(ctx context.Context) (map[string][]string, map[string]int, error) {
	liked, err := kv.Read(ctx, l.store, kv.KeyLikes, map[string][]string{})
	if err != nil {
		return nil, nil, err
	}
	counts, err := kv.Read(ctx, l.store, kv.KeyLikeCounts, map[string]int{})
	if err != nil {
		return nil, nil, err
	}
	if liked == nil {
		liked = map[string][]string{}
	}
	if counts == nil {
		counts = map[string]int{}
	}
	return liked, counts, nil
}

// Toggle flips the user's like on animeID and adjusts the counter, which never
// drops below zero.
func (l *Likes) Toggle(ctx context.Context, animeID, userID string) (model.LikeResult, error) {
	if userID == "" {
		return model.LikeResult{}, ErrUserRequired
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	liked, counts, err := l.load(ctx)
	if err != nil {
		return model.LikeResult{}, fmt.Errorf("toggle like: %w", err)
	}

	ids := liked[userID]
	var result model.LikeResult
	if i := slices.Index(ids, animeID); i >= 0 {
		liked[userID] = slices.Delete(slices.Clone(ids), i, i+1)
		counts[animeID] = max(0, counts[animeID]-1)
	} else {
		liked[userID] = append(ids, animeID)
		counts[animeID]++
		result.Liked = true
	}
	result.Count = counts[animeID]

	err = kv.WriteMany(ctx, l.store, map[string]any{
		kv.KeyLikes:      liked,
		kv.KeyLikeCounts: counts,
	})
	if err != nil {
		return model.LikeResult{}, fmt.Errorf("toggle like: %w", err)
	}
	return result, nil
}

func (l *Likes) IsLiked(ctx context.Context, animeID, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	liked, err := kv.Read(ctx, l.store, kv.KeyLikes, map[string][]string{})
	if err != nil {
		return false, fmt.Errorf("read likes: %w", err)
	}
	return slices.Contains(liked[userID], animeID), nil
}

func (l *Likes) Count(ctx context.Context, animeID string) (int, error) {
	counts, err := kv.Read(ctx, l.store, kv.KeyLikeCounts, map[string]int{})
	if err != nil {
		return 0, fmt.Errorf("read like counts: %w", err)
	}
	return counts[animeID], nil
}
