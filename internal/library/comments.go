package library

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theLastOfCats/animewatcher-server/internal/kv"
	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

// Comments keeps each anime's discussion newest first.
type Comments struct {
	mu    sync.Mutex
	lists *kv.ListMap[model.Comment]
	now   func() time.Time
}

func NewComments(store kv.Store) *Comments {
	return &Comments{
		lists: kv.NewListMap[model.Comment](store, kv.KeyComments),
		now:   time.Now,
	}
}

func (c *Comments) List(ctx context.Context, animeID string) ([]model.Comment, error) {
	list, err := c.lists.Get(ctx, animeID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return list, nil
}

// Add posts content as author and returns the stored comment.
func (c *Comments) Add(ctx context.Context, animeID, content string, author model.User) (model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Comment{}, ErrEmptyComment
	}
	if author.ID == "" {
		return model.Comment{}, ErrUserRequired
	}

	comment := model.Comment{
		ID:         uuid.NewString(),
		UserID:     author.ID,
		Username:   author.Username,
		UserAvatar: author.Avatar,
		Content:    content,
		AnimeID:    animeID,
		CreatedAt:  c.now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.lists.Update(ctx, animeID, func(list []model.Comment) ([]model.Comment, bool) {
		return append([]model.Comment{comment}, list...), true
	})
	if err != nil {
		return model.Comment{}, fmt.Errorf("add comment: %w", err)
	}
	return comment, nil
}
