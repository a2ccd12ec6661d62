package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/theLastOfCats/animewatcher-server/internal/kv"
	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

// Sessions holds the single signed-in user snapshot of a profile.
type Sessions struct {
	store kv.Store
}

func NewSessions(store kv.Store) *Sessions {
	return &Sessions{store: store}
}

// Current returns the session user, or nil when signed out. A corrupted
// session is deleted and reads as signed out.
func (s *Sessions) Current(ctx context.Context) (*model.User, error) {
	raw, ok, err := s.store.Get(ctx, kv.KeySession)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil || user.ID == "" {
		slog.WarnContext(ctx, "discarding corrupted session", "error", err)
		if err := s.store.Delete(ctx, kv.KeySession); err != nil {
			return nil, fmt.Errorf("discard session: %w", err)
		}
		return nil, nil
	}
	return &user, nil
}

func (s *Sessions) Save(ctx context.Context, user model.User) error {
	if err := kv.Write(ctx, s.store, kv.KeySession, user); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear signs out. Nothing but the session is removed.
func (s *Sessions) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, kv.KeySession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
