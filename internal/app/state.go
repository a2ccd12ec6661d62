// Package app wires the per-profile services into one application state and
// implements the user-facing flows that combine them.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/theLastOfCats/animewatcher-server/internal/auth"
	"github.com/theLastOfCats/animewatcher-server/internal/kv"
	"github.com/theLastOfCats/animewatcher-server/internal/library"
	"github.com/theLastOfCats/animewatcher-server/internal/model"
	"github.com/theLastOfCats/animewatcher-server/internal/notify"
	"github.com/theLastOfCats/animewatcher-server/internal/optimistic"
)

var ErrSignedOut = errors.New("not signed in")

// Toast messages.
const (
	msgSignedIn       = "Signed in successfully"
	msgLoginFailed    = "Login failed"
	msgSignedUp       = "Account created successfully!"
	msgSignupFailed   = "Signup failed"
	msgSignedOut      = "Logged out successfully"
	msgProfileUpdated = "Profile updated"
	msgProfileFailed  = "Failed to update profile"
	msgAddedToList    = "تمت الإضافة إلى القائمة"
	msgRemovedList    = "تم الحذف من القائمة"
	msgActionFailed   = "فشل الإجراء"
)

// State is everything one browser profile sees: its storage namespace, the
// services on top of it, the visible toasts and the signed-in user.
type State struct {
	ProfileID string

	Auth      *auth.Service
	Sessions  *auth.Sessions
	Watchlist *library.Watchlist
	History   *library.History
	Likes     *library.Likes
	Comments  *library.Comments
	Inbox     *notify.Inbox
	Toasts    *notify.Toaster

	logger *slog.Logger

	mu   sync.RWMutex
	user *model.User

	watchMu   sync.Mutex
	pendingMu sync.RWMutex
	pending   map[pendingKey]*optimistic.Toggle
}

// pendingKey names a watchlist toggle whose write has not landed yet.
type pendingKey struct {
	owner   string
	animeID string
}

// Open builds the state of a profile over store and restores its session.
func Open(ctx context.Context, profileID string, store kv.Store, logger *slog.Logger) (*State, error) {
	if logger == nil {
		logger = slog.Default()
	}
	sessions := auth.NewSessions(store)
	s := &State{
		ProfileID: profileID,
		Auth:      auth.NewService(store, sessions),
		Sessions:  sessions,
		Watchlist: library.NewWatchlist(store),
		History:   library.NewHistory(store),
		Likes:     library.NewLikes(store),
		Comments:  library.NewComments(store),
		Inbox:     notify.NewInbox(store),
		Toasts:    notify.NewToaster(),
		logger:    logger.With("profile", profileID),
		pending:   make(map[pendingKey]*optimistic.Toggle),
	}

	user, err := sessions.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("open profile %s: %w", profileID, err)
	}
	s.user = user
	return s, nil
}

// Close stops pending toast timers.
func (s *State) Close() {
	s.Toasts.Close()
}

// CurrentUser returns a copy of the signed-in user, or nil for guests.
func (s *State) CurrentUser() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// UserID is the signed-in user's id, empty for guests.
func (s *State) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

func (s *State) setUser(u *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

func (s *State) fail(err error, fallback string) error {
	msg := fallback
	if isValidation(err) {
		msg = err.Error()
	}
	s.Toasts.Show(msg, model.KindError)
	return err
}

func isValidation(err error) bool {
	return errors.Is(err, auth.ErrDuplicateEmail) ||
		errors.Is(err, auth.ErrInvalidCredentials) ||
		errors.Is(err, auth.ErrValidation) ||
		errors.Is(err, auth.ErrPasswordMismatch)
}

// Login signs in and persists the session.
func (s *State) Login(ctx context.Context, email, password string) (model.User, error) {
	user, err := s.Auth.Login(ctx, email, password)
	if err != nil {
		return model.User{}, s.fail(err, msgLoginFailed)
	}
	if err := s.Sessions.Save(ctx, user); err != nil {
		return model.User{}, s.fail(err, msgLoginFailed)
	}
	s.setUser(&user)
	s.logger.InfoContext(ctx, "user signed in", "user", user.ID)
	s.Toasts.Show(msgSignedIn, model.KindSuccess)
	return user, nil
}

// Signup registers and signs in. A mismatched confirmation is rejected before
// anything is stored.
func (s *State) Signup(ctx context.Context, email, username, password, confirm string) (model.User, error) {
	if password != confirm {
		return model.User{}, s.fail(auth.ErrPasswordMismatch, msgSignupFailed)
	}
	user, err := s.Auth.Signup(ctx, email, username, password)
	if err != nil {
		return model.User{}, s.fail(err, msgSignupFailed)
	}
	if err := s.Sessions.Save(ctx, user); err != nil {
		return model.User{}, s.fail(err, msgSignupFailed)
	}
	s.setUser(&user)
	s.logger.InfoContext(ctx, "user signed up", "user", user.ID)
	s.Toasts.Show(msgSignedUp, model.KindSuccess)
	return user, nil
}

// Logout removes the session only; the user's data stays.
func (s *State) Logout(ctx context.Context) error {
	if err := s.Sessions.Clear(ctx); err != nil {
		return s.fail(err, msgActionFailed)
	}
	s.setUser(nil)
	s.Toasts.Show(msgSignedOut, model.KindInfo)
	return nil
}

// UpdateUser applies patch to the signed-in user.
func (s *State) UpdateUser(ctx context.Context, patch model.User) (model.User, error) {
	id := s.UserID()
	if id == "" {
		return model.User{}, s.fail(ErrSignedOut, msgProfileFailed)
	}
	patch.ID = id

	updated, err := s.Auth.UpdateProfile(ctx, patch)
	if err != nil {
		return model.User{}, s.fail(err, msgProfileFailed)
	}
	s.setUser(&updated)
	s.Toasts.Show(msgProfileUpdated, model.KindSuccess)
	return updated, nil
}

// ToggleWatchlist flips membership of anime in the current owner's list.
// The new membership is visible before the write lands and reverts if the
// write fails.
func (s *State) ToggleWatchlist(ctx context.Context, anime model.Anime) (bool, error) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()

	userID := s.UserID()
	inList, err := s.Watchlist.Contains(ctx, anime.ID, userID)
	if err != nil {
		return false, s.fail(err, msgActionFailed)
	}

	toggle := optimistic.NewToggle(inList, func(err error) {
		s.logger.WarnContext(ctx, "watchlist toggle reverted", "anime", anime.ID, "error", err)
		s.Toasts.Show(msgActionFailed, model.KindError)
	})
	key := pendingKey{owner: userID, animeID: anime.ID}
	s.pendingMu.Lock()
	s.pending[key] = toggle
	s.pendingMu.Unlock()
	defer func() {
		s.pendingMu.Lock()
		delete(s.pending, key)
		s.pendingMu.Unlock()
	}()

	on, err := toggle.Flip(ctx, func(ctx context.Context, on bool) error {
		if on {
			return s.Watchlist.Add(ctx, anime, userID)
		}
		return s.Watchlist.Remove(ctx, anime.ID, userID)
	})
	if err != nil {
		return on, err
	}

	if on {
		s.Toasts.Show(msgAddedToList, model.KindSuccess)
	} else {
		s.Toasts.Show(msgRemovedList, model.KindInfo)
	}
	return on, nil
}

// WatchlistIDs is the current owner's watchlist as the UI should show it:
// stored ids with any in-flight toggle already applied.
func (s *State) WatchlistIDs(ctx context.Context) ([]string, error) {
	userID := s.UserID()
	ids, err := s.Watchlist.IDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.pendingMu.RLock()
	defer s.pendingMu.RUnlock()
	for key, toggle := range s.pending {
		if key.owner != userID {
			continue
		}
		i := slices.Index(ids, key.animeID)
		switch on := toggle.Value.Get(); {
		case on && i < 0:
			ids = append(ids, key.animeID)
		case !on && i >= 0:
			ids = slices.Delete(ids, i, i+1)
		}
	}
	return ids, nil
}

// RecordWatch notes that episode of anime was opened. Guests keep no history.
func (s *State) RecordWatch(ctx context.Context, anime model.Anime, episode int) error {
	return s.History.Record(ctx, anime, s.UserID(), episode)
}

// AddSystemNotification stores n in the inbox and pops a toast for it.
func (s *State) AddSystemNotification(ctx context.Context, n model.Notification) error {
	if _, err := s.Inbox.Add(ctx, n); err != nil {
		return err
	}
	s.Toasts.Show(n.Message, model.KindInfo)
	return nil
}
