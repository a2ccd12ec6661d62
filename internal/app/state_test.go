package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theLastOfCats/animewatcher-server/internal/auth"
	"github.com/theLastOfCats/animewatcher-server/internal/kv"
	"github.com/theLastOfCats/animewatcher-server/internal/model"
	"github.com/theLastOfCats/animewatcher-server/internal/testutil"
)

func openState(t *testing.T, store kv.Store) *State {
	t.Helper()
	s, err := Open(context.Background(), "p1", store, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func lastToast(t *testing.T, s *State) model.Notification {
	t.Helper()
	toasts := s.Toasts.List()
	require.NotEmpty(t, toasts)
	return toasts[len(toasts)-1]
}

func TestOpenRestoresSession(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, auth.NewSessions(store).Save(ctx, model.User{ID: "u1", Username: "ann"}))

	s := openState(t, store)
	require.NotNil(t, s.CurrentUser())
	assert.Equal(t, "u1", s.UserID())
}

func TestOpenDiscardsCorruptedSession(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(ctx, kv.KeySession, []byte("garbage")))

	s := openState(t, store)
	assert.Nil(t, s.CurrentUser())
	assert.Empty(t, s.UserID())
}

func TestSignupLoginLogout(t *testing.T) {
	ctx := context.Background()
	s := openState(t, kv.NewMemoryStore())

	user, err := s.Signup(ctx, "a@x.io", "ann", "pw", "pw")
	require.NoError(t, err)
	assert.Equal(t, user.ID, s.UserID())
	assert.Equal(t, msgSignedUp, lastToast(t, s).Message)

	require.NoError(t, s.Logout(ctx))
	assert.Nil(t, s.CurrentUser())
	assert.Equal(t, model.KindInfo, lastToast(t, s).Kind)

	_, err = s.Login(ctx, "a@x.io", "pw")
	require.NoError(t, err)
	assert.Equal(t, user.ID, s.UserID())

	current, err := s.Sessions.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)
}

func TestValidationFailuresToastAndKeepStorage(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	s := openState(t, store)

	_, err := s.Signup(ctx, "a@x.io", "ann", "pw", "different")
	require.ErrorIs(t, err, auth.ErrPasswordMismatch)
	toast := lastToast(t, s)
	assert.Equal(t, model.KindError, toast.Kind)
	assert.Equal(t, auth.ErrPasswordMismatch.Error(), toast.Message)

	_, ok, err := store.Get(ctx, kv.KeyUsers)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Login(ctx, "a@x.io", "pw")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Nil(t, s.CurrentUser())

	_, err = s.Signup(ctx, "a@x.io", "ann", "pw", "pw")
	require.NoError(t, err)
	_, err = s.Signup(ctx, "a@x.io", "ann2", "pw", "pw")
	require.ErrorIs(t, err, auth.ErrDuplicateEmail)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	s := openState(t, kv.NewMemoryStore())

	_, err := s.UpdateUser(ctx, model.User{Username: "x"})
	require.ErrorIs(t, err, ErrSignedOut)

	_, err = s.Signup(ctx, "a@x.io", "ann", "pw", "pw")
	require.NoError(t, err)

	updated, err := s.UpdateUser(ctx, model.User{Username: "annie", ID: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "annie", updated.Username)
	assert.Equal(t, "annie", s.CurrentUser().Username)
	assert.Equal(t, msgProfileUpdated, lastToast(t, s).Message)
}

func TestToggleWatchlist(t *testing.T) {
	ctx := context.Background()
	s := openState(t, kv.NewMemoryStore())
	anime := testutil.Anime("20", "Naruto", 220)

	on, err := s.ToggleWatchlist(ctx, anime)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = s.ToggleWatchlist(ctx, anime)
	require.NoError(t, err)
	assert.False(t, on)

	ids, err := s.Watchlist.IDs(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestToggleWatchlistRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewFlakyStore(kv.NewMemoryStore())
	s := openState(t, store)
	anime := testutil.Anime("20", "Naruto", 220)

	store.SetFailing(true)
	on, err := s.ToggleWatchlist(ctx, anime)
	require.ErrorIs(t, err, testutil.ErrWriteFailed)
	assert.False(t, on, "toggle reverts to its prior value")

	toast := lastToast(t, s)
	assert.Equal(t, model.KindError, toast.Kind)
	assert.Equal(t, msgActionFailed, toast.Message)

	store.SetFailing(false)
	ok, err := s.Watchlist.Contains(ctx, anime.ID, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

// gatedStore holds every Set until the test releases it with a result.
type gatedStore struct {
	kv.Store
	entered chan struct{}
	release chan error
}

func (g *gatedStore) Set(ctx context.Context, key string, value []byte) error {
	g.entered <- struct{}{}
	if err := <-g.release; err != nil {
		return err
	}
	return g.Store.Set(ctx, key, value)
}

func TestWatchlistIDsShowInFlightToggle(t *testing.T) {
	ctx := context.Background()
	store := &gatedStore{Store: kv.NewMemoryStore(), entered: make(chan struct{}), release: make(chan error)}
	s := openState(t, store)
	anime := testutil.Anime("20", "Naruto", 220)

	done := make(chan error, 1)
	go func() {
		_, err := s.ToggleWatchlist(ctx, anime)
		done <- err
	}()
	<-store.entered

	ids, err := s.WatchlistIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"20"}, ids)

	store.release <- testutil.ErrWriteFailed
	require.ErrorIs(t, <-done, testutil.ErrWriteFailed)

	ids, err = s.WatchlistIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGuestAndUserWatchlistsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := openState(t, kv.NewMemoryStore())
	x := testutil.Anime("X", "X", 12)

	_, err := s.ToggleWatchlist(ctx, x)
	require.NoError(t, err)

	guest, err := s.Watchlist.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []model.Anime{x}, guest)

	user, err := s.Signup(ctx, "a@x.io", "ann", "pw", "pw")
	require.NoError(t, err)

	mine, err := s.Watchlist.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	guest, err = s.Watchlist.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, guest, 1)
}

func TestRecordWatchNeedsUser(t *testing.T) {
	ctx := context.Background()
	s := openState(t, kv.NewMemoryStore())
	anime := testutil.Anime("1", "A", 12)

	require.NoError(t, s.RecordWatch(ctx, anime, 3))
	list, err := s.History.List(ctx, kv.GuestID)
	require.NoError(t, err)
	assert.Empty(t, list)

	user, err := s.Signup(ctx, "a@x.io", "ann", "pw", "pw")
	require.NoError(t, err)
	require.NoError(t, s.RecordWatch(ctx, anime, 3))

	list, err = s.History.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 25, list[0].Progress)
}

func TestAddSystemNotification(t *testing.T) {
	ctx := context.Background()
	s := openState(t, kv.NewMemoryStore())

	require.NoError(t, s.AddSystemNotification(ctx, model.Notification{Message: "new ep", Kind: model.KindUpdate}))

	list, err := s.Inbox.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.KindUpdate, list[0].Kind)
	assert.Equal(t, "new ep", lastToast(t, s).Message)
}
