package testutil

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/theLastOfCats/animewatcher-server/internal/db"
	"github.com/theLastOfCats/animewatcher-server/internal/kv"
	"github.com/theLastOfCats/animewatcher-server/internal/kv/redisstore"
	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

// SetupTestDB creates a file-backed SQLite DB in a temp dir with the schema applied.
func SetupTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "animewatcher.db"))
	if err != nil {
		t.Fatalf("Failed to init sqlite test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})
	return database
}

// SetupRedisStore starts an in-process Redis and returns a store bound to it.
func SetupRedisStore(t *testing.T) (*redisstore.Store, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	store := redisstore.New(server.Addr(), "")
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store, server
}

// ErrWriteFailed is what FlakyStore returns while failing.
var ErrWriteFailed = errors.New("quota exceeded")

// FlakyStore wraps a store and fails every write while Failing is set,
// simulating a full browser storage quota.
type FlakyStore struct {
	kv.Store

	mu      sync.Mutex
	failing bool
}

func NewFlakyStore(inner kv.Store) *FlakyStore {
	return &FlakyStore{Store: inner}
}

func (s *FlakyStore) SetFailing(failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = failing
}

func (s *FlakyStore) isFailing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failing
}

func (s *FlakyStore) Set(ctx context.Context, key string, value []byte) error {
	if s.isFailing() {
		return ErrWriteFailed
	}
	return s.Store.Set(ctx, key, value)
}

func (s *FlakyStore) Delete(ctx context.Context, key string) error {
	if s.isFailing() {
		return ErrWriteFailed
	}
	return s.Store.Delete(ctx, key)
}

// Anime builds a catalog snapshot for tests.
func Anime(id, title string, totalEpisodes int, genres ...string) model.Anime {
	return model.Anime{
		ID:            id,
		Title:         title,
		Image:         "https://image.example/" + id + ".jpg",
		Genres:        genres,
		TotalEpisodes: totalEpisodes,
		Type:          model.TypeSeries,
	}
}
