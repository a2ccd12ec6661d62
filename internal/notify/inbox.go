package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theLastOfCats/animewatcher-server/internal/kv"
	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

const (
	// MaxInbox is the number of persisted notifications kept.
	MaxInbox = 50
	// DedupeWindow suppresses a repeated message arriving within it.
	DedupeWindow = 60 * time.Second
)

// Inbox is the persisted notification list, newest first.
type Inbox struct {
	mu    sync.Mutex
	store kv.Store
	now   func() time.Time
}

func NewInbox(store kv.Store) *Inbox {
	return &Inbox{store: store, now: time.Now}
}

func (in *Inbox) load(ctx context.Context) ([]model.Notification, error) {
	list, err := kv.Read(ctx, in.store, kv.KeyNotifications, []model.Notification{})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Notification{}
	}
	return list, nil
}

// Add stores n at the front. It reports false when an entry with the same
// message is younger than DedupeWindow, in which case nothing is written.
// Missing id and timestamp are filled in.
func (in *Inbox) Add(ctx context.Context, n model.Notification) (bool, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	list, err := in.load(ctx)
	if err != nil {
		return false, fmt.Errorf("add notification: %w", err)
	}

	now := in.now()
	for _, existing := range list {
		if existing.Message == n.Message && now.Sub(existing.Timestamp) < DedupeWindow {
			return false, nil
		}
	}

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = now
	}
	n.Read = false

	list = append([]model.Notification{n}, list...)
	if len(list) > MaxInbox {
		list = list[:MaxInbox]
	}
	if err := kv.Write(ctx, in.store, kv.KeyNotifications, list); err != nil {
		return false, fmt.Errorf("add notification: %w", err)
	}
	return true, nil
}

func (in *Inbox) List(ctx context.Context) ([]model.Notification, error) {
	list, err := in.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

func (in *Inbox) UnreadCount(ctx context.Context) (int, error) {
	list, err := in.List(ctx)
	if err != nil {
		return 0, err
	}
	unread := 0
	for _, n := range list {
		if !n.Read {
			unread++
		}
	}
	return unread, nil
}

// MarkAllRead flags every stored notification as read.
func (in *Inbox) MarkAllRead(ctx context.Context) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	list, err := in.load(ctx)
	if err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	for i := range list {
		list[i].Read = true
	}
	if err := kv.Write(ctx, in.store, kv.KeyNotifications, list); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

// Clear deletes the stored list.
func (in *Inbox) Clear(ctx context.Context) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if err := in.store.Delete(ctx, kv.KeyNotifications); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}
