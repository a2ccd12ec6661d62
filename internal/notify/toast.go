// Package notify delivers user-facing messages: short-lived toasts, the
// persisted notification inbox, and the simulated new-episode generator.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

// ToastTTL is how long a toast stays visible unless dismissed first.
const ToastTTL = 5 * time.Second

type toast struct {
	model.Notification
	timer *time.Timer
}

// Toaster holds the visible toasts of one profile, in insertion order.
// Toasts are never persisted.
type Toaster struct {
	mu     sync.Mutex
	toasts []*toast
	ttl    time.Duration
	now    func() time.Time
	closed bool
}

func NewToaster() *Toaster {
	return &Toaster{ttl: ToastTTL, now: time.Now}
}

// Show makes a toast visible and schedules its removal.
func (t *Toaster) Show(message string, kind model.NotificationKind) model.Notification {
	n := model.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		Timestamp: t.now(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return n
	}

	item := &toast{Notification: n}
	item.timer = time.AfterFunc(t.ttl, func() { t.remove(n.ID) })
	t.toasts = append(t.toasts, item)
	return n
}

// Dismiss removes a toast before it expires. Unknown ids are ignored.
func (t *Toaster) Dismiss(id string) {
	t.remove(id)
}

func (t *Toaster) remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, item := range t.toasts {
		if item.ID == id {
			item.timer.Stop()
			t.toasts = append(t.toasts[:i:i], t.toasts[i+1:]...)
			return
		}
	}
}

// List returns the visible toasts oldest first.
func (t *Toaster) List() []model.Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.Notification, 0, len(t.toasts))
	for _, item := range t.toasts {
		out = append(out, item.Notification)
	}
	return out
}

// Close stops every pending expiry timer and drops all toasts.
func (t *Toaster) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, item := range t.toasts {
		item.timer.Stop()
	}
	t.toasts = nil
	t.closed = true
}
