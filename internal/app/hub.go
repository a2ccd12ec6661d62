package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/theLastOfCats/animewatcher-server/internal/kv"
	"github.com/theLastOfCats/animewatcher-server/internal/model"
	"github.com/theLastOfCats/animewatcher-server/internal/notify"
)

const (
	// DefaultIdleTimeout is how long a profile stays loaded without requests.
	DefaultIdleTimeout = 30 * time.Minute
	// DefaultEvictionInterval is how often idle profiles are unloaded.
	DefaultEvictionInterval = time.Minute
)

type loadedProfile struct {
	state    *State
	lastSeen time.Time
}

// Hub owns the loaded profile states over one shared backend. Profiles idle
// for longer than the idle timeout receive no updates and are unloaded by
// the eviction loop; their data stays in the store.
type Hub struct {
	store  kv.Store
	logger *slog.Logger
	idle   time.Duration
	now    func() time.Time

	mu        sync.Mutex
	profiles  map[string]*loadedProfile
	generator *notify.Generator

	stopEviction context.CancelFunc
	evictionDone chan struct{}
}

func NewHub(store kv.Store, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		store:    store,
		logger:   logger,
		idle:     DefaultIdleTimeout,
		now:      time.Now,
		profiles: make(map[string]*loadedProfile),
	}
}

// SetIdleTimeout changes how long an unused profile stays loaded.
func (h *Hub) SetIdleTimeout(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if d > 0 {
		h.idle = d
	}
}

// Profile returns the state of profileID, opening it on first use, and marks
// it as active.
func (h *Hub) Profile(ctx context.Context, profileID string) (*State, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	if p, ok := h.profiles[profileID]; ok {
		p.lastSeen = now
		return p.state, nil
	}
	s, err := Open(ctx, profileID, kv.Prefixed(h.store, kv.ProfilePrefix(profileID)), h.logger)
	if err != nil {
		return nil, err
	}
	h.profiles[profileID] = &loadedProfile{state: s, lastSeen: now}
	return s, nil
}

// Loaded is the number of profiles held in memory.
func (h *Hub) Loaded() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.profiles)
}

func (h *Hub) active() []*State {
	h.mu.Lock()
	defer h.mu.Unlock()
	cutoff := h.now().Add(-h.idle)
	out := make([]*State, 0, len(h.profiles))
	for _, p := range h.profiles {
		if p.lastSeen.After(cutoff) {
			out = append(out, p.state)
		}
	}
	return out
}

// Deliver hands a generated notification to every recently active profile.
func (h *Hub) Deliver(ctx context.Context, n model.Notification) {
	for _, s := range h.active() {
		if err := s.AddSystemNotification(ctx, n); err != nil {
			h.logger.WarnContext(ctx, "notification delivery failed", "profile", s.ProfileID, "error", err)
		}
	}
}

// EvictIdle unloads profiles idle past the timeout and returns how many.
func (h *Hub) EvictIdle() int {
	h.mu.Lock()
	cutoff := h.now().Add(-h.idle)
	var idle []*State
	for id, p := range h.profiles {
		if !p.lastSeen.After(cutoff) {
			idle = append(idle, p.state)
			delete(h.profiles, id)
		}
	}
	h.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	return len(idle)
}

// StartEviction unloads idle profiles every interval until Close or ctx ends.
// Calling it again while running does nothing.
func (h *Hub) StartEviction(ctx context.Context, interval time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopEviction != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	h.stopEviction, h.evictionDone = cancel, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := h.EvictIdle(); n > 0 {
					h.logger.DebugContext(ctx, "unloaded idle profiles", "count", n)
				}
			}
		}
	}()
}

// StartSimulation runs the update generator until Close.
func (h *Hub) StartSimulation(ctx context.Context, sampler notify.Sampler) {
	h.mu.Lock()
	if h.generator == nil {
		h.generator = notify.NewGenerator(sampler, h, h.logger)
	}
	g := h.generator
	h.mu.Unlock()

	g.Start(ctx)
}

// Close stops the background loops and every profile's toast timers.
func (h *Hub) Close() {
	h.mu.Lock()
	g := h.generator
	stop, done := h.stopEviction, h.evictionDone
	h.stopEviction, h.evictionDone = nil, nil
	profiles := h.profiles
	h.profiles = make(map[string]*loadedProfile)
	h.mu.Unlock()

	if g != nil {
		g.Stop()
	}
	if stop != nil {
		stop()
		<-done
	}
	for _, p := range profiles {
		p.state.Close()
	}
}
