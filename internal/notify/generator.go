package notify

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theLastOfCats/animewatcher-server/internal/model"
)

const (
	minUpdateInterval = 45 * time.Second
	updateJitter      = 45 * time.Second

	updateTitle = "تحديث جديد"
)

var updateTemplates = []string{
	"حلقة جديدة متوفرة: %s",
	"%s يتصدر الترند الآن!",
	"تم إضافة موسم جديد لـ %s",
	"شاهد الآن الحلقة الأسبوعية من %s",
}

// Sampler picks one currently trending or airing title.
type Sampler interface {
	Sample(ctx context.Context) (model.Anime, error)
}

// Sink receives generated notifications.
type Sink interface {
	Deliver(ctx context.Context, n model.Notification)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, n model.Notification)

func (f SinkFunc) Deliver(ctx context.Context, n model.Notification) { f(ctx, n) }

// Generator simulates new-episode updates at random intervals.
type Generator struct {
	sampler Sampler
	sink    Sink
	logger  *slog.Logger

	mu       sync.Mutex
	rng      *rand.Rand
	interval func() time.Duration
	now      func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func NewGenerator(sampler Sampler, sink Sink, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Generator{
		sampler: sampler,
		sink:    sink,
		logger:  logger,
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		now:     time.Now,
	}
	g.interval = g.randomInterval
	return g
}

func (g *Generator) randomInterval() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return minUpdateInterval + time.Duration(g.rng.Int64N(int64(updateJitter)))
}

func (g *Generator) pick(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.IntN(n)
}

// Start launches the loop. Calling Start on a running generator does nothing.
func (g *Generator) Start(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.done = make(chan struct{})
	go g.run(ctx, g.done)
}

// Stop cancels the loop and waits for it to exit.
func (g *Generator) Stop() {
	g.mu.Lock()
	cancel, done := g.cancel, g.done
	g.cancel, g.done = nil, nil
	g.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (g *Generator) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(g.interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if n, ok := g.Next(ctx); ok {
				g.sink.Deliver(ctx, n)
			}
			timer.Reset(g.interval())
		}
	}
}

// Next builds one update notification. It reports false when no title could
// be sampled.
func (g *Generator) Next(ctx context.Context) (model.Notification, bool) {
	anime, err := g.sampler.Sample(ctx)
	if err != nil {
		g.logger.DebugContext(ctx, "update simulation skipped", "error", err)
		return model.Notification{}, false
	}

	return model.Notification{
		ID:        uuid.NewString(),
		Kind:      model.KindUpdate,
		Title:     updateTitle,
		Message:   fmt.Sprintf(updateTemplates[g.pick(len(updateTemplates))], anime.Title),
		Link:      "/watch/" + anime.ID,
		Timestamp: g.now(),
	}, true
}
