package notify

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	appLog "forestfest/internal/log"
	"forestfest/internal/metrics"
	"forestfest/internal/reminder"
)

// Clock abstracts time so tests can fire reminders without waiting.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the part of *time.Timer the dispatcher needs.
type Timer interface {
	Stop() bool
}

// RealClock uses the time package.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Sink receives reminders when they are due.
type Sink interface {
	// Ready reports whether the sink can deliver. It backs the permission
	// request.
	Ready(ctx context.Context) error
	Deliver(ctx context.Context, r reminder.Reminder) error
	Close() error
}

// DefaultDeliverTimeout bounds a single sink delivery.
const DefaultDeliverTimeout = 10 * time.Second

type pending struct {
	timer Timer
	gen   uint64
}

// Local is an in-process reminder.Notifier: one timer per reminder,
// delivered to a Sink when it fires.
type Local struct {
	clock  Clock
	sink   Sink
	onFire func(id string)
	logger zerolog.Logger

	// deliverTimeout bounds each Deliver call.
	deliverTimeout time.Duration

	mu      sync.Mutex
	gen     uint64
	pending map[string]pending
}

// Option configures a Local.
type Option func(*Local)

// WithClock replaces the real clock.
func WithClock(c Clock) Option { return func(l *Local) { l.clock = c } }

// WithOnFire registers a hook run after each delivery attempt.
func WithOnFire(f func(id string)) Option { return func(l *Local) { l.onFire = f } }

// WithDeliverTimeout replaces DefaultDeliverTimeout.
func WithDeliverTimeout(d time.Duration) Option { return func(l *Local) { l.deliverTimeout = d } }

func NewLocal(sink Sink, opts ...Option) *Local {
	l := &Local{
		clock:          RealClock{},
		sink:           sink,
		logger:         appLog.WithComponent("notify"),
		deliverTimeout: DefaultDeliverTimeout,
		pending:        make(map[string]pending),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// RequestPermission grants delivery when the sink is ready.
func (l *Local) RequestPermission(ctx context.Context) (bool, error) {
	if err := l.sink.Ready(ctx); err != nil {
		l.logger.Info().Err(err).Msg("sink not ready; permission denied")
		return false, nil
	}
	return true, nil
}

// Schedule arms a timer for r, replacing any pending reminder with the same
// ID. Reminders whose instant has passed are dropped.
func (l *Local) Schedule(_ context.Context, r reminder.Reminder) error {
	d := r.FireAt.Sub(l.clock.Now())
	if d <= 0 {
		l.logger.Debug().Str("id", r.ID).Time("fire_at", r.FireAt).Msg("reminder in the past; dropped")
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if old, ok := l.pending[r.ID]; ok {
		old.timer.Stop()
	}
	l.gen++
	gen := l.gen
	l.pending[r.ID] = pending{
		gen:   gen,
		timer: l.clock.AfterFunc(d, func() { l.fire(r, gen) }),
	}
	return nil
}

// CancelAll stops every pending timer.
func (l *Local) CancelAll(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, p := range l.pending {
		p.timer.Stop()
		delete(l.pending, id)
	}
	return nil
}

// Pending lists the IDs still waiting to fire, sorted.
func (l *Local) Pending() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.pending))
	for id := range l.pending {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Close cancels pending reminders and closes the sink.
func (l *Local) Close() error {
	_ = l.CancelAll(context.Background())
	return l.sink.Close()
}

func (l *Local) fire(r reminder.Reminder, gen uint64) {
	l.mu.Lock()
	p, ok := l.pending[r.ID]
	if !ok || p.gen != gen {
		l.mu.Unlock()
		return
	}
	delete(l.pending, r.ID)
	l.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), l.deliverTimeout)
	err := l.sink.Deliver(ctx, r)
	cancel()
	if err != nil {
		metrics.ReminderDeliveryFailures.WithLabelValues(string(r.Kind)).Inc()
		l.logger.Error().Err(err).Str("id", r.ID).Msg("reminder delivery failed")
	}
	if l.onFire != nil {
		l.onFire(r.ID)
	}
}
