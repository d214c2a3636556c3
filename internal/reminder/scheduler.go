package reminder

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"forestfest/internal/conflict"
	"forestfest/internal/festival"
	"forestfest/internal/kv"
	"forestfest/internal/lineup"
	appLog "forestfest/internal/log"
	"forestfest/internal/metrics"
	"forestfest/internal/model"
)

const (
	// KeyEnabled and KeyLead are the storage keys of the two settings.
	KeyEnabled = "notificationsEnabled"
	KeyLead    = "reminderTime"

	DefaultLeadMinutes = 30
)

// LeadOptions are the lead times offered to users. Any positive value is
// accepted.
var LeadOptions = []int{15, 30, 45, 60, 90, 120}

var ErrInvalidLead = errors.New("reminder: lead minutes must be positive")

// Settings is the persisted notification configuration.
type Settings struct {
	Enabled     bool  `json:"enabled"`
	LeadMinutes int   `json:"leadMinutes"`
	Options     []int `json:"options"`
}

// Options wires a Scheduler.
type Options struct {
	Store    kv.Store
	Catalog  *lineup.Catalog
	Calendar *festival.Calendar
	Notifier Notifier
	Now      func() time.Time // defaults to time.Now

	// DefaultLead applies until a lead time is stored. Zero means
	// DefaultLeadMinutes.
	DefaultLead int
}

// Scheduler keeps the notifier in sync with the favorites: every trigger
// cancels everything and, when enabled, schedules one reminder per
// favorite plus one alert per overlapping pair.
type Scheduler struct {
	store    kv.Store
	catalog  *lineup.Catalog
	cal      *festival.Calendar
	notifier Notifier
	now      func() time.Time
	logger   zerolog.Logger
	defLead  int

	mu      sync.Mutex
	enabled bool
	lead    int
	ids     []string
	order   []string
	tracked map[string]*Tracked
}

func New(opts Options) *Scheduler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	defLead := opts.DefaultLead
	if defLead <= 0 {
		defLead = DefaultLeadMinutes
	}
	return &Scheduler{
		store:    opts.Store,
		catalog:  opts.Catalog,
		cal:      opts.Calendar,
		notifier: opts.Notifier,
		now:      now,
		logger:   appLog.WithComponent("reminder"),
		defLead:  defLead,
		lead:     defLead,
		tracked:  make(map[string]*Tracked),
	}
}

// Load reads the persisted settings and the initial favorites. It does not
// schedule anything; call Reschedule once the notifier is ready.
func (s *Scheduler) Load(ctx context.Context, favoriteIDs []string) error {
	enabled, err := kv.BoolOr(ctx, s.store, KeyEnabled, false)
	if err != nil {
		return fmt.Errorf("reminder: load %s: %w", KeyEnabled, err)
	}
	lead, err := kv.IntOr(ctx, s.store, KeyLead, s.defLead)
	if err != nil {
		return fmt.Errorf("reminder: load %s: %w", KeyLead, err)
	}
	if lead <= 0 {
		lead = s.defLead
	}

	s.mu.Lock()
	s.enabled = enabled
	s.lead = lead
	s.ids = slices.Clone(favoriteIDs)
	s.mu.Unlock()
	return nil
}

// Settings returns the current configuration.
func (s *Scheduler) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Settings{Enabled: s.enabled, LeadMinutes: s.lead, Options: slices.Clone(LeadOptions)}
}

// FavoritesChanged is the favorites listener hook.
func (s *Scheduler) FavoritesChanged(ctx context.Context, ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = slices.Clone(ids)
	s.rescheduleLocked(ctx)
}

// SetEnabled turns reminders on or off and reports the resulting state.
// Turning on asks the notifier for permission; a denial leaves the flag
// off, persisted, with nothing scheduled.
func (s *Scheduler) SetEnabled(ctx context.Context, on bool) (bool, error) {
	if on {
		granted, err := s.notifier.RequestPermission(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("permission request failed")
			granted = false
		}
		on = granted
		if !granted {
			s.logger.Info().Msg("notification permission denied")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := kv.SetBool(ctx, s.store, KeyEnabled, on); err != nil {
		return s.enabled, fmt.Errorf("reminder: persist %s: %w", KeyEnabled, err)
	}
	s.enabled = on
	s.rescheduleLocked(ctx)
	return on, nil
}

// SetLeadMinutes stores a new lead time and reschedules.
func (s *Scheduler) SetLeadMinutes(ctx context.Context, minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLead, minutes)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := kv.SetInt(ctx, s.store, KeyLead, minutes); err != nil {
		return fmt.Errorf("reminder: persist %s: %w", KeyLead, err)
	}
	s.lead = minutes
	s.rescheduleLocked(ctx)
	return nil
}

// Reschedule runs one full cancel-then-schedule pass.
func (s *Scheduler) Reschedule(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rescheduleLocked(ctx)
}

// Plan computes the reminders for ids with the current lead time without
// touching the notifier.
func (s *Scheduler) Plan(ids []string) []Reminder {
	s.mu.Lock()
	lead := s.lead
	s.mu.Unlock()
	return s.plan(ids, lead)
}

// Snapshot lists every reminder seen so far with its state, in the order
// they were first scheduled.
func (s *Scheduler) Snapshot() []Tracked {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Tracked, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.tracked[id])
	}
	return out
}

// MarkFired records delivery of id. Unknown IDs (test notifications sent
// before tracking, or cancelled ones) are ignored.
func (s *Scheduler) MarkFired(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tracked[id]
	if !ok || t.State != StateScheduled {
		return
	}
	t.State = StateFired
	metrics.RemindersFired.Inc()
}

func (s *Scheduler) rescheduleLocked(ctx context.Context) {
	metrics.RescheduleRuns.Inc()

	if err := s.notifier.CancelAll(ctx); err != nil {
		s.logger.Error().Err(err).Msg("cancel all failed")
	}
	for _, t := range s.tracked {
		if t.State == StateScheduled {
			t.State = StateCancelled
		}
	}
	if !s.enabled {
		return
	}

	now := s.now()
	planned := s.plan(s.ids, s.lead)
	for _, r := range planned {
		// Past instants are never handed to the notifier; whatever state
		// they reached (fired, cancelled) stays as it is.
		if !r.FireAt.After(now) {
			continue
		}
		s.track(r, StateUnscheduled)
		if err := s.notifier.Schedule(ctx, r); err != nil {
			metrics.ReminderDeliveryFailures.WithLabelValues(string(r.Kind)).Inc()
			s.logger.Error().Err(err).Str("id", r.ID).Msg("schedule reminder failed")
			continue
		}
		s.tracked[r.ID].State = StateScheduled
		metrics.RemindersScheduled.WithLabelValues(string(r.Kind)).Inc()
	}
	s.logger.Debug().Int("favorites", len(s.ids)).Int("reminders", len(planned)).Msg("reminders rescheduled")
}

func (s *Scheduler) track(r Reminder, st State) {
	if _, ok := s.tracked[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.tracked[r.ID] = &Tracked{Reminder: r, State: st}
}

// plan builds at most one reminder per identifier. When an identifier
// resolves to several sets, the first set whose reminder is still ahead
// wins, falling back to the last one.
func (s *Scheduler) plan(ids []string, lead int) []Reminder {
	perfs := s.catalog.Resolve(ids)
	now := s.now()

	var out []Reminder
	index := make(map[string]int)
	add := func(r Reminder) {
		i, seen := index[r.ID]
		if !seen {
			index[r.ID] = len(out)
			out = append(out, r)
			return
		}
		if !out[i].FireAt.After(now) {
			out[i] = r
		}
	}

	for _, p := range perfs {
		at, err := FireInstant(s.cal, p, lead)
		if err != nil {
			s.logger.Debug().Err(err).Str("name", p.Name).Msg("skipping reminder")
			continue
		}
		add(Reminder{
			ID:     PerformanceID(s.catalog.ID(p)),
			Kind:   KindPerformance,
			Title:  performanceTitle(p),
			Body:   performanceBody(p, lead),
			FireAt: at,
		})
	}

	for _, pair := range conflict.FindAllOverlaps(perfs) {
		at, err := FireInstant(s.cal, pair.A, 0)
		if err != nil {
			s.logger.Debug().Err(err).Str("name", pair.A.Name).Msg("skipping conflict alert")
			continue
		}
		at = at.Add(-time.Hour)
		add(Reminder{
			ID:     ConflictID(s.catalog.ID(pair.A), s.catalog.ID(pair.B)),
			Kind:   KindConflict,
			Title:  conflictTitle,
			Body:   conflictBody(pair),
			FireAt: at,
		})
	}
	return out
}

// upcoming reports whether p starts after now minus an hour.
func (s *Scheduler) upcoming(p model.Performance, now time.Time) bool {
	start, err := s.cal.At(p.Day, p.Start)
	if err != nil {
		return false
	}
	return start.After(now.Add(-time.Hour))
}
