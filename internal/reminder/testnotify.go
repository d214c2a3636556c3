package reminder

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"forestfest/internal/conflict"
	"forestfest/internal/metrics"
	"forestfest/internal/model"
)

var ErrNotificationsDisabled = errors.New("reminder: notifications are not enabled")

const (
	// DefaultTestDelay is used when a TestRequest leaves Delay unset.
	DefaultTestDelay   = 10 * time.Second
	immediateTestDelay = 3 * time.Second
)

// TestRequest describes a one-off notification used to check delivery.
type TestRequest struct {
	Kind        Kind          `json:"kind"` // performance, conflict or test (custom)
	Delay       time.Duration `json:"delay"`
	UseRealData bool          `json:"useRealData"`
	Immediate   bool          `json:"immediate"`
}

// SendTest schedules a single test notification. Real data picks a random
// performance that starts within the last hour or later, or the first
// clashing pair of the whole lineup; without a match it falls back to the
// canned text.
func (s *Scheduler) SendTest(ctx context.Context, req TestRequest) (Reminder, error) {
	s.mu.Lock()
	enabled, lead := s.enabled, s.lead
	s.mu.Unlock()
	if !enabled {
		return Reminder{}, ErrNotificationsDisabled
	}

	delay := req.Delay
	prefix := "test-"
	if req.Immediate {
		delay = immediateTestDelay
		prefix = "immediate-test-"
	}
	if delay <= 0 {
		delay = DefaultTestDelay
	}

	r := Reminder{
		ID:     prefix + uuid.NewString(),
		Kind:   KindTest,
		FireAt: s.now().Add(delay),
	}
	r.Title, r.Body = s.testContent(req, lead)

	if err := s.notifier.Schedule(ctx, r); err != nil {
		metrics.ReminderDeliveryFailures.WithLabelValues(string(r.Kind)).Inc()
		return Reminder{}, fmt.Errorf("reminder: schedule test notification: %w", err)
	}
	s.logger.Info().Str("id", r.ID).Time("fire_at", r.FireAt).Msg("test notification scheduled")
	return r, nil
}

func (s *Scheduler) testContent(req TestRequest, lead int) (string, string) {
	if req.UseRealData {
		switch req.Kind {
		case KindPerformance:
			if p, ok := s.randomUpcoming(); ok {
				return performanceTitle(p), performanceBody(p, lead)
			}
		case KindConflict:
			if pair, ok := conflict.FirstConflictingPair(s.catalog.All()); ok {
				return conflictTitle, conflictBody(pair)
			}
		}
	}
	if req.Immediate {
		return "⚡ Immediate Test", "This is an immediate test notification"
	}
	switch req.Kind {
	case KindPerformance:
		return "🎵 Test Performance Reminder",
			fmt.Sprintf("This is a test notification for performance reminders. Your favorite act would start in %d minutes!", lead)
	case KindConflict:
		return "⚠️ Test Schedule Conflict", "This is a test notification for schedule conflicts. You have overlapping performances!"
	default:
		return "🔔 Test Custom Notification", "This is a test notification to verify the notification system is working properly."
	}
}

func (s *Scheduler) randomUpcoming() (model.Performance, bool) {
	now := s.now()
	var candidates []model.Performance
	for _, p := range s.catalog.All() {
		if s.upcoming(p, now) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return model.Performance{}, false
	}
	return candidates[rand.IntN(len(candidates))], true
}
