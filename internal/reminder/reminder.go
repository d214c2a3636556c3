package reminder

import (
	"context"
	"fmt"
	"time"

	"forestfest/internal/conflict"
	"forestfest/internal/festival"
	"forestfest/internal/model"
)

// Kind tells performance reminders, conflict alerts and test
// notifications apart.
type Kind string

const (
	KindPerformance Kind = "performance"
	KindConflict    Kind = "conflict"
	KindTest        Kind = "test"
)

// Reminder is a timed alert handed to a Notifier.
type Reminder struct {
	ID     string    `json:"id"`
	Kind   Kind      `json:"kind"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	FireAt time.Time `json:"fireAt"`
}

// Notifier delivers reminders at their instant. Schedule with an ID that is
// already pending replaces it.
type Notifier interface {
	RequestPermission(ctx context.Context) (bool, error)
	Schedule(ctx context.Context, r Reminder) error
	CancelAll(ctx context.Context) error
}

// State is the lifecycle of a tracked reminder.
type State string

const (
	StateUnscheduled State = "unscheduled"
	StateScheduled   State = "scheduled"
	StateFired       State = "fired"
	StateCancelled   State = "cancelled"
)

// Tracked is a reminder with its current state.
type Tracked struct {
	Reminder
	State State `json:"state"`
}

// FireInstant is the performance start on the festival calendar minus lead
// minutes.
func FireInstant(cal *festival.Calendar, p model.Performance, leadMinutes int) (time.Time, error) {
	start, err := cal.At(p.Day, p.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("reminder: fire instant for %q: %w", p.Name, err)
	}
	return start.Add(-time.Duration(leadMinutes) * time.Minute), nil
}

// PerformanceID is the notifier identifier of a performance reminder.
func PerformanceID(performanceID string) string { return "artist-" + performanceID }

// ConflictID is the notifier identifier of a conflict alert.
func ConflictID(firstID, secondID string) string { return "conflict-" + firstID + "-" + secondID }

func performanceTitle(p model.Performance) string {
	return fmt.Sprintf("🎵 %s starts soon!", p.Name)
}

func performanceBody(p model.Performance, lead int) string {
	return fmt.Sprintf("Your favorite act starts in %d minutes on %s", lead, p.Stage.Label())
}

const conflictTitle = "⚠️ Schedule Conflict!"

func conflictBody(pair conflict.Pair) string {
	return fmt.Sprintf("%s and %s overlap on %s", pair.A.Name, pair.B.Name, pair.A.Day.Label())
}
