package festival

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	appLog "forestfest/internal/log"
	"forestfest/internal/model"
)

var (
	ErrUnknownDay  = errors.New("festival: day not on calendar")
	ErrInvalidTime = errors.New("festival: invalid time code")
)

// DefaultStart is the first festival day (Friday, July 25 2025).
const DefaultStart = "2025-07-25"

// Calendar maps festival days onto concrete dates in the festival timezone.
type Calendar struct {
	loc   *time.Location
	dates map[model.Day]time.Time
	order []time.Time
}

// New lays days consecutive dates from start (a "2006-01-02" date) onto
// Friday, Saturday, Sunday in order.
func New(start string, days int, loc *time.Location) (*Calendar, error) {
	return NewFromRule(start, "", days, loc)
}

// NewFromRule expands rule (an RFC 5545 RRULE such as
// "FREQ=WEEKLY;BYDAY=FR,SA") from start and takes the first days
// occurrences as the festival days. An empty rule means FREQ=DAILY.
// Any DTSTART in rule is replaced by start.
func NewFromRule(start, rule string, days int, loc *time.Location) (*Calendar, error) {
	if loc == nil {
		loc = time.Local
	}
	first, err := time.ParseInLocation(time.DateOnly, start, loc)
	if err != nil {
		return nil, fmt.Errorf("festival: parse start date %q: %w", start, err)
	}
	festDays := model.Days()
	if days <= 0 || days > len(festDays) {
		return nil, fmt.Errorf("festival: days must be between 1 and %d, got %d", len(festDays), days)
	}
	if rule == "" {
		rule = "FREQ=DAILY"
	}

	opt, err := rrule.StrToROptionInLocation(rule, loc)
	if err != nil {
		return nil, fmt.Errorf("festival: parse rule %q: %w", rule, err)
	}
	opt.Dtstart = first
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("festival: build rule %q: %w", rule, err)
	}

	c := &Calendar{loc: loc, dates: make(map[model.Day]time.Time, days)}
	next := r.Iterator()
	for len(c.order) < days {
		t, ok := next()
		if !ok {
			break
		}
		t = t.In(loc)
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		c.dates[festDays[len(c.order)]] = d
		c.order = append(c.order, d)
	}
	if len(c.order) < days {
		return nil, fmt.Errorf("festival: rule %q yields %d of %d days", rule, len(c.order), days)
	}
	return c, nil
}

// Default is the 2025 three-day calendar in loc.
func Default(loc *time.Location) *Calendar {
	c, err := New(DefaultStart, 3, loc)
	if err != nil {
		panic(err)
	}
	return c
}

// Location is the festival timezone.
func (c *Calendar) Location() *time.Location { return c.loc }

// Date returns midnight of day.
func (c *Calendar) Date(day model.Day) (time.Time, bool) {
	d, ok := c.dates[day]
	return d, ok
}

// Dates lists the festival dates in order.
func (c *Calendar) Dates() []time.Time {
	out := make([]time.Time, len(c.order))
	copy(out, c.order)
	return out
}

// DayOf maps a calendar date back to its festival day.
func (c *Calendar) DayOf(t time.Time) (model.Day, bool) {
	t = t.In(c.loc)
	for day, d := range c.dates {
		if d.Year() == t.Year() && d.YearDay() == t.YearDay() {
			return day, true
		}
	}
	return 0, false
}

// At combines day and a time code. Small hours (00..05) belong to the
// night after the listed day, so "00:30" on Friday is Saturday 00:30.
func (c *Calendar) At(day model.Day, tc model.TimeCode) (time.Time, error) {
	if !tc.Valid() {
		return time.Time{}, ErrInvalidTime
	}
	d, ok := c.dates[day]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", ErrUnknownDay, day.Key())
	}
	mins := tc.RemappedMinutes()
	return time.Date(d.Year(), d.Month(), d.Day(), mins/60, mins%60, 0, 0, c.loc), nil
}

// Span returns the concrete start and end instants of p.
func (c *Calendar) Span(p model.Performance) (time.Time, time.Time, error) {
	start, err := c.At(p.Day, p.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := c.At(p.Day, p.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// ResolveLocation loads name, falling back to the local zone.
func ResolveLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}
