package model

import (
	"fmt"
	"strings"
	"time"
)

// Stage is one of the festival's fixed stages. The zero value means
// "any stage" in filters.
type Stage int

const (
	StageForest Stage = iota + 1
	StageVillage
	StageForestFleadh
	StagePerfectDay
	StageIbizaRewind
	StageVIP
)

var stageLabels = map[Stage]string{
	StageForest:       "Forest Stage",
	StageVillage:      "Village Stage",
	StageForestFleadh: "Forest Fleadh Stage",
	StagePerfectDay:   "Perfect Day Stage",
	StageIbizaRewind:  "Ibiza Rewind Tent",
	StageVIP:          "VIP Stage",
}

var stageKeys = map[Stage]string{
	StageForest:       "forest",
	StageVillage:      "village",
	StageForestFleadh: "forestFleadh",
	StagePerfectDay:   "perfectDay",
	StageIbizaRewind:  "ibizaRewind",
	StageVIP:          "vip",
}

// Stages returns every stage in display order.
func Stages() []Stage {
	return []Stage{StageForest, StageVillage, StageForestFleadh, StagePerfectDay, StageIbizaRewind, StageVIP}
}

// Label is the human readable stage name, also used for identifiers.
func (s Stage) Label() string {
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return ""
}

// Key is the short machine name used in URLs and config.
func (s Stage) Key() string { return stageKeys[s] }

func (s Stage) String() string { return s.Label() }

func (s Stage) MarshalText() ([]byte, error) { return []byte(s.Key()), nil }

func (s *Stage) UnmarshalText(b []byte) error {
	v, err := ParseStage(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStage accepts either the short key ("ibizaRewind") or the label,
// case-insensitively.
func ParseStage(v string) (Stage, error) {
	v = strings.TrimSpace(v)
	for _, s := range Stages() {
		if strings.EqualFold(v, s.Key()) || strings.EqualFold(v, s.Label()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("model: unknown stage %q", v)
}

// Day is a festival day. Days are ordered Friday < Saturday < Sunday; the
// zero value means "any day" in filters.
type Day int

const (
	Friday Day = iota + 1
	Saturday
	Sunday
)

var dayLabels = map[Day]string{
	Friday:   "Friday, July 25",
	Saturday: "Saturday, July 26",
	Sunday:   "Sunday, July 27",
}

// Days returns the festival days in order.
func Days() []Day { return []Day{Friday, Saturday, Sunday} }

// Label is the display label, e.g. "Saturday, July 26".
func (d Day) Label() string { return dayLabels[d] }

// Weekday is the bare day name.
func (d Day) Weekday() time.Weekday {
	switch d {
	case Friday:
		return time.Friday
	case Saturday:
		return time.Saturday
	case Sunday:
		return time.Sunday
	}
	return -1
}

// Key is the lowercase weekday name ("friday").
func (d Day) Key() string {
	if d.Weekday() < 0 {
		return ""
	}
	return strings.ToLower(d.Weekday().String())
}

func (d Day) String() string { return d.Label() }

func (d Day) MarshalText() ([]byte, error) { return []byte(d.Key()), nil }

func (d *Day) UnmarshalText(b []byte) error {
	v, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDay accepts "friday", "Friday", "fri" or the full label.
func ParseDay(v string) (Day, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, d := range Days() {
		key := d.Key()
		if v == key || (len(v) >= 3 && strings.HasPrefix(key, v)) || v == strings.ToLower(d.Label()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("model: unknown day %q", v)
}

// Performance is a single scheduled set. It is an immutable value; copy it
// freely.
type Performance struct {
	Name  string   `json:"name"`
	Image string   `json:"image"`
	Stage Stage    `json:"stage"`
	Day   Day      `json:"day"`
	Start TimeCode `json:"start"`
	End   TimeCode `json:"end"`
}

// ID is the default identifier: lowercase(name + "-" + stage label) with
// spaces replaced by hyphens. Day and time are deliberately not part of it,
// so an act with several sets on one stage shares a single ID.
func (p Performance) ID() string {
	return NameStageIDs.ID(p)
}

// Length returns the remapped span. ok is false if either bound is unknown
// or the span is negative.
func (p Performance) Length() (time.Duration, bool) {
	if !p.Start.Valid() || !p.End.Valid() {
		return 0, false
	}
	mins := p.End.RemappedMinutes() - p.Start.RemappedMinutes()
	if mins < 0 {
		return 0, false
	}
	return time.Duration(mins) * time.Minute, true
}

// Duration formats the set length as "1h 30m" or "45m", or "Unknown".
func (p Performance) Duration() string {
	d, ok := p.Length()
	if !ok {
		return "Unknown"
	}
	mins := int(d / time.Minute)
	if mins >= 60 {
		return fmt.Sprintf("%dh %dm", mins/60, mins%60)
	}
	return fmt.Sprintf("%dm", mins)
}

// Overlaps reports whether two sets on the same day intersect. Touching
// endpoints (one ends exactly when the other starts) do not count.
func (p Performance) Overlaps(other Performance) bool {
	if p.Day != other.Day {
		return false
	}
	if !p.Start.Valid() || !p.End.Valid() || !other.Start.Valid() || !other.End.Valid() {
		return false
	}
	return p.Start.RemappedMinutes() < other.End.RemappedMinutes() &&
		other.Start.RemappedMinutes() < p.End.RemappedMinutes()
}

// Compare orders by (Day, Start).
func (p Performance) Compare(other Performance) int {
	switch {
	case p.Day < other.Day:
		return -1
	case p.Day > other.Day:
		return 1
	}
	return p.Start.Compare(other.Start)
}

// Less is Compare(other) < 0.
func (p Performance) Less(other Performance) bool { return p.Compare(other) < 0 }
