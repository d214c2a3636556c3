package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// lateNightCutoff is the last clock hour that still belongs to the previous
// festival day. Hours 00..05 are remapped to 24..29.
const lateNightCutoff = 5

// TimeCode is a festival-day clock time parsed from "HH:mm".
//
// The zero value is the "unknown" sentinel produced by a failed parse. It is
// not an error: it still orders as 00:00 remapped to 0 minutes, so callers
// that care (duration display, fire instants) must check Valid.
type TimeCode struct {
	hour   int
	minute int
	valid  bool
}

// ParseTimeCode parses "HH:mm" (or "HH.mm"). Anything that does not yield
// exactly two integer components returns the zero sentinel.
func ParseTimeCode(s string) TimeCode {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		parts = strings.Split(s, ".")
	}
	if len(parts) != 2 {
		return TimeCode{}
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeCode{}
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeCode{}
	}
	return TimeCode{hour: hour, minute: minute, valid: true}
}

// MustTimeCode is ParseTimeCode for static data; it panics on malformed input.
func MustTimeCode(s string) TimeCode {
	tc := ParseTimeCode(s)
	if !tc.valid {
		panic(fmt.Sprintf("model: malformed time code %q", s))
	}
	return tc
}

// Valid reports whether the time code came from a successful parse.
func (t TimeCode) Valid() bool { return t.valid }

// Hour returns the raw clock hour as written.
func (t TimeCode) Hour() int { return t.hour }

// Minute returns the minute component.
func (t TimeCode) Minute() int { return t.minute }

// RemappedMinutes returns minutes since the festival-day midnight with the
// small hours (00..05) counted as 24..29 so they sort after the evening.
func (t TimeCode) RemappedMinutes() int {
	if !t.valid {
		return 0
	}
	h := t.hour
	if h >= 0 && h <= lateNightCutoff {
		h += 24
	}
	return h*60 + t.minute
}

// Offset is RemappedMinutes as a duration from the festival-day midnight.
func (t TimeCode) Offset() time.Duration {
	return time.Duration(t.RemappedMinutes()) * time.Minute
}

// Compare orders by remapped minutes: -1, 0 or +1.
func (t TimeCode) Compare(other TimeCode) int {
	a, b := t.RemappedMinutes(), other.RemappedMinutes()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether t sorts strictly before other.
func (t TimeCode) Before(other TimeCode) bool { return t.Compare(other) < 0 }

// String formats the raw clock value as "HH:MM", or "" for the sentinel.
func (t TimeCode) String() string {
	if !t.valid {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

// MarshalText keeps the "HH:MM" wire form in JSON and YAML output.
func (t TimeCode) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts the same lenient input as ParseTimeCode.
func (t *TimeCode) UnmarshalText(b []byte) error {
	*t = ParseTimeCode(string(b))
	return nil
}
