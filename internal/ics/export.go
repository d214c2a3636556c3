// Package ics converts favorites to and from iCalendar documents.
package ics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"forestfest/internal/festival"
	appLog "forestfest/internal/log"
	"forestfest/internal/model"
)

// UIDSuffix is appended to performance IDs to form VEVENT UIDs.
const UIDSuffix = "@forestfest"

// ExportOptions controls calendar output.
type ExportOptions struct {
	// Name is written as X-WR-CALNAME.
	Name string
	// LeadMinutes adds a DISPLAY alarm that many minutes before each set.
	// Zero or less omits alarms.
	LeadMinutes int
	IDs         model.IDStrategy
	Now         time.Time
}

// ExportFavorites renders perfs as a VCALENDAR, one VEVENT per performance.
// Performances without valid times are skipped.
func ExportFavorites(perfs []model.Performance, cal *festival.Calendar, opts ExportOptions) (string, error) {
	if cal == nil {
		return "", errors.New("ics: festival calendar is nil")
	}
	if opts.IDs == nil {
		opts.IDs = model.NameStageIDs
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Name == "" {
		opts.Name = "Forest Fest favorites"
	}

	out := ical.NewCalendarFor("forestfest")
	out.SetMethod(ical.MethodPublish)
	out.SetXWRCalName(opts.Name)
	out.SetXWRTimezone(cal.Location().String())

	for _, p := range perfs {
		start, end, err := cal.Span(p)
		if err != nil {
			appLog.Error("ics export skipped performance", err, "name", p.Name, "stage", p.Stage.Label())
			continue
		}

		ev := out.AddEvent(opts.IDs.ID(p) + UIDSuffix)
		ev.SetDtStampTime(opts.Now)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(p.Name)
		ev.SetLocation(p.Stage.Label())
		ev.SetDescription(fmt.Sprintf("%s, %s - %s (%s)", p.Stage.Label(), p.Start, p.End, p.Duration()))
		ev.AddCategory(p.Day.Label())

		if opts.LeadMinutes > 0 {
			alarm := ev.AddAlarm()
			alarm.SetAction(ical.ActionDisplay)
			alarm.SetTrigger(fmt.Sprintf("-PT%dM", opts.LeadMinutes))
			alarm.SetDescription(fmt.Sprintf("%s starts in %d minutes at %s", p.Name, opts.LeadMinutes, p.Stage.Label()))
		}
	}

	return out.Serialize(), nil
}

// ParseFavoriteIDs reads a calendar produced by ExportFavorites (or edited
// by a calendar app) and returns the performance IDs from its UIDs in
// document order. Events with foreign UIDs are ignored.
func ParseFavoriteIDs(r io.Reader) ([]string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ics: read: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("ics: empty calendar")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ics: parse: %w", err)
	}

	var ids []string
	for _, ev := range cal.Events() {
		uid := ev.Id()
		id, ok := strings.CutSuffix(uid, UIDSuffix)
		if !ok || id == "" {
			appLog.Debug("ics import ignored event", "uid", uid)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
