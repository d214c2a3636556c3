package ics

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forestfest/internal/festival"
	"forestfest/internal/model"
)

var (
	franz = model.Performance{
		Name: "Franz Ferdinand", Stage: model.StageForest, Day: model.Friday,
		Start: model.MustTimeCode("20:20"), End: model.MustTimeCode("21:50"),
	}
	oasis = model.Performance{
		Name: "Live Forever Oasis", Stage: model.StageForest, Day: model.Friday,
		Start: model.MustTimeCode("00:00"), End: model.MustTimeCode("01:00"),
	}
	unknown = model.Performance{
		Name: "TBA", Stage: model.StageVIP, Day: model.Sunday,
		Start: model.ParseTimeCode("late"), End: model.ParseTimeCode("later"),
	}
)

func exportFixture(t *testing.T, lead int) string {
	t.Helper()
	cal := festival.Default(time.UTC)
	out, err := ExportFavorites([]model.Performance{franz, oasis, unknown}, cal, ExportOptions{
		LeadMinutes: lead,
		Now:         time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return out
}

func TestExportFavorites(t *testing.T) {
	out := exportFixture(t, 30)

	assert.Contains(t, out, "UID:franz-ferdinand-forest-stage@forestfest")
	assert.Contains(t, out, "DTSTART:20250725T202000Z")
	assert.Contains(t, out, "DTEND:20250725T215000Z")
	assert.Contains(t, out, "DTSTART:20250726T000000Z", "midnight set lands on the next calendar date")
	assert.Contains(t, out, "TRIGGER:-PT30M")
	assert.Contains(t, out, "X-WR-CALNAME:Forest Fest favorites")
	assert.NotContains(t, out, "TBA")

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2)

	start, err := events[0].GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2025, 7, 25, 20, 20, 0, 0, time.UTC)))
	assert.Equal(t, "Forest Stage", events[0].GetProperty(ical.ComponentPropertyLocation).Value)
	assert.Len(t, events[0].Alarms(), 1)
}

func TestExportFavorites_NoAlarmWithoutLead(t *testing.T) {
	out := exportFixture(t, 0)
	assert.NotContains(t, out, "BEGIN:VALARM")
}

func TestExportFavorites_NilCalendar(t *testing.T) {
	_, err := ExportFavorites(nil, nil, ExportOptions{})
	assert.Error(t, err)
}

func TestParseFavoriteIDs_RoundTrip(t *testing.T) {
	ids, err := ParseFavoriteIDs(strings.NewReader(exportFixture(t, 15)))
	require.NoError(t, err)
	assert.Equal(t, []string{"franz-ferdinand-forest-stage", "live-forever-oasis-forest-stage"}, ids)
}

func TestParseFavoriteIDs_IgnoresForeignEvents(t *testing.T) {
	doc := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//other//EN",
		"BEGIN:VEVENT",
		"UID:dentist-appointment@example.com",
		"DTSTART:20250724T090000Z",
		"SUMMARY:Dentist",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:laura-jo-forest-fleadh-stage@forestfest",
		"DTSTART:20250725T204000Z",
		"SUMMARY:Laura Jo",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	ids, err := ParseFavoriteIDs(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"laura-jo-forest-fleadh-stage"}, ids)
}

func TestParseFavoriteIDs_Empty(t *testing.T) {
	_, err := ParseFavoriteIDs(strings.NewReader("  \n"))
	assert.Error(t, err)
}
