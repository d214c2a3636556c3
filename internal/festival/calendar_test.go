package festival

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forestfest/internal/model"
)

func TestDefault_Dates(t *testing.T) {
	c := Default(time.UTC)
	dates := c.Dates()
	require.Len(t, dates, 3)
	assert.Equal(t, time.Date(2025, 7, 25, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2025, 7, 27, 0, 0, 0, 0, time.UTC), dates[2])

	sat, ok := c.Date(model.Saturday)
	require.True(t, ok)
	assert.Equal(t, time.Saturday, sat.Weekday())
}

func TestAt_RemapsSmallHours(t *testing.T) {
	c := Default(time.UTC)

	got, err := c.At(model.Saturday, model.MustTimeCode("12:35"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 26, 12, 35, 0, 0, time.UTC), got)

	got, err = c.At(model.Friday, model.MustTimeCode("00:30"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 26, 0, 30, 0, 0, time.UTC), got)
}

func TestAt_Errors(t *testing.T) {
	c := Default(time.UTC)
	_, err := c.At(model.Friday, model.ParseTimeCode("bogus"))
	assert.ErrorIs(t, err, ErrInvalidTime)

	short, err := New("2025-07-25", 1, time.UTC)
	require.NoError(t, err)
	_, err = short.At(model.Sunday, model.MustTimeCode("12:00"))
	assert.ErrorIs(t, err, ErrUnknownDay)
}

func TestNew_Validation(t *testing.T) {
	_, err := New("25/07/2025", 3, time.UTC)
	assert.Error(t, err)
	_, err = New("2025-07-25", 0, time.UTC)
	assert.Error(t, err)
	_, err = New("2025-07-25", 4, time.UTC)
	assert.Error(t, err)
}

func TestNewFromRule_SplitWeekends(t *testing.T) {
	c, err := NewFromRule("2025-07-25", "FREQ=WEEKLY;BYDAY=FR,SA", 3, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		time.Date(2025, 7, 25, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 26, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	}, c.Dates())

	got, err := c.At(model.Sunday, model.MustTimeCode("01:15"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 2, 1, 15, 0, 0, time.UTC), got)

	d, ok := c.DayOf(time.Date(2025, 7, 27, 12, 0, 0, 0, time.UTC))
	assert.False(t, ok, "gap day %v", d)
}

func TestNewFromRule_EveryOtherDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Dublin")
	require.NoError(t, err)
	c, err := NewFromRule("2025-07-25", "RRULE:FREQ=DAILY;INTERVAL=2", 3, loc)
	require.NoError(t, err)
	dates := c.Dates()
	require.Len(t, dates, 3)
	assert.Equal(t, 29, dates[2].Day())
	assert.Equal(t, loc, dates[2].Location())
}

func TestNewFromRule_EmptyRuleIsDaily(t *testing.T) {
	a, err := NewFromRule("2025-07-25", "", 3, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, Default(time.UTC).Dates(), a.Dates())
}

func TestNewFromRule_Errors(t *testing.T) {
	_, err := NewFromRule("2025-07-25", "FREQ=SOMETIMES", 3, time.UTC)
	assert.ErrorContains(t, err, "parse rule")

	_, err = NewFromRule("2025-07-25", "FREQ=WEEKLY;BYDAY=FR;COUNT=2", 3, time.UTC)
	assert.ErrorContains(t, err, "yields 2 of 3 days")
}

func TestSpan_CrossesMidnight(t *testing.T) {
	c := Default(time.UTC)
	p := model.Performance{Day: model.Friday, Start: model.MustTimeCode("23:00"), End: model.MustTimeCode("01:00")}
	start, end, err := c.Span(p)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, end.Sub(start))
	assert.Equal(t, 26, end.Day())
}

func TestDayOf(t *testing.T) {
	c := Default(time.UTC)
	d, ok := c.DayOf(time.Date(2025, 7, 27, 15, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, model.Sunday, d)
	_, ok = c.DayOf(time.Date(2025, 7, 28, 15, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestResolveLocation(t *testing.T) {
	assert.Equal(t, time.Local, ResolveLocation(""))
	assert.Equal(t, time.Local, ResolveLocation("Not/AZone"))
	assert.Equal(t, "UTC", ResolveLocation("UTC").String())
}
