package lineup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forestfest/internal/model"
)

func findBlock(t *testing.T, tt Timetable, name string) Block {
	t.Helper()
	for _, row := range tt.Rows {
		for _, b := range row.Blocks {
			if b.Name == name {
				return b
			}
		}
	}
	t.Fatalf("block %q not found", name)
	return Block{}
}

func TestWindow(t *testing.T) {
	start, end := Window(model.Friday)
	assert.Equal(t, "16:00", start.String())
	assert.Equal(t, "02:00", end.String())
	start, _ = Window(model.Sunday)
	assert.Equal(t, "12:00", start.String())
}

func TestTimetable_FridayLayout(t *testing.T) {
	c := Default()
	tt, err := c.Timetable(model.Friday, []string{"franz-ferdinand-forest-stage", "laura-jo-forest-fleadh-stage", "cua-forest-fleadh-stage"})
	require.NoError(t, err)

	assert.Equal(t, 120, tt.Slots)
	require.Len(t, tt.Markers, 21)
	assert.Equal(t, Marker{Time: "16:00", Slot: 0}, tt.Markers[0])
	assert.Equal(t, Marker{Time: "00:00", Slot: 96}, tt.Markers[16])
	assert.Equal(t, Marker{Time: "02:00", Slot: 120}, tt.Markers[20])

	require.NotEmpty(t, tt.Rows)
	assert.Equal(t, model.StageForest, tt.Rows[0].Stage)

	franz := findBlock(t, tt, "Franz Ferdinand")
	assert.Equal(t, 52, franz.Offset)
	assert.Equal(t, 18, franz.Span)
	assert.Equal(t, "1h 30m", franz.Duration)
	assert.True(t, franz.Favorite)
	assert.True(t, franz.Conflict)

	laura := findBlock(t, tt, "Laura Jo")
	assert.True(t, laura.Conflict)

	// Cua ends at 20:20 exactly when Franz Ferdinand starts.
	cua := findBlock(t, tt, "Cua")
	assert.True(t, cua.Favorite)
	assert.False(t, cua.Conflict)

	dandy := findBlock(t, tt, "The Dandy Warhols")
	assert.False(t, dandy.Favorite)
	assert.False(t, dandy.Conflict)

	oasis := findBlock(t, tt, "Live Forever Oasis")
	assert.Equal(t, 96, oasis.Offset)

	assert.Equal(t, 2, tt.Clashing)
}

func TestTimetable_SaturdayWindow(t *testing.T) {
	tt, err := Default().Timetable(model.Saturday, nil)
	require.NoError(t, err)
	assert.Equal(t, 168, tt.Slots)
	assert.Len(t, tt.Markers, 29)
	thumper := findBlock(t, tt, "Thumper")
	assert.Equal(t, 7, thumper.Offset)
	assert.Zero(t, tt.Clashing)
}

func TestTimetable_UnknownDay(t *testing.T) {
	_, err := Default().Timetable(model.Day(9), nil)
	assert.Error(t, err)
}

func TestNearestSlot(t *testing.T) {
	assert.Equal(t, 0, nearestSlot(900, 960, 120))
	assert.Equal(t, 1, nearestSlot(963, 960, 120))
	assert.Equal(t, 0, nearestSlot(962, 960, 120))
	assert.Equal(t, 120, nearestSlot(2000, 960, 120))
}
