package lineup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forestfest/internal/model"
)

func TestSchedule(t *testing.T) {
	c := Default()
	s := c.Schedule([]string{
		"thumper-forest-stage",
		"franz-ferdinand-forest-stage",
		"laura-jo-forest-fleadh-stage",
		"cua-forest-fleadh-stage",
	})

	require.Len(t, s.Days, 2)
	assert.Equal(t, model.Friday, s.Days[0].Day)
	assert.Equal(t, "Friday, July 25", s.Days[0].Label)

	clash := map[string]bool{}
	var order []string
	for _, e := range s.Days[0].Entries {
		clash[e.Performance.Name] = e.Clashing
		order = append(order, e.Performance.Name)
	}
	assert.Equal(t, []string{"Cua", "Franz Ferdinand", "Laura Jo"}, order)
	assert.False(t, clash["Cua"], "Cua ends as Franz Ferdinand starts")
	assert.True(t, clash["Franz Ferdinand"])
	assert.True(t, clash["Laura Jo"])

	require.Len(t, s.Days[1].Entries, 1)
	assert.Equal(t, "thumper-forest-stage", s.Days[1].Entries[0].ID)
	assert.False(t, s.Days[1].Entries[0].Clashing)

	assert.Equal(t, 2, s.ClashCount)
	require.Len(t, s.Conflicts, 1)
	assert.Equal(t, "Franz Ferdinand", s.Conflicts[0].A.Name)
	assert.Equal(t, "Laura Jo", s.Conflicts[0].B.Name)
}

func TestSchedule_Empty(t *testing.T) {
	s := Default().Schedule(nil)
	assert.Empty(t, s.Days)
	assert.Zero(t, s.ClashCount)
	assert.Empty(t, s.Conflicts)
}
