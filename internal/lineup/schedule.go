package lineup

import (
	"forestfest/internal/conflict"
	"forestfest/internal/model"
)

// ScheduleEntry is a favorited performance with its clash flag.
type ScheduleEntry struct {
	ID          string            `json:"id"`
	Performance model.Performance `json:"performance"`
	Clashing    bool              `json:"clashing"`
}

type ScheduleDay struct {
	Day     model.Day       `json:"day"`
	Label   string          `json:"label"`
	Entries []ScheduleEntry `json:"entries"`
}

// Schedule is the personal schedule: favorites by day plus every clash.
type Schedule struct {
	Days       []ScheduleDay   `json:"days"`
	ClashCount int             `json:"clashCount"`
	Conflicts  []conflict.Pair `json:"conflicts"`
}

// Schedule builds the personal schedule for favoriteIDs.
func (c *Catalog) Schedule(favoriteIDs []string) Schedule {
	perfs := c.Resolve(favoriteIDs)
	out := Schedule{
		ClashCount: conflict.ClashCount(perfs),
		Conflicts:  conflict.FindAllOverlaps(perfs),
	}
	for _, g := range GroupByDay(perfs) {
		day := ScheduleDay{Day: g.Day, Label: g.Label}
		for _, p := range g.Performances {
			day.Entries = append(day.Entries, ScheduleEntry{
				ID:          c.ID(p),
				Performance: p,
				Clashing:    conflict.HasAnyConflict(p, perfs),
			})
		}
		out.Days = append(out.Days, day)
	}
	return out
}
