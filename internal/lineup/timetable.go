package lineup

import (
	"fmt"

	"forestfest/internal/conflict"
	"forestfest/internal/model"
)

// SlotMinutes is the grid resolution of the timetable.
const SlotMinutes = 5

// Timetable is the grid layout of one day: one row per stage, blocks placed
// on a 5-minute slot axis.
type Timetable struct {
	Day      model.Day      `json:"day"`
	Label    string         `json:"label"`
	Start    model.TimeCode `json:"start"`
	End      model.TimeCode `json:"end"`
	Slots    int            `json:"slots"`
	Markers  []Marker       `json:"markers"`
	Rows     []StageRow     `json:"rows"`
	Clashing int            `json:"clashing"`
}

// Marker is a half-hour axis label.
type Marker struct {
	Time string `json:"time"`
	Slot int    `json:"slot"`
}

type StageRow struct {
	Stage  model.Stage `json:"stage"`
	Label  string      `json:"label"`
	Blocks []Block     `json:"blocks"`
}

// Block is one performance on the grid. Offset and Span are in slots from
// the window start.
type Block struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Duration string `json:"duration"`
	Offset   int    `json:"offset"`
	Span     int    `json:"span"`
	Favorite bool   `json:"favorite"`
	Conflict bool   `json:"conflict"`
}

// Window returns the displayed time range of a day. Friday opens at 16:00,
// the weekend at 12:00; every day closes at 02:00.
func Window(d model.Day) (model.TimeCode, model.TimeCode) {
	if d == model.Friday {
		return model.MustTimeCode("16:00"), model.MustTimeCode("02:00")
	}
	return model.MustTimeCode("12:00"), model.MustTimeCode("02:00")
}

// Timetable lays out day. Favorite blocks that clash with another favorite
// on the same day are flagged.
func (c *Catalog) Timetable(day model.Day, favoriteIDs []string) (Timetable, error) {
	if day.Label() == "" {
		return Timetable{}, fmt.Errorf("lineup: unknown day %d", day)
	}
	start, end := Window(day)
	first, last := start.RemappedMinutes(), end.RemappedMinutes()
	slots := (last - first) / SlotMinutes

	tt := Timetable{Day: day, Label: day.Label(), Start: start, End: end, Slots: slots}
	for m := first; m <= last; m += 30 {
		h := (m / 60) % 24
		tt.Markers = append(tt.Markers, Marker{
			Time: fmt.Sprintf("%02d:%02d", h, m%60),
			Slot: (m - first) / SlotMinutes,
		})
	}

	fav := toSet(favoriteIDs)
	favs := c.Filter(Query{Day: day, FavoritesOnly: true, FavoriteIDs: favoriteIDs})
	dayPerfs := c.Filter(Query{Day: day})

	for _, s := range model.Stages() {
		row := StageRow{Stage: s, Label: s.Label()}
		for _, p := range dayPerfs {
			if p.Stage != s {
				continue
			}
			id := c.ids.ID(p)
			_, isFav := fav[id]
			b := Block{
				ID:       id,
				Name:     p.Name,
				Start:    p.Start.String(),
				End:      p.End.String(),
				Duration: p.Duration(),
				Offset:   nearestSlot(p.Start.RemappedMinutes(), first, slots),
				Favorite: isFav,
			}
			if length, ok := p.Length(); ok {
				b.Span = int(length.Minutes()) / SlotMinutes
			}
			if isFav && conflict.HasAnyConflict(p, favs) {
				b.Conflict = true
				tt.Clashing++
			}
			row.Blocks = append(row.Blocks, b)
		}
		if len(row.Blocks) > 0 {
			tt.Rows = append(tt.Rows, row)
		}
	}
	return tt, nil
}

// nearestSlot clamps minutes onto the grid, rounding to the closest slot.
func nearestSlot(minutes, first, slots int) int {
	idx := (minutes - first + SlotMinutes/2) / SlotMinutes
	if minutes < first {
		return 0
	}
	return min(idx, slots)
}
