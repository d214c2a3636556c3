package lineup

import (
	"slices"
	"sync"

	"forestfest/internal/model"
)

// Catalog is the read-only, sorted set of all performances.
type Catalog struct {
	perfs []model.Performance
	ids   model.IDStrategy
	index map[string][]int
}

// Query narrows All(). Zero fields match everything.
type Query struct {
	Stage         model.Stage
	Day           model.Day
	FavoritesOnly bool
	FavoriteIDs   []string
}

// DayGroup is a day's performances in catalog order.
type DayGroup struct {
	Day          model.Day           `json:"day"`
	Label        string              `json:"label"`
	Performances []model.Performance `json:"performances"`
}

// Default returns the process-wide catalog of the built-in lineup using
// name+stage identifiers. It is built on first use.
var Default = sync.OnceValue(func() *Catalog {
	return New(Dataset(), model.NameStageIDs)
})

// Dataset returns a fresh copy of the built-in lineup in stage order.
func Dataset() []model.Performance {
	stages := [][]model.Performance{forestStage, perfectDayStage, villageStage, forestFleadhStage, ibizaRewindStage, vipStage}
	var out []model.Performance
	for _, s := range stages {
		out = append(out, s...)
	}
	return out
}

// New sorts perfs by (day, start) once and indexes them by identifier. A nil
// strategy falls back to name+stage.
func New(perfs []model.Performance, ids model.IDStrategy) *Catalog {
	if ids == nil {
		ids = model.NameStageIDs
	}
	sorted := slices.Clone(perfs)
	slices.SortStableFunc(sorted, model.Performance.Compare)

	c := &Catalog{perfs: sorted, ids: ids, index: make(map[string][]int, len(sorted))}
	for i, p := range sorted {
		id := ids.ID(p)
		c.index[id] = append(c.index[id], i)
	}
	return c
}

// All returns every performance in order. The slice is a copy.
func (c *Catalog) All() []model.Performance {
	return slices.Clone(c.perfs)
}

// Len is the number of performances.
func (c *Catalog) Len() int { return len(c.perfs) }

// Strategy is the identifier strategy the catalog was built with.
func (c *Catalog) Strategy() model.IDStrategy { return c.ids }

// ID derives p's identifier with the catalog's strategy.
func (c *Catalog) ID(p model.Performance) string { return c.ids.ID(p) }

// Filter applies q in sequence, preserving catalog order.
func (c *Catalog) Filter(q Query) []model.Performance {
	var fav map[string]struct{}
	if q.FavoritesOnly {
		fav = toSet(q.FavoriteIDs)
	}
	out := make([]model.Performance, 0, len(c.perfs))
	for _, p := range c.perfs {
		if q.Stage != 0 && p.Stage != q.Stage {
			continue
		}
		if q.Day != 0 && p.Day != q.Day {
			continue
		}
		if q.FavoritesOnly {
			if _, ok := fav[c.ids.ID(p)]; !ok {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// ByID returns every performance sharing id, in catalog order. With the
// name+stage strategy a repeat act yields several entries.
func (c *Catalog) ByID(id string) []model.Performance {
	idx := c.index[id]
	if len(idx) == 0 {
		return nil
	}
	out := make([]model.Performance, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.perfs[i])
	}
	return out
}

// Known reports whether id names at least one performance.
func (c *Catalog) Known(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Resolve returns the performances whose identifier is in ids, in catalog order.
func (c *Catalog) Resolve(ids []string) []model.Performance {
	if len(ids) == 0 {
		return nil
	}
	return c.Filter(Query{FavoritesOnly: true, FavoriteIDs: ids})
}

// Days lists the days that have at least one performance.
func (c *Catalog) Days() []model.Day {
	var out []model.Day
	for _, p := range c.perfs {
		if !slices.Contains(out, p.Day) {
			out = append(out, p.Day)
		}
	}
	return out
}

// Stages lists stages with at least one performance, in display order.
func (c *Catalog) Stages() []model.Stage {
	var out []model.Stage
	for _, s := range model.Stages() {
		if slices.ContainsFunc(c.perfs, func(p model.Performance) bool { return p.Stage == s }) {
			out = append(out, s)
		}
	}
	return out
}

// GroupByDay splits perfs by day, days ascending, each group sorted.
func GroupByDay(perfs []model.Performance) []DayGroup {
	var out []DayGroup
	for _, d := range model.Days() {
		var group []model.Performance
		for _, p := range perfs {
			if p.Day == d {
				group = append(group, p)
			}
		}
		if len(group) == 0 {
			continue
		}
		slices.SortStableFunc(group, model.Performance.Compare)
		out = append(out, DayGroup{Day: d, Label: d.Label(), Performances: group})
	}
	return out
}

func toSet(ids []string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}
