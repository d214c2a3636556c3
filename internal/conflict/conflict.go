package conflict

import (
	"slices"

	"forestfest/internal/model"
)

// Pair is two overlapping performances; A sorts before (or with) B.
type Pair struct {
	A model.Performance `json:"a"`
	B model.Performance `json:"b"`
}

// FindAllOverlaps groups perfs by day, sorts each group and tests every pair.
// Days are visited in ascending order. The scan never breaks early: with
// unknown end times a later start can still overlap.
func FindAllOverlaps(perfs []model.Performance) []Pair {
	var out []Pair
	for _, group := range byDay(perfs) {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if group[i].Overlaps(group[j]) {
					out = append(out, Pair{A: group[i], B: group[j]})
				}
			}
		}
	}
	return out
}

// HasAnyConflict reports whether any other performance in perfs overlaps p.
// Only an identical value counts as p itself.
func HasAnyConflict(p model.Performance, perfs []model.Performance) bool {
	for _, other := range perfs {
		if other == p || other.Day != p.Day {
			continue
		}
		if p.Overlaps(other) {
			return true
		}
	}
	return false
}

// FirstConflictingPair returns the first pair FindAllOverlaps would report.
func FirstConflictingPair(perfs []model.Performance) (Pair, bool) {
	for _, group := range byDay(perfs) {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if group[i].Overlaps(group[j]) {
					return Pair{A: group[i], B: group[j]}, true
				}
			}
		}
	}
	return Pair{}, false
}

// ClashCount is the number of performances in perfs with at least one clash.
func ClashCount(perfs []model.Performance) int {
	n := 0
	for _, p := range perfs {
		if HasAnyConflict(p, perfs) {
			n++
		}
	}
	return n
}

func byDay(perfs []model.Performance) [][]model.Performance {
	groups := make(map[model.Day][]model.Performance)
	for _, p := range perfs {
		groups[p.Day] = append(groups[p.Day], p)
	}
	days := make([]model.Day, 0, len(groups))
	for d := range groups {
		days = append(days, d)
	}
	slices.Sort(days)

	out := make([][]model.Performance, 0, len(days))
	for _, d := range days {
		g := groups[d]
		slices.SortStableFunc(g, model.Performance.Compare)
		out = append(out, g)
	}
	return out
}
