package favorites

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"forestfest/internal/kv"
	"forestfest/internal/lineup"
	appLog "forestfest/internal/log"
	"forestfest/internal/metrics"
	"forestfest/internal/model"
)

// Key is the storage key holding the ordered favorite ID list.
const Key = "favoritedArtists"

// Listener is told about every committed change with the new ID set.
// Listeners run synchronously under the store's lock and must not call
// back into the Store.
type Listener interface {
	FavoritesChanged(ctx context.Context, ids []string)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ctx context.Context, ids []string)

func (f ListenerFunc) FavoritesChanged(ctx context.Context, ids []string) { f(ctx, ids) }

// ExportRecord is one entry of the favorites export document.
type ExportRecord struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Stage              string `json:"stage"`
	PerformanceDay     string `json:"performanceDay"`
	PerformanceTime    string `json:"performanceTime"`
	PerformanceEndTime string `json:"performanceEndTime"`
}

// Store is the persisted, ordered set of favorited performance IDs.
// Every mutation rewrites the whole list before listeners are notified.
type Store struct {
	kv      kv.Store
	catalog *lineup.Catalog

	mu        sync.Mutex
	ids       []string
	listeners []Listener
}

func New(store kv.Store, catalog *lineup.Catalog) *Store {
	return &Store{kv: store, catalog: catalog}
}

// Load reads the saved list. A missing key is an empty list. Duplicates in
// stored data are collapsed, keeping the first occurrence.
func (s *Store) Load(ctx context.Context) error {
	ids, err := kv.GetStrings(ctx, s.kv, Key)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("favorites: load: %w", err)
	}
	s.mu.Lock()
	s.ids = dedupe(ids)
	n := len(s.ids)
	s.mu.Unlock()

	appLog.Info("favorites loaded", "count", n)
	return nil
}

// Subscribe registers l for change events, in registration order.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Store) IsFavorited(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.ids, id)
}

// Toggle flips membership of id and reports the new state. On a storage
// failure the previous set is kept and no event is emitted.
func (s *Store) Toggle(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.Clone(s.ids)
	favorited := false
	if i := slices.Index(next, id); i >= 0 {
		next = slices.Delete(next, i, i+1)
	} else {
		next = append(next, id)
		favorited = true
	}
	if err := s.commit(ctx, next); err != nil {
		return !favorited, err
	}
	metrics.RecordToggle(favorited)
	appLog.Debug("favorite toggled", "id", id, "favorited", favorited)
	return favorited, nil
}

// Clear removes every favorite.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, []string{})
}

// Import replaces the set with ids. Unknown IDs are dropped and duplicates
// collapsed; the number of accepted IDs is returned.
func (s *Store) Import(ctx context.Context, ids []string) (int, error) {
	next := make([]string, 0, len(ids))
	for _, id := range dedupe(ids) {
		if s.catalog.Known(id) {
			next = append(next, id)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.commit(ctx, next); err != nil {
		return 0, err
	}
	return len(next), nil
}

// IDs returns the favorite IDs in the order they were added.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.ids)
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Favorited resolves the IDs against the catalog, in catalog order.
func (s *Store) Favorited() []model.Performance {
	return s.catalog.Resolve(s.IDs())
}

// Export lists the favorited performances in the export document shape.
func (s *Store) Export() []ExportRecord {
	perfs := s.Favorited()
	out := make([]ExportRecord, 0, len(perfs))
	for _, p := range perfs {
		out = append(out, ExportRecord{
			ID:                 s.catalog.ID(p),
			Name:               p.Name,
			Stage:              p.Stage.Label(),
			PerformanceDay:     p.Day.Label(),
			PerformanceTime:    p.Start.String(),
			PerformanceEndTime: p.End.String(),
		})
	}
	return out
}

// commit persists next, swaps it in and notifies listeners. Callers hold mu.
func (s *Store) commit(ctx context.Context, next []string) error {
	if err := kv.SetStrings(ctx, s.kv, Key, next); err != nil {
		appLog.Error("favorites: persist failed", err, "count", len(next))
		return fmt.Errorf("favorites: persist: %w", err)
	}
	s.ids = next
	for _, l := range s.listeners {
		l.FavoritesChanged(ctx, slices.Clone(next))
	}
	return nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
