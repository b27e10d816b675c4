package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/fplhelper/internal/domain/model"
	"github.com/okian/fplhelper/pkg/metrics"
)

// MemStore is a map-backed Store. Readers get copies, never references into
// the map.
//
// Ordering for List: predicted points DESC, then id ASC (deterministic).
// The ordered view is cached in an atomic pointer and rebuilt on the first
// read after a write.
type MemStore struct {
	mu           sync.RWMutex
	byID         map[int]model.CatalogPlayer
	teams        []model.Team
	currentEvent int
	refreshedAt  time.Time
	loaded       bool
	now          func() time.Time

	ranked atomic.Pointer[[]model.CatalogPlayer]
}

// NewMemStore constructs an empty catalog with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		byID: make(map[int]model.CatalogPlayer),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Replace implements Store.Replace.
func (s *MemStore) Replace(_ context.Context, snap Snapshot) error {
	byID := make(map[int]model.CatalogPlayer, len(snap.Players))
	for _, p := range snap.Players {
		byID[p.ID] = clonePlayer(p)
	}
	teams := slices.Clone(snap.Teams)
	slices.SortFunc(teams, func(a, b model.Team) int { return cmp.Compare(a.ID, b.ID) })

	s.mu.Lock()
	s.byID = byID
	s.teams = teams
	s.currentEvent = snap.CurrentEvent
	s.refreshedAt = s.now()
	s.loaded = true
	s.ranked.Store(nil)
	s.mu.Unlock()

	metrics.UpdateCatalogPlayers(len(byID))
	return nil
}

// UpdatePredicted implements Store.UpdatePredicted.
func (s *MemStore) UpdatePredicted(_ context.Context, id int, pts float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	p.Player = p.WithPredicted(pts)
	s.byID[id] = p
	s.ranked.Store(nil)
	return nil
}

// Get implements Store.Get.
func (s *MemStore) Get(_ context.Context, id int) (model.CatalogPlayer, error) {
	defer observe(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return model.CatalogPlayer{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return clonePlayer(p), nil
}

// GetMany implements Store.GetMany.
func (s *MemStore) GetMany(_ context.Context, ids []int) ([]model.CatalogPlayer, error) {
	defer observe(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.CatalogPlayer, 0, len(ids))
	var missing []int
	for _, id := range ids {
		p, ok := s.byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, clonePlayer(p))
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, missing)
	}
	return out, nil
}

// List implements Store.List.
func (s *MemStore) List(_ context.Context, f Filter) ([]model.CatalogPlayer, error) {
	defer observe(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrEmptyCatalog
	}

	ranked := s.rankedLocked()
	out := make([]model.CatalogPlayer, 0, min(len(ranked), max(f.Limit, 0)))
	for _, p := range ranked {
		if f.Position != "" && p.Position != f.Position {
			continue
		}
		if f.Team != 0 && p.Team != f.Team {
			continue
		}
		out = append(out, clonePlayer(p))
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

// rankedLocked returns the cached ordered view, rebuilding it if a write
// invalidated it. Must be called with s.mu held for reading.
func (s *MemStore) rankedLocked() []model.CatalogPlayer {
	if cached := s.ranked.Load(); cached != nil {
		return *cached
	}

	all := make([]model.CatalogPlayer, 0, len(s.byID))
	for _, p := range s.byID {
		all = append(all, p)
	}
	slices.SortFunc(all, func(a, b model.CatalogPlayer) int {
		if c := cmp.Compare(b.Predicted(), a.Predicted()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	s.ranked.Store(&all)
	return all
}

// Count implements Store.Count.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Teams implements Store.Teams.
func (s *MemStore) Teams(_ context.Context) []model.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.teams)
}

// CurrentEvent implements Store.CurrentEvent.
func (s *MemStore) CurrentEvent(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentEvent
}

// RefreshedAt implements Store.RefreshedAt.
func (s *MemStore) RefreshedAt(_ context.Context) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

// clonePlayer detaches the predicted points pointer so callers cannot write
// through it.
func clonePlayer(p model.CatalogPlayer) model.CatalogPlayer {
	if p.PredictedPoints != nil {
		p.Player = p.WithPredicted(*p.PredictedPoints)
	}
	return p
}

func observe(start time.Time) {
	metrics.RecordCatalogQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
}
