// Package dedupe tracks player ids to keep rosters free of repeats.
package dedupe

import (
	"sync"

	"github.com/okian/fplhelper/internal/domain/model"
)

// Deduper records seen player ids.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(id int) bool

	// Contains reports whether id has been recorded.
	Contains(id int) bool

	// Unrecord removes an id from the set.
	Unrecord(id int)

	Size() int
}

// idSet implements Deduper using a map guarded by a mutex.
type idSet struct {
	mu   sync.RWMutex
	seen map[int]struct{}
}

// New creates an empty id set.
func New(opts ...Option) Deduper {
	o := options{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	return &idSet{seen: make(map[int]struct{}, o.capacity)}
}

// FromPlayers creates a set holding the ids of players.
func FromPlayers(players []model.Player) Deduper {
	d := New(WithCapacity(len(players)))
	for _, p := range players {
		d.SeenAndRecord(p.ID)
	}
	return d
}

func (d *idSet) SeenAndRecord(id int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = struct{}{}
	return false
}

func (d *idSet) Contains(id int) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.seen[id]
	return ok
}

func (d *idSet) Unrecord(id int) {
	d.mu.Lock()
	delete(d.seen, id)
	d.mu.Unlock()
}

func (d *idSet) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.seen)
}

// Duplicates returns the ids that occur more than once in players, in
// order of their second appearance.
func Duplicates(players []model.Player) []int {
	d := New(WithCapacity(len(players)))
	var dups []int
	for _, p := range players {
		if d.SeenAndRecord(p.ID) {
			dups = append(dups, p.ID)
		}
	}
	return dups
}

// Exclude returns the players whose id is not in skip, preserving order.
func Exclude(players []model.Player, skip Deduper) []model.Player {
	out := make([]model.Player, 0, len(players))
	for _, p := range players {
		if !skip.Contains(p.ID) {
			out = append(out, p)
		}
	}
	return out
}
