// Package repository holds the in-memory player catalog.
package repository

import (
	"context"
	"time"

	"github.com/okian/fplhelper/internal/domain/model"
)

// Snapshot is one complete load of upstream data.
type Snapshot struct {
	Players []model.CatalogPlayer
	Teams   []model.Team
	// CurrentEvent is the current gameweek, 0 before the season starts.
	CurrentEvent int
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Position model.Position
	Team     int
	Limit    int
}

// Store provides read/write access to the catalog.
type Store interface {
	// Replace swaps the whole catalog for snap.
	Replace(ctx context.Context, snap Snapshot) error
	// UpdatePredicted sets the predicted points of one player.
	// Returns ErrNotFound if the player is unknown.
	UpdatePredicted(ctx context.Context, id int, pts float64) error

	// Get returns one player. Returns ErrNotFound if the player is unknown.
	Get(ctx context.Context, id int) (model.CatalogPlayer, error)
	// GetMany returns players in the order of ids. Any unknown id fails the
	// whole call with ErrNotFound.
	GetMany(ctx context.Context, ids []int) ([]model.CatalogPlayer, error)
	// List returns players ordered by predicted points desc, then id asc.
	// Returns ErrEmptyCatalog before the first Replace.
	List(ctx context.Context, f Filter) ([]model.CatalogPlayer, error)

	// Count returns the number of players held.
	Count(ctx context.Context) int
	// Teams returns all clubs ordered by id.
	Teams(ctx context.Context) []model.Team
	// CurrentEvent returns the gameweek of the last snapshot.
	CurrentEvent(ctx context.Context) int
	// RefreshedAt returns when the last snapshot was loaded.
	RefreshedAt(ctx context.Context) time.Time
}
