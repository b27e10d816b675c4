// Package suggestcli implements a command-line client for the suggestion API.
package suggestcli

import (
	"errors"
	"fmt"
	"time"
)

// Output formats.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

// Sentinel errors.
var (
	ErrInvalidConfig = errors.New("invalid cli config")
	ErrSquadFile     = errors.New("squad file")
	ErrAPI           = errors.New("api error")
)

// Config holds the options of one CLI run.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Format  string

	// Exactly one squad source is used: EntryID, SquadFile or SquadIDs.
	EntryID   int
	Gameweek  int
	SquadFile string
	SquadIDs  []int

	// TopN is sent only when > 0.
	TopN int
	// MaxSquadValue is sent only when > 0.
	MaxSquadValue float64
	// MaxPerTeam is sent only when > 0.
	MaxPerTeam    int
	Unconstrained bool
	ShowExcluded  bool
}

// Validate checks that exactly one squad source is set and the format is known.
func (c *Config) Validate() error {
	sources := 0
	if c.EntryID > 0 {
		sources++
	}
	if c.SquadFile != "" {
		sources++
	}
	if len(c.SquadIDs) > 0 {
		sources++
	}
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: url must not be empty", ErrInvalidConfig)
	case sources == 0:
		return fmt.Errorf("%w: one of --entry, --squad-file or --squad is required", ErrInvalidConfig)
	case sources > 1:
		return fmt.Errorf("%w: --entry, --squad-file and --squad are mutually exclusive", ErrInvalidConfig)
	case c.EntryID > 0 && c.Unconstrained:
		return fmt.Errorf("%w: --unconstrained applies to posted squads only", ErrInvalidConfig)
	}
	switch c.Format {
	case FormatTable, FormatCSV, FormatJSON:
		return nil
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
}
