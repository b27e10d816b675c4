// Package model contains domain models passed between layers.
package model

import "github.com/shopspring/decimal"

// Position is a squad slot such as GK or MID. Values outside the four
// standard positions are kept verbatim.
type Position string

// Standard FPL positions.
const (
	GK  Position = "GK"
	DEF Position = "DEF"
	MID Position = "MID"
	FWD Position = "FWD"
)

// Positions lists the standard positions in squad order.
var Positions = []Position{GK, DEF, MID, FWD}

// PositionFromElementType maps an FPL element_type to a Position.
// Unknown types map to "".
func PositionFromElementType(et int) Position {
	switch et {
	case 1:
		return GK
	case 2:
		return DEF
	case 3:
		return MID
	case 4:
		return FWD
	default:
		return ""
	}
}

// Player is a snapshot of one player for a single evaluation cycle.
//
// Optional fields are pointers or nullable so that a record with a field
// missing can be told apart from a zero value.
type Player struct {
	ID              int                 `json:"id"`
	Name            string              `json:"name"`
	Position        Position            `json:"position"`
	Team            int                 `json:"team,omitempty"`
	Cost            decimal.NullDecimal `json:"cost"`
	PredictedPoints *float64            `json:"predicted_points"`
}

// Predicted returns the predicted points, or 0 when unset.
func (p Player) Predicted() float64 {
	if p.PredictedPoints == nil {
		return 0
	}
	return *p.PredictedPoints
}

// WithPredicted returns a copy of p carrying pts.
func (p Player) WithPredicted(pts float64) Player {
	p.PredictedPoints = &pts
	return p
}

// Points is a convenience for building a PredictedPoints value.
func Points(v float64) *float64 { return &v }

// Cost is a convenience for building a Cost value from millions.
func Cost(v float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(v))
}

// Features carries the raw statistics the scorer consumes.
type Features struct {
	Form        float64 `json:"form"`
	ValueForm   float64 `json:"value_form"`
	TotalPoints int     `json:"total_points"`
}

// CatalogPlayer is a player as held in the catalog, with scoring features.
type CatalogPlayer struct {
	Player
	TeamName string   `json:"team_name,omitempty"`
	Features Features `json:"features"`
}

// Team is a Premier League club.
type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}
