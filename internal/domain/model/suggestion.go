package model

import "github.com/shopspring/decimal"

// Constraints bounds which candidates may be proposed. A nil *Constraints
// means unconstrained; each field may also be left unset on its own.
type Constraints struct {
	// MaxSquadValue caps squad cost after adding the candidate.
	MaxSquadValue decimal.NullDecimal `json:"max_squad_value"`
	// MaxPerTeam caps players from one club. 0 means unset.
	MaxPerTeam int `json:"max_per_team,omitempty"`
}

// Suggestion proposes replacing one squad player with a candidate.
type Suggestion struct {
	OutPlayerID  int      `json:"out_player_id"`
	OutName      string   `json:"out_name"`
	InPlayerID   int      `json:"in_player_id"`
	InName       string   `json:"in_name"`
	Position     Position `json:"position"`
	PredictedOut float64  `json:"predicted_out"`
	PredictedIn  float64  `json:"predicted_in"`
	DeltaPts     float64  `json:"delta_pts"`
}
