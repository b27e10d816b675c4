package transfer

import (
	"github.com/okian/fplhelper/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Reason explains why a candidate was filtered out.
type Reason string

// Exclusion reasons. A candidate breaching both limits is reported once
// under ReasonBudget.
const (
	ReasonBudget  Reason = "budget"
	ReasonTeamCap Reason = "team_cap"
)

// Exclusion records a candidate removed by the eligibility filter.
type Exclusion struct {
	PlayerID int    `json:"player_id"`
	Reason   Reason `json:"reason"`
}

// squadState holds the pre-swap aggregates of the current squad.
type squadState struct {
	totalCost  decimal.Decimal
	teamCounts map[int]int
}

func newSquadState(squad []model.Player) squadState {
	s := squadState{totalCost: decimal.Zero, teamCounts: make(map[int]int)}
	for _, p := range squad {
		if p.Cost.Valid {
			s.totalCost = s.totalCost.Add(p.Cost.Decimal)
		}
		s.teamCounts[p.Team]++
	}
	return s
}

// filterEligible returns the candidates that may legally be proposed.
//
// Both checks use the unmodified squad aggregates: the outgoing player's
// cost and club slot are not released first. This is over-conservative
// and kept that way on purpose.
func filterEligible(squad, pool []model.Player, c *model.Constraints) ([]model.Player, []Exclusion) {
	if c == nil {
		return pool, nil
	}

	state := newSquadState(squad)
	eligible := make([]model.Player, 0, len(pool))
	var excluded []Exclusion
	for _, cand := range pool {
		if reason, ok := checkEligible(state, cand, c); !ok {
			excluded = append(excluded, Exclusion{PlayerID: cand.ID, Reason: reason})
			continue
		}
		eligible = append(eligible, cand)
	}
	return eligible, excluded
}

func checkEligible(state squadState, cand model.Player, c *model.Constraints) (Reason, bool) {
	if c.MaxSquadValue.Valid && state.totalCost.Add(cand.Cost.Decimal).GreaterThan(c.MaxSquadValue.Decimal) {
		return ReasonBudget, false
	}
	if c.MaxPerTeam > 0 && state.teamCounts[cand.Team]+1 > c.MaxPerTeam {
		return ReasonTeamCap, false
	}
	return "", true
}
