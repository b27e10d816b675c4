package transfer

import "github.com/okian/fplhelper/internal/domain/model"

// validate checks every record up front so that a malformed player aborts
// the call before any work is done. cost and team are only required when
// a constraint set is supplied.
func validate(squad, pool []model.Player, c *model.Constraints) error {
	if c != nil && c.MaxPerTeam < 0 {
		return &InvalidInputError{Field: "max_per_team must be >= 1"}
	}
	if err := validateSide(SideSquad, squad, c != nil); err != nil {
		return err
	}
	return validateSide(SideCandidate, pool, c != nil)
}

func validateSide(side Side, players []model.Player, constrained bool) error {
	for i, p := range players {
		field := ""
		switch {
		case p.ID == 0:
			field = "id"
		case p.Position == "":
			field = "position"
		case p.PredictedPoints == nil:
			field = "predicted_points"
		case constrained && !p.Cost.Valid:
			field = "cost"
		case constrained && p.Team == 0:
			field = "team"
		}
		if field != "" {
			return &InvalidInputError{Side: side, Index: i, PlayerID: p.ID, Field: field}
		}
	}
	return nil
}
