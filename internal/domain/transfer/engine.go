// Package transfer implements the transfer recommendation engine.
//
// Given the current squad, a pool of candidates carrying predicted points
// and optional roster constraints, the engine proposes one swap per
// pairable slot in each position and ranks the swaps by predicted gain.
// Pairing is greedy and position-local; it is not a global optimisation.
//
// Every function here is pure: inputs are never mutated, there is no I/O
// and no shared state, so calls may run in parallel freely.
package transfer

import "github.com/okian/fplhelper/internal/domain/model"

// DefaultTopN is the number of suggestions returned when the caller has no
// preference.
const DefaultTopN = 5

// Result is a full evaluation before truncation.
type Result struct {
	// Ranked holds every suggestion, best first.
	Ranked []model.Suggestion
	// Excluded lists candidates removed by the eligibility filter.
	Excluded []Exclusion
}

// Top returns the first n ranked suggestions, or all of them when n is
// larger than the list. n <= 0 returns an empty slice.
func (r *Result) Top(n int) []model.Suggestion {
	return truncate(r.Ranked, n)
}

// Empty reports whether no position produced a swap.
func (r *Result) Empty() bool {
	return len(r.Ranked) == 0
}

// Evaluate computes the full ranked suggestion list.
//
// The pool is expected to be disjoint from the squad; overlapping ids are
// not detected here. A nil c disables the eligibility filter.
func Evaluate(squad, pool []model.Player, c *model.Constraints) (*Result, error) {
	if err := validate(squad, pool, c); err != nil {
		return nil, err
	}

	eligible, excluded := filterEligible(squad, pool, c)

	outs := bucketByPosition(squad)
	ins := bucketByPosition(eligible)

	ranked := make([]model.Suggestion, 0, min(len(squad), len(eligible)))
	for _, pos := range outs.keys {
		ranked = append(ranked, pairPosition(pos, outs.get(pos), ins.get(pos))...)
	}
	rankSuggestions(ranked)

	return &Result{Ranked: ranked, Excluded: excluded}, nil
}

// Suggest returns the topN best swaps for squad drawn from pool.
func Suggest(squad, pool []model.Player, c *model.Constraints, topN int) ([]model.Suggestion, error) {
	res, err := Evaluate(squad, pool, c)
	if err != nil {
		return nil, err
	}
	return res.Top(topN), nil
}
