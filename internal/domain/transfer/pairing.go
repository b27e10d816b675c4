package transfer

import (
	"cmp"
	"math"
	"slices"

	"github.com/okian/fplhelper/internal/domain/model"
)

// pairPosition zips the weakest outgoing players with the strongest incoming
// ones, rank against rank, until either side runs out.
func pairPosition(pos model.Position, outs, ins []model.Player) []model.Suggestion {
	if len(outs) == 0 || len(ins) == 0 {
		return nil
	}

	outSorted := slices.Clone(outs)
	slices.SortStableFunc(outSorted, func(a, b model.Player) int {
		return cmp.Compare(a.Predicted(), b.Predicted())
	})
	inSorted := slices.Clone(ins)
	slices.SortStableFunc(inSorted, func(a, b model.Player) int {
		return cmp.Compare(b.Predicted(), a.Predicted())
	})

	n := min(len(outSorted), len(inSorted))
	out := make([]model.Suggestion, 0, n)
	for i := 0; i < n; i++ {
		o, in := outSorted[i], inSorted[i]
		out = append(out, model.Suggestion{
			OutPlayerID:  o.ID,
			OutName:      o.Name,
			InPlayerID:   in.ID,
			InName:       in.Name,
			Position:     pos,
			PredictedOut: o.Predicted(),
			PredictedIn:  in.Predicted(),
			DeltaPts:     round2(in.Predicted() - o.Predicted()),
		})
	}
	return out
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
