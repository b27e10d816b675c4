package transfer

import (
	"cmp"
	"slices"

	"github.com/okian/fplhelper/internal/domain/model"
)

// rankSuggestions orders suggestions by rounded delta, best first. The sort
// is stable so ties keep pairing order.
func rankSuggestions(s []model.Suggestion) {
	slices.SortStableFunc(s, func(a, b model.Suggestion) int {
		return cmp.Compare(b.DeltaPts, a.DeltaPts)
	})
}

// truncate returns at most n suggestions. n <= 0 yields an empty slice.
func truncate(s []model.Suggestion, n int) []model.Suggestion {
	if n <= 0 {
		return []model.Suggestion{}
	}
	if n > len(s) {
		n = len(s)
	}
	return slices.Clone(s[:n])
}
