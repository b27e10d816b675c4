package transfer

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the sentinel behind every InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

// Side names which input collection a malformed record came from.
type Side string

// Input sides.
const (
	SideSquad     Side = "squad"
	SideCandidate Side = "candidate"
)

// InvalidInputError reports a player record missing a required field.
// The evaluation is aborted as a whole; no record is skipped.
type InvalidInputError struct {
	Side     Side
	Index    int
	PlayerID int
	Field    string
}

func (e *InvalidInputError) Error() string {
	if e.Side == "" {
		return fmt.Sprintf("invalid input: %s", e.Field)
	}
	return fmt.Sprintf("invalid input: %s[%d] (id %d): missing %s", e.Side, e.Index, e.PlayerID, e.Field)
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidInput).
func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }
