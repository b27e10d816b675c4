package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/okian/fplhelper/internal/adapters/repository"
	"github.com/okian/fplhelper/internal/domain/dedupe"
	"github.com/okian/fplhelper/internal/domain/model"
	"github.com/okian/fplhelper/internal/domain/transfer"
	"github.com/okian/fplhelper/pkg/logger"
	"github.com/okian/fplhelper/pkg/metrics"
)

// EmptyMessage accompanies a response with no suggestions.
const EmptyMessage = "no valid suggestions under the current constraints"

// SuggestRequest describes one ranking call.
//
// The squad is given either as full records or as ids resolved against the
// catalog. Candidates default to the whole catalog minus the squad when the
// field is absent; an explicit empty list ranks against nothing. An explicit
// empty squad yields an empty result, an absent one is ErrEmptySquad.
type SuggestRequest struct {
	// Nil and empty differ for these three: nil marshals as null and means
	// absent.
	Squad      []model.Player `json:"squad"`
	SquadIDs   []int          `json:"squad_ids"`
	Candidates []model.Player `json:"candidates"`
	// Constraints replaces the configured defaults when set.
	Constraints *model.Constraints `json:"constraints,omitempty"`
	// Unconstrained disables the eligibility filter entirely.
	Unconstrained bool `json:"unconstrained,omitempty"`
	// TopN defaults to the configured value when nil and is capped at the
	// configured maximum.
	TopN *int `json:"top_n,omitempty"`
}

// SuggestResponse is the outcome of a ranking call.
type SuggestResponse struct {
	EvaluationID string               `json:"evaluation_id"`
	Suggestions  []model.Suggestion   `json:"suggestions"`
	TotalRanked  int                  `json:"total_ranked"`
	Excluded     []transfer.Exclusion `json:"excluded,omitempty"`
	Message      string               `json:"message,omitempty"`
}

// EntryParams tunes SuggestForEntry.
type EntryParams struct {
	TopN          *int
	MaxSquadValue decimal.NullDecimal
	MaxPerTeam    int
}

// Suggest ranks transfers for the squad in req.
func (s *Service) Suggest(ctx context.Context, req SuggestRequest) (*SuggestResponse, error) {
	squad, err := s.resolveSquad(ctx, req)
	if err != nil {
		metrics.RecordSuggestRequest("rejected")
		return nil, err
	}

	pool := req.Candidates
	if pool == nil {
		pool, err = s.catalogPool(ctx, squad)
		if err != nil {
			metrics.RecordSuggestRequest("error")
			return nil, err
		}
	}

	var c *model.Constraints
	switch {
	case req.Unconstrained:
	case req.Constraints != nil:
		c = req.Constraints
	case s.constraints.MaxSquadValue.Valid || s.constraints.MaxPerTeam > 0:
		def := s.constraints
		c = &def
	}

	return s.evaluate(ctx, squad, pool, c, s.topN(req.TopN))
}

// SuggestForEntry ranks transfers for a manager's public squad. gw 0 means
// the current gameweek. Without an explicit budget the entry's own squad
// value plus bank is used.
func (s *Service) SuggestForEntry(ctx context.Context, entryID, gw int, p EntryParams) (*SuggestResponse, error) {
	if gw <= 0 {
		gw = s.catalog.CurrentEvent(ctx)
		if gw <= 0 {
			return nil, ErrNoGameweek
		}
	}

	picks, err := s.fetcher.EntryPicks(ctx, entryID, gw)
	if err != nil {
		metrics.RecordSuggestRequest("error")
		return nil, fmt.Errorf("fetch picks for entry %d: %w", entryID, err)
	}

	c := s.constraints
	switch {
	case p.MaxSquadValue.Valid:
		c.MaxSquadValue = p.MaxSquadValue
	case picks.Budget().IsPositive():
		c.MaxSquadValue = decimal.NewNullDecimal(picks.Budget())
	}
	if p.MaxPerTeam > 0 {
		c.MaxPerTeam = p.MaxPerTeam
	}

	return s.Suggest(ctx, SuggestRequest{SquadIDs: picks.Elements, Constraints: &c, TopN: p.TopN})
}

func (s *Service) resolveSquad(ctx context.Context, req SuggestRequest) ([]model.Player, error) {
	squad := req.Squad
	if squad == nil {
		if req.SquadIDs == nil {
			return nil, ErrEmptySquad
		}
		found, err := s.catalog.GetMany(ctx, req.SquadIDs)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %w", ErrUnknownPlayer, err)
			}
			return nil, err
		}
		squad = make([]model.Player, len(found))
		for i, p := range found {
			squad[i] = p.Player
		}
	}

	if dups := dedupe.Duplicates(squad); len(dups) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrDuplicateSquadPlayer, dups)
	}
	return squad, nil
}

// catalogPool returns every scored catalog player not in squad.
func (s *Service) catalogPool(ctx context.Context, squad []model.Player) ([]model.Player, error) {
	all, err := s.catalog.List(ctx, repository.Filter{})
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	players := make([]model.Player, 0, len(all))
	for _, p := range all {
		if p.PredictedPoints != nil {
			players = append(players, p.Player)
		}
	}
	return dedupe.Exclude(players, dedupe.FromPlayers(squad)), nil
}

func (s *Service) topN(n *int) int {
	if n == nil {
		return s.defaultTopN
	}
	return min(*n, s.maxTopN)
}

func (s *Service) evaluate(ctx context.Context, squad, pool []model.Player, c *model.Constraints, topN int) (*SuggestResponse, error) {
	id := uuid.NewString()

	start := time.Now()
	res, err := transfer.Evaluate(squad, pool, c)
	metrics.RecordEngineLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		var inv *transfer.InvalidInputError
		if errors.As(err, &inv) {
			metrics.RecordInvalidInput()
			metrics.RecordSuggestRequest("invalid_input")
			s.logger.Warn(ctx, "rejected malformed player record",
				logger.String("evaluationID", id),
				logger.String("side", string(inv.Side)),
				logger.Int("index", inv.Index),
				logger.String("field", inv.Field),
			)
		} else {
			metrics.RecordSuggestRequest("error")
		}
		return nil, err
	}

	counts := map[transfer.Reason]int{}
	for _, ex := range res.Excluded {
		counts[ex.Reason]++
	}
	for reason, n := range counts {
		metrics.RecordCandidatesExcluded(string(reason), n)
	}

	out := &SuggestResponse{
		EvaluationID: id,
		Suggestions:  res.Top(topN),
		TotalRanked:  len(res.Ranked),
		Excluded:     res.Excluded,
	}
	if len(out.Suggestions) == 0 {
		out.Message = EmptyMessage
		metrics.RecordEmptyResult()
		metrics.RecordSuggestRequest("empty")
	} else {
		metrics.RecordSuggestRequest("ok")
	}
	metrics.RecordSuggestionsReturned(len(out.Suggestions))

	s.logger.Debug(ctx, "suggestions evaluated",
		logger.String("evaluationID", id),
		logger.Int("squad", len(squad)),
		logger.Int("candidates", len(pool)),
		logger.Int("excluded", len(res.Excluded)),
		logger.Int("ranked", out.TotalRanked),
		logger.Int("returned", len(out.Suggestions)),
	)
	return out, nil
}
