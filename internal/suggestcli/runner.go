package suggestcli

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	service "github.com/okian/fplhelper/internal/app"
	"github.com/okian/fplhelper/internal/domain/model"
	"github.com/okian/fplhelper/pkg/logger"
)

// Run fetches suggestions as described by cfg and renders them to out.
func Run(ctx context.Context, cfg *Config, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Named("suggestcli")
	log.Debug(ctx, "requesting suggestions",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("entry", cfg.EntryID),
		logger.String("squadFile", cfg.SquadFile),
		logger.Int("topN", cfg.TopN),
		logger.String("format", cfg.Format))

	client := NewClient(cfg.BaseURL, cfg.Timeout)

	var (
		resp *service.SuggestResponse
		err  error
	)
	if cfg.EntryID > 0 {
		resp, err = client.SuggestForEntry(ctx, cfg.EntryID, EntryQuery{
			Gameweek:      cfg.Gameweek,
			TopN:          cfg.TopN,
			MaxSquadValue: cfg.MaxSquadValue,
			MaxPerTeam:    cfg.MaxPerTeam,
		})
	} else {
		req, buildErr := buildRequest(cfg)
		if buildErr != nil {
			return buildErr
		}
		resp, err = client.Suggest(ctx, req)
	}
	if err != nil {
		return fmt.Errorf("suggestion request failed: %w", err)
	}

	log.Debug(ctx, "suggestions received",
		logger.String("evaluationID", resp.EvaluationID),
		logger.Int("count", len(resp.Suggestions)))
	return Render(out, cfg.Format, resp, cfg.ShowExcluded)
}

// buildRequest turns the posted-squad flags into a request. Flags override
// values read from a squad file.
func buildRequest(cfg *Config) (service.SuggestRequest, error) {
	var req service.SuggestRequest
	if cfg.SquadFile != "" {
		loaded, err := LoadSquad(cfg.SquadFile)
		if err != nil {
			return req, err
		}
		req = loaded
	} else {
		req.SquadIDs = cfg.SquadIDs
	}

	if cfg.TopN > 0 {
		n := cfg.TopN
		req.TopN = &n
	}
	if cfg.Unconstrained {
		req.Unconstrained = true
		req.Constraints = nil
		return req, nil
	}
	if cfg.MaxSquadValue > 0 || cfg.MaxPerTeam > 0 {
		c := model.Constraints{MaxPerTeam: cfg.MaxPerTeam}
		if req.Constraints != nil {
			c = *req.Constraints
			if cfg.MaxPerTeam > 0 {
				c.MaxPerTeam = cfg.MaxPerTeam
			}
		}
		if cfg.MaxSquadValue > 0 {
			c.MaxSquadValue = decimal.NewNullDecimal(decimal.NewFromFloat(cfg.MaxSquadValue))
		}
		req.Constraints = &c
	}
	return req, nil
}
