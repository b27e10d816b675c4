// Package scoring defines the contract for computing predicted points from
// raw player statistics.
package scoring

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/okian/fplhelper/internal/domain/model"
	"github.com/okian/fplhelper/pkg/logger"
)

// Feature names understood by LinearScorer.
const (
	FeatureCost        = "cost"
	FeatureValueForm   = "value_form"
	FeatureForm        = "form"
	FeatureTotalPoints = "total_points"
)

// Features lists every feature a weight can be attached to.
var Features = []string{FeatureCost, FeatureValueForm, FeatureForm, FeatureTotalPoints}

// Option applies a configuration option to the LinearScorer.
type Option func(*LinearScorer)

// WithIntercept sets the constant term of the model.
func WithIntercept(v float64) Option {
	return func(s *LinearScorer) {
		s.intercept = v
	}
}

// WithWeights sets per-feature coefficients. Unknown feature names are
// ignored.
func WithWeights(weights map[string]float64) Option {
	return func(s *LinearScorer) {
		s.weights = make(map[string]float64, len(weights))
		for name, w := range weights {
			if isFeature(name) {
				s.weights[name] = w
			}
		}
	}
}

// WithLogger sets the logger used for the placeholder warning.
func WithLogger(l logger.Logger) Option {
	return func(s *LinearScorer) {
		if l != nil {
			s.log = l
		}
	}
}

// Input carries the statistics for one player.
type Input struct {
	PlayerID int
	// Cost in millions.
	Cost     float64
	Features model.Features
}

// InputFromCatalog builds an Input from a catalog record.
func InputFromCatalog(p model.CatalogPlayer) Input {
	in := Input{PlayerID: p.ID, Features: p.Features}
	if p.Cost.Valid {
		in.Cost = p.Cost.Decimal.InexactFloat64()
	}
	return in
}

// Result contains the predicted points for a player.
type Result struct {
	PlayerID        int
	PredictedPoints float64
}

// Scorer computes predicted points from an input.
type Scorer interface {
	// Score computes a prediction, honoring ctx for cancellation.
	Score(ctx context.Context, in Input) (Result, error)
}

// LinearScorer evaluates intercept + sum(weight[f] * f) over the known
// features. With no weights configured it acts as a placeholder model and
// predicts 0 for everyone.
type LinearScorer struct {
	intercept float64
	weights   map[string]float64
	log       logger.Logger
	warnOnce  sync.Once
}

// NewLinearScorer creates a linear scorer with configuration options.
func NewLinearScorer(opts ...Option) *LinearScorer {
	s := &LinearScorer{weights: map[string]float64{}}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("scorer")
	}
	return s
}

// Placeholder reports whether no model weights are configured.
func (s *LinearScorer) Placeholder() bool {
	return len(s.weights) == 0
}

// Weights returns a copy of the configured coefficients.
func (s *LinearScorer) Weights() map[string]float64 {
	return maps.Clone(s.weights)
}

// Score computes the predicted points for in.
func (s *LinearScorer) Score(ctx context.Context, in Input) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("context cancelled: %w", err)
	}

	if s.Placeholder() {
		s.warnOnce.Do(func() {
			s.log.Warn(ctx, "no scorer weights configured, predicting 0 for every player")
		})
		return Result{PlayerID: in.PlayerID}, nil
	}

	pts := s.intercept
	for name, w := range s.weights {
		pts += w * featureValue(in, name)
	}
	return Result{PlayerID: in.PlayerID, PredictedPoints: pts}, nil
}

func featureValue(in Input, name string) float64 {
	switch name {
	case FeatureCost:
		return in.Cost
	case FeatureValueForm:
		return in.Features.ValueForm
	case FeatureForm:
		return in.Features.Form
	case FeatureTotalPoints:
		return float64(in.Features.TotalPoints)
	default:
		return 0
	}
}

func isFeature(name string) bool {
	for _, f := range Features {
		if f == name {
			return true
		}
	}
	return false
}
