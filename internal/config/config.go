// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers a YAML file and the environment on top of those defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/shopspring/decimal"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// FPLBaseURL is the root of the public FPL API.
	FPLBaseURL string `koanf:"fpl_base_url"`

	// FPLUserAgent is sent with every upstream request.
	FPLUserAgent string `koanf:"fpl_user_agent"`

	// FPLTimeoutMS bounds a single upstream request.
	FPLTimeoutMS int `koanf:"fpl_timeout_ms"`

	// FPLRequestsPerSec caps the outbound request rate.
	FPLRequestsPerSec float64 `koanf:"fpl_requests_per_sec"`

	// FPLMaxRetries is the number of retries after the first attempt.
	FPLMaxRetries int `koanf:"fpl_max_retries"`

	// RefreshIntervalS is the period of the background catalog refresh. 0 disables it.
	RefreshIntervalS int `koanf:"refresh_interval_s"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the scoring job queue.
	QueueSize int `koanf:"queue_size"`

	// DefaultTopN is used when a request does not carry top_n.
	DefaultTopN int `koanf:"default_top_n"`

	// MaxTopN caps top_n on incoming requests.
	MaxTopN int `koanf:"max_top_n"`

	// MaxSquadValue is the default budget constraint in millions. 0 leaves it unset.
	MaxSquadValue float64 `koanf:"max_squad_value"`

	// MaxPerTeam is the default per-club cap. 0 leaves it unset.
	MaxPerTeam int `koanf:"max_per_team"`

	// ScorerIntercept and ScorerWeights parameterise the linear points model.
	// An empty weight map selects the zero-fill placeholder model.
	ScorerIntercept float64            `koanf:"scorer_intercept"`
	ScorerWeights   map[string]float64 `koanf:"scorer_weights"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		FPLBaseURL:        "https://fantasy.premierleague.com/api",
		FPLUserAgent:      "fplhelper/1.0",
		FPLTimeoutMS:      20_000,
		FPLRequestsPerSec: 4,
		FPLMaxRetries:     3,
		RefreshIntervalS:  900,
		WorkerCount:       runtime.NumCPU(),
		QueueSize:         2048,
		DefaultTopN:       5,
		MaxTopN:           50,
		MaxSquadValue:     100.0,
		MaxPerTeam:        3,
		ScorerWeights:     map[string]float64{},
	}
}

// FPLTimeout returns the upstream request timeout.
func (c *Config) FPLTimeout() time.Duration {
	return time.Duration(c.FPLTimeoutMS) * time.Millisecond
}

// RefreshInterval returns the background refresh period.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalS) * time.Second
}

// SquadBudget returns MaxSquadValue as a decimal. ok is false when unset.
func (c *Config) SquadBudget() (decimal.Decimal, bool) {
	if c.MaxSquadValue <= 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(c.MaxSquadValue), true
}

// Validate checks the invariants the service relies on.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.FPLBaseURL == "":
		return fmt.Errorf("%w: fpl_base_url must not be empty", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be >= 1", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be >= 1", ErrInvalidConfig)
	case c.DefaultTopN < 0:
		return fmt.Errorf("%w: default_top_n must be >= 0", ErrInvalidConfig)
	case c.MaxTopN < c.DefaultTopN:
		return fmt.Errorf("%w: max_top_n must be >= default_top_n", ErrInvalidConfig)
	case c.MaxPerTeam < 0:
		return fmt.Errorf("%w: max_per_team must be >= 0", ErrInvalidConfig)
	case c.MaxSquadValue < 0:
		return fmt.Errorf("%w: max_squad_value must be >= 0", ErrInvalidConfig)
	case c.FPLRequestsPerSec <= 0:
		return fmt.Errorf("%w: fpl_requests_per_sec must be > 0", ErrInvalidConfig)
	case c.RefreshIntervalS < 0:
		return fmt.Errorf("%w: refresh_interval_s must be >= 0", ErrInvalidConfig)
	}
	return nil
}
