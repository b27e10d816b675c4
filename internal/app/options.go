package service

import (
	"time"

	"github.com/okian/fplhelper/internal/adapters/repository"
	"github.com/okian/fplhelper/internal/domain/model"
	"github.com/okian/fplhelper/internal/domain/scoring"
	"github.com/okian/fplhelper/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetcher sets the upstream data source.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithStore sets the catalog store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.catalog = st
		}
	}
}

// WithScorer sets the model used by the scoring pool.
func WithScorer(sc scoring.Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithWorkerCount sets the number of scoring workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the scoring queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithRefreshInterval sets how often the catalog is reloaded in the
// background. Zero disables background refresh.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.refreshInterval = d
		}
	}
}

// WithTopN sets the default and maximum number of suggestions returned.
func WithTopN(defaultN, maxN int) Option {
	return func(s *Service) {
		if defaultN > 0 && maxN >= defaultN {
			s.defaultTopN = defaultN
			s.maxTopN = maxN
		}
	}
}

// WithDefaultConstraints sets the constraints applied when a request
// carries none.
func WithDefaultConstraints(c model.Constraints) Option {
	return func(s *Service) {
		s.constraints = c
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
