// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/fplhelper/internal/adapters/fpl"
	"github.com/okian/fplhelper/internal/adapters/mq/queue"
	"github.com/okian/fplhelper/internal/adapters/mq/worker"
	"github.com/okian/fplhelper/internal/adapters/repository"
	"github.com/okian/fplhelper/internal/domain/model"
	"github.com/okian/fplhelper/internal/domain/scoring"
	"github.com/okian/fplhelper/internal/domain/transfer"
	"github.com/okian/fplhelper/pkg/logger"
	"github.com/okian/fplhelper/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize       = 2048
	defaultMaxTopN         = 50
	defaultRefreshInterval = 15 * time.Minute
	refreshTimeout         = 2 * time.Minute
	shutdownTimeout        = 10 * time.Second
)

// Fetcher loads upstream FPL data.
type Fetcher interface {
	Bootstrap(ctx context.Context) (*fpl.Bootstrap, error)
	EntryPicks(ctx context.Context, entryID, gw int) (*fpl.Picks, error)
}

// RefreshResult summarises one catalog reload.
type RefreshResult struct {
	BatchID string    `json:"batch_id"`
	Players int       `json:"players"`
	Failed  int       `json:"failed"`
	At      time.Time `json:"at"`
}

// Service implements the API dependencies for the transfer helper.
type Service struct {
	mu sync.RWMutex

	// Core components
	fetcher Fetcher
	catalog repository.Store
	scorer  scoring.Scorer
	queue   *queue.InMemoryQueue
	pool    *worker.Pool

	// staging receives predictions while a refresh is in flight.
	stagingMu sync.RWMutex
	staging   *repository.MemStore
	refreshMu sync.Mutex

	// Configuration
	workerCount     int
	queueSize       int
	refreshInterval time.Duration
	defaultTopN     int
	maxTopN         int
	constraints     model.Constraints

	// State
	started     bool
	lastRefresh RefreshResult
	stopCh      chan struct{}
	wg          sync.WaitGroup

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU(),
		queueSize:       defaultQueueSize,
		refreshInterval: defaultRefreshInterval,
		defaultTopN:     transfer.DefaultTopN,
		maxTopN:         defaultMaxTopN,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.catalog == nil {
		s.catalog = repository.NewMemStore()
	}
	if s.fetcher == nil {
		s.fetcher = fpl.NewClient()
	}
	if s.scorer == nil {
		s.scorer = scoring.NewLinearScorer()
	}

	return s
}

// Start launches the scoring pool, performs the first catalog load and
// schedules background reloads. A failed first load is logged, not
// returned, so the service can come up while upstream is down.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}

	s.logger.Info(ctx, "starting transfer service...")

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.scorer, updaterFunc(s.updateStaged))
	s.pool.Start(ctx)
	s.stopCh = make(chan struct{})
	s.started = true
	s.mu.Unlock()

	if _, err := s.Refresh(ctx); err != nil {
		s.logger.Error(ctx, "initial catalog refresh failed", logger.Error(err))
	}

	if s.refreshInterval > 0 {
		s.wg.Add(1)
		go s.refreshLoop(ctx)
	}

	s.logger.Info(ctx, "transfer service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Duration("refreshInterval", s.refreshInterval),
	)
	return nil
}

func (s *Service) refreshLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				s.logger.Error(ctx, "background catalog refresh failed", logger.Error(err))
			}
		}
	}
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	close(s.stopCh)
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "stopping transfer service...")

	s.wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := s.pool.Shutdown(shutdownCtx); err != nil {
		s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
	}

	s.logger.Info(ctx, "transfer service stopped")
}

// Refresh reloads the catalog from upstream and scores every player before
// publishing it. Concurrent calls are serialised.
func (s *Service) Refresh(ctx context.Context) (RefreshResult, error) {
	s.mu.RLock()
	started, q := s.started, s.queue
	s.mu.RUnlock()
	if !started {
		return RefreshResult{}, ErrNotStarted
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	start := time.Now()
	boot, err := s.fetcher.Bootstrap(ctx)
	if err != nil {
		metrics.RecordCatalogRefresh("fetch_error", time.Now())
		return RefreshResult{}, fmt.Errorf("fetch bootstrap: %w", err)
	}

	snap := repository.Snapshot{Players: boot.Players, Teams: boot.Teams, CurrentEvent: boot.CurrentEvent}
	staging := repository.NewMemStore()
	if err := staging.Replace(ctx, snap); err != nil {
		return RefreshResult{}, fmt.Errorf("stage catalog: %w", err)
	}
	s.setStaging(staging)
	defer s.setStaging(nil)

	batch := queue.NewBatch(len(boot.Players))
	for _, p := range boot.Players {
		if err := q.EnqueueWait(ctx, queue.Job{Player: p, Batch: batch}); err != nil {
			batch.Done(err)
		}
	}
	res, err := batch.Wait(ctx)
	if err != nil {
		metrics.RecordCatalogRefresh("scoring_timeout", time.Now())
		return RefreshResult{}, fmt.Errorf("score catalog: %w", err)
	}

	scored, err := staging.List(ctx, repository.Filter{})
	if err != nil {
		return RefreshResult{}, fmt.Errorf("read staged catalog: %w", err)
	}
	snap.Players = scored
	if err := s.catalog.Replace(ctx, snap); err != nil {
		metrics.RecordCatalogRefresh("store_error", time.Now())
		return RefreshResult{}, fmt.Errorf("publish catalog: %w", err)
	}

	out := RefreshResult{BatchID: res.ID, Players: res.Total, Failed: res.Failed, At: time.Now()}
	metrics.RecordCatalogRefresh("ok", out.At)

	s.mu.Lock()
	s.lastRefresh = out
	s.mu.Unlock()

	s.logger.Info(ctx, "catalog refreshed",
		logger.String("batchID", out.BatchID),
		logger.Int("players", out.Players),
		logger.Int("failed", out.Failed),
		logger.Int("gameweek", boot.CurrentEvent),
		logger.Duration("took", time.Since(start)),
	)
	if out.Failed > 0 {
		s.logger.Warn(ctx, "some players could not be scored", logger.Int("failed", out.Failed))
	}
	return out, nil
}

func (s *Service) setStaging(m *repository.MemStore) {
	s.stagingMu.Lock()
	s.staging = m
	s.stagingMu.Unlock()
}

// updateStaged is the worker pool's write target.
func (s *Service) updateStaged(ctx context.Context, id int, pts float64) error {
	s.stagingMu.RLock()
	st := s.staging
	s.stagingMu.RUnlock()
	if st == nil {
		return fmt.Errorf("no refresh in progress for player %d", id)
	}
	return st.UpdatePredicted(ctx, id, pts)
}

type updaterFunc func(ctx context.Context, id int, pts float64) error

func (f updaterFunc) UpdatePredicted(ctx context.Context, id int, pts float64) error {
	return f(ctx, id, pts)
}

// Players lists catalog players matching f.
func (s *Service) Players(ctx context.Context, f repository.Filter) ([]model.CatalogPlayer, error) {
	return s.catalog.List(ctx, f)
}

// Player returns one catalog player.
func (s *Service) Player(ctx context.Context, id int) (model.CatalogPlayer, error) {
	return s.catalog.Get(ctx, id)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"refreshInterval": s.refreshInterval.String(),
		"defaultTopN":     s.defaultTopN,
		"maxTopN":         s.maxTopN,
		"catalogPlayers":  s.catalog.Count(ctx),
		"currentEvent":    s.catalog.CurrentEvent(ctx),
	}

	if at := s.catalog.RefreshedAt(ctx); !at.IsZero() {
		stats["lastRefresh"] = at.UTC().Format(time.RFC3339)
		stats["lastBatchID"] = s.lastRefresh.BatchID
		stats["lastBatchFailed"] = s.lastRefresh.Failed
	}
	if ls, ok := s.scorer.(interface{ Placeholder() bool }); ok {
		stats["scorerPlaceholder"] = ls.Placeholder()
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
	}

	return stats
}
