// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	matchqueue "github.com/erdostom/openskill/internal/adapters/mq/queue"
	workerpool "github.com/erdostom/openskill/internal/adapters/mq/worker"
	"github.com/erdostom/openskill/internal/adapters/repository"
	"github.com/erdostom/openskill/internal/domain/dedupe"
	"github.com/erdostom/openskill/internal/domain/model"
	"github.com/erdostom/openskill/internal/domain/models"
	"github.com/erdostom/openskill/internal/domain/rating"
	"github.com/erdostom/openskill/pkg/logger"
	"github.com/erdostom/openskill/pkg/metrics"
)

// Service implements the API dependencies for the rating system.
type Service struct {
	mu sync.RWMutex

	// Serializes read-modify-write rating cycles so concurrent workers
	// cannot interleave updates for matches sharing players.
	rateMu sync.Mutex

	// Core components
	model      *models.Model
	store      *repository.MemStore
	deduper    dedupe.Deduper
	matchQueue matchqueue.Queue
	workerPool *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithModel sets the rating model used for match updates and predictions.
func WithModel(m *models.Model) Option {
	return func(s *Service) {
		if m != nil {
			s.model = m
		}
	}
}

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the match queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   100000,
		dedupeSize:  50000,
		stopCh:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.model == nil {
		s.model = models.NewPlackettLuce()
	}

	s.logger.Info(ctx, "starting rating service...")

	s.store = repository.NewMemStore(ctx)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.matchQueue = matchqueue.NewInMemoryQueue(
		matchqueue.WithCapacity(s.queueSize),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.matchQueue, s)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "rating service started",
		logger.String("model", s.model.Name()),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping rating service...")

	if s.matchQueue != nil {
		if q, ok := s.matchQueue.(*matchqueue.InMemoryQueue); ok {
			_ = q.Close()
		}
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	if s.store != nil {
		_ = s.store.Close()
	}

	select {
	case <-s.stopCh:
		// Channel already closed.
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "rating service stopped")
}

// SeenAndRecord atomically checks if a match id was seen and records it if not.
// Returns true if the match was already seen, false if it was newly recorded.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	return s.deduper.SeenAndRecord(ctx, id)
}

// Unrecord removes a match id from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits a match result for asynchronous processing.
func (s *Service) Enqueue(ctx context.Context, m model.MatchResult) bool {
	ok := s.matchQueue.Enqueue(ctx, m)
	if ok {
		metrics.UpdateQueueSize(s.matchQueue.Len(ctx))
	}
	return ok
}

// RateMatch applies a match outcome to the stored ratings of its players.
// It returns the number of ratings updated.
func (s *Service) RateMatch(ctx context.Context, m model.MatchResult) (int, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.rateMu.Lock()
	defer s.rateMu.Unlock()

	teams := s.resolveTeams(ctx, m.Teams)

	var opts []models.RateOption
	switch {
	case len(m.Ranks) > 0:
		opts = append(opts, models.WithRanks(m.Ranks))
	case len(m.Scores) > 0:
		opts = append(opts, models.WithScores(m.Scores))
	}

	rated, err := s.model.Rate(teams, opts...)
	if err != nil {
		return 0, fmt.Errorf("rate match %s: %w", m.MatchID, err)
	}

	updated := 0
	for i, teamIDs := range m.Teams {
		for j, playerID := range teamIDs {
			if err := s.store.Put(ctx, playerID, rated[i][j]); err != nil {
				return updated, fmt.Errorf("store rating for %s: %w", playerID, err)
			}
			updated++
		}
	}
	metrics.UpdateTotalPlayers(s.store.Count(ctx))
	return updated, nil
}

// PredictWin resolves player ids and returns per-team win probabilities.
func (s *Service) PredictWin(ctx context.Context, teams [][]string) ([]float64, error) {
	return s.model.PredictWin(s.resolveTeams(ctx, teams))
}

// PredictDraw resolves player ids and returns the draw probability.
func (s *Service) PredictDraw(ctx context.Context, teams [][]string) (float64, error) {
	return s.model.PredictDraw(s.resolveTeams(ctx, teams))
}

// PredictRank resolves player ids and returns per-team rank predictions.
func (s *Service) PredictRank(ctx context.Context, teams [][]string) ([]models.RankProbability, error) {
	return s.model.PredictRank(s.resolveTeams(ctx, teams))
}

// resolveTeams loads stored ratings for the given player ids; unknown
// players are seeded with the model's default rating.
func (s *Service) resolveTeams(ctx context.Context, teamIDs [][]string) []models.Team {
	teams := make([]models.Team, len(teamIDs))
	for i, ids := range teamIDs {
		members := make(models.Team, len(ids))
		for j, id := range ids {
			members[j] = s.store.GetOrCreate(ctx, id, s.model.NewRating(rating.WithName(id)))
		}
		teams[i] = members
	}
	return teams
}

// TopN returns the top N leaderboard entries.
func (s *Service) TopN(ctx context.Context, n int) ([]repository.Entry, error) {
	entries, err := s.store.TopN(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}
	return entries, nil
}

// Rank returns the leaderboard entry for a given player id.
func (s *Service) Rank(ctx context.Context, playerID string) (repository.Entry, error) {
	entry, err := s.store.Rank(ctx, playerID)
	if err != nil {
		return repository.Entry{}, fmt.Errorf("rank query: %w", err)
	}
	return entry, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.matchQueue.Len(ctx)
		totalPlayers := s.store.Count(ctx)

		stats["model"] = s.model.Name()
		stats["queueLength"] = queueLen
		stats["totalPlayers"] = totalPlayers

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalPlayers(totalPlayers)
		metrics.UpdateWorkerCount(s.workerPool.Size())
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
