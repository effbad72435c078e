package repository

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erdostom/openskill/internal/domain/rating"
	"github.com/erdostom/openskill/pkg/metrics"
)

// In-memory Store implementation.
//
// Ordering: ordinal DESC, then playerID ASC (deterministic). Every rating
// update changes both mu and sigma, so the leaderboard order is recomputed
// from the record map on demand and cached in periodic snapshots for
// cheap reads.

// record stores a player's current rating plus bookkeeping.
type record struct {
	rating  rating.Rating
	matches int
}

// Snapshot is an immutable view of the leaderboard published periodically.
type Snapshot struct {
	// Rank and ordinal in O(1) for reads.
	RankByPlayer map[string]int

	// Top entries in rank order, capped at the configured cache size.
	TopCache []Entry
}

// MemStore implements Store with a map guarded by a RWMutex and periodic
// immutable snapshots for dashboard-style reads.
type MemStore struct {
	mu               sync.RWMutex
	byID             map[string]record
	snapshotInterval time.Duration
	topCacheSize     int

	snapshot atomic.Pointer[Snapshot]

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// Default store configuration.
const (
	defaultSnapshotInterval = time.Second
	defaultTopCacheSize     = 500
)

// NewMemStore constructs an in-memory rating store and starts its
// periodic snapshot goroutine, stopped by Close or ctx cancellation.
func NewMemStore(ctx context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		byID:             make(map[string]record),
		snapshotInterval: defaultSnapshotInterval,
		topCacheSize:     defaultTopCacheSize,
		stopChan:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.startPeriodicSnapshots(ctx)
	return s
}

func (s *MemStore) startPeriodicSnapshots(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.snapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.publishSnapshot()
			}
		}
	}()
}

// publishSnapshot rebuilds and publishes a new leaderboard snapshot.
func (s *MemStore) publishSnapshot() {
	start := time.Now()

	s.mu.RLock()
	entries := s.sortedEntries()
	s.mu.RUnlock()

	rankByPlayer := make(map[string]int, len(entries))
	for _, e := range entries {
		rankByPlayer[e.PlayerID] = e.Rank
	}
	top := entries
	if len(top) > s.topCacheSize {
		top = top[:s.topCacheSize]
	}
	s.snapshot.Store(&Snapshot{RankByPlayer: rankByPlayer, TopCache: top})

	ms := float64(time.Since(start).Milliseconds())
	metrics.RecordStoreSnapshotRebuildDuration(ms)
	metrics.UpdateStoreSnapshotLastUnix(float64(time.Now().Unix()))
	metrics.IncrementStoreSnapshotCount()
}

// LatestSnapshot returns the most recently published snapshot, or nil if
// none has been published yet.
func (s *MemStore) LatestSnapshot() *Snapshot {
	return s.snapshot.Load()
}

// Close stops the snapshot goroutine.
func (s *MemStore) Close() error {
	select {
	case <-s.stopChan:
		// Already closed.
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// Get returns the stored rating for a player.
func (s *MemStore) Get(_ context.Context, playerID string) (rating.Rating, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[playerID]
	return rec.rating, ok
}

// GetOrCreate returns the stored rating or stores and returns fallback.
func (s *MemStore) GetOrCreate(_ context.Context, playerID string, fallback rating.Rating) rating.Rating {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.byID[playerID]; ok {
		return rec.rating
	}
	s.byID[playerID] = record{rating: fallback}
	metrics.UpdateStoreRecordsTotal(len(s.byID))
	return fallback
}

// Put stores a player's post-match rating.
func (s *MemStore) Put(_ context.Context, playerID string, r rating.Rating) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	rec := s.byID[playerID]
	rec.rating = r
	rec.matches++
	s.byID[playerID] = rec
	total := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateStoreRecordsTotal(total)
	return nil
}

// Rank returns the leaderboard entry for one player.
func (s *MemStore) Rank(_ context.Context, playerID string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.byID[playerID]; !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}
	for _, e := range s.sortedEntries() {
		if e.PlayerID == playerID {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

// TopN returns the top N entries by ordinal descending.
func (s *MemStore) TopN(_ context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.sortedEntries()
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// Count returns the number of players tracked.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// sortedEntries builds the full leaderboard with competition-rank ties.
// Callers must hold at least a read lock.
func (s *MemStore) sortedEntries() []Entry {
	entries := make([]Entry, 0, len(s.byID))
	for id, rec := range s.byID {
		entries = append(entries, Entry{
			PlayerID: id,
			Mu:       rec.rating.Mu,
			Sigma:    rec.rating.Sigma,
			Ordinal:  rec.rating.Ordinal(),
			Matches:  rec.matches,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Ordinal != entries[j].Ordinal {
			return entries[i].Ordinal > entries[j].Ordinal
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	assignRanksWithTies(entries)
	return entries
}

// assignRanksWithTies assigns competition ranks: players with the same
// ordinal share a rank and the next distinct ordinal advances by one.
func assignRanksWithTies(entries []Entry) {
	currentRank := 0
	for i := range entries {
		if i == 0 || entries[i].Ordinal != entries[i-1].Ordinal {
			currentRank++
		}
		entries[i].Rank = currentRank
	}
}
