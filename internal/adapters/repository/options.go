// Package repository defines the player rating store interface and errors.
package repository

import "time"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithSnapshotInterval sets how often leaderboard snapshots are published.
func WithSnapshotInterval(interval time.Duration) Option {
	return func(s *MemStore) {
		if interval > 0 {
			s.snapshotInterval = interval
		}
	}
}

// WithTopCacheSize caps the number of entries kept in each snapshot.
func WithTopCacheSize(size int) Option {
	return func(s *MemStore) {
		if size > 0 {
			s.topCacheSize = size
		}
	}
}
