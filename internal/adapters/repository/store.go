// Package repository defines the player rating store interface and errors.
package repository

import (
	"context"

	"github.com/erdostom/openskill/internal/domain/rating"
)

// Entry represents one leaderboard row: a player's stored rating plus its
// current rank by conservative (ordinal) estimate.
type Entry struct {
	Rank     int     `json:"rank"`
	PlayerID string  `json:"player_id"`
	Mu       float64 `json:"mu"`
	Sigma    float64 `json:"sigma"`
	Ordinal  float64 `json:"ordinal"`
	Matches  int     `json:"matches"`
}

// Store provides read/write access to player ratings and the derived
// leaderboard, ordered by ordinal descending with competition-rank ties.
type Store interface {
	// Get returns the stored rating for a player, or false if unknown.
	Get(ctx context.Context, playerID string) (rating.Rating, bool)

	// GetOrCreate returns the stored rating for a player, creating and
	// storing fallback if the player is unknown.
	GetOrCreate(ctx context.Context, playerID string, fallback rating.Rating) rating.Rating

	// Put stores a player's post-match rating, replacing any previous one.
	Put(ctx context.Context, playerID string, r rating.Rating) error

	// Rank returns the leaderboard entry for a player.
	// Returns ErrNotFound if the player is unknown.
	Rank(ctx context.Context, playerID string) (Entry, error)

	// TopN returns the top-N entries ordered by ordinal descending.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of players tracked.
	Count(ctx context.Context) int
}
