// Package model contains domain messages passed between layers.
package model

import "time"

// MatchResult represents one completed match submitted by clients.
// Teams lists player ids in team order; at most one of Ranks or Scores is
// set, mirroring the engine's contract.
type MatchResult struct {
	MatchID string     // unique id for idempotency
	Teams   [][]string // player ids per team, in submission order
	Ranks   []float64  // optional; lower is better, equal means draw
	Scores  []float64  // optional; higher is better, equal means draw
	TS      time.Time  // match completion timestamp
}
