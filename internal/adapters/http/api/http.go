// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/erdostom/openskill/internal/adapters/repository"
	"github.com/erdostom/openskill/internal/domain/dedupe"
	"github.com/erdostom/openskill/internal/domain/model"
	"github.com/erdostom/openskill/internal/domain/models"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a match for async processing. Returns false on backpressure.
	Enqueue(ctx context.Context, m model.MatchResult) bool

	// Read operations expose leaderboard data.
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, playerID string) (Entry, error)

	// Prediction operations resolve player ids to ratings and run the model.
	PredictWin(ctx context.Context, teams [][]string) ([]float64, error)
	PredictDraw(ctx context.Context, teams [][]string) (float64, error)
	PredictRank(ctx context.Context, teams [][]string) ([]RankProbability, error)
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = repository.Entry

// RankProbability mirrors the shape returned by rank predictions.
type RankProbability = models.RankProbability

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	matchesHandler     *MatchesHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	predictHandler     *PredictHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		matchesHandler:     NewMatchesHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		rankHandler:        NewRankHandler(deps),
		predictHandler:     NewPredictHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific).
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandlePostMatch, "matches"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/predict/", MetricsMiddleware(s.predictHandler.HandlePredict, "predict"))
}

// matchRequest mirrors the wire schema for POST /matches.
type matchRequest struct {
	MatchID string     `json:"match_id"`
	Teams   [][]string `json:"teams"`
	Ranks   []float64  `json:"ranks,omitempty"`
	Scores  []float64  `json:"scores,omitempty"`
	TS      string     `json:"ts,omitempty"`
}

func (m matchRequest) validate() error {
	switch {
	case strings.TrimSpace(m.MatchID) == "":
		return errors.New("missing match_id")
	case len(m.Teams) < 2:
		return errors.New("need at least two teams")
	case len(m.Ranks) > 0 && len(m.Scores) > 0:
		return errors.New("ranks and scores are mutually exclusive")
	case len(m.Ranks) > 0 && len(m.Ranks) != len(m.Teams):
		return errors.New("ranks length must match teams")
	case len(m.Scores) > 0 && len(m.Scores) != len(m.Teams):
		return errors.New("scores length must match teams")
	}
	for _, team := range m.Teams {
		if len(team) == 0 {
			return errors.New("teams must be non-empty")
		}
		for _, id := range team {
			if strings.TrimSpace(id) == "" {
				return errors.New("player ids must be non-empty")
			}
		}
	}
	if m.TS != "" {
		if _, err := time.Parse(time.RFC3339, m.TS); err != nil {
			return errors.New("invalid ts; must be RFC3339")
		}
	}
	return nil
}

func (m matchRequest) toModel() model.MatchResult {
	res := model.MatchResult{
		MatchID: m.MatchID,
		Teams:   m.Teams,
		Ranks:   m.Ranks,
		Scores:  m.Scores,
	}
	if m.TS != "" {
		if ts, err := time.Parse(time.RFC3339, m.TS); err == nil {
			res.TS = ts
		}
	}
	return res
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
