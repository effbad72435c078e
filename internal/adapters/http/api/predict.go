// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/erdostom/openskill/pkg/metrics"
)

// PredictDependencies defines the interface for prediction operations.
type PredictDependencies interface {
	PredictWin(ctx context.Context, teams [][]string) ([]float64, error)
	PredictDraw(ctx context.Context, teams [][]string) (float64, error)
	PredictRank(ctx context.Context, teams [][]string) ([]RankProbability, error)
}

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps PredictDependencies
}

// NewPredictHandler creates a new prediction handler.
func NewPredictHandler(deps PredictDependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

// predictRequest mirrors the wire schema for POST /predict/{kind}.
type predictRequest struct {
	Teams [][]string `json:"teams"`
}

func (p predictRequest) validate() error {
	if len(p.Teams) < 2 {
		return errors.New("need at least two teams")
	}
	for _, team := range p.Teams {
		if len(team) == 0 {
			return errors.New("teams must be non-empty")
		}
		for _, id := range team {
			if strings.TrimSpace(id) == "" {
				return errors.New("player ids must be non-empty")
			}
		}
	}
	return nil
}

type winResponse struct {
	Probabilities []float64 `json:"probabilities"`
}

type drawResponse struct {
	Probability float64 `json:"probability"`
}

type rankResponse struct {
	Ranks []RankProbability `json:"ranks"`
}

// HandlePredict handles POST /predict/{win|draw|rank} requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	kind := strings.TrimPrefix(r.URL.Path, "/predict/")
	if kind != "win" && kind != "draw" && kind != "rank" {
		http.NotFound(w, r)
		return
	}

	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}

	start := time.Now()
	var (
		body any
		err  error
	)
	switch kind {
	case "win":
		var probs []float64
		probs, err = h.deps.PredictWin(r.Context(), req.Teams)
		body = winResponse{Probabilities: probs}
	case "draw":
		var prob float64
		prob, err = h.deps.PredictDraw(r.Context(), req.Teams)
		body = drawResponse{Probability: prob}
	case "rank":
		var ranks []RankProbability
		ranks, err = h.deps.PredictRank(r.Context(), req.Teams)
		body = rankResponse{Ranks: ranks}
	}
	metrics.RecordPredictionLatency(kind, float64(time.Since(start).Milliseconds()))

	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, body)
}
