package models

import (
	"fmt"
	"math"

	"github.com/erdostom/openskill/internal/domain/team"
	"github.com/erdostom/openskill/pkg/statistics"
)

// RankProbability pairs a predicted competition rank with the probability
// of the team finishing first.
type RankProbability struct {
	Rank        int     `json:"rank"`
	Probability float64 `json:"probability"`
}

// PredictWin estimates each team's probability of winning the match.
// The returned vector has one entry per team, in input order, summing to 1.
func (m *Model) PredictWin(teams []Team) ([]float64, error) {
	trs, err := m.predictionAggregates(teams)
	if err != nil {
		return nil, err
	}

	n := len(trs)
	matrix := m.winMatrix(trs)
	probs := make([]float64, n)
	var total float64
	for i := range matrix {
		for q, p := range matrix[i] {
			if q == i {
				continue
			}
			probs[i] += p
		}
		probs[i] /= float64(n - 1)
		total += probs[i]
	}
	for i := range probs {
		probs[i] /= total
	}
	return probs, nil
}

// PredictDraw estimates the probability of the entire match ending in a
// draw, averaging the pairwise probability mass inside a field-size
// dependent draw margin.
func (m *Model) PredictDraw(teams []Team) (float64, error) {
	trs, err := m.predictionAggregates(teams)
	if err != nil {
		return 0, err
	}

	var totalPlayers float64
	for _, t := range teams {
		totalPlayers += float64(len(t))
	}
	drawMargin := math.Sqrt(totalPlayers) * m.beta * statistics.InvCDF((1+1/totalPlayers)/2)

	var sum float64
	var pairs int
	for i := 0; i < len(trs); i++ {
		for q := i + 1; q < len(trs); q++ {
			c := math.Sqrt(trs[i].SigmaSq + trs[q].SigmaSq + 2*m.betaSq)
			gap := trs[i].Mu - trs[q].Mu
			sum += statistics.CDF((drawMargin-gap)/c) - statistics.CDF((-gap-drawMargin)/c)
			pairs++
		}
	}
	return sum / float64(pairs), nil
}

// PredictRank estimates each team's finishing rank. Teams are ranked by
// their normalized win probability with competition ranking for ties; the
// result is returned in input order and the probabilities sum to 1.
func (m *Model) PredictRank(teams []Team) ([]RankProbability, error) {
	probs, err := m.PredictWin(teams)
	if err != nil {
		return nil, err
	}

	out := make([]RankProbability, len(probs))
	for i, p := range probs {
		rank := 1
		for q, other := range probs {
			if q != i && other > p {
				rank++
			}
		}
		out[i] = RankProbability{Rank: rank, Probability: p}
	}
	return out, nil
}

// predictionAggregates validates the field and aggregates each team.
func (m *Model) predictionAggregates(teams []Team) ([]team.Rating, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("need at least 2 teams, got %d: %w", len(teams), ErrInvalidArgument)
	}
	trs := make([]team.Rating, len(teams))
	for i, t := range teams {
		if len(t) == 0 {
			return nil, fmt.Errorf("team %d is empty: %w", i, ErrInvalidArgument)
		}
		trs[i] = team.Aggregate(t, float64(i), m.balance, m.kappa)
	}
	return trs, nil
}

// winMatrix returns the pairwise win probabilities: entry [i][q] is the
// probability that team i beats team q head to head.
func (m *Model) winMatrix(trs []team.Rating) [][]float64 {
	n := len(trs)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		for q := range matrix[i] {
			if q == i {
				continue
			}
			c := math.Sqrt(trs[i].SigmaSq + trs[q].SigmaSq + 2*m.betaSq)
			matrix[i][q] = statistics.CDF((trs[i].Mu - trs[q].Mu) / c)
		}
	}
	return matrix
}
