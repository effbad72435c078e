package models

import (
	"math"

	"github.com/erdostom/openskill/internal/domain/team"
)

// bradleyTerryPair accumulates one opponent's contribution under the
// logistic comparison: the expected win probability is a sigmoid of the
// scaled mean gap, ties contribute half a win, and the variance signal is
// the Bernoulli variance of that probability.
func bradleyTerryPair(m *Model, ti, tq *team.Rating) (omega, vVal, c float64) {
	c = math.Sqrt(ti.SigmaSq + tq.SigmaSq + 2*m.betaSq)
	deltaMu := (ti.Mu - tq.Mu) / c * m.marginFactor(ti.Score, tq.Score)
	p := 1 / (1 + math.Exp(-deltaMu))

	var outcome float64
	switch {
	case tq.Rank > ti.Rank: // i placed better
		outcome = 1
	case tq.Rank < ti.Rank:
		outcome = 0
	default:
		outcome = 0.5
	}

	omega = ti.SigmaSq / c * (outcome - p)
	vVal = p * (1 - p)
	return omega, vVal, c
}

func bradleyTerryFullUpdate(m *Model, teams []team.Rating, weights [][]float64) []adjustment {
	return m.pairwiseUpdate(teams, weights, false, bradleyTerryPair)
}

func bradleyTerryPartUpdate(m *Model, teams []team.Rating, weights [][]float64) []adjustment {
	return m.pairwiseUpdate(teams, weights, true, bradleyTerryPair)
}

// pairFunc computes one opponent's omega contribution, the variance signal
// v, and the combined uncertainty scale c for a team pair.
type pairFunc func(m *Model, ti, tq *team.Rating) (omega, vVal, c float64)

// pairwiseUpdate runs the shared accumulation loop of the pairwise models:
// full variants compare against the whole field, partial variants against a
// window of nearest-rank neighbors.
func (m *Model) pairwiseUpdate(teams []team.Rating, weights [][]float64, windowed bool, pair pairFunc) []adjustment {
	n := len(teams)
	adjustments := make([]adjustment, n)
	for i := range teams {
		lo, hi := 0, n-1
		if windowed {
			lo, hi = windowBounds(i, n, m.windowSize)
		}
		var w []float64
		if weights != nil {
			w = weights[i]
		}
		var omega, delta float64
		for q := lo; q <= hi; q++ {
			if q == i {
				continue
			}
			omegaContrib, vVal, c := pair(m, &teams[i], &teams[q])
			omega += omegaContrib
			gammaVal := m.gamma(c, n, teams[i].Mu, teams[i].SigmaSq, teams[i].Team, teams[i].Rank, w)
			delta += gammaVal * teams[i].SigmaSq / (c * c) * vVal
		}
		adjustments[i] = adjustment{omega: omega, delta: delta}
	}
	return adjustments
}
