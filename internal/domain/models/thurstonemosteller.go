package models

import (
	"math"

	"github.com/erdostom/openskill/internal/domain/team"
	"github.com/erdostom/openskill/pkg/statistics"
)

// thurstoneMostellerPair accumulates one opponent's contribution under the
// Gaussian truncated-moment comparison. Wins and losses use the singly
// truncated corrections V/W; draws use the doubly truncated VT/WT with
// epsilon as the draw margin.
func thurstoneMostellerPair(m *Model, ti, tq *team.Rating) (omega, vVal, c float64) {
	c = math.Sqrt(ti.SigmaSq + tq.SigmaSq + 2*m.betaSq)
	deltaMu := (ti.Mu - tq.Mu) / c * m.marginFactor(ti.Score, tq.Score)
	drawMargin := m.epsilon / c
	sigToC := ti.SigmaSq / c

	switch {
	case tq.Rank > ti.Rank: // i placed better
		omega = sigToC * statistics.V(deltaMu, drawMargin)
		vVal = statistics.W(deltaMu, drawMargin)
	case tq.Rank < ti.Rank:
		omega = -sigToC * statistics.V(-deltaMu, drawMargin)
		vVal = statistics.W(-deltaMu, drawMargin)
	default:
		omega = sigToC * statistics.VT(deltaMu, drawMargin)
		vVal = statistics.WT(deltaMu, drawMargin)
	}
	return omega, vVal, c
}

func thurstoneMostellerFullUpdate(m *Model, teams []team.Rating, weights [][]float64) []adjustment {
	return m.pairwiseUpdate(teams, weights, false, thurstoneMostellerPair)
}

func thurstoneMostellerPartUpdate(m *Model, teams []team.Rating, weights [][]float64) []adjustment {
	return m.pairwiseUpdate(teams, weights, true, thurstoneMostellerPair)
}
