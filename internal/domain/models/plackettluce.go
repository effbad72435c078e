package models

import (
	"math"

	"github.com/erdostom/openskill/internal/domain/team"
)

// plackettLuceUpdate computes every team's adjustment from one
// softmax-normalized strength vector over the whole field instead of
// pairwise enumeration. Each team's exponentiated mean divided by the sum
// over itself and all equal-or-worse-ranked teams is its expected finish
// probability; omega and delta are the gradient of the resulting
// log-likelihood with respect to team strength.
func plackettLuceUpdate(m *Model, teams []team.Rating, weights [][]float64) []adjustment {
	n := len(teams)

	var cSq float64
	for _, t := range teams {
		cSq += t.SigmaSq + m.betaSq
	}
	c := math.Sqrt(cSq)

	// sumQ[q] sums exp(mu/c) over teams ranked equal or worse than q;
	// tieCount[q] is the size of q's tie group.
	sumQ := make([]float64, n)
	tieCount := make([]float64, n)
	for q := range teams {
		for s := range teams {
			if teams[s].Rank >= teams[q].Rank {
				sumQ[q] += math.Exp(teams[s].Mu / c)
			}
			if teams[s].Rank == teams[q].Rank {
				tieCount[q]++
			}
		}
	}

	adjustments := make([]adjustment, n)
	for i := range teams {
		strength := math.Exp(teams[i].Mu / c)
		var omega, delta float64
		for q := range teams {
			if teams[q].Rank > teams[i].Rank {
				continue
			}
			quotient := strength / sumQ[q]
			if q == i {
				omega += (1 - quotient) / tieCount[q]
			} else {
				omega -= quotient / tieCount[q]
			}
			delta += quotient * (1 - quotient) / tieCount[q]
		}

		var w []float64
		if weights != nil {
			w = weights[i]
		}
		gammaVal := m.gamma(c, n, teams[i].Mu, teams[i].SigmaSq, teams[i].Team, teams[i].Rank, w)

		adjustments[i] = adjustment{
			omega: omega * teams[i].SigmaSq / c,
			delta: gammaVal * delta * teams[i].SigmaSq / cSq,
		}
	}
	return adjustments
}
