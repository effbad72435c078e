// Package team aggregates the ratings of one team into a single Gaussian
// used by the model comparison algorithms.
package team

import (
	"github.com/erdostom/openskill/internal/domain/rating"
)

// Team is an ordered sequence of player ratings.
type Team []rating.Rating

// Clone returns a deep copy of the team. Rating is a value type, so the
// element copy carries mu, sigma, name, and identity token.
func (t Team) Clone() Team {
	out := make(Team, len(t))
	copy(out, t)
	return out
}

// Rating is the ephemeral per-match aggregate of one team: combined mean,
// combined variance, the member ratings in input order, and the team's
// assigned rank. It lives only for the duration of one rate/predict call.
type Rating struct {
	Mu      float64
	SigmaSq float64
	Team    Team
	Rank    float64

	// Score carries the raw team score when the match is score-driven;
	// the margin factor reads it. Zero otherwise.
	Score float64
}

// Aggregate combines members into a team Rating with the given rank.
// When balance is set, members further below the team's best performer
// carry a larger weight, amplifying the effect of intra-team skill gaps;
// kappa keeps the weight denominator away from zero.
func Aggregate(members Team, rank float64, balance bool, kappa float64) Rating {
	maxOrdinal := members[0].Ordinal()
	for _, m := range members[1:] {
		if o := m.Ordinal(); o > maxOrdinal {
			maxOrdinal = o
		}
	}

	var mu, sigmaSq float64
	for _, m := range members {
		w := 1.0
		if balance {
			w = 1 + (maxOrdinal-m.Ordinal())/(maxOrdinal+kappa)
		}
		mu += m.Mu * w
		sigmaSq += (m.Sigma * w) * (m.Sigma * w)
	}

	return Rating{
		Mu:      mu,
		SigmaSq: sigmaSq,
		Team:    members,
		Rank:    rank,
	}
}
