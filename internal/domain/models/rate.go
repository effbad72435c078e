package models

import (
	"fmt"
	"math"

	"github.com/erdostom/openskill/internal/domain/team"
	"github.com/erdostom/openskill/pkg/mathutil"
)

// Weight normalization interval: each team's weight vector is min-max
// normalized into [1, 2] so uniform weights collapse to all-ones.
const (
	weightFloor   = 1.0
	weightCeiling = 2.0
)

// rateOptions carries the per-call arguments of Rate.
type rateOptions struct {
	ranks      []float64
	scores     []float64
	weights    [][]float64
	tau        float64
	limitSigma bool
}

// RateOption applies a per-call option to Rate.
type RateOption func(*rateOptions)

// WithRanks assigns one rank per team; lower is better and equal ranks
// denote a draw. Mutually exclusive with WithScores.
func WithRanks(ranks []float64) RateOption {
	return func(o *rateOptions) { o.ranks = ranks }
}

// WithScores assigns one score per team; higher is better and equal scores
// denote a draw. Mutually exclusive with WithRanks.
func WithScores(scores []float64) RateOption {
	return func(o *rateOptions) { o.scores = scores }
}

// WithWeights assigns per-player contribution weights, one vector per team.
func WithWeights(weights [][]float64) RateOption {
	return func(o *rateOptions) { o.weights = weights }
}

// WithTauOverride overrides the model's tau for this call.
func WithTauOverride(tau float64) RateOption {
	return func(o *rateOptions) {
		if tau >= 0 {
			o.tau = tau
		}
	}
}

// WithLimitSigmaOverride overrides the model's limit-sigma setting for
// this call.
func WithLimitSigmaOverride(limit bool) RateOption {
	return func(o *rateOptions) { o.limitSigma = limit }
}

// Rate computes post-match ratings for the given teams. The input is never
// mutated: every Rating is deep-copied before the update and the returned
// structure has the same shape and order as the input. Validation is a
// complete pre-pass; a rejected call returns ErrInvalidArgument and leaves
// every input untouched.
func (m *Model) Rate(teams []Team, opts ...RateOption) ([]Team, error) {
	o := rateOptions{tau: m.tau, limitSigma: m.limitSigma}
	for _, opt := range opts {
		opt(&o)
	}

	if err := validateRateArgs(teams, &o); err != nil {
		return nil, err
	}

	n := len(teams)

	// Deep copy; the caller's ratings stay untouched from here on.
	processed := make([]Team, n)
	priorSigmas := make([][]float64, n)
	for i := range teams {
		processed[i] = teams[i].Clone()
		priorSigmas[i] = make([]float64, len(teams[i]))
		for j, r := range teams[i] {
			priorSigmas[i][j] = r.Sigma
		}
	}

	// Tau decay models skill drift between matches.
	if o.tau > 0 {
		tauSq := o.tau * o.tau
		for i := range processed {
			for j := range processed[i] {
				s := processed[i][j].Sigma
				processed[i][j].Sigma = math.Sqrt(s*s + tauSq)
			}
		}
	}

	ranks := o.ranks
	if o.scores != nil {
		ranks = ranksFromScores(o.scores)
	}
	if ranks == nil {
		ranks = make([]float64, n)
		for i := range ranks {
			ranks[i] = float64(i)
		}
	}

	var weights [][]float64
	if o.weights != nil {
		weights = make([][]float64, n)
		for i, w := range o.weights {
			weights[i] = mathutil.Normalize(w, weightFloor, weightCeiling)
		}
	}

	// Process in rank order; the permutation restores caller order at the
	// end. The sort is stable so tie groups keep their relative order.
	order := mathutil.Argsort(ranks)
	sortedTeams := mathutil.Apply(order, processed)
	sortedRanks := mathutil.Apply(order, ranks)
	sortedPrior := mathutil.Apply(order, priorSigmas)
	var sortedScores []float64
	if o.scores != nil {
		sortedScores = mathutil.Apply(order, o.scores)
	}
	var sortedWeights [][]float64
	if weights != nil {
		sortedWeights = mathutil.Apply(order, weights)
	}

	teamRatings := make([]team.Rating, n)
	for i := range sortedTeams {
		teamRatings[i] = team.Aggregate(sortedTeams[i], sortedRanks[i], m.balance, m.kappa)
		if sortedScores != nil {
			teamRatings[i].Score = sortedScores[i]
		}
	}

	adjustments := m.update(m, teamRatings, sortedWeights)

	// Split each team's omega/delta across its members proportional to the
	// member's share of the aggregate variance. High-contribution players
	// gain more on net-positive updates and lose less on negative ones.
	for i := range teamRatings {
		tr := &teamRatings[i]
		for j := range tr.Team {
			p := &tr.Team[j]
			w := 1.0
			if sortedWeights != nil {
				w = sortedWeights[i][j]
				if adjustments[i].omega < 0 {
					w = 1 / w
				}
			}
			sigmaSq := p.Sigma * p.Sigma
			p.Mu += sigmaSq / tr.SigmaSq * adjustments[i].omega * w
			p.Sigma *= math.Sqrt(math.Max(1-sigmaSq/tr.SigmaSq*adjustments[i].delta*w, m.kappa))
			if o.limitSigma && p.Sigma > sortedPrior[i][j] {
				p.Sigma = sortedPrior[i][j]
			}
		}
	}

	return mathutil.Restore(order, sortedTeams), nil
}

// validateRateArgs checks every argument before any copy or mutation.
func validateRateArgs(teams []Team, o *rateOptions) error {
	if len(teams) < 2 {
		return fmt.Errorf("need at least 2 teams, got %d: %w", len(teams), ErrInvalidArgument)
	}
	for i, t := range teams {
		if len(t) == 0 {
			return fmt.Errorf("team %d is empty: %w", i, ErrInvalidArgument)
		}
	}
	if o.ranks != nil && o.scores != nil {
		return fmt.Errorf("ranks and scores are mutually exclusive: %w", ErrInvalidArgument)
	}
	if o.ranks != nil {
		if len(o.ranks) != len(teams) {
			return fmt.Errorf("got %d ranks for %d teams: %w", len(o.ranks), len(teams), ErrInvalidArgument)
		}
		if !allFinite(o.ranks) {
			return fmt.Errorf("ranks must be finite numbers: %w", ErrInvalidArgument)
		}
	}
	if o.scores != nil {
		if len(o.scores) != len(teams) {
			return fmt.Errorf("got %d scores for %d teams: %w", len(o.scores), len(teams), ErrInvalidArgument)
		}
		if !allFinite(o.scores) {
			return fmt.Errorf("scores must be finite numbers: %w", ErrInvalidArgument)
		}
	}
	if o.weights != nil {
		if len(o.weights) != len(teams) {
			return fmt.Errorf("got %d weight vectors for %d teams: %w", len(o.weights), len(teams), ErrInvalidArgument)
		}
		for i, w := range o.weights {
			if len(w) != len(teams[i]) {
				return fmt.Errorf("got %d weights for the %d players of team %d: %w", len(w), len(teams[i]), i, ErrInvalidArgument)
			}
			if !allFinite(w) {
				return fmt.Errorf("weights must be finite numbers: %w", ErrInvalidArgument)
			}
		}
	}
	return nil
}

func allFinite(vals []float64) bool {
	for _, v := range vals {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// ranksFromScores converts scores (higher is better) to competition ranks
// (lower is better): tied scores collapse to the rank of the first sorted
// position at which that score appears, mirroring explicit tie semantics.
func ranksFromScores(scores []float64) []float64 {
	negated := make([]float64, len(scores))
	for i, s := range scores {
		negated[i] = -s
	}
	order := mathutil.Argsort(negated)
	ranks := make([]float64, len(scores))
	for k, idx := range order {
		if k > 0 && scores[idx] == scores[order[k-1]] {
			ranks[idx] = ranks[order[k-1]]
			continue
		}
		ranks[idx] = float64(k)
	}
	return ranks
}

// marginFactor scales the mean gap of a pairwise comparison when the score
// gap exceeds the configured margin, rewarding impressive wins
// logarithmically. Without scores (both zero) or without a margin it is 1.
func (m *Model) marginFactor(scoreI, scoreQ float64) float64 {
	if m.margin <= 0 {
		return 1
	}
	gap := math.Abs(scoreI - scoreQ)
	if gap <= m.margin {
		return 1
	}
	return math.Log1p(gap / m.margin)
}

// windowBounds returns the inclusive index range [lo, hi] of the rank
// window around position i: the size nearest neighbors, shifted inward at
// the field edges so the window never shrinks unless the field is smaller
// than the window.
func windowBounds(i, n, size int) (int, int) {
	if size >= n-1 {
		return 0, n - 1
	}
	lo := i - size/2
	hi := lo + size
	if lo < 0 {
		return 0, size
	}
	if hi > n-1 {
		return n - 1 - size, n - 1
	}
	return lo, hi
}
