// Package models implements the five Bayesian rating models sharing one
// update skeleton: Plackett-Luce (the default), Bradley-Terry full and
// partial pairing, and Thurstone-Mosteller full and partial pairing.
// A Model is immutable after construction; every call deep-copies its
// inputs, so concurrent use of one Model is race-free.
package models

import (
	"fmt"
	"math"

	"github.com/erdostom/openskill/internal/domain/rating"
	"github.com/erdostom/openskill/internal/domain/team"
)

// Team is an ordered sequence of player ratings forming one side of a match.
type Team = team.Team

// Model names accepted by New.
const (
	NamePlackettLuce           = "plackett_luce"
	NameBradleyTerryFull       = "bradley_terry_full"
	NameBradleyTerryPart       = "bradley_terry_part"
	NameThurstoneMostellerFull = "thurstone_mosteller_full"
	NameThurstoneMostellerPart = "thurstone_mosteller_part"
)

// Default model configuration.
const (
	defaultKappa      = 0.0001
	defaultEpsilon    = 0.1
	defaultWindowSize = 4
)

// GammaFunc weights the variance-shrink signal of one comparison. It
// receives the combined uncertainty scale c, the team count, the team's
// aggregate mean and variance, its members, its rank, and its normalized
// contribution weights (nil when no weights were supplied).
type GammaFunc func(c float64, teamCount int, mu, sigmaSq float64, members Team, rank float64, weights []float64) float64

// adjustment carries the accumulated mean-shift (omega) and
// variance-shrink (delta) signals for one team.
type adjustment struct {
	omega float64
	delta float64
}

// updateFunc computes per-team adjustments from rank-sorted team ratings.
type updateFunc func(m *Model, teams []team.Rating, weights [][]float64) []adjustment

// Model holds the immutable configuration of one rating model variant.
type Model struct {
	name       string
	mu         float64
	sigma      float64
	beta       float64
	betaSq     float64
	kappa      float64
	tau        float64
	margin     float64
	epsilon    float64
	limitSigma bool
	balance    bool
	windowSize int
	gamma      GammaFunc
	update     updateFunc
}

// Option applies a configuration option to a Model under construction.
type Option func(*Model)

// WithMu sets the initial rating mean.
func WithMu(mu float64) Option {
	return func(m *Model) { m.mu = mu }
}

// WithSigma sets the initial rating uncertainty.
func WithSigma(sigma float64) Option {
	return func(m *Model) {
		if sigma > 0 {
			m.sigma = sigma
		}
	}
}

// WithBeta sets the assumed performance variance scale.
func WithBeta(beta float64) Option {
	return func(m *Model) {
		if beta > 0 {
			m.beta = beta
		}
	}
}

// WithKappa sets the minimum-variance regularization floor.
func WithKappa(kappa float64) Option {
	return func(m *Model) {
		if kappa > 0 {
			m.kappa = kappa
		}
	}
}

// WithTau sets the per-match skill-drift factor added to sigma before
// every update.
func WithTau(tau float64) Option {
	return func(m *Model) {
		if tau >= 0 {
			m.tau = tau
		}
	}
}

// WithMargin sets the score-difference threshold beyond which an
// impressive-win bonus is applied. Zero disables the bonus.
func WithMargin(margin float64) Option {
	return func(m *Model) {
		if margin >= 0 {
			m.margin = margin
		}
	}
}

// WithEpsilon sets the draw margin used by the Thurstone-Mosteller
// variants. Other variants ignore it.
func WithEpsilon(epsilon float64) Option {
	return func(m *Model) {
		if epsilon > 0 {
			m.epsilon = epsilon
		}
	}
}

// WithWindowSize sets the number of neighboring-rank teams each team is
// compared against in the partial-pairing variants. Full-pairing variants
// ignore it.
func WithWindowSize(size int) Option {
	return func(m *Model) {
		if size > 0 {
			m.windowSize = size
		}
	}
}

// WithLimitSigma caps every post-match sigma at its pre-match value.
func WithLimitSigma(limit bool) Option {
	return func(m *Model) { m.limitSigma = limit }
}

// WithBalance enables intra-team outlier balancing during aggregation.
func WithBalance(balance bool) Option {
	return func(m *Model) { m.balance = balance }
}

// WithGamma replaces the comparison-weight function.
func WithGamma(gamma GammaFunc) Option {
	return func(m *Model) {
		if gamma != nil {
			m.gamma = gamma
		}
	}
}

// defaultGamma scales the variance shrink by sqrt(sigma_sq)/c.
func defaultGamma(c float64, _ int, _ float64, sigmaSq float64, _ Team, _ float64, _ []float64) float64 {
	return math.Sqrt(sigmaSq) / c
}

func newModel(name string, update updateFunc, opts []Option) *Model {
	m := &Model{
		name:       name,
		mu:         rating.DefaultMu,
		sigma:      rating.DefaultSigma,
		beta:       rating.DefaultMu / 6,
		kappa:      defaultKappa,
		tau:        rating.DefaultMu / 300,
		epsilon:    defaultEpsilon,
		windowSize: defaultWindowSize,
		gamma:      defaultGamma,
		update:     update,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.betaSq = m.beta * m.beta
	return m
}

// NewPlackettLuce creates the generalized Plackett-Luce model. It compares
// the whole field through one softmax-normalized strength vector and is the
// recommended default for fields with many teams.
func NewPlackettLuce(opts ...Option) *Model {
	return newModel(NamePlackettLuce, plackettLuceUpdate, opts)
}

// NewBradleyTerryFull creates the Bradley-Terry model with full pairing:
// every team is compared against every other team using the logistic
// pairwise comparison.
func NewBradleyTerryFull(opts ...Option) *Model {
	return newModel(NameBradleyTerryFull, bradleyTerryFullUpdate, opts)
}

// NewBradleyTerryPart creates the Bradley-Terry model with partial pairing:
// each team is compared only against a window of nearest-rank neighbors.
func NewBradleyTerryPart(opts ...Option) *Model {
	return newModel(NameBradleyTerryPart, bradleyTerryPartUpdate, opts)
}

// NewThurstoneMostellerFull creates the Thurstone-Mosteller model with full
// pairing, using the Gaussian truncated-moment comparison with draw margin
// epsilon.
func NewThurstoneMostellerFull(opts ...Option) *Model {
	return newModel(NameThurstoneMostellerFull, thurstoneMostellerFullUpdate, opts)
}

// NewThurstoneMostellerPart creates the Thurstone-Mosteller model with
// partial pairing.
func NewThurstoneMostellerPart(opts ...Option) *Model {
	return newModel(NameThurstoneMostellerPart, thurstoneMostellerPartUpdate, opts)
}

// New creates a model by name. Unknown names fail with ErrInvalidArgument.
func New(name string, opts ...Option) (*Model, error) {
	switch name {
	case NamePlackettLuce:
		return NewPlackettLuce(opts...), nil
	case NameBradleyTerryFull:
		return NewBradleyTerryFull(opts...), nil
	case NameBradleyTerryPart:
		return NewBradleyTerryPart(opts...), nil
	case NameThurstoneMostellerFull:
		return NewThurstoneMostellerFull(opts...), nil
	case NameThurstoneMostellerPart:
		return NewThurstoneMostellerPart(opts...), nil
	default:
		return nil, fmt.Errorf("unknown model %q: %w", name, ErrInvalidArgument)
	}
}

// Name returns the model's name.
func (m *Model) Name() string {
	return m.name
}

// NewRating creates a Rating seeded with the model's initial mu and sigma;
// options may override either and set a display name.
func (m *Model) NewRating(opts ...rating.Option) rating.Rating {
	base := []rating.Option{rating.WithMu(m.mu), rating.WithSigma(m.sigma)}
	return rating.New(append(base, opts...)...)
}

// LoadRating reconstructs a Rating from a stored [mu, sigma] pair. Anything
// other than a 2-element pair of finite numbers with sigma > 0 fails with
// ErrInvalidArgument.
func (m *Model) LoadRating(pair []float64, opts ...rating.Option) (rating.Rating, error) {
	if len(pair) != 2 {
		return rating.Rating{}, fmt.Errorf("rating payload must be a [mu, sigma] pair, got %d elements: %w", len(pair), ErrInvalidArgument)
	}
	mu, sigma := pair[0], pair[1]
	if !isFinite(mu) || !isFinite(sigma) {
		return rating.Rating{}, fmt.Errorf("rating payload must be finite: %w", ErrInvalidArgument)
	}
	if sigma <= 0 {
		return rating.Rating{}, fmt.Errorf("rating sigma must be positive: %w", ErrInvalidArgument)
	}
	base := []rating.Option{rating.WithMu(mu), rating.WithSigma(sigma)}
	return rating.New(append(base, opts...)...), nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
