// Package rating defines the skill rating value object shared by every
// model: a Gaussian belief over a player's skill plus an optional display
// name and an identity token used to correlate a rating through copies.
package rating

import (
	"fmt"

	"github.com/google/uuid"
)

// Default rating parameters (mu 25, sigma 25/3).
const (
	DefaultMu    = 25.0
	DefaultSigma = DefaultMu / 3.0
)

// Default ordinal parameters.
const (
	defaultZ     = 3.0
	defaultAlpha = 1.0
)

// Rating is an immutable-by-convention skill belief. Copying the struct
// value is a deep copy; the identity token travels with every copy so a
// caller can correlate pre- and post-match instances. Equality is defined
// by (Mu, Sigma) only; the name and identity token never participate.
type Rating struct {
	Mu    float64
	Sigma float64
	Name  string
	id    string
}

// Option applies a configuration option to a new Rating.
type Option func(*Rating)

// WithMu sets the mean of the skill belief.
func WithMu(mu float64) Option {
	return func(r *Rating) {
		r.Mu = mu
	}
}

// WithSigma sets the uncertainty of the skill belief. Non-positive values
// are ignored to preserve the sigma > 0 invariant.
func WithSigma(sigma float64) Option {
	return func(r *Rating) {
		if sigma > 0 {
			r.Sigma = sigma
		}
	}
}

// WithName sets the display name.
func WithName(name string) Option {
	return func(r *Rating) {
		r.Name = name
	}
}

// New creates a Rating with default parameters, a fresh identity token,
// and any overrides applied.
func New(opts ...Option) Rating {
	r := Rating{
		Mu:    DefaultMu,
		Sigma: DefaultSigma,
		id:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// ID returns the identity token. It correlates a rating through copies and
// never participates in equality or ordering.
func (r Rating) ID() string {
	return r.id
}

// OrdinalOption adjusts the ordinal computation.
type OrdinalOption func(*ordinalParams)

type ordinalParams struct {
	z      float64
	alpha  float64
	target float64
}

// WithZ sets the number of standard deviations subtracted from the mean.
func WithZ(z float64) OrdinalOption {
	return func(p *ordinalParams) {
		p.z = z
	}
}

// WithAlpha sets the scaling factor applied to the conservative estimate.
func WithAlpha(alpha float64) OrdinalOption {
	return func(p *ordinalParams) {
		if alpha != 0 {
			p.alpha = alpha
		}
	}
}

// WithTarget shifts the ordinal so a rating at the default parameters maps
// near the target value.
func WithTarget(target float64) OrdinalOption {
	return func(p *ordinalParams) {
		p.target = target
	}
}

// Ordinal returns the conservative scalar estimate of the rating,
// alpha*((mu - z*sigma) + target/alpha). The default is the 3-sigma
// lower bound of the skill belief.
func (r Rating) Ordinal(opts ...OrdinalOption) float64 {
	p := ordinalParams{z: defaultZ, alpha: defaultAlpha}
	for _, opt := range opts {
		opt(&p)
	}
	return p.alpha * ((r.Mu - p.z*r.Sigma) + p.target/p.alpha)
}

// Equal reports value equality: same (Mu, Sigma). Comparing against
// anything that is not a Rating is simply not-equal, so Equal never fails.
func (r Rating) Equal(other any) bool {
	o, ok := other.(Rating)
	if !ok {
		return false
	}
	return r.Mu == o.Mu && r.Sigma == o.Sigma
}

// Compare orders two ratings by ordinal: -1 if r ranks below other, 0 if
// equal, +1 if above. Unlike Equal, ordering against a non-Rating operand
// fails with ErrInvalidArgument.
func (r Rating) Compare(other any) (int, error) {
	o, ok := other.(Rating)
	if !ok {
		return 0, fmt.Errorf("cannot order rating against %T: %w", other, ErrInvalidArgument)
	}
	a, b := r.Ordinal(), o.Ordinal()
	switch {
	case a < b:
		return -1, nil
	case a > b:
		return 1, nil
	default:
		return 0, nil
	}
}
