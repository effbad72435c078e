// Package statistics provides the closed-form statistical primitives used
// by the rating models: standard-normal CDF/PDF/inverse-CDF and the
// truncated-Gaussian moment functions.
package statistics

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// stdNormal is the standard normal distribution shared by all helpers.
// distuv.Normal is a value type with no mutable state, so concurrent use
// is safe.
var stdNormal = distuv.Normal{Mu: 0, Sigma: 1} //nolint:gochecknoglobals // stateless distribution value

// CDF returns the standard normal cumulative distribution at x.
func CDF(x float64) float64 {
	return stdNormal.CDF(x)
}

// PDF returns the standard normal density at x.
func PDF(x float64) float64 {
	return stdNormal.Prob(x)
}

// InvCDF returns the standard normal quantile for probability p.
func InvCDF(p float64) float64 {
	return stdNormal.Quantile(p)
}
