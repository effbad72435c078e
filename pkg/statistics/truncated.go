package statistics

import "math"

// Guard thresholds for the truncated moment functions. When the probability
// mass of the truncation interval drops below these values the closed forms
// divide by ~0, so linear/constant fallbacks are returned instead.
const massEpsilon = 1e-5

// epsilon is the double-precision machine epsilon.
var epsilon = math.Nextafter(1, 2) - 1 //nolint:gochecknoglobals // numeric constant

// V is the additive correction for a singly-truncated normal: the mean of a
// standard normal conditioned on exceeding t-x, expressed at the margin t.
func V(x, t float64) float64 {
	xt := x - t
	denom := CDF(xt)
	if denom < epsilon {
		return -xt
	}
	return PDF(xt) / denom
}

// W is the multiplicative (variance) correction matching V.
func W(x, t float64) float64 {
	xt := x - t
	denom := CDF(xt)
	if denom < epsilon {
		if x < 0 {
			return 1
		}
		return 0
	}
	v := V(x, t)
	return v * (v + xt)
}

// VT is the additive correction for a doubly-truncated normal over the
// symmetric interval [-t-|x|, t-|x|], used for draw outcomes.
func VT(x, t float64) float64 {
	xx := math.Abs(x)
	b := CDF(t-xx) - CDF(-t-xx)
	if b < massEpsilon {
		if x < 0 {
			return -x - t
		}
		return -x + t
	}
	a := PDF(-t-xx) - PDF(t-xx)
	if x < 0 {
		return -a / b
	}
	return a / b
}

// WT is the multiplicative (variance) correction matching VT.
func WT(x, t float64) float64 {
	xx := math.Abs(x)
	b := CDF(t-xx) - CDF(-t-xx)
	if b < epsilon {
		return 1.0
	}
	vt := VT(x, t)
	return ((t-xx)*PDF(t-xx)+(t+xx)*PDF(-t-xx))/b + vt*vt
}
