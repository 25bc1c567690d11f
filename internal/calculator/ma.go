package calculator

import "github.com/guregu/null/v6"

// SMA returns the rolling simple moving average; the first period-1 cells are undefined.
func SMA(xs []null.Float, period int) []null.Float {
	return rollingMean(xs, period)
}

// EMA returns the exponential moving average with smoothing 2/(span+1),
// seeded with the first defined value. Undefined inputs stay undefined and
// do not reset the recursion.
func EMA(xs []null.Float, span int) []null.Float {
	if span < 1 {
		span = 1
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out := make([]null.Float, len(xs))
	seeded := false
	prev := 0.0
	for i, x := range xs {
		if !x.Valid {
			continue
		}
		if !seeded {
			prev = x.Float64
			seeded = true
		} else {
			prev = alpha*x.Float64 + (1-alpha)*prev
		}
		out[i] = defined(prev)
	}
	return out
}
