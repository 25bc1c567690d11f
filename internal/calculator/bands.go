package calculator

import "github.com/guregu/null/v6"

// Bands holds Bollinger band channels.
type Bands struct {
	Mid, Upper, Lower, Width, Position []null.Float
}

// Bollinger computes mid ± k·σ over window using the sample deviation,
// with width (upper-lower)/mid and position (price-mid)/(upper-lower).
func Bollinger(prices []null.Float, window int, k float64) Bands {
	mid := rollingMean(prices, window)
	sd := rollingStd(prices, window)

	upper := combine(mid, sd, func(m, s float64) (float64, bool) { return m + k*s, true })
	lower := combine(mid, sd, func(m, s float64) (float64, bool) { return m - k*s, true })
	spread := combine(upper, lower, sub)

	width := combine(spread, mid, func(w, m float64) (float64, bool) {
		if m == 0 {
			return 0, false
		}
		return w / m, true
	})
	offset := combine(prices, mid, sub)
	position := combine(offset, spread, func(o, w float64) (float64, bool) {
		if w == 0 {
			return 0, false
		}
		return o / w, true
	})

	return Bands{Mid: mid, Upper: upper, Lower: lower, Width: width, Position: position}
}
