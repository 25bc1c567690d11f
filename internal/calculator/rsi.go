package calculator

import "github.com/guregu/null/v6"

// RSI computes the relative strength index from period-averaged gains and
// losses. A window without losses has no defined ratio and stays undefined.
// The first period cells are undefined (period changes need period+1 prices).
func RSI(prices []null.Float, period int) []null.Float {
	if period < 1 {
		period = 1
	}
	delta := diff(prices)
	gains := make([]null.Float, len(delta))
	losses := make([]null.Float, len(delta))
	for i, d := range delta {
		if !d.Valid {
			continue
		}
		if d.Float64 > 0 {
			gains[i] = null.FloatFrom(d.Float64)
			losses[i] = null.FloatFrom(0)
		} else {
			gains[i] = null.FloatFrom(0)
			losses[i] = null.FloatFrom(-d.Float64)
		}
	}
	avgGain := rollingMean(gains, period)
	avgLoss := rollingMean(losses, period)

	return combine(avgGain, avgLoss, func(g, l float64) (float64, bool) {
		if l == 0 {
			return 0, false
		}
		rs := g / l
		return 100.0 - 100.0/(1.0+rs), true
	})
}
