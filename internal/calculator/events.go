package calculator

import (
	"math"

	"github.com/guregu/null/v6"

	"IndexSentinel/internal/model"
)

// DefaultSweep is the 1%..10% threshold ladder.
var DefaultSweep = []float64{0.01, 0.02, 0.03, 0.04, 0.05, 0.06, 0.07, 0.08, 0.09, 0.10}

// CountEvents counts defined returns at or beyond threshold in the given
// direction. Undefined returns are excluded from the denominator; with no
// defined returns both count and probability are zero.
func CountEvents(returns []null.Float, threshold float64, dir model.Direction) model.EventSummary {
	if threshold < 0 || math.IsNaN(threshold) {
		threshold = 0
	}
	if dir != model.DirectionGain {
		dir = model.DirectionDrop
	}

	sum := model.EventSummary{Threshold: threshold, Direction: dir}
	for _, r := range returns {
		if !r.Valid {
			continue
		}
		sum.Defined++
		if isEvent(r.Float64, threshold, dir) {
			sum.Events++
		}
	}
	if sum.Defined > 0 {
		sum.Probability = float64(sum.Events) / float64(sum.Defined)
	}
	return sum
}

func isEvent(r, threshold float64, dir model.Direction) bool {
	if dir == model.DirectionGain {
		return r >= threshold
	}
	return r <= -threshold
}

// SweepThresholds counts events for each threshold in order.
func SweepThresholds(returns []null.Float, dir model.Direction, thresholds []float64) []model.EventSummary {
	if thresholds == nil {
		thresholds = DefaultSweep
	}
	out := make([]model.EventSummary, 0, len(thresholds))
	for _, t := range thresholds {
		out = append(out, CountEvents(returns, t, dir))
	}
	return out
}
