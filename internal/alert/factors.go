package alert

import (
	"fmt"

	"IndexSentinel/internal/model"
)

// Positive scores mean the index is cheap relative to its recent history,
// negative scores mean it is stretched.

// scoreTrend scores the SMA5/SMA20 gap.
// Weight: 0.30
func scoreTrend(ind model.MarketIndicators) model.FactorScore {
	const weight = 0.30
	if !ind.SMA5.Valid || !ind.SMA20.Valid || ind.SMA20.Float64 == 0 {
		return model.FactorScore{Name: "Trend", Weight: weight, Commentary: "SMA20 unavailable"}
	}
	gap := (ind.SMA5.Float64/ind.SMA20.Float64 - 1) * 100

	var score float64
	switch {
	case gap <= -5:
		score = 2.0
	case gap <= -2:
		score = 1.0
	case gap <= 0:
		score = 0.5
	case gap <= 2:
		score = 0
	case gap <= 5:
		score = -1.0
	default:
		score = -2.0
	}
	return model.FactorScore{
		Name:       "Trend",
		RawScore:   score,
		Weight:     weight,
		Weighted:   score * weight,
		Commentary: fmt.Sprintf("SMA5 vs SMA20 %+.1f%%", gap),
	}
}

// scoreMomentum scores RSI(14).
// Weight: 0.30
func scoreMomentum(ind model.MarketIndicators) model.FactorScore {
	const weight = 0.30
	if !ind.RSI14.Valid {
		return model.FactorScore{Name: "Momentum", Weight: weight, Commentary: "RSI undefined"}
	}
	rsi := ind.RSI14.Float64

	var score float64
	switch {
	case rsi <= 25:
		score = 2.0
	case rsi <= 30:
		score = 1.5
	case rsi <= 40:
		score = 1.0
	case rsi <= 45:
		score = 0.5
	case rsi <= 55:
		score = 0
	case rsi <= 60:
		score = -0.5
	case rsi <= 70:
		score = -1.0
	case rsi <= 80:
		score = -1.5
	default:
		score = -2.0
	}
	return model.FactorScore{
		Name:       "Momentum",
		RawScore:   score,
		Weight:     weight,
		Weighted:   score * weight,
		Commentary: fmt.Sprintf("RSI %.1f", rsi),
	}
}

// scoreDrawdown scores the distance below the running peak.
// Weight: 0.25
func scoreDrawdown(ind model.MarketIndicators) model.FactorScore {
	const weight = 0.25
	if !ind.Drawdown.Valid {
		return model.FactorScore{Name: "Drawdown", Weight: weight, Commentary: "no data"}
	}
	dd := -ind.Drawdown.Float64 * 100

	var score float64
	switch {
	case dd >= 20:
		score = 2.0
	case dd >= 10:
		score = 1.5
	case dd >= 5:
		score = 1.0
	case dd >= 2:
		score = 0.5
	case dd > 0:
		score = 0
	default:
		score = -0.5 // at the high
	}
	return model.FactorScore{
		Name:       "Drawdown",
		RawScore:   score,
		Weight:     weight,
		Weighted:   score * weight,
		Commentary: fmt.Sprintf("%.1f%% below peak", dd),
	}
}

// scoreBands scores the position inside the Bollinger bands, where ±0.5 are the bands.
// Weight: 0.15
func scoreBands(ind model.MarketIndicators) model.FactorScore {
	const weight = 0.15
	if !ind.BBPosition.Valid {
		return model.FactorScore{Name: "Bands", Weight: weight, Commentary: "bands undefined"}
	}
	pos := ind.BBPosition.Float64

	var score float64
	switch {
	case pos <= -0.5:
		score = 2.0
	case pos <= -0.25:
		score = 1.0
	case pos < 0.25:
		score = 0
	case pos < 0.5:
		score = -1.0
	default:
		score = -2.0
	}
	return model.FactorScore{
		Name:       "Bands",
		RawScore:   score,
		Weight:     weight,
		Weighted:   score * weight,
		Commentary: fmt.Sprintf("band position %+.2f", pos),
	}
}
