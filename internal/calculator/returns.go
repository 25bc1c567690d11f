// Package calculator implements the analytics engine: windowed returns,
// threshold events, technical indicators and drawdown episodes. Every
// function is pure over an immutable input series.
package calculator

import (
	"github.com/guregu/null/v6"

	"IndexSentinel/internal/calendar"
	"IndexSentinel/internal/model"
)

// PctChange returns values[i]/values[i-lag] - 1; the first lag cells and
// zero denominators are undefined.
func PctChange(values []float64, lag int) []null.Float {
	if lag < 1 {
		lag = 1
	}
	out := make([]null.Float, len(values))
	for i := lag; i < len(values); i++ {
		if values[i-lag] == 0 {
			continue
		}
		out[i] = defined(values[i]/values[i-lag] - 1)
	}
	return out
}

// WindowedReturns pairs every observation with the last observation on or
// before its weekend-aware window end and returns the fractional change.
// A window of one day falls back to the adjacent-record change.
func WindowedReturns(series model.Series, windowDays int) []null.Float {
	if windowDays < 1 {
		windowDays = 1
	}
	if windowDays == 1 {
		return PctChange(series.Values(), 1)
	}

	out := make([]null.Float, len(series))
	if len(series) == 0 {
		return out
	}
	idx := calendar.NewTradingDayIndex(series.Dates())
	for i, obs := range series {
		end := calendar.ResolveEnd(obs.Time, windowDays)
		j, ok := idx.LastOnOrBefore(end)
		if !ok || j <= i || obs.Value == 0 {
			continue
		}
		out[i] = defined(series[j].Value/obs.Value - 1)
	}
	return out
}
