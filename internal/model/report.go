package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// AnalysisParams is one set of request parameters.
type AnalysisParams struct {
	WindowDays     int
	Threshold      float64
	Direction      Direction
	MinDrawdownPct float64   // episodes shallower than this are filtered out
	Sweep          []float64 // thresholds for the events-by-threshold table
	RangePreset    string
	RangeStart     time.Time
	RangeEnd       time.Time
	SnapMonth      bool
}

// Report is the full output of one analysis request.
type Report struct {
	Symbol       string           `json:"symbol"`
	GeneratedAt  time.Time        `json:"generated_at"`
	Start        time.Time        `json:"start"`
	End          time.Time        `json:"end"`
	Observations int              `json:"observations"`
	Series       Series           `json:"-"`
	Returns      []null.Float     `json:"returns,omitempty"`
	Event        EventSummary     `json:"event"`
	Sweep        []EventSummary   `json:"sweep"`
	ReturnStats  ReturnStats      `json:"return_stats"`
	Latest       MarketIndicators `json:"latest"`
	Frame        *IndicatorFrame  `json:"frame,omitempty"`
	Episodes     []Episode        `json:"episodes"`
	Drawdowns    DrawdownSummary  `json:"drawdowns"`
}

// OpenEpisode returns the trailing open drawdown, if any.
func (r *Report) OpenEpisode() (Episode, bool) {
	if n := len(r.Episodes); n > 0 && r.Episodes[n-1].Open {
		return r.Episodes[n-1], true
	}
	return Episode{}, false
}

// LatestReturn returns the most recent defined windowed return and the date its window starts on.
func (r *Report) LatestReturn() (float64, time.Time, bool) {
	for i := len(r.Returns) - 1; i >= 0; i-- {
		if !r.Returns[i].Valid {
			continue
		}
		var at time.Time
		if i < len(r.Series) {
			at = r.Series[i].Time
		}
		return r.Returns[i].Float64, at, true
	}
	return 0, time.Time{}, false
}
