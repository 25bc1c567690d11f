package calculator

import (
	"time"

	"IndexSentinel/internal/model"
)

// Analyze runs every component for one request and assembles the report.
// The caller's series is never modified; the report works on its own copy.
func Analyze(symbol string, series model.Series, p model.AnalysisParams) *model.Report {
	if p.WindowDays < 1 {
		p.WindowDays = 1
	}
	if p.Threshold < 0 {
		p.Threshold = 0
	}
	if p.Direction != model.DirectionGain {
		p.Direction = model.DirectionDrop
	}

	data := series.Clone()
	if len(series) > 0 {
		from, to := ResolveRange(p.RangePreset, p.RangeStart, p.RangeEnd,
			series[0].Time, series[len(series)-1].Time, p.SnapMonth)
		data = SliceRange(series, from, to)
	}

	r := &model.Report{
		Symbol:       symbol,
		GeneratedAt:  time.Now().UTC(),
		Observations: len(data),
		Series:       data,
	}
	if len(data) > 0 {
		r.Start = data[0].Time
		r.End = data[len(data)-1].Time
	}

	r.Returns = WindowedReturns(data, p.WindowDays)
	r.Event = CountEvents(r.Returns, p.Threshold, p.Direction)
	r.Event.WindowDays = p.WindowDays
	r.Sweep = SweepThresholds(r.Returns, p.Direction, p.Sweep)
	for i := range r.Sweep {
		r.Sweep[i].WindowDays = p.WindowDays
	}
	r.ReturnStats = Describe(r.Returns)

	r.Frame = DeriveIndicators(data)
	if latest, ok := r.Frame.Latest(); ok {
		r.Latest = latest
	}

	r.Episodes = FilterEpisodes(ScanDrawdowns(data), p.MinDrawdownPct)
	r.Drawdowns = SummarizeEpisodes(r.Episodes)
	return r
}
