package collector

import (
	"math"
	"sort"
	"time"

	"IndexSentinel/internal/calendar"
	"IndexSentinel/internal/model"
)

// Normalize validates raw observations into a series: records without a
// timestamp or with a non-finite value are dropped, the rest are sorted and
// each calendar day keeps only its chronologically last record.
func Normalize(symbol string, raw []model.Observation) *model.Ingest {
	in := &model.Ingest{Symbol: symbol, Total: len(raw), FetchedAt: time.Now().UTC()}

	valid := make([]model.Observation, 0, len(raw))
	for _, o := range raw {
		if o.Time.IsZero() || math.IsNaN(o.Value) || math.IsInf(o.Value, 0) {
			in.Dropped++
			continue
		}
		valid = append(valid, o)
	}
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Time.Before(valid[j].Time) })

	series := make(model.Series, 0, len(valid))
	for _, o := range valid {
		if n := len(series); n > 0 && calendar.Day(series[n-1].Time).Equal(calendar.Day(o.Time)) {
			series[n-1] = o
			in.Merged++
			continue
		}
		series = append(series, o)
	}
	in.Series = series
	return in
}

// NormalizeBars is Normalize over the close prices of candlestick bars.
func NormalizeBars(symbol string, bars []model.OHLCV) *model.Ingest {
	return Normalize(symbol, model.FromBars(bars))
}
