package calculator

import (
	"strings"
	"time"

	"IndexSentinel/internal/calendar"
	"IndexSentinel/internal/model"
)

// Range presets.
const (
	RangeAll    = "all"
	RangeYTD    = "ytd"
	Range1Y     = "1y"
	Range3Y     = "3y"
	Range6M     = "6m"
	RangeCustom = "custom"
)

// ResolveRange turns a preset (or custom start/end) into a date range that
// lies within [dataMin, dataMax]. With snapMonth the range widens to whole
// months before clamping. An inverted range is swapped.
func ResolveRange(preset string, start, end, dataMin, dataMax time.Time, snapMonth bool) (time.Time, time.Time) {
	from, to := dataMin, dataMax

	switch strings.ToLower(preset) {
	case "", RangeAll:
	case RangeYTD:
		from = time.Date(dataMax.Year(), time.January, 1, 0, 0, 0, 0, dataMax.Location())
	case Range1Y:
		from = shiftMonths(dataMax, -12)
	case Range3Y:
		from = shiftMonths(dataMax, -36)
	case Range6M:
		from = shiftMonths(dataMax, -6)
	default:
		if !start.IsZero() {
			from = start
		}
		if !end.IsZero() {
			to = end
		}
	}

	if snapMonth {
		from = time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
		to = time.Date(to.Year(), to.Month()+1, 0, 0, 0, 0, 0, to.Location())
	}

	if from.Before(dataMin) {
		from = dataMin
	}
	if to.After(dataMax) {
		to = dataMax
	}
	if from.After(to) {
		from, to = to, from
	}
	return from, to
}

// shiftMonths moves t by months, clamping the day to the end of the target
// month (2024-02-29 minus a year is 2023-02-28, not 2023-03-01).
func shiftMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// SliceRange returns a copy of the observations whose calendar day lies in [start, end].
func SliceRange(series model.Series, start, end time.Time) model.Series {
	from, to := calendar.Day(start), calendar.Day(end)
	out := make(model.Series, 0, len(series))
	for _, obs := range series {
		d := calendar.Day(obs.Time)
		if d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, obs)
	}
	return out
}
