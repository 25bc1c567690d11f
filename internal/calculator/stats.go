package calculator

import (
	"math"
	"sort"

	"github.com/guregu/null/v6"

	"IndexSentinel/internal/calendar"
	"IndexSentinel/internal/model"
)

// Describe summarizes the defined values: count, mean, sample deviation and
// linear-interpolated quartiles.
func Describe(values []null.Float) model.ReturnStats {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if v.Valid {
			xs = append(xs, v.Float64)
		}
	}
	return describe(xs)
}

func describe(xs []float64) model.ReturnStats {
	st := model.ReturnStats{Count: len(xs)}
	if len(xs) == 0 {
		return st
	}
	m, _ := mean(xs)
	st.Mean = defined(m)
	if sd, ok := sampleStd(xs); ok {
		st.StdDev = defined(sd)
	}

	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	st.Min = defined(sorted[0])
	st.Q25 = defined(quantile(sorted, 0.25))
	st.Median = defined(quantile(sorted, 0.50))
	st.Q75 = defined(quantile(sorted, 0.75))
	st.Max = defined(sorted[len(sorted)-1])
	return st
}

// quantile interpolates linearly between closest ranks of sorted data.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Pearson returns the correlation coefficient of paired samples. It is
// undefined for fewer than two pairs or a constant sample.
func Pearson(xs, ys []float64) null.Float {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if n < 2 {
		return null.Float{}
	}
	mx, _ := mean(xs[:n])
	my, _ := mean(ys[:n])
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return null.Float{}
	}
	return defined(sxy / math.Sqrt(sxx*syy))
}

// CrossAnalyze joins the windowed returns of two series on calendar day and
// correlates the days where both are defined.
func CrossAnalyze(a, b model.Series, windowDays int) model.CrossReport {
	if windowDays < 1 {
		windowDays = 1
	}
	retA := WindowedReturns(a, windowDays)
	retB := WindowedReturns(b, windowDays)

	byDay := make(map[int64]float64, len(b))
	for i, obs := range b {
		if retB[i].Valid {
			byDay[calendar.Day(obs.Time).Unix()] = retB[i].Float64
		}
	}

	var xs, ys []float64
	for i, obs := range a {
		if !retA[i].Valid {
			continue
		}
		rb, ok := byDay[calendar.Day(obs.Time).Unix()]
		if !ok {
			continue
		}
		xs = append(xs, retA[i].Float64)
		ys = append(ys, rb)
	}

	return model.CrossReport{
		WindowDays:  windowDays,
		Points:      len(xs),
		Correlation: Pearson(xs, ys),
		StatsA:      describe(xs),
		StatsB:      describe(ys),
	}
}
