package calculator

import (
	"math"

	"github.com/guregu/null/v6"
)

// defined wraps finite values; NaN and ±Inf become undefined.
func defined(v float64) null.Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return null.Float{}
	}
	return null.FloatFrom(v)
}

func toNull(values []float64) []null.Float {
	out := make([]null.Float, len(values))
	for i, v := range values {
		out[i] = defined(v)
	}
	return out
}

// rolling applies fn to each full window of consecutive defined values.
// Cells whose window is short or contains an undefined value stay undefined.
func rolling(xs []null.Float, window int, fn func(win []float64) (float64, bool)) []null.Float {
	out := make([]null.Float, len(xs))
	if window < 1 {
		window = 1
	}
	buf := make([]float64, window)
	run := 0
	for i, x := range xs {
		if !x.Valid {
			run = 0
			continue
		}
		run++
		if run < window {
			continue
		}
		for k := 0; k < window; k++ {
			buf[k] = xs[i-window+1+k].Float64
		}
		if v, ok := fn(buf); ok {
			out[i] = defined(v)
		}
	}
	return out
}

func mean(win []float64) (float64, bool) {
	if len(win) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range win {
		sum += v
	}
	return sum / float64(len(win)), true
}

// sampleStd is the n-1 standard deviation; undefined below two values.
func sampleStd(win []float64) (float64, bool) {
	if len(win) < 2 {
		return 0, false
	}
	m, _ := mean(win)
	ss := 0.0
	for _, v := range win {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(win)-1)), true
}

func maxOf(win []float64) (float64, bool) {
	if len(win) == 0 {
		return 0, false
	}
	m := win[0]
	for _, v := range win[1:] {
		if v > m {
			m = v
		}
	}
	return m, true
}

func rollingMean(xs []null.Float, window int) []null.Float { return rolling(xs, window, mean) }
func rollingStd(xs []null.Float, window int) []null.Float  { return rolling(xs, window, sampleStd) }
func rollingMax(xs []null.Float, window int) []null.Float  { return rolling(xs, window, maxOf) }

// combine evaluates fn cell by cell where both inputs are defined.
func combine(a, b []null.Float, fn func(x, y float64) (float64, bool)) []null.Float {
	out := make([]null.Float, len(a))
	for i := range a {
		if i >= len(b) || !a[i].Valid || !b[i].Valid {
			continue
		}
		if v, ok := fn(a[i].Float64, b[i].Float64); ok {
			out[i] = defined(v)
		}
	}
	return out
}

func sub(x, y float64) (float64, bool) { return x - y, true }

// ratioLessOne is x/y - 1, undefined for y == 0.
func ratioLessOne(x, y float64) (float64, bool) {
	if y == 0 {
		return 0, false
	}
	return x/y - 1, true
}

// diff is the first difference; position 0 is undefined.
func diff(xs []null.Float) []null.Float {
	out := make([]null.Float, len(xs))
	for i := 1; i < len(xs); i++ {
		if xs[i].Valid && xs[i-1].Valid {
			out[i] = defined(xs[i].Float64 - xs[i-1].Float64)
		}
	}
	return out
}

// cumMax is the running maximum over defined values.
func cumMax(xs []null.Float) []null.Float {
	out := make([]null.Float, len(xs))
	seen := false
	peak := 0.0
	for i, x := range xs {
		if !x.Valid {
			continue
		}
		if !seen || x.Float64 > peak {
			peak = x.Float64
			seen = true
		}
		out[i] = null.FloatFrom(peak)
	}
	return out
}

// alias returns an independent copy of a channel.
func alias(xs []null.Float) []null.Float {
	out := make([]null.Float, len(xs))
	copy(out, xs)
	return out
}
