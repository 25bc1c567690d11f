package calculator

import (
	"math"

	"github.com/guregu/null/v6"

	"IndexSentinel/internal/model"
)

type scanState int

const (
	seekingPeak scanState = iota
	trackingDecline
)

// ScanDrawdowns walks the series once and returns its peak -> trough ->
// recovery episodes in peak order. A decline still open at the end of the
// data is emitted last without recovery fields.
func ScanDrawdowns(series model.Series) []model.Episode {
	if len(series) < 2 {
		return nil
	}

	var episodes []model.Episode
	state := seekingPeak
	peak, trough := 0, 0

	for i := 1; i < len(series); i++ {
		v := series[i].Value
		switch state {
		case seekingPeak:
			if v >= series[peak].Value {
				peak = i
				continue
			}
			state = trackingDecline
			trough = i
		case trackingDecline:
			if v >= series[peak].Value {
				episodes = append(episodes, newEpisode(series, peak, trough, i))
				// the recovery point seeds the next peak search
				peak = i
				state = seekingPeak
				continue
			}
			if v < series[trough].Value {
				trough = i
			}
		}
	}

	if state == trackingDecline {
		episodes = append(episodes, newEpisode(series, peak, trough, -1))
	}
	return episodes
}

// newEpisode builds an episode; recovery < 0 marks it open.
func newEpisode(series model.Series, peak, trough, recovery int) model.Episode {
	p, t := series[peak], series[trough]
	ep := model.Episode{
		PeakDate:     p.Time,
		PeakValue:    p.Value,
		TroughDate:   t.Time,
		TroughValue:  t.Value,
		DaysToTrough: trough - peak,
		Open:         recovery < 0,
	}
	if p.Value != 0 {
		ep.DrawdownPct = (t.Value - p.Value) / p.Value
	}
	if recovery >= 0 {
		r := series[recovery]
		ep.RecoveryDate = null.TimeFrom(r.Time)
		ep.RecoveryValue = null.FloatFrom(r.Value)
		ep.DaysToRecovery = null.IntFrom(int64(recovery - peak))
	}
	return ep
}

// FilterEpisodes keeps episodes whose drawdown magnitude is at least minPct
// (a fraction, 0.05 = 5%). A non-positive minPct keeps everything.
func FilterEpisodes(episodes []model.Episode, minPct float64) []model.Episode {
	out := make([]model.Episode, 0, len(episodes))
	for _, ep := range episodes {
		if minPct > 0 && math.Abs(ep.DrawdownPct) < minPct {
			continue
		}
		out = append(out, ep)
	}
	return out
}

// SummarizeEpisodes aggregates episode depth and recovery time.
func SummarizeEpisodes(episodes []model.Episode) model.DrawdownSummary {
	s := model.DrawdownSummary{Episodes: len(episodes)}
	if len(episodes) == 0 {
		return s
	}
	var ddSum, recSum float64
	recovered := 0
	for _, ep := range episodes {
		ddSum += ep.DrawdownPct
		if ep.DrawdownPct < s.MaxDrawdownPct {
			s.MaxDrawdownPct = ep.DrawdownPct
		}
		if ep.Open {
			s.Open++
		}
		if ep.DaysToRecovery.Valid {
			recSum += float64(ep.DaysToRecovery.Int64)
			recovered++
		}
	}
	s.AvgDrawdownPct = ddSum / float64(len(episodes))
	if recovered > 0 {
		s.AvgRecoveryDays = null.FloatFrom(recSum / float64(recovered))
	}
	return s
}
