// Package alert scores the market condition of an analysis report and
// evaluates alert rules against it.
package alert

import (
	"fmt"
	"math"

	"IndexSentinel/internal/model"
)

// Conditions maps a total score to a label, highest threshold first.
var Conditions = []struct {
	MinScore float64
	Label    string
}{
	{1.2, "Deep discount"},
	{0.6, "Discount"},
	{-0.6, "Neutral"},
	{-1.2, "Stretched"},
}

// DefaultCondition is the label for scores below every threshold.
const DefaultCondition = "Overheated"

func mapCondition(totalScore float64) string {
	for _, c := range Conditions {
		if totalScore >= c.MinScore {
			return c.Label
		}
	}
	return DefaultCondition
}

// DepthTiers names an open drawdown by depth, deepest first.
var DepthTiers = []struct {
	MinPct   float64
	Label    string
	Severity model.Severity
}{
	{0.20, "bear market", model.SeverityCritical},
	{0.10, "correction", model.SeverityWarning},
	{0.05, "pullback", model.SeverityInfo},
}

// Rules holds the alert thresholds. Fractions, not percent.
type Rules struct {
	WindowDays    int
	MoveThreshold float64
	Direction     model.Direction
	DrawdownPct   float64
	RSIOverbought float64
	RSIOversold   float64
}

// DefaultRules returns the rules used when nothing is configured.
func DefaultRules() Rules {
	return Rules{
		WindowDays:    5,
		MoveThreshold: 0.05,
		Direction:     model.DirectionDrop,
		DrawdownPct:   0.05,
		RSIOverbought: 70,
		RSIOversold:   30,
	}
}

// Assess scores the latest indicator snapshot and evaluates the rules.
func Assess(r *model.Report, rules Rules) *model.Assessment {
	factors := []model.FactorScore{
		scoreTrend(r.Latest),
		scoreMomentum(r.Latest),
		scoreDrawdown(r.Latest),
		scoreBands(r.Latest),
	}
	total := 0.0
	for _, f := range factors {
		total += f.Weighted
	}
	return &model.Assessment{
		Factors:    factors,
		TotalScore: total,
		Condition:  mapCondition(total),
		Alerts:     Evaluate(r, rules),
	}
}

// Evaluate returns every alert that fires for the report.
func Evaluate(r *model.Report, rules Rules) []model.Alert {
	var alerts []model.Alert
	add := func(kind model.AlertKind, sev model.Severity, value float64, msg string) {
		alerts = append(alerts, model.Alert{
			Symbol:   r.Symbol,
			Kind:     kind,
			Severity: sev,
			Value:    value,
			Message:  msg,
			At:       r.End,
		})
	}

	if ret, at, ok := r.LatestReturn(); ok && rules.MoveThreshold > 0 {
		breach := ret <= -rules.MoveThreshold
		if rules.Direction == model.DirectionGain {
			breach = ret >= rules.MoveThreshold
		}
		if breach {
			sev := model.SeverityWarning
			if math.Abs(ret) >= 2*rules.MoveThreshold {
				sev = model.SeverityCritical
			}
			add(model.AlertWindowMove, sev, ret, fmt.Sprintf("%d-day move of %+.2f%% from %s",
				r.Event.WindowDays, ret*100, at.Format("2006-01-02")))
		}
	}

	if ep, ok := r.OpenEpisode(); ok {
		depth := -ep.DrawdownPct
		if depth >= rules.DrawdownPct {
			for _, tier := range DepthTiers {
				if depth >= tier.MinPct {
					add(model.AlertDrawdown, tier.Severity, ep.DrawdownPct,
						fmt.Sprintf("%s: %.2f%% below the %s peak", tier.Label, depth*100, ep.PeakDate.Format("2006-01-02")))
					break
				}
			}
			if depth < DepthTiers[len(DepthTiers)-1].MinPct {
				add(model.AlertDrawdown, model.SeverityInfo, ep.DrawdownPct,
					fmt.Sprintf("%.2f%% below the %s peak", depth*100, ep.PeakDate.Format("2006-01-02")))
			}
		}
	}

	if rsi := r.Latest.RSI14; rsi.Valid {
		switch {
		case rules.RSIOverbought > 0 && rsi.Float64 >= rules.RSIOverbought:
			add(model.AlertRSIOverbought, model.SeverityWarning, rsi.Float64, fmt.Sprintf("RSI(14) %.1f overbought", rsi.Float64))
		case rules.RSIOversold > 0 && rsi.Float64 <= rules.RSIOversold:
			add(model.AlertRSIOversold, model.SeverityWarning, rsi.Float64, fmt.Sprintf("RSI(14) %.1f oversold", rsi.Float64))
		}
	}

	if pos := r.Latest.BBPosition; pos.Valid {
		switch {
		case pos.Float64 > 0.5:
			add(model.AlertBandBreak, model.SeverityInfo, pos.Float64, "closed above the upper Bollinger band")
		case pos.Float64 < -0.5:
			add(model.AlertBandBreak, model.SeverityInfo, pos.Float64, "closed below the lower Bollinger band")
		}
	}
	return alerts
}
