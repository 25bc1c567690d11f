package alert

import (
	"testing"
	"time"

	"github.com/guregu/null/v6"

	"IndexSentinel/internal/model"
)

func reportWithOpenDrawdown(dd float64) *model.Report {
	peak := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &model.Report{
		Symbol: "SPX",
		End:    peak.AddDate(0, 0, 30),
		Episodes: []model.Episode{{
			PeakDate:    peak,
			PeakValue:   100,
			TroughValue: 100 * (1 + dd),
			DrawdownPct: dd,
			Open:        true,
		}},
	}
}

func findAlert(alerts []model.Alert, kind model.AlertKind) (model.Alert, bool) {
	for _, a := range alerts {
		if a.Kind == kind {
			return a, true
		}
	}
	return model.Alert{}, false
}

func TestEvaluate_DrawdownTiers(t *testing.T) {
	tests := []struct {
		dd       float64
		severity model.Severity
		fires    bool
	}{
		{-0.25, model.SeverityCritical, true},
		{-0.20, model.SeverityCritical, true},
		{-0.12, model.SeverityWarning, true},
		{-0.06, model.SeverityInfo, true},
		{-0.03, "", false},
	}
	for _, tt := range tests {
		alerts := Evaluate(reportWithOpenDrawdown(tt.dd), DefaultRules())
		a, ok := findAlert(alerts, model.AlertDrawdown)
		if ok != tt.fires {
			t.Fatalf("dd %.2f: fired=%v, want %v", tt.dd, ok, tt.fires)
		}
		if ok && a.Severity != tt.severity {
			t.Errorf("dd %.2f: severity %s, want %s", tt.dd, a.Severity, tt.severity)
		}
	}
}

func TestEvaluate_LowerDrawdownRule(t *testing.T) {
	rules := DefaultRules()
	rules.DrawdownPct = 0.02
	a, ok := findAlert(Evaluate(reportWithOpenDrawdown(-0.03), rules), model.AlertDrawdown)
	if !ok {
		t.Fatal("expected drawdown alert below the pullback tier")
	}
	if a.Severity != model.SeverityInfo {
		t.Errorf("expected info severity, got %s", a.Severity)
	}
}

func TestEvaluate_WindowMove(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := &model.Report{
		Symbol:  "SPX",
		Series:  model.Series{{Time: start, Value: 100}, {Time: start.AddDate(0, 0, 1), Value: 88}},
		Returns: []null.Float{null.FloatFrom(-0.12), {}},
		Event:   model.EventSummary{WindowDays: 5},
	}
	a, ok := findAlert(Evaluate(r, DefaultRules()), model.AlertWindowMove)
	if !ok {
		t.Fatal("expected window move alert")
	}
	if a.Severity != model.SeverityCritical {
		t.Errorf("a move twice the threshold should be critical, got %s", a.Severity)
	}

	gain := DefaultRules()
	gain.Direction = model.DirectionGain
	if _, ok := findAlert(Evaluate(r, gain), model.AlertWindowMove); ok {
		t.Error("a drop must not fire a gain rule")
	}
}

func TestEvaluate_RSIAndBands(t *testing.T) {
	r := &model.Report{Symbol: "SPX"}
	r.Latest.RSI14 = null.FloatFrom(82)
	r.Latest.BBPosition = null.FloatFrom(0.7)
	alerts := Evaluate(r, DefaultRules())
	if _, ok := findAlert(alerts, model.AlertRSIOverbought); !ok {
		t.Error("expected overbought alert")
	}
	if _, ok := findAlert(alerts, model.AlertBandBreak); !ok {
		t.Error("expected band break alert")
	}

	r.Latest.RSI14 = null.FloatFrom(50)
	r.Latest.BBPosition = null.FloatFrom(0)
	if alerts := Evaluate(r, DefaultRules()); len(alerts) != 0 {
		t.Errorf("expected no alerts, got %d", len(alerts))
	}
}

func TestAssess_Stretched(t *testing.T) {
	r := &model.Report{Symbol: "SPX"}
	r.Latest = model.MarketIndicators{
		CurrentPrice: 110,
		SMA5:         null.FloatFrom(110),
		SMA20:        null.FloatFrom(100),
		RSI14:        null.FloatFrom(85),
		Drawdown:     null.FloatFrom(0),
		BBPosition:   null.FloatFrom(0.6),
	}
	a := Assess(r, DefaultRules())
	if len(a.Factors) != 4 {
		t.Fatalf("expected 4 factors, got %d", len(a.Factors))
	}
	if a.TotalScore > -1.2 {
		t.Errorf("expected a stretched score, got %.3f", a.TotalScore)
	}
	if a.Condition != DefaultCondition {
		t.Errorf("expected %q, got %q", DefaultCondition, a.Condition)
	}
}

func TestAssess_UndefinedIndicators(t *testing.T) {
	a := Assess(&model.Report{Symbol: "SPX"}, DefaultRules())
	if a.Factors[0].RawScore != 0 || a.Factors[1].RawScore != 0 || a.Factors[3].RawScore != 0 {
		t.Error("undefined indicators should score zero")
	}
}

func TestMapCondition_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		label string
	}{
		{2.0, "Deep discount"},
		{1.2, "Deep discount"},
		{0.6, "Discount"},
		{0.0, "Neutral"},
		{-0.6, "Neutral"},
		{-1.0, "Stretched"},
		{-1.2, "Stretched"},
		{-1.3, "Overheated"},
	}
	for _, tt := range tests {
		if got := mapCondition(tt.score); got != tt.label {
			t.Errorf("score %.1f: expected %q, got %q", tt.score, tt.label, got)
		}
	}
}
