package model

import "time"

// Severity ranks an alert.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// AlertKind indicates which rule fired.
type AlertKind string

const (
	AlertWindowMove    AlertKind = "WINDOW_MOVE"
	AlertDrawdown      AlertKind = "DRAWDOWN"
	AlertRSIOverbought AlertKind = "RSI_OVERBOUGHT"
	AlertRSIOversold   AlertKind = "RSI_OVERSOLD"
	AlertBandBreak     AlertKind = "BAND_BREAK"
)

// Alert is one rule firing against a report.
type Alert struct {
	Symbol   string    `json:"symbol"`
	Kind     AlertKind `json:"kind"`
	Severity Severity  `json:"severity"`
	Value    float64   `json:"value"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

// FactorScore represents a single factor's scoring result.
type FactorScore struct {
	Name       string  `json:"name"`
	RawScore   float64 `json:"raw_score"`
	Weight     float64 `json:"weight"`
	Weighted   float64 `json:"weighted"`
	Commentary string  `json:"commentary"`
}

// Assessment is the scored market condition plus the alerts that fired.
type Assessment struct {
	Factors    []FactorScore `json:"factors"`
	TotalScore float64       `json:"total_score"`
	Condition  string        `json:"condition"`
	Alerts     []Alert       `json:"alerts"`
}
