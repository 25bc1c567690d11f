package model

import (
	"fmt"
	"strings"

	"github.com/guregu/null/v6"
)

// Direction selects which side of the threshold counts as an event.
type Direction string

const (
	DirectionDrop Direction = "drop"
	DirectionGain Direction = "gain"
)

// ParseDirection accepts "drop"/"gain" (and "down"/"up") case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drop", "down", "":
		return DirectionDrop, nil
	case "gain", "up":
		return DirectionGain, nil
	default:
		return "", fmt.Errorf("unknown direction %q", s)
	}
}

// EventSummary is the outcome of counting threshold crossings.
type EventSummary struct {
	WindowDays  int       `json:"window_days"`
	Threshold   float64   `json:"threshold"`
	Direction   Direction `json:"direction"`
	Events      int       `json:"events"`
	Defined     int       `json:"defined"`
	Probability float64   `json:"probability"`
}

// Label renders the summary key the way analysts quote it, e.g. "5 days and 3% minimum percentage drop".
func (e EventSummary) Label() string {
	return fmt.Sprintf("%d days and %.0f%% minimum percentage %s", e.WindowDays, e.Threshold*100, e.Direction)
}

// ReturnStats describes the defined values of a return series.
type ReturnStats struct {
	Count  int        `json:"count"`
	Mean   null.Float `json:"mean"`
	StdDev null.Float `json:"std"`
	Min    null.Float `json:"min"`
	Q25    null.Float `json:"q25"`
	Median null.Float `json:"median"`
	Q75    null.Float `json:"q75"`
	Max    null.Float `json:"max"`
}

// CrossReport compares the windowed returns of two series.
type CrossReport struct {
	WindowDays  int         `json:"window_days"`
	Points      int         `json:"points"`
	Correlation null.Float  `json:"correlation"`
	StatsA      ReturnStats `json:"stats_a"`
	StatsB      ReturnStats `json:"stats_b"`
}
