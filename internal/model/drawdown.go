package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// Episode is one peak -> trough -> recovery cycle.
// Recovery fields are invalid while the drawdown is still open.
type Episode struct {
	PeakDate       time.Time  `json:"peak_date"`
	PeakValue      float64    `json:"peak_value"`
	TroughDate     time.Time  `json:"trough_date"`
	TroughValue    float64    `json:"trough_value"`
	RecoveryDate   null.Time  `json:"recovery_date"`
	RecoveryValue  null.Float `json:"recovery_value"`
	DrawdownPct    float64    `json:"drawdown_pct"` // (trough - peak) / peak, never positive
	DaysToTrough   int        `json:"days_to_trough"`
	DaysToRecovery null.Int   `json:"days_to_recovery"`
	Open           bool       `json:"open"`
}

// DrawdownSummary aggregates a list of episodes.
type DrawdownSummary struct {
	Episodes        int        `json:"episodes"`
	Open            int        `json:"open"`
	AvgDrawdownPct  float64    `json:"avg_drawdown_pct"`
	MaxDrawdownPct  float64    `json:"max_drawdown_pct"`
	AvgRecoveryDays null.Float `json:"avg_recovery_days"`
}
