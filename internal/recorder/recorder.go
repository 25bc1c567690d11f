package recorder

import (
	"time"

	"github.com/guregu/null/v6"

	"IndexSentinel/internal/model"
)

// Trigger names what started an analysis run.
type Trigger string

const (
	TriggerDaily   Trigger = "DAILY"
	TriggerWeekly  Trigger = "WEEKLY"
	TriggerManual  Trigger = "MANUAL"
	TriggerOneShot Trigger = "ONESHOT"
)

// RunSummary is one stored analysis run as read back for history views.
type RunSummary struct {
	ID              string
	Symbol          string
	Trigger         Trigger
	RanAt           time.Time
	Observations    int
	WindowDays      int
	Threshold       float64
	Direction       string
	Events          int
	Defined         int
	Probability     float64
	LatestPrice     float64
	MaxDrawdownPct  float64
	OpenDrawdownPct null.Float
	Score           float64
	Condition       string
	Alerts          int
}

// Recorder persists analysis history.
type Recorder interface {
	// RecordRun stores the report, its sweep, episodes and the assessment's
	// alerts as one run and returns the run ID.
	RecordRun(trigger Trigger, r *model.Report, a *model.Assessment) (string, error)
	RecentRuns(symbol string, limit int) ([]RunSummary, error)
	Close() error
}
