package recorder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"IndexSentinel/internal/calculator"
	"IndexSentinel/internal/model"
)

func sampleReport(t *testing.T) *model.Report {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	values := []float64{100, 95, 90, 85, 92, 101, 99}
	s := make(model.Series, len(values))
	for i, v := range values {
		s[i] = model.Observation{Time: start.AddDate(0, 0, i), Value: v}
	}
	return calculator.Analyze("SPX", s, model.AnalysisParams{WindowDays: 3, Threshold: 0.1})
}

func openMemory(t *testing.T) *SQLiteRecorder {
	t.Helper()
	rec, err := NewSQLiteRecorder(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Close() })
	return rec
}

func count(t *testing.T, rec *SQLiteRecorder, table, runID string) int {
	t.Helper()
	var n int
	require.NoError(t, rec.db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE run_id = ?", runID).Scan(&n))
	return n
}

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	rec := openMemory(t)
	rep := sampleReport(t)
	assessment := &model.Assessment{
		TotalScore: 0.4,
		Condition:  "Neutral",
		Alerts: []model.Alert{
			{Symbol: "SPX", Kind: model.AlertDrawdown, Severity: model.SeverityInfo, Value: -0.02, Message: "x"},
		},
	}

	id, err := rec.RecordRun(TriggerManual, rep, assessment)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	assert.Equal(t, len(rep.Sweep), count(t, rec, "event_sweeps", id))
	assert.Equal(t, 2, count(t, rec, "drawdown_episodes", id))
	assert.Equal(t, 1, count(t, rec, "alerts", id))

	var openRecovery, closedRecovery *int64
	require.NoError(t, rec.db.QueryRow(
		"SELECT days_to_recovery FROM drawdown_episodes WHERE run_id = ? AND is_open = 1", id).Scan(&openRecovery))
	require.NoError(t, rec.db.QueryRow(
		"SELECT days_to_recovery FROM drawdown_episodes WHERE run_id = ? AND is_open = 0", id).Scan(&closedRecovery))
	assert.Nil(t, openRecovery, "open episode stores NULL recovery")
	require.NotNil(t, closedRecovery)
	assert.Equal(t, int64(5), *closedRecovery)
}

func TestSQLiteRecorder_RecentRuns(t *testing.T) {
	rec := openMemory(t)
	rep := sampleReport(t)

	_, err := rec.RecordRun(TriggerDaily, rep, nil)
	require.NoError(t, err)
	last, err := rec.RecordRun(TriggerWeekly, rep, &model.Assessment{TotalScore: -1, Condition: "Stretched"})
	require.NoError(t, err)

	runs, err := rec.RecentRuns("SPX", 5)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	latest := runs[0]
	assert.Equal(t, last, latest.ID)
	assert.Equal(t, TriggerWeekly, latest.Trigger)
	assert.Equal(t, 7, latest.Observations)
	assert.Equal(t, 3, latest.WindowDays)
	assert.Equal(t, 1, latest.Events)
	assert.Equal(t, "Stretched", latest.Condition)
	assert.InDelta(t, -0.15, latest.MaxDrawdownPct, 1e-12)
	require.True(t, latest.OpenDrawdownPct.Valid)
	assert.InDelta(t, 99.0/101-1, latest.OpenDrawdownPct.Float64, 1e-12)

	assert.Equal(t, "", runs[1].Condition)

	none, err := rec.RecentRuns("NDX", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NewNoopRecorder()
	id, err := rec.RecordRun(TriggerManual, &model.Report{}, nil)
	assert.NoError(t, err)
	assert.Empty(t, id)
	runs, err := rec.RecentRuns("SPX", 1)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, rec.Close())
}
