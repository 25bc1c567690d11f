package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"
	_ "modernc.org/sqlite"

	"IndexSentinel/internal/logger"
	"IndexSentinel/internal/model"
)

// SQLiteRecorder persists analysis history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps :memory: databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id                TEXT PRIMARY KEY,
			timestamp         INTEGER NOT NULL,
			symbol            TEXT NOT NULL,
			trigger_type      TEXT NOT NULL,
			range_start       INTEGER,
			range_end         INTEGER,
			observations      INTEGER,
			window_days       INTEGER,
			threshold         REAL,
			direction         TEXT,
			events            INTEGER,
			defined           INTEGER,
			probability       REAL,
			latest_price      REAL,
			rsi_14            REAL,
			drawdown          REAL,
			max_drawdown_pct  REAL,
			open_drawdown_pct REAL,
			total_score       REAL,
			condition_label   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol_ts ON analysis_runs(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS event_sweeps (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
			window_days INTEGER,
			threshold   REAL,
			direction   TEXT,
			events      INTEGER,
			defined     INTEGER,
			probability REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sweeps_run ON event_sweeps(run_id)`,

		`CREATE TABLE IF NOT EXISTS drawdown_episodes (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id           TEXT NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
			peak_ts          INTEGER,
			peak_value       REAL,
			trough_ts        INTEGER,
			trough_value     REAL,
			recovery_ts      INTEGER,
			recovery_value   REAL,
			drawdown_pct     REAL,
			days_to_trough   INTEGER,
			days_to_recovery INTEGER,
			is_open          INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_episodes_run ON drawdown_episodes(run_id)`,

		`CREATE TABLE IF NOT EXISTS alerts (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
			timestamp INTEGER NOT NULL,
			symbol    TEXT,
			kind      TEXT,
			severity  TEXT,
			value     REAL,
			message   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_ts ON alerts(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func unixOrNull(t time.Time) null.Int {
	if t.IsZero() {
		return null.Int{}
	}
	return null.IntFrom(t.Unix())
}

func (r *SQLiteRecorder) RecordRun(trigger Trigger, rep *model.Report, a *model.Assessment) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	now := time.Now().Unix()

	var openDD null.Float
	if ep, ok := rep.OpenEpisode(); ok {
		openDD = null.FloatFrom(ep.DrawdownPct)
	}
	var score null.Float
	var condition null.String
	if a != nil {
		score = null.FloatFrom(a.TotalScore)
		condition = null.StringFrom(a.Condition)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO analysis_runs
		(id, timestamp, symbol, trigger_type, range_start, range_end, observations,
		 window_days, threshold, direction, events, defined, probability,
		 latest_price, rsi_14, drawdown, max_drawdown_pct, open_drawdown_pct,
		 total_score, condition_label)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, now, rep.Symbol, string(trigger), unixOrNull(rep.Start), unixOrNull(rep.End), rep.Observations,
		rep.Event.WindowDays, rep.Event.Threshold, string(rep.Event.Direction),
		rep.Event.Events, rep.Event.Defined, rep.Event.Probability,
		rep.Latest.CurrentPrice, rep.Latest.RSI14, rep.Latest.Drawdown,
		rep.Drawdowns.MaxDrawdownPct, openDD, score, condition,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, s := range rep.Sweep {
		if _, err := tx.Exec(`INSERT INTO event_sweeps
			(run_id, window_days, threshold, direction, events, defined, probability)
			VALUES (?,?,?,?,?,?,?)`,
			id, s.WindowDays, s.Threshold, string(s.Direction), s.Events, s.Defined, s.Probability,
		); err != nil {
			return "", fmt.Errorf("insert sweep: %w", err)
		}
	}

	for _, ep := range rep.Episodes {
		var recoveryTS null.Int
		if ep.RecoveryDate.Valid {
			recoveryTS = null.IntFrom(ep.RecoveryDate.Time.Unix())
		}
		if _, err := tx.Exec(`INSERT INTO drawdown_episodes
			(run_id, peak_ts, peak_value, trough_ts, trough_value, recovery_ts, recovery_value,
			 drawdown_pct, days_to_trough, days_to_recovery, is_open)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			id, ep.PeakDate.Unix(), ep.PeakValue, ep.TroughDate.Unix(), ep.TroughValue,
			recoveryTS, ep.RecoveryValue, ep.DrawdownPct, ep.DaysToTrough, ep.DaysToRecovery, boolInt(ep.Open),
		); err != nil {
			return "", fmt.Errorf("insert episode: %w", err)
		}
	}

	if a != nil {
		for _, al := range a.Alerts {
			if _, err := tx.Exec(`INSERT INTO alerts
				(run_id, timestamp, symbol, kind, severity, value, message)
				VALUES (?,?,?,?,?,?,?)`,
				id, now, al.Symbol, string(al.Kind), string(al.Severity), al.Value, al.Message,
			); err != nil {
				return "", fmt.Errorf("insert alert: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

func (r *SQLiteRecorder) RecentRuns(symbol string, limit int) ([]RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT
			ar.id, ar.symbol, ar.trigger_type, ar.timestamp, ar.observations,
			ar.window_days, ar.threshold, ar.direction, ar.events, ar.defined, ar.probability,
			ar.latest_price, ar.max_drawdown_pct, ar.open_drawdown_pct,
			ar.total_score, ar.condition_label,
			(SELECT COUNT(*) FROM alerts al WHERE al.run_id = ar.id)
		FROM analysis_runs ar
		WHERE ar.symbol = ?
		ORDER BY ar.timestamp DESC, ar.rowid DESC
		LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			s         RunSummary
			trigger   string
			ts        int64
			score     null.Float
			condition null.String
		)
		if err := rows.Scan(&s.ID, &s.Symbol, &trigger, &ts, &s.Observations,
			&s.WindowDays, &s.Threshold, &s.Direction, &s.Events, &s.Defined, &s.Probability,
			&s.LatestPrice, &s.MaxDrawdownPct, &s.OpenDrawdownPct,
			&score, &condition, &s.Alerts); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.Trigger = Trigger(trigger)
		s.RanAt = time.Unix(ts, 0).UTC()
		s.Score = score.ValueOrZero()
		s.Condition = condition.ValueOrZero()
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	logger.Info("closing sqlite recorder")
	return r.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
