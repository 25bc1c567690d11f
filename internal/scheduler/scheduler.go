package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/guregu/null/v6"
	"github.com/robfig/cron/v3"

	"IndexSentinel/internal/alert"
	"IndexSentinel/internal/calculator"
	"IndexSentinel/internal/collector"
	"IndexSentinel/internal/logger"
	"IndexSentinel/internal/model"
	"IndexSentinel/internal/notifier"
	"IndexSentinel/internal/recorder"
)

// Notifier delivers formatted messages.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the cron tasks and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Notifier
	Recorder  recorder.Recorder
	Params    model.AnalysisParams
	Rules     alert.Rules
	Tracker   *alert.Tracker // nil delivers every alert on every check
	Retries   int
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. A nil notifier only logs.
func NewScheduler(ctx context.Context, col *collector.Collector, n Notifier, rec recorder.Recorder,
	params model.AnalysisParams, rules alert.Rules) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  n,
		Recorder:  rec,
		Params:    params,
		Rules:     rules,
		Retries:   3,
		Ctx:       ctx,
	}
}

// RegisterAll registers the daily alert check, the weekly report and,
// with a tracker set, the Monday reset of delivered alerts.
func (s *Scheduler) RegisterAll(dailyCron, weeklyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	if _, err := s.Cron.AddFunc(weeklyCron, s.weeklyTask); err != nil {
		return fmt.Errorf("register weekly task: %w", err)
	}
	if s.Tracker != nil {
		if _, err := s.Cron.AddFunc("0 0 0 * * 1", s.Tracker.Reset); err != nil {
			return fmt.Errorf("register alert reset: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logger.Info("scheduler stopped")
}

// RunWeeklyNow executes the weekly task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunWeeklyNow() {
	s.weeklyTask()
}

// Analyze collects symbol, runs the analysis with params, scores it and
// records the run.
func (s *Scheduler) Analyze(ctx context.Context, symbol string, params model.AnalysisParams, trigger recorder.Trigger) (*model.Report, *model.Assessment, error) {
	in, err := s.Collector.CollectSymbol(ctx, symbol)
	if err != nil {
		return nil, nil, err
	}
	report := calculator.Analyze(symbol, in.Series, params)

	rules := s.Rules
	rules.WindowDays = params.WindowDays
	rules.Direction = params.Direction
	assessment := alert.Assess(report, rules)

	if _, err := s.Recorder.RecordRun(trigger, report, assessment); err != nil {
		logger.Error("record %s run: %v", trigger, err)
	}
	return report, assessment, nil
}

func (s *Scheduler) dailyTask() {
	logger.Info("running daily check")
	_, a, err := s.Analyze(s.Ctx, s.Collector.Symbol, s.Params, recorder.TriggerDaily)
	if err != nil {
		logger.Error("daily analysis: %v", err)
		s.trySend(fmt.Sprintf("❌ daily check failed: %v", err))
		return
	}
	alerts := a.Alerts
	if s.Tracker != nil {
		alerts = s.Tracker.Filter(s.Collector.Symbol, alerts)
	}
	if len(alerts) == 0 {
		logger.Info("daily check: no new alerts (%d firing)", len(a.Alerts))
		return
	}
	s.trySend(notifier.FormatAlerts(s.Collector.Symbol, alerts))
}

func (s *Scheduler) weeklyTask() {
	logger.Info("running weekly task")
	r, a, err := s.Analyze(s.Ctx, s.Collector.Symbol, s.Params, recorder.TriggerWeekly)
	if err != nil {
		logger.Error("weekly analysis: %v", err)
		s.trySend(fmt.Sprintf("❌ weekly report failed: %v", err))
		return
	}
	s.trySend(notifier.FormatReport(r, a) + "\n" + notifier.FormatSweep(r.Symbol, r.Sweep))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	name := strings.ToLower(fields[0])
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	args := parseArgs(fields[1:], s.Collector.Symbol, s.Params, name != "/drawdowns" && name != "/dd")

	switch name {
	case "/analyze", "/report":
		r, a, err := s.Analyze(ctx, args.symbol, args.params, recorder.TriggerManual)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatReport(r, a)
	case "/events", "/sweep":
		r, _, err := s.Analyze(ctx, args.symbol, args.params, recorder.TriggerManual)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatSweep(r.Symbol, r.Sweep)
	case "/drawdowns", "/dd":
		params := args.params
		if args.percent.Valid {
			params.MinDrawdownPct = args.percent.Float64
		}
		r, _, err := s.Analyze(ctx, args.symbol, params, recorder.TriggerManual)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatEpisodes(r.Symbol, r.Episodes, 10)
	case "/history":
		runs, err := s.Recorder.RecentRuns(args.symbol, 10)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatHistory(args.symbol, runs)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		logger.Info("notification (no notifier configured):\n%s", text)
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, s.Retries); err != nil {
		logger.Error("send notification: %v", err)
	}
}

// commandArgs are the optional arguments of a chat command, in any order:
// a symbol, a window in days, a percentage and a direction.
type commandArgs struct {
	symbol  string
	params  model.AnalysisParams
	percent null.Float
}

// With windowFirst false every number is read as a percentage.
func parseArgs(tokens []string, defaultSymbol string, defaults model.AnalysisParams, windowFirst bool) commandArgs {
	a := commandArgs{symbol: defaultSymbol, params: defaults}
	windowSet := !windowFirst
	for _, tok := range tokens {
		switch strings.ToLower(tok) {
		case "drop", "down", "gain", "up":
			if dir, err := model.ParseDirection(tok); err == nil {
				a.params.Direction = dir
			}
			continue
		}
		if n, err := strconv.Atoi(tok); err == nil && !windowSet {
			a.params.WindowDays = n
			windowSet = true
			continue
		}
		if f, err := strconv.ParseFloat(strings.TrimSuffix(tok, "%"), 64); err == nil {
			a.percent = null.FloatFrom(f / 100)
			a.params.Threshold = f / 100
			continue
		}
		a.symbol = strings.ToUpper(tok)
	}
	return a
}
