package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"IndexSentinel/internal/alert"
	"IndexSentinel/internal/calculator"
	"IndexSentinel/internal/calendar"
	"IndexSentinel/internal/collector"
	"IndexSentinel/internal/config"
	"IndexSentinel/internal/logger"
	"IndexSentinel/internal/model"
	"IndexSentinel/internal/notifier"
	"IndexSentinel/internal/recorder"
	"IndexSentinel/internal/scheduler"
)

type options struct {
	configPath  string
	csvPath     string
	comparePath string
	symbol      string
	once        bool
	window      int
	threshold   float64
	direction   string
	rangeName   string
	from        string
	to          string
	snapMonth   bool
	minDD       float64
	frame       bool
}

// oneShotOutput is what -once and -csv print on stdout.
type oneShotOutput struct {
	Report       *model.Report          `json:"report"`
	Assessment   *model.Assessment      `json:"assessment"`
	Ingest       ingestStats            `json:"ingest"`
	Cross        *model.CrossReport     `json:"cross,omitempty"`
	TradeWindows []calendar.TradeWindow `json:"trade_windows,omitempty"`
}

type ingestStats struct {
	Source          string  `json:"source"`
	Total           int     `json:"total"`
	Dropped         int     `json:"dropped"`
	Merged          int     `json:"merged"`
	DroppedFraction float64 `json:"dropped_fraction"`
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "configs/config.yaml", "path to the YAML config")
	flag.StringVar(&opts.csvPath, "csv", "", "analyse a (date, value) CSV file and print the report")
	flag.StringVar(&opts.comparePath, "compare", "", "second CSV to correlate windowed returns with")
	flag.StringVar(&opts.symbol, "symbol", "", "index symbol (overrides config)")
	flag.BoolVar(&opts.once, "once", false, "fetch from the configured source, print the report and exit")
	flag.IntVar(&opts.window, "window", 0, "window length in calendar days")
	flag.Float64Var(&opts.threshold, "threshold", -1, "event threshold as a fraction (0.03 = 3%)")
	flag.StringVar(&opts.direction, "direction", "", "drop or gain")
	flag.StringVar(&opts.rangeName, "range", "", "all, ytd, 1y, 3y, 6m")
	flag.StringVar(&opts.from, "from", "", "custom range start (YYYY-MM-DD)")
	flag.StringVar(&opts.to, "to", "", "custom range end (YYYY-MM-DD)")
	flag.BoolVar(&opts.snapMonth, "snap-month", false, "widen the range to whole months")
	flag.Float64Var(&opts.minDD, "min-drawdown", -1, "minimum episode depth as a fraction")
	flag.BoolVar(&opts.frame, "frame", false, "include returns, indicator frame and trade windows in the output")
	flag.Parse()

	if v := os.Getenv("CONFIG_PATH"); v != "" && opts.configPath == "configs/config.yaml" {
		opts.configPath = v
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		logger.Fatal("load config: %v", err)
	}
	if opts.csvPath != "" {
		cfg.DataSource.Provider = "csv"
		cfg.DataSource.CSVPath = opts.csvPath
	}
	if opts.symbol != "" {
		cfg.DataSource.Symbol = opts.symbol
	}
	oneShot := opts.once || opts.csvPath != ""
	if oneShot {
		cfg.Telegram.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("config validation: %v", err)
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("IndexSentinel starting...")

	params, err := analysisParams(cfg, opts)
	if err != nil {
		logger.Fatal("%v", err)
	}
	rules := alert.Rules{
		WindowDays:    params.WindowDays,
		MoveThreshold: cfg.Alerts.MoveThreshold,
		Direction:     params.Direction,
		DrawdownPct:   cfg.Alerts.DrawdownPct,
		RSIOverbought: cfg.Alerts.RSIOverbought,
		RSIOversold:   cfg.Alerts.RSIOversold,
	}

	fetcher := newFetcher(cfg)
	logger.Info("data source: %s", fetcher.Name())
	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol, cfg.DataSource.LookbackDays)

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop: %v", err)
		} else {
			rec = sr
		}
	}
	defer rec.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if oneShot {
		if err := runOnce(ctx, col, rec, params, rules, opts); err != nil {
			logger.Error("%v", err)
			rec.Close()
			os.Exit(1)
		}
		return
	}

	var tn *notifier.TelegramNotifier
	var n scheduler.Notifier
	if cfg.Telegram.Enabled {
		tn, err = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		if err != nil {
			logger.Fatal("init telegram: %v", err)
		}
		n = tn
	} else {
		logger.Warn("telegram disabled, notifications are only logged")
	}

	sched := scheduler.NewScheduler(ctx, col, n, rec, params, rules)
	sched.Retries = cfg.Telegram.Retries
	if tr, err := alert.NewTracker(cfg.Alerts.StateFile); err != nil {
		logger.Warn("load alert state failed, alerts will repeat: %v", err)
	} else {
		sched.Tracker = tr
	}
	if err := sched.RegisterAll(cfg.Schedule.DailyCron, cfg.Schedule.WeeklyCron); err != nil {
		logger.Fatal("register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info("RUN_ON_START enabled, executing weekly task now")
		go sched.RunWeeklyNow()
	}

	logger.Info("IndexSentinel is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received, stopping...")
	cancel()
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	ds := cfg.DataSource
	switch ds.Provider {
	case "csv":
		return collector.NewCSVFetcher(ds.CSVPath)
	case "rest":
		return collector.NewRESTFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy, ds.RequestsPerSecond)
	case "mock":
		return &collector.MockFetcher{Price: 5000}
	default:
		return collector.NewYahooFetcher(cfg.Proxy, ds.RequestsPerSecond)
	}
}

func analysisParams(cfg *config.Config, opts options) (model.AnalysisParams, error) {
	a := cfg.Analysis
	p := model.AnalysisParams{
		WindowDays:     a.WindowDays,
		Threshold:      a.Threshold,
		MinDrawdownPct: a.MinDrawdownPct,
		Sweep:          a.Sweep,
		RangePreset:    a.Range,
		SnapMonth:      opts.snapMonth,
	}
	dir := a.Direction
	if opts.direction != "" {
		dir = opts.direction
	}
	d, err := model.ParseDirection(dir)
	if err != nil {
		return p, err
	}
	p.Direction = d

	if opts.window > 0 {
		p.WindowDays = opts.window
	}
	if opts.threshold >= 0 {
		p.Threshold = opts.threshold
	}
	if opts.minDD >= 0 {
		p.MinDrawdownPct = opts.minDD
	}
	if opts.rangeName != "" {
		p.RangePreset = opts.rangeName
	}
	if opts.from != "" || opts.to != "" {
		p.RangePreset = calculator.RangeCustom
		if p.RangeStart, err = parseDay(opts.from); err != nil {
			return p, err
		}
		if p.RangeEnd, err = parseDay(opts.to); err != nil {
			return p, err
		}
	}
	return p, nil
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

func runOnce(ctx context.Context, col *collector.Collector, rec recorder.Recorder,
	params model.AnalysisParams, rules alert.Rules, opts options) error {
	in, err := col.Collect(ctx)
	if err != nil {
		return err
	}
	report := calculator.Analyze(col.Symbol, in.Series, params)
	assessment := alert.Assess(report, rules)
	if _, err := rec.RecordRun(recorder.TriggerOneShot, report, assessment); err != nil {
		logger.Warn("record run: %v", err)
	}

	out := oneShotOutput{
		Report:     report,
		Assessment: assessment,
		Ingest: ingestStats{
			Source:          col.Fetcher.Name(),
			Total:           in.Total,
			Dropped:         in.Dropped,
			Merged:          in.Merged,
			DroppedFraction: in.DroppedFraction(),
		},
	}
	if opts.frame {
		out.TradeWindows = calendar.BuildTradeWindows(report.Series, params.WindowDays, 0)
	} else {
		report.Frame = nil
		report.Returns = nil
	}

	if opts.comparePath != "" {
		other, err := collector.NewCSVFetcher(opts.comparePath).Fetch(ctx, "compare", 0)
		if err != nil {
			return err
		}
		cross := calculator.CrossAnalyze(report.Series, other.Series, params.WindowDays)
		out.Cross = &cross
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
