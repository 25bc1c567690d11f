package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		Enabled  bool   `yaml:"enabled"`
		BotToken string `yaml:"bot_token" validate:"required_if=Enabled true"`
		ChatID   string `yaml:"chat_id" validate:"required_if=Enabled true"`
		Retries  int    `yaml:"retries" validate:"gte=0,lte=10"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider          string  `yaml:"provider" validate:"oneof=yahoo rest csv mock"`
		BaseURL           string  `yaml:"base_url" validate:"required_if=Provider rest"`
		APIKey            string  `yaml:"api_key"`
		Symbol            string  `yaml:"symbol" validate:"required"`
		CSVPath           string  `yaml:"csv_path" validate:"required_if=Provider csv"`
		LookbackDays      int     `yaml:"lookback_days" validate:"gte=0"` // observations, not calendar days
		RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gte=0"`
	} `yaml:"data_source"`
	Analysis struct {
		WindowDays     int       `yaml:"window_days" validate:"gte=1,lte=3650"`
		Threshold      float64   `yaml:"threshold" validate:"gte=0,lte=1"`
		Direction      string    `yaml:"direction" validate:"oneof=drop gain"`
		MinDrawdownPct float64   `yaml:"min_drawdown_pct" validate:"gte=0,lte=1"`
		Range          string    `yaml:"range" validate:"oneof=all ytd 1y 3y 6m"`
		Sweep          []float64 `yaml:"sweep" validate:"dive,gte=0,lte=1"`
	} `yaml:"analysis"`
	Alerts struct {
		MoveThreshold float64 `yaml:"move_threshold" validate:"gte=0,lte=1"`
		DrawdownPct   float64 `yaml:"drawdown_pct" validate:"gte=0,lte=1"`
		RSIOverbought float64 `yaml:"rsi_overbought" validate:"gte=0,lte=100"`
		RSIOversold   float64 `yaml:"rsi_oversold" validate:"gte=0,lte=100"`
		StateFile     string  `yaml:"state_file"`
	} `yaml:"alerts"`
	Schedule struct {
		DailyCron  string `yaml:"daily_cron" validate:"required"`
		WeeklyCron string `yaml:"weekly_cron" validate:"required"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Logging struct {
		Level  string `yaml:"level" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" validate:"oneof=text json"`
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides and fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already set in the environment
	_ = godotenv.Load()

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str("TELEGRAM_BOT_TOKEN", &cfg.Telegram.BotToken)
	str("TELEGRAM_CHAT_ID", &cfg.Telegram.ChatID)
	str("DATA_PROVIDER", &cfg.DataSource.Provider)
	str("DATA_BASE_URL", &cfg.DataSource.BaseURL)
	str("DATA_API_KEY", &cfg.DataSource.APIKey)
	str("INDEX_SYMBOL", &cfg.DataSource.Symbol)
	str("CSV_PATH", &cfg.DataSource.CSVPath)
	str("HTTPS_PROXY", &cfg.Proxy)
	str("CRON_DAILY", &cfg.Schedule.DailyCron)
	str("CRON_WEEKLY", &cfg.Schedule.WeeklyCron)
	str("SQLITE_PATH", &cfg.Database.SQLitePath)
	str("LOG_LEVEL", &cfg.Logging.Level)

	if v := os.Getenv("TELEGRAM_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Telegram.Enabled = b
		}
	}
	if v := os.Getenv("ANALYSIS_WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.WindowDays = n
		}
	}
	if v := os.Getenv("ANALYSIS_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.Threshold = f
		}
	}
}

// setDefaults fills numeric fields before the file is read, so an explicit
// zero in YAML or the environment survives.
func setDefaults(cfg *Config) {
	cfg.Telegram.Retries = 3
	cfg.DataSource.LookbackDays = 3650
	cfg.DataSource.RequestsPerSecond = 1
	cfg.Analysis.WindowDays = 5
	cfg.Analysis.Threshold = 0.03
	cfg.Analysis.MinDrawdownPct = 0.05
	cfg.Alerts.MoveThreshold = 0.05
	cfg.Alerts.DrawdownPct = 0.05
	cfg.Alerts.RSIOverbought = 70
	cfg.Alerts.RSIOversold = 30
}

// applyDefaults fills string fields left empty by the file and environment.
func applyDefaults(cfg *Config) {
	if cfg.Analysis.WindowDays == 0 {
		cfg.Analysis.WindowDays = 5
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "SPX"
	}
	if cfg.Analysis.Direction == "" {
		cfg.Analysis.Direction = "drop"
	}
	if cfg.Analysis.Range == "" {
		cfg.Analysis.Range = "all"
	}
	if cfg.Alerts.StateFile == "" {
		cfg.Alerts.StateFile = "data/alert_state.json"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 30 22 * * 1-5"
	}
	if cfg.Schedule.WeeklyCron == "" {
		cfg.Schedule.WeeklyCron = "0 0 8 * * 1"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/index_sentinel.db"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		if c.Alerts.RSIOversold >= c.Alerts.RSIOverbought {
			return fmt.Errorf("alerts.rsi_oversold (%.0f) must be below alerts.rsi_overbought (%.0f)",
				c.Alerts.RSIOversold, c.Alerts.RSIOverbought)
		}
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
