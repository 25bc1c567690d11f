package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, "SPX", cfg.DataSource.Symbol)
	assert.Equal(t, 5, cfg.Analysis.WindowDays)
	assert.Equal(t, 0.03, cfg.Analysis.Threshold)
	assert.Equal(t, "drop", cfg.Analysis.Direction)
	assert.Equal(t, "0 0 8 * * 1", cfg.Schedule.WeeklyCron)
	assert.Equal(t, "data/alert_state.json", cfg.Alerts.StateFile)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
telegram:
  enabled: true
  bot_token: file-token
  chat_id: "123"
data_source:
  provider: csv
  csv_path: data/spx.csv
  symbol: NDX
analysis:
  window_days: 10
  threshold: 0.05
  direction: gain
  sweep: [0.01, 0.02]
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("ANALYSIS_WINDOW_DAYS", "20")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Telegram.BotToken)
	assert.Equal(t, "123", cfg.Telegram.ChatID)
	assert.Equal(t, "csv", cfg.DataSource.Provider)
	assert.Equal(t, "NDX", cfg.DataSource.Symbol)
	assert.Equal(t, 20, cfg.Analysis.WindowDays)
	assert.Equal(t, 0.05, cfg.Analysis.Threshold)
	assert.Equal(t, []float64{0.01, 0.02}, cfg.Analysis.Sweep)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ExplicitZeroKept(t *testing.T) {
	path := writeConfig(t, `
telegram:
  retries: 0
data_source:
  requests_per_second: 0
analysis:
  threshold: 0
  min_drawdown_pct: 0
alerts:
  move_threshold: 0
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Analysis.Threshold)
	assert.Equal(t, 0.0, cfg.Analysis.MinDrawdownPct)
	assert.Equal(t, 0.0, cfg.Alerts.MoveThreshold)
	assert.Equal(t, 0, cfg.Telegram.Retries)
	assert.Equal(t, 0.0, cfg.DataSource.RequestsPerSecond)
	assert.Equal(t, 0.05, cfg.Alerts.DrawdownPct, "unset fields keep their defaults")
	assert.Equal(t, 5, cfg.Analysis.WindowDays)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "telegram: [oops"))
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"telegram needs token", func(c *Config) { c.Telegram.Enabled = true; c.Telegram.ChatID = "1" }, "Telegram.BotToken"},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "ftp" }, "DataSource.Provider"},
		{"rest needs base url", func(c *Config) { c.DataSource.Provider = "rest" }, "DataSource.BaseURL"},
		{"csv needs path", func(c *Config) { c.DataSource.Provider = "csv" }, "DataSource.CSVPath"},
		{"threshold above one", func(c *Config) { c.Analysis.Threshold = 3 }, "Analysis.Threshold"},
		{"bad direction", func(c *Config) { c.Analysis.Direction = "sideways" }, "Analysis.Direction"},
		{"bad sweep entry", func(c *Config) { c.Analysis.Sweep = []float64{0.01, -1} }, "Analysis.Sweep[1]"},
		{"rsi bounds crossed", func(c *Config) { c.Alerts.RSIOversold = 80 }, "rsi_oversold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
