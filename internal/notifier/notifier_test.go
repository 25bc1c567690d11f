package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"IndexSentinel/internal/model"
	"IndexSentinel/internal/recorder"
)

type fakeSender struct {
	fails int
	sent  []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.fails > 0 {
		f.fails--
		return tgbotapi.Message{}, errors.New("telegram down")
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func newTestNotifier(s *fakeSender) *TelegramNotifier {
	return &TelegramNotifier{sender: s, chatID: 42, retryBase: time.Millisecond}
}

func TestSend_UsesHTML(t *testing.T) {
	s := &fakeSender{}
	require.NoError(t, newTestNotifier(s).Send("<b>hi</b>"))
	require.Len(t, s.sent, 1)
	assert.Equal(t, int64(42), s.sent[0].ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, s.sent[0].ParseMode)
}

func TestSendWithRetry(t *testing.T) {
	s := &fakeSender{fails: 2}
	require.NoError(t, newTestNotifier(s).SendWithRetry(context.Background(), "x", 3))
	assert.Len(t, s.sent, 1)

	s = &fakeSender{fails: 10}
	err := newTestNotifier(s).SendWithRetry(context.Background(), "x", 2)
	assert.ErrorContains(t, err, "all 3 attempts failed")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s = &fakeSender{fails: 10}
	n := newTestNotifier(s)
	n.retryBase = time.Hour
	assert.ErrorIs(t, n.SendWithRetry(ctx, "x", 3), context.Canceled)
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	text := "aaaa\nbbbb\ncccc\n"
	parts := splitMessage(text, 10)
	assert.Equal(t, []string{"aaaa\nbbbb\n", "cccc\n"}, parts)
	assert.Equal(t, text, strings.Join(parts, ""))

	long := strings.Repeat("x", 25)
	parts = splitMessage(long, 10)
	assert.Equal(t, []string{"xxxxxxxxxx", "xxxxxxxxxx", "xxxxx"}, parts)
}

func sampleReport() *model.Report {
	peak := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	return &model.Report{
		Symbol:       "S&P",
		GeneratedAt:  peak.AddDate(0, 0, 3),
		Start:        peak.AddDate(0, 0, -30),
		End:          peak.AddDate(0, 0, 2),
		Observations: 25,
		Event:        model.EventSummary{WindowDays: 5, Threshold: 0.03, Direction: model.DirectionDrop, Events: 2, Defined: 20, Probability: 0.1},
		Latest:       model.MarketIndicators{CurrentPrice: 4700, RSI14: null.FloatFrom(41.5)},
		Episodes: []model.Episode{{
			PeakDate: peak, PeakValue: 4800, TroughDate: peak.AddDate(0, 0, 2), TroughValue: 4700,
			DrawdownPct: 4700.0/4800 - 1, DaysToTrough: 2, Open: true,
		}},
		Drawdowns: model.DrawdownSummary{Episodes: 1, Open: 1, MaxDrawdownPct: 4700.0/4800 - 1, AvgDrawdownPct: 4700.0/4800 - 1},
	}
}

func TestFormatReport(t *testing.T) {
	a := &model.Assessment{
		Factors:    []model.FactorScore{{Name: "Momentum", RawScore: 0.5, Weight: 0.3, Weighted: 0.15, Commentary: "RSI 41.5"}},
		TotalScore: 0.15,
		Condition:  "Neutral",
		Alerts:     []model.Alert{{Severity: model.SeverityWarning, Message: "a < b"}},
	}
	msg := FormatReport(sampleReport(), a)
	assert.Contains(t, msg, "S&amp;P analysis")
	assert.Contains(t, msg, "5 days and 3% minimum percentage drop")
	assert.Contains(t, msg, "2 of 20 windows (10.0%)")
	assert.Contains(t, msg, "RSI(14): 41.5")
	assert.Contains(t, msg, "SMA5 / SMA20: n/a / n/a")
	assert.Contains(t, msg, "open: -2.08%")
	assert.Contains(t, msg, "a &lt; b")
	assert.Contains(t, msg, "<b>Neutral</b>")
}

func TestFormatReport_Empty(t *testing.T) {
	msg := FormatReport(&model.Report{Symbol: "X"}, nil)
	assert.Contains(t, msg, "No observations")
}

func TestFormatEpisodes(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }
	eps := []model.Episode{
		{PeakDate: d(1), PeakValue: 100, TroughDate: d(4), TroughValue: 85, DrawdownPct: -0.15, DaysToTrough: 3,
			RecoveryDate: null.TimeFrom(d(6)), RecoveryValue: null.FloatFrom(101), DaysToRecovery: null.IntFrom(5)},
		{PeakDate: d(6), PeakValue: 101, TroughDate: d(7), TroughValue: 99, DrawdownPct: 99.0/101 - 1, DaysToTrough: 1, Open: true},
	}
	msg := FormatEpisodes("SPX", eps, 1)
	assert.Contains(t, msg, "open")
	assert.NotContains(t, msg, "recovered")
	assert.Contains(t, msg, "1 earlier episodes")

	all := FormatEpisodes("SPX", eps, 0)
	assert.Contains(t, all, "recovered 2024-01-06 after 5")
	assert.Less(t, strings.Index(all, "2024-01-06 101.00"), strings.Index(all, "2024-01-01 100.00"), "newest first")

	assert.Contains(t, FormatEpisodes("SPX", nil, 5), "No drawdown episodes")
}

func TestFormatSweepAndHistory(t *testing.T) {
	sweep := []model.EventSummary{
		{WindowDays: 5, Threshold: 0.01, Direction: model.DirectionGain, Events: 10, Defined: 20, Probability: 0.5},
		{WindowDays: 5, Threshold: 0.02, Direction: model.DirectionGain, Events: 4, Defined: 20, Probability: 0.2},
	}
	msg := FormatSweep("SPX", sweep)
	assert.Contains(t, msg, "5-day gain windows")
	assert.Contains(t, msg, "<pre>")
	assert.Contains(t, msg, "50.00%")

	runs := []recorder.RunSummary{{
		RanAt: time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC), Trigger: recorder.TriggerDaily,
		LatestPrice: 4800, Events: 3, Defined: 100, MaxDrawdownPct: -0.1, Condition: "Neutral", Alerts: 2,
	}}
	hist := FormatHistory("SPX", runs)
	assert.Contains(t, hist, "2024-02-01 09:30 DAILY: 4800.00, 3/100 events, max dd -10.00%, Neutral, 2 alerts")
	assert.Contains(t, FormatHistory("SPX", nil), "No recorded runs")
}
