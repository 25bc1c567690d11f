package notifier

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/guregu/null/v6"

	"IndexSentinel/internal/model"
	"IndexSentinel/internal/recorder"
)

const dateLayout = "2006-01-02"

func esc(s string) string { return tgbotapi.EscapeText(tgbotapi.ModeHTML, s) }

func pct(v float64) string { return fmt.Sprintf("%+.2f%%", v*100) }

func pctOrNA(v null.Float) string {
	if !v.Valid {
		return "n/a"
	}
	return pct(v.Float64)
}

func numOrNA(v null.Float, prec int) string {
	if !v.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", prec, v.Float64)
}

// FormatReport formats an analysis report and its assessment into a Telegram message.
func FormatReport(r *model.Report, a *model.Assessment) string {
	var b strings.Builder
	sym := esc(r.Symbol)

	b.WriteString(fmt.Sprintf("📊 <b>%s analysis</b> | %s\n", sym, r.GeneratedAt.Format(dateLayout)))
	if r.Observations == 0 {
		b.WriteString("\nNo observations in range.\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("%s → %s (%d obs)\n\n", r.Start.Format(dateLayout), r.End.Format(dateLayout), r.Observations))

	ind := r.Latest
	b.WriteString(fmt.Sprintf("Last close: %.2f\n", ind.CurrentPrice))
	b.WriteString(fmt.Sprintf("SMA5 / SMA20: %s / %s\n", numOrNA(ind.SMA5, 2), numOrNA(ind.SMA20, 2)))
	b.WriteString(fmt.Sprintf("MACD: %s (signal %s)\n", numOrNA(ind.MACD, 2), numOrNA(ind.MACDSignal, 2)))
	b.WriteString(fmt.Sprintf("RSI(14): %s\n", numOrNA(ind.RSI14, 1)))
	b.WriteString(fmt.Sprintf("Bands: %s – %s\n", numOrNA(ind.BBLower, 2), numOrNA(ind.BBUpper, 2)))
	b.WriteString(fmt.Sprintf("Vol(20): %s | From peak: %s\n\n", pctOrNA(ind.Vol20), pctOrNA(ind.Drawdown)))

	e := r.Event
	b.WriteString(fmt.Sprintf("🎯 <b>%s</b>\n", esc(e.Label())))
	b.WriteString(fmt.Sprintf("   %d of %d windows (%.1f%%)\n", e.Events, e.Defined, e.Probability*100))
	if ret, at, ok := r.LatestReturn(); ok {
		b.WriteString(fmt.Sprintf("   latest window from %s: %s\n", at.Format(dateLayout), pct(ret)))
	}
	b.WriteString("\n")

	d := r.Drawdowns
	b.WriteString("📉 <b>Drawdowns</b>\n")
	b.WriteString(fmt.Sprintf("   episodes: %d (open %d), max %s, avg %s\n",
		d.Episodes, d.Open, pct(d.MaxDrawdownPct), pct(d.AvgDrawdownPct)))
	if d.AvgRecoveryDays.Valid {
		b.WriteString(fmt.Sprintf("   avg recovery: %.1f records\n", d.AvgRecoveryDays.Float64))
	}
	if ep, ok := r.OpenEpisode(); ok {
		b.WriteString(fmt.Sprintf("   open: %s from the %s peak (%.2f)\n", pct(ep.DrawdownPct), ep.PeakDate.Format(dateLayout), ep.PeakValue))
	}

	if a != nil {
		b.WriteString("\n📈 <b>Factor scores:</b>\n")
		for _, f := range a.Factors {
			b.WriteString(fmt.Sprintf("  %s (%s): %+.1f (×%.2f) = %+.3f\n",
				f.Name, esc(f.Commentary), f.RawScore, f.Weight, f.Weighted))
		}
		b.WriteString("  ─────────────────\n")
		b.WriteString(fmt.Sprintf("  Total: %+.3f → <b>%s</b>\n", a.TotalScore, esc(a.Condition)))
		if len(a.Alerts) > 0 {
			b.WriteString("\n")
			b.WriteString(FormatAlerts(r.Symbol, a.Alerts))
		}
	}
	return b.String()
}

func severityIcon(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return "🚨"
	case model.SeverityWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

// FormatAlerts lists fired alerts, one per line.
func FormatAlerts(symbol string, alerts []model.Alert) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔔 <b>%s alerts</b>\n", esc(symbol)))
	if len(alerts) == 0 {
		b.WriteString("No alerts.\n")
		return b.String()
	}
	for _, al := range alerts {
		b.WriteString(fmt.Sprintf("%s %s\n", severityIcon(al.Severity), esc(al.Message)))
	}
	return b.String()
}

// FormatEpisodes lists the most recent limit episodes, newest first.
func FormatEpisodes(symbol string, episodes []model.Episode, limit int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📉 <b>%s drawdowns</b>\n", esc(symbol)))
	if len(episodes) == 0 {
		b.WriteString("No drawdown episodes.\n")
		return b.String()
	}
	if limit <= 0 || limit > len(episodes) {
		limit = len(episodes)
	}
	for i := len(episodes) - 1; i >= len(episodes)-limit; i-- {
		ep := episodes[i]
		line := fmt.Sprintf("%s %.2f → %s %.2f (%s, %dd)",
			ep.PeakDate.Format(dateLayout), ep.PeakValue,
			ep.TroughDate.Format(dateLayout), ep.TroughValue,
			pct(ep.DrawdownPct), ep.DaysToTrough)
		if ep.Open {
			line += " <i>open</i>"
		} else {
			line += fmt.Sprintf(", recovered %s after %d", ep.RecoveryDate.Time.Format(dateLayout), ep.DaysToRecovery.Int64)
		}
		b.WriteString(line + "\n")
	}
	if n := len(episodes) - limit; n > 0 {
		b.WriteString(fmt.Sprintf("… %d earlier episodes\n", n))
	}
	return b.String()
}

// FormatSweep renders the events-by-threshold table.
func FormatSweep(symbol string, sweep []model.EventSummary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🎯 <b>%s events by threshold</b>\n", esc(symbol)))
	if len(sweep) == 0 {
		b.WriteString("No data.\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("%d-day %s windows\n<pre>", sweep[0].WindowDays, sweep[0].Direction))
	for _, s := range sweep {
		b.WriteString(fmt.Sprintf("%5.1f%%  %5d  %6.2f%%\n", s.Threshold*100, s.Events, s.Probability*100))
	}
	b.WriteString("</pre>")
	return b.String()
}

// FormatHistory lists stored analysis runs.
func FormatHistory(symbol string, runs []recorder.RunSummary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>%s history</b>\n", esc(symbol)))
	if len(runs) == 0 {
		b.WriteString("No recorded runs.\n")
		return b.String()
	}
	for _, r := range runs {
		b.WriteString(fmt.Sprintf("%s %s: %.2f, %d/%d events, max dd %s",
			r.RanAt.Format("2006-01-02 15:04"), r.Trigger, r.LatestPrice, r.Events, r.Defined, pct(r.MaxDrawdownPct)))
		if r.Condition != "" {
			b.WriteString(", " + esc(r.Condition))
		}
		if r.Alerts > 0 {
			b.WriteString(fmt.Sprintf(", %d alerts", r.Alerts))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatHelp lists the chat commands.
func FormatHelp() string {
	return "🤖 <b>IndexSentinel commands</b>\n\n" +
		"/analyze [symbol] [window] [threshold%] [drop|gain]\n" +
		"/events [symbol] [window] [drop|gain]\n" +
		"/drawdowns [symbol] [min%]\n" +
		"/history [symbol]\n" +
		"/help"
}
