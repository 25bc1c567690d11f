package calendar

import (
	"time"

	"github.com/guregu/null/v6"

	"IndexSentinel/internal/model"
)

// TradeWindow describes the calendar window anchored at one observation.
type TradeWindow struct {
	Start        time.Time `json:"start"`
	LastTradeDay time.Time `json:"last_trade_day"`
	ActualEnd    null.Time `json:"actual_end"` // last day present in data <= LastTradeDay, after Start
}

// BuildTradeWindows lists the resolved window for each observation, up to
// limit rows (limit <= 0 means all).
func BuildTradeWindows(series model.Series, windowDays int, limit int) []TradeWindow {
	if len(series) == 0 {
		return nil
	}
	dates := series.Dates()
	idx := NewTradingDayIndex(dates)

	n := len(series)
	if limit > 0 && limit < n {
		n = limit
	}
	rows := make([]TradeWindow, 0, n)
	for i := 0; i < n; i++ {
		last := ResolveEnd(dates[i], windowDays)
		row := TradeWindow{Start: Day(dates[i]), LastTradeDay: last}
		if j, ok := idx.LastOnOrBefore(last); ok && j > i {
			row.ActualEnd = null.TimeFrom(Day(dates[j]))
		}
		rows = append(rows, row)
	}
	return rows
}
