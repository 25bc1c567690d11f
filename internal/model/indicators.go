package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// MarketIndicators is the last row of an IndicatorFrame.
type MarketIndicators struct {
	Date         time.Time  `json:"date"`
	CurrentPrice float64    `json:"current_price"`
	SMA5         null.Float `json:"sma_5"`
	SMA20        null.Float `json:"sma_20"`
	EMA12        null.Float `json:"ema_12"`
	EMA26        null.Float `json:"ema_26"`
	MACD         null.Float `json:"macd"`
	MACDSignal   null.Float `json:"macd_sig"`
	RSI14        null.Float `json:"rsi_14"`
	BBUpper      null.Float `json:"bb_up"`
	BBLower      null.Float `json:"bb_lo"`
	BBPosition   null.Float `json:"bb_pos"`
	Vol20        null.Float `json:"vol_20"`
	Drawdown     null.Float `json:"dd"`
	CumMax       null.Float `json:"cum_max"`
}

// IndicatorFrame holds derived series aligned 1:1 with the source series.
// An invalid cell marks an undefined value (warm-up, zero denominator).
type IndicatorFrame struct {
	Dates []time.Time  `json:"dates"`
	Price []null.Float `json:"price"`

	Ret1  []null.Float `json:"ret_1"`
	Ret5  []null.Float `json:"ret_5"`
	Ret10 []null.Float `json:"ret_10"`
	Mom10 []null.Float `json:"mom_10"`

	Vol20 []null.Float `json:"vol_20"`
	Vol60 []null.Float `json:"vol_60"`

	SMA5  []null.Float `json:"sma_5"`
	SMA20 []null.Float `json:"sma_20"`
	EMA12 []null.Float `json:"ema_12"`
	EMA26 []null.Float `json:"ema_26"`

	MACD       []null.Float `json:"macd"`
	MACDSignal []null.Float `json:"macd_sig"`
	MACDHist   []null.Float `json:"macd_hist"`

	RSI14 []null.Float `json:"rsi_14"`

	BBMid   []null.Float `json:"bb_mid"`
	BBUpper []null.Float `json:"bb_up"`
	BBLower []null.Float `json:"bb_lo"`
	BBWidth []null.Float `json:"bb_width"`
	BBPos   []null.Float `json:"bb_pos"`

	CumMax        []null.Float `json:"cum_max"`
	Drawdown      []null.Float `json:"dd"`
	Drawdown20    []null.Float `json:"dd_20"`
	DrawdownSpeed []null.Float `json:"dd_speed"`

	SMAGap5x20  []null.Float `json:"sma_gap_5_20"`
	EMAGap12x26 []null.Float `json:"ema_gap_12_26"`
}

// Column is a named channel of an IndicatorFrame.
type Column struct {
	Name   string
	Values []null.Float
}

// Len returns the number of rows in the frame.
func (f *IndicatorFrame) Len() int { return len(f.Dates) }

// Columns lists every channel in a stable export order.
func (f *IndicatorFrame) Columns() []Column {
	return []Column{
		{"price", f.Price},
		{"ret_1", f.Ret1},
		{"ret_5", f.Ret5},
		{"ret_10", f.Ret10},
		{"mom_10", f.Mom10},
		{"vol_20", f.Vol20},
		{"vol_60", f.Vol60},
		{"sma_5", f.SMA5},
		{"sma_20", f.SMA20},
		{"ema_12", f.EMA12},
		{"ema_26", f.EMA26},
		{"macd", f.MACD},
		{"macd_sig", f.MACDSignal},
		{"macd_hist", f.MACDHist},
		{"rsi_14", f.RSI14},
		{"bb_mid", f.BBMid},
		{"bb_up", f.BBUpper},
		{"bb_lo", f.BBLower},
		{"bb_width", f.BBWidth},
		{"bb_pos", f.BBPos},
		{"cum_max", f.CumMax},
		{"dd", f.Drawdown},
		{"dd_20", f.Drawdown20},
		{"dd_speed", f.DrawdownSpeed},
		{"sma_gap_5_20", f.SMAGap5x20},
		{"ema_gap_12_26", f.EMAGap12x26},
	}
}

// Column looks up a channel by its export name.
func (f *IndicatorFrame) Column(name string) ([]null.Float, bool) {
	for _, c := range f.Columns() {
		if c.Name == name {
			return c.Values, true
		}
	}
	return nil, false
}

// Latest returns the snapshot of the last row. ok is false for an empty frame.
func (f *IndicatorFrame) Latest() (ind MarketIndicators, ok bool) {
	n := f.Len()
	if n == 0 {
		return MarketIndicators{}, false
	}
	i := n - 1
	return MarketIndicators{
		Date:         f.Dates[i],
		CurrentPrice: f.Price[i].ValueOrZero(),
		SMA5:         f.SMA5[i],
		SMA20:        f.SMA20[i],
		EMA12:        f.EMA12[i],
		EMA26:        f.EMA26[i],
		MACD:         f.MACD[i],
		MACDSignal:   f.MACDSignal[i],
		RSI14:        f.RSI14[i],
		BBUpper:      f.BBUpper[i],
		BBLower:      f.BBLower[i],
		BBPosition:   f.BBPos[i],
		Vol20:        f.Vol20[i],
		Drawdown:     f.Drawdown[i],
		CumMax:       f.CumMax[i],
	}, true
}
