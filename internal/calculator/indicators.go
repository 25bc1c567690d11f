package calculator

import (
	"time"

	"IndexSentinel/internal/model"
)

// Indicator windows.
const (
	smaFast      = 5
	smaSlow      = 20
	emaFast      = 12
	emaSlow      = 26
	macdSignal   = 9
	rsiPeriod    = 14
	bandWindow   = 20
	bandK        = 2.0
	volShort     = 20
	volLong      = 60
	localDDRange = 20
)

// DeriveIndicators builds the full indicator frame for series. ret_5 and
// ret_10 use calendar-day windows; every other channel counts observations.
func DeriveIndicators(series model.Series) *model.IndicatorFrame {
	values := series.Values()
	price := toNull(values)

	f := &model.IndicatorFrame{
		Dates: make([]time.Time, len(series)),
		Price: price,
	}
	copy(f.Dates, series.Dates())

	f.Ret1 = PctChange(values, 1)
	f.Ret5 = WindowedReturns(series, 5)
	f.Ret10 = WindowedReturns(series, 10)
	f.Mom10 = alias(f.Ret10)

	f.Vol20 = rollingStd(f.Ret1, volShort)
	f.Vol60 = rollingStd(f.Ret1, volLong)

	f.SMA5 = SMA(price, smaFast)
	f.SMA20 = SMA(price, smaSlow)
	f.EMA12 = EMA(price, emaFast)
	f.EMA26 = EMA(price, emaSlow)

	f.MACD = combine(f.EMA12, f.EMA26, sub)
	f.MACDSignal = EMA(f.MACD, macdSignal)
	f.MACDHist = combine(f.MACD, f.MACDSignal, sub)

	f.RSI14 = RSI(price, rsiPeriod)

	bb := Bollinger(price, bandWindow, bandK)
	f.BBMid, f.BBUpper, f.BBLower = bb.Mid, bb.Upper, bb.Lower
	f.BBWidth, f.BBPos = bb.Width, bb.Position

	f.CumMax = cumMax(price)
	f.Drawdown = combine(price, f.CumMax, ratioLessOne)
	f.Drawdown20 = combine(price, rollingMax(price, localDDRange), ratioLessOne)
	f.DrawdownSpeed = diff(f.Drawdown)

	f.SMAGap5x20 = combine(f.SMA5, f.SMA20, ratioLessOne)
	f.EMAGap12x26 = combine(f.EMA12, f.EMA26, ratioLessOne)

	return f
}
