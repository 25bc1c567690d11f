package model

import "time"

// OHLCV represents a single candlestick bar as returned by remote sources.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Observation is one (date, value) record of an index series.
type Observation struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Series is an ascending, one-record-per-day sequence of observations.
type Series []Observation

// Len returns the number of observations.
func (s Series) Len() int { return len(s) }

// Values returns the observation values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, o := range s {
		out[i] = o.Value
	}
	return out
}

// Dates returns the observation timestamps in order.
func (s Series) Dates() []time.Time {
	out := make([]time.Time, len(s))
	for i, o := range s {
		out[i] = o.Time
	}
	return out
}

// Clone returns an independent copy of the series.
func (s Series) Clone() Series {
	if s == nil {
		return nil
	}
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// FromBars converts candlestick bars to a close-price series.
func FromBars(bars []OHLCV) Series {
	out := make(Series, len(bars))
	for i, b := range bars {
		out[i] = Observation{Time: b.Time, Value: b.Close}
	}
	return out
}

// Ingest is the result of handing raw records to the ingestion layer.
type Ingest struct {
	Symbol    string
	Series    Series
	Total     int // records seen before validation
	Dropped   int // records rejected by parsing or validation
	Merged    int // records superseded by a later record on the same day
	FetchedAt time.Time
}

// DroppedFraction reports the share of records rejected during ingestion.
func (in *Ingest) DroppedFraction() float64 {
	if in.Total == 0 {
		return 0
	}
	return float64(in.Dropped) / float64(in.Total)
}
