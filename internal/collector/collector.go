package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"IndexSentinel/internal/calendar"
	"IndexSentinel/internal/logger"
	"IndexSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Data  model.Series
	Err   error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(_ context.Context, symbol string, days int) (*model.Ingest, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Data != nil {
		return tail(Normalize(symbol, m.Data), days), nil
	}
	if days <= 0 {
		days = 300
	}
	return Normalize(symbol, generateMockSeries(m.Price, days)), nil
}

// generateMockSeries produces count weekday observations ending yesterday,
// oscillating around basePrice.
func generateMockSeries(basePrice float64, count int) model.Series {
	out := make(model.Series, count)
	d := calendar.Day(time.Now()).AddDate(0, 0, -1)
	for i := count - 1; i >= 0; i-- {
		for calendar.IsWeekend(d) {
			d = d.AddDate(0, 0, -1)
		}
		wave := math.Sin(float64(i)/9) * 0.04
		drift := float64(i-count/2) * 0.0005
		out[i] = model.Observation{Time: d, Value: basePrice * (1 + wave + drift)}
		d = d.AddDate(0, 0, -1)
	}
	return out
}

// Collector fetches a symbol's series and vets the ingest.
type Collector struct {
	Fetcher  Fetcher
	Symbol   string
	Lookback int
	// MaxDropped is the dropped share above which a warning is logged.
	MaxDropped float64
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol string, lookback int) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, Lookback: lookback, MaxDropped: 0.05}
}

// Collect fetches the configured symbol.
func (c *Collector) Collect(ctx context.Context) (*model.Ingest, error) {
	return c.CollectSymbol(ctx, c.Symbol)
}

// CollectSymbol fetches any symbol through the configured source.
func (c *Collector) CollectSymbol(ctx context.Context, symbol string) (*model.Ingest, error) {
	in, err := c.Fetcher.Fetch(ctx, symbol, c.Lookback)
	if err != nil {
		return nil, fmt.Errorf("fetch %s from %s: %w", symbol, c.Fetcher.Name(), err)
	}
	if len(in.Series) == 0 {
		return nil, fmt.Errorf("fetch %s from %s: %w", symbol, c.Fetcher.Name(), ErrEmptyInput)
	}

	if frac := in.DroppedFraction(); frac > c.MaxDropped {
		logger.Warn("%s: dropped %d of %d records (%.1f%%)", symbol, in.Dropped, in.Total, frac*100)
	}
	if in.Merged > 0 {
		logger.Debug("%s: merged %d same-day records", symbol, in.Merged)
	}
	logger.Info("%s: %d observations from %s (%s .. %s)", symbol, len(in.Series), c.Fetcher.Name(),
		in.Series[0].Time.Format("2006-01-02"), in.Series[len(in.Series)-1].Time.Format("2006-01-02"))
	return in, nil
}
