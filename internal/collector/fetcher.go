// Package collector turns raw market records from remote APIs, CSV files
// or fixtures into a validated series ready for analysis.
package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"IndexSentinel/internal/model"
)

// Ingestion errors.
var (
	ErrEmptyInput    = errors.New("no records")
	ErrTooFewColumns = errors.New("need at least two columns")
	ErrNoDateColumn  = errors.New("no column parses as dates")
	ErrNoValueColumn = errors.New("no column parses as numbers")
)

// Fetcher loads the daily series of one symbol. days bounds the number of
// most recent observations returned; zero or less means everything available.
type Fetcher interface {
	Fetch(ctx context.Context, symbol string, days int) (*model.Ingest, error)
	Name() string
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// newLimiter allows rps requests per second; rps <= 0 disables limiting.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// tail keeps the last n observations of an ingest; n <= 0 keeps all.
func tail(in *model.Ingest, n int) *model.Ingest {
	if n > 0 && len(in.Series) > n {
		in.Series = in.Series[len(in.Series)-n:]
	}
	return in
}
