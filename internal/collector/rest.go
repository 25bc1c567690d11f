package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"IndexSentinel/internal/model"
)

// RESTFetcher implements Fetcher against a generic bars endpoint:
// GET {base}/api/v1/bars/daily?symbol=..&limit=.. returning a JSON array.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	limiter *rate.Limiter
}

// NewRESTFetcher creates a fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, rps float64) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
		limiter: newLimiter(rps),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape of one bar.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (f *RESTFetcher) Fetch(ctx context.Context, symbol string, days int) (*model.Ingest, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rest rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	if days > 0 {
		params.Set("limit", strconv.Itoa(days))
	}
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?%s", f.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}

	var bars []restBar
	if err := json.NewDecoder(resp.Body).Decode(&bars); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	ohlcv := make([]model.OHLCV, len(bars))
	for i, b := range bars {
		ohlcv[i] = model.OHLCV{
			Time:   time.Unix(b.Timestamp, 0).UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	return tail(NormalizeBars(symbol, ohlcv), days), nil
}
