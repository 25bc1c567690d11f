package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"IndexSentinel/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	Client    *http.Client
	BaseURL   string
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
	limiter   *rate.Limiter
}

// NewYahooFetcher creates a Yahoo Finance fetcher limited to rps requests per second.
func NewYahooFetcher(proxyURL string, rps float64) *YahooFetcher {
	return &YahooFetcher{
		Client:  newHTTPClient(proxyURL),
		BaseURL: "https://query1.finance.yahoo.com",
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
			"NDX":    "^NDX",
			"DJI":    "^DJI",
		},
		limiter: newLimiter(rps),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooRange picks the smallest chart range holding days observations.
// Trading days are converted to calendar days at 7/5 plus a margin for
// exchange holidays.
func yahooRange(days int) string {
	if days > 0 {
		days = days*7/5 + days/20 + 5
	}
	switch {
	case days <= 0:
		return "max"
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	case days <= 730:
		return "2y"
	case days <= 1825:
		return "5y"
	case days <= 3650:
		return "10y"
	default:
		return "max"
	}
}

func (f *YahooFetcher) Fetch(ctx context.Context, symbol string, days int) (*model.Ingest, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("yahoo rate limit: %w", err)
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), yahooRange(days))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: %w", ErrEmptyInput)
	}

	result := chart.Chart.Result[0]
	var closes []*float64
	if adj := result.Indicators.AdjClose; len(adj) > 0 && len(adj[0].AdjClose) == len(result.Timestamp) {
		closes = adj[0].AdjClose
	} else if len(result.Indicators.Quote) > 0 {
		closes = result.Indicators.Quote[0].Close
	}

	raw := make([]model.Observation, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		v := math.NaN() // null bars (holidays, halts) are dropped by Normalize
		if i < len(closes) && closes[i] != nil {
			v = *closes[i]
		}
		raw[i] = model.Observation{Time: time.Unix(ts, 0).UTC(), Value: v}
	}
	return tail(Normalize(symbol, raw), days), nil
}
